// Package payments creates Stripe payment links for listing fees. The
// feature is currently disabled by default (PAYMENTS_ENABLED); the listing
// flow only calls it when switched on.
package payments

import (
	"context"
	"fmt"

	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/client"
)

type Provider interface {
	CreatePaymentLink(ctx context.Context, reference string) (string, error)
}

type StripeProvider struct {
	api     *client.API
	priceID string
}

func NewStripeProvider(secretKey, priceID string) *StripeProvider {
	api := &client.API{}
	api.Init(secretKey, nil)
	return &StripeProvider{api: api, priceID: priceID}
}

func (p *StripeProvider) CreatePaymentLink(ctx context.Context, reference string) (string, error) {
	params := &stripe.PaymentLinkParams{
		Params: stripe.Params{Context: ctx},
		LineItems: []*stripe.PaymentLinkLineItemParams{{
			Price:    stripe.String(p.priceID),
			Quantity: stripe.Int64(1),
		}},
		Metadata: map[string]string{"listing_folder": reference},
	}
	link, err := p.api.PaymentLinks.New(params)
	if err != nil {
		return "", fmt.Errorf("stripe payment link: %w", err)
	}
	return link.URL, nil
}
