package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/rentmatch/rentmatch-api/internal/domain"
)

// PropertiesRepo inserts room listings. Listings are immutable after insert;
// there is deliberately no update or delete.
type PropertiesRepo interface {
	Insert(ctx context.Context, l *domain.RoomListing) (*domain.RoomListing, error)
}

type propertiesRepo struct {
	pool *pgxpool.Pool
}

func NewPropertiesRepo(pool *pgxpool.Pool) PropertiesRepo {
	return &propertiesRepo{pool: pool}
}

func (r *propertiesRepo) Insert(ctx context.Context, l *domain.RoomListing) (*domain.RoomListing, error) {
	const q = `INSERT INTO properties (
		title, city, address, postcode, size, rent,
		registration, pets_allowed, smoking_allowed,
		bills, flatmates, period, description,
		image_urls, folder, payment_link
	) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16)
	RETURNING id, created_at`

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	err := r.pool.QueryRow(ctx, q,
		l.Title, l.City, l.Address, l.Postcode, l.Size, l.Rent,
		l.Registration, l.PetsAllowed, l.SmokingAllowed,
		l.Bills, l.Flatmates, l.Period, l.Description,
		l.ImageURLs, l.Folder, l.PaymentLink,
	).Scan(&l.ID, &l.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("insert property: %w", err)
	}
	return l, nil
}
