package handlers

import (
	"context"
	"net/http"
	"strings"

	"github.com/rentmatch/rentmatch-api/internal/domain"
	"github.com/rentmatch/rentmatch-api/internal/http/response"
	"github.com/rentmatch/rentmatch-api/internal/platform/blog"
	"github.com/rentmatch/rentmatch-api/internal/platform/logship"
	"github.com/rentmatch/rentmatch-api/internal/platform/media"
	"github.com/rentmatch/rentmatch-api/internal/platform/payments"
	"github.com/rentmatch/rentmatch-api/internal/repo/postgres"
	"github.com/rentmatch/rentmatch-api/pkg/config"
	"github.com/rentmatch/rentmatch-api/pkg/events"
	"github.com/rentmatch/rentmatch-api/pkg/jobauth"
)

// Multipart parse cap: 10 photos at 4MB plus text fields.
const maxMultipartMemory = 48 << 20

// notifier is what the submission flow needs from the mail dispatcher.
type notifier interface {
	Dispatch(ctx context.Context, ev domain.NotificationEvent) error
	DispatchLogged(ctx context.Context, ev domain.NotificationEvent)
}

type Handlers struct {
	cfg        *config.Config
	properties postgres.PropertiesRepo
	searches   postgres.SearchRepo
	uploader   media.Uploader
	notify     notifier
	queue      events.Publisher // nil when the queue is disabled
	payments   payments.Provider
	shipper    *logship.Shipper
	blog       *blog.Client // nil when no blog is configured
}

func New(
	cfg *config.Config,
	properties postgres.PropertiesRepo,
	searches postgres.SearchRepo,
	uploader media.Uploader,
	notify notifier,
	queue events.Publisher,
	pay payments.Provider,
	shipper *logship.Shipper,
	blogClient *blog.Client,
) *Handlers {
	return &Handlers{
		cfg:        cfg,
		properties: properties,
		searches:   searches,
		uploader:   uploader,
		notify:     notify,
		queue:      queue,
		payments:   pay,
		shipper:    shipper,
		blog:       blogClient,
	}
}

// RequireJobToken guards the background endpoints: only the queue relay
// holds the signing secret.
func (h *Handlers) RequireJobToken(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if !strings.HasPrefix(authHeader, "Bearer ") {
			response.Fail(w, http.StatusUnauthorized, "Missing job token")
			return
		}
		token := strings.TrimPrefix(authHeader, "Bearer ")
		if _, err := jobauth.Parse(token, h.cfg.Jobs.SigningSecret); err != nil {
			response.Fail(w, http.StatusUnauthorized, "Invalid job token")
			return
		}
		next.ServeHTTP(w, r)
	})
}
