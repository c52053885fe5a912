package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/redis/go-redis/v9"

	"github.com/rentmatch/rentmatch-api/internal/http/handlers"
	"github.com/rentmatch/rentmatch-api/internal/notify"
	"github.com/rentmatch/rentmatch-api/internal/platform/blog"
	"github.com/rentmatch/rentmatch-api/internal/platform/logship"
	"github.com/rentmatch/rentmatch-api/internal/platform/mailer"
	"github.com/rentmatch/rentmatch-api/internal/platform/media"
	"github.com/rentmatch/rentmatch-api/internal/platform/payments"
	"github.com/rentmatch/rentmatch-api/internal/repo/postgres"
	"github.com/rentmatch/rentmatch-api/pkg/config"
	"github.com/rentmatch/rentmatch-api/pkg/database"
	"github.com/rentmatch/rentmatch-api/pkg/events"
	"github.com/rentmatch/rentmatch-api/pkg/logger"
	mw "github.com/rentmatch/rentmatch-api/pkg/middleware"
)

func main() {
	cfg := config.Load()

	// Connect to database
	ctx := context.Background()
	pool, err := database.Connect(ctx, cfg.Database)
	if err != nil {
		logger.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	// Redis backs rate limiting and idempotency; both fail open without it.
	var rdb *redis.Client
	if opt, err := redis.ParseURL(cfg.Redis.URL); err != nil {
		logger.Warn("Invalid REDIS_URL, rate limiting disabled", "error", err)
	} else {
		rdb = redis.NewClient(opt)
	}

	// Queue is only wired in prod; otherwise notifications go inline.
	var queue events.Publisher
	if cfg.Queue.Enabled {
		bus, err := events.NewNATSEventBus(cfg.Queue.URL)
		if err != nil {
			logger.Error("Failed to connect to NATS", "error", err)
			os.Exit(1)
		}
		defer bus.Close()
		queue = bus
	}

	uploader, err := media.NewCloudinaryUploader(cfg.Media.CloudinaryURL, cfg.Media.TestPrefix)
	if err != nil {
		logger.Error("Failed to initialize media uploader", "error", err)
		os.Exit(1)
	}

	dispatcher := notify.NewDispatcher(pickMailer(cfg), cfg.Email.NotifyTo, cfg.Email.NotifyToName)
	shipper := logship.New(cfg.Axiom)
	if queue != nil {
		shipper.UseQueue(queue)
	}

	var pay payments.Provider
	if cfg.Stripe.Enabled && cfg.Stripe.SecretKey != "" && cfg.Stripe.PriceID != "" {
		pay = payments.NewStripeProvider(cfg.Stripe.SecretKey, cfg.Stripe.PriceID)
	}

	var blogClient *blog.Client
	if cfg.Blog.BlogID != "" {
		blogClient = blog.NewClient(cfg.Blog.BlogID)
	}

	h := handlers.New(
		cfg,
		postgres.NewPropertiesRepo(pool),
		postgres.NewSearchRepo(pool),
		uploader,
		dispatcher,
		queue,
		pay,
		shipper,
		blogClient,
	)

	rateLimiter := mw.NewRateLimiter(rdb, 10, time.Minute)
	var idemStore mw.IdempotencyStore
	if rdb != nil {
		idemStore = mw.NewRedisIdempotencyStore(rdb)
	}

	r := chi.NewRouter()
	r.Use(mw.RequestID)
	r.Use(mw.ServiceName("api"))
	r.Use(mw.RequestLogger("api", shipper))
	r.Use(mw.Health)

	ok := func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusNoContent) }

	r.Route("/api", func(r chi.Router) {
		// Public submission endpoints.
		r.Group(func(r chi.Router) {
			r.Use(mw.CORS(cfg.CORS.AllowedOrigins))
			r.Use(rateLimiter.Middleware)
			r.Use(mw.Idempotency(idemStore))
			r.Post("/submit-room-listing", h.SubmitRoomListing)
			r.Options("/submit-room-listing", ok)
			r.Post("/submit-room-searching", h.SubmitRoomSearching)
			r.Options("/submit-room-searching", ok)
		})

		// Internal job endpoints, reached only by the queue relay.
		r.Route("/background", func(r chi.Router) {
			r.Use(h.RequireJobToken)
			r.Post("/send-notification", h.SendNotification)
			r.Post("/log-to-axiom", h.LogToAxiom)
		})

		r.Get("/debug/queue-status", h.QueueStatus)

		// Read-only blog proxy.
		r.Group(func(r chi.Router) {
			r.Use(cors.Handler(cors.Options{
				AllowedOrigins: cfg.CORS.AllowedOrigins,
				AllowedMethods: []string{"GET", "OPTIONS"},
				MaxAge:         300,
			}))
			r.Get("/blog/posts", h.ListBlogPosts)
			r.Get("/blog/posts/{slug}", h.GetBlogPost)
		})
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	// Graceful shutdown
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		logger.Info("Shutting down API...")

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			logger.Error("API shutdown error", "error", err)
		}
	}()

	logger.Info("Starting API", "port", cfg.Server.Port, "env", cfg.AppEnv)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("API server error", "error", err)
		os.Exit(1)
	}
}

// pickMailer selects the transport: Gmail SMTP when credentials are present,
// MailerSend as API fallback, and a log-only mailer outside prod.
func pickMailer(cfg *config.Config) mailer.Service {
	if !cfg.Email.Enabled {
		return mailer.DevMailer{}
	}
	if cfg.Email.SMTPUser != "" {
		return mailer.NewSMTPMailer(
			cfg.Email.SMTPHost, cfg.Email.SMTPPort,
			cfg.Email.SMTPFrom, cfg.Email.SMTPUser, cfg.Email.SMTPPass,
			true,
		)
	}
	if cfg.Email.MailerSendKey != "" {
		return mailer.NewMailerSendMailer(cfg.Email.MailerSendKey, "RentMatch", cfg.Email.SMTPFrom)
	}
	logger.Warn("No mail transport configured, falling back to dev mailer")
	return mailer.DevMailer{}
}
