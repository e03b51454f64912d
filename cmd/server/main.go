package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"github.com/ojusave/murder-mystery-sub000/internal/handlers"
	httpmw "github.com/ojusave/murder-mystery-sub000/internal/http/middleware"
	"github.com/ojusave/murder-mystery-sub000/internal/mailer"
	"github.com/ojusave/murder-mystery-sub000/internal/repository"
	"github.com/ojusave/murder-mystery-sub000/internal/scheduler"
	"github.com/ojusave/murder-mystery-sub000/internal/service"
	"github.com/ojusave/murder-mystery-sub000/internal/worker"
	"github.com/ojusave/murder-mystery-sub000/pkg/config"
	"github.com/ojusave/murder-mystery-sub000/pkg/database"
	"github.com/ojusave/murder-mystery-sub000/pkg/events"
	"github.com/ojusave/murder-mystery-sub000/pkg/logger"
	mw "github.com/ojusave/murder-mystery-sub000/pkg/middleware"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Connect to database
	pool, err := database.Connect(ctx, cfg.Database)
	if err != nil {
		logger.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	if err := database.Migrate(ctx, cfg.Database.URL); err != nil {
		logger.Error("Failed to run migrations", "error", err)
		os.Exit(1)
	}

	// Connect to event bus (optional)
	var bus events.Publisher = events.NoopPublisher{}
	if cfg.NATS.URL != "" {
		natsBus, err := events.NewNATSEventBus(cfg.NATS.URL)
		if err != nil {
			logger.Error("Failed to connect to NATS", "error", err)
			os.Exit(1)
		}
		bus = natsBus
	}
	defer bus.Close()

	// Select mail transport
	var mail mailer.Service
	if cfg.Email.DevMode || cfg.Email.MailerSendKey == "" {
		logger.Warn("email dev mode: messages will be logged, not sent")
		mail = mailer.NewDevMailer()
	} else {
		mail, err = mailer.NewMailer(cfg.Email.MailerSendKey, cfg.Email.FromName, cfg.Email.FromEmail)
		if err != nil {
			logger.Error("Failed to initialize mailer", "error", err)
			os.Exit(1)
		}
	}

	// Initialize repositories
	guestRepo := repository.NewGuestRepo(pool)
	characterRepo := repository.NewCharacterRepo(pool)
	emailEventRepo := repository.NewEmailEventRepo(pool)
	faqRepo := repository.NewFAQRepo(pool)
	adminRepo := repository.NewAdminRepo(pool)

	// Initialize services
	info := mailer.EventInfo{
		Name:         cfg.Event.Name,
		Instant:      cfg.Event.Instant,
		VenueAddress: cfg.Event.VenueAddress,
		BaseURL:      cfg.Event.BaseURL,
	}
	notifier := service.NewNotifier(mail, emailEventRepo, info, cfg.Email.HostEmail)
	guestService := service.NewGuestService(guestRepo, emailEventRepo, notifier, bus)
	characterService := service.NewCharacterService(characterRepo, guestRepo, notifier, bus)
	faqService := service.NewFAQService(faqRepo)
	authService := service.NewAuthService(adminRepo, cfg.Auth.JWTSecret, cfg.Auth.AccessTokenTTL)
	reminderService := service.NewReminderService(guestRepo, notifier, bus, cfg.Event.Instant)

	if err := authService.SeedAdmin(ctx, cfg.Auth.AdminEmail, cfg.Auth.AdminPassword); err != nil {
		logger.Error("Failed to seed admin user", "error", err)
		os.Exit(1)
	}

	// Rate limit public RSVP creation
	rsvpLimiter := httpmw.NewRateLimiter(pool, httpmw.RateLimitConfig{
		Requests: 10,
		Window:   time.Hour,
		KeyFunc:  httpmw.ClientIPKeyFunc,
	})

	h := handlers.New(
		guestService, characterService, faqService, authService, reminderService,
		cfg.Auth.JWTSecret, cfg.Auth.ReminderSecret,
		rsvpLimiter.Middleware(),
	)

	// Setup router
	r := chi.NewRouter()
	r.Use(mw.RequestID)
	r.Use(mw.Logging)
	r.Use(mw.Health)
	r.Use(mw.CORS())
	r.Route("/", h.Routes)

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	emailWorker := worker.New(emailEventRepo, guestRepo, notifier, cfg.Worker.PollInterval, cfg.Worker.BatchSize)
	reminderCron := scheduler.New(reminderService, cfg.Worker.CronSpec)
	if err := reminderCron.Start(); err != nil {
		logger.Error("Failed to start reminder scheduler", "error", err)
		os.Exit(1)
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("Starting server", "port", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		err := emailWorker.Run(gctx)
		if errors.Is(err, context.Canceled) {
			return nil
		}
		return err
	})

	g.Go(func() error {
		<-gctx.Done()

		logger.Info("Shutting down...")
		<-reminderCron.Stop().Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logger.Error("Server error", "error", err)
		os.Exit(1)
	}
}
