package app

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	_ "cryptoupi/docs"
	"cryptoupi/internal/authz"
	"cryptoupi/internal/cache"
	"cryptoupi/internal/config"
	"cryptoupi/internal/database"
	"cryptoupi/internal/handlers"
	"cryptoupi/internal/humancheck"
	"cryptoupi/internal/logger"
	"cryptoupi/internal/metrics"
	"cryptoupi/internal/middleware"
	"cryptoupi/internal/models"
	"cryptoupi/internal/pdf"
	"cryptoupi/internal/rate"
	"cryptoupi/internal/repositories"
	"cryptoupi/internal/routes"
	"cryptoupi/internal/services"
	"cryptoupi/internal/utils"
	"cryptoupi/internal/verification"
	"cryptoupi/internal/wallet"
)

// Run serves until ctx is cancelled, then drains in-flight requests.
func Run(ctx context.Context, configPath string) error {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return err
	}

	log, err := logger.New(cfg.Log.Level, cfg.Log.Development)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	// === DB ===
	db, err := database.Open(ctx, cfg.Database.DSN)
	if err != nil {
		return err
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Warn("db close failed", zap.Error(err))
		}
	}()
	if cfg.Database.Migrate {
		if err := database.Migrate(ctx, db, log); err != nil {
			return err
		}
	}

	// === Redis ===
	codes := cache.NewCache(cfg.Redis.Addrs, cfg.Redis.Password, cfg.Redis.DB, cfg.Redis.Cluster)
	defer func() { _ = codes.Close() }()
	if err := codes.Ping(ctx); err != nil {
		return fmt.Errorf("redis ping: %w", err)
	}

	// === Repos ===
	userRepo := repositories.NewUserRecordRepository(db)
	entryRepo := repositories.NewDirectoryEntryRepository(db)
	challengeRepo := repositories.NewChallengeLogRepository(db)

	// === Services ===
	issuer := authz.NewIssuer(cfg.Auth.JWTSecret, cfg.Auth.Issuer)

	mobizon := utils.NewClientWithOptions(cfg.Mobizon.APIKey, cfg.Mobizon.SenderID, cfg.Mobizon.DryRun, log.Named("mobizon"))
	limiter := rate.NewLimiter(codes, cfg.OTP.Window, cfg.OTP.MaxPerWindow, cfg.OTP.Cooldown)
	provider := services.NewSMSChallengeProvider(mobizon, codes, limiter, challengeRepo, issuer,
		services.SMSChallengeOptions{
			CodeTTL:         cfg.OTP.TTL,
			IdentityTTL:     cfg.OTP.IdentityTTL,
			MaxPerDay:       cfg.OTP.MaxPerDay,
			MessageTemplate: cfg.OTP.Message,
		}, log.Named("challenge"))

	var emailService services.EmailService
	if cfg.Email.SMTPHost != "" {
		emailService = services.NewEmailService(
			cfg.Email.SMTPHost,
			cfg.Email.SMTPPort,
			cfg.Email.SMTPUser,
			cfg.Email.SMTPPassword,
			cfg.Email.FromEmail,
		)
	}

	var notifier services.AccountNotifier
	if cfg.Telegram.BotToken != "" {
		tg, err := services.NewTelegramNotifier(cfg.Telegram.BotToken, cfg.Telegram.AdminChatID, log.Named("telegram"))
		if err != nil {
			log.Warn("telegram notifier disabled", zap.Error(err))
		} else {
			notifier = tg
		}
	}

	provisioning := services.NewProvisioningService(userRepo, emailService, notifier, log.Named("provisioning"))
	directory := services.NewDirectoryService(entryRepo, pdf.NewReportGenerator(cfg.Report.FontPath, cfg.Report.Title))

	// one widget for the whole process
	widget := humancheck.New(humancheck.Options{
		SiteKey:   cfg.Recaptcha.SiteKey,
		Secret:    cfg.Recaptcha.Secret,
		VerifyURL: cfg.Recaptcha.VerifyURL,
		Timeout:   cfg.Recaptcha.Timeout,
	}, log.Named("humancheck"))
	defer func() { _ = widget.Close() }()

	registry := verification.NewRegistry(verification.Deps{
		Provider:    provider,
		Tokens:      widget,
		Provisioner: observedProvisioner{provisioning},
		Wallets:     wallet.Stub{Salt: cfg.Wallet.Salt},
		Logger:      log.Named("session"),
		OnTransition: func(from, to verification.State) {
			metrics.ObserveTransition(from.String(), to.String())
		},
	})
	metrics.TrackLiveSessions(registry.Len)

	sweepCtx, stopSweep := context.WithCancel(ctx)
	defer stopSweep()
	go registry.RunSweeper(sweepCtx, cfg.Session.SweepInterval, cfg.Session.IdleTimeout)

	// === Handlers ===
	pageHandler := handlers.NewPageHandler(widget)
	sessionHandler := handlers.NewSessionHandler(registry, widget, log.Named("http"))
	directoryHandler := handlers.NewDirectoryHandler(directory, log.Named("http"))
	accountHandler := handlers.NewAccountHandler(provisioning, log.Named("http"))

	// === Gin ===
	gin.SetMode(cfg.Server.Mode)
	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())
	router.Use(middleware.CORS())
	router.Use(metrics.GinMiddleware())

	tmpl, err := handlers.LoadTemplates()
	if err != nil {
		return fmt.Errorf("load templates: %w", err)
	}
	router.SetHTMLTemplate(tmpl)

	routes.SetupRoutes(
		router,
		issuer,
		pageHandler,
		sessionHandler,
		directoryHandler,
		accountHandler,
		healthHandler(db, codes),
	)

	// === Run ===
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("server started", zap.String("addr", srv.Addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

func healthHandler(db *sql.DB, codes *cache.Cache) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		status := gin.H{"postgres": "ok", "redis": "ok"}
		code := http.StatusOK
		if err := db.PingContext(ctx); err != nil {
			status["postgres"] = err.Error()
			code = http.StatusServiceUnavailable
		}
		if err := codes.Ping(ctx); err != nil {
			status["redis"] = err.Error()
			code = http.StatusServiceUnavailable
		}
		c.JSON(code, status)
	}
}

type observedProvisioner struct {
	verification.Provisioner
}

func (p observedProvisioner) EnsureUser(ctx context.Context, in models.EnsureUserInput) (*models.UserRecord, error) {
	rec, err := p.Provisioner.EnsureUser(ctx, in)
	metrics.ObserveProvisioning(err == nil)
	return rec, err
}
