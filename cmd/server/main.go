package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hibiken/asynq"
	"github.com/joho/godotenv"
	"github.com/mayurrohokale/Kindness-Corner-backend/internal/api"
	"github.com/mayurrohokale/Kindness-Corner-backend/internal/auth"
	"github.com/mayurrohokale/Kindness-Corner-backend/internal/database"
	"github.com/mayurrohokale/Kindness-Corner-backend/internal/mailer"
	"github.com/mayurrohokale/Kindness-Corner-backend/internal/otp"
	"github.com/mayurrohokale/Kindness-Corner-backend/internal/payments"
	"github.com/mayurrohokale/Kindness-Corner-backend/internal/storage"
	"github.com/mayurrohokale/Kindness-Corner-backend/internal/tasks"
	"github.com/mayurrohokale/Kindness-Corner-backend/internal/users"
	"github.com/mayurrohokale/Kindness-Corner-backend/pkg/config"
	"github.com/mayurrohokale/Kindness-Corner-backend/pkg/crypto"
	"github.com/mayurrohokale/Kindness-Corner-backend/pkg/queue"
	"github.com/mayurrohokale/Kindness-Corner-backend/pkg/util"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

func main() {
	// Load .env file
	_ = godotenv.Load()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	// Initialize logger
	logger := util.NewLogger(cfg.Server.Env, cfg.Server.LogLevel)
	slog.SetDefault(logger)

	logger.Info("starting Kindness Corner server",
		"env", cfg.Server.Env,
		"addr", cfg.Server.Addr(),
	)

	// Connect to database
	db, err := database.Connect(&cfg.Database, logger)
	if err != nil {
		logger.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}

	if cfg.Database.AutoMigrate {
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		err := database.Migrate(ctx, db)
		cancel()
		if err != nil {
			logger.Error("failed to run migrations", "error", err)
			os.Exit(1)
		}
	}

	// Connect to Redis. Without it the server still runs, but logout cannot
	// revoke tokens and mail is sent inline.
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr(),
		Password: cfg.Redis.Password,
	})
	if err := redisClient.Ping(context.Background()).Err(); err != nil {
		logger.Warn("failed to connect to Redis", "error", err)
		redisClient.Close()
		redisClient = nil
	}

	var asynqClient *asynq.Client
	if redisClient != nil {
		asynqClient = queue.NewClient(&cfg.Redis)
	}

	// Credential store, with volunteer contact details sealed at rest
	if cfg.Encryption.Key == "" {
		if !cfg.Server.IsDevelopment() {
			logger.Error("ENCRYPTION_KEY is required outside development")
			os.Exit(1)
		}
		logger.Warn("ENCRYPTION_KEY not set, using generated key; volunteer contact details will be unreadable after restart")
	}
	encryptor, err := crypto.NewEncryptor(cfg.Encryption.Key)
	if err != nil {
		logger.Error("failed to create encryptor", "error", err)
		os.Exit(1)
	}
	userStore := users.NewStore(db).WithCipher(encryptor).WithLogger(logger)

	if cfg.JWT.Secret == "change-me-in-production" && !cfg.Server.IsDevelopment() {
		logger.Warn("JWT_SECRET is the default value")
	}

	jwtService := auth.NewJWTService(cfg.JWT.Secret, cfg.JWT.Expiry())
	authCfg := auth.ServiceConfig{
		Users:       userStore,
		Codes:       newCodeStore(cfg, db, redisClient, logger),
		Tokens:      jwtService,
		Resets:      auth.NewResetTokenIssuer(cfg.JWT.Secret, cfg.Reset.TTL()),
		Mailer:      newMailer(cfg, asynqClient, logger),
		CodeTTL:     cfg.OTP.TTL(),
		FrontendURL: cfg.Reset.FrontendURL,
		Logger:      logger,
	}

	routerCfg := api.RouterConfig{
		DB:             db,
		Logger:         logger,
		Tokens:         jwtService,
		Users:          userStore,
		RazorpayKeyID:  cfg.Razorpay.KeyID,
		AllowedOrigins: cfg.Server.AllowedOrigins,
		RateLimitReqs:  cfg.RateLimit.Requests,
		RateLimitSecs:  cfg.RateLimit.WindowSeconds,
		AuthRateLimit:  cfg.RateLimit.AuthRequests,
	}

	if redisClient != nil {
		denylist := auth.NewDenylist(redisClient)
		authCfg.Revoker = denylist
		routerCfg.Revoker = denylist
		routerCfg.Redis = redisClient
	}
	routerCfg.AuthService = auth.NewService(authCfg)

	if cfg.Razorpay.KeyID != "" && cfg.Razorpay.KeySecret != "" {
		routerCfg.Payments = payments.NewService(db, payments.NewRazorpayClient(&cfg.Razorpay), logger)
	} else {
		logger.Warn("Razorpay keys not set, checkout endpoints disabled")
	}

	presigner, err := storage.New(context.Background(), &cfg.Storage)
	switch {
	case errors.Is(err, storage.ErrDisabled):
		logger.Info("image uploads disabled")
	case err != nil:
		logger.Error("failed to configure uploads", "error", err)
		os.Exit(1)
	default:
		routerCfg.Uploads = presigner
	}

	router := api.NewRouter(routerCfg)

	// Create HTTP server
	server := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		logger.Info("server listening", "addr", cfg.Server.Addr())
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Error("server shutdown error", "error", err)
	}

	if asynqClient != nil {
		asynqClient.Close()
	}
	if redisClient != nil {
		redisClient.Close()
	}

	sqlDB, _ := db.DB()
	sqlDB.Close()

	logger.Info("server stopped")
}

// newCodeStore picks where verification codes live. Redis is used only when
// asked for and reachable.
func newCodeStore(cfg *config.Config, db *gorm.DB, rdb *redis.Client, logger *slog.Logger) otp.Store {
	if cfg.OTP.Store == "redis" {
		if rdb != nil {
			return otp.NewRedisStore(rdb, cfg.OTP.TTL())
		}
		logger.Warn("OTP_STORE=redis but Redis is unavailable, using database")
	}
	return otp.NewDBStore(db, cfg.OTP.TTL())
}

// newMailer returns the SMTP sender, a queue-backed sender when
// MAIL_DELIVERY=queue, or a log sender when SMTP is not configured.
func newMailer(cfg *config.Config, client *asynq.Client, logger *slog.Logger) mailer.Sender {
	if !cfg.SMTP.Configured() {
		logger.Warn("SMTP not configured, emails will be logged instead of sent")
		return mailer.NewLogSender(logger)
	}
	if cfg.SMTP.Delivery == "queue" {
		if client != nil {
			return tasks.NewQueueSender(client)
		}
		logger.Warn("MAIL_DELIVERY=queue but Redis is unavailable, sending inline")
	}
	return mailer.NewSMTPSender(&cfg.SMTP)
}
