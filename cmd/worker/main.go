package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hibiken/asynq"
	"github.com/joho/godotenv"
	"github.com/mayurrohokale/Kindness-Corner-backend/internal/database"
	"github.com/mayurrohokale/Kindness-Corner-backend/internal/mailer"
	"github.com/mayurrohokale/Kindness-Corner-backend/internal/otp"
	"github.com/mayurrohokale/Kindness-Corner-backend/internal/tasks"
	"github.com/mayurrohokale/Kindness-Corner-backend/pkg/config"
	"github.com/mayurrohokale/Kindness-Corner-backend/pkg/queue"
	"github.com/mayurrohokale/Kindness-Corner-backend/pkg/util"
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

	logger.Info("starting Kindness Corner worker")

	// Connect to database
	db, err := database.Connect(&cfg.Database, logger)
	if err != nil {
		logger.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}

	var sender mailer.Sender = mailer.NewLogSender(logger)
	if cfg.SMTP.Configured() {
		sender = mailer.NewSMTPSender(&cfg.SMTP)
	} else {
		logger.Warn("SMTP not configured, queued emails will be logged instead of sent")
	}

	// Codes in Redis expire on their own; only the database store needs purging.
	var purger tasks.Purger
	if cfg.OTP.Store != "redis" {
		purger = otp.NewDBStore(db, cfg.OTP.TTL())
	}

	srv := queue.NewServer(&cfg.Redis, cfg.Worker.Concurrency)

	handler := tasks.NewHandler(sender, purger, logger)
	mux := asynq.NewServeMux()
	handler.RegisterHandlers(mux)

	var scheduler *asynq.Scheduler
	if purger != nil {
		if err := util.ValidateCronExpr(cfg.Worker.OTPPurgeCron); err != nil {
			logger.Error("invalid OTP_PURGE_CRON", "cron", cfg.Worker.OTPPurgeCron, "error", err)
			os.Exit(1)
		}

		scheduler = queue.NewScheduler(&cfg.Redis)
		entryID, err := scheduler.Register(cfg.Worker.OTPPurgeCron, tasks.NewOTPPurgeTask())
		if err != nil {
			logger.Error("failed to schedule OTP purge", "error", err)
			os.Exit(1)
		}
		if err := scheduler.Start(); err != nil {
			logger.Error("failed to start scheduler", "error", err)
			os.Exit(1)
		}
		next, _ := util.NextCronTime(cfg.Worker.OTPPurgeCron, time.Now())
		logger.Info("scheduled OTP purge", "cron", cfg.Worker.OTPPurgeCron, "entry_id", entryID, "next_run", next)
	}

	// Handle shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		<-quit
		logger.Info("shutting down worker...")
		if scheduler != nil {
			scheduler.Shutdown()
		}
		srv.Shutdown()
		cancel()
	}()

	logger.Info("worker started, waiting for tasks...")

	if err := srv.Run(mux); err != nil {
		logger.Error("worker error", "error", err)
	}

	<-ctx.Done()

	sqlDB, _ := db.DB()
	sqlDB.Close()

	logger.Info("worker stopped")
}
