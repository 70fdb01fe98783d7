package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/studiobook/studio-booking/internal/api"
	"github.com/studiobook/studio-booking/internal/auth"
	"github.com/studiobook/studio-booking/internal/booking"
	"github.com/studiobook/studio-booking/internal/config"
	"github.com/studiobook/studio-booking/internal/db"
	"github.com/studiobook/studio-booking/internal/notify"
	redisclient "github.com/studiobook/studio-booking/internal/redis"
	"github.com/studiobook/studio-booking/internal/user"
)

const version = "1.0.0"

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	log := newLogger(cfg.Env)
	defer log.Sync()

	log.Info("api-server starting up",
		zap.String("env", cfg.Env),
		zap.String("http_port", cfg.HTTPPort),
	)

	rootCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Connect Postgres
	pgCtx, cancelPg := context.WithTimeout(rootCtx, 10*time.Second)
	pgPool, err := db.ConnectPostgres(pgCtx, cfg.PostgresDSN)
	cancelPg()
	if err != nil {
		log.Fatal("postgres connection error", zap.Error(err))
	}
	defer pgPool.Close()
	log.Info("connected to Postgres")

	schemaCtx, cancelSchema := context.WithTimeout(rootCtx, 30*time.Second)
	err = db.EnsureSchema(schemaCtx, pgPool)
	cancelSchema()
	if err != nil {
		log.Fatal("schema migration error", zap.Error(err))
	}

	// Connect Redis
	rdb, err := redisclient.NewRedisClient(cfg.RedisAddr, cfg.RedisUsername, cfg.RedisPassword)
	if err != nil {
		log.Fatal("redis connection error", zap.Error(err))
	}
	defer func() {
		if err := rdb.Close(); err != nil {
			log.Warn("error closing redis", zap.Error(err))
		}
	}()
	log.Info("connected to Redis")

	// Outbound effects: Gmail when fully configured, log-only otherwise.
	var mailer notify.Mailer
	if cfg.GoogleClientID != "" && cfg.GoogleClientSecret != "" && cfg.GoogleRefreshToken != "" && cfg.EmailFrom != "" {
		mailer = notify.NewGmailMailer(rootCtx, cfg.GoogleClientID, cfg.GoogleClientSecret, cfg.GoogleRefreshToken, cfg.EmailFrom)
		log.Info("gmail mailer configured", zap.String("from", cfg.EmailFrom))
	} else {
		mailer = &notify.LogMailer{Log: log}
		log.Info("no gmail credentials, emails will only be logged")
	}
	dispatcher := notify.NewDispatcher(mailer, log)

	var calendar booking.CalendarScheduler
	if cfg.GoogleCalendarID != "" && cfg.GoogleClientID != "" && cfg.GoogleClientSecret != "" && cfg.GoogleRefreshToken != "" {
		calendar = notify.NewCalendarClient(rootCtx, cfg.GoogleClientID, cfg.GoogleClientSecret, cfg.GoogleRefreshToken, cfg.GoogleCalendarID)
		log.Info("calendar client configured", zap.String("calendar_id", cfg.GoogleCalendarID))
	}

	userRepo := user.NewPgRepository(pgPool)
	tokens := auth.NewTokenManager(cfg.JWTSecret, cfg.JWTExpiry)
	userSvc := user.NewService(userRepo, tokens, dispatcher, cfg.PublicBaseURL, cfg.Env, log)

	bookingRepo := booking.NewPgRepository(pgPool)
	locker := redisclient.NewRedisSlotLocker(rdb, cfg.LockTTL)
	reaper := booking.NewReaper(bookingRepo, cfg.ReaperCooldown, log)
	bookingSvc := booking.NewService(bookingRepo, userRepo, locker, dispatcher, calendar, reaper, cfg.ManagerEmails(), log)

	router := api.NewRouter(api.RouterConfig{
		Bookings: bookingSvc,
		Users:    userSvc,
		PgPool:   pgPool,
		Redis:    rdb,
		Env:      cfg.Env,
		Version:  version,
		Log:      log,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		log.Info("listening", zap.String("addr", srv.Addr))
		serverErr <- srv.ListenAndServe()
	}()

	select {
	case err := <-serverErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("server error", zap.Error(err))
		}
	case <-rootCtx.Done():
	}

	log.Info("shutting down api-server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Warn("graceful shutdown failed", zap.Error(err))
	}
}

func newLogger(env string) *zap.Logger {
	if env == "prod" {
		log, err := zap.NewProduction()
		if err != nil {
			panic(err)
		}
		return log
	}
	log, err := zap.NewDevelopment()
	if err != nil {
		panic(err)
	}
	return log
}
