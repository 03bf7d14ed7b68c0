package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"glossa/internal/api"
	"glossa/internal/config"
	"glossa/internal/handler"
	"glossa/internal/middleware"
	"glossa/internal/proxy"
	"glossa/internal/repository"
	"glossa/internal/repository/memory"
	"glossa/internal/repository/postgres"
	"glossa/internal/service"
	"glossa/internal/session"
	"glossa/internal/webhook"

	"github.com/golang-migrate/migrate/v4"
	postgresdb "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	_ "github.com/lib/pq"
	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"
)

const auditInterval = 24 * time.Hour

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger, err := newLogger(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("Starting glossa",
		zap.String("env", cfg.Env),
		zap.String("storage", cfg.Storage),
	)

	store, closeStore, err := openStore(cfg, logger)
	if err != nil {
		logger.Fatal("Failed to open storage", zap.Error(err))
	}
	defer closeStore()

	registry := repository.NewStoreRegistry(store)

	users := service.NewUserService(store.Users, cfg.ModeratorPassword, logger)
	suggestions := service.NewSuggestionService(store.Suggestions, registry, logger)
	vocabulary := service.NewVocabularyService(store.Vocabulary, registry, logger)
	translations := service.NewTranslationService(store.Translations, registry, logger)
	community := service.NewCommunityService(store.Community, registry, logger)
	quiz := service.NewQuizService(store.Quiz, registry, logger)
	audit := service.NewAuditService(store, registry, logger)

	sessions, closeSessions := newSessions(cfg, logger)
	defer closeSessions()

	poller, botWebhook := webhook.NewPoller(webhook.BotConfig{
		Production:  cfg.IsProduction(),
		PublicURL:   cfg.Webhook.URL,
		Path:        cfg.Webhook.Path,
		SecretToken: cfg.Webhook.Secret,
	})

	bot, err := tele.NewBot(tele.Settings{
		Token:  cfg.BotToken,
		Poller: poller,
		OnError: func(err error, c tele.Context) {
			logger.Error("Bot handler failed", zap.Error(err))
		},
	})
	if err != nil {
		logger.Fatal("Failed to create bot", zap.Error(err))
	}
	if !cfg.IsProduction() {
		if err := bot.RemoveWebhook(); err != nil {
			logger.Warn("Failed to remove webhook", zap.Error(err))
		}
	}

	logger.Info("Telegram bot initialized")

	bot.Use(
		middleware.EnsureUser(users, logger),
		middleware.LogActions(store.Actions, logger),
	)
	h := handler.NewHandler(bot, handler.Services{
		Users:       users,
		Suggestions: suggestions,
		Vocabulary:  vocabulary,
		Community:   community,
		Quiz:        quiz,
	}, sessions, logger)
	h.RegisterHandlers()

	logger.Info("Handlers registered")

	router := api.NewRouter(api.Services{
		Users:        users,
		Suggestions:  suggestions,
		Vocabulary:   vocabulary,
		Translations: translations,
		Community:    community,
		Quiz:         quiz,
	}, sessions, api.Options{
		SignatureSecret: cfg.API.SignatureSecret,
		Proxy:           proxy.NewClient(cfg.API.BaseURL, &http.Client{Timeout: 30 * time.Second}, logger),
		BotWebhookPath:  cfg.Webhook.Path,
		BotWebhook:      botWebhook,
	}, logger)

	server := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go runAuditJob(ctx, audit, logger)

	go func() {
		logger.Info("HTTP server listening", zap.String("addr", cfg.HTTPAddr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("HTTP server failed", zap.Error(err))
		}
	}()

	go func() {
		logger.Info("Bot started successfully")
		bot.Start()
	}()

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	<-sigChan

	logger.Info("Shutdown signal received, stopping...")

	bot.Stop()
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP server shutdown failed", zap.Error(err))
	}
	sessions.Shutdown()

	logger.Info("Stopped gracefully")
}

func newLogger(cfg *config.Config) (*zap.Logger, error) {
	if cfg.IsProduction() {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}

// openStore returns the configured repositories and a closer
func openStore(cfg *config.Config, logger *zap.Logger) (*repository.Store, func(), error) {
	if cfg.Storage == config.StorageMemory {
		logger.Warn("Using in-memory storage, data is lost on restart")
		return memory.NewStore(), func() {}, nil
	}

	db, err := connectDatabase(cfg.DSN(), logger)
	if err != nil {
		return nil, nil, err
	}
	logger.Info("Database connection established")

	if err := runMigrations(db, logger); err != nil {
		db.Close()
		return nil, nil, err
	}

	return postgres.NewStore(db), func() { db.Close() }, nil
}

// newSessions builds the session manager, snapshotting quizzes to Redis
// when it is configured and reachable
func newSessions(cfg *config.Config, logger *zap.Logger) (*session.Manager, func()) {
	if cfg.Redis.Addr == "" {
		return session.NewManager(logger), func() {}
	}

	rdb := session.NewRedis(session.RedisConfig{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx); err != nil {
		logger.Warn("Redis unreachable, quiz state will not survive restarts",
			zap.String("addr", cfg.Redis.Addr),
			zap.Error(err),
		)
		rdb.Close()
		return session.NewManager(logger), func() {}
	}

	logger.Info("Quiz snapshots stored in Redis", zap.String("addr", cfg.Redis.Addr))
	return session.NewManager(logger, session.WithSnapshotter(rdb)), func() { rdb.Close() }
}

// connectDatabase connects to PostgreSQL with retries
func connectDatabase(dsn string, logger *zap.Logger) (*sql.DB, error) {
	var db *sql.DB
	var err error

	maxRetries := 30
	retryDelay := 2 * time.Second

	for i := 0; i < maxRetries; i++ {
		db, err = sql.Open("postgres", dsn)
		if err != nil {
			logger.Warn("Failed to open database connection",
				zap.Int("attempt", i+1),
				zap.Error(err),
			)
			time.Sleep(retryDelay)
			continue
		}

		if err = db.Ping(); err != nil {
			logger.Warn("Failed to ping database",
				zap.Int("attempt", i+1),
				zap.Error(err),
			)
			db.Close()
			time.Sleep(retryDelay)
			continue
		}

		db.SetMaxOpenConns(25)
		db.SetMaxIdleConns(5)
		db.SetConnMaxLifetime(5 * time.Minute)

		return db, nil
	}

	return nil, fmt.Errorf("failed to connect to database after %d attempts: %w", maxRetries, err)
}

// runMigrations runs database migrations
func runMigrations(db *sql.DB, logger *zap.Logger) error {
	driver, err := postgresdb.WithInstance(db, &postgresdb.Config{})
	if err != nil {
		return fmt.Errorf("failed to create migration driver: %w", err)
	}

	m, err := migrate.NewWithDatabaseInstance(
		"file://migrations",
		"postgres",
		driver,
	)
	if err != nil {
		return fmt.Errorf("failed to create migration instance: %w", err)
	}

	err = m.Up()
	switch {
	case errors.Is(err, migrate.ErrNoChange):
		logger.Info("No new migrations to apply")
	case err != nil:
		return fmt.Errorf("failed to run migrations: %w", err)
	default:
		logger.Info("Migrations applied successfully")
	}
	return nil
}

// runAuditJob scans for dangling references at startup and then daily
func runAuditJob(ctx context.Context, audit *service.AuditService, logger *zap.Logger) {
	scan := func() {
		report, err := audit.Scan(ctx)
		if err != nil {
			logger.Error("Integrity audit failed", zap.Error(err))
		}
		if report == nil {
			return
		}
		logger.Info("Integrity audit finished",
			zap.Int("checked", report.Checked),
			zap.Int("failed", report.Failed),
			zap.Int("dangling", len(report.Dangling)),
		)
	}

	scan()

	ticker := time.NewTicker(auditInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info("Audit job stopped")
			return
		case <-ticker.C:
			scan()
		}
	}
}
