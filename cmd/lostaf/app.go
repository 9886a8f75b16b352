package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/lostaf-io/lostaf/internal/config"
	dbRedis "github.com/lostaf-io/lostaf/internal/db/redis"
	"github.com/lostaf-io/lostaf/internal/domain"
	"github.com/lostaf-io/lostaf/internal/imaging"
	logpkg "github.com/lostaf-io/lostaf/internal/logger"
	"github.com/lostaf-io/lostaf/internal/metrics"
	"github.com/lostaf-io/lostaf/internal/repository/embcache"
	matchrepo "github.com/lostaf-io/lostaf/internal/repository/match"
	reportrepo "github.com/lostaf-io/lostaf/internal/repository/report"
	sessionrepo "github.com/lostaf-io/lostaf/internal/repository/session"
	openaiEmb "github.com/lostaf-io/lostaf/internal/transport/openai"
	"github.com/lostaf-io/lostaf/internal/transport/sendgrid"
	embeddinguc "github.com/lostaf-io/lostaf/internal/usecase/embedding"
	healthuc "github.com/lostaf-io/lostaf/internal/usecase/health"
	"github.com/lostaf-io/lostaf/internal/usecase/matching"
	"github.com/lostaf-io/lostaf/internal/usecase/notification"
	reportuc "github.com/lostaf-io/lostaf/internal/usecase/report"
	"github.com/lostaf-io/lostaf/internal/usecase/trigger"
)

// app is the composition root shared by all subcommands.
type app struct {
	env      string
	cfg      config.Config
	logger   *zap.Logger
	store    *dbRedis.Store
	sessions *sessionrepo.Repo
	reports  *reportuc.Service
	health   *healthuc.Service
	runner   *trigger.Runner
}

// bootstrap loads config for the --env flag and wires every dependency.
func bootstrap(cmd *cobra.Command) (*app, error) {
	env, _ := cmd.Flags().GetString("env")
	ctx := cmd.Context()

	cfg, err := config.Load(env)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	logger, err := logpkg.NewLogger(env, cfg.Logging.Level)
	if err != nil {
		return nil, fmt.Errorf("create logger: %w", err)
	}

	store, err := dbRedis.NewStore(dbRedis.Config{
		Addrs:    cfg.Database.Addrs,
		Username: cfg.Database.Username,
		Password: cfg.Database.Password,
		DB:       cfg.Database.DB,
	})
	if err != nil {
		_ = logger.Sync()
		return nil, fmt.Errorf("create database store: %w", err)
	}

	a := &app{env: env, cfg: cfg, logger: logger, store: store}
	if err := a.wire(ctx); err != nil {
		a.close()
		return nil, err
	}
	return a, nil
}

func (a *app) wire(ctx context.Context) error {
	cfg := a.cfg

	if err := a.store.WaitForReady(ctx, time.Duration(cfg.Database.ReadinessTimeout)*time.Second); err != nil {
		return fmt.Errorf("database not ready: %w", err)
	}
	a.logger.Info("Connected to database", zap.Strings("db_addrs", cfg.Database.Addrs))

	// Register metrics explicitly (no init())
	metrics.RegisterEmbeddingMetrics()
	metrics.RegisterMatchingMetrics()

	reports := reportrepo.New(a.store)
	if err := reports.EnsureIndex(ctx); err != nil {
		return fmt.Errorf("ensure report index: %w", err)
	}
	matches := matchrepo.New(a.store)
	if err := matches.EnsureIndex(ctx); err != nil {
		return fmt.Errorf("ensure match index: %w", err)
	}
	a.sessions = sessionrepo.New(a.store)

	base, embedder := buildEmbedder(cfg.Embedding, a.store, a.logger)
	a.logger.Info("Embedder created",
		zap.String("model", cfg.Embedding.Model),
		zap.Int("dimensions", cfg.Embedding.Dimensions),
		zap.Bool("cache", cfg.Embedding.CacheEnabled),
	)

	a.runner = trigger.New(a.logger,
		trigger.WithMetrics(metrics.BackgroundUnitsInFlight, metrics.BackgroundUnitFailuresTotal))

	dispatcher := notification.New(matches, buildMailer(cfg.Notification, a.logger),
		notification.WithPortalURL(cfg.Notification.PortalURL),
		notification.WithSendTimeout(time.Duration(cfg.Notification.SendTimeoutSec)*time.Second),
	)

	engine := matching.New(reports, matches,
		matching.WithThreshold(cfg.Matching.Threshold),
		matching.WithCandidateLimit(cfg.Matching.CandidateLimit),
		matching.WithNotifier(dispatcher, a.runner),
	)

	a.reports = reportuc.New(reports, matches, embedder, engine, a.runner).
		WithImageOptions(imaging.Options{
			MaxSide: cfg.Embedding.MaxImageSide,
			Quality: cfg.Embedding.JPEGQuality,
		})

	a.health = healthuc.New(a.store, healthuc.WithEmbedding(base))
	return nil
}

func (a *app) close() {
	a.store.Close()
	_ = a.logger.Sync()
}

// buildEmbedder returns the raw provider (for health checks) and the decorated chain:
// openai -> cache -> instrumented.
func buildEmbedder(cfg config.EmbeddingConfig, store *dbRedis.Store, logger *zap.Logger) (*openaiEmb.Embedder, domain.Embedder) {
	base := openaiEmb.NewEmbedder(&openaiEmb.Config{
		APIKey:     cfg.APIKey,
		BaseURL:    cfg.BaseURL,
		Model:      cfg.Model,
		Dimensions: cfg.Dimensions,
		Timeout:    time.Duration(cfg.TimeoutSec) * time.Second,
		Logger:     logger,
	})

	var embedder domain.Embedder = base
	if cfg.CacheEnabled {
		embedder = embcache.New(base, store, cfg.Model, logger,
			embcache.WithDimensions(cfg.Dimensions),
			embcache.WithTTL(time.Duration(cfg.CacheTTLHours)*time.Hour),
			embcache.WithCacheCounter(metrics.EmbeddingCacheTotal))
	}

	return base, embeddinguc.NewInstrumentedEmbedder(embedder, cfg.Model, logger)
}

// buildMailer falls back to logging messages when no SendGrid key is configured.
func buildMailer(cfg config.NotificationConfig, logger *zap.Logger) domain.Mailer {
	if !cfg.Enabled() {
		logger.Warn("SendGrid API key not set, notifications will only be logged")
		return sendgrid.NewLogMailer(logger)
	}
	return sendgrid.NewMailer(&sendgrid.Config{
		APIKey:    cfg.SendGridAPIKey,
		FromEmail: cfg.FromEmail,
		FromName:  cfg.FromName,
		Timeout:   time.Duration(cfg.SendTimeoutSec) * time.Second,
		Logger:    logger,
	})
}
