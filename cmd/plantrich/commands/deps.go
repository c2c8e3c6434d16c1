package commands

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/Plantrich-blimp/plantrich-app/internal/advisor"
	"github.com/Plantrich-blimp/plantrich-app/internal/catalog"
	"github.com/Plantrich-blimp/plantrich-app/internal/profile"
	"github.com/Plantrich-blimp/plantrich-app/internal/recommendation"
	"github.com/Plantrich-blimp/plantrich-app/pkg/config"
	"github.com/Plantrich-blimp/plantrich-app/pkg/database"
	"github.com/Plantrich-blimp/plantrich-app/pkg/httputil"
	"github.com/Plantrich-blimp/plantrich-app/pkg/logger"
	"github.com/Plantrich-blimp/plantrich-app/pkg/objectstore"
	"github.com/Plantrich-blimp/plantrich-app/pkg/redis"
)

// cachePrefix namespaces every Redis key of the backend
const cachePrefix = "plantrich"

// app holds the wired dependencies shared by every command
type app struct {
	cfg        *config.Config
	log        *logger.Logger
	advisor    *advisor.Service
	catalogs   *catalog.Repository
	onboarding *catalog.OnboardingBook

	closers []func()
}

// appOptions selects the optional backends a command needs
type appOptions struct {
	// server logs to stdout; CLI commands keep stdout for results
	server bool
	// store connects the recommendation database when configured
	store bool
}

// newApp loads config and wires sources, cache, store and advisor.
// ⭐ SSOT: 의존성 조립은 이 함수에서만
func newApp(ctx context.Context, opts appOptions) (*app, error) {
	// 1. Load config
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if verbose {
		cfg.LogLevel = "debug"
	}

	// 2. Initialize logger
	var log *logger.Logger
	if opts.server {
		log = logger.New(cfg)
	} else {
		log = logger.NewWithWriter(cfg, os.Stderr)
	}

	a := &app{cfg: cfg, log: log}

	// 3. Risk profiles
	profiles, err := profile.Load(cfg.Advisory.ProfilesPath)
	if err != nil {
		return nil, fmt.Errorf("load profiles: %w", err)
	}
	if hash, err := profile.Hash(profiles); err == nil {
		log.WithFields(map[string]interface{}{
			"profiles": profiles.Names(),
			"hash":     hash[:12],
		}).Debug("Risk profiles loaded")
	}

	// 4. Redis cache (optional)
	rc, err := redis.New(ctx, cfg)
	if err != nil {
		log.WithError(err).Warn("Redis unavailable, catalog cache is process-local")
		rc = redis.Disabled()
	}
	a.closers = append(a.closers, func() { rc.Close() })
	cache := redis.NewCache(rc, cachePrefix)

	// 5. Product Vault + Onboarding sources
	vault, err := vaultSource(ctx, cfg, log)
	if err != nil {
		a.Close()
		return nil, err
	}
	a.catalogs = catalog.NewRepository(vault, cache, cfg.Catalog.CacheTTL, log)
	a.onboarding = catalog.NewOnboardingBook(fileSource(cfg.Catalog.OnboardingPath))

	log.WithFields(map[string]interface{}{
		"vault":      vault.String(),
		"onboarding": cfg.Catalog.OnboardingPath,
		"redis":      rc.Enabled(),
	}).Debug("Catalog sources configured")

	// 6. Recommendation store (optional)
	var store recommendation.Store = recommendation.NoopStore{}
	if opts.store {
		s, closeStore, err := openStore(ctx, cfg, log)
		if err != nil {
			a.Close()
			return nil, err
		}
		store = s
		a.closers = append(a.closers, closeStore)
	}

	// 7. Advisor
	a.advisor = advisor.NewService(profiles, a.catalogs, store, advisor.Options{
		ProjectionYears:    cfg.Advisory.ProjectionYears,
		MaxProjectionYears: cfg.Advisory.MaxProjectionYears,
		StrictBudget:       cfg.Advisory.StrictBudget,
	}, log)

	return a, nil
}

// Close releases connections in reverse order
func (a *app) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
	a.closers = nil
}

// vaultSource picks the Product Vault backend: S3, then URL, then local path
func vaultSource(ctx context.Context, cfg *config.Config, log *logger.Logger) (catalog.Source, error) {
	if s3 := cfg.Catalog.ProductVaultS3; s3.Enabled() {
		client, err := objectstore.New(ctx, s3)
		if err != nil {
			return nil, fmt.Errorf("create s3 client: %w", err)
		}
		return catalog.NewS3Source(client, s3.Bucket, s3.Key), nil
	}
	if cfg.Catalog.ProductVaultURL != "" {
		return catalog.NewRemoteSource(cfg.Catalog.ProductVaultURL, httputil.New(log)), nil
	}
	return fileSource(cfg.Catalog.ProductVaultPath), nil
}

// fileSource reads a directory of CSV exports or a single workbook
func fileSource(path string) catalog.Source {
	if info, err := os.Stat(path); err == nil && info.IsDir() {
		return catalog.NewCSVSource(path)
	}
	return catalog.NewXLSXSource(path)
}

// openStore connects the recommendation store: PostgreSQL when DATABASE_URL
// is set, else SQLite when SQLITE_PATH is set, else NoopStore (저장 없음).
func openStore(ctx context.Context, cfg *config.Config, log *logger.Logger) (recommendation.Store, func(), error) {
	db, err := database.New(ctx, cfg)
	if errors.Is(err, database.ErrNotConfigured) {
		return openSQLiteStore(ctx, cfg, log)
	}
	if err != nil {
		return nil, nil, fmt.Errorf("connect to database: %w", err)
	}

	if err := db.Migrate(ctx); err != nil {
		db.Close()
		return nil, nil, fmt.Errorf("migrate database: %w", err)
	}

	log.Info("Connected to database")
	return recommendation.NewRepository(db.Pool), db.Close, nil
}

func openSQLiteStore(ctx context.Context, cfg *config.Config, log *logger.Logger) (recommendation.Store, func(), error) {
	path := cfg.Database.SQLitePath
	if path == "" {
		log.Info("No database configured, recommendations are not persisted")
		return recommendation.NoopStore{}, func() {}, nil
	}

	conn, err := database.OpenSQLite(ctx, path)
	if err != nil {
		return nil, nil, err
	}

	log.WithField("path", path).Info("Using SQLite recommendation store")
	return recommendation.NewSQLiteRepository(conn), func() { conn.Close() }, nil
}
