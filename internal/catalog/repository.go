package catalog

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/Plantrich-blimp/plantrich-app/internal/contracts"
	"github.com/Plantrich-blimp/plantrich-app/pkg/logger"
	"github.com/Plantrich-blimp/plantrich-app/pkg/redis"
)

// Repository serves product catalogs, reading each sheet at most once per
// source fingerprint.
// ⭐ SSOT: Product Vault 조회는 Repository 를 통해서만
type Repository struct {
	source Source
	cache  *redis.Cache
	ttl    time.Duration
	logger *logger.Logger

	mu          sync.Mutex
	fingerprint string
	catalogs    map[contracts.ProductType]contracts.Catalog
}

// NewRepository creates a repository over source.
// cache may be nil (in-process caching only).
func NewRepository(source Source, cache *redis.Cache, ttl time.Duration, log *logger.Logger) *Repository {
	return &Repository{
		source:   source,
		cache:    cache,
		ttl:      ttl,
		logger:   log.WithComponent("catalog"),
		catalogs: make(map[contracts.ProductType]contracts.Catalog),
	}
}

// Source returns the underlying source
func (r *Repository) Source() Source {
	return r.source
}

// Load returns the catalog of a product type.
// A missing sheet yields an empty catalog and no error; a missing or
// unreadable workbook yields a *LoadError.
func (r *Repository) Load(ctx context.Context, pt contracts.ProductType) (contracts.Catalog, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if c, ok := r.catalogs[pt]; ok {
		return c, nil
	}

	if r.fingerprint == "" {
		fp, err := r.source.Fingerprint(ctx)
		if err != nil {
			return contracts.Catalog{}, r.loadError(pt, err)
		}
		r.fingerprint = fp
	}

	key := redis.CatalogKey(string(pt), r.fingerprint)
	if r.cache != nil {
		var cached contracts.Catalog
		hit, err := r.cache.Get(ctx, key, &cached)
		if err != nil {
			r.logger.WithError(err).Warn("catalog cache read failed")
		}
		if hit {
			r.catalogs[pt] = cached
			return cached, nil
		}
	}

	start := time.Now()
	rows, err := r.source.Rows(ctx, string(pt))
	switch {
	case errors.Is(err, ErrSheetNotFound):
		r.logger.WithField("product_type", pt).Warn("sheet missing, serving empty catalog")
		rows = nil
	case err != nil:
		return contracts.Catalog{}, r.loadError(pt, err)
	}

	c := contracts.Catalog{
		ProductType: pt,
		Products:    ParseProducts(rows),
		Fingerprint: r.fingerprint,
	}
	r.catalogs[pt] = c

	r.logger.WithFields(map[string]interface{}{
		"product_type": pt,
		"products":     c.Len(),
		"fingerprint":  r.fingerprint,
		"duration_ms":  time.Since(start).Milliseconds(),
	}).Info("catalog loaded")

	if r.cache != nil {
		if err := r.cache.Set(ctx, key, c, r.ttl); err != nil {
			r.logger.WithError(err).Warn("catalog cache write failed")
		}
	}

	return c, nil
}

// Invalidate drops every cached catalog; the next Load rereads the source
func (r *Repository) Invalidate() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.fingerprint = ""
	r.catalogs = make(map[contracts.ProductType]contracts.Catalog)
}

// Refresh compares the source fingerprint with the cached one and drops the
// cached catalogs when it changed. It reports whether anything was dropped.
func (r *Repository) Refresh(ctx context.Context) (bool, error) {
	fp, err := r.source.Fingerprint(ctx)
	if err != nil {
		return false, &LoadError{Source: r.source.String(), Err: err}
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if fp == r.fingerprint {
		return false, nil
	}

	previous := r.fingerprint
	r.fingerprint = fp
	dropped := len(r.catalogs)
	r.catalogs = make(map[contracts.ProductType]contracts.Catalog)

	if previous == "" {
		return false, nil
	}

	r.logger.WithFields(map[string]interface{}{
		"previous": previous,
		"current":  fp,
		"dropped":  dropped,
	}).Info("catalog source changed")

	return true, nil
}

func (r *Repository) loadError(pt contracts.ProductType, err error) error {
	r.logger.WithError(err).WithField("product_type", pt).Error("catalog load failed")
	return &LoadError{ProductType: pt, Source: r.source.String(), Err: err}
}
