// Package jobs holds the scheduled jobs of the advisory backend.
package jobs

import (
	"context"
	"fmt"

	"github.com/Plantrich-blimp/plantrich-app/pkg/logger"
)

// CatalogRefresher detects source changes and drops stale catalogs
type CatalogRefresher interface {
	Refresh(ctx context.Context) (bool, error)
}

// CatalogRefreshJob polls the Product Vault source for changes
type CatalogRefreshJob struct {
	name     string
	schedule string
	catalogs []CatalogRefresher
	logger   *logger.Logger
}

// NewCatalogRefreshJob creates the job. Every refresher is polled on each run.
func NewCatalogRefreshJob(schedule string, log *logger.Logger, catalogs ...CatalogRefresher) *CatalogRefreshJob {
	return &CatalogRefreshJob{
		name:     "catalog_refresh",
		schedule: schedule,
		catalogs: catalogs,
		logger:   log.WithField("job", "catalog_refresh"),
	}
}

// Name returns the job name
func (j *CatalogRefreshJob) Name() string {
	return j.name
}

// Schedule returns the cron expression
func (j *CatalogRefreshJob) Schedule() string {
	return j.schedule
}

// Run refreshes every catalog, failing on the first error
func (j *CatalogRefreshJob) Run(ctx context.Context) error {
	changed := 0
	for i, c := range j.catalogs {
		ok, err := c.Refresh(ctx)
		if err != nil {
			return fmt.Errorf("refresh catalog %d: %w", i, err)
		}
		if ok {
			changed++
		}
	}

	if changed > 0 {
		j.logger.WithField("changed", changed).Info("Catalog change detected, cache invalidated")
	}
	return nil
}
