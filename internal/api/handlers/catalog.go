package handlers

import (
	"context"
	"net/http"

	"github.com/Plantrich-blimp/plantrich-app/pkg/logger"
)

// CatalogRefresher detects Product Vault changes
type CatalogRefresher interface {
	Refresh(ctx context.Context) (bool, error)
}

// CatalogHandler exposes catalog maintenance endpoints
type CatalogHandler struct {
	catalog CatalogRefresher
	logger  *logger.Logger
}

// NewCatalogHandler creates a new catalog handler
func NewCatalogHandler(catalog CatalogRefresher, log *logger.Logger) *CatalogHandler {
	return &CatalogHandler{catalog: catalog, logger: log.WithComponent("api")}
}

// RefreshResponse reports whether cached catalogs were dropped
type RefreshResponse struct {
	Status  string `json:"status"`
	Changed bool   `json:"changed"`
}

// Refresh checks the source and drops stale catalogs
// POST /api/catalog/refresh
func (h *CatalogHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	changed, err := h.catalog.Refresh(r.Context())
	if err != nil {
		respondErr(w, h.logger, err)
		return
	}

	h.logger.WithField("changed", changed).Info("Catalog refresh requested")
	respondJSON(w, http.StatusOK, RefreshResponse{Status: "ok", Changed: changed})
}
