package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/mux"

	"github.com/Plantrich-blimp/plantrich-app/internal/advisor"
	"github.com/Plantrich-blimp/plantrich-app/internal/contracts"
	"github.com/Plantrich-blimp/plantrich-app/internal/report"
	"github.com/Plantrich-blimp/plantrich-app/pkg/logger"
)

// AdvisorHandler serves profiles, allocations, products and projections
// ⭐ SSOT: 자문(advisory) API 핸들러는 이 구조체에서만
type AdvisorHandler struct {
	advisor *advisor.Service
	logger  *logger.Logger
}

// NewAdvisorHandler creates a new advisor handler
func NewAdvisorHandler(svc *advisor.Service, log *logger.Logger) *AdvisorHandler {
	return &AdvisorHandler{
		advisor: svc,
		logger:  log.WithComponent("api"),
	}
}

// ListProfiles returns every risk profile
// GET /api/profiles
func (h *AdvisorHandler) ListProfiles(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"profiles": h.advisor.Profiles(),
	})
}

// GetProfile returns one risk profile
// GET /api/profiles/{name}
func (h *AdvisorHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	p, err := h.advisor.Profile(mux.Vars(r)["name"])
	if errors.Is(err, advisor.ErrUnknownProfile) {
		respondError(w, http.StatusNotFound, err.Error())
		return
	}
	if err != nil {
		respondErr(w, h.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, p)
}

// AllocationRequest represents an allocation request
type AllocationRequest struct {
	Profile string  `json:"profile"`
	Amount  float64 `json:"amount"`
}

// AllocationResponse carries the table and its pie chart
type AllocationResponse struct {
	*contracts.AllocationResult
	Chart report.PieChart `json:"chart"`
}

// Allocate splits an amount across a profile's categories
// POST /api/allocation
func (h *AdvisorHandler) Allocate(w http.ResponseWriter, r *http.Request) {
	var req AllocationRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	res, err := h.advisor.Allocate(r.Context(), req.Profile, req.Amount)
	if err != nil {
		respondErr(w, h.logger, err)
		return
	}

	respondJSON(w, http.StatusOK, AllocationResponse{AllocationResult: res, Chart: report.AllocationPie(res)})
}

// ProductsResponse is a filtered product list plus the filter's category choices
type ProductsResponse struct {
	contracts.FilterOutcome
	Categories []string `json:"categories"`
}

// ListProducts filters a product type's catalog
// GET /api/products/{type}?category=&min_cagr=&max_cagr=&min_rating=
func (h *AdvisorHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	criteria, err := parseCriteria(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	productType := mux.Vars(r)["type"]
	outcome, err := h.advisor.Products(r.Context(), productType, criteria)
	if err != nil {
		respondErr(w, h.logger, err)
		return
	}

	categories, err := h.advisor.Categories(r.Context(), productType)
	if err != nil {
		respondErr(w, h.logger, err)
		return
	}

	respondJSON(w, http.StatusOK, ProductsResponse{FilterOutcome: outcome, Categories: categories})
}

// ProjectionResponse carries the series and its line chart
type ProjectionResponse struct {
	Series contracts.ProjectionSeries `json:"series"`
	Final  float64                    `json:"final"`
	Chart  report.LineChart           `json:"chart"`
}

// Project computes a compound growth series
// POST /api/projection
func (h *AdvisorHandler) Project(w http.ResponseWriter, r *http.Request) {
	var req advisor.ProjectionRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	series, err := h.advisor.Project(r.Context(), req)
	if err != nil {
		respondErr(w, h.logger, err)
		return
	}

	respondJSON(w, http.StatusOK, ProjectionResponse{
		Series: series,
		Final:  report.Round2(series.Final()),
		Chart:  report.SeriesChart("Projected value", series),
	})
}

func parseCriteria(r *http.Request) (contracts.FilterCriteria, error) {
	q := r.URL.Query()
	criteria := contracts.DefaultFilterCriteria()

	if c := strings.TrimSpace(q.Get("category")); c != "" {
		criteria.Category = c
	}

	for _, p := range []struct {
		key string
		dst *float64
	}{
		{"min_cagr", &criteria.MinCAGR},
		{"max_cagr", &criteria.MaxCAGR},
		{"min_rating", &criteria.MinRating},
	} {
		raw := strings.TrimSpace(q.Get(p.key))
		if raw == "" {
			continue
		}
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return criteria, errors.New("invalid " + p.key + ": " + raw)
		}
		*p.dst = v
	}

	return criteria, nil
}
