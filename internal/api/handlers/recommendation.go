package handlers

import (
	"bytes"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/Plantrich-blimp/plantrich-app/internal/advisor"
	"github.com/Plantrich-blimp/plantrich-app/internal/contracts"
	"github.com/Plantrich-blimp/plantrich-app/internal/report"
)

// Export formats accepted by ?format=
const (
	FormatJSON = "json"
	FormatCSV  = "csv"
	FormatXLSX = "xlsx"

	xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

// RecommendationView is a recommendation plus its chart data
type RecommendationView struct {
	*contracts.Recommendation
	AllocationChart  *report.PieChart `json:"allocation_chart,omitempty"`
	CompositionChart report.PieChart  `json:"composition_chart"`
	ProjectionChart  report.LineChart `json:"projection_chart"`
}

// NewRecommendationView attaches chart data to rec
func NewRecommendationView(rec *contracts.Recommendation) RecommendationView {
	view := RecommendationView{
		Recommendation:   rec,
		CompositionChart: report.CompositionPie(rec),
		ProjectionChart:  report.ProjectionChart(rec),
	}
	if rec.Allocation != nil {
		pie := report.AllocationPie(rec.Allocation)
		view.AllocationChart = &pie
	}
	return view
}

// CreateRecommendation builds, saves and returns (or exports) a recommendation
// POST /api/recommendations?format=json|csv|xlsx
func (h *AdvisorHandler) CreateRecommendation(w http.ResponseWriter, r *http.Request) {
	format, ok := exportFormat(r)
	if !ok {
		respondError(w, http.StatusBadRequest, "format must be json, csv or xlsx")
		return
	}

	var req advisor.RecommendRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	rec, err := h.advisor.Recommend(r.Context(), req)
	if err != nil {
		respondErr(w, h.logger, err)
		return
	}

	h.export(w, rec, format, http.StatusCreated)
}

// GetRecommendation returns (or exports) a saved recommendation
// GET /api/recommendations/{id}?format=json|csv|xlsx
func (h *AdvisorHandler) GetRecommendation(w http.ResponseWriter, r *http.Request) {
	format, ok := exportFormat(r)
	if !ok {
		respondError(w, http.StatusBadRequest, "format must be json, csv or xlsx")
		return
	}

	rec, err := h.advisor.Recommendation(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		respondErr(w, h.logger, err)
		return
	}

	h.export(w, rec, format, http.StatusOK)
}

// ListRecommendations returns the recommendation history
// GET /api/recommendations?limit=
func (h *AdvisorHandler) ListRecommendations(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			respondError(w, http.StatusBadRequest, "limit must be a non-negative integer")
			return
		}
		limit = n
	}

	list, err := h.advisor.History(r.Context(), limit)
	if err != nil {
		respondErr(w, h.logger, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"recommendations": list,
		"count":           len(list),
	})
}

func (h *AdvisorHandler) export(w http.ResponseWriter, rec *contracts.Recommendation, format string, status int) {
	var buf bytes.Buffer
	var contentType string

	switch format {
	case FormatCSV:
		contentType = "text/csv; charset=utf-8"
		if err := report.WriteCSV(&buf, rec); err != nil {
			respondErr(w, h.logger, err)
			return
		}
	case FormatXLSX:
		contentType = xlsxContentType
		if err := report.WriteXLSX(&buf, rec); err != nil {
			respondErr(w, h.logger, err)
			return
		}
	default:
		respondJSON(w, status, NewRecommendationView(rec))
		return
	}

	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, exportFilename(rec, format)))
	w.WriteHeader(status)
	w.Write(buf.Bytes())
}

func exportFormat(r *http.Request) (string, bool) {
	switch f := r.URL.Query().Get("format"); f {
	case "", FormatJSON:
		return FormatJSON, true
	case FormatCSV, FormatXLSX:
		return f, true
	default:
		return "", false
	}
}

func exportFilename(rec *contracts.Recommendation, format string) string {
	if rec.ID == "" {
		return "recommendation." + format
	}
	return "recommendation-" + rec.ID + "." + format
}
