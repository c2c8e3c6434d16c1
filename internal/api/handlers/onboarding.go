package handlers

import (
	"context"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/Plantrich-blimp/plantrich-app/internal/contracts"
	"github.com/Plantrich-blimp/plantrich-app/pkg/logger"
)

// OnboardingBook lists and reads onboarding sections
type OnboardingBook interface {
	Sheets(ctx context.Context) ([]string, error)
	Section(ctx context.Context, name string) (contracts.Table, error)
}

// OnboardingHandler serves the onboarding workbook
type OnboardingHandler struct {
	book   OnboardingBook
	logger *logger.Logger
}

// NewOnboardingHandler creates a new onboarding handler
func NewOnboardingHandler(book OnboardingBook, log *logger.Logger) *OnboardingHandler {
	return &OnboardingHandler{book: book, logger: log.WithComponent("api")}
}

// ListSections returns the onboarding section names
// GET /api/onboarding
func (h *OnboardingHandler) ListSections(w http.ResponseWriter, r *http.Request) {
	sections, err := h.book.Sheets(r.Context())
	if err != nil {
		respondErr(w, h.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{"sections": sections})
}

// GetSection returns one onboarding section as a table
// GET /api/onboarding/{section}
func (h *OnboardingHandler) GetSection(w http.ResponseWriter, r *http.Request) {
	table, err := h.book.Section(r.Context(), mux.Vars(r)["section"])
	if err != nil {
		respondErr(w, h.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, table)
}
