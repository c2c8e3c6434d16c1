package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/Plantrich-blimp/plantrich-app/internal/advisor"
	"github.com/Plantrich-blimp/plantrich-app/internal/catalog"
	"github.com/Plantrich-blimp/plantrich-app/internal/engine"
	"github.com/Plantrich-blimp/plantrich-app/internal/recommendation"
	"github.com/Plantrich-blimp/plantrich-app/pkg/logger"
)

// maxBodyBytes bounds JSON request bodies
const maxBodyBytes = 1 << 20

// ErrorResponse is the body of every non-2xx JSON answer
type ErrorResponse struct {
	Error string `json:"error"`
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, ErrorResponse{Error: message})
}

// respondErr maps domain errors onto HTTP status codes.
// 5xx 는 내부 메시지를 숨기고 로그에만 남긴다.
func respondErr(w http.ResponseWriter, log *logger.Logger, err error) {
	status := StatusFor(err)
	if status >= http.StatusInternalServerError {
		log.WithError(err).Error("request failed")
		if status == http.StatusInternalServerError {
			respondError(w, status, "Internal server error")
			return
		}
	}
	respondError(w, status, err.Error())
}

// StatusFor returns the HTTP status of a domain error
func StatusFor(err error) int {
	switch {
	case errors.Is(err, engine.ErrInvalidInput),
		errors.Is(err, advisor.ErrUnknownProfile),
		errors.Is(err, advisor.ErrUnknownProductType),
		errors.Is(err, advisor.ErrUnknownFund),
		errors.Is(err, recommendation.ErrInvalidID):
		return http.StatusBadRequest
	case errors.Is(err, advisor.ErrBudgetExceeded):
		return http.StatusUnprocessableEntity
	case errors.Is(err, recommendation.ErrNotFound),
		errors.Is(err, catalog.ErrSheetNotFound):
		return http.StatusNotFound
	case errors.Is(err, catalog.ErrSourceUnavailable):
		return http.StatusBadGateway
	case errors.Is(err, recommendation.ErrDisabled),
		errors.Is(err, catalog.ErrSourceNotFound):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// decodeJSON reads a bounded JSON body, rejecting unknown fields
func decodeJSON(w http.ResponseWriter, r *http.Request, dst interface{}) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	return dec.Decode(dst)
}
