// Package recommendation persists generated recommendations so they can be
// fetched again and exported later.
package recommendation

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/Plantrich-blimp/plantrich-app/internal/contracts"
)

var (
	// ErrNotFound is returned when no recommendation has the requested ID
	ErrNotFound = errors.New("recommendation not found")

	// ErrInvalidID is returned for IDs that are not UUIDs
	ErrInvalidID = errors.New("invalid recommendation id")

	// ErrDisabled is returned by reads when persistence is not configured
	ErrDisabled = errors.New("recommendation store disabled")
)

// Summary is one line of the recommendation history
type Summary struct {
	ID          string                `json:"id"`
	Profile     string                `json:"profile"`
	ProfileHash string                `json:"profile_hash"`
	ProductType contracts.ProductType `json:"product_type"`
	Amount      float64               `json:"amount"`
	CreatedAt   time.Time             `json:"created_at"`
}

// Store persists recommendations
type Store interface {
	// Save assigns an ID (when missing) and CreatedAt, then stores rec
	Save(ctx context.Context, rec *contracts.Recommendation) (string, error)
	Get(ctx context.Context, id string) (*contracts.Recommendation, error)
	List(ctx context.Context, limit int) ([]Summary, error)
}

// stamp fills ID and CreatedAt
func stamp(rec *contracts.Recommendation) (uuid.UUID, error) {
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}
	if rec.ID == "" {
		id := uuid.New()
		rec.ID = id.String()
		return id, nil
	}

	id, err := uuid.Parse(rec.ID)
	if err != nil {
		return uuid.Nil, ErrInvalidID
	}
	return id, nil
}

// NoopStore stamps recommendations but keeps nothing
type NoopStore struct{}

// Save assigns an ID and discards rec
func (NoopStore) Save(ctx context.Context, rec *contracts.Recommendation) (string, error) {
	if _, err := stamp(rec); err != nil {
		return "", err
	}
	return rec.ID, nil
}

// Get always fails with ErrDisabled
func (NoopStore) Get(ctx context.Context, id string) (*contracts.Recommendation, error) {
	return nil, ErrDisabled
}

// List always fails with ErrDisabled
func (NoopStore) List(ctx context.Context, limit int) ([]Summary, error) {
	return nil, ErrDisabled
}
