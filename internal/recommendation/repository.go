package recommendation

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Plantrich-blimp/plantrich-app/internal/contracts"
)

// DefaultListLimit caps List when the caller passes no limit
const DefaultListLimit = 50

// Repository stores recommendations in advisory.recommendations
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a new Repository instance
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// Save inserts rec as a JSONB payload
func (r *Repository) Save(ctx context.Context, rec *contracts.Recommendation) (string, error) {
	id, err := stamp(rec)
	if err != nil {
		return "", err
	}

	payload, err := json.Marshal(rec)
	if err != nil {
		return "", fmt.Errorf("marshal recommendation: %w", err)
	}

	query := `
		INSERT INTO advisory.recommendations (
			id,
			profile,
			profile_hash,
			product_type,
			amount,
			payload,
			created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err = r.pool.Exec(ctx, query,
		id,
		rec.Profile,
		rec.ProfileHash,
		string(rec.ProductType),
		investedAmount(rec),
		payload,
		rec.CreatedAt,
	)
	if err != nil {
		return "", fmt.Errorf("insert recommendation: %w", err)
	}

	return rec.ID, nil
}

// Get loads one recommendation by ID
func (r *Repository) Get(ctx context.Context, id string) (*contracts.Recommendation, error) {
	uid, err := uuid.Parse(id)
	if err != nil {
		return nil, ErrInvalidID
	}

	query := `
		SELECT payload
		FROM advisory.recommendations
		WHERE id = $1
	`

	var payload []byte
	err = r.pool.QueryRow(ctx, query, uid).Scan(&payload)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query recommendation: %w", err)
	}

	var rec contracts.Recommendation
	if err := json.Unmarshal(payload, &rec); err != nil {
		return nil, fmt.Errorf("unmarshal recommendation: %w", err)
	}
	return &rec, nil
}

// List returns the most recent recommendations, newest first
func (r *Repository) List(ctx context.Context, limit int) ([]Summary, error) {
	if limit <= 0 {
		limit = DefaultListLimit
	}

	query := `
		SELECT id::text, profile, profile_hash, product_type, amount, created_at
		FROM advisory.recommendations
		ORDER BY created_at DESC
		LIMIT $1
	`

	rows, err := r.pool.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("query recommendations: %w", err)
	}
	defer rows.Close()

	out := make([]Summary, 0)
	for rows.Next() {
		var s Summary
		var productType string
		if err := rows.Scan(&s.ID, &s.Profile, &s.ProfileHash, &productType, &s.Amount, &s.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan recommendation: %w", err)
		}
		s.ProductType = contracts.ProductType(productType)
		out = append(out, s)
	}

	return out, rows.Err()
}

// investedAmount is the profile investment, or the picked total without one
func investedAmount(rec *contracts.Recommendation) float64 {
	if rec.Allocation != nil {
		return rec.Allocation.InvestmentAmount
	}
	return rec.TotalAmount()
}
