package recommendation

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/Plantrich-blimp/plantrich-app/internal/contracts"
)

// SQLiteRepository stores recommendations in a local SQLite file.
// created_at 은 정렬을 위해 UnixNano 로 저장.
type SQLiteRepository struct {
	db *sql.DB
}

// NewSQLiteRepository creates a repository over a database opened with database.OpenSQLite
func NewSQLiteRepository(db *sql.DB) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

// Save inserts rec as a JSON payload
func (r *SQLiteRepository) Save(ctx context.Context, rec *contracts.Recommendation) (string, error) {
	if _, err := stamp(rec); err != nil {
		return "", err
	}

	payload, err := json.Marshal(rec)
	if err != nil {
		return "", fmt.Errorf("marshal recommendation: %w", err)
	}

	query := `
		INSERT INTO recommendations (
			id,
			profile,
			profile_hash,
			product_type,
			amount,
			payload,
			created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?)
	`

	_, err = r.db.ExecContext(ctx, query,
		rec.ID,
		rec.Profile,
		rec.ProfileHash,
		string(rec.ProductType),
		investedAmount(rec),
		string(payload),
		rec.CreatedAt.UnixNano(),
	)
	if err != nil {
		return "", fmt.Errorf("insert recommendation: %w", err)
	}

	return rec.ID, nil
}

// Get loads one recommendation by ID
func (r *SQLiteRepository) Get(ctx context.Context, id string) (*contracts.Recommendation, error) {
	uid, err := uuid.Parse(id)
	if err != nil {
		return nil, ErrInvalidID
	}

	var payload string
	err = r.db.QueryRowContext(ctx, `SELECT payload FROM recommendations WHERE id = ?`, uid.String()).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query recommendation: %w", err)
	}

	var rec contracts.Recommendation
	if err := json.Unmarshal([]byte(payload), &rec); err != nil {
		return nil, fmt.Errorf("unmarshal recommendation: %w", err)
	}
	return &rec, nil
}

// List returns the most recent recommendations, newest first
func (r *SQLiteRepository) List(ctx context.Context, limit int) ([]Summary, error) {
	if limit <= 0 {
		limit = DefaultListLimit
	}

	query := `
		SELECT id, profile, profile_hash, product_type, amount, created_at
		FROM recommendations
		ORDER BY created_at DESC
		LIMIT ?
	`

	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("query recommendations: %w", err)
	}
	defer rows.Close()

	out := make([]Summary, 0)
	for rows.Next() {
		var s Summary
		var productType string
		var createdAt int64
		if err := rows.Scan(&s.ID, &s.Profile, &s.ProfileHash, &productType, &s.Amount, &createdAt); err != nil {
			return nil, fmt.Errorf("scan recommendation: %w", err)
		}
		s.ProductType = contracts.ProductType(productType)
		s.CreatedAt = time.Unix(0, createdAt).UTC()
		out = append(out, s)
	}

	return out, rows.Err()
}
