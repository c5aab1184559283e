package repository

import (
	"context"

	"intern-match/internal/database"

	"github.com/google/uuid"
)

type ApplicationRepository interface {
	ListAppliedListingIDs(ctx context.Context, candidateID uuid.UUID) ([]string, error)
}

type PostgresApplicationRepository struct {
	db database.DB
}

func NewPostgresApplicationRepository(db database.DB) *PostgresApplicationRepository {
	return &PostgresApplicationRepository{db: db}
}

func (r *PostgresApplicationRepository) ListAppliedListingIDs(ctx context.Context, candidateID uuid.UUID) ([]string, error) {
	rows, err := r.db.Query(ctx,
		`SELECT listing_id FROM applications WHERE candidate_id = $1`,
		candidateID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]string, 0)
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		out = append(out, id.String())
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
