package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"intern-match/internal/database"
	"intern-match/internal/domain/matching"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

var ErrProfileNotFound = errors.New("profile not found")

type ProfileRepository interface {
	FindByCandidateID(ctx context.Context, candidateID uuid.UUID) (matching.CandidateProfile, error)
	ListCandidateIDs(ctx context.Context) ([]uuid.UUID, error)
}

type PostgresProfileRepository struct {
	db database.DB
}

func NewPostgresProfileRepository(db database.DB) *PostgresProfileRepository {
	return &PostgresProfileRepository{db: db}
}

// FindByCandidateID loads the stored profile. The list columns are JSONB written by
// other services, so the row goes through the same loose decoding as HTTP input.
func (r *PostgresProfileRepository) FindByCandidateID(ctx context.Context, candidateID uuid.UUID) (matching.CandidateProfile, error) {
	var (
		id                             uuid.UUID
		skills, targetRoles            []byte
		primaryRole, branch, education sql.NullString
		location                       sql.NullString
		expectedStipend                sql.NullInt64
	)

	row := r.db.QueryRow(ctx,
		`SELECT candidate_id, skills, target_roles, primary_role, branch_or_major,
		        education_status, location_preference, expected_stipend
		 FROM candidate_profiles
		 WHERE candidate_id = $1`,
		candidateID,
	)
	if err := row.Scan(&id, &skills, &targetRoles, &primaryRole, &branch, &education, &location, &expectedStipend); err != nil {
		if err == sql.ErrNoRows || errors.Is(err, pgx.ErrNoRows) {
			return matching.CandidateProfile{}, ErrProfileNotFound
		}
		return matching.CandidateProfile{}, err
	}

	raw := map[string]any{
		"candidate_id":        id.String(),
		"skills":              decodeJSONList(skills),
		"target_roles":        decodeJSONList(targetRoles),
		"primary_role":        primaryRole.String,
		"branch_or_major":     branch.String,
		"education_status":    education.String,
		"location_preference": location.String,
	}
	if expectedStipend.Valid {
		raw["expected_stipend"] = expectedStipend.Int64
	}

	p, err := matching.DecodeProfile(raw)
	if err != nil {
		return matching.CandidateProfile{}, fmt.Errorf("candidate %s: %w", candidateID, err)
	}
	return p, nil
}

func (r *PostgresProfileRepository) ListCandidateIDs(ctx context.Context) ([]uuid.UUID, error) {
	rows, err := r.db.Query(ctx, `SELECT candidate_id FROM candidate_profiles ORDER BY candidate_id ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]uuid.UUID, 0)
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		out = append(out, id)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// decodeJSONList returns whatever the column holds; shape checks happen in the
// matching decoder.
func decodeJSONList(b []byte) any {
	if len(b) == 0 {
		return nil
	}
	var v any
	if err := json.Unmarshal(b, &v); err != nil {
		return nil
	}
	return v
}
