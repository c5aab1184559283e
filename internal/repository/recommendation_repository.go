package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"intern-match/internal/database"
	"intern-match/internal/domain/recommendation"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// RecommendationRepository persists one daily record per (candidate, date).
type RecommendationRepository interface {
	Get(ctx context.Context, candidateID uuid.UUID, date string) (recommendation.DailyRecord, bool, error)
	// Upsert writes the record, last writer wins.
	Upsert(ctx context.Context, rec recommendation.DailyRecord) error
	// Replace deletes any existing record for the key and writes rec atomically.
	Replace(ctx context.Context, rec recommendation.DailyRecord) error
	Delete(ctx context.Context, candidateID uuid.UUID, date string) error
}

type PostgresRecommendationRepository struct {
	db database.DB
}

func NewPostgresRecommendationRepository(db database.DB) *PostgresRecommendationRepository {
	return &PostgresRecommendationRepository{db: db}
}

func (r *PostgresRecommendationRepository) Get(ctx context.Context, candidateID uuid.UUID, date string) (recommendation.DailyRecord, bool, error) {
	var (
		items       []byte
		generatedAt time.Time
	)
	row := r.db.QueryRow(ctx,
		`SELECT items, generated_at
		 FROM daily_recommendations
		 WHERE candidate_id = $1 AND rec_date = $2::date`,
		candidateID, date,
	)
	if err := row.Scan(&items, &generatedAt); err != nil {
		if err == sql.ErrNoRows || errors.Is(err, pgx.ErrNoRows) {
			return recommendation.DailyRecord{}, false, nil
		}
		return recommendation.DailyRecord{}, false, err
	}

	rec := recommendation.DailyRecord{CandidateID: candidateID, Date: date, GeneratedAt: generatedAt.UTC()}
	if err := json.Unmarshal(items, &rec.Items); err != nil {
		return recommendation.DailyRecord{}, false, fmt.Errorf("decode items: %w", err)
	}
	if rec.Items == nil {
		rec.Items = []recommendation.Item{}
	}
	return rec, true, nil
}

func (r *PostgresRecommendationRepository) Upsert(ctx context.Context, rec recommendation.DailyRecord) error {
	items, err := encodeItems(rec)
	if err != nil {
		return err
	}
	_, err = r.db.Exec(ctx,
		`INSERT INTO daily_recommendations (candidate_id, rec_date, items, generated_at)
		 VALUES ($1, $2::date, $3, $4)
		 ON CONFLICT (candidate_id, rec_date) DO UPDATE SET
			items = EXCLUDED.items,
			generated_at = EXCLUDED.generated_at`,
		rec.CandidateID, rec.Date, items, rec.GeneratedAt,
	)
	return err
}

func (r *PostgresRecommendationRepository) Replace(ctx context.Context, rec recommendation.DailyRecord) error {
	items, err := encodeItems(rec)
	if err != nil {
		return err
	}

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback(context.Background())
	}()

	if _, err := tx.Exec(ctx,
		`DELETE FROM daily_recommendations WHERE candidate_id = $1 AND rec_date = $2::date`,
		rec.CandidateID, rec.Date,
	); err != nil {
		return err
	}
	if _, err := tx.Exec(ctx,
		`INSERT INTO daily_recommendations (candidate_id, rec_date, items, generated_at)
		 VALUES ($1, $2::date, $3, $4)`,
		rec.CandidateID, rec.Date, items, rec.GeneratedAt,
	); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

func (r *PostgresRecommendationRepository) Delete(ctx context.Context, candidateID uuid.UUID, date string) error {
	_, err := r.db.Exec(ctx,
		`DELETE FROM daily_recommendations WHERE candidate_id = $1 AND rec_date = $2::date`,
		candidateID, date,
	)
	return err
}

func encodeItems(rec recommendation.DailyRecord) ([]byte, error) {
	if rec.CandidateID == uuid.Nil {
		return nil, errors.New("daily record without candidate id")
	}
	if _, err := time.Parse(recommendation.DateLayout, rec.Date); err != nil {
		return nil, fmt.Errorf("daily record date %q: %w", rec.Date, err)
	}
	items := rec.Items
	if items == nil {
		items = []recommendation.Item{}
	}
	b, err := json.Marshal(items)
	if err != nil {
		return nil, fmt.Errorf("encode items: %w", err)
	}
	return b, nil
}
