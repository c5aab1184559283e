package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"intern-match/internal/domain/recommendation"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS daily_recommendations (
	candidate_id TEXT NOT NULL,
	rec_date     TEXT NOT NULL,
	items        TEXT NOT NULL,
	generated_at TEXT NOT NULL,
	PRIMARY KEY (candidate_id, rec_date)
)`

// RecommendationStore keeps daily records in a local SQLite file for offline runs.
type RecommendationStore struct {
	db *sql.DB
}

func Open(path string) (*RecommendationStore, error) {
	dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(5000)", path)

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)
	db.SetConnMaxLifetime(5 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}

	return &RecommendationStore{db: db}, nil
}

func (s *RecommendationStore) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *RecommendationStore) Get(ctx context.Context, candidateID uuid.UUID, date string) (recommendation.DailyRecord, bool, error) {
	var items, generatedAt string
	err := s.db.QueryRowContext(ctx,
		`SELECT items, generated_at FROM daily_recommendations WHERE candidate_id = ? AND rec_date = ?`,
		candidateID.String(), date,
	).Scan(&items, &generatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return recommendation.DailyRecord{}, false, nil
		}
		return recommendation.DailyRecord{}, false, err
	}

	ts, err := time.Parse(time.RFC3339Nano, generatedAt)
	if err != nil {
		return recommendation.DailyRecord{}, false, fmt.Errorf("generated_at %q: %w", generatedAt, err)
	}
	rec := recommendation.DailyRecord{CandidateID: candidateID, Date: date, GeneratedAt: ts}
	if err := json.Unmarshal([]byte(items), &rec.Items); err != nil {
		return recommendation.DailyRecord{}, false, fmt.Errorf("decode items: %w", err)
	}
	if rec.Items == nil {
		rec.Items = []recommendation.Item{}
	}
	return rec, true, nil
}

// Upsert and Replace are the same statement here: INSERT OR REPLACE swaps the
// row atomically.
func (s *RecommendationStore) Upsert(ctx context.Context, rec recommendation.DailyRecord) error {
	return s.Replace(ctx, rec)
}

func (s *RecommendationStore) Replace(ctx context.Context, rec recommendation.DailyRecord) error {
	if rec.CandidateID == uuid.Nil {
		return errors.New("daily record without candidate id")
	}
	items := rec.Items
	if items == nil {
		items = []recommendation.Item{}
	}
	b, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("encode items: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if _, err := tx.ExecContext(ctx,
		`INSERT OR REPLACE INTO daily_recommendations (candidate_id, rec_date, items, generated_at) VALUES (?, ?, ?, ?)`,
		rec.CandidateID.String(), rec.Date, string(b), rec.GeneratedAt.UTC().Format(time.RFC3339Nano),
	); err != nil {
		return err
	}
	return tx.Commit()
}

func (s *RecommendationStore) Delete(ctx context.Context, candidateID uuid.UUID, date string) error {
	_, err := s.db.ExecContext(ctx,
		`DELETE FROM daily_recommendations WHERE candidate_id = ? AND rec_date = ?`,
		candidateID.String(), date,
	)
	return err
}
