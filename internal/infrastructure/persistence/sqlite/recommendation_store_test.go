package sqlite

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"intern-match/internal/domain/matching"
	"intern-match/internal/domain/recommendation"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTemp(t *testing.T) *RecommendationStore {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "recs.sqlite"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func record(id uuid.UUID, date string, score int) recommendation.DailyRecord {
	return recommendation.DailyRecord{
		CandidateID: id,
		Date:        date,
		GeneratedAt: time.Date(2026, 10, 16, 5, 0, 0, 123000, time.UTC),
		Items: []recommendation.Item{{
			MatchResult: matching.MatchResult{
				ListingID:    "l1",
				OverallScore: score,
				FactorScores: map[matching.Factor]int{matching.FactorSkills: score},
				Reasons:      []string{"Strong skill match"},
			},
			Title:       "Backend Intern",
			CompanyName: "Acme",
		}},
	}
}

func TestRecommendationStore_Lifecycle(t *testing.T) {
	ctx := context.Background()
	s := openTemp(t)
	id := uuid.New()

	_, ok, err := s.Get(ctx, id, "2026-10-16")
	require.NoError(t, err)
	assert.False(t, ok)

	first := record(id, "2026-10-16", 80)
	require.NoError(t, s.Upsert(ctx, first))

	got, ok, err := s.Get(ctx, id, "2026-10-16")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, first, got)

	require.NoError(t, s.Replace(ctx, record(id, "2026-10-16", 55)))
	got, _, err = s.Get(ctx, id, "2026-10-16")
	require.NoError(t, err)
	require.Len(t, got.Items, 1)
	assert.Equal(t, 55, got.Items[0].OverallScore)

	_, ok, err = s.Get(ctx, id, "2026-10-17")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, s.Delete(ctx, id, "2026-10-16"))
	_, ok, err = s.Get(ctx, id, "2026-10-16")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRecommendationStore_RejectsNilCandidate(t *testing.T) {
	s := openTemp(t)
	assert.Error(t, s.Upsert(context.Background(), record(uuid.Nil, "2026-10-16", 1)))
}
