package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// RecommendationCache is the shared read-through cache in front of the record
// store. It also provides the cross-instance generation lock.
type RecommendationCache interface {
	GetJSON(ctx context.Context, key string, out any) (bool, error)
	SetJSON(ctx context.Context, key string, value any, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	SetIfNotExists(ctx context.Context, key string, value string, ttl time.Duration) (bool, error)
}

const (
	dailyLockTTL  = 30 * time.Second
	dailyLockWait = 300 * time.Millisecond
)

func DailyRecordCacheKey(candidateID uuid.UUID, date string) string {
	return "recs:daily:" + candidateID.String() + ":" + date
}

// DailyRecordCachePattern matches every cached daily record for date, or for all
// dates when date is empty.
func DailyRecordCachePattern(date string) string {
	if date == "" {
		return "recs:daily:*"
	}
	return "recs:daily:*:" + date
}

func DailyRecordLockKey(candidateID uuid.UUID, date string) string {
	return "recs:lock:" + candidateID.String() + ":" + date
}

// cacheTTL keeps a cached record no longer than the end of its day.
func cacheTTL(now time.Time, loc *time.Location, max time.Duration) time.Duration {
	local := now.In(loc)
	y, m, d := local.Date()
	untilMidnight := time.Date(y, m, d+1, 0, 0, 0, 0, loc).Sub(local)
	if max > 0 && max < untilMidnight {
		return max
	}
	return untilMidnight
}
