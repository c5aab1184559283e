package matching

import (
	"fmt"
	"sort"
	"time"
)

const (
	DefaultMinScore   = 60
	DefaultLimit      = 10
	DefaultDailyLimit = 5
)

type RankOptions struct {
	Scoring  ScoringProfile
	MinScore int
	Limit    int
	AsOf     time.Time

	// OnSkip is told about listings that could not be scored. Optional.
	OnSkip func(l Listing, err error)
}

// Rank scores every eligible listing, drops results below MinScore, sorts by score
// descending while keeping catalog order among equal scores, and truncates to Limit.
func Rank(p CandidateProfile, eligible []Listing, opts RankOptions) ([]MatchResult, error) {
	agg, err := AggregatorFor(opts.Scoring)
	if err != nil {
		return nil, err
	}

	limit := opts.Limit
	if limit <= 0 {
		limit = DefaultLimit
	}
	minScore := opts.MinScore
	if minScore < 0 {
		minScore = 0
	}
	asOf := opts.AsOf
	if asOf.IsZero() {
		asOf = time.Now()
	}

	p = NewCandidateProfile(p)

	out := make([]MatchResult, 0, len(eligible))
	for _, l := range eligible {
		res, err := scoreOne(agg, p, l, asOf)
		if err != nil {
			if opts.OnSkip != nil {
				opts.OnSkip(l, err)
			}
			continue
		}
		if res.OverallScore < minScore {
			continue
		}
		out = append(out, res)
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].OverallScore > out[j].OverallScore
	})

	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// scoreOne isolates a single listing so one malformed record cannot abort the ranking.
func scoreOne(agg Aggregator, p CandidateProfile, l Listing, asOf time.Time) (res MatchResult, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("score listing %q: %v", l.ID, r)
		}
	}()
	return agg.Score(p, l, asOf), nil
}
