package matching

import "time"

// Engine is the embedded, side-effect free entry point used by callers that only
// need the client heuristic. It carries no state besides its clock.
type Engine struct {
	now func() time.Time
}

func NewEngine(now func() time.Time) *Engine {
	if now == nil {
		now = time.Now
	}
	return &Engine{now: now}
}

// MatchScore returns the client-heuristic overall score of one listing.
func (e *Engine) MatchScore(p CandidateProfile, l Listing) int {
	res, _ := e.Match(p, l, ScoringClient)
	return res.OverallScore
}

func (e *Engine) Match(p CandidateProfile, l Listing, sp ScoringProfile) (MatchResult, error) {
	agg, err := AggregatorFor(sp)
	if err != nil {
		return MatchResult{}, err
	}
	return scoreOne(agg, NewCandidateProfile(p), l, e.clock())
}

// RankListings applies eligibility (active, deadline not passed) and ranks the
// catalog with the client heuristic.
func (e *Engine) RankListings(p CandidateProfile, all []Listing, minScore, limit int) []MatchResult {
	out, _ := e.Rank(p, all, nil, RankOptions{Scoring: ScoringClient, MinScore: minScore, Limit: limit})
	return out
}

// Rank is RankListings for any scoring profile and an explicit applied-ID set.
func (e *Engine) Rank(p CandidateProfile, all []Listing, appliedIDs []string, opts RankOptions) ([]MatchResult, error) {
	if opts.AsOf.IsZero() {
		opts.AsOf = e.clock()
	}
	eligible := EligibleListings(all, appliedIDs, opts.AsOf)
	return Rank(p, eligible, opts)
}

func (e *Engine) clock() time.Time {
	if e == nil || e.now == nil {
		return time.Now()
	}
	return e.now()
}
