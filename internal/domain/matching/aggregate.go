package matching

import (
	"errors"
	"fmt"
	"math"
	"time"
)

// ScoringProfile names a factor set plus the formula that combines it.
type ScoringProfile string

const (
	// ScoringClient is the quick weighted average used for on-the-fly match badges.
	ScoringClient ScoringProfile = "client"
	// ScoringDaily is the additive point budget used for daily recommendations.
	ScoringDaily ScoringProfile = "daily"
)

var ErrUnknownScoringProfile = errors.New("unknown scoring profile")

func ParseScoringProfile(s string) (ScoringProfile, error) {
	switch ScoringProfile(Normalize(s)) {
	case "", ScoringClient:
		return ScoringClient, nil
	case ScoringDaily:
		return ScoringDaily, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownScoringProfile, s)
	}
}

type Aggregator interface {
	Profile() ScoringProfile
	Score(p CandidateProfile, l Listing, asOf time.Time) MatchResult
}

func AggregatorFor(sp ScoringProfile) (Aggregator, error) {
	switch sp {
	case ScoringClient:
		return clientAggregator{}, nil
	case ScoringDaily:
		return dailyAggregator{}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownScoringProfile, sp)
	}
}

const (
	clientSkillWeight     = 0.40
	clientRoleWeight      = 0.25
	clientEducationWeight = 0.20
	clientBranchWeight    = 0.15
)

type clientAggregator struct{}

func (clientAggregator) Profile() ScoringProfile { return ScoringClient }

func (clientAggregator) Score(p CandidateProfile, l Listing, _ time.Time) MatchResult {
	factors := map[Factor]int{
		FactorSkills:    SkillScore(p, l),
		FactorRole:      RoleScore(p, l),
		FactorEducation: EducationScore(p, l),
		FactorBranch:    BranchScore(p, l),
	}

	total := clientSkillWeight*float64(factors[FactorSkills]) +
		clientRoleWeight*float64(factors[FactorRole]) +
		clientEducationWeight*float64(factors[FactorEducation]) +
		clientBranchWeight*float64(factors[FactorBranch])

	return MatchResult{
		ListingID:    l.ID,
		OverallScore: clampScore(int(math.Round(total))),
		FactorScores: factors,
		Reasons:      buildReasons(factors),
	}
}

const (
	dailySkillPoints    = 40.0
	dailyLocationPoints = 20.0
	dailyRolePoints     = 20.0
	dailyStipendPoints  = 10.0
	dailyCompanyPoints  = 5.0
	dailyRecencyPoints  = 5.0

	// dailyRoleMatchThreshold is the lowest RoleScore counted as a role match:
	// a primary or target role found in the listing title.
	dailyRoleMatchThreshold = 90
)

type dailyAggregator struct{}

func (dailyAggregator) Profile() ScoringProfile { return ScoringDaily }

func (dailyAggregator) Score(p CandidateProfile, l Listing, asOf time.Time) MatchResult {
	skills := MatchSkills(p, l)
	factors := map[Factor]int{
		FactorSkills:   skills.Score(),
		FactorLocation: LocationScore(p, l),
		FactorRole:     RoleScore(p, l),
		FactorStipend:  StipendScore(p, l),
		FactorCompany:  CompanyScore(l),
		FactorRecency:  RecencyScore(l, asOf),
	}

	total := dailySkillPoints * skills.Ratio()
	if factors[FactorLocation] == 100 {
		total += dailyLocationPoints
	}
	if factors[FactorRole] >= dailyRoleMatchThreshold {
		total += dailyRolePoints
	}
	if factors[FactorStipend] == 100 {
		total += dailyStipendPoints
	}
	if factors[FactorCompany] == 100 {
		total += dailyCompanyPoints
	}
	if factors[FactorRecency] == 100 {
		total += dailyRecencyPoints
	}

	return MatchResult{
		ListingID:    l.ID,
		OverallScore: clampScore(int(math.Round(total))),
		FactorScores: factors,
		Reasons:      buildReasons(factors),
	}
}
