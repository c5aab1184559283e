package matching

import "time"

type Factor string

const (
	FactorSkills    Factor = "skills"
	FactorRole      Factor = "role"
	FactorEducation Factor = "education"
	FactorBranch    Factor = "branch"
	FactorLocation  Factor = "location"
	FactorStipend   Factor = "stipend"
	FactorCompany   Factor = "company"
	FactorRecency   Factor = "recency"
)

// CandidateProfile is the read-only view of a candidate the engine scores against.
// Skills and TargetRoles are never nil once a profile has been through DecodeProfile
// or NewCandidateProfile.
type CandidateProfile struct {
	CandidateID        string
	Skills             []string
	TargetRoles        []string
	PrimaryRole        string
	BranchOrMajor      string
	EducationStatus    string
	LocationPreference string
	ExpectedStipend    *int
}

type Listing struct {
	ID                string
	Title             string
	CompanyName       string
	RequiredSkills    []string
	EducationRequired string
	DomainOrCategory  string
	LocationText      string
	RemoteAllowed     *bool
	StipendMin        *int
	IsActive          bool
	DeadlineDate      *time.Time
	CreatedAt         *time.Time
}

type MatchResult struct {
	ListingID    string         `json:"listing_id"`
	OverallScore int            `json:"overall_score"`
	FactorScores map[Factor]int `json:"factor_scores"`
	Reasons      []string       `json:"reasons"`
}

// NewCandidateProfile coerces nil collections to empty ones so scorers never branch on nil.
func NewCandidateProfile(p CandidateProfile) CandidateProfile {
	p.Skills = NormalizeList(p.Skills)
	p.TargetRoles = NormalizeList(p.TargetRoles)
	return p
}

func (p CandidateProfile) Valid() bool {
	return Normalize(p.CandidateID) != ""
}

func (l Listing) Remote() bool {
	return l.RemoteAllowed != nil && *l.RemoteAllowed
}
