package matching

import (
	"math"
	"strings"
	"time"
)

const (
	neutralSkillScore = 50
	roleFloorScore    = 30
	recentWindow      = 3 * 24 * time.Hour
	stipendTolerance  = 0.8
)

// SkillMatch counts how many of the listing's required skills the candidate covers.
type SkillMatch struct {
	Matched  int
	Required int
	// CandidateSkills is the number of usable skills on the profile.
	CandidateSkills int
}

func MatchSkills(p CandidateProfile, l Listing) SkillMatch {
	required := NormalizeList(l.RequiredSkills)
	skills := NormalizeList(p.Skills)

	m := SkillMatch{Required: len(required), CandidateSkills: len(skills)}
	for _, r := range required {
		for _, s := range skills {
			if fuzzyContains(r, s) {
				m.Matched++
				break
			}
		}
	}
	return m
}

// Ratio is the matched share of required skills in [0,1]; 0.5 when the listing
// requires nothing.
func (m SkillMatch) Ratio() float64 {
	if m.Required == 0 {
		return float64(neutralSkillScore) / 100
	}
	if m.CandidateSkills == 0 {
		return 0
	}
	r := float64(m.Matched) / float64(m.Required)
	if r > 1 {
		return 1
	}
	return r
}

func (m SkillMatch) Score() int {
	if m.Required == 0 {
		return neutralSkillScore
	}
	return clampScore(int(math.Round(100 * m.Ratio())))
}

func SkillScore(p CandidateProfile, l Listing) int {
	return MatchSkills(p, l).Score()
}

// RoleScore compares the candidate's roles against the listing title and category.
// Title hits win over category hits; a total miss keeps the floor of 30.
func RoleScore(p CandidateProfile, l Listing) int {
	title := Normalize(l.Title)
	category := Normalize(l.DomainOrCategory)

	if fuzzyContains(p.PrimaryRole, title) {
		return 100
	}

	roles := NormalizeList(p.TargetRoles)
	for _, r := range roles {
		if fuzzyContains(r, title) {
			return 90
		}
	}
	for _, r := range roles {
		if fuzzyContains(r, category) {
			return 70
		}
	}
	return roleFloorScore
}

func EducationScore(p CandidateProfile, l Listing) int {
	req := Normalize(l.EducationRequired)
	status := Normalize(p.EducationStatus)

	switch {
	case req == "":
		return 100
	case status == req:
		return 100
	case strings.Contains(req, "undergraduate") && strings.Contains(status, "undergraduate"):
		return 100
	case strings.Contains(req, "graduate") && strings.Contains(status, "graduate"):
		return 100
	case strings.Contains(req, "graduate") && strings.Contains(status, "completed"):
		return 90
	default:
		return 60
	}
}

func BranchScore(p CandidateProfile, l Listing) int {
	branch := Normalize(p.BranchOrMajor)
	domain := Normalize(l.DomainOrCategory)

	switch {
	case domain == "":
		return 70
	case branch == "":
		return 50
	case fuzzyContains(branch, domain):
		return 100
	}

	for _, kw := range domainKeywordsFor(branch) {
		if keywordIn(domain, kw) {
			return 85
		}
	}
	return 40
}

func LocationScore(p CandidateProfile, l Listing) int {
	pref := Normalize(p.LocationPreference)
	loc := Normalize(l.LocationText)

	switch {
	case pref == "":
		return 0
	case strings.Contains(pref, "remote") && l.Remote():
		return 100
	case loc != "" && strings.Contains(loc, pref):
		return 100
	case strings.Contains(pref, "any") && loc != "":
		return 100
	default:
		return 0
	}
}

// StipendScore gives full credit when the listing pays at least 80% of what the
// candidate expects. A candidate without an expectation is never penalized.
func StipendScore(p CandidateProfile, l Listing) int {
	if p.ExpectedStipend == nil || *p.ExpectedStipend <= 0 {
		return 100
	}
	if l.StipendMin == nil {
		return 0
	}
	if float64(*l.StipendMin) >= stipendTolerance*float64(*p.ExpectedStipend) {
		return 100
	}
	return 0
}

func CompanyScore(l Listing) int {
	if isTopTierCompany(l.CompanyName) {
		return 100
	}
	return 0
}

func RecencyScore(l Listing, asOf time.Time) int {
	if l.CreatedAt == nil || l.CreatedAt.IsZero() {
		return 0
	}
	if asOf.Sub(*l.CreatedAt) <= recentWindow {
		return 100
	}
	return 0
}

// shortKeyword is the longest keyword that must match a whole token. Shorter
// keywords such as "it" or "ai" would otherwise hit inside "digital" or "retail".
const shortKeyword = 2

// keywordIn reports whether kw appears in text: as a substring for ordinary
// keywords ("tech" in "fintech"), as a whole token for short ones.
func keywordIn(text, kw string) bool {
	if text == "" || kw == "" {
		return false
	}
	if len(kw) > shortKeyword {
		return strings.Contains(text, kw)
	}
	for _, f := range strings.FieldsFunc(text, isNameSeparator) {
		if f == kw {
			return true
		}
	}
	return false
}

func clampScore(v int) int {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}
