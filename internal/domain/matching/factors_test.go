package matching

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func intPtr(v int) *int              { return &v }
func boolPtr(v bool) *bool           { return &v }
func timePtr(t time.Time) *time.Time { return &t }

func TestNormalizeList(t *testing.T) {
	assert.Equal(t, []string{"go", "react"}, NormalizeList([]string{" Go ", "", "REACT"}))
	assert.Equal(t, []string{"sql"}, NormalizeList([]any{"SQL", 42, nil, "  "}))
	assert.Empty(t, NormalizeList("python"))
	assert.NotNil(t, NormalizeList(nil))
}

func TestNormalizeValue(t *testing.T) {
	s := "  Remote "
	assert.Equal(t, "remote", NormalizeValue(&s))
	assert.Equal(t, "", NormalizeValue((*string)(nil)))
	assert.Equal(t, "", NormalizeValue(12))
}

func TestSkillScore(t *testing.T) {
	p := CandidateProfile{Skills: []string{"Go", "React"}}

	cases := []struct {
		name     string
		required []string
		skills   []string
		want     int
	}{
		{"partial", []string{"golang", "react", "sql"}, p.Skills, 67},
		{"all", []string{"react"}, p.Skills, 100},
		{"nothing required is neutral", nil, p.Skills, 50},
		{"nothing required, no skills", nil, nil, 50},
		{"duplicated required skills", []string{"react", "react", "sql"}, p.Skills, 67},
		{"blank required skills are ignored", []string{"", "  ", "react"}, p.Skills, 100},
		{"no candidate skills", []string{"sql"}, nil, 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := SkillScore(CandidateProfile{Skills: tc.skills}, Listing{RequiredSkills: tc.required})
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestRoleScore(t *testing.T) {
	cases := []struct {
		name string
		p    CandidateProfile
		l    Listing
		want int
	}{
		{"primary in title", CandidateProfile{PrimaryRole: "Backend Developer"}, Listing{Title: "Backend Developer Intern"}, 100},
		{"target in title", CandidateProfile{TargetRoles: []string{"data analyst"}}, Listing{Title: "Data Analyst Intern"}, 90},
		{"target in category", CandidateProfile{TargetRoles: []string{"marketing"}}, Listing{Title: "Growth Intern", DomainOrCategory: "Marketing"}, 70},
		{"title wins over category", CandidateProfile{TargetRoles: []string{"sales", "growth"}}, Listing{Title: "Growth Intern", DomainOrCategory: "Sales"}, 90},
		{"miss keeps floor", CandidateProfile{TargetRoles: []string{"designer"}}, Listing{Title: "Accountant"}, 30},
		{"empty profile keeps floor", CandidateProfile{}, Listing{Title: "Accountant"}, 30},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, RoleScore(tc.p, tc.l))
		})
	}
}

func TestEducationScore(t *testing.T) {
	cases := []struct {
		status, required string
		want             int
	}{
		{"Undergraduate", "", 100},
		{"B.Tech", "b.tech", 100},
		{"Undergraduate (3rd year)", "Undergraduate", 100},
		{"Graduate", "Post Graduate", 100},
		{"Completed", "Graduate", 90},
		{"High school", "Graduate", 60},
		{"", "Undergraduate", 60},
	}
	for _, tc := range cases {
		got := EducationScore(CandidateProfile{EducationStatus: tc.status}, Listing{EducationRequired: tc.required})
		assert.Equal(t, tc.want, got, "status=%q required=%q", tc.status, tc.required)
	}
}

func TestBranchScore(t *testing.T) {
	cases := []struct {
		branch, domain string
		want           int
	}{
		{"Computer Science", "", 70},
		{"", "Software", 50},
		{"Computer Science", "computer science", 100},
		{"Computer Science", "Software Development", 85},
		{"Computer Science Engineering", "AI Research", 85},
		{"Computer Science", "Digital Marketing", 40},
		{"Computer Science", "FinTech", 85},
		{"Computer Science", "EdTech", 85},
		{"Computer Science", "Web3", 85},
		{"Computer Science", "Retail IT", 85},
		{"Computer Science", "Retail", 40},
		{"Biotechnology", "Life Sciences", 85},
		{"Mechanical", "Software", 40},
	}
	for _, tc := range cases {
		got := BranchScore(CandidateProfile{BranchOrMajor: tc.branch}, Listing{DomainOrCategory: tc.domain})
		assert.Equal(t, tc.want, got, "branch=%q domain=%q", tc.branch, tc.domain)
	}
}

func TestLocationScore(t *testing.T) {
	cases := []struct {
		name string
		pref string
		l    Listing
		want int
	}{
		{"no preference", "", Listing{LocationText: "Pune"}, 0},
		{"remote allowed", "Remote", Listing{LocationText: "Mumbai", RemoteAllowed: boolPtr(true)}, 100},
		{"remote not allowed", "Remote", Listing{LocationText: "Mumbai", RemoteAllowed: boolPtr(false)}, 0},
		{"city substring", "Bangalore", Listing{LocationText: "Bangalore, India"}, 100},
		{"any with location", "Any", Listing{LocationText: "Pune"}, 100},
		{"any without location", "Any", Listing{}, 0},
		{"different city", "Pune", Listing{LocationText: "Mumbai"}, 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, LocationScore(CandidateProfile{LocationPreference: tc.pref}, tc.l))
		})
	}
}

func TestStipendScore(t *testing.T) {
	p := CandidateProfile{ExpectedStipend: intPtr(10000)}

	assert.Equal(t, 100, StipendScore(p, Listing{StipendMin: intPtr(8000)}))
	assert.Equal(t, 0, StipendScore(p, Listing{StipendMin: intPtr(7999)}))
	assert.Equal(t, 0, StipendScore(p, Listing{}))
	assert.Equal(t, 100, StipendScore(CandidateProfile{}, Listing{}))
	assert.Equal(t, 100, StipendScore(CandidateProfile{ExpectedStipend: intPtr(0)}, Listing{StipendMin: intPtr(1)}))
}

func TestCompanyScore(t *testing.T) {
	assert.Equal(t, 100, CompanyScore(Listing{CompanyName: "Google India Pvt. Ltd."}))
	assert.Equal(t, 100, CompanyScore(Listing{CompanyName: "JP Morgan Chase"}))
	assert.Equal(t, 0, CompanyScore(Listing{CompanyName: "Intelligent Systems"}))
	assert.Equal(t, 0, CompanyScore(Listing{}))
}

func TestRecencyScore(t *testing.T) {
	now := time.Date(2026, 10, 16, 12, 0, 0, 0, time.UTC)

	assert.Equal(t, 100, RecencyScore(Listing{CreatedAt: timePtr(now.Add(-48 * time.Hour))}, now))
	assert.Equal(t, 100, RecencyScore(Listing{CreatedAt: timePtr(now.Add(-72 * time.Hour))}, now))
	assert.Equal(t, 0, RecencyScore(Listing{CreatedAt: timePtr(now.Add(-96 * time.Hour))}, now))
	assert.Equal(t, 0, RecencyScore(Listing{}, now))
}

func TestScoresStayInRange(t *testing.T) {
	now := time.Date(2026, 10, 16, 12, 0, 0, 0, time.UTC)
	profiles := []CandidateProfile{
		{},
		{Skills: []string{"", "go", "go", "GO"}, TargetRoles: []string{"", "backend"}},
		{
			Skills: []string{"React", "JavaScript"}, PrimaryRole: "Web Developer Intern",
			TargetRoles: []string{"web developer intern"}, EducationStatus: "Undergraduate",
			BranchOrMajor: "Computer Science", LocationPreference: "Remote", ExpectedStipend: intPtr(10000),
		},
		{ExpectedStipend: intPtr(-5), LocationPreference: "any"},
	}
	listings := []Listing{
		{},
		{RequiredSkills: []string{"go", "go", "", "go"}, Title: "Backend Intern"},
		{
			ID: "l1", Title: "Web Developer Intern", CompanyName: "Google",
			RequiredSkills: []string{"HTML", "CSS", "JavaScript", "React"}, DomainOrCategory: "FinTech",
			EducationRequired: "Undergraduate", LocationText: "Remote", RemoteAllowed: boolPtr(true),
			StipendMin: intPtr(12000), CreatedAt: timePtr(now.Add(-time.Hour)),
		},
		{StipendMin: intPtr(-1), CreatedAt: timePtr(now.Add(time.Hour))},
	}

	for _, sp := range []ScoringProfile{ScoringClient, ScoringDaily} {
		agg, err := AggregatorFor(sp)
		if !assert.NoError(t, err) {
			continue
		}
		for _, p := range profiles {
			for _, l := range listings {
				res := agg.Score(p, l, now)
				assert.GreaterOrEqual(t, res.OverallScore, 0, "%s overall", sp)
				assert.LessOrEqual(t, res.OverallScore, 100, "%s overall", sp)
				for f, v := range res.FactorScores {
					assert.GreaterOrEqual(t, v, 0, "%s %s", sp, f)
					assert.LessOrEqual(t, v, 100, "%s %s", sp, f)
				}
			}
		}
	}
}
