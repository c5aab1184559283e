package matching

// reasonRule turns one factor score into a short advisory line. Rules are
// evaluated in order and a factor contributes at most one line.
type reasonRule struct {
	factor Factor
	min    int
	text   string
}

var reasonRules = []reasonRule{
	{FactorSkills, 75, "Strong skill match"},
	{FactorSkills, 50, "Partial skill match"},
	{FactorRole, 90, "Matches your target role"},
	{FactorRole, 70, "Related to your preferred roles"},
	{FactorEducation, 100, "Meets the education requirement"},
	{FactorBranch, 85, "Relevant to your field of study"},
	{FactorLocation, 100, "Matches your location preference"},
	{FactorStipend, 100, "Stipend meets your expectation"},
	{FactorCompany, 100, "Top-tier company"},
	{FactorRecency, 100, "Recently posted"},
}

func buildReasons(factors map[Factor]int) []string {
	out := make([]string, 0, 4)
	done := make(map[Factor]bool, len(factors))
	for _, r := range reasonRules {
		if done[r.factor] {
			continue
		}
		v, ok := factors[r.factor]
		if !ok || v < r.min {
			continue
		}
		out = append(out, r.text)
		done[r.factor] = true
	}
	return out
}
