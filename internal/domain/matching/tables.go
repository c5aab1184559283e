package matching

import (
	_ "embed"
	"fmt"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed tables.yaml
var tablesYAML []byte

type lookupTables struct {
	BranchDomains    map[string][]string `yaml:"branch_domains"`
	TopTierCompanies []string            `yaml:"top_tier_companies"`

	branchKeys []string
}

var tables = mustLoadTables(tablesYAML)

func mustLoadTables(b []byte) lookupTables {
	t, err := parseTables(b)
	if err != nil {
		panic(fmt.Sprintf("matching: invalid embedded tables: %v", err))
	}
	return t
}

func parseTables(b []byte) (lookupTables, error) {
	var raw lookupTables
	if err := yaml.Unmarshal(b, &raw); err != nil {
		return lookupTables{}, err
	}

	out := lookupTables{
		BranchDomains:    make(map[string][]string, len(raw.BranchDomains)),
		TopTierCompanies: NormalizeList(raw.TopTierCompanies),
	}
	for branch, keywords := range raw.BranchDomains {
		b := Normalize(branch)
		if b == "" {
			continue
		}
		out.BranchDomains[b] = NormalizeList(keywords)
		out.branchKeys = append(out.branchKeys, b)
	}
	sort.Strings(out.branchKeys)
	return out, nil
}

// domainKeywordsFor returns the keyword set of the first table branch (in key order)
// that the candidate's branch contains or is contained by.
func domainKeywordsFor(branch string) []string {
	branch = Normalize(branch)
	if branch == "" {
		return nil
	}
	if kw, ok := tables.BranchDomains[branch]; ok {
		return kw
	}
	for _, key := range tables.branchKeys {
		if fuzzyContains(branch, key) {
			return tables.BranchDomains[key]
		}
	}
	return nil
}

func isTopTierCompany(name string) bool {
	name = Normalize(name)
	if name == "" {
		return false
	}
	padded := " " + strings.Join(strings.FieldsFunc(name, isNameSeparator), " ") + " "
	for _, c := range tables.TopTierCompanies {
		if strings.Contains(padded, " "+c+" ") {
			return true
		}
	}
	return false
}

func isNameSeparator(r rune) bool {
	switch r {
	case ' ', '\t', ',', '.', '-', '(', ')', '/', '&':
		return true
	}
	return false
}
