package matching

import (
	"fmt"
	"reflect"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/mitchellh/mapstructure"
)

type rawProfile struct {
	CandidateID        string `mapstructure:"candidate_id"`
	Skills             any    `mapstructure:"skills"`
	TargetRoles        any    `mapstructure:"target_roles"`
	PrimaryRole        string `mapstructure:"primary_role"`
	BranchOrMajor      string `mapstructure:"branch_or_major"`
	EducationStatus    string `mapstructure:"education_status"`
	LocationPreference string `mapstructure:"location_preference"`
	ExpectedStipend    *int   `mapstructure:"expected_stipend"`
}

type rawListing struct {
	ID                string     `mapstructure:"id"`
	Title             string     `mapstructure:"title"`
	CompanyName       string     `mapstructure:"company_name"`
	RequiredSkills    any        `mapstructure:"required_skills"`
	EducationRequired string     `mapstructure:"education_required"`
	DomainOrCategory  string     `mapstructure:"domain_or_category"`
	LocationText      string     `mapstructure:"location_text"`
	RemoteAllowed     *bool      `mapstructure:"remote_allowed"`
	StipendMin        *int       `mapstructure:"stipend_min"`
	IsActive          *bool      `mapstructure:"is_active"`
	DeadlineDate      *time.Time `mapstructure:"deadline_date"`
	CreatedAt         *time.Time `mapstructure:"created_at"`
}

// Accepted input keys per field, compared after squashing case, '_' and '-'.
// Earlier keys win when several are present.
var profileKeys = map[string][]string{
	"candidate_id":        {"candidateid", "userid"},
	"skills":              {"skills"},
	"target_roles":        {"targetroles", "preferredroles"},
	"primary_role":        {"primaryrole"},
	"branch_or_major":     {"branchormajor", "branch", "major"},
	"education_status":    {"educationstatus", "education"},
	"location_preference": {"locationpreference", "preferredlocation", "location"},
	"expected_stipend":    {"expectedstipend"},
}

var listingKeys = map[string][]string{
	"id":                 {"id", "listingid"},
	"title":              {"title"},
	"company_name":       {"companyname", "company"},
	"required_skills":    {"requiredskills", "skills"},
	"education_required": {"educationrequired", "education"},
	"domain_or_category": {"domainorcategory", "domain", "category"},
	"location_text":      {"locationtext", "location"},
	"remote_allowed":     {"remoteallowed", "remote", "isremote"},
	"stipend_min":        {"stipendmin", "stipend"},
	"is_active":          {"isactive", "active"},
	"deadline_date":      {"deadlinedate", "deadline"},
	"created_at":         {"createdat", "postedat"},
}

// DecodeProfile turns a loosely typed record (JSON body, JSONB row, fixture file)
// into a CandidateProfile. Unparseable scalars are treated as absent.
func DecodeProfile(raw map[string]any) (CandidateProfile, error) {
	var rp rawProfile
	if err := decodeLoose(canonicalize(raw, profileKeys), &rp); err != nil {
		return CandidateProfile{}, fmt.Errorf("decode profile: %w", err)
	}

	return CandidateProfile{
		CandidateID:        strings.TrimSpace(rp.CandidateID),
		Skills:             NormalizeList(rp.Skills),
		TargetRoles:        NormalizeList(rp.TargetRoles),
		PrimaryRole:        strings.TrimSpace(rp.PrimaryRole),
		BranchOrMajor:      strings.TrimSpace(rp.BranchOrMajor),
		EducationStatus:    strings.TrimSpace(rp.EducationStatus),
		LocationPreference: strings.TrimSpace(rp.LocationPreference),
		ExpectedStipend:    rp.ExpectedStipend,
	}, nil
}

// DecodeListing turns a loosely typed record into a Listing. A record without an
// explicit active flag is treated as active.
func DecodeListing(raw map[string]any) (Listing, error) {
	var rl rawListing
	if err := decodeLoose(canonicalize(raw, listingKeys), &rl); err != nil {
		return Listing{}, fmt.Errorf("decode listing: %w", err)
	}

	active := true
	if rl.IsActive != nil {
		active = *rl.IsActive
	}

	return Listing{
		ID:                strings.TrimSpace(rl.ID),
		Title:             strings.TrimSpace(rl.Title),
		CompanyName:       strings.TrimSpace(rl.CompanyName),
		RequiredSkills:    NormalizeList(rl.RequiredSkills),
		EducationRequired: strings.TrimSpace(rl.EducationRequired),
		DomainOrCategory:  strings.TrimSpace(rl.DomainOrCategory),
		LocationText:      strings.TrimSpace(rl.LocationText),
		RemoteAllowed:     rl.RemoteAllowed,
		StipendMin:        rl.StipendMin,
		IsActive:          active,
		DeadlineDate:      rl.DeadlineDate,
		CreatedAt:         rl.CreatedAt,
	}, nil
}

// canonicalize folds spelling variants onto field names. When two input keys
// fold to the same name ("candidateId", "candidate_id") the first non-nil value
// in sorted key order wins.
func canonicalize(raw map[string]any, keys map[string][]string) map[string]any {
	names := make([]string, 0, len(raw))
	for k := range raw {
		names = append(names, k)
	}
	sort.Strings(names)

	squashed := make(map[string]any, len(raw))
	for _, k := range names {
		sk := squashKey(k)
		if cur, ok := squashed[sk]; ok && cur != nil {
			continue
		}
		squashed[sk] = raw[k]
	}

	out := make(map[string]any, len(keys))
	for field, accepted := range keys {
		for _, k := range accepted {
			if v, ok := squashed[k]; ok && v != nil {
				out[field] = v
				break
			}
		}
	}
	return out
}

func squashKey(k string) string {
	k = strings.ToLower(strings.TrimSpace(k))
	return strings.NewReplacer("_", "", "-", "", " ", "").Replace(k)
}

func decodeLoose(in map[string]any, out any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		DecodeHook:       lenientScalarHook,
		Result:           out,
	})
	if err != nil {
		return err
	}
	return dec.Decode(in)
}

var timeType = reflect.TypeOf(time.Time{})

var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// lenientScalarHook converts strings headed for optional scalar fields and maps
// anything unparseable to nil, so a bad value degrades to "absent" instead of
// failing the whole record.
func lenientScalarHook(_ reflect.Type, to reflect.Type, data any) (any, error) {
	s, ok := data.(string)
	if !ok || to.Kind() != reflect.Ptr {
		return data, nil
	}
	s = strings.TrimSpace(s)
	elem := to.Elem()

	switch {
	case elem == timeType:
		for _, layout := range timeLayouts {
			if t, err := time.Parse(layout, s); err == nil {
				return t, nil
			}
		}
		return nil, nil
	case elem.Kind() == reflect.Int:
		f, err := strconv.ParseFloat(strings.ReplaceAll(s, ",", ""), 64)
		if err != nil {
			return nil, nil
		}
		return f, nil
	case elem.Kind() == reflect.Bool:
		b, err := strconv.ParseBool(s)
		if err != nil {
			return nil, nil
		}
		return b, nil
	}
	return data, nil
}
