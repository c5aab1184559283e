package recommendation

import (
	"time"

	"intern-match/internal/domain/matching"

	"github.com/google/uuid"
)

// DateLayout is the calendar-day key of a daily record.
const DateLayout = "2006-01-02"

// NoNewListingsMessage is returned instead of an error when nothing is eligible.
const NoNewListingsMessage = "no new listings available"

// Item is one ranked match with a snapshot of the listing it points at.
type Item struct {
	matching.MatchResult

	Title         string  `json:"title"`
	CompanyName   string  `json:"company_name"`
	LocationText  string  `json:"location,omitempty"`
	RemoteAllowed *bool   `json:"remote_allowed,omitempty"`
	StipendMin    *int    `json:"stipend_min,omitempty"`
	DeadlineDate  *string `json:"deadline_date,omitempty"`
}

// DailyRecord is the cached ranked result for one candidate on one day. It is
// only ever replaced as a whole.
type DailyRecord struct {
	CandidateID uuid.UUID `json:"candidate_id"`
	Date        string    `json:"date"`
	Items       []Item    `json:"items"`
	GeneratedAt time.Time `json:"generated_at"`
}

// Completeness reports which optional profile facets were filled in when a
// record was generated.
type Completeness struct {
	Skills   bool `json:"skills"`
	Location bool `json:"location"`
	Role     bool `json:"role"`
	Stipend  bool `json:"stipend"`
}

func CompletenessOf(p matching.CandidateProfile) Completeness {
	return Completeness{
		Skills:   len(matching.NormalizeList(p.Skills)) > 0,
		Location: matching.Normalize(p.LocationPreference) != "",
		Role:     matching.Normalize(p.PrimaryRole) != "" || len(matching.NormalizeList(p.TargetRoles)) > 0,
		Stipend:  p.ExpectedStipend != nil && *p.ExpectedStipend > 0,
	}
}

// DateKey formats t as the record date in loc.
func DateKey(t time.Time, loc *time.Location) string {
	if loc == nil {
		loc = time.UTC
	}
	return t.In(loc).Format(DateLayout)
}

// NewItem joins a match result with the listing it was computed from.
func NewItem(res matching.MatchResult, l matching.Listing) Item {
	it := Item{
		MatchResult:   res,
		Title:         l.Title,
		CompanyName:   l.CompanyName,
		LocationText:  l.LocationText,
		RemoteAllowed: l.RemoteAllowed,
		StipendMin:    l.StipendMin,
	}
	if l.DeadlineDate != nil && !l.DeadlineDate.IsZero() {
		d := l.DeadlineDate.Format(DateLayout)
		it.DeadlineDate = &d
	}
	return it
}

// NewItems maps ranked results back onto the listings they came from, keeping
// result order. Results whose listing is unknown are dropped.
func NewItems(results []matching.MatchResult, listings []matching.Listing) []Item {
	byID := make(map[string]matching.Listing, len(listings))
	for _, l := range listings {
		byID[l.ID] = l
	}

	out := make([]Item, 0, len(results))
	for _, r := range results {
		l, ok := byID[r.ListingID]
		if !ok {
			continue
		}
		out = append(out, NewItem(r, l))
	}
	return out
}
