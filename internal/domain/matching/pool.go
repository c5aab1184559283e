package matching

import "time"

// EligibleListings keeps active listings the candidate has not applied to whose
// deadline (if any) is on or after the as-of calendar day. Input order is preserved.
func EligibleListings(all []Listing, appliedIDs []string, asOf time.Time) []Listing {
	applied := make(map[string]struct{}, len(appliedIDs))
	for _, id := range appliedIDs {
		applied[id] = struct{}{}
	}

	out := make([]Listing, 0, len(all))
	for _, l := range all {
		if !l.IsActive {
			continue
		}
		if _, ok := applied[l.ID]; ok {
			continue
		}
		if l.DeadlineDate != nil && !l.DeadlineDate.IsZero() && deadlinePassed(*l.DeadlineDate, asOf) {
			continue
		}
		out = append(out, l)
	}
	return out
}

// deadlinePassed compares calendar days, so a deadline of today is still open.
// The deadline is a civil date and is read in its own location.
func deadlinePassed(deadline, asOf time.Time) bool {
	loc := asOf.Location()
	dy, dm, dd := deadline.Date()
	ay, am, ad := asOf.Date()
	d := time.Date(dy, dm, dd, 0, 0, 0, 0, loc)
	a := time.Date(ay, am, ad, 0, 0, 0, 0, loc)
	return d.Before(a)
}
