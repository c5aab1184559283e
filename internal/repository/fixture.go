package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"intern-match/internal/domain/matching"

	"github.com/google/uuid"
)

// Fixture serves one candidate profile, a listing catalog and an applied-ID list
// loaded from JSON files. It backs the offline CLI commands.
type Fixture struct {
	candidateID uuid.UUID
	profile     *matching.CandidateProfile
	catalog     []matching.Listing
	applied     []string
}

// LoadFixture reads the profile and catalog files and the optional applied-IDs
// file. candidateID overrides whatever identifier the profile file carries.
func LoadFixture(candidateID uuid.UUID, profilePath, catalogPath, appliedPath string) (*Fixture, error) {
	f := &Fixture{candidateID: candidateID, catalog: []matching.Listing{}, applied: []string{}}

	if strings.TrimSpace(profilePath) != "" {
		p, err := ReadProfileFile(profilePath)
		if err != nil {
			return nil, err
		}
		if candidateID != uuid.Nil {
			p.CandidateID = candidateID.String()
		}
		f.profile = &p
	}

	if strings.TrimSpace(catalogPath) != "" {
		c, err := ReadCatalogFile(catalogPath)
		if err != nil {
			return nil, err
		}
		f.catalog = c
	}

	if strings.TrimSpace(appliedPath) != "" {
		var raw []any
		if err := readJSONFile(appliedPath, &raw); err != nil {
			return nil, err
		}
		for _, id := range raw {
			if s, ok := id.(string); ok && strings.TrimSpace(s) != "" {
				f.applied = append(f.applied, strings.TrimSpace(s))
			}
		}
	}

	return f, nil
}

func ReadProfileFile(path string) (matching.CandidateProfile, error) {
	var raw map[string]any
	if err := readJSONFile(path, &raw); err != nil {
		return matching.CandidateProfile{}, err
	}
	return matching.DecodeProfile(raw)
}

func ReadListingFile(path string) (matching.Listing, error) {
	var raw map[string]any
	if err := readJSONFile(path, &raw); err != nil {
		return matching.Listing{}, err
	}
	return matching.DecodeListing(raw)
}

// ReadCatalogFile reads a JSON array of listings, keeping file order.
func ReadCatalogFile(path string) ([]matching.Listing, error) {
	var raw []map[string]any
	if err := readJSONFile(path, &raw); err != nil {
		return nil, err
	}
	out := make([]matching.Listing, 0, len(raw))
	for i, r := range raw {
		l, err := matching.DecodeListing(r)
		if err != nil {
			return nil, fmt.Errorf("%s: listing %d: %w", path, i, err)
		}
		out = append(out, l)
	}
	return out, nil
}

func readJSONFile(path string, v any) error {
	b, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(b, v); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	return nil
}

func (f *Fixture) FindByCandidateID(_ context.Context, candidateID uuid.UUID) (matching.CandidateProfile, error) {
	if f.profile == nil || candidateID != f.candidateID {
		return matching.CandidateProfile{}, ErrProfileNotFound
	}
	return *f.profile, nil
}

func (f *Fixture) ListCandidateIDs(_ context.Context) ([]uuid.UUID, error) {
	if f.profile == nil {
		return []uuid.UUID{}, nil
	}
	return []uuid.UUID{f.candidateID}, nil
}

func (f *Fixture) ListCatalog(_ context.Context) ([]matching.Listing, error) {
	out := make([]matching.Listing, len(f.catalog))
	copy(out, f.catalog)
	return out, nil
}

func (f *Fixture) FindByID(_ context.Context, listingID uuid.UUID) (matching.Listing, error) {
	for _, l := range f.catalog {
		if l.ID == listingID.String() {
			return l, nil
		}
	}
	return matching.Listing{}, ErrListingNotFound
}

func (f *Fixture) ListAppliedListingIDs(_ context.Context, candidateID uuid.UUID) ([]string, error) {
	if candidateID != f.candidateID {
		return []string{}, nil
	}
	out := make([]string, len(f.applied))
	copy(out, f.applied)
	return out, nil
}
