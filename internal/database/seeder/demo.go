package seeder

import (
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"time"

	"intern-match/internal/database"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"
)

//go:embed demo.yaml
var demoYAML []byte

// demoNamespace keeps demo IDs stable across runs, so seeding is idempotent.
var demoNamespace = uuid.MustParse("6f1c2a8e-4b7d-5e3f-9a10-2c4d6e8f0a1b")

func DemoID(key string) uuid.UUID {
	return uuid.NewSHA1(demoNamespace, []byte(key))
}

type DemoListing struct {
	Key               string   `yaml:"key"`
	Title             string   `yaml:"title"`
	CompanyName       string   `yaml:"company_name"`
	RequiredSkills    []string `yaml:"required_skills"`
	EducationRequired string   `yaml:"education_required"`
	DomainOrCategory  string   `yaml:"domain_or_category"`
	LocationText      string   `yaml:"location_text"`
	RemoteAllowed     *bool    `yaml:"remote_allowed"`
	StipendMin        *int     `yaml:"stipend_min"`
	Active            *bool    `yaml:"active"`
	DeadlineInDays    int      `yaml:"deadline_in_days"`
}

type DemoProfile struct {
	Key                string   `yaml:"key"`
	Skills             []string `yaml:"skills"`
	TargetRoles        []string `yaml:"target_roles"`
	PrimaryRole        string   `yaml:"primary_role"`
	BranchOrMajor      string   `yaml:"branch_or_major"`
	EducationStatus    string   `yaml:"education_status"`
	LocationPreference string   `yaml:"location_preference"`
	ExpectedStipend    *int     `yaml:"expected_stipend"`
}

type demoData struct {
	Listings []DemoListing `yaml:"listings"`
	Profiles []DemoProfile `yaml:"profiles"`
}

func loadDemo(b []byte) (demoData, error) {
	var d demoData
	if err := yaml.Unmarshal(b, &d); err != nil {
		return demoData{}, fmt.Errorf("parse demo data: %w", err)
	}

	seen := map[string]struct{}{}
	for _, l := range d.Listings {
		if l.Key == "" {
			return demoData{}, fmt.Errorf("demo listing without key")
		}
		if _, dup := seen[l.Key]; dup {
			return demoData{}, fmt.Errorf("duplicate demo key %q", l.Key)
		}
		seen[l.Key] = struct{}{}
	}
	for _, p := range d.Profiles {
		if p.Key == "" {
			return demoData{}, fmt.Errorf("demo profile without key")
		}
		if _, dup := seen[p.Key]; dup {
			return demoData{}, fmt.Errorf("duplicate demo key %q", p.Key)
		}
		seen[p.Key] = struct{}{}
	}
	return d, nil
}

func mustLoadDemo() demoData {
	d, err := loadDemo(demoYAML)
	if err != nil {
		panic(err)
	}
	return d
}

type ListingsSeeder struct {
	Listings []DemoListing
	Now      func() time.Time
}

func (ListingsSeeder) Name() string { return "listings" }

func (s ListingsSeeder) Run(ctx context.Context, db database.DB) error {
	if err := RequireColumns(ctx, db, "listings",
		"id", "title", "company_name", "required_skills", "education_required", "domain_or_category",
		"location_text", "remote_allowed", "stipend_min", "is_active", "deadline_date", "created_at",
	); err != nil {
		return err
	}

	now := time.Now
	if s.Now != nil {
		now = s.Now
	}
	today := now().UTC()

	tx, err := db.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback(context.Background())
	}()

	for _, l := range s.Listings {
		skills, err := json.Marshal(l.RequiredSkills)
		if err != nil {
			return err
		}
		active := l.Active == nil || *l.Active

		var deadline *time.Time
		if l.DeadlineInDays > 0 {
			d := today.AddDate(0, 0, l.DeadlineInDays)
			deadline = &d
		}

		if _, err := tx.Exec(ctx,
			`INSERT INTO listings (id, title, company_name, required_skills, education_required,
			                       domain_or_category, location_text, remote_allowed, stipend_min,
			                       is_active, deadline_date, created_at)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
			 ON CONFLICT (id) DO NOTHING`,
			DemoID(l.Key), l.Title, l.CompanyName, skills, l.EducationRequired,
			l.DomainOrCategory, l.LocationText, l.RemoteAllowed, l.StipendMin,
			active, deadline, today,
		); err != nil {
			return fmt.Errorf("listing %s: %w", l.Key, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

type ProfilesSeeder struct {
	Profiles []DemoProfile
}

func (ProfilesSeeder) Name() string { return "candidate_profiles" }

func (s ProfilesSeeder) Run(ctx context.Context, db database.DB) error {
	if err := RequireColumns(ctx, db, "candidate_profiles",
		"candidate_id", "skills", "target_roles", "primary_role", "branch_or_major",
		"education_status", "location_preference", "expected_stipend",
	); err != nil {
		return err
	}

	tx, err := db.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback(context.Background())
	}()

	for _, p := range s.Profiles {
		skills, err := json.Marshal(p.Skills)
		if err != nil {
			return err
		}
		roles, err := json.Marshal(p.TargetRoles)
		if err != nil {
			return err
		}

		if _, err := tx.Exec(ctx,
			`INSERT INTO candidate_profiles (candidate_id, skills, target_roles, primary_role, branch_or_major,
			                                 education_status, location_preference, expected_stipend)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
			 ON CONFLICT (candidate_id) DO NOTHING`,
			DemoID(p.Key), skills, roles, p.PrimaryRole, p.BranchOrMajor,
			p.EducationStatus, p.LocationPreference, p.ExpectedStipend,
		); err != nil {
			return fmt.Errorf("profile %s: %w", p.Key, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}
