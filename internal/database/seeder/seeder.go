package seeder

import (
	"context"

	"intern-match/internal/database"
)

type Seeder interface {
	Name() string
	Run(ctx context.Context, db database.DB) error
}

// Defaults is the demo data set loaded by `matchctl seed`.
func Defaults() []Seeder {
	data := mustLoadDemo()
	return []Seeder{
		ListingsSeeder{Listings: data.Listings},
		ProfilesSeeder{Profiles: data.Profiles},
	}
}
