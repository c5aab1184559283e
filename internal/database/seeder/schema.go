package seeder

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"intern-match/internal/database"
)

var ErrSchemaMismatch = errors.New("schema mismatch")

// RequireColumns fails with ErrSchemaMismatch naming every column of table the
// public schema lacks, so seeding never runs ahead of `matchctl migrate`.
func RequireColumns(ctx context.Context, db database.DB, table string, columns ...string) error {
	if db == nil {
		return fmt.Errorf("nil db")
	}
	if strings.TrimSpace(table) == "" {
		return fmt.Errorf("empty table")
	}

	rows, err := db.Query(
		ctx,
		`SELECT column_name FROM information_schema.columns WHERE table_schema='public' AND table_name=$1`,
		table,
	)
	if err != nil {
		return err
	}
	defer rows.Close()

	existing := map[string]struct{}{}
	for rows.Next() {
		var c string
		if err := rows.Scan(&c); err != nil {
			return err
		}
		existing[c] = struct{}{}
	}
	if err := rows.Err(); err != nil {
		return err
	}

	return missingColumns(table, existing, columns)
}

func missingColumns(table string, existing map[string]struct{}, want []string) error {
	var missing []string
	for _, col := range want {
		if _, ok := existing[col]; !ok {
			missing = append(missing, table+"."+col)
		}
	}
	if len(missing) == 0 {
		return nil
	}
	return fmt.Errorf("%w: missing %s", ErrSchemaMismatch, strings.Join(missing, ", "))
}
