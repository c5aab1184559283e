package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"intern-match/internal/database"
	"intern-match/internal/domain/matching"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

var ErrListingNotFound = errors.New("listing not found")

type ListingRepository interface {
	// ListCatalog returns every listing, newest first. Catalog order is the
	// tie-breaker when ranking, so it must be deterministic.
	ListCatalog(ctx context.Context) ([]matching.Listing, error)
	FindByID(ctx context.Context, listingID uuid.UUID) (matching.Listing, error)
}

type PostgresListingRepository struct {
	db database.DB
}

func NewPostgresListingRepository(db database.DB) *PostgresListingRepository {
	return &PostgresListingRepository{db: db}
}

const listingColumns = `id, COALESCE(title, ''), COALESCE(company_name, ''), required_skills,
	COALESCE(education_required, ''), COALESCE(domain_or_category, ''), COALESCE(location_text, ''),
	remote_allowed, stipend_min, is_active, deadline_date, created_at`

func (r *PostgresListingRepository) ListCatalog(ctx context.Context) ([]matching.Listing, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+listingColumns+`
		 FROM listings
		 ORDER BY created_at DESC NULLS LAST, id ASC`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]matching.Listing, 0)
	for rows.Next() {
		l, err := scanListing(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *PostgresListingRepository) FindByID(ctx context.Context, listingID uuid.UUID) (matching.Listing, error) {
	row := r.db.QueryRow(ctx, `SELECT `+listingColumns+` FROM listings WHERE id = $1`, listingID)
	l, err := scanListing(row)
	if err != nil {
		if err == sql.ErrNoRows || errors.Is(err, pgx.ErrNoRows) {
			return matching.Listing{}, ErrListingNotFound
		}
		return matching.Listing{}, err
	}
	return l, nil
}

func scanListing(row database.Row) (matching.Listing, error) {
	var (
		l        matching.Listing
		id       uuid.UUID
		skills   []byte
		remote   sql.NullBool
		stipend  sql.NullInt64
		deadline sql.NullTime
		created  sql.NullTime
	)
	if err := row.Scan(
		&id,
		&l.Title,
		&l.CompanyName,
		&skills,
		&l.EducationRequired,
		&l.DomainOrCategory,
		&l.LocationText,
		&remote,
		&stipend,
		&l.IsActive,
		&deadline,
		&created,
	); err != nil {
		return matching.Listing{}, err
	}

	l.ID = id.String()
	l.RequiredSkills = matching.NormalizeList(decodeJSONList(skills))
	if remote.Valid {
		v := remote.Bool
		l.RemoteAllowed = &v
	}
	if stipend.Valid {
		v := int(stipend.Int64)
		l.StipendMin = &v
	}
	l.DeadlineDate = nullTimePtr(deadline)
	l.CreatedAt = nullTimePtr(created)
	return l, nil
}

func nullTimePtr(t sql.NullTime) *time.Time {
	if !t.Valid {
		return nil
	}
	v := t.Time
	return &v
}
