package integration

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"intern-match/internal/app"
	"intern-match/internal/config"
	"intern-match/internal/database"
	"intern-match/internal/database/migration"
	dbpostgres "intern-match/internal/database/postgres"
	"intern-match/migrations"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
)

type semanticResponse struct {
	Status  int             `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Error   string          `json:"error"`
}

type dailyData struct {
	Recommendations []recommendationItem `json:"recommendations"`
	Cached          *bool                `json:"cached"`
	Message         string               `json:"message"`
}

type recommendationItem struct {
	ListingID    string         `json:"listing_id"`
	OverallScore int            `json:"overall_score"`
	FactorScores map[string]int `json:"factor_scores"`
	Reasons      []string       `json:"reasons"`
	Title        string         `json:"title"`
}

func TestIntegration_DailyRecommendations_Postgres(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	db := connectTestDB(t, ctx)
	defer func() { _ = db.Close() }()

	runMigrations(t, ctx, db)

	seed := seedDummyData(t, ctx, db)
	defer cleanupSeed(t, ctx, db, seed)

	c := app.NewContainerWith(seed.cfg, nil, db, nil)
	a := app.New(c)

	tok, err := c.JWT.GenerateAccessToken(seed.candidateID)
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}

	first := callDaily(t, a.Fiber, tok, "GET", "/api/v1/recommendations/daily?limit=20", nil)
	if first.Cached == nil || *first.Cached {
		t.Fatalf("daily: expected a fresh record on first call")
	}
	if len(first.Recommendations) == 0 {
		t.Fatalf("daily: expected non-empty recommendations")
	}
	assertNoDuplicateListings(t, first.Recommendations)
	assertSortedByScoreDesc(t, first.Recommendations)

	for _, it := range first.Recommendations {
		switch it.ListingID {
		case seed.appliedID.String():
			t.Fatalf("daily: applied listing %s must be excluded", it.ListingID)
		case seed.inactiveID.String():
			t.Fatalf("daily: inactive listing %s must be excluded", it.ListingID)
		case seed.expiredID.String():
			t.Fatalf("daily: expired listing %s must be excluded", it.ListingID)
		}
	}

	second := callDaily(t, a.Fiber, tok, "GET", "/api/v1/recommendations/daily?limit=20", nil)
	if second.Cached == nil || !*second.Cached {
		t.Fatalf("daily: expected cached record on second call")
	}
	if len(second.Recommendations) != len(first.Recommendations) {
		t.Fatalf("daily: cached record differs: %d vs %d items", len(second.Recommendations), len(first.Recommendations))
	}
	for i := range first.Recommendations {
		if first.Recommendations[i].ListingID != second.Recommendations[i].ListingID {
			t.Fatalf("daily: cached order differs at idx=%d", i)
		}
	}

	forced := callDaily(t, a.Fiber, tok, "POST", "/api/v1/recommendations/daily", map[string]any{"force_refresh": true, "limit": 3})
	if forced.Cached == nil || *forced.Cached {
		t.Fatalf("daily: expected forced refresh to regenerate")
	}
	if len(forced.Recommendations) > 3 {
		t.Fatalf("daily: expected at most 3 items, got %d", len(forced.Recommendations))
	}

	var stored int
	if err := db.QueryRow(ctx, `SELECT COUNT(*) FROM daily_recommendations WHERE candidate_id = $1`, seed.candidateID).Scan(&stored); err != nil {
		t.Fatalf("count daily records: %v", err)
	}
	if stored != 1 {
		t.Fatalf("daily: expected exactly one stored record, got %d", stored)
	}

	match := callListingMatch(t, a.Fiber, tok, seed.matchID)
	if match.ListingID != seed.matchID.String() {
		t.Fatalf("listing match: expected listing_id=%s, got %s", seed.matchID, match.ListingID)
	}
	if match.FactorScores["skills"] != 100 {
		t.Fatalf("listing match: expected full skill score, got %d", match.FactorScores["skills"])
	}
}

func connectTestDB(t *testing.T, ctx context.Context) database.DB {
	t.Helper()

	host := stringsOrDefault(os.Getenv("INTERNMATCH_TEST_DB_HOST"), os.Getenv("DB_HOST"))
	port := stringsOrDefault(os.Getenv("INTERNMATCH_TEST_DB_PORT"), os.Getenv("DB_PORT"))
	name := stringsOrDefault(os.Getenv("INTERNMATCH_TEST_DB_NAME"), os.Getenv("DB_NAME"))
	user := stringsOrDefault(os.Getenv("INTERNMATCH_TEST_DB_USER"), os.Getenv("DB_USER"))
	pass := stringsOrDefault(os.Getenv("INTERNMATCH_TEST_DB_PASSWORD"), os.Getenv("DB_PASSWORD"))
	ssl := stringsOrDefault(os.Getenv("INTERNMATCH_TEST_DB_SSL_MODE"), os.Getenv("DB_SSL_MODE"))

	if host == "" || port == "" || name == "" || user == "" {
		t.Skip("missing test DB env vars: set INTERNMATCH_TEST_DB_HOST/PORT/NAME/USER/PASSWORD (or DB_HOST/DB_PORT/DB_NAME/DB_USER/DB_PASSWORD)")
	}

	dbcfg := config.DatabaseConfig{
		DBHost:     host,
		DBPort:     port,
		DBName:     name,
		DBUser:     user,
		DBPassword: pass,
		DBSSLMode:  ssl,
	}

	db, err := dbpostgres.Connect(ctx, dbcfg, "intern-match-it")
	if err != nil {
		t.Fatalf("connect db: %v", err)
	}
	return db
}

func runMigrations(t *testing.T, ctx context.Context, db database.DB) {
	t.Helper()

	r := migration.Runner{FS: migrations.FS}
	if _, err := r.Run(ctx, db.SQLDB()); err != nil {
		t.Fatalf("run migrations: %v", err)
	}
}

type seededIDs struct {
	cfg         config.Config
	candidateID uuid.UUID
	matchID     uuid.UUID
	partialID   uuid.UUID
	appliedID   uuid.UUID
	inactiveID  uuid.UUID
	expiredID   uuid.UUID
}

func seedDummyData(t *testing.T, ctx context.Context, db database.DB) seededIDs {
	t.Helper()

	out := seededIDs{
		cfg: config.Config{
			App: config.AppConfig{AppName: "intern-match", Environment: "test", HTTPPort: "0"},
			JWT: config.JWTConfig{
				AccessSecret:    stringsOrDefault(os.Getenv("INTERNMATCH_TEST_JWT_ACCESS_SECRET"), "test-access-secret"),
				AccessExpiresIn: 15 * time.Minute,
			},
			Recs: config.RecsConfig{DefaultLimit: 5},
		},
		candidateID: uuid.New(),
	}

	ensureProfile(t, ctx, db, out.candidateID, []string{"Go", "PostgreSQL", "Docker"}, "backend")

	pastDeadline := time.Now().UTC().AddDate(0, 0, -2)
	out.matchID = ensureListing(t, ctx, db, "Backend Developer Intern - IT", []string{"go", "postgresql"}, true, nil)
	out.partialID = ensureListing(t, ctx, db, "Platform Intern - IT", []string{"go", "kubernetes"}, true, nil)
	out.appliedID = ensureListing(t, ctx, db, "Backend Intern (applied) - IT", []string{"go"}, true, nil)
	out.inactiveID = ensureListing(t, ctx, db, "Backend Intern (closed) - IT", []string{"go"}, false, nil)
	out.expiredID = ensureListing(t, ctx, db, "Backend Intern (expired) - IT", []string{"go"}, true, &pastDeadline)

	if _, err := db.Exec(ctx, `INSERT INTO applications (candidate_id, listing_id) VALUES ($1, $2)`, out.candidateID, out.appliedID); err != nil {
		t.Fatalf("insert application: %v", err)
	}

	return out
}

func ensureProfile(t *testing.T, ctx context.Context, db database.DB, id uuid.UUID, skills []string, role string) {
	t.Helper()

	raw, _ := json.Marshal(skills)
	if _, err := db.Exec(ctx,
		`INSERT INTO candidate_profiles (candidate_id, skills, primary_role) VALUES ($1, $2::jsonb, $3)`,
		id, string(raw), role,
	); err != nil {
		t.Fatalf("insert profile: %v", err)
	}
}

func ensureListing(t *testing.T, ctx context.Context, db database.DB, title string, skills []string, active bool, deadline *time.Time) uuid.UUID {
	t.Helper()

	raw, _ := json.Marshal(skills)
	var id uuid.UUID
	if err := db.QueryRow(ctx,
		`INSERT INTO listings (title, company_name, required_skills, is_active, deadline_date)
		 VALUES ($1, 'IT Co', $2::jsonb, $3, $4) RETURNING id`,
		title, string(raw), active, deadline,
	).Scan(&id); err != nil {
		t.Fatalf("insert listing %q: %v", title, err)
	}
	return id
}

func cleanupSeed(t *testing.T, ctx context.Context, db database.DB, seed seededIDs) {
	t.Helper()

	_, _ = db.Exec(ctx, `DELETE FROM daily_recommendations WHERE candidate_id = $1`, seed.candidateID)
	_, _ = db.Exec(ctx, `DELETE FROM applications WHERE candidate_id = $1`, seed.candidateID)
	_, _ = db.Exec(ctx, `DELETE FROM candidate_profiles WHERE candidate_id = $1`, seed.candidateID)
	_, _ = db.Exec(ctx, `DELETE FROM listings WHERE id = ANY($1)`,
		[]uuid.UUID{seed.matchID, seed.partialID, seed.appliedID, seed.inactiveID, seed.expiredID})
}

func callDaily(t *testing.T, app *fiber.App, jwt, method, path string, body any) dailyData {
	t.Helper()

	req := httptest.NewRequest(method, path, nil)
	if body != nil {
		b, _ := json.Marshal(body)
		req = httptest.NewRequest(method, path, bytes.NewReader(b))
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Authorization", "Bearer "+jwt)

	sr := doRequest(t, app, req)
	var out dailyData
	if err := json.Unmarshal(sr.Data, &out); err != nil {
		t.Fatalf("daily: data unmarshal error: %v", err)
	}
	return out
}

func callListingMatch(t *testing.T, app *fiber.App, jwt string, listingID uuid.UUID) recommendationItem {
	t.Helper()

	req := httptest.NewRequest("GET", "/api/v1/listings/"+listingID.String()+"/match", nil)
	req.Header.Set("Authorization", "Bearer "+jwt)

	sr := doRequest(t, app, req)
	var out recommendationItem
	if err := json.Unmarshal(sr.Data, &out); err != nil {
		t.Fatalf("listing match: data unmarshal error: %v", err)
	}
	return out
}

func doRequest(t *testing.T, app *fiber.App, req *http.Request) semanticResponse {
	t.Helper()

	resp, err := app.Test(req, fiber.TestConfig{Timeout: 10 * time.Second})
	if err != nil {
		t.Fatalf("%s %s: request error: %v", req.Method, req.URL.Path, err)
	}
	defer resp.Body.Close()

	var sr semanticResponse
	if err := json.NewDecoder(resp.Body).Decode(&sr); err != nil {
		t.Fatalf("%s %s: decode error: %v", req.Method, req.URL.Path, err)
	}
	if sr.Status != 200 {
		t.Fatalf("%s %s: expected status=200, got %d (message=%s error=%s)", req.Method, req.URL.Path, sr.Status, sr.Message, sr.Error)
	}
	if sr.Message != "ok" {
		t.Fatalf("%s %s: expected message=ok, got %s", req.Method, req.URL.Path, sr.Message)
	}
	return sr
}

func assertSortedByScoreDesc(t *testing.T, items []recommendationItem) {
	t.Helper()

	for i := 1; i < len(items); i++ {
		if items[i].OverallScore > items[i-1].OverallScore {
			t.Fatalf("daily: expected overall_score descending at idx=%d: prev=%d cur=%d", i, items[i-1].OverallScore, items[i].OverallScore)
		}
	}
}

func assertNoDuplicateListings(t *testing.T, items []recommendationItem) {
	t.Helper()

	seen := map[string]struct{}{}
	for i, it := range items {
		if it.ListingID == "" {
			t.Fatalf("daily: idx=%d has empty listing_id", i)
		}
		if _, ok := seen[it.ListingID]; ok {
			t.Fatalf("daily: duplicate listing_id=%s", it.ListingID)
		}
		seen[it.ListingID] = struct{}{}
	}
}

func stringsOrDefault(v, def string) string {
	if strings.TrimSpace(v) == "" {
		return def
	}
	return strings.TrimSpace(v)
}
