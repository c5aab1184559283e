package main

import (
	"fmt"
	"time"

	"intern-match/internal/delivery/http/dto"
	"intern-match/internal/domain/matching"
	"intern-match/internal/infrastructure/persistence/sqlite"
	"intern-match/internal/repository"
	"intern-match/internal/usecase"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

var recommendCmd = &cobra.Command{
	Use:   "recommend",
	Short: "Produce today's recommendations from fixture files",
	Long: "Runs the daily recommendation flow offline. The profile, catalog and applied IDs come from JSON " +
		"files and the daily record is kept in a local SQLite file, so a second run on the same day is served from it.",
	RunE: runRecommend,
}

var (
	recommendCandidate string
	recommendProfile   string
	recommendCatalog   string
	recommendApplied   string
	recommendDB        string
	recommendTimezone  string
	recommendForce     bool
	recommendLimit     int
)

func init() {
	recommendCmd.Flags().StringVar(&recommendCandidate, "candidate", "", "Candidate UUID (required)")
	recommendCmd.Flags().StringVarP(&recommendProfile, "profile", "p", "", "Path to the candidate profile JSON file (required)")
	recommendCmd.Flags().StringVarP(&recommendCatalog, "catalog", "c", "", "Path to a JSON array of listings (required)")
	recommendCmd.Flags().StringVar(&recommendApplied, "applied", "", "Path to a JSON array of applied listing IDs")
	recommendCmd.Flags().StringVar(&recommendDB, "db", "recommendations.sqlite", "SQLite file holding daily records")
	recommendCmd.Flags().StringVar(&recommendTimezone, "timezone", "UTC", "Zone deciding the calendar day")
	recommendCmd.Flags().BoolVar(&recommendForce, "force", false, "Regenerate even if today's record exists")
	recommendCmd.Flags().IntVar(&recommendLimit, "limit", matching.DefaultDailyLimit, "Number of recommendations (1-20)")
	mustMarkRequired(recommendCmd, "candidate", "profile", "catalog")

	rootCmd.AddCommand(recommendCmd)
}

func runRecommend(cmd *cobra.Command, _ []string) error {
	candidateID, err := uuid.Parse(recommendCandidate)
	if err != nil {
		return fmt.Errorf("invalid --candidate: %w", err)
	}
	loc, err := time.LoadLocation(recommendTimezone)
	if err != nil {
		return fmt.Errorf("invalid --timezone: %w", err)
	}

	fx, err := repository.LoadFixture(candidateID, recommendProfile, recommendCatalog, recommendApplied)
	if err != nil {
		return err
	}

	store, err := sqlite.Open(recommendDB)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	daily := usecase.NewDailyRecommendationUsecase(
		usecase.DailyRecommendationDeps{
			Profiles:     fx,
			Listings:     fx,
			Applications: fx,
			Records:      store,
			Logger:       newLogger(),
		},
		usecase.DailyRecommendationOptions{Location: loc},
	)

	res, err := daily.GetDaily(cmd.Context(), candidateID, usecase.DailyParams{
		Limit:        recommendLimit,
		ForceRefresh: recommendForce,
	})
	if err != nil {
		return fmt.Errorf("failed to get recommendations: %w", err)
	}

	out := dto.DailyRecommendationResponse{Recommendations: res.Record.Items, Message: res.Message}
	if res.Message == "" {
		cached := res.Cached
		out.Cached = &cached
		out.GeneratedAt = &res.Record.GeneratedAt
		out.ProfileCompleteness = res.Completeness
	}
	return printJSON(cmd.OutOrStdout(), out)
}
