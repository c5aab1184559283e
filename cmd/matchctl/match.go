package main

import (
	"fmt"

	"intern-match/internal/domain/matching"
	"intern-match/internal/repository"
	"intern-match/internal/usecase"

	"github.com/spf13/cobra"
)

var scoreCmd = &cobra.Command{
	Use:   "score",
	Short: "Score one listing against one profile",
	RunE:  runScore,
}

var rankCmd = &cobra.Command{
	Use:   "rank",
	Short: "Rank a listing catalog for one profile",
	Long:  "Filters the catalog for eligibility, scores every remaining listing and prints the top matches.",
	RunE:  runRank,
}

var (
	scoreProfile string
	scoreListing string
	scoreScoring string

	rankProfile  string
	rankCatalog  string
	rankMinScore int
	rankLimit    int
	rankScoring  string
)

func init() {
	scoreCmd.Flags().StringVarP(&scoreProfile, "profile", "p", "", "Path to a candidate profile JSON file (required)")
	scoreCmd.Flags().StringVarP(&scoreListing, "listing", "l", "", "Path to a listing JSON file (required)")
	scoreCmd.Flags().StringVar(&scoreScoring, "scoring", string(matching.ScoringClient), "Scoring profile: client or daily")
	mustMarkRequired(scoreCmd, "profile", "listing")

	rankCmd.Flags().StringVarP(&rankProfile, "profile", "p", "", "Path to a candidate profile JSON file (required)")
	rankCmd.Flags().StringVarP(&rankCatalog, "catalog", "c", "", "Path to a JSON array of listings (required)")
	rankCmd.Flags().IntVar(&rankMinScore, "min-score", matching.DefaultMinScore, "Drop matches scoring below this")
	rankCmd.Flags().IntVar(&rankLimit, "limit", matching.DefaultLimit, "Maximum number of matches")
	rankCmd.Flags().StringVar(&rankScoring, "scoring", string(matching.ScoringClient), "Scoring profile: client or daily")
	mustMarkRequired(rankCmd, "profile", "catalog")

	rootCmd.AddCommand(scoreCmd, rankCmd)
}

func runScore(cmd *cobra.Command, _ []string) error {
	profile, err := repository.ReadProfileFile(scoreProfile)
	if err != nil {
		return err
	}
	listing, err := repository.ReadListingFile(scoreListing)
	if err != nil {
		return err
	}

	uc := usecase.NewMatchingUsecase(nil, nil, nil, newLogger())
	res, err := uc.Score(profile, listing, matching.ScoringProfile(scoreScoring))
	if err != nil {
		return fmt.Errorf("failed to score listing: %w", err)
	}
	return printJSON(cmd.OutOrStdout(), res)
}

func runRank(cmd *cobra.Command, _ []string) error {
	profile, err := repository.ReadProfileFile(rankProfile)
	if err != nil {
		return err
	}
	catalog, err := repository.ReadCatalogFile(rankCatalog)
	if err != nil {
		return err
	}

	minScore := rankMinScore
	uc := usecase.NewMatchingUsecase(nil, nil, nil, newLogger())
	items, err := uc.Rank(profile, catalog, usecase.RankParams{
		Scoring:  matching.ScoringProfile(rankScoring),
		MinScore: &minScore,
		Limit:    rankLimit,
	})
	if err != nil {
		return fmt.Errorf("failed to rank catalog: %w", err)
	}
	return printJSON(cmd.OutOrStdout(), items)
}
