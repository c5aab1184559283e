// Package main implements matchctl, the operator CLI for the matching engine.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"intern-match/internal/config"
	"intern-match/internal/pkg/logger"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

var rootCmd = &cobra.Command{
	Use:   "matchctl",
	Short: "Score, rank and recommend internship listings",
	Long: "matchctl scores candidate profiles against internship listings. score, rank and recommend " +
		"run offline over JSON files; warm, migrate, seed and token use the server configuration.",
	SilenceUsage: true,
}

var (
	rootConfigFile string
	rootDebug      bool
	rootJSONLogs   bool
)

func init() {
	rootCmd.PersistentFlags().StringVar(&rootConfigFile, "config", "", "Path to a config file (default ./intern-match.yaml if present)")
	rootCmd.PersistentFlags().BoolVar(&rootDebug, "debug", false, "Enable debug logging")
	rootCmd.PersistentFlags().BoolVar(&rootJSONLogs, "json-logs", false, "Emit JSON logs")
}

func main() {
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		stop()
		os.Exit(1)
	}
}

// loadConfig reads server configuration. The global flags override log settings.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	v := viper.New()
	if err := v.BindPFlag("log.debug", cmd.Root().PersistentFlags().Lookup("debug")); err != nil {
		return config.Config{}, err
	}
	if err := v.BindPFlag("log.json", cmd.Root().PersistentFlags().Lookup("json-logs")); err != nil {
		return config.Config{}, err
	}
	return config.LoadFrom(v, rootConfigFile)
}

func newLogger() *zap.Logger {
	l, err := logger.New(rootJSONLogs, rootDebug)
	if err != nil {
		return zap.NewNop()
	}
	return l.Named("matchctl")
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func mustMarkRequired(cmd *cobra.Command, names ...string) {
	for _, name := range names {
		if err := cmd.MarkFlagRequired(name); err != nil {
			panic(fmt.Sprintf("failed to mark %s flag as required: %v", name, err))
		}
	}
}
