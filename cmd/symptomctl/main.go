package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	serverURL string
	token     string
)

var rootCmd = &cobra.Command{
	Use:   "symptomctl",
	Short: "Command-line client for the symptom tracker API",
	Long: `symptomctl lists your tracked symptoms and asks the server for an
AI analysis of them.

The token defaults to $SYMPTOM_TOKEN and the server to $SYMPTOM_SERVER.`,
	SilenceUsage: true,
}

func main() {
	rootCmd.PersistentFlags().StringVar(&serverURL, "server", envOr("SYMPTOM_SERVER", "http://localhost:8088"), "API base URL")
	rootCmd.PersistentFlags().StringVar(&token, "token", envOr("SYMPTOM_TOKEN", "MOCK-TOKEN"), "bearer token")

	symptomsCmd.AddCommand(symptomsListCmd)
	rootCmd.AddCommand(symptomsCmd, insightsCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
