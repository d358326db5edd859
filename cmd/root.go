package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// envFile is the path to the optional .env file loaded before config.
var envFile string

// rootCmd is the base command; subcommands attach to it.
var rootCmd = &cobra.Command{
	Use:   "sales-ingress",
	Short: "Batch sales data pipeline: validate, enrich and report",
	Long: `sales-ingress processes a pipe-delimited sales data file in one pass:
it validates every line against the cleaning rules, enriches accepted
records with product catalog metadata, aggregates by region, customer
segment and product, and writes an enriched data file plus a text report.

Bad data never aborts a run. Rejected lines and failed catalog lookups
are logged and summarized in the report; only a missing or empty input
file is fatal.`,
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

// Execute runs the CLI. Called once from main.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&envFile, "env", ".env",
		"Path to an optional .env file with configuration overrides")
}
