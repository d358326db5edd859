package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/salesops/sales-ingress/pkg/config"
	"github.com/salesops/sales-ingress/pkg/logging"
	"github.com/salesops/sales-ingress/pkg/pipeline"
)

var (
	inputFile    string
	enrichedFile string
	reportFile   string
	rulesFile    string
	noEnrich     bool
	strict       bool
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the sales data pipeline",
	Long: `Run executes the full pipeline against the configured input file.

Configuration comes from environment variables (optionally via a .env
file); flags override individual file locations. The run produces two
files: the enriched data file and the text report.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runPipeline()
	},
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringVar(&inputFile, "input", "", "Input sales data file (overrides SALES_INPUT_FILE)")
	runCmd.Flags().StringVar(&enrichedFile, "enriched", "", "Enriched output file (overrides SALES_ENRICHED_FILE)")
	runCmd.Flags().StringVar(&reportFile, "report", "", "Report output file (overrides SALES_REPORT_FILE)")
	runCmd.Flags().StringVar(&rulesFile, "rules", "", "Cleaning rules file (overrides SALES_RULES_FILE)")
	runCmd.Flags().BoolVar(&noEnrich, "no-enrich", false, "Skip catalog enrichment entirely")
	runCmd.Flags().BoolVar(&strict, "strict", false, "Exit non-zero when any input line is rejected")
}

func runPipeline() error {
	// A missing .env file is fine; explicit env vars still apply.
	if err := godotenv.Load(envFile); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("load env file %s: %w", envFile, err)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}
	applyFlagOverrides(cfg)

	rules, err := config.LoadRules(cfg.RulesFile)
	if err != nil {
		return fmt.Errorf("load cleaning rules: %w", err)
	}

	logger, err := logging.NewLogger(cfg)
	if err != nil {
		return fmt.Errorf("initialize logger: %w", err)
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	p, err := pipeline.New(cfg, rules, logger)
	if err != nil {
		return fmt.Errorf("build pipeline: %w", err)
	}

	result, err := p.Run(ctx)
	if err != nil {
		logger.Error("Pipeline run failed", zap.Error(err))
		return err
	}

	printSummary(result)

	if strict && result.HasRejections() {
		return fmt.Errorf("strict mode: %d of %d input lines rejected", result.Rejected, result.TotalLines)
	}
	return nil
}

func applyFlagOverrides(cfg *config.Config) {
	if inputFile != "" {
		cfg.InputFile = inputFile
	}
	if enrichedFile != "" {
		cfg.EnrichedFile = enrichedFile
	}
	if reportFile != "" {
		cfg.ReportFile = reportFile
	}
	if rulesFile != "" {
		cfg.RulesFile = rulesFile
	}
	if noEnrich {
		cfg.CatalogBaseURL = ""
	}
}

func printSummary(result *pipeline.RunResult) {
	fmt.Println("=== Pipeline Run Complete ===")
	fmt.Printf("Run ID:          %s\n", result.RunID)
	fmt.Printf("Input lines:     %d\n", result.TotalLines)
	fmt.Printf("Accepted:        %d\n", result.Accepted)
	fmt.Printf("Rejected:        %d\n", result.Rejected)
	fmt.Printf("Enriched:        %d\n", result.Enriched)
	fmt.Printf("Total revenue:   %s\n", result.TotalRevenue.StringFixed(2))
	fmt.Printf("Duration:        %s\n", result.Duration)
	fmt.Printf("Enriched file:   %s\n", result.EnrichedFile)
	fmt.Printf("Report file:     %s\n", result.ReportFile)
}
