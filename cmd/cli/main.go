package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/de-tools/cost-audit/pkg/models/domain"
	"github.com/de-tools/cost-audit/pkg/services/ingest"
	"github.com/de-tools/cost-audit/pkg/services/ledger"
	"github.com/de-tools/cost-audit/pkg/services/report"
	"github.com/de-tools/cost-audit/pkg/services/variance"
	"github.com/de-tools/cost-audit/pkg/store/duckdb"
	duckdbrecords "github.com/de-tools/cost-audit/pkg/store/duckdb/records"
	"github.com/de-tools/cost-audit/pkg/store/records"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "cost-audit",
		Short: "Deterministic cost comparison and evidence emission",
	}
	rootCmd.AddCommand(compareCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func compareCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "compare",
		Short: "Compare baseline and actual cost lines and persist evidence",
		RunE:  runCompare,
	}

	cmd.Flags().String("baseline", "", "Path to the baseline lines JSON file")
	cmd.Flags().String("actual", "", "Path to the actual lines JSON file")
	cmd.Flags().String("snapshot", "", "Dataset snapshot id")
	cmd.Flags().String("identity", "", "Comma-separated identity field names")
	cmd.Flags().String("db", "cost-audit.db", "DuckDB file path; empty runs in-memory")
	cmd.Flags().String("period", string(domain.PeriodMonthly), "Aggregation period: daily|weekly|monthly|quarterly|yearly")
	cmd.Flags().String("date-field", "date", "Attribute holding each line's date")
	cmd.Flags().Float64("tolerance", 5, "Tolerance threshold (percent)")
	cmd.Flags().Float64("minor", 10, "Minor threshold (percent)")
	cmd.Flags().Float64("moderate", 25, "Moderate threshold (percent)")
	cmd.Flags().Float64("major", 50, "Major threshold (percent)")

	_ = viper.BindPFlags(cmd.Flags())
	viper.SetEnvPrefix("COST_AUDIT")
	viper.AutomaticEnv()

	return cmd
}

func runCompare(cmd *cobra.Command, _ []string) error {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		fmt.Printf("Error loading .env file: %v\n", err)
	}

	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()
	ctx := logger.WithContext(cmd.Context())

	baselinePath := viper.GetString("baseline")
	actualPath := viper.GetString("actual")
	snapshotID := viper.GetString("snapshot")
	if baselinePath == "" || actualPath == "" {
		return fmt.Errorf("both --baseline and --actual are required")
	}

	identityFields := splitFields(viper.GetString("identity"))

	var recordStore records.Store
	if dbPath := viper.GetString("db"); dbPath != "" {
		db, err := duckdb.NewDB(duckdb.Settings{DbPath: dbPath})
		if err != nil {
			return fmt.Errorf("open duckdb: %w", err)
		}
		defer db.Close()
		recordStore, err = duckdbrecords.NewStore(db)
		if err != nil {
			return fmt.Errorf("create record store: %w", err)
		}
	} else {
		recordStore = records.NewMemoryStore()
	}

	ledgerService, err := ledger.New(recordStore)
	if err != nil {
		return fmt.Errorf("create ledger: %w", err)
	}
	service, err := report.NewService(ledgerService)
	if err != nil {
		return fmt.Errorf("create report service: %w", err)
	}

	source := ingest.NewFileSource()
	baseline, err := source.Lines(ctx, snapshotID, baselinePath)
	if err != nil {
		return err
	}
	actual, err := source.Lines(ctx, snapshotID, actualPath)
	if err != nil {
		return err
	}

	cfg := report.DefaultConfig()
	cfg.IdentityFields = identityFields
	cfg.PeriodType = domain.PeriodType(viper.GetString("period"))
	cfg.DateField = viper.GetString("date-field")
	cfg.Thresholds = variance.Thresholds{
		TolerancePct: decimal.NewFromFloat(viper.GetFloat64("tolerance")),
		MinorPct:     decimal.NewFromFloat(viper.GetFloat64("minor")),
		ModeratePct:  decimal.NewFromFloat(viper.GetFloat64("moderate")),
		MajorPct:     decimal.NewFromFloat(viper.GetFloat64("major")),
	}

	analysis, err := service.Generate(ctx, baseline, actual, cfg)
	if err != nil {
		return err
	}

	printSummary(cmd, analysis)
	return nil
}

func splitFields(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	fields := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			fields = append(fields, trimmed)
		}
	}
	return fields
}

func printSummary(cmd *cobra.Command, analysis domain.AnalysisReport) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Snapshot: %s\n", analysis.DatasetSnapshotID)
	fmt.Fprintf(out, "Matched pairs: %d\n", len(analysis.Comparison.Matched))
	fmt.Fprintf(out, "Unmatched baseline: %d\n", len(analysis.Comparison.UnmatchedBaseline))
	fmt.Fprintf(out, "Scope deviations: %d\n", len(analysis.ScopeDeviations))
	for _, v := range analysis.Variances {
		fmt.Fprintf(out, "  %s: %s%% (%s, %s)\n", v.Key.Encoded(), v.Percentage.Round(2), v.Severity, v.Direction)
	}
	fmt.Fprintf(out, "Period buckets (%d):\n", len(analysis.Periods))
	for _, b := range analysis.Periods {
		fmt.Fprintf(out, "  %s: baseline %s, actual %s, variance %s\n", b.ID, b.BaselineTotal, b.ActualTotal, b.Variance)
	}
	fmt.Fprintf(out, "Evidence: %d, findings: %d, links: %d\n",
		len(analysis.EvidenceIDs), len(analysis.FindingIDs), len(analysis.LinkIDs))
}
