package commands

import (
	"fmt"
	"os"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/auditledger-dev/auditledger/internal/config"
	"github.com/auditledger-dev/auditledger/internal/diagnostics"
	"github.com/auditledger-dev/auditledger/internal/ledger"
)

// diagnose re-reads a classified ledger CSV and prints rule impact and
// monthly fallback pressure without re-running the pipeline.
func newDiagnoseCommand(verbose *bool) *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "diagnose <classified.csv>",
		Short: "Summarize rule impact and fallback pressure for a classified ledger",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("opening ledger: %w", err)
			}
			defer f.Close()

			rows, err := ledger.Read(f)
			if err != nil {
				return err
			}

			thresholds := diagnostics.DefaultThresholds()
			if cfg, err := config.Load(configPath); err == nil {
				thresholds = diagnostics.Thresholds{
					InflowWarnPct:  decimal.NewFromFloat(cfg.Diagnostics.InflowFallbackWarnPct),
					InflowCritPct:  decimal.NewFromFloat(cfg.Diagnostics.InflowFallbackCritPct),
					OutflowWarnPct: decimal.NewFromFloat(cfg.Diagnostics.OutflowFallbackWarnPct),
					OutflowCritPct: decimal.NewFromFloat(cfg.Diagnostics.OutflowFallbackCritPct),
				}
			}

			fmt.Println("Rule impact:")
			for _, imp := range diagnostics.SummarizeRules(rows) {
				marker := ""
				if imp.IsFallback {
					marker = " (fallback)"
				}
				fmt.Printf("  %-22s %5d rows  %6s%% of rows  %6s%% of volume%s\n",
					imp.RuleID, imp.Count, imp.CountShare.StringFixed(2), imp.AmountShare.StringFixed(2), marker)
			}

			fmt.Println("Fallback pressure:")
			for _, p := range diagnostics.MeasureFallback(rows, thresholds) {
				fmt.Printf("  %s  %-22s %d/%d %s rows  %s%% of %s volume  %s\n",
					p.YearMonth, p.RuleID, p.FallbackCount, p.Transactions, p.Direction,
					p.FallbackPct.StringFixed(2), p.Direction, p.Severity)
			}

			fmt.Println("Category anomalies:")
			for _, a := range diagnostics.DetectAnomalies(rows) {
				fmt.Printf("  %-13s %-40s %dx  %s  %s  %s\n",
					a.AnomalyType, a.Description, a.Count, a.TotalAmount.StringFixed(2),
					a.Recurrence, a.SuggestedCategory)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&configPath, "config", ConfigFileName, "config file")
	return cmd
}
