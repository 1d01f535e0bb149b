// Package pipeline wires the full batch run: normalize statements, assign
// identifiers, classify, merge overrides, and write the ledger plus
// diagnostic reports. The run either completes deterministically or fails
// without writing any output file.
package pipeline

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/auditledger-dev/auditledger/internal/classify"
	"github.com/auditledger-dev/auditledger/internal/config"
	"github.com/auditledger-dev/auditledger/internal/diagnostics"
	"github.com/auditledger-dev/auditledger/internal/identity"
	"github.com/auditledger-dev/auditledger/internal/ledger"
	"github.com/auditledger-dev/auditledger/internal/model"
	"github.com/auditledger-dev/auditledger/internal/override"
	"github.com/auditledger-dev/auditledger/internal/runlog"
	"github.com/auditledger-dev/auditledger/internal/snapshot"
	"github.com/auditledger-dev/auditledger/internal/statement"
)

// Output filenames written into the configured output directory.
const (
	CombinedFile        = "combined_cleaned.csv"
	ClassifiedFile      = "classified_transactions.csv"
	ReconciliationFile  = "reconciliation_report.csv"
	RuleImpactFile      = "rule_impact.csv"
	FallbackFile        = "fallback_pressure.csv"
	CategoryAnomalyFile = "category_anomaly_report.csv"
	OverrideMaskingFile = "override_masking_report.csv"
)

// Run executes the full pipeline described by cfg. Outputs are staged in
// memory and flushed only after every stage has succeeded, so a fatal
// error never leaves a partial ledger behind.
func Run(cfg *config.Config, log zerolog.Logger) error {
	tolerance, err := decimal.NewFromString(cfg.Reconciliation.Tolerance)
	if err != nil {
		return fmt.Errorf("parsing reconciliation tolerance %q: %w", cfg.Reconciliation.Tolerance, err)
	}

	files, err := statement.Scan(cfg.Paths.InputDir)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		return fmt.Errorf("no statement CSVs found in %s", cfg.Paths.InputDir)
	}

	outputs := make(map[string]*bytes.Buffer)

	// Stage 1: normalize and assign identities per file.
	var combined []model.Transaction
	for _, f := range files {
		txns, err := statement.Clean(f.Path)
		if err != nil {
			return err
		}
		if err := identity.Assign(txns); err != nil {
			return fmt.Errorf("%s: %w", f.Name, err)
		}
		log.Info().Str("file", f.Name).Int("transactions", len(txns)).Msg("cleaned statement")

		buf := &bytes.Buffer{}
		if err := statement.WriteTransactions(buf, txns); err != nil {
			return err
		}
		outputs[cleanedName(f.Name)] = buf
		combined = append(combined, txns...)
	}

	// Cross-file identifier collisions would be an implementation bug:
	// the source file is part of the base key.
	if err := checkCombined(combined); err != nil {
		return err
	}
	combinedBuf := &bytes.Buffer{}
	if err := statement.WriteTransactions(combinedBuf, combined); err != nil {
		return err
	}
	outputs[CombinedFile] = combinedBuf

	// Reconciliation is diagnostic only; mismatches are logged, not fatal.
	recResults := statement.Reconcile(combined, tolerance)
	for _, r := range recResults {
		if r.Delta.Valid && !r.OK {
			log.Warn().
				Str("file", r.SourceFile).
				Str("period", r.YearMonth).
				Str("delta", r.Delta.Decimal.StringFixed(2)).
				Msg("reconciliation mismatch")
		}
	}
	recBuf := &bytes.Buffer{}
	if err := diagnostics.WriteReconciliationReport(recBuf, recResults); err != nil {
		return err
	}
	outputs[ReconciliationFile] = recBuf

	// Stage 2: classify.
	engine := classify.NewEngine(classify.NewConfig(cfg.Classifier))
	rows := engine.ClassifyAll(combined)

	// Stage 3: overrides (optional).
	var overrides []model.Override
	overridesConfigured := cfg.Paths.OverrideFile != ""
	if overridesConfigured {
		overrides, err = override.LoadWorkbook(cfg.Paths.OverrideFile)
		if err != nil {
			return err
		}
		log.Info().Int("overrides", len(overrides)).Msg("loaded override workbook")
		rows = override.Apply(rows, overrides)
	}

	ledger.Sort(rows)
	ledgerBuf := &bytes.Buffer{}
	if err := ledger.Write(ledgerBuf, rows); err != nil {
		return err
	}
	outputs[ClassifiedFile] = ledgerBuf

	// Diagnostics over the final ledger.
	impacts := diagnostics.SummarizeRules(rows)
	impactBuf := &bytes.Buffer{}
	if err := diagnostics.WriteRuleImpactReport(impactBuf, impacts); err != nil {
		return err
	}
	outputs[RuleImpactFile] = impactBuf

	thresholds := diagnostics.Thresholds{
		InflowWarnPct:  decimal.NewFromFloat(cfg.Diagnostics.InflowFallbackWarnPct),
		InflowCritPct:  decimal.NewFromFloat(cfg.Diagnostics.InflowFallbackCritPct),
		OutflowWarnPct: decimal.NewFromFloat(cfg.Diagnostics.OutflowFallbackWarnPct),
		OutflowCritPct: decimal.NewFromFloat(cfg.Diagnostics.OutflowFallbackCritPct),
	}
	pressure := diagnostics.MeasureFallback(rows, thresholds)
	for _, p := range pressure {
		if p.Severity != diagnostics.SeverityOK {
			log.Warn().
				Str("period", p.YearMonth).
				Str("rule", p.RuleID).
				Str("fallback_pct", p.FallbackPct.StringFixed(2)).
				Str("severity", p.Severity).
				Msg("fallback pressure")
		}
	}
	fallbackBuf := &bytes.Buffer{}
	if err := diagnostics.WriteFallbackReport(fallbackBuf, pressure); err != nil {
		return err
	}
	outputs[FallbackFile] = fallbackBuf

	anomalyBuf := &bytes.Buffer{}
	if err := diagnostics.WriteAnomalyReport(anomalyBuf, diagnostics.DetectAnomalies(rows)); err != nil {
		return err
	}
	outputs[CategoryAnomalyFile] = anomalyBuf

	masking := diagnostics.SummarizeOverrideMasking(rows, overrides, overridesConfigured)
	maskingBuf := &bytes.Buffer{}
	if err := diagnostics.WriteOverrideMaskingReport(maskingBuf, masking); err != nil {
		return err
	}
	outputs[OverrideMaskingFile] = maskingBuf

	// Every stage succeeded; flush to disk.
	if err := flush(cfg.Paths.OutputDir, outputs); err != nil {
		return err
	}

	hash := ""
	if cfg.Snapshot.Enabled {
		msg := fmt.Sprintf("ledger: %d transactions from %d statements", len(rows), len(files))
		hash, err = snapshot.Take(cfg.Paths.OutputDir, msg, cfg.Snapshot.AuthorName, cfg.Snapshot.AuthorEmail)
		if err != nil {
			return err
		}
		if hash != "" {
			log.Info().Str("commit", hash).Msg("snapshotted output directory")
		}
	}

	overridden := 0
	for _, r := range rows {
		if r.WasOverridden {
			overridden++
		}
	}
	if err := runlog.Append(cfg.Paths.OutputDir, runlog.Entry{
		Timestamp:    time.Now().UTC(),
		InputFiles:   len(files),
		Transactions: len(rows),
		Overridden:   overridden,
		CommitHash:   hash,
	}); err != nil {
		return err
	}

	log.Info().
		Int("files", len(files)).
		Int("transactions", len(rows)).
		Str("output_dir", cfg.Paths.OutputDir).
		Msg("pipeline complete")
	return nil
}

// checkCombined re-verifies identifier uniqueness across all files.
func checkCombined(txns []model.Transaction) error {
	seen := make(map[string]bool, len(txns))
	var dupes []model.Transaction
	for _, t := range txns {
		if seen[t.TxnID] {
			dupes = append(dupes, t)
		}
		seen[t.TxnID] = true
	}
	if len(dupes) > 0 {
		return &identity.InvariantError{
			Reason: "identifier collision across source files (implementation bug)",
			Rows:   dupes,
		}
	}
	return nil
}

func cleanedName(sourceName string) string {
	stem := strings.TrimSuffix(sourceName, filepath.Ext(sourceName))
	return "cleaned_" + stem + ".csv"
}

func flush(outputDir string, outputs map[string]*bytes.Buffer) error {
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return fmt.Errorf("creating output dir: %w", err)
	}
	for name, buf := range outputs {
		path := filepath.Join(outputDir, name)
		if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
			return fmt.Errorf("writing %s: %w", name, err)
		}
	}
	return nil
}
