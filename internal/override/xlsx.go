// Package override applies analyst-supplied corrections to classified
// ledger rows, keyed by transaction identifier, with a full audit trail.
package override

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/auditledger-dev/auditledger/internal/model"
)

// SheetName is the fixed workbook sheet overrides are read from.
const SheetName = "Overrides"

// requiredColumns is the override workbook contract.
var requiredColumns = []string{
	"Txn_ID",
	"Cashflow_Statement",
	"Economic_Purpose_L1",
	"Economic_Purpose_L2",
	"Managerial_Purpose_L1",
	"Managerial_Purpose_L2",
	"Baseline_Eligible",
	"Override_Reason",
	"Enabled",
}

// ContractError reports an override workbook that violates its contract
// (missing columns or ambiguous duplicate identifiers). The whole load is
// rejected; a partial override set is never applied.
type ContractError struct {
	Path   string
	Detail string
}

func (e *ContractError) Error() string {
	return fmt.Sprintf("override workbook %s: %s", e.Path, e.Detail)
}

// LoadWorkbook reads the Overrides sheet from an XLSX workbook. A missing
// file is not an error: it means no overrides yet. Rows with a blank
// Txn_ID or a disabled flag are dropped; a duplicate Txn_ID aborts the
// load. Audit ids (OVR_0001...) are assigned in sheet order.
func LoadWorkbook(path string) ([]model.Override, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("opening override workbook %s: %w", path, err)
	}
	defer f.Close()

	rows, err := f.GetRows(SheetName)
	if err != nil {
		return nil, &ContractError{Path: path, Detail: fmt.Sprintf("missing sheet %q", SheetName)}
	}
	if len(rows) == 0 {
		return nil, nil
	}

	idx, err := resolveColumns(rows[0], path)
	if err != nil {
		return nil, err
	}

	var overrides []model.Override
	seen := make(map[string]bool)
	for _, row := range rows[1:] {
		txnID := strings.TrimSpace(col(row, idx["Txn_ID"]))
		if txnID == "" {
			continue
		}
		if !parseEnabled(col(row, idx["Enabled"])) {
			continue
		}
		if seen[txnID] {
			return nil, &ContractError{
				Path:   path,
				Detail: fmt.Sprintf("duplicate Txn_ID %q: correction target is ambiguous", txnID),
			}
		}
		seen[txnID] = true

		overrides = append(overrides, model.Override{
			TxnID:             txnID,
			CashflowStatement: strings.TrimSpace(col(row, idx["Cashflow_Statement"])),
			EconomicL1:        strings.TrimSpace(col(row, idx["Economic_Purpose_L1"])),
			EconomicL2:        strings.TrimSpace(col(row, idx["Economic_Purpose_L2"])),
			ManagerialL1:      strings.TrimSpace(col(row, idx["Managerial_Purpose_L1"])),
			ManagerialL2:      strings.TrimSpace(col(row, idx["Managerial_Purpose_L2"])),
			BaselineEligible:  parseTriBool(col(row, idx["Baseline_Eligible"])),
			Reason:            strings.TrimSpace(col(row, idx["Override_Reason"])),
			Enabled:           true,
			OverrideID:        fmt.Sprintf("OVR_%04d", len(overrides)+1),
		})
	}
	return overrides, nil
}

func resolveColumns(header []string, path string) (map[string]int, error) {
	idx := make(map[string]int, len(requiredColumns))
	for i, cell := range header {
		idx[strings.TrimSpace(cell)] = i
	}
	var missing []string
	for _, c := range requiredColumns {
		if _, ok := idx[c]; !ok {
			missing = append(missing, c)
		}
	}
	if len(missing) > 0 {
		return nil, &ContractError{Path: path, Detail: fmt.Sprintf("missing required columns %v", missing)}
	}
	return idx, nil
}

func col(row []string, i int) string {
	if i >= len(row) {
		return ""
	}
	return row[i]
}

// parseEnabled treats anything outside the accepted truthy set as
// disabled, including blank.
func parseEnabled(s string) bool {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "TRUE", "1", "YES", "Y":
		return true
	default:
		return false
	}
}

// parseTriBool parses a tri-state boolean cell: nil when blank.
func parseTriBool(s string) *bool {
	v := strings.ToUpper(strings.TrimSpace(s))
	if v == "" {
		return nil
	}
	b := v == "TRUE" || v == "1" || v == "YES" || v == "Y"
	return &b
}
