package override

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func writeWorkbook(t *testing.T, rows [][]string) string {
	t.Helper()

	f := excelize.NewFile()
	_, err := f.NewSheet(SheetName)
	require.NoError(t, err)
	for i, row := range rows {
		for j, val := range row {
			cell, err := excelize.CoordinatesToCellName(j+1, i+1)
			require.NoError(t, err)
			require.NoError(t, f.SetCellValue(SheetName, cell, val))
		}
	}

	path := filepath.Join(t.TempDir(), "overrides.xlsx")
	require.NoError(t, f.SaveAs(path))
	require.NoError(t, f.Close())
	return path
}

func header() []string {
	return []string{
		"Txn_ID", "Cashflow_Statement", "Economic_Purpose_L1", "Economic_Purpose_L2",
		"Managerial_Purpose_L1", "Managerial_Purpose_L2", "Baseline_Eligible",
		"Override_Reason", "Enabled",
	}
}

func TestLoadWorkbook(t *testing.T) {
	path := writeWorkbook(t, [][]string{
		header(),
		{"abc", "OPERATING", "INSURANCE", "PREMIUM", "", "", "TRUE", "misclassified by rule", "TRUE"},
		{"", "OPERATING", "", "", "", "", "", "blank id is skipped", "TRUE"},
		{"def", "", "", "", "", "", "", "disabled row is skipped", "FALSE"},
		{"ghi", "", "INCOME", "", "", "", "", "second live row", "1"},
	})

	overrides, err := LoadWorkbook(path)
	require.NoError(t, err)
	require.Len(t, overrides, 2)

	assert.Equal(t, "abc", overrides[0].TxnID)
	assert.Equal(t, "OVR_0001", overrides[0].OverrideID)
	require.NotNil(t, overrides[0].BaselineEligible)
	assert.True(t, *overrides[0].BaselineEligible)

	assert.Equal(t, "ghi", overrides[1].TxnID)
	assert.Equal(t, "OVR_0002", overrides[1].OverrideID)
	assert.Nil(t, overrides[1].BaselineEligible)
}

func TestLoadWorkbookMissingFile(t *testing.T) {
	overrides, err := LoadWorkbook(filepath.Join(t.TempDir(), "nope.xlsx"))
	require.NoError(t, err)
	assert.Nil(t, overrides)
}

func TestLoadWorkbookMissingSheet(t *testing.T) {
	f := excelize.NewFile()
	path := filepath.Join(t.TempDir(), "wrong.xlsx")
	require.NoError(t, f.SaveAs(path))
	require.NoError(t, f.Close())

	_, err := LoadWorkbook(path)
	var contractErr *ContractError
	require.ErrorAs(t, err, &contractErr)
	assert.Contains(t, contractErr.Detail, "missing sheet")
}

func TestLoadWorkbookMissingColumns(t *testing.T) {
	path := writeWorkbook(t, [][]string{{"Txn_ID", "Enabled"}})
	_, err := LoadWorkbook(path)
	var contractErr *ContractError
	require.ErrorAs(t, err, &contractErr)
	assert.Contains(t, contractErr.Detail, "missing required columns")
}

func TestLoadWorkbookDuplicateTxnID(t *testing.T) {
	path := writeWorkbook(t, [][]string{
		header(),
		{"abc", "", "INSURANCE", "", "", "", "", "first", "TRUE"},
		{"abc", "", "LIFESTYLE", "", "", "", "", "conflicting", "TRUE"},
	})
	_, err := LoadWorkbook(path)
	var contractErr *ContractError
	require.ErrorAs(t, err, &contractErr)
	assert.Contains(t, contractErr.Detail, "duplicate Txn_ID")
}

func TestParseEnabled(t *testing.T) {
	for _, s := range []string{"TRUE", "true", "1", "YES", "y"} {
		assert.True(t, parseEnabled(s), s)
	}
	for _, s := range []string{"", "FALSE", "0", "no", "maybe"} {
		assert.False(t, parseEnabled(s), s)
	}
}

func TestParseTriBool(t *testing.T) {
	assert.Nil(t, parseTriBool("  "))
	require.NotNil(t, parseTriBool("TRUE"))
	assert.True(t, *parseTriBool("yes"))
	assert.False(t, *parseTriBool("FALSE"))
}
