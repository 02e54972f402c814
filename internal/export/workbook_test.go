package export

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/iwvelando/overhang-risk/internal/overhang"
	"github.com/iwvelando/overhang-risk/pkg/constants"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func sampleAnalysis(t *testing.T) *overhang.Analysis {
	t.Helper()
	portfolio := overhang.NewPortfolio([]overhang.UnitType{
		{Label: "1BR", Units: 10, LIHTCMaxRent: 1000, UtilityAllowance: 100, Section8Rent: 1450},
		{Label: "2BR", Units: 20, LIHTCMaxRent: 1200, UtilityAllowance: 120, Section8Rent: 1700},
		{Label: "3BR", Units: 5, LIHTCMaxRent: 1400, UtilityAllowance: 150, Section8Rent: 2000},
	})
	a, err := overhang.Analyze(portfolio, overhang.VoucherPool{ProjectBased: 20, TenantBased: 15}, overhang.ScenarioMaxRisk)
	require.NoError(t, err)
	return a
}

func raw(t *testing.T, f *excelize.File, sheet, cell string) string {
	t.Helper()
	v, err := f.GetCellValue(sheet, cell, excelize.Options{RawCellValue: true})
	require.NoError(t, err)
	return v
}

func TestWriteWorkbook(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteWorkbook(&buf, sampleAnalysis(t)))

	f, err := excelize.OpenReader(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	defer func() { _ = f.Close() }()

	assert.Equal(t, []string{constants.UnitDataSheet, constants.ScenarioSummarySheet}, f.GetSheetList())

	unitRows, err := f.GetRows(constants.UnitDataSheet, excelize.Options{RawCellValue: true})
	require.NoError(t, err)
	require.Len(t, unitRows, 4)
	assert.Equal(t, UnitDataHeader, unitRows[0])

	assert.Equal(t, "1BR", raw(t, f, constants.UnitDataSheet, "A2"))
	assert.Equal(t, "10", raw(t, f, constants.UnitDataSheet, "B2"))
	assert.Equal(t, "900", raw(t, f, constants.UnitDataSheet, "F2"))
	assert.Equal(t, "550", raw(t, f, constants.UnitDataSheet, "G2"))
	assert.Equal(t, "3BR", raw(t, f, constants.UnitDataSheet, "A4"))
	assert.Equal(t, "750", raw(t, f, constants.UnitDataSheet, "G4"))

	summaryRows, err := f.GetRows(constants.ScenarioSummarySheet, excelize.Options{RawCellValue: true})
	require.NoError(t, err)
	require.Len(t, summaryRows, 3)
	assert.Equal(t, ScenarioSummaryHeader, summaryRows[0])
	assert.Equal(t, []string{overhang.MinRiskSummaryLabel, "8600"}, summaryRows[1])
	assert.Equal(t, []string{overhang.MaxRiskSummaryLabel, "9950"}, summaryRows[2])
}

func TestWorkbookCurrencyStyle(t *testing.T) {
	f, err := Build(sampleAnalysis(t))
	require.NoError(t, err)
	defer func() { _ = f.Close() }()

	labelStyle, err := f.GetCellStyle(constants.ScenarioSummarySheet, "A3")
	require.NoError(t, err)
	amountStyle, err := f.GetCellStyle(constants.ScenarioSummarySheet, "B3")
	require.NoError(t, err)
	assert.NotEqual(t, labelStyle, amountStyle)

	rentStyle, err := f.GetCellStyle(constants.UnitDataSheet, "C2")
	require.NoError(t, err)
	assert.Equal(t, amountStyle, rentStyle)
}

func TestSaveWorkbook(t *testing.T) {
	path := filepath.Join(t.TempDir(), constants.DefaultExportFile)
	require.NoError(t, SaveWorkbook(path, sampleAnalysis(t)))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer func() { _ = f.Close() }()

	assert.Equal(t, "Overhang ($)", raw(t, f, constants.UnitDataSheet, "G1"))
	assert.Equal(t, "Overhang Exposure ($)", raw(t, f, constants.ScenarioSummarySheet, "B1"))
}

func TestSaveWorkbookBadPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing", "dir", "out.xlsx")
	assert.Error(t, SaveWorkbook(path, sampleAnalysis(t)))
}
