package memo

import (
	"bytes"
	"testing"
	"time"

	"github.com/iwvelando/overhang-risk/internal/overhang"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func analyze(t *testing.T, scenario overhang.Scenario, tbv int) *overhang.Analysis {
	t.Helper()
	portfolio := overhang.NewPortfolio([]overhang.UnitType{
		{Label: "1BR", Units: 10, LIHTCMaxRent: 1000, UtilityAllowance: 100, Section8Rent: 1450},
		{Label: "2BR", Units: 20, LIHTCMaxRent: 1200, UtilityAllowance: 120, Section8Rent: 1700},
		{Label: "3BR", Units: 5, LIHTCMaxRent: 1400, UtilityAllowance: 150, Section8Rent: 2000},
	})
	a, err := overhang.Analyze(portfolio, overhang.VoucherPool{ProjectBased: 20, TenantBased: tbv}, scenario)
	require.NoError(t, err)
	return a
}

func TestMarkdown(t *testing.T) {
	out, err := Markdown(analyze(t, overhang.ScenarioPartialLoss, 15))
	require.NoError(t, err)

	expected := `### Section 8 Overhang Risk Summary

This analysis evaluates potential overhang risk due to Section 8 voucher rents exceeding LIHTC rent limits.

- **PBV Units:** 20 (low risk - subsidy stays with the unit)
- **TBV Units:** 15 (higher risk - subsidy can leave)

#### Scenarios:
- **Max TBV Exposure:** $9,950
- **Min TBV Exposure:** $8,600
- **Selected Scenario (50% TBVs Lost):** $4,990

Use this analysis to underwrite worst-case scenarios and communicate risk to investors or CRA-aligned lenders.
`
	assert.Equal(t, expected, out)
}

func TestMarkdownUnplacedVouchers(t *testing.T) {
	out, err := Markdown(analyze(t, overhang.ScenarioMaxRisk, 40))
	require.NoError(t, err)

	assert.Contains(t, out, "- **Selected Scenario (All TBVs in High-Rent Units):** $21,650\n\n_5 tenant-based vouchers exceed the unit count and were not placed._\n\nUse this analysis")
}

func TestPDF(t *testing.T) {
	generated := time.Date(2026, time.March, 2, 0, 0, 0, 0, time.UTC)
	out, err := PDF(analyze(t, overhang.ScenarioMinRisk, 15), PDFOptions{GeneratedAt: generated})
	require.NoError(t, err)

	require.True(t, bytes.HasPrefix(out, []byte("%PDF-")), "missing PDF header")
	assert.Contains(t, string(out), Title)
	assert.Contains(t, string(out), ChartTitle)
	assert.Contains(t, string(out), "Generated: 2 March 2026")
	assert.Contains(t, string(out), "$8,600")
	assert.Contains(t, string(out), "$9,950")
}

func TestPDFNegativeExposure(t *testing.T) {
	portfolio := overhang.NewPortfolio([]overhang.UnitType{
		{Label: "Studio", Units: 4, LIHTCMaxRent: 900, UtilityAllowance: 50, Section8Rent: 700},
		{Label: "1BR", Units: 2, LIHTCMaxRent: 1000, UtilityAllowance: 100, Section8Rent: 1000},
	})
	a, err := overhang.Analyze(portfolio, overhang.VoucherPool{TenantBased: 3}, overhang.ScenarioMinRisk)
	require.NoError(t, err)

	out, err := PDF(a, PDFOptions{Compress: true})
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF-")))
}

func TestChartScale(t *testing.T) {
	tests := []struct {
		name string
		rows []overhang.SummaryRow
		high float64
		span float64
	}{
		{"positive", []overhang.SummaryRow{{Exposure: 8600}, {Exposure: 9950}}, 9950, 9950},
		{"mixed", []overhang.SummaryRow{{Exposure: -450}, {Exposure: 200}}, 200, 650},
		{"zero", []overhang.SummaryRow{{Exposure: 0}, {Exposure: 0}}, 0, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := chartScale(tt.rows)
			assert.Equal(t, tt.high, got.high)
			assert.Equal(t, tt.span, got.span)
		})
	}
}
