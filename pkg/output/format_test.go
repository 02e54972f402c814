package output

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"strings"
	"testing"

	"github.com/iwvelando/overhang-risk/internal/overhang"
)

func sampleAnalysis(t *testing.T, scenario overhang.Scenario, tbv int) *overhang.Analysis {
	t.Helper()
	portfolio := overhang.NewPortfolio([]overhang.UnitType{
		{Label: "1BR", Units: 10, LIHTCMaxRent: 1000, UtilityAllowance: 100, Section8Rent: 1450},
		{Label: "2BR", Units: 20, LIHTCMaxRent: 1200, UtilityAllowance: 120, Section8Rent: 1700},
		{Label: "3BR", Units: 5, LIHTCMaxRent: 1400, UtilityAllowance: 150, Section8Rent: 2000},
	})
	a, err := overhang.Analyze(portfolio, overhang.VoucherPool{ProjectBased: 20, TenantBased: tbv}, scenario)
	if err != nil {
		t.Fatalf("Analyze() error = %v", err)
	}
	return a
}

func TestPrettyFormat(t *testing.T) {
	var buf bytes.Buffer
	PrettyFormat(&buf, sampleAnalysis(t, overhang.ScenarioPartialLoss, 15))
	output := buf.String()

	expected := []string{
		"--- Unit mix ---",
		"Unit Type  | Units | LIHTC Max Rent",
		"$1,450.00",
		"$1,080.00",
		"$750.00",
		"Project-based: 20",
		"Tenant-based:  15",
		"Min Risk (TBV in Low-Rent Units)",
		"$8,600.00",
		"Max Risk (TBV in High-Rent Units)",
		"$9,950.00",
		"Selected (50% TBVs Lost)",
		"$4,990.00",
		"--- Selected scenario allocation ---",
		"3BR        |     5 vouchers | $3,750.00",
		"2BR        |     2 vouchers | $1,240.00",
	}
	for _, want := range expected {
		if !strings.Contains(output, want) {
			t.Errorf("PrettyFormat missing %q\n%s", want, output)
		}
	}
	if strings.Contains(output, "could not be placed") {
		t.Errorf("PrettyFormat should not report unplaced vouchers")
	}
}

func TestPrettyFormatUnplacedVouchers(t *testing.T) {
	var buf bytes.Buffer
	PrettyFormat(&buf, sampleAnalysis(t, overhang.ScenarioMaxRisk, 50))
	if !strings.Contains(buf.String(), "15 vouchers could not be placed") {
		t.Errorf("expected unplaced voucher note, got\n%s", buf.String())
	}
}

func TestPrettyFormatNegativeExposure(t *testing.T) {
	portfolio := overhang.NewPortfolio([]overhang.UnitType{
		{Label: "Studio", Units: 4, LIHTCMaxRent: 900, UtilityAllowance: 50, Section8Rent: 700},
	})
	a, err := overhang.Analyze(portfolio, overhang.VoucherPool{TenantBased: 4}, overhang.ScenarioMinRisk)
	if err != nil {
		t.Fatalf("Analyze() error = %v", err)
	}

	var buf bytes.Buffer
	PrettyFormat(&buf, a)
	if !strings.Contains(buf.String(), "-$600.00") {
		t.Errorf("expected negative exposure, got\n%s", buf.String())
	}
}

func TestCsvFormat(t *testing.T) {
	var buf bytes.Buffer
	if err := CsvFormat(&buf, sampleAnalysis(t, overhang.ScenarioMaxRisk, 15)); err != nil {
		t.Fatalf("CsvFormat() error = %v", err)
	}

	r := csv.NewReader(strings.NewReader(buf.String()))
	r.FieldsPerRecord = -1
	records, err := r.ReadAll()
	if err != nil {
		t.Fatalf("failed to parse csv output: %v", err)
	}

	if len(records) != 8 {
		t.Fatalf("expected 8 records, got %d: %v", len(records), records)
	}
	if records[0][6] != "Overhang ($)" {
		t.Errorf("unexpected header %v", records[0])
	}
	if strings.Join(records[3], ",") != "3BR,5,1400.00,150.00,2000.00,1250.00,750.00" {
		t.Errorf("unexpected 3BR row %v", records[3])
	}
	if strings.Join(records[4], ",") != "Scenario,Overhang Exposure ($)" {
		t.Errorf("unexpected summary header %v", records[4])
	}
	if strings.Join(records[6], ",") != "Max Risk (TBV in High-Rent Units),9950.00" {
		t.Errorf("unexpected summary row %v", records[6])
	}
}

func TestCsvString(t *testing.T) {
	out := CsvString(sampleAnalysis(t, overhang.ScenarioMinRisk, 15))
	if !strings.HasPrefix(out, "Unit Type,Units,") {
		t.Errorf("unexpected csv prefix: %q", out)
	}
	if !strings.Contains(out, "All TBVs in Low-Rent Units,8600.00") {
		t.Errorf("expected selected scenario row, got\n%s", out)
	}
}

func TestJSONFormat(t *testing.T) {
	var buf bytes.Buffer
	if err := JSONFormat(&buf, sampleAnalysis(t, overhang.ScenarioMaxRisk, 15)); err != nil {
		t.Fatalf("JSONFormat() error = %v", err)
	}

	var decoded map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if decoded["maxExposure"] != 9950.0 {
		t.Errorf("expected maxExposure 9950, got %v", decoded["maxExposure"])
	}
	units, ok := decoded["units"].([]interface{})
	if !ok || len(units) != 3 {
		t.Fatalf("expected 3 units, got %v", decoded["units"])
	}
	first := units[0].(map[string]interface{})
	if first["label"] != "1BR" || first["overhang"] != 550.0 {
		t.Errorf("unexpected first unit %v", first)
	}
}
