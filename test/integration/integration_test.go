package integration

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"math"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/iwvelando/overhang-risk/internal/config"
	"github.com/iwvelando/overhang-risk/internal/overhang"
	"github.com/iwvelando/overhang-risk/internal/server"
	"github.com/iwvelando/overhang-risk/pkg/constants"
	"github.com/iwvelando/overhang-risk/pkg/output"
	"github.com/iwvelando/overhang-risk/pkg/testutil"
	"go.uber.org/zap"
)

const testConfigPath = "../test_config.yaml"

func loadAnalysis(t *testing.T) (*config.Configuration, *overhang.Analysis) {
	t.Helper()
	conf, err := config.LoadConfiguration(testConfigPath)
	if err != nil {
		t.Fatalf("LoadConfiguration() error = %v", err)
	}

	a, err := conf.Analyze()
	if err != nil {
		t.Fatalf("Analyze() error = %v", err)
	}
	return conf, a
}

// TestMainIntegrationBaseline checks the analysis of the sample property
// against hand-computed values.
func TestMainIntegrationBaseline(t *testing.T) {
	conf, a := loadAnalysis(t)

	if len(a.Units) != 5 {
		t.Fatalf("Expected 5 unit types, got %d", len(a.Units))
	}

	expectedOverhang := map[string]float64{
		"Studio": 190,
		"1BR":    550,
		"2BR":    620,
		"3BR":    750,
		"4BR":    -40,
	}
	for label, expected := range expectedOverhang {
		u := testutil.FindUnit(a.Units, label)
		if u == nil {
			t.Errorf("Unit type %s not found", label)
			continue
		}
		if math.Abs(u.Overhang-expected) > constants.CurrencyTolerance {
			t.Errorf("%s: expected overhang %.2f, got %.2f", label, expected, u.Overhang)
		}
	}

	if a.Scenario != overhang.ScenarioMinRisk {
		t.Errorf("Expected scenario %s, got %s", overhang.ScenarioMinRisk, a.Scenario)
	}
	// 2 x -40 + 6 x 190 + 12 x 550 + 10 x 620
	if a.MinExposure != 13860 {
		t.Errorf("Expected min exposure 13860, got %.2f", a.MinExposure)
	}
	// 8 x 750 + 22 x 620
	if a.MaxExposure != 19640 {
		t.Errorf("Expected max exposure 19640, got %.2f", a.MaxExposure)
	}
	if a.SelectedExposure != a.MinExposure {
		t.Errorf("Expected selected exposure to equal min exposure, got %.2f", a.SelectedExposure)
	}

	row := testutil.FindSummaryRow(a.Summary, overhang.MaxRiskSummaryLabel)
	if row == nil || row.Exposure != 19640 {
		t.Errorf("Expected max risk summary row of 19640, got %+v", row)
	}

	alloc := testutil.FindAllocation(a.Allocation.Allocations, "2BR")
	if alloc == nil || alloc.Vouchers != 10 {
		t.Errorf("Expected 10 vouchers in 2BR for min risk, got %+v", alloc)
	}
	if testutil.FindAllocation(a.Allocation.Allocations, "3BR") != nil {
		t.Errorf("Expected no vouchers in 3BR for min risk")
	}

	warnings := conf.ValidateConfiguration()
	if len(warnings) != 1 || !strings.Contains(warnings[0], "4BR") {
		t.Errorf("Expected a single 4BR warning, got %v", warnings)
	}
}

func TestScenarioVariations(t *testing.T) {
	tests := []struct {
		scenario string
		expected float64
	}{
		{"max-risk", 19640},
		{"min-risk", 13860},
		{"partial-loss", 10340}, // 8 x 750 + 7 x 620
	}

	for _, tt := range tests {
		t.Run(tt.scenario, func(t *testing.T) {
			t.Setenv("OVERHANG_SCENARIO", tt.scenario)
			_, a := loadAnalysis(t)
			if a.SelectedExposure != tt.expected {
				t.Errorf("Expected %.2f, got %.2f", tt.expected, a.SelectedExposure)
			}
			if a.MinExposure != 13860 || a.MaxExposure != 19640 {
				t.Errorf("Bounds changed with scenario: %.2f/%.2f", a.MinExposure, a.MaxExposure)
			}
		})
	}
}

func TestCSVOutputFormat(t *testing.T) {
	_, a := loadAnalysis(t)

	var buf bytes.Buffer
	if err := output.CsvFormat(&buf, a); err != nil {
		t.Fatalf("CsvFormat() error = %v", err)
	}

	r := csv.NewReader(strings.NewReader(buf.String()))
	r.FieldsPerRecord = -1
	records, err := r.ReadAll()
	if err != nil {
		t.Fatalf("Failed to parse CSV output: %v", err)
	}

	// header + 5 units + summary header + 2 summary rows + selected row
	if len(records) != 10 {
		t.Fatalf("Expected 10 records, got %d", len(records))
	}
	if records[5][0] != "4BR" || records[5][6] != "-40.00" {
		t.Errorf("Unexpected 4BR record %v", records[5])
	}
	if records[9][0] != "All TBVs in Low-Rent Units" || records[9][1] != "13860.00" {
		t.Errorf("Unexpected selected record %v", records[9])
	}
}

func TestPrettyOutputFormat(t *testing.T) {
	_, a := loadAnalysis(t)

	var buf bytes.Buffer
	output.PrettyFormat(&buf, a)
	out := buf.String()

	for _, expected := range []string{"Studio", "-$40.00", "$13,860.00", "$19,640.00", "Tenant-based:  30"} {
		if !strings.Contains(out, expected) {
			t.Errorf("Expected pretty output to contain %q", expected)
		}
	}
}

// TestEndToEndServer posts the sample property to the HTTP API and checks
// the result agrees with the file-driven analysis.
func TestEndToEndServer(t *testing.T) {
	conf, a := loadAnalysis(t)

	ts := httptest.NewServer(server.NewHandler(zap.NewNop(), constants.DefaultMaxUploadSizeBytes, "integration"))
	defer ts.Close()

	body, err := json.Marshal(map[string]interface{}{
		"units":    conf.Units,
		"vouchers": conf.Vouchers,
		"scenario": conf.Scenario,
	})
	if err != nil {
		t.Fatalf("Failed to marshal request: %v", err)
	}

	resp, err := http.Post(ts.URL+"/api/analyze", "application/json", bytes.NewReader(body))
	if err != nil {
		t.Fatalf("POST /api/analyze error = %v", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", resp.StatusCode)
	}

	var got overhang.Analysis
	if err := json.NewDecoder(resp.Body).Decode(&got); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}

	if got.MinExposure != a.MinExposure || got.MaxExposure != a.MaxExposure || got.SelectedExposure != a.SelectedExposure {
		t.Errorf("API result %.2f/%.2f/%.2f differs from file result %.2f/%.2f/%.2f",
			got.MinExposure, got.MaxExposure, got.SelectedExposure,
			a.MinExposure, a.MaxExposure, a.SelectedExposure)
	}
	if len(got.Units) != len(a.Units) {
		t.Errorf("Expected %d units, got %d", len(a.Units), len(got.Units))
	}
}
