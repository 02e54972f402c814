// Package export writes an overhang analysis to an .xlsx workbook with the
// augmented unit table and the bounding-scenario summary on separate sheets.
package export

import (
	"fmt"
	"io"

	"github.com/iwvelando/overhang-risk/internal/overhang"
	"github.com/iwvelando/overhang-risk/pkg/constants"
	"github.com/xuri/excelize/v2"
)

const currencyFormat = `"$"#,##0.00;-"$"#,##0.00`

// UnitDataHeader is the header row of the unit data sheet.
var UnitDataHeader = []string{
	"Unit Type", "Units", "LIHTC Max Rent", "Utility Allowance", "Section 8 Rent", "Net LIHTC Rent", "Overhang ($)",
}

// ScenarioSummaryHeader is the header row of the scenario summary sheet.
var ScenarioSummaryHeader = []string{"Scenario", "Overhang Exposure ($)"}

// Build creates the workbook in memory. Callers must Close the returned file.
func Build(a *overhang.Analysis) (*excelize.File, error) {
	f := excelize.NewFile()

	defaultSheet := f.GetSheetName(0)
	if err := f.SetSheetName(defaultSheet, constants.UnitDataSheet); err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("failed to name unit data sheet: %w", err)
	}
	if _, err := f.NewSheet(constants.ScenarioSummarySheet); err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("failed to create scenario summary sheet: %w", err)
	}

	styles, err := newStyles(f)
	if err != nil {
		_ = f.Close()
		return nil, err
	}

	if err := writeUnitData(f, styles, a.Units); err != nil {
		_ = f.Close()
		return nil, err
	}
	if err := writeSummary(f, styles, a.Summary); err != nil {
		_ = f.Close()
		return nil, err
	}

	f.SetActiveSheet(0)
	return f, nil
}

// WriteWorkbook streams the workbook to w.
func WriteWorkbook(w io.Writer, a *overhang.Analysis) error {
	f, err := Build(a)
	if err != nil {
		return err
	}
	defer func() { _ = f.Close() }()

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

// SaveWorkbook writes the workbook to path.
func SaveWorkbook(path string, a *overhang.Analysis) error {
	f, err := Build(a)
	if err != nil {
		return err
	}
	defer func() { _ = f.Close() }()

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save workbook %s: %w", path, err)
	}
	return nil
}

type styles struct {
	header   int
	currency int
}

func newStyles(f *excelize.File) (styles, error) {
	header, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
	})
	if err != nil {
		return styles{}, fmt.Errorf("failed to create header style: %w", err)
	}

	numFmt := currencyFormat
	currency, err := f.NewStyle(&excelize.Style{CustomNumFmt: &numFmt})
	if err != nil {
		return styles{}, fmt.Errorf("failed to create currency style: %w", err)
	}

	return styles{header: header, currency: currency}, nil
}

func writeUnitData(f *excelize.File, s styles, units []overhang.AnalyzedUnit) error {
	sheet := constants.UnitDataSheet

	if err := writeHeader(f, sheet, UnitDataHeader, s.header); err != nil {
		return err
	}

	for i, u := range units {
		row := i + 2
		cell, err := excelize.CoordinatesToCellName(1, row)
		if err != nil {
			return err
		}
		values := []interface{}{
			u.Label, u.Units, u.LIHTCMaxRent, u.UtilityAllowance, u.Section8Rent, u.NetLIHTCRent, u.Overhang,
		}
		if err := f.SetSheetRow(sheet, cell, &values); err != nil {
			return fmt.Errorf("failed to write unit row %s: %w", u.Label, err)
		}
	}

	if len(units) > 0 {
		last := len(units) + 1
		if err := f.SetCellStyle(sheet, "C2", fmt.Sprintf("G%d", last), s.currency); err != nil {
			return fmt.Errorf("failed to style unit data: %w", err)
		}
	}

	if err := f.SetColWidth(sheet, "A", "G", 18); err != nil {
		return fmt.Errorf("failed to size unit data columns: %w", err)
	}
	return nil
}

func writeSummary(f *excelize.File, s styles, rows []overhang.SummaryRow) error {
	sheet := constants.ScenarioSummarySheet

	if err := writeHeader(f, sheet, ScenarioSummaryHeader, s.header); err != nil {
		return err
	}

	for i, r := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		values := []interface{}{r.Scenario, r.Exposure}
		if err := f.SetSheetRow(sheet, cell, &values); err != nil {
			return fmt.Errorf("failed to write summary row %s: %w", r.Scenario, err)
		}
	}

	if len(rows) > 0 {
		if err := f.SetCellStyle(sheet, "B2", fmt.Sprintf("B%d", len(rows)+1), s.currency); err != nil {
			return fmt.Errorf("failed to style scenario summary: %w", err)
		}
	}

	if err := f.SetColWidth(sheet, "A", "A", 36); err != nil {
		return fmt.Errorf("failed to size summary columns: %w", err)
	}
	if err := f.SetColWidth(sheet, "B", "B", 22); err != nil {
		return fmt.Errorf("failed to size summary columns: %w", err)
	}
	return nil
}

func writeHeader(f *excelize.File, sheet string, header []string, style int) error {
	values := make([]interface{}, len(header))
	for i, h := range header {
		values[i] = h
	}
	if err := f.SetSheetRow(sheet, "A1", &values); err != nil {
		return fmt.Errorf("failed to write %s header: %w", sheet, err)
	}
	end, err := excelize.CoordinatesToCellName(len(header), 1)
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(sheet, "A1", end, style); err != nil {
		return fmt.Errorf("failed to style %s header: %w", sheet, err)
	}
	return nil
}
