package memo

import (
	"bytes"
	"fmt"
	"math"
	"time"

	"github.com/go-pdf/fpdf"
	"github.com/iwvelando/overhang-risk/internal/overhang"
	"github.com/iwvelando/overhang-risk/pkg/format"
)

// Page layout in millimetres.
const (
	marginLeft   = 20.0
	marginTop    = 20.0
	marginRight  = 20.0
	marginBottom = 20.0
	contentWidth = 210.0 - marginLeft - marginRight

	chartHeight = 70.0
	barWidth    = 40.0
)

// ChartTitle heads the exposure range chart.
const ChartTitle = "Range of TBV Overhang Risk"

// PDFOptions tweaks PDF generation.
type PDFOptions struct {
	// GeneratedAt is printed under the title; zero means now.
	GeneratedAt time.Time
	// Compress turns on stream compression. Off keeps the output greppable.
	Compress bool
}

type pdfMemo struct {
	pdf      *fpdf.Fpdf
	analysis *overhang.Analysis
	data     memoData
}

// PDF renders the memo as a single-page PDF with the min/max exposure chart.
func PDF(a *overhang.Analysis, opts PDFOptions) ([]byte, error) {
	generated := opts.GeneratedAt
	if generated.IsZero() {
		generated = time.Now()
	}

	m := &pdfMemo{
		pdf:      fpdf.New("P", "mm", "A4", ""),
		analysis: a,
		data:     newMemoData(a),
	}
	m.pdf.SetMargins(marginLeft, marginTop, marginRight)
	m.pdf.SetAutoPageBreak(true, marginBottom)
	m.pdf.SetCompression(opts.Compress)
	m.pdf.SetTitle(Title, false)
	m.pdf.SetCreationDate(generated)

	m.pdf.AddPage()
	m.addHeader(generated)
	m.addVoucherSummary()
	m.addScenarios()
	m.addChart()
	m.addUnitTable()

	var buf bytes.Buffer
	if err := m.pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to render memo pdf: %w", err)
	}
	return buf.Bytes(), nil
}

func (m *pdfMemo) addHeader(generated time.Time) {
	m.pdf.SetFont("Helvetica", "B", 18)
	m.pdf.SetTextColor(0, 51, 102)
	m.pdf.CellFormat(contentWidth, 10, Title, "", 1, "L", false, 0, "")

	m.pdf.SetFont("Helvetica", "", 9)
	m.pdf.SetTextColor(110, 110, 110)
	m.pdf.CellFormat(contentWidth, 5, fmt.Sprintf("Generated: %s", generated.Format("2 January 2006")), "", 1, "L", false, 0, "")
	m.pdf.Ln(3)

	m.pdf.SetFont("Helvetica", "", 11)
	m.pdf.SetTextColor(0, 0, 0)
	m.pdf.MultiCell(contentWidth, 5.5,
		"This analysis evaluates potential overhang risk due to Section 8 voucher rents exceeding LIHTC rent limits.",
		"", "L", false)
	m.pdf.Ln(3)
}

func (m *pdfMemo) addVoucherSummary() {
	m.bullet("PBV Units:", fmt.Sprintf("%d (low risk - subsidy stays with the unit)", m.data.ProjectBased))
	m.bullet("TBV Units:", fmt.Sprintf("%d (higher risk - subsidy can leave)", m.data.TenantBased))
	m.pdf.Ln(3)
}

func (m *pdfMemo) addScenarios() {
	m.pdf.SetFont("Helvetica", "B", 13)
	m.pdf.CellFormat(contentWidth, 8, "Scenarios", "", 1, "L", false, 0, "")
	m.bullet("Max TBV Exposure:", m.data.MaxExposure)
	m.bullet("Min TBV Exposure:", m.data.MinExposure)
	m.bullet(fmt.Sprintf("Selected Scenario (%s):", m.data.ScenarioLabel), m.data.SelectedExposure)
	if m.data.Unallocated > 0 {
		m.pdf.SetFont("Helvetica", "I", 10)
		m.pdf.CellFormat(contentWidth, 6,
			fmt.Sprintf("%d tenant-based vouchers exceed the unit count and were not placed.", m.data.Unallocated),
			"", 1, "L", false, 0, "")
	}
	m.pdf.Ln(4)
}

func (m *pdfMemo) bullet(label, value string) {
	m.pdf.SetFont("Helvetica", "B", 11)
	labelWidth := m.pdf.GetStringWidth(label) + 2
	m.pdf.CellFormat(6, 6, "-", "", 0, "L", false, 0, "")
	m.pdf.CellFormat(labelWidth, 6, label, "", 0, "L", false, 0, "")
	m.pdf.SetFont("Helvetica", "", 11)
	m.pdf.CellFormat(contentWidth-6-labelWidth, 6, value, "", 1, "L", false, 0, "")
}

// addChart draws one bar per bounding scenario. The zero line sits inside
// the plot when either exposure is negative.
func (m *pdfMemo) addChart() {
	m.pdf.SetFont("Helvetica", "B", 13)
	m.pdf.CellFormat(contentWidth, 8, ChartTitle, "", 1, "L", false, 0, "")

	rows := m.analysis.Summary
	top := m.pdf.GetY() + 8
	scale := chartScale(rows)
	zeroY := top + chartHeight*scale.high/scale.span

	m.pdf.SetDrawColor(160, 160, 160)
	m.pdf.Line(marginLeft, zeroY, marginLeft+contentWidth, zeroY)

	slot := contentWidth / float64(max(len(rows), 1))
	for i, row := range rows {
		x := marginLeft + slot*float64(i) + (slot-barWidth)/2
		height := chartHeight * math.Abs(row.Exposure) / scale.span
		y := zeroY - height
		labelY := y - 6
		if row.Exposure < 0 {
			y = zeroY
			labelY = zeroY + height + 1
		}

		m.pdf.SetFillColor(0, 102, 204)
		if i == 0 {
			m.pdf.SetFillColor(120, 170, 220)
		}
		if height > 0 {
			m.pdf.Rect(x, y, barWidth, height, "F")
		}

		m.pdf.SetFont("Helvetica", "B", 10)
		m.pdf.SetXY(x-10, labelY)
		m.pdf.CellFormat(barWidth+20, 5, format.Dollars(row.Exposure), "", 0, "C", false, 0, "")

		m.pdf.SetFont("Helvetica", "", 9)
		m.pdf.SetXY(marginLeft+slot*float64(i), top+chartHeight+8)
		m.pdf.CellFormat(slot, 5, row.Scenario, "", 0, "C", false, 0, "")
	}

	m.pdf.SetXY(marginLeft, top+chartHeight+18)
}

type chartRange struct {
	high float64
	span float64
}

func chartScale(rows []overhang.SummaryRow) chartRange {
	high, low := 0.0, 0.0
	for _, r := range rows {
		high = math.Max(high, r.Exposure)
		low = math.Min(low, r.Exposure)
	}
	span := high - low
	if span == 0 {
		span = 1
	}
	return chartRange{high: high, span: span}
}

func (m *pdfMemo) addUnitTable() {
	m.pdf.SetFont("Helvetica", "B", 13)
	m.pdf.CellFormat(contentWidth, 8, "Unit Mix", "", 1, "L", false, 0, "")

	headers := []string{"Unit Type", "Units", "LIHTC Max", "Utility", "Section 8", "Net LIHTC", "Overhang"}
	widths := []float64{26, 16, 26, 24, 26, 26, 26}

	m.pdf.SetFont("Helvetica", "B", 9)
	m.pdf.SetFillColor(245, 247, 250)
	for i, h := range headers {
		m.pdf.CellFormat(widths[i], 7, h, "1", 0, "C", true, 0, "")
	}
	m.pdf.Ln(-1)

	m.pdf.SetFont("Helvetica", "", 9)
	for _, u := range m.analysis.Units {
		cells := []string{
			u.Label,
			fmt.Sprintf("%d", u.Units),
			format.Currency(u.LIHTCMaxRent),
			format.Currency(u.UtilityAllowance),
			format.Currency(u.Section8Rent),
			format.Currency(u.NetLIHTCRent),
			format.Currency(u.Overhang),
		}
		for i, c := range cells {
			align := "R"
			if i == 0 {
				align = "L"
			}
			m.pdf.CellFormat(widths[i], 6, c, "1", 0, align, false, 0, "")
		}
		m.pdf.Ln(-1)
	}

	m.pdf.Ln(4)
	m.pdf.SetFont("Helvetica", "", 10)
	m.pdf.MultiCell(contentWidth, 5,
		"Use this analysis to underwrite worst-case scenarios and communicate risk to investors or CRA-aligned lenders.",
		"", "L", false)
}
