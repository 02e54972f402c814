// Package memo renders the investor memo that summarizes an overhang analysis,
// as markdown text or as a PDF with an exposure range chart.
package memo

import (
	"bytes"
	"embed"
	"fmt"
	"text/template"

	"github.com/iwvelando/overhang-risk/internal/overhang"
	"github.com/iwvelando/overhang-risk/pkg/format"
)

//go:embed templates/memo.md.tmpl
var templateFS embed.FS

var markdownTemplate = template.Must(template.ParseFS(templateFS, "templates/memo.md.tmpl"))

// Title heads both memo formats.
const Title = "Section 8 Overhang Risk Summary"

type memoData struct {
	ProjectBased     int
	TenantBased      int
	MaxExposure      string
	MinExposure      string
	SelectedExposure string
	ScenarioLabel    string
	Unallocated      int
}

func newMemoData(a *overhang.Analysis) memoData {
	return memoData{
		ProjectBased:     a.Vouchers.ProjectBased,
		TenantBased:      a.Vouchers.TenantBased,
		MaxExposure:      format.Dollars(a.MaxExposure),
		MinExposure:      format.Dollars(a.MinExposure),
		SelectedExposure: format.Dollars(a.SelectedExposure),
		ScenarioLabel:    a.ScenarioLabel,
		Unallocated:      a.Allocation.Unallocated,
	}
}

// Markdown renders the memo as markdown.
func Markdown(a *overhang.Analysis) (string, error) {
	var out bytes.Buffer
	if err := markdownTemplate.Execute(&out, newMemoData(a)); err != nil {
		return "", fmt.Errorf("failed to render memo: %w", err)
	}
	return out.String(), nil
}
