package export

import (
	"fmt"
	"io"
	"os"
	"strings"
	"text/template"

	"github.com/de-tools/material-atlas/pkg/models/domain"
)

type TableConfig struct {
	IDWidth       int
	PeriodWidth   int
	DatesWidth    int
	CountWidth    int
	PlatformWidth int
}

func DefaultTableConfig() TableConfig {
	return TableConfig{
		IDWidth:       36,
		PeriodWidth:   20,
		DatesWidth:    23,
		CountWidth:    10,
		PlatformWidth: 18,
	}
}

// Reporter prints reports, stats and narratives as console text.
type Reporter struct {
	writer io.Writer
	config TableConfig
}

func NewReporter(writer io.Writer) *Reporter {
	if writer == nil {
		writer = os.Stdout
	}
	return &Reporter{
		writer: writer,
		config: DefaultTableConfig(),
	}
}

func (c *Reporter) funcs() template.FuncMap {
	cfg := c.config
	return template.FuncMap{
		"date": func(r domain.Report) string {
			return fmt.Sprintf("%s - %s", r.StartDate.Format(domain.DateLayout), r.EndDate.Format(domain.DateLayout))
		},
		"platforms": func(r domain.Report) string {
			names := make([]string, 0)
			for _, p := range r.PlatformNames() {
				names = append(names, string(p))
			}
			return strings.Join(names, ", ")
		},
		"formatRow": func(id, period, dates string, ebooks, diagrammed any, platforms string) string {
			return fmt.Sprintf("| %-*s | %-*s | %-*s | %*v | %*v | %-*s |",
				cfg.IDWidth, id,
				cfg.PeriodWidth, period,
				cfg.DatesWidth, dates,
				cfg.CountWidth, ebooks,
				cfg.CountWidth, diagrammed,
				cfg.PlatformWidth, platforms)
		},
		"separator": func() string {
			return fmt.Sprintf("+%s+%s+%s+%s+%s+%s+",
				strings.Repeat("-", cfg.IDWidth+2),
				strings.Repeat("-", cfg.PeriodWidth+2),
				strings.Repeat("-", cfg.DatesWidth+2),
				strings.Repeat("-", cfg.CountWidth+2),
				strings.Repeat("-", cfg.CountWidth+2),
				strings.Repeat("-", cfg.PlatformWidth+2))
		},
		"mostUsed": func(p domain.Platform) string {
			if p == "" {
				return "N/A"
			}
			return string(p)
		},
	}
}

func (c *Reporter) render(name, tmpl string, data any) error {
	t, err := template.New(name).Funcs(c.funcs()).Parse(tmpl)
	if err != nil {
		return fmt.Errorf("failed to parse template: %w", err)
	}
	return t.Execute(c.writer, data)
}

// List prints reports as a table.
func (c *Reporter) List(reports []domain.Report) error {
	if len(reports) == 0 {
		_, err := fmt.Fprintln(c.writer, "Nenhum relatório encontrado.")
		return err
	}

	tmpl := `{{separator}}
{{formatRow "ID" "Period" "Dates" "E-books" "Diagrammed" "Platforms"}}
{{separator}}
{{range .}}{{formatRow .ID .Period (date .) .MaterialProduction.Ebooks .TotalDiagrammed (platforms .)}}
{{end}}{{separator}}
`
	return c.render("list", tmpl, reports)
}

// Dashboard prints the aggregate figures of a filtered set.
func (c *Reporter) Dashboard(d domain.Dashboard) error {
	tmpl := `
=== Stats ===
Reports:              {{.Stats.TotalReports}}
E-books:              {{.Stats.TotalEbooks}}
Printed books:        {{.Stats.TotalPrintedBooks}}
Visual identities:    {{.Stats.TotalVisualIdentities}}
Diagrammed materials: {{.Stats.TotalDiagrammedMaterials}}
Avg e-books:          {{printf "%.1f" .Stats.AverageEbooks}}
Avg diagrammed:       {{printf "%.1f" .Stats.AverageDiagrammed}}
Most used platform:   {{mostUsed .Stats.MostUsedPlatform}}
{{range .Stats.PlatformTotals}}  - {{.Platform}}: {{.Quantity}}
{{end}}{{with .MostRecent}}
Most recent: {{.Period}} ({{.ID}})
{{end}}`
	return c.render("dashboard", tmpl, d)
}

// Report prints one report followed by its narrative.
func (c *Reporter) Report(r domain.Report, n domain.Narrative) error {
	tmpl := `
{{.Report.Period}} ({{date .Report}})
ID: {{.Report.ID}}
Created: {{.Report.CreatedAt.Format "2006-01-02 15:04:05"}}

E-books:           {{.Report.MaterialProduction.Ebooks}}
Printed books:     {{.Report.MaterialProduction.PrintedBooks}}
Visual identities: {{.Report.VisualIdentity.Created}}

=== Diagrammed materials ({{.Report.TotalDiagrammed}}) ===
{{range .Report.DiagrammedMaterials}}- {{.Platform}} / {{.Program}}: {{.Quantity}}
{{end}}
{{range .Narrative.Sentences}}{{.}}
{{end}}`
	return c.render("report", tmpl, struct {
		Report    domain.Report
		Narrative domain.Narrative
	}{r, n})
}
