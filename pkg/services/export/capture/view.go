package capture

import (
	"encoding/base64"
	"fmt"
	"html/template"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/de-tools/material-atlas/pkg/models/domain"
	"github.com/de-tools/material-atlas/pkg/services/narrative"
	"github.com/de-tools/material-atlas/pkg/services/stats"
)

const (
	dateLayout = "02/01/2006"
	timeLayout = "15:04:05"
)

// View is the data rendered into the report page.
type View struct {
	Institution domain.Institution
	Logo        template.URL
	Report      domain.Report
	Narrative   domain.Narrative
	Charts      domain.ChartData
	Platforms   []PlatformSection
	GeneratedAt time.Time
}

// PlatformSection lists the materials of one platform.
type PlatformSection struct {
	Platform  domain.Platform
	Materials []domain.DiagrammedMaterial
}

// NewView collects everything the report page shows. logo is an optional
// data URL.
func NewView(report domain.Report, institution domain.Institution, logo template.URL, now time.Time) View {
	return View{
		Institution: institution,
		Logo:        logo,
		Report:      report,
		Narrative:   narrative.Generate(report),
		Charts:      stats.Charts(report),
		Platforms:   sections(report),
		GeneratedAt: now,
	}
}

func sections(report domain.Report) []PlatformSection {
	var out []PlatformSection
	index := make(map[domain.Platform]int)
	for _, m := range report.DiagrammedMaterials {
		pos, ok := index[m.Platform]
		if !ok {
			pos = len(out)
			index[m.Platform] = pos
			out = append(out, PlatformSection{Platform: m.Platform})
		}
		out[pos].Materials = append(out[pos].Materials, m)
	}
	return out
}

// LogoDataURL inlines an image file so the page renders without file access.
func LogoDataURL(path string) (template.URL, error) {
	if path == "" {
		return "", nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read logo: %w", err)
	}
	mime := http.DetectContentType(data)
	return template.URL(fmt.Sprintf("data:%s;base64,%s", mime, base64.StdEncoding.EncodeToString(data))), nil
}

// RenderHTML writes the standalone report page. The region captured for
// export is the #report element.
func RenderHTML(w io.Writer, v View) error {
	return page.Execute(w, v)
}

var page = template.Must(template.New("report").Funcs(template.FuncMap{
	"date": func(t time.Time) string { return t.Format(dateLayout) },
	"clock": func(t time.Time) string { return t.Format(timeLayout) },
	"percent": func(value int, points []domain.ChartPoint) int {
		top := 0
		for _, p := range points {
			top = max(top, p.Value)
		}
		if top == 0 {
			return 0
		}
		return value * 100 / top
	},
	"share": func(value int, totals []domain.PlatformTotal) int {
		sum := 0
		for _, t := range totals {
			sum += t.Quantity
		}
		if sum == 0 {
			return 0
		}
		return value * 100 / sum
	},
	"programPercent": func(value int, bars []domain.ProgramBar) int {
		top := 0
		for _, b := range bars {
			top = max(top, b.Quantity)
		}
		if top == 0 {
			return 0
		}
		return value * 100 / top
	},
}).Parse(pageTemplate))

const pageTemplate = `<!DOCTYPE html>
<html lang="pt-BR">
<head>
<meta charset="utf-8">
<title>Relatório {{.Report.Period}}</title>
<style>
  body { margin: 0; background: #ffffff; font-family: Helvetica, Arial, sans-serif; color: #1f2933; }
  #report { width: 794px; padding: 32px; box-sizing: border-box; background: #ffffff; }
  header { text-align: center; border-bottom: 1px solid #d9e2ec; padding-bottom: 24px; margin-bottom: 32px; }
  header img { width: 80px; height: 80px; object-fit: contain; }
  h1 { font-size: 24px; color: #1f3a68; margin: 8px 0; }
  h2 { font-size: 20px; color: #3e5c94; margin: 4px 0; }
  h3 { font-size: 18px; color: #1f3a68; border-left: 4px solid #1f3a68; padding-left: 12px; }
  .muted { color: #627d98; font-size: 14px; }
  .cards { display: flex; gap: 24px; margin-bottom: 16px; }
  .card { flex: 1; border: 1px solid #d9e2ec; border-radius: 8px; padding: 16px; text-align: center; }
  .card .value { font-size: 30px; font-weight: bold; color: #1f3a68; }
  .material { display: flex; justify-content: space-between; background: #f0f4f8; border-radius: 4px; padding: 8px 12px; margin: 4px 0 4px 16px; }
  .bar { display: flex; align-items: center; gap: 8px; margin: 6px 0; font-size: 13px; }
  .bar .label { width: 160px; }
  .bar .fill { height: 14px; background: #1f3a68; }
  .bar .fill.alt { background: #3e5c94; }
  footer { margin-top: 32px; padding-top: 16px; border-top: 1px solid #d9e2ec; text-align: center; }
  p.text { text-align: justify; }
</style>
</head>
<body>
<div id="report">
  <header>
    {{- if .Logo}}
    <img src="{{.Logo}}" alt="Logo Institucional">
    {{- end}}
    {{- if .Institution.Name}}
    <div class="muted">{{.Institution.Name}}</div>
    {{- end}}
    <h1>RELATÓRIO DE ATIVIDADES</h1>
    <h2>{{if .Institution.Sector}}{{.Institution.Sector}}{{else}}Setor de Material Didático{{end}}</h2>
    <div class="muted">Período: {{.Report.Period}}</div>
    <div class="muted">{{date .Report.StartDate}} a {{date .Report.EndDate}}</div>
  </header>

  <section>
    <h3>1. Produção de Materiais Didáticos</h3>
    <div class="cards">
      <div class="card"><div class="value">{{.Report.MaterialProduction.Ebooks}}</div><div class="muted">E-books Finalizados</div></div>
      <div class="card"><div class="value">{{.Report.MaterialProduction.PrintedBooks}}</div><div class="muted">Livros Impressos</div></div>
    </div>
    <p class="text">{{.Narrative.Production}}</p>
  </section>

  <section>
    <h3>2. Criação de Identidade Visual</h3>
    <div class="cards">
      <div class="card"><div class="value">{{.Report.VisualIdentity.Created}}</div><div class="muted">Identidades Visuais Criadas</div></div>
    </div>
    <p class="text">{{.Narrative.Identity}}</p>
  </section>

  <section>
    <h3>3. Materiais Diagramados</h3>
    {{- range .Platforms}}
    <h4>Plataforma: {{.Platform}}</h4>
    {{- range .Materials}}
    <div class="material"><span>• Programa: {{.Program}}</span><span>{{.Quantity}} materiais</span></div>
    {{- end}}
    {{- end}}
    <p class="text">{{.Narrative.Diagrammed}}</p>
  </section>

  <section>
    <h3>4. Análise Gráfica</h3>
    <h4>Produção</h4>
    {{- $production := .Charts.Production}}
    {{- range $production}}
    <div class="bar"><span class="label">{{.Name}}</span><span class="fill" style="width: {{percent .Value $production}}%"></span><span>{{.Value}}</span></div>
    {{- end}}
    <h4>Materiais por Plataforma</h4>
    {{- $platforms := .Charts.Platforms}}
    {{- range $platforms}}
    <div class="bar"><span class="label">{{.Platform}}</span><span class="fill alt" style="width: {{share .Quantity $platforms}}%"></span><span>{{.Quantity}} ({{share .Quantity $platforms}}%)</span></div>
    {{- end}}
    <h4>Materiais por Programa</h4>
    {{- $programs := .Charts.Programs}}
    {{- range $programs}}
    <div class="bar"><span class="label">{{.Name}}</span><span class="fill{{if ne .Platform "AVACEAD"}} alt{{end}}" style="width: {{programPercent .Quantity $programs}}%"></span><span>{{.Quantity}}</span></div>
    {{- end}}
  </section>

  <footer class="muted">
    <p>Relatório gerado em {{date .GeneratedAt}} às {{clock .GeneratedAt}}</p>
    <p>{{if .Institution.Sector}}{{.Institution.Sector}}{{else}}Setor de Material Didático{{end}} - Sistema de Relatórios Automatizado</p>
  </footer>
</div>
</body>
</html>
`
