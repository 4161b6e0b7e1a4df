// Package stats folds a set of reports into dashboard figures and chart series.
package stats

import (
	"github.com/de-tools/material-atlas/pkg/models/domain"
)

// RecentLimit is the number of reports listed on the dashboard.
const RecentLimit = 5

// programLabelRunes bounds program names on the chart axis.
const programLabelRunes = 15

// Calculate aggregates totals, averages and the most used platform. Averages
// are zero when there are no reports.
func Calculate(reports []domain.Report) domain.Stats {
	s := domain.Stats{TotalReports: len(reports)}

	var acc platformAccumulator
	for _, r := range reports {
		s.TotalEbooks += r.MaterialProduction.Ebooks
		s.TotalPrintedBooks += r.MaterialProduction.PrintedBooks
		s.TotalVisualIdentities += r.VisualIdentity.Created
		for _, m := range r.DiagrammedMaterials {
			s.TotalDiagrammedMaterials += m.Quantity
			acc.add(m.Platform, m.Quantity)
		}
	}

	if s.TotalReports > 0 {
		s.AverageEbooks = float64(s.TotalEbooks) / float64(s.TotalReports)
		s.AverageDiagrammed = float64(s.TotalDiagrammedMaterials) / float64(s.TotalReports)
	}
	s.PlatformTotals = acc.totals
	s.MostUsedPlatform = acc.max()
	return s
}

// MostRecent returns the report with the latest creation time. Equal
// timestamps keep the earlier report.
func MostRecent(reports []domain.Report) (domain.Report, bool) {
	if len(reports) == 0 {
		return domain.Report{}, false
	}
	latest := reports[0]
	for _, r := range reports[1:] {
		if r.CreatedAt.After(latest.CreatedAt) {
			latest = r
		}
	}
	return latest, true
}

// Recent returns at most n reports from the head of the set.
func Recent(reports []domain.Report, n int) []domain.Report {
	if n < 0 {
		n = 0
	}
	if len(reports) < n {
		n = len(reports)
	}
	out := make([]domain.Report, n)
	copy(out, reports[:n])
	return out
}

// Charts builds the production, platform share and per-program series of one
// report.
func Charts(r domain.Report) domain.ChartData {
	var acc platformAccumulator
	programs := make([]domain.ProgramBar, 0, len(r.DiagrammedMaterials))
	for _, m := range r.DiagrammedMaterials {
		acc.add(m.Platform, m.Quantity)
		programs = append(programs, domain.ProgramBar{
			Name:     truncate(m.Program, programLabelRunes),
			Quantity: m.Quantity,
			Platform: m.Platform,
		})
	}

	return domain.ChartData{
		Production: []domain.ChartPoint{
			{Name: "E-books", Value: r.MaterialProduction.Ebooks},
			{Name: "Livros Impressos", Value: r.MaterialProduction.PrintedBooks},
			{Name: "Identidades Visuais", Value: r.VisualIdentity.Created},
		},
		Platforms: acc.nonNil(),
		Programs:  programs,
	}
}

// platformAccumulator sums quantities per platform in first-seen order.
type platformAccumulator struct {
	totals []domain.PlatformTotal
	index  map[domain.Platform]int
}

func (a *platformAccumulator) add(p domain.Platform, quantity int) {
	if a.index == nil {
		a.index = make(map[domain.Platform]int)
	}
	if pos, ok := a.index[p]; ok {
		a.totals[pos].Quantity += quantity
		return
	}
	a.index[p] = len(a.totals)
	a.totals = append(a.totals, domain.PlatformTotal{Platform: p, Quantity: quantity})
}

// max returns the platform with the largest sum; the first one seen wins ties.
func (a *platformAccumulator) max() domain.Platform {
	var best domain.PlatformTotal
	found := false
	for _, t := range a.totals {
		if !found || t.Quantity > best.Quantity {
			best = t
			found = true
		}
	}
	return best.Platform
}

func (a *platformAccumulator) nonNil() []domain.PlatformTotal {
	if a.totals == nil {
		return []domain.PlatformTotal{}
	}
	return a.totals
}

func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n]) + "..."
}
