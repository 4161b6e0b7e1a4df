package adapters

import (
	"fmt"
	"time"

	"github.com/de-tools/material-atlas/pkg/models/api"
	"github.com/de-tools/material-atlas/pkg/models/domain"
	"github.com/de-tools/material-atlas/pkg/models/store"
)

const notAvailable = "N/A"

func MapDomainReportToStore(r domain.Report) store.Report {
	materials := make([]store.DiagrammedMaterial, 0, len(r.DiagrammedMaterials))
	for _, m := range r.DiagrammedMaterials {
		materials = append(materials, store.DiagrammedMaterial{
			Platform: string(m.Platform),
			Program:  m.Program,
			Quantity: m.Quantity,
		})
	}

	return store.Report{
		ID:        r.ID,
		Period:    r.Period,
		StartDate: r.StartDate.Format(domain.DateLayout),
		EndDate:   r.EndDate.Format(domain.DateLayout),
		MaterialProduction: store.MaterialProduction{
			Ebooks:       r.MaterialProduction.Ebooks,
			PrintedBooks: r.MaterialProduction.PrintedBooks,
		},
		VisualIdentity:      store.VisualIdentity{Created: r.VisualIdentity.Created},
		DiagrammedMaterials: materials,
		CreatedAt:           r.CreatedAt.UTC().Format(time.RFC3339Nano),
	}
}

func MapStoreReportToDomain(r store.Report) (domain.Report, error) {
	startDate, err := parseStoredDate(r.StartDate)
	if err != nil {
		return domain.Report{}, fmt.Errorf("report %s: startDate: %w", r.ID, err)
	}
	endDate, err := parseStoredDate(r.EndDate)
	if err != nil {
		return domain.Report{}, fmt.Errorf("report %s: endDate: %w", r.ID, err)
	}
	createdAt, err := time.Parse(time.RFC3339Nano, r.CreatedAt)
	if err != nil {
		return domain.Report{}, fmt.Errorf("report %s: createdAt: %w", r.ID, err)
	}

	materials := make([]domain.DiagrammedMaterial, 0, len(r.DiagrammedMaterials))
	for _, m := range r.DiagrammedMaterials {
		materials = append(materials, domain.DiagrammedMaterial{
			Platform: domain.Platform(m.Platform),
			Program:  m.Program,
			Quantity: m.Quantity,
		})
	}

	return domain.Report{
		ID:        r.ID,
		Period:    r.Period,
		StartDate: startDate,
		EndDate:   endDate,
		MaterialProduction: domain.MaterialProduction{
			Ebooks:       r.MaterialProduction.Ebooks,
			PrintedBooks: r.MaterialProduction.PrintedBooks,
		},
		VisualIdentity:      domain.VisualIdentity{Created: r.VisualIdentity.Created},
		DiagrammedMaterials: materials,
		CreatedAt:           createdAt,
	}, nil
}

// parseStoredDate accepts plain dates and full timestamps, since older
// collections stored whatever the date input produced.
func parseStoredDate(value string) (time.Time, error) {
	if t, err := domain.ParseDate(value); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}, err
	}
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC), nil
}

func MapReportDomainToApi(r domain.Report) api.Report {
	materials := make([]api.DiagrammedMaterial, 0, len(r.DiagrammedMaterials))
	for _, m := range r.DiagrammedMaterials {
		materials = append(materials, api.DiagrammedMaterial{
			Platform: string(m.Platform),
			Program:  m.Program,
			Quantity: m.Quantity,
		})
	}

	return api.Report{
		ID:        r.ID,
		Period:    r.Period,
		StartDate: r.StartDate.Format(domain.DateLayout),
		EndDate:   r.EndDate.Format(domain.DateLayout),
		MaterialProduction: api.MaterialProduction{
			Ebooks:       r.MaterialProduction.Ebooks,
			PrintedBooks: r.MaterialProduction.PrintedBooks,
		},
		VisualIdentity:      api.VisualIdentity{Created: r.VisualIdentity.Created},
		DiagrammedMaterials: materials,
		TotalDiagrammed:     r.TotalDiagrammed(),
		CreatedAt:           r.CreatedAt,
	}
}

func MapReportsDomainToApi(reports []domain.Report) []api.Report {
	response := make([]api.Report, 0, len(reports))
	for _, r := range reports {
		response = append(response, MapReportDomainToApi(r))
	}
	return response
}

func MapNarrativeDomainToApi(n domain.Narrative) api.Narrative {
	return api.Narrative{
		Production: n.Production,
		Identity:   n.Identity,
		Diagrammed: n.Diagrammed,
	}
}

func MapStatsDomainToApi(s domain.Stats) api.Stats {
	mostUsed := string(s.MostUsedPlatform)
	if mostUsed == "" {
		mostUsed = notAvailable
	}

	return api.Stats{
		TotalReports:             s.TotalReports,
		TotalEbooks:              s.TotalEbooks,
		TotalPrintedBooks:        s.TotalPrintedBooks,
		TotalVisualIdentities:    s.TotalVisualIdentities,
		TotalDiagrammedMaterials: s.TotalDiagrammedMaterials,
		AverageEbooks:            s.AverageEbooks,
		AverageDiagrammed:        s.AverageDiagrammed,
		MostUsedPlatform:         mostUsed,
		PlatformTotals:           mapPlatformTotals(s.PlatformTotals),
	}
}

func MapChartsDomainToApi(c domain.ChartData) api.Charts {
	production := make([]api.ChartPoint, 0, len(c.Production))
	for _, p := range c.Production {
		production = append(production, api.ChartPoint{Name: p.Name, Value: p.Value})
	}
	programs := make([]api.ProgramBar, 0, len(c.Programs))
	for _, p := range c.Programs {
		programs = append(programs, api.ProgramBar{
			Name:     p.Name,
			Quantity: p.Quantity,
			Platform: string(p.Platform),
		})
	}

	return api.Charts{
		Production: production,
		Platforms:  mapPlatformTotals(c.Platforms),
		Programs:   programs,
	}
}

func mapPlatformTotals(totals []domain.PlatformTotal) []api.PlatformTotal {
	response := make([]api.PlatformTotal, 0, len(totals))
	for _, t := range totals {
		response = append(response, api.PlatformTotal{Platform: string(t.Platform), Quantity: t.Quantity})
	}
	return response
}

// MapManualReportApiToDomain converts the request body of a manual entry.
func MapManualReportApiToDomain(body api.ManualReport) domain.ManualEntry {
	materials := make([]domain.DiagrammedMaterial, 0, len(body.DiagrammedMaterials))
	for _, m := range body.DiagrammedMaterials {
		materials = append(materials, domain.DiagrammedMaterial{
			Platform: domain.Platform(m.Platform),
			Program:  m.Program,
			Quantity: m.Quantity,
		})
	}

	return domain.ManualEntry{
		Period:           body.Period,
		StartDate:        body.StartDate,
		EndDate:          body.EndDate,
		Ebooks:           body.Ebooks,
		PrintedBooks:     body.PrintedBooks,
		VisualIdentities: body.VisualIdentities,
		Materials:        materials,
	}
}

func MapDashboardDomainToApi(d domain.Dashboard) api.Dashboard {
	out := api.Dashboard{
		Stats:  MapStatsDomainToApi(d.Stats),
		Recent: MapReportsDomainToApi(d.Recent),
	}
	if d.MostRecent != nil {
		recent := MapReportDomainToApi(*d.MostRecent)
		out.MostRecent = &recent
	}
	return out
}
