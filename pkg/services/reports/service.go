// Package reports orchestrates report creation, querying and export on top of
// the report store.
package reports

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/de-tools/material-atlas/pkg/models/domain"
	"github.com/de-tools/material-atlas/pkg/services/export"
	"github.com/de-tools/material-atlas/pkg/services/filter"
	"github.com/de-tools/material-atlas/pkg/services/importer"
	"github.com/de-tools/material-atlas/pkg/services/narrative"
	"github.com/de-tools/material-atlas/pkg/services/stats"
	reportstore "github.com/de-tools/material-atlas/pkg/store/reports"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Exporter renders one report to a document.
type Exporter interface {
	Export(ctx context.Context, report domain.Report) (export.Document, error)
}

type Service interface {
	SaveManual(ctx context.Context, entry domain.ManualEntry) (domain.Report, error)
	Import(ctx context.Context, r io.Reader) (domain.Report, error)
	Template(w io.Writer) error
	List(ctx context.Context, f domain.ReportFilter) []domain.Report
	Dashboard(ctx context.Context, f domain.ReportFilter) domain.Dashboard
	Get(ctx context.Context, id string) (domain.Report, error)
	Narrative(ctx context.Context, id string) (domain.Narrative, error)
	Charts(ctx context.Context, id string) (domain.ChartData, error)
	Export(ctx context.Context, id string) (export.Document, error)
}

type Option func(*service)

// WithClock replaces the wall clock used for creation times and period windows.
func WithClock(now func() time.Time) Option {
	return func(s *service) { s.now = now }
}

// WithIDGenerator replaces the random report id source.
func WithIDGenerator(newID func() string) Option {
	return func(s *service) { s.newID = newID }
}

// WithExporter enables document export.
func WithExporter(e Exporter) Option {
	return func(s *service) { s.exporter = e }
}

type service struct {
	store    reportstore.Store
	importer *importer.Importer
	exporter Exporter
	now      func() time.Time
	newID    func() string
}

func NewService(store reportstore.Store, imp *importer.Importer, opts ...Option) (Service, error) {
	if store == nil {
		return nil, fmt.Errorf("report store is nil")
	}
	if imp == nil {
		imp = importer.New(importer.Options{})
	}
	s := &service{
		store:    store,
		importer: imp,
		now:      time.Now,
		newID:    uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// SaveManual validates a data entry form and appends the resulting report.
// Materials without a program or with a non-positive quantity are dropped.
func (s *service) SaveManual(ctx context.Context, entry domain.ManualEntry) (domain.Report, error) {
	report, err := buildManual(entry)
	if err != nil {
		return domain.Report{}, err
	}
	return s.create(ctx, report, "manual")
}

func buildManual(entry domain.ManualEntry) (domain.Report, error) {
	var errs []domain.FieldError
	required := []struct{ field, value string }{
		{"period", entry.Period},
		{"startDate", entry.StartDate},
		{"endDate", entry.EndDate},
	}
	for _, r := range required {
		if strings.TrimSpace(r.value) == "" {
			errs = append(errs, domain.FieldError{Field: r.field, Message: "required field is missing"})
		}
	}
	if len(errs) > 0 {
		return domain.Report{}, domain.NewValidationErrors(errs)
	}

	startDate, err := domain.ParseDate(strings.TrimSpace(entry.StartDate))
	if err != nil {
		errs = append(errs, domain.FieldError{Field: "startDate", Message: "expected a YYYY-MM-DD date"})
	}
	endDate, err := domain.ParseDate(strings.TrimSpace(entry.EndDate))
	if err != nil {
		errs = append(errs, domain.FieldError{Field: "endDate", Message: "expected a YYYY-MM-DD date"})
	}
	counts := []struct {
		field string
		value int
	}{
		{"ebooks", entry.Ebooks},
		{"printedBooks", entry.PrintedBooks},
		{"visualIdentities", entry.VisualIdentities},
	}
	for _, c := range counts {
		if c.value < 0 {
			errs = append(errs, domain.FieldError{Field: c.field, Message: "must not be negative"})
		}
	}

	var materials []domain.DiagrammedMaterial
	for i, m := range entry.Materials {
		if strings.TrimSpace(m.Program) == "" || m.Quantity <= 0 {
			continue
		}
		if !m.Platform.Known() {
			errs = append(errs, domain.FieldError{
				Field:   fmt.Sprintf("diagrammedMaterials[%d].platform", i),
				Message: fmt.Sprintf("unknown platform %q", m.Platform),
			})
			continue
		}
		materials = append(materials, m)
	}

	if len(errs) > 0 {
		return domain.Report{}, domain.NewValidationErrors(errs)
	}

	return domain.Report{
		Period:              strings.TrimSpace(entry.Period),
		StartDate:           startDate,
		EndDate:             endDate,
		MaterialProduction:  domain.MaterialProduction{Ebooks: entry.Ebooks, PrintedBooks: entry.PrintedBooks},
		VisualIdentity:      domain.VisualIdentity{Created: entry.VisualIdentities},
		DiagrammedMaterials: importer.Group(materials),
	}, nil
}

// Import builds one report from a CSV document and appends it. Nothing is
// stored when the document is rejected.
func (s *service) Import(ctx context.Context, r io.Reader) (domain.Report, error) {
	report, err := s.importer.Import(ctx, r)
	if err != nil {
		zerolog.Ctx(ctx).Warn().Err(err).Msg("import rejected")
		return domain.Report{}, err
	}
	return s.create(ctx, report, "import")
}

func (s *service) create(ctx context.Context, report domain.Report, source string) (domain.Report, error) {
	report.ID = s.newID()
	report.CreatedAt = s.now().UTC()

	if err := s.store.Append(ctx, report); err != nil {
		return domain.Report{}, err
	}
	zerolog.Ctx(ctx).Info().
		Str("report_id", report.ID).
		Str("period", report.Period).
		Str("source", source).
		Int("materials", len(report.DiagrammedMaterials)).
		Msg("report created")
	return report, nil
}

func (s *service) Template(w io.Writer) error {
	return importer.WriteTemplate(w)
}

func (s *service) List(_ context.Context, f domain.ReportFilter) []domain.Report {
	return filter.Apply(s.store.All(), f, s.now())
}

func (s *service) Dashboard(ctx context.Context, f domain.ReportFilter) domain.Dashboard {
	filtered := s.List(ctx, f)

	d := domain.Dashboard{
		Stats:  stats.Calculate(filtered),
		Recent: stats.Recent(filtered, stats.RecentLimit),
	}
	// The latest report ignores the filter.
	if latest, ok := stats.MostRecent(s.store.All()); ok {
		d.MostRecent = &latest
	}
	return d
}

func (s *service) Get(_ context.Context, id string) (domain.Report, error) {
	return s.store.Get(id)
}

func (s *service) Narrative(ctx context.Context, id string) (domain.Narrative, error) {
	report, err := s.Get(ctx, id)
	if err != nil {
		return domain.Narrative{}, err
	}
	return narrative.Generate(report), nil
}

func (s *service) Charts(ctx context.Context, id string) (domain.ChartData, error) {
	report, err := s.Get(ctx, id)
	if err != nil {
		return domain.ChartData{}, err
	}
	return stats.Charts(report), nil
}

func (s *service) Export(ctx context.Context, id string) (export.Document, error) {
	report, err := s.Get(ctx, id)
	if err != nil {
		return export.Document{}, err
	}
	if s.exporter == nil {
		return export.Document{}, &domain.RenderError{Stage: "export", Err: fmt.Errorf("export is not configured")}
	}
	return s.exporter.Export(ctx, report)
}
