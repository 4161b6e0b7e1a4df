// Package importer turns tabular rows into a single normalized report.
package importer

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/de-tools/material-atlas/pkg/models/domain"
	"github.com/rs/zerolog"
)

// Options controls numeric coercion.
type Options struct {
	// Strict rejects numeric cells that are not non-negative integers instead
	// of reading them as zero.
	Strict bool
}

type Importer struct {
	strict bool
}

func New(opts Options) *Importer {
	return &Importer{strict: opts.Strict}
}

// Import reads a CSV document and builds the report it describes. The
// returned report has no ID or creation time yet.
func (i *Importer) Import(ctx context.Context, r io.Reader) (domain.Report, error) {
	rows, err := ReadRows(r)
	if err != nil {
		return domain.Report{}, err
	}
	zerolog.Ctx(ctx).Debug().Int("rows", len(rows)).Bool("strict", i.strict).Msg("parsed import rows")
	return i.Build(rows)
}

// Build normalizes rows into one report. Only the first row provides the
// period, dates, production and identity figures; every row may contribute a
// diagrammed material, and materials sharing a platform and program are merged.
func (i *Importer) Build(rows []Row) (domain.Report, error) {
	if len(rows) == 0 {
		return domain.Report{}, domain.NewValidationError("rows", "the import file has no data rows")
	}

	first := rows[0]
	var missing []domain.FieldError
	for _, field := range []string{FieldPeriod, FieldStartDate, FieldEndDate} {
		if strings.TrimSpace(first[field]) == "" {
			missing = append(missing, domain.FieldError{Field: headerFor(field), Message: "required field is missing"})
		}
	}
	if len(missing) > 0 {
		return domain.Report{}, domain.NewValidationErrors(missing)
	}

	var errs []domain.FieldError
	startDate, err := domain.ParseDate(first[FieldStartDate])
	if err != nil {
		errs = append(errs, domain.FieldError{Field: headerFor(FieldStartDate), Message: "expected a YYYY-MM-DD date"})
	}
	endDate, err := domain.ParseDate(first[FieldEndDate])
	if err != nil {
		errs = append(errs, domain.FieldError{Field: headerFor(FieldEndDate), Message: "expected a YYYY-MM-DD date"})
	}

	report := domain.Report{
		Period:    first[FieldPeriod],
		StartDate: startDate,
		EndDate:   endDate,
		MaterialProduction: domain.MaterialProduction{
			Ebooks:       i.number(first, 1, FieldEbooks, &errs),
			PrintedBooks: i.number(first, 1, FieldPrintedBooks, &errs),
		},
		VisualIdentity: domain.VisualIdentity{
			Created: i.number(first, 1, FieldIdentitiesCreated, &errs),
		},
	}

	var materials []domain.DiagrammedMaterial
	for idx, row := range rows {
		if row[FieldPlatform] == "" || row[FieldProgram] == "" || row[FieldQuantity] == "" {
			continue
		}
		materials = append(materials, domain.DiagrammedMaterial{
			Platform: domain.Platform(row[FieldPlatform]),
			Program:  row[FieldProgram],
			Quantity: i.number(row, idx+1, FieldQuantity, &errs),
		})
	}

	if len(errs) > 0 {
		return domain.Report{}, domain.NewValidationErrors(errs)
	}

	report.DiagrammedMaterials = Group(materials)
	return report, nil
}

// number coerces a numeric cell. Lenient mode reads blank, malformed and
// negative values as zero; strict mode records them as field errors. Blank
// cells are zero in both modes.
func (i *Importer) number(row Row, rowNo int, field string, errs *[]domain.FieldError) int {
	raw := strings.TrimSpace(row[field])
	if raw == "" {
		return 0
	}

	n, err := strconv.Atoi(raw)
	if err == nil && n >= 0 {
		return n
	}
	if i.strict {
		*errs = append(*errs, domain.FieldError{
			Field:   fmt.Sprintf("row %d: %s", rowNo, headerFor(field)),
			Message: fmt.Sprintf("%q is not a non-negative integer", raw),
		})
	}
	return 0
}

// Group merges materials sharing the same platform and program by summing
// their quantities. The first occurrence of a key fixes its position.
func Group(materials []domain.DiagrammedMaterial) []domain.DiagrammedMaterial {
	grouped := make([]domain.DiagrammedMaterial, 0, len(materials))
	index := make(map[string]int, len(materials))

	for _, m := range materials {
		if pos, ok := index[m.Key()]; ok {
			grouped[pos].Quantity += m.Quantity
			continue
		}
		index[m.Key()] = len(grouped)
		grouped = append(grouped, m)
	}
	return grouped
}
