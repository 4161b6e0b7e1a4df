package importer

import (
	"encoding/csv"
	"errors"
	"io"
	"strings"

	"github.com/de-tools/material-atlas/pkg/models/domain"
)

// Normalized field names of an import row.
const (
	FieldPeriod            = "period"
	FieldStartDate         = "startDate"
	FieldEndDate           = "endDate"
	FieldEbooks            = "ebooks"
	FieldPrintedBooks      = "printedBooks"
	FieldIdentitiesCreated = "identitiesCreated"
	FieldPlatform          = "platform"
	FieldProgram           = "program"
	FieldQuantity          = "quantity"
)

// Column is one column of the tabular import format.
type Column struct {
	Header string
	Field  string
}

// Columns lists the import format in template order.
var Columns = []Column{
	{Header: "periodo", Field: FieldPeriod},
	{Header: "dataInicio", Field: FieldStartDate},
	{Header: "dataFim", Field: FieldEndDate},
	{Header: "ebooks", Field: FieldEbooks},
	{Header: "livrosImpressos", Field: FieldPrintedBooks},
	{Header: "identidadesVisuais", Field: FieldIdentitiesCreated},
	{Header: "plataforma", Field: FieldPlatform},
	{Header: "programa", Field: FieldProgram},
	{Header: "quantidade", Field: FieldQuantity},
}

// Row maps normalized field names to raw cell text.
type Row map[string]string

func headerFor(field string) string {
	for _, c := range Columns {
		if c.Field == field {
			return c.Header
		}
	}
	return field
}

const utf8BOM = "\ufeff"

// ReadRows reads a CSV document with a header row. Columns are matched by
// header name, so their order does not matter and unknown columns are ignored.
// Rows whose cells are all blank are skipped.
func ReadRows(r io.Reader) ([]Row, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, nil
	}
	if err != nil {
		return nil, &domain.ParseError{Err: err}
	}

	fields := make([]string, len(header))
	for i, name := range header {
		name = strings.TrimSpace(strings.TrimPrefix(name, utf8BOM))
		for _, c := range Columns {
			if strings.EqualFold(c.Header, name) {
				fields[i] = c.Field
				break
			}
		}
	}

	var rows []Row
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, &domain.ParseError{Err: err}
		}

		row := make(Row, len(Columns))
		blank := true
		for i, cell := range record {
			if i >= len(fields) || fields[i] == "" {
				continue
			}
			cell = strings.TrimSpace(cell)
			if cell != "" {
				blank = false
			}
			row[fields[i]] = cell
		}
		if !blank {
			rows = append(rows, row)
		}
	}
	return rows, nil
}
