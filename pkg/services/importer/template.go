package importer

import (
	"encoding/csv"
	"fmt"
	"io"
)

// TemplateFilename is the suggested name of the downloadable template.
const TemplateFilename = "template-relatorio.csv"

var templateRows = [][]string{
	{"Janeiro/2025", "2025-01-01", "2025-01-31", "5", "3", "2", "AVACEAD", "UAB", "10"},
	{"Janeiro/2025", "2025-01-01", "2025-01-31", "5", "3", "2", "AVAMEC", "Formação Continuada", "8"},
}

// WriteTemplate writes the import header followed by two example rows.
func WriteTemplate(w io.Writer) error {
	header := make([]string, 0, len(Columns))
	for _, c := range Columns {
		header = append(header, c.Header)
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("failed to write template header: %w", err)
	}
	if err := cw.WriteAll(templateRows); err != nil {
		return fmt.Errorf("failed to write template rows: %w", err)
	}
	return nil
}
