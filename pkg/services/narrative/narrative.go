// Package narrative writes the summary paragraphs printed in each report.
package narrative

import (
	"fmt"
	"strings"

	"github.com/de-tools/material-atlas/pkg/models/domain"
)

const (
	productionFormat = "No período de %s, foram produzidos %d materiais, sendo %d e-books e %d livros impressos."
	identityFormat   = "Foram criadas %d identidades visuais para cursos novos ou reformulados."
	diagrammedFormat = "Foram diagramados %d materiais distribuídos entre as plataformas %s, atendendo diversos programas institucionais."
)

// Generate renders the production, identity and diagrammed sentences of a
// report. Platforms are listed in first-seen order joined by " e ".
func Generate(r domain.Report) domain.Narrative {
	platforms := r.PlatformNames()
	names := make([]string, 0, len(platforms))
	for _, p := range platforms {
		names = append(names, string(p))
	}

	return domain.Narrative{
		Production: fmt.Sprintf(productionFormat,
			r.Period,
			r.MaterialProduction.Total(),
			r.MaterialProduction.Ebooks,
			r.MaterialProduction.PrintedBooks,
		),
		Identity:   fmt.Sprintf(identityFormat, r.VisualIdentity.Created),
		Diagrammed: fmt.Sprintf(diagrammedFormat, r.TotalDiagrammed(), strings.Join(names, " e ")),
	}
}
