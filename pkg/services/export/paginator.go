package export

import (
	"fmt"

	"github.com/de-tools/material-atlas/pkg/models/domain"
)

// Page size of the exported document, in millimetres.
const (
	PageWidth  = 210.0
	PageHeight = 295.0
)

// Page places the captured surface on one document page. Y is the vertical
// offset of the image top edge relative to the page; it is zero on the first
// page and negative afterwards.
type Page struct {
	Index  int
	X      float64
	Y      float64
	Width  float64
	Height float64
}

// Paginate splits a surface of width x height pixels, scaled to the page width,
// into consecutive pages. A page is added while the remaining height is not
// negative, so an exact multiple of the page height yields one trailing page.
func Paginate(width, height float64) ([]Page, error) {
	if width <= 0 || height <= 0 {
		return nil, &domain.RenderError{Stage: "paginate", Err: fmt.Errorf("invalid surface size %gx%g", width, height)}
	}

	scaled := height * PageWidth / width
	pages := []Page{{Index: 0, Width: PageWidth, Height: scaled}}

	remaining := scaled - PageHeight
	for remaining >= 0 {
		pages = append(pages, Page{
			Index:  len(pages),
			Y:      -(scaled - remaining),
			Width:  PageWidth,
			Height: scaled,
		})
		remaining -= PageHeight
	}
	return pages, nil
}

// Filename is the download name of a report export.
func Filename(period string) string {
	return fmt.Sprintf("relatorio-material-didatico-%s.pdf", period)
}
