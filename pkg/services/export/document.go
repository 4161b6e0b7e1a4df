package export

import (
	"bytes"
	"errors"
	"fmt"
	"image/png"
	"io"

	"github.com/de-tools/material-atlas/pkg/models/domain"
	"github.com/go-pdf/fpdf"
)

const surfaceImage = "report"

// Surface is a captured raster of the rendered report.
type Surface struct {
	PNG    []byte
	Width  int
	Height int
}

// NewSurface reads the pixel size of a PNG capture.
func NewSurface(data []byte) (Surface, error) {
	if len(data) == 0 {
		return Surface{}, &domain.RenderError{Stage: "capture", Err: errors.New("empty capture")}
	}
	cfg, err := png.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return Surface{}, &domain.RenderError{Stage: "capture", Err: fmt.Errorf("failed to decode capture: %w", err)}
	}
	return Surface{PNG: data, Width: cfg.Width, Height: cfg.Height}, nil
}

// WriteDocument paginates the surface and writes it as a PDF, placing the same
// image on every page at the page offset.
func WriteDocument(w io.Writer, s Surface) (int, error) {
	pages, err := Paginate(float64(s.Width), float64(s.Height))
	if err != nil {
		return 0, err
	}

	pdf := fpdf.NewCustom(&fpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "mm",
		Size:           fpdf.SizeType{Wd: PageWidth, Ht: PageHeight},
	})
	pdf.SetMargins(0, 0, 0)
	pdf.SetAutoPageBreak(false, 0)

	opts := fpdf.ImageOptions{ImageType: "PNG"}
	pdf.RegisterImageOptionsReader(surfaceImage, opts, bytes.NewReader(s.PNG))

	for _, p := range pages {
		pdf.AddPage()
		pdf.ImageOptions(surfaceImage, p.X, p.Y, p.Width, p.Height, false, opts, 0, "")
	}

	if err := pdf.Output(w); err != nil {
		return 0, &domain.RenderError{Stage: "document", Err: err}
	}
	return len(pages), nil
}
