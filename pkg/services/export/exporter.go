// Package export turns a rendered report into a paginated PDF document.
package export

import (
	"bytes"
	"context"
	"errors"
	"sync"

	"github.com/de-tools/material-atlas/pkg/models/domain"
	"github.com/rs/zerolog"
)

// Capturer renders a report and rasterizes it.
type Capturer interface {
	Capture(ctx context.Context, report domain.Report) (Surface, error)
}

// Document is a finished export.
type Document struct {
	Filename string
	Pages    int
	Content  []byte
}

// Exporter captures and paginates reports, allowing one export per report at
// a time.
type Exporter struct {
	capturer Capturer

	mu       sync.Mutex
	inFlight map[string]struct{}
}

func NewExporter(capturer Capturer) *Exporter {
	return &Exporter{
		capturer: capturer,
		inFlight: make(map[string]struct{}),
	}
}

// Export renders the report to PDF. A second call for the same report while
// the first is running fails with domain.ErrExportInProgress.
func (e *Exporter) Export(ctx context.Context, report domain.Report) (Document, error) {
	if !e.acquire(report.ID) {
		return Document{}, domain.ErrExportInProgress
	}
	defer e.release(report.ID)

	logger := zerolog.Ctx(ctx).With().Str("report_id", report.ID).Logger()

	surface, err := e.capturer.Capture(ctx, report)
	if err != nil {
		if !errors.Is(err, domain.ErrRender) {
			err = &domain.RenderError{Stage: "capture", Err: err}
		}
		logger.Error().Err(err).Msg("failed to capture report")
		return Document{}, err
	}

	var buf bytes.Buffer
	pages, err := WriteDocument(&buf, surface)
	if err != nil {
		logger.Error().Err(err).Msg("failed to assemble document")
		return Document{}, err
	}

	logger.Info().Int("pages", pages).Int("bytes", buf.Len()).Msg("report exported")
	return Document{
		Filename: Filename(report.Period),
		Pages:    pages,
		Content:  buf.Bytes(),
	}, nil
}

func (e *Exporter) acquire(id string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	if _, busy := e.inFlight[id]; busy {
		return false
	}
	e.inFlight[id] = struct{}{}
	return true
}

func (e *Exporter) release(id string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	delete(e.inFlight, id)
}
