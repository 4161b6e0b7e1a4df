// Package capture rasterizes the rendered report page with a headless
// Chromium driven by go-rod.
package capture

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"time"

	"github.com/de-tools/material-atlas/pkg/models/domain"
	"github.com/de-tools/material-atlas/pkg/services/export"
	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
	"github.com/rs/zerolog"
)

const (
	DefaultScale   = 2.0
	DefaultTimeout = 60 * time.Second

	reportSelector = "#report"
	viewportWidth  = 794
	viewportHeight = 1123
)

type Options struct {
	// BrowserBin is the Chromium executable; empty lets the launcher find or
	// download one.
	BrowserBin  string
	Scale       float64
	Timeout     time.Duration
	Institution domain.Institution
	// Logo is a data URL printed in the report header.
	Logo template.URL
	Now  func() time.Time
}

// Browser launches a headless browser per capture.
type Browser struct {
	opts Options
}

func NewBrowser(opts Options) *Browser {
	if opts.Scale <= 0 {
		opts.Scale = DefaultScale
	}
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Browser{opts: opts}
}

// Capture renders the report page and screenshots its #report region.
func (b *Browser) Capture(ctx context.Context, report domain.Report) (export.Surface, error) {
	logger := zerolog.Ctx(ctx)

	var html bytes.Buffer
	view := NewView(report, b.opts.Institution, b.opts.Logo, b.opts.Now())
	if err := RenderHTML(&html, view); err != nil {
		return export.Surface{}, &domain.RenderError{Stage: "template", Err: err}
	}

	ctx, cancel := context.WithTimeout(ctx, b.opts.Timeout)
	defer cancel()

	l := launcher.New().Headless(true)
	if b.opts.BrowserBin != "" {
		l = l.Bin(b.opts.BrowserBin)
	}
	controlURL, err := l.Context(ctx).Launch()
	if err != nil {
		return export.Surface{}, &domain.RenderError{Stage: "launch", Err: err}
	}
	defer l.Kill()

	browser := rod.New().ControlURL(controlURL).Context(ctx)
	if err := browser.Connect(); err != nil {
		return export.Surface{}, &domain.RenderError{Stage: "connect", Err: err}
	}
	defer func() {
		if err := browser.Close(); err != nil {
			logger.Warn().Err(err).Msg("failed to close browser")
		}
	}()

	png, err := b.screenshot(browser, html.String())
	if err != nil {
		return export.Surface{}, err
	}
	logger.Debug().Str("report_id", report.ID).Int("bytes", len(png)).Msg("report captured")
	return export.NewSurface(png)
}

func (b *Browser) screenshot(browser *rod.Browser, html string) ([]byte, error) {
	page, err := browser.Page(proto.TargetCreateTarget{})
	if err != nil {
		return nil, &domain.RenderError{Stage: "page", Err: err}
	}

	if err := (proto.EmulationSetDeviceMetricsOverride{
		Width:             viewportWidth,
		Height:            viewportHeight,
		DeviceScaleFactor: b.opts.Scale,
		Mobile:            false,
	}).Call(page); err != nil {
		return nil, &domain.RenderError{Stage: "viewport", Err: err}
	}

	if err := page.SetDocumentContent(html); err != nil {
		return nil, &domain.RenderError{Stage: "content", Err: err}
	}
	if err := page.WaitLoad(); err != nil {
		return nil, &domain.RenderError{Stage: "load", Err: err}
	}

	el, err := page.Element(reportSelector)
	if err != nil {
		return nil, &domain.RenderError{Stage: "element", Err: fmt.Errorf("%s: %w", reportSelector, err)}
	}
	png, err := el.Screenshot(proto.PageCaptureScreenshotFormatPng, 100)
	if err != nil {
		return nil, &domain.RenderError{Stage: "screenshot", Err: err}
	}
	return png, nil
}
