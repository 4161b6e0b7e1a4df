package reports

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strings"

	"github.com/de-tools/material-atlas/pkg/adapters"
	"github.com/de-tools/material-atlas/pkg/models/api"
	"github.com/de-tools/material-atlas/pkg/models/domain"
	"github.com/de-tools/material-atlas/pkg/services/filter"
	"github.com/de-tools/material-atlas/pkg/services/importer"
	"github.com/de-tools/material-atlas/pkg/services/reports"
	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
)

const (
	maxUploadSize = 10 << 20
	importField   = "file"
)

type Handler struct {
	svc reports.Service
}

func NewHandler(svc reports.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) ListReports(w http.ResponseWriter, r *http.Request) {
	f, err := parseFilter(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, adapters.MapReportsDomainToApi(h.svc.List(r.Context(), f)))
}

func (h *Handler) GetStats(w http.ResponseWriter, r *http.Request) {
	f, err := parseFilter(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, adapters.MapDashboardDomainToApi(h.svc.Dashboard(r.Context(), f)))
}

func (h *Handler) CreateReport(w http.ResponseWriter, r *http.Request) {
	var body api.ManualReport
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxUploadSize)).Decode(&body); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	report, err := h.svc.SaveManual(r.Context(), adapters.MapManualReportApiToDomain(body))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusCreated, adapters.MapReportDomainToApi(report))
}

// ImportReport accepts either a raw CSV body or a multipart form with the
// document in the "file" field.
func (h *Handler) ImportReport(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize)

	var src io.Reader = r.Body
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType == "multipart/form-data" {
		file, _, err := r.FormFile(importField)
		if err != nil {
			http.Error(w, fmt.Sprintf("missing %q form file", importField), http.StatusBadRequest)
			return
		}
		defer file.Close()
		src = file
	}

	report, err := h.svc.Import(r.Context(), src)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusCreated, api.ImportResult{
		Report:  adapters.MapReportDomainToApi(report),
		Message: fmt.Sprintf("Dados do período %s importados com sucesso.", report.Period),
	})
}

func (h *Handler) DownloadTemplate(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", attachment(importer.TemplateFilename))
	if err := h.svc.Template(w); err != nil {
		zerolog.Ctx(r.Context()).Error().Err(err).Msg("failed to write template")
	}
}

func (h *Handler) GetReport(w http.ResponseWriter, r *http.Request) {
	report, err := h.svc.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, adapters.MapReportDomainToApi(report))
}

func (h *Handler) GetNarrative(w http.ResponseWriter, r *http.Request) {
	n, err := h.svc.Narrative(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, adapters.MapNarrativeDomainToApi(n))
}

func (h *Handler) GetCharts(w http.ResponseWriter, r *http.Request) {
	charts, err := h.svc.Charts(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, adapters.MapChartsDomainToApi(charts))
}

func (h *Handler) ExportReport(w http.ResponseWriter, r *http.Request) {
	doc, err := h.svc.Export(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", attachment(doc.Filename))
	if _, err := w.Write(doc.Content); err != nil {
		zerolog.Ctx(r.Context()).Error().Err(err).Msg("failed to write document")
	}
}

func parseFilter(r *http.Request) (domain.ReportFilter, error) {
	q := r.URL.Query()
	period, err := filter.ParsePeriod(q.Get("period"))
	if err != nil {
		return domain.ReportFilter{}, err
	}
	platform, err := filter.ParsePlatform(q.Get("platform"))
	if err != nil {
		return domain.ReportFilter{}, err
	}
	return domain.ReportFilter{Period: period, Platform: platform}, nil
}

func attachment(filename string) string {
	filename = strings.ReplaceAll(filename, "/", "-")
	return mime.FormatMediaType("attachment", map[string]string{"filename": filename})
}

func writeJSON(w http.ResponseWriter, r *http.Request, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		zerolog.Ctx(r.Context()).Error().Err(err).Msg("failed to encode response")
	}
}

// writeError maps domain errors onto status codes. Render failures are logged
// and answered with a generic message.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	logger := zerolog.Ctx(r.Context())

	var maxBytes *http.MaxBytesError
	switch {
	case errors.As(err, &maxBytes):
		http.Error(w, "request body too large", http.StatusRequestEntityTooLarge)
	case errors.Is(err, domain.ErrValidation), errors.Is(err, domain.ErrParse):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, domain.ErrNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, domain.ErrExportInProgress):
		http.Error(w, err.Error(), http.StatusConflict)
	case errors.Is(err, domain.ErrRender):
		logger.Error().Err(err).Msg("failed to render report")
		http.Error(w, "failed to generate document", http.StatusInternalServerError)
	default:
		logger.Error().Err(err).Msg("request failed")
		http.Error(w, "internal server error", http.StatusInternalServerError)
	}
}
