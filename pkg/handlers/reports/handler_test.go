package reports

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/de-tools/material-atlas/pkg/models/api"
	"github.com/de-tools/material-atlas/pkg/models/domain"
	"github.com/de-tools/material-atlas/pkg/services/export"
	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockService struct {
	mock.Mock
}

func (m *mockService) SaveManual(ctx context.Context, entry domain.ManualEntry) (domain.Report, error) {
	args := m.Called(ctx, entry)
	return args.Get(0).(domain.Report), args.Error(1)
}

func (m *mockService) Import(ctx context.Context, r io.Reader) (domain.Report, error) {
	body, _ := io.ReadAll(r)
	args := m.Called(ctx, string(body))
	return args.Get(0).(domain.Report), args.Error(1)
}

func (m *mockService) Template(w io.Writer) error {
	_, err := io.WriteString(w, "periodo,dataInicio\n")
	return err
}

func (m *mockService) List(ctx context.Context, f domain.ReportFilter) []domain.Report {
	args := m.Called(ctx, f)
	return args.Get(0).([]domain.Report)
}

func (m *mockService) Dashboard(ctx context.Context, f domain.ReportFilter) domain.Dashboard {
	args := m.Called(ctx, f)
	return args.Get(0).(domain.Dashboard)
}

func (m *mockService) Get(ctx context.Context, id string) (domain.Report, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(domain.Report), args.Error(1)
}

func (m *mockService) Narrative(ctx context.Context, id string) (domain.Narrative, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(domain.Narrative), args.Error(1)
}

func (m *mockService) Charts(ctx context.Context, id string) (domain.ChartData, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(domain.ChartData), args.Error(1)
}

func (m *mockService) Export(ctx context.Context, id string) (export.Document, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(export.Document), args.Error(1)
}

var sample = domain.Report{
	ID:                  "r1",
	Period:              "Janeiro/2025",
	StartDate:           time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC),
	EndDate:             time.Date(2025, time.January, 31, 0, 0, 0, 0, time.UTC),
	MaterialProduction:  domain.MaterialProduction{Ebooks: 5, PrintedBooks: 3},
	VisualIdentity:      domain.VisualIdentity{Created: 2},
	DiagrammedMaterials: []domain.DiagrammedMaterial{{Platform: domain.PlatformAVACEAD, Program: "UAB", Quantity: 15}},
	CreatedAt:           time.Date(2025, time.February, 1, 10, 0, 0, 0, time.UTC),
}

func setupRouter(t *testing.T, svc *mockService) *chi.Mux {
	h := NewHandler(svc)
	logger := zerolog.New(zerolog.NewTestWriter(t))

	router := chi.NewRouter()
	router.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			next.ServeHTTP(w, r.WithContext(logger.WithContext(r.Context())))
		})
	})
	router.Get("/reports", h.ListReports)
	router.Post("/reports", h.CreateReport)
	router.Post("/reports/import", h.ImportReport)
	router.Get("/reports/template", h.DownloadTemplate)
	router.Get("/reports/{id}", h.GetReport)
	router.Get("/reports/{id}/narrative", h.GetNarrative)
	router.Get("/reports/{id}/charts", h.GetCharts)
	router.Get("/reports/{id}/export", h.ExportReport)
	router.Get("/stats", h.GetStats)
	return router
}

func TestListReports(t *testing.T) {
	tests := []struct {
		name           string
		query          string
		setupMock      func(*mockService)
		expectedStatus int
		expectedIDs    []string
	}{
		{
			name:  "no filter",
			query: "",
			setupMock: func(m *mockService) {
				m.On("List", mock.Anything, domain.NoFilter).Return([]domain.Report{sample}, nil)
			},
			expectedStatus: http.StatusOK,
			expectedIDs:    []string{"r1"},
		},
		{
			name:  "period and platform",
			query: "?period=last3&platform=avamec",
			setupMock: func(m *mockService) {
				m.On("List", mock.Anything, domain.ReportFilter{Period: domain.PeriodLast3, Platform: domain.PlatformAVAMEC}).
					Return([]domain.Report{}, nil)
			},
			expectedStatus: http.StatusOK,
			expectedIDs:    []string{},
		},
		{
			name:           "unknown period",
			query:          "?period=last12",
			setupMock:      func(m *mockService) {},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "unknown platform",
			query:          "?platform=moodle",
			setupMock:      func(m *mockService) {},
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			svc := new(mockService)
			tc.setupMock(svc)

			req := httptest.NewRequest(http.MethodGet, "/reports"+tc.query, nil)
			w := httptest.NewRecorder()
			setupRouter(t, svc).ServeHTTP(w, req)

			assert.Equal(t, tc.expectedStatus, w.Code)
			if tc.expectedIDs != nil {
				var response []api.Report
				require.NoError(t, json.NewDecoder(w.Body).Decode(&response))
				ids := []string{}
				for _, r := range response {
					ids = append(ids, r.ID)
				}
				assert.Equal(t, tc.expectedIDs, ids)
			}
			svc.AssertExpectations(t)
		})
	}
}

func TestGetReport(t *testing.T) {
	svc := new(mockService)
	svc.On("Get", mock.Anything, "r1").Return(sample, nil)
	svc.On("Get", mock.Anything, "missing").Return(domain.Report{}, fmt.Errorf("report missing: %w", domain.ErrNotFound))
	router := setupRouter(t, svc)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/reports/r1", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var response api.Report
	require.NoError(t, json.NewDecoder(w.Body).Decode(&response))
	assert.Equal(t, "2025-01-01", response.StartDate)
	assert.Equal(t, 15, response.TotalDiagrammed)

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/reports/missing", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCreateReport(t *testing.T) {
	body := `{"period":"Janeiro/2025","startDate":"2025-01-01","endDate":"2025-01-31","ebooks":5,
		"diagrammedMaterials":[{"platform":"AVACEAD","program":"UAB","quantity":15}]}`

	svc := new(mockService)
	svc.On("SaveManual", mock.Anything, domain.ManualEntry{
		Period:    "Janeiro/2025",
		StartDate: "2025-01-01",
		EndDate:   "2025-01-31",
		Ebooks:    5,
		Materials: []domain.DiagrammedMaterial{{Platform: domain.PlatformAVACEAD, Program: "UAB", Quantity: 15}},
	}).Return(sample, nil)

	w := httptest.NewRecorder()
	setupRouter(t, svc).ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/reports", strings.NewReader(body)))

	assert.Equal(t, http.StatusCreated, w.Code)
	svc.AssertExpectations(t)
}

func TestCreateReport_Errors(t *testing.T) {
	svc := new(mockService)
	svc.On("SaveManual", mock.Anything, mock.Anything).
		Return(domain.Report{}, domain.NewValidationError("period", "required field is missing"))
	router := setupRouter(t, svc)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/reports", strings.NewReader("{")))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "invalid request body\n", w.Body.String())

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/reports", strings.NewReader("{}")))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "validation: period: required field is missing\n", w.Body.String())
}

func TestImportReport(t *testing.T) {
	const csv = "periodo,dataInicio\nJaneiro/2025,2025-01-01\n"

	t.Run("raw body", func(t *testing.T) {
		svc := new(mockService)
		svc.On("Import", mock.Anything, csv).Return(sample, nil)

		req := httptest.NewRequest(http.MethodPost, "/reports/import", strings.NewReader(csv))
		req.Header.Set("Content-Type", "text/csv")
		w := httptest.NewRecorder()
		setupRouter(t, svc).ServeHTTP(w, req)

		require.Equal(t, http.StatusCreated, w.Code)
		var response api.ImportResult
		require.NoError(t, json.NewDecoder(w.Body).Decode(&response))
		assert.Equal(t, "r1", response.Report.ID)
		assert.Equal(t, "Dados do período Janeiro/2025 importados com sucesso.", response.Message)
	})

	t.Run("multipart", func(t *testing.T) {
		svc := new(mockService)
		svc.On("Import", mock.Anything, csv).Return(sample, nil)

		var body bytes.Buffer
		mw := multipart.NewWriter(&body)
		part, err := mw.CreateFormFile("file", "relatorio.csv")
		require.NoError(t, err)
		_, err = part.Write([]byte(csv))
		require.NoError(t, err)
		require.NoError(t, mw.Close())

		req := httptest.NewRequest(http.MethodPost, "/reports/import", &body)
		req.Header.Set("Content-Type", mw.FormDataContentType())
		w := httptest.NewRecorder()
		setupRouter(t, svc).ServeHTTP(w, req)

		assert.Equal(t, http.StatusCreated, w.Code)
		svc.AssertExpectations(t)
	})

	t.Run("parse error", func(t *testing.T) {
		svc := new(mockService)
		svc.On("Import", mock.Anything, mock.Anything).
			Return(domain.Report{}, &domain.ParseError{Err: errors.New("bare quote")})

		w := httptest.NewRecorder()
		setupRouter(t, svc).ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/reports/import", strings.NewReader("\"")))
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("body too large", func(t *testing.T) {
		svc := new(mockService)
		svc.On("Import", mock.Anything, mock.Anything).
			Return(domain.Report{}, &domain.ParseError{Err: &http.MaxBytesError{Limit: maxUploadSize}})

		w := httptest.NewRecorder()
		setupRouter(t, svc).ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/reports/import", strings.NewReader(csv)))
		assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
	})
}

func TestDownloadTemplate(t *testing.T) {
	w := httptest.NewRecorder()
	setupRouter(t, new(mockService)).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/reports/template", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "text/csv; charset=utf-8", w.Header().Get("Content-Type"))
	assert.Equal(t, "attachment; filename=template-relatorio.csv", w.Header().Get("Content-Disposition"))
	assert.Equal(t, "periodo,dataInicio\n", w.Body.String())
}

func TestNarrativeAndCharts(t *testing.T) {
	svc := new(mockService)
	svc.On("Narrative", mock.Anything, "r1").Return(domain.Narrative{Production: "p", Identity: "i", Diagrammed: "d"}, nil)
	svc.On("Charts", mock.Anything, "r1").Return(domain.ChartData{
		Production: []domain.ChartPoint{{Name: "E-books", Value: 5}},
		Platforms:  []domain.PlatformTotal{{Platform: domain.PlatformAVACEAD, Quantity: 15}},
		Programs:   []domain.ProgramBar{{Name: "UAB", Quantity: 15, Platform: domain.PlatformAVACEAD}},
	}, nil)
	router := setupRouter(t, svc)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/reports/r1/narrative", nil))
	require.Equal(t, http.StatusOK, w.Code)
	var narrative api.Narrative
	require.NoError(t, json.NewDecoder(w.Body).Decode(&narrative))
	assert.Equal(t, api.Narrative{Production: "p", Identity: "i", Diagrammed: "d"}, narrative)

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/reports/r1/charts", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"quantidade":15`)
	assert.Contains(t, w.Body.String(), `"plataforma":"AVACEAD"`)
}

func TestExportReport(t *testing.T) {
	tests := []struct {
		name           string
		doc            export.Document
		err            error
		expectedStatus int
		expectedBody   string
	}{
		{
			name:           "pdf",
			doc:            export.Document{Filename: "relatorio-material-didatico-Janeiro/2025.pdf", Pages: 1, Content: []byte("%PDF-1.3")},
			expectedStatus: http.StatusOK,
			expectedBody:   "%PDF-1.3",
		},
		{
			name:           "in progress",
			err:            domain.ErrExportInProgress,
			expectedStatus: http.StatusConflict,
			expectedBody:   "export already in progress\n",
		},
		{
			name:           "render failure hides details",
			err:            &domain.RenderError{Stage: "launch", Err: errors.New("chromium not found at /usr/bin")},
			expectedStatus: http.StatusInternalServerError,
			expectedBody:   "failed to generate document\n",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			svc := new(mockService)
			svc.On("Export", mock.Anything, "r1").Return(tc.doc, tc.err)

			w := httptest.NewRecorder()
			setupRouter(t, svc).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/reports/r1/export", nil))

			assert.Equal(t, tc.expectedStatus, w.Code)
			assert.Equal(t, tc.expectedBody, w.Body.String())
			if tc.err == nil {
				assert.Equal(t, "application/pdf", w.Header().Get("Content-Type"))
				assert.Equal(t, `attachment; filename=relatorio-material-didatico-Janeiro-2025.pdf`, w.Header().Get("Content-Disposition"))
			}
		})
	}
}

func TestGetStats(t *testing.T) {
	svc := new(mockService)
	svc.On("Dashboard", mock.Anything, domain.ReportFilter{Period: domain.PeriodCurrent, Platform: domain.PlatformAll}).
		Return(domain.Dashboard{Stats: domain.Stats{}, Recent: []domain.Report{}})

	w := httptest.NewRecorder()
	setupRouter(t, svc).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/stats?period=current", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var response api.Dashboard
	require.NoError(t, json.NewDecoder(w.Body).Decode(&response))
	assert.Equal(t, "N/A", response.Stats.MostUsedPlatform)
	assert.Nil(t, response.MostRecent)
	assert.Empty(t, response.Recent)
}
