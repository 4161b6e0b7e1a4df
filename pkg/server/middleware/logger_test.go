package middleware

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func logLines(t *testing.T, buf *bytes.Buffer) []map[string]any {
	t.Helper()
	var lines []map[string]any
	for _, raw := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		var line map[string]any
		require.NoError(t, json.Unmarshal([]byte(raw), &line))
		lines = append(lines, line)
	}
	return lines
}

func TestLogger(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
		status  float64
		level   string
	}{
		{
			name: "success",
			handler: func(w http.ResponseWriter, r *http.Request) {
				zerolog.Ctx(r.Context()).Debug().Msg("handling")
				_, _ = w.Write([]byte("ok"))
			},
			status: http.StatusOK,
			level:  "info",
		},
		{
			name: "server error",
			handler: func(w http.ResponseWriter, r *http.Request) {
				http.Error(w, "boom", http.StatusInternalServerError)
			},
			status: http.StatusInternalServerError,
			level:  "error",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var buf bytes.Buffer
			logger := zerolog.New(&buf)

			router := chi.NewRouter()
			router.Use(middleware.RequestID)
			router.Use(Logger(&logger))
			router.Get("/api/v1/reports", tc.handler)

			w := httptest.NewRecorder()
			router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/reports", nil))

			lines := logLines(t, &buf)
			last := lines[len(lines)-1]
			assert.Equal(t, "request completed", last["message"])
			assert.Equal(t, tc.level, last["level"])
			assert.Equal(t, tc.status, last["status"])
			assert.Equal(t, float64(w.Body.Len()), last["bytes"])
			assert.Equal(t, http.MethodGet, last["method"])
			assert.Equal(t, "/api/v1/reports", last["path"])
			assert.NotEmpty(t, last["request_id"])
			assert.Contains(t, last, "latency")

			for _, line := range lines {
				assert.Equal(t, last["request_id"], line["request_id"])
			}
		})
	}
}
