package errors

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bbbcli/internal/shared/testutil"
)

func TestNewErrorMiddleware(t *testing.T) {
	logger, _ := testutil.NewTestLogger(t)
	errorHandler := NewErrorHandler(logger, false)

	m := NewErrorMiddleware(errorHandler, logger)

	assert.NotNil(t, m)
	assert.Equal(t, errorHandler, m.handler)
	assert.NotNil(t, m.logger)
}

func TestErrorMiddleware_Handler(t *testing.T) {
	tests := []struct {
		name         string
		handler      http.HandlerFunc
		target       string
		wantStatus   int
		wantLogLevel slog.Level
	}{
		{
			name: "successful request",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte("ok"))
			},
			target:       "/api/v1/summary",
			wantStatus:   http.StatusOK,
			wantLogLevel: slog.LevelInfo,
		},
		{
			name: "client error",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusBadRequest)
			},
			target:       "/api/v1/deliveries?limit=-1",
			wantStatus:   http.StatusBadRequest,
			wantLogLevel: slog.LevelWarn,
		},
		{
			name: "server error",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusInternalServerError)
			},
			target:       "/api/v1/reload",
			wantStatus:   http.StatusInternalServerError,
			wantLogLevel: slog.LevelError,
		},
		{
			name: "panic",
			handler: func(w http.ResponseWriter, r *http.Request) {
				panic("boom")
			},
			target:       "/api/v1/matches",
			wantStatus:   http.StatusInternalServerError,
			wantLogLevel: slog.LevelError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger, logs := testutil.NewTestLogger(t)
			m := NewErrorMiddleware(NewErrorHandler(logger, false), logger)

			rec := httptest.NewRecorder()
			m.Handler(tt.handler).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, tt.target, nil))

			assert.Equal(t, tt.wantStatus, rec.Code)

			records := logs.FindByMessage("http request")
			require.Len(t, records, 1)
			assert.Equal(t, tt.wantLogLevel, records[0].Level)
			assert.Equal(t, int64(tt.wantStatus), records[0].Attrs["status"])
		})
	}
}

func TestErrorMiddleware_PanicRendersProblem(t *testing.T) {
	logger, logs := testutil.NewTestLogger(t)
	m := NewErrorMiddleware(NewErrorHandler(logger, false), logger)

	rec := httptest.NewRecorder()
	m.Handler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	})).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/summary", nil))

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, TypeInternal, body["type"])
	assert.Equal(t, float64(http.StatusInternalServerError), body["status"])
	assert.True(t, logs.ContainsMessage("panic recovered"))
}

func TestErrorMiddleware_LogsQuery(t *testing.T) {
	logger, logs := testutil.NewTestLogger(t)
	m := NewErrorMiddleware(NewErrorHandler(logger, false), logger)

	rec := httptest.NewRecorder()
	m.Handler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {})).
		ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/deliveries?match_id=7", nil))

	assert.True(t, logs.ContainsAttr("query", "match_id=7"))
	assert.True(t, logs.ContainsAttr("path", "/api/v1/deliveries"))
}
