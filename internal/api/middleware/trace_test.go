package middleware

import (
	"bytes"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/phrazzld/patientedu/internal/api/shared"
	"github.com/phrazzld/patientedu/internal/platform/logger"
)

func TestTrace(t *testing.T) {
	var logs bytes.Buffer
	base := slog.New(slog.NewJSONHandler(&logs, &slog.HandlerOptions{Level: slog.LevelDebug}))

	var traceID string
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		traceID = shared.GetTraceID(r.Context())
		logger.FromContext(r.Context()).Info("handled")
	})

	Trace(base)(next).ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/sections", nil))

	assert.Len(t, traceID, 32)
	assert.Contains(t, logs.String(), `"msg":"request started"`)
	assert.Contains(t, logs.String(), `"msg":"handled"`)
	assert.Equal(t, 2, bytes.Count(logs.Bytes(), []byte(traceID)))
}
