package middleware

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/noteaapp/notea/internal/api/shared"
	"github.com/noteaapp/notea/internal/platform/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTraceMiddleware(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	base := slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	var traceID string
	handler := NewTraceMiddleware(base)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		traceID = shared.GetTraceID(r.Context())
		logger.FromContext(r.Context()).Info("handled")
		w.WriteHeader(http.StatusNoContent)
	}))

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/cards/next", nil))

	assert.Equal(t, http.StatusNoContent, w.Code)
	require.Len(t, traceID, 2*shared.TraceIDLength)

	dec := json.NewDecoder(&buf)
	for _, msg := range []string{"request started", "handled"} {
		var entry map[string]any
		require.NoError(t, dec.Decode(&entry))
		assert.Equal(t, msg, entry["msg"])
		assert.Equal(t, traceID, entry["trace_id"])
	}
}
