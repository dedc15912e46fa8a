package middleware

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func captureLog(t *testing.T, target string, status int) map[string]any {
	t.Helper()
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))

	handler := SecureLogger(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(status)
	}))
	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, target, nil))

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	return entry
}

func TestSecureLogger_RecordsRequest(t *testing.T) {
	entry := captureLog(t, "/ideas?status=popular", http.StatusOK)

	assert.Equal(t, "http_request", entry["msg"])
	assert.Equal(t, "INFO", entry["level"])
	assert.Equal(t, "/ideas?status=popular", entry["path"])
	assert.Equal(t, float64(http.StatusOK), entry["status"])
}

func TestSecureLogger_RedactsSensitiveQuery(t *testing.T) {
	entry := captureLog(t, "/auth/login?password=hunter2", http.StatusUnauthorized)

	assert.Equal(t, "/auth/login?[REDACTED]", entry["path"])
}

func TestSecureLogger_ServerErrorsAtErrorLevel(t *testing.T) {
	entry := captureLog(t, "/ideas", http.StatusInternalServerError)

	assert.Equal(t, "ERROR", entry["level"])
}
