package logger

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func TestNew_Levels(t *testing.T) {
	assert.Equal(t, zerolog.DebugLevel, New("debug", "json").GetLevel())
	assert.Equal(t, zerolog.InfoLevel, New("", "console").GetLevel())
	assert.Equal(t, zerolog.InfoLevel, New("nonsense", "json").GetLevel())
}

func TestFromContext(t *testing.T) {
	buf := &bytes.Buffer{}
	ctx := WithContext(context.Background(), NewWithWriter(buf))

	log := FromContext(ctx)
	log.Info().Msg("test")

	assert.Contains(t, buf.String(), "test")
}

func TestFromContext_NoLogger(t *testing.T) {
	log := FromContext(context.Background())
	assert.Equal(t, zerolog.Disabled, log.GetLevel())
}

func TestWithFields(t *testing.T) {
	buf := &bytes.Buffer{}
	log := WithFields(NewWithWriter(buf), map[string]interface{}{"budget_id": "abc"})
	log.Info().Msg("hello")

	assert.Contains(t, buf.String(), `"budget_id":"abc"`)
}

func TestMiddleware_LogsRequestWithID(t *testing.T) {
	buf := &bytes.Buffer{}
	handler := RequestID(Middleware(NewWithWriter(buf))(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		log := FromContext(r.Context())
		log.Info().Msg("inside handler")
		w.WriteHeader(http.StatusTeapot)
	})))

	req := httptest.NewRequest(http.MethodGet, "/api/ready", nil)
	req.Header.Set("X-Request-ID", "req-1")
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	assert.Equal(t, http.StatusTeapot, w.Code)
	assert.Equal(t, "req-1", w.Header().Get("X-Request-ID"))
	out := buf.String()
	assert.Contains(t, out, "inside handler")
	assert.Contains(t, out, `"request_id":"req-1"`)
	assert.Contains(t, out, `"status":418`)
}

func TestRequestID_Generated(t *testing.T) {
	var seen string
	handler := RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = RequestIDFromContext(r.Context())
	}))

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.NotEmpty(t, seen)
	assert.Equal(t, seen, w.Header().Get("X-Request-ID"))
}

func TestRecovery(t *testing.T) {
	buf := &bytes.Buffer{}
	handler := Recovery(NewWithWriter(buf))(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, buf.String(), "Panic recovered")
}
