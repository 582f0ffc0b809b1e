package web

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/YuminosukeSato/irisboard/pkg/log"
)

func TestChainOrder(t *testing.T) {
	var order []string
	mark := func(name string) Middleware {
		return func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				order = append(order, name)
				next.ServeHTTP(w, r)
			})
		}
	}

	h := Chain(mark("a"), mark("b"), mark("c"))(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		order = append(order, "handler")
	}))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, []string{"a", "b", "c", "handler"}, order)
}

func TestRecovery(t *testing.T) {
	logger, _ := log.NewTestLogger(log.LevelDebug)
	h := serverChain(logger, 1<<20)(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))

	rec := httptest.NewRecorder()
	require.NotPanics(t, func() {
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/explode", nil))
	})
	assert.Equal(t, http.StatusInternalServerError, rec.Code)

	id := rec.Header().Get("X-Request-Id")
	require.NotEmpty(t, id)

	entries, err := logger.GetLogEntries()
	require.NoError(t, err)
	byMessage := make(map[string]map[string]interface{})
	for _, e := range entries {
		byMessage[e["message"].(string)] = e
	}

	panicked, ok := byMessage["panic recovered"]
	require.True(t, ok)
	assert.Equal(t, id, panicked[log.RequestIDKey])

	request, ok := byMessage["request"]
	require.True(t, ok)
	assert.Equal(t, id, request[log.RequestIDKey])
	assert.Equal(t, float64(http.StatusInternalServerError), request[log.StatusKey])
	assert.Equal(t, "/explode", request[log.PathKey])
}

func TestRecoveryRepanicsAbort(t *testing.T) {
	logger, _ := log.NewTestLogger(log.LevelDebug)
	h := Recovery(logger)(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic(http.ErrAbortHandler)
	}))

	assert.PanicsWithValue(t, http.ErrAbortHandler, func() {
		h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	})
}

func TestLoggerRecordsRequest(t *testing.T) {
	logger, _ := log.NewTestLogger(log.LevelDebug)
	var seen string
	h := Logger(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = RequestID(r.Context())
		w.WriteHeader(http.StatusTeapot)
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/brew", nil))

	assert.NotEmpty(t, seen)
	assert.Equal(t, seen, rec.Header().Get("X-Request-Id"))
	assert.True(t, logger.ContainsMessage("request"))
	assert.True(t, logger.ContainsField(log.StatusKey, float64(http.StatusTeapot)))
	assert.True(t, logger.ContainsField(log.PathKey, "/brew"))
	assert.True(t, logger.ContainsField(log.RequestIDKey, seen))
}

func TestRequestIDOutsideRequest(t *testing.T) {
	assert.Empty(t, RequestID(httptest.NewRequest(http.MethodGet, "/", nil).Context()))
}

func TestSecurityHeaders(t *testing.T) {
	h := SecurityHeaders(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("ok"))
	}))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
	assert.Equal(t, "DENY", rec.Header().Get("X-Frame-Options"))
	assert.Equal(t, "default-src 'self'", rec.Header().Get("Content-Security-Policy"))
}

func TestRequestSize(t *testing.T) {
	h := RequestSize(4)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		buf := make([]byte, 16)
		_, err := r.Body.Read(buf)
		if err != nil {
			http.Error(w, err.Error(), http.StatusRequestEntityTooLarge)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/", strings.NewReader("abc")))
	assert.Equal(t, http.StatusOK, rec.Code)
}
