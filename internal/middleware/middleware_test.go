package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func okHandler(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
}

func TestChain_LastIsOutermost(t *testing.T) {
	var order []string
	mark := func(name string) Middleware {
		return func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				order = append(order, name)
				next.ServeHTTP(w, r)
			})
		}
	}

	h := Chain(http.HandlerFunc(okHandler), mark("inner"), mark("outer"))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, []string{"outer", "inner"}, order)
}

func TestRequestIDMiddleware(t *testing.T) {
	var seen string
	h := RequestIDMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = RequestIDFromContext(r.Context())
	}))

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Len(t, seen, 20)
	assert.Equal(t, seen, rr.Header().Get(RequestIDHeader))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, "upstream-id")
	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	assert.Equal(t, "upstream-id", seen)
	assert.Equal(t, "upstream-id", rr.Header().Get(RequestIDHeader))
}

func TestCORSMiddleware(t *testing.T) {
	tests := []struct {
		name           string
		origins        []string
		origin         string
		method         string
		expectedOrigin string
		expectedStatus int
	}{
		{"wildcard", []string{"*"}, "http://any.example", http.MethodGet, "*", http.StatusTeapot},
		{"listed origin", []string{"http://app.example"}, "http://app.example", http.MethodGet, "http://app.example", http.StatusTeapot},
		{"unlisted origin", []string{"http://app.example"}, "http://evil.example", http.MethodGet, "", http.StatusTeapot},
		{"preflight", []string{"*"}, "http://any.example", http.MethodOptions, "*", http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := CORSMiddleware(tt.origins)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusTeapot)
			}))

			req := httptest.NewRequest(tt.method, "/api/posts", nil)
			req.Header.Set("Origin", tt.origin)
			rr := httptest.NewRecorder()
			h.ServeHTTP(rr, req)

			assert.Equal(t, tt.expectedStatus, rr.Code)
			assert.Equal(t, tt.expectedOrigin, rr.Header().Get("Access-Control-Allow-Origin"))
			assert.Contains(t, rr.Header().Get("Access-Control-Allow-Methods"), http.MethodPatch)
			assert.Contains(t, rr.Header().Get("Access-Control-Expose-Headers"), "X-Total-Count")
		})
	}
}

func TestLoggingMiddleware(t *testing.T) {
	log, hook := test.NewNullLogger()

	h := Chain(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
		}),
		LoggingMiddleware(log),
		RequestIDMiddleware,
	)

	req := httptest.NewRequest(http.MethodGet, "/api/posts/x", nil)
	req.Header.Set(RequestIDHeader, "req-1")
	h.ServeHTTP(httptest.NewRecorder(), req)

	entry := hook.LastEntry()
	require.NotNil(t, entry)
	assert.Equal(t, logrus.InfoLevel, entry.Level)
	assert.Equal(t, "request completed", entry.Message)
	assert.Equal(t, http.MethodGet, entry.Data["method"])
	assert.Equal(t, "/api/posts/x", entry.Data["path"])
	assert.Equal(t, http.StatusNotFound, entry.Data["status"])
	assert.Equal(t, "req-1", entry.Data["request_id"])
}

func TestLoggingMiddleware_ServerErrorsWarn(t *testing.T) {
	log, hook := test.NewNullLogger()

	h := LoggingMiddleware(log)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

	require.NotNil(t, hook.LastEntry())
	assert.Equal(t, logrus.WarnLevel, hook.LastEntry().Level)
}
