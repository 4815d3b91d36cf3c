package test

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"contentplanner/internal/config"
	handlers "contentplanner/internal/handler"
	"contentplanner/internal/models"
	"contentplanner/internal/service"
)

const goodToken = "good-token"

var testUser = &models.User{UserID: "user-1", Email: "alice@example.com", Username: "alice"}

type mocks struct {
	auth  *MockAuthService
	posts *MockPostService
	stats *MockStatsService
	db    *MockDB
	logs  *test.Hook
}

// newRouter mounts the routes over mocked services. goodToken resolves to
// testUser; every other token is rejected.
func newRouter(t *testing.T) (http.Handler, *mocks) {
	t.Helper()

	m := &mocks{
		auth:  new(MockAuthService),
		posts: new(MockPostService),
		stats: new(MockStatsService),
		db:    new(MockDB),
	}
	m.auth.On("ResolveIdentity", mock.Anything, goodToken).Return(testUser, nil).Maybe()
	m.auth.On("ResolveIdentity", mock.Anything, mock.Anything).
		Return(nil, service.UnauthorizedError("Could not validate credentials")).Maybe()

	log, hook := test.NewNullLogger()
	m.logs = hook

	cfg := &config.Config{MaxUploadSize: 1024}
	svc := &service.Service{Auth: m.auth, Post: m.posts, Stats: m.stats}
	h := handlers.NewHandlers(m.db, svc, cfg, log)

	router := mux.NewRouter()
	handlers.RegisterRoutes(router, h, nil)

	t.Cleanup(func() {
		m.auth.AssertExpectations(t)
		m.posts.AssertExpectations(t)
		m.stats.AssertExpectations(t)
		m.db.AssertExpectations(t)
	})
	return router, m
}

func do(h http.Handler, method, path, body, token string) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func decodeError(t *testing.T, rr *httptest.ResponseRecorder) handlers.ErrorResponse {
	t.Helper()
	var resp handlers.ErrorResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, resp.Error, resp.Detail)
	return resp
}

func TestNewHandlers(t *testing.T) {
	svc := &service.Service{
		Auth:  new(MockAuthService),
		Post:  new(MockPostService),
		Stats: new(MockStatsService),
	}
	log, _ := test.NewNullLogger()

	handler := handlers.NewHandlers(new(MockDB), svc, &config.Config{}, log)

	assert.NotNil(t, handler.AuthService)
	assert.NotNil(t, handler.PostService)
	assert.NotNil(t, handler.StatsService)
	assert.NotNil(t, handler.DB)
	assert.NotNil(t, handler.Cfg)
	assert.NotNil(t, handler.Validate)
}

func TestPublicEndpoints(t *testing.T) {
	router, _ := newRouter(t)

	tests := []struct {
		name string
		path string
		key  string
	}{
		{"root", "/api/", "message"},
		{"health", "/api/health", "status"},
		{"live", "/api/health/live", "alive"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := do(router, http.MethodGet, tt.path, "", "")
			assert.Equal(t, http.StatusOK, rr.Code)
			assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))

			var body map[string]interface{}
			require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
			assert.Contains(t, body, tt.key)
		})
	}

	rr := do(router, http.MethodGet, "/api/", "", "")
	assert.JSONEq(t, `{"message":"Content Management API"}`, rr.Body.String())
}

func TestReady(t *testing.T) {
	t.Run("store reachable", func(t *testing.T) {
		router, m := newRouter(t)
		m.db.On("HealthCheck", mock.Anything).Return(nil).Once()

		rr := do(router, http.MethodGet, "/api/health/ready", "", "")
		assert.Equal(t, http.StatusOK, rr.Code)
		assert.JSONEq(t, `{"ready":true}`, rr.Body.String())
	})

	t.Run("store down", func(t *testing.T) {
		router, m := newRouter(t)
		m.db.On("HealthCheck", mock.Anything).Return(errors.New("connection refused")).Once()

		rr := do(router, http.MethodGet, "/api/health/ready", "", "")
		assert.Equal(t, http.StatusServiceUnavailable, rr.Code)
		assert.Equal(t, "Database not reachable", decodeError(t, rr).Error)
	})
}

func TestServiceErrorMapping(t *testing.T) {
	tests := []struct {
		name           string
		err            error
		expectedStatus int
		expectedError  string
	}{
		{"validation", service.ValidationError("invalid status %q", "nope"), http.StatusBadRequest, `invalid status "nope"`},
		{"conflict", service.ConflictError("Email already registered"), http.StatusBadRequest, "Email already registered"},
		{"not found", service.NotFoundError("Post not found"), http.StatusNotFound, "Post not found"},
		{"unavailable", service.UnavailableError("thumbnail storage is not configured"), http.StatusServiceUnavailable, "thumbnail storage is not configured"},
		{"unauthorized", service.UnauthorizedError("nope"), http.StatusUnauthorized, "nope"},
		{"internal", errors.New("dial tcp: connection refused"), http.StatusInternalServerError, "Internal server error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router, m := newRouter(t)
			m.posts.On("GetPost", mock.Anything, testUser.UserID, "p1").Return(nil, tt.err).Once()

			rr := do(router, http.MethodGet, "/api/posts/p1", "", goodToken)
			assert.Equal(t, tt.expectedStatus, rr.Code)
			assert.Equal(t, tt.expectedError, decodeError(t, rr).Error)
		})
	}
}

func TestInternalErrorsAreLogged(t *testing.T) {
	router, m := newRouter(t)
	m.posts.On("GetPost", mock.Anything, testUser.UserID, "p1").Return(nil, errors.New("disk on fire")).Once()

	rr := do(router, http.MethodGet, "/api/posts/p1", "", goodToken)
	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.NotContains(t, rr.Body.String(), "disk on fire")

	require.NotNil(t, m.logs.LastEntry())
	assert.Equal(t, "request failed", m.logs.LastEntry().Message)
}
