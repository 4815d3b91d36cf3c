package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func scrape(t *testing.T, m *Metrics) string {
	t.Helper()
	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	return rec.Body.String()
}

func TestMiddleware_LabelsByRouteTemplate(t *testing.T) {
	m := NewMetrics(prometheus.NewRegistry(), "test")

	r := mux.NewRouter()
	r.Use(m.Middleware)
	r.HandleFunc("/api/posts/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}).Methods(http.MethodGet)

	for _, id := range []string{"a", "b", "c"} {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/posts/"+id, nil))
		require.Equal(t, http.StatusNotFound, rec.Code)
	}

	body := scrape(t, m)
	assert.Contains(t, body, `test_http_requests_total{method="GET",route="/api/posts/{id}",status="404"} 3`)
	assert.Contains(t, body, `test_http_requests_in_flight 0`)
	assert.NotContains(t, body, `/api/posts/a`)
}

func TestRecordPostMutation(t *testing.T) {
	m := NewMetrics(prometheus.NewRegistry(), "test")
	m.RecordPostMutation("create")
	m.RecordPostMutation("create")
	m.RecordPostMutation("update")

	body := scrape(t, m)
	assert.Contains(t, body, `test_posts_mutations_total{op="create"} 2`)
	assert.Contains(t, body, `test_posts_mutations_total{op="update"} 1`)

	var nilMetrics *Metrics
	assert.NotPanics(t, func() { nilMetrics.RecordPostMutation("delete") })
}
