package handlers

import (
	"net/http"

	"github.com/gorilla/mux"

	"contentplanner/internal/metrics"
)

// RegisterRoutes mounts the API under /api and the metrics endpoint at
// /metrics. protected middlewares run after authentication, so they can
// read the user from the request context.
func RegisterRoutes(r *mux.Router, h *Handlers, m *metrics.Metrics, protected ...mux.MiddlewareFunc) {
	if m != nil {
		r.Use(m.Middleware)
		r.Handle("/metrics", m.Handler()).Methods(http.MethodGet)
	}

	api := r.PathPrefix("/api").Subrouter()

	api.HandleFunc("/", h.Home).Methods(http.MethodGet)
	api.HandleFunc("/health", h.Health).Methods(http.MethodGet)
	api.HandleFunc("/health/live", h.Live).Methods(http.MethodGet)
	api.HandleFunc("/health/ready", h.Ready).Methods(http.MethodGet)

	api.HandleFunc("/auth/register", h.Register).Methods(http.MethodPost)
	api.HandleFunc("/auth/login", h.Login).Methods(http.MethodPost)

	auth := api.NewRoute().Subrouter()
	auth.Use(AuthMiddleware(h.AuthService))
	auth.Use(protected...)

	auth.HandleFunc("/auth/logout", h.Logout).Methods(http.MethodPost)
	auth.HandleFunc("/auth/me", h.GetCurrentUser).Methods(http.MethodGet)

	auth.HandleFunc("/posts", h.GetPosts).Methods(http.MethodGet)
	auth.HandleFunc("/posts", h.CreatePost).Methods(http.MethodPost)
	auth.HandleFunc("/posts/{id}", h.GetPost).Methods(http.MethodGet)
	auth.HandleFunc("/posts/{id}", h.UpdatePost).Methods(http.MethodPut)
	auth.HandleFunc("/posts/{id}", h.DeletePost).Methods(http.MethodDelete)
	auth.HandleFunc("/posts/{id}/status", h.UpdatePostStatus).Methods(http.MethodPatch)
	auth.HandleFunc("/posts/{id}/thumbnail", h.UploadThumbnail).Methods(http.MethodPost)

	auth.HandleFunc("/stats", h.GetStats).Methods(http.MethodGet)
	auth.HandleFunc("/tags", h.GetTags).Methods(http.MethodGet)
}
