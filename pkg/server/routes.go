package server

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/TociNwaoha/IQBandit/pkg/proxy"
	"github.com/TociNwaoha/IQBandit/pkg/proxy/handlers"
	"github.com/TociNwaoha/IQBandit/pkg/proxy/middleware"
	"github.com/TociNwaoha/IQBandit/pkg/security/auth"
	"github.com/TociNwaoha/IQBandit/pkg/telemetry/metrics"
)

// Deps are the handlers and services the router composes.
type Deps struct {
	Sessions *auth.Manager
	Chat     *handlers.ChatHandler
	Auth     *handlers.AuthHandler
	Logs     *handlers.LogsHandler
	Settings *handlers.SettingsHandler
	Health   *handlers.HealthHandler

	MetricsEnabled bool
	MetricsPath    string
}

// newRouter builds the route table. Middleware order: recovery outermost so
// a panic anywhere still produces a response, then request IDs so the
// logging layer can correlate.
func newRouter(deps Deps) http.Handler {
	r := mux.NewRouter()

	// Public surface.
	r.HandleFunc("/health", deps.Health.Liveness).Methods(http.MethodGet)
	if deps.MetricsEnabled {
		r.Handle(deps.MetricsPath, metrics.Handler()).Methods(http.MethodGet)
	}

	api := r.PathPrefix("/api").Subrouter()

	api.HandleFunc("/auth/login", deps.Auth.Login).Methods(http.MethodPost)
	api.HandleFunc("/auth/logout", deps.Auth.Logout).Methods(http.MethodPost)

	// POST is the only supported method on the chat route; everything
	// else gets the explicit 405 contract, before any auth check.
	api.Handle("/openclaw/chat", deps.Sessions.RequireSession(deps.Chat)).Methods(http.MethodPost)
	api.HandleFunc("/openclaw/chat", func(w http.ResponseWriter, r *http.Request) {
		proxy.WriteMethodNotAllowed(w)
	})

	api.Handle("/gateway/health",
		deps.Sessions.RequireSession(http.HandlerFunc(deps.Health.GatewayHealth)),
	).Methods(http.MethodGet)

	api.Handle("/logs", deps.Sessions.RequireAdmin(deps.Logs)).Methods(http.MethodGet)

	api.Handle("/settings",
		deps.Sessions.RequireAdmin(http.HandlerFunc(deps.Settings.Get)),
	).Methods(http.MethodGet)
	api.Handle("/settings",
		deps.Sessions.RequireAdmin(http.HandlerFunc(deps.Settings.Put)),
	).Methods(http.MethodPut)

	var handler http.Handler = r
	handler = middleware.Logging(handler)
	handler = middleware.RequestID(handler)
	handler = middleware.Recovery(handler)
	return handler
}
