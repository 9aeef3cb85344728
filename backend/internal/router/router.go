package router

import (
	"net/http"
	"time"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/threadkeep/threadkeep/backend/internal/setup"
	mw "github.com/threadkeep/threadkeep/shared/middleware"
	"github.com/threadkeep/threadkeep/shared/middleware/metrics"
	rl "github.com/threadkeep/threadkeep/shared/middleware/ratelimiter"
)

// New creates and configures a new mux router with all the routes.
// IMPORTANT! ratelimiters set with .Use limit requests for all endpoints combined in that subrouter
func New(deps *setup.Dependencies) *mux.Router {
	r := mux.NewRouter()

	// Enable gzip compression for all responses
	r.Use(handlers.CompressHandler)

	allowedOrigins := deps.Config.Public.AllowedOrigins
	if len(allowedOrigins) == 0 {
		allowedOrigins = []string{"http://localhost:8081"}
	}
	r.Use(handlers.CORS(
		handlers.AllowedOrigins(allowedOrigins),
		handlers.AllowedMethods([]string{"GET", "POST", "DELETE", "OPTIONS"}),
		handlers.AllowedHeaders([]string{"Content-Type", "Authorization"}),
		handlers.AllowCredentials(),
	))

	// Backend CSP: strict policy (JSON API only, no scripts/styles needed)
	backendCSP := "default-src 'none'; frame-ancestors 'none'"
	r.Use(mw.SecurityHeadersWithCSP(deps.Config.Public.SecureCookies, backendCSP))

	r.Use(metrics.Middleware)

	// Add a wildcard OPTIONS handler to avoid 404s for preflight requests
	r.Methods("OPTIONS").HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	h := deps.Handler
	authMw := deps.AuthMiddleware

	r.HandleFunc("/health", h.Health).Methods("GET")
	r.Handle("/metrics", promhttp.Handler()).Methods("GET")

	v1 := r.PathPrefix("/v1").Subrouter()

	// Auth routes, rate limited by IP to slow identity minting and brute force
	auth := v1.PathPrefix("/auth").Subrouter()
	auth.Use(mw.RateLimit(rl.OnceInSecond(), mw.GetIP))
	auth.Use(mw.GlobalRateLimit(rl.Rps100()))
	auth.HandleFunc("/member", h.MemberToken).Methods("POST")
	auth.HandleFunc("/login", h.AdminLogin).Methods("POST")
	auth.HandleFunc("/logout", h.Logout).Methods("POST")

	// Read routes. Auth is optional: pending comments are only visible to
	// their author and admins, so we still want claims when present.
	read := v1.NewRoute().Subrouter()
	read.Use(authMw.OptionalAuth())
	read.Use(mw.RateLimit(rl.Rps100(), mw.GetIP))
	read.HandleFunc("/resources/{resource}/comments", h.ListComments).Methods("GET")
	read.HandleFunc("/comments/{comment}/replies", h.ListReplies).Methods("GET")
	read.HandleFunc("/members", h.GetMembers).Methods("GET")

	// Write routes require a member token
	write := v1.NewRoute().Subrouter()
	write.Use(authMw.NeedAuth())
	// CreateComment: 1 per second per member
	write.Handle("/resources/{resource}/comments",
		mw.RateLimit(rl.New(1, 1, 1*time.Hour), mw.GetMemberIDFromContext)(http.HandlerFunc(h.CreateComment))).Methods("POST")
	write.HandleFunc("/comments/{comment}", h.DeleteComment).Methods("DELETE")

	return r
}
