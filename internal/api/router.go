/**
 * @description
 * This file sets up the HTTP router for the dashboard. It defines the OAuth,
 * snapshot, profile and WebSocket endpoints, serves the static assets, and
 * applies the standard middleware stack plus CORS restricted to the
 * configured public server URL.
 *
 * @dependencies
 * - net/http, time: Standard Go libraries.
 * - github.com/go-chi/chi/v5: A lightweight and idiomatic router for Go.
 * - github.com/go-chi/cors: CORS middleware.
 */

package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// DashboardRoutes creates and returns the router for the web dashboard.
func DashboardRoutes(h *DashboardHandlers, oauth *OAuthHandlers, hub *Hub, sessionSecret, serverURL, publicDir string) http.Handler {
	r := chi.NewRouter()

	// Add standard middleware for logging and panic recovery. The request
	// timeout is applied per-group below so it never covers the WebSocket.
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	if serverURL != "" {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins:   []string{serverURL},
			AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodOptions},
			AllowCredentials: true,
		}))
	}

	// Health check endpoint
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("healthy"))
	})

	// OAuth endpoints are reachable without a session.
	r.Get("/auth/discord", oauth.LoginHandler)
	r.Get("/auth/discord/callback", oauth.CallbackHandler)
	r.Get("/auth/logout", oauth.LogoutHandler)

	// Group routes that require an authenticated session.
	r.Group(func(r chi.Router) {
		r.Use(middleware.Timeout(60 * time.Second))
		r.Use(SessionAuthMiddleware(sessionSecret))

		r.Get("/", h.HomeHandler)
		r.Get("/profile", h.ProfileHandler)
	})

	// The WebSocket holds its connection open, so no timeout middleware here.
	r.Group(func(r chi.Router) {
		r.Use(SessionAuthMiddleware(sessionSecret))

		r.Get("/ws", hub.WSHandler)
	})

	// Static assets (login page, profile shell, styles).
	r.Handle("/*", http.FileServer(http.Dir(publicDir)))

	return r
}
