// Package server wires Divvy's services to their HTTP surface: chi
// routing, JSON encoding, authentication, logging and metrics.
package server

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"

	"github.com/mmynk/divvy/internal/auth"
	"github.com/mmynk/divvy/internal/service"
)

// Config carries the transport-level settings for the HTTP server.
type Config struct {
	// AllowedOrigins is the CORS allow-list. Empty means same-origin only.
	AllowedOrigins []string

	// RequestTimeout bounds every request, including its store calls.
	RequestTimeout time.Duration
}

// Server holds the services behind the HTTP surface.
type Server struct {
	expenses   *service.ExpenseService
	groups     *service.GroupService
	accounts   *service.AuthService
	jwtManager *auth.JWTManager
	metrics    *metrics
	config     Config
}

// New creates a Server over the given services.
func New(expenses *service.ExpenseService, groups *service.GroupService, accounts *service.AuthService, jwtManager *auth.JWTManager, config Config) *Server {
	if config.RequestTimeout <= 0 {
		config.RequestTimeout = 10 * time.Second
	}
	return &Server{
		expenses:   expenses,
		groups:     groups,
		accounts:   accounts,
		jwtManager: jwtManager,
		metrics:    newMetrics(),
		config:     config,
	}
}

// Router assembles the full route tree.
//
// Registration, login, liveness and metrics are public; every other
// route requires a Bearer session token. The expense routes additionally
// honor their legacy in-band actor fields (created_by, userId,
// X-User-Id), which drive the documented status codes.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	r.Use(requestID)
	r.Use(requestLogger)
	r.Use(s.metrics.middleware)
	r.Use(withTimeout(s.config.RequestTimeout))

	if len(s.config.AllowedOrigins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins:   s.config.AllowedOrigins,
			AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-User-Id", "X-Request-Id"},
			AllowCredentials: true,
			MaxAge:           300,
		}))
	}

	// Public surface
	r.Post("/auth/register", s.handleRegister)
	r.Post("/auth/login", s.handleLogin)
	r.Get("/healthz", s.handleHealthz)
	r.Method(http.MethodGet, "/metrics", s.metrics.handler())

	// Authenticated surface
	r.Group(func(r chi.Router) {
		r.Use(s.requireAuth)

		r.Get("/auth/me", s.handleMe)
		r.Patch("/users/me", s.handleChangeUsername)
		r.Get("/users", s.handleSearchUsers)

		r.Get("/expenses/{groupId}", s.handleListExpenses)
		r.Post("/expenses/{groupId}", s.handleCreateExpense)
		r.Patch("/expenses/{expenseId}", s.handleUpdateExpense)
		r.Delete("/expenses/{expenseId}", s.handleDeleteExpense)

		r.Post("/groups", s.handleCreateGroup)
		r.Get("/groups", s.handleListGroups)
		r.Post("/groups/{groupId}", s.handleCreateGroupExpense)
		r.Delete("/groups/{groupId}", s.handleDeleteGroup)
		r.Get("/groups/{groupId}/members", s.handleListMembers)
		r.Post("/groups/{groupId}/members", s.handleInviteMember)
		r.Post("/groups/{groupId}/remove-members", s.handleRemoveMembers)
		r.Get("/groups/{groupId}/total", s.handleGroupTotal)
	})

	return r
}

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}
