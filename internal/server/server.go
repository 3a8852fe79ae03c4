// Package server wires the HTTP surface: routing, request decoding and
// validation, ownership checks, and error-to-status mapping.
package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-playground/validator/v10"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/dmoura/consorciapp/internal/auth"
	"github.com/dmoura/consorciapp/internal/middleware"
	"github.com/dmoura/consorciapp/internal/models"
	"github.com/dmoura/consorciapp/internal/service"
	"github.com/dmoura/consorciapp/internal/storage"
)

// Server holds the services behind the HTTP handlers.
type Server struct {
	auths        *service.AuthService
	users        *service.UserService
	groups       *service.GroupService
	installments *service.InstallmentService
	draws        *service.DrawService
	invites      *service.InviteService
	dashboards   *service.DashboardService

	jwtManager *auth.JWTManager
	store      storage.Store
	validate   *validator.Validate
	frontend   string
}

// Deps bundles the constructor arguments for NewServer.
type Deps struct {
	Auth         *service.AuthService
	Users        *service.UserService
	Groups       *service.GroupService
	Installments *service.InstallmentService
	Draws        *service.DrawService
	Invites      *service.InviteService
	Dashboards   *service.DashboardService
	JWTManager   *auth.JWTManager
	Store        storage.Store
	FrontendURL  string
}

// NewServer creates the HTTP server facade.
func NewServer(d Deps) *Server {
	return &Server{
		auths:        d.Auth,
		users:        d.Users,
		groups:       d.Groups,
		installments: d.Installments,
		draws:        d.Draws,
		invites:      d.Invites,
		dashboards:   d.Dashboards,
		jwtManager:   d.JWTManager,
		store:        d.Store,
		validate:     validator.New(),
		frontend:     d.FrontendURL,
	}
}

// Router builds the chi route tree.
func (s *Server) Router() *chi.Mux {
	r := chi.NewRouter()

	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)
	r.Use(middleware.Metrics)
	r.Use(middleware.RequestLogger)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{s.frontend},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/health", s.handleHealth)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api", func(r chi.Router) {
		// Public.
		r.Post("/auth/register", s.handleRegister)
		r.Post("/auth/login", s.handleLogin)
		r.Get("/invites/{token}", s.handleInviteInfo)
		r.Get("/managers/{id}/groups", s.handleManagerPage)

		// Authenticated. Role gates are per route: the group subtree mixes
		// manager operations with reads open to enrolled members.
		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAuth(s.jwtManager, s.store))

			manage := middleware.RequireRoles(models.RoleAdmin, models.RoleManager)
			admin := middleware.RequireRoles(models.RoleAdmin)

			r.Get("/auth/me", s.handleMe)
			r.Put("/auth/profile", s.handleUpdateProfile)
			r.Put("/auth/password", s.handleChangePassword)

			r.Post("/invites/{token}/join", s.handleInviteJoin)
			r.Get("/me/installments", s.handleMyInstallments)
			r.Get("/me/dashboard", s.handleMemberDashboard)

			r.With(manage).Get("/dashboard", s.handleDashboard)
			r.With(manage).Get("/defaulters", s.handleDefaulters)

			r.Route("/groups", func(r chi.Router) {
				r.Get("/open", s.handleOpenGroups)
				r.With(manage).Post("/", s.handleCreateGroup)
				r.With(manage).Get("/", s.handleListGroups)

				r.Route("/{id}", func(r chi.Router) {
					r.With(manage).Get("/", s.handleGetGroup)
					r.With(manage).Put("/", s.handleUpdateGroup)
					r.With(manage).Delete("/", s.handleDeleteGroup)
					r.With(manage).Post("/close", s.handleCloseGroup)
					r.With(manage).Post("/schedule", s.handleGenerateSchedule)
					r.With(manage).Post("/invite-token", s.handleRotateInviteToken)

					r.With(manage).Get("/participants", s.handleListRoster)
					r.With(manage).Post("/participants", s.handleAddParticipant)

					// Open to members: joining, and reading the schedule and
					// draw of a group they hold a seat in.
					r.Post("/join", s.handleGroupJoin)
					r.Get("/installments", s.handleListInstallments)
					r.Get("/draw", s.handleDrawResults)

					r.With(manage).Post("/draw", s.handleRunDraw)
					r.With(manage).Put("/draw", s.handleAdjustDraw)
					r.With(manage).Get("/draw/log", s.handleDrawLog)
				})
			})

			r.With(manage).Put("/participants/{id}", s.handleUpdateParticipant)
			r.With(manage).Delete("/participants/{id}", s.handleDeleteParticipant)

			r.With(manage).Post("/installments/{id}/pay", s.handlePayInstallment)
			r.With(manage).Post("/installments/{id}/reverse", s.handleReverseInstallment)

			r.With(admin).Get("/users", s.handleListUsers)
			r.With(admin).Post("/users", s.handleCreateUser)
			r.With(admin).Put("/users/{id}", s.handleUpdateUser)
			r.With(admin).Delete("/users/{id}", s.handleDeactivateUser)
		})
	})

	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// canManage reports whether the user may operate on the group: admins
// always, managers only on their own groups.
func canManage(user *models.User, group *models.Group) bool {
	return user.Role == models.RoleAdmin || group.ManagerID == user.ID
}

// loadManagedGroup fetches the group and enforces ownership. A nil return
// means the response has already been written.
func (s *Server) loadManagedGroup(w http.ResponseWriter, r *http.Request, groupID string) *models.Group {
	group, err := s.groups.Get(r.Context(), groupID)
	if err != nil {
		writeError(w, err)
		return nil
	}
	if !canManage(middleware.GetUser(r.Context()), group) {
		forbidden(w)
		return nil
	}
	return group
}

// loadReadableGroup fetches a group for read access. Managers and admins
// pass the ownership check; members must hold a seat. The second return
// reports whether the caller manages the group, so handlers can narrow
// member reads to the caller's own rows. A nil group means the response has
// already been written.
func (s *Server) loadReadableGroup(w http.ResponseWriter, r *http.Request, groupID string) (*models.Group, bool) {
	group, err := s.groups.Get(r.Context(), groupID)
	if err != nil {
		writeError(w, err)
		return nil, false
	}
	user := middleware.GetUser(r.Context())
	if canManage(user, group) {
		return group, true
	}
	if _, err := s.groups.Seat(r.Context(), group.ID, user.ID); err != nil {
		forbidden(w)
		return nil, false
	}
	return group, false
}
