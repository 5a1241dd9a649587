// Package http provides the inbound HTTP adapter including routing and server lifecycle.
package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/jsamuelsen11/taskboard-service/internal/adapters/http/handlers"
	"github.com/jsamuelsen11/taskboard-service/internal/adapters/http/middleware"
)

// Handlers groups the route handlers the router mounts.
type Handlers struct {
	Users    *handlers.UserHandler
	Projects *handlers.ProjectHandler
	Boards   *handlers.BoardHandler
	Cards    *handlers.CardHandler
	Health   *handlers.HealthHandler
}

// NewRouter creates an HTTP handler with all application routes registered.
// Middleware is applied globally in the order given. Identity belongs in
// apiMiddlewares so that health probes never parse tokens.
func NewRouter(
	h Handlers,
	apiMiddlewares []func(http.Handler) http.Handler,
	middlewares ...func(http.Handler) http.Handler,
) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Chain(middlewares...))

	// Health endpoints (outside /api/v1 prefix).
	r.Get("/health/live", h.Health.Liveness)
	r.Get("/health/ready", h.Health.Readiness)

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Chain(apiMiddlewares...))

		r.Post("/users", h.Users.Register)
		r.Get("/users/me", h.Users.Me)
		r.Patch("/users/me", h.Users.UpdateProfile)
		r.Get("/users/{id}", h.Users.GetUser)

		r.Get("/projects", h.Projects.ListProjects)
		r.Post("/projects", h.Projects.CreateProject)
		r.Get("/projects/{id}", h.Projects.GetProject)
		r.Patch("/projects/{id}", h.Projects.UpdateProject)
		r.Delete("/projects/{id}", h.Projects.DeleteProject)
		r.Post("/projects/{id}/members", h.Projects.AddMember)
		r.Delete("/projects/{id}/members/{userId}", h.Projects.RemoveMember)

		r.Get("/boards", h.Boards.ListBoards)
		r.Post("/boards", h.Boards.CreateBoard)
		r.Get("/boards/public", h.Boards.ListPublicBoards)
		r.Get("/boards/{id}", h.Boards.GetBoard)
		r.Put("/boards/{id}", h.Boards.UpdateBoard)
		r.Delete("/boards/{id}", h.Boards.DeleteBoard)
		r.Post("/boards/{id}/members", h.Boards.AddMember)
		r.Delete("/boards/{id}/members/{userId}", h.Boards.RemoveMember)
		r.Post("/boards/{id}/columns", h.Boards.CreateColumn)
		r.Put("/boards/{id}/columns/{columnId}", h.Boards.UpdateColumn)
		r.Delete("/boards/{id}/columns/{columnId}", h.Boards.DeleteColumn)

		r.Post("/cards", h.Cards.CreateCard)
		r.Put("/cards/{id}", h.Cards.UpdateCard)
		r.Delete("/cards/{id}", h.Cards.DeleteCard)
		r.Patch("/cards/{id}/move", h.Cards.MoveCard)
		r.Post("/cards/{id}/comments", h.Cards.AddComment)
		r.Post("/cards/{id}/attachments", h.Cards.AddAttachment)
		r.Post("/cards/{id}/checklist", h.Cards.AddChecklistItem)
		r.Patch("/cards/{id}/checklist/{itemId}", h.Cards.SetChecklistItem)
	})

	return r
}
