package http

import (
	"github.com/go-chi/chi/v5"

	"github.com/agentdeskhq/agentdesk/internal/middleware"
)

// MountRoutes registers all API routes on the given chi router. The
// session gate covers the agent, tool and task routes plus team
// create/read; team mutation and membership routes are deliberately
// left outside the gate to reproduce the upstream API surface.
func MountRoutes(r chi.Router, h *Handlers, gate middleware.Gate) {
	r.Group(func(r chi.Router) {
		r.Use(gate)

		// Agents
		r.Post("/agents", handleCreate(h.Agents.Create))
		r.Get("/agents", handleList(h.Agents.List))
		r.Get("/agents/{id}", handleGet(h.Agents.Get, "agent not found"))
		r.Put("/agents/{id}", handleUpdate(h.Agents.Update, "agent not found"))
		r.Delete("/agents/{id}", handleDelete(h.Agents.Delete, "agent not found", "agent deleted"))

		// Tools (create and read only)
		r.Post("/tools", handleCreate(h.Tools.Create))
		r.Get("/tools", handleList(h.Tools.List))
		r.Get("/tools/{id}", handleGet(h.Tools.Get, "tool not found"))

		// Tasks
		r.Post("/tasks", handleCreate(h.Tasks.Create))
		r.Get("/tasks", handleList(h.Tasks.List))
		r.Get("/tasks/{id}", handleGet(h.Tasks.Get, "task not found"))
		r.Put("/tasks/{id}/status", h.SetTaskStatus)

		// Teams (create and read)
		r.Post("/teams", handleCreate(h.Teams.Create))
		r.Get("/teams", handleList(h.Teams.List))
		r.Get("/teams/{id}", handleGet(h.Teams.Get, "team not found"))
	})

	// Team mutation and membership, outside the session gate.
	r.Put("/teams/{id}", handleUpdate(h.Teams.Update, "team not found"))
	r.Delete("/teams/{id}", handleDelete(h.Teams.Delete, "team not found", "team deleted"))
	r.Post("/teams/{id}/members", h.AddTeamMember)
	r.Delete("/teams/{teamId}/members/{agentId}", h.RemoveTeamMember)
}
