package http

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/agentdeskhq/agentdesk/internal/domain/task"
	"github.com/agentdeskhq/agentdesk/internal/domain/team"
	"github.com/agentdeskhq/agentdesk/internal/service"
)

// Handlers bundles the application services behind the HTTP routes.
type Handlers struct {
	Agents *service.AgentService
	Tools  *service.ToolService
	Tasks  *service.TaskService
	Teams  *service.TeamService
}

// NewHandlers creates the handler set.
func NewHandlers(agents *service.AgentService, tools *service.ToolService, tasks *service.TaskService, teams *service.TeamService) *Handlers {
	return &Handlers{Agents: agents, Tools: tools, Tasks: tasks, Teams: teams}
}

// SetTaskStatus handles PUT /tasks/{id}/status. Only the status field
// changes; all other task fields are untouched.
func (h *Handlers) SetTaskStatus(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	body, ok := readJSON[struct {
		Status task.Status `json:"status"`
	}](w, r)
	if !ok {
		return
	}

	t, err := h.Tasks.SetStatus(r.Context(), id, body.Status)
	if err != nil {
		writeDomainError(w, err, "task not found")
		return
	}
	writeJSON(w, http.StatusOK, t)
}

// AddTeamMember handles POST /teams/{id}/members.
func (h *Handlers) AddTeamMember(w http.ResponseWriter, r *http.Request) {
	teamID := chi.URLParam(r, "id")

	fields, ok := readJSON[map[string]any](w, r)
	if !ok {
		return
	}

	m, err := h.Teams.AddMember(r.Context(), teamID, fields)
	if err != nil {
		writeDomainError(w, err, "team not found")
		return
	}
	writeJSON(w, http.StatusCreated, m)
}

// RemoveTeamMember handles DELETE /teams/{teamId}/members/{agentId}.
// The 404 body distinguishes an absent team from an absent member.
func (h *Handlers) RemoveTeamMember(w http.ResponseWriter, r *http.Request) {
	teamID := chi.URLParam(r, "teamId")
	agentID := chi.URLParam(r, "agentId")

	if err := h.Teams.RemoveMember(r.Context(), teamID, agentID); err != nil {
		if errors.Is(err, team.ErrMemberNotFound) {
			writeError(w, http.StatusNotFound, "member not found")
			return
		}
		writeDomainError(w, err, "team not found")
		return
	}
	writeJSON(w, http.StatusOK, messageResponse{Message: "member removed"})
}
