package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"

	adhttp "github.com/agentdeskhq/agentdesk/internal/adapter/http"
	"github.com/agentdeskhq/agentdesk/internal/adapter/memstore"
	"github.com/agentdeskhq/agentdesk/internal/domain"
	"github.com/agentdeskhq/agentdesk/internal/middleware"
	"github.com/agentdeskhq/agentdesk/internal/port/identity"
	"github.com/agentdeskhq/agentdesk/internal/service"
)

type stubVerifier struct {
	authorized bool
}

func (v *stubVerifier) Verify(_ context.Context, _ *http.Request) (*identity.Session, error) {
	if !v.authorized {
		return nil, fmt.Errorf("no session: %w", domain.ErrUnauthorized)
	}
	return &identity.Session{UserID: "user-1"}, nil
}

// newTestServer builds the full route tree over a fresh in-memory store.
func newTestServer(t *testing.T, authorized bool) (*httptest.Server, *memstore.Store) {
	t.Helper()

	store := memstore.New()
	h := adhttp.NewHandlers(
		service.NewAgentService(store, nil, nil, nil),
		service.NewToolService(store, nil, nil, nil),
		service.NewTaskService(store, nil, nil, nil),
		service.NewTeamService(store, nil, nil, nil),
	)

	r := chi.NewRouter()
	adhttp.MountRoutes(r, h, middleware.SessionGate(&stubVerifier{authorized: authorized}, nil))

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv, store
}

func doJSON(t *testing.T, method, url string, body any) (*http.Response, map[string]any) {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequest(method, url, reader)
	if err != nil {
		t.Fatalf("build request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, url, err)
	}
	t.Cleanup(func() { _ = resp.Body.Close() })

	var decoded map[string]any
	_ = json.NewDecoder(resp.Body).Decode(&decoded)
	return resp, decoded
}

func TestAgentLifecycle(t *testing.T) {
	srv, _ := newTestServer(t, true)

	resp, created := doJSON(t, http.MethodPost, srv.URL+"/agents", map[string]any{
		"name": "scout",
		"role": "researcher",
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create: expected 201, got %d", resp.StatusCode)
	}
	id, _ := created["id"].(string)
	if id == "" {
		t.Fatal("no id in create response")
	}

	resp, got := doJSON(t, http.MethodGet, srv.URL+"/agents/"+id, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("get: expected 200, got %d", resp.StatusCode)
	}
	if got["name"] != "scout" {
		t.Errorf("round trip: %+v", got)
	}

	resp, updated := doJSON(t, http.MethodPut, srv.URL+"/agents/"+id, map[string]any{"role": "analyst"})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("update: expected 200, got %d", resp.StatusCode)
	}
	if updated["role"] != "analyst" || updated["name"] != "scout" {
		t.Errorf("merge: %+v", updated)
	}

	resp, msg := doJSON(t, http.MethodDelete, srv.URL+"/agents/"+id, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("delete: expected 200, got %d", resp.StatusCode)
	}
	if msg["message"] != "agent deleted" {
		t.Errorf("delete message: %+v", msg)
	}

	resp, _ = doJSON(t, http.MethodGet, srv.URL+"/agents/"+id, nil)
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("get after delete: expected 404, got %d", resp.StatusCode)
	}
}

func TestTaskStatusTransition(t *testing.T) {
	srv, _ := newTestServer(t, true)

	resp, created := doJSON(t, http.MethodPost, srv.URL+"/tasks", map[string]any{
		"title":   "X",
		"agentId": "A1",
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create: expected 201, got %d", resp.StatusCode)
	}
	if created["status"] != "pending" {
		t.Errorf("default status: %v", created["status"])
	}
	if created["createdAt"] == nil || created["createdAt"] == "" {
		t.Error("createdAt not populated")
	}
	id, _ := created["id"].(string)

	resp, updated := doJSON(t, http.MethodPut, srv.URL+"/tasks/"+id+"/status", map[string]any{"status": "completed"})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status: expected 200, got %d", resp.StatusCode)
	}
	if updated["status"] != "completed" {
		t.Errorf("status not updated: %v", updated["status"])
	}
	if updated["title"] != "X" || updated["agentId"] != "A1" {
		t.Errorf("other fields changed: %+v", updated)
	}
}

func TestTeamDefaultsAndMembership(t *testing.T) {
	srv, _ := newTestServer(t, true)

	resp, created := doJSON(t, http.MethodPost, srv.URL+"/teams", map[string]any{
		"name":   "T1",
		"leader": "A1",
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create: expected 201, got %d", resp.StatusCode)
	}
	if created["status"] != "active" {
		t.Errorf("default status: %v", created["status"])
	}
	if members, ok := created["members"].([]any); !ok || len(members) != 0 {
		t.Errorf("members not empty list: %v", created["members"])
	}
	if ids, ok := created["activeTaskIds"].([]any); !ok || len(ids) != 0 {
		t.Errorf("activeTaskIds not empty list: %v", created["activeTaskIds"])
	}
	if created["createdAt"] != created["updatedAt"] {
		t.Errorf("timestamps differ at creation: %v vs %v", created["createdAt"], created["updatedAt"])
	}
	id, _ := created["id"].(string)

	resp, member := doJSON(t, http.MethodPost, srv.URL+"/teams/"+id+"/members", map[string]any{
		"agentId": "A1",
		"role":    "owner",
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("add member: expected 201, got %d", resp.StatusCode)
	}
	if member["joinedAt"] == nil || member["joinedAt"] == "" {
		t.Error("joinedAt not stamped")
	}

	resp, msg := doJSON(t, http.MethodDelete, srv.URL+"/teams/"+id+"/members/A1", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("remove member: expected 200, got %d", resp.StatusCode)
	}
	if msg["message"] != "member removed" {
		t.Errorf("remove message: %+v", msg)
	}

	// Removing again distinguishes member-not-found from team-not-found.
	resp, errBody := doJSON(t, http.MethodDelete, srv.URL+"/teams/"+id+"/members/A1", nil)
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("second remove: expected 404, got %d", resp.StatusCode)
	}
	if errBody["error"] != "member not found" {
		t.Errorf("error body: %+v", errBody)
	}

	resp, errBody = doJSON(t, http.MethodDelete, srv.URL+"/teams/missing/members/A1", nil)
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("absent team: expected 404, got %d", resp.StatusCode)
	}
	if errBody["error"] != "team not found" {
		t.Errorf("error body: %+v", errBody)
	}
}

func TestGatedRoutesRequireSession(t *testing.T) {
	srv, store := newTestServer(t, false)

	resp, body := doJSON(t, http.MethodPost, srv.URL+"/agents", map[string]any{"name": "x"})
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", resp.StatusCode)
	}
	if body["error"] != "unauthorized" {
		t.Errorf("error body: %+v", body)
	}

	agents, err := store.ListAgents(context.Background())
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(agents) != 0 {
		t.Error("rejected request still mutated the store")
	}

	for _, path := range []string{"/agents", "/tools", "/tasks", "/teams"} {
		resp, _ := doJSON(t, http.MethodGet, srv.URL+path, nil)
		if resp.StatusCode != http.StatusUnauthorized {
			t.Errorf("GET %s: expected 401, got %d", path, resp.StatusCode)
		}
	}
}

func TestTeamMutationsBypassGate(t *testing.T) {
	// Build the store with a team while authorized, then hit the
	// ungated mutation routes with a verifier that rejects everything.
	srv, store := newTestServer(t, false)

	tm, err := store.CreateTeam(context.Background(), map[string]any{"name": "T1"})
	if err != nil {
		t.Fatalf("seed team: %v", err)
	}

	resp, updated := doJSON(t, http.MethodPut, srv.URL+"/teams/"+tm.ID, map[string]any{"description": "ops"})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("ungated update: expected 200, got %d", resp.StatusCode)
	}
	if updated["description"] != "ops" {
		t.Errorf("update body: %+v", updated)
	}

	resp, _ = doJSON(t, http.MethodPost, srv.URL+"/teams/"+tm.ID+"/members", map[string]any{"agentId": "A1"})
	if resp.StatusCode != http.StatusCreated {
		t.Errorf("ungated add member: expected 201, got %d", resp.StatusCode)
	}

	resp, msg := doJSON(t, http.MethodDelete, srv.URL+"/teams/"+tm.ID, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("ungated delete: expected 200, got %d", resp.StatusCode)
	}
	if msg["message"] != "team deleted" {
		t.Errorf("delete message: %+v", msg)
	}
}

func TestListReturnsEmptyArray(t *testing.T) {
	srv, _ := newTestServer(t, true)

	resp, err := http.Get(srv.URL + "/agents")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	defer func() { _ = resp.Body.Close() }()

	var items []map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&items); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if items == nil {
		t.Error("expected [], got null")
	}
	if len(items) != 0 {
		t.Errorf("expected empty list, got %d items", len(items))
	}
}

func TestOversizedBodyRejected(t *testing.T) {
	srv, _ := newTestServer(t, true)

	body := bytes.NewReader(append([]byte(`{"name":"`), bytes.Repeat([]byte("a"), 2<<20)...))
	resp, err := http.Post(srv.URL+"/agents", "application/json", body)
	if err != nil {
		t.Fatalf("post: %v", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusRequestEntityTooLarge {
		t.Errorf("expected 413, got %d", resp.StatusCode)
	}
}

func TestMalformedBodyRejected(t *testing.T) {
	srv, _ := newTestServer(t, true)

	resp, err := http.Post(srv.URL+"/agents", "application/json", bytes.NewReader([]byte("{not json")))
	if err != nil {
		t.Fatalf("post: %v", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", resp.StatusCode)
	}
}
