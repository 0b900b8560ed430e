package supabase_test

import (
	"context"
	"encoding/base64"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/agentdeskhq/agentdesk/internal/adapter/supabase"
	"github.com/agentdeskhq/agentdesk/internal/domain"
	"github.com/agentdeskhq/agentdesk/internal/port/identity"
)

const sessionJSON = `{"access_token":"tok-123","refresh_token":"ref-456"}`

func TestAccessTokenFromPlainCookie(t *testing.T) {
	cookies := []*http.Cookie{
		{Name: "sb-proj-auth-token", Value: url.QueryEscape(sessionJSON)},
	}
	if got := supabase.AccessTokenFromCookies(cookies); got != "tok-123" {
		t.Errorf("expected tok-123, got %q", got)
	}
}

func TestAccessTokenFromBase64Cookie(t *testing.T) {
	encoded := "base64-" + base64.RawURLEncoding.EncodeToString([]byte(sessionJSON))
	cookies := []*http.Cookie{
		{Name: "sb-proj-auth-token", Value: encoded},
	}
	if got := supabase.AccessTokenFromCookies(cookies); got != "tok-123" {
		t.Errorf("expected tok-123, got %q", got)
	}
}

func TestAccessTokenFromChunkedCookies(t *testing.T) {
	encoded := "base64-" + base64.RawURLEncoding.EncodeToString([]byte(sessionJSON))
	half := len(encoded) / 2

	// Chunks deliberately out of order.
	cookies := []*http.Cookie{
		{Name: "sb-proj-auth-token.1", Value: encoded[half:]},
		{Name: "sb-proj-auth-token.0", Value: encoded[:half]},
	}
	if got := supabase.AccessTokenFromCookies(cookies); got != "tok-123" {
		t.Errorf("expected tok-123, got %q", got)
	}
}

func TestAccessTokenIgnoresUnrelatedCookies(t *testing.T) {
	cookies := []*http.Cookie{
		{Name: "session", Value: "whatever"},
		{Name: "sb-proj-refresh", Value: "nope"},
	}
	if got := supabase.AccessTokenFromCookies(cookies); got != "" {
		t.Errorf("expected empty token, got %q", got)
	}
}

func TestAccessTokenBareValue(t *testing.T) {
	cookies := []*http.Cookie{
		{Name: "sb-proj-auth-token", Value: "raw-jwt-value"},
	}
	if got := supabase.AccessTokenFromCookies(cookies); got != "raw-jwt-value" {
		t.Errorf("expected raw-jwt-value, got %q", got)
	}
}

func requestWithSession(t *testing.T) *http.Request {
	t.Helper()
	r := httptest.NewRequest(http.MethodGet, "/agents", nil)
	r.AddCookie(&http.Cookie{
		Name:  "sb-proj-auth-token",
		Value: "base64-" + base64.RawURLEncoding.EncodeToString([]byte(sessionJSON)),
	})
	return r
}

func TestVerifyResolvesSession(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/auth/v1/user" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer tok-123" {
			t.Errorf("authorization header: %q", got)
		}
		if got := r.Header.Get("apikey"); got != "anon-key" {
			t.Errorf("apikey header: %q", got)
		}
		http.SetCookie(w, &http.Cookie{Name: "sb-proj-auth-token", Value: "refreshed"})
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"user-1","email":"u@example.com"}`))
	}))
	defer srv.Close()

	c := supabase.NewClient(srv.URL, "anon-key")

	sess, err := c.Verify(context.Background(), requestWithSession(t))
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if sess.UserID != "user-1" || sess.Email != "u@example.com" {
		t.Errorf("session: %+v", sess)
	}
	if len(sess.SetCookies) != 1 || sess.SetCookies[0].Value != "refreshed" {
		t.Errorf("set-cookie relay missing: %+v", sess.SetCookies)
	}
}

func TestVerifyRejectedToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	c := supabase.NewClient(srv.URL, "anon-key")

	_, err := c.Verify(context.Background(), requestWithSession(t))
	if !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
}

func TestVerifyNoCookie(t *testing.T) {
	c := supabase.NewClient("http://localhost:9", "anon-key")

	r := httptest.NewRequest(http.MethodGet, "/agents", nil)
	_, err := c.Verify(context.Background(), r)
	if !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
}

type mapCache struct {
	entries map[string]identity.Session
}

func (m *mapCache) Get(token string) (*identity.Session, bool) {
	s, ok := m.entries[token]
	if !ok {
		return nil, false
	}
	return &s, true
}

func (m *mapCache) Set(token string, s identity.Session) {
	m.entries[token] = s
}

func TestVerifyUsesCache(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls++
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"user-1","email":"u@example.com"}`))
	}))
	defer srv.Close()

	c := supabase.NewClient(srv.URL, "anon-key")
	c.SetCache(&mapCache{entries: map[string]identity.Session{}})

	for i := 0; i < 3; i++ {
		if _, err := c.Verify(context.Background(), requestWithSession(t)); err != nil {
			t.Fatalf("verify %d: %v", i, err)
		}
	}
	if calls != 1 {
		t.Errorf("expected 1 upstream call, got %d", calls)
	}
}
