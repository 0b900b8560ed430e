// Package supabase verifies user sessions against the Supabase GoTrue
// auth API using the project's session cookies.
package supabase

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/agentdeskhq/agentdesk/internal/domain"
	"github.com/agentdeskhq/agentdesk/internal/port/identity"
	"github.com/agentdeskhq/agentdesk/internal/resilience"
)

const tracerName = "agentdesk"

// Client talks to the Supabase auth API to resolve session cookies
// into verified user sessions.
type Client struct {
	baseURL    string
	anonKey    string
	httpClient *http.Client
	breaker    *resilience.Breaker
	cache      identity.Cache
}

// NewClient creates a session verifier for the given Supabase project.
func NewClient(baseURL, anonKey string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		anonKey: anonKey,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// SetBreaker attaches a circuit breaker to all outgoing auth calls.
func (c *Client) SetBreaker(b *resilience.Breaker) {
	c.breaker = b
}

// SetCache attaches a session cache keyed by access token.
func (c *Client) SetCache(cache identity.Cache) {
	c.cache = cache
}

// Verify resolves the request's session cookies into a verified session.
// Returns domain.ErrUnauthorized when no valid session credential is
// present or the auth API rejects it.
func (c *Client) Verify(ctx context.Context, r *http.Request) (*identity.Session, error) {
	token := AccessTokenFromCookies(r.Cookies())
	if token == "" {
		return nil, fmt.Errorf("no session cookie: %w", domain.ErrUnauthorized)
	}

	if c.cache != nil {
		if sess, ok := c.cache.Get(token); ok {
			return sess, nil
		}
	}

	ctx, span := otel.Tracer(tracerName).Start(ctx, "auth.verify",
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(attribute.String("auth.provider", "supabase")),
	)
	defer span.End()

	sess, err := c.fetchUser(ctx, token)
	if err != nil {
		return nil, err
	}

	if c.cache != nil {
		// Cache without the Set-Cookie relay; those headers belong to
		// the response that triggered the refresh only.
		cached := *sess
		cached.SetCookies = nil
		c.cache.Set(token, cached)
	}

	return sess, nil
}

func (c *Client) fetchUser(ctx context.Context, token string) (*identity.Session, error) {
	var sess *identity.Session
	call := func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/auth/v1/user", nil)
		if err != nil {
			return fmt.Errorf("create request: %w", err)
		}
		req.Header.Set("apikey", c.anonKey)
		req.Header.Set("Authorization", "Bearer "+token)

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return fmt.Errorf("auth request: %w", err)
		}
		defer func() { _ = resp.Body.Close() }()

		data, err := io.ReadAll(resp.Body)
		if err != nil {
			return fmt.Errorf("read auth response: %w", err)
		}

		switch {
		case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
			return fmt.Errorf("auth rejected token: %w", domain.ErrUnauthorized)
		case resp.StatusCode >= 400:
			return fmt.Errorf("auth API error %d: %s", resp.StatusCode, string(data))
		}

		var user struct {
			ID    string `json:"id"`
			Email string `json:"email"`
		}
		if err := json.Unmarshal(data, &user); err != nil {
			return fmt.Errorf("unmarshal auth user: %w", err)
		}

		sess = &identity.Session{
			UserID:     user.ID,
			Email:      user.Email,
			SetCookies: resp.Cookies(),
		}
		return nil
	}

	if c.breaker != nil {
		if err := c.breaker.Do(call); err != nil {
			return nil, err
		}
		return sess, nil
	}

	if err := call(); err != nil {
		return nil, err
	}
	return sess, nil
}

// AccessTokenFromCookies extracts the access token from Supabase session
// cookies. The sb-<ref>-auth-token cookie may be split into ordered
// chunks (".0", ".1", ...) and may carry a "base64-" encoded payload.
func AccessTokenFromCookies(cookies []*http.Cookie) string {
	type chunk struct {
		index int
		value string
	}
	chunks := map[string][]chunk{}

	for _, ck := range cookies {
		name, idx, ok := splitChunkName(ck.Name)
		if !ok {
			continue
		}
		chunks[name] = append(chunks[name], chunk{index: idx, value: ck.Value})
	}

	for _, parts := range chunks {
		sort.Slice(parts, func(i, j int) bool { return parts[i].index < parts[j].index })

		var b strings.Builder
		for _, p := range parts {
			b.WriteString(p.value)
		}

		if token := parseSessionValue(b.String()); token != "" {
			return token
		}
	}
	return ""
}

// splitChunkName matches sb-*-auth-token cookie names, with or without
// a numeric chunk suffix. Returns the base name and chunk index.
func splitChunkName(name string) (base string, index int, ok bool) {
	base = name
	if dot := strings.LastIndex(name, "."); dot >= 0 {
		if n, err := strconv.Atoi(name[dot+1:]); err == nil {
			base = name[:dot]
			index = n
		}
	}
	if !strings.HasPrefix(base, "sb-") || !strings.HasSuffix(base, "-auth-token") {
		return "", 0, false
	}
	return base, index, true
}

// parseSessionValue decodes a joined cookie value and pulls the access
// token out of the stored session JSON. A value that is not session
// JSON is treated as a bare token.
func parseSessionValue(value string) string {
	if rest, found := strings.CutPrefix(value, "base64-"); found {
		decoded, err := base64.RawURLEncoding.DecodeString(rest)
		if err != nil {
			return ""
		}
		value = string(decoded)
	} else if unescaped, err := url.QueryUnescape(value); err == nil {
		value = unescaped
	}

	var stored struct {
		AccessToken string `json:"access_token"`
	}
	if err := json.Unmarshal([]byte(value), &stored); err == nil && stored.AccessToken != "" {
		return stored.AccessToken
	}

	if strings.HasPrefix(value, "{") || strings.HasPrefix(value, "[") {
		return ""
	}
	return value
}
