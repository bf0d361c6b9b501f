package identity

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"nichelens-be/pkg/kv"
)

var ErrUnauthorized = errors.New("session token rejected")

// sessionResponse is the backend's view of the token holder.
type sessionResponse struct {
	ID        string `json:"id"`
	Handle    string `json:"handle"`
	Name      string `json:"name"`
	AvatarURL string `json:"avatar_url"`
}

type sessionEnvelope struct {
	Success bool            `json:"success"`
	Data    sessionResponse `json:"data"`
	Error   string          `json:"error,omitempty"`
}

// Provider owns the current Session. Remote identity is resolved against the
// backend; without it, SignIn produces the sandbox session.
type Provider struct {
	kv         kv.Store
	backendURL string
	remote     bool
	client     *http.Client

	mu        sync.RWMutex
	current   Session
	listeners map[int]func(Session)
	nextID    int
}

// NewProvider builds a provider. remote enables the backend OAuth flow.
func NewProvider(store kv.Store, backendURL string, remote bool) *Provider {
	return &Provider{
		kv:         store,
		backendURL: strings.TrimRight(backendURL, "/"),
		remote:     remote,
		client:     &http.Client{Timeout: 10 * time.Second},
		listeners:  map[int]func(Session){},
	}
}

// Current returns the last resolved session.
func (p *Provider) Current() Session {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.current
}

// Remote reports whether the backend identity flow is enabled.
func (p *Provider) Remote() bool {
	return p.remote
}

// Resolve establishes the session at startup. A cached bearer token is
// checked against the backend; when the backend cannot be reached the cached
// session is used as is.
func (p *Provider) Resolve(ctx context.Context) (Session, error) {
	cached, err := p.loadCached(ctx)
	if err != nil {
		return p.set(Anonymous()), err
	}

	if !cached.IsAuthenticated {
		return p.set(Anonymous()), nil
	}
	if cached.Sandbox || cached.Token == "" || !p.remote {
		return p.set(cached), nil
	}

	fresh, err := p.fetchSession(ctx, cached.Token)
	switch {
	case errors.Is(err, ErrUnauthorized):
		if delErr := p.kv.Delete(ctx, SessionKey); delErr != nil {
			return p.set(Anonymous()), delErr
		}
		return p.set(Anonymous()), nil
	case err != nil:
		return p.set(cached), nil
	}

	if err := p.saveCached(ctx, fresh); err != nil {
		return p.set(fresh), err
	}
	return p.set(fresh), nil
}

// SignIn starts a login. With remote identity it returns the URL the user
// must open; the flow finishes with CompleteSignIn. Otherwise the sandbox
// session is established immediately and the URL is empty.
func (p *Provider) SignIn(ctx context.Context, provider string) (string, error) {
	if !p.remote {
		s := SandboxSession()
		if err := p.saveCached(ctx, s); err != nil {
			return "", err
		}
		p.set(s)
		return "", nil
	}
	if provider == "" {
		provider = "x"
	}
	return p.backendURL + "/api/auth/" + url.PathEscape(provider), nil
}

// CompleteSignIn turns a bearer token issued by the OAuth callback into the
// current session.
func (p *Provider) CompleteSignIn(ctx context.Context, token string) (Session, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return p.Current(), errors.New("token is required")
	}

	s, err := p.fetchSession(ctx, token)
	if err != nil {
		return p.Current(), err
	}
	if err := p.saveCached(ctx, s); err != nil {
		return p.Current(), err
	}
	return p.set(s), nil
}

// SignOut drops the cached session and resets to anonymous.
func (p *Provider) SignOut(ctx context.Context) error {
	err := p.kv.Delete(ctx, SessionKey)
	p.set(Anonymous())
	return err
}

// OnAuthStateChange registers fn for every session transition and returns a
// function that removes it.
func (p *Provider) OnAuthStateChange(fn func(Session)) func() {
	p.mu.Lock()
	id := p.nextID
	p.nextID++
	p.listeners[id] = fn
	p.mu.Unlock()

	return func() {
		p.mu.Lock()
		delete(p.listeners, id)
		p.mu.Unlock()
	}
}

func (p *Provider) set(s Session) Session {
	p.mu.Lock()
	changed := p.current != s
	p.current = s
	listeners := make([]func(Session), 0, len(p.listeners))
	for _, fn := range p.listeners {
		listeners = append(listeners, fn)
	}
	p.mu.Unlock()

	if changed {
		for _, fn := range listeners {
			fn(s)
		}
	}
	return s
}

func (p *Provider) fetchSession(ctx context.Context, token string) (Session, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.backendURL+"/api/auth/session", nil)
	if err != nil {
		return Session{}, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)

	res, err := p.client.Do(req)
	if err != nil {
		return Session{}, fmt.Errorf("resolve session: %w", err)
	}
	defer res.Body.Close()

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return Session{}, fmt.Errorf("read response: %w", err)
	}

	if res.StatusCode == http.StatusUnauthorized || res.StatusCode == http.StatusNotFound {
		return Session{}, ErrUnauthorized
	}
	if res.StatusCode < 200 || res.StatusCode > 299 {
		return Session{}, fmt.Errorf("resolve session: status %d", res.StatusCode)
	}

	var env sessionEnvelope
	if err := json.Unmarshal(body, &env); err != nil {
		return Session{}, fmt.Errorf("decode session: %w", err)
	}
	if env.Data.ID == "" {
		return Session{}, ErrUnauthorized
	}

	return withDisplayDefaults(Session{
		IsAuthenticated: true,
		OwnerID:         env.Data.ID,
		DisplayHandle:   env.Data.Handle,
		DisplayName:     env.Data.Name,
		AvatarURL:       env.Data.AvatarURL,
		Token:           token,
	}), nil
}

func (p *Provider) loadCached(ctx context.Context) (Session, error) {
	raw, ok, err := p.kv.Get(ctx, SessionKey)
	if err != nil || !ok {
		return Anonymous(), err
	}

	var s Session
	if err := json.Unmarshal(raw, &s); err != nil {
		return Anonymous(), fmt.Errorf("failed to decode cached session: %w", err)
	}
	if !s.Valid() {
		return Anonymous(), nil
	}
	return s, nil
}

func (p *Provider) saveCached(ctx context.Context, s Session) error {
	raw, err := json.Marshal(s)
	if err != nil {
		return err
	}
	return p.kv.Set(ctx, SessionKey, raw)
}
