// Package client is a Go SDK for the API. It keeps the signed-in identity
// as observable state persisted in a Storage, attaches the bearer token to
// outgoing requests and reacts to 401/403 responses.
package client

import (
	"encoding/json"
	"net/url"
	"slices"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

type Role string

const (
	RoleAdmin Role = "ADMIN"
	RoleUser  Role = "USER"
)

// Landing pages used by the guards and the transport.
const (
	LoginPath     = "/login"
	DashboardPath = "/dashboard"
)

// User is the identity kept in the session.
type User struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  Role   `json:"role"`
}

// State is a snapshot delivered to subscribers.
type State struct {
	User          *User
	Authenticated bool
}

// Navigator receives redirect targets, e.g. a router or a CLI hint printer.
type Navigator func(path string)

// Session holds the current identity. All methods are safe for concurrent
// use; subscribers run synchronously after the state changed.
type Session struct {
	mu            sync.Mutex
	storage       Storage
	navigate      Navigator
	now           func() time.Time
	user          *User
	authenticated bool

	nextSub int
	subs    map[int]func(State)
}

type SessionOption func(*Session)

// WithNavigator routes redirects to fn.
func WithNavigator(fn Navigator) SessionOption {
	return func(s *Session) { s.navigate = fn }
}

// WithClock overrides time.Now for expiry checks.
func WithClock(now func() time.Time) SessionOption {
	return func(s *Session) { s.now = now }
}

// NewSession restores any persisted session from storage.
func NewSession(storage Storage, opts ...SessionOption) *Session {
	s := &Session{
		storage:  storage,
		navigate: func(string) {},
		now:      time.Now,
		subs:     map[int]func(State){},
	}
	for _, opt := range opts {
		opt(s)
	}
	s.Restore()
	return s
}

// Subscribe registers fn and immediately sends it the current state.
func (s *Session) Subscribe(fn func(State)) (unsubscribe func()) {
	s.mu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	st := s.snapshot()
	s.mu.Unlock()

	fn(st)
	return func() {
		s.mu.Lock()
		delete(s.subs, id)
		s.mu.Unlock()
	}
}

func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshot()
}

func (s *Session) CurrentUser() *User {
	return s.State().User
}

// Token returns the stored access token, or "".
func (s *Session) Token() string {
	t, _ := s.storage.Get(TokenKey)
	return t
}

// Restore loads the token and identity from storage. An expired token or a
// corrupt identity logs the session out.
func (s *Session) Restore() {
	token := s.Token()
	if token == "" {
		return
	}
	if s.tokenExpired(token) {
		s.Logout()
		return
	}

	raw, ok := s.storage.Get(UserKey)
	if !ok {
		return
	}
	var u User
	if err := json.Unmarshal([]byte(raw), &u); err != nil {
		s.Logout()
		return
	}
	s.set(&u, true)
}

// Start records a successful login.
func (s *Session) Start(token string, u User) error {
	if err := s.storage.Set(TokenKey, token); err != nil {
		return err
	}
	if err := s.saveUser(&u); err != nil {
		return err
	}
	s.set(&u, true)
	return nil
}

// UpdateUser replaces the cached identity, e.g. after /auth/me.
func (s *Session) UpdateUser(u User) error {
	if err := s.saveUser(&u); err != nil {
		return err
	}
	s.mu.Lock()
	authenticated := s.authenticated
	s.mu.Unlock()
	s.set(&u, authenticated)
	return nil
}

// Logout clears persisted state and navigates to the login page.
func (s *Session) Logout() {
	_ = s.storage.Remove(TokenKey)
	_ = s.storage.Remove(UserKey)
	s.set(nil, false)
	s.navigate(LoginPath)
}

// IsAuthenticated reports whether an unexpired token is stored. Finding an
// expired one logs the session out.
func (s *Session) IsAuthenticated() bool {
	token := s.Token()
	if token == "" {
		return false
	}
	if s.tokenExpired(token) {
		s.Logout()
		return false
	}
	return true
}

func (s *Session) HasRole(role Role) bool {
	u := s.CurrentUser()
	return u != nil && u.Role == role
}

func (s *Session) HasAnyRole(roles ...Role) bool {
	u := s.CurrentUser()
	return u != nil && slices.Contains(roles, u.Role)
}

// RequireAuth guards a page. When the session is not authenticated it
// returns false and navigates to the login page carrying returnURL.
func (s *Session) RequireAuth(returnURL string) bool {
	if s.IsAuthenticated() {
		return true
	}
	target := LoginPath
	if returnURL != "" {
		target += "?" + url.Values{"returnUrl": {returnURL}}.Encode()
	}
	s.navigate(target)
	return false
}

// RequireRoles guards a page restricted to roles. An empty list admits any
// authenticated user; a missing role sends the user to the dashboard.
func (s *Session) RequireRoles(roles ...Role) bool {
	if !s.IsAuthenticated() {
		s.navigate(LoginPath)
		return false
	}
	if len(roles) == 0 || s.HasAnyRole(roles...) {
		return true
	}
	s.navigate(DashboardPath)
	return false
}

// tokenExpired decodes the token without verifying it. Tokens that cannot be
// decoded count as expired; tokens without exp never expire locally.
func (s *Session) tokenExpired(token string) bool {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return true
	}
	exp, err := claims.GetExpirationTime()
	if err != nil {
		return true
	}
	if exp == nil {
		return false
	}
	return exp.Before(s.now())
}

func (s *Session) saveUser(u *User) error {
	data, err := json.Marshal(u)
	if err != nil {
		return err
	}
	return s.storage.Set(UserKey, string(data))
}

func (s *Session) set(u *User, authenticated bool) {
	s.mu.Lock()
	s.user = u
	s.authenticated = authenticated
	st := s.snapshot()
	subs := make([]func(State), 0, len(s.subs))
	for _, fn := range s.subs {
		subs = append(subs, fn)
	}
	s.mu.Unlock()

	for _, fn := range subs {
		fn(st)
	}
}

func (s *Session) snapshot() State {
	var u *User
	if s.user != nil {
		cp := *s.user
		u = &cp
	}
	return State{User: u, Authenticated: s.authenticated}
}
