package client

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var clock = time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC)

func tokenExpiringAt(t *testing.T, exp time.Time) string {
	t.Helper()
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "7", "email": "ana@example.com", "role": "ADMIN", "exp": exp.Unix(),
	}).SignedString([]byte("irrelevant"))
	require.NoError(t, err)
	return tok
}

type navRecorder struct{ paths []string }

func (n *navRecorder) navigate(p string) { n.paths = append(n.paths, p) }

func TestSession_StartPersistsAndNotifies(t *testing.T) {
	storage := NewMemoryStorage()
	nav := &navRecorder{}
	s := NewSession(storage, WithNavigator(nav.navigate), WithClock(func() time.Time { return clock }))

	var states []State
	unsubscribe := s.Subscribe(func(st State) { states = append(states, st) })
	defer unsubscribe()

	token := tokenExpiringAt(t, clock.Add(time.Hour))
	require.NoError(t, s.Start(token, User{ID: 7, Name: "Ana", Email: "ana@example.com", Role: RoleAdmin}))

	require.Len(t, states, 2)
	assert.False(t, states[0].Authenticated)
	assert.True(t, states[1].Authenticated)
	assert.Equal(t, "Ana", states[1].User.Name)

	stored, ok := storage.Get(TokenKey)
	require.True(t, ok)
	assert.Equal(t, token, stored)
	assert.JSONEq(t, `{"id":7,"name":"Ana","email":"ana@example.com","role":"ADMIN"}`, mustGet(t, storage, UserKey))

	assert.True(t, s.IsAuthenticated())
	assert.True(t, s.HasRole(RoleAdmin))
	assert.True(t, s.HasAnyRole(RoleUser, RoleAdmin))
	assert.False(t, s.HasRole(RoleUser))
}

func TestSession_RestoreAcrossInstances(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")
	storage, err := OpenFileStorage(path)
	require.NoError(t, err)

	first := NewSession(storage, WithClock(func() time.Time { return clock }))
	require.NoError(t, first.Start(tokenExpiringAt(t, clock.Add(time.Hour)), User{ID: 7, Name: "Ana", Role: RoleUser}))

	reopened, err := OpenFileStorage(path)
	require.NoError(t, err)
	second := NewSession(reopened, WithClock(func() time.Time { return clock.Add(30 * time.Minute) }))

	st := second.State()
	assert.True(t, st.Authenticated)
	require.NotNil(t, st.User)
	assert.Equal(t, int64(7), st.User.ID)
}

func TestSession_RestoreExpiredTokenLogsOut(t *testing.T) {
	storage := NewMemoryStorage()
	require.NoError(t, storage.Set(TokenKey, tokenExpiringAt(t, clock.Add(-time.Minute))))
	require.NoError(t, storage.Set(UserKey, `{"id":7,"name":"Ana","role":"USER"}`))
	nav := &navRecorder{}

	s := NewSession(storage, WithNavigator(nav.navigate), WithClock(func() time.Time { return clock }))

	assert.False(t, s.State().Authenticated)
	_, ok := storage.Get(TokenKey)
	assert.False(t, ok)
	_, ok = storage.Get(UserKey)
	assert.False(t, ok)
	assert.Equal(t, []string{LoginPath}, nav.paths)
}

func TestSession_CorruptIdentityLogsOut(t *testing.T) {
	storage := NewMemoryStorage()
	require.NoError(t, storage.Set(TokenKey, tokenExpiringAt(t, clock.Add(time.Hour))))
	require.NoError(t, storage.Set(UserKey, "{not json"))

	s := NewSession(storage, WithClock(func() time.Time { return clock }))

	assert.False(t, s.State().Authenticated)
	assert.Empty(t, s.Token())
}

func TestSession_UndecodableTokenCountsAsExpired(t *testing.T) {
	storage := NewMemoryStorage()
	s := NewSession(storage)
	require.NoError(t, storage.Set(TokenKey, "not-a-jwt"))

	assert.False(t, s.IsAuthenticated())
	assert.Empty(t, s.Token())
}

func TestSession_Guards(t *testing.T) {
	nav := &navRecorder{}
	s := NewSession(NewMemoryStorage(), WithNavigator(nav.navigate), WithClock(func() time.Time { return clock }))

	assert.False(t, s.RequireAuth("/users"))
	assert.False(t, s.RequireRoles(RoleAdmin))

	require.NoError(t, s.Start(tokenExpiringAt(t, clock.Add(time.Hour)), User{ID: 2, Role: RoleUser}))
	assert.True(t, s.RequireAuth("/users"))
	assert.True(t, s.RequireRoles())
	assert.True(t, s.RequireRoles(RoleUser, RoleAdmin))
	assert.False(t, s.RequireRoles(RoleAdmin))

	assert.Equal(t, []string{"/login?returnUrl=%2Fusers", LoginPath, DashboardPath}, nav.paths)
}

func TestSession_Unsubscribe(t *testing.T) {
	s := NewSession(NewMemoryStorage())
	calls := 0
	unsubscribe := s.Subscribe(func(State) { calls++ })
	unsubscribe()

	s.Logout()
	assert.Equal(t, 1, calls)
}

func mustGet(t *testing.T, s Storage, key string) string {
	t.Helper()
	v, ok := s.Get(key)
	require.True(t, ok, key)
	return v
}
