package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/basewebproject/base-api/internal/api/middleware"
	"github.com/basewebproject/base-api/internal/core/domain"
	"github.com/basewebproject/base-api/internal/core/service"
	"github.com/basewebproject/base-api/internal/infrastructure/password"
	"github.com/basewebproject/base-api/internal/infrastructure/token"
)

// memoryUsers is an in-process user store for router tests.
type memoryUsers struct {
	mu     sync.Mutex
	nextID int64
	rows   map[int64]domain.User
}

func newMemoryUsers() *memoryUsers {
	return &memoryUsers{nextID: 1, rows: map[int64]domain.User{}}
}

func (m *memoryUsers) sorted() []domain.User {
	out := make([]domain.User, 0, len(m.rows))
	for _, u := range m.rows {
		out = append(out, u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (m *memoryUsers) FindAll(context.Context) ([]domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.sorted(), nil
}

func (m *memoryUsers) FindByID(_ context.Context, id int64) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.rows[id]
	if !ok {
		return nil, domain.ErrRecordNotFound
	}
	return &u, nil
}

func (m *memoryUsers) FindPage(_ context.Context, offset, limit int) ([]domain.User, int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	all := m.sorted()
	if offset > len(all) {
		offset = len(all)
	}
	end := min(offset+limit, len(all))
	return all[offset:end], int64(len(all)), nil
}

func (m *memoryUsers) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.rows {
		if u.Email == email {
			return &u, nil
		}
	}
	return nil, domain.ErrRecordNotFound
}

func (m *memoryUsers) Insert(_ context.Context, u *domain.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.rows {
		if existing.Email == u.Email {
			return domain.Conflict("email", nil)
		}
	}
	u.ID = m.nextID
	m.nextID++
	u.Touch(time.Now())
	m.rows[u.ID] = *u
	return nil
}

func (m *memoryUsers) Save(_ context.Context, u *domain.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.rows[u.ID]; !ok {
		return domain.ErrRecordNotFound
	}
	m.rows[u.ID] = *u
	return nil
}

func (m *memoryUsers) Remove(_ context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.rows[id]; !ok {
		return domain.ErrRecordNotFound
	}
	delete(m.rows, id)
	return nil
}

func (m *memoryUsers) Exists(_ context.Context, id int64) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.rows[id]
	return ok, nil
}

type testServer struct {
	t   *testing.T
	srv *httptest.Server
}

func newTestServer(t *testing.T, loginLimit int) (*testServer, *memoryUsers) {
	t.Helper()
	log := zerolog.Nop()
	users := newMemoryUsers()
	hasher := password.NewBcryptHasher(4)
	tokens := token.NewManager("router-test-secret", time.Hour)
	auth := service.NewAuthService(users, tokens, hasher, log)

	_, err := auth.SeedAdmin(context.Background(), service.AdminSeed{Name: "Admin", Email: "admin@example.com", Password: "Adm1n!pass"})
	require.NoError(t, err)
	hash, err := hasher.Hash("Us3r!pass")
	require.NoError(t, err)
	require.NoError(t, users.Insert(context.Background(), &domain.User{
		Name: "Regular", Login: "regular", Email: "user@example.com", PasswordHash: hash, Role: domain.RoleUser,
	}))

	deps := Deps{
		Log:     log,
		Prefix:  "/api/v1",
		Origins: []string{"http://localhost:4200"},
		Users:   service.NewCrudService[domain.User](users, "User", log),
		Auth:    auth,
		Tokens:  tokens,
		Hasher:  hasher,
	}
	if loginLimit > 0 {
		deps.LoginLimiter = middleware.NewMemoryRateStore(loginLimit, loginLimit)
	}

	srv := httptest.NewServer(NewRouter(deps))
	t.Cleanup(srv.Close)
	return &testServer{t: t, srv: srv}, users
}

func (s *testServer) do(method, path, bearer, body string) (*http.Response, map[string]any) {
	s.t.Helper()
	req, err := http.NewRequest(method, s.srv.URL+path, strings.NewReader(body))
	require.NoError(s.t, err)
	req.Header.Set("Content-Type", "application/json")
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}

	resp, err := s.srv.Client().Do(req)
	require.NoError(s.t, err)
	defer resp.Body.Close()

	var raw json.RawMessage
	_ = json.NewDecoder(resp.Body).Decode(&raw)
	var obj map[string]any
	_ = json.Unmarshal(raw, &obj)
	if strings.Contains(string(raw), "$2a$") {
		s.t.Fatalf("%s %s leaked a password hash: %s", method, path, raw)
	}
	return resp, obj
}

func (s *testServer) login(email, pw string) string {
	s.t.Helper()
	resp, body := s.do(http.MethodPost, "/api/v1/auth/login", "", `{"email":"`+email+`","password":"`+pw+`"}`)
	require.Equal(s.t, http.StatusOK, resp.StatusCode, body)
	return body["access_token"].(string)
}

func TestRouter_LoginAndMe(t *testing.T) {
	s, _ := newTestServer(t, 0)

	tok := s.login("admin@example.com", "Adm1n!pass")
	resp, body := s.do(http.MethodGet, "/api/v1/auth/me", tok, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "admin@example.com", body["email"])
	assert.Equal(t, "ADMIN", body["role"])
}

func TestRouter_WrongPasswordAndUnknownEmailLookAlike(t *testing.T) {
	s, _ := newTestServer(t, 0)

	r1, b1 := s.do(http.MethodPost, "/api/v1/auth/login", "", `{"email":"admin@example.com","password":"nope"}`)
	r2, b2 := s.do(http.MethodPost, "/api/v1/auth/login", "", `{"email":"ghost@example.com","password":"nope"}`)

	assert.Equal(t, http.StatusUnauthorized, r1.StatusCode)
	assert.Equal(t, r1.StatusCode, r2.StatusCode)
	assert.Equal(t, b1["message"], b2["message"])
}

func TestRouter_RequiresToken(t *testing.T) {
	s, _ := newTestServer(t, 0)

	resp, body := s.do(http.MethodGet, "/api/v1/users/paged", "", "")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "missing authorization header", body["message"])
	for _, key := range []string{"statusCode", "message", "error", "timestamp", "path"} {
		assert.Contains(t, body, key)
	}
	assert.Equal(t, "/api/v1/users/paged", body["path"])

	resp, _ = s.do(http.MethodGet, "/api/v1/users/paged", "not-a-jwt", "")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestRouter_RoleChecks(t *testing.T) {
	s, _ := newTestServer(t, 0)
	admin := s.login("admin@example.com", "Adm1n!pass")
	user := s.login("user@example.com", "Us3r!pass")

	cases := []struct {
		method, path, body  string
		userCode, adminCode int
	}{
		{http.MethodGet, "/api/v1/users", "", http.StatusForbidden, http.StatusOK},
		{http.MethodGet, "/api/v1/users/paged?page=1&limit=1", "", http.StatusOK, http.StatusOK},
		{http.MethodGet, "/api/v1/users/1", "", http.StatusOK, http.StatusOK},
		{http.MethodPut, "/api/v1/users/2", `{"name":"Regular Person"}`, http.StatusForbidden, http.StatusOK},
	}
	for _, tc := range cases {
		resp, _ := s.do(tc.method, tc.path, user, tc.body)
		assert.Equal(t, tc.userCode, resp.StatusCode, "USER %s %s", tc.method, tc.path)
		resp, _ = s.do(tc.method, tc.path, admin, tc.body)
		assert.Equal(t, tc.adminCode, resp.StatusCode, "ADMIN %s %s", tc.method, tc.path)
	}

	resp, body := s.do(http.MethodDelete, "/api/v1/users/2", user, "")
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	assert.Equal(t, "you do not have permission to access this resource", body["message"])
}

func TestRouter_UserLifecycle(t *testing.T) {
	s, users := newTestServer(t, 0)
	admin := s.login("admin@example.com", "Adm1n!pass")

	create := `{"name":"Carla","login":"carla","email":"carla@example.com","password":"Str0ng!pw"}`
	resp, body := s.do(http.MethodPost, "/api/v1/users", admin, create)
	require.Equal(t, http.StatusCreated, resp.StatusCode, body)
	assert.Equal(t, "USER", body["role"])
	assert.NotContains(t, body, "password")

	resp, body = s.do(http.MethodPost, "/api/v1/users", admin, create)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Equal(t, "email is already in use", body["message"])

	// The new account can log in with the password it was created with.
	s.login("carla@example.com", "Str0ng!pw")

	resp, body = s.do(http.MethodGet, "/api/v1/users/paged?page=2&limit=2", admin, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.EqualValues(t, 3, body["total"])
	assert.EqualValues(t, 2, body["totalPages"])
	assert.Len(t, body["data"], 1)

	resp, body = s.do(http.MethodDelete, "/api/v1/users/3", admin, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "record 3 deleted successfully", body["message"])
	ok, _ := users.Exists(context.Background(), 3)
	assert.False(t, ok)

	resp, body = s.do(http.MethodGet, "/api/v1/users/3", admin, "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "User with ID 3 not found", body["message"])
}

func TestRouter_BadInput(t *testing.T) {
	s, _ := newTestServer(t, 0)
	admin := s.login("admin@example.com", "Adm1n!pass")

	cases := []struct {
		method, path, body, msg string
	}{
		{http.MethodGet, "/api/v1/users/paged?page=x", "", "page and limit must be integers"},
		{http.MethodGet, "/api/v1/users/paged?page=0", "", "page must be greater than 0"},
		{http.MethodGet, "/api/v1/users/paged?limit=101", "", "limit must be between 1 and 100"},
		{http.MethodGet, "/api/v1/users/abc", "", "id must be a positive integer"},
		{http.MethodPost, "/api/v1/users", `{"name":`, "invalid JSON in request body"},
		{http.MethodPut, "/api/v1/users/1", `{}`, "data for update is required"},
	}
	for _, tc := range cases {
		resp, body := s.do(tc.method, tc.path, admin, tc.body)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode, "%s %s", tc.method, tc.path)
		assert.Equal(t, tc.msg, body["message"], "%s %s", tc.method, tc.path)
	}
}

func TestRouter_LoginRateLimit(t *testing.T) {
	s, _ := newTestServer(t, 2)

	for i := 0; i < 2; i++ {
		resp, _ := s.do(http.MethodPost, "/api/v1/auth/login", "", `{"email":"admin@example.com","password":"nope"}`)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	}
	resp, body := s.do(http.MethodPost, "/api/v1/auth/login", "", `{"email":"admin@example.com","password":"nope"}`)
	assert.Equal(t, http.StatusTooManyRequests, resp.StatusCode)
	assert.Equal(t, "too many attempts, please try again later", body["message"])
}

func TestRouter_OperationalEndpoints(t *testing.T) {
	s, _ := newTestServer(t, 0)

	for _, path := range []string{"/health", "/health/ready", "/", "/metrics"} {
		resp, err := s.srv.Client().Get(s.srv.URL + path)
		require.NoError(t, err)
		resp.Body.Close()
		assert.Equal(t, http.StatusOK, resp.StatusCode, path)
	}

	resp, body := s.do(http.MethodGet, "/api/v1/nowhere", "", "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "Not Found", body["error"])
}
