package client

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, *navRecorder, *MemoryStorage) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	storage := NewMemoryStorage()
	nav := &navRecorder{}
	session := NewSession(storage, WithNavigator(nav.navigate))
	return New(srv.URL+"/api/v1", session), nav, storage
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func TestClient_LoginStoresSessionAndSendsBearer(t *testing.T) {
	token := tokenExpiringAt(t, time.Now().Add(time.Hour))
	var seenAuth string

	c, _, storage := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/v1/auth/login":
			assert.Empty(t, r.Header.Get("Authorization"))
			writeJSON(w, http.StatusOK, map[string]any{
				"access_token": token, "id": 7, "name": "Ana", "email": "ana@example.com", "role": "ADMIN",
			})
		case "/api/v1/auth/me":
			seenAuth = r.Header.Get("Authorization")
			writeJSON(w, http.StatusOK, map[string]any{"id": 7, "name": "Ana Maria", "email": "ana@example.com", "role": "ADMIN"})
		default:
			http.NotFound(w, r)
		}
	})

	u, err := c.Login(context.Background(), "ana@example.com", "Str0ng!pw")
	require.NoError(t, err)
	assert.Equal(t, RoleAdmin, u.Role)
	assert.Equal(t, token, mustGet(t, storage, TokenKey))

	me, err := c.Me(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Bearer "+token, seenAuth)
	assert.Equal(t, "Ana Maria", me.Name)
	assert.Equal(t, "Ana Maria", c.Session().CurrentUser().Name)
}

func TestClient_KeepsExplicitAuthorizationHeader(t *testing.T) {
	var seen string
	c, _, storage := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		seen = r.Header.Get("Authorization")
		w.WriteHeader(http.StatusNoContent)
	})
	require.NoError(t, storage.Set(TokenKey, "stored"))

	req, err := http.NewRequest(http.MethodGet, c.baseURL+"/status", nil)
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer explicit")
	resp, err := c.http.Do(req)
	require.NoError(t, err)
	resp.Body.Close()

	assert.Equal(t, "Bearer explicit", seen)
}

func TestClient_UnauthorizedLogsOut(t *testing.T) {
	c, nav, storage := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusUnauthorized, map[string]any{"statusCode": 401, "message": "token expired", "error": "Unauthorized"})
	})
	require.NoError(t, c.Session().Start(tokenExpiringAt(t, time.Now().Add(time.Hour)), User{ID: 1}))

	_, err := c.Me(context.Background())

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusUnauthorized, apiErr.StatusCode)
	assert.Equal(t, msgSession, apiErr.Message)
	assert.False(t, c.Session().State().Authenticated)
	_, ok := storage.Get(TokenKey)
	assert.False(t, ok)
	assert.Equal(t, []string{LoginPath}, nav.paths)
}

func TestClient_ForbiddenNavigatesToDashboard(t *testing.T) {
	c, nav, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusForbidden, map[string]any{"message": "you do not have permission to access this resource"})
	})
	require.NoError(t, c.Session().Start(tokenExpiringAt(t, time.Now().Add(time.Hour)), User{ID: 2, Role: RoleUser}))

	_, err := c.ListUsers(context.Background())

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusForbidden, apiErr.StatusCode)
	assert.True(t, c.Session().State().Authenticated)
	assert.Equal(t, []string{DashboardPath}, nav.paths)
}

func TestClient_ErrorMessages(t *testing.T) {
	cases := []struct {
		name string
		code int
		body any
		want string
	}{
		{"validation list", http.StatusBadRequest, map[string]any{"message": []string{"name is required", "email must be a valid email"}}, "name is required, email must be a valid email"},
		{"conflict", http.StatusConflict, map[string]any{"message": "email is already in use"}, "email is already in use"},
		{"category fallback", http.StatusUnprocessableEntity, map[string]any{"error": "Unprocessable Entity"}, "Unprocessable Entity"},
		{"not found", http.StatusNotFound, map[string]any{"message": "User with ID 9 not found"}, msgNotFound},
		{"rate limited", http.StatusTooManyRequests, map[string]any{"message": "slow down"}, msgRateLimited},
		{"server", http.StatusInternalServerError, map[string]any{"message": "internal server error"}, msgServer},
		{"no body", http.StatusBadGateway, nil, msgUnexpected},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c, _, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				if tc.body == nil {
					w.WriteHeader(tc.code)
					return
				}
				writeJSON(w, tc.code, tc.body)
			})

			_, err := c.GetUser(context.Background(), 9)

			var apiErr *APIError
			require.True(t, errors.As(err, &apiErr))
			assert.Equal(t, tc.code, apiErr.StatusCode)
			assert.Equal(t, tc.want, apiErr.Message)
			assert.Equal(t, "/users/9", apiErr.Path)
		})
	}
}

func TestClient_NetworkFailure(t *testing.T) {
	session := NewSession(NewMemoryStorage())
	c := New("http://127.0.0.1:1/api/v1", session)

	_, err := c.Status(context.Background())

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Zero(t, apiErr.StatusCode)
	assert.Equal(t, msgUnreachable, apiErr.Message)
}

func TestClient_PagedUsersQuery(t *testing.T) {
	c, _, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/users/paged", r.URL.Path)
		assert.Equal(t, "2", r.URL.Query().Get("page"))
		assert.Equal(t, "5", r.URL.Query().Get("limit"))
		writeJSON(w, http.StatusOK, map[string]any{
			"data": []map[string]any{{"id": 6, "name": "F"}}, "total": 6, "page": 2, "limit": 5, "totalPages": 2,
		})
	})

	p, err := c.PagedUsers(context.Background(), 2, 5)
	require.NoError(t, err)
	assert.EqualValues(t, 6, p.Total)
	assert.Equal(t, 2, p.TotalPages)
	require.Len(t, p.Data, 1)
	assert.Equal(t, int64(6), p.Data[0].ID)
}
