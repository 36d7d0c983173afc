package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// Client calls the API on behalf of a Session.
type Client struct {
	baseURL string
	http    *http.Client
	session *Session
}

type Option func(*Client)

// WithHTTPClient uses hc as the template; its Transport is wrapped.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// New returns a client for baseURL, e.g. "http://localhost:3000/api/v1".
func New(baseURL string, session *Session, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 30 * time.Second},
		session: session,
	}
	for _, opt := range opts {
		opt(c)
	}

	hc := *c.http
	hc.Transport = &Transport{Base: c.http.Transport, Session: session}
	c.http = &hc
	return c
}

func (c *Client) Session() *Session { return c.session }

type LoginResponse struct {
	AccessToken string `json:"access_token"`
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Email       string `json:"email"`
	Role        Role   `json:"role"`
}

// Login authenticates and starts the session.
func (c *Client) Login(ctx context.Context, email, password string) (*User, error) {
	var resp LoginResponse
	body := map[string]string{"email": email, "password": password}
	if err := c.do(ctx, http.MethodPost, "/auth/login", body, &resp); err != nil {
		return nil, err
	}

	u := User{ID: resp.ID, Name: resp.Name, Email: resp.Email, Role: resp.Role}
	if err := c.session.Start(resp.AccessToken, u); err != nil {
		return nil, fmt.Errorf("persist session: %w", err)
	}
	return &u, nil
}

func (c *Client) Logout() {
	c.session.Logout()
}

// Me refreshes the cached identity from the server.
func (c *Client) Me(ctx context.Context) (*User, error) {
	var u User
	if err := c.do(ctx, http.MethodGet, "/auth/me", nil, &u); err != nil {
		return nil, err
	}
	if err := c.session.UpdateUser(u); err != nil {
		return nil, fmt.Errorf("persist session: %w", err)
	}
	return &u, nil
}

// UserRecord is the server projection of a user.
type UserRecord struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Login     string    `json:"login"`
	Email     string    `json:"email"`
	Role      Role      `json:"role"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type Page[T any] struct {
	Data       []T   `json:"data"`
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	TotalPages int   `json:"totalPages"`
}

type CreateUser struct {
	Name     string `json:"name"`
	Login    string `json:"login"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     Role   `json:"role,omitempty"`
}

// UpdateUser fields left nil are not sent.
type UpdateUser struct {
	Name     *string `json:"name,omitempty"`
	Login    *string `json:"login,omitempty"`
	Email    *string `json:"email,omitempty"`
	Password *string `json:"password,omitempty"`
	Role     *Role   `json:"role,omitempty"`
}

func (c *Client) ListUsers(ctx context.Context) ([]UserRecord, error) {
	var out []UserRecord
	if err := c.do(ctx, http.MethodGet, "/users", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) PagedUsers(ctx context.Context, page, limit int) (*Page[UserRecord], error) {
	q := url.Values{"page": {strconv.Itoa(page)}, "limit": {strconv.Itoa(limit)}}
	var out Page[UserRecord]
	if err := c.do(ctx, http.MethodGet, "/users/paged?"+q.Encode(), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) GetUser(ctx context.Context, id int64) (*UserRecord, error) {
	var out UserRecord
	if err := c.do(ctx, http.MethodGet, "/users/"+strconv.FormatInt(id, 10), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) CreateUser(ctx context.Context, in CreateUser) (*UserRecord, error) {
	var out UserRecord
	if err := c.do(ctx, http.MethodPost, "/users", in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateUser(ctx context.Context, id int64, in UpdateUser) (*UserRecord, error) {
	var out UserRecord
	if err := c.do(ctx, http.MethodPut, "/users/"+strconv.FormatInt(id, 10), in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteUser returns the server's confirmation message.
func (c *Client) DeleteUser(ctx context.Context, id int64) (string, error) {
	var out struct {
		Message string `json:"message"`
	}
	if err := c.do(ctx, http.MethodDelete, "/users/"+strconv.FormatInt(id, 10), nil, &out); err != nil {
		return "", err
	}
	return out.Message, nil
}

// Status is the public status payload.
type Status struct {
	Status   string `json:"status"`
	Database struct {
		Name               string   `json:"name"`
		Version            string   `json:"version"`
		MaxConnections     int      `json:"maxConnections"`
		CurrentConnections int      `json:"currentConnections"`
		AppliedMigrations  int      `json:"appliedMigrations"`
		Migrations         []string `json:"migrations"`
	} `json:"database"`
}

func (c *Client) Status(ctx context.Context) (*Status, error) {
	var out Status
	if err := c.do(ctx, http.MethodGet, "/status", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// do sends a JSON request and decodes a JSON response into out. Every
// failure comes back as *APIError.
func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return networkError(err, path)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		return decodeError(resp, path)
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
