package client

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const (
	msgUnexpected   = "an unexpected error occurred"
	msgSession      = "session expired, please log in again"
	msgForbidden    = "you do not have permission to access this resource"
	msgNotFound     = "resource not found"
	msgRateLimited  = "too many attempts, please wait a moment and try again"
	msgServer       = "internal server error, please try again later"
	msgUnreachable  = "could not reach the server, check your connection"
	maxErrorPayload = 64 << 10
)

// APIError is the normalized failure returned by every client call. Message
// is ready to show to a user.
type APIError struct {
	StatusCode int    `json:"statusCode"`
	Message    string `json:"message"`
	Category   string `json:"error"`
	Timestamp  string `json:"timestamp"`
	Path       string `json:"path"`
}

func (e *APIError) Error() string {
	if e.StatusCode == 0 {
		return e.Message
	}
	return fmt.Sprintf("%d %s: %s", e.StatusCode, e.Category, e.Message)
}

// envelope mirrors the server error body; message may be a string or a list.
type envelope struct {
	Message json.RawMessage `json:"message"`
	Error   string          `json:"error"`
}

// decodeError turns a failed response into an APIError.
func decodeError(resp *http.Response, path string) *APIError {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorPayload))

	e := &APIError{
		StatusCode: resp.StatusCode,
		Category:   http.StatusText(resp.StatusCode),
		Timestamp:  time.Now().UTC().Format(time.RFC3339),
		Path:       path,
	}
	if e.Category == "" {
		e.Category = "Error"
	}

	switch resp.StatusCode {
	case http.StatusUnauthorized:
		e.Message = msgSession
	case http.StatusForbidden:
		e.Message = msgForbidden
	case http.StatusNotFound:
		e.Message = msgNotFound
	case http.StatusTooManyRequests:
		e.Message = msgRateLimited
	case http.StatusInternalServerError:
		e.Message = msgServer
	default:
		e.Message = extractMessage(body)
	}
	return e
}

// networkError wraps a transport failure.
func networkError(err error, path string) *APIError {
	return &APIError{
		Message:   msgUnreachable,
		Category:  err.Error(),
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Path:      path,
	}
}

// extractMessage reads the envelope message, joining lists with ", ".
func extractMessage(body []byte) string {
	var env envelope
	if len(body) == 0 || json.Unmarshal(body, &env) != nil {
		return msgUnexpected
	}

	var list []string
	if err := json.Unmarshal(env.Message, &list); err == nil {
		return strings.Join(list, ", ")
	}
	var single string
	if err := json.Unmarshal(env.Message, &single); err == nil && single != "" {
		return single
	}
	if env.Error != "" {
		return env.Error
	}
	return msgUnexpected
}
