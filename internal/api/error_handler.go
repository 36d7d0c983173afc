package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"runtime/debug"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/basewebproject/base-api/internal/api/metrics"
	"github.com/basewebproject/base-api/internal/api/middleware"
	"github.com/basewebproject/base-api/internal/core/domain"
	"github.com/basewebproject/base-api/internal/infrastructure/db/dberr"
)

// errorResponse is the canonical error envelope for all API errors.
type errorResponse struct {
	StatusCode int    `json:"statusCode"`
	Message    string `json:"message"`
	Error      string `json:"error"`
	Timestamp  string `json:"timestamp"`
	Path       string `json:"path"`
}

const redacted = "[REDACTED]"

var sensitiveKeys = map[string]struct{}{
	"password":      {},
	"senha":         {},
	"token":         {},
	"access_token":  {},
	"secret":        {},
	"authorization": {},
}

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler that:
//   - Classifies every error into a status code and a client-safe message.
//   - Logs 4xx at warn and 5xx at error with a stack, never leaking 5xx causes.
//   - Renders the envelope {statusCode, message, error, timestamp, path}.
func NewHTTPErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return newHTTPErrorHandler(log, time.Now)
}

func newHTTPErrorHandler(log zerolog.Logger, now func() time.Time) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code, msg := resolveError(err)
		logError(log, c, err, code)

		category := "client"
		if code >= http.StatusInternalServerError {
			category = "server"
		}
		metrics.HTTPErrorsTotal.WithLabelValues(strconv.Itoa(code), category).Inc()

		resp := errorResponse{
			StatusCode: code,
			Message:    msg,
			Error:      statusName(code),
			Timestamp:  now().UTC().Format(time.RFC3339Nano),
			Path:       c.Request().RequestURI,
		}

		if c.Request().Method == http.MethodHead {
			_ = c.NoContent(code)
			return
		}
		_ = c.JSON(code, resp)
	}
}

func resolveError(err error) (int, string) {
	// Malformed request bodies.
	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &syntaxErr) || errors.As(err, &typeErr) || errors.Is(err, io.ErrUnexpectedEOF) {
		return http.StatusBadRequest, "invalid JSON in request body"
	}

	// Echo's own errors (router 404/405, binder failures, validation).
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code, httpErrorMessage(he)
	}

	// Raw storage errors that escaped an adapter.
	err = dberr.Translate(err)

	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		return http.StatusBadRequest, domain.Message(err, "invalid input")
	case errors.Is(err, domain.ErrInvalidReference):
		return http.StatusBadRequest, domain.Message(err, "invalid reference to another resource")
	case errors.Is(err, domain.ErrNotFound), errors.Is(err, domain.ErrRecordNotFound):
		return http.StatusNotFound, domain.Message(err, "resource not found")
	case errors.Is(err, domain.ErrConflict):
		return http.StatusConflict, domain.Message(err, "duplicate record")
	case errors.Is(err, domain.ErrInvalidCredentials):
		return http.StatusUnauthorized, "invalid credentials"
	case errors.Is(err, domain.ErrTokenExpired):
		return http.StatusUnauthorized, "token expired"
	case errors.Is(err, domain.ErrTokenMalformed), errors.Is(err, domain.ErrTokenInvalidSignature):
		return http.StatusUnauthorized, "invalid token"
	case errors.Is(err, domain.ErrUnauthorized):
		return http.StatusUnauthorized, domain.Message(err, "unauthorized")
	case errors.Is(err, domain.ErrForbidden):
		return http.StatusForbidden, domain.Message(err, "access forbidden")
	case errors.Is(err, domain.ErrRateLimited):
		return http.StatusTooManyRequests, domain.Message(err, "too many requests")
	}

	return http.StatusInternalServerError, "internal server error"
}

// httpErrorMessage flattens echo.HTTPError messages; lists are joined.
func httpErrorMessage(he *echo.HTTPError) string {
	switch m := he.Message.(type) {
	case string:
		return m
	case []string:
		return strings.Join(m, ", ")
	case []any:
		parts := make([]string, 0, len(m))
		for _, p := range m {
			parts = append(parts, fmt.Sprint(p))
		}
		return strings.Join(parts, ", ")
	case error:
		return m.Error()
	case nil:
		return strings.ToLower(http.StatusText(he.Code))
	default:
		return fmt.Sprint(m)
	}
}

func logError(log zerolog.Logger, c echo.Context, err error, code int) {
	req := c.Request()

	var ev *zerolog.Event
	if code >= http.StatusInternalServerError {
		ev = log.Error().Str("stack", string(debug.Stack()))
	} else {
		ev = log.Warn()
	}

	ev = ev.Err(err).
		Int("status", code).
		Str("method", req.Method).
		Str("path", req.RequestURI).
		Str("request_id", c.Response().Header().Get(echo.HeaderXRequestID))

	if body := middleware.CapturedBody(c); len(body) > 0 {
		ev = ev.RawJSON("body", sanitizeBody(body))
	}
	if p := middleware.PrincipalFrom(c); p != nil {
		ev = ev.Int64("user_id", p.ID).Str("user_email", p.Email)
	}

	ev.Msg("request failed")
}

// sanitizeBody redacts sensitive fields at any depth. Bodies that are not
// JSON are replaced entirely.
func sanitizeBody(body []byte) []byte {
	var v any
	if err := json.Unmarshal(body, &v); err != nil {
		out, _ := json.Marshal("[unparseable body]")
		return out
	}
	out, err := json.Marshal(redact(v))
	if err != nil {
		return []byte(`"[unparseable body]"`)
	}
	return out
}

func redact(v any) any {
	switch t := v.(type) {
	case map[string]any:
		for k, val := range t {
			if _, ok := sensitiveKeys[strings.ToLower(k)]; ok {
				t[k] = redacted
				continue
			}
			t[k] = redact(val)
		}
		return t
	case []any:
		for i, val := range t {
			t[i] = redact(val)
		}
		return t
	default:
		return v
	}
}

func statusName(code int) string {
	switch code {
	case http.StatusBadRequest:
		return "Bad Request"
	case http.StatusUnauthorized:
		return "Unauthorized"
	case http.StatusForbidden:
		return "Forbidden"
	case http.StatusNotFound:
		return "Not Found"
	case http.StatusConflict:
		return "Conflict"
	case http.StatusUnprocessableEntity:
		return "Unprocessable Entity"
	case http.StatusTooManyRequests:
		return "Too Many Requests"
	case http.StatusInternalServerError:
		return "Internal Server Error"
	}
	if text := http.StatusText(code); text != "" {
		return text
	}
	return "Error"
}
