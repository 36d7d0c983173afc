package middleware

import (
	"bytes"
	"io"
	"net/http"

	"github.com/labstack/echo/v4"
)

const bodyKey = "request_body"

// DefaultBodyCaptureLimit bounds how much of a request body is kept for
// error logs.
const DefaultBodyCaptureLimit = 1 << 20

// CaptureBody keeps a copy of up to limit bytes of the request body so the
// error handler can log it. The handler still reads the full body.
func CaptureBody(limit int64) echo.MiddlewareFunc {
	if limit <= 0 {
		limit = DefaultBodyCaptureLimit
	}
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			if req.Body == nil || req.Body == http.NoBody {
				return next(c)
			}

			head, err := io.ReadAll(io.LimitReader(req.Body, limit))
			if err != nil {
				return err
			}
			c.Set(bodyKey, head)
			req.Body = readCloser{Reader: io.MultiReader(bytes.NewReader(head), req.Body), Closer: req.Body}
			return next(c)
		}
	}
}

// CapturedBody returns the bytes kept by CaptureBody, if any.
func CapturedBody(c echo.Context) []byte {
	b, _ := c.Get(bodyKey).([]byte)
	return b
}

type readCloser struct {
	io.Reader
	io.Closer
}
