package middleware

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
)

func TestCaptureBody_KeepsCopyAndFullBody(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"email":"a@b.c","password":"x"}`))
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	err := CaptureBody(8)(func(c echo.Context) error {
		all, err := io.ReadAll(c.Request().Body)
		if err != nil {
			t.Fatalf("read body: %v", err)
		}
		if string(all) != `{"email":"a@b.c","password":"x"}` {
			t.Fatalf("handler saw truncated body: %s", all)
		}
		return nil
	})(c)
	if err != nil {
		t.Fatalf("handler error: %v", err)
	}

	if got := string(CapturedBody(c)); got != `{"email"` {
		t.Fatalf("expected first 8 bytes captured, got %q", got)
	}
}

func TestRateLimit_DeniesOverBudget(t *testing.T) {
	e := echo.New()
	store := NewMemoryRateStore(1, 1)
	mw := RateLimit(store, zerolog.Nop())

	var codes []int
	for i := 0; i < 2; i++ {
		req := httptest.NewRequest(http.MethodPost, "/auth/login", nil)
		req.RemoteAddr = "10.0.0.9:1234"
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)

		var captured error
		e.HTTPErrorHandler = func(err error, c echo.Context) { captured = err }
		_ = mw(func(c echo.Context) error { return c.NoContent(http.StatusOK) })(c)
		if captured != nil {
			codes = append(codes, http.StatusTooManyRequests)
		} else {
			codes = append(codes, rec.Code)
		}
	}

	if codes[0] != http.StatusOK || codes[1] != http.StatusTooManyRequests {
		t.Fatalf("unexpected codes: %v", codes)
	}
}
