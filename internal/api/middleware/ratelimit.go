package middleware

import (
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/basewebproject/base-api/internal/core/domain"
)

// NewMemoryRateStore allows perMinute requests per identifier with the given
// burst, kept in process memory.
func NewMemoryRateStore(perMinute, burst int) echomw.RateLimiterStore {
	if perMinute <= 0 {
		perMinute = 1
	}
	if burst < 1 {
		burst = 1
	}
	return echomw.NewRateLimiterMemoryStoreWithConfig(echomw.RateLimiterMemoryStoreConfig{
		Rate:      rate.Every(time.Minute / time.Duration(perMinute)),
		Burst:     burst,
		ExpiresIn: 3 * time.Minute,
	})
}

// RateLimit throttles requests per client IP using store. Store failures
// let the request through so a cache outage does not lock users out.
func RateLimit(store echomw.RateLimiterStore, log zerolog.Logger) echo.MiddlewareFunc {
	return echomw.RateLimiterWithConfig(echomw.RateLimiterConfig{
		Store: failOpen{store: store, log: log},
		IdentifierExtractor: func(c echo.Context) (string, error) {
			return c.RealIP(), nil
		},
		DenyHandler: func(echo.Context, string, error) error {
			return &domain.Error{Kind: domain.ErrRateLimited, Message: "too many attempts, please try again later"}
		},
	})
}

type failOpen struct {
	store echomw.RateLimiterStore
	log   zerolog.Logger
}

func (f failOpen) Allow(identifier string) (bool, error) {
	ok, err := f.store.Allow(identifier)
	if err != nil {
		f.log.Warn().Err(err).Msg("rate limiter unavailable, allowing request")
		return true, nil
	}
	return ok, nil
}
