package middleware

import (
	"errors"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/basewebproject/base-api/internal/core/domain"
	"github.com/basewebproject/base-api/internal/core/ports"
)

// Authenticate validates the bearer token and attaches the principal.
// Expired tokens are reported separately from every other token failure.
func Authenticate(tokens ports.TokenManager) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get(echo.HeaderAuthorization)
			if authHeader == "" {
				return domain.Unauthorized("missing authorization header", nil)
			}

			scheme, raw, ok := strings.Cut(authHeader, " ")
			raw = strings.TrimSpace(raw)
			if !ok || !strings.EqualFold(scheme, "bearer") || raw == "" {
				return domain.Unauthorized("invalid authorization header", nil)
			}

			principal, err := tokens.Validate(raw)
			if err != nil {
				if errors.Is(err, domain.ErrTokenExpired) {
					return domain.Unauthorized("token expired", err)
				}
				return domain.Unauthorized("invalid token", err)
			}

			SetPrincipal(c, principal)
			return next(c)
		}
	}
}
