package middleware

import (
	"context"

	"github.com/labstack/echo/v4"

	"github.com/basewebproject/base-api/internal/core/domain"
)

const principalKey = "principal"

type principalCtxKey struct{}

// SetPrincipal attaches p to both the echo context and the request context.
func SetPrincipal(c echo.Context, p *domain.Principal) {
	c.Set(principalKey, p)
	req := c.Request()
	c.SetRequest(req.WithContext(context.WithValue(req.Context(), principalCtxKey{}, p)))
}

// PrincipalFrom returns the authenticated principal, or nil on public routes.
func PrincipalFrom(c echo.Context) *domain.Principal {
	p, _ := c.Get(principalKey).(*domain.Principal)
	return p
}

// PrincipalFromContext is PrincipalFrom for code that only sees a context.
func PrincipalFromContext(ctx context.Context) *domain.Principal {
	p, _ := ctx.Value(principalCtxKey{}).(*domain.Principal)
	return p
}
