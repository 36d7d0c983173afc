package middleware

import (
	"github.com/labstack/echo/v4"

	"github.com/basewebproject/base-api/internal/core/domain"
)

// RBAC admits principals whose role is in allowedRoles. With no roles it
// admits any authenticated principal.
func RBAC(allowedRoles ...domain.Role) echo.MiddlewareFunc {
	allowed := make(map[domain.Role]struct{}, len(allowedRoles))
	for _, r := range allowedRoles {
		allowed[r] = struct{}{}
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if len(allowed) == 0 {
				return next(c)
			}

			p := PrincipalFrom(c)
			if p == nil {
				return domain.Unauthorized("missing authentication", nil)
			}
			if _, ok := allowed[p.Role]; !ok {
				return domain.Forbidden("you do not have permission to access this resource")
			}
			return next(c)
		}
	}
}
