package echoapi

import (
	"github.com/labstack/echo/v4"

	"github.com/trezcool/classwork/core/user"
)

// roleMiddleware only lets users with the given role through.
// It must run after the JWT middleware.
func roleMiddleware(role user.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			claims, err := getContextClaims(ctx)
			if err != nil {
				return err
			}
			if claims.Role != role {
				return errHttpForbidden
			}
			return next(ctx)
		}
	}
}
