package echoapi

import (
	"github.com/labstack/echo/v4"
)

// adminMiddleware restricts a route to admin students.
func adminMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			claims, err := getContextClaims(ctx)
			if err != nil {
				return err
			}
			if !claims.IsAdmin {
				return errHTTPForbidden
			}
			return next(ctx)
		}
	}
}
