package middleware

import (
	"github.com/labstack/echo/v4"

	"task-board.com/task-board/internal/auth"
)

// OwnerHeader carries the authenticated user id, set by the upstream
// auth proxy. Requests without it run with no owner scope.
const OwnerHeader = "X-Owner-ID"

func OwnerScope() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ownerID := c.Request().Header.Get(OwnerHeader)
			if ownerID != "" {
				req := c.Request()
				c.SetRequest(req.WithContext(auth.WithOwner(req.Context(), ownerID)))
			}
			return next(c)
		}
	}
}
