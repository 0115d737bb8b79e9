package middleware

import (
	"net/http"

	"storefront/internal/domain/model"
	"storefront/internal/usecase"

	"github.com/labstack/echo/v4"
)

// contextのroleがmin以上か確認する（USER < ADMIN < SUPER_ADMIN）
func RequireRole(min model.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			actor := ActorFrom(c)
			if !actor.Authenticated() {
				return unauthorized(c)
			}
			if !actor.Role.AtLeast(min) {
				return deny(c, http.StatusForbidden, usecase.KindForbidden, "insufficient role")
			}
			return next(c)
		}
	}
}
