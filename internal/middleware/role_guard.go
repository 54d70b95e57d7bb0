package middleware

import (
	"net/http"

	"minimart/internal/domain/model"

	"github.com/labstack/echo/v4"
)

// 顧客専用ルート
func CustomerOnly() echo.MiddlewareFunc {
	return requireRole(model.RoleCustomer, "customers only")
}

// 店舗オーナー専用ルート
func AdminOnly() echo.MiddlewareFunc {
	return requireRole(model.RoleAdmin, "admins only")
}

func requireRole(role model.Role, msg string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			v, ok := c.Get(CtxUserRoleKey).(string)
			if !ok || v != string(role) {
				return c.JSON(http.StatusForbidden, errorJSON(msg))
			}
			return next(c)
		}
	}
}
