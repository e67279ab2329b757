package middleware

import (
	"net/http"

	"plantstore/internal/domain/model"
	"plantstore/internal/repository"

	"github.com/labstack/echo/v4"
)

// DBから読んだユーザーのroleが一致するかを確認します。上下関係は無い。
func RoleGuard(role model.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			user, ok := c.Get(CtxUserKey).(*model.User)
			if !ok || user == nil {
				return c.JSON(http.StatusUnauthorized, errorJSON("unauthorized"))
			}

			if user.Role != role {
				return c.JSON(http.StatusForbidden, errorJSON(string(user.Role)+" is not authorized to access this resource"))
			}

			return next(c)
		}
	}
}

// Scope はcookie検証→token_version確認→role確認の順に並べる。
func Scope(parser TokenParser, users repository.UserRepository, role model.Role) []echo.MiddlewareFunc {
	return []echo.MiddlewareFunc{
		AuthCookie(parser, role),
		TokenVersionGuard(users),
		RoleGuard(role),
	}
}
