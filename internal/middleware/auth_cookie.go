package middleware

import (
	"net/http"

	"plantstore/internal/domain/model"
	"plantstore/internal/infra/token"

	"github.com/labstack/echo/v4"
)

const (
	CtxUserIDKey       = "user_id"       // int64
	CtxUserRoleKey     = "user_role"     // model.Role
	CtxTokenVersionKey = "token_version" // int
	CtxUserKey         = "user"          // *model.User
)

const (
	AdminCookie    = "adminToken"
	CustomerCookie = "customerToken"
)

// トークン検証の約束
type TokenParser interface {
	Parse(raw string) (token.Subject, error)
}

// CookieName はロールごとのcookie名。
func CookieName(role model.Role) string {
	switch role {
	case model.RoleAdmin:
		return AdminCookie
	case model.RoleCustomer:
		return CustomerCookie
	default:
		return ""
	}
}

type errorResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

func errorJSON(msg string) errorResponse {
	return errorResponse{Success: false, Message: msg}
}

// AuthCookie はロールごとのcookieからJWTを取り出して検証する。
func AuthCookie(parser TokenParser, role model.Role) echo.MiddlewareFunc {
	name := CookieName(role)
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ck, err := c.Cookie(name)
			if err != nil || ck.Value == "" {
				return c.JSON(http.StatusUnauthorized, errorJSON(string(role)+" is not authenticated"))
			}

			sub, err := parser.Parse(ck.Value)
			if err != nil {
				return c.JSON(http.StatusUnauthorized, errorJSON("Invalid or expired token"))
			}

			//contextへ保存
			c.Set(CtxUserIDKey, sub.UserID)
			c.Set(CtxUserRoleKey, sub.Role)
			c.Set(CtxTokenVersionKey, sub.TokenVersion)

			return next(c)
		}
	}
}
