package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"plantstore/internal/domain/model"
	"plantstore/internal/middleware"
	"plantstore/internal/repository"
	"plantstore/internal/usecase"
	auth "plantstore/internal/usecase/auth_usecase"
	"plantstore/internal/validator"

	"github.com/labstack/echo/v4"
)

type ErrorResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// 認証系のエラーとステータスの対応
var authErrorStatus = map[error]int{
	auth.ErrUserAlreadyRegistered: http.StatusBadRequest,
	auth.ErrInvalidCredentials:    http.StatusBadRequest,
	auth.ErrRoleMismatch:          http.StatusBadRequest,
	auth.ErrInvalidRole:           http.StatusBadRequest,
	auth.ErrInvalidOTP:            http.StatusBadRequest,
	auth.ErrOTPExpired:            http.StatusBadRequest,
	auth.ErrInvalidResetToken:     http.StatusBadRequest,
	auth.ErrPasswordMismatch:      http.StatusBadRequest,
	auth.ErrNotVerified:           http.StatusForbidden,
	auth.ErrUserNotFound:          http.StatusNotFound,
	auth.ErrMailDelivery:          http.StatusInternalServerError,
}

// statusOf はエラーを {status, message} に変換する。知らないエラーは500。
func statusOf(err error) (int, string) {
	if he, ok := usecase.AsHTTPError(err); ok {
		return he.Status, he.Message
	}

	var ve *validator.Error
	if errors.As(err, &ve) {
		return http.StatusBadRequest, ve.Message
	}

	for target, status := range authErrorStatus {
		if errors.Is(err, target) {
			return status, target.Error()
		}
	}

	var ee *echo.HTTPError
	if errors.As(err, &ee) {
		if msg, ok := ee.Message.(string); ok {
			return ee.Code, msg
		}
		return ee.Code, http.StatusText(ee.Code)
	}

	if errors.Is(err, repository.ErrNotFound) {
		return http.StatusNotFound, "not found"
	}
	return http.StatusInternalServerError, "Internal Server Error"
}

func writeError(c echo.Context, err error) error {
	if err == nil {
		return nil
	}
	status, msg := statusOf(err)
	if status >= http.StatusInternalServerError {
		slog.ErrorContext(c.Request().Context(), "request failed",
			"method", c.Request().Method, "path", c.Path(), "error", err)
	}
	return c.JSON(status, ErrorResponse{Success: false, Message: msg})
}

// ErrorHandler はechoの共通エラーハンドラ（ルート無し・bind失敗・panicなど）
func ErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}
	if werr := writeError(c, err); werr != nil {
		c.Logger().Error(werr)
	}
}

func success(c echo.Context, status int, payload echo.Map) error {
	body := echo.Map{"success": true}
	for k, v := range payload {
		body[k] = v
	}
	return c.JSON(status, body)
}

func badRequest(c echo.Context, msg string) error {
	return c.JSON(http.StatusBadRequest, ErrorResponse{Success: false, Message: msg})
}

func getUserIDFromContext(c echo.Context) (int64, bool) {
	id, ok := c.Get(middleware.CtxUserIDKey).(int64)
	if !ok || id <= 0 {
		return 0, false
	}
	return id, true
}

func getUserFromContext(c echo.Context) (*model.User, bool) {
	u, ok := c.Get(middleware.CtxUserKey).(*model.User)
	return u, ok && u != nil
}

func parseIDParam(c echo.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

func optionalInt64(c echo.Context, name string) (*int64, error) {
	v := c.QueryParam(name)
	if v == "" {
		return nil, nil
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return nil, err
	}
	return &n, nil
}

func optionalBool(c echo.Context, name string) (*bool, error) {
	v := c.QueryParam(name)
	if v == "" {
		return nil, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return nil, err
	}
	return &b, nil
}

// 日付だけ（2006-01-02）とRFC3339の両方を受ける。toの日付だけ指定はその日の終わりまで。
func optionalDate(c echo.Context, name string, endOfDay bool) (*time.Time, error) {
	v := c.QueryParam(name)
	if v == "" {
		return nil, nil
	}
	if t, err := time.Parse(time.RFC3339, v); err == nil {
		return &t, nil
	}
	t, err := time.Parse(time.DateOnly, v)
	if err != nil {
		return nil, err
	}
	if endOfDay {
		t = t.Add(24*time.Hour - time.Nanosecond)
	}
	return &t, nil
}

// 管理者・顧客の入口
type Gate struct {
	Parser middleware.TokenParser
	Users  repository.UserRepository
}

func (g Gate) Admin() []echo.MiddlewareFunc {
	return middleware.Scope(g.Parser, g.Users, model.RoleAdmin)
}

func (g Gate) Customer() []echo.MiddlewareFunc {
	return middleware.Scope(g.Parser, g.Users, model.RoleCustomer)
}
