package handler

import (
	"net/http"
	"time"

	"plantstore/internal/domain/model"
	"plantstore/internal/middleware"
	auth "plantstore/internal/usecase/auth_usecase"

	"github.com/labstack/echo/v4"
)

type CookieConfig struct {
	Secure bool
	TTL    time.Duration
}

type AuthHandler struct {
	uc      *auth.AuthUsecase
	cookie  CookieConfig
	limiter echo.MiddlewareFunc
}

// DIコンストラクタ。limiterはnilなら制限なし
func NewAuthHandler(uc *auth.AuthUsecase, cookie CookieConfig, limiter echo.MiddlewareFunc) *AuthHandler {
	return &AuthHandler{uc: uc, cookie: cookie, limiter: limiter}
}

type registerRequest struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	Password  string `json:"password"`
	Role      string `json:"role"`
}

type verifyOTPRequest struct {
	Email string `json:"email"`
	OTP   string `json:"otp"`
}

type emailRequest struct {
	Email string `json:"email"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

type resetPasswordRequest struct {
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirmPassword"`
}

func (h *AuthHandler) RegisterRoutes(api *echo.Group, gate Gate) {
	g := api.Group("/user")

	var limited []echo.MiddlewareFunc
	if h.limiter != nil {
		limited = append(limited, h.limiter)
	}

	g.POST("/register", h.register, limited...)
	g.POST("/verify-otp", h.verifyOTP, limited...)
	g.POST("/resend-otp", h.resendOTP, limited...)
	g.POST("/login", h.login, limited...)
	g.POST("/password/forgot", h.forgotPassword, limited...)
	g.PUT("/password/reset/:token", h.resetPassword, limited...)

	g.POST("/admin/logout", h.logout(model.RoleAdmin), gate.Admin()...)
	g.POST("/customer/logout", h.logout(model.RoleCustomer), gate.Customer()...)
	g.GET("/admin/me", h.me, gate.Admin()...)
	g.GET("/customer/me", h.me, gate.Customer()...)
}

func (h *AuthHandler) register(c echo.Context) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}

	user, err := h.uc.Register(c.Request().Context(), auth.RegisterInput{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Phone:     req.Phone,
		Password:  req.Password,
		Role:      req.Role,
	})
	if err != nil {
		return writeError(c, err)
	}

	return success(c, http.StatusOK, echo.Map{
		"message": "Verification code sent to " + user.Email,
	})
}

func (h *AuthHandler) verifyOTP(c echo.Context) error {
	var req verifyOTPRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}

	sess, err := h.uc.VerifyOTP(c.Request().Context(), req.Email, req.OTP)
	if err != nil {
		return writeError(c, err)
	}

	return h.sendSession(c, sess, "Account verified")
}

func (h *AuthHandler) resendOTP(c echo.Context) error {
	var req emailRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}

	if err := h.uc.ResendOTP(c.Request().Context(), req.Email); err != nil {
		return writeError(c, err)
	}
	return success(c, http.StatusOK, echo.Map{"message": "Verification code resent"})
}

func (h *AuthHandler) login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}

	sess, err := h.uc.Login(c.Request().Context(), req.Email, req.Password, req.Role)
	if err != nil {
		//失敗時はcookieを出さない
		return writeError(c, err)
	}

	return h.sendSession(c, sess, "Logged in successfully")
}

func (h *AuthHandler) logout(role model.Role) echo.HandlerFunc {
	return func(c echo.Context) error {
		c.SetCookie(&http.Cookie{
			Name:     middleware.CookieName(role),
			Value:    "",
			Path:     "/",
			Expires:  time.Unix(0, 0),
			MaxAge:   -1,
			HttpOnly: true,
			Secure:   h.cookie.Secure,
			SameSite: h.sameSite(),
		})
		return success(c, http.StatusOK, echo.Map{"message": string(role) + " logged out successfully"})
	}
}

func (h *AuthHandler) me(c echo.Context) error {
	user, ok := getUserFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Message: "unauthorized"})
	}
	return success(c, http.StatusOK, echo.Map{"user": user})
}

func (h *AuthHandler) forgotPassword(c echo.Context) error {
	var req emailRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}

	if err := h.uc.ForgotPassword(c.Request().Context(), req.Email); err != nil {
		return writeError(c, err)
	}
	return success(c, http.StatusOK, echo.Map{"message": "Password reset link sent to your email"})
}

func (h *AuthHandler) resetPassword(c echo.Context) error {
	var req resetPasswordRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}

	sess, err := h.uc.ResetPassword(c.Request().Context(), c.Param("token"), req.Password, req.ConfirmPassword)
	if err != nil {
		return writeError(c, err)
	}
	return h.sendSession(c, sess, "Password reset successfully")
}

// ロールに対応するcookieだけをセットする
func (h *AuthHandler) sendSession(c echo.Context, sess auth.Session, msg string) error {
	name := middleware.CookieName(sess.User.Role)
	if name == "" {
		return writeError(c, auth.ErrInvalidRole)
	}

	expires := time.Now().Add(h.cookie.TTL)
	if sess.ExpiresAt.Before(expires) {
		expires = sess.ExpiresAt
	}

	c.SetCookie(&http.Cookie{
		Name:     name,
		Value:    sess.Token,
		Path:     "/",
		Expires:  expires,
		HttpOnly: true,
		Secure:   h.cookie.Secure,
		SameSite: h.sameSite(),
	})

	return success(c, http.StatusOK, echo.Map{
		"message": msg,
		"user":    sess.User,
	})
}

// 別オリジンのフロントからcookieを送るにはSecure+None
func (h *AuthHandler) sameSite() http.SameSite {
	if h.cookie.Secure {
		return http.SameSiteNoneMode
	}
	return http.SameSiteLaxMode
}
