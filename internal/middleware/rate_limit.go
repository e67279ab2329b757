package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
)

type Limiter interface {
	Allow(ctx context.Context, key string, max int64, window time.Duration) (bool, time.Duration, error)
}

// RateLimit はIPごとにwindow内max回まで通す。Redisが落ちているときは通す。
func RateLimit(l Limiter, prefix string, max int64, window time.Duration, log *slog.Logger) echo.MiddlewareFunc {
	if log == nil {
		log = slog.Default()
	}
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ctx := c.Request().Context()
			key := "rl:" + prefix + ":" + c.RealIP()

			ok, retry, err := l.Allow(ctx, key, max, window)
			if err != nil {
				log.WarnContext(ctx, "rate limiter unavailable", "key", key, "error", err)
				return next(c)
			}
			if !ok {
				c.Response().Header().Set("Retry-After", strconv.Itoa(int(retry.Seconds())))
				return c.JSON(http.StatusTooManyRequests, errorJSON("Too many requests, please try again later"))
			}
			return next(c)
		}
	}
}
