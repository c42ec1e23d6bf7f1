package http

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

var errRateLimited = echo.NewHTTPError(http.StatusTooManyRequests, "Too many requests, please try again later.")

func RateLimitMiddleware(limiter *RateLimiter) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if !limiter.Allow(c.RealIP()) {
				return errRateLimited
			}
			return next(c)
		}
	}
}
