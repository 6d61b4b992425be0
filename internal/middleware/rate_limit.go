package middleware

import (
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"golang.org/x/time/rate"

	"github.com/deppfellow/student-results/internal/errs"
	"github.com/deppfellow/student-results/internal/server"
)

// RateLimitMiddleware throttles write requests per client IP.
type RateLimitMiddleware struct {
	server *server.Server
}

func NewRateLimitMiddleware(s *server.Server) *RateLimitMiddleware {
	return &RateLimitMiddleware{
		server: s,
	}
}

// Writes limits POST and PUT requests to server.rate_limit per second
// (burst server.rate_burst) per client IP. Reads are never limited.
// A zero rate disables the limiter.
func (r *RateLimitMiddleware) Writes() echo.MiddlewareFunc {
	cfg := r.server.Config.Server
	if cfg.RateLimit <= 0 {
		return func(next echo.HandlerFunc) echo.HandlerFunc {
			return next
		}
	}

	store := middleware.NewRateLimiterMemoryStoreWithConfig(middleware.RateLimiterMemoryStoreConfig{
		Rate:  rate.Limit(cfg.RateLimit),
		Burst: cfg.RateBurst,
	})

	return middleware.RateLimiterWithConfig(middleware.RateLimiterConfig{
		Skipper: func(c echo.Context) bool {
			method := c.Request().Method
			return method != echo.POST && method != echo.PUT
		},
		Store: store,
		IdentifierExtractor: func(c echo.Context) (string, error) {
			return c.RealIP(), nil
		},
		DenyHandler: func(c echo.Context, identifier string, err error) error {
			r.RecordRateLimitHit(c.Path())
			GetLogger(c).Warn().Str("identifier", identifier).Msg("rate limit exceeded")
			return errs.NewTooManyRequestsError("Too many submissions. Please wait a moment and try again.")
		},
	})
}

// RecordRateLimitHit records a New Relic custom event when an
// application is configured.
func (r *RateLimitMiddleware) RecordRateLimitHit(endpoint string) {
	if r.server.LoggerService != nil && r.server.LoggerService.GetApplication() != nil {
		r.server.LoggerService.GetApplication().RecordCustomEvent("RateLimitHit", map[string]interface{}{
			"endpoint": endpoint,
		})
	}
}
