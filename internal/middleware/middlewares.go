package middleware

import (
	"github.com/newrelic/go-agent/v3/newrelic"

	"github.com/deppfellow/student-results/internal/server"
)

// Middlewares groups every middleware component so the router builds
// them once.
type Middlewares struct {
	// Global holds CORS, request logging, recovery, secure headers,
	// sessions and the global error handler.
	Global *GlobalMiddlewares

	// ContextEnhancer attaches the request-scoped logger.
	ContextEnhancer *ContextEnhancer

	// Tracing is a no-op unless New Relic is configured.
	Tracing *TracingMiddleware

	// RateLimit throttles form and API writes.
	RateLimit *RateLimitMiddleware
}

func NewMiddlewares(s *server.Server) *Middlewares {
	var nrApp *newrelic.Application
	if s.LoggerService != nil {
		nrApp = s.LoggerService.GetApplication()
	}

	return &Middlewares{
		Global:          NewGlobalMiddlewares(s),
		ContextEnhancer: NewContextEnhancer(s),
		Tracing:         NewTracingMiddleware(s, nrApp),
		RateLimit:       NewRateLimitMiddleware(s),
	}
}
