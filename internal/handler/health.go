package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/deppfellow/student-results/internal/middleware"
	"github.com/deppfellow/student-results/internal/server"
)

// defaultHealthTimeout bounds the database ping when no observability
// config is present.
const defaultHealthTimeout = 5 * time.Second

// HealthHandler serves /status for load balancers and uptime monitors.
type HealthHandler struct {
	Handler
}

func NewHealthHandler(s *server.Server) *HealthHandler {
	return &HealthHandler{
		Handler: NewHandler(s),
	}
}

// CheckHealth pings the database. 200 when it answers, 503 otherwise.
// With health checks disabled it only reports that the process is up.
func (h *HealthHandler) CheckHealth(c echo.Context) error {
	start := time.Now()

	logger := middleware.GetLogger(c).With().
		Str("operation", "health_check").
		Logger()

	checks := map[string]interface{}{}
	response := map[string]interface{}{
		"status":      "healthy",
		"timestamp":   time.Now().UTC(),
		"environment": h.server.Config.Primary.Env,
		"checks":      checks,
	}

	timeout := defaultHealthTimeout
	if obs := h.server.Config.Observability; obs != nil {
		if !obs.HealthChecks.Enabled {
			return c.JSON(http.StatusOK, response)
		}
		if obs.HealthChecks.Timeout > 0 {
			timeout = obs.HealthChecks.Timeout
		}
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), timeout)
	defer cancel()

	dbStart := time.Now()
	if err := h.server.DB.Ping(ctx); err != nil {
		checks["database"] = map[string]interface{}{
			"status":        "unhealthy",
			"response_time": time.Since(dbStart).String(),
			"error":         err.Error(),
		}
		response["status"] = "unhealthy"

		logger.Error().
			Err(err).
			Dur("response_time", time.Since(dbStart)).
			Msg("database health check failed")

		h.recordFailure(map[string]interface{}{
			"check_type":        "database",
			"operation":         "health_check",
			"error_type":        "database_unhealthy",
			"response_time_ms":  time.Since(dbStart).Milliseconds(),
			"total_duration_ms": time.Since(start).Milliseconds(),
			"error_message":     err.Error(),
		})

		return c.JSON(http.StatusServiceUnavailable, response)
	}

	checks["database"] = map[string]interface{}{
		"status":        "healthy",
		"response_time": time.Since(dbStart).String(),
	}

	logger.Debug().
		Dur("total_duration", time.Since(start)).
		Msg("health check passed")

	return c.JSON(http.StatusOK, response)
}

// recordFailure sends a HealthCheckError custom event when New Relic
// is configured.
func (h *HealthHandler) recordFailure(attrs map[string]interface{}) {
	if h.server.LoggerService == nil || h.server.LoggerService.GetApplication() == nil {
		return
	}
	h.server.LoggerService.GetApplication().RecordCustomEvent("HealthCheckError", attrs)
}
