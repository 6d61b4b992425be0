package router

import (
	"github.com/labstack/echo/v4"

	"github.com/deppfellow/student-results/internal/handler"
)

// registerSystemRoutes registers endpoints that are not part of the
// application itself.
func registerSystemRoutes(r *echo.Echo, h *handler.Handlers) {
	r.GET("/status", h.Health.CheckHealth)
}
