package handler

import (
	"github.com/labstack/echo/v4"

	"github.com/deppfellow/student-results/internal/server"
	"github.com/deppfellow/student-results/internal/view"
)

// PageHandler serves pages with no data of their own.
type PageHandler struct {
	Handler
}

func NewPageHandler(s *server.Server) *PageHandler {
	return &PageHandler{Handler: NewHandler(s)}
}

// Index renders the landing page.
func (h *PageHandler) Index(c echo.Context) error {
	return render(c, "index", view.Page{Title: "Home"})
}
