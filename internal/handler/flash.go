package handler

import (
	"encoding/gob"
	"net/http"

	"github.com/gorilla/sessions"
	"github.com/labstack/echo-contrib/session"
	"github.com/labstack/echo/v4"

	"github.com/deppfellow/student-results/internal/errs"
	"github.com/deppfellow/student-results/internal/middleware"
	"github.com/deppfellow/student-results/internal/validation"
	"github.com/deppfellow/student-results/internal/view"
)

// flashSession is the cookie holding pending flash messages.
const flashSession = "flash"

func init() {
	gob.Register(view.Flash{})
}

// getSession returns the flash session. A cookie that fails to decode
// (rotated secret, tampering) yields a fresh session, not an error.
func getSession(c echo.Context) (*sessions.Session, error) {
	sess, err := session.Get(flashSession, c)
	if sess != nil {
		if err != nil {
			middleware.GetLogger(c).Debug().Err(err).Msg("discarding unreadable flash cookie")
		}
		return sess, nil
	}
	return nil, err
}

// addFlash queues f for the next rendered page.
func addFlash(c echo.Context, f view.Flash) error {
	sess, err := getSession(c)
	if err != nil {
		return err
	}
	sess.AddFlash(f)
	return sess.Save(c.Request(), c.Response())
}

// popFlashes drains the queued messages. It must run before the body
// is written since it rewrites the cookie.
func popFlashes(c echo.Context) []view.Flash {
	sess, err := getSession(c)
	if err != nil {
		middleware.GetLogger(c).Warn().Err(err).Msg("flash session unavailable")
		return nil
	}

	raw := sess.Flashes()
	if len(raw) == 0 {
		return nil
	}

	flashes := make([]view.Flash, 0, len(raw))
	for _, v := range raw {
		if f, ok := v.(view.Flash); ok {
			flashes = append(flashes, f)
		}
	}

	if err := sess.Save(c.Request(), c.Response()); err != nil {
		middleware.GetLogger(c).Warn().Err(err).Msg("failed to clear flash messages")
	}
	return flashes
}

// flashFor turns a failed request into the message shown to the user.
//
// Integrity violations are warnings, everything else is danger. A field
// listed in invalid replaces the generic validation description.
func flashFor(err error, invalid map[string]string) view.Flash {
	httpErr, ok := errs.As(err)
	if !ok {
		return view.Flash{Category: view.FlashDanger, Message: http.StatusText(http.StatusInternalServerError)}
	}

	switch httpErr.Status {
	case http.StatusBadRequest:
		for _, fe := range httpErr.Errors {
			if msg, ok := invalid[fe.Field]; ok {
				return view.Flash{Category: view.FlashDanger, Message: msg}
			}
		}
		if len(httpErr.Errors) > 0 {
			return view.Flash{Category: view.FlashDanger, Message: "Invalid input: " + validation.Describe(httpErr.Errors) + "."}
		}
		return view.Flash{Category: view.FlashDanger, Message: httpErr.Message}

	case http.StatusConflict:
		return view.Flash{Category: view.FlashWarning, Message: httpErr.Message}

	default:
		return view.Flash{Category: view.FlashDanger, Message: httpErr.Message}
	}
}

// render writes a page, draining queued flashes into it first. extra
// flashes come from the current request (a failed read, for example).
func render(c echo.Context, name string, page view.Page, extra ...view.Flash) error {
	page.Flashes = append(popFlashes(c), extra...)
	return c.Render(http.StatusOK, name, page)
}
