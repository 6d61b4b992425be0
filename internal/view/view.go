// Package view renders the HTML pages.
//
// Templates are embedded in the binary. Every page is parsed together
// with layout.html, which defines the document shell and the flash
// message area; the page file defines the "content" block.
package view

import (
	"embed"
	"html/template"
	"io"
	"io/fs"
	"path"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

//go:embed templates/*.html
var templateFS embed.FS

const layoutFile = "templates/layout.html"

// Flash categories. They double as alert CSS classes in the layout.
const (
	FlashSuccess = "success"
	FlashWarning = "warning"
	FlashDanger  = "danger"
)

// Flash is a one-shot message shown on the next rendered page.
type Flash struct {
	Category string
	Message  string
}

// Page is the data every template receives.
type Page struct {
	Title   string
	Active  string
	Flashes []Flash
	Data    any
}

// ErrorData is the Data of the "error" page.
type ErrorData struct {
	Status  int
	Message string
}

// Renderer implements echo.Renderer over the embedded templates.
type Renderer struct {
	pages map[string]*template.Template
}

var _ echo.Renderer = (*Renderer)(nil)

var funcs = template.FuncMap{
	"percent": func(v float64) string {
		return strconv.FormatFloat(v, 'f', 1, 64) + "%"
	},
}

// New parses the layout and every page template.
func New() (*Renderer, error) {
	layout, err := template.New("layout.html").Funcs(funcs).ParseFS(templateFS, layoutFile)
	if err != nil {
		return nil, errors.Wrap(err, "parse layout")
	}

	files, err := fs.Glob(templateFS, "templates/*.html")
	if err != nil {
		return nil, errors.Wrap(err, "list templates")
	}

	pages := make(map[string]*template.Template, len(files))
	for _, file := range files {
		if file == layoutFile {
			continue
		}

		t, err := layout.Clone()
		if err != nil {
			return nil, errors.Wrapf(err, "clone layout for %s", file)
		}
		if _, err := t.ParseFS(templateFS, file); err != nil {
			return nil, errors.Wrapf(err, "parse %s", file)
		}

		pages[strings.TrimSuffix(path.Base(file), ".html")] = t
	}

	return &Renderer{pages: pages}, nil
}

// Render executes the page called name. data should be a Page.
func (r *Renderer) Render(w io.Writer, name string, data interface{}, c echo.Context) error {
	t, ok := r.pages[name]
	if !ok {
		return errors.Errorf("template %q not found", name)
	}
	return t.ExecuteTemplate(w, "layout.html", data)
}
