package main

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"path"

	"eventadmin/internal/domain/admindashboard"
)

//go:embed templates/*.html
var templateFS embed.FS

const baseLayout = "templates/base.layout.html"

type pageData struct {
	Title     string
	CSRFToken string
	Notices   []admindashboard.Notice
	View      *admindashboard.View
	Email     string
}

var templateFuncs = template.FuncMap{
	"loading": func(p admindashboard.Phase) bool { return p == admindashboard.PhaseLoading },
}

// newTemplateCache parses every *.page.html together with the base layout,
// keyed by the page file name.
func newTemplateCache() (map[string]*template.Template, error) {
	pages, err := fs.Glob(templateFS, "templates/*.page.html")
	if err != nil {
		return nil, err
	}

	cache := make(map[string]*template.Template, len(pages))
	for _, page := range pages {
		name := path.Base(page)

		ts, err := template.New(name).Funcs(templateFuncs).ParseFS(templateFS, baseLayout, page)
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", name, err)
		}
		cache[name] = ts
	}

	return cache, nil
}

func (app *application) render(w http.ResponseWriter, r *http.Request, status int, page string, data *pageData) {
	ts, ok := app.templates[page]
	if !ok {
		app.serverErrorPage(w, r, fmt.Errorf("template %s does not exist", page))
		return
	}

	buf := new(bytes.Buffer)
	if err := ts.ExecuteTemplate(buf, "base", data); err != nil {
		app.serverErrorPage(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	buf.WriteTo(w)
}
