// Package web renders the server-side pages and owns the polling and
// timeout constants the page script runs with.
package web

import (
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"path"
	"time"

	"storeforge/api/models"
)

// StatusColor maps a task status onto the badge palette. Unknown statuses
// render neutral rather than erroring.
func StatusColor(status models.TaskStatus) string {
	switch status {
	case models.StatusCompleted:
		return "success"
	case models.StatusFailed:
		return "danger"
	case models.StatusProcessing, models.StatusRunning:
		return "info"
	case models.StatusPending:
		return "warning"
	default:
		return "neutral"
	}
}

var funcMap = template.FuncMap{
	// Accepts any of the string-kinded status types the pages render.
	"statusColor": func(status any) string {
		return StatusColor(models.TaskStatus(fmt.Sprint(status)))
	},
	"formatTime": func(t time.Time) string {
		return t.Format("Jan 2, 2006 15:04")
	},
	"pollAttr": func(hasURL bool, units int) string {
		return NewPollConfig(hasURL, units).Attr()
	},
	"money": func(v float64) string {
		return fmt.Sprintf("%.2f", v)
	},
	"pct": func(v float64) string {
		return fmt.Sprintf("%.0f%%", v)
	},
	// ratio renders a 0-1 score as a percentage.
	"ratio": func(v float64) string {
		return fmt.Sprintf("%.0f%%", v*100)
	},
	"recommendationColor": func(rec string) string {
		switch rec {
		case "excellent", "good":
			return "success"
		case "fair":
			return "warning"
		case "poor", "avoid":
			return "danger"
		default:
			return "neutral"
		}
	},
}

// Flash is a one-shot banner rendered by the layout.
type Flash struct {
	Kind    string
	Message string
}

// Renderer holds one parsed template per page, each paired with the shared
// layout.
type Renderer struct {
	pages map[string]*template.Template
}

func NewRenderer() (*Renderer, error) {
	names, err := fs.Glob(assets, "templates/pages/*.html")
	if err != nil {
		return nil, err
	}

	pages := make(map[string]*template.Template, len(names))
	for _, name := range names {
		tmpl, err := template.New("layout.html").Funcs(funcMap).
			ParseFS(assets, "templates/layout.html", name)
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", name, err)
		}
		pages[path.Base(name)] = tmpl
	}
	return &Renderer{pages: pages}, nil
}

// Render writes one page. Data is whatever the page's content block needs.
func (r *Renderer) Render(w io.Writer, page string, data any) error {
	tmpl, ok := r.pages[page]
	if !ok {
		return fmt.Errorf("unknown page %q", page)
	}
	return tmpl.ExecuteTemplate(w, "layout.html", data)
}
