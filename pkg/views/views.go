package views

import (
	"embed"
	"html/template"
	"io"
	"time"

	"content-site/pkg/services"

	"github.com/dustin/go-humanize"
)

// templateFS contains the HTML templates bundled with the binary.
//
//go:embed templates/*.gohtml
var templateFS embed.FS

// Renderer holds the parsed page and component templates.
type Renderer struct {
	tmpl *template.Template
}

func New() (*Renderer, error) {
	tmpl, err := template.New("base").Funcs(template.FuncMap{
		"formatDate": formatDate,
		"isoDate":    isoDate,
		"humanTime":  humanTime,
		"slugTitle":  services.SlugTitle,
		"inc":        func(i int) int { return i + 1 },
		"bytes":      func(n int64) string { return humanize.Bytes(uint64(n)) },
	}).ParseFS(templateFS, "templates/*.gohtml")
	if err != nil {
		return nil, err
	}
	return &Renderer{tmpl: tmpl}, nil
}

// Template exposes the template set for gin's HTML renderer.
func (r *Renderer) Template() *template.Template {
	return r.tmpl
}

func (r *Renderer) Render(w io.Writer, name string, data any) error {
	return r.tmpl.ExecuteTemplate(w, name, data)
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("January 2, 2006")
}

func isoDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(time.DateOnly)
}

func humanTime(t time.Time) string {
	if t.IsZero() {
		return "never"
	}
	return humanize.Time(t)
}
