package web

import (
	"bytes"
	"embed"
	"html/template"
	"log/slog"
	"net/http"
	"time"

	"physio/internal/adapters/http/middleware"
	"physio/internal/domain/schedule"

	"github.com/gorilla/csrf"
	"github.com/yuin/goldmark"
	goldmarkHTML "github.com/yuin/goldmark/renderer/html"
)

//go:embed templates/*.html
var templateFS embed.FS

// timeNow is a variable for testability.
var timeNow = time.Now

// mdRenderer is a goldmark instance configured for safe HTML output.
// Raw HTML in markdown input is escaped (WithUnsafe is NOT set).
var mdRenderer = goldmark.New(
	goldmark.WithRendererOptions(
		goldmarkHTML.WithHardWraps(),
	),
)

// renderMarkdown converts exercise instructions to HTML, falling back to escaped text.
func renderMarkdown(md string) template.HTML {
	var buf bytes.Buffer
	if err := mdRenderer.Convert([]byte(md), &buf); err != nil {
		return template.HTML(template.HTMLEscapeString(md))
	}
	return template.HTML(buf.String())
}

// internalError logs the real error and returns a generic message to the client.
func internalError(w http.ResponseWriter, err error) {
	slog.Error("internal_error", "error", err.Error())
	http.Error(w, "internal server error", http.StatusInternalServerError)
}

// renderTemplate executes layout.html together with the named page template.
func renderTemplate(w http.ResponseWriter, r *http.Request, templateName string, data any) {
	sess, loggedIn := middleware.GetSessionFromContext(r.Context())

	funcMap := template.FuncMap{
		"isLoggedIn":     func() bool { return loggedIn },
		"currentName":    func() string { return sess.DisplayName },
		"csrfField":      func() template.HTML { return csrf.TemplateField(r) },
		"renderMarkdown": renderMarkdown,
		"clock":          func(t time.Time) string { return t.Format(schedule.ClockLayout) },
		"day":            func(t time.Time) string { return t.Format("Mon 2 Jan 2006") },
	}

	tpl, err := template.New("layout.html").Funcs(funcMap).ParseFS(templateFS,
		"templates/layout.html", "templates/"+templateName)
	if err != nil {
		internalError(w, err)
		return
	}
	var buf bytes.Buffer
	if err := tpl.Execute(&buf, data); err != nil {
		internalError(w, err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	buf.WriteTo(w)
}
