package ui

import (
	"bytes"
	"log/slog"
	"net/http"

	"github.com/a-h/templ"
	"github.com/templui/microblog/internal/ctxkeys"
	"github.com/templui/microblog/internal/flash"
)

func Render(w http.ResponseWriter, r *http.Request, c templ.Component) {
	RenderStatus(w, r, http.StatusOK, c)
}

// RenderStatus renders a full page with the given status. Pending flash
// messages are consumed and handed to the layout. The page is rendered
// into a buffer first so a failing component never leaves half a page.
func RenderStatus(w http.ResponseWriter, r *http.Request, status int, c templ.Component) {
	ctx := r.Context()
	if messages := flash.Pop(w, r); len(messages) > 0 {
		ctx = ctxkeys.WithFlashes(ctx, messages)
	}

	var buf bytes.Buffer
	err := c.Render(ctx, &buf)
	if err != nil {
		slog.Error("render failed", "error", err, "path", r.URL.Path)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, err = buf.WriteTo(w)
	if err != nil {
		slog.Debug("write response failed", "error", err)
	}
}
