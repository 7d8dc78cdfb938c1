package handler

import (
	"errors"
	"net/http"

	"github.com/templui/microblog/internal/ctxkeys"
	"github.com/templui/microblog/internal/flash"
	"github.com/templui/microblog/internal/model"
	"github.com/templui/microblog/internal/service"
	"github.com/templui/microblog/internal/ui"
	"github.com/templui/microblog/internal/ui/pages"
	"github.com/templui/microblog/internal/validation"
)

type HomeHandler struct {
	errorHandler
	postService *service.PostService
}

func NewHomeHandler(postService *service.PostService, reporter *service.ErrorReporter) *HomeHandler {
	return &HomeHandler{
		errorHandler: errorHandler{reporter: reporter},
		postService:  postService,
	}
}

func principal(r *http.Request) model.Principal {
	return ctxkeys.Principal(r.Context())
}

// Index shows the current user's timeline and the post form.
func (h *HomeHandler) Index(w http.ResponseWriter, r *http.Request) {
	h.renderIndex(w, r, "", "")
}

func (h *HomeHandler) CreatePost(w http.ResponseWriter, r *http.Request) {
	user := currentUser(r)
	body := r.FormValue("body")

	_, err := h.postService.Create(r.Context(), user, body)
	if err != nil {
		var errs validation.Errors
		if errors.As(err, &errs) {
			h.renderIndex(w, r, body, errs["body"])
			return
		}
		h.serverError(w, r, err)
		return
	}

	flash.Add(w, r, "Your post is now live!")
	http.Redirect(w, r, "/index", http.StatusSeeOther)
}

func (h *HomeHandler) renderIndex(w http.ResponseWriter, r *http.Request, body, bodyError string) {
	user := currentUser(r)

	page, err := h.postService.ListByAuthor(r.Context(), user, pageParam(r))
	if err != nil {
		h.serverError(w, r, err)
		return
	}

	ui.Render(w, r, pages.Index(pages.IndexProps{
		User:     user,
		Timeline: timeline(page),
		Body:     body,
		Error:    bodyError,
	}))
}

func (h *HomeHandler) NotFound(w http.ResponseWriter, r *http.Request) {
	ui.RenderStatus(w, r, http.StatusNotFound, pages.NotFound())
}

func (h *HomeHandler) Healthz(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("ok"))
}
