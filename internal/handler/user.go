package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/templui/microblog/internal/flash"
	"github.com/templui/microblog/internal/markdown"
	"github.com/templui/microblog/internal/repository"
	"github.com/templui/microblog/internal/service"
	"github.com/templui/microblog/internal/ui"
	"github.com/templui/microblog/internal/ui/pages"
	"github.com/templui/microblog/internal/validation"
)

type UserHandler struct {
	errorHandler
	userService *service.UserService
	postService *service.PostService
	parser      *markdown.Parser
}

func NewUserHandler(userService *service.UserService, postService *service.PostService, parser *markdown.Parser, reporter *service.ErrorReporter) *UserHandler {
	return &UserHandler{
		errorHandler: errorHandler{reporter: reporter},
		userService:  userService,
		postService:  postService,
		parser:       parser,
	}
}

// Profile shows a user's page with their posts.
func (h *UserHandler) Profile(w http.ResponseWriter, r *http.Request) {
	nickname := r.PathValue("nickname")

	user, err := h.userService.ByNickname(r.Context(), nickname)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			flash.Add(w, r, "User "+nickname+" not found.")
			http.Redirect(w, r, "/index", http.StatusSeeOther)
			return
		}
		h.serverError(w, r, err)
		return
	}

	page, err := h.postService.ListByAuthor(r.Context(), user, pageParam(r))
	if err != nil {
		h.serverError(w, r, err)
		return
	}

	aboutMe := ""
	if about := user.About(); about != "" {
		aboutMe, err = h.parser.ParseString(about)
		if err != nil {
			slog.Warn("failed to render about me", "error", err, "user_id", user.ID)
		}
	}

	current := currentUser(r)
	ui.Render(w, r, pages.User(pages.UserProps{
		User:     user,
		AboutMe:  aboutMe,
		IsSelf:   current != nil && current.ID == user.ID,
		Timeline: timeline(page),
	}))
}

func (h *UserHandler) EditPage(w http.ResponseWriter, r *http.Request) {
	user := currentUser(r)
	ui.Render(w, r, pages.Edit(pages.EditProps{
		Nickname: user.Nickname,
		AboutMe:  user.About(),
	}))
}

func (h *UserHandler) Edit(w http.ResponseWriter, r *http.Request) {
	user := currentUser(r)
	nickname := r.FormValue("nickname")
	aboutMe := r.FormValue("about_me")

	err := h.userService.UpdateProfile(r.Context(), user, nickname, aboutMe)
	if err != nil {
		var errs validation.Errors
		if errors.As(err, &errs) {
			ui.Render(w, r, pages.Edit(pages.EditProps{
				Nickname: nickname,
				AboutMe:  aboutMe,
				Errors:   errs,
			}))
			return
		}
		h.serverError(w, r, err)
		return
	}

	flash.Add(w, r, "Your changes have been saved.")
	http.Redirect(w, r, "/edit", http.StatusSeeOther)
}
