package handler

import (
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/templui/microblog/internal/middleware"
	"github.com/templui/microblog/internal/model"
	"github.com/templui/microblog/internal/service"
	"github.com/templui/microblog/internal/ui/pages"
)

const defaultRedirect = "/index"

// localPath returns next when it is a path on this site, else /index.
func localPath(next string) string {
	if next == "" || !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") || strings.HasPrefix(next, `/\`) {
		return defaultRedirect
	}
	u, err := url.Parse(next)
	if err != nil || u.Scheme != "" || u.Host != "" {
		return defaultRedirect
	}
	return next
}

// pageParam reads the 1-based ?page= query parameter.
func pageParam(r *http.Request) int {
	page, err := strconv.Atoi(r.URL.Query().Get("page"))
	if err != nil || page < 1 {
		return 1
	}
	return page
}

func timeline(page *service.PostPage) pages.Timeline {
	return pages.Timeline{
		Posts:   page.Posts,
		Page:    page.Page,
		HasPrev: page.HasPrev,
		HasNext: page.HasNext,
	}
}

type errorHandler struct {
	reporter *service.ErrorReporter
}

func (h errorHandler) serverError(w http.ResponseWriter, r *http.Request, err error) {
	middleware.ReportServerError(w, r, h.reporter, err)
}

// currentUser is only called behind RequireAuth.
func currentUser(r *http.Request) *model.User {
	user, _ := model.CurrentUser(principal(r))
	return user
}
