package middleware

import (
	"fmt"
	"net/http"

	"github.com/templui/microblog/internal/ctxkeys"
	"github.com/templui/microblog/internal/service"
	"github.com/templui/microblog/internal/ui"
	"github.com/templui/microblog/internal/ui/pages"
)

// Recover turns a panicking handler into a reported 500 page. It runs
// outside the auth gate, so it leaves a principal slot in the context for
// the gate to fill and the report to read.
func Recover(reporter *service.ErrorReporter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			r = r.WithContext(ctxkeys.WithPrincipalSlot(r.Context()))

			defer func() {
				rec := recover()
				if rec == nil {
					return
				}
				if rec == http.ErrAbortHandler {
					panic(rec)
				}

				err, ok := rec.(error)
				if !ok {
					err = fmt.Errorf("panic: %v", rec)
				}

				ReportServerError(w, r, reporter, err)
			}()

			next.ServeHTTP(w, r)
		})
	}
}

// ReportServerError reports err and renders the 500 page.
func ReportServerError(w http.ResponseWriter, r *http.Request, reporter *service.ErrorReporter, err error) {
	report := service.ErrorReport{
		Err:       err,
		Method:    r.Method,
		Path:      r.URL.Path,
		RequestID: ctxkeys.RequestID(r.Context()),
	}
	if user := ctxkeys.User(r.Context()); user != nil {
		report.UserID = user.ID
	}
	reporter.Report(r.Context(), report)

	ui.RenderStatus(w, r, http.StatusInternalServerError, pages.ServerError())
}
