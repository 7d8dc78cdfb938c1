package service

import (
	"context"
	"log/slog"
	"strconv"
	"time"
)

// ErrorReport describes an unhandled failure while serving a request.
type ErrorReport struct {
	Err       error
	Method    string
	Path      string
	RequestID string
	UserID    int64
	Time      time.Time
}

func (r ErrorReport) userID() string {
	if r.UserID == 0 {
		return "anonymous"
	}
	return strconv.FormatInt(r.UserID, 10)
}

// ErrorReporter is the operational channel for unhandled errors: every
// report is logged at ERROR (fanned out to Sentry by the logger) and mailed
// to the configured administrators.
type ErrorReporter struct {
	emailService *EmailService
	adminEmails  []string
}

func NewErrorReporter(emailService *EmailService, adminEmails []string) *ErrorReporter {
	return &ErrorReporter{
		emailService: emailService,
		adminEmails:  adminEmails,
	}
}

func (r *ErrorReporter) Report(ctx context.Context, report ErrorReport) {
	if report.Time.IsZero() {
		report.Time = time.Now()
	}

	slog.ErrorContext(ctx, "unhandled server error",
		"error", report.Err,
		"method", report.Method,
		"path", report.Path,
		"request_id", report.RequestID,
		"user_id", report.UserID,
	)

	if r.emailService == nil || len(r.adminEmails) == 0 {
		return
	}

	err := r.emailService.SendErrorReport(context.WithoutCancel(ctx), r.adminEmails, report)
	if err != nil {
		slog.Warn("failed to email error report", "error", err, "request_id", report.RequestID)
	}
}
