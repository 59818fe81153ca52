// internal/app/features/errors/logger.go
package errors

import (
	"net/http"

	"github.com/dalemusser/yatube/internal/app/system/render"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ErrorLogger logs handler failures and renders the matching error page.
// Each server error gets a reference id that appears both in the log line
// and on the page, so a user report can be matched to the log.
type ErrorLogger struct {
	Render render.Func
	log    *zap.Logger
}

// NewErrorLogger builds an ErrorLogger that renders through the template engine.
func NewErrorLogger(logger *zap.Logger) *ErrorLogger {
	return &ErrorLogger{Render: render.HTML, log: logger}
}

// LogServerError logs err and renders a 500 page with userMsg.
func (l *ErrorLogger) LogServerError(w http.ResponseWriter, r *http.Request, msg string, err error, userMsg, backURL string) {
	ref := uuid.NewString()
	l.log.Error(msg,
		zap.Error(err),
		zap.String("error_ref", ref),
		zap.String("method", r.Method),
		zap.String("path", r.URL.Path),
	)
	if userMsg == "" {
		userMsg = "Something went wrong. Please try again."
	}
	renderStatus(l.Render, w, r, http.StatusInternalServerError, "Server error", userMsg, backURL, ref)
}

// LogBadRequest logs err at warn level and renders a 400 page with userMsg.
func (l *ErrorLogger) LogBadRequest(w http.ResponseWriter, r *http.Request, msg string, err error, userMsg, backURL string) {
	l.log.Warn(msg,
		zap.Error(err),
		zap.String("method", r.Method),
		zap.String("path", r.URL.Path),
	)
	renderStatus(l.Render, w, r, http.StatusBadRequest, "Bad request", userMsg, backURL, "")
}
