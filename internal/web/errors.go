package web

// errors.go provides unified error response handling for the web layer.
//
// Every error is logged with its technical detail and the request ID, then
// shown to the client as the message from core.MapError: JSON for API
// clients, an alert partial for HTMX, plain text otherwise.

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/a-h/templ"

	"github.com/JonMunkholm/dxcodes/internal/core"
	"github.com/JonMunkholm/dxcodes/internal/web/templates"
)

var errRateLimited = errors.New("rate limit exceeded")

// ErrorResponse represents the JSON structure for API error responses.
// Includes both machine-readable (Code, Kind) and human-readable (Message, Action) fields.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Action  string `json:"action,omitempty"`
	Code    string `json:"code"`
	Kind    string `json:"kind,omitempty"`
}

// statusFor picks the HTTP status for an analysis or request error.
func statusFor(err error) int {
	var tooLarge *http.MaxBytesError
	switch {
	case errors.As(err, &tooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, core.ErrTooManyAnalyses):
		return http.StatusServiceUnavailable
	case errors.Is(err, core.ErrExportNotFound):
		return http.StatusNotFound
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	case errors.Is(err, errRateLimited):
		return http.StatusTooManyRequests
	}

	switch kind, _ := core.KindOf(err); kind {
	case core.KindMissingInput, core.KindMissingParameter:
		return http.StatusBadRequest
	case core.KindMissingColumn, core.KindParse:
		return http.StatusUnprocessableEntity
	}
	if core.MapError(err).Code == "FILE001" {
		return http.StatusRequestEntityTooLarge
	}
	return http.StatusInternalServerError
}

// respondError logs err and writes the user-facing response for it.
// HTMX requests always get 200 so the alert is swapped into the page.
func respondError(w http.ResponseWriter, r *http.Request, err error, statusCode int) {
	userMsg := core.MapError(err)
	kind, _ := core.KindOf(err)

	level := slog.LevelError
	if statusCode < http.StatusInternalServerError {
		level = slog.LevelWarn
	}
	slog.Log(r.Context(), level, "request error",
		"path", r.URL.Path,
		"method", r.Method,
		"status", statusCode,
		"error", err.Error(),
		"code", userMsg.Code,
	)

	switch {
	case isHTMX(r):
		renderComponent(w, r, http.StatusOK, alertFor(err))
	case wantsJSON(r):
		resp := ErrorResponse{
			Error:   userMsg.Message,
			Message: userMsg.Message,
			Action:  userMsg.Action,
			Code:    userMsg.Code,
		}
		if kind != 0 {
			resp.Kind = kind.String()
		}
		writeJSON(w, statusCode, resp)
	default:
		http.Error(w, userMsg.Message+" ("+userMsg.Code+")", statusCode)
	}
}

// alertFor renders err as a warning for user slips and as an error, with
// file guidance where the upload itself was the problem, otherwise.
func alertFor(err error) templ.Component {
	msg := core.MapError(err)
	kind, ok := core.KindOf(err)
	if ok && kind.Warning() {
		return templates.WarningAlert(msg.Message, msg.Action, msg.Code)
	}
	guidance := ""
	if kind == core.KindParse || kind == core.KindMissingColumn {
		guidance = core.FormatGuidance
	}
	return templates.ErrorAlert(msg.Message, msg.Action, msg.Code, guidance)
}

// renderComponent writes an HTML component with the given status.
func renderComponent(w http.ResponseWriter, r *http.Request, status int, c templ.Component) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if c == nil {
		return
	}
	if err := c.Render(r.Context(), w); err != nil {
		slog.ErrorContext(r.Context(), "render error", "path", r.URL.Path, "error", err)
	}
}

// isHTMX checks if the request is an HTMX request.
func isHTMX(r *http.Request) bool {
	return r.Header.Get("HX-Request") == "true"
}

// wantsJSON checks if the client prefers JSON response.
func wantsJSON(r *http.Request) bool {
	if strings.Contains(r.Header.Get("Accept"), "application/json") {
		return true
	}
	if strings.Contains(r.Header.Get("Content-Type"), "application/json") {
		return true
	}
	// API routes default to JSON
	return strings.HasPrefix(r.URL.Path, "/api/")
}
