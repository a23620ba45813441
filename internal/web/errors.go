package web

// errors.go turns run and request errors into responses.
//
// The technical error is logged with the request id; the client gets the
// message, action and support code from core.MapError, as JSON for API
// clients and as an HTML page otherwise.

import (
	"net/http"
	"strings"

	"github.com/JonMunkholm/PauperCube/internal/core"
	"github.com/JonMunkholm/PauperCube/internal/logging"
	"github.com/JonMunkholm/PauperCube/internal/web/templates"
)

// ErrorResponse represents the JSON structure for API error responses.
// Includes both machine-readable (Code) and human-readable (Message, Action) fields.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Action  string `json:"action,omitempty"`
	Code    string `json:"code"`
	RunID   string `json:"runId,omitempty"`
}

// statusForCode picks the HTTP status for an error code.
func statusForCode(code string) int {
	switch {
	case code == "RUN001":
		return http.StatusConflict
	case code == "RUN002":
		return http.StatusServiceUnavailable
	case code == "RUN003":
		return http.StatusGatewayTimeout
	case code == "CARD002":
		return http.StatusBadGateway
	case strings.HasPrefix(code, "CFG"), strings.HasPrefix(code, "LOG"),
		strings.HasPrefix(code, "PAT"), code == "CARD001":
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

// respondError logs err and writes a user-friendly response. runID is the
// failed run's id, or "" when no run started.
func (s *Server) respondError(w http.ResponseWriter, r *http.Request, err error, runID string) {
	userMsg := core.MapError(err)
	status := statusForCode(userMsg.Code)

	logging.FromContext(r.Context()).Error("request error",
		"path", r.URL.Path,
		"method", r.Method,
		"status", status,
		"error", err.Error(),
		"code", userMsg.Code,
		"run_id", runID,
	)

	if wantsJSON(r) {
		writeJSON(w, r, status, ErrorResponse{
			Error:   userMsg.Message,
			Message: userMsg.Message,
			Action:  userMsg.Action,
			Code:    userMsg.Code,
			RunID:   runID,
		})
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	templates.ErrorPage(userMsg.Message, userMsg.Action, userMsg.Code).Render(r.Context(), w)
}

// wantsJSON checks if the client prefers a JSON response. API routes answer
// JSON unless the request is a plain browser form post.
func wantsJSON(r *http.Request) bool {
	if strings.Contains(r.Header.Get("Accept"), "application/json") {
		return true
	}
	if strings.Contains(r.Header.Get("Content-Type"), "application/json") {
		return true
	}
	if isFormPost(r) {
		return false
	}
	return strings.HasPrefix(r.URL.Path, "/api/")
}

// isFormPost reports whether r is an HTML form submission from a browser.
func isFormPost(r *http.Request) bool {
	return r.Method == http.MethodPost &&
		strings.HasPrefix(r.Header.Get("Content-Type"), "application/x-www-form-urlencoded") &&
		strings.Contains(r.Header.Get("Accept"), "text/html")
}
