package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/sirupsen/logrus"

	"github.com/xavierca1/lead-outreach/internal/infra/http/middleware"
	"github.com/xavierca1/lead-outreach/internal/usecase"
)

type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

var codeStatus = map[string]int{
	usecase.CodeValidation:     http.StatusBadRequest,
	usecase.CodeParse:          http.StatusBadRequest,
	usecase.CodeNotFound:       http.StatusNotFound,
	usecase.CodeUnauthorized:   http.StatusUnauthorized,
	usecase.CodeStorage:        http.StatusInternalServerError,
	usecase.CodeDispatchFailed: http.StatusBadGateway,
}

func statusFor(code string) int {
	if s, ok := codeStatus[code]; ok {
		return s
	}
	return http.StatusInternalServerError
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logrus.WithError(err).Warn("could not write response")
	}
}

func badRequest(w http.ResponseWriter, msg string) {
	writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: msg})
}

// writeError turns a use-case error into the JSON error body. Wrapped
// upstream errors are logged, never returned.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	var domainErr *usecase.DomainError
	if errors.As(err, &domainErr) {
		writeJSON(w, statusFor(domainErr.Code), ErrorResponse{Error: domainErr.Message})
		return
	}

	log := logrus.WithError(err).WithField("path", r.URL.Path)
	var techErr *usecase.TechnicalError
	if errors.As(err, &techErr) {
		log.WithField("code", techErr.Code).Error("request failed")
		writeJSON(w, statusFor(techErr.Code), ErrorResponse{Error: techErr.Message, Details: techErr.Details})
		return
	}

	log.Error("unexpected error")
	writeJSON(w, http.StatusInternalServerError, ErrorResponse{Error: "internal error"})
}

// userID returns the authenticated caller or writes 401.
func userID(w http.ResponseWriter, r *http.Request) (string, bool) {
	p, ok := middleware.PrincipalFrom(r.Context())
	if !ok || p.UserID == "" {
		writeJSON(w, http.StatusUnauthorized, ErrorResponse{Error: "authentication required"})
		return "", false
	}
	return p.UserID, true
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		badRequest(w, "invalid JSON body")
		return false
	}
	return true
}
