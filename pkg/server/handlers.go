package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/Sumatoshi-tech/ghpulse/pkg/dashboard"
	"github.com/Sumatoshi-tech/ghpulse/pkg/ghapi"
	"github.com/Sumatoshi-tech/ghpulse/pkg/render/plotpage"
)

const (
	contentTypeJSON = "application/json"
	contentTypeHTML = "text/html; charset=utf-8"
)

type errorBody struct {
	Error       string   `json:"error"`
	Suggestions []string `json:"suggestions,omitempty"`
}

func (s *Server) handleProfile(rw http.ResponseWriter, hr *http.Request) {
	handle, ok := s.handleParam(rw, hr)
	if !ok {
		return
	}

	profile, err := s.accounts.Profile(hr.Context(), handle)
	if err != nil {
		s.writeError(rw, hr, err)

		return
	}

	s.writeJSON(rw, hr, http.StatusOK, profile)
}

func (s *Server) handleRepositories(rw http.ResponseWriter, hr *http.Request) {
	handle, ok := s.handleParam(rw, hr)
	if !ok {
		return
	}

	repos, err := s.accounts.Repositories(hr.Context(), handle)
	if err != nil {
		s.writeError(rw, hr, err)

		return
	}

	dashboard.SortByUpdated(repos)

	if repos == nil {
		repos = []ghapi.Repository{}
	}

	s.writeJSON(rw, hr, http.StatusOK, repos)
}

func (s *Server) handleContributions(rw http.ResponseWriter, hr *http.Request) {
	handle, ok := s.handleParam(rw, hr)
	if !ok {
		return
	}

	report, err := s.reports.ContributionReport(hr.Context(), handle)
	if err != nil {
		s.writeError(rw, hr, err)

		return
	}

	s.writeJSON(rw, hr, http.StatusOK, report)
}

func (s *Server) handleDashboard(rw http.ResponseWriter, hr *http.Request) {
	handle, ok := s.handleParam(rw, hr)
	if !ok {
		return
	}

	dash, err := s.reports.Dashboard(hr.Context(), handle, hr.URL.Query().Get("repo"))
	if err != nil {
		s.writeError(rw, hr, err)

		return
	}

	theme := s.opts.Theme
	if name := hr.URL.Query().Get("theme"); name != "" {
		theme = plotpage.ParseTheme(name)
	}

	// Render fully before writing so a template failure can still become a 500.
	var buf bytes.Buffer

	err = plotpage.RenderDashboard(&buf, dash, theme)
	if err != nil {
		s.logger.ErrorContext(hr.Context(), "render dashboard failed", "handle", handle, "error", err)
		s.writeJSON(rw, hr, http.StatusInternalServerError, errorBody{Error: "render dashboard"})

		return
	}

	rw.Header().Set("Content-Type", contentTypeHTML)
	rw.WriteHeader(http.StatusOK)

	_, err = buf.WriteTo(rw)
	if err != nil {
		s.logger.DebugContext(hr.Context(), "write dashboard failed", "error", err)
	}
}

func (s *Server) handleParam(rw http.ResponseWriter, hr *http.Request) (string, bool) {
	handle, err := ghapi.NormalizeHandle(hr.PathValue("handle"))
	if err != nil {
		s.writeError(rw, hr, err)

		return "", false
	}

	return handle, true
}

// StatusFor maps an error to the HTTP status it is reported with.
func StatusFor(err error) int {
	switch {
	case errors.Is(err, ghapi.ErrInvalidHandle):
		return http.StatusBadRequest
	case errors.Is(err, ghapi.ErrNotFound), errors.Is(err, dashboard.ErrRepositoryNotFound):
		return http.StatusNotFound
	case errors.Is(err, ghapi.ErrRateLimited):
		return http.StatusTooManyRequests
	default:
		return http.StatusBadGateway
	}
}

func (s *Server) writeError(rw http.ResponseWriter, hr *http.Request, err error) {
	status := StatusFor(err)
	body := errorBody{Error: err.Error()}

	var notFound *dashboard.RepositoryNotFoundError
	if errors.As(err, &notFound) {
		body.Suggestions = notFound.Suggestions
	}

	if status >= http.StatusInternalServerError {
		s.logger.WarnContext(hr.Context(), "request failed", "path", hr.URL.Path, "status", status, "error", err)
	} else {
		s.logger.DebugContext(hr.Context(), "request rejected", "path", hr.URL.Path, "status", status, "error", err)
	}

	s.writeJSON(rw, hr, status, body)
}

func (s *Server) writeJSON(rw http.ResponseWriter, hr *http.Request, status int, value any) {
	rw.Header().Set("Content-Type", contentTypeJSON)
	rw.WriteHeader(status)

	err := json.NewEncoder(rw).Encode(value)
	if err != nil {
		s.logger.DebugContext(hr.Context(), "encode response failed", "error", err)
	}
}
