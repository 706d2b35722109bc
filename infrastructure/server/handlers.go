package server

import (
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"net/http"

	logger "github.com/sirupsen/logrus"

	"github.com/canstralian/CodeQualityAI/application"
	"github.com/canstralian/CodeQualityAI/domain"
	"github.com/canstralian/CodeQualityAI/infrastructure/githubapi"
	"github.com/canstralian/CodeQualityAI/internal/repourl"
)

const stateCookie = "oauth_state"

// analyzeRequest is the body of POST /api/analyze. Zero-valued knobs fall
// back to the configured defaults.
type analyzeRequest struct {
	URL         string   `json:"url"`
	MaxFiles    int      `json:"max_files"`
	FileTypes   []string `json:"file_types"`
	Depth       string   `json:"depth"`
	CommitLimit int      `json:"commit_limit"`
}

// handleAnalyze runs a full analysis synchronously. Progress is pushed over
// the WebSocket channel while the HTTP response carries the final report.
func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "use POST")
		return
	}

	var req analyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	owner, repo, err := repourl.Parse(req.URL)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid repository URL")
		return
	}

	opts := s.runOptions(req)
	reader := s.readers(owner, repo)

	logger.Infof("Dashboard analysis requested for %s/%s", owner, repo)

	s.runMu.Lock()
	report, err := s.service.Analyze(r.Context(), reader, opts, progressReporter{server: s})
	s.runMu.Unlock()
	if err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}

	s.mu.Lock()
	s.lastReport = report
	s.mu.Unlock()

	s.broadcastUpdate(MessageTypeReport, report)
	writeJSON(w, http.StatusOK, report)
}

// runOptions merges the request overrides onto the configured defaults.
func (s *Server) runOptions(req analyzeRequest) application.Options {
	opts := application.Options{
		MaxFiles:     s.cfg.Analysis.MaxFiles,
		FileTypes:    s.cfg.Analysis.FileTypes,
		Depth:        domain.ParseDepth(s.cfg.Analysis.Depth),
		CommitLimit:  s.cfg.Analysis.CommitLimit,
		ExcludedDirs: s.cfg.Analysis.ExcludedDirs,
	}

	if req.MaxFiles > 0 {
		opts.MaxFiles = req.MaxFiles
	}
	if len(req.FileTypes) > 0 {
		opts.FileTypes = req.FileTypes
	}
	if req.Depth != "" {
		opts.Depth = domain.ParseDepth(req.Depth)
	}
	if req.CommitLimit > 0 {
		opts.CommitLimit = req.CommitLimit
	}

	return opts
}

// handleReport serves the last finished report.
func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "use GET")
		return
	}

	s.mu.RLock()
	report := s.lastReport
	s.mu.RUnlock()

	if report == nil {
		writeError(w, http.StatusNotFound, "no report available yet")
		return
	}
	writeJSON(w, http.StatusOK, report)
}

// handleLogin redirects the browser into the GitHub authorization flow.
func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	if s.flow == nil {
		writeError(w, http.StatusServiceUnavailable, "OAuth is not configured")
		return
	}

	state := randomState()
	http.SetCookie(w, &http.Cookie{
		Name:     stateCookie,
		Value:    state,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	http.Redirect(w, r, s.flow.AuthorizationURL(state), http.StatusFound)
}

// handleCallback finishes the flow: state check, code exchange, profile
// lookup. The user profile is returned as JSON for the dashboard to render.
func (s *Server) handleCallback(w http.ResponseWriter, r *http.Request) {
	if s.flow == nil {
		writeError(w, http.StatusServiceUnavailable, "OAuth is not configured")
		return
	}

	cookie, err := r.Cookie(stateCookie)
	if err != nil || cookie.Value == "" || cookie.Value != r.URL.Query().Get("state") {
		writeError(w, http.StatusBadRequest, "state mismatch")
		return
	}

	token, err := s.flow.ExchangeCode(r.Context(), r.URL.Query().Get("code"))
	if err != nil {
		logger.Errorf("Code exchange failed: %v", err)
		writeError(w, http.StatusBadGateway, "token exchange failed")
		return
	}

	user, err := s.flow.UserInfo(r.Context(), token.AccessToken)
	if err != nil {
		logger.Errorf("User lookup failed: %v", err)
		writeError(w, http.StatusBadGateway, "user lookup failed")
		return
	}

	writeJSON(w, http.StatusOK, user)
}

// statusFor maps gateway failures onto HTTP statuses for API consumers.
func statusFor(err error) int {
	switch {
	case githubapi.IsNotFound(err), githubapi.IsEmptyRepository(err):
		return http.StatusNotFound
	case githubapi.IsAuthentication(err):
		return http.StatusUnauthorized
	case githubapi.IsPermission(err):
		return http.StatusForbidden
	case githubapi.IsRateLimit(err):
		return http.StatusTooManyRequests
	case githubapi.IsTimeout(err), githubapi.IsConnection(err):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		logger.Errorf("Failed to encode response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

func randomState() string {
	buf := make([]byte, 16)
	_, _ = rand.Read(buf)
	return hex.EncodeToString(buf)
}
