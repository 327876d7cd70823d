package server

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/onelance/project-tracker/internal/auth"
	"github.com/onelance/project-tracker/internal/domain/ports"
	"github.com/onelance/project-tracker/internal/i18n"
	"github.com/onelance/project-tracker/internal/logger"
)

const authCookieName = "auth_token"

type MagicLinkSender interface {
	SendMagicLink(ctx context.Context, to, token string) error
}

// Server expone el pipeline de agregación como rutas HTTP autenticadas.
type Server struct {
	dashboard     ports.DashboardService
	auth          *auth.Service
	sender        MagicLinkSender
	trans         *i18n.Translations
	secureCookies bool
}

func New(dashboard ports.DashboardService, authService *auth.Service, sender MagicLinkSender, trans *i18n.Translations, secureCookies bool) *Server {
	return &Server{
		dashboard:     dashboard,
		auth:          authService,
		sender:        sender,
		trans:         trans,
		secureCookies: secureCookies,
	}
}

func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /api/auth/send-magic-link", s.handleSendMagicLink)
	mux.HandleFunc("GET /auth/verify", s.handleVerify)

	mux.HandleFunc("GET /api/github/data", s.requireAuth(s.handleData))
	mux.HandleFunc("GET /api/github/events", s.requireAuth(s.handleEvents))
	mux.HandleFunc("GET /api/github/issues/{number}/comments", s.requireAuth(s.handleComments))

	return mux
}

// requireAuth exige una cookie de sesión válida antes de pasar al handler.
func (s *Server) requireAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie(authCookieName)
		if err != nil || s.auth.VerifyAuthToken(cookie.Value) == nil {
			s.writeError(w, http.StatusUnauthorized, s.trans.GetMessage("error_unauthenticated", 0, nil))
			return
		}
		next(w, r)
	}
}

func (s *Server) handleSendMagicLink(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Email string `json:"email"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.Email == "" {
		s.writeError(w, http.StatusBadRequest, s.trans.GetMessage("error_email_required", 0, nil))
		return
	}

	if !s.auth.IsEmailAllowed(body.Email) {
		s.writeError(w, http.StatusForbidden, s.trans.GetMessage("error_email_not_allowed", 0, nil))
		return
	}

	token, err := s.auth.GenerateMagicLink(body.Email)
	if err != nil {
		logger.Error(r.Context(), "magic link generation failed", err)
		s.writeError(w, http.StatusInternalServerError, s.trans.GetMessage("error_request", 0, nil))
		return
	}

	if err := s.sender.SendMagicLink(r.Context(), body.Email, token); err != nil {
		s.writeError(w, http.StatusInternalServerError, s.trans.GetMessage("error_email_send", 0, nil))
		return
	}

	s.writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

func (s *Server) handleVerify(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")
	if token == "" {
		http.Redirect(w, r, "/auth/login", http.StatusFound)
		return
	}

	claims := s.auth.VerifyMagicLink(token)
	if claims == nil {
		http.Redirect(w, r, "/auth/login", http.StatusFound)
		return
	}

	authToken, err := s.auth.GenerateAuthToken(claims.Email)
	if err != nil {
		logger.Error(r.Context(), "session token generation failed", err)
		http.Redirect(w, r, "/auth/login", http.StatusFound)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     authCookieName,
		Value:    authToken,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
		Secure:   s.secureCookies,
		MaxAge:   int((30 * 24 * time.Hour).Seconds()),
	})

	http.Redirect(w, r, "/", http.StatusFound)
}

func (s *Server) handleData(w http.ResponseWriter, r *http.Request) {
	data, err := s.dashboard.GetAggregatedData(r.Context())
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.writeJSON(w, http.StatusOK, data)
}

func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	events, err := s.dashboard.GetEvents(r.Context())
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]interface{}{"events": events})
}

func (s *Server) handleComments(w http.ResponseWriter, r *http.Request) {
	number, err := strconv.Atoi(r.PathValue("number"))
	if err != nil {
		s.writeError(w, http.StatusBadRequest, s.trans.GetMessage("error_request", 0, nil))
		return
	}

	comments, err := s.dashboard.GetComments(r.Context(), number)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.writeJSON(w, http.StatusOK, comments)
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		logger.Error(context.Background(), "response encoding failed", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, message string) {
	s.writeJSON(w, status, map[string]string{"error": message})
}
