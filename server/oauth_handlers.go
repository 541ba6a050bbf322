package server

import (
	"net/http"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"github.com/lexo-ch/lexo-forms-sub000/auth"
)

// ConnectHandler redirects the admin to the remote consent screen.
func (s *Server) ConnectHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		url, err := s.services.Auth.AuthorizationURL()
		if err != nil {
			if errors.Is(err, auth.NoCredentialsErr) {
				respondError(w, http.StatusConflict, "client credentials are not configured")
				return
			}
			log.Error().Str("component", "server").Err(err).Msg("Authorization URL failed")
			respondError(w, http.StatusInternalServerError, "could not start authorization")
			return
		}
		http.Redirect(w, r, url, http.StatusFound)
	}
}

// CallbackHandler completes the authorization code exchange.
func (s *Server) CallbackHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		code := r.URL.Query().Get("code")
		state := r.URL.Query().Get("state")
		if code == "" || state == "" {
			respondError(w, http.StatusBadRequest, "code and state are required")
			return
		}

		if err := s.services.Auth.CompleteAuthorization(r.Context(), code, state); err != nil {
			log.Error().Str("component", "server").Err(err).Msg("Authorization callback failed")
			switch {
			case errors.Is(err, auth.InvalidStateErr):
				respondError(w, http.StatusBadRequest, "invalid or expired state")
			case errors.Is(err, auth.NoCredentialsErr):
				respondError(w, http.StatusConflict, "client credentials are not configured")
			default:
				respondError(w, http.StatusBadGateway, "token exchange failed")
			}
			return
		}

		respondJSON(w, http.StatusOK, map[string]any{"connected": true})
	}
}

// ConnectionStatusHandler reports whether a usable token exists. Account
// details are best-effort.
func (s *Server) ConnectionStatusHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		connected := s.services.Auth.IsConnected(r.Context())
		resp := map[string]any{"connected": connected}

		if connected {
			if account, err := s.services.Lookup.Whoami(r.Context()); err == nil {
				resp["account"] = account
			}
		}
		respondJSON(w, http.StatusOK, resp)
	}
}
