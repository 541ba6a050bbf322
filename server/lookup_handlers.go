package server

import (
	"net/http"

	"github.com/rs/zerolog/log"
)

const (
	groupsCacheKey = "groups"
	formsCacheKey  = "forms"
)

// GroupsHandler lists remote groups for the admin pickers, served from the
// TTL cache when possible.
func (s *Server) GroupsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if groups, ok := s.services.Caches.Groups.Get(groupsCacheKey); ok {
			respondJSON(w, http.StatusOK, groups)
			return
		}

		groups, err := s.services.Lookup.ListGroups(r.Context())
		if err != nil {
			log.Error().Str("component", "server").Err(err).Msg("Group listing failed")
			respondError(w, http.StatusBadGateway, "could not list remote groups")
			return
		}
		s.services.Caches.Groups.Set(groupsCacheKey, groups)
		respondJSON(w, http.StatusOK, groups)
	}
}

// FormsHandler lists remote forms for the admin pickers.
func (s *Server) FormsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if forms, ok := s.services.Caches.Forms.Get(formsCacheKey); ok {
			respondJSON(w, http.StatusOK, forms)
			return
		}

		forms, err := s.services.Lookup.ListForms(r.Context())
		if err != nil {
			log.Error().Str("component", "server").Err(err).Msg("Form listing failed")
			respondError(w, http.StatusBadGateway, "could not list remote forms")
			return
		}
		s.services.Caches.Forms.Set(formsCacheKey, forms)
		respondJSON(w, http.StatusOK, forms)
	}
}
