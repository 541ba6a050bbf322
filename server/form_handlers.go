package server

import (
	"encoding/json"
	"net/http"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"github.com/lexo-ch/lexo-forms-sub000/formsync"
	"github.com/lexo-ch/lexo-forms-sub000/templates"
)

type syncRequest struct {
	FormID     string `json:"formId"`
	TemplateID string `json:"templateId,omitempty"`
	formsync.State
}

type syncResponse struct {
	Status     formsync.Status   `json:"status"`
	FormID     int               `json:"formId,omitempty"`
	GroupID    int               `json:"groupId,omitempty"`
	Attributes []attributeResult `json:"attributes,omitempty"`
}

type attributeResult struct {
	Name    string `json:"name"`
	Outcome string `json:"outcome"`
	Message string `json:"message,omitempty"`
}

// SyncHandler saves a form's remote linkage: it runs the reconciliation and
// returns the resolved ids.
func (s *Server) SyncHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req syncRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respondError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		if req.FormID == "" {
			respondError(w, http.StatusBadRequest, "formId is required")
			return
		}

		var fields []templates.Field
		if req.TemplateID != "" && s.services.Fields != nil {
			var err error
			fields, err = s.services.Fields.FieldsForTemplate(req.TemplateID)
			if err != nil {
				respondError(w, http.StatusBadRequest, "unknown template")
				return
			}
		}

		state := req.State
		resolved, err := s.services.Engine.PerformSync(r.Context(), req.FormID, &state, fields)
		if err != nil {
			respondError(w, syncErrorStatus(err), state.StatusMessage)
			return
		}

		resp := syncResponse{
			Status:  state.Status,
			FormID:  resolved.FormID,
			GroupID: resolved.GroupID,
		}
		for _, result := range resolved.Attributes {
			attribute := attributeResult{Name: result.Name, Outcome: string(result.Outcome)}
			if result.Err != nil {
				attribute.Message = result.Err.Error()
			}
			resp.Attributes = append(resp.Attributes, attribute)
		}
		respondJSON(w, http.StatusOK, resp)
	}
}

// SyncStatusHandler returns the stored sync state for a form.
func (s *Server) SyncStatusHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		formID := r.URL.Query().Get("formId")
		if formID == "" {
			respondError(w, http.StatusBadRequest, "formId is required")
			return
		}

		state, err := s.services.SyncStates.Get(formID)
		if err != nil {
			if errors.Is(err, formsync.ErrStateNotFound) {
				respondError(w, http.StatusNotFound, "form has no sync state")
				return
			}
			log.Error().Str("component", "server").Str("form_id", formID).Err(err).Msg("Sync state lookup failed")
			respondError(w, http.StatusInternalServerError, "could not load sync state")
			return
		}
		respondJSON(w, http.StatusOK, state)
	}
}

func syncErrorStatus(err error) int {
	switch {
	case errors.Is(err, formsync.MissingFormSelectionErr):
		return http.StatusBadRequest
	case errors.Is(err, formsync.GroupNotFoundErr),
		errors.Is(err, formsync.GroupLinkMissingErr),
		errors.Is(err, formsync.GroupInaccessibleErr):
		return http.StatusConflict
	default:
		return http.StatusBadGateway
	}
}
