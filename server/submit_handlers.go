package server

import (
	"encoding/json"
	"net"
	"net/http"

	"github.com/lexo-ch/lexo-forms-sub000/submission"
)

type submitRequest struct {
	FormID string            `json:"formId"`
	Fields map[string]string `json:"fields"`
}

type submitResponse struct {
	Success           bool   `json:"success"`
	AlreadySubscribed bool   `json:"alreadySubscribed,omitempty"`
	Message           string `json:"message"`
	Reference         string `json:"reference,omitempty"`
}

// SubmitHandler routes one end-user submission. The response message stays
// generic; details only reach the logs and operator notices.
func (s *Server) SubmitHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req submitRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respondError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		if req.FormID == "" || len(req.Fields) == 0 {
			respondError(w, http.StatusBadRequest, "formId and fields are required")
			return
		}

		outcome := s.services.Submission.Submit(r.Context(), req.FormID, submission.Request{
			Fields:    req.Fields,
			UserIP:    clientIP(r),
			UserAgent: r.UserAgent(),
			Referer:   r.Referer(),
		})

		resp := submitResponse{
			Success:           outcome.Success(),
			AlreadySubscribed: outcome.AlreadyExists,
		}
		if outcome.Success() {
			resp.Message = "Thank you, your submission has been received."
			respondJSON(w, http.StatusOK, resp)
			return
		}

		resp.Message = "Your submission could not be processed. Please try again later."
		resp.Reference = outcome.CorrelationID
		respondJSON(w, http.StatusBadGateway, resp)
	}
}

func clientIP(r *http.Request) string {
	if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
		return forwarded
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
