package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"inspira/internal/services"
)

func (s *Server) writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		s.logger.Error("encode response", "error", err.Error())
	}
}

func (s *Server) writeErro(w http.ResponseWriter, status int, message string) {
	s.writeJSON(w, status, map[string]string{"erro": message})
}

// writeFailure maps the service error taxonomy onto HTTP statuses.
func (s *Server) writeFailure(w http.ResponseWriter, err error) {
	s.writeErro(w, statusFor(err), err.Error())
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, services.ErrValidation), errors.Is(err, services.ErrAmbiguous):
		return http.StatusBadRequest
	case errors.Is(err, services.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, services.ErrConflict):
		return http.StatusConflict
	case errors.Is(err, services.ErrUpstream):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
