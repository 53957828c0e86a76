package handler

import (
	"encoding/json"
	"net/http"

	"screener/internal/apperrors"
)

// ErrorResponse is the body of every non-2xx JSON response
type ErrorResponse struct {
	Error   string   `json:"error"`
	Code    string   `json:"code,omitempty"`
	Details []string `json:"details,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, ErrorResponse{Error: message})
}

// writeAppError maps err to its status; uncoded errors become a bare 500
func writeAppError(w http.ResponseWriter, err error) {
	appErr, ok := apperrors.As(err)
	if !ok {
		writeJSON(w, http.StatusInternalServerError, ErrorResponse{
			Error: "internal error",
			Code:  string(apperrors.ErrCodeInternal),
		})
		return
	}
	writeJSON(w, apperrors.HTTPStatus(err), ErrorResponse{
		Error:   appErr.Message,
		Code:    string(appErr.Code),
		Details: appErr.Details,
	})
}
