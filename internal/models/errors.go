package models

import (
	"encoding/json"
	"net/http"
)

type ErrorResponse struct {
	Status      string `json:"status"`
	Message     string `json:"message"`
	Code        int    `json:"code,omitempty"`
	Remediation string `json:"remediation,omitempty"`
	SQL         string `json:"sql,omitempty"`
}

func WriteError(w http.ResponseWriter, code int, message string) {
	WriteErrorDetail(w, code, message, "", "")
}

// WriteErrorDetail includes remediation text and the offending SQL when
// a pipeline stage produced them.
func WriteErrorDetail(w http.ResponseWriter, code int, message, remediation, sql string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(ErrorResponse{
		Status:      "error",
		Message:     message,
		Code:        code,
		Remediation: remediation,
		SQL:         sql,
	})
}

func WriteJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v)
}
