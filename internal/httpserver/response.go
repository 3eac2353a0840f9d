package httpserver

import (
	"encoding/json"
	"net/http"
	"strings"
)

type failResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

// writeSuccess wraps data in the success envelope. A nil data map
// yields a bare {"status":"success"}.
func writeSuccess(w http.ResponseWriter, status int, data map[string]any) {
	payload := map[string]any{"status": "success"}
	for k, v := range data {
		payload[k] = v
	}
	writeJSON(w, status, payload)
}

func writeFail(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, failResponse{Status: "fail", Message: message})
}

func writeMethodNotAllowed(w http.ResponseWriter, allowed ...string) {
	w.Header().Set("Allow", strings.Join(allowed, ", "))
	writeFail(w, http.StatusMethodNotAllowed, "method not allowed")
}
