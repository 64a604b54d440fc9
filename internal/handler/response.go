package handler

import (
	"encoding/json"
	"net/http"
)

func errorAsJSON(w http.ResponseWriter, message string, code int) {
	responseAsJSON(w, struct {
		Error string `json:"error"`
	}{Error: message}, code)
}

func responseAsJSON(w http.ResponseWriter, v any, code int) {
	respJSON, err := json.Marshal(v)
	if err != nil {
		http.Error(w, "500 internal server error", http.StatusInternalServerError)

		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if _, err := w.Write(respJSON); err != nil {
		http.Error(w, "500 internal server error", http.StatusInternalServerError)
	}
}
