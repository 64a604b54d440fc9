package handler

import (
	"net/http"
	"time"
)

// Health возвращает ответ с кодом 200, если сервис запущен.
func Health(w http.ResponseWriter, _ *http.Request) {
	responseAsJSON(w, struct {
		Status    string `json:"status"`
		Timestamp string `json:"timestamp"`
	}{
		Status:    "ok",
		Timestamp: time.Now().Format(time.RFC3339),
	}, http.StatusOK)
}
