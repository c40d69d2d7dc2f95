package helpers

import (
	"encoding/json"
	"net/http"
	"time"
)

// Response — единый конверт API: клиенты смотрят на success/data,
// доменные исходы не кодируются HTTP-статусом.
type Response struct {
	Success   bool        `json:"success"`
	Data      interface{} `json:"data,omitempty"`
	Timestamp string      `json:"timestamp"`
}

func JSON(w http.ResponseWriter, status int, data interface{}) {
	write(w, status, Response{
		Success:   true,
		Data:      data,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
}

// Fail отвечает success=false с причиной в data.reason.
func Fail(w http.ResponseWriter, status int, reason string) {
	write(w, status, Response{
		Success:   false,
		Data:      map[string]string{"reason": reason},
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
}

func write(w http.ResponseWriter, status int, resp Response) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	err := json.NewEncoder(w).Encode(resp)
	if err != nil {
		return
	}
}
