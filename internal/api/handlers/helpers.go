package handlers

import (
	"encoding/json"
	"log"
	"net/http"

	"route-tracking-service/internal/platform/obs"
)

func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		reqID, _ := r.Context().Value(obs.RequestIDKey).(string)
		log.Printf("req_id=%s encode failed: method=%s path=%s err=%v", reqID, r.Method, r.URL.Path, err)
	}
}

func writeError(w http.ResponseWriter, r *http.Request, status int, msg string) {
	writeJSON(w, r, status, map[string]string{"error": msg})
}
