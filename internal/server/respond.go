package server

import (
	"encoding/json"
	"log/slog"
	"net/http"
)

// errorResponse mirrors the shape clients already consume: {"detail": "..."}.
type errorResponse struct {
	Detail string `json:"detail"`
}

func respondWithJSON(w http.ResponseWriter, code int, payload any) {
	body, err := json.Marshal(payload)
	if err != nil {
		slog.Error("failed to marshal response", "error", err)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"detail":"Internal Server Error"}`))
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_, _ = w.Write(body)
}

func respondWithError(w http.ResponseWriter, code int, detail string) {
	respondWithJSON(w, code, errorResponse{Detail: detail})
}
