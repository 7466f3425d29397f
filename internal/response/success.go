package response

import (
	"encoding/json"
	"net/http"

	"github.com/GregMSThompson/fintrack/pkg/logger"
)

type SuccessEnvelope struct {
	Success bool `json:"success"`
	Count   *int `json:"count,omitempty"`
	Data    any  `json:"data,omitempty"`
}

func (h *responseHandler) WriteSuccess(w http.ResponseWriter, r *http.Request, status int, data any) {
	h.write(w, r, status, SuccessEnvelope{Success: true, Data: data})
}

// WriteList writes a 200 envelope carrying the number of matching records.
func (h *responseHandler) WriteList(w http.ResponseWriter, r *http.Request, count int, data any) {
	h.write(w, r, http.StatusOK, SuccessEnvelope{Success: true, Count: &count, Data: data})
}

func (h *responseHandler) write(w http.ResponseWriter, r *http.Request, status int, resp SuccessEnvelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(resp); err != nil {
		// Last-ditch logging; can't return an error now
		logger.FromContext(r.Context()).Error("failed to encode success response", "error", err, "status", status)
	}
}
