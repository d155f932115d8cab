package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gemsmart/museumbackend/metrics"
	"github.com/gemsmart/museumbackend/models"
	"github.com/gemsmart/museumbackend/services"
)

type GateHandler struct {
	Gate *services.GateService
}

func NewGateHandler(gate *services.GateService) *GateHandler {
	return &GateHandler{Gate: gate}
}

type scanPayload struct {
	Token string `json:"token"`
}

// Scan resolves a scanned NFC token to a visitor. Unknown tokens are a
// normal outcome (200 with granted=false), not an error.
func (h *GateHandler) Scan(w http.ResponseWriter, r *http.Request) {
	var payload scanPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		WriteAPIError(w, http.StatusBadRequest, "invalid_payload", "Invalid request body: "+err.Error())
		return
	}

	result, err := h.Gate.Resolve(payload.Token)
	if err != nil {
		var integrityErr *models.IntegrityError
		if errors.As(err, &integrityErr) {
			metrics.GateScans.WithLabelValues("integrity_error").Inc()
		}
		writeServiceError(w, err)
		return
	}

	if result.Granted {
		metrics.GateScans.WithLabelValues("granted").Inc()
	} else {
		metrics.GateScans.WithLabelValues("denied").Inc()
	}
	writeJSON(w, http.StatusOK, result)
}
