package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/gemsmart/museumbackend/metrics"
	"github.com/gemsmart/museumbackend/realtime"
	"github.com/gemsmart/museumbackend/services"
)

type WinnerHandler struct {
	Winners *services.WinnerService
	Hub     *realtime.Hub
	Window  time.Duration
}

func NewWinnerHandler(winners *services.WinnerService, hub *realtime.Hub, window time.Duration) *WinnerHandler {
	return &WinnerHandler{Winners: winners, Hub: hub, Window: window}
}

// MarkWinner flags the current top submission of the room's window as the
// hourly winner and awards the winner badge. An empty window returns 200
// with winner=null.
func (h *WinnerHandler) MarkWinner(w http.ResponseWriter, r *http.Request) {
	roomIDStr := chi.URLParam(r, "roomID")
	roomID64, err := strconv.ParseUint(roomIDStr, 10, 32)
	if err != nil {
		WriteAPIError(w, http.StatusBadRequest, "invalid_id", "Invalid room ID in URL")
		return
	}
	roomID := uint(roomID64)

	winner, err := h.Winners.MarkHourlyWinner(roomID, h.Window)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	if winner != nil {
		metrics.HourlyWinners.Inc()
		if h.Hub != nil {
			h.Hub.Broadcast(realtime.Event{
				Type:         realtime.EventHourlyWinner,
				RoomID:       roomID,
				SubmissionID: winner.ID,
				VisitorID:    winner.VisitorID,
				Score:        winner.Score,
				Timestamp:    time.Now().Unix(),
			})
		}
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"room_id": roomID,
		"winner":  winner,
	})
}
