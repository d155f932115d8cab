package handlers

import (
	"encoding/json"
	"net/http"
	"sort"
	"strconv"
	"time"

	"github.com/facette/natsort"
	"github.com/go-chi/chi/v5"

	"github.com/gemsmart/museumbackend/database"
	"github.com/gemsmart/museumbackend/models"
	"github.com/gemsmart/museumbackend/repository"
	"github.com/gemsmart/museumbackend/services"
)

type RoomHandler struct {
	Rooms       repository.RoomRepository
	Photos      repository.PhotoSubmissionRepository
	Leaderboard *services.LeaderboardService

	// DashboardWindow/DashboardLimit are the configured defaults applied when
	// the request does not override them.
	DashboardWindow time.Duration
	DashboardLimit  int
}

func NewRoomHandler(rooms repository.RoomRepository, photos repository.PhotoSubmissionRepository, leaderboard *services.LeaderboardService, window time.Duration, limit int) *RoomHandler {
	return &RoomHandler{
		Rooms:           rooms,
		Photos:          photos,
		Leaderboard:     leaderboard,
		DashboardWindow: window,
		DashboardLimit:  limit,
	}
}

func roomIDParam(r *http.Request) (uint, bool) {
	idStr := chi.URLParam(r, "roomID")
	id, err := strconv.ParseUint(idStr, 10, 32)
	if err != nil {
		return 0, false
	}
	return uint(id), true
}

type createRoomPayload struct {
	Name        string  `json:"name"`
	Description *string `json:"description,omitempty"`
}

// CreateRoom adds a new gallery. Staff only.
func (h *RoomHandler) CreateRoom(w http.ResponseWriter, r *http.Request) {
	var payload createRoomPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		WriteAPIError(w, http.StatusBadRequest, "invalid_payload", "Invalid request body: "+err.Error())
		return
	}
	if payload.Name == "" {
		WriteAPIError(w, http.StatusBadRequest, "validation_error", "name must not be empty")
		return
	}

	room := &models.Room{Name: payload.Name, Description: payload.Description}
	if err := h.Rooms.Create(room); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, room)
}

// ListRooms returns every room.
func (h *RoomHandler) ListRooms(w http.ResponseWriter, r *http.Request) {
	rooms, err := h.Rooms.ListAll()
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if rooms == nil {
		rooms = []models.Room{}
	}
	writeJSON(w, http.StatusOK, rooms)
}

// GetRoom returns a single room.
func (h *RoomHandler) GetRoom(w http.ResponseWriter, r *http.Request) {
	roomID, ok := roomIDParam(r)
	if !ok {
		WriteAPIError(w, http.StatusBadRequest, "invalid_id", "Invalid room ID in URL")
		return
	}

	room, err := h.Rooms.GetByID(roomID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, room)
}

type dashboardResponse struct {
	RoomID        uint                     `json:"room_id"`
	WindowSeconds int                      `json:"window_seconds"`
	Entries       []models.PhotoSubmission `json:"entries"`
}

// Dashboard returns the room's current leaderboard: the top-scored
// submissions of the sliding window, best first. Optional query parameters
// window_minutes and limit override the configured defaults.
func (h *RoomHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	roomID, ok := roomIDParam(r)
	if !ok {
		WriteAPIError(w, http.StatusBadRequest, "invalid_id", "Invalid room ID in URL")
		return
	}

	window := h.DashboardWindow
	if raw := r.URL.Query().Get("window_minutes"); raw != "" {
		minutes, err := strconv.Atoi(raw)
		if err != nil || minutes <= 0 {
			WriteAPIError(w, http.StatusBadRequest, "validation_error", "window_minutes must be a positive integer")
			return
		}
		window = time.Duration(minutes) * time.Minute
	}

	limit := h.DashboardLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			WriteAPIError(w, http.StatusBadRequest, "validation_error", "limit must be a positive integer")
			return
		}
		limit = parsed
	}

	entries, err := h.Leaderboard.TopRanked(roomID, window, limit)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dashboardResponse{
		RoomID:        roomID,
		WindowSeconds: int(window.Seconds()),
		Entries:       entries,
	})
}

// ListRoomPhotos returns every submission in a room. The optional sort query
// parameter accepts the orders defined in the database package; natural
// filename ordering keeps camera sequences (IMG_2.jpg before IMG_10.jpg)
// readable.
func (h *RoomHandler) ListRoomPhotos(w http.ResponseWriter, r *http.Request) {
	roomID, ok := roomIDParam(r)
	if !ok {
		WriteAPIError(w, http.StatusBadRequest, "invalid_id", "Invalid room ID in URL")
		return
	}

	if _, err := h.Rooms.GetByID(roomID); err != nil {
		writeServiceError(w, err)
		return
	}

	sortOrder := r.URL.Query().Get("sort")
	if sortOrder == "" {
		sortOrder = database.DefaultSortOrder
	}
	if !database.IsValidSortOrder(sortOrder) {
		WriteAPIError(w, http.StatusBadRequest, "validation_error", "invalid sort order: "+sortOrder)
		return
	}

	photos, err := h.Photos.ListByRoom(roomID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if photos == nil {
		photos = []models.PhotoSubmission{}
	}

	sortSubmissions(photos, sortOrder)
	writeJSON(w, http.StatusOK, photos)
}

func sortSubmissions(photos []models.PhotoSubmission, order string) {
	switch order {
	case database.SortScoreDesc:
		sort.SliceStable(photos, func(i, j int) bool {
			return photos[i].Score > photos[j].Score
		})
	case database.SortDateAsc:
		sort.SliceStable(photos, func(i, j int) bool {
			return photos[i].CreatedAt.Before(photos[j].CreatedAt)
		})
	case database.SortDateDesc:
		sort.SliceStable(photos, func(i, j int) bool {
			return photos[j].CreatedAt.Before(photos[i].CreatedAt)
		})
	case database.SortFilenameNat:
		paths := make([]string, len(photos))
		byPath := make(map[string][]models.PhotoSubmission, len(photos))
		for i, p := range photos {
			paths[i] = p.ImagePath
			byPath[p.ImagePath] = append(byPath[p.ImagePath], p)
		}
		natsort.Sort(paths)
		out := photos[:0]
		seen := make(map[string]bool, len(paths))
		for _, path := range paths {
			if seen[path] {
				continue
			}
			seen[path] = true
			out = append(out, byPath[path]...)
		}
	}
}
