package handlers_test

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"

	"github.com/gemsmart/museumbackend/clock"
	"github.com/gemsmart/museumbackend/handlers"
	"github.com/gemsmart/museumbackend/models"
	"github.com/gemsmart/museumbackend/repository"
	"github.com/gemsmart/museumbackend/services"
)

type roomTestEnv struct {
	router *chi.Mux
	rooms  *repository.MemoryRoomRepository
	photos *repository.MemoryPhotoRepository
	clock  *clock.Fixed
}

func newRoomServer(t *testing.T) *roomTestEnv {
	t.Helper()
	rooms := repository.NewMemoryRoomRepository()
	photos := repository.NewMemoryPhotoRepository()
	clk := clock.NewFixed(time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC))
	leaderboard := services.NewLeaderboardService(photos, rooms, clk)
	handler := handlers.NewRoomHandler(rooms, photos, leaderboard, time.Hour, 3)

	r := chi.NewRouter()
	r.Get("/api/rooms/{roomID}/dashboard", handler.Dashboard)
	r.Get("/api/rooms/{roomID}/photos", handler.ListRoomPhotos)
	return &roomTestEnv{router: r, rooms: rooms, photos: photos, clock: clk}
}

func (e *roomTestEnv) get(t *testing.T, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

func TestDashboardReturnsTopThree(t *testing.T) {
	env := newRoomServer(t)
	room := models.Room{Name: "Ancient Egypt Gallery"}
	require.NoError(t, env.rooms.Create(&room))

	for i, score := range []int{70, 90, 80, 60} {
		require.NoError(t, env.photos.Create(&models.PhotoSubmission{
			VisitorID: uint(i + 1),
			RoomID:    room.ID,
			ImagePath: fmt.Sprintf("submissions/%d.jpg", i),
			CreatedAt: env.clock.Now().Add(-time.Duration(i+1) * time.Minute),
			Score:     score,
		}))
	}

	rec := env.get(t, fmt.Sprintf("/api/rooms/%d/dashboard", room.ID))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		RoomID        uint                     `json:"room_id"`
		WindowSeconds int                      `json:"window_seconds"`
		Entries       []models.PhotoSubmission `json:"entries"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, room.ID, resp.RoomID)
	require.Equal(t, 3600, resp.WindowSeconds)
	require.Len(t, resp.Entries, 3)
	require.Equal(t, 90, resp.Entries[0].Score)
	require.Equal(t, 80, resp.Entries[1].Score)
	require.Equal(t, 70, resp.Entries[2].Score)
}

func TestDashboardUnknownRoomReturns404(t *testing.T) {
	env := newRoomServer(t)

	rec := env.get(t, "/api/rooms/999/dashboard")
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestDashboardRejectsBadWindowOverride(t *testing.T) {
	env := newRoomServer(t)
	room := models.Room{Name: "Grand Entrance"}
	require.NoError(t, env.rooms.Create(&room))

	rec := env.get(t, fmt.Sprintf("/api/rooms/%d/dashboard?window_minutes=-5", room.ID))
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestListRoomPhotosRejectsUnknownSortOrder(t *testing.T) {
	env := newRoomServer(t)
	room := models.Room{Name: "Grand Entrance"}
	require.NoError(t, env.rooms.Create(&room))

	rec := env.get(t, fmt.Sprintf("/api/rooms/%d/photos?sort=bogus", room.ID))
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestListRoomPhotosNaturalFilenameOrder(t *testing.T) {
	env := newRoomServer(t)
	room := models.Room{Name: "Grand Entrance"}
	require.NoError(t, env.rooms.Create(&room))

	for _, name := range []string{"submissions/IMG_10.jpg", "submissions/IMG_2.jpg"} {
		require.NoError(t, env.photos.Create(&models.PhotoSubmission{
			VisitorID: 1,
			RoomID:    room.ID,
			ImagePath: name,
			CreatedAt: env.clock.Now(),
		}))
	}

	rec := env.get(t, fmt.Sprintf("/api/rooms/%d/photos?sort=filename_nat", room.ID))
	require.Equal(t, http.StatusOK, rec.Code)

	var photos []models.PhotoSubmission
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &photos))
	require.Len(t, photos, 2)
	require.Equal(t, "submissions/IMG_2.jpg", photos[0].ImagePath)
	require.Equal(t, "submissions/IMG_10.jpg", photos[1].ImagePath)
}
