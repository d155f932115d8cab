package services

import (
	"sort"
	"time"

	"github.com/gemsmart/museumbackend/clock"
	"github.com/gemsmart/museumbackend/models"
	"github.com/gemsmart/museumbackend/repository"
)

const (
	// DefaultWindow is the rolling contest window: a submission competes for
	// one hour after it is created.
	DefaultWindow = time.Hour
	// DefaultLimit is how many entries a room dashboard shows.
	DefaultLimit = 3
)

// LeaderboardService ranks a room's photo submissions within a sliding time
// window. The window cutoff is evaluated against the injected clock at call
// time, so two calls a second apart can disagree about entries sitting on
// the boundary.
type LeaderboardService struct {
	photos repository.PhotoSubmissionRepository
	rooms  repository.RoomRepository
	clock  clock.Clock
}

func NewLeaderboardService(photos repository.PhotoSubmissionRepository, rooms repository.RoomRepository, clk clock.Clock) *LeaderboardService {
	return &LeaderboardService{photos: photos, rooms: rooms, clock: clk}
}

// TopRanked returns up to limit submissions for the room created within the
// last window, highest score first. Ties rank the earlier submission first;
// equal timestamps fall back to the lower id so the order is always total.
// A room with no qualifying submissions yields an empty list, not an error;
// an unknown roomID yields NotFoundError.
func (s *LeaderboardService) TopRanked(roomID uint, window time.Duration, limit int) ([]models.PhotoSubmission, error) {
	if window <= 0 {
		window = DefaultWindow
	}
	if limit <= 0 {
		limit = DefaultLimit
	}

	if _, err := s.rooms.GetByID(roomID); err != nil {
		return nil, err
	}

	cutoff := s.clock.Now().Add(-window)
	photos, err := s.photos.ListByRoomSince(roomID, cutoff)
	if err != nil {
		return nil, err
	}

	sort.Slice(photos, func(i, j int) bool {
		if photos[i].Score != photos[j].Score {
			return photos[i].Score > photos[j].Score
		}
		if !photos[i].CreatedAt.Equal(photos[j].CreatedAt) {
			return photos[i].CreatedAt.Before(photos[j].CreatedAt)
		}
		return photos[i].ID < photos[j].ID
	})

	if len(photos) > limit {
		photos = photos[:limit]
	}
	if photos == nil {
		photos = []models.PhotoSubmission{}
	}
	return photos, nil
}
