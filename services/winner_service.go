package services

import (
	"errors"
	"log"
	"time"

	"github.com/gemsmart/museumbackend/clock"
	"github.com/gemsmart/museumbackend/models"
	"github.com/gemsmart/museumbackend/repository"
)

// WinnerBadgeName is the catalog badge awarded to hourly winners.
const WinnerBadgeName = "Photography Pro"

// WinnerService is the collaborator that consumes the ranked list and flags
// hourly winners. It never runs on a timer; staff (or a cron outside this
// process) trigger it per room.
type WinnerService struct {
	leaderboard *LeaderboardService
	photos      repository.PhotoSubmissionRepository
	badges      repository.BadgeRepository
	clock       clock.Clock
}

func NewWinnerService(leaderboard *LeaderboardService, photos repository.PhotoSubmissionRepository, badges repository.BadgeRepository, clk clock.Clock) *WinnerService {
	return &WinnerService{leaderboard: leaderboard, photos: photos, badges: badges, clock: clk}
}

// MarkHourlyWinner flags the top-ranked submission of the room's current
// window and awards the winner badge to its submitter. Returns nil (no
// error) when the window holds no submissions. Re-marking an already-flagged
// winner is a no-op, as is re-awarding an earned badge.
func (s *WinnerService) MarkHourlyWinner(roomID uint, window time.Duration) (*models.PhotoSubmission, error) {
	ranked, err := s.leaderboard.TopRanked(roomID, window, 1)
	if err != nil {
		return nil, err
	}
	if len(ranked) == 0 {
		return nil, nil
	}

	top := ranked[0]
	if err := s.photos.SetHourlyWinner(top.ID, true); err != nil {
		return nil, err
	}
	top.IsHourlyWinner = true

	badge, err := s.badges.GetByName(WinnerBadgeName)
	if err != nil {
		var notFound *models.NotFoundError
		if errors.As(err, &notFound) {
			// badge catalog not seeded; the win still counts
			log.Printf("winner: badge %q not found, skipping award for visitor %d", WinnerBadgeName, top.VisitorID)
			return &top, nil
		}
		return nil, err
	}
	if err := s.badges.Award(top.VisitorID, badge.ID, s.clock.Now()); err != nil {
		log.Printf("winner: failed to award badge %q to visitor %d: %v", WinnerBadgeName, top.VisitorID, err)
	}
	return &top, nil
}
