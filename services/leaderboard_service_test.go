package services_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/gemsmart/museumbackend/clock"
	"github.com/gemsmart/museumbackend/models"
	"github.com/gemsmart/museumbackend/repository"
	"github.com/gemsmart/museumbackend/services"
)

type LeaderboardServiceSuite struct {
	suite.Suite
	photos      *repository.MemoryPhotoRepository
	rooms       *repository.MemoryRoomRepository
	clock       *clock.Fixed
	leaderboard *services.LeaderboardService
	room        models.Room
}

func (s *LeaderboardServiceSuite) SetupTest() {
	s.photos = repository.NewMemoryPhotoRepository()
	s.rooms = repository.NewMemoryRoomRepository()
	s.clock = clock.NewFixed(time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC))
	s.leaderboard = services.NewLeaderboardService(s.photos, s.rooms, s.clock)

	s.room = models.Room{Name: "Ancient Egypt Gallery"}
	s.Require().NoError(s.rooms.Create(&s.room))
}

func TestLeaderboardServiceSuite(t *testing.T) {
	suite.Run(t, new(LeaderboardServiceSuite))
}

// submit creates a scored submission at an offset relative to the fixed
// clock (negative offsets are in the past).
func (s *LeaderboardServiceSuite) submit(roomID uint, score int, offset time.Duration) models.PhotoSubmission {
	photo := models.PhotoSubmission{
		VisitorID: 1,
		RoomID:    roomID,
		ImagePath: "submissions/test.jpg",
		CreatedAt: s.clock.Now().Add(offset),
		Score:     score,
	}
	s.Require().NoError(s.photos.Create(&photo))
	return photo
}

func (s *LeaderboardServiceSuite) TestTopRankedOrdersByScore() {
	s.submit(s.room.ID, 70, -30*time.Minute)
	best := s.submit(s.room.ID, 90, -20*time.Minute)
	mid := s.submit(s.room.ID, 80, -10*time.Minute)

	ranked, err := s.leaderboard.TopRanked(s.room.ID, time.Hour, 3)
	s.Require().NoError(err)
	s.Require().Len(ranked, 3)
	s.Require().Equal(best.ID, ranked[0].ID)
	s.Require().Equal(mid.ID, ranked[1].ID)
	s.Require().Equal(90, ranked[0].Score)
}

func (s *LeaderboardServiceSuite) TestTopRankedExcludesExpiredEntries() {
	s.submit(s.room.ID, 100, -61*time.Minute)
	inWindow := s.submit(s.room.ID, 10, -59*time.Minute)

	ranked, err := s.leaderboard.TopRanked(s.room.ID, time.Hour, 3)
	s.Require().NoError(err)
	s.Require().Len(ranked, 1)
	s.Require().Equal(inWindow.ID, ranked[0].ID)
}

func (s *LeaderboardServiceSuite) TestWindowBoundaryIsInclusive() {
	onBoundary := s.submit(s.room.ID, 50, -time.Hour)

	ranked, err := s.leaderboard.TopRanked(s.room.ID, time.Hour, 3)
	s.Require().NoError(err)
	s.Require().Len(ranked, 1)
	s.Require().Equal(onBoundary.ID, ranked[0].ID)
}

func (s *LeaderboardServiceSuite) TestTiesRankEarlierSubmissionFirst() {
	later := s.submit(s.room.ID, 80, -10*time.Minute)
	earlier := s.submit(s.room.ID, 80, -40*time.Minute)

	ranked, err := s.leaderboard.TopRanked(s.room.ID, time.Hour, 3)
	s.Require().NoError(err)
	s.Require().Len(ranked, 2)
	s.Require().Equal(earlier.ID, ranked[0].ID)
	s.Require().Equal(later.ID, ranked[1].ID)
}

func (s *LeaderboardServiceSuite) TestEqualTimestampsFallBackToID() {
	first := s.submit(s.room.ID, 80, -10*time.Minute)
	second := s.submit(s.room.ID, 80, -10*time.Minute)

	ranked, err := s.leaderboard.TopRanked(s.room.ID, time.Hour, 3)
	s.Require().NoError(err)
	s.Require().Equal(first.ID, ranked[0].ID)
	s.Require().Equal(second.ID, ranked[1].ID)
}

func (s *LeaderboardServiceSuite) TestLimitTruncates() {
	for i := 0; i < 5; i++ {
		s.submit(s.room.ID, 10*i, -time.Duration(i+1)*time.Minute)
	}

	ranked, err := s.leaderboard.TopRanked(s.room.ID, time.Hour, 3)
	s.Require().NoError(err)
	s.Require().Len(ranked, 3)
	s.Require().Equal(40, ranked[0].Score)
	s.Require().Equal(20, ranked[2].Score)
}

func (s *LeaderboardServiceSuite) TestDefaultsApplyForNonPositiveArguments() {
	s.submit(s.room.ID, 50, -30*time.Minute)
	s.submit(s.room.ID, 100, -90*time.Minute) // outside the default hour

	ranked, err := s.leaderboard.TopRanked(s.room.ID, 0, 0)
	s.Require().NoError(err)
	s.Require().Len(ranked, 1)
	s.Require().Equal(50, ranked[0].Score)
}

func (s *LeaderboardServiceSuite) TestEmptyWindowYieldsEmptyList() {
	ranked, err := s.leaderboard.TopRanked(s.room.ID, time.Hour, 3)
	s.Require().NoError(err)
	s.Require().NotNil(ranked)
	s.Require().Empty(ranked)
}

func (s *LeaderboardServiceSuite) TestUnknownRoomIsNotFound() {
	_, err := s.leaderboard.TopRanked(999, time.Hour, 3)
	var notFoundErr *models.NotFoundError
	s.Require().ErrorAs(err, &notFoundErr)
}

func (s *LeaderboardServiceSuite) TestOtherRoomsDoNotLeakIn() {
	other := models.Room{Name: "Grand Entrance"}
	s.Require().NoError(s.rooms.Create(&other))
	s.submit(other.ID, 99, -5*time.Minute)
	mine := s.submit(s.room.ID, 10, -5*time.Minute)

	ranked, err := s.leaderboard.TopRanked(s.room.ID, time.Hour, 3)
	s.Require().NoError(err)
	s.Require().Len(ranked, 1)
	s.Require().Equal(mine.ID, ranked[0].ID)
}

func (s *LeaderboardServiceSuite) TestWindowMovesWithClock() {
	s.submit(s.room.ID, 80, -50*time.Minute)

	ranked, err := s.leaderboard.TopRanked(s.room.ID, time.Hour, 3)
	s.Require().NoError(err)
	s.Require().Len(ranked, 1)

	s.clock.Advance(15 * time.Minute)
	ranked, err = s.leaderboard.TopRanked(s.room.ID, time.Hour, 3)
	s.Require().NoError(err)
	s.Require().Empty(ranked)
}
