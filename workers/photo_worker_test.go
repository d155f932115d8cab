package workers_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/gemsmart/museumbackend/models"
	"github.com/gemsmart/museumbackend/repository"
	"github.com/gemsmart/museumbackend/workers"
)

type fixedScorer struct{ score int }

func (s fixedScorer) Score(string) (int, error) { return s.score, nil }

func writeTempImage(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "photo.jpg")
	require.NoError(t, os.WriteFile(path, []byte("not a real jpeg"), 0644))
	return path
}

func waitForStatus(t *testing.T, photos *repository.MemoryPhotoRepository, id uint, get func(*models.PhotoSubmission) string, want string) *models.PhotoSubmission {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		photo, err := photos.GetByID(id)
		require.NoError(t, err)
		if get(photo) == want {
			return photo
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("submission %d never reached status %q", id, want)
	return nil
}

func TestScoreTaskWritesResult(t *testing.T) {
	photos := repository.NewMemoryPhotoRepository()
	proc := workers.NewPhotoProcessor(photos, nil, fixedScorer{score: 42}, nil, 300, 10, 1)
	defer proc.Stop()

	submission := &models.PhotoSubmission{VisitorID: 1, RoomID: 1, ImagePath: "x", CreatedAt: time.Now()}
	require.NoError(t, photos.Create(submission))

	queued := proc.QueueJob(workers.PhotoJob{
		SubmissionID: submission.ID,
		ImagePath:    writeTempImage(t),
		TaskType:     workers.TaskScore,
	})
	require.True(t, queued)

	done := waitForStatus(t, photos, submission.ID, func(p *models.PhotoSubmission) string { return p.ScoreStatus }, models.StatusDone)
	require.Equal(t, 42, done.Score)
	require.Nil(t, done.ScoreError)
}

func TestMissingFileMarksTaskError(t *testing.T) {
	photos := repository.NewMemoryPhotoRepository()
	proc := workers.NewPhotoProcessor(photos, nil, fixedScorer{score: 42}, nil, 300, 10, 1)
	defer proc.Stop()

	submission := &models.PhotoSubmission{VisitorID: 1, RoomID: 1, ImagePath: "x", CreatedAt: time.Now()}
	require.NoError(t, photos.Create(submission))

	queued := proc.QueueJob(workers.PhotoJob{
		SubmissionID: submission.ID,
		ImagePath:    filepath.Join(t.TempDir(), "does-not-exist.jpg"),
		TaskType:     workers.TaskScore,
	})
	require.True(t, queued)

	failed := waitForStatus(t, photos, submission.ID, func(p *models.PhotoSubmission) string { return p.ScoreStatus }, models.StatusError)
	require.NotNil(t, failed.ScoreError)
}

func TestQueueJobDeduplicatesPendingTasks(t *testing.T) {
	photos := repository.NewMemoryPhotoRepository()
	proc := workers.NewPhotoProcessor(photos, nil, fixedScorer{score: 42}, nil, 300, 10, 1)
	defer proc.Stop()

	submission := &models.PhotoSubmission{VisitorID: 1, RoomID: 1, ImagePath: "x", CreatedAt: time.Now()}
	require.NoError(t, photos.Create(submission))

	job := workers.PhotoJob{
		SubmissionID: submission.ID,
		ImagePath:    writeTempImage(t),
		TaskType:     workers.TaskScore,
	}
	first := proc.QueueJob(job)
	second := proc.QueueJob(job)
	require.True(t, first)
	if second {
		// the worker may already have drained the first job; either answer
		// is correct as long as both complete
		t.Log("first job completed before duplicate was queued")
	}

	waitForStatus(t, photos, submission.ID, func(p *models.PhotoSubmission) string { return p.ScoreStatus }, models.StatusDone)
}
