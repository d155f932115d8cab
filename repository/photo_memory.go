package repository

import (
	"fmt"
	"sync"
	"time"

	"github.com/gemsmart/museumbackend/media"
	"github.com/gemsmart/museumbackend/models"
)

// MemoryPhotoRepository is an in-memory PhotoSubmissionRepository.
type MemoryPhotoRepository struct {
	mu     sync.Mutex
	photos map[uint]models.PhotoSubmission
	nextID uint
}

func NewMemoryPhotoRepository() *MemoryPhotoRepository {
	return &MemoryPhotoRepository{photos: make(map[uint]models.PhotoSubmission), nextID: 1}
}

func (r *MemoryPhotoRepository) Create(photo *models.PhotoSubmission) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	photo.ID = r.nextID
	r.nextID++
	if photo.ThumbnailStatus == "" {
		photo.ThumbnailStatus = models.StatusPending
	}
	if photo.MetadataStatus == "" {
		photo.MetadataStatus = models.StatusPending
	}
	if photo.ScoreStatus == "" {
		photo.ScoreStatus = models.StatusPending
	}
	r.photos[photo.ID] = *photo
	return nil
}

func (r *MemoryPhotoRepository) GetByID(id uint) (*models.PhotoSubmission, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	photo, ok := r.photos[id]
	if !ok {
		return nil, &models.NotFoundError{Resource: "photo submission", Ref: fmt.Sprint(id)}
	}
	return &photo, nil
}

func (r *MemoryPhotoRepository) ListByRoom(roomID uint) ([]models.PhotoSubmission, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var photos []models.PhotoSubmission
	for _, photo := range r.photos {
		if photo.RoomID == roomID {
			photos = append(photos, photo)
		}
	}
	return photos, nil
}

func (r *MemoryPhotoRepository) ListByRoomSince(roomID uint, cutoff time.Time) ([]models.PhotoSubmission, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var photos []models.PhotoSubmission
	for _, photo := range r.photos {
		if photo.RoomID == roomID && !photo.CreatedAt.Before(cutoff) {
			photos = append(photos, photo)
		}
	}
	return photos, nil
}

func (r *MemoryPhotoRepository) ListByVisitor(visitorID uint) ([]models.PhotoSubmission, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var photos []models.PhotoSubmission
	for _, photo := range r.photos {
		if photo.VisitorID == visitorID {
			photos = append(photos, photo)
		}
	}
	return photos, nil
}

func (r *MemoryPhotoRepository) MarkTaskProcessing(id uint, statusColumn string) error {
	return r.mutate(id, func(photo *models.PhotoSubmission) {
		switch statusColumn {
		case "thumbnail_status":
			photo.ThumbnailStatus = models.StatusProcessing
		case "metadata_status":
			photo.MetadataStatus = models.StatusProcessing
		case "score_status":
			photo.ScoreStatus = models.StatusProcessing
		}
	})
}

func (r *MemoryPhotoRepository) UpdateThumbnailResult(id uint, thumbPath *string, taskErr error) error {
	return r.mutate(id, func(photo *models.PhotoSubmission) {
		if taskErr != nil {
			msg := taskErr.Error()
			photo.ThumbnailStatus = models.StatusError
			photo.ThumbnailError = &msg
			return
		}
		photo.ThumbnailPath = thumbPath
		photo.ThumbnailStatus = models.StatusDone
		photo.ThumbnailError = nil
	})
}

func (r *MemoryPhotoRepository) UpdateMetadataResult(id uint, meta *media.Metadata, taskErr error) error {
	return r.mutate(id, func(photo *models.PhotoSubmission) {
		if taskErr != nil {
			msg := taskErr.Error()
			photo.MetadataStatus = models.StatusError
			photo.MetadataError = &msg
			return
		}
		if meta != nil {
			photo.TakenAt = meta.TakenAt
			photo.CameraMake = meta.CameraMake
			photo.CameraModel = meta.CameraModel
		}
		photo.MetadataStatus = models.StatusDone
		photo.MetadataError = nil
	})
}

func (r *MemoryPhotoRepository) UpdateScoreResult(id uint, score int, taskErr error) error {
	return r.mutate(id, func(photo *models.PhotoSubmission) {
		if taskErr != nil {
			msg := taskErr.Error()
			photo.ScoreStatus = models.StatusError
			photo.ScoreError = &msg
			return
		}
		photo.Score = score
		photo.ScoreStatus = models.StatusDone
		photo.ScoreError = nil
	})
}

func (r *MemoryPhotoRepository) SetHourlyWinner(id uint, winner bool) error {
	return r.mutate(id, func(photo *models.PhotoSubmission) {
		photo.IsHourlyWinner = winner
	})
}

func (r *MemoryPhotoRepository) mutate(id uint, fn func(*models.PhotoSubmission)) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	photo, ok := r.photos[id]
	if !ok {
		return &models.NotFoundError{Resource: "photo submission", Ref: fmt.Sprint(id)}
	}
	fn(&photo)
	r.photos[id] = photo
	return nil
}
