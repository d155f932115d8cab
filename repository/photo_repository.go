package repository

import (
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"gorm.io/gorm"

	"github.com/gemsmart/museumbackend/media"
	"github.com/gemsmart/museumbackend/models"
)

// GormPhotoRepository implements PhotoSubmissionRepository against the GORM
// store.
type GormPhotoRepository struct {
	db *gorm.DB
}

func NewGormPhotoRepository(db *gorm.DB) PhotoSubmissionRepository {
	return &GormPhotoRepository{db: db}
}

func (r *GormPhotoRepository) Create(photo *models.PhotoSubmission) error {
	if err := r.db.Create(photo).Error; err != nil {
		return fmt.Errorf("failed to create photo submission for visitor %d: %w", photo.VisitorID, err)
	}
	return nil
}

func (r *GormPhotoRepository) GetByID(id uint) (*models.PhotoSubmission, error) {
	var photo models.PhotoSubmission
	err := r.db.First(&photo, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &models.NotFoundError{Resource: "photo submission", Ref: fmt.Sprint(id)}
		}
		return nil, fmt.Errorf("failed to get photo submission by ID %d: %w", id, err)
	}
	return &photo, nil
}

func (r *GormPhotoRepository) ListByRoom(roomID uint) ([]models.PhotoSubmission, error) {
	var photos []models.PhotoSubmission
	err := r.db.Where("room_id = ?", roomID).Order("created_at DESC").Find(&photos).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list photo submissions for room %d: %w", roomID, err)
	}
	return photos, nil
}

// ListByRoomSince returns every submission for the room created at or after
// cutoff. Ranking order is the leaderboard's concern; the query only filters.
func (r *GormPhotoRepository) ListByRoomSince(roomID uint, cutoff time.Time) ([]models.PhotoSubmission, error) {
	queryBuilder := psql.
		Select("*").
		From("photo_submissions").
		Where(sq.Eq{"room_id": roomID}).
		Where(sq.GtOrEq{"created_at": cutoff})

	sqlStr, args, err := queryBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build window query for room %d: %w", roomID, err)
	}

	var photos []models.PhotoSubmission
	if err := r.db.Raw(sqlStr, args...).Scan(&photos).Error; err != nil {
		return nil, fmt.Errorf("failed to list windowed submissions for room %d: %w", roomID, err)
	}
	return photos, nil
}

func (r *GormPhotoRepository) ListByVisitor(visitorID uint) ([]models.PhotoSubmission, error) {
	var photos []models.PhotoSubmission
	err := r.db.Where("visitor_id = ?", visitorID).Order("created_at DESC").Find(&photos).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list photo submissions for visitor %d: %w", visitorID, err)
	}
	return photos, nil
}

// MarkTaskProcessing flips a task status column to processing before a worker
// picks the job up.
func (r *GormPhotoRepository) MarkTaskProcessing(id uint, statusColumn string) error {
	result := r.db.Model(&models.PhotoSubmission{}).Where("id = ?", id).
		Update(statusColumn, models.StatusProcessing)
	if result.Error != nil {
		return fmt.Errorf("failed to mark %s processing for submission %d: %w", statusColumn, id, result.Error)
	}
	if result.RowsAffected == 0 {
		return &models.NotFoundError{Resource: "photo submission", Ref: fmt.Sprint(id)}
	}
	return nil
}

func (r *GormPhotoRepository) UpdateThumbnailResult(id uint, thumbPath *string, taskErr error) error {
	updates := map[string]interface{}{
		"thumbnail_path":   thumbPath,
		"thumbnail_status": models.StatusDone,
		"thumbnail_error":  nil,
	}
	if taskErr != nil {
		updates["thumbnail_status"] = models.StatusError
		updates["thumbnail_error"] = taskErr.Error()
	}
	err := r.db.Model(&models.PhotoSubmission{}).Where("id = ?", id).Updates(updates).Error
	if err != nil {
		return fmt.Errorf("failed to store thumbnail result for submission %d: %w", id, err)
	}
	return nil
}

func (r *GormPhotoRepository) UpdateMetadataResult(id uint, meta *media.Metadata, taskErr error) error {
	updates := map[string]interface{}{
		"metadata_status": models.StatusDone,
		"metadata_error":  nil,
	}
	if taskErr != nil {
		updates["metadata_status"] = models.StatusError
		updates["metadata_error"] = taskErr.Error()
	} else if meta != nil {
		updates["taken_at"] = meta.TakenAt
		updates["camera_make"] = meta.CameraMake
		updates["camera_model"] = meta.CameraModel
	}
	err := r.db.Model(&models.PhotoSubmission{}).Where("id = ?", id).Updates(updates).Error
	if err != nil {
		return fmt.Errorf("failed to store metadata result for submission %d: %w", id, err)
	}
	return nil
}

func (r *GormPhotoRepository) UpdateScoreResult(id uint, score int, taskErr error) error {
	updates := map[string]interface{}{
		"score_status": models.StatusDone,
		"score_error":  nil,
	}
	if taskErr != nil {
		updates["score_status"] = models.StatusError
		updates["score_error"] = taskErr.Error()
	} else {
		updates["score"] = score
	}
	err := r.db.Model(&models.PhotoSubmission{}).Where("id = ?", id).Updates(updates).Error
	if err != nil {
		return fmt.Errorf("failed to store score result for submission %d: %w", id, err)
	}
	return nil
}

func (r *GormPhotoRepository) SetHourlyWinner(id uint, winner bool) error {
	result := r.db.Model(&models.PhotoSubmission{}).Where("id = ?", id).
		Update("is_hourly_winner", winner)
	if result.Error != nil {
		return fmt.Errorf("failed to set hourly winner flag for submission %d: %w", id, result.Error)
	}
	if result.RowsAffected == 0 {
		return &models.NotFoundError{Resource: "photo submission", Ref: fmt.Sprint(id)}
	}
	return nil
}
