package models

import "time"

// Task status values for the asynchronous processing columns.
const (
	StatusPending    = "pending"
	StatusProcessing = "processing"
	StatusDone       = "done"
	StatusError      = "error"
)

// PhotoSubmission is a photo-contest entry tied to a visitor and a room.
// CreatedAt is set once at upload and is the boundary used by the rolling
// leaderboard window. Score is written only by the scoring task and
// IsHourlyWinner only by the winner-marking process.
type PhotoSubmission struct {
	ID        uint      `json:"id" gorm:"primaryKey;autoIncrement"`
	VisitorID uint      `json:"visitor_id" gorm:"not null;index"`
	Visitor   Visitor   `json:"-" gorm:"foreignKey:VisitorID"`
	RoomID    uint      `json:"room_id" gorm:"not null;index"`
	Room      Room      `json:"-" gorm:"foreignKey:RoomID"`
	ImagePath string    `json:"image_path" gorm:"not null"` // relative path within the media store
	CreatedAt time.Time `json:"created_at" gorm:"not null;index"`

	Score          int  `json:"score" gorm:"not null;default:0"`
	IsHourlyWinner bool `json:"is_hourly_winner" gorm:"not null;default:false"`

	// Derived by the photo processing workers
	ThumbnailPath *string `json:"thumbnail_path,omitempty"`
	TakenAt       *int64  `json:"taken_at,omitempty"` // Unix timestamp from EXIF
	CameraMake    *string `json:"camera_make,omitempty"`
	CameraModel   *string `json:"camera_model,omitempty"`

	ThumbnailStatus string `json:"thumbnail_status" gorm:"not null;default:pending"`
	MetadataStatus  string `json:"metadata_status" gorm:"not null;default:pending"`
	ScoreStatus     string `json:"score_status" gorm:"not null;default:pending"`

	ThumbnailError *string `json:"thumbnail_error,omitempty"`
	MetadataError  *string `json:"metadata_error,omitempty"`
	ScoreError     *string `json:"score_error,omitempty"`
}

// TableName explicitly sets the table name for GORM.
func (PhotoSubmission) TableName() string {
	return "photo_submissions"
}
