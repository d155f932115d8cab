package repository

import (
	"time"

	"github.com/gemsmart/museumbackend/media"
	"github.com/gemsmart/museumbackend/models"
)

// VisitorRepository defines the methods for visitor data operations.
// ClaimCredential is the single primitive every credential-uniqueness check
// goes through: it must execute the lookup and the write as one atomic unit
// so that of two concurrent claims for the same value exactly one succeeds.
type VisitorRepository interface {
	Create(visitor *models.Visitor) error
	GetByID(id uint) (*models.Visitor, error)
	GetByEmail(email string) (*models.Visitor, error)
	ListAll() ([]models.Visitor, error)
	Update(visitor *models.Visitor) error

	// FindByCredential returns every visitor holding token in either slot.
	// Under the uniqueness invariants at most one can match; callers treat a
	// longer result as corruption.
	FindByCredential(token string) ([]models.Visitor, error)

	// ClaimCredential atomically binds value to the given slot of visitorID.
	// Returns models.NotFoundError if the visitor is absent and
	// models.ConflictError (naming the current owner) if the value is bound
	// to a different visitor. Re-claiming a value already held by the same
	// visitor succeeds.
	ClaimCredential(visitorID uint, slot models.CredentialSlot, value string) (*models.Visitor, error)
}

// RoomRepository defines the methods for room data operations.
type RoomRepository interface {
	Create(room *models.Room) error
	GetByID(id uint) (*models.Room, error)
	ListAll() ([]models.Room, error)
	Count() (int64, error)
}

// PhotoSubmissionRepository defines the methods for contest-entry data
// operations, including the result writes performed by the processing
// workers.
type PhotoSubmissionRepository interface {
	Create(photo *models.PhotoSubmission) error
	GetByID(id uint) (*models.PhotoSubmission, error)
	ListByRoom(roomID uint) ([]models.PhotoSubmission, error)
	ListByRoomSince(roomID uint, cutoff time.Time) ([]models.PhotoSubmission, error)
	ListByVisitor(visitorID uint) ([]models.PhotoSubmission, error)

	MarkTaskProcessing(id uint, statusColumn string) error
	UpdateThumbnailResult(id uint, thumbPath *string, taskErr error) error
	UpdateMetadataResult(id uint, meta *media.Metadata, taskErr error) error
	UpdateScoreResult(id uint, score int, taskErr error) error

	SetHourlyWinner(id uint, winner bool) error
}

// BadgeRepository defines the methods for badge data operations.
type BadgeRepository interface {
	Create(badge *models.Badge) error
	GetByID(id uint) (*models.Badge, error)
	GetByName(name string) (*models.Badge, error)
	ListAll() ([]models.Badge, error)

	// Award links a badge to a visitor; awarding the same badge twice is a
	// no-op.
	Award(visitorID, badgeID uint, earnedAt time.Time) error
	ListByVisitor(visitorID uint) ([]models.VisitorBadge, error)
}

// StaffRepository defines the methods for staff account data operations.
type StaffRepository interface {
	Create(staff *models.Staff) error
	GetByID(id uint) (*models.Staff, error)
	GetByUsername(username string) (*models.Staff, error)
	ListAll() ([]models.Staff, error)
}
