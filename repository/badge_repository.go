package repository

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/gemsmart/museumbackend/models"
)

// GormBadgeRepository implements BadgeRepository against the GORM store.
type GormBadgeRepository struct {
	db *gorm.DB
}

func NewGormBadgeRepository(db *gorm.DB) BadgeRepository {
	return &GormBadgeRepository{db: db}
}

func (r *GormBadgeRepository) Create(badge *models.Badge) error {
	if err := r.db.Create(badge).Error; err != nil {
		return fmt.Errorf("failed to create badge %s: %w", badge.Name, err)
	}
	return nil
}

func (r *GormBadgeRepository) GetByID(id uint) (*models.Badge, error) {
	var badge models.Badge
	err := r.db.First(&badge, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &models.NotFoundError{Resource: "badge", Ref: fmt.Sprint(id)}
		}
		return nil, fmt.Errorf("failed to get badge by ID %d: %w", id, err)
	}
	return &badge, nil
}

func (r *GormBadgeRepository) GetByName(name string) (*models.Badge, error) {
	var badge models.Badge
	err := r.db.Where("name = ?", name).First(&badge).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &models.NotFoundError{Resource: "badge", Ref: name}
		}
		return nil, fmt.Errorf("failed to get badge by name %s: %w", name, err)
	}
	return &badge, nil
}

func (r *GormBadgeRepository) ListAll() ([]models.Badge, error) {
	var badges []models.Badge
	err := r.db.Order("name ASC").Find(&badges).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list badges: %w", err)
	}
	return badges, nil
}

func (r *GormBadgeRepository) Award(visitorID, badgeID uint, earnedAt time.Time) error {
	award := models.VisitorBadge{VisitorID: visitorID, BadgeID: badgeID, EarnedAt: earnedAt}
	// avoid error if the visitor already earned this badge
	err := r.db.Clauses(clause.OnConflict{DoNothing: true}).Create(&award).Error
	if err != nil {
		return fmt.Errorf("failed to award badge %d to visitor %d: %w", badgeID, visitorID, err)
	}
	return nil
}

func (r *GormBadgeRepository) ListByVisitor(visitorID uint) ([]models.VisitorBadge, error) {
	var awards []models.VisitorBadge
	err := r.db.Preload("Badge").Where("visitor_id = ?", visitorID).Order("earned_at ASC").Find(&awards).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list badges for visitor %d: %w", visitorID, err)
	}
	return awards, nil
}
