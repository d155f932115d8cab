package repository

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/gemsmart/museumbackend/models"
)

// MemoryBadgeRepository is an in-memory BadgeRepository.
type MemoryBadgeRepository struct {
	mu      sync.Mutex
	badges  map[uint]models.Badge
	awards  []models.VisitorBadge
	nextID  uint
	awardID uint
}

func NewMemoryBadgeRepository() *MemoryBadgeRepository {
	return &MemoryBadgeRepository{badges: make(map[uint]models.Badge), nextID: 1, awardID: 1}
}

func (r *MemoryBadgeRepository) Create(badge *models.Badge) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.badges {
		if existing.Name == badge.Name {
			return fmt.Errorf("badge with name %s already exists", badge.Name)
		}
	}
	badge.ID = r.nextID
	r.nextID++
	r.badges[badge.ID] = *badge
	return nil
}

func (r *MemoryBadgeRepository) GetByID(id uint) (*models.Badge, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	badge, ok := r.badges[id]
	if !ok {
		return nil, &models.NotFoundError{Resource: "badge", Ref: fmt.Sprint(id)}
	}
	return &badge, nil
}

func (r *MemoryBadgeRepository) GetByName(name string) (*models.Badge, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, badge := range r.badges {
		if badge.Name == name {
			b := badge
			return &b, nil
		}
	}
	return nil, &models.NotFoundError{Resource: "badge", Ref: name}
}

func (r *MemoryBadgeRepository) ListAll() ([]models.Badge, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	badges := make([]models.Badge, 0, len(r.badges))
	for _, badge := range r.badges {
		badges = append(badges, badge)
	}
	sort.Slice(badges, func(i, j int) bool { return badges[i].Name < badges[j].Name })
	return badges, nil
}

func (r *MemoryBadgeRepository) Award(visitorID, badgeID uint, earnedAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, award := range r.awards {
		if award.VisitorID == visitorID && award.BadgeID == badgeID {
			return nil // already earned
		}
	}
	r.awards = append(r.awards, models.VisitorBadge{
		ID:        r.awardID,
		VisitorID: visitorID,
		BadgeID:   badgeID,
		EarnedAt:  earnedAt,
	})
	r.awardID++
	return nil
}

func (r *MemoryBadgeRepository) ListByVisitor(visitorID uint) ([]models.VisitorBadge, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var awards []models.VisitorBadge
	for _, award := range r.awards {
		if award.VisitorID == visitorID {
			if badge, ok := r.badges[award.BadgeID]; ok {
				award.Badge = badge
			}
			awards = append(awards, award)
		}
	}
	sort.Slice(awards, func(i, j int) bool { return awards[i].EarnedAt.Before(awards[j].EarnedAt) })
	return awards, nil
}
