package models

import "time"

// Badge is an achievement visitors can earn (e.g. "Photography Pro").
type Badge struct {
	ID      uint    `json:"id" gorm:"primaryKey;autoIncrement"`
	Name    string  `json:"name" gorm:"uniqueIndex;not null"`
	IconURL *string `json:"icon_url,omitempty"`
}

// TableName explicitly sets the table name for GORM.
func (Badge) TableName() string {
	return "badges"
}

// VisitorBadge links a visitor to an earned badge. A visitor earns a given
// badge at most once; re-awarding is a no-op.
type VisitorBadge struct {
	ID        uint      `json:"id" gorm:"primaryKey;autoIncrement"`
	VisitorID uint      `json:"visitor_id" gorm:"index:idx_visitor_badge,unique"`
	Visitor   Visitor   `json:"-" gorm:"foreignKey:VisitorID"`
	BadgeID   uint      `json:"badge_id" gorm:"index:idx_visitor_badge,unique"`
	Badge     Badge     `json:"-" gorm:"foreignKey:BadgeID"`
	EarnedAt  time.Time `json:"earned_at" gorm:"not null"`
}

// TableName explicitly sets the table name for GORM.
func (VisitorBadge) TableName() string {
	return "visitor_badges"
}
