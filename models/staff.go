package models

import (
	"time"

	"golang.org/x/crypto/bcrypt"
)

// Staff represents a museum employee who can manage rooms, badges, scoring
// and winner marking through the admin endpoints.
type Staff struct {
	ID           uint      `json:"id" gorm:"primaryKey"`
	Username     string    `json:"username" gorm:"uniqueIndex;not null"`
	PasswordHash string    `json:"-" gorm:"not null"` // "-" means don't include in JSON responses
	Permissions  []string  `json:"permissions" gorm:"serializer:json"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// TableName explicitly sets the table name for GORM.
func (Staff) TableName() string {
	return "staff"
}

// SetPassword hashes the given password and sets it on the staff model.
func (s *Staff) SetPassword(password string) error {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	s.PasswordHash = string(hashedPassword)
	return nil
}

// CheckPassword verifies if the given password matches the stored hash.
func (s *Staff) CheckPassword(password string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(s.PasswordHash), []byte(password))
	return err == nil
}

// HasPermission checks if the staff member holds a specific permission.
func (s *Staff) HasPermission(permission string) bool {
	for _, p := range s.Permissions {
		if p == permission {
			return true
		}
	}
	return false
}
