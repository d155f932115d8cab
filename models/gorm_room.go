package models

// Room represents a physical exhibition space (e.g. "Royal Mummies Hall").
// Rooms are reference data: created by staff or seeding, never by visitors.
type Room struct {
	ID          uint    `json:"id" gorm:"primaryKey;autoIncrement"`
	Name        string  `json:"name" gorm:"not null"`
	Description *string `json:"description,omitempty"`
}

// TableName explicitly sets the table name for GORM.
func (Room) TableName() string {
	return "rooms"
}
