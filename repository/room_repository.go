package repository

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/gemsmart/museumbackend/models"
)

// GormRoomRepository implements RoomRepository against the GORM store.
type GormRoomRepository struct {
	db *gorm.DB
}

func NewGormRoomRepository(db *gorm.DB) RoomRepository {
	return &GormRoomRepository{db: db}
}

func (r *GormRoomRepository) Create(room *models.Room) error {
	if err := r.db.Create(room).Error; err != nil {
		return fmt.Errorf("failed to create room %s: %w", room.Name, err)
	}
	return nil
}

func (r *GormRoomRepository) GetByID(id uint) (*models.Room, error) {
	var room models.Room
	err := r.db.First(&room, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &models.NotFoundError{Resource: "room", Ref: fmt.Sprint(id)}
		}
		return nil, fmt.Errorf("failed to get room by ID %d: %w", id, err)
	}
	return &room, nil
}

func (r *GormRoomRepository) ListAll() ([]models.Room, error) {
	var rooms []models.Room
	err := r.db.Order("name ASC").Find(&rooms).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list rooms: %w", err)
	}
	return rooms, nil
}

func (r *GormRoomRepository) Count() (int64, error) {
	var count int64
	err := r.db.Model(&models.Room{}).Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count rooms: %w", err)
	}
	return count, nil
}
