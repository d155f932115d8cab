package repository

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/gemsmart/museumbackend/models"
)

// GormStaffRepository implements StaffRepository against the GORM store.
type GormStaffRepository struct {
	db *gorm.DB
}

func NewGormStaffRepository(db *gorm.DB) StaffRepository {
	return &GormStaffRepository{db: db}
}

func (r *GormStaffRepository) Create(staff *models.Staff) error {
	if err := r.db.Create(staff).Error; err != nil {
		return fmt.Errorf("failed to create staff account %s: %w", staff.Username, err)
	}
	return nil
}

func (r *GormStaffRepository) GetByID(id uint) (*models.Staff, error) {
	var staff models.Staff
	err := r.db.First(&staff, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &models.NotFoundError{Resource: "staff", Ref: fmt.Sprint(id)}
		}
		return nil, fmt.Errorf("failed to get staff by ID %d: %w", id, err)
	}
	return &staff, nil
}

func (r *GormStaffRepository) GetByUsername(username string) (*models.Staff, error) {
	var staff models.Staff
	err := r.db.Where("username = ?", username).First(&staff).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &models.NotFoundError{Resource: "staff", Ref: username}
		}
		return nil, fmt.Errorf("failed to get staff by username %s: %w", username, err)
	}
	return &staff, nil
}

func (r *GormStaffRepository) ListAll() ([]models.Staff, error) {
	var staff []models.Staff
	err := r.db.Order("username ASC").Find(&staff).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list staff accounts: %w", err)
	}
	return staff, nil
}
