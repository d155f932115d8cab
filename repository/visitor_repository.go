package repository

import (
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"gorm.io/gorm"

	"github.com/gemsmart/museumbackend/models"
)

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Question)

// GormVisitorRepository implements VisitorRepository against the GORM store.
type GormVisitorRepository struct {
	db *gorm.DB
}

func NewGormVisitorRepository(db *gorm.DB) VisitorRepository {
	return &GormVisitorRepository{db: db}
}

func (r *GormVisitorRepository) Create(visitor *models.Visitor) error {
	if err := r.db.Create(visitor).Error; err != nil {
		return fmt.Errorf("failed to create visitor %s: %w", visitor.Email, err)
	}
	return nil
}

func (r *GormVisitorRepository) GetByID(id uint) (*models.Visitor, error) {
	var visitor models.Visitor
	err := r.db.First(&visitor, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &models.NotFoundError{Resource: "visitor", Ref: fmt.Sprint(id)}
		}
		return nil, fmt.Errorf("failed to get visitor by ID %d: %w", id, err)
	}
	return &visitor, nil
}

func (r *GormVisitorRepository) GetByEmail(email string) (*models.Visitor, error) {
	var visitor models.Visitor
	err := r.db.Where("email = ?", email).First(&visitor).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &models.NotFoundError{Resource: "visitor", Ref: email}
		}
		return nil, fmt.Errorf("failed to get visitor by email %s: %w", email, err)
	}
	return &visitor, nil
}

func (r *GormVisitorRepository) ListAll() ([]models.Visitor, error) {
	var visitors []models.Visitor
	err := r.db.Order("joined_at ASC").Find(&visitors).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list visitors: %w", err)
	}
	return visitors, nil
}

func (r *GormVisitorRepository) Update(visitor *models.Visitor) error {
	if err := r.db.Save(visitor).Error; err != nil {
		return fmt.Errorf("failed to update visitor %d: %w", visitor.ID, err)
	}
	return nil
}

// FindByCredential searches both credential slots for token. The OR query is
// composed with squirrel and run through GORM's raw interface.
func (r *GormVisitorRepository) FindByCredential(token string) ([]models.Visitor, error) {
	queryBuilder := psql.
		Select("id", "email", "name", "gender", "joined_at", "virtual_nfc_id", "physical_card_id").
		From("visitors").
		Where(sq.Or{
			sq.Eq{"virtual_nfc_id": token},
			sq.Eq{"physical_card_id": token},
		})

	sqlStr, args, err := queryBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build credential lookup query: %w", err)
	}

	var visitors []models.Visitor
	if err := r.db.Raw(sqlStr, args...).Scan(&visitors).Error; err != nil {
		return nil, fmt.Errorf("failed to search visitors by credential: %w", err)
	}
	return visitors, nil
}

// ClaimCredential performs the check-then-set inside a single transaction so
// concurrent claims for the same value resolve deterministically. The unique
// index on each slot column is the backstop should the store's isolation ever
// fail to serialize the two lookups.
func (r *GormVisitorRepository) ClaimCredential(visitorID uint, slot models.CredentialSlot, value string) (*models.Visitor, error) {
	var claimed *models.Visitor
	err := r.db.Transaction(func(tx *gorm.DB) error {
		var visitor models.Visitor
		if err := tx.First(&visitor, visitorID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return &models.NotFoundError{Resource: "visitor", Ref: fmt.Sprint(visitorID)}
			}
			return fmt.Errorf("failed to load visitor %d: %w", visitorID, err)
		}

		var owner models.Visitor
		err := tx.Where(slot.Column()+" = ?", value).First(&owner).Error
		switch {
		case err == nil:
			if owner.ID != visitor.ID {
				return &models.ConflictError{Slot: slot, Value: value, OwnerID: owner.ID}
			}
			// already bound to this visitor, idempotent success
			claimed = &owner
			return nil
		case errors.Is(err, gorm.ErrRecordNotFound):
			// value is free
		default:
			return fmt.Errorf("failed to check %s credential owner: %w", slot, err)
		}

		if err := tx.Model(&models.Visitor{}).Where("id = ?", visitor.ID).Update(slot.Column(), value).Error; err != nil {
			return fmt.Errorf("failed to bind %s credential to visitor %d: %w", slot, visitor.ID, err)
		}
		visitor.SetCredential(slot, value)
		claimed = &visitor
		return nil
	})
	if err != nil {
		return nil, err
	}
	return claimed, nil
}
