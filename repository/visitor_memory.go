package repository

import (
	"fmt"
	"sync"

	"github.com/gemsmart/museumbackend/models"
)

// MemoryVisitorRepository is an in-memory VisitorRepository. It favors
// clarity over performance and backs the service tests; the mutex gives the
// same claim atomicity the GORM implementation gets from its transaction.
type MemoryVisitorRepository struct {
	mu       sync.Mutex
	visitors map[uint]models.Visitor
	nextID   uint
}

func NewMemoryVisitorRepository() *MemoryVisitorRepository {
	return &MemoryVisitorRepository{visitors: make(map[uint]models.Visitor), nextID: 1}
}

func (r *MemoryVisitorRepository) Create(visitor *models.Visitor) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.visitors {
		if existing.Email == visitor.Email {
			return fmt.Errorf("visitor with email %s already exists", visitor.Email)
		}
	}
	visitor.ID = r.nextID
	r.nextID++
	r.visitors[visitor.ID] = *visitor
	return nil
}

func (r *MemoryVisitorRepository) GetByID(id uint) (*models.Visitor, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	visitor, ok := r.visitors[id]
	if !ok {
		return nil, &models.NotFoundError{Resource: "visitor", Ref: fmt.Sprint(id)}
	}
	return &visitor, nil
}

func (r *MemoryVisitorRepository) GetByEmail(email string) (*models.Visitor, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, visitor := range r.visitors {
		if visitor.Email == email {
			v := visitor
			return &v, nil
		}
	}
	return nil, &models.NotFoundError{Resource: "visitor", Ref: email}
}

func (r *MemoryVisitorRepository) ListAll() ([]models.Visitor, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	visitors := make([]models.Visitor, 0, len(r.visitors))
	for _, visitor := range r.visitors {
		visitors = append(visitors, visitor)
	}
	return visitors, nil
}

func (r *MemoryVisitorRepository) Update(visitor *models.Visitor) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.visitors[visitor.ID]; !ok {
		return &models.NotFoundError{Resource: "visitor", Ref: fmt.Sprint(visitor.ID)}
	}
	r.visitors[visitor.ID] = *visitor
	return nil
}

func (r *MemoryVisitorRepository) FindByCredential(token string) ([]models.Visitor, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var matches []models.Visitor
	for _, visitor := range r.visitors {
		if visitor.VirtualNFCID != nil && *visitor.VirtualNFCID == token {
			matches = append(matches, visitor)
			continue
		}
		if visitor.PhysicalCardID != nil && *visitor.PhysicalCardID == token {
			matches = append(matches, visitor)
		}
	}
	return matches, nil
}

func (r *MemoryVisitorRepository) ClaimCredential(visitorID uint, slot models.CredentialSlot, value string) (*models.Visitor, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	visitor, ok := r.visitors[visitorID]
	if !ok {
		return nil, &models.NotFoundError{Resource: "visitor", Ref: fmt.Sprint(visitorID)}
	}

	for _, other := range r.visitors {
		held := other.Credential(slot)
		if held == nil || *held != value {
			continue
		}
		if other.ID != visitorID {
			return nil, &models.ConflictError{Slot: slot, Value: value, OwnerID: other.ID}
		}
		// already bound to this visitor, idempotent success
		o := other
		return &o, nil
	}

	visitor.SetCredential(slot, value)
	r.visitors[visitorID] = visitor
	return &visitor, nil
}
