package services

import (
	"errors"
	"strings"

	"github.com/gemsmart/museumbackend/clock"
	"github.com/gemsmart/museumbackend/models"
	"github.com/gemsmart/museumbackend/repository"
)

// IdentityService owns visitor registration and the two NFC credential
// slots. All contested state lives behind the repository; the service holds
// no mutable state of its own, so every method is safe for concurrent use.
type IdentityService struct {
	visitors repository.VisitorRepository
	clock    clock.Clock
}

func NewIdentityService(visitors repository.VisitorRepository, clk clock.Clock) *IdentityService {
	return &IdentityService{visitors: visitors, clock: clk}
}

// validateEmail accepts anything of the form local@domain with both parts
// non-empty. Email comparison is case-sensitive everywhere.
func validateEmail(email string) error {
	if email == "" {
		return &models.ValidationError{Field: "email", Reason: "must not be empty"}
	}
	local, domain, ok := strings.Cut(email, "@")
	if !ok || local == "" || domain == "" {
		return &models.ValidationError{Field: "email", Reason: "must be of the form local@domain"}
	}
	return nil
}

// CreateVisitor registers a visitor by email. It is idempotent: if the email
// is already registered the existing record is returned unchanged, with
// created reporting false.
func (s *IdentityService) CreateVisitor(email string, name, gender *string) (*models.Visitor, bool, error) {
	if err := validateEmail(email); err != nil {
		return nil, false, err
	}

	existing, err := s.visitors.GetByEmail(email)
	if err == nil {
		return existing, false, nil
	}
	var notFound *models.NotFoundError
	if !errors.As(err, &notFound) {
		return nil, false, err
	}

	visitor := &models.Visitor{
		Email:    email,
		Name:     name,
		Gender:   gender,
		JoinedAt: s.clock.Now(),
	}
	if err := s.visitors.Create(visitor); err != nil {
		return nil, false, err
	}
	return visitor, true, nil
}

// RegisterOrLogin is the combined phone-app flow: it registers a new visitor
// or recognizes an existing one by email, binding the phone's virtual NFC
// token either way. Provided name/gender update the record; omitted fields
// keep their prior values. The virtual token is claimed through the same
// atomic primitive as the dedicated registration path, so a token held by a
// different visitor always fails with ConflictError.
func (s *IdentityService) RegisterOrLogin(email string, name, gender *string, virtualCredential string) (*models.Visitor, bool, error) {
	if err := validateEmail(email); err != nil {
		return nil, false, err
	}
	if virtualCredential == "" {
		return nil, false, &models.ValidationError{Field: "virtual_nfc_id", Reason: "must not be empty"}
	}

	visitor, err := s.visitors.GetByEmail(email)
	isNew := false
	switch {
	case err == nil:
		// existing visitor logging in from a (possibly new) phone
		if name != nil && *name != "" {
			visitor.Name = name
		}
		if gender != nil && *gender != "" {
			visitor.Gender = gender
		}
		if err := s.visitors.Update(visitor); err != nil {
			return nil, false, err
		}
	default:
		var notFound *models.NotFoundError
		if !errors.As(err, &notFound) {
			return nil, false, err
		}
		visitor = &models.Visitor{
			Email:    email,
			Name:     name,
			Gender:   gender,
			JoinedAt: s.clock.Now(),
		}
		if err := s.visitors.Create(visitor); err != nil {
			return nil, false, err
		}
		isNew = true
	}

	claimed, err := s.visitors.ClaimCredential(visitor.ID, models.CredentialVirtual, virtualCredential)
	if err != nil {
		return nil, false, err
	}
	return claimed, isNew, nil
}

// RegisterVirtualCredential binds a phone HCE token to a visitor. Re-setting
// the value already held by the same visitor succeeds silently; a value held
// by anyone else fails with ConflictError naming the owner.
func (s *IdentityService) RegisterVirtualCredential(visitorID uint, value string) (*models.Visitor, error) {
	if value == "" {
		return nil, &models.ValidationError{Field: "virtual_nfc_id", Reason: "must not be empty"}
	}
	return s.visitors.ClaimCredential(visitorID, models.CredentialVirtual, value)
}

// LinkPhysicalCard binds a souvenir card UID to a visitor, with the same
// contract as RegisterVirtualCredential on the physical slot.
func (s *IdentityService) LinkPhysicalCard(visitorID uint, cardUID string) (*models.Visitor, error) {
	if cardUID == "" {
		return nil, &models.ValidationError{Field: "physical_card_id", Reason: "must not be empty"}
	}
	return s.visitors.ClaimCredential(visitorID, models.CredentialPhysical, cardUID)
}

// GetVisitor looks up a visitor by id.
func (s *IdentityService) GetVisitor(visitorID uint) (*models.Visitor, error) {
	return s.visitors.GetByID(visitorID)
}

// ListVisitors returns every registered visitor.
func (s *IdentityService) ListVisitors() ([]models.Visitor, error) {
	return s.visitors.ListAll()
}
