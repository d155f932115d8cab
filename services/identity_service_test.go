package services_test

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/gemsmart/museumbackend/clock"
	"github.com/gemsmart/museumbackend/models"
	"github.com/gemsmart/museumbackend/repository"
	"github.com/gemsmart/museumbackend/services"
)

type IdentityServiceSuite struct {
	suite.Suite
	visitors *repository.MemoryVisitorRepository
	clock    *clock.Fixed
	identity *services.IdentityService
}

func (s *IdentityServiceSuite) SetupTest() {
	s.visitors = repository.NewMemoryVisitorRepository()
	s.clock = clock.NewFixed(time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC))
	s.identity = services.NewIdentityService(s.visitors, s.clock)
}

func TestIdentityServiceSuite(t *testing.T) {
	suite.Run(t, new(IdentityServiceSuite))
}

func strPtr(s string) *string { return &s }

func (s *IdentityServiceSuite) TestCreateVisitor() {
	visitor, created, err := s.identity.CreateVisitor("amira@example.com", strPtr("Amira"), nil)
	s.Require().NoError(err)
	s.Require().True(created)
	s.Require().NotZero(visitor.ID)
	s.Require().Equal("amira@example.com", visitor.Email)
	s.Require().Equal(s.clock.Now(), visitor.JoinedAt)
}

func (s *IdentityServiceSuite) TestCreateVisitorIsIdempotent() {
	first, created, err := s.identity.CreateVisitor("amira@example.com", strPtr("Amira"), nil)
	s.Require().NoError(err)
	s.Require().True(created)

	second, created, err := s.identity.CreateVisitor("amira@example.com", strPtr("Someone Else"), nil)
	s.Require().NoError(err)
	s.Require().False(created)
	s.Require().Equal(first.ID, second.ID)
	s.Require().Equal("Amira", *second.Name)

	all, err := s.identity.ListVisitors()
	s.Require().NoError(err)
	s.Require().Len(all, 1)
}

func (s *IdentityServiceSuite) TestCreateVisitorRejectsBadEmail() {
	for _, email := range []string{"", "no-at-sign", "@nodomain", "nolocal@"} {
		_, _, err := s.identity.CreateVisitor(email, nil, nil)
		var validationErr *models.ValidationError
		s.Require().ErrorAs(err, &validationErr, "email %q should be rejected", email)
	}
}

func (s *IdentityServiceSuite) TestRegisterOrLoginCreatesAndBindsToken() {
	visitor, isNew, err := s.identity.RegisterOrLogin("omar@example.com", strPtr("Omar"), strPtr("male"), "hce-token-1")
	s.Require().NoError(err)
	s.Require().True(isNew)
	s.Require().NotNil(visitor.VirtualNFCID)
	s.Require().Equal("hce-token-1", *visitor.VirtualNFCID)
}

func (s *IdentityServiceSuite) TestRegisterOrLoginRecognizesExistingVisitor() {
	first, _, err := s.identity.RegisterOrLogin("omar@example.com", strPtr("Omar"), nil, "hce-token-1")
	s.Require().NoError(err)

	// same visitor returns with a new phone; provided fields update, the
	// virtual slot moves to the new token only if it is free
	second, isNew, err := s.identity.RegisterOrLogin("omar@example.com", strPtr("Omar K."), nil, "hce-token-1")
	s.Require().NoError(err)
	s.Require().False(isNew)
	s.Require().Equal(first.ID, second.ID)
	s.Require().Equal("Omar K.", *second.Name)
}

func (s *IdentityServiceSuite) TestRegisterOrLoginKeepsOmittedFields() {
	_, _, err := s.identity.RegisterOrLogin("omar@example.com", strPtr("Omar"), strPtr("male"), "hce-token-1")
	s.Require().NoError(err)

	visitor, _, err := s.identity.RegisterOrLogin("omar@example.com", nil, nil, "hce-token-1")
	s.Require().NoError(err)
	s.Require().Equal("Omar", *visitor.Name)
	s.Require().Equal("male", *visitor.Gender)
}

func (s *IdentityServiceSuite) TestRegisterOrLoginRejectsTokenHeldByOther() {
	_, _, err := s.identity.RegisterOrLogin("omar@example.com", nil, nil, "hce-token-1")
	s.Require().NoError(err)

	_, _, err = s.identity.RegisterOrLogin("amira@example.com", nil, nil, "hce-token-1")
	var conflictErr *models.ConflictError
	s.Require().ErrorAs(err, &conflictErr)
	s.Require().Equal(uint(1), conflictErr.OwnerID)
	s.Require().Equal("hce-token-1", conflictErr.Value)
}

func (s *IdentityServiceSuite) TestRegisterVirtualCredential() {
	visitor, _, err := s.identity.CreateVisitor("omar@example.com", nil, nil)
	s.Require().NoError(err)

	updated, err := s.identity.RegisterVirtualCredential(visitor.ID, "hce-token-9")
	s.Require().NoError(err)
	s.Require().Equal("hce-token-9", *updated.VirtualNFCID)

	// re-claiming the same value is a no-op
	again, err := s.identity.RegisterVirtualCredential(visitor.ID, "hce-token-9")
	s.Require().NoError(err)
	s.Require().Equal("hce-token-9", *again.VirtualNFCID)
}

func (s *IdentityServiceSuite) TestRegisterVirtualCredentialRejectsEmpty() {
	visitor, _, err := s.identity.CreateVisitor("omar@example.com", nil, nil)
	s.Require().NoError(err)

	_, err = s.identity.RegisterVirtualCredential(visitor.ID, "")
	var validationErr *models.ValidationError
	s.Require().ErrorAs(err, &validationErr)
}

func (s *IdentityServiceSuite) TestLinkPhysicalCardConflictNamesOwner() {
	owner, _, err := s.identity.CreateVisitor("owner@example.com", nil, nil)
	s.Require().NoError(err)
	_, err = s.identity.LinkPhysicalCard(owner.ID, "card-uid-7")
	s.Require().NoError(err)

	other, _, err := s.identity.CreateVisitor("other@example.com", nil, nil)
	s.Require().NoError(err)

	_, err = s.identity.LinkPhysicalCard(other.ID, "card-uid-7")
	var conflictErr *models.ConflictError
	s.Require().ErrorAs(err, &conflictErr)
	s.Require().Equal(owner.ID, conflictErr.OwnerID)
	s.Require().Equal(models.CredentialPhysical, conflictErr.Slot)
}

func (s *IdentityServiceSuite) TestSlotsAreIndependent() {
	visitor, _, err := s.identity.CreateVisitor("omar@example.com", nil, nil)
	s.Require().NoError(err)

	_, err = s.identity.RegisterVirtualCredential(visitor.ID, "token-a")
	s.Require().NoError(err)
	updated, err := s.identity.LinkPhysicalCard(visitor.ID, "card-b")
	s.Require().NoError(err)

	s.Require().Equal("token-a", *updated.VirtualNFCID)
	s.Require().Equal("card-b", *updated.PhysicalCardID)
}

func (s *IdentityServiceSuite) TestLinkPhysicalCardUnknownVisitor() {
	_, err := s.identity.LinkPhysicalCard(999, "card-uid-7")
	var notFoundErr *models.NotFoundError
	s.Require().ErrorAs(err, &notFoundErr)
}

func (s *IdentityServiceSuite) TestConcurrentClaimsExactlyOneWins() {
	a, _, err := s.identity.CreateVisitor("a@example.com", nil, nil)
	s.Require().NoError(err)
	b, _, err := s.identity.CreateVisitor("b@example.com", nil, nil)
	s.Require().NoError(err)

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i, id := range []uint{a.ID, b.ID} {
		wg.Add(1)
		go func(i int, id uint) {
			defer wg.Done()
			_, errs[i] = s.identity.LinkPhysicalCard(id, "contested-card")
		}(i, id)
	}
	wg.Wait()

	var conflicts int
	for _, err := range errs {
		if err != nil {
			var conflictErr *models.ConflictError
			s.Require().ErrorAs(err, &conflictErr)
			conflicts++
		}
	}
	s.Require().Equal(1, conflicts, "exactly one of two concurrent claims must fail")

	matches, err := s.visitors.FindByCredential("contested-card")
	s.Require().NoError(err)
	s.Require().Len(matches, 1)
}
