package services_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/gemsmart/museumbackend/clock"
	"github.com/gemsmart/museumbackend/models"
	"github.com/gemsmart/museumbackend/repository"
	"github.com/gemsmart/museumbackend/services"
)

type GateServiceSuite struct {
	suite.Suite
	visitors *repository.MemoryVisitorRepository
	identity *services.IdentityService
	gate     *services.GateService
}

func (s *GateServiceSuite) SetupTest() {
	s.visitors = repository.NewMemoryVisitorRepository()
	s.identity = services.NewIdentityService(s.visitors, clock.NewFixed(time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)))
	s.gate = services.NewGateService(s.visitors)
}

func TestGateServiceSuite(t *testing.T) {
	suite.Run(t, new(GateServiceSuite))
}

func (s *GateServiceSuite) TestResolveVirtualToken() {
	visitor, _, err := s.identity.RegisterOrLogin("amira@example.com", strPtr("Amira"), nil, "hce-token-1")
	s.Require().NoError(err)

	result, err := s.gate.Resolve("hce-token-1")
	s.Require().NoError(err)
	s.Require().True(result.Granted)
	s.Require().Equal(visitor.ID, result.Visitor.ID)
	s.Require().Equal("Amira", result.DisplayName)
}

func (s *GateServiceSuite) TestResolvePhysicalCard() {
	visitor, _, err := s.identity.CreateVisitor("omar@example.com", nil, nil)
	s.Require().NoError(err)
	_, err = s.identity.LinkPhysicalCard(visitor.ID, "card-uid-7")
	s.Require().NoError(err)

	result, err := s.gate.Resolve("card-uid-7")
	s.Require().NoError(err)
	s.Require().True(result.Granted)
	s.Require().Equal(visitor.ID, result.Visitor.ID)
}

func (s *GateServiceSuite) TestResolveUnknownTokenDenies() {
	result, err := s.gate.Resolve("never-issued")
	s.Require().NoError(err)
	s.Require().False(result.Granted)
	s.Require().Nil(result.Visitor)
	s.Require().Empty(result.DisplayName)
}

func (s *GateServiceSuite) TestResolveEmptyTokenIsInvalid() {
	_, err := s.gate.Resolve("")
	var validationErr *models.ValidationError
	s.Require().ErrorAs(err, &validationErr)
}

func (s *GateServiceSuite) TestDisplayNameFallsBackToEmailLocalPart() {
	visitor, _, err := s.identity.CreateVisitor("nadia@example.com", nil, nil)
	s.Require().NoError(err)
	_, err = s.identity.RegisterVirtualCredential(visitor.ID, "hce-token-2")
	s.Require().NoError(err)

	result, err := s.gate.Resolve("hce-token-2")
	s.Require().NoError(err)
	s.Require().Equal("nadia", result.DisplayName)
}

func (s *GateServiceSuite) TestResolveFailsHardOnDuplicateCredential() {
	// corrupt the store directly; the claim path can never produce this
	token := "dup-token"
	s.Require().NoError(s.visitors.Create(&models.Visitor{Email: "a@example.com", VirtualNFCID: &token}))
	s.Require().NoError(s.visitors.Create(&models.Visitor{Email: "b@example.com", PhysicalCardID: &token}))

	_, err := s.gate.Resolve(token)
	var integrityErr *models.IntegrityError
	s.Require().ErrorAs(err, &integrityErr)
}
