package services

import (
	"fmt"
	"log"

	"github.com/gemsmart/museumbackend/models"
	"github.com/gemsmart/museumbackend/repository"
)

// ScanResult is the outcome of a single gate scan. When Granted is false the
// other fields are zero.
type ScanResult struct {
	Granted     bool            `json:"granted"`
	Visitor     *models.Visitor `json:"visitor,omitempty"`
	DisplayName string          `json:"display_name,omitempty"`
}

// GateService decides which visitor a scanned token belongs to. It is
// credential-type-agnostic: the same lookup covers phone tokens and souvenir
// cards. Resolve is read-only and has no side effects.
type GateService struct {
	visitors repository.VisitorRepository
}

func NewGateService(visitors repository.VisitorRepository) *GateService {
	return &GateService{visitors: visitors}
}

// Resolve looks the scanned token up in both credential slots. Because each
// slot is globally unique, at most one visitor can match; a store that
// returns more than one is corrupt and the scan fails hard rather than
// silently picking one.
func (s *GateService) Resolve(scannedToken string) (*ScanResult, error) {
	if scannedToken == "" {
		return nil, &models.ValidationError{Field: "token", Reason: "must not be empty"}
	}

	matches, err := s.visitors.FindByCredential(scannedToken)
	if err != nil {
		return nil, err
	}

	switch len(matches) {
	case 0:
		return &ScanResult{Granted: false}, nil
	case 1:
		visitor := matches[0]
		return &ScanResult{
			Granted:     true,
			Visitor:     &visitor,
			DisplayName: visitor.DisplayName(),
		}, nil
	default:
		intErr := &models.IntegrityError{
			Detail: fmt.Sprintf("credential %q is held by %d visitors", scannedToken, len(matches)),
		}
		log.Printf("gate: FATAL %v", intErr)
		return nil, intErr
	}
}
