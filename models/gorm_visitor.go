package models

import (
	"strings"
	"time"
)

// CredentialSlot identifies which of a visitor's two NFC credential slots an
// operation targets. The slots are independent uniqueness namespaces.
type CredentialSlot string

const (
	CredentialVirtual  CredentialSlot = "virtual"  // phone-emulated NFC token (HCE)
	CredentialPhysical CredentialSlot = "physical" // souvenir card UID
)

// Column returns the database column backing the slot.
func (s CredentialSlot) Column() string {
	switch s {
	case CredentialVirtual:
		return "virtual_nfc_id"
	case CredentialPhysical:
		return "physical_card_id"
	default:
		return ""
	}
}

// IsValid reports whether the slot is one of the two known slots.
func (s CredentialSlot) IsValid() bool {
	return s == CredentialVirtual || s == CredentialPhysical
}

// Visitor represents a museum guest. Email is the only required field; the
// two credential slots are optional and each globally unique when present.
type Visitor struct {
	ID       uint      `json:"id" gorm:"primaryKey;autoIncrement"`
	Email    string    `json:"email" gorm:"uniqueIndex;not null"`
	Name     *string   `json:"name,omitempty"`
	Gender   *string   `json:"gender,omitempty"`
	JoinedAt time.Time `json:"joined_at" gorm:"not null"`

	// Hybrid NFC access credentials
	VirtualNFCID   *string `json:"virtual_nfc_id,omitempty" gorm:"uniqueIndex"`   // phone HCE ID (e.g. "GEM_USER_001")
	PhysicalCardID *string `json:"physical_card_id,omitempty" gorm:"uniqueIndex"` // card UID (e.g. "04:A2:55...")
}

// TableName explicitly sets the table name for GORM.
func (Visitor) TableName() string {
	return "visitors"
}

// Credential returns the value currently held in the given slot, or nil.
func (v *Visitor) Credential(slot CredentialSlot) *string {
	switch slot {
	case CredentialVirtual:
		return v.VirtualNFCID
	case CredentialPhysical:
		return v.PhysicalCardID
	default:
		return nil
	}
}

// SetCredential stores value in the given slot. It does not check uniqueness;
// that is the repository's job.
func (v *Visitor) SetCredential(slot CredentialSlot, value string) {
	switch slot {
	case CredentialVirtual:
		v.VirtualNFCID = &value
	case CredentialPhysical:
		v.PhysicalCardID = &value
	}
}

// DisplayName is what gate screens greet the visitor with: their name when
// set, otherwise the part of their email before the first '@'.
func (v *Visitor) DisplayName() string {
	if v.Name != nil && *v.Name != "" {
		return *v.Name
	}
	local, _, _ := strings.Cut(v.Email, "@")
	return local
}
