package profile

import (
	"github.com/google/uuid"

	"github.com/vitrinelabs/vitrine-backend/pkg/enums"
)

// AddressInput carries a new address book entry.
type AddressInput struct {
	Label        *string           `json:"label,omitempty"`
	AddressType  enums.AddressType `json:"address_type"`
	Street       string            `json:"street" validate:"required"`
	Number       string            `json:"number" validate:"required"`
	Neighborhood string            `json:"neighborhood" validate:"required"`
	City         string            `json:"city" validate:"required"`
	State        string            `json:"state" validate:"required"`
	ZipCode      string            `json:"zip_code" validate:"required"`
	Complement   *string           `json:"complement,omitempty"`
	Reference    *string           `json:"reference,omitempty"`
	IsDefault    bool              `json:"is_default"`
}

// AddressUpdate mutates an existing entry. Nil pointers keep the stored value.
type AddressUpdate struct {
	ID           uuid.UUID          `json:"id" validate:"required"`
	Label        *string            `json:"label,omitempty"`
	AddressType  *enums.AddressType `json:"address_type,omitempty"`
	Street       *string            `json:"street,omitempty"`
	Number       *string            `json:"number,omitempty"`
	Neighborhood *string            `json:"neighborhood,omitempty"`
	City         *string            `json:"city,omitempty"`
	State        *string            `json:"state,omitempty"`
	ZipCode      *string            `json:"zip_code,omitempty"`
	Complement   *string            `json:"complement,omitempty"`
	Reference    *string            `json:"reference,omitempty"`
	IsDefault    *bool              `json:"is_default,omitempty"`
}

// AddressChangeKind discriminates how the address book mutation applies.
type AddressChangeKind string

const (
	// AddressChangeReplace swaps the whole address set atomically.
	AddressChangeReplace AddressChangeKind = "replace"
	// AddressChangePartial applies remove, then update, then add.
	AddressChangePartial AddressChangeKind = "partial"
)

// AddressChanges is the tagged union decided at the API boundary. Legacy
// full-array payloads map to Replace; the add/update/remove shape maps to
// Partial.
type AddressChanges struct {
	Kind    AddressChangeKind
	Replace []AddressInput
	Add     []AddressInput
	Update  []AddressUpdate
	Remove  []uuid.UUID
}

// UpdateProfileInput carries the mutable customer profile fields.
type UpdateProfileInput struct {
	AuthUserID uuid.UUID
	Name       *string
	Phone      *string
	Addresses  *AddressChanges
}
