package controllers

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"

	"github.com/vitrinelabs/vitrine-backend/api/responses"
	"github.com/vitrinelabs/vitrine-backend/api/validators"
	profilesvc "github.com/vitrinelabs/vitrine-backend/internal/profile"
	pkgerrors "github.com/vitrinelabs/vitrine-backend/pkg/errors"
	"github.com/vitrinelabs/vitrine-backend/pkg/logger"
)

// GetProfile returns the caller's customer profile with addresses.
func GetProfile(svc profilesvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		principal, err := requirePrincipal(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		customer, err := svc.GetProfile(r.Context(), principal.ID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, customer)
	}
}

type updateProfileRequest struct {
	Name      *string         `json:"name,omitempty"`
	Phone     *string         `json:"phone,omitempty"`
	Addresses json.RawMessage `json:"addresses,omitempty"`
}

type partialAddressesRequest struct {
	Add    []profilesvc.AddressInput  `json:"add,omitempty" validate:"omitempty,dive"`
	Update []profilesvc.AddressUpdate `json:"update,omitempty" validate:"omitempty,dive"`
	Remove []uuid.UUID                `json:"remove,omitempty"`
}

// UpdateProfile mutates name, phone, and the address book. The addresses
// field accepts either a full array (replace) or an add/update/remove
// object (partial); the shape is decided here, once, before the service
// sees it.
func UpdateProfile(svc profilesvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		principal, err := requirePrincipal(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload updateProfileRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input := profilesvc.UpdateProfileInput{
			AuthUserID: principal.ID,
			Name:       payload.Name,
			Phone:      payload.Phone,
		}

		if len(payload.Addresses) > 0 {
			changes, err := decodeAddressChanges(payload.Addresses)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
			input.Addresses = changes
		}

		customer, err := svc.UpdateProfile(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, customer)
	}
}

func decodeAddressChanges(raw json.RawMessage) (*profilesvc.AddressChanges, error) {
	var probe any
	if err := json.Unmarshal(raw, &probe); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid addresses payload")
	}

	switch probe.(type) {
	case []any:
		var replace []profilesvc.AddressInput
		if err := json.Unmarshal(raw, &replace); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid addresses payload")
		}
		return &profilesvc.AddressChanges{
			Kind:    profilesvc.AddressChangeReplace,
			Replace: replace,
		}, nil
	case map[string]any:
		var partial partialAddressesRequest
		if err := json.Unmarshal(raw, &partial); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid addresses payload")
		}
		return &profilesvc.AddressChanges{
			Kind:   profilesvc.AddressChangePartial,
			Add:    partial.Add,
			Update: partial.Update,
			Remove: partial.Remove,
		}, nil
	default:
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "addresses must be an array or an add/update/remove object")
	}
}
