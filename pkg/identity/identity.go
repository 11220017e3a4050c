package identity

import (
	"context"

	"github.com/google/uuid"

	"github.com/vitrinelabs/vitrine-backend/pkg/enums"
)

// Principal is the resolved caller identity attached to each request.
type Principal struct {
	ID      uuid.UUID
	Type    enums.PrincipalType
	StoreID *uuid.UUID
	Role    *enums.MerchantRole
	Token   string
}

// IsMerchant reports whether the principal authenticated as a merchant.
func (p Principal) IsMerchant() bool {
	return p.Type == enums.PrincipalTypeMerchant
}

// IsCustomer reports whether the principal authenticated as a customer.
func (p Principal) IsCustomer() bool {
	return p.Type == enums.PrincipalTypeCustomer
}

// Verifier resolves a bearer token into a verified principal. Every request
// re-verifies; no local session state is kept.
type Verifier interface {
	Verify(ctx context.Context, token string) (*Principal, error)
}
