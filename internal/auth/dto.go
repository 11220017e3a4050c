package auth

import (
	"github.com/google/uuid"

	"github.com/vitrinelabs/vitrine-backend/pkg/enums"
)

// CustomerSignUpInput registers a customer account bound to one store.
type CustomerSignUpInput struct {
	Email    string    `json:"email" validate:"required,email"`
	Password string    `json:"password" validate:"required,min=6"`
	Name     string    `json:"name" validate:"required"`
	Phone    string    `json:"phone" validate:"required"`
	StoreID  uuid.UUID `json:"store_id" validate:"required"`
}

// CustomerLoginInput authenticates a customer against one store.
type CustomerLoginInput struct {
	Email    string    `json:"email" validate:"required,email"`
	Password string    `json:"password" validate:"required"`
	StoreID  uuid.UUID `json:"store_id" validate:"required"`
}

// MerchantLoginInput authenticates a merchant account.
type MerchantLoginInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// RefreshInput exchanges a refresh token for a new session.
type RefreshInput struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

// Session is the provider-issued token pair returned to clients.
type Session struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int    `json:"expires_in"`
	TokenType    string `json:"token_type"`
}

// CustomerSummary is the local customer row exposed on auth responses.
type CustomerSummary struct {
	ID    uuid.UUID `json:"id"`
	Name  string    `json:"name"`
	Phone string    `json:"phone"`
}

// MerchantSummary is the local merchant row exposed on auth responses.
type MerchantSummary struct {
	ID    uuid.UUID          `json:"id"`
	Email string             `json:"email"`
	Name  *string            `json:"name,omitempty"`
	Role  enums.MerchantRole `json:"role"`
}

// CustomerAuthResult pairs the session with the bound customer.
type CustomerAuthResult struct {
	Session  Session         `json:"session"`
	Customer CustomerSummary `json:"customer"`
}

// MerchantAuthResult pairs the session with the merchant account.
type MerchantAuthResult struct {
	Session  Session         `json:"session"`
	Merchant MerchantSummary `json:"merchant"`
}

// Profile is the provider-backed account view for GET /auth/profile.
type Profile struct {
	UserID   uuid.UUID            `json:"user_id"`
	Email    string               `json:"email"`
	Type     enums.PrincipalType  `json:"type"`
	Customer *CustomerSummary     `json:"customer,omitempty"`
	Merchant *MerchantSummary     `json:"merchant,omitempty"`
}
