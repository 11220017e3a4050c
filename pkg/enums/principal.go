package enums

import "fmt"

// PrincipalType distinguishes who is calling the API.
type PrincipalType string

const (
	PrincipalTypeCustomer PrincipalType = "customer"
	PrincipalTypeMerchant PrincipalType = "merchant"
)

var validPrincipalTypes = []PrincipalType{
	PrincipalTypeCustomer,
	PrincipalTypeMerchant,
}

// String implements fmt.Stringer.
func (p PrincipalType) String() string {
	return string(p)
}

// IsValid reports whether the value is a known PrincipalType.
func (p PrincipalType) IsValid() bool {
	for _, candidate := range validPrincipalTypes {
		if candidate == p {
			return true
		}
	}
	return false
}

// ParsePrincipalType converts raw input into a PrincipalType.
func ParsePrincipalType(value string) (PrincipalType, error) {
	for _, candidate := range validPrincipalTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid principal type %q", value)
}

// MerchantRole is a merchant's role inside a store team.
type MerchantRole string

const (
	MerchantRoleAdmin   MerchantRole = "admin"
	MerchantRoleManager MerchantRole = "manager"
)

var validMerchantRoles = []MerchantRole{
	MerchantRoleAdmin,
	MerchantRoleManager,
}

// String implements fmt.Stringer.
func (m MerchantRole) String() string {
	return string(m)
}

// IsValid reports whether the value is a known MerchantRole.
func (m MerchantRole) IsValid() bool {
	for _, candidate := range validMerchantRoles {
		if candidate == m {
			return true
		}
	}
	return false
}
