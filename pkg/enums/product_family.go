package enums

import "fmt"

// ProductFamily groups products by how the store uses them.
type ProductFamily string

const (
	ProductFamilyRawMaterial     ProductFamily = "raw_material"
	ProductFamilyFinishedProduct ProductFamily = "finished_product"
	ProductFamilyAddon           ProductFamily = "addon"
)

var validProductFamilies = []ProductFamily{
	ProductFamilyRawMaterial,
	ProductFamilyFinishedProduct,
	ProductFamilyAddon,
}

// String implements fmt.Stringer.
func (p ProductFamily) String() string {
	return string(p)
}

// IsValid reports whether the value is a known ProductFamily.
func (p ProductFamily) IsValid() bool {
	for _, candidate := range validProductFamilies {
		if candidate == p {
			return true
		}
	}
	return false
}

// ParseProductFamily converts raw input into a ProductFamily.
func ParseProductFamily(value string) (ProductFamily, error) {
	for _, candidate := range validProductFamilies {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid product family %q", value)
}
