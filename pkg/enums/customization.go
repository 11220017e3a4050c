package enums

import "fmt"

// CustomizationType groups a product customization by kind.
type CustomizationType string

const (
	CustomizationTypeExtra   CustomizationType = "extra"
	CustomizationTypeSauce   CustomizationType = "sauce"
	CustomizationTypeBase    CustomizationType = "base"
	CustomizationTypeProtein CustomizationType = "protein"
	CustomizationTypeTopping CustomizationType = "topping"
)

var validCustomizationTypes = []CustomizationType{
	CustomizationTypeExtra,
	CustomizationTypeSauce,
	CustomizationTypeBase,
	CustomizationTypeProtein,
	CustomizationTypeTopping,
}

// String implements fmt.Stringer.
func (c CustomizationType) String() string {
	return string(c)
}

// IsValid reports whether the value is a known CustomizationType.
func (c CustomizationType) IsValid() bool {
	for _, candidate := range validCustomizationTypes {
		if candidate == c {
			return true
		}
	}
	return false
}

// ParseCustomizationType converts raw input into a CustomizationType.
func ParseCustomizationType(value string) (CustomizationType, error) {
	for _, candidate := range validCustomizationTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid customization type %q", value)
}

// SelectionType describes how a customization is chosen on an order item.
type SelectionType string

const (
	// SelectionTypeQuantity customizations carry a numeric count.
	SelectionTypeQuantity SelectionType = "quantity"
	// SelectionTypeBoolean customizations are on/off; a chosen one counts as 1.
	SelectionTypeBoolean SelectionType = "boolean"
)

var validSelectionTypes = []SelectionType{
	SelectionTypeQuantity,
	SelectionTypeBoolean,
}

// String implements fmt.Stringer.
func (s SelectionType) String() string {
	return string(s)
}

// IsValid reports whether the value is a known SelectionType.
func (s SelectionType) IsValid() bool {
	for _, candidate := range validSelectionTypes {
		if candidate == s {
			return true
		}
	}
	return false
}
