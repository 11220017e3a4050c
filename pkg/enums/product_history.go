package enums

// ProductChangeType labels an entry in a product's audit history.
type ProductChangeType string

const (
	ProductChangeCreated     ProductChangeType = "created"
	ProductChangeUpdated     ProductChangeType = "updated"
	ProductChangeDeactivated ProductChangeType = "deactivated"
	ProductChangeActivated   ProductChangeType = "activated"
	ProductChangeDeleted     ProductChangeType = "deleted"
)

var validProductChangeTypes = []ProductChangeType{
	ProductChangeCreated,
	ProductChangeUpdated,
	ProductChangeDeactivated,
	ProductChangeActivated,
	ProductChangeDeleted,
}

// String implements fmt.Stringer.
func (p ProductChangeType) String() string {
	return string(p)
}

// IsValid reports whether the value is a known ProductChangeType.
func (p ProductChangeType) IsValid() bool {
	for _, candidate := range validProductChangeTypes {
		if candidate == p {
			return true
		}
	}
	return false
}
