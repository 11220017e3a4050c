package products

import (
	"encoding/json"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/vitrinelabs/vitrine-backend/pkg/enums"
)

// CustomizationInput creates one add-on choice on a product.
type CustomizationInput struct {
	Name              string                  `json:"name" validate:"required"`
	CustomizationType enums.CustomizationType `json:"customization_type" validate:"required"`
	SelectionType     enums.SelectionType     `json:"selection_type"`
	SelectionGroup    *string                 `json:"selection_group,omitempty"`
	Price             decimal.Decimal         `json:"price"`
}

// CustomizationUpdate mutates an existing add-on. Nil pointers keep the
// stored value.
type CustomizationUpdate struct {
	ID                uuid.UUID                `json:"id" validate:"required"`
	Name              *string                  `json:"name,omitempty"`
	CustomizationType *enums.CustomizationType `json:"customization_type,omitempty"`
	SelectionType     *enums.SelectionType     `json:"selection_type,omitempty"`
	SelectionGroup    *string                  `json:"selection_group,omitempty"`
	Price             *decimal.Decimal         `json:"price,omitempty"`
}

// CustomizationChanges batches add/update/remove operations applied with a
// product update.
type CustomizationChanges struct {
	Add    []CustomizationInput  `json:"add,omitempty"`
	Update []CustomizationUpdate `json:"update,omitempty"`
	Remove []uuid.UUID           `json:"remove,omitempty"`
}

// CreateProductInput holds the validated payload to create a product.
type CreateProductInput struct {
	AuthUserID uuid.UUID `json:"-"`
	StoreID    uuid.UUID `json:"-"`

	Name            string               `json:"name" validate:"required"`
	Description     *string              `json:"description,omitempty"`
	Price           decimal.Decimal      `json:"price" validate:"required"`
	CostPrice       decimal.Decimal      `json:"cost_price"`
	Family          enums.ProductFamily  `json:"family" validate:"required"`
	Category        string               `json:"category" validate:"required"`
	CustomCategory  *string              `json:"custom_category,omitempty"`
	ImageURL        *string              `json:"image_url,omitempty"`
	PreparationTime int                  `json:"preparation_time"`
	NutritionalInfo json.RawMessage      `json:"nutritional_info,omitempty"`
	Customizations  []CustomizationInput `json:"customizations,omitempty"`
	ExtraListIDs    []uuid.UUID          `json:"extra_list_ids,omitempty"`
}

// UpdateProductInput holds the partial payload to update a product. Nil
// pointers keep the stored value; a non-nil ExtraListIDs slice fully
// replaces the link set.
type UpdateProductInput struct {
	AuthUserID uuid.UUID `json:"-"`
	StoreID    uuid.UUID `json:"-"`
	ProductID  uuid.UUID `json:"-"`

	Name            *string               `json:"name,omitempty"`
	Description     *string               `json:"description,omitempty"`
	Price           *decimal.Decimal      `json:"price,omitempty"`
	CostPrice       *decimal.Decimal      `json:"cost_price,omitempty"`
	Family          *enums.ProductFamily  `json:"family,omitempty"`
	Category        *string               `json:"category,omitempty"`
	CustomCategory  *string               `json:"custom_category,omitempty"`
	ImageURL        *string               `json:"image_url,omitempty"`
	PreparationTime *int                  `json:"preparation_time,omitempty"`
	NutritionalInfo json.RawMessage       `json:"nutritional_info,omitempty"`
	Customizations  *CustomizationChanges `json:"customizations,omitempty"`
	ExtraListIDs    []uuid.UUID           `json:"extra_list_ids,omitempty"`
}
