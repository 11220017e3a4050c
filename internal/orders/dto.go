package orders

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/vitrinelabs/vitrine-backend/pkg/enums"
	"github.com/vitrinelabs/vitrine-backend/pkg/pagination"
)

// ItemCustomizationInput selects one add-on on an order item. Quantity is
// taken as-is for quantity selections and coerced to 1/0 for boolean ones.
type ItemCustomizationInput struct {
	CustomizationID uuid.UUID `json:"customization_id" validate:"required"`
	Quantity        int       `json:"quantity"`
}

// ItemInput references a product by id. Any client-supplied price is
// ignored; pricing always comes from the current product row.
type ItemInput struct {
	ProductID      uuid.UUID                `json:"product_id" validate:"required"`
	Quantity       int                      `json:"quantity" validate:"required,min=1"`
	Observations   *string                  `json:"observations,omitempty"`
	Customizations []ItemCustomizationInput `json:"customizations,omitempty"`
}

// DeliveryAddressInput is snapshotted onto the order for delivery
// fulfillment.
type DeliveryAddressInput struct {
	Street       string  `json:"street" validate:"required"`
	Number       string  `json:"number" validate:"required"`
	Neighborhood string  `json:"neighborhood" validate:"required"`
	City         string  `json:"city" validate:"required"`
	State        string  `json:"state" validate:"required"`
	ZipCode      string  `json:"zip_code" validate:"required"`
	Complement   *string `json:"complement,omitempty"`
}

// CreateOrderInput is the validated checkout payload.
type CreateOrderInput struct {
	CustomerID uuid.UUID `json:"-"`
	StoreID    uuid.UUID `json:"-"`

	Fulfillment      enums.FulfillmentMethod `json:"fulfillment_method" validate:"required"`
	PaymentMethod    enums.PaymentMethod     `json:"payment_method" validate:"required"`
	DeliveryOptionID *uuid.UUID              `json:"delivery_option_id,omitempty"`
	PickupSlot       *time.Time              `json:"pickup_slot,omitempty"`
	Observations     *string                 `json:"observations,omitempty"`
	DeliveryAddress  *DeliveryAddressInput   `json:"delivery_address,omitempty"`
	Items            []ItemInput             `json:"items" validate:"required,min=1"`
}

// UpdateStatusInput carries a merchant-driven status transition.
type UpdateStatusInput struct {
	OrderID    uuid.UUID `json:"-"`
	StoreID    uuid.UUID `json:"-"`
	AuthUserID uuid.UUID `json:"-"`

	Status                enums.OrderStatus `json:"status" validate:"required"`
	EstimatedDeliveryTime *time.Time        `json:"estimated_delivery_time,omitempty"`
	Observations          *string           `json:"observations,omitempty"`
	Reason                *string           `json:"reason,omitempty"`
}

// ConfirmDeliveryInput closes an order from the customer side.
type ConfirmDeliveryInput struct {
	OrderID    uuid.UUID `json:"-"`
	CustomerID uuid.UUID `json:"-"`

	Rating   *int    `json:"rating,omitempty"`
	Feedback *string `json:"feedback,omitempty"`
}

// ListFilters narrows order listings. CustomerID and StoreID scope the
// query to the caller; both may be set for store-scoped customer history.
type ListFilters struct {
	CustomerID *uuid.UUID
	StoreID    *uuid.UUID
	Status     *enums.OrderStatus
	From       *time.Time
	To         *time.Time
}

// StatusChange is one entry of the order's transition log.
type StatusChange struct {
	PreviousStatus *enums.OrderStatus `json:"previous_status"`
	NewStatus      enums.OrderStatus  `json:"new_status"`
	Reason         *string            `json:"reason,omitempty"`
	CreatedAt      time.Time          `json:"created_at"`
}

// ItemCustomizationView is a priced add-on snapshot on an order item.
type ItemCustomizationView struct {
	ID                uuid.UUID               `json:"id"`
	CustomizationID   uuid.UUID               `json:"customization_id"`
	CustomizationName string                  `json:"customization_name"`
	CustomizationType enums.CustomizationType `json:"customization_type"`
	SelectionType     enums.SelectionType     `json:"selection_type"`
	Quantity          int                     `json:"quantity"`
	UnitPrice         decimal.Decimal         `json:"unit_price"`
	TotalPrice        decimal.Decimal         `json:"total_price"`
}

// ItemView is a line of the order read model.
type ItemView struct {
	ID              uuid.UUID               `json:"id"`
	ProductID       uuid.UUID               `json:"product_id"`
	ProductName     string                  `json:"product_name"`
	ProductImageURL *string                 `json:"product_image_url,omitempty"`
	Quantity        int                     `json:"quantity"`
	UnitPrice       decimal.Decimal         `json:"unit_price"`
	TotalPrice      decimal.Decimal         `json:"total_price"`
	Observations    *string                 `json:"observations,omitempty"`
	Customizations  []ItemCustomizationView `json:"customizations"`
}

// DeliveryAddressView mirrors the snapshot stored with the order.
type DeliveryAddressView struct {
	Street       string `json:"street"`
	Number       string `json:"number"`
	Neighborhood string `json:"neighborhood"`
	City         string `json:"city"`
	State        string `json:"state"`
	ZipCode      string `json:"zip_code"`
}

// OrderView is the enriched order read model.
type OrderView struct {
	ID                    uuid.UUID               `json:"id"`
	StoreID               uuid.UUID               `json:"store_id"`
	StoreName             string                  `json:"store_name"`
	StoreSlug             string                  `json:"store_slug"`
	CustomerID            uuid.UUID               `json:"customer_id"`
	CustomerName          string                  `json:"customer_name"`
	CustomerPhone         string                  `json:"customer_phone"`
	Fulfillment           enums.FulfillmentMethod `json:"fulfillment_method"`
	PickupSlot            *time.Time              `json:"pickup_slot,omitempty"`
	Status                enums.OrderStatus       `json:"status"`
	PaymentMethod         enums.PaymentMethod     `json:"payment_method"`
	PaymentStatus         enums.PaymentStatus     `json:"payment_status"`
	TotalAmount           decimal.Decimal         `json:"total_amount"`
	DeliveryFee           decimal.Decimal         `json:"delivery_fee"`
	DeliveryOptionName    *string                 `json:"delivery_option_name,omitempty"`
	DeliveryAddress       *DeliveryAddressView    `json:"delivery_address,omitempty"`
	EstimatedDeliveryTime *time.Time              `json:"estimated_delivery_time,omitempty"`
	Observations          *string                 `json:"observations,omitempty"`
	CancellationReason    *string                 `json:"cancellation_reason,omitempty"`
	DeliveryProofURL      *string                 `json:"delivery_proof_url,omitempty"`
	Rating                *int                    `json:"rating,omitempty"`
	Feedback              *string                 `json:"feedback,omitempty"`
	ItemsCount            int                     `json:"items_count"`
	TotalItems            int                     `json:"total_items"`
	Items                 []ItemView              `json:"items,omitempty"`
	StatusHistory         []StatusChange          `json:"status_history"`
	CreatedAt             time.Time               `json:"created_at"`
	UpdatedAt             time.Time               `json:"updated_at"`
}

// OrderList is one page of orders without line items.
type OrderList struct {
	Orders     []OrderView     `json:"orders"`
	Pagination pagination.Meta `json:"pagination"`
}
