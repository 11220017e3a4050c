package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/vitrinelabs/vitrine-backend/pkg/enums"
)

// Order is the purchase header. Orders are created once and only
// forward-mutated; they are never hard-deleted.
type Order struct {
	ID               uuid.UUID               `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	StoreID          uuid.UUID               `gorm:"column:store_id;type:uuid;not null;index"`
	CustomerID       uuid.UUID               `gorm:"column:customer_id;type:uuid;not null;index"`
	DeliveryOptionID *uuid.UUID              `gorm:"column:delivery_option_id;type:uuid"`
	Fulfillment      enums.FulfillmentMethod `gorm:"column:fulfillment_method;type:fulfillment_method_enum;not null"`
	PickupSlot       *time.Time              `gorm:"column:pickup_slot"`
	TotalAmount      decimal.Decimal         `gorm:"column:total_amount;type:numeric(10,2);not null"`
	DeliveryFee      decimal.Decimal         `gorm:"column:delivery_fee;type:numeric(10,2);not null;default:0"`
	Status           enums.OrderStatus       `gorm:"column:status;type:order_status_enum;not null;default:'pending'"`
	PaymentMethod    enums.PaymentMethod     `gorm:"column:payment_method;type:payment_method_enum;not null"`
	PaymentStatus    enums.PaymentStatus     `gorm:"column:payment_status;type:payment_status_enum;not null;default:'pending'"`

	EstimatedDeliveryTime *time.Time `gorm:"column:estimated_delivery_time"`
	Observations          *string    `gorm:"column:observations"`
	CancellationReason    *string    `gorm:"column:cancellation_reason"`
	DeliveryProofURL      *string    `gorm:"column:delivery_proof_url"`
	Rating                *int       `gorm:"column:rating"`
	Feedback              *string    `gorm:"column:feedback"`

	Items           []OrderItem           `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	DeliveryAddress *OrderDeliveryAddress `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`

	DeletedAt *time.Time `gorm:"column:deleted_at"`
	CreatedAt time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time  `gorm:"column:updated_at;autoUpdateTime"`
}

func (Order) TableName() string { return "orders" }

// OrderItem snapshots a product at purchase time. unit_price always comes
// from the server-side product price, never from the client.
type OrderItem struct {
	ID            uuid.UUID           `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	OrderID       uuid.UUID           `gorm:"column:order_id;type:uuid;not null;index"`
	ProductID     uuid.UUID           `gorm:"column:product_id;type:uuid;not null;index"`
	ProductName   string              `gorm:"column:product_name;not null"`
	ProductFamily enums.ProductFamily `gorm:"column:product_family;type:product_family_enum;not null"`
	Quantity      int                 `gorm:"column:quantity;not null"`
	UnitPrice     decimal.Decimal     `gorm:"column:unit_price;type:numeric(10,2);not null"`
	TotalPrice    decimal.Decimal     `gorm:"column:total_price;type:numeric(10,2);not null"`
	Observations  *string             `gorm:"column:observations"`

	Customizations []OrderItemCustomization `gorm:"foreignKey:OrderItemID;constraint:OnDelete:CASCADE"`

	DeletedAt *time.Time `gorm:"column:deleted_at"`
	CreatedAt time.Time  `gorm:"column:created_at;autoCreateTime"`
}

func (OrderItem) TableName() string { return "order_items" }

// OrderItemCustomization snapshots a chosen customization. Boolean
// selections persist quantity 1 or 0.
type OrderItemCustomization struct {
	ID                uuid.UUID               `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	OrderItemID       uuid.UUID               `gorm:"column:order_item_id;type:uuid;not null;index"`
	CustomizationID   uuid.UUID               `gorm:"column:customization_id;type:uuid;not null;index"`
	CustomizationName string                  `gorm:"column:customization_name;not null"`
	CustomizationType enums.CustomizationType `gorm:"column:customization_type;type:product_customization_type_enum;not null"`
	SelectionType     enums.SelectionType     `gorm:"column:selection_type;type:selection_type_enum;not null"`
	Quantity          int                     `gorm:"column:quantity;not null"`
	UnitPrice         decimal.Decimal         `gorm:"column:unit_price;type:numeric(10,2);not null"`
	TotalPrice        decimal.Decimal         `gorm:"column:total_price;type:numeric(10,2);not null"`
	CreatedAt         time.Time               `gorm:"column:created_at;autoCreateTime"`
}

func (OrderItemCustomization) TableName() string { return "order_item_customizations" }

// OrderDeliveryAddress is the delivery address snapshot taken at creation.
type OrderDeliveryAddress struct {
	ID           uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	OrderID      uuid.UUID `gorm:"column:order_id;type:uuid;not null;uniqueIndex"`
	Street       string    `gorm:"column:street;not null"`
	Number       string    `gorm:"column:number;not null"`
	Neighborhood string    `gorm:"column:neighborhood;not null"`
	City         string    `gorm:"column:city;not null"`
	State        string    `gorm:"column:state;not null"`
	ZipCode      string    `gorm:"column:zip_code;not null"`
	Complement   *string   `gorm:"column:complement"`
	CreatedAt    time.Time `gorm:"column:created_at;autoCreateTime"`
}

func (OrderDeliveryAddress) TableName() string { return "order_delivery_addresses" }
