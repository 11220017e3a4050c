package orders

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/vitrinelabs/vitrine-backend/pkg/enums"
)

const (
	ordersView     = "views.orders_detailed"
	orderItemsView = "views.order_items_complete"
)

// OrderDetailedRecord scans one row of views.orders_detailed.
type OrderDetailedRecord struct {
	ID                    uuid.UUID               `gorm:"column:id"`
	StoreID               uuid.UUID               `gorm:"column:store_id"`
	CustomerID            uuid.UUID               `gorm:"column:customer_id"`
	DeliveryOptionID      *uuid.UUID              `gorm:"column:delivery_option_id"`
	Fulfillment           enums.FulfillmentMethod `gorm:"column:fulfillment_method"`
	PickupSlot            *time.Time              `gorm:"column:pickup_slot"`
	TotalAmount           decimal.Decimal         `gorm:"column:total_amount"`
	DeliveryFee           decimal.Decimal         `gorm:"column:delivery_fee"`
	Status                enums.OrderStatus       `gorm:"column:status"`
	PaymentMethod         enums.PaymentMethod     `gorm:"column:payment_method"`
	PaymentStatus         enums.PaymentStatus     `gorm:"column:payment_status"`
	EstimatedDeliveryTime *time.Time              `gorm:"column:estimated_delivery_time"`
	Observations          *string                 `gorm:"column:observations"`
	CancellationReason    *string                 `gorm:"column:cancellation_reason"`
	DeliveryProofURL      *string                 `gorm:"column:delivery_proof_url"`
	Rating                *int                    `gorm:"column:rating"`
	Feedback              *string                 `gorm:"column:feedback"`
	DeletedAt             *time.Time              `gorm:"column:deleted_at"`
	CreatedAt             time.Time               `gorm:"column:created_at"`
	UpdatedAt             time.Time               `gorm:"column:updated_at"`

	StoreName            string          `gorm:"column:store_name"`
	StoreSlug            string          `gorm:"column:store_slug"`
	CustomerName         string          `gorm:"column:customer_name"`
	CustomerPhone        string          `gorm:"column:customer_phone"`
	DeliveryStreet       *string         `gorm:"column:delivery_street"`
	DeliveryNumber       *string         `gorm:"column:delivery_number"`
	DeliveryNeighborhood *string         `gorm:"column:delivery_neighborhood"`
	DeliveryCity         *string         `gorm:"column:delivery_city"`
	DeliveryState        *string         `gorm:"column:delivery_state"`
	DeliveryZipCode      *string         `gorm:"column:delivery_zip_code"`
	DeliveryOptionName   *string         `gorm:"column:delivery_option_name"`
	DeliveryOptionFee    *decimal.Decimal `gorm:"column:delivery_option_fee"`
	ItemsCount           int             `gorm:"column:items_count"`
	TotalItems           int             `gorm:"column:total_items"`
	StatusHistory        json.RawMessage `gorm:"column:status_history"`
}

// OrderItemRecord scans one row of views.order_items_complete.
type OrderItemRecord struct {
	ID              uuid.UUID           `gorm:"column:id"`
	OrderID         uuid.UUID           `gorm:"column:order_id"`
	ProductID       uuid.UUID           `gorm:"column:product_id"`
	ProductName     string              `gorm:"column:product_name"`
	ProductFamily   enums.ProductFamily `gorm:"column:product_family"`
	Quantity        int                 `gorm:"column:quantity"`
	UnitPrice       decimal.Decimal     `gorm:"column:unit_price"`
	TotalPrice      decimal.Decimal     `gorm:"column:total_price"`
	Observations    *string             `gorm:"column:observations"`
	StoreID         uuid.UUID           `gorm:"column:store_id"`
	OrderStatus     enums.OrderStatus   `gorm:"column:order_status"`
	ProductImageURL *string             `gorm:"column:product_image_url"`
	Customizations  json.RawMessage     `gorm:"column:customizations"`
}

func orderViewFromRecord(record OrderDetailedRecord, items []OrderItemRecord) OrderView {
	view := OrderView{
		ID:                    record.ID,
		StoreID:               record.StoreID,
		StoreName:             record.StoreName,
		StoreSlug:             record.StoreSlug,
		CustomerID:            record.CustomerID,
		CustomerName:          record.CustomerName,
		CustomerPhone:         record.CustomerPhone,
		Fulfillment:           record.Fulfillment,
		PickupSlot:            record.PickupSlot,
		Status:                record.Status,
		PaymentMethod:         record.PaymentMethod,
		PaymentStatus:         record.PaymentStatus,
		TotalAmount:           record.TotalAmount,
		DeliveryFee:           record.DeliveryFee,
		DeliveryOptionName:    record.DeliveryOptionName,
		EstimatedDeliveryTime: record.EstimatedDeliveryTime,
		Observations:          record.Observations,
		CancellationReason:    record.CancellationReason,
		DeliveryProofURL:      record.DeliveryProofURL,
		Rating:                record.Rating,
		Feedback:              record.Feedback,
		ItemsCount:            record.ItemsCount,
		TotalItems:            record.TotalItems,
		StatusHistory:         decodeStatusHistory(record.StatusHistory),
		CreatedAt:             record.CreatedAt,
		UpdatedAt:             record.UpdatedAt,
	}
	if record.DeliveryStreet != nil {
		view.DeliveryAddress = &DeliveryAddressView{
			Street:       *record.DeliveryStreet,
			Number:       stringOrEmpty(record.DeliveryNumber),
			Neighborhood: stringOrEmpty(record.DeliveryNeighborhood),
			City:         stringOrEmpty(record.DeliveryCity),
			State:        stringOrEmpty(record.DeliveryState),
			ZipCode:      stringOrEmpty(record.DeliveryZipCode),
		}
	}
	for _, item := range items {
		view.Items = append(view.Items, itemViewFromRecord(item))
	}
	return view
}

func itemViewFromRecord(record OrderItemRecord) ItemView {
	return ItemView{
		ID:              record.ID,
		ProductID:       record.ProductID,
		ProductName:     record.ProductName,
		ProductImageURL: record.ProductImageURL,
		Quantity:        record.Quantity,
		UnitPrice:       record.UnitPrice,
		TotalPrice:      record.TotalPrice,
		Observations:    record.Observations,
		Customizations:  decodeItemCustomizations(record.Customizations),
	}
}

func decodeStatusHistory(raw json.RawMessage) []StatusChange {
	if len(raw) == 0 {
		return []StatusChange{}
	}
	var history []StatusChange
	if err := json.Unmarshal(raw, &history); err != nil {
		return []StatusChange{}
	}
	return history
}

func decodeItemCustomizations(raw json.RawMessage) []ItemCustomizationView {
	if len(raw) == 0 {
		return []ItemCustomizationView{}
	}
	var customizations []ItemCustomizationView
	if err := json.Unmarshal(raw, &customizations); err != nil {
		return []ItemCustomizationView{}
	}
	return customizations
}

func stringOrEmpty(value *string) string {
	if value == nil {
		return ""
	}
	return *value
}
