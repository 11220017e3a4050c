package payloads

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/vitrinelabs/vitrine-backend/pkg/enums"
)

// OrderCreatedEvent signals a freshly placed order.
type OrderCreatedEvent struct {
	OrderID           uuid.UUID               `json:"order_id"`
	StoreID           uuid.UUID               `json:"store_id"`
	CustomerID        uuid.UUID               `json:"customer_id"`
	FulfillmentMethod enums.FulfillmentMethod `json:"fulfillment_method"`
	PaymentMethod     enums.PaymentMethod     `json:"payment_method"`
	TotalAmount       decimal.Decimal         `json:"total_amount"`
	DeliveryFee       decimal.Decimal         `json:"delivery_fee"`
	ItemCount         int                     `json:"item_count"`
	CreatedAt         time.Time               `json:"created_at"`
}

// OrderStatusChangedEvent is emitted on every order status transition.
type OrderStatusChangedEvent struct {
	OrderID        uuid.UUID         `json:"order_id"`
	StoreID        uuid.UUID         `json:"store_id"`
	CustomerID     uuid.UUID         `json:"customer_id"`
	PreviousStatus enums.OrderStatus `json:"previous_status"`
	NewStatus      enums.OrderStatus `json:"new_status"`
	ChangedAt      time.Time         `json:"changed_at"`
	Reason         string            `json:"reason,omitempty"`
}
