package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/vitrinelabs/vitrine-backend/pkg/enums"
)

// OrderStatusHistory is the append-only log of order status transitions.
type OrderStatusHistory struct {
	ID             uuid.UUID          `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	OrderID        uuid.UUID          `gorm:"column:order_id;type:uuid;not null;index"`
	PreviousStatus *enums.OrderStatus `gorm:"column:previous_status;type:order_status_enum"`
	NewStatus      enums.OrderStatus  `gorm:"column:new_status;type:order_status_enum;not null"`
	ActorID        *uuid.UUID         `gorm:"column:actor_id;type:uuid"`
	Reason         *string            `gorm:"column:reason"`
	CreatedAt      time.Time          `gorm:"column:created_at;autoCreateTime"`
}

func (OrderStatusHistory) TableName() string { return "order_status_history" }
