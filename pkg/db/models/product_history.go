package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/vitrinelabs/vitrine-backend/pkg/enums"
)

// ProductHistory is the append-only audit log of product mutations. Every
// mutating operation on a product writes exactly one row here.
type ProductHistory struct {
	ID               uuid.UUID               `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	ProductID        uuid.UUID               `gorm:"column:product_id;type:uuid;not null;index"`
	StoreID          uuid.UUID               `gorm:"column:store_id;type:uuid;not null;index"`
	ChangeType       enums.ProductChangeType `gorm:"column:change_type;type:product_change_type_enum;not null"`
	PreviousSnapshot json.RawMessage         `gorm:"column:previous_snapshot;type:jsonb"`
	NewSnapshot      json.RawMessage         `gorm:"column:new_snapshot;type:jsonb"`
	ChangedFields    pq.StringArray          `gorm:"column:changed_fields;type:text[]"`
	ActorID          uuid.UUID               `gorm:"column:actor_id;type:uuid;not null"`
	CreatedAt        time.Time               `gorm:"column:created_at;autoCreateTime"`
}

func (ProductHistory) TableName() string { return "product_history" }
