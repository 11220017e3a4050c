package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/vitrinelabs/vitrine-backend/pkg/enums"
)

// Merchant represents an operator account linked to an identity-provider user.
type Merchant struct {
	ID         uuid.UUID          `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	AuthUserID uuid.UUID          `gorm:"column:auth_user_id;type:uuid;not null;uniqueIndex"`
	Email      string             `gorm:"column:email;not null;uniqueIndex"`
	Name       *string            `gorm:"column:name"`
	Role       enums.MerchantRole `gorm:"column:role;type:merchant_role_enum;not null;default:'manager'"`
	DeletedAt  *time.Time         `gorm:"column:deleted_at"`
	CreatedAt  time.Time          `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt  time.Time          `gorm:"column:updated_at;autoUpdateTime"`
}

func (Merchant) TableName() string { return "merchants" }

// StoreMember binds a merchant to a store they help run.
type StoreMember struct {
	ID         uuid.UUID          `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	StoreID    uuid.UUID          `gorm:"column:store_id;type:uuid;not null;index"`
	MerchantID uuid.UUID          `gorm:"column:merchant_id;type:uuid;not null;index"`
	Role       enums.MerchantRole `gorm:"column:role;type:merchant_role_enum;not null;default:'manager'"`
	IsActive   bool               `gorm:"column:is_active;not null;default:true"`
	DeletedAt  *time.Time         `gorm:"column:deleted_at"`
	CreatedAt  time.Time          `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt  time.Time          `gorm:"column:updated_at;autoUpdateTime"`
}

func (StoreMember) TableName() string { return "store_members" }
