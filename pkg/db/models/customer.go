package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/vitrinelabs/vitrine-backend/pkg/enums"
)

// Customer represents a buyer account linked to an identity-provider user.
type Customer struct {
	ID         uuid.UUID  `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	AuthUserID uuid.UUID  `gorm:"column:auth_user_id;type:uuid;not null;uniqueIndex"`
	Name       string     `gorm:"column:name;not null"`
	Phone      string     `gorm:"column:phone;not null;uniqueIndex"`
	DeletedAt  *time.Time `gorm:"column:deleted_at"`
	CreatedAt  time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt  time.Time  `gorm:"column:updated_at;autoUpdateTime"`

	Addresses []CustomerAddress `gorm:"foreignKey:CustomerID;constraint:OnDelete:CASCADE"`
}

func (Customer) TableName() string { return "customers" }

// CustomerAddress is one entry in a customer's address book. At most one
// non-deleted address per customer may have is_default set.
type CustomerAddress struct {
	ID           uuid.UUID         `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	CustomerID   uuid.UUID         `gorm:"column:customer_id;type:uuid;not null;index"`
	Label        *string           `gorm:"column:label"`
	AddressType  enums.AddressType `gorm:"column:address_type;type:address_type_enum;not null;default:'other'"`
	Street       string            `gorm:"column:street;not null"`
	Number       string            `gorm:"column:number;not null"`
	Neighborhood string            `gorm:"column:neighborhood;not null"`
	City         string            `gorm:"column:city;not null"`
	State        string            `gorm:"column:state;not null"`
	ZipCode      string            `gorm:"column:zip_code;not null"`
	Complement   *string           `gorm:"column:complement"`
	Reference    *string           `gorm:"column:reference"`
	IsDefault    bool              `gorm:"column:is_default;not null;default:false"`
	DeletedAt    *time.Time        `gorm:"column:deleted_at"`
	CreatedAt    time.Time         `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time         `gorm:"column:updated_at;autoUpdateTime"`
}

func (CustomerAddress) TableName() string { return "customer_addresses" }

// StoreCustomer binds a customer to a store they registered with. A customer
// must hold an active row for a store before authenticating against it.
type StoreCustomer struct {
	ID         uuid.UUID  `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	StoreID    uuid.UUID  `gorm:"column:store_id;type:uuid;not null;index:idx_store_customer,unique"`
	CustomerID uuid.UUID  `gorm:"column:customer_id;type:uuid;not null;index:idx_store_customer,unique"`
	IsActive   bool       `gorm:"column:is_active;not null;default:true"`
	DeletedAt  *time.Time `gorm:"column:deleted_at"`
	CreatedAt  time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt  time.Time  `gorm:"column:updated_at;autoUpdateTime"`
}

func (StoreCustomer) TableName() string { return "store_customers" }
