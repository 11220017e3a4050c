package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/vitrinelabs/vitrine-backend/pkg/enums"
)

// Product represents a store's catalog listing.
type Product struct {
	ID              uuid.UUID           `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	StoreID         uuid.UUID           `gorm:"column:store_id;type:uuid;not null;index"`
	Name            string              `gorm:"column:name;not null"`
	Description     *string             `gorm:"column:description"`
	Price           decimal.Decimal     `gorm:"column:price;type:numeric(10,2);not null"`
	CostPrice       decimal.Decimal     `gorm:"column:cost_price;type:numeric(10,2);not null;default:0"`
	Family          enums.ProductFamily `gorm:"column:family;type:product_family_enum;not null"`
	Category        string              `gorm:"column:category;not null"`
	CustomCategory  *string             `gorm:"column:custom_category"`
	ImageURL        *string             `gorm:"column:image_url"`
	IsActive        bool                `gorm:"column:is_active;not null;default:true"`
	PreparationTime int                 `gorm:"column:preparation_time;not null;default:0"`
	NutritionalInfo json.RawMessage     `gorm:"column:nutritional_info;type:jsonb"`

	Customizations []ProductCustomization `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`
	ExtraListLinks []ProductExtraList     `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`

	DeletedAt *time.Time `gorm:"column:deleted_at"`
	CreatedAt time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time  `gorm:"column:updated_at;autoUpdateTime"`
}

func (Product) TableName() string { return "products" }

// ProductCustomization is an add-on choice attached to a product.
type ProductCustomization struct {
	ID                uuid.UUID               `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	ProductID         uuid.UUID               `gorm:"column:product_id;type:uuid;not null;index"`
	Name              string                  `gorm:"column:name;not null"`
	CustomizationType enums.CustomizationType `gorm:"column:customization_type;type:product_customization_type_enum;not null"`
	SelectionType     enums.SelectionType     `gorm:"column:selection_type;type:selection_type_enum;not null;default:'quantity'"`
	SelectionGroup    *string                 `gorm:"column:selection_group"`
	Price             decimal.Decimal         `gorm:"column:price;type:numeric(10,2);not null;default:0"`
	DeletedAt         *time.Time              `gorm:"column:deleted_at"`
	CreatedAt         time.Time               `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt         time.Time               `gorm:"column:updated_at;autoUpdateTime"`
}

func (ProductCustomization) TableName() string { return "product_customizations" }

// ExtraList is a named, reusable group of optional add-ons.
type ExtraList struct {
	ID          uuid.UUID  `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	StoreID     uuid.UUID  `gorm:"column:store_id;type:uuid;not null;index"`
	Name        string     `gorm:"column:name;not null"`
	Description *string    `gorm:"column:description"`
	IsActive    bool       `gorm:"column:is_active;not null;default:true"`
	DeletedAt   *time.Time `gorm:"column:deleted_at"`
	CreatedAt   time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time  `gorm:"column:updated_at;autoUpdateTime"`
}

func (ExtraList) TableName() string { return "extra_lists" }

// ProductExtraList links a product to an extra list that applies to it.
type ProductExtraList struct {
	ID          uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	ProductID   uuid.UUID `gorm:"column:product_id;type:uuid;not null;index:idx_product_extra_list,unique"`
	ExtraListID uuid.UUID `gorm:"column:extra_list_id;type:uuid;not null;index:idx_product_extra_list,unique"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime"`
}

func (ProductExtraList) TableName() string { return "product_extra_lists" }

// ProductCategoryPriceLimit bounds product pricing per store and category.
type ProductCategoryPriceLimit struct {
	ID        uuid.UUID        `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	StoreID   uuid.UUID        `gorm:"column:store_id;type:uuid;not null;index:idx_store_category_limit,unique"`
	Category  string           `gorm:"column:category;not null;index:idx_store_category_limit,unique"`
	MinPrice  *decimal.Decimal `gorm:"column:min_price;type:numeric(10,2)"`
	MaxPrice  *decimal.Decimal `gorm:"column:max_price;type:numeric(10,2)"`
	CreatedAt time.Time        `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time        `gorm:"column:updated_at;autoUpdateTime"`
}

func (ProductCategoryPriceLimit) TableName() string { return "product_category_price_limits" }
