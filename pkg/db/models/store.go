package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Store represents the canonical tenant model.
type Store struct {
	ID             uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	MerchantID     uuid.UUID `gorm:"column:merchant_id;type:uuid;not null;index"`
	Name           string    `gorm:"column:name;not null"`
	Slug           string    `gorm:"column:slug;not null;uniqueIndex"`
	Description    *string   `gorm:"column:description"`
	Category       string    `gorm:"column:category;not null"`
	CustomCategory *string   `gorm:"column:custom_category"`
	AvatarURL      *string   `gorm:"column:avatar_url"`
	BannerURL      *string   `gorm:"column:banner_url"`

	PrimaryColor   *string `gorm:"column:primary_color"`
	SecondaryColor *string `gorm:"column:secondary_color"`
	AccentColor    *string `gorm:"column:accent_color"`
	TextColor      *string `gorm:"column:text_color"`

	IsActive     bool    `gorm:"column:is_active;not null;default:true"`
	DeliveryTime *string `gorm:"column:delivery_time"`

	MinOrderValue     decimal.Decimal  `gorm:"column:min_order_value;type:numeric(10,2);not null;default:0"`
	DeliveryFee       decimal.Decimal  `gorm:"column:delivery_fee;type:numeric(10,2);not null;default:0"`
	FreeDeliveryAbove *decimal.Decimal `gorm:"column:free_delivery_above;type:numeric(10,2)"`

	AcceptsPaymentCreditCard bool `gorm:"column:accepts_payment_credit_card;not null;default:false"`
	AcceptsPaymentDebitCard  bool `gorm:"column:accepts_payment_debit_card;not null;default:false"`
	AcceptsPaymentPix        bool `gorm:"column:accepts_payment_pix;not null;default:false"`
	AcceptsPaymentCash       bool `gorm:"column:accepts_payment_cash;not null;default:true"`

	FulfillmentDeliveryEnabled    bool    `gorm:"column:fulfillment_delivery_enabled;not null;default:true"`
	FulfillmentPickupEnabled      bool    `gorm:"column:fulfillment_pickup_enabled;not null;default:false"`
	FulfillmentPickupInstructions *string `gorm:"column:fulfillment_pickup_instructions"`

	LegalResponsibleName     *string    `gorm:"column:legal_responsible_name"`
	LegalResponsibleDocument *string    `gorm:"column:legal_responsible_document"`
	TermsAcceptedAt          *time.Time `gorm:"column:terms_accepted_at"`

	Address         *StoreAddress         `gorm:"foreignKey:StoreID;constraint:OnDelete:CASCADE"`
	WorkingHours    []StoreWorkingHour    `gorm:"foreignKey:StoreID;constraint:OnDelete:CASCADE"`
	DeliveryOptions []StoreDeliveryOption `gorm:"foreignKey:StoreID;constraint:OnDelete:CASCADE"`

	DeletedAt *time.Time `gorm:"column:deleted_at"`
	CreatedAt time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time  `gorm:"column:updated_at;autoUpdateTime"`
}

func (Store) TableName() string { return "stores" }

// StoreAddress is the store's single "main" address.
type StoreAddress struct {
	ID           uuid.UUID  `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	StoreID      uuid.UUID  `gorm:"column:store_id;type:uuid;not null;uniqueIndex"`
	Street       string     `gorm:"column:street;not null"`
	Number       string     `gorm:"column:number;not null"`
	Neighborhood string     `gorm:"column:neighborhood;not null"`
	City         string     `gorm:"column:city;not null"`
	State        string     `gorm:"column:state;not null"`
	ZipCode      string     `gorm:"column:zip_code;not null"`
	Complement   *string    `gorm:"column:complement"`
	DeletedAt    *time.Time `gorm:"column:deleted_at"`
	CreatedAt    time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time  `gorm:"column:updated_at;autoUpdateTime"`
}

func (StoreAddress) TableName() string { return "store_addresses" }

// StoreWorkingHour holds one weekday's schedule entry. Weekday is 0-6
// starting on Sunday; open/close are "HH:MM" local times-of-day.
type StoreWorkingHour struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	StoreID   uuid.UUID `gorm:"column:store_id;type:uuid;not null;index:idx_store_weekday,unique"`
	Weekday   int       `gorm:"column:weekday;not null;index:idx_store_weekday,unique"`
	OpenTime  *string   `gorm:"column:open_time"`
	CloseTime *string   `gorm:"column:close_time"`
	IsClosed  bool      `gorm:"column:is_closed;not null;default:false"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (StoreWorkingHour) TableName() string { return "store_working_hours" }

// StoreDeliveryOption is a named delivery tier with its own fee.
type StoreDeliveryOption struct {
	ID          uuid.UUID       `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	StoreID     uuid.UUID       `gorm:"column:store_id;type:uuid;not null;index"`
	Name        string          `gorm:"column:name;not null"`
	Description *string         `gorm:"column:description"`
	Fee         decimal.Decimal `gorm:"column:fee;type:numeric(10,2);not null;default:0"`
	IsActive    bool            `gorm:"column:is_active;not null;default:true"`
	DeletedAt   *time.Time      `gorm:"column:deleted_at"`
	CreatedAt   time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}

func (StoreDeliveryOption) TableName() string { return "store_delivery_options" }
