package stores

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AddressInput replaces the store's single main address.
type AddressInput struct {
	Street       string  `json:"street" validate:"required"`
	Number       string  `json:"number" validate:"required"`
	Neighborhood string  `json:"neighborhood" validate:"required"`
	City         string  `json:"city" validate:"required"`
	State        string  `json:"state" validate:"required"`
	ZipCode      string  `json:"zip_code" validate:"required"`
	Complement   *string `json:"complement,omitempty"`
}

// WorkingHourInput is one weekday schedule entry. OpenTime/CloseTime use the
// "HH:MM" form and may be omitted when the day is flagged closed.
type WorkingHourInput struct {
	Weekday   int     `json:"weekday" validate:"min=0,max=6"`
	OpenTime  *string `json:"open_time,omitempty"`
	CloseTime *string `json:"close_time,omitempty"`
	IsClosed  bool    `json:"is_closed"`
}

// UpdateStoreInput carries the merchant-editable store fields. Nil pointers
// leave the current value untouched.
type UpdateStoreInput struct {
	StoreID    uuid.UUID `json:"-"`
	AuthUserID uuid.UUID `json:"-"`

	Name           *string `json:"name,omitempty"`
	Description    *string `json:"description,omitempty"`
	Category       *string `json:"category,omitempty"`
	CustomCategory *string `json:"custom_category,omitempty"`
	DeliveryTime   *string `json:"delivery_time,omitempty"`

	PrimaryColor   *string `json:"primary_color,omitempty"`
	SecondaryColor *string `json:"secondary_color,omitempty"`
	AccentColor    *string `json:"accent_color,omitempty"`
	TextColor      *string `json:"text_color,omitempty"`

	MinOrderValue     *decimal.Decimal `json:"min_order_value,omitempty"`
	DeliveryFee       *decimal.Decimal `json:"delivery_fee,omitempty"`
	FreeDeliveryAbove *decimal.Decimal `json:"free_delivery_above,omitempty"`

	AcceptsPaymentCreditCard *bool `json:"accepts_payment_credit_card,omitempty"`
	AcceptsPaymentDebitCard  *bool `json:"accepts_payment_debit_card,omitempty"`
	AcceptsPaymentPix        *bool `json:"accepts_payment_pix,omitempty"`
	AcceptsPaymentCash       *bool `json:"accepts_payment_cash,omitempty"`

	FulfillmentDeliveryEnabled    *bool   `json:"fulfillment_delivery_enabled,omitempty"`
	FulfillmentPickupEnabled      *bool   `json:"fulfillment_pickup_enabled,omitempty"`
	FulfillmentPickupInstructions *string `json:"fulfillment_pickup_instructions,omitempty"`

	Address      *AddressInput      `json:"address,omitempty"`
	WorkingHours []WorkingHourInput `json:"working_hours,omitempty"`
}

// DayHours is the resolved schedule for one weekday.
type DayHours struct {
	Weekday   int     `json:"weekday"`
	OpenTime  *string `json:"open_time"`
	CloseTime *string `json:"close_time"`
	IsClosed  bool    `json:"is_closed"`
}

// NextOpening points at the next weekday with defined hours when the store
// is currently closed.
type NextOpening struct {
	Weekday  int    `json:"weekday"`
	OpenTime string `json:"open_time"`
}

// StoreStatus is the open/closed snapshot for "now".
type StoreStatus struct {
	IsActive    bool         `json:"is_active"`
	IsOpen      bool         `json:"is_open"`
	TodayHours  *DayHours    `json:"today_hours,omitempty"`
	NextOpening *NextOpening `json:"next_opening,omitempty"`
}
