package catalog

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/vitrinelabs/vitrine-backend/pkg/enums"
	"github.com/vitrinelabs/vitrine-backend/pkg/pagination"
)

// CustomizationSummary is one add-on entry aggregated into the product view.
type CustomizationSummary struct {
	ID                uuid.UUID               `json:"id"`
	Name              string                  `json:"name"`
	CustomizationType enums.CustomizationType `json:"customization_type"`
	SelectionType     enums.SelectionType     `json:"selection_type"`
	SelectionGroup    *string                 `json:"selection_group,omitempty"`
	Price             decimal.Decimal         `json:"price"`
}

// WorkingHourEntry is one weekday schedule entry aggregated into the store
// view. Weekday 0 is Sunday.
type WorkingHourEntry struct {
	Weekday   int     `json:"weekday"`
	OpenTime  *string `json:"open_time"`
	CloseTime *string `json:"close_time"`
	IsClosed  bool    `json:"is_closed"`
}

// ProductView is the public product representation.
type ProductView struct {
	ID                      uuid.UUID              `json:"id"`
	StoreID                 uuid.UUID              `json:"store_id"`
	Name                    string                 `json:"name"`
	Description             *string                `json:"description,omitempty"`
	Price                   decimal.Decimal        `json:"price"`
	Family                  enums.ProductFamily    `json:"family"`
	ImageURL                *string                `json:"image_url,omitempty"`
	Category                string                 `json:"category"`
	CustomCategory          *string                `json:"custom_category,omitempty"`
	IsActive                bool                   `json:"is_active"`
	PreparationTime         int                    `json:"preparation_time"`
	NutritionalInfo         json.RawMessage        `json:"nutritional_info,omitempty"`
	StoreName               string                 `json:"store_name"`
	StoreSlug               string                 `json:"store_slug"`
	StoreCategory           string                 `json:"store_category"`
	CustomizationsCount     int64                  `json:"customizations_count"`
	ExtraListsCount         int64                  `json:"extra_lists_count"`
	AvailableCustomizations []CustomizationSummary `json:"available_customizations"`
	CreatedAt               time.Time              `json:"created_at"`
	UpdatedAt               time.Time              `json:"updated_at"`
}

// StoreAddressView is the public address block of a store.
type StoreAddressView struct {
	Street       string  `json:"street"`
	Number       string  `json:"number"`
	Neighborhood string  `json:"neighborhood"`
	City         string  `json:"city"`
	State        string  `json:"state"`
	ZipCode      string  `json:"zip_code"`
	Complement   *string `json:"complement,omitempty"`
}

// StoreView is the public store representation.
type StoreView struct {
	ID                            uuid.UUID          `json:"id"`
	Name                          string             `json:"name"`
	Slug                          string             `json:"slug"`
	Description                   *string            `json:"description,omitempty"`
	Category                      string             `json:"category"`
	CustomCategory                *string            `json:"custom_category,omitempty"`
	AvatarURL                     *string            `json:"avatar_url,omitempty"`
	BannerURL                     *string            `json:"banner_url,omitempty"`
	Rating                        *decimal.Decimal   `json:"rating,omitempty"`
	ReviewCount                   int64              `json:"review_count"`
	PrimaryColor                  *string            `json:"primary_color,omitempty"`
	SecondaryColor                *string            `json:"secondary_color,omitempty"`
	AccentColor                   *string            `json:"accent_color,omitempty"`
	TextColor                     *string            `json:"text_color,omitempty"`
	IsActive                      bool               `json:"is_active"`
	DeliveryTime                  *string            `json:"delivery_time,omitempty"`
	MinOrderValue                 decimal.Decimal    `json:"min_order_value"`
	DeliveryFee                   decimal.Decimal    `json:"delivery_fee"`
	FreeDeliveryAbove             *decimal.Decimal   `json:"free_delivery_above,omitempty"`
	AcceptsPaymentCreditCard      bool               `json:"accepts_payment_credit_card"`
	AcceptsPaymentDebitCard       bool               `json:"accepts_payment_debit_card"`
	AcceptsPaymentPix             bool               `json:"accepts_payment_pix"`
	AcceptsPaymentCash            bool               `json:"accepts_payment_cash"`
	FulfillmentDeliveryEnabled    bool               `json:"fulfillment_delivery_enabled"`
	FulfillmentPickupEnabled      bool               `json:"fulfillment_pickup_enabled"`
	FulfillmentPickupInstructions *string            `json:"fulfillment_pickup_instructions,omitempty"`
	Address                       *StoreAddressView  `json:"address,omitempty"`
	ProductsCount                 int64              `json:"products_count"`
	TeamMembersCount              int64              `json:"team_members_count"`
	WorkingHours                  []WorkingHourEntry `json:"working_hours"`
	CreatedAt                     time.Time          `json:"created_at"`
	UpdatedAt                     time.Time          `json:"updated_at"`
}

// StoreDetail adds the store's active products to the store view.
type StoreDetail struct {
	StoreView
	Products []ProductView `json:"products"`
}

// ProductList wraps one page of products.
type ProductList struct {
	Products   []ProductView   `json:"products"`
	Pagination pagination.Meta `json:"pagination"`
}

// StoreList wraps one page of stores.
type StoreList struct {
	Stores     []StoreView     `json:"stores"`
	Pagination pagination.Meta `json:"pagination"`
}

func productViewFromRecord(row ProductRecord) ProductView {
	view := ProductView{
		ID:                  row.ID,
		StoreID:             row.StoreID,
		Name:                row.Name,
		Description:         row.Description,
		Price:               row.Price,
		Family:              row.Family,
		ImageURL:            row.ImageURL,
		Category:            row.Category,
		CustomCategory:      row.CustomCategory,
		IsActive:            row.IsActive,
		PreparationTime:     row.PreparationTime,
		NutritionalInfo:     row.NutritionalInfo,
		StoreName:           row.StoreName,
		StoreSlug:           row.StoreSlug,
		StoreCategory:       row.StoreCategory,
		CustomizationsCount: row.CustomizationsCount,
		ExtraListsCount:     row.ExtraListsCount,
		CreatedAt:           row.CreatedAt,
		UpdatedAt:           row.UpdatedAt,
	}
	view.AvailableCustomizations = decodeCustomizations(row.AvailableCustomizations)
	return view
}

func storeViewFromRecord(row StoreRecord) StoreView {
	view := StoreView{
		ID:                            row.ID,
		Name:                          row.Name,
		Slug:                          row.Slug,
		Description:                   row.Description,
		Category:                      row.Category,
		CustomCategory:                row.CustomCategory,
		AvatarURL:                     row.AvatarURL,
		BannerURL:                     row.BannerURL,
		Rating:                        row.Rating,
		ReviewCount:                   row.ReviewCount,
		PrimaryColor:                  row.PrimaryColor,
		SecondaryColor:                row.SecondaryColor,
		AccentColor:                   row.AccentColor,
		TextColor:                     row.TextColor,
		IsActive:                      row.IsActive,
		DeliveryTime:                  row.DeliveryTime,
		MinOrderValue:                 row.MinOrderValue,
		DeliveryFee:                   row.DeliveryFee,
		FreeDeliveryAbove:             row.FreeDeliveryAbove,
		AcceptsPaymentCreditCard:      row.AcceptsPaymentCreditCard,
		AcceptsPaymentDebitCard:       row.AcceptsPaymentDebitCard,
		AcceptsPaymentPix:             row.AcceptsPaymentPix,
		AcceptsPaymentCash:            row.AcceptsPaymentCash,
		FulfillmentDeliveryEnabled:    row.FulfillmentDeliveryEnabled,
		FulfillmentPickupEnabled:      row.FulfillmentPickupEnabled,
		FulfillmentPickupInstructions: row.FulfillmentPickupInstructions,
		ProductsCount:                 row.ProductsCount,
		TeamMembersCount:              row.TeamMembersCount,
		CreatedAt:                     row.CreatedAt,
		UpdatedAt:                     row.UpdatedAt,
	}
	if row.AddressStreet != nil {
		view.Address = &StoreAddressView{
			Street:       *row.AddressStreet,
			Number:       stringOrEmpty(row.AddressNumber),
			Neighborhood: stringOrEmpty(row.AddressNeighborhood),
			City:         stringOrEmpty(row.AddressCity),
			State:        stringOrEmpty(row.AddressState),
			ZipCode:      stringOrEmpty(row.AddressZipCode),
			Complement:   row.AddressComplement,
		}
	}
	view.WorkingHours = decodeWorkingHours(row.WorkingHours)
	return view
}

func decodeCustomizations(raw json.RawMessage) []CustomizationSummary {
	items := []CustomizationSummary{}
	if len(raw) == 0 {
		return items
	}
	if err := json.Unmarshal(raw, &items); err != nil {
		return []CustomizationSummary{}
	}
	return items
}

func decodeWorkingHours(raw json.RawMessage) []WorkingHourEntry {
	items := []WorkingHourEntry{}
	if len(raw) == 0 {
		return items
	}
	if err := json.Unmarshal(raw, &items); err != nil {
		return []WorkingHourEntry{}
	}
	return items
}

func stringOrEmpty(value *string) string {
	if value == nil {
		return ""
	}
	return *value
}
