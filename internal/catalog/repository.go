package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/vitrinelabs/vitrine-backend/pkg/enums"
	"github.com/vitrinelabs/vitrine-backend/pkg/pagination"
)

const (
	productsView = "views.products_enriched"
	storesView   = "views.stores_complete"
)

// ProductRecord is one row of the products_enriched view.
type ProductRecord struct {
	ID                      uuid.UUID           `gorm:"column:id"`
	StoreID                 uuid.UUID           `gorm:"column:store_id"`
	Name                    string              `gorm:"column:name"`
	Description             *string             `gorm:"column:description"`
	Price                   decimal.Decimal     `gorm:"column:price"`
	CostPrice               decimal.Decimal     `gorm:"column:cost_price"`
	Family                  enums.ProductFamily `gorm:"column:family"`
	ImageURL                *string             `gorm:"column:image_url"`
	Category                string              `gorm:"column:category"`
	CustomCategory          *string             `gorm:"column:custom_category"`
	IsActive                bool                `gorm:"column:is_active"`
	PreparationTime         int                 `gorm:"column:preparation_time"`
	NutritionalInfo         json.RawMessage     `gorm:"column:nutritional_info"`
	CreatedAt               time.Time           `gorm:"column:created_at"`
	UpdatedAt               time.Time           `gorm:"column:updated_at"`
	StoreName               string              `gorm:"column:store_name"`
	StoreSlug               string              `gorm:"column:store_slug"`
	StoreCategory           string              `gorm:"column:store_category"`
	CustomizationsCount     int64               `gorm:"column:customizations_count"`
	ExtraListsCount         int64               `gorm:"column:extra_lists_count"`
	AvailableCustomizations json.RawMessage     `gorm:"column:available_customizations"`
}

// StoreRecord is one row of the stores_complete view.
type StoreRecord struct {
	ID                            uuid.UUID        `gorm:"column:id"`
	MerchantID                    uuid.UUID        `gorm:"column:merchant_id"`
	Name                          string           `gorm:"column:name"`
	Slug                          string           `gorm:"column:slug"`
	Description                   *string          `gorm:"column:description"`
	Category                      string           `gorm:"column:category"`
	CustomCategory                *string          `gorm:"column:custom_category"`
	AvatarURL                     *string          `gorm:"column:avatar_url"`
	BannerURL                     *string          `gorm:"column:banner_url"`
	Rating                        *decimal.Decimal `gorm:"column:rating"`
	ReviewCount                   int64            `gorm:"column:review_count"`
	PrimaryColor                  *string          `gorm:"column:primary_color"`
	SecondaryColor                *string          `gorm:"column:secondary_color"`
	AccentColor                   *string          `gorm:"column:accent_color"`
	TextColor                     *string          `gorm:"column:text_color"`
	IsActive                      bool             `gorm:"column:is_active"`
	DeliveryTime                  *string          `gorm:"column:delivery_time"`
	MinOrderValue                 decimal.Decimal  `gorm:"column:min_order_value"`
	DeliveryFee                   decimal.Decimal  `gorm:"column:delivery_fee"`
	FreeDeliveryAbove             *decimal.Decimal `gorm:"column:free_delivery_above"`
	AcceptsPaymentCreditCard      bool             `gorm:"column:accepts_payment_credit_card"`
	AcceptsPaymentDebitCard       bool             `gorm:"column:accepts_payment_debit_card"`
	AcceptsPaymentPix             bool             `gorm:"column:accepts_payment_pix"`
	AcceptsPaymentCash            bool             `gorm:"column:accepts_payment_cash"`
	FulfillmentDeliveryEnabled    bool             `gorm:"column:fulfillment_delivery_enabled"`
	FulfillmentPickupEnabled      bool             `gorm:"column:fulfillment_pickup_enabled"`
	FulfillmentPickupInstructions *string          `gorm:"column:fulfillment_pickup_instructions"`
	CreatedAt                     time.Time        `gorm:"column:created_at"`
	UpdatedAt                     time.Time        `gorm:"column:updated_at"`
	AddressStreet                 *string          `gorm:"column:address_street"`
	AddressNumber                 *string          `gorm:"column:address_number"`
	AddressNeighborhood           *string          `gorm:"column:address_neighborhood"`
	AddressCity                   *string          `gorm:"column:address_city"`
	AddressState                  *string          `gorm:"column:address_state"`
	AddressZipCode                *string          `gorm:"column:address_zip_code"`
	AddressComplement             *string          `gorm:"column:address_complement"`
	ProductsCount                 int64            `gorm:"column:products_count"`
	TeamMembersCount              int64            `gorm:"column:team_members_count"`
	WorkingHours                  json.RawMessage  `gorm:"column:working_hours"`
}

// ProductFilters narrows the public product listing. All set filters are
// AND-composed.
type ProductFilters struct {
	StoreID  *uuid.UUID
	Category *string
	IsActive *bool
	Search   string
}

// StoreFilters narrows the public store listing.
type StoreFilters struct {
	Category *string
	IsActive *bool
	Search   string
}

// Repository reads the catalog views. Writes never go through this package.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// ListProducts returns one page of enriched products plus the total row
// count under the same predicate.
func (r *Repository) ListProducts(ctx context.Context, filters ProductFilters, page pagination.Params) ([]ProductRecord, int64, error) {
	qb := r.db.WithContext(ctx).Table(productsView).Where("deleted_at IS NULL")
	qb = applyProductFilters(qb, filters)

	var total int64
	if err := qb.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []ProductRecord
	if err := qb.
		Order("created_at DESC").
		Limit(page.Limit).
		Offset(page.Offset()).
		Find(&rows).Error; err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}

// GetProductByID loads one enriched product. Missing rows return nil.
func (r *Repository) GetProductByID(ctx context.Context, id uuid.UUID) (*ProductRecord, error) {
	var row ProductRecord
	err := r.db.WithContext(ctx).
		Table(productsView).
		Where("id = ? AND deleted_at IS NULL", id).
		Take(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &row, nil
}

// ListActiveProductsByStore returns the active products of a store,
// newest first.
func (r *Repository) ListActiveProductsByStore(ctx context.Context, storeID uuid.UUID) ([]ProductRecord, error) {
	var rows []ProductRecord
	err := r.db.WithContext(ctx).
		Table(productsView).
		Where("store_id = ? AND is_active AND deleted_at IS NULL", storeID).
		Order("created_at DESC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// GetStoreByID loads one complete store row. Missing rows return nil.
func (r *Repository) GetStoreByID(ctx context.Context, id uuid.UUID) (*StoreRecord, error) {
	return r.getStore(ctx, "id = ?", id)
}

// GetStoreBySlug resolves a store by its public slug. Missing rows return nil.
func (r *Repository) GetStoreBySlug(ctx context.Context, slug string) (*StoreRecord, error) {
	return r.getStore(ctx, "slug = ?", slug)
}

func (r *Repository) getStore(ctx context.Context, query string, arg any) (*StoreRecord, error) {
	var row StoreRecord
	err := r.db.WithContext(ctx).
		Table(storesView).
		Where("deleted_at IS NULL").
		Where(query, arg).
		Take(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &row, nil
}

// ListStores returns one page of complete stores plus the total row count
// under the same predicate.
func (r *Repository) ListStores(ctx context.Context, filters StoreFilters, page pagination.Params) ([]StoreRecord, int64, error) {
	qb := r.db.WithContext(ctx).Table(storesView).Where("deleted_at IS NULL")
	qb = applyStoreFilters(qb, filters)

	var total int64
	if err := qb.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []StoreRecord
	if err := qb.
		Order("created_at DESC").
		Limit(page.Limit).
		Offset(page.Offset()).
		Find(&rows).Error; err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}

func applyProductFilters(qb *gorm.DB, filters ProductFilters) *gorm.DB {
	if filters.StoreID != nil {
		qb = qb.Where("store_id = ?", *filters.StoreID)
	}
	if filters.Category != nil {
		qb = qb.Where("category = ?", *filters.Category)
	}
	if filters.IsActive != nil {
		qb = qb.Where("is_active = ?", *filters.IsActive)
	}
	if search := normalizeSearch(filters.Search); search != "" {
		qb = qb.Where("(LOWER(name) LIKE ? OR LOWER(description) LIKE ?)", search, search)
	}
	return qb
}

func applyStoreFilters(qb *gorm.DB, filters StoreFilters) *gorm.DB {
	if filters.Category != nil {
		qb = qb.Where("category = ?", *filters.Category)
	}
	if filters.IsActive != nil {
		qb = qb.Where("is_active = ?", *filters.IsActive)
	}
	if search := normalizeSearch(filters.Search); search != "" {
		qb = qb.Where("(LOWER(name) LIKE ? OR LOWER(description) LIKE ?)", search, search)
	}
	return qb
}

func normalizeSearch(raw string) string {
	trimmed := strings.TrimSpace(strings.ToLower(raw))
	if trimmed == "" {
		return ""
	}
	return "%" + trimmed + "%"
}
