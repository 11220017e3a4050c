package products

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	dbpkg "github.com/vitrinelabs/vitrine-backend/pkg/db"
	"github.com/vitrinelabs/vitrine-backend/pkg/db/models"
	"github.com/vitrinelabs/vitrine-backend/pkg/enums"
)

// nonTerminalStatuses are the order states that still reference live
// product data and block destructive product operations.
var nonTerminalStatuses = []enums.OrderStatus{
	enums.OrderStatusPending,
	enums.OrderStatusConfirmed,
	enums.OrderStatusPreparing,
	enums.OrderStatusReady,
	enums.OrderStatusOutForDelivery,
}

// Repository defines persistence operations for the product lifecycle.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
	FindStore(ctx context.Context, storeID uuid.UUID) (*models.Store, error)
	FindMerchantByAuthID(ctx context.Context, authUserID uuid.UUID) (*models.Merchant, error)
	HasActiveMembership(ctx context.Context, storeID, merchantID uuid.UUID) (bool, error)
	FindPriceLimit(ctx context.Context, storeID uuid.UUID, category string) (*models.ProductCategoryPriceLimit, error)
	CountStoreExtraLists(ctx context.Context, storeID uuid.UUID, ids []uuid.UUID) (int64, error)
	CreateProduct(ctx context.Context, product *models.Product) error
	UpdateProduct(ctx context.Context, productID uuid.UUID, updates map[string]any) error
	SoftDeleteProduct(ctx context.Context, productID uuid.UUID) error
	ReplaceExtraListLinks(ctx context.Context, productID uuid.UUID, extraListIDs []uuid.UUID) error
	FindCustomization(ctx context.Context, productID, customizationID uuid.UUID) (*models.ProductCustomization, error)
	CreateCustomization(ctx context.Context, customization *models.ProductCustomization) error
	UpdateCustomization(ctx context.Context, customizationID uuid.UUID, updates map[string]any) error
	SoftDeleteCustomization(ctx context.Context, customizationID uuid.UUID) error
	CountNonTerminalOrderRefs(ctx context.Context, productID uuid.UUID) (int64, error)
	CountNonTerminalCustomizationRefs(ctx context.Context, customizationID uuid.UUID) (int64, error)
	InsertHistory(ctx context.Context, entry *models.ProductHistory) error
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	return &repository{db: tx}
}

// FindByID loads the product with its live customizations and extra-list
// links. Missing rows return nil.
func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	var product models.Product
	err := r.db.WithContext(ctx).
		Scopes(dbpkg.NotDeleted).
		Preload("Customizations", func(tx *gorm.DB) *gorm.DB {
			return tx.Scopes(dbpkg.NotDeleted).Order("created_at ASC")
		}).
		Preload("ExtraListLinks").
		First(&product, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &product, nil
}

// FindStore loads the bare store row. Missing rows return nil.
func (r *repository) FindStore(ctx context.Context, storeID uuid.UUID) (*models.Store, error) {
	var store models.Store
	err := r.db.WithContext(ctx).
		Scopes(dbpkg.NotDeleted).
		First(&store, "id = ?", storeID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &store, nil
}

// FindMerchantByAuthID resolves the local merchant row for an identity
// provider user id. Missing rows return nil.
func (r *repository) FindMerchantByAuthID(ctx context.Context, authUserID uuid.UUID) (*models.Merchant, error) {
	var merchant models.Merchant
	err := r.db.WithContext(ctx).
		Scopes(dbpkg.NotDeleted).
		First(&merchant, "auth_user_id = ?", authUserID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &merchant, nil
}

// HasActiveMembership reports whether the merchant is an active member of
// the store.
func (r *repository) HasActiveMembership(ctx context.Context, storeID, merchantID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.StoreMember{}).
		Scopes(dbpkg.NotDeleted).
		Where("store_id = ? AND merchant_id = ? AND is_active", storeID, merchantID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// FindPriceLimit loads the per-category price bound for a store. Missing
// rows return nil.
func (r *repository) FindPriceLimit(ctx context.Context, storeID uuid.UUID, category string) (*models.ProductCategoryPriceLimit, error) {
	var limit models.ProductCategoryPriceLimit
	err := r.db.WithContext(ctx).
		First(&limit, "store_id = ? AND category = ?", storeID, category).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &limit, nil
}

// CountStoreExtraLists counts how many of the given extra lists belong to
// the store and are still live.
func (r *repository) CountStoreExtraLists(ctx context.Context, storeID uuid.UUID, ids []uuid.UUID) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.ExtraList{}).
		Scopes(dbpkg.NotDeleted).
		Where("store_id = ? AND id IN ?", storeID, ids).
		Count(&count).Error
	if err != nil {
		return 0, err
	}
	return count, nil
}

// CreateProduct inserts the product with its nested customizations and
// extra-list links.
func (r *repository) CreateProduct(ctx context.Context, product *models.Product) error {
	return r.db.WithContext(ctx).Create(product).Error
}

// UpdateProduct persists column updates on the product row.
func (r *repository) UpdateProduct(ctx context.Context, productID uuid.UUID, updates map[string]any) error {
	if len(updates) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).
		Model(&models.Product{}).
		Where("id = ?", productID).
		Updates(updates).Error
}

// SoftDeleteProduct marks the product as deleted.
func (r *repository) SoftDeleteProduct(ctx context.Context, productID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Model(&models.Product{}).
		Where("id = ?", productID).
		Updates(map[string]any{"deleted_at": time.Now(), "is_active": false}).Error
}

// ReplaceExtraListLinks swaps the product's extra-list link set.
func (r *repository) ReplaceExtraListLinks(ctx context.Context, productID uuid.UUID, extraListIDs []uuid.UUID) error {
	tx := r.db.WithContext(ctx)
	if err := tx.Where("product_id = ?", productID).Delete(&models.ProductExtraList{}).Error; err != nil {
		return err
	}
	if len(extraListIDs) == 0 {
		return nil
	}
	links := make([]models.ProductExtraList, 0, len(extraListIDs))
	for _, id := range extraListIDs {
		links = append(links, models.ProductExtraList{ProductID: productID, ExtraListID: id})
	}
	return tx.Create(&links).Error
}

// FindCustomization loads one live customization scoped to the product.
// Missing rows return nil.
func (r *repository) FindCustomization(ctx context.Context, productID, customizationID uuid.UUID) (*models.ProductCustomization, error) {
	var customization models.ProductCustomization
	err := r.db.WithContext(ctx).
		Scopes(dbpkg.NotDeleted).
		First(&customization, "id = ? AND product_id = ?", customizationID, productID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &customization, nil
}

// CreateCustomization inserts one add-on row.
func (r *repository) CreateCustomization(ctx context.Context, customization *models.ProductCustomization) error {
	return r.db.WithContext(ctx).Create(customization).Error
}

// UpdateCustomization persists column updates on one add-on row.
func (r *repository) UpdateCustomization(ctx context.Context, customizationID uuid.UUID, updates map[string]any) error {
	if len(updates) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).
		Model(&models.ProductCustomization{}).
		Where("id = ?", customizationID).
		Updates(updates).Error
}

// SoftDeleteCustomization marks one add-on as deleted.
func (r *repository) SoftDeleteCustomization(ctx context.Context, customizationID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Model(&models.ProductCustomization{}).
		Where("id = ?", customizationID).
		Update("deleted_at", time.Now()).Error
}

// CountNonTerminalOrderRefs counts order items referencing the product on
// orders that are still in flight.
func (r *repository) CountNonTerminalOrderRefs(ctx context.Context, productID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.OrderItem{}).
		Joins("JOIN orders ON orders.id = order_items.order_id").
		Where("order_items.product_id = ?", productID).
		Where("orders.status IN ?", nonTerminalStatuses).
		Where("orders.deleted_at IS NULL").
		Count(&count).Error
	if err != nil {
		return 0, err
	}
	return count, nil
}

// CountNonTerminalCustomizationRefs counts in-flight order references to
// the customization.
func (r *repository) CountNonTerminalCustomizationRefs(ctx context.Context, customizationID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.OrderItemCustomization{}).
		Joins("JOIN order_items ON order_items.id = order_item_customizations.order_item_id").
		Joins("JOIN orders ON orders.id = order_items.order_id").
		Where("order_item_customizations.customization_id = ?", customizationID).
		Where("orders.status IN ?", nonTerminalStatuses).
		Where("orders.deleted_at IS NULL").
		Count(&count).Error
	if err != nil {
		return 0, err
	}
	return count, nil
}

// InsertHistory appends one audit row.
func (r *repository) InsertHistory(ctx context.Context, entry *models.ProductHistory) error {
	return r.db.WithContext(ctx).Create(entry).Error
}
