package orders

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	dbpkg "github.com/vitrinelabs/vitrine-backend/pkg/db"
	"github.com/vitrinelabs/vitrine-backend/pkg/db/models"
	"github.com/vitrinelabs/vitrine-backend/pkg/pagination"
)

// Repository defines persistence operations for the order workflow.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	FindStore(ctx context.Context, storeID uuid.UUID) (*models.Store, error)
	FindDeliveryOption(ctx context.Context, storeID, optionID uuid.UUID) (*models.StoreDeliveryOption, error)
	FindProductsByIDs(ctx context.Context, storeID uuid.UUID, ids []uuid.UUID) ([]models.Product, error)
	FindMerchantByAuthID(ctx context.Context, authUserID uuid.UUID) (*models.Merchant, error)
	FindCustomerByAuthID(ctx context.Context, authUserID uuid.UUID) (*models.Customer, error)
	HasActiveMembership(ctx context.Context, storeID, merchantID uuid.UUID) (bool, error)
	FindOrder(ctx context.Context, orderID uuid.UUID) (*models.Order, error)
	CreateOrder(ctx context.Context, order *models.Order) error
	UpdateOrder(ctx context.Context, orderID uuid.UUID, updates map[string]any) error
	InsertStatusHistory(ctx context.Context, entry *models.OrderStatusHistory) error
	GetDetailed(ctx context.Context, orderID uuid.UUID) (*OrderDetailedRecord, error)
	ListDetailed(ctx context.Context, filters ListFilters, page pagination.Params) ([]OrderDetailedRecord, int64, error)
	ListItems(ctx context.Context, orderID uuid.UUID) ([]OrderItemRecord, error)
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

// FindStore loads the store with its live delivery options. Missing rows
// return nil.
func (r *repository) FindStore(ctx context.Context, storeID uuid.UUID) (*models.Store, error) {
	var store models.Store
	err := r.db.WithContext(ctx).
		Scopes(dbpkg.NotDeleted).
		Preload("DeliveryOptions", func(tx *gorm.DB) *gorm.DB {
			return tx.Scopes(dbpkg.NotDeleted).Where("is_active")
		}).
		First(&store, "id = ?", storeID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &store, nil
}

func (r *repository) FindDeliveryOption(ctx context.Context, storeID, optionID uuid.UUID) (*models.StoreDeliveryOption, error) {
	var option models.StoreDeliveryOption
	err := r.db.WithContext(ctx).
		Scopes(dbpkg.NotDeleted).
		First(&option, "id = ? AND store_id = ? AND is_active", optionID, storeID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &option, nil
}

// FindProductsByIDs loads live products of the store with their live
// customizations.
func (r *repository) FindProductsByIDs(ctx context.Context, storeID uuid.UUID, ids []uuid.UUID) ([]models.Product, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var products []models.Product
	err := r.db.WithContext(ctx).
		Scopes(dbpkg.NotDeleted).
		Preload("Customizations", func(tx *gorm.DB) *gorm.DB {
			return tx.Scopes(dbpkg.NotDeleted)
		}).
		Where("store_id = ? AND id IN ?", storeID, ids).
		Find(&products).Error
	if err != nil {
		return nil, err
	}
	return products, nil
}

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

func (r *repository) FindCustomerByAuthID(ctx context.Context, authUserID uuid.UUID) (*models.Customer, error) {
	var customer models.Customer
	err := r.db.WithContext(ctx).
		Scopes(dbpkg.NotDeleted).
		First(&customer, "auth_user_id = ?", authUserID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &customer, nil
}

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

// FindOrder loads the bare order row. Missing rows return nil.
func (r *repository) FindOrder(ctx context.Context, orderID uuid.UUID) (*models.Order, error) {
	var order models.Order
	err := r.db.WithContext(ctx).
		Scopes(dbpkg.NotDeleted).
		First(&order, "id = ?", orderID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &order, nil
}

// CreateOrder inserts the order header with its nested items,
// customizations, and delivery-address snapshot in one statement batch.
func (r *repository) CreateOrder(ctx context.Context, order *models.Order) error {
	return r.db.WithContext(ctx).Create(order).Error
}

func (r *repository) UpdateOrder(ctx context.Context, orderID uuid.UUID, updates map[string]any) error {
	if len(updates) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("id = ?", orderID).
		Updates(updates).Error
}

func (r *repository) InsertStatusHistory(ctx context.Context, entry *models.OrderStatusHistory) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

// GetDetailed reads the order back from the enriched projection. Missing
// rows return nil.
func (r *repository) GetDetailed(ctx context.Context, orderID uuid.UUID) (*OrderDetailedRecord, error) {
	var record OrderDetailedRecord
	err := r.db.WithContext(ctx).
		Table(ordersView).
		Where("id = ? AND deleted_at IS NULL", orderID).
		Take(&record).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &record, nil
}

// ListDetailed pages the enriched projection newest first. Total is
// counted under the same predicate.
func (r *repository) ListDetailed(ctx context.Context, filters ListFilters, page pagination.Params) ([]OrderDetailedRecord, int64, error) {
	query := r.db.WithContext(ctx).
		Table(ordersView).
		Where("deleted_at IS NULL")
	query = applyListFilters(query, filters)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var records []OrderDetailedRecord
	err := query.
		Order("created_at DESC").
		Limit(page.Limit).
		Offset(page.Offset()).
		Find(&records).Error
	if err != nil {
		return nil, 0, err
	}
	return records, total, nil
}

func (r *repository) ListItems(ctx context.Context, orderID uuid.UUID) ([]OrderItemRecord, error) {
	var records []OrderItemRecord
	err := r.db.WithContext(ctx).
		Table(orderItemsView).
		Where("order_id = ? AND deleted_at IS NULL", orderID).
		Order("created_at ASC").
		Find(&records).Error
	if err != nil {
		return nil, err
	}
	return records, nil
}

func applyListFilters(query *gorm.DB, filters ListFilters) *gorm.DB {
	if filters.CustomerID != nil {
		query = query.Where("customer_id = ?", *filters.CustomerID)
	}
	if filters.StoreID != nil {
		query = query.Where("store_id = ?", *filters.StoreID)
	}
	if filters.Status != nil {
		query = query.Where("status = ?", *filters.Status)
	}
	if filters.From != nil {
		query = query.Where("created_at >= ?", *filters.From)
	}
	if filters.To != nil {
		query = query.Where("created_at < ?", *filters.To)
	}
	return query
}
