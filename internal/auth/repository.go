package auth

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	dbpkg "github.com/vitrinelabs/vitrine-backend/pkg/db"
	"github.com/vitrinelabs/vitrine-backend/pkg/db/models"
)

// Repository defines persistence operations behind the auth flows.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	FindStore(ctx context.Context, storeID uuid.UUID) (*models.Store, error)
	FindCustomerByAuthID(ctx context.Context, authUserID uuid.UUID) (*models.Customer, error)
	PhoneInUse(ctx context.Context, phone string, excludeID uuid.UUID) (bool, error)
	CreateCustomer(ctx context.Context, customer *models.Customer) error
	UpdateCustomer(ctx context.Context, customerID uuid.UUID, updates map[string]any) error
	FindBinding(ctx context.Context, storeID, customerID uuid.UUID) (*models.StoreCustomer, error)
	CreateBinding(ctx context.Context, binding *models.StoreCustomer) error
	ReactivateBinding(ctx context.Context, bindingID uuid.UUID) error
	FindMerchantByAuthID(ctx context.Context, authUserID uuid.UUID) (*models.Merchant, error)
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

// FindCustomerByAuthID resolves the local customer for a provider user id.
// Missing rows return nil.
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

// PhoneInUse reports whether a live customer other than excludeID holds
// the phone.
func (r *repository) PhoneInUse(ctx context.Context, phone string, excludeID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Customer{}).
		Scopes(dbpkg.NotDeleted).
		Where("phone = ? AND id <> ?", phone, excludeID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *repository) CreateCustomer(ctx context.Context, customer *models.Customer) error {
	return r.db.WithContext(ctx).Create(customer).Error
}

func (r *repository) UpdateCustomer(ctx context.Context, customerID uuid.UUID, updates map[string]any) error {
	if len(updates) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).
		Model(&models.Customer{}).
		Where("id = ?", customerID).
		Updates(updates).Error
}

// FindBinding loads the store-customer link regardless of its active
// flag. Missing rows return nil.
func (r *repository) FindBinding(ctx context.Context, storeID, customerID uuid.UUID) (*models.StoreCustomer, error) {
	var binding models.StoreCustomer
	err := r.db.WithContext(ctx).
		Scopes(dbpkg.NotDeleted).
		First(&binding, "store_id = ? AND customer_id = ?", storeID, customerID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &binding, nil
}

func (r *repository) CreateBinding(ctx context.Context, binding *models.StoreCustomer) error {
	return r.db.WithContext(ctx).Create(binding).Error
}

func (r *repository) ReactivateBinding(ctx context.Context, bindingID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Model(&models.StoreCustomer{}).
		Where("id = ?", bindingID).
		Updates(map[string]any{"is_active": true, "updated_at": time.Now()}).Error
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
