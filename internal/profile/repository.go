package profile

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	dbpkg "github.com/vitrinelabs/vitrine-backend/pkg/db"
	"github.com/vitrinelabs/vitrine-backend/pkg/db/models"
)

// Repository defines persistence operations for customer profiles.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	FindCustomerByAuthID(ctx context.Context, authUserID uuid.UUID) (*models.Customer, error)
	PhoneInUse(ctx context.Context, phone string, excludeCustomerID uuid.UUID) (bool, error)
	UpdateCustomer(ctx context.Context, customerID uuid.UUID, updates map[string]any) error
	FindAddress(ctx context.Context, customerID, addressID uuid.UUID) (*models.CustomerAddress, error)
	CreateAddress(ctx context.Context, address *models.CustomerAddress) error
	UpdateAddress(ctx context.Context, addressID uuid.UUID, updates map[string]any) error
	SoftDeleteAddress(ctx context.Context, addressID uuid.UUID) error
	SoftDeleteAllAddresses(ctx context.Context, customerID uuid.UUID) error
	ClearDefaultAddresses(ctx context.Context, customerID uuid.UUID) error
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

// FindCustomerByAuthID loads the customer and their live address book.
// Missing rows return nil.
func (r *repository) FindCustomerByAuthID(ctx context.Context, authUserID uuid.UUID) (*models.Customer, error) {
	var customer models.Customer
	err := r.db.WithContext(ctx).
		Scopes(dbpkg.NotDeleted).
		Preload("Addresses", func(tx *gorm.DB) *gorm.DB {
			return tx.Scopes(dbpkg.NotDeleted).Order("created_at ASC")
		}).
		First(&customer, "auth_user_id = ?", authUserID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &customer, nil
}

// PhoneInUse reports whether another non-deleted customer already holds the
// phone number.
func (r *repository) PhoneInUse(ctx context.Context, phone string, excludeCustomerID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Customer{}).
		Scopes(dbpkg.NotDeleted).
		Where("phone = ? AND id <> ?", phone, excludeCustomerID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// UpdateCustomer persists column updates on the customer row.
func (r *repository) UpdateCustomer(ctx context.Context, customerID uuid.UUID, updates map[string]any) error {
	if len(updates) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).
		Model(&models.Customer{}).
		Where("id = ?", customerID).
		Updates(updates).Error
}

// FindAddress loads one live address scoped to the customer. Missing rows
// return nil.
func (r *repository) FindAddress(ctx context.Context, customerID, addressID uuid.UUID) (*models.CustomerAddress, error) {
	var address models.CustomerAddress
	err := r.db.WithContext(ctx).
		Scopes(dbpkg.NotDeleted).
		First(&address, "id = ? AND customer_id = ?", addressID, customerID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &address, nil
}

// CreateAddress inserts a new address book entry.
func (r *repository) CreateAddress(ctx context.Context, address *models.CustomerAddress) error {
	return r.db.WithContext(ctx).Create(address).Error
}

// UpdateAddress persists column updates on one address row.
func (r *repository) UpdateAddress(ctx context.Context, addressID uuid.UUID, updates map[string]any) error {
	if len(updates) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).
		Model(&models.CustomerAddress{}).
		Where("id = ?", addressID).
		Updates(updates).Error
}

// SoftDeleteAddress marks one address as deleted.
func (r *repository) SoftDeleteAddress(ctx context.Context, addressID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Model(&models.CustomerAddress{}).
		Where("id = ?", addressID).
		Updates(map[string]any{"deleted_at": time.Now(), "is_default": false}).Error
}

// SoftDeleteAllAddresses marks the customer's whole address book as deleted.
func (r *repository) SoftDeleteAllAddresses(ctx context.Context, customerID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Model(&models.CustomerAddress{}).
		Where("customer_id = ? AND deleted_at IS NULL", customerID).
		Updates(map[string]any{"deleted_at": time.Now(), "is_default": false}).Error
}

// ClearDefaultAddresses drops the default flag from every live address of
// the customer.
func (r *repository) ClearDefaultAddresses(ctx context.Context, customerID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Model(&models.CustomerAddress{}).
		Where("customer_id = ? AND deleted_at IS NULL AND is_default", customerID).
		Update("is_default", false).Error
}
