package stores

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	dbpkg "github.com/vitrinelabs/vitrine-backend/pkg/db"
	"github.com/vitrinelabs/vitrine-backend/pkg/db/models"
)

// Repository defines persistence operations for the merchant store surface.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	FindByID(ctx context.Context, id uuid.UUID) (*models.Store, error)
	FindMerchantByAuthID(ctx context.Context, authUserID uuid.UUID) (*models.Merchant, error)
	HasActiveMembership(ctx context.Context, storeID, merchantID uuid.UUID) (bool, error)
	UpdateStore(ctx context.Context, storeID uuid.UUID, updates map[string]any) error
	UpsertAddress(ctx context.Context, storeID uuid.UUID, input AddressInput) error
	ReplaceWorkingHours(ctx context.Context, storeID uuid.UUID, entries []models.StoreWorkingHour) error
	SetActive(ctx context.Context, storeID uuid.UUID, active bool) error
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

// FindByID loads the store with its address, schedule and delivery options.
// Missing rows return nil.
func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Store, error) {
	var store models.Store
	err := r.db.WithContext(ctx).
		Scopes(dbpkg.NotDeleted).
		Preload("Address", dbpkg.NotDeleted).
		Preload("WorkingHours", func(tx *gorm.DB) *gorm.DB {
			return tx.Order("weekday ASC")
		}).
		Preload("DeliveryOptions", func(tx *gorm.DB) *gorm.DB {
			return tx.Scopes(dbpkg.NotDeleted).Order("created_at ASC")
		}).
		First(&store, "id = ?", id).Error
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

// UpdateStore persists column updates on the store row.
func (r *repository) UpdateStore(ctx context.Context, storeID uuid.UUID, updates map[string]any) error {
	if len(updates) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).
		Model(&models.Store{}).
		Where("id = ?", storeID).
		Updates(updates).Error
}

// UpsertAddress replaces or creates the store's main address.
func (r *repository) UpsertAddress(ctx context.Context, storeID uuid.UUID, input AddressInput) error {
	tx := r.db.WithContext(ctx)

	var existing models.StoreAddress
	err := tx.First(&existing, "store_id = ?", storeID).Error
	switch {
	case err == nil:
		existing.Street = input.Street
		existing.Number = input.Number
		existing.Neighborhood = input.Neighborhood
		existing.City = input.City
		existing.State = input.State
		existing.ZipCode = input.ZipCode
		existing.Complement = input.Complement
		existing.DeletedAt = nil
		return tx.Save(&existing).Error
	case errors.Is(err, gorm.ErrRecordNotFound):
		address := models.StoreAddress{
			StoreID:      storeID,
			Street:       input.Street,
			Number:       input.Number,
			Neighborhood: input.Neighborhood,
			City:         input.City,
			State:        input.State,
			ZipCode:      input.ZipCode,
			Complement:   input.Complement,
		}
		return tx.Create(&address).Error
	default:
		return err
	}
}

// ReplaceWorkingHours swaps the full weekday schedule of the store.
func (r *repository) ReplaceWorkingHours(ctx context.Context, storeID uuid.UUID, entries []models.StoreWorkingHour) error {
	tx := r.db.WithContext(ctx)
	if err := tx.Where("store_id = ?", storeID).Delete(&models.StoreWorkingHour{}).Error; err != nil {
		return err
	}
	if len(entries) == 0 {
		return nil
	}
	return tx.Create(&entries).Error
}

// SetActive flips the store's active flag.
func (r *repository) SetActive(ctx context.Context, storeID uuid.UUID, active bool) error {
	return r.db.WithContext(ctx).
		Model(&models.Store{}).
		Where("id = ?", storeID).
		Updates(map[string]any{"is_active": active, "updated_at": time.Now()}).Error
}
