package uploads

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	dbpkg "github.com/vitrinelabs/vitrine-backend/pkg/db"
	"github.com/vitrinelabs/vitrine-backend/pkg/db/models"
)

// Repository resolves upload targets and stores the resulting URLs.
type Repository interface {
	FindMerchantByAuthID(ctx context.Context, authUserID uuid.UUID) (*models.Merchant, error)
	FindStore(ctx context.Context, storeID uuid.UUID) (*models.Store, error)
	HasActiveMembership(ctx context.Context, storeID, merchantID uuid.UUID) (bool, error)
	FindProduct(ctx context.Context, productID uuid.UUID) (*models.Product, error)
	FindOrder(ctx context.Context, orderID uuid.UUID) (*models.Order, error)
	SetProductImageURL(ctx context.Context, productID uuid.UUID, url string) error
	SetStoreBannerURL(ctx context.Context, storeID uuid.UUID, url string) error
	SetOrderDeliveryProofURL(ctx context.Context, orderID uuid.UUID, url string) error
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds a gorm-backed uploads repository.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) FindMerchantByAuthID(ctx context.Context, authUserID uuid.UUID) (*models.Merchant, error) {
	var merchant models.Merchant
	err := r.db.WithContext(ctx).
		Scopes(dbpkg.NotDeleted).
		Where("auth_user_id = ?", authUserID).
		First(&merchant).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &merchant, nil
}

func (r *repository) FindStore(ctx context.Context, storeID uuid.UUID) (*models.Store, error) {
	var store models.Store
	err := r.db.WithContext(ctx).
		Scopes(dbpkg.NotDeleted).
		Where("id = ?", storeID).
		First(&store).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &store, nil
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

func (r *repository) FindProduct(ctx context.Context, productID uuid.UUID) (*models.Product, error) {
	var product models.Product
	err := r.db.WithContext(ctx).
		Scopes(dbpkg.NotDeleted).
		Where("id = ?", productID).
		First(&product).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *repository) FindOrder(ctx context.Context, orderID uuid.UUID) (*models.Order, error) {
	var order models.Order
	err := r.db.WithContext(ctx).
		Scopes(dbpkg.NotDeleted).
		Where("id = ?", orderID).
		First(&order).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *repository) SetProductImageURL(ctx context.Context, productID uuid.UUID, url string) error {
	return r.db.WithContext(ctx).
		Model(&models.Product{}).
		Where("id = ?", productID).
		Updates(map[string]any{"image_url": url, "updated_at": time.Now().UTC()}).Error
}

func (r *repository) SetStoreBannerURL(ctx context.Context, storeID uuid.UUID, url string) error {
	return r.db.WithContext(ctx).
		Model(&models.Store{}).
		Where("id = ?", storeID).
		Updates(map[string]any{"banner_url": url, "updated_at": time.Now().UTC()}).Error
}

func (r *repository) SetOrderDeliveryProofURL(ctx context.Context, orderID uuid.UUID, url string) error {
	return r.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("id = ?", orderID).
		Updates(map[string]any{"delivery_proof_url": url, "updated_at": time.Now().UTC()}).Error
}
