package stores

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/vitrinelabs/vitrine-backend/pkg/db/models"
	pkgerrors "github.com/vitrinelabs/vitrine-backend/pkg/errors"
	"github.com/vitrinelabs/vitrine-backend/pkg/logger"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Service exposes the merchant-facing store operations.
type Service interface {
	GetStore(ctx context.Context, authUserID, storeID uuid.UUID) (*models.Store, error)
	UpdateStore(ctx context.Context, input UpdateStoreInput) (*models.Store, error)
	ToggleActive(ctx context.Context, authUserID, storeID uuid.UUID) (*models.Store, error)
	GetStatus(ctx context.Context, storeID uuid.UUID) (*StoreStatus, error)
	GetStatusAt(ctx context.Context, storeID uuid.UUID, now time.Time) (*StoreStatus, error)
}

type service struct {
	repo Repository
	tx   txRunner
	logg *logger.Logger
}

// NewService builds the store service.
func NewService(repo Repository, tx txRunner, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("store repository is required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner is required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger is required")
	}
	return &service{repo: repo, tx: tx, logg: logg}, nil
}

func (s *service) GetStore(ctx context.Context, authUserID, storeID uuid.UUID) (*models.Store, error) {
	store, _, err := s.loadOwnedStore(ctx, authUserID, storeID)
	if err != nil {
		return nil, err
	}
	return store, nil
}

func (s *service) UpdateStore(ctx context.Context, input UpdateStoreInput) (*models.Store, error) {
	store, _, err := s.loadOwnedStore(ctx, input.AuthUserID, input.StoreID)
	if err != nil {
		return nil, err
	}
	if err := validateUpdateInput(input); err != nil {
		return nil, err
	}

	updates := buildStoreUpdates(input)

	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		if err := repo.UpdateStore(ctx, store.ID, updates); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: update store")
		}
		if input.Address != nil {
			if err := repo.UpsertAddress(ctx, store.ID, *input.Address); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: upsert store address")
			}
		}
		if input.WorkingHours != nil {
			entries := make([]models.StoreWorkingHour, 0, len(input.WorkingHours))
			for _, hour := range input.WorkingHours {
				entries = append(entries, models.StoreWorkingHour{
					StoreID:   store.ID,
					Weekday:   hour.Weekday,
					OpenTime:  hour.OpenTime,
					CloseTime: hour.CloseTime,
					IsClosed:  hour.IsClosed,
				})
			}
			if err := repo.ReplaceWorkingHours(ctx, store.ID, entries); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: replace working hours")
			}
		}
		return nil
	})
	if err != nil {
		if appErr := pkgerrors.As(err); appErr != nil {
			return nil, appErr
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "store update transaction")
	}

	updated, err := s.repo.FindByID(ctx, store.ID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: reload store")
	}
	if updated == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "store not found")
	}
	s.logg.Info(s.logg.WithStoreID(ctx, store.ID.String()), "store updated")
	return updated, nil
}

func (s *service) ToggleActive(ctx context.Context, authUserID, storeID uuid.UUID) (*models.Store, error) {
	store, _, err := s.loadOwnedStore(ctx, authUserID, storeID)
	if err != nil {
		return nil, err
	}

	next := !store.IsActive
	if err := s.repo.SetActive(ctx, store.ID, next); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: toggle store status")
	}
	store.IsActive = next
	s.logg.Info(s.logg.WithFields(ctx, map[string]any{
		"store_id":  store.ID.String(),
		"is_active": next,
	}), "store status toggled")
	return store, nil
}

func (s *service) GetStatus(ctx context.Context, storeID uuid.UUID) (*StoreStatus, error) {
	return s.GetStatusAt(ctx, storeID, time.Now())
}

// GetStatusAt resolves the open/closed snapshot for an arbitrary instant.
func (s *service) GetStatusAt(ctx context.Context, storeID uuid.UUID, now time.Time) (*StoreStatus, error) {
	if storeID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "store id required")
	}
	store, err := s.repo.FindByID(ctx, storeID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load store")
	}
	if store == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "store not found")
	}
	status := ComputeStatus(store.IsActive, store.WorkingHours, now)
	return &status, nil
}

// loadOwnedStore resolves the store and verifies the acting merchant owns it
// or holds an active membership.
func (s *service) loadOwnedStore(ctx context.Context, authUserID, storeID uuid.UUID) (*models.Store, *models.Merchant, error) {
	if storeID == uuid.Nil {
		return nil, nil, pkgerrors.New(pkgerrors.CodeValidation, "store id required")
	}
	if authUserID == uuid.Nil {
		return nil, nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}

	merchant, err := s.repo.FindMerchantByAuthID(ctx, authUserID)
	if err != nil {
		return nil, nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load merchant")
	}
	if merchant == nil {
		return nil, nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "merchant account not found")
	}

	store, err := s.repo.FindByID(ctx, storeID)
	if err != nil {
		return nil, nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load store")
	}
	if store == nil {
		return nil, nil, pkgerrors.New(pkgerrors.CodeNotFound, "store not found")
	}

	if store.MerchantID != merchant.ID {
		member, err := s.repo.HasActiveMembership(ctx, store.ID, merchant.ID)
		if err != nil {
			return nil, nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: check store membership")
		}
		if !member {
			return nil, nil, pkgerrors.New(pkgerrors.CodeForbidden, "store does not belong to merchant")
		}
	}
	return store, merchant, nil
}

func validateUpdateInput(input UpdateStoreInput) error {
	fields := map[string]string{}
	if input.Name != nil && *input.Name == "" {
		fields["name"] = "name cannot be empty"
	}
	if input.Category != nil && *input.Category == "" {
		fields["category"] = "category cannot be empty"
	}
	if input.MinOrderValue != nil && input.MinOrderValue.IsNegative() {
		fields["min_order_value"] = "minimum order value cannot be negative"
	}
	if input.DeliveryFee != nil && input.DeliveryFee.IsNegative() {
		fields["delivery_fee"] = "delivery fee cannot be negative"
	}
	if input.FreeDeliveryAbove != nil && input.FreeDeliveryAbove.IsNegative() {
		fields["free_delivery_above"] = "free delivery threshold cannot be negative"
	}
	for _, hour := range input.WorkingHours {
		if hour.Weekday < 0 || hour.Weekday > 6 {
			fields["working_hours"] = "weekday must be between 0 and 6"
			break
		}
		if !hour.IsClosed {
			if _, ok := parseTimeOfDay(hour.OpenTime); !ok {
				fields["working_hours"] = "open time must use the HH:MM form"
				break
			}
			if _, ok := parseTimeOfDay(hour.CloseTime); !ok {
				fields["working_hours"] = "close time must use the HH:MM form"
				break
			}
		}
	}
	if len(fields) > 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "invalid store update").WithDetails(fields)
	}
	return nil
}

func buildStoreUpdates(input UpdateStoreInput) map[string]any {
	updates := map[string]any{}
	setString := func(column string, value *string) {
		if value != nil {
			updates[column] = *value
		}
	}
	setBool := func(column string, value *bool) {
		if value != nil {
			updates[column] = *value
		}
	}

	setString("name", input.Name)
	setString("description", input.Description)
	setString("category", input.Category)
	setString("custom_category", input.CustomCategory)
	setString("delivery_time", input.DeliveryTime)
	setString("primary_color", input.PrimaryColor)
	setString("secondary_color", input.SecondaryColor)
	setString("accent_color", input.AccentColor)
	setString("text_color", input.TextColor)
	setString("fulfillment_pickup_instructions", input.FulfillmentPickupInstructions)

	if input.MinOrderValue != nil {
		updates["min_order_value"] = *input.MinOrderValue
	}
	if input.DeliveryFee != nil {
		updates["delivery_fee"] = *input.DeliveryFee
	}
	if input.FreeDeliveryAbove != nil {
		updates["free_delivery_above"] = *input.FreeDeliveryAbove
	}

	setBool("accepts_payment_credit_card", input.AcceptsPaymentCreditCard)
	setBool("accepts_payment_debit_card", input.AcceptsPaymentDebitCard)
	setBool("accepts_payment_pix", input.AcceptsPaymentPix)
	setBool("accepts_payment_cash", input.AcceptsPaymentCash)
	setBool("fulfillment_delivery_enabled", input.FulfillmentDeliveryEnabled)
	setBool("fulfillment_pickup_enabled", input.FulfillmentPickupEnabled)

	if len(updates) > 0 {
		updates["updated_at"] = time.Now()
	}
	return updates
}
