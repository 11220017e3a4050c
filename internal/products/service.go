package products

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/vitrinelabs/vitrine-backend/pkg/db/models"
	"github.com/vitrinelabs/vitrine-backend/pkg/enums"
	pkgerrors "github.com/vitrinelabs/vitrine-backend/pkg/errors"
	"github.com/vitrinelabs/vitrine-backend/pkg/logger"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Service exposes the merchant-facing product lifecycle.
type Service interface {
	CreateProduct(ctx context.Context, input CreateProductInput) (*models.Product, error)
	UpdateProduct(ctx context.Context, input UpdateProductInput) (*models.Product, error)
	ActivateProduct(ctx context.Context, authUserID, storeID, productID uuid.UUID) (*models.Product, error)
	DeactivateProduct(ctx context.Context, authUserID, storeID, productID uuid.UUID) (*models.Product, error)
	DeleteProduct(ctx context.Context, authUserID, storeID, productID uuid.UUID) error
	AddCustomization(ctx context.Context, authUserID, storeID, productID uuid.UUID, input CustomizationInput) (*models.Product, error)
	UpdateCustomization(ctx context.Context, authUserID, storeID, productID uuid.UUID, input CustomizationUpdate) (*models.Product, error)
	RemoveCustomization(ctx context.Context, authUserID, storeID, productID, customizationID uuid.UUID) error
}

type service struct {
	repo Repository
	tx   txRunner
	logg *logger.Logger
}

// NewService builds the product service.
func NewService(repo Repository, tx txRunner, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("product repository is required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner is required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger is required")
	}
	return &service{repo: repo, tx: tx, logg: logg}, nil
}

func (s *service) CreateProduct(ctx context.Context, input CreateProductInput) (*models.Product, error) {
	actor, err := s.authorize(ctx, input.AuthUserID, input.StoreID)
	if err != nil {
		return nil, err
	}
	if err := s.validateCreateInput(ctx, input); err != nil {
		return nil, err
	}

	product := &models.Product{
		StoreID:         input.StoreID,
		Name:            input.Name,
		Description:     input.Description,
		Price:           input.Price,
		CostPrice:       input.CostPrice,
		Family:          input.Family,
		Category:        input.Category,
		CustomCategory:  input.CustomCategory,
		ImageURL:        input.ImageURL,
		IsActive:        true,
		PreparationTime: input.PreparationTime,
		NutritionalInfo: input.NutritionalInfo,
	}
	for _, c := range input.Customizations {
		product.Customizations = append(product.Customizations, models.ProductCustomization{
			Name:              c.Name,
			CustomizationType: c.CustomizationType,
			SelectionType:     selectionOrDefault(c.SelectionType),
			SelectionGroup:    c.SelectionGroup,
			Price:             c.Price,
		})
	}

	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		if err := repo.CreateProduct(ctx, product); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: insert product")
		}
		if len(input.ExtraListIDs) > 0 {
			if err := repo.ReplaceExtraListLinks(ctx, product.ID, input.ExtraListIDs); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: link extra lists")
			}
		}
		entry := historyEntry(enums.ProductChangeCreated, nil, product, []string{}, actor.ID)
		if err := repo.InsertHistory(ctx, entry); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: insert product history")
		}
		return nil
	})
	if err != nil {
		if appErr := pkgerrors.As(err); appErr != nil {
			return nil, appErr
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "product create transaction")
	}

	s.logg.Info(s.logg.WithFields(ctx, map[string]any{
		"product_id": product.ID.String(),
		"store_id":   input.StoreID.String(),
	}), "product created")
	return s.reload(ctx, product.ID)
}

func (s *service) UpdateProduct(ctx context.Context, input UpdateProductInput) (*models.Product, error) {
	actor, err := s.authorize(ctx, input.AuthUserID, input.StoreID)
	if err != nil {
		return nil, err
	}
	product, err := s.loadStoreProduct(ctx, input.StoreID, input.ProductID)
	if err != nil {
		return nil, err
	}

	updates, changed := buildProductUpdates(product, input)
	if err := s.validatePrice(ctx, input.StoreID, updatedCategory(product, input), updatedPrice(product, input)); err != nil {
		return nil, err
	}
	if input.ExtraListIDs != nil {
		if err := s.validateExtraLists(ctx, input.StoreID, input.ExtraListIDs); err != nil {
			return nil, err
		}
	}

	previous := *product

	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		if err := repo.UpdateProduct(ctx, product.ID, updates); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: update product")
		}
		if input.Customizations != nil {
			if err := s.applyCustomizationChanges(ctx, repo, product, *input.Customizations); err != nil {
				return err
			}
			changed = append(changed, "customizations")
		}
		if input.ExtraListIDs != nil {
			if err := repo.ReplaceExtraListLinks(ctx, product.ID, input.ExtraListIDs); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: replace extra lists")
			}
			changed = append(changed, "extra_lists")
		}

		current, err := repo.FindByID(ctx, product.ID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: reload product")
		}
		entry := historyEntry(enums.ProductChangeUpdated, &previous, current, changed, actor.ID)
		if err := repo.InsertHistory(ctx, entry); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: insert product history")
		}
		return nil
	})
	if err != nil {
		if appErr := pkgerrors.As(err); appErr != nil {
			return nil, appErr
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "product update transaction")
	}

	return s.reload(ctx, product.ID)
}

func (s *service) ActivateProduct(ctx context.Context, authUserID, storeID, productID uuid.UUID) (*models.Product, error) {
	return s.setActive(ctx, authUserID, storeID, productID, true)
}

func (s *service) DeactivateProduct(ctx context.Context, authUserID, storeID, productID uuid.UUID) (*models.Product, error) {
	return s.setActive(ctx, authUserID, storeID, productID, false)
}

func (s *service) setActive(ctx context.Context, authUserID, storeID, productID uuid.UUID, active bool) (*models.Product, error) {
	actor, err := s.authorize(ctx, authUserID, storeID)
	if err != nil {
		return nil, err
	}
	product, err := s.loadStoreProduct(ctx, storeID, productID)
	if err != nil {
		return nil, err
	}
	if product.IsActive == active {
		return product, nil
	}

	changeType := enums.ProductChangeDeactivated
	if active {
		changeType = enums.ProductChangeActivated
	}
	previous := *product

	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		updates := map[string]any{"is_active": active, "updated_at": time.Now()}
		if err := repo.UpdateProduct(ctx, product.ID, updates); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: toggle product")
		}
		product.IsActive = active
		entry := historyEntry(changeType, &previous, product, []string{"is_active"}, actor.ID)
		if err := repo.InsertHistory(ctx, entry); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: insert product history")
		}
		return nil
	})
	if err != nil {
		if appErr := pkgerrors.As(err); appErr != nil {
			return nil, appErr
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "product toggle transaction")
	}
	return s.reload(ctx, product.ID)
}

func (s *service) DeleteProduct(ctx context.Context, authUserID, storeID, productID uuid.UUID) error {
	actor, err := s.authorize(ctx, authUserID, storeID)
	if err != nil {
		return err
	}
	product, err := s.loadStoreProduct(ctx, storeID, productID)
	if err != nil {
		return err
	}

	refs, err := s.repo.CountNonTerminalOrderRefs(ctx, product.ID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: count order references")
	}
	if refs > 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "product is referenced by open orders").
			WithDetails(map[string]string{"product": "cannot delete a product with orders in progress"})
	}

	previous := *product

	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		if err := repo.SoftDeleteProduct(ctx, product.ID); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: delete product")
		}
		entry := historyEntry(enums.ProductChangeDeleted, &previous, nil, []string{}, actor.ID)
		if err := repo.InsertHistory(ctx, entry); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: insert product history")
		}
		return nil
	})
	if err != nil {
		if appErr := pkgerrors.As(err); appErr != nil {
			return appErr
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "product delete transaction")
	}

	s.logg.Info(s.logg.WithFields(ctx, map[string]any{
		"product_id": product.ID.String(),
		"store_id":   storeID.String(),
	}), "product deleted")
	return nil
}

func (s *service) AddCustomization(ctx context.Context, authUserID, storeID, productID uuid.UUID, input CustomizationInput) (*models.Product, error) {
	actor, err := s.authorize(ctx, authUserID, storeID)
	if err != nil {
		return nil, err
	}
	product, err := s.loadStoreProduct(ctx, storeID, productID)
	if err != nil {
		return nil, err
	}
	if err := validateCustomizationInput(input); err != nil {
		return nil, err
	}

	previous := *product

	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		customization := &models.ProductCustomization{
			ProductID:         product.ID,
			Name:              input.Name,
			CustomizationType: input.CustomizationType,
			SelectionType:     selectionOrDefault(input.SelectionType),
			SelectionGroup:    input.SelectionGroup,
			Price:             input.Price,
		}
		if err := repo.CreateCustomization(ctx, customization); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: insert customization")
		}
		entry := historyEntry(enums.ProductChangeUpdated, &previous, product, []string{"customizations"}, actor.ID)
		if err := repo.InsertHistory(ctx, entry); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: insert product history")
		}
		return nil
	})
	if err != nil {
		if appErr := pkgerrors.As(err); appErr != nil {
			return nil, appErr
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "customization add transaction")
	}
	return s.reload(ctx, product.ID)
}

func (s *service) UpdateCustomization(ctx context.Context, authUserID, storeID, productID uuid.UUID, input CustomizationUpdate) (*models.Product, error) {
	actor, err := s.authorize(ctx, authUserID, storeID)
	if err != nil {
		return nil, err
	}
	product, err := s.loadStoreProduct(ctx, storeID, productID)
	if err != nil {
		return nil, err
	}

	customization, err := s.repo.FindCustomization(ctx, product.ID, input.ID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load customization")
	}
	if customization == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "customization not found")
	}

	updates := buildCustomizationUpdates(input)
	previous := *product

	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		if err := repo.UpdateCustomization(ctx, customization.ID, updates); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: update customization")
		}
		entry := historyEntry(enums.ProductChangeUpdated, &previous, product, []string{"customizations"}, actor.ID)
		if err := repo.InsertHistory(ctx, entry); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: insert product history")
		}
		return nil
	})
	if err != nil {
		if appErr := pkgerrors.As(err); appErr != nil {
			return nil, appErr
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "customization update transaction")
	}
	return s.reload(ctx, product.ID)
}

func (s *service) RemoveCustomization(ctx context.Context, authUserID, storeID, productID, customizationID uuid.UUID) error {
	actor, err := s.authorize(ctx, authUserID, storeID)
	if err != nil {
		return err
	}
	product, err := s.loadStoreProduct(ctx, storeID, productID)
	if err != nil {
		return err
	}

	customization, err := s.repo.FindCustomization(ctx, product.ID, customizationID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load customization")
	}
	if customization == nil {
		return pkgerrors.New(pkgerrors.CodeNotFound, "customization not found")
	}

	refs, err := s.repo.CountNonTerminalCustomizationRefs(ctx, customization.ID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: count customization references")
	}
	if refs > 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "customization is referenced by open orders").
			WithDetails(map[string]string{"customization": "cannot remove a customization with orders in progress"})
	}

	previous := *product

	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		if err := repo.SoftDeleteCustomization(ctx, customization.ID); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: remove customization")
		}
		entry := historyEntry(enums.ProductChangeUpdated, &previous, product, []string{"customizations"}, actor.ID)
		if err := repo.InsertHistory(ctx, entry); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: insert product history")
		}
		return nil
	})
	if err != nil {
		if appErr := pkgerrors.As(err); appErr != nil {
			return appErr
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "customization remove transaction")
	}
	return nil
}

func (s *service) applyCustomizationChanges(ctx context.Context, repo Repository, product *models.Product, changes CustomizationChanges) error {
	for _, id := range changes.Remove {
		customization, err := repo.FindCustomization(ctx, product.ID, id)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load customization")
		}
		if customization == nil {
			return pkgerrors.New(pkgerrors.CodeNotFound, "customization not found")
		}
		refs, err := repo.CountNonTerminalCustomizationRefs(ctx, customization.ID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: count customization references")
		}
		if refs > 0 {
			return pkgerrors.New(pkgerrors.CodeValidation, "customization is referenced by open orders").
				WithDetails(map[string]string{"customization": "cannot remove a customization with orders in progress"})
		}
		if err := repo.SoftDeleteCustomization(ctx, customization.ID); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: remove customization")
		}
	}
	for _, item := range changes.Update {
		customization, err := repo.FindCustomization(ctx, product.ID, item.ID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load customization")
		}
		if customization == nil {
			return pkgerrors.New(pkgerrors.CodeNotFound, "customization not found")
		}
		if err := repo.UpdateCustomization(ctx, customization.ID, buildCustomizationUpdates(item)); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: update customization")
		}
	}
	for _, item := range changes.Add {
		if err := validateCustomizationInput(item); err != nil {
			return err
		}
		customization := &models.ProductCustomization{
			ProductID:         product.ID,
			Name:              item.Name,
			CustomizationType: item.CustomizationType,
			SelectionType:     selectionOrDefault(item.SelectionType),
			SelectionGroup:    item.SelectionGroup,
			Price:             item.Price,
		}
		if err := repo.CreateCustomization(ctx, customization); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: insert customization")
		}
	}
	return nil
}

// authorize resolves the merchant and checks store ownership or active
// membership.
func (s *service) authorize(ctx context.Context, authUserID, storeID uuid.UUID) (*models.Merchant, error) {
	if authUserID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	if storeID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "store id required")
	}

	merchant, err := s.repo.FindMerchantByAuthID(ctx, authUserID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load merchant")
	}
	if merchant == nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "merchant account not found")
	}

	store, err := s.repo.FindStore(ctx, storeID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load store")
	}
	if store == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "store not found")
	}

	if store.MerchantID != merchant.ID {
		member, err := s.repo.HasActiveMembership(ctx, store.ID, merchant.ID)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: check store membership")
		}
		if !member {
			return nil, pkgerrors.New(pkgerrors.CodeForbidden, "store does not belong to merchant")
		}
	}
	return merchant, nil
}

func (s *service) loadStoreProduct(ctx context.Context, storeID, productID uuid.UUID) (*models.Product, error) {
	if productID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product id required")
	}
	product, err := s.repo.FindByID(ctx, productID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load product")
	}
	if product == nil || product.StoreID != storeID {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
	}
	return product, nil
}

func (s *service) reload(ctx context.Context, productID uuid.UUID) (*models.Product, error) {
	product, err := s.repo.FindByID(ctx, productID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: reload product")
	}
	if product == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
	}
	return product, nil
}

func (s *service) validateCreateInput(ctx context.Context, input CreateProductInput) error {
	fields := map[string]string{}
	if input.Name == "" {
		fields["name"] = "name is required"
	}
	if !input.Family.IsValid() {
		fields["family"] = "invalid product family"
	}
	if input.Category == "" {
		fields["category"] = "category is required"
	}
	if input.Price.IsNegative() {
		fields["price"] = "price cannot be negative"
	}
	if input.CostPrice.IsNegative() {
		fields["cost_price"] = "cost price cannot be negative"
	}
	for _, c := range input.Customizations {
		if err := validateCustomizationInput(c); err != nil {
			return err
		}
	}
	if len(fields) > 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "invalid product").WithDetails(fields)
	}
	if err := s.validatePrice(ctx, input.StoreID, input.Category, input.Price); err != nil {
		return err
	}
	if len(input.ExtraListIDs) > 0 {
		if err := s.validateExtraLists(ctx, input.StoreID, input.ExtraListIDs); err != nil {
			return err
		}
	}
	return nil
}

// validatePrice enforces the store+category price bound when one exists.
func (s *service) validatePrice(ctx context.Context, storeID uuid.UUID, category string, price decimal.Decimal) error {
	limit, err := s.repo.FindPriceLimit(ctx, storeID, category)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load price limit")
	}
	if limit == nil {
		return nil
	}
	if limit.MinPrice != nil && price.LessThan(*limit.MinPrice) {
		return pkgerrors.New(pkgerrors.CodeValidation, "price below category minimum").
			WithDetails(map[string]string{"price": fmt.Sprintf("price must be at least %s", limit.MinPrice.StringFixed(2))})
	}
	if limit.MaxPrice != nil && price.GreaterThan(*limit.MaxPrice) {
		return pkgerrors.New(pkgerrors.CodeValidation, "price above category maximum").
			WithDetails(map[string]string{"price": fmt.Sprintf("price must be at most %s", limit.MaxPrice.StringFixed(2))})
	}
	return nil
}

func (s *service) validateExtraLists(ctx context.Context, storeID uuid.UUID, ids []uuid.UUID) error {
	if len(ids) == 0 {
		return nil
	}
	unique := dedupeIDs(ids)
	count, err := s.repo.CountStoreExtraLists(ctx, storeID, unique)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: verify extra lists")
	}
	if count != int64(len(unique)) {
		return pkgerrors.New(pkgerrors.CodeValidation, "extra list does not belong to store").
			WithDetails(map[string]string{"extra_list_ids": "all extra lists must belong to the product's store"})
	}
	return nil
}

func validateCustomizationInput(input CustomizationInput) error {
	fields := map[string]string{}
	if input.Name == "" {
		fields["name"] = "name is required"
	}
	if !input.CustomizationType.IsValid() {
		fields["customization_type"] = "invalid customization type"
	}
	if input.SelectionType != "" && !input.SelectionType.IsValid() {
		fields["selection_type"] = "invalid selection type"
	}
	if input.Price.IsNegative() {
		fields["price"] = "price cannot be negative"
	}
	if len(fields) > 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "invalid customization").WithDetails(fields)
	}
	return nil
}

func buildProductUpdates(product *models.Product, input UpdateProductInput) (map[string]any, []string) {
	updates := map[string]any{}
	changed := []string{}

	record := func(column string, value any) {
		updates[column] = value
		changed = append(changed, column)
	}

	if input.Name != nil && *input.Name != product.Name {
		record("name", *input.Name)
	}
	if input.Description != nil {
		record("description", *input.Description)
	}
	if input.Price != nil && !input.Price.Equal(product.Price) {
		record("price", *input.Price)
	}
	if input.CostPrice != nil && !input.CostPrice.Equal(product.CostPrice) {
		record("cost_price", *input.CostPrice)
	}
	if input.Family != nil && *input.Family != product.Family {
		record("family", *input.Family)
	}
	if input.Category != nil && *input.Category != product.Category {
		record("category", *input.Category)
	}
	if input.CustomCategory != nil {
		record("custom_category", *input.CustomCategory)
	}
	if input.ImageURL != nil {
		record("image_url", *input.ImageURL)
	}
	if input.PreparationTime != nil && *input.PreparationTime != product.PreparationTime {
		record("preparation_time", *input.PreparationTime)
	}
	if input.NutritionalInfo != nil && !bytes.Equal(input.NutritionalInfo, product.NutritionalInfo) {
		record("nutritional_info", input.NutritionalInfo)
	}

	if len(updates) > 0 {
		updates["updated_at"] = time.Now()
	}
	return updates, changed
}

func buildCustomizationUpdates(input CustomizationUpdate) map[string]any {
	updates := map[string]any{}
	if input.Name != nil {
		updates["name"] = *input.Name
	}
	if input.CustomizationType != nil {
		updates["customization_type"] = *input.CustomizationType
	}
	if input.SelectionType != nil {
		updates["selection_type"] = *input.SelectionType
	}
	if input.SelectionGroup != nil {
		updates["selection_group"] = *input.SelectionGroup
	}
	if input.Price != nil {
		updates["price"] = *input.Price
	}
	if len(updates) > 0 {
		updates["updated_at"] = time.Now()
	}
	return updates
}

func updatedCategory(product *models.Product, input UpdateProductInput) string {
	if input.Category != nil {
		return *input.Category
	}
	return product.Category
}

func updatedPrice(product *models.Product, input UpdateProductInput) decimal.Decimal {
	if input.Price != nil {
		return *input.Price
	}
	return product.Price
}

func selectionOrDefault(selection enums.SelectionType) enums.SelectionType {
	if selection == "" {
		return enums.SelectionTypeQuantity
	}
	return selection
}

func dedupeIDs(ids []uuid.UUID) []uuid.UUID {
	seen := make(map[uuid.UUID]struct{}, len(ids))
	out := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
