package orders

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/vitrinelabs/vitrine-backend/pkg/db/models"
	"github.com/vitrinelabs/vitrine-backend/pkg/enums"
	pkgerrors "github.com/vitrinelabs/vitrine-backend/pkg/errors"
)

// buildOrderItems prices the requested items strictly from current product
// rows. Client-supplied prices never reach this point.
func buildOrderItems(inputs []ItemInput, products map[uuid.UUID]models.Product) ([]models.OrderItem, decimal.Decimal, error) {
	items := make([]models.OrderItem, 0, len(inputs))
	subtotal := decimal.Zero

	for index, input := range inputs {
		product, ok := products[input.ProductID]
		if !ok {
			return nil, decimal.Zero, pkgerrors.New(pkgerrors.CodeValidation, "product not available").
				WithDetails(map[string]string{
					fmt.Sprintf("items[%d].product_id", index): "product does not exist in this store",
				})
		}
		if !product.IsActive {
			return nil, decimal.Zero, pkgerrors.New(pkgerrors.CodeValidation, "product not available").
				WithDetails(map[string]string{
					fmt.Sprintf("items[%d].product_id", index): "product is not active",
				})
		}
		if input.Quantity < 1 {
			return nil, decimal.Zero, pkgerrors.New(pkgerrors.CodeValidation, "invalid quantity").
				WithDetails(map[string]string{
					fmt.Sprintf("items[%d].quantity", index): "quantity must be at least 1",
				})
		}

		item := models.OrderItem{
			ProductID:     product.ID,
			ProductName:   product.Name,
			ProductFamily: product.Family,
			Quantity:      input.Quantity,
			UnitPrice:     product.Price,
			Observations:  input.Observations,
		}
		itemTotal := product.Price.Mul(decimal.NewFromInt(int64(input.Quantity)))

		customizations, customizationsTotal, err := buildItemCustomizations(index, input.Customizations, product)
		if err != nil {
			return nil, decimal.Zero, err
		}
		item.Customizations = customizations
		item.TotalPrice = itemTotal.Add(customizationsTotal)

		subtotal = subtotal.Add(item.TotalPrice)
		items = append(items, item)
	}
	return items, subtotal, nil
}

// buildItemCustomizations snapshots selected add-ons. A boolean selection
// persists quantity 1 or 0 regardless of the requested count.
func buildItemCustomizations(itemIndex int, inputs []ItemCustomizationInput, product models.Product) ([]models.OrderItemCustomization, decimal.Decimal, error) {
	byID := make(map[uuid.UUID]models.ProductCustomization, len(product.Customizations))
	for _, c := range product.Customizations {
		byID[c.ID] = c
	}

	rows := make([]models.OrderItemCustomization, 0, len(inputs))
	total := decimal.Zero
	for index, input := range inputs {
		customization, ok := byID[input.CustomizationID]
		if !ok {
			return nil, decimal.Zero, pkgerrors.New(pkgerrors.CodeValidation, "customization not available").
				WithDetails(map[string]string{
					fmt.Sprintf("items[%d].customizations[%d]", itemIndex, index): "customization does not belong to the product",
				})
		}
		if input.Quantity < 0 {
			return nil, decimal.Zero, pkgerrors.New(pkgerrors.CodeValidation, "invalid customization quantity").
				WithDetails(map[string]string{
					fmt.Sprintf("items[%d].customizations[%d].quantity", itemIndex, index): "quantity cannot be negative",
				})
		}

		quantity := input.Quantity
		if customization.SelectionType == enums.SelectionTypeBoolean {
			if quantity > 0 {
				quantity = 1
			} else {
				quantity = 0
			}
		}
		if quantity == 0 {
			continue
		}

		rowTotal := customization.Price.Mul(decimal.NewFromInt(int64(quantity)))
		rows = append(rows, models.OrderItemCustomization{
			CustomizationID:   customization.ID,
			CustomizationName: customization.Name,
			CustomizationType: customization.CustomizationType,
			SelectionType:     customization.SelectionType,
			Quantity:          quantity,
			UnitPrice:         customization.Price,
			TotalPrice:        rowTotal,
		})
		total = total.Add(rowTotal)
	}
	return rows, total, nil
}

// deliveryFeeFor resolves the fee: selected option fee, else the store
// default, zeroed once the subtotal reaches the free-delivery threshold.
// Pickup orders never carry a fee.
func deliveryFeeFor(store *models.Store, option *models.StoreDeliveryOption, fulfillment enums.FulfillmentMethod, subtotal decimal.Decimal) decimal.Decimal {
	if fulfillment != enums.FulfillmentMethodDelivery {
		return decimal.Zero
	}
	if store.FreeDeliveryAbove != nil && subtotal.GreaterThanOrEqual(*store.FreeDeliveryAbove) {
		return decimal.Zero
	}
	if option != nil {
		return option.Fee
	}
	return store.DeliveryFee
}

// acceptsPayment mirrors the store's payment flags.
func acceptsPayment(store *models.Store, method enums.PaymentMethod) bool {
	switch method {
	case enums.PaymentMethodCreditCard:
		return store.AcceptsPaymentCreditCard
	case enums.PaymentMethodDebitCard:
		return store.AcceptsPaymentDebitCard
	case enums.PaymentMethodPix:
		return store.AcceptsPaymentPix
	case enums.PaymentMethodCash:
		return store.AcceptsPaymentCash
	default:
		return false
	}
}

// acceptsFulfillment mirrors the store's fulfillment flags.
func acceptsFulfillment(store *models.Store, method enums.FulfillmentMethod) bool {
	switch method {
	case enums.FulfillmentMethodDelivery:
		return store.FulfillmentDeliveryEnabled
	case enums.FulfillmentMethodPickup:
		return store.FulfillmentPickupEnabled
	default:
		return false
	}
}
