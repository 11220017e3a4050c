package products

import (
	"encoding/json"
	"sort"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"

	"github.com/vitrinelabs/vitrine-backend/pkg/db/models"
	"github.com/vitrinelabs/vitrine-backend/pkg/enums"
)

// productSnapshot is the stable shape stored in product_history rows.
type productSnapshot struct {
	Name            string              `json:"name"`
	Description     *string             `json:"description"`
	Price           decimal.Decimal     `json:"price"`
	CostPrice       decimal.Decimal     `json:"cost_price"`
	Family          enums.ProductFamily `json:"family"`
	Category        string              `json:"category"`
	CustomCategory  *string             `json:"custom_category"`
	ImageURL        *string             `json:"image_url"`
	IsActive        bool                `json:"is_active"`
	PreparationTime int                 `json:"preparation_time"`
	NutritionalInfo json.RawMessage     `json:"nutritional_info"`
}

func snapshotProduct(product *models.Product) json.RawMessage {
	if product == nil {
		return nil
	}
	snapshot := productSnapshot{
		Name:            product.Name,
		Description:     product.Description,
		Price:           product.Price,
		CostPrice:       product.CostPrice,
		Family:          product.Family,
		Category:        product.Category,
		CustomCategory:  product.CustomCategory,
		ImageURL:        product.ImageURL,
		IsActive:        product.IsActive,
		PreparationTime: product.PreparationTime,
		NutritionalInfo: product.NutritionalInfo,
	}
	raw, err := json.Marshal(snapshot)
	if err != nil {
		return nil
	}
	return raw
}

func historyEntry(changeType enums.ProductChangeType, previous, current *models.Product, changed []string, actorID uuid.UUID) *models.ProductHistory {
	var productID, storeID uuid.UUID
	if current != nil {
		productID = current.ID
		storeID = current.StoreID
	} else if previous != nil {
		productID = previous.ID
		storeID = previous.StoreID
	}
	sort.Strings(changed)
	return &models.ProductHistory{
		ProductID:        productID,
		StoreID:          storeID,
		ChangeType:       changeType,
		PreviousSnapshot: snapshotProduct(previous),
		NewSnapshot:      snapshotProduct(current),
		ChangedFields:    pq.StringArray(changed),
		ActorID:          actorID,
	}
}
