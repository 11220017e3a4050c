package controllers

import (
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/vitrinelabs/vitrine-backend/api/responses"
	"github.com/vitrinelabs/vitrine-backend/api/validators"
	productsvc "github.com/vitrinelabs/vitrine-backend/internal/products"
	"github.com/vitrinelabs/vitrine-backend/pkg/enums"
	"github.com/vitrinelabs/vitrine-backend/pkg/logger"
)

// MerchantCreateProduct creates a product under the merchant's store.
func MerchantCreateProduct(svc productsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		principal, err := requirePrincipal(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		storeID, err := pathUUID(r, "storeId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload productsvc.CreateProductInput
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		payload.AuthUserID = principal.ID
		payload.StoreID = storeID

		product, err := svc.CreateProduct(r.Context(), payload)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, product)
	}
}

// MerchantUpdateProduct applies a partial update to a store product.
func MerchantUpdateProduct(svc productsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		principal, err := requirePrincipal(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		storeID, err := pathUUID(r, "storeId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		productID, err := pathUUID(r, "productId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload productsvc.UpdateProductInput
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		payload.AuthUserID = principal.ID
		payload.StoreID = storeID
		payload.ProductID = productID

		product, err := svc.UpdateProduct(r.Context(), payload)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, product)
	}
}

// customizationUpdateRequest is the wire shape for customization updates;
// the id travels in the path, not the body.
type customizationUpdateRequest struct {
	Name              *string                  `json:"name,omitempty"`
	CustomizationType *enums.CustomizationType `json:"customization_type,omitempty"`
	SelectionType     *enums.SelectionType     `json:"selection_type,omitempty"`
	SelectionGroup    *string                  `json:"selection_group,omitempty"`
	Price             *decimal.Decimal         `json:"price,omitempty"`
}

type productAction func(svc productsvc.Service, r *http.Request) (any, error)

func merchantProductAction(svc productsvc.Service, logg *logger.Logger, action productAction) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		result, err := action(svc, r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

// MerchantActivateProduct makes a product visible in the public catalog.
func MerchantActivateProduct(svc productsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return merchantProductAction(svc, logg, func(svc productsvc.Service, r *http.Request) (any, error) {
		authUserID, storeID, productID, err := productPathScope(r)
		if err != nil {
			return nil, err
		}
		return svc.ActivateProduct(r.Context(), authUserID, storeID, productID)
	})
}

// MerchantDeactivateProduct hides a product from the public catalog.
func MerchantDeactivateProduct(svc productsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return merchantProductAction(svc, logg, func(svc productsvc.Service, r *http.Request) (any, error) {
		authUserID, storeID, productID, err := productPathScope(r)
		if err != nil {
			return nil, err
		}
		return svc.DeactivateProduct(r.Context(), authUserID, storeID, productID)
	})
}

// MerchantDeleteProduct soft deletes a store product.
func MerchantDeleteProduct(svc productsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		authUserID, storeID, productID, err := productPathScope(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := svc.DeleteProduct(r.Context(), authUserID, storeID, productID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessMessage(w, http.StatusOK, nil, "product deleted")
	}
}

// MerchantAddCustomization appends an add-on choice to a product.
func MerchantAddCustomization(svc productsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		authUserID, storeID, productID, err := productPathScope(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload productsvc.CustomizationInput
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		product, err := svc.AddCustomization(r.Context(), authUserID, storeID, productID, payload)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, product)
	}
}

// MerchantUpdateCustomization mutates an existing add-on choice.
func MerchantUpdateCustomization(svc productsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		authUserID, storeID, productID, err := productPathScope(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		customizationID, err := pathUUID(r, "customizationId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body customizationUpdateRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		payload := productsvc.CustomizationUpdate{
			ID:                customizationID,
			Name:              body.Name,
			CustomizationType: body.CustomizationType,
			SelectionType:     body.SelectionType,
			SelectionGroup:    body.SelectionGroup,
			Price:             body.Price,
		}

		product, err := svc.UpdateCustomization(r.Context(), authUserID, storeID, productID, payload)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, product)
	}
}

// MerchantRemoveCustomization deletes an add-on choice from a product.
func MerchantRemoveCustomization(svc productsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		authUserID, storeID, productID, err := productPathScope(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		customizationID, err := pathUUID(r, "customizationId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.RemoveCustomization(r.Context(), authUserID, storeID, productID, customizationID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessMessage(w, http.StatusOK, nil, "customization removed")
	}
}
