package controllers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"

	productsvc "github.com/vitrinelabs/vitrine-backend/internal/products"
	"github.com/vitrinelabs/vitrine-backend/pkg/db/models"
	"github.com/vitrinelabs/vitrine-backend/pkg/enums"
)

type stubProductsService struct {
	product *models.Product
	err     error

	createInput        productsvc.CreateProductInput
	updateInput        productsvc.UpdateProductInput
	customizationEdit  productsvc.CustomizationUpdate
	deletedProductID   uuid.UUID
	deactivatedProduct uuid.UUID
}

func (s *stubProductsService) CreateProduct(_ context.Context, input productsvc.CreateProductInput) (*models.Product, error) {
	s.createInput = input
	return s.product, s.err
}

func (s *stubProductsService) UpdateProduct(_ context.Context, input productsvc.UpdateProductInput) (*models.Product, error) {
	s.updateInput = input
	return s.product, s.err
}

func (s *stubProductsService) ActivateProduct(context.Context, uuid.UUID, uuid.UUID, uuid.UUID) (*models.Product, error) {
	return s.product, s.err
}

func (s *stubProductsService) DeactivateProduct(_ context.Context, _, _, productID uuid.UUID) (*models.Product, error) {
	s.deactivatedProduct = productID
	return s.product, s.err
}

func (s *stubProductsService) DeleteProduct(_ context.Context, _, _, productID uuid.UUID) error {
	s.deletedProductID = productID
	return s.err
}

func (s *stubProductsService) AddCustomization(context.Context, uuid.UUID, uuid.UUID, uuid.UUID, productsvc.CustomizationInput) (*models.Product, error) {
	return s.product, s.err
}

func (s *stubProductsService) UpdateCustomization(_ context.Context, _, _, _ uuid.UUID, input productsvc.CustomizationUpdate) (*models.Product, error) {
	s.customizationEdit = input
	return s.product, s.err
}

func (s *stubProductsService) RemoveCustomization(context.Context, uuid.UUID, uuid.UUID, uuid.UUID, uuid.UUID) error {
	return s.err
}

func TestMerchantCreateProductBindsPathScope(t *testing.T) {
	storeID := uuid.New()
	stub := &stubProductsService{product: &models.Product{}}

	body := `{
		"name": "Espresso",
		"price": "9.50",
		"family": "finished_product",
		"category": "coffee"
	}`
	ctx, authUserID := principalContext(context.Background(), enums.PrincipalTypeMerchant)
	ctx = withRouteParams(ctx, map[string]string{"storeId": storeID.String()})
	req := httptest.NewRequest(http.MethodPost, "/products", strings.NewReader(body)).WithContext(ctx)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	MerchantCreateProduct(stub, testLogger()).ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	if stub.createInput.AuthUserID != authUserID {
		t.Fatalf("expected caller id on input, got %s", stub.createInput.AuthUserID)
	}
	if stub.createInput.StoreID != storeID {
		t.Fatalf("expected store id from path, got %s", stub.createInput.StoreID)
	}
	if stub.createInput.Name != "Espresso" {
		t.Fatalf("unexpected name %q", stub.createInput.Name)
	}
}

func TestMerchantCreateProductRejectsUnknownFields(t *testing.T) {
	storeID := uuid.New()
	stub := &stubProductsService{product: &models.Product{}}

	ctx, _ := principalContext(context.Background(), enums.PrincipalTypeMerchant)
	ctx = withRouteParams(ctx, map[string]string{"storeId": storeID.String()})
	req := httptest.NewRequest(http.MethodPost, "/products",
		strings.NewReader(`{"name": "x", "price": "1", "family": "finished_product", "category": "c", "bogus": true}`)).WithContext(ctx)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	MerchantCreateProduct(stub, testLogger()).ServeHTTP(rec, req)

	if rec.Code == http.StatusCreated {
		t.Fatalf("expected rejection of unknown field, got 201")
	}
}

func TestMerchantDeleteProductInvalidID(t *testing.T) {
	storeID := uuid.New()
	stub := &stubProductsService{}

	ctx, _ := principalContext(context.Background(), enums.PrincipalTypeMerchant)
	ctx = withRouteParams(ctx, map[string]string{"storeId": storeID.String(), "productId": "not-a-uuid"})
	req := httptest.NewRequest(http.MethodDelete, "/products/not-a-uuid", nil).WithContext(ctx)
	rec := httptest.NewRecorder()

	MerchantDeleteProduct(stub, testLogger()).ServeHTTP(rec, req)

	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422 for malformed product id, got %d", rec.Code)
	}
	if stub.deletedProductID != uuid.Nil {
		t.Fatalf("expected no delete call")
	}
}

func TestMerchantUpdateCustomizationTakesIDFromPath(t *testing.T) {
	storeID := uuid.New()
	productID := uuid.New()
	customizationID := uuid.New()
	stub := &stubProductsService{product: &models.Product{}}

	ctx, _ := principalContext(context.Background(), enums.PrincipalTypeMerchant)
	ctx = withRouteParams(ctx, map[string]string{
		"storeId":         storeID.String(),
		"productId":       productID.String(),
		"customizationId": customizationID.String(),
	})
	req := httptest.NewRequest(http.MethodPatch, "/customizations/"+customizationID.String(),
		strings.NewReader(`{"name": "Extra shot"}`)).WithContext(ctx)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	MerchantUpdateCustomization(stub, testLogger()).ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if stub.customizationEdit.ID != customizationID {
		t.Fatalf("expected customization id from path, got %s", stub.customizationEdit.ID)
	}
	if stub.customizationEdit.Name == nil || *stub.customizationEdit.Name != "Extra shot" {
		t.Fatalf("expected name change to reach the service")
	}
}
