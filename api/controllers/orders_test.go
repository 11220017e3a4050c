package controllers

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/vitrinelabs/vitrine-backend/api/middleware"
	ordersvc "github.com/vitrinelabs/vitrine-backend/internal/orders"
	"github.com/vitrinelabs/vitrine-backend/pkg/enums"
	"github.com/vitrinelabs/vitrine-backend/pkg/identity"
	"github.com/vitrinelabs/vitrine-backend/pkg/logger"
	"github.com/vitrinelabs/vitrine-backend/pkg/pagination"
)

func testLogger() *logger.Logger {
	return logger.New(logger.Options{ServiceName: "test", Level: logger.ParseLevel("debug"), Output: io.Discard})
}

func principalContext(ctx context.Context, principalType enums.PrincipalType) (context.Context, uuid.UUID) {
	authUserID := uuid.New()
	return middleware.WithPrincipal(ctx, &identity.Principal{
		ID:    authUserID,
		Type:  principalType,
		Token: "access-token",
	}), authUserID
}

func withRouteParams(ctx context.Context, params map[string]string) context.Context {
	routeCtx := chi.NewRouteContext()
	for name, value := range params {
		routeCtx.URLParams.Add(name, value)
	}
	return context.WithValue(ctx, chi.RouteCtxKey, routeCtx)
}

type stubOrdersService struct {
	customerID uuid.UUID
	resolveErr error
	view       *ordersvc.OrderView
	list       *ordersvc.OrderList
	err        error

	createInput ordersvc.CreateOrderInput
	statusInput ordersvc.UpdateStatusInput
	rejected    bool
}

func (s *stubOrdersService) ResolveCustomer(context.Context, uuid.UUID) (uuid.UUID, error) {
	return s.customerID, s.resolveErr
}

func (s *stubOrdersService) CreateOrder(_ context.Context, input ordersvc.CreateOrderInput) (*ordersvc.OrderView, error) {
	s.createInput = input
	return s.view, s.err
}

func (s *stubOrdersService) GetOrder(context.Context, uuid.UUID) (*ordersvc.OrderView, error) {
	return s.view, s.err
}

func (s *stubOrdersService) ListOrders(context.Context, ordersvc.ListFilters, pagination.Params) (*ordersvc.OrderList, error) {
	return s.list, s.err
}

func (s *stubOrdersService) GetStoreOrder(context.Context, uuid.UUID, uuid.UUID, uuid.UUID) (*ordersvc.OrderView, error) {
	return s.view, s.err
}

func (s *stubOrdersService) ListStoreOrders(context.Context, uuid.UUID, uuid.UUID, ordersvc.ListFilters, pagination.Params) (*ordersvc.OrderList, error) {
	return s.list, s.err
}

func (s *stubOrdersService) UpdateOrderStatus(_ context.Context, input ordersvc.UpdateStatusInput) (*ordersvc.OrderView, error) {
	s.statusInput = input
	return s.view, s.err
}

func (s *stubOrdersService) ConfirmOrder(_ context.Context, input ordersvc.UpdateStatusInput) (*ordersvc.OrderView, error) {
	s.statusInput = input
	return s.view, s.err
}

func (s *stubOrdersService) RejectOrder(_ context.Context, input ordersvc.UpdateStatusInput) (*ordersvc.OrderView, error) {
	s.rejected = true
	s.statusInput = input
	return s.view, s.err
}

func (s *stubOrdersService) ConfirmDelivery(context.Context, ordersvc.ConfirmDeliveryInput) (*ordersvc.OrderView, error) {
	return s.view, s.err
}

func TestCreateOrderRequiresPrincipal(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/orders", strings.NewReader(`{}`))
	rec := httptest.NewRecorder()

	CreateOrder(&stubOrdersService{}, testLogger()).ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without principal, got %d", rec.Code)
	}
}

func TestCreateOrderBindsCustomerAndStore(t *testing.T) {
	storeID := uuid.New()
	productID := uuid.New()
	stub := &stubOrdersService{
		customerID: uuid.New(),
		view:       &ordersvc.OrderView{ID: uuid.New()},
	}

	body := `{
		"store_id": "` + storeID.String() + `",
		"fulfillment_method": "pickup",
		"payment_method": "cash",
		"items": [{"product_id": "` + productID.String() + `", "quantity": 2}]
	}`
	ctx, _ := principalContext(context.Background(), enums.PrincipalTypeCustomer)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/orders", strings.NewReader(body)).WithContext(ctx)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	CreateOrder(stub, testLogger()).ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	if stub.createInput.CustomerID != stub.customerID {
		t.Fatalf("expected resolved customer id %s, got %s", stub.customerID, stub.createInput.CustomerID)
	}
	if stub.createInput.StoreID != storeID {
		t.Fatalf("expected store id %s, got %s", storeID, stub.createInput.StoreID)
	}
	if len(stub.createInput.Items) != 1 || stub.createInput.Items[0].Quantity != 2 {
		t.Fatalf("unexpected items payload: %+v", stub.createInput.Items)
	}

	var envelope struct {
		Success bool `json:"success"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("decoding envelope: %v", err)
	}
	if !envelope.Success {
		t.Fatalf("expected success envelope")
	}
}

func TestGetOrderHidesForeignOrders(t *testing.T) {
	orderID := uuid.New()
	stub := &stubOrdersService{
		customerID: uuid.New(),
		view:       &ordersvc.OrderView{ID: orderID, CustomerID: uuid.New()},
	}

	ctx, _ := principalContext(context.Background(), enums.PrincipalTypeCustomer)
	ctx = withRouteParams(ctx, map[string]string{"orderId": orderID.String()})
	req := httptest.NewRequest(http.MethodGet, "/api/v1/orders/"+orderID.String(), nil).WithContext(ctx)
	rec := httptest.NewRecorder()

	GetOrder(stub, testLogger()).ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for another customer's order, got %d", rec.Code)
	}
}

func TestGetOrderReturnsOwnOrder(t *testing.T) {
	orderID := uuid.New()
	customerID := uuid.New()
	stub := &stubOrdersService{
		customerID: customerID,
		view:       &ordersvc.OrderView{ID: orderID, CustomerID: customerID},
	}

	ctx, _ := principalContext(context.Background(), enums.PrincipalTypeCustomer)
	ctx = withRouteParams(ctx, map[string]string{"orderId": orderID.String()})
	req := httptest.NewRequest(http.MethodGet, "/api/v1/orders/"+orderID.String(), nil).WithContext(ctx)
	rec := httptest.NewRecorder()

	GetOrder(stub, testLogger()).ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestMerchantUpdateOrderStatusMapsTransitionConflict(t *testing.T) {
	storeID := uuid.New()
	orderID := uuid.New()
	stub := &stubOrdersService{err: ordersvc.ErrInvalidTransition}

	ctx, _ := principalContext(context.Background(), enums.PrincipalTypeMerchant)
	ctx = withRouteParams(ctx, map[string]string{"storeId": storeID.String(), "orderId": orderID.String()})
	req := httptest.NewRequest(http.MethodPut, "/orders/"+orderID.String(),
		strings.NewReader(`{"status": "preparing"}`)).WithContext(ctx)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	MerchantUpdateOrderStatus(stub, testLogger()).ServeHTTP(rec, req)

	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422 for invalid transition, got %d: %s", rec.Code, rec.Body.String())
	}
	if stub.statusInput.StoreID != storeID || stub.statusInput.OrderID != orderID {
		t.Fatalf("expected path scope on input, got %+v", stub.statusInput)
	}
}

func TestMerchantRejectOrderRequiresReason(t *testing.T) {
	storeID := uuid.New()
	orderID := uuid.New()
	stub := &stubOrdersService{view: &ordersvc.OrderView{ID: orderID}}

	ctx, _ := principalContext(context.Background(), enums.PrincipalTypeMerchant)
	ctx = withRouteParams(ctx, map[string]string{"storeId": storeID.String(), "orderId": orderID.String()})
	req := httptest.NewRequest(http.MethodPost, "/orders/"+orderID.String()+"/reject",
		strings.NewReader(`{}`)).WithContext(ctx)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	MerchantRejectOrder(stub, testLogger()).ServeHTTP(rec, req)

	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422 without reason, got %d", rec.Code)
	}
	if stub.rejected {
		t.Fatalf("expected reject to be blocked before the service call")
	}
}

func TestMerchantRejectOrderPassesReason(t *testing.T) {
	storeID := uuid.New()
	orderID := uuid.New()
	stub := &stubOrdersService{view: &ordersvc.OrderView{ID: orderID}}

	ctx, authUserID := principalContext(context.Background(), enums.PrincipalTypeMerchant)
	ctx = withRouteParams(ctx, map[string]string{"storeId": storeID.String(), "orderId": orderID.String()})
	req := httptest.NewRequest(http.MethodPost, "/orders/"+orderID.String()+"/reject",
		strings.NewReader(`{"reason": "out of stock"}`)).WithContext(ctx)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	MerchantRejectOrder(stub, testLogger()).ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if !stub.rejected {
		t.Fatalf("expected RejectOrder to be invoked")
	}
	if stub.statusInput.Reason == nil || *stub.statusInput.Reason != "out of stock" {
		t.Fatalf("expected reason to reach the service, got %+v", stub.statusInput.Reason)
	}
	if stub.statusInput.AuthUserID != authUserID {
		t.Fatalf("expected caller id on input")
	}
}

func TestListOrdersRejectsBadStatusFilter(t *testing.T) {
	stub := &stubOrdersService{
		customerID: uuid.New(),
		list:       &ordersvc.OrderList{},
	}

	ctx, _ := principalContext(context.Background(), enums.PrincipalTypeCustomer)
	req := httptest.NewRequest(http.MethodGet, "/api/v1/orders?status=bogus", nil).WithContext(ctx)
	rec := httptest.NewRecorder()

	ListOrders(stub, testLogger()).ServeHTTP(rec, req)

	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422 for unknown status, got %d", rec.Code)
	}
}
