package orders

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/vitrinelabs/vitrine-backend/pkg/db/models"
	"github.com/vitrinelabs/vitrine-backend/pkg/enums"
	pkgerrors "github.com/vitrinelabs/vitrine-backend/pkg/errors"
	"github.com/vitrinelabs/vitrine-backend/pkg/logger"
	"github.com/vitrinelabs/vitrine-backend/pkg/outbox"
	"github.com/vitrinelabs/vitrine-backend/pkg/pagination"
)

type stubOrderRepo struct {
	store          *models.Store
	deliveryOption *models.StoreDeliveryOption
	products       []models.Product
	merchant       *models.Merchant
	customer       *models.Customer
	member         bool
	order          *models.Order

	createdOrder *models.Order
	updates      map[string]any
	historyRows  []*models.OrderStatusHistory
	listedPage   pagination.Params
}

func (s *stubOrderRepo) WithTx(*gorm.DB) Repository { return s }

func (s *stubOrderRepo) FindStore(context.Context, uuid.UUID) (*models.Store, error) {
	return s.store, nil
}

func (s *stubOrderRepo) FindDeliveryOption(context.Context, uuid.UUID, uuid.UUID) (*models.StoreDeliveryOption, error) {
	return s.deliveryOption, nil
}

func (s *stubOrderRepo) FindProductsByIDs(context.Context, uuid.UUID, []uuid.UUID) ([]models.Product, error) {
	return s.products, nil
}

func (s *stubOrderRepo) FindMerchantByAuthID(context.Context, uuid.UUID) (*models.Merchant, error) {
	return s.merchant, nil
}

func (s *stubOrderRepo) FindCustomerByAuthID(context.Context, uuid.UUID) (*models.Customer, error) {
	return s.customer, nil
}

func (s *stubOrderRepo) HasActiveMembership(context.Context, uuid.UUID, uuid.UUID) (bool, error) {
	return s.member, nil
}

func (s *stubOrderRepo) FindOrder(context.Context, uuid.UUID) (*models.Order, error) {
	return s.order, nil
}

func (s *stubOrderRepo) CreateOrder(_ context.Context, order *models.Order) error {
	order.ID = uuid.New()
	order.CreatedAt = time.Now()
	s.createdOrder = order
	return nil
}

func (s *stubOrderRepo) UpdateOrder(_ context.Context, _ uuid.UUID, updates map[string]any) error {
	s.updates = updates
	return nil
}

func (s *stubOrderRepo) InsertStatusHistory(_ context.Context, entry *models.OrderStatusHistory) error {
	s.historyRows = append(s.historyRows, entry)
	return nil
}

func (s *stubOrderRepo) GetDetailed(_ context.Context, orderID uuid.UUID) (*OrderDetailedRecord, error) {
	source := s.createdOrder
	if source == nil {
		source = s.order
	}
	if source == nil {
		return nil, nil
	}
	status := source.Status
	if raw, ok := s.updates["status"]; ok {
		status = raw.(enums.OrderStatus)
	}
	return &OrderDetailedRecord{
		ID:          orderID,
		StoreID:     source.StoreID,
		CustomerID:  source.CustomerID,
		Fulfillment: source.Fulfillment,
		TotalAmount: source.TotalAmount,
		DeliveryFee: source.DeliveryFee,
		Status:      status,
	}, nil
}

func (s *stubOrderRepo) ListDetailed(_ context.Context, _ ListFilters, page pagination.Params) ([]OrderDetailedRecord, int64, error) {
	s.listedPage = page
	return nil, 0, nil
}

func (s *stubOrderRepo) ListItems(context.Context, uuid.UUID) ([]OrderItemRecord, error) {
	return nil, nil
}

type stubOrderTx struct {
	err         error
	lastTimeout time.Duration
}

func (s *stubOrderTx) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	if s.err != nil {
		return s.err
	}
	return fn(&gorm.DB{})
}

func (s *stubOrderTx) WithTxTimeout(_ context.Context, timeout time.Duration, fn func(tx *gorm.DB) error) error {
	s.lastTimeout = timeout
	if s.err != nil {
		return s.err
	}
	return fn(&gorm.DB{})
}

type stubPublisher struct {
	events []outbox.DomainEvent
	err    error
}

func (s *stubPublisher) Emit(_ context.Context, _ *gorm.DB, event outbox.DomainEvent) error {
	if s.err != nil {
		return s.err
	}
	s.events = append(s.events, event)
	return nil
}

func activeStore(merchantID uuid.UUID) *models.Store {
	return &models.Store{
		ID:                         uuid.New(),
		MerchantID:                 merchantID,
		Name:                       "Burger Haus",
		IsActive:                   true,
		MinOrderValue:              decimal.Zero,
		DeliveryFee:                decimal.NewFromFloat(8),
		AcceptsPaymentPix:          true,
		AcceptsPaymentCash:         true,
		FulfillmentDeliveryEnabled: true,
		FulfillmentPickupEnabled:   true,
	}
}

func burgerProduct(storeID uuid.UUID, price float64) models.Product {
	return models.Product{
		ID:       uuid.New(),
		StoreID:  storeID,
		Name:     "Classic Burger",
		Price:    decimal.NewFromFloat(price),
		Family:   enums.ProductFamilyFinishedProduct,
		Category: "burgers",
		IsActive: true,
	}
}

func deliveryAddress() *DeliveryAddressInput {
	return &DeliveryAddressInput{
		Street:       "Rua das Flores",
		Number:       "100",
		Neighborhood: "Centro",
		City:         "Sao Paulo",
		State:        "SP",
		ZipCode:      "01000-000",
	}
}

func newOrderService(t *testing.T, repo Repository, tx txRunner, events outboxPublisher) Service {
	t.Helper()
	logg := logger.New(logger.Options{ServiceName: "orders-test", Output: io.Discard})
	svc, err := NewService(repo, tx, events, logg, 15*time.Second)
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	return svc
}

func TestCreateOrderUsesServerSidePrices(t *testing.T) {
	repo := &stubOrderRepo{store: activeStore(uuid.New())}
	product := burgerProduct(repo.store.ID, 29.90)
	boolCustomization := models.ProductCustomization{
		ID:                uuid.New(),
		ProductID:         product.ID,
		Name:              "Extra Sauce",
		CustomizationType: enums.CustomizationTypeSauce,
		SelectionType:     enums.SelectionTypeBoolean,
		Price:             decimal.NewFromFloat(2),
	}
	product.Customizations = []models.ProductCustomization{boolCustomization}
	repo.products = []models.Product{product}

	tx := &stubOrderTx{}
	events := &stubPublisher{}
	svc := newOrderService(t, repo, tx, events)

	view, err := svc.CreateOrder(context.Background(), CreateOrderInput{
		CustomerID:    uuid.New(),
		StoreID:       repo.store.ID,
		Fulfillment:   enums.FulfillmentMethodPickup,
		PaymentMethod: enums.PaymentMethodPix,
		Items: []ItemInput{{
			ProductID: product.ID,
			Quantity:  2,
			Customizations: []ItemCustomizationInput{
				{CustomizationID: boolCustomization.ID, Quantity: 5},
			},
		}},
	})
	if err != nil {
		t.Fatalf("CreateOrder: %v", err)
	}
	if repo.createdOrder == nil {
		t.Fatal("expected a persisted order")
	}
	item := repo.createdOrder.Items[0]
	if !item.UnitPrice.Equal(decimal.NewFromFloat(29.90)) {
		t.Fatalf("unit price must come from the product row, got %s", item.UnitPrice)
	}
	if item.Customizations[0].Quantity != 1 {
		t.Fatalf("boolean customization quantity must persist as 1, got %d", item.Customizations[0].Quantity)
	}
	want := decimal.NewFromFloat(29.90).Mul(decimal.NewFromInt(2)).Add(decimal.NewFromFloat(2))
	if !view.TotalAmount.Equal(want) {
		t.Fatalf("expected total %s, got %s", want, view.TotalAmount)
	}
	if tx.lastTimeout != 15*time.Second {
		t.Fatalf("expected extended tx timeout, got %s", tx.lastTimeout)
	}
	if len(events.events) != 1 || events.events[0].EventType != enums.OutboxEventOrderCreated {
		t.Fatalf("expected order.created event, got %v", events.events)
	}
}

func TestCreateOrderBelowMinimumIsBusinessRuleError(t *testing.T) {
	repo := &stubOrderRepo{store: activeStore(uuid.New())}
	repo.store.MinOrderValue = decimal.NewFromFloat(20)
	first := burgerProduct(repo.store.ID, 5)
	second := burgerProduct(repo.store.ID, 10)
	repo.products = []models.Product{first, second}
	svc := newOrderService(t, repo, &stubOrderTx{}, &stubPublisher{})

	_, err := svc.CreateOrder(context.Background(), CreateOrderInput{
		CustomerID:    uuid.New(),
		StoreID:       repo.store.ID,
		Fulfillment:   enums.FulfillmentMethodPickup,
		PaymentMethod: enums.PaymentMethodCash,
		Items: []ItemInput{
			{ProductID: first.ID, Quantity: 1},
			{ProductID: second.ID, Quantity: 1},
		},
	})
	appErr := pkgerrors.As(err)
	if appErr == nil || appErr.Code() != pkgerrors.CodeStateConflict {
		t.Fatalf("expected business-rule error, got %v", err)
	}
	if repo.createdOrder != nil {
		t.Fatal("no order row may be persisted when below the minimum")
	}
}

func TestCreateOrderFreeDeliveryOverridesFee(t *testing.T) {
	repo := &stubOrderRepo{store: activeStore(uuid.New())}
	threshold := decimal.NewFromFloat(50)
	repo.store.FreeDeliveryAbove = &threshold
	product := burgerProduct(repo.store.ID, 30)
	repo.products = []models.Product{product}
	svc := newOrderService(t, repo, &stubOrderTx{}, &stubPublisher{})

	_, err := svc.CreateOrder(context.Background(), CreateOrderInput{
		CustomerID:      uuid.New(),
		StoreID:         repo.store.ID,
		Fulfillment:     enums.FulfillmentMethodDelivery,
		PaymentMethod:   enums.PaymentMethodPix,
		DeliveryAddress: deliveryAddress(),
		Items:           []ItemInput{{ProductID: product.ID, Quantity: 2}},
	})
	if err != nil {
		t.Fatalf("CreateOrder: %v", err)
	}
	if !repo.createdOrder.DeliveryFee.IsZero() {
		t.Fatalf("subtotal 60 >= threshold 50 must zero the fee, got %s", repo.createdOrder.DeliveryFee)
	}
}

func TestCreateOrderUsesDeliveryOptionFee(t *testing.T) {
	repo := &stubOrderRepo{store: activeStore(uuid.New())}
	optionID := uuid.New()
	repo.deliveryOption = &models.StoreDeliveryOption{
		ID:      optionID,
		StoreID: repo.store.ID,
		Name:    "Express",
		Fee:     decimal.NewFromFloat(12),
	}
	product := burgerProduct(repo.store.ID, 30)
	repo.products = []models.Product{product}
	svc := newOrderService(t, repo, &stubOrderTx{}, &stubPublisher{})

	_, err := svc.CreateOrder(context.Background(), CreateOrderInput{
		CustomerID:       uuid.New(),
		StoreID:          repo.store.ID,
		Fulfillment:      enums.FulfillmentMethodDelivery,
		PaymentMethod:    enums.PaymentMethodPix,
		DeliveryOptionID: &optionID,
		DeliveryAddress:  deliveryAddress(),
		Items:            []ItemInput{{ProductID: product.ID, Quantity: 1}},
	})
	if err != nil {
		t.Fatalf("CreateOrder: %v", err)
	}
	if !repo.createdOrder.DeliveryFee.Equal(decimal.NewFromFloat(12)) {
		t.Fatalf("expected option fee 12, got %s", repo.createdOrder.DeliveryFee)
	}
}

func TestCreateOrderPickupHasZeroFee(t *testing.T) {
	repo := &stubOrderRepo{store: activeStore(uuid.New())}
	product := burgerProduct(repo.store.ID, 30)
	repo.products = []models.Product{product}
	svc := newOrderService(t, repo, &stubOrderTx{}, &stubPublisher{})

	_, err := svc.CreateOrder(context.Background(), CreateOrderInput{
		CustomerID:    uuid.New(),
		StoreID:       repo.store.ID,
		Fulfillment:   enums.FulfillmentMethodPickup,
		PaymentMethod: enums.PaymentMethodPix,
		Items:         []ItemInput{{ProductID: product.ID, Quantity: 1}},
	})
	if err != nil {
		t.Fatalf("CreateOrder: %v", err)
	}
	if !repo.createdOrder.DeliveryFee.IsZero() {
		t.Fatalf("pickup orders never carry a delivery fee, got %s", repo.createdOrder.DeliveryFee)
	}
}

func TestCreateOrderRejectsDisabledFulfillment(t *testing.T) {
	repo := &stubOrderRepo{store: activeStore(uuid.New())}
	repo.store.FulfillmentPickupEnabled = false
	product := burgerProduct(repo.store.ID, 30)
	repo.products = []models.Product{product}
	svc := newOrderService(t, repo, &stubOrderTx{}, &stubPublisher{})

	_, err := svc.CreateOrder(context.Background(), CreateOrderInput{
		CustomerID:    uuid.New(),
		StoreID:       repo.store.ID,
		Fulfillment:   enums.FulfillmentMethodPickup,
		PaymentMethod: enums.PaymentMethodPix,
		Items:         []ItemInput{{ProductID: product.ID, Quantity: 1}},
	})
	appErr := pkgerrors.As(err)
	if appErr == nil || appErr.Code() != pkgerrors.CodeStateConflict {
		t.Fatalf("expected business-rule error, got %v", err)
	}
}

func TestCreateOrderRejectsForeignProduct(t *testing.T) {
	repo := &stubOrderRepo{store: activeStore(uuid.New())}
	svc := newOrderService(t, repo, &stubOrderTx{}, &stubPublisher{})

	_, err := svc.CreateOrder(context.Background(), CreateOrderInput{
		CustomerID:    uuid.New(),
		StoreID:       repo.store.ID,
		Fulfillment:   enums.FulfillmentMethodPickup,
		PaymentMethod: enums.PaymentMethodPix,
		Items:         []ItemInput{{ProductID: uuid.New(), Quantity: 1}},
	})
	appErr := pkgerrors.As(err)
	if appErr == nil || appErr.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestUpdateOrderStatusOutForDeliveryByFulfillment(t *testing.T) {
	merchantID := uuid.New()
	authUserID := uuid.New()
	repo := &stubOrderRepo{
		store:    activeStore(merchantID),
		merchant: &models.Merchant{ID: merchantID, AuthUserID: authUserID},
	}
	events := &stubPublisher{}
	svc := newOrderService(t, repo, &stubOrderTx{}, events)

	repo.order = &models.Order{
		ID:          uuid.New(),
		StoreID:     repo.store.ID,
		CustomerID:  uuid.New(),
		Fulfillment: enums.FulfillmentMethodDelivery,
		Status:      enums.OrderStatusReady,
	}
	if _, err := svc.UpdateOrderStatus(context.Background(), UpdateStatusInput{
		OrderID:    repo.order.ID,
		AuthUserID: authUserID,
		Status:     enums.OrderStatusOutForDelivery,
	}); err != nil {
		t.Fatalf("delivery order ready->out_for_delivery: %v", err)
	}
	if len(events.events) != 1 || events.events[0].EventType != enums.OutboxEventOrderStatusChanged {
		t.Fatalf("expected status change event, got %v", events.events)
	}

	repo.order = &models.Order{
		ID:          uuid.New(),
		StoreID:     repo.store.ID,
		CustomerID:  uuid.New(),
		Fulfillment: enums.FulfillmentMethodPickup,
		Status:      enums.OrderStatusReady,
	}
	_, err := svc.UpdateOrderStatus(context.Background(), UpdateStatusInput{
		OrderID:    repo.order.ID,
		AuthUserID: authUserID,
		Status:     enums.OrderStatusOutForDelivery,
	})
	if !errors.Is(err, ErrDeliveryOnlyStatus) {
		t.Fatalf("pickup order must fail with the delivery-only sentinel, got %v", err)
	}
}

func TestUpdateOrderStatusDistinguishesFailures(t *testing.T) {
	merchantID := uuid.New()
	authUserID := uuid.New()
	repo := &stubOrderRepo{
		store:    activeStore(merchantID),
		merchant: &models.Merchant{ID: merchantID, AuthUserID: authUserID},
	}
	svc := newOrderService(t, repo, &stubOrderTx{}, &stubPublisher{})

	_, err := svc.UpdateOrderStatus(context.Background(), UpdateStatusInput{
		OrderID:    uuid.New(),
		AuthUserID: authUserID,
		Status:     enums.OrderStatusConfirmed,
	})
	if !errors.Is(err, ErrOrderNotFound) {
		t.Fatalf("missing order: expected not-found sentinel, got %v", err)
	}

	repo.order = &models.Order{
		ID:          uuid.New(),
		StoreID:     repo.store.ID,
		CustomerID:  uuid.New(),
		Fulfillment: enums.FulfillmentMethodDelivery,
		Status:      enums.OrderStatusPending,
	}
	repo.store.MerchantID = uuid.New()
	repo.member = false
	_, err = svc.UpdateOrderStatus(context.Background(), UpdateStatusInput{
		OrderID:    repo.order.ID,
		AuthUserID: authUserID,
		Status:     enums.OrderStatusConfirmed,
	})
	if !errors.Is(err, ErrNoPermission) {
		t.Fatalf("foreign store: expected no-permission sentinel, got %v", err)
	}

	repo.store.MerchantID = merchantID
	_, err = svc.UpdateOrderStatus(context.Background(), UpdateStatusInput{
		OrderID:    repo.order.ID,
		AuthUserID: authUserID,
		Status:     enums.OrderStatusDelivered,
	})
	if !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("pending->delivered: expected invalid-transition sentinel, got %v", err)
	}
}

func TestRejectOrderRequiresReason(t *testing.T) {
	merchantID := uuid.New()
	authUserID := uuid.New()
	repo := &stubOrderRepo{
		store:    activeStore(merchantID),
		merchant: &models.Merchant{ID: merchantID, AuthUserID: authUserID},
		order: &models.Order{
			ID:          uuid.New(),
			StoreID:     uuid.Nil,
			CustomerID:  uuid.New(),
			Fulfillment: enums.FulfillmentMethodPickup,
			Status:      enums.OrderStatusPending,
		},
	}
	repo.order.StoreID = repo.store.ID
	svc := newOrderService(t, repo, &stubOrderTx{}, &stubPublisher{})

	_, err := svc.RejectOrder(context.Background(), UpdateStatusInput{
		OrderID:    repo.order.ID,
		AuthUserID: authUserID,
	})
	if !errors.Is(err, ErrReasonRequired) {
		t.Fatalf("expected reason-required sentinel, got %v", err)
	}

	reason := "out of stock"
	if _, err := svc.RejectOrder(context.Background(), UpdateStatusInput{
		OrderID:    repo.order.ID,
		AuthUserID: authUserID,
		Reason:     &reason,
	}); err != nil {
		t.Fatalf("RejectOrder with reason: %v", err)
	}
	if repo.updates["cancellation_reason"] != "out of stock" {
		t.Fatalf("expected persisted reason, got %v", repo.updates)
	}
}

func TestConfirmDeliveryGuards(t *testing.T) {
	repo := &stubOrderRepo{store: activeStore(uuid.New())}
	customerID := uuid.New()
	repo.order = &models.Order{
		ID:          uuid.New(),
		StoreID:     repo.store.ID,
		CustomerID:  customerID,
		Fulfillment: enums.FulfillmentMethodDelivery,
		Status:      enums.OrderStatusOutForDelivery,
	}
	svc := newOrderService(t, repo, &stubOrderTx{}, &stubPublisher{})

	_, err := svc.ConfirmDelivery(context.Background(), ConfirmDeliveryInput{
		OrderID:    repo.order.ID,
		CustomerID: uuid.New(),
	})
	if !errors.Is(err, ErrNotOrderCustomer) {
		t.Fatalf("foreign customer: expected sentinel, got %v", err)
	}

	badRating := 6
	_, err = svc.ConfirmDelivery(context.Background(), ConfirmDeliveryInput{
		OrderID:    repo.order.ID,
		CustomerID: customerID,
		Rating:     &badRating,
	})
	appErr := pkgerrors.As(err)
	if appErr == nil || appErr.Code() != pkgerrors.CodeValidation {
		t.Fatalf("rating 6: expected validation error, got %v", err)
	}

	rating := 5
	if _, err := svc.ConfirmDelivery(context.Background(), ConfirmDeliveryInput{
		OrderID:    repo.order.ID,
		CustomerID: customerID,
		Rating:     &rating,
	}); err != nil {
		t.Fatalf("ConfirmDelivery: %v", err)
	}
	if repo.updates["rating"] != 5 {
		t.Fatalf("expected persisted rating, got %v", repo.updates)
	}

	repo.order.Status = enums.OrderStatusDelivered
	_, err = svc.ConfirmDelivery(context.Background(), ConfirmDeliveryInput{
		OrderID:    repo.order.ID,
		CustomerID: customerID,
	})
	if !errors.Is(err, ErrOrderAlreadyClosed) {
		t.Fatalf("terminal order: expected sentinel, got %v", err)
	}
}

func TestCreateOrderStatusHistorySeeded(t *testing.T) {
	repo := &stubOrderRepo{store: activeStore(uuid.New())}
	product := burgerProduct(repo.store.ID, 30)
	repo.products = []models.Product{product}
	svc := newOrderService(t, repo, &stubOrderTx{}, &stubPublisher{})

	_, err := svc.CreateOrder(context.Background(), CreateOrderInput{
		CustomerID:    uuid.New(),
		StoreID:       repo.store.ID,
		Fulfillment:   enums.FulfillmentMethodPickup,
		PaymentMethod: enums.PaymentMethodPix,
		Items:         []ItemInput{{ProductID: product.ID, Quantity: 1}},
	})
	if err != nil {
		t.Fatalf("CreateOrder: %v", err)
	}
	if len(repo.historyRows) != 1 {
		t.Fatalf("expected 1 seeded history row, got %d", len(repo.historyRows))
	}
	row := repo.historyRows[0]
	if row.PreviousStatus != nil || row.NewStatus != enums.OrderStatusPending {
		t.Fatalf("expected nil->pending seed, got %v -> %s", row.PreviousStatus, row.NewStatus)
	}
}

func TestListOrdersClampsPagination(t *testing.T) {
	repo := &stubOrderRepo{}
	svc := newOrderService(t, repo, &stubOrderTx{}, &stubPublisher{})

	list, err := svc.ListOrders(context.Background(), ListFilters{}, pagination.Params{Page: 0, Limit: 0})
	if err != nil {
		t.Fatalf("ListOrders: %v", err)
	}
	if repo.listedPage.Page != pagination.DefaultPage || repo.listedPage.Limit != pagination.DefaultLimit {
		t.Fatalf("expected defaults %d/%d, got %d/%d",
			pagination.DefaultPage, pagination.DefaultLimit, repo.listedPage.Page, repo.listedPage.Limit)
	}
	if list.Pagination.Page != pagination.DefaultPage {
		t.Fatalf("expected meta page %d, got %d", pagination.DefaultPage, list.Pagination.Page)
	}

	if _, err := svc.ListOrders(context.Background(), ListFilters{}, pagination.Params{Page: 3, Limit: 10_000}); err != nil {
		t.Fatalf("ListOrders: %v", err)
	}
	if repo.listedPage.Limit != pagination.MaxLimit {
		t.Fatalf("expected limit capped at %d, got %d", pagination.MaxLimit, repo.listedPage.Limit)
	}
}
