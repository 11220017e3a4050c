package orders

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/vitrinelabs/vitrine-backend/pkg/db/models"
	"github.com/vitrinelabs/vitrine-backend/pkg/enums"
	pkgerrors "github.com/vitrinelabs/vitrine-backend/pkg/errors"
	"github.com/vitrinelabs/vitrine-backend/pkg/logger"
	"github.com/vitrinelabs/vitrine-backend/pkg/outbox"
	"github.com/vitrinelabs/vitrine-backend/pkg/outbox/payloads"
	"github.com/vitrinelabs/vitrine-backend/pkg/pagination"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
	WithTxTimeout(ctx context.Context, timeout time.Duration, fn func(tx *gorm.DB) error) error
}

type outboxPublisher interface {
	Emit(ctx context.Context, tx *gorm.DB, event outbox.DomainEvent) error
}

// Service exposes the order workflow.
type Service interface {
	ResolveCustomer(ctx context.Context, authUserID uuid.UUID) (uuid.UUID, error)
	CreateOrder(ctx context.Context, input CreateOrderInput) (*OrderView, error)
	GetOrder(ctx context.Context, orderID uuid.UUID) (*OrderView, error)
	ListOrders(ctx context.Context, filters ListFilters, page pagination.Params) (*OrderList, error)
	GetStoreOrder(ctx context.Context, authUserID, storeID, orderID uuid.UUID) (*OrderView, error)
	ListStoreOrders(ctx context.Context, authUserID, storeID uuid.UUID, filters ListFilters, page pagination.Params) (*OrderList, error)
	UpdateOrderStatus(ctx context.Context, input UpdateStatusInput) (*OrderView, error)
	ConfirmOrder(ctx context.Context, input UpdateStatusInput) (*OrderView, error)
	RejectOrder(ctx context.Context, input UpdateStatusInput) (*OrderView, error)
	ConfirmDelivery(ctx context.Context, input ConfirmDeliveryInput) (*OrderView, error)
}

type service struct {
	repo            Repository
	tx              txRunner
	events          outboxPublisher
	logg            *logger.Logger
	createTxTimeout time.Duration
}

// NewService builds the order service. createTxTimeout bounds the
// multi-table checkout transaction.
func NewService(repo Repository, tx txRunner, events outboxPublisher, logg *logger.Logger, createTxTimeout time.Duration) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("order repository is required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner is required")
	}
	if events == nil {
		return nil, fmt.Errorf("outbox publisher is required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger is required")
	}
	if createTxTimeout <= 0 {
		createTxTimeout = 15 * time.Second
	}
	return &service{
		repo:            repo,
		tx:              tx,
		events:          events,
		logg:            logg,
		createTxTimeout: createTxTimeout,
	}, nil
}

// ResolveCustomer maps a provider identity onto the local customer row.
func (s *service) ResolveCustomer(ctx context.Context, authUserID uuid.UUID) (uuid.UUID, error) {
	if authUserID == uuid.Nil {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	customer, err := s.repo.FindCustomerByAuthID(ctx, authUserID)
	if err != nil {
		return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load customer")
	}
	if customer == nil {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "customer account not found")
	}
	return customer.ID, nil
}

func (s *service) CreateOrder(ctx context.Context, input CreateOrderInput) (*OrderView, error) {
	if err := validateCreateInput(input); err != nil {
		return nil, err
	}

	store, err := s.repo.FindStore(ctx, input.StoreID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load store")
	}
	if store == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "store not found")
	}
	if !store.IsActive {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "store is not accepting orders")
	}
	if !acceptsFulfillment(store, input.Fulfillment) {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict,
			fmt.Sprintf("store does not offer %s fulfillment", input.Fulfillment))
	}
	if !acceptsPayment(store, input.PaymentMethod) {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict,
			fmt.Sprintf("store does not accept %s payments", input.PaymentMethod))
	}

	var option *models.StoreDeliveryOption
	if input.DeliveryOptionID != nil {
		option, err = s.repo.FindDeliveryOption(ctx, store.ID, *input.DeliveryOptionID)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load delivery option")
		}
		if option == nil {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "delivery option not available").
				WithDetails(map[string]string{"delivery_option_id": "delivery option does not exist for this store"})
		}
	}

	productIDs := make([]uuid.UUID, 0, len(input.Items))
	for _, item := range input.Items {
		productIDs = append(productIDs, item.ProductID)
	}
	productRows, err := s.repo.FindProductsByIDs(ctx, store.ID, productIDs)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load products")
	}
	products := make(map[uuid.UUID]models.Product, len(productRows))
	for _, product := range productRows {
		products[product.ID] = product
	}

	items, subtotal, err := buildOrderItems(input.Items, products)
	if err != nil {
		return nil, err
	}
	if subtotal.LessThan(store.MinOrderValue) {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict,
			fmt.Sprintf("order subtotal %s is below the store minimum of %s",
				subtotal.StringFixed(2), store.MinOrderValue.StringFixed(2)))
	}

	fee := deliveryFeeFor(store, option, input.Fulfillment, subtotal)
	order := &models.Order{
		StoreID:          store.ID,
		CustomerID:       input.CustomerID,
		DeliveryOptionID: input.DeliveryOptionID,
		Fulfillment:      input.Fulfillment,
		PickupSlot:       input.PickupSlot,
		TotalAmount:      subtotal.Add(fee),
		DeliveryFee:      fee,
		Status:           enums.OrderStatusPending,
		PaymentMethod:    input.PaymentMethod,
		PaymentStatus:    enums.PaymentStatusPending,
		Observations:     input.Observations,
		Items:            items,
	}
	if input.Fulfillment == enums.FulfillmentMethodDelivery {
		order.DeliveryAddress = &models.OrderDeliveryAddress{
			Street:       input.DeliveryAddress.Street,
			Number:       input.DeliveryAddress.Number,
			Neighborhood: input.DeliveryAddress.Neighborhood,
			City:         input.DeliveryAddress.City,
			State:        input.DeliveryAddress.State,
			ZipCode:      input.DeliveryAddress.ZipCode,
			Complement:   input.DeliveryAddress.Complement,
		}
	}

	err = s.tx.WithTxTimeout(ctx, s.createTxTimeout, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		if err := repo.CreateOrder(ctx, order); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: insert order")
		}
		history := &models.OrderStatusHistory{
			OrderID:   order.ID,
			NewStatus: enums.OrderStatusPending,
			ActorID:   &input.CustomerID,
		}
		if err := repo.InsertStatusHistory(ctx, history); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: insert status history")
		}
		itemCount := 0
		for _, item := range order.Items {
			itemCount += item.Quantity
		}
		event := outbox.DomainEvent{
			EventType:     enums.OutboxEventOrderCreated,
			AggregateType: enums.OutboxAggregateOrder,
			AggregateID:   order.ID,
			Actor:         &outbox.ActorRef{UserID: input.CustomerID, Role: "customer"},
			Data: payloads.OrderCreatedEvent{
				OrderID:           order.ID,
				StoreID:           order.StoreID,
				CustomerID:        order.CustomerID,
				FulfillmentMethod: order.Fulfillment,
				PaymentMethod:     order.PaymentMethod,
				TotalAmount:       order.TotalAmount,
				DeliveryFee:       order.DeliveryFee,
				ItemCount:         itemCount,
				CreatedAt:         order.CreatedAt,
			},
		}
		if err := s.events.Emit(ctx, tx, event); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "outbox: emit order created")
		}
		return nil
	})
	if err != nil {
		if appErr := pkgerrors.As(err); appErr != nil {
			return nil, appErr
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "order create transaction")
	}

	ctx = s.logg.WithFields(s.logg.WithStoreID(ctx, store.ID.String()), map[string]any{
		"order_id":     order.ID.String(),
		"total_amount": order.TotalAmount.StringFixed(2),
	})
	s.logg.Info(ctx, "order created")

	return s.readView(ctx, order.ID)
}

func (s *service) GetOrder(ctx context.Context, orderID uuid.UUID) (*OrderView, error) {
	if orderID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id required")
	}
	return s.readView(ctx, orderID)
}

func (s *service) ListOrders(ctx context.Context, filters ListFilters, page pagination.Params) (*OrderList, error) {
	page = pagination.Normalize(page)
	records, total, err := s.repo.ListDetailed(ctx, filters, page)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list orders")
	}
	list := &OrderList{
		Orders:     make([]OrderView, 0, len(records)),
		Pagination: pagination.NewMeta(page, total),
	}
	for _, record := range records {
		list.Orders = append(list.Orders, orderViewFromRecord(record, nil))
	}
	return list, nil
}

// GetStoreOrder reads one order on behalf of a merchant managing the store.
func (s *service) GetStoreOrder(ctx context.Context, authUserID, storeID, orderID uuid.UUID) (*OrderView, error) {
	order, _, _, err := s.loadManagedOrder(ctx, UpdateStatusInput{
		OrderID:    orderID,
		StoreID:    storeID,
		AuthUserID: authUserID,
	})
	if err != nil {
		return nil, err
	}
	return s.readView(ctx, order.ID)
}

// ListStoreOrders lists a store's orders on behalf of a managing merchant.
func (s *service) ListStoreOrders(ctx context.Context, authUserID, storeID uuid.UUID, filters ListFilters, page pagination.Params) (*OrderList, error) {
	if storeID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "store id required")
	}
	store, err := s.repo.FindStore(ctx, storeID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load store")
	}
	if store == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "store not found")
	}

	merchant, err := s.repo.FindMerchantByAuthID(ctx, authUserID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load merchant")
	}
	if merchant == nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "merchant account not found")
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

	filters.StoreID = &storeID
	return s.ListOrders(ctx, filters, page)
}

// UpdateOrderStatus performs a merchant-driven transition. Workflow
// failures surface as the package sentinel errors so the boundary can map
// them onto distinct responses.
func (s *service) UpdateOrderStatus(ctx context.Context, input UpdateStatusInput) (*OrderView, error) {
	order, store, merchant, err := s.loadManagedOrder(ctx, input)
	if err != nil {
		return nil, err
	}

	if err := validateTransition(order.Status, input.Status, order.Fulfillment); err != nil {
		return nil, err
	}
	if input.Status == enums.OrderStatusRejected && trimmed(input.Reason) == "" {
		return nil, ErrReasonRequired
	}

	updates := map[string]any{"status": input.Status, "updated_at": time.Now()}
	if input.EstimatedDeliveryTime != nil {
		updates["estimated_delivery_time"] = *input.EstimatedDeliveryTime
	}
	if input.Observations != nil {
		updates["observations"] = *input.Observations
	}
	if input.Status == enums.OrderStatusRejected || input.Status == enums.OrderStatusCancelled {
		updates["cancellation_reason"] = trimmed(input.Reason)
	}

	actor := outbox.ActorRef{UserID: merchant.ID, StoreID: &store.ID, Role: "merchant"}
	if err := s.applyTransition(ctx, order, input.Status, input.Reason, &merchant.ID, actor, updates); err != nil {
		return nil, err
	}

	return s.readView(ctx, order.ID)
}

func (s *service) ConfirmOrder(ctx context.Context, input UpdateStatusInput) (*OrderView, error) {
	input.Status = enums.OrderStatusConfirmed
	return s.UpdateOrderStatus(ctx, input)
}

func (s *service) RejectOrder(ctx context.Context, input UpdateStatusInput) (*OrderView, error) {
	input.Status = enums.OrderStatusRejected
	return s.UpdateOrderStatus(ctx, input)
}

// ConfirmDelivery closes a non-terminal order from the customer side with
// optional rating and feedback.
func (s *service) ConfirmDelivery(ctx context.Context, input ConfirmDeliveryInput) (*OrderView, error) {
	order, err := s.repo.FindOrder(ctx, input.OrderID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load order")
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}
	if order.CustomerID != input.CustomerID {
		return nil, ErrNotOrderCustomer
	}
	if order.Status.IsTerminal() {
		return nil, ErrOrderAlreadyClosed
	}
	if input.Rating != nil && (*input.Rating < 1 || *input.Rating > 5) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid rating").
			WithDetails(map[string]string{"rating": "rating must be between 1 and 5"})
	}

	updates := map[string]any{"status": enums.OrderStatusDelivered, "updated_at": time.Now()}
	if input.Rating != nil {
		updates["rating"] = *input.Rating
	}
	if input.Feedback != nil {
		updates["feedback"] = *input.Feedback
	}

	actor := outbox.ActorRef{UserID: input.CustomerID, Role: "customer"}
	if err := s.applyTransition(ctx, order, enums.OrderStatusDelivered, nil, &input.CustomerID, actor, updates); err != nil {
		return nil, err
	}
	return s.readView(ctx, order.ID)
}

// applyTransition persists the status change, its history row, and the
// outbox event in one transaction.
func (s *service) applyTransition(ctx context.Context, order *models.Order, target enums.OrderStatus, reason *string, actorID *uuid.UUID, actor outbox.ActorRef, updates map[string]any) error {
	previous := order.Status
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		if err := repo.UpdateOrder(ctx, order.ID, updates); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: update order")
		}
		history := &models.OrderStatusHistory{
			OrderID:        order.ID,
			PreviousStatus: &previous,
			NewStatus:      target,
			ActorID:        actorID,
			Reason:         reason,
		}
		if err := repo.InsertStatusHistory(ctx, history); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: insert status history")
		}
		event := outbox.DomainEvent{
			EventType:     enums.OutboxEventOrderStatusChanged,
			AggregateType: enums.OutboxAggregateOrder,
			AggregateID:   order.ID,
			Actor:         &actor,
			Data: payloads.OrderStatusChangedEvent{
				OrderID:        order.ID,
				StoreID:        order.StoreID,
				CustomerID:     order.CustomerID,
				PreviousStatus: previous,
				NewStatus:      target,
				ChangedAt:      time.Now(),
				Reason:         trimmed(reason),
			},
		}
		if err := s.events.Emit(ctx, tx, event); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "outbox: emit status change")
		}
		return nil
	})
	if err != nil {
		if appErr := pkgerrors.As(err); appErr != nil {
			return appErr
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "order status transaction")
	}

	ctx = s.logg.WithFields(s.logg.WithStoreID(ctx, order.StoreID.String()), map[string]any{
		"order_id":        order.ID.String(),
		"previous_status": previous.String(),
		"new_status":      target.String(),
	})
	s.logg.Info(ctx, "order status changed")
	order.Status = target
	return nil
}

// loadManagedOrder resolves the order and checks the acting merchant owns
// or actively belongs to its store.
func (s *service) loadManagedOrder(ctx context.Context, input UpdateStatusInput) (*models.Order, *models.Store, *models.Merchant, error) {
	if input.OrderID == uuid.Nil {
		return nil, nil, nil, ErrOrderNotFound
	}
	order, err := s.repo.FindOrder(ctx, input.OrderID)
	if err != nil {
		return nil, nil, nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load order")
	}
	if order == nil {
		return nil, nil, nil, ErrOrderNotFound
	}
	if input.StoreID != uuid.Nil && order.StoreID != input.StoreID {
		return nil, nil, nil, ErrOrderNotFound
	}

	store, err := s.repo.FindStore(ctx, order.StoreID)
	if err != nil {
		return nil, nil, nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load store")
	}
	if store == nil {
		return nil, nil, nil, ErrOrderNotFound
	}

	merchant, err := s.repo.FindMerchantByAuthID(ctx, input.AuthUserID)
	if err != nil {
		return nil, nil, nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load merchant")
	}
	if merchant == nil {
		return nil, nil, nil, ErrNoPermission
	}
	if store.MerchantID != merchant.ID {
		member, err := s.repo.HasActiveMembership(ctx, store.ID, merchant.ID)
		if err != nil {
			return nil, nil, nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: check store membership")
		}
		if !member {
			return nil, nil, nil, ErrNoPermission
		}
	}
	return order, store, merchant, nil
}

func (s *service) readView(ctx context.Context, orderID uuid.UUID) (*OrderView, error) {
	record, err := s.repo.GetDetailed(ctx, orderID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: read order view")
	}
	if record == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
	}
	items, err := s.repo.ListItems(ctx, orderID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: read order items")
	}
	view := orderViewFromRecord(*record, items)
	return &view, nil
}

func validateCreateInput(input CreateOrderInput) error {
	fields := map[string]string{}
	if input.CustomerID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeUnauthorized, "customer identity missing")
	}
	if input.StoreID == uuid.Nil {
		fields["store_id"] = "store id is required"
	}
	if !input.Fulfillment.IsValid() {
		fields["fulfillment_method"] = "invalid fulfillment method"
	}
	if !input.PaymentMethod.IsValid() {
		fields["payment_method"] = "invalid payment method"
	}
	if len(input.Items) == 0 {
		fields["items"] = "at least one item is required"
	}
	if input.Fulfillment == enums.FulfillmentMethodDelivery && input.DeliveryAddress == nil {
		fields["delivery_address"] = "delivery orders require a delivery address"
	}
	if input.Fulfillment != enums.FulfillmentMethodDelivery && input.DeliveryOptionID != nil {
		fields["delivery_option_id"] = "delivery options only apply to delivery orders"
	}
	if len(fields) > 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "invalid order").WithDetails(fields)
	}
	return nil
}

func trimmed(value *string) string {
	if value == nil {
		return ""
	}
	return strings.TrimSpace(*value)
}
