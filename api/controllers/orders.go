package controllers

import (
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/vitrinelabs/vitrine-backend/api/responses"
	"github.com/vitrinelabs/vitrine-backend/api/validators"
	ordersvc "github.com/vitrinelabs/vitrine-backend/internal/orders"
	"github.com/vitrinelabs/vitrine-backend/pkg/enums"
	pkgerrors "github.com/vitrinelabs/vitrine-backend/pkg/errors"
	"github.com/vitrinelabs/vitrine-backend/pkg/logger"
	"github.com/vitrinelabs/vitrine-backend/pkg/pagination"
)

// mapOrderError translates workflow sentinels into taxonomy errors. Anything
// already carrying a code passes through untouched.
func mapOrderError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, ordersvc.ErrOrderNotFound):
		return pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "order not found")
	case errors.Is(err, ordersvc.ErrNoPermission):
		return pkgerrors.Wrap(pkgerrors.CodeForbidden, err, "no permission on this order")
	case errors.Is(err, ordersvc.ErrNotOrderCustomer):
		return pkgerrors.Wrap(pkgerrors.CodeForbidden, err, "order belongs to another customer")
	case errors.Is(err, ordersvc.ErrReasonRequired):
		return pkgerrors.Wrap(pkgerrors.CodeValidation, err, "rejection reason is required").
			WithDetails(map[string]string{"reason": "required when rejecting an order"})
	case errors.Is(err, ordersvc.ErrInvalidTransition),
		errors.Is(err, ordersvc.ErrDeliveryOnlyStatus),
		errors.Is(err, ordersvc.ErrOrderAlreadyClosed),
		errors.Is(err, ordersvc.ErrUnknownTargetStatus):
		return pkgerrors.Wrap(pkgerrors.CodeStateConflict, err, err.Error())
	default:
		return err
	}
}

type createOrderRequest struct {
	StoreID uuid.UUID `json:"store_id" validate:"required"`
	ordersvc.CreateOrderInput
}

// CreateOrder runs checkout for the authenticated customer.
func CreateOrder(svc ordersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		principal, err := requirePrincipal(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		customerID, err := svc.ResolveCustomer(r.Context(), principal.ID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, mapOrderError(err))
			return
		}

		var body createOrderRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		input := body.CreateOrderInput
		input.CustomerID = customerID
		input.StoreID = body.StoreID

		order, err := svc.CreateOrder(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, mapOrderError(err))
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, order)
	}
}

// ListOrders returns the authenticated customer's order history.
func ListOrders(svc ordersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		principal, err := requirePrincipal(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		customerID, err := svc.ResolveCustomer(r.Context(), principal.ID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, mapOrderError(err))
			return
		}

		filters, err := orderFiltersFromQuery(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		filters.CustomerID = &customerID

		list, err := svc.ListOrders(r.Context(), filters, pagination.FromQuery(r.URL.Query()))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, mapOrderError(err))
			return
		}
		responses.WriteSuccess(w, list)
	}
}

// GetOrder reads one of the authenticated customer's orders. Orders owned
// by other customers are indistinguishable from missing ones.
func GetOrder(svc ordersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		principal, err := requirePrincipal(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		customerID, err := svc.ResolveCustomer(r.Context(), principal.ID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, mapOrderError(err))
			return
		}
		orderID, err := pathUUID(r, "orderId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		order, err := svc.GetOrder(r.Context(), orderID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, mapOrderError(err))
			return
		}
		if order.CustomerID != customerID {
			responses.WriteError(r.Context(), logg, w,
				pkgerrors.New(pkgerrors.CodeNotFound, "order not found"))
			return
		}
		responses.WriteSuccess(w, order)
	}
}

type confirmDeliveryRequest struct {
	Rating   *int    `json:"rating,omitempty" validate:"omitempty,min=1,max=5"`
	Feedback *string `json:"feedback,omitempty"`
}

// ConfirmDelivery closes an order from the customer side with optional
// rating and feedback.
func ConfirmDelivery(svc ordersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		principal, err := requirePrincipal(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		customerID, err := svc.ResolveCustomer(r.Context(), principal.ID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, mapOrderError(err))
			return
		}
		orderID, err := pathUUID(r, "orderId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body confirmDeliveryRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		order, err := svc.ConfirmDelivery(r.Context(), ordersvc.ConfirmDeliveryInput{
			OrderID:    orderID,
			CustomerID: customerID,
			Rating:     body.Rating,
			Feedback:   body.Feedback,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, mapOrderError(err))
			return
		}
		responses.WriteSuccess(w, order)
	}
}

// MerchantListStoreOrders lists the store's orders for a managing merchant.
func MerchantListStoreOrders(svc ordersvc.Service, logg *logger.Logger) http.HandlerFunc {
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
		filters, err := orderFiltersFromQuery(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		list, err := svc.ListStoreOrders(r.Context(), principal.ID, storeID, filters,
			pagination.FromQuery(r.URL.Query()))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, mapOrderError(err))
			return
		}
		responses.WriteSuccess(w, list)
	}
}

// MerchantGetStoreOrder reads one store order for a managing merchant.
func MerchantGetStoreOrder(svc ordersvc.Service, logg *logger.Logger) http.HandlerFunc {
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
		orderID, err := pathUUID(r, "orderId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		order, err := svc.GetStoreOrder(r.Context(), principal.ID, storeID, orderID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, mapOrderError(err))
			return
		}
		responses.WriteSuccess(w, order)
	}
}

// MerchantUpdateOrderStatus drives the forward-only status machine.
func MerchantUpdateOrderStatus(svc ordersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		input, err := managedOrderInput(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body ordersvc.UpdateStatusInput
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		input.Status = body.Status
		input.EstimatedDeliveryTime = body.EstimatedDeliveryTime
		input.Observations = body.Observations
		input.Reason = body.Reason

		order, err := svc.UpdateOrderStatus(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, mapOrderError(err))
			return
		}
		responses.WriteSuccess(w, order)
	}
}

type confirmOrderRequest struct {
	EstimatedDeliveryTime *time.Time `json:"estimated_delivery_time,omitempty"`
	Observations          *string    `json:"observations,omitempty"`
}

// MerchantConfirmOrder accepts a pending order, optionally attaching an ETA.
func MerchantConfirmOrder(svc ordersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		input, err := managedOrderInput(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body confirmOrderRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		input.EstimatedDeliveryTime = body.EstimatedDeliveryTime
		input.Observations = body.Observations

		order, err := svc.ConfirmOrder(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, mapOrderError(err))
			return
		}
		responses.WriteSuccess(w, order)
	}
}

type rejectOrderRequest struct {
	Reason string `json:"reason" validate:"required"`
}

// MerchantRejectOrder declines a pending order with a mandatory reason.
func MerchantRejectOrder(svc ordersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		input, err := managedOrderInput(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body rejectOrderRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		input.Reason = &body.Reason

		order, err := svc.RejectOrder(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, mapOrderError(err))
			return
		}
		responses.WriteSuccess(w, order)
	}
}

func managedOrderInput(r *http.Request) (ordersvc.UpdateStatusInput, error) {
	principal, err := requirePrincipal(r)
	if err != nil {
		return ordersvc.UpdateStatusInput{}, err
	}
	storeID, err := pathUUID(r, "storeId")
	if err != nil {
		return ordersvc.UpdateStatusInput{}, err
	}
	orderID, err := pathUUID(r, "orderId")
	if err != nil {
		return ordersvc.UpdateStatusInput{}, err
	}
	return ordersvc.UpdateStatusInput{
		OrderID:    orderID,
		StoreID:    storeID,
		AuthUserID: principal.ID,
	}, nil
}

func orderFiltersFromQuery(r *http.Request) (ordersvc.ListFilters, error) {
	var filters ordersvc.ListFilters
	query := r.URL.Query()

	if raw := query.Get("status"); raw != "" {
		status := enums.OrderStatus(raw)
		if !status.IsValid() {
			return filters, pkgerrors.New(pkgerrors.CodeValidation, "invalid status filter").
				WithDetails(map[string]string{"status": "unknown order status"})
		}
		filters.Status = &status
	}
	if raw := query.Get("store_id"); raw != "" {
		storeID, err := uuid.Parse(raw)
		if err != nil {
			return filters, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid store_id filter").
				WithDetails(map[string]string{"store_id": "must be a valid uuid"})
		}
		filters.StoreID = &storeID
	}
	if raw := query.Get("from"); raw != "" {
		from, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return filters, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid from filter").
				WithDetails(map[string]string{"from": "must be an RFC 3339 timestamp"})
		}
		filters.From = &from
	}
	if raw := query.Get("to"); raw != "" {
		to, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return filters, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid to filter").
				WithDetails(map[string]string{"to": "must be an RFC 3339 timestamp"})
		}
		filters.To = &to
	}
	return filters, nil
}
