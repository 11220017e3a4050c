package orders

import (
	"errors"

	"github.com/vitrinelabs/vitrine-backend/pkg/enums"
)

// Sentinel workflow failures. The HTTP boundary maps them onto the error
// taxonomy so callers can branch on cause.
var (
	ErrOrderNotFound       = errors.New("order not found")
	ErrNoPermission        = errors.New("no permission on order")
	ErrInvalidTransition   = errors.New("invalid status transition")
	ErrDeliveryOnlyStatus  = errors.New("out_for_delivery is only valid for delivery orders")
	ErrOrderAlreadyClosed  = errors.New("order is in a terminal status")
	ErrNotOrderCustomer    = errors.New("order belongs to another customer")
	ErrReasonRequired      = errors.New("rejection reason is required")
	ErrUnknownTargetStatus = errors.New("unknown target status")
)

// forwardTransitions is the forward-only status table. No state is ever
// revisited.
var forwardTransitions = map[enums.OrderStatus][]enums.OrderStatus{
	enums.OrderStatusPending: {
		enums.OrderStatusConfirmed,
		enums.OrderStatusCancelled,
		enums.OrderStatusRejected,
	},
	enums.OrderStatusConfirmed: {
		enums.OrderStatusPreparing,
	},
	enums.OrderStatusPreparing: {
		enums.OrderStatusReady,
	},
	enums.OrderStatusReady: {
		enums.OrderStatusOutForDelivery,
		enums.OrderStatusDelivered,
	},
	enums.OrderStatusOutForDelivery: {
		enums.OrderStatusDelivered,
	},
}

// validateTransition checks the forward-only table and the fulfillment
// restriction on out_for_delivery.
func validateTransition(from, to enums.OrderStatus, fulfillment enums.FulfillmentMethod) error {
	if !to.IsValid() {
		return ErrUnknownTargetStatus
	}
	if to == enums.OrderStatusOutForDelivery && fulfillment != enums.FulfillmentMethodDelivery {
		return ErrDeliveryOnlyStatus
	}
	// Delivery orders reach delivered through out_for_delivery; pickup
	// orders go straight from ready.
	if from == enums.OrderStatusReady && to == enums.OrderStatusDelivered &&
		fulfillment == enums.FulfillmentMethodDelivery {
		return ErrInvalidTransition
	}
	for _, allowed := range forwardTransitions[from] {
		if allowed == to {
			return nil
		}
	}
	return ErrInvalidTransition
}
