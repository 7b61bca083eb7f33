package domain

import (
	"errors"
	"time"
)

// OrderStatus represents the lifecycle state of an order.
type OrderStatus string

const (
	StatusPending  OrderStatus = "PENDING"
	StatusFinished OrderStatus = "FINISHED"
	StatusCanceled OrderStatus = "CANCELED"
)

// validTransitions defines the allowed state machine transitions.
// FINISHED and CANCELED are terminal.
var validTransitions = map[OrderStatus][]OrderStatus{
	StatusPending: {StatusFinished, StatusCanceled},
}

var ErrOrderNotFound = errors.New("order not found")
var ErrItemNotFound = errors.New("order item not found")
var ErrForbidden = errors.New("permission denied")
var ErrInvalidTransition = errors.New("invalid status transition")
var ErrInvalidItem = errors.New("invalid order item")

// CanTransitionTo reports whether a transition from the current status to next is valid.
func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	for _, allowed := range validTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// OrderItem is a single line entry on an order. Items live embedded in their
// order, so deleting an order removes its items with it.
type OrderItem struct {
	ID        string  `json:"id" bson:"id"`
	Quantity  int     `json:"quantity" bson:"quantity"`
	Flavor    string  `json:"flavor" bson:"flavor"`
	Size      string  `json:"size" bson:"size"`
	UnitPrice float64 `json:"unit_price" bson:"unit_price"`
}

// Order is the core aggregate root. Price is derived: it always equals the
// sum of quantity × unit_price over the current items.
type Order struct {
	ID        string      `json:"id" bson:"_id,omitempty"`
	UserID    string      `json:"user_id" bson:"user_id"`
	Status    OrderStatus `json:"status" bson:"status"`
	Price     float64     `json:"price" bson:"price"`
	Items     []OrderItem `json:"items" bson:"items"`
	CreatedAt time.Time   `json:"created_at" bson:"created_at"`
	UpdatedAt time.Time   `json:"updated_at" bson:"updated_at"`
}

// TotalPrice re-sums the order price over the current items.
func (o *Order) TotalPrice() float64 {
	var total float64
	for _, item := range o.Items {
		total += float64(item.Quantity) * item.UnitPrice
	}
	return total
}
