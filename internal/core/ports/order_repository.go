package ports

import (
	"context"

	"github.com/hotslice/ordering-system/internal/core/domain"
)

// OrderRepository defines persistence operations for orders. Items are stored
// embedded in their order, so every item mutation together with the price
// recomputation is a single atomic write against one document.
type OrderRepository interface {
	Create(ctx context.Context, order *domain.Order) (*domain.Order, error)
	FindByID(ctx context.Context, id string) (*domain.Order, error)
	// FindByItemID resolves the order containing the given line item.
	// Returns domain.ErrItemNotFound when no order holds it.
	FindByItemID(ctx context.Context, itemID string) (*domain.Order, error)
	// AddItem appends the item and re-sums the order price in one atomic
	// update. Returns the updated order.
	AddItem(ctx context.Context, orderID string, item domain.OrderItem) (*domain.Order, error)
	// RemoveItem deletes the item and re-sums the order price in one atomic
	// update. Returns the updated order.
	RemoveItem(ctx context.Context, orderID, itemID string) (*domain.Order, error)
	// UpdateStatus transitions the order from the expected current status to
	// next. The update is conditional on the current status so concurrent
	// transitions cannot both win; a lost race surfaces as
	// domain.ErrInvalidTransition.
	UpdateStatus(ctx context.Context, orderID string, current, next domain.OrderStatus) (*domain.Order, error)
	ListAll(ctx context.Context) ([]*domain.Order, error)
	ListByOwner(ctx context.Context, userID string) ([]*domain.Order, error)
}
