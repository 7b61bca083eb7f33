package ports

import (
	"context"

	"github.com/hotslice/ordering-system/internal/core/domain"
)

// AddItemInput carries the fields of a new line item.
type AddItemInput struct {
	Quantity  int
	Flavor    string
	Size      string
	UnitPrice float64
}

// AddItemResult is returned after a line item is added.
type AddItemResult struct {
	ItemID string
	// OrderPrice is the recomputed total for the whole order.
	OrderPrice float64
}

// RemoveItemResult is returned after a line item is removed.
type RemoveItemResult struct {
	RemainingItems int
	Order          *domain.Order
}

// OrderDetail is the single-order view.
type OrderDetail struct {
	ItemCount int
	Order     *domain.Order
}

// OrderService defines the order lifecycle use cases. Every operation that
// touches a specific order checks existence first and then authorization, so
// an absent order is reported as not-found rather than forbidden.
type OrderService interface {
	Create(ctx context.Context, requester *domain.User, ownerID string) (*domain.Order, error)
	AddItem(ctx context.Context, requester *domain.User, orderID string, input AddItemInput) (*AddItemResult, error)
	RemoveItem(ctx context.Context, requester *domain.User, itemID string) (*RemoveItemResult, error)
	Cancel(ctx context.Context, requester *domain.User, orderID string) (*domain.Order, error)
	Finish(ctx context.Context, requester *domain.User, orderID string) (*domain.Order, error)
	Get(ctx context.Context, requester *domain.User, orderID string) (*OrderDetail, error)
	ListAll(ctx context.Context, requester *domain.User) ([]*domain.Order, error)
	ListOwn(ctx context.Context, requester *domain.User) ([]*domain.Order, error)
}
