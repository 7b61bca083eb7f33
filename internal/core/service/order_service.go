package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/hotslice/ordering-system/internal/core/domain"
	"github.com/hotslice/ordering-system/internal/core/ports"
)

// OrderService implements the order lifecycle: creation, line-item mutation
// with price recomputation, and status transitions. Authorization is decided
// by the domain policy (domain.CanModify / domain.CanListAll) and is always
// evaluated after the existence check, so absent orders surface as not-found
// rather than forbidden.
type OrderService struct {
	orders ports.OrderRepository
	users  ports.UserRepository
	log    zerolog.Logger
}

func NewOrderService(orders ports.OrderRepository, users ports.UserRepository, log zerolog.Logger) *OrderService {
	return &OrderService{orders: orders, users: users, log: log}
}

// Create inserts a new PENDING order with price 0 owned by ownerID. The owner
// must be a known user.
func (s *OrderService) Create(ctx context.Context, requester *domain.User, ownerID string) (*domain.Order, error) {
	if _, err := s.users.FindByID(ctx, ownerID); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	order := &domain.Order{
		UserID:    ownerID,
		Status:    domain.StatusPending,
		Price:     0,
		Items:     []domain.OrderItem{},
		CreatedAt: now,
		UpdatedAt: now,
	}

	created, err := s.orders.Create(ctx, order)
	if err != nil {
		s.log.Error().Err(err).Str("owner_id", ownerID).Msg("failed to create order")
		return nil, err
	}

	s.log.Info().Str("order_id", created.ID).Str("owner_id", ownerID).Str("requester_id", requester.ID).Msg("order created")
	return created, nil
}

// AddItem appends a line item to the order and returns the recomputed price.
func (s *OrderService) AddItem(ctx context.Context, requester *domain.User, orderID string, input ports.AddItemInput) (*ports.AddItemResult, error) {
	order, err := s.orders.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if !domain.CanModify(requester, order) {
		return nil, domain.ErrForbidden
	}
	if err := validateItem(input); err != nil {
		return nil, err
	}

	item := domain.OrderItem{
		ID:        uuid.NewString(),
		Quantity:  input.Quantity,
		Flavor:    input.Flavor,
		Size:      input.Size,
		UnitPrice: input.UnitPrice,
	}

	updated, err := s.orders.AddItem(ctx, order.ID, item)
	if err != nil {
		s.log.Error().Err(err).Str("order_id", order.ID).Msg("failed to add item")
		return nil, err
	}

	s.log.Info().Str("order_id", order.ID).Str("item_id", item.ID).Float64("order_price", updated.Price).Msg("item added")
	return &ports.AddItemResult{ItemID: item.ID, OrderPrice: updated.Price}, nil
}

// RemoveItem deletes a line item, resolving its parent order first. The price
// is recomputed over the remaining items.
func (s *OrderService) RemoveItem(ctx context.Context, requester *domain.User, itemID string) (*ports.RemoveItemResult, error) {
	order, err := s.orders.FindByItemID(ctx, itemID)
	if err != nil {
		return nil, err
	}
	if !domain.CanModify(requester, order) {
		return nil, domain.ErrForbidden
	}

	updated, err := s.orders.RemoveItem(ctx, order.ID, itemID)
	if err != nil {
		s.log.Error().Err(err).Str("order_id", order.ID).Str("item_id", itemID).Msg("failed to remove item")
		return nil, err
	}

	s.log.Info().Str("order_id", order.ID).Str("item_id", itemID).Float64("order_price", updated.Price).Msg("item removed")
	return &ports.RemoveItemResult{RemainingItems: len(updated.Items), Order: updated}, nil
}

// Cancel transitions the order to CANCELED.
func (s *OrderService) Cancel(ctx context.Context, requester *domain.User, orderID string) (*domain.Order, error) {
	return s.transition(ctx, requester, orderID, domain.StatusCanceled)
}

// Finish transitions the order to FINISHED.
func (s *OrderService) Finish(ctx context.Context, requester *domain.User, orderID string) (*domain.Order, error) {
	return s.transition(ctx, requester, orderID, domain.StatusFinished)
}

func (s *OrderService) transition(ctx context.Context, requester *domain.User, orderID string, next domain.OrderStatus) (*domain.Order, error) {
	order, err := s.orders.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if !domain.CanModify(requester, order) {
		return nil, domain.ErrForbidden
	}
	if !order.Status.CanTransitionTo(next) {
		return nil, fmt.Errorf("%w: %s is terminal", domain.ErrInvalidTransition, order.Status)
	}

	updated, err := s.orders.UpdateStatus(ctx, order.ID, order.Status, next)
	if err != nil {
		return nil, err
	}

	s.log.Info().Str("order_id", order.ID).Str("status", string(next)).Str("requester_id", requester.ID).Msg("order status changed")
	return updated, nil
}

// Get returns a single order plus its item count.
func (s *OrderService) Get(ctx context.Context, requester *domain.User, orderID string) (*ports.OrderDetail, error) {
	order, err := s.orders.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if !domain.CanModify(requester, order) {
		return nil, domain.ErrForbidden
	}
	return &ports.OrderDetail{ItemCount: len(order.Items), Order: order}, nil
}

// ListAll returns every order in the system. Admin only.
func (s *OrderService) ListAll(ctx context.Context, requester *domain.User) ([]*domain.Order, error) {
	if !domain.CanListAll(requester) {
		return nil, domain.ErrForbidden
	}
	return s.orders.ListAll(ctx)
}

// ListOwn returns the requester's orders. Ownership is the only filter; no
// policy check beyond identity.
func (s *OrderService) ListOwn(ctx context.Context, requester *domain.User) ([]*domain.Order, error) {
	return s.orders.ListByOwner(ctx, requester.ID)
}

func validateItem(input ports.AddItemInput) error {
	if input.Quantity < 1 {
		return fmt.Errorf("%w: quantity must be a positive integer", domain.ErrInvalidItem)
	}
	if input.Flavor == "" {
		return fmt.Errorf("%w: flavor is required", domain.ErrInvalidItem)
	}
	if input.UnitPrice < 0 {
		return fmt.Errorf("%w: unit_price cannot be negative", domain.ErrInvalidItem)
	}
	return nil
}
