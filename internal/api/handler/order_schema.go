package handler

import "github.com/hotslice/ordering-system/internal/core/domain"

// errorResponse is the standard error envelope returned on all 4xx/5xx responses.
type errorResponse struct {
	Error string `json:"error"`
}

// --- Request / Response types ---

type createOrderRequest struct {
	UserID string `json:"user_id" validate:"required"`
}

type addItemRequest struct {
	Quantity  int     `json:"quantity"   validate:"required,gt=0"`
	Flavor    string  `json:"flavor"     validate:"required"`
	Size      string  `json:"size"`
	UnitPrice float64 `json:"unit_price" validate:"gte=0"`
}

type createOrderResponse struct {
	Message string        `json:"message"`
	Order   *domain.Order `json:"order"`
}

type orderStatusResponse struct {
	Message string        `json:"message"`
	Order   *domain.Order `json:"order"`
}

type addItemResponse struct {
	Message    string  `json:"message"`
	ItemID     string  `json:"item_id"`
	OrderPrice float64 `json:"order_price"`
}

type removeItemResponse struct {
	Message              string        `json:"message"`
	QuantityItemsOrdered int           `json:"quantity_items_ordered"`
	Order                *domain.Order `json:"order"`
}

type orderDetailResponse struct {
	QuantityItemsOrdered int           `json:"quantity_items_ordered"`
	Order                *domain.Order `json:"order"`
}

type listOrdersResponse struct {
	Orders []*domain.Order `json:"orders"`
}
