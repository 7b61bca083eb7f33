package handler

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/hotslice/ordering-system/internal/api/metrics"
	"github.com/hotslice/ordering-system/internal/core/domain"
	"github.com/hotslice/ordering-system/internal/core/ports"
)

// OrderHandler handles HTTP requests for order operations.
type OrderHandler struct {
	service ports.OrderService
}

func NewOrderHandler(service ports.OrderService) *OrderHandler {
	return &OrderHandler{service: service}
}

// Create handles POST /orders/order.
//
// @Summary      Create a new order
// @Tags         orders
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createOrderRequest  true  "Order owner"
// @Success      201   {object}  createOrderResponse
// @Failure      400   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /orders/order [post]
func (h *OrderHandler) Create(c echo.Context) error {
	user, err := requester(c)
	if err != nil {
		return err
	}

	var req createOrderRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	order, err := h.service.Create(c.Request().Context(), user, req.UserID)
	if err != nil {
		return err
	}

	metrics.OrdersCreatedTotal.Inc()
	return c.JSON(http.StatusCreated, createOrderResponse{
		Message: fmt.Sprintf("Order successfully created. Order ID: %s", order.ID),
		Order:   order,
	})
}

// Cancel handles POST /orders/order/cancel/:id.
//
// @Summary      Cancel an order
// @Tags         orders
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Order id"
// @Success      200  {object}  orderStatusResponse
// @Failure      400  {object}  errorResponse
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /orders/order/cancel/{id} [post]
func (h *OrderHandler) Cancel(c echo.Context) error {
	user, err := requester(c)
	if err != nil {
		return err
	}

	order, err := h.service.Cancel(c.Request().Context(), user, c.Param("id"))
	if err != nil {
		return err
	}

	metrics.OrderTransitionsTotal.WithLabelValues(string(domain.StatusCanceled)).Inc()
	return c.JSON(http.StatusOK, orderStatusResponse{
		Message: fmt.Sprintf("order number: %s successfully canceled", order.ID),
		Order:   order,
	})
}

// Finish handles POST /orders/order/finish/:id.
//
// @Summary      Finish an order
// @Tags         orders
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Order id"
// @Success      200  {object}  orderStatusResponse
// @Failure      400  {object}  errorResponse
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /orders/order/finish/{id} [post]
func (h *OrderHandler) Finish(c echo.Context) error {
	user, err := requester(c)
	if err != nil {
		return err
	}

	order, err := h.service.Finish(c.Request().Context(), user, c.Param("id"))
	if err != nil {
		return err
	}

	metrics.OrderTransitionsTotal.WithLabelValues(string(domain.StatusFinished)).Inc()
	return c.JSON(http.StatusOK, orderStatusResponse{
		Message: fmt.Sprintf("order number: %s successfully finished", order.ID),
		Order:   order,
	})
}

// AddItem handles POST /orders/order/add-item/:id.
//
// @Summary      Add a line item to an order
// @Tags         orders
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string          true  "Order id"
// @Param        body  body      addItemRequest  true  "Line item"
// @Success      201   {object}  addItemResponse
// @Failure      400   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /orders/order/add-item/{id} [post]
func (h *OrderHandler) AddItem(c echo.Context) error {
	user, err := requester(c)
	if err != nil {
		return err
	}

	var req addItemRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	result, err := h.service.AddItem(c.Request().Context(), user, c.Param("id"), ports.AddItemInput{
		Quantity:  req.Quantity,
		Flavor:    req.Flavor,
		Size:      req.Size,
		UnitPrice: req.UnitPrice,
	})
	if err != nil {
		return err
	}

	metrics.ItemMutationsTotal.WithLabelValues("add").Inc()
	return c.JSON(http.StatusCreated, addItemResponse{
		Message:    "Item successfully created",
		ItemID:     result.ItemID,
		OrderPrice: result.OrderPrice,
	})
}

// RemoveItem handles POST /orders/order/remove-item/:item_id.
//
// @Summary      Remove a line item from its order
// @Tags         orders
// @Produce      json
// @Security     BearerAuth
// @Param        item_id  path      string  true  "Line item id"
// @Success      200      {object}  removeItemResponse
// @Failure      403      {object}  errorResponse
// @Failure      404      {object}  errorResponse
// @Router       /orders/order/remove-item/{item_id} [post]
func (h *OrderHandler) RemoveItem(c echo.Context) error {
	user, err := requester(c)
	if err != nil {
		return err
	}

	result, err := h.service.RemoveItem(c.Request().Context(), user, c.Param("item_id"))
	if err != nil {
		return err
	}

	metrics.ItemMutationsTotal.WithLabelValues("remove").Inc()
	return c.JSON(http.StatusOK, removeItemResponse{
		Message:              "Item successfully removed",
		QuantityItemsOrdered: result.RemainingItems,
		Order:                result.Order,
	})
}

// Get handles GET /orders/order/:id.
//
// @Summary      View a single order with its item count
// @Tags         orders
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Order id"
// @Success      200  {object}  orderDetailResponse
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /orders/order/{id} [get]
func (h *OrderHandler) Get(c echo.Context) error {
	user, err := requester(c)
	if err != nil {
		return err
	}

	detail, err := h.service.Get(c.Request().Context(), user, c.Param("id"))
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, orderDetailResponse{
		QuantityItemsOrdered: detail.ItemCount,
		Order:                detail.Order,
	})
}

// ListAll handles GET /orders/list. Admin only.
//
// @Summary      List every order in the system
// @Tags         orders
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  listOrdersResponse
// @Failure      403  {object}  errorResponse
// @Router       /orders/list [get]
func (h *OrderHandler) ListAll(c echo.Context) error {
	user, err := requester(c)
	if err != nil {
		return err
	}

	orders, err := h.service.ListAll(c.Request().Context(), user)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, listOrdersResponse{Orders: orders})
}

// ListOwn handles GET /orders/list/order-user.
//
// @Summary      List the requester's own orders
// @Tags         orders
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}  domain.Order
// @Router       /orders/list/order-user [get]
func (h *OrderHandler) ListOwn(c echo.Context) error {
	user, err := requester(c)
	if err != nil {
		return err
	}

	orders, err := h.service.ListOwn(c.Request().Context(), user)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, orders)
}
