package orders

import (
	"net/http"
	"strconv"

	"food-ordering/internal/models"
	"food-ordering/pkg/utils"

	"github.com/labstack/echo/v4"
)

// Handler handles HTTP requests for orders.
type Handler struct {
	svc ServiceInterface
}

// NewHandler creates a new order handler.
func NewHandler(svc ServiceInterface) *Handler {
	return &Handler{svc: svc}
}

// CreateOrder handles POST /api/orders.
func (h *Handler) CreateOrder(c echo.Context) error {
	var req models.CreateOrderRequest
	if err := c.Bind(&req); err != nil {
		return utils.RespondWithError(c, http.StatusBadRequest, "Invalid request body")
	}
	if err := utils.GetValidator().Validate(req); err != nil {
		return utils.RespondWithError(c, http.StatusBadRequest, "Order must contain at least one item and a delivery address")
	}

	order, err := h.svc.CreateOrder(c.Request().Context(), req)
	if err != nil {
		return utils.HandleServiceError(c, err)
	}

	return utils.RespondWithJSON(c, http.StatusCreated, map[string]interface{}{
		"message": "Order placed successfully",
		"token":   order.Token,
	})
}

// GetUserOrders handles GET /api/orders/user, scoped to the caller.
func (h *Handler) GetUserOrders(c echo.Context) error {
	userID, _, err := utils.ExtractUserInfo(c)
	if err != nil {
		return err
	}

	orders, err := h.svc.ListUserOrders(c.Request().Context(), userID)
	if err != nil {
		return utils.HandleServiceError(c, err)
	}
	return utils.RespondWithJSON(c, http.StatusOK, orders)
}

// GetOrdersForUser handles GET /api/orders/user/:userId (admin only),
// the support view of any customer's order history.
func (h *Handler) GetOrdersForUser(c echo.Context) error {
	userID, err := strconv.Atoi(c.Param("userId"))
	if err != nil {
		return utils.RespondWithError(c, http.StatusBadRequest, "Invalid user ID")
	}

	orders, err := h.svc.ListUserOrders(c.Request().Context(), userID)
	if err != nil {
		return utils.HandleServiceError(c, err)
	}
	return utils.RespondWithJSON(c, http.StatusOK, orders)
}

// GetOrderByToken handles GET /api/orders/token/:token.
func (h *Handler) GetOrderByToken(c echo.Context) error {
	order, err := h.svc.GetOrderByToken(c.Request().Context(), c.Param("token"))
	if err != nil {
		return utils.HandleServiceError(c, err)
	}
	return utils.RespondWithJSON(c, http.StatusOK, order)
}

// AssignDelivery handles POST /api/orders/assign-delivery (admin only).
func (h *Handler) AssignDelivery(c echo.Context) error {
	var req models.AssignDeliveryRequest
	if err := c.Bind(&req); err != nil {
		return utils.RespondWithError(c, http.StatusBadRequest, "Invalid request body")
	}
	if err := utils.GetValidator().Validate(req); err != nil {
		return utils.RespondWithError(c, http.StatusBadRequest, "orderId and deliveryGuyId are required")
	}

	order, err := h.svc.AssignDelivery(c.Request().Context(), req)
	if err != nil {
		return utils.HandleServiceError(c, err)
	}

	return utils.RespondWithJSON(c, http.StatusOK, map[string]interface{}{
		"message": "Delivery person assigned successfully",
		"order":   order,
	})
}

// GetAssignedOrders handles GET /api/orders/assigned/:deliveryGuyId.
func (h *Handler) GetAssignedOrders(c echo.Context) error {
	callerID, callerRole, err := utils.ExtractUserInfo(c)
	if err != nil {
		return err
	}

	deliveryGuyID, err := strconv.Atoi(c.Param("deliveryGuyId"))
	if err != nil {
		return utils.RespondWithError(c, http.StatusBadRequest, "Invalid delivery person ID")
	}

	orders, err := h.svc.ListAssignedOrders(c.Request().Context(), callerID, callerRole, deliveryGuyID)
	if err != nil {
		return utils.HandleServiceError(c, err)
	}
	return utils.RespondWithJSON(c, http.StatusOK, orders)
}

// UpdateOrderStatus handles PUT /api/orders/:orderId/status.
func (h *Handler) UpdateOrderStatus(c echo.Context) error {
	callerID, callerRole, err := utils.ExtractUserInfo(c)
	if err != nil {
		return err
	}

	orderID, err := strconv.Atoi(c.Param("orderId"))
	if err != nil {
		return utils.RespondWithError(c, http.StatusBadRequest, "Invalid order ID")
	}

	var req models.UpdateStatusRequest
	if err := c.Bind(&req); err != nil {
		return utils.RespondWithError(c, http.StatusBadRequest, "Invalid request body")
	}
	if err := utils.GetValidator().Validate(req); err != nil {
		return utils.RespondWithError(c, http.StatusBadRequest, "status is required")
	}

	order, err := h.svc.UpdateStatus(c.Request().Context(), orderID, callerID, callerRole, req)
	if err != nil {
		return utils.HandleServiceError(c, err)
	}

	return utils.RespondWithJSON(c, http.StatusOK, map[string]interface{}{
		"message": "Order status updated successfully",
		"order":   order,
	})
}

// GetAllOrders handles GET /api/orders/all (admin only). An optional
// ?status= query filters by status.
func (h *Handler) GetAllOrders(c echo.Context) error {
	orders, err := h.svc.ListAllOrders(c.Request().Context(), c.QueryParam("status"))
	if err != nil {
		return utils.HandleServiceError(c, err)
	}
	return utils.RespondWithJSON(c, http.StatusOK, orders)
}
