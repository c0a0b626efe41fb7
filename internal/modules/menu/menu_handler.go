package menu

import (
	"net/http"
	"strconv"

	"food-ordering/internal/models"
	"food-ordering/pkg/utils"

	"github.com/labstack/echo/v4"
)

// Handler handles HTTP requests for the menu.
type Handler struct {
	svc ServiceInterface
}

func NewHandler(svc ServiceInterface) *Handler {
	return &Handler{svc: svc}
}

// ListMenu handles GET /api/menu. Customers only see available items.
func (h *Handler) ListMenu(c echo.Context) error {
	items, err := h.svc.ListAvailable(c.Request().Context())
	if err != nil {
		return utils.HandleServiceError(c, err)
	}
	return utils.RespondWithJSON(c, http.StatusOK, items)
}

// ListAllMenu handles GET /api/menu/all (admin only).
func (h *Handler) ListAllMenu(c echo.Context) error {
	items, err := h.svc.ListAll(c.Request().Context())
	if err != nil {
		return utils.HandleServiceError(c, err)
	}
	return utils.RespondWithJSON(c, http.StatusOK, items)
}

func (h *Handler) GetMenuItem(c echo.Context) error {
	itemID, err := strconv.Atoi(c.Param("itemId"))
	if err != nil {
		return utils.RespondWithError(c, http.StatusBadRequest, "Invalid item ID")
	}

	item, err := h.svc.GetItem(c.Request().Context(), itemID)
	if err != nil {
		return utils.HandleServiceError(c, err)
	}
	return utils.RespondWithJSON(c, http.StatusOK, item)
}

func (h *Handler) CreateMenuItem(c echo.Context) error {
	var req models.CreateMenuItemRequest
	if err := c.Bind(&req); err != nil {
		return utils.RespondWithError(c, http.StatusBadRequest, "Invalid request body")
	}
	if err := utils.GetValidator().Validate(req); err != nil {
		return utils.RespondWithError(c, http.StatusBadRequest, err.Error())
	}

	item, err := h.svc.CreateItem(c.Request().Context(), req)
	if err != nil {
		return utils.HandleServiceError(c, err)
	}
	return utils.RespondWithJSON(c, http.StatusCreated, item)
}

func (h *Handler) UpdateMenuItem(c echo.Context) error {
	itemID, err := strconv.Atoi(c.Param("itemId"))
	if err != nil {
		return utils.RespondWithError(c, http.StatusBadRequest, "Invalid item ID")
	}

	var req models.UpdateMenuItemRequest
	if err := c.Bind(&req); err != nil {
		return utils.RespondWithError(c, http.StatusBadRequest, "Invalid request body")
	}
	if err := utils.GetValidator().Validate(req); err != nil {
		return utils.RespondWithError(c, http.StatusBadRequest, err.Error())
	}

	item, err := h.svc.UpdateItem(c.Request().Context(), itemID, req)
	if err != nil {
		return utils.HandleServiceError(c, err)
	}
	return utils.RespondWithJSON(c, http.StatusOK, item)
}

func (h *Handler) DeleteMenuItem(c echo.Context) error {
	itemID, err := strconv.Atoi(c.Param("itemId"))
	if err != nil {
		return utils.RespondWithError(c, http.StatusBadRequest, "Invalid item ID")
	}

	if err := h.svc.DeleteItem(c.Request().Context(), itemID); err != nil {
		return utils.HandleServiceError(c, err)
	}
	return utils.RespondWithJSON(c, http.StatusOK, map[string]string{"message": "Menu item deleted"})
}
