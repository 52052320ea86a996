package api

import (
	"strconv"

	"github.com/labstack/echo/v4"

	"vendorpro/internal/entity"
	"vendorpro/internal/service"
)

type ShopHandler struct {
	shopService *service.ShopService
}

func NewShopHandler(shopService *service.ShopService) *ShopHandler {
	return &ShopHandler{shopService: shopService}
}

func (h *ShopHandler) GetShop(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(400, map[string]string{"error": "Invalid ID"})
	}

	shop, err := h.shopService.GetShop(c.Request().Context(), id)
	if err != nil {
		return errorJSON(c, err)
	}

	return c.JSON(200, shop)
}

func (h *ShopHandler) ListShops(c echo.Context) error {
	if owner := c.QueryParam("owner_id"); owner != "" {
		ownerID, err := strconv.ParseInt(owner, 10, 64)
		if err != nil {
			return c.JSON(400, map[string]string{"error": "Invalid owner ID"})
		}
		shops, err := h.shopService.ListShopsByOwner(c.Request().Context(), ownerID)
		if err != nil {
			return errorJSON(c, err)
		}
		return c.JSON(200, shops)
	}

	shops, err := h.shopService.ListShops(c.Request().Context())
	if err != nil {
		return errorJSON(c, err)
	}
	return c.JSON(200, shops)
}

func (h *ShopHandler) CreateShop(c echo.Context) error {
	shop := entity.Shop{}
	if err := c.Bind(&shop); err != nil {
		return c.JSON(400, map[string]string{"error": "Invalid request payload"})
	}

	createdShop, err := h.shopService.CreateShop(c.Request().Context(), &shop)
	if err != nil {
		return errorJSON(c, err)
	}

	return c.JSON(200, createdShop)
}

func (h *ShopHandler) UpdateShop(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(400, map[string]string{"error": "Invalid ID"})
	}

	shop := entity.Shop{}
	if err := c.Bind(&shop); err != nil {
		return c.JSON(400, map[string]string{"error": "Invalid request payload"})
	}
	shop.ID = id

	updatedShop, err := h.shopService.UpdateShop(c.Request().Context(), &shop)
	if err != nil {
		return errorJSON(c, err)
	}

	return c.JSON(200, updatedShop)
}

func (h *ShopHandler) DeleteShop(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(400, map[string]string{"error": "Invalid ID"})
	}

	if err := h.shopService.DeleteShop(c.Request().Context(), id); err != nil {
		return errorJSON(c, err)
	}

	return c.JSON(200, map[string]string{"message": "Shop deleted"})
}

func (h *ShopHandler) AssignSalesman(c echo.Context) error {
	shopID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(400, map[string]string{"error": "Invalid shop ID"})
	}

	body := struct {
		SalesmanID int64 `json:"salesman_id"`
	}{}
	if err := c.Bind(&body); err != nil {
		return c.JSON(400, map[string]string{"error": "Invalid request payload"})
	}

	if err := h.shopService.AssignSalesman(c.Request().Context(), shopID, body.SalesmanID); err != nil {
		return errorJSON(c, err)
	}

	return c.JSON(200, map[string]string{"message": "Salesman assigned"})
}

func (h *ShopHandler) RemoveSalesman(c echo.Context) error {
	shopID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(400, map[string]string{"error": "Invalid shop ID"})
	}
	salesmanID, err := strconv.ParseInt(c.Param("salesmanId"), 10, 64)
	if err != nil {
		return c.JSON(400, map[string]string{"error": "Invalid salesman ID"})
	}

	if err := h.shopService.RemoveSalesman(c.Request().Context(), shopID, salesmanID); err != nil {
		return errorJSON(c, err)
	}

	return c.JSON(200, map[string]string{"message": "Salesman removed"})
}

func (h *ShopHandler) ListSalesmen(c echo.Context) error {
	shopID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(400, map[string]string{"error": "Invalid shop ID"})
	}

	salesmen, err := h.shopService.ListSalesmen(c.Request().Context(), shopID)
	if err != nil {
		return errorJSON(c, err)
	}

	return c.JSON(200, salesmen)
}
