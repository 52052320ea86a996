package api

import (
	"strconv"

	"github.com/labstack/echo/v4"

	"vendorpro/internal/entity"
	"vendorpro/internal/service"
)

type SaleHandler struct {
	saleService *service.SaleService
}

func NewSaleHandler(saleService *service.SaleService) *SaleHandler {
	return &SaleHandler{saleService: saleService}
}

func (h *SaleHandler) CreateSale(c echo.Context) error {
	ctx := c.Request().Context()
	sale := entity.Sale{}
	if err := c.Bind(&sale); err != nil {
		return c.JSON(400, map[string]string{"error": "Invalid request payload"})
	}
	sale.IdempotentKey = c.Request().Header.Get("Idempotent-Key")

	createdSale, err := h.saleService.CreateSale(ctx, &sale)
	if err != nil {
		return errorJSON(c, err)
	}

	return c.JSON(200, createdSale)
}

func (h *SaleHandler) GetSale(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(400, map[string]string{"error": "Invalid ID"})
	}

	sale, err := h.saleService.GetSale(c.Request().Context(), id)
	if err != nil {
		return errorJSON(c, err)
	}

	return c.JSON(200, sale)
}

func (h *SaleHandler) ListShopSales(c echo.Context) error {
	shopID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(400, map[string]string{"error": "Invalid shop ID"})
	}

	sales, err := h.saleService.GetSalesByShop(c.Request().Context(), shopID)
	if err != nil {
		return errorJSON(c, err)
	}

	return c.JSON(200, sales)
}

func (h *SaleHandler) ListSalesmanSales(c echo.Context) error {
	salesmanID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(400, map[string]string{"error": "Invalid salesman ID"})
	}

	sales, err := h.saleService.GetSalesBySalesman(c.Request().Context(), salesmanID)
	if err != nil {
		return errorJSON(c, err)
	}

	return c.JSON(200, sales)
}

func (h *SaleHandler) ApproveSale(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(400, map[string]string{"error": "Invalid ID"})
	}

	sale, err := h.saleService.ApproveSale(c.Request().Context(), id)
	if err != nil {
		return errorJSON(c, err)
	}

	return c.JSON(200, sale)
}

func (h *SaleHandler) RejectSale(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(400, map[string]string{"error": "Invalid ID"})
	}

	body := struct {
		Reason string `json:"reason"`
	}{}
	if err := c.Bind(&body); err != nil {
		return c.JSON(400, map[string]string{"error": "Invalid request payload"})
	}

	sale, err := h.saleService.RejectSale(c.Request().Context(), id, body.Reason)
	if err != nil {
		return errorJSON(c, err)
	}

	return c.JSON(200, sale)
}
