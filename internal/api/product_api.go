package api

import (
	"strconv"

	"github.com/labstack/echo/v4"

	"vendorpro/internal/entity"
	"vendorpro/internal/service"
)

type ProductHandler struct {
	productService *service.ProductService
}

func NewProductHandler(productService *service.ProductService) *ProductHandler {
	return &ProductHandler{productService: productService}
}

func (h *ProductHandler) GetProduct(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(400, map[string]string{"error": "Invalid ID"})
	}

	product, err := h.productService.GetProduct(c.Request().Context(), id)
	if err != nil {
		return errorJSON(c, err)
	}

	return c.JSON(200, product)
}

func (h *ProductHandler) ListProducts(c echo.Context) error {
	shopID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(400, map[string]string{"error": "Invalid shop ID"})
	}

	products, err := h.productService.ListProducts(c.Request().Context(), shopID)
	if err != nil {
		return errorJSON(c, err)
	}

	return c.JSON(200, products)
}

func (h *ProductHandler) CreateProduct(c echo.Context) error {
	shopID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(400, map[string]string{"error": "Invalid shop ID"})
	}

	product := entity.Product{}
	if err := c.Bind(&product); err != nil {
		return c.JSON(400, map[string]string{"error": "Invalid request payload"})
	}
	product.ShopID = shopID

	createdProduct, err := h.productService.CreateProduct(c.Request().Context(), &product)
	if err != nil {
		return errorJSON(c, err)
	}

	return c.JSON(200, createdProduct)
}

func (h *ProductHandler) UpdateProduct(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(400, map[string]string{"error": "Invalid ID"})
	}

	product := entity.Product{}
	if err := c.Bind(&product); err != nil {
		return c.JSON(400, map[string]string{"error": "Invalid request payload"})
	}
	product.ID = id

	updatedProduct, err := h.productService.UpdateProduct(c.Request().Context(), &product)
	if err != nil {
		return errorJSON(c, err)
	}

	return c.JSON(200, updatedProduct)
}

func (h *ProductHandler) DeleteProduct(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(400, map[string]string{"error": "Invalid ID"})
	}

	if err := h.productService.DeleteProduct(c.Request().Context(), id); err != nil {
		return errorJSON(c, err)
	}

	return c.JSON(200, map[string]string{"message": "Product deleted"})
}
