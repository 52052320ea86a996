package api

import (
	"strconv"

	"github.com/labstack/echo/v4"

	"vendorpro/internal/entity"
	"vendorpro/internal/service"
)

type CommissionHandler struct {
	commissionService *service.CommissionService
}

func NewCommissionHandler(commissionService *service.CommissionService) *CommissionHandler {
	return &CommissionHandler{commissionService: commissionService}
}

// CalculateCommission computes (or recomputes) the commission for a sale
// --> POST /sales/:id/commission
func (h *CommissionHandler) CalculateCommission(c echo.Context) error {
	saleID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(400, map[string]string{"error": "Invalid sale ID"})
	}

	result, err := h.commissionService.CalculateCommission(c.Request().Context(), saleID)
	if err != nil {
		return errorJSON(c, err)
	}

	return c.JSON(200, result)
}

func (h *CommissionHandler) GetCommission(c echo.Context) error {
	saleID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(400, map[string]string{"error": "Invalid sale ID"})
	}

	commission, err := h.commissionService.GetCommission(c.Request().Context(), saleID)
	if err != nil {
		return errorJSON(c, err)
	}

	return c.JSON(200, commission)
}

func (h *CommissionHandler) MarkPaid(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(400, map[string]string{"error": "Invalid ID"})
	}

	if err := h.commissionService.MarkPaid(c.Request().Context(), id); err != nil {
		return errorJSON(c, err)
	}

	return c.JSON(200, map[string]string{"message": "Commission marked paid"})
}

func (h *CommissionHandler) SalesmanSummary(c echo.Context) error {
	shopID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(400, map[string]string{"error": "Invalid shop ID"})
	}

	summaries, err := h.commissionService.SalesmanSummary(c.Request().Context(), shopID)
	if err != nil {
		return errorJSON(c, err)
	}

	return c.JSON(200, summaries)
}

// --- Rule management ---

func (h *CommissionHandler) ListRules(c echo.Context) error {
	shopID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(400, map[string]string{"error": "Invalid shop ID"})
	}

	rules, err := h.commissionService.ListRules(c.Request().Context(), shopID)
	if err != nil {
		return errorJSON(c, err)
	}

	return c.JSON(200, rules)
}

func (h *CommissionHandler) CreateRule(c echo.Context) error {
	shopID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(400, map[string]string{"error": "Invalid shop ID"})
	}

	rule := entity.CommissionRule{}
	if err := c.Bind(&rule); err != nil {
		return c.JSON(400, map[string]string{"error": "Invalid request payload"})
	}
	rule.ShopID = shopID

	createdRule, err := h.commissionService.CreateRule(c.Request().Context(), &rule)
	if err != nil {
		return errorJSON(c, err)
	}

	return c.JSON(200, createdRule)
}

func (h *CommissionHandler) UpdateRule(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(400, map[string]string{"error": "Invalid ID"})
	}

	rule := entity.CommissionRule{}
	if err := c.Bind(&rule); err != nil {
		return c.JSON(400, map[string]string{"error": "Invalid request payload"})
	}
	rule.ID = id

	updatedRule, err := h.commissionService.UpdateRule(c.Request().Context(), &rule)
	if err != nil {
		return errorJSON(c, err)
	}

	return c.JSON(200, updatedRule)
}

func (h *CommissionHandler) DeleteRule(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(400, map[string]string{"error": "Invalid ID"})
	}

	if err := h.commissionService.DeleteRule(c.Request().Context(), id); err != nil {
		return errorJSON(c, err)
	}

	return c.JSON(200, map[string]string{"message": "Commission rule deleted"})
}
