package api

import (
	"errors"

	"github.com/labstack/echo/v4"

	"vendorpro/internal/repository"
	"vendorpro/internal/service"
)

// errorJSON maps service and repository errors onto HTTP status codes.
// "Commission cannot be computed" outcomes are 422s, not server failures.
func errorJSON(c echo.Context, err error) error {
	switch {
	case errors.Is(err, repository.ErrUserNotFound),
		errors.Is(err, repository.ErrShopNotFound),
		errors.Is(err, repository.ErrProductNotFound),
		errors.Is(err, repository.ErrSaleNotFound),
		errors.Is(err, repository.ErrRuleNotFound),
		errors.Is(err, repository.ErrCommissionNotFound):
		return c.JSON(404, map[string]string{"error": err.Error()})
	case errors.Is(err, service.ErrNoRulesConfigured),
		errors.Is(err, service.ErrNoApplicableRule):
		return c.JSON(422, map[string]string{"error": err.Error()})
	case errors.Is(err, service.ErrInvalidStatusTransition),
		errors.Is(err, service.ErrDuplicateIdempotentKey):
		return c.JSON(409, map[string]string{"error": err.Error()})
	case errors.Is(err, service.ErrInvalidRule),
		errors.Is(err, service.ErrInvalidSale):
		return c.JSON(400, map[string]string{"error": err.Error()})
	default:
		return c.JSON(500, map[string]string{"error": err.Error()})
	}
}
