package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"goldsaver_api/internal/services"
)

// RateHandler serves the gold/silver rate endpoints
type RateHandler struct {
	rates *services.RateService
}

// NewRateHandler wires the rate endpoints
func NewRateHandler(rates *services.RateService) *RateHandler {
	return &RateHandler{rates: rates}
}

// GetRates returns the current rates
func (h *RateHandler) GetRates(c echo.Context) error {
	rate, err := h.rates.Current(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"message": "Rates retrieved successfully",
		"data":    rate,
	})
}

// SetRates creates or replaces the rates
func (h *RateHandler) SetRates(c echo.Context) error {
	var req RateRequest
	if err := c.Bind(&req); err != nil {
		return services.ValidationError("invalid JSON payload")
	}
	if req.GoldRate == nil || req.SilverRate == nil {
		return services.ValidationError("gold_rate and silver_rate are required")
	}

	rate, err := h.rates.Upsert(c.Request().Context(), *req.GoldRate, *req.SilverRate)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"message": "Rates saved successfully",
		"data":    rate,
	})
}

// DeleteRates removes the rates row
func (h *RateHandler) DeleteRates(c echo.Context) error {
	if err := h.rates.Delete(c.Request().Context()); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "Rates deleted successfully"})
}
