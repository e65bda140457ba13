package handlers

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"goldsaver_api/internal/models"
	"goldsaver_api/internal/services"
)

// SchemeHandler serves the scheme catalog endpoints
type SchemeHandler struct {
	schemes *services.SchemeService
}

// NewSchemeHandler wires the scheme endpoints
func NewSchemeHandler(schemes *services.SchemeService) *SchemeHandler {
	return &SchemeHandler{schemes: schemes}
}

func schemeParams(req SchemeRequest) models.SchemeParams {
	params := models.SchemeParams{
		Name:        req.SchemeName,
		Type:        req.SchemeType,
		MinAmount:   req.MinAmount,
		MaxAmount:   req.MaxAmount,
		Duration:    req.Duration,
		Description: req.SchemeDescription,
	}
	switch req.IsWeightOrAmount {
	case "weight":
		bounds := models.WeightBounds{}
		if req.MinWeight != nil {
			bounds.Min = *req.MinWeight
		}
		if req.MaxWeight != nil {
			bounds.Max = *req.MaxWeight
		}
		params.Weight = &bounds
	case "amount":
		params.AmountBased = true
	}
	return params
}

// CreateScheme stores a new scheme definition
func (h *SchemeHandler) CreateScheme(c echo.Context) error {
	var req SchemeRequest
	if err := c.Bind(&req); err != nil {
		return services.ValidationError("invalid JSON payload")
	}

	scheme, err := h.schemes.Create(c.Request().Context(), schemeParams(req))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, scheme)
}

// ListSchemes returns all schemes
func (h *SchemeHandler) ListSchemes(c echo.Context) error {
	schemes, err := h.schemes.List(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, schemes)
}

// GetScheme returns one scheme by id
func (h *SchemeHandler) GetScheme(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return services.ValidationError("invalid scheme id")
	}

	scheme, err := h.schemes.GetByID(c.Request().Context(), uint(id))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, scheme)
}

// UpdateScheme replaces a scheme definition. Existing subscriptions keep
// their snapshotted amounts.
func (h *SchemeHandler) UpdateScheme(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return services.ValidationError("invalid scheme id")
	}

	var req SchemeRequest
	if err := c.Bind(&req); err != nil {
		return services.ValidationError("invalid JSON payload")
	}

	scheme, err := h.schemes.Update(c.Request().Context(), uint(id), schemeParams(req))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, scheme)
}

// DeleteScheme removes a scheme from the catalog
func (h *SchemeHandler) DeleteScheme(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return services.ValidationError("invalid scheme id")
	}

	if err := h.schemes.Delete(c.Request().Context(), uint(id)); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "Scheme deleted successfully"})
}
