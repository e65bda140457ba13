package handlers

import (
	"log"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"goldsaver_api/internal/models"
	"goldsaver_api/internal/services"
	"goldsaver_api/internal/tasks"
)

// SubscriptionHandler serves the subscription lifecycle endpoints
type SubscriptionHandler struct {
	db   *gorm.DB
	subs *services.SubscriptionService
}

// NewSubscriptionHandler wires the subscription endpoints
func NewSubscriptionHandler(db *gorm.DB, subs *services.SubscriptionService) *SubscriptionHandler {
	return &SubscriptionHandler{db: db, subs: subs}
}

// CreateGold opens a gold subscription in the waiting state
func (h *SubscriptionHandler) CreateGold(c echo.Context) error {
	return h.create(c, models.SubscriptionCategoryGold)
}

// CreateDiamond opens a diamond subscription in the waiting state
func (h *SubscriptionHandler) CreateDiamond(c echo.Context) error {
	return h.create(c, models.SubscriptionCategoryDiamond)
}

func (h *SubscriptionHandler) create(c echo.Context, category models.SubscriptionCategory) error {
	var req CreateSubscriptionRequest
	if err := c.Bind(&req); err != nil {
		return services.ValidationError("invalid JSON payload")
	}
	if req.UserID == 0 || req.SchemeID == 0 {
		return services.ValidationError("user_id and scheme_id are required")
	}

	amount := req.Amount
	if amount == nil {
		amount = req.InitialAmount
	}

	sub, err := h.subs.Create(c.Request().Context(), services.CreateSubscriptionParams{
		UserID:   req.UserID,
		SchemeID: req.SchemeID,
		Category: category,
		Amount:   amount,
		Weight:   req.Weight,
	})
	if err != nil {
		return err
	}

	// The admin alert rides a background task so a broken push setup
	// cannot fail the signup itself.
	if err := tasks.AdminAlertTask.Enqueue(h.db, sub); err != nil {
		log.Printf("failed to enqueue admin alert for subscription %d: %v", sub.ID, err)
	}

	return c.JSON(http.StatusCreated, map[string]interface{}{
		"message":      "Subscription request submitted successfully",
		"subscription": sub,
	})
}

// UpdateGold drives the status of a gold subscription
func (h *SubscriptionHandler) UpdateGold(c echo.Context) error {
	return h.update(c, models.SubscriptionCategoryGold)
}

// UpdateDiamond drives the status of a diamond subscription
func (h *SubscriptionHandler) UpdateDiamond(c echo.Context) error {
	return h.update(c, models.SubscriptionCategoryDiamond)
}

func (h *SubscriptionHandler) update(c echo.Context, category models.SubscriptionCategory) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return services.ValidationError("invalid subscription id")
	}

	var req UpdateSubscriptionRequest
	if err := c.Bind(&req); err != nil {
		return services.ValidationError("invalid JSON payload")
	}
	if req.SubscribeStatus == "" {
		return services.ValidationError("subscribe_status is required")
	}

	sub, kycMessage, err := h.subs.UpdateStatus(c.Request().Context(), uint(id), category,
		models.SubscribeStatus(req.SubscribeStatus), req.IsVerifiedKYC)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"message":      "Subscription updated successfully",
		"subscription": sub,
		"user": map[string]interface{}{
			"user_id":           sub.UserID,
			"userUpdateMessage": kycMessage,
		},
	})
}

// Report returns every subscription enriched with scheme, contact and
// due coverage details.
func (h *SubscriptionHandler) Report(c echo.Context) error {
	report, err := h.subs.Report(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, report)
}

// ReportByUser returns the report scoped to one user
func (h *SubscriptionHandler) ReportByUser(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("userId"), 10, 32)
	if err != nil {
		return services.ValidationError("invalid user id")
	}

	report, err := h.subs.ReportByUser(c.Request().Context(), uint(id))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, report)
}

// PendingRequests lists the waiting subscriptions awaiting admin review
func (h *SubscriptionHandler) PendingRequests(c echo.Context) error {
	serverURL := c.Scheme() + "://" + c.Request().Host
	entries, err := h.subs.PendingRequests(c.Request().Context(), serverURL)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"message": "Pending requests retrieved successfully",
		"data":    entries,
	})
}
