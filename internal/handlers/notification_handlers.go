package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"goldsaver_api/internal/models"
	"goldsaver_api/internal/services"
)

// NotificationHandler serves the admin push notification endpoint
type NotificationHandler struct {
	db       *gorm.DB
	notifier *services.NotificationService
}

// NewNotificationHandler wires the notification endpoint
func NewNotificationHandler(db *gorm.DB, notifier *services.NotificationService) *NotificationHandler {
	return &NotificationHandler{db: db, notifier: notifier}
}

// SendCustomNotification pushes an ad-hoc message to the selected users,
// or to every user when no ids are given. The response carries the
// per-recipient outcome so the admin can see who was reached.
func (h *NotificationHandler) SendCustomNotification(c echo.Context) error {
	var req NotificationRequest
	if err := c.Bind(&req); err != nil {
		return services.ValidationError("invalid JSON payload")
	}
	if req.Title == "" || req.Message == "" {
		return services.ValidationError("title and message are required")
	}

	q := h.db.WithContext(c.Request().Context()).Model(&models.User{})
	if len(req.UserIDs) > 0 {
		q = q.Where("id IN ?", req.UserIDs)
	}

	var users []models.User
	if err := q.Find(&users).Error; err != nil {
		return err
	}
	if len(users) == 0 {
		return services.NotFoundError("no matching users found")
	}

	recipients := make([]services.Recipient, 0, len(users))
	for _, u := range users {
		recipients = append(recipients, services.Recipient{UserID: u.ID, Token: u.FCMToken})
	}

	results := h.notifier.Broadcast(c.Request().Context(), recipients, req.Title, req.Message, nil)

	var sent, failed, skipped int
	for _, r := range results {
		switch r.Status {
		case "sent":
			sent++
		case "failed":
			failed++
		default:
			skipped++
		}
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"message": "Notification dispatch finished",
		"summary": map[string]int{
			"total":   len(results),
			"sent":    sent,
			"failed":  failed,
			"skipped": skipped,
		},
		"details": results,
	})
}
