package handlers

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"goldsaver_api/internal/models"
	"goldsaver_api/internal/services"
)

// PaymentHandler serves the payment order and verification endpoints
type PaymentHandler struct {
	db       *gorm.DB
	payments *services.PaymentService
	notifier *services.NotificationService
}

// NewPaymentHandler wires the payment endpoints
func NewPaymentHandler(db *gorm.DB, payments *services.PaymentService, notifier *services.NotificationService) *PaymentHandler {
	return &PaymentHandler{db: db, payments: payments, notifier: notifier}
}

// CreateOrderGold creates a gateway order for a gold subscription
func (h *PaymentHandler) CreateOrderGold(c echo.Context) error {
	return h.createOrder(c, models.SubscriptionCategoryGold)
}

// CreateOrderDiamond creates a gateway order for a diamond subscription
func (h *PaymentHandler) CreateOrderDiamond(c echo.Context) error {
	return h.createOrder(c, models.SubscriptionCategoryDiamond)
}

func (h *PaymentHandler) createOrder(c echo.Context, category models.SubscriptionCategory) error {
	var req CreateOrderRequest
	if err := c.Bind(&req); err != nil {
		return services.ValidationError("invalid JSON payload")
	}
	if req.SubscriptionID == 0 {
		return services.ValidationError("subscription_id is required")
	}

	notes := map[string]interface{}{}
	if req.Weight != nil {
		notes["weight"] = *req.Weight
	}

	result, err := h.payments.CreateOrder(c.Request().Context(), req.SubscriptionID, req.Amount, category, notes)
	if err != nil {
		return err
	}

	// The gateway reports the amount in paise; clients deal in rupees.
	return c.JSON(http.StatusOK, map[string]interface{}{
		"message":           "Order created successfully",
		"razorpay_response": result.Order,
		"subscription_id":   req.SubscriptionID,
		"currency":          result.Order.Currency,
		"amount":            float64(result.Order.Amount) / 100,
		"order_receipt":     result.Order.Receipt,
		"scheme_type":       result.SchemeType,
	})
}

// VerifyPayment authenticates a gateway callback, settles the matching
// pending payment and pushes a confirmation to the subscription owner and
// the admins. Notification failures never fail the verification.
func (h *PaymentHandler) VerifyPayment(c echo.Context) error {
	var req VerifyPaymentRequest
	if err := c.Bind(&req); err != nil {
		return services.ValidationError("invalid JSON payload")
	}
	if req.SubscriptionID == 0 || req.OrderID == "" || req.PaymentID == "" || req.Signature == "" {
		return services.ValidationError("subscription_id, order_id, payment_id and signature are required")
	}

	var category models.SubscriptionCategory
	switch req.SchemeType {
	case string(models.SubscriptionCategoryGold):
		category = models.SubscriptionCategoryGold
	case string(models.SubscriptionCategoryDiamond):
		category = models.SubscriptionCategoryDiamond
	default:
		return services.ValidationError("Invalid scheme_type provided")
	}

	sub, err := h.payments.VerifyAndApply(c.Request().Context(), req.SubscriptionID, category,
		req.OrderID, req.PaymentID, req.Signature)
	if err != nil {
		return err
	}

	results := h.notifyPaymentSettled(c, sub)

	return c.JSON(http.StatusOK, map[string]interface{}{
		"message":       "Payment verified successfully",
		"subscription":  sub,
		"due_coverage":  services.Coverage(*sub),
		"notifications": results,
	})
}

// notifyPaymentSettled fans a confirmation out to the owner and admins
func (h *PaymentHandler) notifyPaymentSettled(c echo.Context, sub *models.Subscription) []services.SendResult {
	ctx := c.Request().Context()

	var owner models.User
	if err := h.db.WithContext(ctx).First(&owner, sub.UserID).Error; err != nil {
		return nil
	}

	var admins []models.User
	if err := h.db.WithContext(ctx).Where("role = ?", models.UserRoleAdmin).Find(&admins).Error; err != nil {
		admins = nil
	}

	recipients := []services.Recipient{{UserID: owner.ID, Token: owner.FCMToken}}
	for _, admin := range admins {
		if admin.ID == owner.ID {
			continue
		}
		recipients = append(recipients, services.Recipient{UserID: admin.ID, Token: admin.FCMToken})
	}

	title := "Payment received"
	body := fmt.Sprintf("Installment payment for %s subscription #%d has been verified.", sub.Category, sub.ID)
	return h.notifier.Broadcast(ctx, recipients, title, body, map[string]string{
		"subscription_id": fmt.Sprintf("%d", sub.ID),
		"category":        string(sub.Category),
	})
}
