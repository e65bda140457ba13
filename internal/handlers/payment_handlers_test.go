package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"goldsaver_api/internal/models"
	"goldsaver_api/internal/services"
)

type stubGateway struct{}

func (stubGateway) CreateOrder(amount float64, receipt string, notes map[string]interface{}) (*services.GatewayOrder, error) {
	return &services.GatewayOrder{
		ID:       "order_stub_1",
		Amount:   int64(amount * 100),
		Currency: "INR",
		Receipt:  receipt,
	}, nil
}

func (stubGateway) VerifySignature(orderID, paymentID, signature string) bool {
	return true
}

type stubSender struct{}

func (stubSender) Send(ctx context.Context, token, title, body string, data map[string]string) error {
	return nil
}

func newPaymentHandlerFixture(t *testing.T) (*PaymentHandler, *gorm.DB, models.Subscription) {
	t.Helper()

	db := newTestDB(t)

	user := models.User{Username: "asha", Email: "asha@example.com", PhoneNumber: "9000000001"}
	require.NoError(t, db.Create(&user).Error)

	scheme, err := models.NewScheme(models.SchemeParams{
		Name: "Gold Saver", Type: "gold",
		MinAmount: 500, MaxAmount: 50000, Duration: 11,
		AmountBased: true,
	})
	require.NoError(t, err)
	require.NoError(t, db.Create(scheme).Error)

	sub := models.Subscription{
		UserID:          user.ID,
		SchemeID:        scheme.ID,
		Category:        models.SubscriptionCategoryGold,
		InitialAmount:   1000,
		SubscribeStatus: models.SubscribeStatusActive,
		DueDates:        []time.Time{},
	}
	require.NoError(t, db.Create(&sub).Error)

	payments := services.NewPaymentService(db, stubGateway{}, services.NewSchemeService(db, nil))
	notifier := services.NewNotificationService(stubSender{})
	return NewPaymentHandler(db, payments, notifier), db, sub
}

func TestCreateOrderRespondsInRupees(t *testing.T) {
	h, _, sub := newPaymentHandlerFixture(t)

	body := fmt.Sprintf(`{"subscription_id": %d, "amount": 1000}`, sub.ID)
	c, rec := newJSONContext(t, http.MethodPost, "/create-order-gold", body)

	require.NoError(t, h.CreateOrderGold(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		SubscriptionID uint    `json:"subscription_id"`
		Amount         float64 `json:"amount"`
		Currency       string  `json:"currency"`
		OrderReceipt   string  `json:"order_receipt"`
		Gateway        struct {
			ID     string `json:"id"`
			Amount int64  `json:"amount"`
		} `json:"razorpay_response"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))

	assert.Equal(t, sub.ID, resp.SubscriptionID)
	assert.Equal(t, 1000.0, resp.Amount, "top-level amount is rupees")
	assert.Equal(t, int64(100000), resp.Gateway.Amount, "gateway payload stays in paise")
	assert.Equal(t, "INR", resp.Currency)
	assert.Equal(t, fmt.Sprintf("receipt_%d", sub.ID), resp.OrderReceipt)
}

func TestVerifyPaymentRejectsUnknownSchemeType(t *testing.T) {
	h, db, sub := newPaymentHandlerFixture(t)

	body := fmt.Sprintf(
		`{"subscription_id": %d, "order_id": "order_stub_1", "payment_id": "pay_1", "signature": "sig", "scheme_type": "platinum"}`,
		sub.ID)
	c, _ := newJSONContext(t, http.MethodPost, "/verify-payment", body)

	err := h.VerifyPayment(c)
	var svcErr *services.Error
	require.ErrorAs(t, err, &svcErr)
	assert.Equal(t, services.KindValidation, svcErr.Kind)

	var count int64
	require.NoError(t, db.Model(&models.GatewayCallbackHistory{}).Count(&count).Error)
	assert.Zero(t, count, "rejected request never reaches the gateway flow")
}
