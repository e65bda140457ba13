package services

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"goldsaver_api/internal/models"
)

type fakeGateway struct {
	secret     string
	orderCount int
	failOrders bool
}

func (g *fakeGateway) CreateOrder(amount float64, receipt string, notes map[string]interface{}) (*GatewayOrder, error) {
	if g.failOrders {
		return nil, errors.New("gateway unavailable")
	}
	g.orderCount++
	return &GatewayOrder{
		ID:       fmt.Sprintf("order_test_%d", g.orderCount),
		Amount:   int64(amount * 100),
		Currency: "INR",
		Receipt:  receipt,
	}, nil
}

func (g *fakeGateway) VerifySignature(orderID, paymentID, signature string) bool {
	return VerifyPaymentSignature(orderID, paymentID, signature, g.secret)
}

func newPaymentFixture(t *testing.T) (*PaymentService, *fakeGateway, *gorm.DB, models.Subscription) {
	t.Helper()

	db := newTestDB(t)
	user := seedVerifiedUser(t, db)
	scheme := seedGoldAmountScheme(t, db)

	sub := models.Subscription{
		UserID:          user.ID,
		SchemeID:        scheme.ID,
		Category:        models.SubscriptionCategoryGold,
		InitialAmount:   1000,
		SubscribeStatus: models.SubscribeStatusActive,
		DueDates:        []time.Time{},
	}
	require.NoError(t, db.Create(&sub).Error)

	gateway := &fakeGateway{secret: "test-secret"}
	schemes := NewSchemeService(db, nil)
	return NewPaymentService(db, gateway, schemes), gateway, db, sub
}

func TestCreateOrderAppendsPendingRow(t *testing.T) {
	svc, _, db, sub := newPaymentFixture(t)
	ctx := context.Background()

	result, err := svc.CreateOrder(ctx, sub.ID, 1000, models.SubscriptionCategoryGold, nil)
	require.NoError(t, err)
	assert.Equal(t, "order_test_1", result.Order.ID)
	assert.Equal(t, int64(100000), result.Order.Amount)
	assert.Equal(t, fmt.Sprintf("receipt_%d", sub.ID), result.Order.Receipt)
	assert.Equal(t, models.SchemeTypeGold, result.SchemeType)

	var payment models.Payment
	require.NoError(t, db.Where("gateway_order_id = ?", result.Order.ID).First(&payment).Error)
	assert.Equal(t, models.PaymentStatusPending, payment.PaymentStatus)
	assert.Equal(t, models.PaymentMethodGateway, payment.PaymentMethod)
	assert.Equal(t, sub.ID, payment.SubscriptionID)
	assert.Equal(t, 1000.0, payment.PaymentAmount)
}

func TestCreateOrderRejectsCategoryMismatch(t *testing.T) {
	svc, _, _, sub := newPaymentFixture(t)

	_, err := svc.CreateOrder(context.Background(), sub.ID, 1000, models.SubscriptionCategoryDiamond, nil)

	var svcErr *Error
	require.ErrorAs(t, err, &svcErr)
	assert.Equal(t, KindNotFound, svcErr.Kind)
}

func TestCreateOrderGatewayFailureIsDependencyError(t *testing.T) {
	svc, gateway, db, sub := newPaymentFixture(t)
	gateway.failOrders = true

	_, err := svc.CreateOrder(context.Background(), sub.ID, 1000, models.SubscriptionCategoryGold, nil)

	var svcErr *Error
	require.ErrorAs(t, err, &svcErr)
	assert.Equal(t, KindDependency, svcErr.Kind)

	var count int64
	require.NoError(t, db.Model(&models.Payment{}).Count(&count).Error)
	assert.Zero(t, count, "no ledger row without a gateway order")
}

func TestVerifyAndApplySettlesPendingPayment(t *testing.T) {
	svc, gateway, db, sub := newPaymentFixture(t)
	ctx := context.Background()

	result, err := svc.CreateOrder(ctx, sub.ID, 1000, models.SubscriptionCategoryGold, nil)
	require.NoError(t, err)

	sig := signPayload(result.Order.ID, "pay_1", gateway.secret)
	updated, err := svc.VerifyAndApply(ctx, sub.ID, models.SubscriptionCategoryGold, result.Order.ID, "pay_1", sig)
	require.NoError(t, err)
	assert.Equal(t, 1000.0, updated.CompletedTotal())

	var payment models.Payment
	require.NoError(t, db.Where("gateway_order_id = ?", result.Order.ID).First(&payment).Error)
	assert.Equal(t, models.PaymentStatusCompleted, payment.PaymentStatus)
	assert.Equal(t, "pay_1", payment.GatewayPaymentID)
	assert.Equal(t, sig, payment.GatewaySignature)
}

func TestVerifyAndApplyRejectsTamperedSignature(t *testing.T) {
	svc, _, db, sub := newPaymentFixture(t)
	ctx := context.Background()

	result, err := svc.CreateOrder(ctx, sub.ID, 1000, models.SubscriptionCategoryGold, nil)
	require.NoError(t, err)

	bad := signPayload(result.Order.ID, "pay_1", "wrong-secret")
	_, err = svc.VerifyAndApply(ctx, sub.ID, models.SubscriptionCategoryGold, result.Order.ID, "pay_1", bad)

	var svcErr *Error
	require.ErrorAs(t, err, &svcErr)
	assert.Equal(t, KindAuthenticity, svcErr.Kind)

	var payment models.Payment
	require.NoError(t, db.Where("gateway_order_id = ?", result.Order.ID).First(&payment).Error)
	assert.Equal(t, models.PaymentStatusPending, payment.PaymentStatus, "rejected callback must not touch the ledger")
}

func TestVerifyAndApplyDuplicateCallbackIsNoOp(t *testing.T) {
	svc, gateway, _, sub := newPaymentFixture(t)
	ctx := context.Background()

	result, err := svc.CreateOrder(ctx, sub.ID, 1000, models.SubscriptionCategoryGold, nil)
	require.NoError(t, err)

	sig := signPayload(result.Order.ID, "pay_1", gateway.secret)
	first, err := svc.VerifyAndApply(ctx, sub.ID, models.SubscriptionCategoryGold, result.Order.ID, "pay_1", sig)
	require.NoError(t, err)

	second, err := svc.VerifyAndApply(ctx, sub.ID, models.SubscriptionCategoryGold, result.Order.ID, "pay_1", sig)
	require.NoError(t, err)
	assert.Equal(t, first.CompletedTotal(), second.CompletedTotal(), "replayed callback must not double-count")
}

func TestVerifyAndApplyAuditsEveryCallback(t *testing.T) {
	svc, gateway, db, sub := newPaymentFixture(t)
	ctx := context.Background()

	result, err := svc.CreateOrder(ctx, sub.ID, 1000, models.SubscriptionCategoryGold, nil)
	require.NoError(t, err)

	bad := signPayload(result.Order.ID, "pay_1", "wrong-secret")
	_, err = svc.VerifyAndApply(ctx, sub.ID, models.SubscriptionCategoryGold, result.Order.ID, "pay_1", bad)
	require.Error(t, err)

	sig := signPayload(result.Order.ID, "pay_1", gateway.secret)
	_, err = svc.VerifyAndApply(ctx, sub.ID, models.SubscriptionCategoryGold, result.Order.ID, "pay_1", sig)
	require.NoError(t, err)

	// Replay of the settled order is a no-op but still audited.
	_, err = svc.VerifyAndApply(ctx, sub.ID, models.SubscriptionCategoryGold, result.Order.ID, "pay_1", sig)
	require.NoError(t, err)

	var history []models.GatewayCallbackHistory
	require.NoError(t, db.Where("gateway_order_id = ?", result.Order.ID).Order("id").Find(&history).Error)
	require.Len(t, history, 3)
	assert.False(t, history[0].Verified)
	assert.True(t, history[1].Verified)
	assert.True(t, history[2].Verified)
	for _, h := range history {
		assert.NotEmpty(t, h.CallbackID)
	}
}

func TestVerifyAndApplyRejectsConflictingCallback(t *testing.T) {
	svc, gateway, _, sub := newPaymentFixture(t)
	ctx := context.Background()

	result, err := svc.CreateOrder(ctx, sub.ID, 1000, models.SubscriptionCategoryGold, nil)
	require.NoError(t, err)

	sig := signPayload(result.Order.ID, "pay_1", gateway.secret)
	_, err = svc.VerifyAndApply(ctx, sub.ID, models.SubscriptionCategoryGold, result.Order.ID, "pay_1", sig)
	require.NoError(t, err)

	otherSig := signPayload(result.Order.ID, "pay_2", gateway.secret)
	_, err = svc.VerifyAndApply(ctx, sub.ID, models.SubscriptionCategoryGold, result.Order.ID, "pay_2", otherSig)

	var svcErr *Error
	require.ErrorAs(t, err, &svcErr)
	assert.Equal(t, KindPrecondition, svcErr.Kind)
}

func TestVerifyAndApplyUnknownOrder(t *testing.T) {
	svc, gateway, _, sub := newPaymentFixture(t)

	sig := signPayload("order_unknown", "pay_1", gateway.secret)
	_, err := svc.VerifyAndApply(context.Background(), sub.ID, models.SubscriptionCategoryGold, "order_unknown", "pay_1", sig)

	var svcErr *Error
	require.ErrorAs(t, err, &svcErr)
	assert.Equal(t, KindNotFound, svcErr.Kind)
}

func TestCoverage(t *testing.T) {
	dues := make([]time.Time, ScheduleMonths)
	base := time.Date(2026, time.April, 1, 0, 0, 0, 0, time.UTC)
	for i := range dues {
		dues[i] = base.AddDate(0, i, 0)
	}

	completed := func(amount float64) models.Payment {
		return models.Payment{PaymentAmount: amount, PaymentStatus: models.PaymentStatusCompleted}
	}

	tests := []struct {
		name        string
		payments    []models.Payment
		wantCovered int
	}{
		{"no payments", nil, 0},
		{"one full installment", []models.Payment{completed(500)}, 1},
		{"two half installments add up", []models.Payment{completed(250), completed(250)}, 1},
		{"partial payment covers nothing", []models.Payment{completed(499)}, 0},
		{"double payment covers two periods", []models.Payment{completed(1000)}, 2},
		{"pending payments ignored", []models.Payment{{PaymentAmount: 500, PaymentStatus: models.PaymentStatusPending}}, 0},
		{"overpay beyond schedule caps at schedule length", []models.Payment{completed(500 * 20)}, ScheduleMonths},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sub := models.Subscription{
				InitialAmount: 500,
				DueDates:      dues,
				Payments:      tt.payments,
			}
			covered := Coverage(sub)
			require.Len(t, covered, ScheduleMonths)
			for i, c := range covered {
				assert.Equal(t, i < tt.wantCovered, c, "period %d", i)
			}
		})
	}
}

func TestCoverageZeroInstallmentIsAllUncovered(t *testing.T) {
	sub := models.Subscription{
		InitialAmount: 0,
		DueDates:      []time.Time{time.Now()},
		Payments:      []models.Payment{{PaymentAmount: 100, PaymentStatus: models.PaymentStatusCompleted}},
	}
	covered := Coverage(sub)
	require.Len(t, covered, 1)
	assert.False(t, covered[0])
}
