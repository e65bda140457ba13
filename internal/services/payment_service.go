package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"goldsaver_api/internal/models"
)

// PaymentGateway is what the ledger needs from the gateway client: order
// creation and callback signature verification.
type PaymentGateway interface {
	CreateOrder(amount float64, receipt string, notes map[string]interface{}) (*GatewayOrder, error)
	VerifySignature(orderID, paymentID, signature string) bool
}

// PaymentService is the payment ledger: an append-only record of payment
// attempts per subscription. Rows are created pending when an order is
// requested and flip to completed only through a verified callback.
type PaymentService struct {
	db      *gorm.DB
	gateway PaymentGateway
	schemes *SchemeService
}

// NewPaymentService wires the ledger to its gateway and scheme catalog
func NewPaymentService(db *gorm.DB, gateway PaymentGateway, schemes *SchemeService) *PaymentService {
	return &PaymentService{db: db, gateway: gateway, schemes: schemes}
}

// CreateOrderResult carries the gateway order plus the echoed
// subscription metadata the clients expect.
type CreateOrderResult struct {
	Order        *GatewayOrder        `json:"razorpay_response"`
	Subscription *models.Subscription `json:"-"`
	SchemeType   models.SchemeType    `json:"scheme_type"`
}

// CreateOrder validates the subscription against its scheme's type,
// creates a gateway order and appends the pending ledger row keyed by the
// gateway order id.
func (s *PaymentService) CreateOrder(ctx context.Context, subscriptionID uint, amount float64, category models.SubscriptionCategory, extraNotes map[string]interface{}) (*CreateOrderResult, error) {
	if amount <= 0 {
		return nil, ValidationError("amount must be positive")
	}

	var sub models.Subscription
	err := s.db.WithContext(ctx).
		Where("id = ? AND category = ?", subscriptionID, category).
		First(&sub).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, NotFoundError("%s subscription not found", category)
	}
	if err != nil {
		return nil, err
	}

	scheme, err := s.schemes.Validate(ctx, sub.SchemeID, models.SchemeType(category))
	if err != nil {
		return nil, err
	}

	notes := map[string]interface{}{
		"subscription_id": subscriptionID,
	}
	for k, v := range extraNotes {
		notes[k] = v
	}

	receipt := fmt.Sprintf("receipt_%d", subscriptionID)
	order, err := s.gateway.CreateOrder(amount, receipt, notes)
	if err != nil {
		return nil, DependencyError("failed to create payment order", err)
	}

	payment := models.Payment{
		SubscriptionID: sub.ID,
		PaymentDate:    time.Now(),
		PaymentAmount:  amount,
		PaymentStatus:  models.PaymentStatusPending,
		PaymentMethod:  models.PaymentMethodGateway,
		GatewayOrderID: order.ID,
	}
	if err := s.db.WithContext(ctx).Create(&payment).Error; err != nil {
		return nil, err
	}

	return &CreateOrderResult{
		Order:        order,
		Subscription: &sub,
		SchemeType:   scheme.SchemeType,
	}, nil
}

// VerifyAndApply authenticates a gateway callback and settles the pending
// ledger row matching the order id. The settle is a conditional update on
// (order id, pending), so two callbacks for the same order cannot
// double-count: a repeat carrying the same payment id is a no-op, any
// other callback against a settled order is rejected.
func (s *PaymentService) VerifyAndApply(ctx context.Context, subscriptionID uint, category models.SubscriptionCategory, orderID, paymentID, signature string) (*models.Subscription, error) {
	var sub models.Subscription
	err := s.db.WithContext(ctx).
		Where("id = ? AND category = ?", subscriptionID, category).
		First(&sub).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, NotFoundError("subscription not found")
	}
	if err != nil {
		return nil, err
	}

	if !s.gateway.VerifySignature(orderID, paymentID, signature) {
		s.recordCallback(ctx, orderID, false, map[string]interface{}{
			"subscription_id": subscriptionID,
			"payment_id":      paymentID,
		})
		log.Printf("SECURITY: signature verification failed for order %s (subscription %d)", orderID, subscriptionID)
		return nil, AuthenticityError("invalid signature, payment verification failed")
	}

	// Audit every authenticated callback, replays included, before the
	// settle decides whether it changes anything.
	s.recordCallback(ctx, orderID, true, map[string]interface{}{
		"subscription_id": subscriptionID,
		"payment_id":      paymentID,
	})

	res := s.db.WithContext(ctx).Model(&models.Payment{}).
		Where("subscription_id = ? AND gateway_order_id = ? AND payment_status = ?",
			sub.ID, orderID, models.PaymentStatusPending).
		Updates(map[string]interface{}{
			"payment_status":     models.PaymentStatusCompleted,
			"gateway_payment_id": paymentID,
			"gateway_signature":  signature,
			"payment_date":       time.Now(),
		})
	if res.Error != nil {
		return nil, res.Error
	}

	if res.RowsAffected == 0 {
		var existing models.Payment
		err := s.db.WithContext(ctx).
			Where("subscription_id = ? AND gateway_order_id = ?", sub.ID, orderID).
			First(&existing).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NotFoundError("payment record not found in subscription")
		}
		if err != nil {
			return nil, err
		}
		if existing.PaymentStatus == models.PaymentStatusCompleted && existing.GatewayPaymentID == paymentID {
			// Duplicate callback for an already settled order; nothing to do.
			return s.reload(ctx, sub.ID)
		}
		return nil, PreconditionError("order already settled")
	}

	return s.reload(ctx, sub.ID)
}

func (s *PaymentService) reload(ctx context.Context, subscriptionID uint) (*models.Subscription, error) {
	var sub models.Subscription
	if err := s.db.WithContext(ctx).Preload("Payments").First(&sub, subscriptionID).Error; err != nil {
		return nil, err
	}
	return &sub, nil
}

// recordCallback appends the callback to the audit trail; auditing is
// best effort and never blocks reconciliation.
func (s *PaymentService) recordCallback(ctx context.Context, orderID string, verified bool, metadata map[string]interface{}) {
	history := models.GatewayCallbackHistory{
		CallbackID:     uuid.NewString(),
		GatewayOrderID: orderID,
		Verified:       verified,
		Metadata:       metadata,
	}
	if err := s.db.WithContext(ctx).Create(&history).Error; err != nil {
		log.Printf("failed to record gateway callback for order %s: %v", orderID, err)
	}
}

// Coverage derives, for each due date in order, whether the cumulative
// completed-payment amount covers that period: the first
// floor(totalCompleted / monthly installment) entries are true. Always
// recomputed from the ledger, never stored.
func Coverage(sub models.Subscription) []bool {
	covered := make([]bool, len(sub.DueDates))
	if len(covered) == 0 || sub.InitialAmount <= 0 {
		return covered
	}

	periods := int(sub.CompletedTotal() / sub.InitialAmount)
	for i := 0; i < len(covered) && i < periods; i++ {
		covered[i] = true
	}
	return covered
}
