package services

import (
	"fmt"

	razorpay "github.com/razorpay/razorpay-go"
)

// GatewayOrder is the slice of the gateway's order response the ledger
// cares about. Amount is in the smallest currency unit (paise).
type GatewayOrder struct {
	ID       string `json:"id"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	Receipt  string `json:"receipt"`
}

// RazorpayService wraps the payment-gateway client. Constructed once at
// startup and injected; never a package-level singleton.
type RazorpayService struct {
	client    *razorpay.Client
	keySecret string
}

// NewRazorpayService creates a gateway client from the key pair
func NewRazorpayService(keyID, keySecret string) *RazorpayService {
	client := razorpay.NewClient(keyID, keySecret)
	return &RazorpayService{client: client, keySecret: keySecret}
}

// CreateOrder creates a gateway order for the given rupee amount. The
// amount is converted to paise on the wire and back for the caller.
func (s *RazorpayService) CreateOrder(amount float64, receipt string, notes map[string]interface{}) (*GatewayOrder, error) {
	data := map[string]interface{}{
		"amount":   int64(amount * 100),
		"currency": "INR",
		"receipt":  receipt,
	}
	if notes != nil {
		data["notes"] = notes
	}

	body, err := s.client.Order.Create(data, nil)
	if err != nil {
		return nil, fmt.Errorf("razorpay create order: %w", err)
	}

	order := &GatewayOrder{Currency: "INR", Receipt: receipt}
	if id, ok := body["id"].(string); ok {
		order.ID = id
	}
	if currency, ok := body["currency"].(string); ok {
		order.Currency = currency
	}
	if rcpt, ok := body["receipt"].(string); ok {
		order.Receipt = rcpt
	}
	switch amt := body["amount"].(type) {
	case float64:
		order.Amount = int64(amt)
	case int64:
		order.Amount = amt
	}
	if order.ID == "" {
		return nil, fmt.Errorf("razorpay create order: response missing order id")
	}

	return order, nil
}

// VerifySignature checks a callback signature against this client's secret
func (s *RazorpayService) VerifySignature(orderID, paymentID, signature string) bool {
	return VerifyPaymentSignature(orderID, paymentID, signature, s.keySecret)
}
