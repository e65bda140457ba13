package models

import (
	"time"

	"gorm.io/gorm"
)

// SubscriptionCategory mirrors the scheme type of the subscription. Gold
// and diamond subscriptions share one shape and one table; the category
// column keeps their reports separable.
type SubscriptionCategory string

const (
	SubscriptionCategoryGold    SubscriptionCategory = "gold"
	SubscriptionCategoryDiamond SubscriptionCategory = "diamond"
)

// SubscribeStatus is the lifecycle state of a subscription.
// waiting -> active -> cancelled; cancellation is reachable from either
// prior state and is terminal.
type SubscribeStatus string

const (
	SubscribeStatusWaiting   SubscribeStatus = "waiting"
	SubscribeStatusActive    SubscribeStatus = "active"
	SubscribeStatusCancelled SubscribeStatus = "cancelled"
)

// Subscription is a user's enrollment against a scheme. DueDates is empty
// until the waiting->active transition stamps the generated schedule, and
// is set exactly once.
type Subscription struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`

	UserID   uint                 `gorm:"index;not null" json:"user_id"`
	SchemeID uint                 `gorm:"index;not null" json:"scheme_id"`
	Category SubscriptionCategory `gorm:"type:varchar(20);not null;index" json:"category"`

	// Weight is set only for weight-basis gold subscriptions, in grams.
	Weight *float64 `gorm:"type:decimal(10,3)" json:"weight,omitempty"`

	// InitialAmount is the monthly installment of the subscription. For
	// weight-basis subscriptions it is weight x gold rate at creation
	// time, snapshotted and never recomputed.
	InitialAmount float64 `gorm:"type:decimal(15,2);not null" json:"initial_amount"`

	SubscribeStatus SubscribeStatus `gorm:"type:varchar(20);default:'waiting';index" json:"subscribe_status"`

	InitialDate *time.Time  `json:"initial_date,omitempty"`
	EndDate     *time.Time  `json:"end_date,omitempty"`
	DueDates    []time.Time `gorm:"serializer:json" json:"due_date"`

	// Relationships. The associations are surfaced through the report
	// entries, not serialized inline.
	User     User      `gorm:"foreignKey:UserID" json:"-"`
	Scheme   Scheme    `gorm:"foreignKey:SchemeID" json:"-"`
	Payments []Payment `gorm:"foreignKey:SubscriptionID" json:"payments"`
}

// PaymentStatus is the settlement state of a single ledger row
type PaymentStatus string

const (
	PaymentStatusPending   PaymentStatus = "pending"
	PaymentStatusCompleted PaymentStatus = "completed"
)

// PaymentMethod distinguishes gateway-settled payments from manual entries
type PaymentMethod string

const (
	PaymentMethodGateway PaymentMethod = "gateway"
	PaymentMethodManual  PaymentMethod = "manual"
)

// Payment is one append-only ledger row of a subscription. A row is
// created pending when a gateway order is requested and flips to
// completed only through successful signature verification. GatewayPaymentID
// and GatewaySignature are present iff the row is completed. Rows are
// never deleted.
type Payment struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`

	SubscriptionID uint          `gorm:"index;not null" json:"subscription_id"`
	PaymentDate    time.Time     `json:"payment_date"`
	PaymentAmount  float64       `gorm:"type:decimal(15,2)" json:"payment_amount"`
	PaymentStatus  PaymentStatus `gorm:"type:varchar(20);default:'pending'" json:"payment_status"`
	PaymentMethod  PaymentMethod `gorm:"type:varchar(20);default:'gateway'" json:"payment_method"`

	// The unique index makes "exactly one ledger row per gateway order"
	// a database invariant rather than an array-scan convention.
	GatewayOrderID   string `gorm:"type:varchar(100);uniqueIndex" json:"gateway_order_id"`
	GatewayPaymentID string `gorm:"type:varchar(100)" json:"gateway_payment_id,omitempty"`
	GatewaySignature string `gorm:"type:varchar(255)" json:"gateway_signature,omitempty"`
}

// GatewayCallbackHistory keeps the raw payload of every gateway callback
// for auditing, regardless of whether verification succeeded. CallbackID
// is a stable reference for correlating audit rows across log lines.
type GatewayCallbackHistory struct {
	ID             uint                   `gorm:"primaryKey" json:"id"`
	CreatedAt      time.Time              `json:"created_at"`
	UpdatedAt      time.Time              `json:"updated_at"`
	DeletedAt      gorm.DeletedAt         `gorm:"index" json:"deleted_at,omitempty"`
	CallbackID     string                 `gorm:"type:varchar(36);uniqueIndex" json:"callback_id"`
	GatewayOrderID string                 `gorm:"type:varchar(100);index" json:"gateway_order_id"`
	Verified       bool                   `json:"verified"`
	Metadata       map[string]interface{} `gorm:"serializer:json" json:"metadata"`
}

// CompletedTotal sums the amounts of completed ledger rows
func (s Subscription) CompletedTotal() float64 {
	var total float64
	for _, p := range s.Payments {
		if p.PaymentStatus == PaymentStatusCompleted {
			total += p.PaymentAmount
		}
	}
	return total
}
