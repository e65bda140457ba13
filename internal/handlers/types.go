package handlers

// SignupRequest is the payload for POST /signup
type SignupRequest struct {
	Username     string `json:"username"`
	Fullname     string `json:"fullname"`
	PhoneNumber  string `json:"phonenumber"`
	Email        string `json:"email"`
	Password     string `json:"password"`
	ReferralCode string `json:"referralCode,omitempty"`
	FCMToken     string `json:"fcm_token,omitempty"`
}

// LoginRequest is the payload for POST /login
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// VerifyOTPRequest is the payload for POST /verify-otp
type VerifyOTPRequest struct {
	PhoneNumber string `json:"phonenumber"`
	OTP         string `json:"otp"`
}

// SchemeRequest is the payload for scheme create/update
type SchemeRequest struct {
	SchemeName        string   `json:"scheme_name"`
	SchemeType        string   `json:"scheme_type"`
	MinAmount         float64  `json:"min_amount"`
	MaxAmount         float64  `json:"max_amount"`
	IsWeightOrAmount  string   `json:"is_weight_or_amount,omitempty"`
	MinWeight         *float64 `json:"min_weight,omitempty"`
	MaxWeight         *float64 `json:"max_weight,omitempty"`
	Duration          int      `json:"duration"`
	SchemeDescription string   `json:"scheme_description,omitempty"`
}

// RateRequest is the payload for POST /set-rates
type RateRequest struct {
	GoldRate   *float64 `json:"gold_rate"`
	SilverRate *float64 `json:"silver_rate"`
}

// CreateSubscriptionRequest is the payload for POST /subscribe-gold and
// POST /subscribe-diamond. Diamond clients send initial_amount; gold
// clients send amount or weight depending on the scheme basis.
type CreateSubscriptionRequest struct {
	UserID        uint     `json:"user_id"`
	SchemeID      uint     `json:"scheme_id"`
	Amount        *float64 `json:"amount,omitempty"`
	InitialAmount *float64 `json:"initial_amount,omitempty"`
	Weight        *float64 `json:"weight,omitempty"`
}

// UpdateSubscriptionRequest is the payload for the subscription status
// update endpoints.
type UpdateSubscriptionRequest struct {
	SubscribeStatus string `json:"subscribe_status"`
	IsVerifiedKYC   *bool  `json:"isVerifiedKyc,omitempty"`
}

// CreateOrderRequest is the payload for the payment order endpoints
type CreateOrderRequest struct {
	SubscriptionID uint     `json:"subscription_id"`
	Amount         float64  `json:"amount"`
	Weight         *float64 `json:"weight,omitempty"`
}

// VerifyPaymentRequest is the payload for POST /verify-payment
type VerifyPaymentRequest struct {
	SubscriptionID uint   `json:"subscription_id"`
	PaymentID      string `json:"payment_id"`
	OrderID        string `json:"order_id"`
	Signature      string `json:"signature"`
	SchemeType     string `json:"scheme_type"`
}

// NotificationRequest is the payload for POST /send-custom-notification
type NotificationRequest struct {
	Title   string `json:"title"`
	Message string `json:"message"`
	UserIDs []uint `json:"userIds"`
}

// UpdateProfileRequest is the payload for PUT /adr-bank/:userId
type UpdateProfileRequest struct {
	Street        string `json:"street,omitempty"`
	City          string `json:"city,omitempty"`
	State         string `json:"state,omitempty"`
	Pincode       string `json:"pincode,omitempty"`
	AccountNumber string `json:"account_number,omitempty"`
	IFSCCode      string `json:"ifsc_code,omitempty"`
	BankName      string `json:"bank_name,omitempty"`
}

// UpdateKYCRequest is the payload for PUT /update-kyc/:userId
type UpdateKYCRequest struct {
	AadhaarNumber string   `json:"aadhaar_number,omitempty"`
	PANNumber     string   `json:"pan_number,omitempty"`
	AadhaarImages []string `json:"aadhaar_images,omitempty"`
	PANImages     []string `json:"pan_images,omitempty"`
}

// VersionRequest is the payload for POST /set-version
type VersionRequest struct {
	CurrentVersion   string `json:"current_version"`
	MandatoryVersion string `json:"mandatory_version"`
	UpdateURL        string `json:"update_url,omitempty"`
}
