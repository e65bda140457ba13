package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"goldsaver_api/internal/models"
)

// SubscriptionService is the state machine orchestrating subscription
// creation, activation, cancellation and reporting.
type SubscriptionService struct {
	db      *gorm.DB
	schemes *SchemeService
	rates   *RateService
}

// NewSubscriptionService wires the state machine to its collaborators
func NewSubscriptionService(db *gorm.DB, schemes *SchemeService, rates *RateService) *SubscriptionService {
	return &SubscriptionService{db: db, schemes: schemes, rates: rates}
}

// CreateSubscriptionParams are the validated inputs of a create request.
// Exactly one of Amount or Weight applies, depending on the scheme basis.
type CreateSubscriptionParams struct {
	UserID   uint
	SchemeID uint
	Category models.SubscriptionCategory
	Amount   *float64
	Weight   *float64
}

// Create validates the user's KYC and the scheme, snapshots the monthly
// installment (weight x current gold rate for weight-basis schemes) and
// persists a waiting subscription.
func (s *SubscriptionService) Create(ctx context.Context, p CreateSubscriptionParams) (*models.Subscription, error) {
	var user models.User
	err := s.db.WithContext(ctx).First(&user, p.UserID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, NotFoundError("user not found")
	}
	if err != nil {
		return nil, err
	}

	if !user.KYCComplete() {
		return nil, PreconditionError("user KYC not completed")
	}

	scheme, err := s.schemes.Validate(ctx, p.SchemeID, models.SchemeType(p.Category))
	if err != nil {
		return nil, err
	}

	sub := models.Subscription{
		UserID:          p.UserID,
		SchemeID:        p.SchemeID,
		Category:        p.Category,
		SubscribeStatus: models.SubscribeStatusWaiting,
		DueDates:        []time.Time{},
	}

	if scheme.IsWeightBased() {
		if p.Weight == nil || *p.Weight <= 0 {
			return nil, ValidationError("weight is required for this %s subscription scheme", scheme.SchemeType)
		}
		if scheme.MinWeight != nil && *p.Weight < *scheme.MinWeight {
			return nil, ValidationError("weight %v is below the scheme minimum of %v", *p.Weight, *scheme.MinWeight)
		}
		if scheme.MaxWeight != nil && *p.Weight > *scheme.MaxWeight {
			return nil, ValidationError("weight %v is above the scheme maximum of %v", *p.Weight, *scheme.MaxWeight)
		}

		rate, err := s.rates.Current(ctx)
		if err != nil {
			return nil, err
		}

		weight := *p.Weight
		sub.Weight = &weight
		sub.InitialAmount = weight * rate.GoldRate
	} else {
		if p.Amount == nil || *p.Amount <= 0 {
			return nil, ValidationError("amount is required for this %s subscription scheme", scheme.SchemeType)
		}
		if scheme.MinAmount > 0 && *p.Amount < scheme.MinAmount {
			return nil, ValidationError("amount %v is below the scheme minimum of %v", *p.Amount, scheme.MinAmount)
		}
		if scheme.MaxAmount > 0 && *p.Amount > scheme.MaxAmount {
			return nil, ValidationError("amount %v is above the scheme maximum of %v", *p.Amount, scheme.MaxAmount)
		}
		sub.InitialAmount = *p.Amount
	}

	if err := s.db.WithContext(ctx).Create(&sub).Error; err != nil {
		return nil, err
	}
	return &sub, nil
}

// UpdateStatus drives the waiting -> active -> cancelled state machine.
// Activation stamps the start date, end date and due schedule exactly
// once, guarded by a conditional update so two racing activations cannot
// both fire. When verifiedKYC is non-nil the owning user's KYC-verified
// flag is updated alongside; the returned message reports that outcome.
func (s *SubscriptionService) UpdateStatus(ctx context.Context, subscriptionID uint, category models.SubscriptionCategory, status models.SubscribeStatus, verifiedKYC *bool) (*models.Subscription, string, error) {
	var sub models.Subscription
	err := s.db.WithContext(ctx).
		Where("id = ? AND category = ?", subscriptionID, category).
		First(&sub).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, "", NotFoundError("%s subscription not found", category)
	}
	if err != nil {
		return nil, "", err
	}

	switch status {
	case models.SubscribeStatusActive:
		if err := s.activate(ctx, &sub); err != nil {
			return nil, "", err
		}
	case models.SubscribeStatusCancelled:
		if err := s.cancel(ctx, &sub); err != nil {
			return nil, "", err
		}
	default:
		return nil, "", ValidationError("invalid subscribe_status %q", status)
	}

	kycMessage := "No updates were made to the user's KYC status."
	if verifiedKYC != nil {
		res := s.db.WithContext(ctx).Model(&models.User{}).
			Where("id = ?", sub.UserID).
			Update("is_verified_kyc", *verifiedKYC)
		if res.Error != nil || res.RowsAffected == 0 {
			kycMessage = "Failed to update user's KYC status."
		} else {
			kycMessage = "User's KYC status updated successfully."
		}
	}

	var updated models.Subscription
	if err := s.db.WithContext(ctx).Preload("Payments").First(&updated, sub.ID).Error; err != nil {
		return nil, "", err
	}
	return &updated, kycMessage, nil
}

// activate performs the waiting -> active transition. The guard on the
// current status makes the schedule stamp at-most-once: a re-activation
// of an already active subscription is rejected instead of regenerating
// the due dates.
func (s *SubscriptionService) activate(ctx context.Context, sub *models.Subscription) error {
	switch sub.SubscribeStatus {
	case models.SubscribeStatusActive:
		return PreconditionError("subscription is already active")
	case models.SubscribeStatusCancelled:
		return PreconditionError("cancelled subscription cannot be activated")
	}

	now := time.Now()
	initialDate := startOfDay(now)
	dueDates, endDate := GenerateSchedule(now)

	res := s.db.WithContext(ctx).Model(&models.Subscription{}).
		Where("id = ? AND subscribe_status = ?", sub.ID, models.SubscribeStatusWaiting).
		Updates(models.Subscription{
			SubscribeStatus: models.SubscribeStatusActive,
			InitialDate:     &initialDate,
			EndDate:         &endDate,
			DueDates:        dueDates,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		// Lost the race with a concurrent transition.
		return PreconditionError("subscription is already active")
	}
	return nil
}

// cancel moves a subscription into its terminal state
func (s *SubscriptionService) cancel(ctx context.Context, sub *models.Subscription) error {
	if sub.SubscribeStatus == models.SubscribeStatusCancelled {
		return PreconditionError("subscription is already cancelled")
	}

	res := s.db.WithContext(ctx).Model(&models.Subscription{}).
		Where("id = ? AND subscribe_status <> ?", sub.ID, models.SubscribeStatusCancelled).
		Update("subscribe_status", models.SubscribeStatusCancelled)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return PreconditionError("subscription is already cancelled")
	}
	return nil
}

// SubscriptionReportEntry is one enriched row of a subscription report
type SubscriptionReportEntry struct {
	models.Subscription
	SchemeDetails *models.Scheme `json:"schemeDetails,omitempty"`
	PhoneNumber   string         `json:"phonenumber,omitempty"`
	FCMToken      string         `json:"fcm_token,omitempty"`
	DueCoverage   []bool         `json:"due_coverage"`
}

// SubscriptionReport groups report entries by category
type SubscriptionReport struct {
	Gold    []SubscriptionReportEntry `json:"gold"`
	Diamond []SubscriptionReportEntry `json:"diamond"`
}

// Report joins every subscription with its scheme, the owner's contact
// fields and the derived due coverage. Read-only.
func (s *SubscriptionService) Report(ctx context.Context) (*SubscriptionReport, error) {
	return s.report(ctx, nil)
}

// ReportByUser is Report scoped to a single owner
func (s *SubscriptionService) ReportByUser(ctx context.Context, userID uint) (*SubscriptionReport, error) {
	return s.report(ctx, func(q *gorm.DB) *gorm.DB {
		return q.Where("user_id = ?", userID)
	})
}

func (s *SubscriptionService) report(ctx context.Context, scope func(*gorm.DB) *gorm.DB) (*SubscriptionReport, error) {
	q := s.db.WithContext(ctx).
		Preload("Scheme").Preload("User").Preload("Payments")
	if scope != nil {
		q = scope(q)
	}

	var subs []models.Subscription
	if err := q.Find(&subs).Error; err != nil {
		return nil, err
	}

	report := &SubscriptionReport{
		Gold:    []SubscriptionReportEntry{},
		Diamond: []SubscriptionReportEntry{},
	}
	for _, sub := range subs {
		entry := SubscriptionReportEntry{
			Subscription: sub,
			PhoneNumber:  sub.User.PhoneNumber,
			FCMToken:     sub.User.FCMToken,
			DueCoverage:  Coverage(sub),
		}
		if sub.Scheme.ID != 0 {
			scheme := sub.Scheme
			entry.SchemeDetails = &scheme
		}
		switch sub.Category {
		case models.SubscriptionCategoryGold:
			report.Gold = append(report.Gold, entry)
		default:
			report.Diamond = append(report.Diamond, entry)
		}
	}
	return report, nil
}

// KYCImage is a served reference to a stored KYC document image
type KYCImage struct {
	FileID string `json:"fileId"`
	URL    string `json:"url"`
}

// PendingRequestEntry is one waiting subscription awaiting admin review,
// enriched with the applicant's details and KYC image links.
type PendingRequestEntry struct {
	models.Subscription
	UserDetails *models.User `json:"userDetails,omitempty"`
	SchemeName  string       `json:"schemeName,omitempty"`
	KYC         *struct {
		AadhaarImages []KYCImage `json:"aadhaar_images"`
		PANImages     []KYCImage `json:"pan_images"`
	} `json:"kyc,omitempty"`
}

// PendingRequests lists all waiting subscriptions for admin review.
// serverURL prefixes the KYC image links.
func (s *SubscriptionService) PendingRequests(ctx context.Context, serverURL string) ([]PendingRequestEntry, error) {
	var subs []models.Subscription
	err := s.db.WithContext(ctx).
		Preload("Scheme").Preload("User").
		Where("subscribe_status = ?", models.SubscribeStatusWaiting).
		Find(&subs).Error
	if err != nil {
		return nil, err
	}
	if len(subs) == 0 {
		return nil, NotFoundError("no pending requests found")
	}

	entries := make([]PendingRequestEntry, 0, len(subs))
	for _, sub := range subs {
		entry := PendingRequestEntry{
			Subscription: sub,
			SchemeName:   sub.Scheme.SchemeName,
		}

		user := sub.User
		if user.ID != 0 {
			if len(user.AadhaarImages) > 0 && len(user.PANImages) > 0 {
				kyc := &struct {
					AadhaarImages []KYCImage `json:"aadhaar_images"`
					PANImages     []KYCImage `json:"pan_images"`
				}{
					AadhaarImages: kycImageLinks(serverURL, user.AadhaarImages),
					PANImages:     kycImageLinks(serverURL, user.PANImages),
				}
				entry.KYC = kyc
			}
			// Raw image references stay off the user payload; the kyc
			// block above carries the served links instead.
			user.AadhaarImages = nil
			user.PANImages = nil
			entry.UserDetails = &user
		}

		entries = append(entries, entry)
	}
	return entries, nil
}

func kycImageLinks(serverURL string, fileIDs []string) []KYCImage {
	images := make([]KYCImage, 0, len(fileIDs))
	for _, id := range fileIDs {
		images = append(images, KYCImage{
			FileID: id,
			URL:    fmt.Sprintf("%s/kyc/image/%s", serverURL, id),
		})
	}
	return images
}
