package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"goldsaver_api/internal/models"
	"goldsaver_api/internal/services"
)

// ReferralHandler serves the referral listing endpoints
type ReferralHandler struct {
	db *gorm.DB
}

// NewReferralHandler wires the referral endpoints
func NewReferralHandler(db *gorm.DB) *ReferralHandler {
	return &ReferralHandler{db: db}
}

// referredUser narrows a user row to the fields a referral listing exposes
type referredUser struct {
	ID           uint   `json:"id"`
	Username     string `json:"username"`
	Fullname     string `json:"fullname"`
	Email        string `json:"email"`
	PhoneNumber  string `json:"phonenumber"`
	ReferralCode string `json:"referral_code"`
}

func referredUsers(users []models.User) []referredUser {
	out := make([]referredUser, 0, len(users))
	for _, u := range users {
		out = append(out, referredUser{
			ID:           u.ID,
			Username:     u.Username,
			Fullname:     u.Fullname,
			Email:        u.Email,
			PhoneNumber:  u.PhoneNumber,
			ReferralCode: u.ReferralCode,
		})
	}
	return out
}

// ListByCode returns every user who signed up with the given referral code
func (h *ReferralHandler) ListByCode(c echo.Context) error {
	code := c.Param("referralCode")
	if code == "" {
		return services.ValidationError("referral code is required")
	}

	var users []models.User
	err := h.db.WithContext(c.Request().Context()).
		Where("referral_code = ?", code).Find(&users).Error
	if err != nil {
		return err
	}
	if len(users) == 0 {
		return services.NotFoundError("no users found with this referral code")
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"message":       "Referral list retrieved successfully",
		"referredUsers": referredUsers(users),
	})
}

// ListAll returns every user that carries a referral code
func (h *ReferralHandler) ListAll(c echo.Context) error {
	var users []models.User
	err := h.db.WithContext(c.Request().Context()).
		Where("referral_code <> ''").Find(&users).Error
	if err != nil {
		return err
	}
	if len(users) == 0 {
		return services.NotFoundError("no users with referral codes found")
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"message": "Referral list retrieved successfully",
		"users":   referredUsers(users),
	})
}
