package handlers

import (
	"errors"
	"log"
	"net/http"

	"github.com/labstack/echo/v4"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"goldsaver_api/internal/middleware"
	"goldsaver_api/internal/models"
	"goldsaver_api/internal/services"
)

// AuthHandler serves signup, login and OTP verification
type AuthHandler struct {
	db        *gorm.DB
	otp       *services.OTPService
	jwtSecret []byte
}

// NewAuthHandler wires the auth endpoints
func NewAuthHandler(db *gorm.DB, otp *services.OTPService, jwtSecret []byte) *AuthHandler {
	return &AuthHandler{db: db, otp: otp, jwtSecret: jwtSecret}
}

// Signup registers a new user and sends a verification OTP to the phone
// number. OTP delivery is best effort; its failure does not undo the
// registration.
func (h *AuthHandler) Signup(c echo.Context) error {
	var req SignupRequest
	if err := c.Bind(&req); err != nil {
		return services.ValidationError("invalid JSON payload")
	}
	if req.Username == "" || req.Fullname == "" || req.PhoneNumber == "" || req.Email == "" || req.Password == "" {
		return services.ValidationError("username, fullname, phonenumber, email and password are required")
	}

	var count int64
	err := h.db.WithContext(c.Request().Context()).Model(&models.User{}).
		Where("username = ? OR email = ? OR phone_number = ?", req.Username, req.Email, req.PhoneNumber).
		Count(&count).Error
	if err != nil {
		return err
	}
	if count > 0 {
		return services.ValidationError("a user with this username, email or phone number already exists")
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	user := models.User{
		Username:     req.Username,
		Fullname:     req.Fullname,
		PhoneNumber:  req.PhoneNumber,
		Email:        req.Email,
		Password:     string(hashed),
		Role:         models.UserRoleUser,
		ReferralCode: req.ReferralCode,
		FCMToken:     req.FCMToken,
	}
	if err := h.db.WithContext(c.Request().Context()).Create(&user).Error; err != nil {
		return err
	}

	otpSent := true
	if err := h.otp.Issue(c.Request().Context(), user.PhoneNumber); err != nil {
		log.Printf("failed to send signup otp to user %d: %v", user.ID, err)
		otpSent = false
	}

	return c.JSON(http.StatusCreated, map[string]interface{}{
		"message":  "User registered successfully",
		"user":     user,
		"otp_sent": otpSent,
	})
}

// Login checks credentials and returns a bearer token
func (h *AuthHandler) Login(c echo.Context) error {
	var req LoginRequest
	if err := c.Bind(&req); err != nil {
		return services.ValidationError("invalid JSON payload")
	}
	if req.Username == "" || req.Password == "" {
		return services.ValidationError("username and password are required")
	}

	var user models.User
	err := h.db.WithContext(c.Request().Context()).
		Where("username = ?", req.Username).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return echo.NewHTTPError(http.StatusUnauthorized, "invalid credentials")
	}
	if err != nil {
		return err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)) != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "invalid credentials")
	}

	token, err := middleware.IssueToken(h.jwtSecret, &user)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"message": "Login successful",
		"token":   token,
		"user":    user,
	})
}

// VerifyOTP checks a submitted code and, on success, returns a bearer
// token so verified signups can proceed without a separate login.
func (h *AuthHandler) VerifyOTP(c echo.Context) error {
	var req VerifyOTPRequest
	if err := c.Bind(&req); err != nil {
		return services.ValidationError("invalid JSON payload")
	}
	if req.PhoneNumber == "" || req.OTP == "" {
		return services.ValidationError("phonenumber and otp are required")
	}

	ok, err := h.otp.Verify(c.Request().Context(), req.PhoneNumber, req.OTP)
	if err != nil {
		return err
	}
	if !ok {
		return services.ValidationError("invalid or expired otp")
	}

	var user models.User
	err = h.db.WithContext(c.Request().Context()).
		Where("phone_number = ?", req.PhoneNumber).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return services.NotFoundError("user not found")
	}
	if err != nil {
		return err
	}

	token, err := middleware.IssueToken(h.jwtSecret, &user)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"message": "OTP verified successfully",
		"token":   token,
	})
}
