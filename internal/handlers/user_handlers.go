package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"goldsaver_api/internal/models"
	"goldsaver_api/internal/services"
)

// UserHandler serves the user profile and KYC endpoints
type UserHandler struct {
	db *gorm.DB
}

// NewUserHandler wires the user endpoints
func NewUserHandler(db *gorm.DB) *UserHandler {
	return &UserHandler{db: db}
}

func (h *UserHandler) loadUser(c echo.Context, param string) (*models.User, error) {
	id, err := strconv.ParseUint(c.Param(param), 10, 32)
	if err != nil {
		return nil, services.ValidationError("invalid user id")
	}

	var user models.User
	err = h.db.WithContext(c.Request().Context()).First(&user, uint(id)).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, services.NotFoundError("user not found")
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// GetUser returns one user profile
func (h *UserHandler) GetUser(c echo.Context) error {
	user, err := h.loadUser(c, "id")
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, user)
}

// UpdateUser updates the basic profile fields of a user
func (h *UserHandler) UpdateUser(c echo.Context) error {
	user, err := h.loadUser(c, "id")
	if err != nil {
		return err
	}

	var req struct {
		Fullname string `json:"fullname,omitempty"`
		Email    string `json:"email,omitempty"`
		FCMToken string `json:"fcm_token,omitempty"`
	}
	if err := c.Bind(&req); err != nil {
		return services.ValidationError("invalid JSON payload")
	}

	if req.Fullname != "" {
		user.Fullname = req.Fullname
	}
	if req.Email != "" {
		user.Email = req.Email
	}
	if req.FCMToken != "" {
		user.FCMToken = req.FCMToken
	}

	if err := h.db.WithContext(c.Request().Context()).Save(user).Error; err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"message": "User updated successfully",
		"user":    user,
	})
}

// DeleteUser soft-deletes a user
func (h *UserHandler) DeleteUser(c echo.Context) error {
	user, err := h.loadUser(c, "id")
	if err != nil {
		return err
	}
	if err := h.db.WithContext(c.Request().Context()).Delete(user).Error; err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "User deleted successfully"})
}

// UpdateProfile updates the address and bank details of a user
func (h *UserHandler) UpdateProfile(c echo.Context) error {
	user, err := h.loadUser(c, "userId")
	if err != nil {
		return err
	}

	var req UpdateProfileRequest
	if err := c.Bind(&req); err != nil {
		return services.ValidationError("invalid JSON payload")
	}

	if req.Street != "" {
		user.Address.Street = req.Street
	}
	if req.City != "" {
		user.Address.City = req.City
	}
	if req.State != "" {
		user.Address.State = req.State
	}
	if req.Pincode != "" {
		user.Address.Pincode = req.Pincode
	}
	if req.AccountNumber != "" {
		user.BankDetails.AccountNumber = req.AccountNumber
	}
	if req.IFSCCode != "" {
		user.BankDetails.IFSCCode = req.IFSCCode
	}
	if req.BankName != "" {
		user.BankDetails.BankName = req.BankName
	}

	if err := h.db.WithContext(c.Request().Context()).Save(user).Error; err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"message": "Profile updated successfully",
		"user":    user,
	})
}

// UpdateKYC stores the identity document numbers and image references.
// The KYC-verified flag is only ever set by an admin through the
// subscription activation flow, never here.
func (h *UserHandler) UpdateKYC(c echo.Context) error {
	user, err := h.loadUser(c, "userId")
	if err != nil {
		return err
	}

	var req UpdateKYCRequest
	if err := c.Bind(&req); err != nil {
		return services.ValidationError("invalid JSON payload")
	}

	if req.AadhaarNumber != "" {
		user.AadhaarNumber = req.AadhaarNumber
	}
	if req.PANNumber != "" {
		user.PANNumber = req.PANNumber
	}
	if len(req.AadhaarImages) > 0 {
		user.AadhaarImages = append(user.AadhaarImages, req.AadhaarImages...)
	}
	if len(req.PANImages) > 0 {
		user.PANImages = append(user.PANImages, req.PANImages...)
	}

	if err := h.db.WithContext(c.Request().Context()).Save(user).Error; err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"message":      "KYC updated successfully",
		"kyc_complete": user.KYCComplete(),
	})
}

// GetKYC returns the KYC state of a user with served image links
func (h *UserHandler) GetKYC(c echo.Context) error {
	user, err := h.loadUser(c, "userId")
	if err != nil {
		return err
	}

	serverURL := c.Scheme() + "://" + c.Request().Host
	links := func(ids []string) []map[string]string {
		out := make([]map[string]string, 0, len(ids))
		for _, id := range ids {
			out = append(out, map[string]string{
				"fileId": id,
				"url":    fmt.Sprintf("%s/kyc/image/%s", serverURL, id),
			})
		}
		return out
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"aadhaar_number":  user.AadhaarNumber,
		"pan_number":      user.PANNumber,
		"aadhaar_images":  links(user.AadhaarImages),
		"pan_images":      links(user.PANImages),
		"kyc_complete":    user.KYCComplete(),
		"is_verified_kyc": user.IsVerifiedKYC,
	})
}
