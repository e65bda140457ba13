package models

import (
	"time"

	"gorm.io/gorm"
)

// UserRole represents the role of a user
type UserRole string

const (
	UserRoleAdmin UserRole = "admin"
	UserRoleUser  UserRole = "user"
)

// Address holds the postal address of a user
type Address struct {
	Street  string `gorm:"type:varchar(255)" json:"street"`
	City    string `gorm:"type:varchar(100)" json:"city"`
	State   string `gorm:"type:varchar(100)" json:"state"`
	Pincode string `gorm:"type:varchar(20)" json:"pincode"`
}

// BankDetails holds the bank account details of a user
type BankDetails struct {
	AccountNumber string `gorm:"type:varchar(50)" json:"account_number"`
	IFSCCode      string `gorm:"type:varchar(20)" json:"ifsc_code"`
	BankName      string `gorm:"type:varchar(100)" json:"bank_name"`
}

// User represents a registered customer or admin
type User struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`

	Username    string   `gorm:"type:varchar(100);uniqueIndex" json:"username"`
	Fullname    string   `gorm:"type:varchar(255)" json:"fullname"`
	PhoneNumber string   `gorm:"type:varchar(50);uniqueIndex" json:"phonenumber"`
	Email       string   `gorm:"type:varchar(255);uniqueIndex" json:"email"`
	Password    string   `gorm:"type:varchar(255)" json:"-"`
	Role        UserRole `gorm:"type:varchar(20);default:'user'" json:"role"`

	ReferralCode string `gorm:"type:varchar(50)" json:"referral_code,omitempty"`
	FCMToken     string `gorm:"type:varchar(512)" json:"fcm_token,omitempty"`

	Address     Address     `gorm:"embedded;embeddedPrefix:address_" json:"address"`
	BankDetails BankDetails `gorm:"embedded;embeddedPrefix:bank_" json:"bank_details"`

	// KYC identity documents. Image entries are storage references,
	// not blobs; the file store itself lives outside this service.
	AadhaarNumber string   `gorm:"type:varchar(20)" json:"aadhaar_number,omitempty"`
	PANNumber     string   `gorm:"type:varchar(20)" json:"pan_number,omitempty"`
	AadhaarImages []string `gorm:"serializer:json" json:"aadhaar_images,omitempty"`
	PANImages     []string `gorm:"serializer:json" json:"pan_images,omitempty"`
	IsVerifiedKYC bool     `gorm:"default:false" json:"is_verified_kyc"`

	// Relationships
	Subscriptions []Subscription `gorm:"foreignKey:UserID" json:"subscriptions,omitempty"`
}

// KYCComplete reports whether the user has submitted both identity document
// numbers along with at least one stored image for each document type.
// Subscriptions cannot be created until this holds.
func (u User) KYCComplete() bool {
	return u.AadhaarNumber != "" && u.PANNumber != "" &&
		len(u.AadhaarImages) > 0 && len(u.PANImages) > 0
}

// HasAddress reports whether any address field has been filled in
func (u User) HasAddress() bool {
	a := u.Address
	return a.Street != "" || a.City != "" || a.State != "" || a.Pincode != ""
}
