package services

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
	"time"

	"github.com/redis/go-redis/v9"
)

const otpTTL = 5 * time.Minute

// OTPService issues and checks one-time passwords. Codes live in Redis
// under a per-phone key with a short TTL, so an unverified code simply
// expires instead of lingering on the user record.
type OTPService struct {
	cache *RedisCache
	sms   *SMSService
}

// NewOTPService wires the OTP store and its SMS transport
func NewOTPService(cache *RedisCache, sms *SMSService) *OTPService {
	return &OTPService{cache: cache, sms: sms}
}

func otpKey(phoneNumber string) string {
	return "otp:" + NormalizePhoneNumber(phoneNumber)
}

// Issue generates a six-digit code, stores it with a five-minute expiry
// and sends it to the phone number. Send failure is a dependency error;
// the stale key is removed so a failed send cannot be verified later.
func (s *OTPService) Issue(ctx context.Context, phoneNumber string) error {
	code, err := generateOTP()
	if err != nil {
		return fmt.Errorf("failed to generate otp: %w", err)
	}

	if err := s.cache.Set(ctx, otpKey(phoneNumber), code, otpTTL); err != nil {
		return fmt.Errorf("failed to store otp: %w", err)
	}

	if err := s.sms.SendOTP(ctx, phoneNumber, code); err != nil {
		_ = s.cache.Delete(ctx, otpKey(phoneNumber))
		return DependencyError("failed to send otp", err)
	}

	return nil
}

// Verify checks the submitted code and consumes it on success
func (s *OTPService) Verify(ctx context.Context, phoneNumber, code string) (bool, error) {
	var stored string
	err := s.cache.Get(ctx, otpKey(phoneNumber), &stored)
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	if stored != code {
		return false, nil
	}

	_ = s.cache.Delete(ctx, otpKey(phoneNumber))
	return true, nil
}

func generateOTP() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}
