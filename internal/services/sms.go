package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"
)

// SMSService sends transactional SMS (OTP delivery) through the SMS
// gateway's HTTP API.
type SMSService struct {
	baseURL  string
	apiKey   string
	senderID string
	client   *http.Client
}

// NewSMSService builds the SMS client from environment configuration
func NewSMSService() *SMSService {
	url := os.Getenv("SMS_BASE_URL")
	if url == "" {
		url = "https://www.fast2sms.com/dev"
	}
	return &SMSService{
		baseURL:  url,
		apiKey:   os.Getenv("SMS_API_KEY"),
		senderID: os.Getenv("SMS_SENDER_ID"),
		client:   &http.Client{Timeout: 10 * time.Second},
	}
}

func (s *SMSService) makeRequest(ctx context.Context, method, endpoint string, payload interface{}) error {
	var bodyReader io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("failed to marshal payload: %w", err)
		}
		bodyReader = bytes.NewBuffer(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, fmt.Sprintf("%s%s", s.baseURL, endpoint), bodyReader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", s.apiKey)

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("request failed with status %d: %s", resp.StatusCode, string(body))
	}

	return nil
}

// SendOTP delivers a one-time password to the given phone number
func (s *SMSService) SendOTP(ctx context.Context, phoneNumber, otp string) error {
	number := NormalizePhoneNumber(phoneNumber)

	return s.makeRequest(ctx, http.MethodPost, "/bulkV2", map[string]string{
		"route":            "otp",
		"sender_id":        s.senderID,
		"variables_values": otp,
		"numbers":          number,
	})
}

// NormalizePhoneNumber standardizes Indian mobile numbers to their bare
// ten-digit national form as the SMS gateway expects.
func NormalizePhoneNumber(number string) string {
	number = strings.TrimSpace(number)
	number = strings.ReplaceAll(number, " ", "")
	number = strings.ReplaceAll(number, "-", "")

	number = strings.TrimPrefix(number, "+")
	if strings.HasPrefix(number, "91") && len(number) == 12 {
		number = strings.TrimPrefix(number, "91")
	}
	if strings.HasPrefix(number, "0") && len(number) == 11 {
		number = strings.TrimPrefix(number, "0")
	}

	return number
}
