package services

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
)

// VerifyPaymentSignature checks that a claimed gateway callback signature
// matches the HMAC-SHA256 of "orderID|paymentID" under the gateway's
// shared secret. The comparison is constant time; a malformed hex
// signature is a hard failure, never partially trusted.
func VerifyPaymentSignature(orderID, paymentID, claimedSignature, secret string) bool {
	claimed, err := hex.DecodeString(claimedSignature)
	if err != nil {
		return false
	}

	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(orderID + "|" + paymentID))
	return hmac.Equal(mac.Sum(nil), claimed)
}
