package razorpay

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
)

// Signature computes the hex HMAC-SHA256 the gateway signs its payment
// callbacks with: the key is the API secret, the message is
// "<orderID>|<paymentID>".
func Signature(orderID, paymentID string, secret []byte) string {
	mac := hmac.New(sha256.New, secret)
	mac.Write([]byte(orderID + "|" + paymentID))
	return hex.EncodeToString(mac.Sum(nil))
}

// VerifySignature recomputes the expected signature and compares it to the
// provided one in constant time, so the check leaks no timing information
// about the secret-derived value.
func VerifySignature(orderID, paymentID, provided string, secret []byte) bool {
	expected := Signature(orderID, paymentID, secret)
	return hmac.Equal([]byte(expected), []byte(provided))
}
