package helpers

import (
	"crypto/rand"
	"math/big"
	"strconv"
)

// One-time code helpers

// KeyResetCode is the Redis key for a pending password-reset code. Reset
// codes are purpose-scoped by key prefix so they can never collide with the
// registration code stored on the account row.
func KeyResetCode(email string) string {
	return "pwd:reset:otp:" + email
}

var otpRange = big.NewInt(900000)

// GenOTPCode generates a 6-digit numeric one-time code, uniformly random in
// [100000, 999999]. The first digit is never zero by construction, so the
// string compare on confirmation is unambiguous.
func GenOTPCode() (string, error) {
	n, err := rand.Int(rand.Reader, otpRange)
	if err != nil {
		return "", err
	}
	return strconv.FormatInt(n.Int64()+100000, 10), nil
}
