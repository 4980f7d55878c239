package razorpay

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

var secret = []byte("secret-key")

func TestSignatureDeterministic(t *testing.T) {
	s1 := Signature("order_abc", "pay_xyz", secret)
	s2 := Signature("order_abc", "pay_xyz", secret)
	assert.Equal(t, s1, s2)
	assert.Len(t, s1, 64, "hex-encoded sha256")
}

func TestVerifySignature(t *testing.T) {
	sig := Signature("order_abc", "pay_xyz", secret)
	assert.True(t, VerifySignature("order_abc", "pay_xyz", sig, secret))
}

func TestVerifySignatureRejects(t *testing.T) {
	sig := Signature("order_abc", "pay_xyz", secret)

	assert.False(t, VerifySignature("order_other", "pay_xyz", sig, secret), "different order")
	assert.False(t, VerifySignature("order_abc", "pay_other", sig, secret), "different payment")
	assert.False(t, VerifySignature("order_abc", "pay_xyz", sig, []byte("wrong")), "different secret")
	assert.False(t, VerifySignature("order_abc", "pay_xyz", "", secret), "empty signature")
}

func TestSignatureDelimiterMatters(t *testing.T) {
	// "a|bc" and "ab|c" must not collide
	s1 := Signature("a", "bc", secret)
	s2 := Signature("ab", "c", secret)
	assert.NotEqual(t, s1, s2)
}
