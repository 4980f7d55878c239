package validation

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/gin-gonic/gin/binding"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type signupPayload struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,pwd"`
	Code     string `json:"code" binding:"omitempty,otp"`
}

func TestAliasesAndJSONFieldNames(t *testing.T) {
	Init()

	err := binding.Validator.ValidateStruct(&signupPayload{
		Email:    "not-an-email",
		Password: "short",
		Code:     "12ab",
	})
	require.Error(t, err)

	details := ToDetails(err)
	assert.Equal(t, "must be a valid email", details["email"])
	assert.Equal(t, "min length 8", details["password"])
	assert.Equal(t, "must be a 6-digit code", details["code"])
}

func TestValidPayloadPasses(t *testing.T) {
	Init()

	err := binding.Validator.ValidateStruct(&signupPayload{
		Email:    "a@b.com",
		Password: "password123",
		Code:     "123456",
	})
	assert.NoError(t, err)
}

func TestToDetailsJSONErrors(t *testing.T) {
	var v signupPayload
	err := json.Unmarshal([]byte(`{"email": 1}`), &v)
	require.Error(t, err)
	assert.Equal(t, map[string]string{"payload": "invalid json"}, ToDetails(err))

	assert.Equal(t, map[string]string{"payload": "invalid payload"}, ToDetails(errors.New("eof")))
	assert.Nil(t, ToDetails(nil))
}
