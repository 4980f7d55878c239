package templates

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderVerify(t *testing.T) {
	subject, html, err := Render("verify", CodeData{
		Name:           "Alice",
		Code:           "123456",
		ExpiresMinutes: 10,
		AppName:        "LearnHub",
	})
	require.NoError(t, err)
	assert.Equal(t, "Verify your email", subject)
	assert.Contains(t, html, "123456")
	assert.Contains(t, html, "Alice")
	assert.Contains(t, html, "10 minutes")
}

func TestRenderReset(t *testing.T) {
	subject, html, err := Render("reset", CodeData{Name: "Bob", Code: "654321", ExpiresMinutes: 10})
	require.NoError(t, err)
	assert.Equal(t, "Reset your password", subject)
	assert.Contains(t, html, "654321")
}

func TestRenderUnknownPurpose(t *testing.T) {
	_, _, err := Render("newsletter", CodeData{})
	assert.Error(t, err)
}

func TestRenderEscapesHTML(t *testing.T) {
	_, html, err := Render("verify", CodeData{Name: "<script>alert(1)</script>"})
	require.NoError(t, err)
	assert.False(t, strings.Contains(html, "<script>"))
}
