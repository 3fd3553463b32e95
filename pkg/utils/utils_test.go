package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testKey = "0123456789abcdef0123456789abcdef"

func TestEncryptDecryptSecret(t *testing.T) {
	sealed, err := EncryptSecret("mc-api-key", []byte(testKey))
	require.NoError(t, err)
	assert.NotContains(t, sealed, "mc-api-key")

	plain, err := DecryptSecret(sealed, []byte(testKey))
	require.NoError(t, err)
	assert.Equal(t, "mc-api-key", plain)

	_, err = DecryptSecret(sealed, []byte("fedcba9876543210fedcba9876543210"))
	assert.Error(t, err)

	_, err = EncryptSecret("x", []byte("bad"))
	assert.Error(t, err)
}

func TestGenerateAndValidateToken(t *testing.T) {
	token, err := GenerateToken(testKey, 42, time.Hour)
	require.NoError(t, err)

	claims, err := ValidateToken(testKey, token)
	require.NoError(t, err)
	assert.Equal(t, "42", claims.OperatorID)

	_, err = ValidateToken("another-secret-another-secret-00", token)
	assert.Error(t, err)

	expired, err := GenerateToken(testKey, 42, -time.Minute)
	require.NoError(t, err)
	_, err = ValidateToken(testKey, expired)
	assert.Error(t, err)
}

func TestParseHashtags(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{name: "empty", input: "", want: []string{}},
		{name: "order kept", input: "#go, cloud ,#go", want: []string{"#go", "cloud", "#go"}},
		{name: "blank entries dropped", input: " , a,, b ", want: []string{"a", "b"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseHashtags(tt.input))
		})
	}
}

func TestRenderPostText(t *testing.T) {
	assert.Equal(t, "Hello", RenderPostText("  Hello \n", nil))
	assert.Equal(t, "Hello\n\n#go #cloud", RenderPostText("Hello", []string{"#go", "cloud", " "}))
}
