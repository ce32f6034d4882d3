package helpers

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testSecret = []byte("test-secret")

func signToken(t *testing.T, claims *CustomClaims) string {
	t.Helper()
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(testSecret)
	require.NoError(t, err)
	return s
}

func hmacKey(*jwt.Token) (interface{}, error) { return testSecret, nil }

func TestParseToken(t *testing.T) {
	claims := &CustomClaims{
		Email:        "asha@example.com",
		UserMetadata: map[string]interface{}{"full_name": "Asha Rao"},
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "0b6f8f2e-3c1a-4c55-9a57-6f1c2f1d2a10",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}

	got, err := ParseToken(signToken(t, claims), hmacKey)
	require.NoError(t, err)
	assert.Equal(t, claims.Subject, got.Subject)
	assert.Equal(t, "Asha Rao", got.MetadataString("full_name"))
	assert.Empty(t, got.MetadataString("avatar_url"))
}

func TestParseTokenRejectsExpiredAndAnonymous(t *testing.T) {
	expired := &CustomClaims{RegisteredClaims: jwt.RegisteredClaims{
		Subject:   "u1",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
	}}
	_, err := ParseToken(signToken(t, expired), hmacKey)
	assert.Error(t, err)

	noSubject := &CustomClaims{RegisteredClaims: jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}}
	_, err = ParseToken(signToken(t, noSubject), hmacKey)
	assert.Error(t, err)

	_, err = ParseToken("not-a-token", hmacKey)
	assert.Error(t, err)
}

func TestContainsFold(t *testing.T) {
	assert.True(t, ContainsFold("Tech", "tech"))
	assert.True(t, ContainsFold("Wellness", "well"))
	assert.True(t, ContainsFold("art", "Arts & Crafts"))
	assert.False(t, ContainsFold("Food", "Music"))
}

func TestStringTrim(t *testing.T) {
	assert.Equal(t, "abc", StringTrim(`  "abc" `))
	assert.Equal(t, "abc", StringTrim("'abc'"))
}

func TestViewerClaims(t *testing.T) {
	anon := AnonymousViewer()
	assert.True(t, anon.IsAnonymous())
	assert.Equal(t, "You", anon.DisplayName())

	v := &ViewerClaims{UserID: "u1", Email: "a@b.c"}
	assert.False(t, v.IsAnonymous())
	assert.Equal(t, "a@b.c", v.DisplayName())
}
