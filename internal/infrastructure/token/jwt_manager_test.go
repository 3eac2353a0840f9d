package token

import (
	"testing"
	"time"

	domain "foodie/backend/internal/domain/authorization"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testUser() *domain.User {
	return &domain.User{
		ID:    uuid.NewString(),
		Email: "a@x.com",
		Role:  domain.RoleUser,
	}
}

func TestIssueAndVerify(t *testing.T) {
	manager := NewJWTManager("secret", time.Hour)
	user := testUser()

	signed, err := manager.Issue(user)
	require.NoError(t, err)

	claims, err := manager.Verify(signed)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.Subject)
	assert.Equal(t, domain.RoleUser, claims.Role)
	assert.Equal(t, claims.IssuedAt+3600, claims.ExpiresAt)
}

func TestVerifyExpiredToken(t *testing.T) {
	manager := NewJWTManager("secret", -time.Minute)

	signed, err := manager.Issue(testUser())
	require.NoError(t, err)

	_, err = manager.Verify(signed)
	assert.Error(t, err, "a valid signature must not rescue an expired token")
}

func TestVerifyWrongSecret(t *testing.T) {
	signed, err := NewJWTManager("secret", time.Hour).Issue(testUser())
	require.NoError(t, err)

	_, err = NewJWTManager("other", time.Hour).Verify(signed)
	assert.Error(t, err)
}

func TestVerifyTamperedToken(t *testing.T) {
	manager := NewJWTManager("secret", time.Hour)

	signed, err := manager.Issue(testUser())
	require.NoError(t, err)

	tampered := signed[:len(signed)-2] + "xx"
	_, err = manager.Verify(tampered)
	assert.Error(t, err)
}

func TestVerifyGarbage(t *testing.T) {
	manager := NewJWTManager("secret", time.Hour)

	for _, input := range []string{"", "abc", "a.b.c"} {
		_, err := manager.Verify(input)
		assert.Error(t, err)
	}
}
