package jwt

import (
	"context"
	"testing"
	"time"

	"github.com/handcrafted-haven/marketplace/internal/domain"
	"github.com/handcrafted-haven/marketplace/internal/identity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestAuthenticator(t *testing.T) *Authenticator {
	t.Helper()
	auth, err := NewAuthenticator(Config{
		SecretKey:     "test-secret-key",
		TokenDuration: time.Hour,
	})
	require.NoError(t, err)
	return auth
}

func TestNewAuthenticator_RequiresSecret(t *testing.T) {
	_, err := NewAuthenticator(Config{TokenDuration: time.Hour})
	assert.Error(t, err)
}

func TestGenerateToken_RoundTrip(t *testing.T) {
	auth := newTestAuthenticator(t)
	user := &domain.User{ID: 42, Role: domain.RoleSeller}

	token, err := auth.GenerateToken(context.Background(), user)
	require.NoError(t, err)

	userID, role, err := auth.ValidateToken(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, int64(42), userID)
	assert.Equal(t, domain.RoleSeller, role)
}

func TestGenerateToken_DistinctPerIssuance(t *testing.T) {
	auth := newTestAuthenticator(t)
	user := &domain.User{ID: 42, Role: domain.RoleBasic}

	first, err := auth.GenerateToken(context.Background(), user)
	require.NoError(t, err)

	// Issued-at has second precision; cross the boundary
	time.Sleep(1100 * time.Millisecond)

	second, err := auth.GenerateToken(context.Background(), user)
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
}

func TestValidateToken_ZeroTTLIsExpired(t *testing.T) {
	auth := newTestAuthenticator(t)
	user := &domain.User{ID: 42, Role: domain.RoleBasic}

	token, err := auth.GenerateTokenWithTTL(context.Background(), user, 0)
	require.NoError(t, err)

	time.Sleep(1100 * time.Millisecond)

	_, _, err = auth.ValidateToken(context.Background(), token)
	assert.ErrorIs(t, err, identity.ErrTokenExpired)
}

func TestValidateToken_WrongSecret(t *testing.T) {
	auth := newTestAuthenticator(t)
	other, err := NewAuthenticator(Config{
		SecretKey:     "a-different-secret",
		TokenDuration: time.Hour,
	})
	require.NoError(t, err)

	token, err := auth.GenerateToken(context.Background(), &domain.User{ID: 42, Role: domain.RoleBasic})
	require.NoError(t, err)

	_, _, err = other.ValidateToken(context.Background(), token)
	assert.ErrorIs(t, err, identity.ErrInvalidToken)
}

func TestValidateToken_Garbage(t *testing.T) {
	auth := newTestAuthenticator(t)

	for _, token := range []string{"", "not-a-jwt", "aaa.bbb.ccc"} {
		_, _, err := auth.ValidateToken(context.Background(), token)
		assert.ErrorIs(t, err, identity.ErrInvalidToken)
	}
}

func TestValidateToken_Tampered(t *testing.T) {
	auth := newTestAuthenticator(t)

	token, err := auth.GenerateToken(context.Background(), &domain.User{ID: 42, Role: domain.RoleBasic})
	require.NoError(t, err)

	tampered := token[:len(token)-2] + "xx"
	_, _, err = auth.ValidateToken(context.Background(), tampered)
	assert.ErrorIs(t, err, identity.ErrInvalidToken)
}

func TestValidateToken_LeewayToleratesRecentExpiry(t *testing.T) {
	issuer := newTestAuthenticator(t)
	lenient, err := NewAuthenticator(Config{
		SecretKey:     "test-secret-key",
		TokenDuration: time.Hour,
		Leeway:        time.Minute,
	})
	require.NoError(t, err)

	user := &domain.User{ID: 42, Role: domain.RoleBasic}
	token, err := issuer.GenerateTokenWithTTL(context.Background(), user, -10*time.Second)
	require.NoError(t, err)

	// Strict validation rejects it
	_, _, err = issuer.ValidateToken(context.Background(), token)
	assert.ErrorIs(t, err, identity.ErrTokenExpired)

	// Within leeway it still validates
	userID, _, err := lenient.ValidateToken(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, int64(42), userID)
}
