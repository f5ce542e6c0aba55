// Package jwt implements session token issuance and verification with
// HS256-signed JWTs.
package jwt

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"
	"github.com/handcrafted-haven/marketplace/internal/domain"
	"github.com/handcrafted-haven/marketplace/internal/identity"
)

// Config contains JWT authenticator configuration.
type Config struct {
	SecretKey     string
	TokenDuration time.Duration
	// Leeway is the clock-skew grace applied when validating expiry.
	// Zero by default: a token is rejected the instant it expires.
	Leeway time.Duration
}

// Claims is the session token payload: principal id, role snapshot at
// issuance, and the standard iat/exp window.
type Claims struct {
	Role domain.Role `json:"role"`
	jwtlib.RegisteredClaims
}

// Authenticator issues and validates session tokens. Tokens are stateless:
// nothing is persisted server-side and there is no revocation list, so a
// token's validity window is solely its signature and expiry.
type Authenticator struct {
	secret   []byte
	duration time.Duration
	leeway   time.Duration
}

// NewAuthenticator creates a JWT authenticator. A missing secret is a
// configuration fault surfaced here, at startup, never per-request.
func NewAuthenticator(cfg Config) (*Authenticator, error) {
	if cfg.SecretKey == "" {
		return nil, errors.New("jwt secret key is not configured")
	}

	duration := cfg.TokenDuration
	if duration <= 0 {
		duration = 24 * time.Hour
	}

	return &Authenticator{
		secret:   []byte(cfg.SecretKey),
		duration: duration,
		leeway:   cfg.Leeway,
	}, nil
}

// GenerateToken mints a signed token for the user. Two calls for the same
// user at different instants produce different tokens: the payload is
// timestamp-dependent, so tokens are not comparable for equality.
func (a *Authenticator) GenerateToken(_ context.Context, user *domain.User) (string, error) {
	return a.generate(user, a.duration)
}

// GenerateTokenWithTTL mints a token with an explicit lifetime. Exposed for
// tests that need already-expired tokens.
func (a *Authenticator) GenerateTokenWithTTL(_ context.Context, user *domain.User, ttl time.Duration) (string, error) {
	return a.generate(user, ttl)
}

func (a *Authenticator) generate(user *domain.User, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		Role: user.Role,
		RegisteredClaims: jwtlib.RegisteredClaims{
			Subject:   strconv.FormatInt(user.ID, 10),
			IssuedAt:  jwtlib.NewNumericDate(now),
			ExpiresAt: jwtlib.NewNumericDate(now.Add(ttl)),
		},
	}

	token := jwtlib.NewWithClaims(jwtlib.SigningMethodHS256, claims)
	signed, err := token.SignedString(a.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// ValidateToken checks the token's signature, then its claims. The signature
// check runs before any claim is trusted, so tampered tokens are rejected
// without inspecting their contents. Failure modes are distinguished
// internally (identity.ErrTokenExpired vs identity.ErrInvalidToken); the
// HTTP layer collapses them into a single unauthenticated response.
func (a *Authenticator) ValidateToken(_ context.Context, tokenString string) (int64, domain.Role, error) {
	var claims Claims
	_, err := jwtlib.ParseWithClaims(tokenString, &claims,
		func(*jwtlib.Token) (interface{}, error) { return a.secret, nil },
		jwtlib.WithValidMethods([]string{jwtlib.SigningMethodHS256.Alg()}),
		jwtlib.WithExpirationRequired(),
		jwtlib.WithLeeway(a.leeway),
	)
	if err != nil {
		if errors.Is(err, jwtlib.ErrTokenExpired) {
			return 0, "", identity.ErrTokenExpired
		}
		return 0, "", identity.ErrInvalidToken
	}

	userID, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil || userID <= 0 {
		return 0, "", identity.ErrInvalidToken
	}
	if !claims.Role.IsValid() {
		return 0, "", identity.ErrInvalidToken
	}

	return userID, claims.Role, nil
}
