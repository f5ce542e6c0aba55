package httputil

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/handcrafted-haven/marketplace/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeValidator resolves a fixed set of tokens.
type fakeValidator struct {
	tokens map[string]struct {
		id   int64
		role domain.Role
	}
}

func newFakeValidator() *fakeValidator {
	return &fakeValidator{
		tokens: map[string]struct {
			id   int64
			role domain.Role
		}{
			"basic-token":  {id: 1, role: domain.RoleBasic},
			"seller-token": {id: 2, role: domain.RoleSeller},
			"admin-token":  {id: 3, role: domain.RoleAdmin},
		},
	}
}

func (f *fakeValidator) ValidateToken(_ context.Context, token string) (int64, domain.Role, error) {
	if p, ok := f.tokens[token]; ok {
		return p.id, p.role, nil
	}
	return 0, "", errors.New("invalid token")
}

// echoPrincipal records the principal the middleware placed in context.
func echoPrincipal(t *testing.T, wantID int64, wantRole domain.Role) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, ok := GetUserID(r.Context())
		require.True(t, ok)
		assert.Equal(t, wantID, id)
		assert.Equal(t, wantRole, GetRole(r.Context()))
		w.WriteHeader(http.StatusOK)
	})
}

func TestAuthMiddleware_MissingToken(t *testing.T) {
	handler := AuthMiddleware(newFakeValidator())(http.NotFoundHandler())

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/me", nil))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthMiddleware_InvalidAndMalformedTokensCollapse(t *testing.T) {
	handler := AuthMiddleware(newFakeValidator())(http.NotFoundHandler())

	for _, header := range []string{
		"Bearer forged-token",
		"Bearer ",
		"Basic dXNlcjpwYXNz",
	} {
		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		req.Header.Set("Authorization", header)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code, "header %q", header)
	}
}

func TestAuthMiddleware_BearerToken(t *testing.T) {
	handler := AuthMiddleware(newFakeValidator())(echoPrincipal(t, 2, domain.RoleSeller))

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer seller-token")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestAuthMiddleware_CookieToken(t *testing.T) {
	handler := AuthMiddleware(newFakeValidator())(echoPrincipal(t, 1, domain.RoleBasic))

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.AddCookie(&http.Cookie{Name: AuthTokenCookie, Value: "basic-token"})
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestAuthMiddleware_CookiePostRequiresCSRF(t *testing.T) {
	handler := AuthMiddleware(newFakeValidator())(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	// No CSRF header
	req := httptest.NewRequest(http.MethodPost, "/products/1/reviews", nil)
	req.AddCookie(&http.Cookie{Name: AuthTokenCookie, Value: "basic-token"})
	req.AddCookie(&http.Cookie{Name: CSRFTokenCookie, Value: "csrf-value"})
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	// Mismatched CSRF header
	req = httptest.NewRequest(http.MethodPost, "/products/1/reviews", nil)
	req.AddCookie(&http.Cookie{Name: AuthTokenCookie, Value: "basic-token"})
	req.AddCookie(&http.Cookie{Name: CSRFTokenCookie, Value: "csrf-value"})
	req.Header.Set(CSRFTokenHeader, "other-value")
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	// Matching pair passes
	req = httptest.NewRequest(http.MethodPost, "/products/1/reviews", nil)
	req.AddCookie(&http.Cookie{Name: AuthTokenCookie, Value: "basic-token"})
	req.AddCookie(&http.Cookie{Name: CSRFTokenCookie, Value: "csrf-value"})
	req.Header.Set(CSRFTokenHeader, "csrf-value")
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestAuthMiddleware_BearerSkipsCSRF(t *testing.T) {
	handler := AuthMiddleware(newFakeValidator())(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodPost, "/products/1/reviews", nil)
	req.Header.Set("Authorization", "Bearer basic-token")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRequireRole_Hierarchy(t *testing.T) {
	okHandler := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	tests := []struct {
		name    string
		role    domain.Role
		minRole domain.Role
		want    int
	}{
		{"basic denied seller route", domain.RoleBasic, domain.RoleSeller, http.StatusForbidden},
		{"seller allowed seller route", domain.RoleSeller, domain.RoleSeller, http.StatusOK},
		{"admin allowed seller route", domain.RoleAdmin, domain.RoleSeller, http.StatusOK},
		{"seller denied admin route", domain.RoleSeller, domain.RoleAdmin, http.StatusForbidden},
		{"admin allowed admin route", domain.RoleAdmin, domain.RoleAdmin, http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := RequireRole(tt.minRole)(okHandler)

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			ctx := context.WithValue(req.Context(), UserIDKey, int64(1))
			ctx = context.WithValue(ctx, RoleKey, tt.role)
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req.WithContext(ctx))

			assert.Equal(t, tt.want, rec.Code)
		})
	}
}

func TestRequireRole_NoPrincipal(t *testing.T) {
	handler := RequireRole(domain.RoleSeller)(http.NotFoundHandler())

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
