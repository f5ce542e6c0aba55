// Package identity provides user registration, authentication, and role
// management for the marketplace.
package identity

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/handcrafted-haven/marketplace/internal/domain"
	"golang.org/x/text/cases"
)

// Authenticator mints and validates session tokens.
type Authenticator interface {
	GenerateToken(ctx context.Context, user *domain.User) (string, error)
	ValidateToken(ctx context.Context, token string) (userID int64, role domain.Role, err error)
}

// Service implements identity business logic.
type Service struct {
	repo      Repository
	auth      Authenticator
	hasher    *Hasher
	dummyHash string
}

// NewService creates a new identity service.
func NewService(repo Repository, auth Authenticator, hasher *Hasher) *Service {
	// Pre-hash a throwaway password so login can burn the same verification
	// cost when the email is unknown. Keeps the unknown-email and
	// wrong-password paths indistinguishable, including by timing.
	dummyHash, _ := hasher.Hash("credential-padding")

	return &Service{
		repo:      repo,
		auth:      auth,
		hasher:    hasher,
		dummyHash: dummyHash,
	}
}

// NormalizeEmail applies the canonical email form used for storage and
// lookups: surrounding whitespace removed, Unicode case folded.
func NormalizeEmail(email string) string {
	return cases.Fold().String(strings.TrimSpace(email))
}

// RegisterInput holds data for registering a user.
type RegisterInput struct {
	Name     string
	Email    string
	Password string
	Role     domain.Role
}

// Register creates a user with a hashed password. The email is normalized
// before storage; a collision returns ErrEmailExists. Role defaults to BASIC
// and may only be BASIC or SELLER at registration.
func (s *Service) Register(ctx context.Context, input RegisterInput) (*domain.User, error) {
	role := input.Role
	if role == "" {
		role = domain.RoleBasic
	}
	if role != domain.RoleBasic && role != domain.RoleSeller {
		return nil, fmt.Errorf("role %q not allowed at registration", role)
	}

	hash, err := s.hasher.Hash(input.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &domain.User{
		Name:         strings.TrimSpace(input.Name),
		Email:        NormalizeEmail(input.Email),
		PasswordHash: hash,
		Role:         role,
	}

	// The unique index on users.email is the authoritative check; this
	// insert either assigns an ID or fails with ErrEmailExists.
	if err := s.repo.CreateUser(ctx, user); err != nil {
		return nil, err
	}

	return user, nil
}

// LoginInput holds data for authenticating a user.
type LoginInput struct {
	Email    string
	Password string
}

// Login verifies credentials and issues a session token. Unknown email and
// wrong password both return ErrInvalidCredentials.
func (s *Service) Login(ctx context.Context, input LoginInput) (*domain.User, string, error) {
	user, err := s.repo.GetUserByEmail(ctx, NormalizeEmail(input.Email))
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			s.hasher.Verify(input.Password, s.dummyHash)
			return nil, "", ErrInvalidCredentials
		}
		return nil, "", fmt.Errorf("lookup user: %w", err)
	}

	if !s.hasher.Verify(input.Password, user.PasswordHash) {
		return nil, "", ErrInvalidCredentials
	}

	token, err := s.auth.GenerateToken(ctx, user)
	if err != nil {
		return nil, "", fmt.Errorf("generate token: %w", err)
	}

	return user, token, nil
}

// GetUserByID returns the user with the given id.
func (s *Service) GetUserByID(ctx context.Context, id int64) (*domain.User, error) {
	return s.repo.GetUserByID(ctx, id)
}

// PromoteUser transitions a user's role upward. Transitions are one-way:
// requesting the current role is an idempotent no-op, requesting a lower
// role fails with ErrInvalidPromotion.
func (s *Service) PromoteUser(ctx context.Context, id int64, newRole domain.Role) (*domain.User, error) {
	if !newRole.IsValid() {
		return nil, ErrInvalidPromotion
	}

	user, err := s.repo.GetUserByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if user.Role == newRole {
		return user, nil
	}
	if user.Role.HasPermission(newRole) {
		return nil, ErrInvalidPromotion
	}

	return s.repo.UpdateUserRole(ctx, id, newRole)
}

// ValidateToken resolves a session token into a principal. Implements
// httputil.TokenValidator. Note that the role comes from the token, not the
// database: a promotion after issuance takes effect on the next login,
// bounded by the token expiry.
func (s *Service) ValidateToken(ctx context.Context, token string) (int64, domain.Role, error) {
	return s.auth.ValidateToken(ctx, token)
}
