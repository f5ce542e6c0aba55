package identity

import (
	"context"

	"github.com/handcrafted-haven/marketplace/internal/domain"
)

// Repository defines the interface for credential storage.
//
// CreateUser must enforce email uniqueness at the storage layer (not by a
// prior read) and return ErrEmailExists on collision without mutating state.
type Repository interface {
	CreateUser(ctx context.Context, user *domain.User) error
	GetUserByEmail(ctx context.Context, email string) (*domain.User, error)
	GetUserByID(ctx context.Context, id int64) (*domain.User, error)
	UpdateUserRole(ctx context.Context, id int64, role domain.Role) (*domain.User, error)
}
