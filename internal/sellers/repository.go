package sellers

import (
	"context"
	"errors"

	"github.com/handcrafted-haven/marketplace/internal/domain"
)

var (
	// ErrProductNotFound covers both a missing product and an ownership
	// mismatch: a seller probing another seller's product id gets the same
	// answer as for an id that does not exist.
	ErrProductNotFound = errors.New("product not found")

	ErrProfileNotFound = errors.New("seller profile not found")
	ErrProfileExists   = errors.New("seller profile already exists")
	ErrInvalidCategory = errors.New("category does not exist")
)

// Repository defines the interface for seller data operations.
//
// CreateProfile must atomically create the profile and promote the owning
// user to SELLER. Product mutations are ownership-scoped in the query
// itself (WHERE id AND seller_id), never by a separate read.
type Repository interface {
	GetProfileByUserID(ctx context.Context, userID int64) (*domain.SellerProfile, error)
	CreateProfile(ctx context.Context, profile *domain.SellerProfile) error
	UpdateProfile(ctx context.Context, profile *domain.SellerProfile) error

	ListProductsBySeller(ctx context.Context, sellerID int64) ([]domain.Product, error)
	CreateProduct(ctx context.Context, product *domain.Product) error
	UpdateProduct(ctx context.Context, product *domain.Product) error
	DeleteProduct(ctx context.Context, id, sellerID int64) error

	GetDashboardStats(ctx context.Context, sellerID int64) (*domain.DashboardStats, error)
}
