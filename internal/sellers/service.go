package sellers

import (
	"context"
	"strings"

	"github.com/handcrafted-haven/marketplace/internal/domain"
)

// Service implements seller business logic. Every operation is scoped to
// the authenticated principal: the seller id always comes from the verified
// token, never from the request body.
type Service struct {
	repo Repository
}

// NewService creates a new sellers service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// GetProfile returns the caller's seller profile.
func (s *Service) GetProfile(ctx context.Context, userID int64) (*domain.SellerProfile, error) {
	return s.repo.GetProfileByUserID(ctx, userID)
}

// ProfileInput holds data for creating or updating a seller profile.
type ProfileInput struct {
	Bio      string
	Story    string
	Banner   string
	Location string
	Website  string
}

// CreateProfile creates the caller's seller profile and promotes the caller
// to SELLER in the same transaction. A second creation fails with
// ErrProfileExists.
func (s *Service) CreateProfile(ctx context.Context, userID int64, input ProfileInput) (*domain.SellerProfile, error) {
	profile := &domain.SellerProfile{
		UserID:   userID,
		Bio:      strings.TrimSpace(input.Bio),
		Story:    strings.TrimSpace(input.Story),
		Banner:   input.Banner,
		Location: input.Location,
		Website:  input.Website,
	}
	if err := s.repo.CreateProfile(ctx, profile); err != nil {
		return nil, err
	}
	return profile, nil
}

// UpdateProfile updates the caller's seller profile.
func (s *Service) UpdateProfile(ctx context.Context, userID int64, input ProfileInput) (*domain.SellerProfile, error) {
	profile, err := s.repo.GetProfileByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if input.Bio != "" {
		profile.Bio = strings.TrimSpace(input.Bio)
	}
	if input.Story != "" {
		profile.Story = strings.TrimSpace(input.Story)
	}
	if input.Banner != "" {
		profile.Banner = input.Banner
	}
	if input.Location != "" {
		profile.Location = input.Location
	}
	if input.Website != "" {
		profile.Website = input.Website
	}

	if err := s.repo.UpdateProfile(ctx, profile); err != nil {
		return nil, err
	}
	return profile, nil
}

// ListProducts returns the caller's products.
func (s *Service) ListProducts(ctx context.Context, sellerID int64) ([]domain.Product, error) {
	return s.repo.ListProductsBySeller(ctx, sellerID)
}

// ProductInput holds data for creating or updating a product.
type ProductInput struct {
	Name        string
	Description string
	Price       float64
	Image       string
	CategoryID  int64
}

// CreateProduct creates a product owned by the caller.
func (s *Service) CreateProduct(ctx context.Context, sellerID int64, input ProductInput) (*domain.Product, error) {
	product := &domain.Product{
		Name:        strings.TrimSpace(input.Name),
		Description: input.Description,
		Price:       input.Price,
		Image:       input.Image,
		SellerID:    sellerID,
		CategoryID:  input.CategoryID,
	}
	if err := s.repo.CreateProduct(ctx, product); err != nil {
		return nil, err
	}
	return product, nil
}

// UpdateProduct updates a product the caller owns. An id owned by another
// seller fails with ErrProductNotFound, same as a nonexistent id.
func (s *Service) UpdateProduct(ctx context.Context, sellerID, productID int64, input ProductInput) (*domain.Product, error) {
	product := &domain.Product{
		ID:          productID,
		Name:        strings.TrimSpace(input.Name),
		Description: input.Description,
		Price:       input.Price,
		Image:       input.Image,
		SellerID:    sellerID,
		CategoryID:  input.CategoryID,
	}
	if err := s.repo.UpdateProduct(ctx, product); err != nil {
		return nil, err
	}
	return product, nil
}

// DeleteProduct deletes a product the caller owns.
func (s *Service) DeleteProduct(ctx context.Context, sellerID, productID int64) error {
	return s.repo.DeleteProduct(ctx, productID, sellerID)
}

// GetDashboard returns the caller's listing and review aggregates.
func (s *Service) GetDashboard(ctx context.Context, sellerID int64) (*domain.DashboardStats, error) {
	return s.repo.GetDashboardStats(ctx, sellerID)
}
