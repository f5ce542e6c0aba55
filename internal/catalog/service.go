package catalog

import (
	"context"
	"fmt"

	"github.com/handcrafted-haven/marketplace/internal/domain"
)

// Service implements catalog business logic.
type Service struct {
	repo Repository
}

// NewService creates a new catalog service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// ListCategories returns all categories.
func (s *Service) ListCategories(ctx context.Context) ([]domain.Category, error) {
	return s.repo.ListCategories(ctx)
}

// ListProducts returns products matching the filter plus the total count.
func (s *Service) ListProducts(ctx context.Context, filter ProductFilter) ([]domain.ProductDetails, int, error) {
	if filter.CategoryID != nil {
		if _, err := s.repo.GetCategoryByID(ctx, *filter.CategoryID); err != nil {
			return nil, 0, err
		}
	}
	return s.repo.ListProducts(ctx, filter)
}

// GetProduct returns a product with seller and category details.
func (s *Service) GetProduct(ctx context.Context, id int64) (*domain.ProductDetails, error) {
	return s.repo.GetProductByID(ctx, id)
}

// CreateReviewInput holds data for creating a review.
type CreateReviewInput struct {
	ProductID int64
	UserID    int64
	Rating    int
	Comment   string
}

// CreateReview records a review for an existing product.
func (s *Service) CreateReview(ctx context.Context, input CreateReviewInput) (*domain.Review, error) {
	if input.Rating < 1 || input.Rating > 5 {
		return nil, fmt.Errorf("rating %d out of range", input.Rating)
	}

	if _, err := s.repo.GetProductByID(ctx, input.ProductID); err != nil {
		return nil, err
	}

	review := &domain.Review{
		ProductID: input.ProductID,
		UserID:    input.UserID,
		Rating:    input.Rating,
		Comment:   input.Comment,
	}
	if err := s.repo.CreateReview(ctx, review); err != nil {
		return nil, err
	}
	return review, nil
}

// ListReviews returns a product's reviews plus the total count.
func (s *Service) ListReviews(ctx context.Context, productID int64, limit, offset int) ([]domain.Review, int, error) {
	if _, err := s.repo.GetProductByID(ctx, productID); err != nil {
		return nil, 0, err
	}
	return s.repo.ListReviewsByProduct(ctx, productID, limit, offset)
}

// GetSellerPage returns a seller's public page. Users who are not sellers
// are reported as not found.
func (s *Service) GetSellerPage(ctx context.Context, sellerID int64) (*domain.SellerPage, error) {
	return s.repo.GetSellerPage(ctx, sellerID)
}
