package catalog

import (
	"context"
	"errors"

	"github.com/handcrafted-haven/marketplace/internal/domain"
)

var (
	ErrProductNotFound  = errors.New("product not found")
	ErrCategoryNotFound = errors.New("category not found")
	ErrSellerNotFound   = errors.New("seller not found")
)

// Repository defines the interface for catalog data operations.
type Repository interface {
	ListCategories(ctx context.Context) ([]domain.Category, error)
	GetCategoryByID(ctx context.Context, id int64) (*domain.Category, error)

	ListProducts(ctx context.Context, filter ProductFilter) ([]domain.ProductDetails, int, error)
	GetProductByID(ctx context.Context, id int64) (*domain.ProductDetails, error)

	CreateReview(ctx context.Context, review *domain.Review) error
	ListReviewsByProduct(ctx context.Context, productID int64, limit, offset int) ([]domain.Review, int, error)

	GetSellerPage(ctx context.Context, sellerID int64) (*domain.SellerPage, error)
}

// ProductFilter represents filter criteria for listing products.
type ProductFilter struct {
	CategoryID *int64
	Limit      int
	Offset     int
}
