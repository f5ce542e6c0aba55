// Package postgres provides PostgreSQL implementation of the catalog repository.
package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/handcrafted-haven/marketplace/internal/catalog"
	"github.com/handcrafted-haven/marketplace/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository implements the catalog.Repository interface using PostgreSQL.
type Repository struct {
	db *pgxpool.Pool
}

// NewRepository creates a new PostgreSQL repository.
func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

// ListCategories retrieves all categories ordered by name.
func (r *Repository) ListCategories(ctx context.Context) ([]domain.Category, error) {
	rows, err := r.db.Query(ctx, `SELECT id, name FROM categories ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	categories := make([]domain.Category, 0)
	for rows.Next() {
		var c domain.Category
		if err := rows.Scan(&c.ID, &c.Name); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		categories = append(categories, c)
	}
	return categories, rows.Err()
}

// GetCategoryByID retrieves a category by id.
func (r *Repository) GetCategoryByID(ctx context.Context, id int64) (*domain.Category, error) {
	var c domain.Category
	err := r.db.QueryRow(ctx, `SELECT id, name FROM categories WHERE id = $1`, id).
		Scan(&c.ID, &c.Name)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, catalog.ErrCategoryNotFound
		}
		return nil, fmt.Errorf("get category by id: %w", err)
	}
	return &c, nil
}

const productDetailsColumns = `
	p.id, p.name, p.description, p.price, p.image,
	p.seller_id, p.category_id, p.created_at, p.updated_at,
	u.name AS seller_name, c.name AS category_name
`

// ListProducts retrieves products matching the filter with seller and
// category names, newest first, plus the unpaginated total.
func (r *Repository) ListProducts(ctx context.Context, filter catalog.ProductFilter) ([]domain.ProductDetails, int, error) {
	where := ""
	args := []interface{}{}
	if filter.CategoryID != nil {
		where = "WHERE p.category_id = $1"
		args = append(args, *filter.CategoryID)
	}

	var total int
	countQuery := fmt.Sprintf(`SELECT count(*) FROM products p %s`, where)
	if err := r.db.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count products: %w", err)
	}

	query := fmt.Sprintf(`
		SELECT %s
		FROM products p
		JOIN users u ON u.id = p.seller_id
		JOIN categories c ON c.id = p.category_id
		%s
		ORDER BY p.created_at DESC, p.id DESC
		LIMIT $%d OFFSET $%d
	`, productDetailsColumns, where, len(args)+1, len(args)+2)
	args = append(args, filter.Limit, filter.Offset)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()

	products := make([]domain.ProductDetails, 0)
	for rows.Next() {
		p, err := scanProductDetails(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan product: %w", err)
		}
		products = append(products, *p)
	}
	return products, total, rows.Err()
}

// GetProductByID retrieves a product with seller and category names.
func (r *Repository) GetProductByID(ctx context.Context, id int64) (*domain.ProductDetails, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM products p
		JOIN users u ON u.id = p.seller_id
		JOIN categories c ON c.id = p.category_id
		WHERE p.id = $1
	`, productDetailsColumns)

	p, err := scanProductDetails(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, catalog.ErrProductNotFound
		}
		return nil, fmt.Errorf("get product by id: %w", err)
	}
	return p, nil
}

// CreateReview inserts a review.
func (r *Repository) CreateReview(ctx context.Context, review *domain.Review) error {
	query := `
		INSERT INTO reviews (rating, comment, product_id, user_id)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at
	`
	err := r.db.QueryRow(ctx, query,
		review.Rating,
		review.Comment,
		review.ProductID,
		review.UserID,
	).Scan(&review.ID, &review.CreatedAt)
	if err != nil {
		return fmt.Errorf("create review: %w", err)
	}
	return nil
}

// ListReviewsByProduct retrieves a product's reviews with reviewer names,
// newest first, plus the unpaginated total.
func (r *Repository) ListReviewsByProduct(ctx context.Context, productID int64, limit, offset int) ([]domain.Review, int, error) {
	var total int
	err := r.db.QueryRow(ctx, `SELECT count(*) FROM reviews WHERE product_id = $1`, productID).Scan(&total)
	if err != nil {
		return nil, 0, fmt.Errorf("count reviews: %w", err)
	}

	query := `
		SELECT rv.id, rv.rating, rv.comment, rv.product_id, rv.user_id, u.name, rv.created_at
		FROM reviews rv
		JOIN users u ON u.id = rv.user_id
		WHERE rv.product_id = $1
		ORDER BY rv.created_at DESC, rv.id DESC
		LIMIT $2 OFFSET $3
	`
	rows, err := r.db.Query(ctx, query, productID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list reviews: %w", err)
	}
	defer rows.Close()

	reviews := make([]domain.Review, 0)
	for rows.Next() {
		var rv domain.Review
		err := rows.Scan(&rv.ID, &rv.Rating, &rv.Comment, &rv.ProductID, &rv.UserID, &rv.UserName, &rv.CreatedAt)
		if err != nil {
			return nil, 0, fmt.Errorf("scan review: %w", err)
		}
		reviews = append(reviews, rv)
	}
	return reviews, total, rows.Err()
}

// GetSellerPage assembles a seller's public page: name, profile if present,
// and listings. Users without the SELLER role are reported as not found.
func (r *Repository) GetSellerPage(ctx context.Context, sellerID int64) (*domain.SellerPage, error) {
	page := &domain.SellerPage{ID: sellerID}

	err := r.db.QueryRow(ctx,
		`SELECT name FROM users WHERE id = $1 AND role IN ($2, $3)`,
		sellerID, domain.RoleSeller, domain.RoleAdmin,
	).Scan(&page.Name)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, catalog.ErrSellerNotFound
		}
		return nil, fmt.Errorf("get seller: %w", err)
	}

	var profile domain.SellerProfile
	err = r.db.QueryRow(ctx, `
		SELECT id, user_id, bio, story, banner, location, website, created_at, updated_at
		FROM seller_profiles
		WHERE user_id = $1
	`, sellerID).Scan(
		&profile.ID,
		&profile.UserID,
		&profile.Bio,
		&profile.Story,
		&profile.Banner,
		&profile.Location,
		&profile.Website,
		&profile.CreatedAt,
		&profile.UpdatedAt,
	)
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("get seller profile: %w", err)
	}
	if err == nil {
		page.Profile = &profile
	}

	rows, err := r.db.Query(ctx, `
		SELECT id, name, description, price, image, seller_id, category_id, created_at, updated_at
		FROM products
		WHERE seller_id = $1
		ORDER BY created_at DESC, id DESC
	`, sellerID)
	if err != nil {
		return nil, fmt.Errorf("list seller products: %w", err)
	}
	defer rows.Close()

	page.Products = make([]domain.Product, 0)
	for rows.Next() {
		var p domain.Product
		err := rows.Scan(&p.ID, &p.Name, &p.Description, &p.Price, &p.Image,
			&p.SellerID, &p.CategoryID, &p.CreatedAt, &p.UpdatedAt)
		if err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		page.Products = append(page.Products, p)
	}
	return page, rows.Err()
}

func scanProductDetails(row pgx.Row) (*domain.ProductDetails, error) {
	var p domain.ProductDetails
	err := row.Scan(
		&p.ID,
		&p.Name,
		&p.Description,
		&p.Price,
		&p.Image,
		&p.SellerID,
		&p.CategoryID,
		&p.CreatedAt,
		&p.UpdatedAt,
		&p.SellerName,
		&p.CategoryName,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}
