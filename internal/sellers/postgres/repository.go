// Package postgres provides PostgreSQL implementation of the sellers repository.
package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/handcrafted-haven/marketplace/internal/domain"
	"github.com/handcrafted-haven/marketplace/internal/sellers"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	uniqueViolation     = "23505"
	foreignKeyViolation = "23503"
)

// Repository implements the sellers.Repository interface using PostgreSQL.
type Repository struct {
	db *pgxpool.Pool
}

// NewRepository creates a new PostgreSQL repository.
func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

// GetProfileByUserID retrieves a seller profile by owning user id.
func (r *Repository) GetProfileByUserID(ctx context.Context, userID int64) (*domain.SellerProfile, error) {
	query := `
		SELECT id, user_id, bio, story, banner, location, website, created_at, updated_at
		FROM seller_profiles
		WHERE user_id = $1
	`
	return r.scanProfile(r.db.QueryRow(ctx, query, userID), "get seller profile")
}

// CreateProfile inserts a seller profile and promotes the owning user to
// SELLER in the same transaction, so a half-applied become-a-seller flow is
// never observable.
func (r *Repository) CreateProfile(ctx context.Context, profile *domain.SellerProfile) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	query := `
		INSERT INTO seller_profiles (user_id, bio, story, banner, location, website)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at, updated_at
	`
	err = tx.QueryRow(ctx, query,
		profile.UserID,
		profile.Bio,
		profile.Story,
		profile.Banner,
		profile.Location,
		profile.Website,
	).Scan(&profile.ID, &profile.CreatedAt, &profile.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return sellers.ErrProfileExists
		}
		return fmt.Errorf("create seller profile: %w", err)
	}

	// One-way promotion: never touches SELLER or ADMIN rows.
	_, err = tx.Exec(ctx,
		`UPDATE users SET role = $2, updated_at = now() WHERE id = $1 AND role = $3`,
		profile.UserID, domain.RoleSeller, domain.RoleBasic,
	)
	if err != nil {
		return fmt.Errorf("promote user: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

// UpdateProfile updates a seller profile by owning user id.
func (r *Repository) UpdateProfile(ctx context.Context, profile *domain.SellerProfile) error {
	query := `
		UPDATE seller_profiles
		SET bio = $2, story = $3, banner = $4, location = $5, website = $6, updated_at = now()
		WHERE user_id = $1
		RETURNING updated_at
	`
	err := r.db.QueryRow(ctx, query,
		profile.UserID,
		profile.Bio,
		profile.Story,
		profile.Banner,
		profile.Location,
		profile.Website,
	).Scan(&profile.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return sellers.ErrProfileNotFound
		}
		return fmt.Errorf("update seller profile: %w", err)
	}
	return nil
}

// ListProductsBySeller retrieves all products owned by a seller, newest first.
func (r *Repository) ListProductsBySeller(ctx context.Context, sellerID int64) ([]domain.Product, error) {
	query := `
		SELECT id, name, description, price, image, seller_id, category_id, created_at, updated_at
		FROM products
		WHERE seller_id = $1
		ORDER BY created_at DESC, id DESC
	`
	rows, err := r.db.Query(ctx, query, sellerID)
	if err != nil {
		return nil, fmt.Errorf("list seller products: %w", err)
	}
	defer rows.Close()

	products := make([]domain.Product, 0)
	for rows.Next() {
		var p domain.Product
		err := rows.Scan(&p.ID, &p.Name, &p.Description, &p.Price, &p.Image,
			&p.SellerID, &p.CategoryID, &p.CreatedAt, &p.UpdatedAt)
		if err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		products = append(products, p)
	}
	return products, rows.Err()
}

// CreateProduct inserts a product.
func (r *Repository) CreateProduct(ctx context.Context, product *domain.Product) error {
	query := `
		INSERT INTO products (name, description, price, image, seller_id, category_id)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at, updated_at
	`
	err := r.db.QueryRow(ctx, query,
		product.Name,
		product.Description,
		product.Price,
		product.Image,
		product.SellerID,
		product.CategoryID,
	).Scan(&product.ID, &product.CreatedAt, &product.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == foreignKeyViolation {
			return sellers.ErrInvalidCategory
		}
		return fmt.Errorf("create product: %w", err)
	}
	return nil
}

// UpdateProduct updates a product scoped to its owner. The ownership check
// lives in the WHERE clause: a mismatched seller sees the same
// ErrProductNotFound as for a nonexistent id.
func (r *Repository) UpdateProduct(ctx context.Context, product *domain.Product) error {
	query := `
		UPDATE products
		SET name = $3, description = $4, price = $5, image = $6, category_id = $7, updated_at = now()
		WHERE id = $1 AND seller_id = $2
		RETURNING created_at, updated_at
	`
	err := r.db.QueryRow(ctx, query,
		product.ID,
		product.SellerID,
		product.Name,
		product.Description,
		product.Price,
		product.Image,
		product.CategoryID,
	).Scan(&product.CreatedAt, &product.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return sellers.ErrProductNotFound
		}
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == foreignKeyViolation {
			return sellers.ErrInvalidCategory
		}
		return fmt.Errorf("update product: %w", err)
	}
	return nil
}

// DeleteProduct deletes a product scoped to its owner.
func (r *Repository) DeleteProduct(ctx context.Context, id, sellerID int64) error {
	tag, err := r.db.Exec(ctx,
		`DELETE FROM products WHERE id = $1 AND seller_id = $2`, id, sellerID)
	if err != nil {
		return fmt.Errorf("delete product: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return sellers.ErrProductNotFound
	}
	return nil
}

// GetDashboardStats aggregates a seller's product and review activity.
func (r *Repository) GetDashboardStats(ctx context.Context, sellerID int64) (*domain.DashboardStats, error) {
	query := `
		SELECT
			(SELECT count(*) FROM products WHERE seller_id = $1),
			count(rv.id),
			coalesce(avg(rv.rating), 0)
		FROM reviews rv
		JOIN products p ON p.id = rv.product_id
		WHERE p.seller_id = $1
	`
	var stats domain.DashboardStats
	err := r.db.QueryRow(ctx, query, sellerID).Scan(
		&stats.ProductCount,
		&stats.ReviewCount,
		&stats.AverageRating,
	)
	if err != nil {
		return nil, fmt.Errorf("get dashboard stats: %w", err)
	}
	return &stats, nil
}

func (r *Repository) scanProfile(row pgx.Row, op string) (*domain.SellerProfile, error) {
	var p domain.SellerProfile
	err := row.Scan(
		&p.ID,
		&p.UserID,
		&p.Bio,
		&p.Story,
		&p.Banner,
		&p.Location,
		&p.Website,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, sellers.ErrProfileNotFound
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &p, nil
}
