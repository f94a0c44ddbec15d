package repositories

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/ancook/bazaar/internal/database"
	"github.com/ancook/bazaar/internal/models"
	"github.com/jackc/pgx/v5"
)

// ProductRepository handles database operations for products and their
// attached images, 3D models, and reviews
type ProductRepository struct {
	db *database.DB
}

// NewProductRepository creates a new ProductRepository
func NewProductRepository(db *database.DB) *ProductRepository {
	return &ProductRepository{db: db}
}

// List returns active products matching the filter plus the total match count
func (r *ProductRepository) List(ctx context.Context, filter models.ProductFilter) ([]*models.Product, int, error) {
	where := []string{"p.is_active = TRUE"}
	args := []interface{}{}

	addArg := func(clause string, value interface{}) {
		args = append(args, value)
		where = append(where, fmt.Sprintf(clause, len(args)))
	}

	if filter.CategoryID != nil {
		addArg("p.category_id = $%d", *filter.CategoryID)
	}
	if filter.Search != "" {
		args = append(args, "%"+filter.Search+"%")
		n := strconv.Itoa(len(args))
		where = append(where, "(p.title ILIKE $"+n+" OR p.description ILIKE $"+n+")")
	}
	if filter.MinPrice != nil {
		addArg("p.price >= $%d", *filter.MinPrice)
	}
	if filter.MaxPrice != nil {
		addArg("p.price <= $%d", *filter.MaxPrice)
	}
	if filter.Condition != "" {
		addArg("p.condition_type = $%d", filter.Condition)
	}

	whereClause := strings.Join(where, " AND ")

	countQuery := `SELECT COUNT(*) FROM products p WHERE ` + whereClause

	var total int
	if err := r.db.Pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count products: %w", err)
	}

	offset := (filter.Page - 1) * filter.Limit
	query := fmt.Sprintf(`
		SELECT p.id, p.seller_id, p.title, p.description, p.price, p.category_id,
		       p.location_id, p.condition_type, p.is_active, p.views_count,
		       p.created_at, p.updated_at,
		       COALESCE(u.username, ''), COALESCE(c.category_name, ''),
		       COALESCE(l.city, ''), COALESCE(l.country, ''),
		       COALESCE(pi.image_url, '')
		FROM products p
		LEFT JOIN users u ON p.seller_id = u.id
		LEFT JOIN categories c ON p.category_id = c.id
		LEFT JOIN locations l ON p.location_id = l.id
		LEFT JOIN product_images pi ON p.id = pi.product_id AND pi.is_primary = TRUE
		WHERE %s
		ORDER BY p.created_at DESC
		LIMIT $%d OFFSET $%d`,
		whereClause, len(args)+1, len(args)+2)
	args = append(args, filter.Limit, offset)

	rows, err := r.db.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query products: %w", err)
	}
	defer rows.Close()

	products := make([]*models.Product, 0)
	for rows.Next() {
		var p models.Product
		err := rows.Scan(
			&p.ID, &p.SellerID, &p.Title, &p.Description, &p.Price, &p.CategoryID,
			&p.LocationID, &p.ConditionType, &p.IsActive, &p.ViewsCount,
			&p.CreatedAt, &p.UpdatedAt,
			&p.SellerName, &p.CategoryName, &p.City, &p.Country, &p.PrimaryImage,
		)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan product: %w", err)
		}
		products = append(products, &p)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating rows: %w", err)
	}

	return products, total, nil
}

// GetActiveByID returns an active product with seller, category, and location
// joined
func (r *ProductRepository) GetActiveByID(ctx context.Context, id int64) (*models.Product, error) {
	query := `
		SELECT p.id, p.seller_id, p.title, p.description, p.price, p.category_id,
		       p.location_id, p.condition_type, p.is_active, p.views_count,
		       p.created_at, p.updated_at,
		       COALESCE(u.username, ''), COALESCE(u.email, ''), COALESCE(u.phone, ''),
		       COALESCE(c.category_name, ''), COALESCE(l.city, ''), COALESCE(l.country, '')
		FROM products p
		LEFT JOIN users u ON p.seller_id = u.id
		LEFT JOIN categories c ON p.category_id = c.id
		LEFT JOIN locations l ON p.location_id = l.id
		WHERE p.id = $1 AND p.is_active = TRUE
	`

	var p models.Product
	err := r.db.Pool.QueryRow(ctx, query, id).Scan(
		&p.ID, &p.SellerID, &p.Title, &p.Description, &p.Price, &p.CategoryID,
		&p.LocationID, &p.ConditionType, &p.IsActive, &p.ViewsCount,
		&p.CreatedAt, &p.UpdatedAt,
		&p.SellerName, &p.SellerEmail, &p.SellerPhone,
		&p.CategoryName, &p.City, &p.Country,
	)
	if err != nil {
		return nil, database.MapPostgresError(err)
	}

	return &p, nil
}

// GetSellerID returns the seller of a product regardless of its status
func (r *ProductRepository) GetSellerID(ctx context.Context, productID int64) (int64, error) {
	var sellerID int64
	err := r.db.Pool.QueryRow(ctx,
		`SELECT seller_id FROM products WHERE id = $1`, productID).Scan(&sellerID)
	if err != nil {
		return 0, database.MapPostgresError(err)
	}
	return sellerID, nil
}

// IncrementViews bumps the product's view counter
func (r *ProductRepository) IncrementViews(ctx context.Context, id int64) error {
	_, err := r.db.Pool.Exec(ctx,
		`UPDATE products SET views_count = views_count + 1 WHERE id = $1`, id)
	return err
}

// CreateWithImages inserts the product and its image references atomically.
// The first image becomes the primary one.
func (r *ProductRepository) CreateWithImages(ctx context.Context, product *models.Product, imageURLs []string) (int64, error) {
	var productID int64

	err := r.db.WithTransaction(ctx, func(tx pgx.Tx) error {
		err := tx.QueryRow(ctx, `
			INSERT INTO products (seller_id, title, description, price, category_id, location_id, condition_type)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
			RETURNING id`,
			product.SellerID, product.Title, product.Description, product.Price,
			product.CategoryID, product.LocationID, product.ConditionType,
		).Scan(&productID)
		if err != nil {
			return err
		}

		for i, url := range imageURLs {
			_, err := tx.Exec(ctx, `
				INSERT INTO product_images (product_id, image_url, is_primary, sort_order)
				VALUES ($1, $2, $3, $4)`,
				productID, url, i == 0, i)
			if err != nil {
				return err
			}
		}

		return nil
	})
	if err != nil {
		return 0, database.MapPostgresError(err)
	}

	return productID, nil
}

// AddModel attaches a 3D model reference to a product
func (r *ProductRepository) AddModel(ctx context.Context, model *models.ProductModel) error {
	query := `
		INSERT INTO product_models (product_id, model_url, model_type, file_size)
		VALUES ($1, $2, $3, $4)
	`

	_, err := r.db.Pool.Exec(ctx, query,
		model.ProductID, model.ModelURL, model.ModelType, model.FileSize)
	return database.MapPostgresError(err)
}

// ListImages returns a product's images in sort order
func (r *ProductRepository) ListImages(ctx context.Context, productID int64) ([]*models.ProductImage, error) {
	query := `
		SELECT id, product_id, image_url, is_primary, sort_order
		FROM product_images WHERE product_id = $1 ORDER BY sort_order
	`

	rows, err := r.db.Pool.Query(ctx, query, productID)
	if err != nil {
		return nil, fmt.Errorf("failed to query images: %w", err)
	}
	defer rows.Close()

	images := make([]*models.ProductImage, 0)
	for rows.Next() {
		var img models.ProductImage
		if err := rows.Scan(&img.ID, &img.ProductID, &img.ImageURL, &img.IsPrimary, &img.SortOrder); err != nil {
			return nil, fmt.Errorf("failed to scan image: %w", err)
		}
		images = append(images, &img)
	}

	return images, rows.Err()
}

// ListModels returns a product's active 3D models
func (r *ProductRepository) ListModels(ctx context.Context, productID int64) ([]*models.ProductModel, error) {
	query := `
		SELECT id, product_id, model_url, model_type, file_size, is_active
		FROM product_models WHERE product_id = $1 AND is_active = TRUE
	`

	rows, err := r.db.Pool.Query(ctx, query, productID)
	if err != nil {
		return nil, fmt.Errorf("failed to query models: %w", err)
	}
	defer rows.Close()

	modelsList := make([]*models.ProductModel, 0)
	for rows.Next() {
		var m models.ProductModel
		if err := rows.Scan(&m.ID, &m.ProductID, &m.ModelURL, &m.ModelType, &m.FileSize, &m.IsActive); err != nil {
			return nil, fmt.Errorf("failed to scan model: %w", err)
		}
		modelsList = append(modelsList, &m)
	}

	return modelsList, rows.Err()
}

// ListReviews returns a product's reviews, newest first
func (r *ProductRepository) ListReviews(ctx context.Context, productID int64) ([]*models.Review, error) {
	query := `
		SELECT r.id, r.product_id, r.reviewer_id, COALESCE(u.username, ''), r.rating, r.review_text, r.created_at
		FROM reviews r
		LEFT JOIN users u ON r.reviewer_id = u.id
		WHERE r.product_id = $1
		ORDER BY r.created_at DESC
	`

	rows, err := r.db.Pool.Query(ctx, query, productID)
	if err != nil {
		return nil, fmt.Errorf("failed to query reviews: %w", err)
	}
	defer rows.Close()

	reviews := make([]*models.Review, 0)
	for rows.Next() {
		var rv models.Review
		if err := rows.Scan(&rv.ID, &rv.ProductID, &rv.ReviewerID, &rv.ReviewerName, &rv.Rating, &rv.ReviewText, &rv.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan review: %w", err)
		}
		reviews = append(reviews, &rv)
	}

	return reviews, rows.Err()
}
