package repositories

import (
	"context"
	"fmt"

	"github.com/ancook/bazaar/internal/database"
	"github.com/ancook/bazaar/internal/models"
)

// FavoriteRepository handles database operations for user favorites
type FavoriteRepository struct {
	db *database.DB
}

// NewFavoriteRepository creates a new FavoriteRepository
func NewFavoriteRepository(db *database.DB) *FavoriteRepository {
	return &FavoriteRepository{db: db}
}

// ListByUser returns the user's favorites joined with product summaries,
// newest favorite first
func (r *FavoriteRepository) ListByUser(ctx context.Context, userID int64) ([]*models.FavoriteListing, error) {
	query := `
		SELECT f.id, f.created_at, p.id, p.title, p.price, p.condition_type, p.created_at,
		       COALESCE(c.category_name, ''), COALESCE(u.username, ''),
		       COALESCE(l.city, ''), COALESCE(l.country, ''),
		       COALESCE(pi.image_url, ''), COALESCE(pm.model_url, '')
		FROM favorites f
		JOIN products p ON f.product_id = p.id
		LEFT JOIN categories c ON p.category_id = c.id
		LEFT JOIN users u ON p.seller_id = u.id
		LEFT JOIN locations l ON p.location_id = l.id
		LEFT JOIN product_images pi ON p.id = pi.product_id AND pi.is_primary = TRUE
		LEFT JOIN product_models pm ON p.id = pm.product_id AND pm.is_active = TRUE
		WHERE f.user_id = $1
		ORDER BY f.created_at DESC
	`

	rows, err := r.db.Pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query favorites: %w", err)
	}
	defer rows.Close()

	favorites := make([]*models.FavoriteListing, 0)
	for rows.Next() {
		var f models.FavoriteListing
		err := rows.Scan(
			&f.FavoriteID, &f.FavoritedAt, &f.ProductID, &f.Title, &f.Price,
			&f.ConditionType, &f.ProductCreatedAt, &f.CategoryName, &f.SellerName,
			&f.City, &f.Country, &f.PrimaryImage, &f.Model3D,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan favorite: %w", err)
		}
		favorites = append(favorites, &f)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return favorites, nil
}

// Add favorites a product for a user. A duplicate pair maps to ErrConflict.
func (r *FavoriteRepository) Add(ctx context.Context, userID, productID int64) (*models.Favorite, error) {
	query := `
		INSERT INTO favorites (user_id, product_id)
		VALUES ($1, $2)
		RETURNING id, user_id, product_id, created_at
	`

	var f models.Favorite
	err := r.db.Pool.QueryRow(ctx, query, userID, productID).Scan(
		&f.ID, &f.UserID, &f.ProductID, &f.CreatedAt,
	)
	if err != nil {
		return nil, database.MapPostgresError(err)
	}

	return &f, nil
}

// Remove deletes a favorite by its owner and product
func (r *FavoriteRepository) Remove(ctx context.Context, userID, productID int64) error {
	result, err := r.db.Pool.Exec(ctx,
		`DELETE FROM favorites WHERE user_id = $1 AND product_id = $2`, userID, productID)
	if err != nil {
		return database.MapPostgresError(err)
	}
	if result.RowsAffected() == 0 {
		return models.ErrNotFound
	}
	return nil
}

// Exists reports whether the user has favorited the product
func (r *FavoriteRepository) Exists(ctx context.Context, userID, productID int64) (bool, error) {
	var exists bool
	err := r.db.Pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM favorites WHERE user_id = $1 AND product_id = $2)`,
		userID, productID).Scan(&exists)
	return exists, err
}
