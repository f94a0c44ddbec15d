package repositories

import (
	"context"
	"fmt"

	"github.com/ancook/bazaar/internal/database"
	"github.com/ancook/bazaar/internal/models"
	"github.com/jackc/pgx/v5"
)

// OrderRepository handles database operations for orders
type OrderRepository struct {
	db *database.DB
}

// NewOrderRepository creates a new OrderRepository
func NewOrderRepository(db *database.DB) *OrderRepository {
	return &OrderRepository{db: db}
}

// CreateForProduct creates an order with a single item and retires the
// purchased product, all in one transaction. Returns the new order's ID.
func (r *OrderRepository) CreateForProduct(ctx context.Context, order *models.Order, item *models.OrderItem) (int64, error) {
	var orderID int64

	err := r.db.WithTransaction(ctx, func(tx pgx.Tx) error {
		err := tx.QueryRow(ctx, `
			INSERT INTO orders (reference, buyer_id, total_amount, order_status, shipping_address, payment_method, notes)
			VALUES ($1, $2, $3, 'confirmed', $4, $5, $6)
			RETURNING id`,
			order.Reference, order.BuyerID, order.TotalAmount,
			order.ShippingAddress, order.PaymentMethod, order.Notes,
		).Scan(&orderID)
		if err != nil {
			return err
		}

		_, err = tx.Exec(ctx, `
			INSERT INTO order_items (order_id, product_id, quantity, price_at_time)
			VALUES ($1, $2, $3, $4)`,
			orderID, item.ProductID, item.Quantity, item.PriceAtTime)
		if err != nil {
			return err
		}

		// sold products leave the listings immediately; a concurrent buyer
		// who already retired the row rolls this purchase back
		tag, err := tx.Exec(ctx,
			`UPDATE products SET is_active = FALSE WHERE id = $1 AND is_active = TRUE`,
			item.ProductID)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return models.ErrNotFound
		}
		return nil
	})
	if err != nil {
		return 0, database.MapPostgresError(err)
	}

	return orderID, nil
}

const orderListingColumns = `
	o.id, o.reference, o.buyer_id, o.total_amount, o.order_status,
	o.shipping_address, o.payment_method, o.notes, o.created_at,
	oi.product_id, oi.quantity, oi.price_at_time,
	COALESCE(p.title, ''), COALESCE(pi.image_url, '')`

// ListByBuyer returns the buyer's orders with item and seller details, newest
// first
func (r *OrderRepository) ListByBuyer(ctx context.Context, buyerID int64) ([]*models.OrderListing, error) {
	query := `
		SELECT ` + orderListingColumns + `, COALESCE(u.username, ''), ''
		FROM orders o
		JOIN order_items oi ON o.id = oi.order_id
		LEFT JOIN products p ON oi.product_id = p.id
		LEFT JOIN product_images pi ON p.id = pi.product_id AND pi.is_primary = TRUE
		LEFT JOIN users u ON p.seller_id = u.id
		WHERE o.buyer_id = $1
		ORDER BY o.created_at DESC
	`

	return r.queryListings(ctx, query, buyerID)
}

// ListBySeller returns orders containing the seller's products with buyer
// details, newest first
func (r *OrderRepository) ListBySeller(ctx context.Context, sellerID int64) ([]*models.OrderListing, error) {
	query := `
		SELECT ` + orderListingColumns + `, '', COALESCE(u.username, '')
		FROM orders o
		JOIN order_items oi ON o.id = oi.order_id
		JOIN products p ON oi.product_id = p.id
		LEFT JOIN product_images pi ON p.id = pi.product_id AND pi.is_primary = TRUE
		LEFT JOIN users u ON o.buyer_id = u.id
		WHERE p.seller_id = $1
		ORDER BY o.created_at DESC
	`

	return r.queryListings(ctx, query, sellerID)
}

func (r *OrderRepository) queryListings(ctx context.Context, query string, arg interface{}) ([]*models.OrderListing, error) {
	rows, err := r.db.Pool.Query(ctx, query, arg)
	if err != nil {
		return nil, fmt.Errorf("failed to query orders: %w", err)
	}
	defer rows.Close()

	listings := make([]*models.OrderListing, 0)
	for rows.Next() {
		var l models.OrderListing
		err := rows.Scan(
			&l.ID, &l.Reference, &l.BuyerID, &l.TotalAmount, &l.OrderStatus,
			&l.ShippingAddress, &l.PaymentMethod, &l.Notes, &l.CreatedAt,
			&l.ProductID, &l.Quantity, &l.PriceAtTime,
			&l.ProductTitle, &l.ProductImage, &l.SellerName, &l.BuyerName,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan order: %w", err)
		}
		listings = append(listings, &l)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return listings, nil
}
