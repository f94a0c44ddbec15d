package services

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/ancook/bazaar/internal/models"
	"github.com/google/uuid"
)

// OrderRepository defines the interface for order database operations
type OrderRepository interface {
	CreateForProduct(ctx context.Context, order *models.Order, item *models.OrderItem) (int64, error)
	ListByBuyer(ctx context.Context, buyerID int64) ([]*models.OrderListing, error)
	ListBySeller(ctx context.Context, sellerID int64) ([]*models.OrderListing, error)
}

// BuyNowInput is the validated payload for a buy-now purchase
type BuyNowInput struct {
	ProductID       int64
	ShippingAddress string
	PaymentMethod   string
	Notes           string
}

// OrderService handles the buy-now purchase flow
type OrderService struct {
	repo     OrderRepository
	products ProductFinder
	users    UserRepository
	email    EmailService
	logger   *slog.Logger
}

// NewOrderService creates a new OrderService
func NewOrderService(repo OrderRepository, products ProductFinder, users UserRepository, email EmailService, logger *slog.Logger) *OrderService {
	return &OrderService{
		repo:     repo,
		products: products,
		users:    users,
		email:    email,
		logger:   logger,
	}
}

// BuyNow purchases an active product for the buyer: one order with one item,
// product retired, all atomically. The confirmation email goes out
// asynchronously and never affects the result.
func (s *OrderService) BuyNow(ctx context.Context, buyerID int64, input BuyNowInput) (*models.Order, error) {
	if input.ShippingAddress == "" {
		return nil, models.ErrBadRequest
	}

	product, err := s.products.GetActiveByID(ctx, input.ProductID)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, models.ErrNotFound
		}
		s.logger.Error("failed to get product for purchase",
			slog.Int64("product_id", input.ProductID), slog.Any("error", err))
		return nil, models.ErrInternalServer
	}

	if product.SellerID == buyerID {
		// no buying your own listing
		return nil, models.ErrBadRequest
	}

	paymentMethod := input.PaymentMethod
	if paymentMethod == "" {
		paymentMethod = "card"
	}

	order := &models.Order{
		Reference:       uuid.NewString(),
		BuyerID:         buyerID,
		TotalAmount:     product.Price,
		OrderStatus:     "confirmed",
		ShippingAddress: input.ShippingAddress,
		PaymentMethod:   paymentMethod,
		Notes:           input.Notes,
	}
	item := &models.OrderItem{
		ProductID:   product.ID,
		Quantity:    1,
		PriceAtTime: product.Price,
	}

	orderID, err := s.repo.CreateForProduct(ctx, order, item)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			// another buyer retired the listing between the check and the
			// purchase
			s.logger.Info("purchase lost race for product",
				slog.Int64("product_id", input.ProductID))
			return nil, models.ErrNotFound
		}
		s.logger.Error("failed to create order",
			slog.Int64("product_id", input.ProductID), slog.Any("error", err))
		return nil, models.ErrInternalServer
	}
	order.ID = orderID
	order.CreatedAt = time.Now()

	s.logger.Info("order created",
		slog.Int64("order_id", orderID),
		slog.String("reference", order.Reference),
		slog.Int64("buyer_id", buyerID))

	go s.sendConfirmation(buyerID, order, product.Title)

	return order, nil
}

// ListMyOrders returns the caller's purchases
func (s *OrderService) ListMyOrders(ctx context.Context, buyerID int64) ([]*models.OrderListing, error) {
	orders, err := s.repo.ListByBuyer(ctx, buyerID)
	if err != nil {
		s.logger.Error("failed to list orders",
			slog.Int64("buyer_id", buyerID), slog.Any("error", err))
		return nil, models.ErrInternalServer
	}
	return orders, nil
}

// ListMySales returns orders containing the caller's products
func (s *OrderService) ListMySales(ctx context.Context, sellerID int64) ([]*models.OrderListing, error) {
	orders, err := s.repo.ListBySeller(ctx, sellerID)
	if err != nil {
		s.logger.Error("failed to list sales",
			slog.Int64("seller_id", sellerID), slog.Any("error", err))
		return nil, models.ErrInternalServer
	}
	return orders, nil
}

func (s *OrderService) sendConfirmation(buyerID int64, order *models.Order, productTitle string) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	buyer, err := s.users.GetByID(ctx, buyerID)
	if err != nil {
		s.logger.Error("failed to load buyer for confirmation email",
			slog.Int64("buyer_id", buyerID), slog.Any("error", err))
		return
	}

	if err := s.email.SendOrderConfirmation(ctx, buyer.Email, order, productTitle); err != nil {
		s.logger.Error("failed to send order confirmation",
			slog.String("reference", order.Reference), slog.Any("error", err))
	}
}
