package services

import (
	"context"
	"errors"
	"log/slog"

	"github.com/ancook/bazaar/internal/models"
)

// FavoriteRepository defines the interface for favorite database operations
type FavoriteRepository interface {
	ListByUser(ctx context.Context, userID int64) ([]*models.FavoriteListing, error)
	Add(ctx context.Context, userID, productID int64) (*models.Favorite, error)
	Remove(ctx context.Context, userID, productID int64) error
	Exists(ctx context.Context, userID, productID int64) (bool, error)
}

// FavoriteService handles user favorites
type FavoriteService struct {
	repo     FavoriteRepository
	products ProductFinder
	logger   *slog.Logger
}

// NewFavoriteService creates a new FavoriteService
func NewFavoriteService(repo FavoriteRepository, products ProductFinder, logger *slog.Logger) *FavoriteService {
	return &FavoriteService{
		repo:     repo,
		products: products,
		logger:   logger,
	}
}

// List returns the user's favorites with product summaries
func (s *FavoriteService) List(ctx context.Context, userID int64) ([]*models.FavoriteListing, error) {
	favorites, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		s.logger.Error("failed to list favorites",
			slog.Int64("user_id", userID), slog.Any("error", err))
		return nil, models.ErrInternalServer
	}
	return favorites, nil
}

// Add favorites an active product. Favoriting the same product twice is a
// conflict.
func (s *FavoriteService) Add(ctx context.Context, userID, productID int64) (*models.Favorite, error) {
	if _, err := s.products.GetActiveByID(ctx, productID); err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, models.ErrNotFound
		}
		s.logger.Error("failed to check product for favorite",
			slog.Int64("product_id", productID), slog.Any("error", err))
		return nil, models.ErrInternalServer
	}

	favorite, err := s.repo.Add(ctx, userID, productID)
	if err != nil {
		if errors.Is(err, models.ErrConflict) {
			return nil, models.ErrConflict
		}
		s.logger.Error("failed to add favorite",
			slog.Int64("product_id", productID), slog.Any("error", err))
		return nil, models.ErrInternalServer
	}

	return favorite, nil
}

// Remove deletes the user's favorite for a product
func (s *FavoriteService) Remove(ctx context.Context, userID, productID int64) error {
	err := s.repo.Remove(ctx, userID, productID)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return models.ErrNotFound
		}
		s.logger.Error("failed to remove favorite",
			slog.Int64("product_id", productID), slog.Any("error", err))
		return models.ErrInternalServer
	}
	return nil
}

// Check reports whether the user has favorited the product
func (s *FavoriteService) Check(ctx context.Context, userID, productID int64) (bool, error) {
	exists, err := s.repo.Exists(ctx, userID, productID)
	if err != nil {
		s.logger.Error("failed to check favorite",
			slog.Int64("product_id", productID), slog.Any("error", err))
		return false, models.ErrInternalServer
	}
	return exists, nil
}
