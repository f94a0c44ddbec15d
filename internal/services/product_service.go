package services

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/ancook/bazaar/internal/models"
)

// ProductRepository defines the interface for product database operations
type ProductRepository interface {
	List(ctx context.Context, filter models.ProductFilter) ([]*models.Product, int, error)
	GetActiveByID(ctx context.Context, id int64) (*models.Product, error)
	GetSellerID(ctx context.Context, productID int64) (int64, error)
	IncrementViews(ctx context.Context, id int64) error
	CreateWithImages(ctx context.Context, product *models.Product, imageURLs []string) (int64, error)
	AddModel(ctx context.Context, model *models.ProductModel) error
	ListImages(ctx context.Context, productID int64) ([]*models.ProductImage, error)
	ListModels(ctx context.Context, productID int64) ([]*models.ProductModel, error)
	ListReviews(ctx context.Context, productID int64) ([]*models.Review, error)
}

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// ProductDetail is a product with its attachments, as served by the detail
// endpoint
type ProductDetail struct {
	Product *models.Product
	Images  []*models.ProductImage
	Models  []*models.ProductModel
	Reviews []*models.Review
}

// NewProductInput is the validated payload for a new listing
type NewProductInput struct {
	Title         string
	Description   string
	Price         float64
	CategoryID    *int64
	LocationID    *int64
	ConditionType string
	ImageURLs     []string
}

// ProductService handles product listings
type ProductService struct {
	repo   ProductRepository
	logger *slog.Logger
}

// NewProductService creates a new ProductService
func NewProductService(repo ProductRepository, logger *slog.Logger) *ProductService {
	return &ProductService{
		repo:   repo,
		logger: logger,
	}
}

// List returns a page of active products matching the filter
func (s *ProductService) List(ctx context.Context, filter models.ProductFilter) ([]*models.Product, int, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = defaultPageSize
	}
	if filter.Limit > maxPageSize {
		filter.Limit = maxPageSize
	}

	products, total, err := s.repo.List(ctx, filter)
	if err != nil {
		s.logger.Error("failed to list products", slog.Any("error", err))
		return nil, 0, models.ErrInternalServer
	}

	return products, total, nil
}

// GetDetail returns the product with images, models, and reviews, counting
// the view
func (s *ProductService) GetDetail(ctx context.Context, id int64) (*ProductDetail, error) {
	product, err := s.repo.GetActiveByID(ctx, id)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, models.ErrNotFound
		}
		s.logger.Error("failed to get product",
			slog.Int64("product_id", id), slog.Any("error", err))
		return nil, models.ErrInternalServer
	}

	if err := s.repo.IncrementViews(ctx, id); err != nil {
		// a lost view count is not worth failing the request
		s.logger.Error("failed to increment views",
			slog.Int64("product_id", id), slog.Any("error", err))
	}

	detail := &ProductDetail{Product: product}

	if detail.Images, err = s.repo.ListImages(ctx, id); err != nil {
		s.logger.Error("failed to list product images",
			slog.Int64("product_id", id), slog.Any("error", err))
		return nil, models.ErrInternalServer
	}
	if detail.Models, err = s.repo.ListModels(ctx, id); err != nil {
		s.logger.Error("failed to list product models",
			slog.Int64("product_id", id), slog.Any("error", err))
		return nil, models.ErrInternalServer
	}
	if detail.Reviews, err = s.repo.ListReviews(ctx, id); err != nil {
		s.logger.Error("failed to list product reviews",
			slog.Int64("product_id", id), slog.Any("error", err))
		return nil, models.ErrInternalServer
	}

	return detail, nil
}

// Create validates and inserts a new listing with its image references
func (s *ProductService) Create(ctx context.Context, sellerID int64, input NewProductInput) (*ProductDetail, error) {
	input.Title = strings.TrimSpace(input.Title)
	if input.Title == "" || input.Price <= 0 {
		return nil, models.ErrBadRequest
	}

	id, err := s.repo.CreateWithImages(ctx, &models.Product{
		SellerID:      sellerID,
		Title:         input.Title,
		Description:   strings.TrimSpace(input.Description),
		Price:         input.Price,
		CategoryID:    input.CategoryID,
		LocationID:    input.LocationID,
		ConditionType: input.ConditionType,
	}, input.ImageURLs)
	if err != nil {
		if errors.Is(err, models.ErrBadRequest) {
			return nil, models.ErrBadRequest
		}
		s.logger.Error("failed to create product", slog.Any("error", err))
		return nil, models.ErrInternalServer
	}

	s.logger.Info("product created",
		slog.Int64("product_id", id), slog.Int64("seller_id", sellerID))

	product, err := s.repo.GetActiveByID(ctx, id)
	if err != nil {
		s.logger.Error("failed to reload created product",
			slog.Int64("product_id", id), slog.Any("error", err))
		return nil, models.ErrInternalServer
	}

	images, err := s.repo.ListImages(ctx, id)
	if err != nil {
		s.logger.Error("failed to list product images",
			slog.Int64("product_id", id), slog.Any("error", err))
		return nil, models.ErrInternalServer
	}

	return &ProductDetail{Product: product, Images: images}, nil
}

// AddModel attaches a 3D model to the caller's own product
func (s *ProductService) AddModel(ctx context.Context, userID, productID int64, modelURL, modelType string, fileSize int64) (*models.ProductModel, error) {
	if strings.TrimSpace(modelURL) == "" {
		return nil, models.ErrBadRequest
	}

	sellerID, err := s.repo.GetSellerID(ctx, productID)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, models.ErrNotFound
		}
		s.logger.Error("failed to get product seller",
			slog.Int64("product_id", productID), slog.Any("error", err))
		return nil, models.ErrInternalServer
	}
	if sellerID != userID {
		return nil, models.ErrForbidden
	}

	model := &models.ProductModel{
		ProductID: productID,
		ModelURL:  modelURL,
		ModelType: modelType,
		FileSize:  fileSize,
		IsActive:  true,
	}
	if err := s.repo.AddModel(ctx, model); err != nil {
		s.logger.Error("failed to add product model",
			slog.Int64("product_id", productID), slog.Any("error", err))
		return nil, models.ErrInternalServer
	}

	s.logger.Info("product model added", slog.Int64("product_id", productID))
	return model, nil
}
