package services

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/ancook/bazaar/internal/models"
	pkglogger "github.com/ancook/bazaar/pkg/logger"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testAuditLogger() *pkglogger.AuditLogger {
	return pkglogger.NewAuditLogger(testLogger())
}

// MockUserRepository implements UserRepository for testing
type MockUserRepository struct {
	GetByIDFunc         func(ctx context.Context, id int64) (*models.User, error)
	GetByIdentifierFunc func(ctx context.Context, identifier string) (*models.User, error)
	CreateFunc          func(ctx context.Context, user *models.User) (*models.User, error)
	UpdateProfileFunc   func(ctx context.Context, id int64, user *models.User) (*models.User, error)
}

func (m *MockUserRepository) GetByID(ctx context.Context, id int64) (*models.User, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	return nil, models.ErrNotFound
}

func (m *MockUserRepository) GetByIdentifier(ctx context.Context, identifier string) (*models.User, error) {
	if m.GetByIdentifierFunc != nil {
		return m.GetByIdentifierFunc(ctx, identifier)
	}
	return nil, models.ErrNotFound
}

func (m *MockUserRepository) Create(ctx context.Context, user *models.User) (*models.User, error) {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, user)
	}
	return nil, models.ErrInternalServer
}

func (m *MockUserRepository) UpdateProfile(ctx context.Context, id int64, user *models.User) (*models.User, error) {
	if m.UpdateProfileFunc != nil {
		return m.UpdateProfileFunc(ctx, id, user)
	}
	return nil, models.ErrInternalServer
}

// MockLoginAttemptRepository implements LoginAttemptRepository for testing
type MockLoginAttemptRepository struct {
	RecordAttemptFunc       func(ctx context.Context, attempt *models.LoginAttempt) error
	CountRecentFailuresFunc func(ctx context.Context, identifier, ipAddress string, since time.Time) (int, error)
	GetActiveLockFunc       func(ctx context.Context, identifier, ipAddress string, now time.Time) (*models.AccountLock, error)
	CreateLockFunc          func(ctx context.Context, lock *models.AccountLock) error
}

func (m *MockLoginAttemptRepository) RecordAttempt(ctx context.Context, attempt *models.LoginAttempt) error {
	if m.RecordAttemptFunc != nil {
		return m.RecordAttemptFunc(ctx, attempt)
	}
	return nil
}

func (m *MockLoginAttemptRepository) CountRecentFailures(ctx context.Context, identifier, ipAddress string, since time.Time) (int, error) {
	if m.CountRecentFailuresFunc != nil {
		return m.CountRecentFailuresFunc(ctx, identifier, ipAddress, since)
	}
	return 0, nil
}

func (m *MockLoginAttemptRepository) GetActiveLock(ctx context.Context, identifier, ipAddress string, now time.Time) (*models.AccountLock, error) {
	if m.GetActiveLockFunc != nil {
		return m.GetActiveLockFunc(ctx, identifier, ipAddress, now)
	}
	return nil, nil
}

func (m *MockLoginAttemptRepository) CreateLock(ctx context.Context, lock *models.AccountLock) error {
	if m.CreateLockFunc != nil {
		return m.CreateLockFunc(ctx, lock)
	}
	return nil
}

// MockSessionRepository implements SessionRepository for testing
type MockSessionRepository struct {
	CreateFunc            func(ctx context.Context, session *models.Session) error
	GetActiveWithUserFunc func(ctx context.Context, token string, now, activitySince time.Time) (*models.User, error)
	TouchFunc             func(ctx context.Context, token string, expiresAt, lastActivity time.Time) error
	DeactivateFunc        func(ctx context.Context, token string) error
}

func (m *MockSessionRepository) Create(ctx context.Context, session *models.Session) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, session)
	}
	return nil
}

func (m *MockSessionRepository) GetActiveWithUser(ctx context.Context, token string, now, activitySince time.Time) (*models.User, error) {
	if m.GetActiveWithUserFunc != nil {
		return m.GetActiveWithUserFunc(ctx, token, now, activitySince)
	}
	return nil, nil
}

func (m *MockSessionRepository) Touch(ctx context.Context, token string, expiresAt, lastActivity time.Time) error {
	if m.TouchFunc != nil {
		return m.TouchFunc(ctx, token, expiresAt, lastActivity)
	}
	return nil
}

func (m *MockSessionRepository) Deactivate(ctx context.Context, token string) error {
	if m.DeactivateFunc != nil {
		return m.DeactivateFunc(ctx, token)
	}
	return nil
}

// MockCommentRepository implements CommentRepository for testing
type MockCommentRepository struct {
	ListByProductFunc func(ctx context.Context, productID int64) ([]*models.Comment, error)
	GetByIDFunc       func(ctx context.Context, id int64) (*models.Comment, error)
	GetOnProductFunc  func(ctx context.Context, id, productID int64) (*models.Comment, error)
	CreateFunc        func(ctx context.Context, comment *models.Comment) (*models.Comment, error)
	UpdateTextFunc    func(ctx context.Context, id int64, text string) (*models.Comment, error)
	DeleteFunc        func(ctx context.Context, id int64) error
}

func (m *MockCommentRepository) ListByProduct(ctx context.Context, productID int64) ([]*models.Comment, error) {
	if m.ListByProductFunc != nil {
		return m.ListByProductFunc(ctx, productID)
	}
	return []*models.Comment{}, nil
}

func (m *MockCommentRepository) GetByID(ctx context.Context, id int64) (*models.Comment, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	return nil, models.ErrNotFound
}

func (m *MockCommentRepository) GetOnProduct(ctx context.Context, id, productID int64) (*models.Comment, error) {
	if m.GetOnProductFunc != nil {
		return m.GetOnProductFunc(ctx, id, productID)
	}
	return nil, models.ErrNotFound
}

func (m *MockCommentRepository) Create(ctx context.Context, comment *models.Comment) (*models.Comment, error) {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, comment)
	}
	return nil, models.ErrInternalServer
}

func (m *MockCommentRepository) UpdateText(ctx context.Context, id int64, text string) (*models.Comment, error) {
	if m.UpdateTextFunc != nil {
		return m.UpdateTextFunc(ctx, id, text)
	}
	return nil, models.ErrInternalServer
}

func (m *MockCommentRepository) Delete(ctx context.Context, id int64) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, id)
	}
	return nil
}

// MockProductRepository implements ProductRepository (and ProductFinder) for
// testing
type MockProductRepository struct {
	ListFunc             func(ctx context.Context, filter models.ProductFilter) ([]*models.Product, int, error)
	GetActiveByIDFunc    func(ctx context.Context, id int64) (*models.Product, error)
	GetSellerIDFunc      func(ctx context.Context, productID int64) (int64, error)
	IncrementViewsFunc   func(ctx context.Context, id int64) error
	CreateWithImagesFunc func(ctx context.Context, product *models.Product, imageURLs []string) (int64, error)
	AddModelFunc         func(ctx context.Context, model *models.ProductModel) error
	ListImagesFunc       func(ctx context.Context, productID int64) ([]*models.ProductImage, error)
	ListModelsFunc       func(ctx context.Context, productID int64) ([]*models.ProductModel, error)
	ListReviewsFunc      func(ctx context.Context, productID int64) ([]*models.Review, error)
}

func (m *MockProductRepository) List(ctx context.Context, filter models.ProductFilter) ([]*models.Product, int, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, filter)
	}
	return []*models.Product{}, 0, nil
}

func (m *MockProductRepository) GetActiveByID(ctx context.Context, id int64) (*models.Product, error) {
	if m.GetActiveByIDFunc != nil {
		return m.GetActiveByIDFunc(ctx, id)
	}
	return nil, models.ErrNotFound
}

func (m *MockProductRepository) GetSellerID(ctx context.Context, productID int64) (int64, error) {
	if m.GetSellerIDFunc != nil {
		return m.GetSellerIDFunc(ctx, productID)
	}
	return 0, models.ErrNotFound
}

func (m *MockProductRepository) IncrementViews(ctx context.Context, id int64) error {
	if m.IncrementViewsFunc != nil {
		return m.IncrementViewsFunc(ctx, id)
	}
	return nil
}

func (m *MockProductRepository) CreateWithImages(ctx context.Context, product *models.Product, imageURLs []string) (int64, error) {
	if m.CreateWithImagesFunc != nil {
		return m.CreateWithImagesFunc(ctx, product, imageURLs)
	}
	return 0, models.ErrInternalServer
}

func (m *MockProductRepository) AddModel(ctx context.Context, model *models.ProductModel) error {
	if m.AddModelFunc != nil {
		return m.AddModelFunc(ctx, model)
	}
	return nil
}

func (m *MockProductRepository) ListImages(ctx context.Context, productID int64) ([]*models.ProductImage, error) {
	if m.ListImagesFunc != nil {
		return m.ListImagesFunc(ctx, productID)
	}
	return []*models.ProductImage{}, nil
}

func (m *MockProductRepository) ListModels(ctx context.Context, productID int64) ([]*models.ProductModel, error) {
	if m.ListModelsFunc != nil {
		return m.ListModelsFunc(ctx, productID)
	}
	return []*models.ProductModel{}, nil
}

func (m *MockProductRepository) ListReviews(ctx context.Context, productID int64) ([]*models.Review, error) {
	if m.ListReviewsFunc != nil {
		return m.ListReviewsFunc(ctx, productID)
	}
	return []*models.Review{}, nil
}

// MockOrderRepository implements OrderRepository for testing
type MockOrderRepository struct {
	CreateForProductFunc func(ctx context.Context, order *models.Order, item *models.OrderItem) (int64, error)
	ListByBuyerFunc      func(ctx context.Context, buyerID int64) ([]*models.OrderListing, error)
	ListBySellerFunc     func(ctx context.Context, sellerID int64) ([]*models.OrderListing, error)
}

func (m *MockOrderRepository) CreateForProduct(ctx context.Context, order *models.Order, item *models.OrderItem) (int64, error) {
	if m.CreateForProductFunc != nil {
		return m.CreateForProductFunc(ctx, order, item)
	}
	return 1, nil
}

func (m *MockOrderRepository) ListByBuyer(ctx context.Context, buyerID int64) ([]*models.OrderListing, error) {
	if m.ListByBuyerFunc != nil {
		return m.ListByBuyerFunc(ctx, buyerID)
	}
	return []*models.OrderListing{}, nil
}

func (m *MockOrderRepository) ListBySeller(ctx context.Context, sellerID int64) ([]*models.OrderListing, error) {
	if m.ListBySellerFunc != nil {
		return m.ListBySellerFunc(ctx, sellerID)
	}
	return []*models.OrderListing{}, nil
}

// MockFavoriteRepository implements FavoriteRepository for testing
type MockFavoriteRepository struct {
	ListByUserFunc func(ctx context.Context, userID int64) ([]*models.FavoriteListing, error)
	AddFunc        func(ctx context.Context, userID, productID int64) (*models.Favorite, error)
	RemoveFunc     func(ctx context.Context, userID, productID int64) error
	ExistsFunc     func(ctx context.Context, userID, productID int64) (bool, error)
}

func (m *MockFavoriteRepository) ListByUser(ctx context.Context, userID int64) ([]*models.FavoriteListing, error) {
	if m.ListByUserFunc != nil {
		return m.ListByUserFunc(ctx, userID)
	}
	return []*models.FavoriteListing{}, nil
}

func (m *MockFavoriteRepository) Add(ctx context.Context, userID, productID int64) (*models.Favorite, error) {
	if m.AddFunc != nil {
		return m.AddFunc(ctx, userID, productID)
	}
	return &models.Favorite{ID: 1, UserID: userID, ProductID: productID}, nil
}

func (m *MockFavoriteRepository) Remove(ctx context.Context, userID, productID int64) error {
	if m.RemoveFunc != nil {
		return m.RemoveFunc(ctx, userID, productID)
	}
	return nil
}

func (m *MockFavoriteRepository) Exists(ctx context.Context, userID, productID int64) (bool, error) {
	if m.ExistsFunc != nil {
		return m.ExistsFunc(ctx, userID, productID)
	}
	return false, nil
}

// MockEmailService implements EmailService for testing
type MockEmailService struct {
	SendOrderConfirmationFunc func(ctx context.Context, email string, order *models.Order, productTitle string) error
}

func (m *MockEmailService) SendOrderConfirmation(ctx context.Context, email string, order *models.Order, productTitle string) error {
	if m.SendOrderConfirmationFunc != nil {
		return m.SendOrderConfirmationFunc(ctx, email, order, productTitle)
	}
	return nil
}
