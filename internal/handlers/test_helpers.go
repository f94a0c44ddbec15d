package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ancook/bazaar/internal/auth"
	"github.com/ancook/bazaar/internal/models"
	"github.com/ancook/bazaar/internal/services"
	pkghttp "github.com/ancook/bazaar/pkg/http"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
)

// NewTestRequest creates an HTTP request with JSON body for testing
func NewTestRequest(t *testing.T, method, url string, body interface{}) *http.Request {
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("failed to encode request body: %v", err)
		}
	}
	req := httptest.NewRequest(method, url, &buf)
	req.Header.Set("Content-Type", "application/json")
	return req
}

// WithUserContext injects a resolved credential so handlers see an
// authenticated user
func WithUserContext(req *http.Request, user *models.User) *http.Request {
	cred := &auth.Credential{Kind: auth.CredentialJWT, Token: "test-token", User: user}
	ctx := context.WithValue(req.Context(), auth.CredentialContextKey, cred)
	return req.WithContext(ctx)
}

// WithSessionContext injects a session-backed credential
func WithSessionContext(req *http.Request, user *models.User, token string) *http.Request {
	cred := &auth.Credential{Kind: auth.CredentialSession, Token: token, User: user}
	ctx := context.WithValue(req.Context(), auth.CredentialContextKey, cred)
	return req.WithContext(ctx)
}

// WithURLParam attaches a chi route parameter to the request
func WithURLParam(req *http.Request, key, value string) *http.Request {
	rctx := chi.RouteContext(req.Context())
	if rctx == nil {
		rctx = chi.NewRouteContext()
		req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
	}
	rctx.URLParams.Add(key, value)
	return req
}

// AssertJSONResponse checks status and decodes the JSON body into target
func AssertJSONResponse(t *testing.T, w *httptest.ResponseRecorder, expectedStatus int, target interface{}) {
	t.Helper()
	assert.Equal(t, expectedStatus, w.Code, "Response status mismatch")
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))

	if target != nil {
		err := json.Unmarshal(w.Body.Bytes(), target)
		assert.NoError(t, err, "Failed to decode response JSON")
	}
}

// AssertErrorResponse checks status and the error body's message
func AssertErrorResponse(t *testing.T, w *httptest.ResponseRecorder, expectedStatus int, expectedMessage string) {
	t.Helper()
	assert.Equal(t, expectedStatus, w.Code, "Response status mismatch")

	var resp pkghttp.ErrorResponse
	err := json.Unmarshal(w.Body.Bytes(), &resp)
	assert.NoError(t, err, "Failed to decode error response")
	assert.Equal(t, expectedMessage, resp.Message)
}

// MockAuthService implements AuthServiceInterface for testing
type MockAuthService struct {
	RegisterFunc      func(ctx context.Context, input services.RegisterInput) (*services.LoginResult, error)
	LoginFunc         func(ctx context.Context, identifier, password, ipAddress, userAgent string) (*services.LoginResult, *models.LockStatus, error)
	LogoutFunc        func(ctx context.Context, cred *auth.Credential) error
	GetProfileFunc    func(ctx context.Context, userID int64) (*models.User, error)
	UpdateProfileFunc func(ctx context.Context, userID int64, update services.ProfileUpdate) (*models.User, error)
}

func (m *MockAuthService) Register(ctx context.Context, input services.RegisterInput) (*services.LoginResult, error) {
	if m.RegisterFunc != nil {
		return m.RegisterFunc(ctx, input)
	}
	return nil, models.ErrInternalServer
}

func (m *MockAuthService) Login(ctx context.Context, identifier, password, ipAddress, userAgent string) (*services.LoginResult, *models.LockStatus, error) {
	if m.LoginFunc != nil {
		return m.LoginFunc(ctx, identifier, password, ipAddress, userAgent)
	}
	return nil, nil, models.ErrUnauthorized
}

func (m *MockAuthService) Logout(ctx context.Context, cred *auth.Credential) error {
	if m.LogoutFunc != nil {
		return m.LogoutFunc(ctx, cred)
	}
	return nil
}

func (m *MockAuthService) GetProfile(ctx context.Context, userID int64) (*models.User, error) {
	if m.GetProfileFunc != nil {
		return m.GetProfileFunc(ctx, userID)
	}
	return nil, models.ErrNotFound
}

func (m *MockAuthService) UpdateProfile(ctx context.Context, userID int64, update services.ProfileUpdate) (*models.User, error) {
	if m.UpdateProfileFunc != nil {
		return m.UpdateProfileFunc(ctx, userID, update)
	}
	return nil, models.ErrInternalServer
}

// MockCommentService implements CommentServiceInterface for testing
type MockCommentService struct {
	ListThreadFunc func(ctx context.Context, productID int64) ([]*models.CommentNode, int, error)
	CreateFunc     func(ctx context.Context, userID, productID int64, parentID *int64, text string) (*models.Comment, error)
	UpdateFunc     func(ctx context.Context, userID, commentID int64, text string) (*models.Comment, error)
	DeleteFunc     func(ctx context.Context, userID, commentID int64) error
}

func (m *MockCommentService) ListThread(ctx context.Context, productID int64) ([]*models.CommentNode, int, error) {
	if m.ListThreadFunc != nil {
		return m.ListThreadFunc(ctx, productID)
	}
	return []*models.CommentNode{}, 0, nil
}

func (m *MockCommentService) Create(ctx context.Context, userID, productID int64, parentID *int64, text string) (*models.Comment, error) {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, userID, productID, parentID, text)
	}
	return nil, models.ErrInternalServer
}

func (m *MockCommentService) Update(ctx context.Context, userID, commentID int64, text string) (*models.Comment, error) {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, userID, commentID, text)
	}
	return nil, models.ErrInternalServer
}

func (m *MockCommentService) Delete(ctx context.Context, userID, commentID int64) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, userID, commentID)
	}
	return nil
}

// MockProductService implements ProductServiceInterface for testing
type MockProductService struct {
	ListFunc      func(ctx context.Context, filter models.ProductFilter) ([]*models.Product, int, error)
	GetDetailFunc func(ctx context.Context, id int64) (*services.ProductDetail, error)
	CreateFunc    func(ctx context.Context, sellerID int64, input services.NewProductInput) (*services.ProductDetail, error)
	AddModelFunc  func(ctx context.Context, userID, productID int64, modelURL, modelType string, fileSize int64) (*models.ProductModel, error)
}

func (m *MockProductService) List(ctx context.Context, filter models.ProductFilter) ([]*models.Product, int, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, filter)
	}
	return []*models.Product{}, 0, nil
}

func (m *MockProductService) GetDetail(ctx context.Context, id int64) (*services.ProductDetail, error) {
	if m.GetDetailFunc != nil {
		return m.GetDetailFunc(ctx, id)
	}
	return nil, models.ErrNotFound
}

func (m *MockProductService) Create(ctx context.Context, sellerID int64, input services.NewProductInput) (*services.ProductDetail, error) {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, sellerID, input)
	}
	return nil, models.ErrInternalServer
}

func (m *MockProductService) AddModel(ctx context.Context, userID, productID int64, modelURL, modelType string, fileSize int64) (*models.ProductModel, error) {
	if m.AddModelFunc != nil {
		return m.AddModelFunc(ctx, userID, productID, modelURL, modelType, fileSize)
	}
	return nil, models.ErrInternalServer
}

// MockOrderService implements OrderServiceInterface for testing
type MockOrderService struct {
	BuyNowFunc       func(ctx context.Context, buyerID int64, input services.BuyNowInput) (*models.Order, error)
	ListMyOrdersFunc func(ctx context.Context, buyerID int64) ([]*models.OrderListing, error)
	ListMySalesFunc  func(ctx context.Context, sellerID int64) ([]*models.OrderListing, error)
}

func (m *MockOrderService) BuyNow(ctx context.Context, buyerID int64, input services.BuyNowInput) (*models.Order, error) {
	if m.BuyNowFunc != nil {
		return m.BuyNowFunc(ctx, buyerID, input)
	}
	return nil, models.ErrInternalServer
}

func (m *MockOrderService) ListMyOrders(ctx context.Context, buyerID int64) ([]*models.OrderListing, error) {
	if m.ListMyOrdersFunc != nil {
		return m.ListMyOrdersFunc(ctx, buyerID)
	}
	return []*models.OrderListing{}, nil
}

func (m *MockOrderService) ListMySales(ctx context.Context, sellerID int64) ([]*models.OrderListing, error) {
	if m.ListMySalesFunc != nil {
		return m.ListMySalesFunc(ctx, sellerID)
	}
	return []*models.OrderListing{}, nil
}

// MockFavoriteService implements FavoriteServiceInterface for testing
type MockFavoriteService struct {
	ListFunc   func(ctx context.Context, userID int64) ([]*models.FavoriteListing, error)
	AddFunc    func(ctx context.Context, userID, productID int64) (*models.Favorite, error)
	RemoveFunc func(ctx context.Context, userID, productID int64) error
	CheckFunc  func(ctx context.Context, userID, productID int64) (bool, error)
}

func (m *MockFavoriteService) List(ctx context.Context, userID int64) ([]*models.FavoriteListing, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, userID)
	}
	return []*models.FavoriteListing{}, nil
}

func (m *MockFavoriteService) Add(ctx context.Context, userID, productID int64) (*models.Favorite, error) {
	if m.AddFunc != nil {
		return m.AddFunc(ctx, userID, productID)
	}
	return nil, models.ErrInternalServer
}

func (m *MockFavoriteService) Remove(ctx context.Context, userID, productID int64) error {
	if m.RemoveFunc != nil {
		return m.RemoveFunc(ctx, userID, productID)
	}
	return nil
}

func (m *MockFavoriteService) Check(ctx context.Context, userID, productID int64) (bool, error) {
	if m.CheckFunc != nil {
		return m.CheckFunc(ctx, userID, productID)
	}
	return false, nil
}
