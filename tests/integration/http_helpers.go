package integration

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/ancook/bazaar/internal/auth"
	"github.com/ancook/bazaar/internal/config"
	"github.com/ancook/bazaar/internal/database"
	"github.com/ancook/bazaar/internal/handlers"
	"github.com/ancook/bazaar/internal/models"
	"github.com/ancook/bazaar/internal/repositories"
	"github.com/ancook/bazaar/internal/routes"
	"github.com/ancook/bazaar/internal/services"
	pkglogger "github.com/ancook/bazaar/pkg/logger"
)

// SentEmail represents a captured email message
type SentEmail struct {
	To           string
	Reference    string
	ProductTitle string
}

// MockEmailService captures order confirmations for test assertions
type MockEmailService struct {
	SentEmails []SentEmail
	mu         sync.Mutex
}

// SendOrderConfirmation records the email
func (m *MockEmailService) SendOrderConfirmation(ctx context.Context, email string, order *models.Order, productTitle string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.SentEmails = append(m.SentEmails, SentEmail{
		To:           email,
		Reference:    order.Reference,
		ProductTitle: productTitle,
	})
	return nil
}

// GetLastEmail returns the most recent email sent
func (m *MockEmailService) GetLastEmail() *SentEmail {
	m.mu.Lock()
	defer m.mu.Unlock()

	if len(m.SentEmails) == 0 {
		return nil
	}
	return &m.SentEmails[len(m.SentEmails)-1]
}

// TestServer wraps httptest.Server with database and all dependencies
type TestServer struct {
	Server       *httptest.Server
	DB           *database.DB
	EmailService *MockEmailService
	Config       *config.Config

	logger *slog.Logger
}

// NewTestServer initializes a complete HTTP server with real database + mocked email
func NewTestServer(db *database.DB) *TestServer {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelWarn}))

	cfg := &config.Config{
		Auth: config.AuthConfig{
			JWTSecret:        "test-secret-32-characters-long-for-testing",
			TokenExpiry:      24 * time.Hour,
			SessionDuration:  30 * time.Minute,
			MaxLoginAttempts: 5,
			AttemptWindow:    15 * time.Minute,
			LockoutDuration:  15 * time.Minute,
			AttemptRetention: 1 * time.Hour,
			CleanupInterval:  1 * time.Hour,
		},
		Server: config.ServerConfig{
			Port:           "0",
			Env:            "test",
			AllowedOrigins: []string{},
		},
	}

	// Initialize repositories
	userRepo := repositories.NewUserRepository(db)
	loginAttemptRepo := repositories.NewLoginAttemptRepository(db)
	sessionRepo := repositories.NewSessionRepository(db)
	productRepo := repositories.NewProductRepository(db)
	commentRepo := repositories.NewCommentRepository(db)
	orderRepo := repositories.NewOrderRepository(db)
	favoriteRepo := repositories.NewFavoriteRepository(db)

	tokenManager := auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.TokenExpiry)
	auditLogger := pkglogger.NewAuditLogger(logger)

	mockEmail := &MockEmailService{
		SentEmails: []SentEmail{},
	}

	// Initialize services
	loginGuard := services.NewLoginGuardService(loginAttemptRepo, userRepo, cfg.Auth, logger, auditLogger)
	sessionService := services.NewSessionService(sessionRepo, cfg.Auth.SessionDuration, logger)
	authService := services.NewAuthService(userRepo, loginGuard, sessionService, tokenManager, logger)
	productService := services.NewProductService(productRepo, logger)
	commentService := services.NewCommentService(commentRepo, productRepo, logger)
	orderService := services.NewOrderService(orderRepo, productRepo, userRepo, mockEmail, logger)
	favoriteService := services.NewFavoriteService(favoriteRepo, productRepo, logger)

	resolver := auth.NewResolver(tokenManager, sessionService, userRepo, logger)

	cookieConfig := auth.CookieConfig{SameSite: http.SameSiteLaxMode}

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(authService, cookieConfig, cfg.Auth.SessionDuration)
	productHandler := handlers.NewProductHandler(productService)
	commentHandler := handlers.NewCommentHandler(commentService)
	orderHandler := handlers.NewOrderHandler(orderService)
	favoriteHandler := handlers.NewFavoriteHandler(favoriteService)

	// Setup Chi router with middleware
	r := chi.NewRouter()
	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Timeout(60 * time.Second))

	// Setup routes using production pattern
	routes.RegisterRoutes(r, authHandler, productHandler, commentHandler, orderHandler, favoriteHandler, resolver)

	server := httptest.NewServer(r)

	return &TestServer{
		Server:       server,
		DB:           db,
		EmailService: mockEmail,
		Config:       cfg,
		logger:       logger,
	}
}

// Close shuts down the test server
func (ts *TestServer) Close() {
	if ts.Server != nil {
		ts.Server.Close()
	}
}

// Request makes an HTTP request to the test server
func (ts *TestServer) Request(method, path string, body interface{}, headers map[string]string) (*http.Response, error) {
	url := ts.Server.URL + path

	var bodyReader io.Reader
	if body != nil {
		bodyBytes, err := json.Marshal(body)
		if err != nil {
			return nil, err
		}
		bodyReader = bytes.NewReader(bodyBytes)
	}

	req, err := http.NewRequest(method, url, bodyReader)
	if err != nil {
		return nil, err
	}

	req.Header.Set("Content-Type", "application/json")
	for key, value := range headers {
		req.Header.Set(key, value)
	}

	return http.DefaultClient.Do(req)
}

// RequestWithAuth makes an authenticated HTTP request with a bearer token.
// Both JWTs and opaque session tokens work; the resolver sorts them out.
func (ts *TestServer) RequestWithAuth(method, path, token string, body interface{}) (*http.Response, error) {
	headers := map[string]string{
		"Authorization": "Bearer " + token,
	}
	return ts.Request(method, path, body, headers)
}

// ParseJSONResponse parses JSON response body into target struct
func ParseJSONResponse(resp *http.Response, target interface{}) error {
	defer resp.Body.Close()
	return json.NewDecoder(resp.Body).Decode(target)
}

// ExtractTokensFromResponse extracts the JWT and session token from an auth response
func ExtractTokensFromResponse(resp *http.Response) (token, sessionToken string, err error) {
	defer resp.Body.Close()

	var authResp map[string]interface{}
	if err := json.NewDecoder(resp.Body).Decode(&authResp); err != nil {
		return "", "", err
	}

	if t, ok := authResp["token"].(string); ok {
		token = t
	}
	if s, ok := authResp["sessionToken"].(string); ok {
		sessionToken = s
	}

	return token, sessionToken, nil
}

// GetErrorMessage extracts error message from error response
func GetErrorMessage(resp *http.Response) (string, error) {
	defer resp.Body.Close()
	var errResp map[string]interface{}
	if err := json.NewDecoder(resp.Body).Decode(&errResp); err != nil {
		return "", err
	}
	if msg, ok := errResp["message"].(string); ok {
		return msg, nil
	}
	return "", nil
}
