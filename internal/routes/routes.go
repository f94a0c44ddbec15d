package routes

import (
	"github.com/ancook/bazaar/internal/auth"
	"github.com/ancook/bazaar/internal/handlers"
	"github.com/ancook/bazaar/internal/middleware"
	"github.com/go-chi/chi/v5"
)

// RegisterRoutes registers all application routes
func RegisterRoutes(
	router chi.Router,
	authHandler *handlers.AuthHandler,
	productHandler *handlers.ProductHandler,
	commentHandler *handlers.CommentHandler,
	orderHandler *handlers.OrderHandler,
	favoriteHandler *handlers.FavoriteHandler,
	resolver *auth.Resolver,
) {
	// Rate limiting config for credential endpoints
	rateLimitConfig := middleware.DefaultAuthRateLimit()

	// Public routes - no authentication required
	router.With(middleware.RateLimitByIP(rateLimitConfig)).Post("/auth/register", authHandler.Register)
	router.With(middleware.RateLimitByIP(rateLimitConfig)).Post("/auth/login", authHandler.Login)

	router.Get("/products", productHandler.List)
	router.Get("/products/{id}", productHandler.GetByID)
	router.Get("/comments/product/{productID}", commentHandler.ListByProduct)

	// Protected routes - authentication required
	router.Group(func(r chi.Router) {
		r.Use(resolver.RequireAuth)

		r.Post("/auth/logout", authHandler.Logout)
		r.Get("/auth/profile", authHandler.GetProfile)
		r.Put("/auth/profile", authHandler.UpdateProfile)

		r.Post("/products", productHandler.Create)
		r.Post("/products/{id}/model", productHandler.AddModel)

		r.Post("/comments/product/{productID}", commentHandler.Create)
		r.Put("/comments/{commentID}", commentHandler.Update)
		r.Delete("/comments/{commentID}", commentHandler.Delete)

		r.Post("/orders/buy-now", orderHandler.BuyNow)
		r.Get("/orders/my-orders", orderHandler.MyOrders)
		r.Get("/orders/my-sales", orderHandler.MySales)

		r.Get("/favorites", favoriteHandler.List)
		r.Post("/favorites/add", favoriteHandler.Add)
		r.Delete("/favorites/remove/{productID}", favoriteHandler.Remove)
		r.Get("/favorites/check/{productID}", favoriteHandler.Check)
	})
}
