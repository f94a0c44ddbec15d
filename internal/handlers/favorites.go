package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/ancook/bazaar/internal/auth"
	"github.com/ancook/bazaar/internal/models"
	pkghttp "github.com/ancook/bazaar/pkg/http"
)

// FavoriteServiceInterface defines the interface for favorite business logic
type FavoriteServiceInterface interface {
	List(ctx context.Context, userID int64) ([]*models.FavoriteListing, error)
	Add(ctx context.Context, userID, productID int64) (*models.Favorite, error)
	Remove(ctx context.Context, userID, productID int64) error
	Check(ctx context.Context, userID, productID int64) (bool, error)
}

// FavoriteHandler handles favorite HTTP requests
type FavoriteHandler struct {
	service FavoriteServiceInterface
}

// NewFavoriteHandler creates a new FavoriteHandler
func NewFavoriteHandler(service FavoriteServiceInterface) *FavoriteHandler {
	return &FavoriteHandler{service: service}
}

// AddFavoriteRequest represents the request body for favoriting a product
type AddFavoriteRequest struct {
	ProductID int64 `json:"product_id" validate:"required,gt=0"`
}

// List returns the caller's favorites
func (h *FavoriteHandler) List(w http.ResponseWriter, r *http.Request) {
	user := auth.GetUser(r)
	if user == nil {
		pkghttp.WriteUnauthorized(w, "Access token required")
		return
	}

	favorites, err := h.service.List(r.Context(), user.ID)
	if err != nil {
		pkghttp.WriteInternalError(w, "Failed to load favorites", err)
		return
	}

	pkghttp.WriteJSON(w, http.StatusOK, map[string]interface{}{"favorites": favorites})
}

// Add favorites a product
func (h *FavoriteHandler) Add(w http.ResponseWriter, r *http.Request) {
	user := auth.GetUser(r)
	if user == nil {
		pkghttp.WriteUnauthorized(w, "Access token required")
		return
	}

	var req AddFavoriteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		pkghttp.WriteBadRequest(w, "Invalid request body")
		return
	}

	if err := ValidateRequest(req); err != nil {
		pkghttp.WriteBadRequest(w, err.Error())
		return
	}

	favorite, err := h.service.Add(r.Context(), user.ID, req.ProductID)
	if err != nil {
		switch {
		case errors.Is(err, models.ErrNotFound):
			pkghttp.WriteNotFound(w, "Product not found")
		case errors.Is(err, models.ErrConflict):
			pkghttp.WriteBadRequest(w, "Product is already in your favorites")
		default:
			pkghttp.WriteInternalError(w, "Failed to add favorite", err)
		}
		return
	}

	pkghttp.WriteJSON(w, http.StatusCreated, map[string]interface{}{
		"message":  "Added to favorites",
		"favorite": favorite,
	})
}

// Remove deletes a favorite by product
func (h *FavoriteHandler) Remove(w http.ResponseWriter, r *http.Request) {
	user := auth.GetUser(r)
	if user == nil {
		pkghttp.WriteUnauthorized(w, "Access token required")
		return
	}

	productID, err := pathID(r, "productID")
	if err != nil {
		pkghttp.WriteBadRequest(w, "Invalid product id")
		return
	}

	if err := h.service.Remove(r.Context(), user.ID, productID); err != nil {
		if errors.Is(err, models.ErrNotFound) {
			pkghttp.WriteNotFound(w, "Favorite not found")
			return
		}
		pkghttp.WriteInternalError(w, "Failed to remove favorite", err)
		return
	}

	pkghttp.WriteJSON(w, http.StatusOK, map[string]string{"message": "Removed from favorites"})
}

// Check reports whether the caller has favorited a product
func (h *FavoriteHandler) Check(w http.ResponseWriter, r *http.Request) {
	user := auth.GetUser(r)
	if user == nil {
		pkghttp.WriteUnauthorized(w, "Access token required")
		return
	}

	productID, err := pathID(r, "productID")
	if err != nil {
		pkghttp.WriteBadRequest(w, "Invalid product id")
		return
	}

	isFavorited, err := h.service.Check(r.Context(), user.ID, productID)
	if err != nil {
		pkghttp.WriteInternalError(w, "Failed to check favorite", err)
		return
	}

	pkghttp.WriteJSON(w, http.StatusOK, map[string]bool{"isFavorited": isFavorited})
}
