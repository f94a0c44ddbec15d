package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/ancook/bazaar/internal/auth"
	"github.com/ancook/bazaar/internal/models"
	"github.com/ancook/bazaar/internal/services"
	pkghttp "github.com/ancook/bazaar/pkg/http"
)

// OrderServiceInterface defines the interface for order business logic
type OrderServiceInterface interface {
	BuyNow(ctx context.Context, buyerID int64, input services.BuyNowInput) (*models.Order, error)
	ListMyOrders(ctx context.Context, buyerID int64) ([]*models.OrderListing, error)
	ListMySales(ctx context.Context, sellerID int64) ([]*models.OrderListing, error)
}

// OrderHandler handles order HTTP requests
type OrderHandler struct {
	service OrderServiceInterface
}

// NewOrderHandler creates a new OrderHandler
func NewOrderHandler(service OrderServiceInterface) *OrderHandler {
	return &OrderHandler{service: service}
}

// BuyNowRequest represents the request body for a buy-now purchase
type BuyNowRequest struct {
	ProductID       int64  `json:"product_id" validate:"required,gt=0"`
	ShippingAddress string `json:"shipping_address" validate:"required,min=1,max=500"`
	PaymentMethod   string `json:"payment_method" validate:"omitempty,oneof=card paypal bank_transfer cash"`
	Notes           string `json:"notes" validate:"max=1000"`
}

// OrderResponse is the body returned after a purchase
type OrderResponse struct {
	Message string `json:"message"`
	Order   struct {
		ID          int64   `json:"id"`
		Reference   string  `json:"reference"`
		TotalAmount float64 `json:"total_amount"`
		OrderStatus string  `json:"order_status"`
		CreatedAt   string  `json:"created_at"`
	} `json:"order"`
}

// BuyNow purchases a single product
func (h *OrderHandler) BuyNow(w http.ResponseWriter, r *http.Request) {
	user := auth.GetUser(r)
	if user == nil {
		pkghttp.WriteUnauthorized(w, "Access token required")
		return
	}

	var req BuyNowRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		pkghttp.WriteBadRequest(w, "Invalid request body")
		return
	}

	if err := ValidateRequest(req); err != nil {
		pkghttp.WriteBadRequest(w, err.Error())
		return
	}

	order, err := h.service.BuyNow(r.Context(), user.ID, services.BuyNowInput{
		ProductID:       req.ProductID,
		ShippingAddress: req.ShippingAddress,
		PaymentMethod:   req.PaymentMethod,
		Notes:           req.Notes,
	})
	if err != nil {
		switch {
		case errors.Is(err, models.ErrNotFound):
			pkghttp.WriteNotFound(w, "Product not found or no longer available")
		case errors.Is(err, models.ErrBadRequest):
			pkghttp.WriteBadRequest(w, "You cannot buy your own product")
		default:
			pkghttp.WriteInternalError(w, "Failed to create order", err)
		}
		return
	}

	var resp OrderResponse
	resp.Message = "Order placed successfully"
	resp.Order.ID = order.ID
	resp.Order.Reference = order.Reference
	resp.Order.TotalAmount = order.TotalAmount
	resp.Order.OrderStatus = order.OrderStatus
	resp.Order.CreatedAt = order.CreatedAt.Format(time.RFC3339)

	pkghttp.WriteJSON(w, http.StatusCreated, resp)
}

// MyOrders lists the caller's purchases
func (h *OrderHandler) MyOrders(w http.ResponseWriter, r *http.Request) {
	user := auth.GetUser(r)
	if user == nil {
		pkghttp.WriteUnauthorized(w, "Access token required")
		return
	}

	orders, err := h.service.ListMyOrders(r.Context(), user.ID)
	if err != nil {
		pkghttp.WriteInternalError(w, "Failed to load orders", err)
		return
	}

	pkghttp.WriteJSON(w, http.StatusOK, map[string]interface{}{"orders": orders})
}

// MySales lists orders for the caller's products
func (h *OrderHandler) MySales(w http.ResponseWriter, r *http.Request) {
	user := auth.GetUser(r)
	if user == nil {
		pkghttp.WriteUnauthorized(w, "Access token required")
		return
	}

	sales, err := h.service.ListMySales(r.Context(), user.ID)
	if err != nil {
		pkghttp.WriteInternalError(w, "Failed to load sales", err)
		return
	}

	pkghttp.WriteJSON(w, http.StatusOK, map[string]interface{}{"sales": sales})
}
