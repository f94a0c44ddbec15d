package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/ancook/bazaar/internal/models"
	"github.com/ancook/bazaar/internal/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuyNowHandler_Success(t *testing.T) {
	var gotInput services.BuyNowInput
	svc := &MockOrderService{
		BuyNowFunc: func(ctx context.Context, buyerID int64, input services.BuyNowInput) (*models.Order, error) {
			gotInput = input
			return &models.Order{
				ID:          3,
				Reference:   "9f2c7e1a-0000-4000-8000-000000000000",
				BuyerID:     buyerID,
				TotalAmount: 35,
				OrderStatus: "confirmed",
				CreatedAt:   time.Now(),
			}, nil
		},
	}
	h := NewOrderHandler(svc)

	req := NewTestRequest(t, http.MethodPost, "/orders/buy-now", map[string]interface{}{
		"product_id":       42,
		"shipping_address": "12 Canal Street, Amsterdam",
		"payment_method":   "paypal",
	})
	req = WithUserContext(req, testUser())
	w := httptest.NewRecorder()

	h.BuyNow(w, req)

	var resp OrderResponse
	AssertJSONResponse(t, w, http.StatusCreated, &resp)
	assert.Equal(t, "Order placed successfully", resp.Message)
	assert.Equal(t, int64(3), resp.Order.ID)
	assert.Equal(t, "confirmed", resp.Order.OrderStatus)
	assert.Equal(t, int64(42), gotInput.ProductID)
	assert.Equal(t, "paypal", gotInput.PaymentMethod)
}

func TestBuyNowHandler_OwnProduct(t *testing.T) {
	svc := &MockOrderService{
		BuyNowFunc: func(ctx context.Context, buyerID int64, input services.BuyNowInput) (*models.Order, error) {
			return nil, models.ErrBadRequest
		},
	}
	h := NewOrderHandler(svc)

	req := NewTestRequest(t, http.MethodPost, "/orders/buy-now", map[string]interface{}{
		"product_id":       42,
		"shipping_address": "12 Canal Street, Amsterdam",
	})
	req = WithUserContext(req, testUser())
	w := httptest.NewRecorder()

	h.BuyNow(w, req)

	AssertErrorResponse(t, w, http.StatusBadRequest, "You cannot buy your own product")
}

func TestBuyNowHandler_ProductGone(t *testing.T) {
	svc := &MockOrderService{
		BuyNowFunc: func(ctx context.Context, buyerID int64, input services.BuyNowInput) (*models.Order, error) {
			return nil, models.ErrNotFound
		},
	}
	h := NewOrderHandler(svc)

	req := NewTestRequest(t, http.MethodPost, "/orders/buy-now", map[string]interface{}{
		"product_id":       42,
		"shipping_address": "12 Canal Street, Amsterdam",
	})
	req = WithUserContext(req, testUser())
	w := httptest.NewRecorder()

	h.BuyNow(w, req)

	AssertErrorResponse(t, w, http.StatusNotFound, "Product not found or no longer available")
}

func TestBuyNowHandler_MissingAddress(t *testing.T) {
	h := NewOrderHandler(&MockOrderService{})

	req := NewTestRequest(t, http.MethodPost, "/orders/buy-now",
		map[string]interface{}{"product_id": 42})
	req = WithUserContext(req, testUser())
	w := httptest.NewRecorder()

	h.BuyNow(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestBuyNowHandler_Unauthenticated(t *testing.T) {
	h := NewOrderHandler(&MockOrderService{})

	req := NewTestRequest(t, http.MethodPost, "/orders/buy-now", nil)
	w := httptest.NewRecorder()

	h.BuyNow(w, req)

	AssertErrorResponse(t, w, http.StatusUnauthorized, "Access token required")
}

func TestMyOrdersHandler(t *testing.T) {
	svc := &MockOrderService{
		ListMyOrdersFunc: func(ctx context.Context, buyerID int64) ([]*models.OrderListing, error) {
			return []*models.OrderListing{
				{Order: models.Order{ID: 1, Reference: "ref-1", BuyerID: buyerID}},
			}, nil
		},
	}
	h := NewOrderHandler(svc)

	req := NewTestRequest(t, http.MethodGet, "/orders/my-orders", nil)
	req = WithUserContext(req, testUser())
	w := httptest.NewRecorder()

	h.MyOrders(w, req)

	var resp struct {
		Orders []models.OrderListing `json:"orders"`
	}
	AssertJSONResponse(t, w, http.StatusOK, &resp)
	require.Len(t, resp.Orders, 1)
	assert.Equal(t, "ref-1", resp.Orders[0].Reference)
}

func TestMySalesHandler(t *testing.T) {
	svc := &MockOrderService{
		ListMySalesFunc: func(ctx context.Context, sellerID int64) ([]*models.OrderListing, error) {
			return []*models.OrderListing{}, nil
		},
	}
	h := NewOrderHandler(svc)

	req := NewTestRequest(t, http.MethodGet, "/orders/my-sales", nil)
	req = WithUserContext(req, testUser())
	w := httptest.NewRecorder()

	h.MySales(w, req)

	var resp struct {
		Sales []models.OrderListing `json:"sales"`
	}
	AssertJSONResponse(t, w, http.StatusOK, &resp)
	assert.Empty(t, resp.Sales)
}
