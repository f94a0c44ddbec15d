package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/ancook/bazaar/internal/auth"
	"github.com/ancook/bazaar/internal/models"
	"github.com/ancook/bazaar/internal/services"
	pkghttp "github.com/ancook/bazaar/pkg/http"
)

// ProductServiceInterface defines the interface for product business logic
type ProductServiceInterface interface {
	List(ctx context.Context, filter models.ProductFilter) ([]*models.Product, int, error)
	GetDetail(ctx context.Context, id int64) (*services.ProductDetail, error)
	Create(ctx context.Context, sellerID int64, input services.NewProductInput) (*services.ProductDetail, error)
	AddModel(ctx context.Context, userID, productID int64, modelURL, modelType string, fileSize int64) (*models.ProductModel, error)
}

// ProductHandler handles product listing HTTP requests
type ProductHandler struct {
	service ProductServiceInterface
}

// NewProductHandler creates a new ProductHandler
func NewProductHandler(service ProductServiceInterface) *ProductHandler {
	return &ProductHandler{service: service}
}

// CreateProductRequest represents the request body for a new listing. Image
// URLs come from the upload collaborator and are stored as opaque strings.
type CreateProductRequest struct {
	Title         string   `json:"title" validate:"required,min=1,max=200"`
	Description   string   `json:"description" validate:"max=5000"`
	Price         float64  `json:"price" validate:"required,gt=0"`
	CategoryID    *int64   `json:"category_id"`
	LocationID    *int64   `json:"location_id"`
	ConditionType string   `json:"condition_type" validate:"omitempty,oneof=new like_new good fair poor"`
	Images        []string `json:"images" validate:"max=10"`
}

// AddModelRequest represents the request body for attaching a 3D model
type AddModelRequest struct {
	ModelURL  string `json:"model_url" validate:"required"`
	ModelType string `json:"model_type" validate:"omitempty,oneof=glb gltf obj"`
	FileSize  int64  `json:"file_size" validate:"gte=0"`
}

// ProductListResponse is a page of product listings
type ProductListResponse struct {
	Products   []*ProductResponse `json:"products"`
	Pagination Pagination         `json:"pagination"`
}

// ProductDetailResponse is a product with its attachments
type ProductDetailResponse struct {
	*ProductResponse
	SellerEmail string                 `json:"seller_email,omitempty"`
	SellerPhone string                 `json:"seller_phone,omitempty"`
	Images      []*models.ProductImage `json:"images"`
	Models      []*models.ProductModel `json:"models"`
	Reviews     []*models.Review       `json:"reviews"`
}

// List returns a filtered page of active products
func (h *ProductHandler) List(w http.ResponseWriter, r *http.Request) {
	filter := parseProductFilter(r)

	products, total, err := h.service.List(r.Context(), filter)
	if err != nil {
		pkghttp.WriteInternalError(w, "Failed to load products", err)
		return
	}

	responses := make([]*ProductResponse, 0, len(products))
	for _, p := range products {
		responses = append(responses, productToResponse(p))
	}

	totalPages := 0
	if filter.Limit > 0 {
		totalPages = (total + filter.Limit - 1) / filter.Limit
	}

	pkghttp.WriteJSON(w, http.StatusOK, ProductListResponse{
		Products: responses,
		Pagination: Pagination{
			Page:       filter.Page,
			Limit:      filter.Limit,
			Total:      total,
			TotalPages: totalPages,
		},
	})
}

// GetByID returns one product with images, models, and reviews
func (h *ProductHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		pkghttp.WriteBadRequest(w, "Invalid product id")
		return
	}

	detail, err := h.service.GetDetail(r.Context(), id)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			pkghttp.WriteNotFound(w, "Product not found")
			return
		}
		pkghttp.WriteInternalError(w, "Failed to load product", err)
		return
	}

	pkghttp.WriteJSON(w, http.StatusOK, detailToResponse(detail))
}

// Create adds a new listing for the authenticated seller
func (h *ProductHandler) Create(w http.ResponseWriter, r *http.Request) {
	user := auth.GetUser(r)
	if user == nil {
		pkghttp.WriteUnauthorized(w, "Access token required")
		return
	}

	var req CreateProductRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		pkghttp.WriteBadRequest(w, "Invalid request body")
		return
	}

	if err := ValidateRequest(req); err != nil {
		pkghttp.WriteBadRequest(w, err.Error())
		return
	}

	detail, err := h.service.Create(r.Context(), user.ID, services.NewProductInput{
		Title:         req.Title,
		Description:   req.Description,
		Price:         req.Price,
		CategoryID:    req.CategoryID,
		LocationID:    req.LocationID,
		ConditionType: req.ConditionType,
		ImageURLs:     req.Images,
	})
	if err != nil {
		if errors.Is(err, models.ErrBadRequest) {
			pkghttp.WriteBadRequest(w, "Invalid product data")
			return
		}
		pkghttp.WriteInternalError(w, "Failed to create product", err)
		return
	}

	pkghttp.WriteJSON(w, http.StatusCreated, detailToResponse(detail))
}

// AddModel attaches a 3D model to the caller's own product
func (h *ProductHandler) AddModel(w http.ResponseWriter, r *http.Request) {
	user := auth.GetUser(r)
	if user == nil {
		pkghttp.WriteUnauthorized(w, "Access token required")
		return
	}

	productID, err := pathID(r, "id")
	if err != nil {
		pkghttp.WriteBadRequest(w, "Invalid product id")
		return
	}

	var req AddModelRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		pkghttp.WriteBadRequest(w, "Invalid request body")
		return
	}

	if err := ValidateRequest(req); err != nil {
		pkghttp.WriteBadRequest(w, err.Error())
		return
	}

	model, err := h.service.AddModel(r.Context(), user.ID, productID, req.ModelURL, req.ModelType, req.FileSize)
	if err != nil {
		switch {
		case errors.Is(err, models.ErrNotFound):
			pkghttp.WriteNotFound(w, "Product not found")
		case errors.Is(err, models.ErrForbidden):
			pkghttp.WriteForbidden(w, "You can only add models to your own products")
		case errors.Is(err, models.ErrBadRequest):
			pkghttp.WriteBadRequest(w, "Invalid model data")
		default:
			pkghttp.WriteInternalError(w, "Failed to add model", err)
		}
		return
	}

	pkghttp.WriteJSON(w, http.StatusCreated, model)
}

func detailToResponse(detail *services.ProductDetail) *ProductDetailResponse {
	resp := &ProductDetailResponse{
		ProductResponse: productToResponse(detail.Product),
		SellerEmail:     detail.Product.SellerEmail,
		SellerPhone:     detail.Product.SellerPhone,
		Images:          detail.Images,
		Models:          detail.Models,
		Reviews:         detail.Reviews,
	}
	if resp.Images == nil {
		resp.Images = []*models.ProductImage{}
	}
	if resp.Models == nil {
		resp.Models = []*models.ProductModel{}
	}
	if resp.Reviews == nil {
		resp.Reviews = []*models.Review{}
	}
	return resp
}

func parseProductFilter(r *http.Request) models.ProductFilter {
	q := r.URL.Query()

	filter := models.ProductFilter{
		Search:    q.Get("search"),
		Condition: q.Get("condition"),
	}

	if v, err := strconv.Atoi(q.Get("page")); err == nil {
		filter.Page = v
	}
	if v, err := strconv.Atoi(q.Get("limit")); err == nil {
		filter.Limit = v
	}
	if v, err := strconv.ParseInt(q.Get("category"), 10, 64); err == nil {
		filter.CategoryID = &v
	}
	if v, err := strconv.ParseFloat(q.Get("minPrice"), 64); err == nil {
		filter.MinPrice = &v
	}
	if v, err := strconv.ParseFloat(q.Get("maxPrice"), 64); err == nil {
		filter.MaxPrice = &v
	}

	return filter
}
