package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/ancook/bazaar/internal/auth"
	"github.com/ancook/bazaar/internal/models"
	pkghttp "github.com/ancook/bazaar/pkg/http"
	"github.com/go-chi/chi/v5"
)

// CommentServiceInterface defines the interface for comment business logic
type CommentServiceInterface interface {
	ListThread(ctx context.Context, productID int64) ([]*models.CommentNode, int, error)
	Create(ctx context.Context, userID, productID int64, parentID *int64, text string) (*models.Comment, error)
	Update(ctx context.Context, userID, commentID int64, text string) (*models.Comment, error)
	Delete(ctx context.Context, userID, commentID int64) error
}

// CommentHandler handles comment-thread HTTP requests
type CommentHandler struct {
	service CommentServiceInterface
}

// NewCommentHandler creates a new CommentHandler
func NewCommentHandler(service CommentServiceInterface) *CommentHandler {
	return &CommentHandler{service: service}
}

// CreateCommentRequest represents the request body for a new comment or reply
type CreateCommentRequest struct {
	CommentText     string `json:"comment_text" validate:"required,max=1000"`
	ParentCommentID *int64 `json:"parent_comment_id"`
}

// UpdateCommentRequest represents the request body for editing a comment
type UpdateCommentRequest struct {
	CommentText string `json:"comment_text" validate:"required,max=1000"`
}

// ThreadResponse is the comment tree for one product plus the flat row count
type ThreadResponse struct {
	Comments []*models.CommentNode `json:"comments"`
	Total    int                   `json:"total"`
}

// ListByProduct returns a product's comment thread
func (h *CommentHandler) ListByProduct(w http.ResponseWriter, r *http.Request) {
	productID, err := pathID(r, "productID")
	if err != nil {
		pkghttp.WriteBadRequest(w, "Invalid product id")
		return
	}

	comments, total, err := h.service.ListThread(r.Context(), productID)
	if err != nil {
		pkghttp.WriteInternalError(w, "Failed to load comments", err)
		return
	}

	pkghttp.WriteJSON(w, http.StatusOK, ThreadResponse{Comments: comments, Total: total})
}

// Create posts a comment or reply on a product
func (h *CommentHandler) Create(w http.ResponseWriter, r *http.Request) {
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

	var req CreateCommentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		pkghttp.WriteBadRequest(w, "Invalid request body")
		return
	}

	if err := ValidateRequest(req); err != nil {
		pkghttp.WriteBadRequest(w, err.Error())
		return
	}

	comment, err := h.service.Create(r.Context(), user.ID, productID, req.ParentCommentID, req.CommentText)
	if err != nil {
		switch {
		case errors.Is(err, models.ErrNotFound):
			pkghttp.WriteNotFound(w, "Product not found")
		case errors.Is(err, models.ErrBadRequest):
			pkghttp.WriteBadRequest(w, "Invalid comment")
		default:
			pkghttp.WriteInternalError(w, "Failed to create comment", err)
		}
		return
	}

	pkghttp.WriteJSON(w, http.StatusCreated, comment)
}

// Update edits the caller's own comment
func (h *CommentHandler) Update(w http.ResponseWriter, r *http.Request) {
	user := auth.GetUser(r)
	if user == nil {
		pkghttp.WriteUnauthorized(w, "Access token required")
		return
	}

	commentID, err := pathID(r, "commentID")
	if err != nil {
		pkghttp.WriteBadRequest(w, "Invalid comment id")
		return
	}

	var req UpdateCommentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		pkghttp.WriteBadRequest(w, "Invalid request body")
		return
	}

	if err := ValidateRequest(req); err != nil {
		pkghttp.WriteBadRequest(w, err.Error())
		return
	}

	comment, err := h.service.Update(r.Context(), user.ID, commentID, req.CommentText)
	if err != nil {
		switch {
		case errors.Is(err, models.ErrNotFound):
			pkghttp.WriteNotFound(w, "Comment not found")
		case errors.Is(err, models.ErrForbidden):
			pkghttp.WriteForbidden(w, "You can only edit your own comments")
		case errors.Is(err, models.ErrBadRequest):
			pkghttp.WriteBadRequest(w, "Invalid comment")
		default:
			pkghttp.WriteInternalError(w, "Failed to update comment", err)
		}
		return
	}

	pkghttp.WriteJSON(w, http.StatusOK, comment)
}

// Delete removes the caller's own comment and its replies
func (h *CommentHandler) Delete(w http.ResponseWriter, r *http.Request) {
	user := auth.GetUser(r)
	if user == nil {
		pkghttp.WriteUnauthorized(w, "Access token required")
		return
	}

	commentID, err := pathID(r, "commentID")
	if err != nil {
		pkghttp.WriteBadRequest(w, "Invalid comment id")
		return
	}

	if err := h.service.Delete(r.Context(), user.ID, commentID); err != nil {
		switch {
		case errors.Is(err, models.ErrNotFound):
			pkghttp.WriteNotFound(w, "Comment not found")
		case errors.Is(err, models.ErrForbidden):
			pkghttp.WriteForbidden(w, "You can only delete your own comments")
		default:
			pkghttp.WriteInternalError(w, "Failed to delete comment", err)
		}
		return
	}

	pkghttp.WriteJSON(w, http.StatusOK, map[string]string{"message": "Comment deleted successfully"})
}

// pathID parses a numeric chi URL parameter
func pathID(r *http.Request, name string) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, name), 10, 64)
}
