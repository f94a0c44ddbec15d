package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/ancook/bazaar/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListCommentsHandler(t *testing.T) {
	svc := &MockCommentService{
		ListThreadFunc: func(ctx context.Context, productID int64) ([]*models.CommentNode, int, error) {
			require.Equal(t, int64(42), productID)
			root := &models.CommentNode{
				Comment: models.Comment{ID: 1, ProductID: 42, CommentText: "nice chair"},
				Replies: []*models.CommentNode{
					{Comment: models.Comment{ID: 2, ProductID: 42, CommentText: "agreed"}, Replies: []*models.CommentNode{}},
				},
			}
			return []*models.CommentNode{root}, 2, nil
		},
	}
	h := NewCommentHandler(svc)

	req := NewTestRequest(t, http.MethodGet, "/products/42/comments", nil)
	req = WithURLParam(req, "productID", "42")
	w := httptest.NewRecorder()

	h.ListByProduct(w, req)

	var resp ThreadResponse
	AssertJSONResponse(t, w, http.StatusOK, &resp)
	assert.Equal(t, 2, resp.Total)
	require.Len(t, resp.Comments, 1)
	require.Len(t, resp.Comments[0].Replies, 1)
	assert.Equal(t, "agreed", resp.Comments[0].Replies[0].CommentText)
}

func TestListCommentsHandler_InvalidID(t *testing.T) {
	h := NewCommentHandler(&MockCommentService{})

	req := NewTestRequest(t, http.MethodGet, "/products/abc/comments", nil)
	req = WithURLParam(req, "productID", "abc")
	w := httptest.NewRecorder()

	h.ListByProduct(w, req)

	AssertErrorResponse(t, w, http.StatusBadRequest, "Invalid product id")
}

func TestCreateCommentHandler_Success(t *testing.T) {
	var gotParent *int64
	svc := &MockCommentService{
		CreateFunc: func(ctx context.Context, userID, productID int64, parentID *int64, text string) (*models.Comment, error) {
			gotParent = parentID
			return &models.Comment{
				ID:          5,
				ProductID:   productID,
				UserID:      userID,
				CommentText: text,
				CreatedAt:   time.Now(),
			}, nil
		},
	}
	h := NewCommentHandler(svc)

	req := NewTestRequest(t, http.MethodPost, "/products/42/comments",
		map[string]string{"comment_text": "is this still available?"})
	req = WithUserContext(req, testUser())
	req = WithURLParam(req, "productID", "42")
	w := httptest.NewRecorder()

	h.Create(w, req)

	var resp models.Comment
	AssertJSONResponse(t, w, http.StatusCreated, &resp)
	assert.Equal(t, int64(5), resp.ID)
	assert.Equal(t, "is this still available?", resp.CommentText)
	assert.Nil(t, gotParent)
}

func TestCreateCommentHandler_Reply(t *testing.T) {
	svc := &MockCommentService{
		CreateFunc: func(ctx context.Context, userID, productID int64, parentID *int64, text string) (*models.Comment, error) {
			require.NotNil(t, parentID)
			return &models.Comment{ID: 6, ProductID: productID, UserID: userID, ParentCommentID: parentID, CommentText: text}, nil
		},
	}
	h := NewCommentHandler(svc)

	req := NewTestRequest(t, http.MethodPost, "/products/42/comments",
		map[string]interface{}{"comment_text": "yes it is", "parent_comment_id": 5})
	req = WithUserContext(req, testUser())
	req = WithURLParam(req, "productID", "42")
	w := httptest.NewRecorder()

	h.Create(w, req)

	var resp models.Comment
	AssertJSONResponse(t, w, http.StatusCreated, &resp)
	require.NotNil(t, resp.ParentCommentID)
	assert.Equal(t, int64(5), *resp.ParentCommentID)
}

func TestCreateCommentHandler_Unauthenticated(t *testing.T) {
	h := NewCommentHandler(&MockCommentService{})

	req := NewTestRequest(t, http.MethodPost, "/products/42/comments",
		map[string]string{"comment_text": "hello"})
	req = WithURLParam(req, "productID", "42")
	w := httptest.NewRecorder()

	h.Create(w, req)

	AssertErrorResponse(t, w, http.StatusUnauthorized, "Access token required")
}

func TestCreateCommentHandler_ProductGone(t *testing.T) {
	svc := &MockCommentService{
		CreateFunc: func(ctx context.Context, userID, productID int64, parentID *int64, text string) (*models.Comment, error) {
			return nil, models.ErrNotFound
		},
	}
	h := NewCommentHandler(svc)

	req := NewTestRequest(t, http.MethodPost, "/products/42/comments",
		map[string]string{"comment_text": "hello"})
	req = WithUserContext(req, testUser())
	req = WithURLParam(req, "productID", "42")
	w := httptest.NewRecorder()

	h.Create(w, req)

	AssertErrorResponse(t, w, http.StatusNotFound, "Product not found")
}

func TestCreateCommentHandler_ReplyToReply(t *testing.T) {
	svc := &MockCommentService{
		CreateFunc: func(ctx context.Context, userID, productID int64, parentID *int64, text string) (*models.Comment, error) {
			return nil, models.ErrBadRequest
		},
	}
	h := NewCommentHandler(svc)

	req := NewTestRequest(t, http.MethodPost, "/products/42/comments",
		map[string]interface{}{"comment_text": "too deep", "parent_comment_id": 6})
	req = WithUserContext(req, testUser())
	req = WithURLParam(req, "productID", "42")
	w := httptest.NewRecorder()

	h.Create(w, req)

	AssertErrorResponse(t, w, http.StatusBadRequest, "Invalid comment")
}

func TestCreateCommentHandler_EmptyText(t *testing.T) {
	h := NewCommentHandler(&MockCommentService{})

	req := NewTestRequest(t, http.MethodPost, "/products/42/comments",
		map[string]string{"comment_text": ""})
	req = WithUserContext(req, testUser())
	req = WithURLParam(req, "productID", "42")
	w := httptest.NewRecorder()

	h.Create(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUpdateCommentHandler_NotOwner(t *testing.T) {
	svc := &MockCommentService{
		UpdateFunc: func(ctx context.Context, userID, commentID int64, text string) (*models.Comment, error) {
			return nil, models.ErrForbidden
		},
	}
	h := NewCommentHandler(svc)

	req := NewTestRequest(t, http.MethodPut, "/comments/5",
		map[string]string{"comment_text": "edited"})
	req = WithUserContext(req, testUser())
	req = WithURLParam(req, "commentID", "5")
	w := httptest.NewRecorder()

	h.Update(w, req)

	AssertErrorResponse(t, w, http.StatusForbidden, "You can only edit your own comments")
}

func TestUpdateCommentHandler_Success(t *testing.T) {
	svc := &MockCommentService{
		UpdateFunc: func(ctx context.Context, userID, commentID int64, text string) (*models.Comment, error) {
			return &models.Comment{ID: commentID, UserID: userID, CommentText: text}, nil
		},
	}
	h := NewCommentHandler(svc)

	req := NewTestRequest(t, http.MethodPut, "/comments/5",
		map[string]string{"comment_text": "edited"})
	req = WithUserContext(req, testUser())
	req = WithURLParam(req, "commentID", "5")
	w := httptest.NewRecorder()

	h.Update(w, req)

	var resp models.Comment
	AssertJSONResponse(t, w, http.StatusOK, &resp)
	assert.Equal(t, "edited", resp.CommentText)
}

func TestDeleteCommentHandler_Success(t *testing.T) {
	var deletedID int64
	svc := &MockCommentService{
		DeleteFunc: func(ctx context.Context, userID, commentID int64) error {
			deletedID = commentID
			return nil
		},
	}
	h := NewCommentHandler(svc)

	req := NewTestRequest(t, http.MethodDelete, "/comments/5", nil)
	req = WithUserContext(req, testUser())
	req = WithURLParam(req, "commentID", "5")
	w := httptest.NewRecorder()

	h.Delete(w, req)

	var resp map[string]string
	AssertJSONResponse(t, w, http.StatusOK, &resp)
	assert.Equal(t, "Comment deleted successfully", resp["message"])
	assert.Equal(t, int64(5), deletedID)
}

func TestDeleteCommentHandler_NotFound(t *testing.T) {
	svc := &MockCommentService{
		DeleteFunc: func(ctx context.Context, userID, commentID int64) error {
			return models.ErrNotFound
		},
	}
	h := NewCommentHandler(svc)

	req := NewTestRequest(t, http.MethodDelete, "/comments/99", nil)
	req = WithUserContext(req, testUser())
	req = WithURLParam(req, "commentID", "99")
	w := httptest.NewRecorder()

	h.Delete(w, req)

	AssertErrorResponse(t, w, http.StatusNotFound, "Comment not found")
}
