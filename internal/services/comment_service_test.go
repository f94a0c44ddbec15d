package services

import (
	"context"
	"strings"
	"testing"

	"github.com/ancook/bazaar/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr(v int64) *int64 {
	return &v
}

func TestBuildThread_Empty(t *testing.T) {
	nodes := BuildThread([]*models.Comment{})
	require.NotNil(t, nodes)
	assert.Empty(t, nodes)
}

func TestBuildThread_RootsOnly(t *testing.T) {
	rows := []*models.Comment{
		{ID: 1, CommentText: "first"},
		{ID: 2, CommentText: "second"},
		{ID: 3, CommentText: "third"},
	}

	nodes := BuildThread(rows)

	require.Len(t, nodes, 3)
	assert.Equal(t, int64(1), nodes[0].ID)
	assert.Equal(t, int64(2), nodes[1].ID)
	assert.Equal(t, int64(3), nodes[2].ID)
	for _, n := range nodes {
		require.NotNil(t, n.Replies)
		assert.Empty(t, n.Replies)
	}
}

func TestBuildThread_RepliesNestUnderRoots(t *testing.T) {
	// rows arrive grouped: each root immediately followed by its replies
	rows := []*models.Comment{
		{ID: 1},
		{ID: 4, ParentCommentID: ptr(1)},
		{ID: 6, ParentCommentID: ptr(1)},
		{ID: 2},
		{ID: 5, ParentCommentID: ptr(2)},
		{ID: 3},
	}

	nodes := BuildThread(rows)

	require.Len(t, nodes, 3)
	assert.Equal(t, int64(1), nodes[0].ID)
	require.Len(t, nodes[0].Replies, 2)
	assert.Equal(t, int64(4), nodes[0].Replies[0].ID)
	assert.Equal(t, int64(6), nodes[0].Replies[1].ID)

	assert.Equal(t, int64(2), nodes[1].ID)
	require.Len(t, nodes[1].Replies, 1)
	assert.Equal(t, int64(5), nodes[1].Replies[0].ID)

	assert.Equal(t, int64(3), nodes[2].ID)
	assert.Empty(t, nodes[2].Replies)
}

func TestBuildThread_OrphanedReplyDropped(t *testing.T) {
	rows := []*models.Comment{
		{ID: 1},
		{ID: 2, ParentCommentID: ptr(99)},
		{ID: 3, ParentCommentID: ptr(1)},
	}

	nodes := BuildThread(rows)

	require.Len(t, nodes, 1)
	require.Len(t, nodes[0].Replies, 1)
	assert.Equal(t, int64(3), nodes[0].Replies[0].ID)
}

func TestBuildThread_DeepReplyAttachesToItsParent(t *testing.T) {
	// the data model does not enforce flatness; a reply-of-reply that slipped
	// in still hangs off whatever its parent id points to
	rows := []*models.Comment{
		{ID: 1},
		{ID: 2, ParentCommentID: ptr(1)},
		{ID: 3, ParentCommentID: ptr(2)},
	}

	nodes := BuildThread(rows)

	require.Len(t, nodes, 1)
	require.Len(t, nodes[0].Replies, 1)
	reply := nodes[0].Replies[0]
	assert.Equal(t, int64(2), reply.ID)
	require.Len(t, reply.Replies, 1)
	assert.Equal(t, int64(3), reply.Replies[0].ID)
}

func TestListThread_ReturnsTreeAndFlatCount(t *testing.T) {
	repo := &MockCommentRepository{
		ListByProductFunc: func(ctx context.Context, productID int64) ([]*models.Comment, error) {
			return []*models.Comment{
				{ID: 1, ProductID: productID},
				{ID: 2, ProductID: productID, ParentCommentID: ptr(1)},
			}, nil
		},
	}
	svc := NewCommentService(repo, &MockProductRepository{}, testLogger())

	nodes, total, err := svc.ListThread(context.Background(), 7)

	require.NoError(t, err)
	assert.Equal(t, 2, total)
	require.Len(t, nodes, 1)
	require.Len(t, nodes[0].Replies, 1)
}

func TestCreateComment_TextValidation(t *testing.T) {
	svc := NewCommentService(&MockCommentRepository{}, &MockProductRepository{}, testLogger())

	tests := []struct {
		name string
		text string
	}{
		{"empty", ""},
		{"whitespace only", "   \n\t  "},
		{"over max length", strings.Repeat("a", 1001)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Create(context.Background(), 1, 1, nil, tt.text)
			assert.ErrorIs(t, err, models.ErrBadRequest)
		})
	}
}

func TestCreateComment_TrimsAndStores(t *testing.T) {
	products := &MockProductRepository{
		GetActiveByIDFunc: func(ctx context.Context, id int64) (*models.Product, error) {
			return &models.Product{ID: id, IsActive: true}, nil
		},
	}
	var stored *models.Comment
	repo := &MockCommentRepository{
		CreateFunc: func(ctx context.Context, comment *models.Comment) (*models.Comment, error) {
			stored = comment
			created := *comment
			created.ID = 10
			return &created, nil
		},
	}
	svc := NewCommentService(repo, products, testLogger())

	comment, err := svc.Create(context.Background(), 1, 2, nil, "  nice bike  ")

	require.NoError(t, err)
	assert.Equal(t, "nice bike", stored.CommentText)
	assert.Equal(t, int64(10), comment.ID)
	assert.Nil(t, comment.ParentCommentID)
}

func TestCreateComment_ProductMissing(t *testing.T) {
	svc := NewCommentService(&MockCommentRepository{}, &MockProductRepository{}, testLogger())

	_, err := svc.Create(context.Background(), 1, 42, nil, "hello")

	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestCreateComment_ReplyToReplyRejected(t *testing.T) {
	products := &MockProductRepository{
		GetActiveByIDFunc: func(ctx context.Context, id int64) (*models.Product, error) {
			return &models.Product{ID: id, IsActive: true}, nil
		},
	}
	repo := &MockCommentRepository{
		GetOnProductFunc: func(ctx context.Context, id, productID int64) (*models.Comment, error) {
			return &models.Comment{ID: id, ProductID: productID, ParentCommentID: ptr(1)}, nil
		},
	}
	svc := NewCommentService(repo, products, testLogger())

	_, err := svc.Create(context.Background(), 1, 2, ptr(5), "me too")

	assert.ErrorIs(t, err, models.ErrBadRequest)
}

func TestCreateComment_ParentOnOtherProductRejected(t *testing.T) {
	products := &MockProductRepository{
		GetActiveByIDFunc: func(ctx context.Context, id int64) (*models.Product, error) {
			return &models.Product{ID: id, IsActive: true}, nil
		},
	}
	// GetOnProduct misses because the parent lives on a different product
	svc := NewCommentService(&MockCommentRepository{}, products, testLogger())

	_, err := svc.Create(context.Background(), 1, 2, ptr(5), "hello")

	assert.ErrorIs(t, err, models.ErrBadRequest)
}

func TestUpdateComment_OwnerOnly(t *testing.T) {
	repo := &MockCommentRepository{
		GetByIDFunc: func(ctx context.Context, id int64) (*models.Comment, error) {
			return &models.Comment{ID: id, UserID: 1}, nil
		},
	}
	svc := NewCommentService(repo, &MockProductRepository{}, testLogger())

	_, err := svc.Update(context.Background(), 2, 10, "edited")

	assert.ErrorIs(t, err, models.ErrForbidden)
}

func TestUpdateComment_Success(t *testing.T) {
	repo := &MockCommentRepository{
		GetByIDFunc: func(ctx context.Context, id int64) (*models.Comment, error) {
			return &models.Comment{ID: id, UserID: 1, CommentText: "old"}, nil
		},
		UpdateTextFunc: func(ctx context.Context, id int64, text string) (*models.Comment, error) {
			return &models.Comment{ID: id, UserID: 1, CommentText: text, IsEdited: true}, nil
		},
	}
	svc := NewCommentService(repo, &MockProductRepository{}, testLogger())

	updated, err := svc.Update(context.Background(), 1, 10, "new text")

	require.NoError(t, err)
	assert.Equal(t, "new text", updated.CommentText)
	assert.True(t, updated.IsEdited)
}

func TestDeleteComment_OwnerOnly(t *testing.T) {
	deleted := false
	repo := &MockCommentRepository{
		GetByIDFunc: func(ctx context.Context, id int64) (*models.Comment, error) {
			return &models.Comment{ID: id, UserID: 1}, nil
		},
		DeleteFunc: func(ctx context.Context, id int64) error {
			deleted = true
			return nil
		},
	}
	svc := NewCommentService(repo, &MockProductRepository{}, testLogger())

	err := svc.Delete(context.Background(), 2, 10)
	assert.ErrorIs(t, err, models.ErrForbidden)
	assert.False(t, deleted)

	err = svc.Delete(context.Background(), 1, 10)
	require.NoError(t, err)
	assert.True(t, deleted)
}

func TestDeleteComment_NotFound(t *testing.T) {
	svc := NewCommentService(&MockCommentRepository{}, &MockProductRepository{}, testLogger())

	err := svc.Delete(context.Background(), 1, 999)

	assert.ErrorIs(t, err, models.ErrNotFound)
}
