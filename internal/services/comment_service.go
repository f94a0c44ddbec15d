package services

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"unicode/utf8"

	"github.com/ancook/bazaar/internal/models"
)

// CommentRepository defines the interface for comment database operations
type CommentRepository interface {
	ListByProduct(ctx context.Context, productID int64) ([]*models.Comment, error)
	GetByID(ctx context.Context, id int64) (*models.Comment, error)
	GetOnProduct(ctx context.Context, id, productID int64) (*models.Comment, error)
	Create(ctx context.Context, comment *models.Comment) (*models.Comment, error)
	UpdateText(ctx context.Context, id int64, text string) (*models.Comment, error)
	Delete(ctx context.Context, id int64) error
}

// ProductFinder is the slice of the product repository the comment service
// needs to verify a product before writing to its thread
type ProductFinder interface {
	GetActiveByID(ctx context.Context, id int64) (*models.Product, error)
}

const (
	maxCommentLength = 1000
)

// CommentService handles comment threads on products
type CommentService struct {
	repo     CommentRepository
	products ProductFinder
	logger   *slog.Logger
}

// NewCommentService creates a new CommentService
func NewCommentService(repo CommentRepository, products ProductFinder, logger *slog.Logger) *CommentService {
	return &CommentService{
		repo:     repo,
		products: products,
		logger:   logger,
	}
}

// BuildThread turns flat comment rows into a two-level nested structure. Rows
// must arrive grouped root-first, each root followed by its replies in
// chronological order, which is how ListByProduct sorts them.
//
// A reply whose parent is missing from the input (deleted concurrently with
// the fetch) is dropped from the output.
func BuildThread(rows []*models.Comment) []*models.CommentNode {
	roots := make([]*models.CommentNode, 0, len(rows))
	byID := make(map[int64]*models.CommentNode, len(rows))

	for _, row := range rows {
		node := &models.CommentNode{
			Comment: *row,
			Replies: []*models.CommentNode{},
		}
		byID[row.ID] = node

		if row.ParentCommentID == nil {
			roots = append(roots, node)
			continue
		}

		parent, ok := byID[*row.ParentCommentID]
		if !ok {
			// orphaned reply
			continue
		}
		parent.Replies = append(parent.Replies, node)
	}

	return roots
}

// ListThread returns a product's comment tree and the flat row count
func (s *CommentService) ListThread(ctx context.Context, productID int64) ([]*models.CommentNode, int, error) {
	rows, err := s.repo.ListByProduct(ctx, productID)
	if err != nil {
		s.logger.Error("failed to list comments",
			slog.Int64("product_id", productID), slog.Any("error", err))
		return nil, 0, models.ErrInternalServer
	}

	return BuildThread(rows), len(rows), nil
}

// Create validates and inserts a comment or reply. Replies must target a root
// comment on the same product; replies to replies are rejected.
func (s *CommentService) Create(ctx context.Context, userID, productID int64, parentID *int64, text string) (*models.Comment, error) {
	text, err := normalizeCommentText(text)
	if err != nil {
		return nil, err
	}

	if _, err := s.products.GetActiveByID(ctx, productID); err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, models.ErrNotFound
		}
		s.logger.Error("failed to check product for comment",
			slog.Int64("product_id", productID), slog.Any("error", err))
		return nil, models.ErrInternalServer
	}

	if parentID != nil {
		parent, err := s.repo.GetOnProduct(ctx, *parentID, productID)
		if err != nil {
			if errors.Is(err, models.ErrNotFound) {
				return nil, models.ErrBadRequest
			}
			s.logger.Error("failed to check parent comment",
				slog.Int64("parent_id", *parentID), slog.Any("error", err))
			return nil, models.ErrInternalServer
		}
		if parent.ParentCommentID != nil {
			// threads stay one level deep
			return nil, models.ErrBadRequest
		}
	}

	comment, err := s.repo.Create(ctx, &models.Comment{
		ProductID:       productID,
		UserID:          userID,
		ParentCommentID: parentID,
		CommentText:     text,
	})
	if err != nil {
		s.logger.Error("failed to create comment",
			slog.Int64("product_id", productID), slog.Any("error", err))
		return nil, models.ErrInternalServer
	}

	s.logger.Info("comment created",
		slog.Int64("comment_id", comment.ID),
		slog.Int64("product_id", productID),
		slog.Bool("is_reply", parentID != nil))

	return comment, nil
}

// Update replaces the text of the caller's own comment
func (s *CommentService) Update(ctx context.Context, userID, commentID int64, text string) (*models.Comment, error) {
	text, err := normalizeCommentText(text)
	if err != nil {
		return nil, err
	}

	existing, err := s.repo.GetByID(ctx, commentID)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, models.ErrNotFound
		}
		s.logger.Error("failed to get comment",
			slog.Int64("comment_id", commentID), slog.Any("error", err))
		return nil, models.ErrInternalServer
	}

	if existing.UserID != userID {
		return nil, models.ErrForbidden
	}

	updated, err := s.repo.UpdateText(ctx, commentID, text)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, models.ErrNotFound
		}
		s.logger.Error("failed to update comment",
			slog.Int64("comment_id", commentID), slog.Any("error", err))
		return nil, models.ErrInternalServer
	}

	return updated, nil
}

// Delete removes the caller's own comment. Replies under it go with it via
// the database cascade.
func (s *CommentService) Delete(ctx context.Context, userID, commentID int64) error {
	existing, err := s.repo.GetByID(ctx, commentID)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return models.ErrNotFound
		}
		s.logger.Error("failed to get comment",
			slog.Int64("comment_id", commentID), slog.Any("error", err))
		return models.ErrInternalServer
	}

	if existing.UserID != userID {
		return models.ErrForbidden
	}

	if err := s.repo.Delete(ctx, commentID); err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return models.ErrNotFound
		}
		s.logger.Error("failed to delete comment",
			slog.Int64("comment_id", commentID), slog.Any("error", err))
		return models.ErrInternalServer
	}

	s.logger.Info("comment deleted", slog.Int64("comment_id", commentID))
	return nil
}

func normalizeCommentText(text string) (string, error) {
	text = strings.TrimSpace(text)
	if text == "" || utf8.RuneCountInString(text) > maxCommentLength {
		return "", models.ErrBadRequest
	}
	return text, nil
}
