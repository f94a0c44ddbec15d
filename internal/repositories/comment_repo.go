package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/ancook/bazaar/internal/database"
	"github.com/ancook/bazaar/internal/models"
)

// CommentRepository handles database operations for product comments
type CommentRepository struct {
	db *database.DB
}

// NewCommentRepository creates a new CommentRepository
func NewCommentRepository(db *database.DB) *CommentRepository {
	return &CommentRepository{db: db}
}

const commentColumns = `
	pc.id, pc.product_id, pc.user_id, pc.parent_comment_id, pc.comment_text,
	pc.is_edited, pc.created_at, pc.updated_at,
	COALESCE(u.first_name, ''), COALESCE(u.last_name, ''), COALESCE(u.username, '')`

func scanCommentRow(scanner rowScanner) (*models.Comment, error) {
	var c models.Comment

	err := scanner.Scan(
		&c.ID, &c.ProductID, &c.UserID, &c.ParentCommentID, &c.CommentText,
		&c.IsEdited, &c.CreatedAt, &c.UpdatedAt,
		&c.FirstName, &c.LastName, &c.Username,
	)
	if err != nil {
		return nil, database.MapPostgresError(err)
	}

	return &c, nil
}

// ListByProduct fetches the product's comment rows flat, grouped so each root
// comment is immediately followed by its replies in chronological order. The
// tree builder relies on this ordering.
func (r *CommentRepository) ListByProduct(ctx context.Context, productID int64) ([]*models.Comment, error) {
	query := `
		SELECT ` + commentColumns + `
		FROM product_comments pc
		LEFT JOIN users u ON pc.user_id = u.id
		WHERE pc.product_id = $1
		ORDER BY
			COALESCE(pc.parent_comment_id, pc.id),
			(pc.parent_comment_id IS NULL) DESC,
			pc.created_at ASC
	`

	rows, err := r.db.Pool.Query(ctx, query, productID)
	if err != nil {
		return nil, fmt.Errorf("failed to query comments: %w", err)
	}
	defer rows.Close()

	comments := make([]*models.Comment, 0)
	for rows.Next() {
		comment, err := scanCommentRow(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan comment: %w", err)
		}
		comments = append(comments, comment)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return comments, nil
}

// GetByID returns a single comment joined with its author
func (r *CommentRepository) GetByID(ctx context.Context, id int64) (*models.Comment, error) {
	query := `
		SELECT ` + commentColumns + `
		FROM product_comments pc
		LEFT JOIN users u ON pc.user_id = u.id
		WHERE pc.id = $1
	`

	return scanCommentRow(r.db.Pool.QueryRow(ctx, query, id))
}

// GetOnProduct returns a comment only if it belongs to the given product
func (r *CommentRepository) GetOnProduct(ctx context.Context, id, productID int64) (*models.Comment, error) {
	query := `
		SELECT ` + commentColumns + `
		FROM product_comments pc
		LEFT JOIN users u ON pc.user_id = u.id
		WHERE pc.id = $1 AND pc.product_id = $2
	`

	return scanCommentRow(r.db.Pool.QueryRow(ctx, query, id, productID))
}

// Create inserts a comment and returns it joined with the author's names
func (r *CommentRepository) Create(ctx context.Context, comment *models.Comment) (*models.Comment, error) {
	query := `
		INSERT INTO product_comments (product_id, user_id, parent_comment_id, comment_text)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`

	var id int64
	err := r.db.Pool.QueryRow(ctx, query,
		comment.ProductID, comment.UserID, comment.ParentCommentID, comment.CommentText,
	).Scan(&id)
	if err != nil {
		return nil, database.MapPostgresError(err)
	}

	return r.GetByID(ctx, id)
}

// UpdateText replaces the comment text and marks the comment edited
func (r *CommentRepository) UpdateText(ctx context.Context, id int64, text string) (*models.Comment, error) {
	query := `
		UPDATE product_comments
		SET comment_text = $1, is_edited = TRUE, updated_at = $2
		WHERE id = $3
	`

	result, err := r.db.Pool.Exec(ctx, query, text, time.Now(), id)
	if err != nil {
		return nil, database.MapPostgresError(err)
	}
	if result.RowsAffected() == 0 {
		return nil, models.ErrNotFound
	}

	return r.GetByID(ctx, id)
}

// Delete removes a comment; replies cascade at the database level
func (r *CommentRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.Pool.Exec(ctx, `DELETE FROM product_comments WHERE id = $1`, id)
	if err != nil {
		return database.MapPostgresError(err)
	}
	if result.RowsAffected() == 0 {
		return models.ErrNotFound
	}
	return nil
}
