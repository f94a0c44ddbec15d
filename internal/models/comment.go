package models

import "time"

// Comment is one row of a product's comment thread, joined with author names.
// ParentCommentID is nil for root comments; replies are one level deep by
// convention enforced on the write path.
type Comment struct {
	ID              int64     `json:"id"`
	ProductID       int64     `json:"product_id"`
	UserID          int64     `json:"user_id"`
	ParentCommentID *int64    `json:"parent_comment_id"`
	CommentText     string    `json:"comment_text"`
	IsEdited        bool      `json:"is_edited"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
	FirstName       string    `json:"first_name"`
	LastName        string    `json:"last_name"`
	Username        string    `json:"username"`
}

// CommentNode is a comment with its direct replies attached, as served to
// clients. Replies is never nil so empty threads marshal as [].
type CommentNode struct {
	Comment
	Replies []*CommentNode `json:"replies"`
}
