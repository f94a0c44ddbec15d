package models

import "time"

type Product struct {
	ID            int64
	SellerID      int64
	Title         string
	Description   string
	Price         float64
	CategoryID    *int64
	LocationID    *int64
	ConditionType string
	IsActive      bool
	ViewsCount    int
	CreatedAt     time.Time
	UpdatedAt     time.Time

	// Joined fields, populated by list/detail queries
	SellerName   string
	SellerEmail  string
	SellerPhone  string
	CategoryName string
	City         string
	Country      string
	PrimaryImage string
}

// ProductImage references a file stored by the upload collaborator.
// The URL is an opaque path string; this service never touches the file.
type ProductImage struct {
	ID        int64  `json:"id"`
	ProductID int64  `json:"product_id"`
	ImageURL  string `json:"image_url"`
	IsPrimary bool   `json:"is_primary"`
	SortOrder int    `json:"sort_order"`
}

// ProductModel is an optional 3D model attached to a product.
type ProductModel struct {
	ID        int64  `json:"id"`
	ProductID int64  `json:"product_id"`
	ModelURL  string `json:"model_url"`
	ModelType string `json:"model_type"`
	FileSize  int64  `json:"file_size"`
	IsActive  bool   `json:"is_active"`
}

type Review struct {
	ID           int64     `json:"id"`
	ProductID    int64     `json:"product_id"`
	ReviewerID   int64     `json:"reviewer_id"`
	ReviewerName string    `json:"reviewer_name"`
	Rating       int       `json:"rating"`
	ReviewText   string    `json:"review_text"`
	CreatedAt    time.Time `json:"created_at"`
}

type Category struct {
	ID           int64  `json:"id"`
	CategoryName string `json:"category_name"`
}

type Location struct {
	ID      int64  `json:"id"`
	City    string `json:"city"`
	Country string `json:"country"`
}

// ProductFilter holds the browse/search query parameters.
type ProductFilter struct {
	CategoryID *int64
	Search     string
	MinPrice   *float64
	MaxPrice   *float64
	Condition  string
	Page       int
	Limit      int
}
