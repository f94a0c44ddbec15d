package handlers

import (
	"time"

	"github.com/ancook/bazaar/internal/models"
)

// UserResponse is the public shape of a user record
type UserResponse struct {
	ID             int64  `json:"id"`
	Username       string `json:"username"`
	Email          string `json:"email"`
	FirstName      string `json:"first_name"`
	LastName       string `json:"last_name"`
	Phone          string `json:"phone"`
	PrimaryAddress string `json:"primary_address"`
	CreatedAt      string `json:"created_at"`
}

func userToResponse(user *models.User) *UserResponse {
	return &UserResponse{
		ID:             user.ID,
		Username:       user.Username,
		Email:          user.Email,
		FirstName:      user.FirstName,
		LastName:       user.LastName,
		Phone:          user.Phone,
		PrimaryAddress: user.PrimaryAddress,
		CreatedAt:      user.CreatedAt.Format(time.RFC3339),
	}
}

// ProductResponse is the public shape of a product listing
type ProductResponse struct {
	ID            int64   `json:"id"`
	SellerID      int64   `json:"seller_id"`
	Title         string  `json:"title"`
	Description   string  `json:"description"`
	Price         float64 `json:"price"`
	CategoryID    *int64  `json:"category_id"`
	LocationID    *int64  `json:"location_id"`
	ConditionType string  `json:"condition_type"`
	ViewsCount    int     `json:"views_count"`
	CreatedAt     string  `json:"created_at"`
	SellerName    string  `json:"seller_name,omitempty"`
	CategoryName  string  `json:"category_name,omitempty"`
	City          string  `json:"city,omitempty"`
	Country       string  `json:"country,omitempty"`
	PrimaryImage  string  `json:"primary_image,omitempty"`
}

func productToResponse(p *models.Product) *ProductResponse {
	return &ProductResponse{
		ID:            p.ID,
		SellerID:      p.SellerID,
		Title:         p.Title,
		Description:   p.Description,
		Price:         p.Price,
		CategoryID:    p.CategoryID,
		LocationID:    p.LocationID,
		ConditionType: p.ConditionType,
		ViewsCount:    p.ViewsCount,
		CreatedAt:     p.CreatedAt.Format(time.RFC3339),
		SellerName:    p.SellerName,
		CategoryName:  p.CategoryName,
		City:          p.City,
		Country:       p.Country,
		PrimaryImage:  p.PrimaryImage,
	}
}

// Pagination describes a page of list results
type Pagination struct {
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	Total      int `json:"total"`
	TotalPages int `json:"total_pages"`
}
