package models

import "time"

type Favorite struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"user_id"`
	ProductID int64     `json:"product_id"`
	CreatedAt time.Time `json:"created_at"`
}

// FavoriteListing is a favorite joined with its product summary.
type FavoriteListing struct {
	FavoriteID       int64     `json:"favorite_id"`
	FavoritedAt      time.Time `json:"favorited_at"`
	ProductID        int64     `json:"product_id"`
	Title            string    `json:"title"`
	Price            float64   `json:"price"`
	ConditionType    string    `json:"condition_type"`
	ProductCreatedAt time.Time `json:"product_created_at"`
	CategoryName     string    `json:"category_name"`
	SellerName       string    `json:"seller_name"`
	City             string    `json:"city"`
	Country          string    `json:"country"`
	PrimaryImage     string    `json:"primary_image"`
	Model3D          string    `json:"model_3d"`
}
