package models

import "time"

type Order struct {
	ID              int64     `json:"id"`
	Reference       string    `json:"reference"`
	BuyerID         int64     `json:"buyer_id"`
	TotalAmount     float64   `json:"total_amount"`
	OrderStatus     string    `json:"order_status"`
	ShippingAddress string    `json:"shipping_address"`
	PaymentMethod   string    `json:"payment_method"`
	Notes           string    `json:"notes"`
	CreatedAt       time.Time `json:"created_at"`
}

type OrderItem struct {
	ID          int64   `json:"id"`
	OrderID     int64   `json:"order_id"`
	ProductID   int64   `json:"product_id"`
	Quantity    int     `json:"quantity"`
	PriceAtTime float64 `json:"price_at_time"`
}

// OrderListing is an order joined with its item, product, and counterparty,
// as returned by the my-orders and my-sales queries.
type OrderListing struct {
	Order
	ProductID    int64   `json:"product_id"`
	Quantity     int     `json:"quantity"`
	PriceAtTime  float64 `json:"price_at_time"`
	ProductTitle string  `json:"product_title"`
	ProductImage string  `json:"product_image"`
	SellerName   string  `json:"seller_name,omitempty"`
	BuyerName    string  `json:"buyer_name,omitempty"`
}
