package models

import "time"

// Order is an immutable snapshot of a checked-out cart. The source cart is
// deactivated at checkout, never deleted.
type Order struct {
	ID              int       `json:"id"`
	UserID          int       `json:"user_id"`
	CartID          int       `json:"cart_id"`
	ShippingAddress string    `json:"shipping_address"`
	TotalAmount     float64   `json:"total_amount"`
	CreatedAt       time.Time `json:"created_at"`
}

type CreateOrderRequest struct {
	ShippingAddress string `json:"shipping_address" validate:"required"`
}
