package models

import "time"

type Product struct {
	ID            int       `json:"id"`
	Title         string    `json:"title"`
	Description   string    `json:"description"`
	Price         float64   `json:"price"`
	StockQuantity int       `json:"stock_quantity"`
	IsActive      bool      `json:"is_active"`
	IsFeatured    bool      `json:"is_featured"`
	Tags          []string  `json:"tags"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

type Tag struct {
	ID           int    `json:"id"`
	Name         string `json:"name"`
	ProductCount int    `json:"product_count"`
}

type ProductRequest struct {
	Title         string   `json:"title" validate:"required"`
	Description   string   `json:"description"`
	Price         float64  `json:"price" validate:"required,gt=0"`
	StockQuantity int      `json:"stock_quantity" validate:"gte=0"`
	IsFeatured    bool     `json:"is_featured"`
	Tags          []string `json:"tags"`
}

type TagRequest struct {
	Name string `json:"name" validate:"required"`
}

type ProductListOptions struct {
	Page   int
	Limit  int
	Search string
	Tags   []string
}

type ProductList struct {
	Products   []Product  `json:"products"`
	Pagination Pagination `json:"pagination"`
}
