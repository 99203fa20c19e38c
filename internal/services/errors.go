package services

import "errors"

// Sentinel errors the handlers map onto HTTP status codes.
var (
	ErrEmailTaken         = errors.New("email already in use")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrUserNotFound       = errors.New("user not found")

	ErrInvalidSession = errors.New("invalid token")
	ErrSessionExpired = errors.New("session expired")

	ErrProductNotFound = errors.New("product not found")
	ErrTagNotFound     = errors.New("tag not found")
	ErrTagExists       = errors.New("tag already exists")

	ErrCartNotFound     = errors.New("cart not found")
	ErrCartItemNotFound = errors.New("cart item not found")
	ErrCartEmpty        = errors.New("cart is empty")
	ErrInvalidQuantity  = errors.New("quantity must be greater than zero")

	ErrInsufficientStock = errors.New("insufficient stock for the requested quantity")
)
