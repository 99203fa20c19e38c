package services

import (
	"database/sql"
	"fmt"

	"shop-api/internal/models"

	"github.com/rs/zerolog"
)

type OrderService struct {
	db     *sql.DB
	logger zerolog.Logger
}

func NewOrderService(db *sql.DB, logger zerolog.Logger) *OrderService {
	return &OrderService{
		db:     db,
		logger: logger,
	}
}

type checkoutLine struct {
	productID int
	quantity  int
	price     float64
	stock     int
}

// Checkout converts the user's active cart into an order within one
// transaction: every line is re-validated against current stock, stock is
// decremented per line, the order row captures the computed total and the cart
// is deactivated. Any failure aborts the whole transaction; no partial stock
// decrement is ever persisted.
func (s *OrderService) Checkout(userID int, shippingAddress string) (*models.Order, error) {
	tx, err := s.db.Begin()
	if err != nil {
		s.logger.Error().Err(err).Msg("Error starting checkout transaction")
		return nil, fmt.Errorf("failed to start transaction: %w", err)
	}
	defer tx.Rollback()

	rows, err := tx.Query(
		`SELECT c.id, ci.product_id, ci.quantity, p.price, p.stock_quantity
		 FROM carts c
		 JOIN cart_items ci ON c.id = ci.cart_id
		 JOIN products p ON ci.product_id = p.id
		 WHERE c.user_id = ? AND c.is_active = TRUE`,
		userID,
	)
	if err != nil {
		s.logger.Error().Err(err).Int("user_id", userID).Msg("Error reading cart for checkout")
		return nil, fmt.Errorf("database error: %w", err)
	}

	var cartID int
	var lines []checkoutLine
	for rows.Next() {
		var line checkoutLine
		if err := rows.Scan(&cartID, &line.productID, &line.quantity, &line.price, &line.stock); err != nil {
			rows.Close()
			return nil, fmt.Errorf("error scanning cart line: %w", err)
		}
		lines = append(lines, line)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, fmt.Errorf("error iterating cart lines: %w", err)
	}
	rows.Close()

	if len(lines) == 0 {
		return nil, ErrCartEmpty
	}

	totalAmount := 0.0
	for _, line := range lines {
		if line.stock < line.quantity {
			s.logger.Warn().
				Int("user_id", userID).
				Int("product_id", line.productID).
				Int("quantity", line.quantity).
				Int("stock", line.stock).
				Msg("Checkout rejected, insufficient stock")
			return nil, ErrInsufficientStock
		}
		totalAmount += line.price * float64(line.quantity)
	}

	for _, line := range lines {
		_, err = tx.Exec(
			"UPDATE products SET stock_quantity = stock_quantity - ? WHERE id = ?",
			line.quantity, line.productID,
		)
		if err != nil {
			s.logger.Error().Err(err).Int("product_id", line.productID).Msg("Error decrementing stock")
			return nil, fmt.Errorf("failed to decrement stock: %w", err)
		}
	}

	result, err := tx.Exec(
		"INSERT INTO orders (user_id, cart_id, shipping_address, total_amount) VALUES (?, ?, ?, ?)",
		userID, cartID, shippingAddress, totalAmount,
	)
	if err != nil {
		s.logger.Error().Err(err).Msg("Error creating order")
		return nil, fmt.Errorf("failed to create order: %w", err)
	}

	orderID, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to get order ID: %w", err)
	}

	_, err = tx.Exec("UPDATE carts SET is_active = FALSE WHERE id = ?", cartID)
	if err != nil {
		s.logger.Error().Err(err).Int("cart_id", cartID).Msg("Error deactivating cart")
		return nil, fmt.Errorf("failed to deactivate cart: %w", err)
	}

	if err = tx.Commit(); err != nil {
		s.logger.Error().Err(err).Msg("Error committing checkout")
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	s.logger.Info().
		Int("order_id", int(orderID)).
		Int("user_id", userID).
		Int("cart_id", cartID).
		Float64("total_amount", totalAmount).
		Msg("Order placed")

	return &models.Order{
		ID:              int(orderID),
		UserID:          userID,
		CartID:          cartID,
		ShippingAddress: shippingAddress,
		TotalAmount:     totalAmount,
	}, nil
}

func (s *OrderService) ListOrders(userID int) ([]models.Order, error) {
	rows, err := s.db.Query(
		`SELECT id, user_id, cart_id, shipping_address, total_amount, created_at
		 FROM orders
		 WHERE user_id = ?
		 ORDER BY created_at DESC`,
		userID,
	)
	if err != nil {
		s.logger.Error().Err(err).Int("user_id", userID).Msg("Error fetching orders")
		return nil, fmt.Errorf("database error: %w", err)
	}
	defer rows.Close()

	orders := []models.Order{}
	for rows.Next() {
		var o models.Order
		err := rows.Scan(&o.ID, &o.UserID, &o.CartID, &o.ShippingAddress, &o.TotalAmount, &o.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("error scanning order: %w", err)
		}
		orders = append(orders, o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating orders: %w", err)
	}

	return orders, nil
}
