package services

import (
	"database/sql"
	"fmt"

	"shop-api/internal/models"

	"github.com/rs/zerolog"
)

type CartService struct {
	db     *sql.DB
	logger zerolog.Logger
}

func NewCartService(db *sql.DB, logger zerolog.Logger) *CartService {
	return &CartService{
		db:     db,
		logger: logger,
	}
}

// GetCart returns the user's active cart with line subtotals and a summary.
// A user without an active cart gets an empty view, not an error.
func (s *CartService) GetCart(userID int) (*models.CartView, error) {
	rows, err := s.db.Query(
		`SELECT c.id, ci.product_id, p.title, p.price, ci.quantity, p.stock_quantity
		 FROM carts c
		 JOIN cart_items ci ON c.id = ci.cart_id
		 JOIN products p ON ci.product_id = p.id
		 WHERE c.user_id = ? AND c.is_active = TRUE
		 ORDER BY ci.created_at DESC`,
		userID,
	)
	if err != nil {
		s.logger.Error().Err(err).Int("user_id", userID).Msg("Error fetching cart")
		return nil, fmt.Errorf("database error: %w", err)
	}
	defer rows.Close()

	view := &models.CartView{Items: []models.CartItem{}}
	for rows.Next() {
		var item models.CartItem
		var stock int

		err := rows.Scan(&view.CartID, &item.ProductID, &item.Title, &item.Price, &item.Quantity, &stock)
		if err != nil {
			return nil, fmt.Errorf("error scanning cart item: %w", err)
		}

		item.Subtotal = item.Price * float64(item.Quantity)
		item.Available = stock >= item.Quantity

		view.Items = append(view.Items, item)
		view.Summary.TotalItems += item.Quantity
		view.Summary.TotalPrice += item.Subtotal
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating cart items: %w", err)
	}

	return view, nil
}

// AddItem merges the requested quantity into the user's active cart within one
// transaction and returns the cart id and the resulting line quantity. The
// cart is created lazily on first add. The merged line quantity must never
// exceed the product's current stock; any violation rolls the whole
// transaction back.
func (s *CartService) AddItem(userID, productID, quantity int) (int, int, error) {
	if quantity <= 0 {
		return 0, 0, ErrInvalidQuantity
	}

	tx, err := s.db.Begin()
	if err != nil {
		s.logger.Error().Err(err).Msg("Error starting add-to-cart transaction")
		return 0, 0, fmt.Errorf("failed to start transaction: %w", err)
	}
	defer tx.Rollback()

	var stock int
	err = tx.QueryRow(
		"SELECT stock_quantity FROM products WHERE id = ? AND is_active = TRUE",
		productID,
	).Scan(&stock)
	if err == sql.ErrNoRows {
		return 0, 0, ErrProductNotFound
	}
	if err != nil {
		s.logger.Error().Err(err).Int("product_id", productID).Msg("Error fetching product stock")
		return 0, 0, fmt.Errorf("database error: %w", err)
	}

	if quantity > stock {
		return 0, 0, ErrInsufficientStock
	}

	cartID, err := s.activeCartIDInTx(tx, userID)
	if err == ErrCartNotFound {
		result, insertErr := tx.Exec("INSERT INTO carts (user_id) VALUES (?)", userID)
		if insertErr != nil {
			s.logger.Error().Err(insertErr).Int("user_id", userID).Msg("Error creating cart")
			return 0, 0, fmt.Errorf("failed to create cart: %w", insertErr)
		}
		newID, idErr := result.LastInsertId()
		if idErr != nil {
			return 0, 0, fmt.Errorf("failed to get cart ID: %w", idErr)
		}
		cartID = int(newID)
	} else if err != nil {
		return 0, 0, err
	}

	newQuantity := quantity
	var itemID, existingQuantity int
	err = tx.QueryRow(
		"SELECT id, quantity FROM cart_items WHERE cart_id = ? AND product_id = ?",
		cartID, productID,
	).Scan(&itemID, &existingQuantity)

	switch {
	case err == sql.ErrNoRows:
		_, err = tx.Exec(
			"INSERT INTO cart_items (cart_id, product_id, quantity) VALUES (?, ?, ?)",
			cartID, productID, quantity,
		)
		if err != nil {
			s.logger.Error().Err(err).Msg("Error inserting cart item")
			return 0, 0, fmt.Errorf("failed to insert cart item: %w", err)
		}
	case err != nil:
		s.logger.Error().Err(err).Msg("Error fetching cart item")
		return 0, 0, fmt.Errorf("database error: %w", err)
	default:
		newQuantity = existingQuantity + quantity
		if newQuantity > stock {
			return 0, 0, ErrInsufficientStock
		}
		_, err = tx.Exec("UPDATE cart_items SET quantity = ? WHERE id = ?", newQuantity, itemID)
		if err != nil {
			s.logger.Error().Err(err).Msg("Error updating cart item")
			return 0, 0, fmt.Errorf("failed to update cart item: %w", err)
		}
	}

	if err = tx.Commit(); err != nil {
		s.logger.Error().Err(err).Msg("Error committing add-to-cart")
		return 0, 0, fmt.Errorf("failed to commit transaction: %w", err)
	}

	s.logger.Info().
		Int("user_id", userID).
		Int("cart_id", cartID).
		Int("product_id", productID).
		Int("quantity", newQuantity).
		Msg("Product added to cart")

	return cartID, newQuantity, nil
}

// UpdateItem sets the quantity of an existing cart line, validated against
// current stock, within one transaction.
func (s *CartService) UpdateItem(userID, productID, quantity int) error {
	if quantity <= 0 {
		return ErrInvalidQuantity
	}

	tx, err := s.db.Begin()
	if err != nil {
		s.logger.Error().Err(err).Msg("Error starting cart update transaction")
		return fmt.Errorf("failed to start transaction: %w", err)
	}
	defer tx.Rollback()

	var stock int
	err = tx.QueryRow(
		"SELECT stock_quantity FROM products WHERE id = ? AND is_active = TRUE",
		productID,
	).Scan(&stock)
	if err == sql.ErrNoRows {
		return ErrProductNotFound
	}
	if err != nil {
		s.logger.Error().Err(err).Int("product_id", productID).Msg("Error fetching product stock")
		return fmt.Errorf("database error: %w", err)
	}

	if quantity > stock {
		return ErrInsufficientStock
	}

	cartID, err := s.activeCartIDInTx(tx, userID)
	if err != nil {
		return err
	}

	result, err := tx.Exec(
		"UPDATE cart_items SET quantity = ? WHERE cart_id = ? AND product_id = ?",
		quantity, cartID, productID,
	)
	if err != nil {
		s.logger.Error().Err(err).Msg("Error updating cart item")
		return fmt.Errorf("failed to update cart item: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if affected == 0 {
		return ErrCartItemNotFound
	}

	if err = tx.Commit(); err != nil {
		s.logger.Error().Err(err).Msg("Error committing cart update")
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	s.logger.Info().
		Int("user_id", userID).
		Int("product_id", productID).
		Int("quantity", quantity).
		Msg("Cart item updated")

	return nil
}

func (s *CartService) RemoveItem(userID, productID int) error {
	cartID, err := s.activeCartID(userID)
	if err != nil {
		return err
	}

	result, err := s.db.Exec(
		"DELETE FROM cart_items WHERE cart_id = ? AND product_id = ?",
		cartID, productID,
	)
	if err != nil {
		s.logger.Error().Err(err).Msg("Error removing cart item")
		return fmt.Errorf("failed to remove cart item: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if affected == 0 {
		return ErrCartItemNotFound
	}

	s.logger.Info().Int("user_id", userID).Int("product_id", productID).Msg("Cart item removed")
	return nil
}

func (s *CartService) Clear(userID int) error {
	cartID, err := s.activeCartID(userID)
	if err != nil {
		return err
	}

	_, err = s.db.Exec("DELETE FROM cart_items WHERE cart_id = ?", cartID)
	if err != nil {
		s.logger.Error().Err(err).Int("cart_id", cartID).Msg("Error clearing cart")
		return fmt.Errorf("failed to clear cart: %w", err)
	}

	s.logger.Info().Int("user_id", userID).Int("cart_id", cartID).Msg("Cart cleared")
	return nil
}

func (s *CartService) activeCartID(userID int) (int, error) {
	var cartID int
	err := s.db.QueryRow(
		"SELECT id FROM carts WHERE user_id = ? AND is_active = TRUE",
		userID,
	).Scan(&cartID)
	if err == sql.ErrNoRows {
		return 0, ErrCartNotFound
	}
	if err != nil {
		s.logger.Error().Err(err).Int("user_id", userID).Msg("Error fetching active cart")
		return 0, fmt.Errorf("database error: %w", err)
	}
	return cartID, nil
}

func (s *CartService) activeCartIDInTx(tx *sql.Tx, userID int) (int, error) {
	var cartID int
	err := tx.QueryRow(
		"SELECT id FROM carts WHERE user_id = ? AND is_active = TRUE",
		userID,
	).Scan(&cartID)
	if err == sql.ErrNoRows {
		return 0, ErrCartNotFound
	}
	if err != nil {
		s.logger.Error().Err(err).Int("user_id", userID).Msg("Error fetching active cart")
		return 0, fmt.Errorf("database error: %w", err)
	}
	return cartID, nil
}
