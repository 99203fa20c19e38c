package services

import (
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/rs/zerolog"
)

func newOrderServiceWithMock(t *testing.T) (*OrderService, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New() error: %v", err)
	}
	return NewOrderService(db, zerolog.Nop()), mock, db
}

const checkoutQuery = "SELECT c.id, ci.product_id, ci.quantity, p.price, p.stock_quantity"

func TestCheckout_EmptyCart(t *testing.T) {
	svc, mock, db := newOrderServiceWithMock(t)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(checkoutQuery)).
		WithArgs(1).
		WillReturnRows(sqlmock.NewRows([]string{"id", "product_id", "quantity", "price", "stock_quantity"}))
	mock.ExpectRollback()

	_, err := svc.Checkout(1, "1 rue de la Paix")
	if !errors.Is(err, ErrCartEmpty) {
		t.Fatalf("expected ErrCartEmpty, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations not met: %v", err)
	}
}

// One short line aborts the whole checkout before any stock write.
func TestCheckout_InsufficientStockAborts(t *testing.T) {
	svc, mock, db := newOrderServiceWithMock(t)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(checkoutQuery)).
		WithArgs(1).
		WillReturnRows(sqlmock.NewRows([]string{"id", "product_id", "quantity", "price", "stock_quantity"}).
			AddRow(7, 10, 2, 25.0, 5).
			AddRow(7, 11, 3, 10.0, 2))
	mock.ExpectRollback()

	_, err := svc.Checkout(1, "1 rue de la Paix")
	if !errors.Is(err, ErrInsufficientStock) {
		t.Fatalf("expected ErrInsufficientStock, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations not met: %v", err)
	}
}

func TestCheckout_Success(t *testing.T) {
	svc, mock, db := newOrderServiceWithMock(t)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(checkoutQuery)).
		WithArgs(1).
		WillReturnRows(sqlmock.NewRows([]string{"id", "product_id", "quantity", "price", "stock_quantity"}).
			AddRow(7, 10, 2, 25.0, 5).
			AddRow(7, 11, 1, 10.0, 1))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE products SET stock_quantity = stock_quantity - ? WHERE id = ?")).
		WithArgs(2, 10).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE products SET stock_quantity = stock_quantity - ? WHERE id = ?")).
		WithArgs(1, 11).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO orders (user_id, cart_id, shipping_address, total_amount) VALUES (?, ?, ?, ?)")).
		WithArgs(1, 7, "1 rue de la Paix", 60.0).
		WillReturnResult(sqlmock.NewResult(42, 1))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE carts SET is_active = FALSE WHERE id = ?")).
		WithArgs(7).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	order, err := svc.Checkout(1, "1 rue de la Paix")
	if err != nil {
		t.Fatalf("Checkout() error: %v", err)
	}
	if order.ID != 42 || order.CartID != 7 || order.TotalAmount != 60.0 {
		t.Fatalf("unexpected order: %+v", order)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations not met: %v", err)
	}
}

func TestListOrders(t *testing.T) {
	svc, mock, db := newOrderServiceWithMock(t)
	defer db.Close()

	now := time.Now()
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, user_id, cart_id, shipping_address, total_amount, created_at")).
		WithArgs(1).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "cart_id", "shipping_address", "total_amount", "created_at"}).
			AddRow(42, 1, 7, "1 rue de la Paix", 60.0, now).
			AddRow(41, 1, 6, "1 rue de la Paix", 25.0, now.Add(-time.Hour)))

	orders, err := svc.ListOrders(1)
	if err != nil {
		t.Fatalf("ListOrders() error: %v", err)
	}
	if len(orders) != 2 || orders[0].ID != 42 || orders[1].TotalAmount != 25.0 {
		t.Fatalf("unexpected orders: %+v", orders)
	}
}
