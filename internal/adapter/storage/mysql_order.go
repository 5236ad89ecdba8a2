package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/example/batchstock/internal/core/domain"
)

type MySQLOrderAdapter struct {
	db *sql.DB
}

func NewMySQLOrderAdapter(db *sql.DB) *MySQLOrderAdapter {
	return &MySQLOrderAdapter{db: db}
}

// EnsureSchema creates the order tables when they do not exist yet.
func (m *MySQLOrderAdapter) EnsureSchema(ctx context.Context) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS orders (
			order_id    VARCHAR(32) PRIMARY KEY,
			customer_id VARCHAR(64) NOT NULL,
			status      VARCHAR(16) NOT NULL,
			created_at  DATETIME NOT NULL,
			updated_at  DATETIME NOT NULL,
			INDEX idx_orders_customer (customer_id)
		)`,
		`CREATE TABLE IF NOT EXISTS order_items (
			id         BIGINT AUTO_INCREMENT PRIMARY KEY,
			order_id   VARCHAR(32) NOT NULL,
			product_id VARCHAR(64) NOT NULL,
			quantity   BIGINT NOT NULL,
			CONSTRAINT fk_items_order FOREIGN KEY (order_id) REFERENCES orders (order_id)
		)`,
	}
	for _, stmt := range stmts {
		if _, err := m.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("ensure order schema: %w", err)
		}
	}
	return nil
}

func (m *MySQLOrderAdapter) CreateOrder(ctx context.Context, o domain.Order) error {
	tx, err := m.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO orders (order_id, customer_id, status, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)`,
		o.OrderID, o.CustomerID, o.Status, o.CreatedAt, o.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert order: %w", err)
	}

	for _, item := range o.Items {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO order_items (order_id, product_id, quantity)
			VALUES (?, ?, ?)`,
			o.OrderID, item.ProductID, item.Quantity,
		)
		if err != nil {
			return fmt.Errorf("insert order item: %w", err)
		}
	}

	return tx.Commit()
}

func (m *MySQLOrderAdapter) UpdateStatus(ctx context.Context, orderID string, status domain.OrderStatus) error {
	result, err := m.db.ExecContext(ctx, `
		UPDATE orders SET status = ?, updated_at = NOW()
		WHERE order_id = ?`,
		status, orderID,
	)
	if err != nil {
		return fmt.Errorf("update order status: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return fmt.Errorf("%w: order %s", domain.ErrNotFound, orderID)
	}
	return nil
}

func (m *MySQLOrderAdapter) GetOrderByID(ctx context.Context, orderID string) (*domain.Order, error) {
	var o domain.Order
	err := m.db.QueryRowContext(ctx, `
		SELECT order_id, customer_id, status, created_at, updated_at
		FROM orders WHERE order_id = ?`, orderID,
	).Scan(&o.OrderID, &o.CustomerID, &o.Status, &o.CreatedAt, &o.UpdatedAt)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: order %s", domain.ErrNotFound, orderID)
	}
	if err != nil {
		return nil, fmt.Errorf("query order: %w", err)
	}

	items, err := m.itemsForOrder(ctx, o.OrderID)
	if err != nil {
		return nil, err
	}
	o.Items = items
	return &o, nil
}

func (m *MySQLOrderAdapter) GetOrdersByCustomerID(ctx context.Context, customerID string) ([]domain.Order, error) {
	rows, err := m.db.QueryContext(ctx, `
		SELECT order_id, customer_id, status, created_at, updated_at
		FROM orders WHERE customer_id = ?
		ORDER BY created_at DESC, order_id ASC`, customerID,
	)
	if err != nil {
		return nil, fmt.Errorf("query orders: %w", err)
	}
	defer rows.Close()

	orders := make([]domain.Order, 0)
	for rows.Next() {
		var o domain.Order
		if err := rows.Scan(&o.OrderID, &o.CustomerID, &o.Status, &o.CreatedAt, &o.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan order: %w", err)
		}
		orders = append(orders, o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range orders {
		items, err := m.itemsForOrder(ctx, orders[i].OrderID)
		if err != nil {
			return nil, err
		}
		orders[i].Items = items
	}
	return orders, nil
}

func (m *MySQLOrderAdapter) itemsForOrder(ctx context.Context, orderID string) ([]domain.OrderItem, error) {
	rows, err := m.db.QueryContext(ctx, `
		SELECT id, product_id, quantity
		FROM order_items WHERE order_id = ?
		ORDER BY id ASC`, orderID,
	)
	if err != nil {
		return nil, fmt.Errorf("query order items: %w", err)
	}
	defer rows.Close()

	var items []domain.OrderItem
	for rows.Next() {
		var item domain.OrderItem
		if err := rows.Scan(&item.ID, &item.ProductID, &item.Quantity); err != nil {
			return nil, fmt.Errorf("scan order item: %w", err)
		}
		items = append(items, item)
	}
	return items, rows.Err()
}
