package port

import (
	"context"

	"github.com/example/batchstock/internal/core/domain"
)

type OrderRepository interface {
	// CreateOrder persists a new order with its items in one transaction.
	CreateOrder(ctx context.Context, o domain.Order) error

	// UpdateStatus persists a status transition for an existing order.
	UpdateStatus(ctx context.Context, orderID string, status domain.OrderStatus) error

	// GetOrderByID returns the order with its items,
	// domain.ErrNotFound when absent.
	GetOrderByID(ctx context.Context, orderID string) (*domain.Order, error)

	// GetOrdersByCustomerID returns all orders for a customer, newest
	// first. Unknown customers yield an empty slice, not an error.
	GetOrdersByCustomerID(ctx context.Context, customerID string) ([]domain.Order, error)
}
