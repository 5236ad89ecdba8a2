package domain

import "time"

type OrderStatus string

// PENDING is the only initial state. CONFIRMED and FAILED are terminal.
const (
	OrderStatusPending   OrderStatus = "PENDING"
	OrderStatusConfirmed OrderStatus = "CONFIRMED"
	OrderStatusFailed    OrderStatus = "FAILED"
)

type OrderItem struct {
	ID        int64
	ProductID string
	Quantity  int64
}

type Order struct {
	OrderID    string
	CustomerID string
	Status     OrderStatus
	Items      []OrderItem
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
