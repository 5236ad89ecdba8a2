package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/example/batchstock/internal/core/domain"
	"github.com/example/batchstock/internal/port"
)

// OrderService owns the order lifecycle. Inventory is reached only through
// the remote inventory client; the two aggregates share no transaction.
type OrderService struct {
	repo      port.OrderRepository
	inventory port.InventoryClient
	logger    *zap.Logger
}

func NewOrderService(repo port.OrderRepository, inventory port.InventoryClient, logger *zap.Logger) *OrderService {
	return &OrderService{repo: repo, inventory: inventory, logger: logger}
}

// PlaceOrder checks availability for every item, persists the order as
// PENDING, then deducts inventory item by item. The first failing deduction
// stops the walk and marks the order FAILED; deductions already applied are
// not compensated. A FAILED order is still a successful PlaceOrder call.
func (s *OrderService) PlaceOrder(ctx context.Context, customerID string, items []domain.OrderItem) (*domain.Order, error) {
	if customerID == "" {
		return nil, fmt.Errorf("%w: customer id is required", domain.ErrInvalidRequest)
	}
	if len(items) == 0 {
		return nil, fmt.Errorf("%w: order must contain at least one item", domain.ErrInvalidRequest)
	}
	for _, item := range items {
		if item.ProductID == "" || item.Quantity <= 0 {
			return nil, fmt.Errorf("%w: every item needs a product id and a positive quantity", domain.ErrInvalidRequest)
		}
	}

	orderID := newOrderID()
	logger := s.logger.With(zap.String("order_id", orderID), zap.String("customer_id", customerID))

	// Pre-flight gate. Best effort only: stock can still be consumed
	// between this check and the deductions below.
	for _, item := range items {
		if err := s.inventory.CheckAvailability(ctx, item.ProductID); err != nil {
			logger.Warn("availability check failed",
				zap.String("product_id", item.ProductID), zap.Error(err))
			return nil, fmt.Errorf("%w: product not found or no inventory: %s", domain.ErrInvalidRequest, item.ProductID)
		}
	}

	now := time.Now().UTC()
	order := domain.Order{
		OrderID:    orderID,
		CustomerID: customerID,
		Status:     domain.OrderStatusPending,
		Items:      items,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := s.repo.CreateOrder(ctx, order); err != nil {
		return nil, fmt.Errorf("create order: %w", err)
	}
	logger.Info("order created", zap.Int("items", len(items)))

	status := domain.OrderStatusConfirmed
	for _, item := range items {
		if err := s.inventory.DeductInventory(ctx, item.ProductID, item.Quantity); err != nil {
			logger.Error("inventory deduction failed",
				zap.String("product_id", item.ProductID), zap.Error(err))
			status = domain.OrderStatusFailed
			break
		}
	}

	if err := s.repo.UpdateStatus(ctx, orderID, status); err != nil {
		return nil, fmt.Errorf("finalize order %s: %w", orderID, err)
	}
	order.Status = status
	order.UpdatedAt = time.Now().UTC()

	if status == domain.OrderStatusConfirmed {
		logger.Info("order confirmed")
	} else {
		logger.Warn("order failed")
	}
	return &order, nil
}

func (s *OrderService) GetOrderByID(ctx context.Context, orderID string) (*domain.Order, error) {
	if orderID == "" {
		return nil, fmt.Errorf("%w: order id is required", domain.ErrInvalidRequest)
	}
	return s.repo.GetOrderByID(ctx, orderID)
}

func (s *OrderService) GetOrdersByCustomerID(ctx context.Context, customerID string) ([]domain.Order, error) {
	if customerID == "" {
		return nil, fmt.Errorf("%w: customer id is required", domain.ErrInvalidRequest)
	}
	return s.repo.GetOrdersByCustomerID(ctx, customerID)
}

// newOrderID produces ids like ORD-9F3A21BC.
func newOrderID() string {
	return "ORD-" + strings.ToUpper(uuid.NewString()[:8])
}
