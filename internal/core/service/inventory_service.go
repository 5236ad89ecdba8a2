package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/example/batchstock/internal/core/allocation"
	"github.com/example/batchstock/internal/core/domain"
	"github.com/example/batchstock/internal/port"
)

// InventoryService owns product and batch invariants. Batch selection is
// delegated to the allocation package; atomic quantity updates to the
// repository.
type InventoryService struct {
	repo   port.InventoryRepository
	logger *zap.Logger
}

func NewInventoryService(repo port.InventoryRepository, logger *zap.Logger) *InventoryService {
	return &InventoryService{repo: repo, logger: logger}
}

func (s *InventoryService) CreateProduct(ctx context.Context, productID, name string) (*domain.Product, error) {
	if productID == "" || name == "" {
		return nil, fmt.Errorf("%w: product id and name are required", domain.ErrInvalidRequest)
	}

	product, err := s.repo.CreateProduct(ctx, domain.Product{
		ProductID: productID,
		Name:      name,
		CreatedAt: time.Now().UTC(),
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("product created", zap.String("product_id", productID))
	return product, nil
}

type UpdateInventoryInput struct {
	ProductID string
	BatchRef  string
	Quantity  int64
	// ExpiryDate is required only when BatchRef names a new batch.
	ExpiryDate *time.Time
}

// UpdateInventory serves three intents, distinguished by BatchRef:
// adding a new batch, deducting from one existing batch, or deducting
// across batches in expiry order when BatchRef is the order-reduction
// sentinel. It returns every batch it touched.
func (s *InventoryService) UpdateInventory(ctx context.Context, in UpdateInventoryInput) ([]domain.Batch, error) {
	if in.ProductID == "" || in.BatchRef == "" {
		return nil, fmt.Errorf("%w: product id and batch id are required", domain.ErrInvalidRequest)
	}
	if in.Quantity < 0 {
		return nil, fmt.Errorf("%w: quantity must not be negative", domain.ErrInvalidRequest)
	}

	if _, err := s.repo.GetProduct(ctx, in.ProductID); err != nil {
		return nil, err
	}

	if in.BatchRef == domain.OrderReductionBatchRef {
		return s.reduceForOrder(ctx, in.ProductID, in.Quantity)
	}

	batch, err := s.repo.GetBatch(ctx, in.BatchRef)
	if err != nil {
		return nil, err
	}
	if batch != nil {
		return s.reduceBatch(ctx, batch, in.Quantity)
	}

	if in.ExpiryDate == nil {
		return nil, fmt.Errorf("%w: expiry date is required for a new batch", domain.ErrInvalidRequest)
	}
	created, err := s.repo.CreateBatch(ctx, domain.Batch{
		BatchID:    in.BatchRef,
		ProductID:  in.ProductID,
		Quantity:   in.Quantity,
		ExpiryDate: domain.DateOnly(*in.ExpiryDate),
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("batch created",
		zap.String("product_id", in.ProductID),
		zap.String("batch_id", created.BatchID),
		zap.Int64("quantity", created.Quantity))
	return []domain.Batch{*created}, nil
}

// ListBatchesByProduct returns the product's batches ordered ascending by
// expiry date.
func (s *InventoryService) ListBatchesByProduct(ctx context.Context, productID string) ([]domain.Batch, error) {
	if _, err := s.repo.GetProduct(ctx, productID); err != nil {
		return nil, err
	}
	return s.repo.ListBatchesByProduct(ctx, productID)
}

// reduceBatch deducts quantity from one named batch. A zero deduction is a
// no-op success returning the batch unchanged.
func (s *InventoryService) reduceBatch(ctx context.Context, batch *domain.Batch, quantity int64) ([]domain.Batch, error) {
	if quantity == 0 {
		return []domain.Batch{*batch}, nil
	}

	updated, err := s.repo.DeductBatch(ctx, batch.BatchID, quantity)
	if err != nil {
		return nil, err
	}

	s.logger.Info("batch reduced",
		zap.String("batch_id", updated.BatchID),
		zap.Int64("deducted", quantity),
		zap.Int64("remaining", updated.Quantity))
	return []domain.Batch{*updated}, nil
}

// reduceForOrder deducts quantity across the product's batches, earliest
// expiry first, and applies the whole plan atomically.
func (s *InventoryService) reduceForOrder(ctx context.Context, productID string, quantity int64) ([]domain.Batch, error) {
	batches, err := s.repo.ListBatchesByProduct(ctx, productID)
	if err != nil {
		return nil, err
	}
	if len(batches) == 0 {
		return nil, fmt.Errorf("%w: no batches available for product %s", domain.ErrInvalidRequest, productID)
	}

	ordered := allocation.SortByExpiry(batches)

	var total int64
	for _, b := range ordered {
		total += b.Quantity
	}
	if quantity > total {
		return nil, fmt.Errorf("%w: available %d, requested %d", domain.ErrInsufficientInventory, total, quantity)
	}

	plan, err := allocation.Allocate(ordered, quantity, allocation.StrategyFIFO)
	if err != nil {
		return nil, err
	}

	affected, err := s.repo.ApplyAllocation(ctx, plan)
	if err != nil {
		return nil, err
	}

	s.logger.Info("order reduction applied",
		zap.String("product_id", productID),
		zap.Int64("quantity", quantity),
		zap.Int("batches_affected", len(affected)))
	return affected, nil
}
