package port

import (
	"context"

	"github.com/example/batchstock/internal/core/allocation"
	"github.com/example/batchstock/internal/core/domain"
)

type InventoryRepository interface {
	// CreateProduct persists a new product, domain.ErrAlreadyExists on
	// duplicate productID.
	CreateProduct(ctx context.Context, p domain.Product) (*domain.Product, error)

	// GetProduct returns domain.ErrNotFound when absent.
	GetProduct(ctx context.Context, productID string) (*domain.Product, error)

	// GetBatch returns (nil, nil) when the batch does not exist.
	GetBatch(ctx context.Context, batchID string) (*domain.Batch, error)

	CreateBatch(ctx context.Context, b domain.Batch) (*domain.Batch, error)

	// ListBatchesByProduct returns the product's batches ordered
	// ascending by expiry date.
	ListBatchesByProduct(ctx context.Context, productID string) ([]domain.Batch, error)

	// DeductBatch atomically decrements a single batch, failing with
	// domain.ErrInsufficientInventory when the batch holds less than
	// quantity. Two concurrent deductions must never both succeed
	// against the same stock.
	DeductBatch(ctx context.Context, batchID string, quantity int64) (*domain.Batch, error)

	// ApplyAllocation applies every line of a plan as one atomic unit,
	// returning the affected batches in plan order. If any line cannot
	// be applied in full (e.g. a concurrent deduction drained a batch),
	// nothing is applied and domain.ErrInsufficientInventory is
	// returned.
	ApplyAllocation(ctx context.Context, lines []allocation.Line) ([]domain.Batch, error)
}
