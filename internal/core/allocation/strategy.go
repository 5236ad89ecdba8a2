package allocation

import (
	"fmt"
	"sort"

	"github.com/example/batchstock/internal/core/domain"
)

// Strategy selects which batches satisfy a requested quantity.
type Strategy string

const (
	// StrategyFIFO consumes batches earliest expiry first.
	StrategyFIFO Strategy = "FIFO"
	// StrategyLIFO consumes batches latest expiry first.
	StrategyLIFO Strategy = "LIFO"
	// StrategyExpiry orders batches ascending by expiry without
	// partitioning the requested quantity.
	StrategyExpiry Strategy = "EXPIRY"
)

// ParseStrategy validates a strategy name at the boundary.
func ParseStrategy(name string) (Strategy, error) {
	switch s := Strategy(name); s {
	case StrategyFIFO, StrategyLIFO, StrategyExpiry:
		return s, nil
	default:
		return "", fmt.Errorf("%w: unknown allocation strategy %q", domain.ErrInvalidRequest, name)
	}
}

// Line is one step of an allocation plan: take Quantity from BatchID.
type Line struct {
	BatchID  string
	Quantity int64
}

// SortByExpiry returns a new slice ordered ascending by expiry date.
// The sort is stable: ties keep their original relative order.
func SortByExpiry(batches []domain.Batch) []domain.Batch {
	sorted := make([]domain.Batch, len(batches))
	copy(sorted, batches)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].ExpiryDate.Before(sorted[j].ExpiryDate)
	})
	return sorted
}

// Allocate computes a plan covering quantityNeeded from the candidate
// batches. It never mutates its input; the caller applies the plan.
//
// FIFO and LIFO expect batches already ordered ascending by expiry date
// (SortByExpiry). EXPIRY ignores quantityNeeded and yields one line per
// batch, in expiry order, carrying the batch's full quantity.
func Allocate(batches []domain.Batch, quantityNeeded int64, strategy Strategy) ([]Line, error) {
	switch strategy {
	case StrategyExpiry:
		sorted := SortByExpiry(batches)
		lines := make([]Line, 0, len(sorted))
		for _, b := range sorted {
			lines = append(lines, Line{BatchID: b.BatchID, Quantity: b.Quantity})
		}
		return lines, nil

	case StrategyFIFO:
		return walk(batches, quantityNeeded)

	case StrategyLIFO:
		reversed := make([]domain.Batch, 0, len(batches))
		for i := len(batches) - 1; i >= 0; i-- {
			reversed = append(reversed, batches[i])
		}
		return walk(reversed, quantityNeeded)

	default:
		return nil, fmt.Errorf("%w: unknown allocation strategy %q", domain.ErrInvalidRequest, strategy)
	}
}

// walk takes min(batch quantity, remaining) from each batch in order and
// stops once the request is covered.
func walk(batches []domain.Batch, quantityNeeded int64) ([]Line, error) {
	lines := make([]Line, 0)
	remaining := quantityNeeded

	for _, b := range batches {
		if remaining == 0 {
			break
		}
		take := b.Quantity
		if take > remaining {
			take = remaining
		}
		if take == 0 {
			continue
		}
		lines = append(lines, Line{BatchID: b.BatchID, Quantity: take})
		remaining -= take
	}

	if remaining > 0 {
		return nil, fmt.Errorf("%w: requested %d, available %d",
			domain.ErrInsufficientInventory, quantityNeeded, quantityNeeded-remaining)
	}
	return lines, nil
}
