package allocation

import (
	"errors"
	"testing"
	"time"

	"github.com/example/batchstock/internal/core/domain"
)

func makeBatch(id string, quantity int64, expiryInDays int) domain.Batch {
	return domain.Batch{
		BatchID:    id,
		ProductID:  "WHEAT-001",
		Quantity:   quantity,
		ExpiryDate: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, expiryInDays),
	}
}

func TestParseStrategy(t *testing.T) {
	for _, name := range []string{"FIFO", "LIFO", "EXPIRY"} {
		s, err := ParseStrategy(name)
		if err != nil {
			t.Errorf("ParseStrategy(%q) failed: %v", name, err)
		}
		if string(s) != name {
			t.Errorf("expected %q, got %q", name, s)
		}
	}

	_, err := ParseStrategy("CHEAPEST")
	if !errors.Is(err, domain.ErrInvalidRequest) {
		t.Errorf("expected ErrInvalidRequest for unknown strategy, got: %v", err)
	}
}

func TestSortByExpiry_StableAndPure(t *testing.T) {
	input := []domain.Batch{
		makeBatch("B3", 10, 30),
		makeBatch("B1", 10, 10),
		makeBatch("B2", 10, 10), // same expiry as B1, listed after
	}

	sorted := SortByExpiry(input)

	want := []string{"B1", "B2", "B3"}
	for i, id := range want {
		if sorted[i].BatchID != id {
			t.Errorf("position %d: expected %s, got %s", i, id, sorted[i].BatchID)
		}
	}

	// Input order untouched.
	if input[0].BatchID != "B3" {
		t.Errorf("input was mutated: first batch is %s", input[0].BatchID)
	}
}

func TestAllocate_FIFO_ConsumesEarliestFirst(t *testing.T) {
	batches := []domain.Batch{
		makeBatch("B1", 1000, 180),
		makeBatch("B2", 500, 270),
	}

	lines, err := Allocate(batches, 1200, StrategyFIFO)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(lines))
	}
	if lines[0].BatchID != "B1" || lines[0].Quantity != 1000 {
		t.Errorf("line 0: expected B1/1000, got %s/%d", lines[0].BatchID, lines[0].Quantity)
	}
	if lines[1].BatchID != "B2" || lines[1].Quantity != 200 {
		t.Errorf("line 1: expected B2/200, got %s/%d", lines[1].BatchID, lines[1].Quantity)
	}

	var total int64
	for _, l := range lines {
		total += l.Quantity
	}
	if total != 1200 {
		t.Errorf("expected total 1200, got %d", total)
	}
}

func TestAllocate_FIFO_StopsWhenCovered(t *testing.T) {
	batches := []domain.Batch{
		makeBatch("B1", 100, 10),
		makeBatch("B2", 100, 20),
		makeBatch("B3", 100, 30),
	}

	lines, err := Allocate(batches, 50, StrategyFIFO)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(lines) != 1 {
		t.Fatalf("expected 1 line, got %d", len(lines))
	}
	if lines[0].BatchID != "B1" || lines[0].Quantity != 50 {
		t.Errorf("expected B1/50, got %s/%d", lines[0].BatchID, lines[0].Quantity)
	}
}

func TestAllocate_LIFO_ConsumesLatestFirst(t *testing.T) {
	batches := []domain.Batch{
		makeBatch("B1", 1000, 180),
		makeBatch("B2", 500, 270),
	}

	lines, err := Allocate(batches, 600, StrategyLIFO)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(lines))
	}
	if lines[0].BatchID != "B2" || lines[0].Quantity != 500 {
		t.Errorf("line 0: expected B2/500, got %s/%d", lines[0].BatchID, lines[0].Quantity)
	}
	if lines[1].BatchID != "B1" || lines[1].Quantity != 100 {
		t.Errorf("line 1: expected B1/100, got %s/%d", lines[1].BatchID, lines[1].Quantity)
	}
}

func TestAllocate_Expiry_OrdersWithoutPartitioning(t *testing.T) {
	batches := []domain.Batch{
		makeBatch("B2", 500, 270),
		makeBatch("B1", 1000, 180),
	}

	lines, err := Allocate(batches, 1, StrategyExpiry)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(lines))
	}
	if lines[0].BatchID != "B1" || lines[0].Quantity != 1000 {
		t.Errorf("line 0: expected B1 with full quantity, got %s/%d", lines[0].BatchID, lines[0].Quantity)
	}
	if lines[1].BatchID != "B2" || lines[1].Quantity != 500 {
		t.Errorf("line 1: expected B2 with full quantity, got %s/%d", lines[1].BatchID, lines[1].Quantity)
	}
}

func TestAllocate_InsufficientInventory(t *testing.T) {
	batches := []domain.Batch{
		makeBatch("B1", 1000, 180),
		makeBatch("B2", 500, 270),
	}

	lines, err := Allocate(batches, 2000, StrategyFIFO)
	if !errors.Is(err, domain.ErrInsufficientInventory) {
		t.Errorf("expected ErrInsufficientInventory, got: %v", err)
	}
	if lines != nil {
		t.Errorf("expected no plan on failure, got %d lines", len(lines))
	}

	// Inputs untouched.
	if batches[0].Quantity != 1000 || batches[1].Quantity != 500 {
		t.Errorf("input batches were mutated: %d/%d", batches[0].Quantity, batches[1].Quantity)
	}
}

func TestAllocate_ZeroQuantity(t *testing.T) {
	batches := []domain.Batch{makeBatch("B1", 100, 10)}

	lines, err := Allocate(batches, 0, StrategyFIFO)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(lines) != 0 {
		t.Errorf("expected empty plan, got %d lines", len(lines))
	}
}

func TestAllocate_SkipsDrainedBatches(t *testing.T) {
	batches := []domain.Batch{
		makeBatch("B1", 0, 10),
		makeBatch("B2", 100, 20),
	}

	lines, err := Allocate(batches, 50, StrategyFIFO)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(lines) != 1 || lines[0].BatchID != "B2" {
		t.Fatalf("expected single line from B2, got %+v", lines)
	}
}
