package domain

import "time"

// OrderReductionBatchRef is the sentinel batch reference used by the order
// service: instead of naming a batch, it asks the inventory service to pick
// batches by expiry and deduct across them.
const OrderReductionBatchRef = "ORDER_REDUCTION"

type Product struct {
	ProductID string
	Name      string
	CreatedAt time.Time
}

// Batch is a quantity of a product sharing a single expiry date. Quantity
// never goes below zero; a drained batch stays around as a zero-quantity
// record so its identity remains referenceable.
type Batch struct {
	BatchID    string
	ProductID  string
	Quantity   int64
	ExpiryDate time.Time
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// DateOnly strips the time component; expiry dates are calendar dates.
func DateOnly(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
