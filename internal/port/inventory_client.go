package port

import "context"

// InventoryClient is the order service's view of the inventory service.
// All calls cross the service boundary; there is no shared transaction.
type InventoryClient interface {
	// CheckAvailability returns nil when the product exists and has
	// inventory batches. Any failure to reach or interpret the peer
	// counts as unavailable.
	CheckAvailability(ctx context.Context, productID string) error

	// DeductInventory asks the inventory service to deduct quantity from
	// the product's batches in expiry order (order-reduction mode).
	// Errors carry the corresponding domain error kind, or
	// domain.ErrCommunicationFailure when the peer was unreachable.
	DeductInventory(ctx context.Context, productID string, quantity int64) error
}
