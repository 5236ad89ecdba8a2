package domain

import "errors"

// Error kinds shared by both services. Handlers map these to HTTP statuses,
// the inventory client maps response codes back to them.
var (
	ErrNotFound              = errors.New("not found")
	ErrAlreadyExists         = errors.New("already exists")
	ErrInvalidRequest        = errors.New("invalid request")
	ErrInsufficientInventory = errors.New("insufficient inventory")
	ErrCommunicationFailure  = errors.New("communication failure")
)
