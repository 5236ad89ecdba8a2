// Package httpapi holds the JSON wire contract shared by the two services:
// request/response shapes plus the error-code vocabulary the inventory
// client uses to map responses back to domain error kinds.
package httpapi

import (
	"errors"
	"net/http"
	"time"

	"github.com/example/batchstock/internal/core/domain"
)

// DateLayout is the wire format for expiry dates (calendar date, no time).
const DateLayout = "2006-01-02"

const (
	CodeInvalidRequest        = "INVALID_REQUEST"
	CodeNotFound              = "NOT_FOUND"
	CodeAlreadyExists         = "ALREADY_EXISTS"
	CodeInsufficientInventory = "INSUFFICIENT_INVENTORY"
	CodeInternal              = "INTERNAL"
)

type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type CreateProductRequest struct {
	ProductID string `json:"product_id"`
	Name      string `json:"name"`
}

type ProductResponse struct {
	ProductID string    `json:"product_id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

type UpdateInventoryRequest struct {
	ProductID string `json:"product_id"`
	BatchID   string `json:"batch_id"`
	Quantity  int64  `json:"quantity"`
	// ExpiryDate is required when BatchID names a new batch.
	ExpiryDate string `json:"expiry_date,omitempty"`
}

type BatchResponse struct {
	BatchID    string `json:"batch_id"`
	ProductID  string `json:"product_id"`
	Quantity   int64  `json:"quantity"`
	ExpiryDate string `json:"expiry_date"`
}

type OrderItemRequest struct {
	ProductID string `json:"product_id"`
	Quantity  int64  `json:"quantity"`
}

type PlaceOrderRequest struct {
	CustomerID string             `json:"customer_id"`
	Items      []OrderItemRequest `json:"items"`
}

type OrderItemResponse struct {
	ID        int64  `json:"id"`
	ProductID string `json:"product_id"`
	Quantity  int64  `json:"quantity"`
}

type OrderResponse struct {
	OrderID    string              `json:"order_id"`
	CustomerID string              `json:"customer_id"`
	Status     string              `json:"status"`
	Items      []OrderItemResponse `json:"items"`
	CreatedAt  time.Time           `json:"created_at"`
	UpdatedAt  time.Time           `json:"updated_at"`
}

func NewBatchResponse(b domain.Batch) BatchResponse {
	return BatchResponse{
		BatchID:    b.BatchID,
		ProductID:  b.ProductID,
		Quantity:   b.Quantity,
		ExpiryDate: b.ExpiryDate.Format(DateLayout),
	}
}

func NewOrderResponse(o domain.Order) OrderResponse {
	items := make([]OrderItemResponse, 0, len(o.Items))
	for _, item := range o.Items {
		items = append(items, OrderItemResponse{
			ID:        item.ID,
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
		})
	}
	return OrderResponse{
		OrderID:    o.OrderID,
		CustomerID: o.CustomerID,
		Status:     string(o.Status),
		Items:      items,
		CreatedAt:  o.CreatedAt,
		UpdatedAt:  o.UpdatedAt,
	}
}

// CodeForError maps a domain error to its HTTP status and wire code.
func CodeForError(err error) (int, string) {
	switch {
	case errors.Is(err, domain.ErrInvalidRequest):
		return http.StatusBadRequest, CodeInvalidRequest
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound, CodeNotFound
	case errors.Is(err, domain.ErrAlreadyExists):
		return http.StatusConflict, CodeAlreadyExists
	case errors.Is(err, domain.ErrInsufficientInventory):
		return http.StatusConflict, CodeInsufficientInventory
	default:
		return http.StatusInternalServerError, CodeInternal
	}
}

// ErrorForCode maps a wire code back to the domain error kind. Unknown
// codes surface as communication failures: the peer said something this
// caller cannot interpret.
func ErrorForCode(code string) error {
	switch code {
	case CodeInvalidRequest:
		return domain.ErrInvalidRequest
	case CodeNotFound:
		return domain.ErrNotFound
	case CodeAlreadyExists:
		return domain.ErrAlreadyExists
	case CodeInsufficientInventory:
		return domain.ErrInsufficientInventory
	default:
		return domain.ErrCommunicationFailure
	}
}
