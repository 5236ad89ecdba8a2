package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/example/batchstock/internal/adapter/httpapi"
	"github.com/example/batchstock/internal/core/domain"
	"github.com/example/batchstock/internal/core/service"
)

type InventoryHandler struct {
	inventoryService *service.InventoryService
	logger           *zap.Logger
}

func NewInventoryHandler(inventoryService *service.InventoryService, logger *zap.Logger) *InventoryHandler {
	return &InventoryHandler{inventoryService: inventoryService, logger: logger}
}

func (h *InventoryHandler) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /health", h.HealthCheck)
	mux.HandleFunc("GET /inventory/{productId}", h.GetBatches)
	mux.HandleFunc("POST /inventory/product", h.CreateProduct)
	mux.HandleFunc("POST /inventory/update", h.UpdateInventory)
}

// GetBatches returns the product's batches ordered by expiry date.
func (h *InventoryHandler) GetBatches(w http.ResponseWriter, r *http.Request) {
	productID := r.PathValue("productId")

	batches, err := h.inventoryService.ListBatchesByProduct(r.Context(), productID)
	if err != nil {
		h.writeError(w, err)
		return
	}

	resp := make([]httpapi.BatchResponse, 0, len(batches))
	for _, b := range batches {
		resp = append(resp, httpapi.NewBatchResponse(b))
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *InventoryHandler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	var req httpapi.CreateProductRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, fmt.Errorf("%w: invalid request body", domain.ErrInvalidRequest))
		return
	}

	product, err := h.inventoryService.CreateProduct(r.Context(), req.ProductID, req.Name)
	if err != nil {
		h.writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, httpapi.ProductResponse{
		ProductID: product.ProductID,
		Name:      product.Name,
		CreatedAt: product.CreatedAt,
	})
}

// UpdateInventory adds a new batch, reduces a named batch, or performs an
// order-driven reduction. The response carries every affected batch.
func (h *InventoryHandler) UpdateInventory(w http.ResponseWriter, r *http.Request) {
	var req httpapi.UpdateInventoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, fmt.Errorf("%w: invalid request body", domain.ErrInvalidRequest))
		return
	}

	in := service.UpdateInventoryInput{
		ProductID: req.ProductID,
		BatchRef:  req.BatchID,
		Quantity:  req.Quantity,
	}
	if req.ExpiryDate != "" {
		expiry, err := time.Parse(httpapi.DateLayout, req.ExpiryDate)
		if err != nil {
			h.writeError(w, fmt.Errorf("%w: expiry date must be formatted %s", domain.ErrInvalidRequest, httpapi.DateLayout))
			return
		}
		in.ExpiryDate = &expiry
	}

	affected, err := h.inventoryService.UpdateInventory(r.Context(), in)
	if err != nil {
		h.writeError(w, err)
		return
	}

	resp := make([]httpapi.BatchResponse, 0, len(affected))
	for _, b := range affected {
		resp = append(resp, httpapi.NewBatchResponse(b))
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (h *InventoryHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *InventoryHandler) writeError(w http.ResponseWriter, err error) {
	status, code := httpapi.CodeForError(err)
	if status == http.StatusInternalServerError {
		h.logger.Error("request failed", zap.Error(err))
		writeJSON(w, status, httpapi.ErrorResponse{Code: code, Message: "internal error"})
		return
	}
	writeJSON(w, status, httpapi.ErrorResponse{Code: code, Message: err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}
