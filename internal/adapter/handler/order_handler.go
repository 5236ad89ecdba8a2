package handler

import (
	"encoding/json"
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"github.com/example/batchstock/internal/adapter/httpapi"
	"github.com/example/batchstock/internal/core/domain"
	"github.com/example/batchstock/internal/core/service"
)

type OrderHandler struct {
	orderService *service.OrderService
	logger       *zap.Logger
}

func NewOrderHandler(orderService *service.OrderService, logger *zap.Logger) *OrderHandler {
	return &OrderHandler{orderService: orderService, logger: logger}
}

func (h *OrderHandler) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /health", h.HealthCheck)
	mux.HandleFunc("POST /orders", h.PlaceOrder)
	mux.HandleFunc("GET /orders/{orderId}", h.GetOrder)
	mux.HandleFunc("GET /orders/customer/{customerId}", h.GetOrdersByCustomer)
}

// PlaceOrder creates an order. A FAILED order is still a 201: the order
// exists and is retrievable; only its status records the outcome.
func (h *OrderHandler) PlaceOrder(w http.ResponseWriter, r *http.Request) {
	var req httpapi.PlaceOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, fmt.Errorf("%w: invalid request body", domain.ErrInvalidRequest))
		return
	}

	items := make([]domain.OrderItem, 0, len(req.Items))
	for _, item := range req.Items {
		items = append(items, domain.OrderItem{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
		})
	}

	order, err := h.orderService.PlaceOrder(r.Context(), req.CustomerID, items)
	if err != nil {
		h.writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, httpapi.NewOrderResponse(*order))
}

func (h *OrderHandler) GetOrder(w http.ResponseWriter, r *http.Request) {
	order, err := h.orderService.GetOrderByID(r.Context(), r.PathValue("orderId"))
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, httpapi.NewOrderResponse(*order))
}

func (h *OrderHandler) GetOrdersByCustomer(w http.ResponseWriter, r *http.Request) {
	orders, err := h.orderService.GetOrdersByCustomerID(r.Context(), r.PathValue("customerId"))
	if err != nil {
		h.writeError(w, err)
		return
	}

	resp := make([]httpapi.OrderResponse, 0, len(orders))
	for _, o := range orders {
		resp = append(resp, httpapi.NewOrderResponse(o))
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *OrderHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *OrderHandler) writeError(w http.ResponseWriter, err error) {
	status, code := httpapi.CodeForError(err)
	if status == http.StatusInternalServerError {
		h.logger.Error("request failed", zap.Error(err))
		writeJSON(w, status, httpapi.ErrorResponse{Code: code, Message: "internal error"})
		return
	}
	writeJSON(w, status, httpapi.ErrorResponse{Code: code, Message: err.Error()})
}
