package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/commercekit/order-system/order-service/application"
	"github.com/commercekit/order-system/order-service/domain"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/pkg/errors"
)

// OrderHandlers contains order HTTP handlers
type OrderHandlers struct {
	createOrder    *application.CreateOrderSaga
	getOrder       *application.GetOrder
	listOrders     *application.ListOrders
	listUserOrders *application.ListUserOrders
	cancelOrder    *application.CancelOrder
}

// NewOrderHandlers creates new order handlers
func NewOrderHandlers(
	createOrder *application.CreateOrderSaga,
	getOrder *application.GetOrder,
	listOrders *application.ListOrders,
	listUserOrders *application.ListUserOrders,
	cancelOrder *application.CancelOrder,
) *OrderHandlers {
	return &OrderHandlers{
		createOrder:    createOrder,
		getOrder:       getOrder,
		listOrders:     listOrders,
		listUserOrders: listUserOrders,
		cancelOrder:    cancelOrder,
	}
}

// CreateOrder handles order creation requests
func (h *OrderHandlers) CreateOrder(w http.ResponseWriter, r *http.Request) {
	var cmd application.CreateOrderCommand
	if err := json.NewDecoder(r.Body).Decode(&cmd); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "invalid request body")
		return
	}
	cmd.CorrelationID = middleware.GetReqID(r.Context())

	order, err := h.createOrder.Execute(r.Context(), &cmd)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, order)
}

// GetOrder handles order retrieval requests
func (h *OrderHandlers) GetOrder(w http.ResponseWriter, r *http.Request) {
	orderID := chi.URLParam(r, "id")

	order, err := h.getOrder.Execute(r.Context(), &application.GetOrderQuery{OrderID: orderID})
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, order)
}

// ListOrders handles paged order listing requests
func (h *OrderHandlers) ListOrders(w http.ResponseWriter, r *http.Request) {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	pageSize, _ := strconv.Atoi(r.URL.Query().Get("page_size"))

	orders, err := h.listOrders.Execute(r.Context(), &application.ListOrdersQuery{
		Page:     page,
		PageSize: pageSize,
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, orders)
}

// ListUserOrders handles listing a user's orders
func (h *OrderHandlers) ListUserOrders(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")

	orders, err := h.listUserOrders.Execute(r.Context(), &application.ListUserOrdersQuery{UserID: userID})
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, orders)
}

// CancelOrder handles explicit order cancellation requests
func (h *OrderHandlers) CancelOrder(w http.ResponseWriter, r *http.Request) {
	var cmd application.CancelOrderCommand
	if r.Body != nil && r.ContentLength > 0 {
		if err := json.NewDecoder(r.Body).Decode(&cmd); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request", "invalid request body")
			return
		}
	}
	cmd.OrderID = chi.URLParam(r, "id")
	cmd.CorrelationID = middleware.GetReqID(r.Context())

	response, err := h.cancelOrder.Execute(r.Context(), &cmd)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, response)
}

// RegisterRoutes registers order routes
func (h *OrderHandlers) RegisterRoutes(r chi.Router) {
	r.Route("/orders", func(r chi.Router) {
		r.Post("/", h.CreateOrder)
		r.Get("/", h.ListOrders)
		r.Get("/{id}", h.GetOrder)
		r.Post("/{id}/cancel", h.CancelOrder)
	})
	r.Get("/users/{userID}/orders", h.ListUserOrders)
}

type errorResponse struct {
	Code  string `json:"code"`
	Error string `json:"error"`
}

// writeDomainError maps domain failures to distinguishable HTTP responses so a
// caller can tell "try a different product" from "try again later".
func writeDomainError(w http.ResponseWriter, err error) {
	var productNotFound *domain.ProductNotFoundError

	switch {
	case errors.Is(err, domain.ErrOrderNotFound):
		writeError(w, http.StatusNotFound, "order_not_found", err.Error())
	case errors.Is(err, domain.ErrUserNotFound):
		writeError(w, http.StatusUnprocessableEntity, "user_not_found", err.Error())
	case errors.As(err, &productNotFound):
		writeError(w, http.StatusUnprocessableEntity, "product_not_found", productNotFound.Error())
	case errors.Is(err, domain.ErrValidationTimeout), errors.Is(err, domain.ErrGatewayUnavailable):
		writeError(w, http.StatusServiceUnavailable, "validation_unavailable", err.Error())
	case errors.Is(err, domain.ErrInvalidRequest):
		writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
	default:
		writeError(w, http.StatusInternalServerError, "internal_error", err.Error())
	}
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, errorResponse{Code: code, Error: message})
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}
