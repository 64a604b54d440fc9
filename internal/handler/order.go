package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ivanpodgorny/orderflow/internal/entity"
	inerr "github.com/ivanpodgorny/orderflow/internal/errors"
)

type Order struct {
	processor OrderProcessor
}

type OrderProcessor interface {
	Submit(ctx context.Context, input entity.OrderInput) (entity.Order, error)
	Get(ctx context.Context, id string) (entity.Order, error)
	GetAll(ctx context.Context) []entity.Order
}

func NewOrder(p OrderProcessor) *Order {
	return &Order{processor: p}
}

// Create обрабатывает запрос на создание заказа. Возвращает ответ с кодом 201
// и созданный заказ со статусом pending. При ошибке валидации возвращает
// ответ с кодом 400 и описанием ошибки.
func (h *Order) Create(w http.ResponseWriter, r *http.Request) {
	input := entity.OrderInput{}
	if err := readJSONBody(&input, r); err != nil {
		errorAsJSON(w, "Invalid request body", http.StatusBadRequest)

		return
	}

	order, err := h.processor.Submit(r.Context(), input)
	validationErr := inerr.ValidationError{}
	if errors.As(err, &validationErr) {
		errorAsJSON(w, validationErr.Reason, http.StatusBadRequest)

		return
	} else if err != nil {
		errorAsJSON(w, "Internal server error", http.StatusInternalServerError)

		return
	}

	responseAsJSON(w, order, http.StatusCreated)
}

// Get возвращает заказ по идентификатору. Если заказ не найден, возвращает
// ответ с кодом 404.
func (h *Order) Get(w http.ResponseWriter, r *http.Request) {
	order, err := h.processor.Get(r.Context(), chi.URLParam(r, "id"))
	if errors.Is(err, inerr.ErrOrderNotFound) {
		errorAsJSON(w, "Order not found", http.StatusNotFound)

		return
	} else if err != nil {
		errorAsJSON(w, "Internal server error", http.StatusInternalServerError)

		return
	}

	responseAsJSON(w, order, http.StatusOK)
}

// GetAll возвращает список всех заказов.
func (h *Order) GetAll(w http.ResponseWriter, r *http.Request) {
	responseAsJSON(w, h.processor.GetAll(r.Context()), http.StatusOK)
}
