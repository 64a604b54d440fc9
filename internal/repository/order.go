package repository

import (
	"context"
	"sort"
	"sync"

	"github.com/ivanpodgorny/orderflow/internal/entity"
	inerr "github.com/ivanpodgorny/orderflow/internal/errors"
)

// Order хранит заказы в памяти. Все операции безопасны для конкурентного
// использования, чтение и изменение заказа выполняются атомарно под одной
// блокировкой.
type Order struct {
	mu     sync.RWMutex
	orders map[string]entity.Order
}

func NewOrder() *Order {
	return &Order{
		orders: map[string]entity.Order{},
	}
}

// Create сохраняет новый заказ.
func (r *Order) Create(_ context.Context, order entity.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.orders[order.ID] = order

	return nil
}

// Find возвращает заказ по идентификатору. Если заказ не найден, возвращает
// ошибку errors.ErrOrderNotFound.
func (r *Order) Find(_ context.Context, id string) (entity.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	order, ok := r.orders[id]
	if !ok {
		return entity.Order{}, inerr.ErrOrderNotFound
	}

	return order, nil
}

// FindAll возвращает список всех заказов. Данные отсортированы по времени
// добавления от самых старых к самым новым.
func (r *Order) FindAll(_ context.Context) []entity.Order {
	r.mu.RLock()
	defer r.mu.RUnlock()

	orders := make([]entity.Order, 0, len(r.orders))
	for _, order := range r.orders {
		orders = append(orders, order)
	}

	sort.Slice(orders, func(i, j int) bool {
		return orders[i].CreatedAt.Before(orders[j].CreatedAt)
	})

	return orders
}

// UpdateStatus обновляет статус заказа. Если заказ не найден, возвращает
// ошибку errors.ErrOrderNotFound.
func (r *Order) UpdateStatus(_ context.Context, id string, status entity.OrderStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	order, ok := r.orders[id]
	if !ok {
		return inerr.ErrOrderNotFound
	}

	order.Status = status
	r.orders[id] = order

	return nil
}

// SetNotification сохраняет текст уведомления, отправленного по заказу. Если
// заказ не найден, возвращает ошибку errors.ErrOrderNotFound.
func (r *Order) SetNotification(_ context.Context, id string, notification string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	order, ok := r.orders[id]
	if !ok {
		return inerr.ErrOrderNotFound
	}

	order.Notification = notification
	r.orders[id] = order

	return nil
}
