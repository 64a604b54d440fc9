package entity

import (
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/ivanpodgorny/orderflow/internal/pricing"
)

type OrderInput struct {
	Product  string `json:"product" validate:"required,notblank"`
	Quantity int    `json:"quantity" validate:"required,min=1"`
	Email    string `json:"email" validate:"required,contains=@"`
}

type Order struct {
	ID           string      `json:"id"`
	OrderNumber  string      `json:"orderNumber"`
	Product      string      `json:"product"`
	Quantity     int         `json:"quantity"`
	Email        string      `json:"email"`
	UnitPrice    float64     `json:"unitPrice"`
	Subtotal     float64     `json:"subtotal"`
	Discount     float64     `json:"discount"`
	Total        float64     `json:"total"`
	Status       OrderStatus `json:"status"`
	Notification string      `json:"notification,omitempty"`
	CreatedAt    time.Time   `json:"createdAt"`
}

type NotificationPayload struct {
	OrderID     string  `json:"orderId"`
	OrderNumber string  `json:"orderNumber"`
	Email       string  `json:"email"`
	Product     string  `json:"product"`
	Quantity    int     `json:"quantity"`
	Total       float64 `json:"total"`
	Discount    float64 `json:"discount"`
}

type ResultPayload struct {
	OrderID      string      `json:"orderId"`
	OrderNumber  string      `json:"orderNumber"`
	Product      string      `json:"product"`
	Quantity     int         `json:"quantity"`
	UnitPrice    float64     `json:"unitPrice,omitempty"`
	Total        float64     `json:"total"`
	Discount     float64     `json:"discount"`
	Status       OrderStatus `json:"status"`
	Notification string      `json:"notification"`
}

type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusProcessed OrderStatus = "processed"
	OrderStatusError     OrderStatus = "error"
)

// NewOrder создает заказ со статусом pending и рассчитанной стоимостью.
func NewOrder(input OrderInput, price pricing.Price) Order {
	return Order{
		ID:          uuid.NewString(),
		OrderNumber: newOrderNumber(time.Now()),
		Product:     input.Product,
		Quantity:    input.Quantity,
		Email:       input.Email,
		UnitPrice:   price.UnitPrice,
		Subtotal:    price.Subtotal,
		Discount:    price.Discount,
		Total:       price.Total,
		Status:      OrderStatusPending,
		CreatedAt:   time.Now(),
	}
}

// NewNotificationPayload создает задание на отправку уведомления по заказу.
func NewNotificationPayload(order Order) NotificationPayload {
	return NotificationPayload{
		OrderID:     order.ID,
		OrderNumber: order.OrderNumber,
		Email:       order.Email,
		Product:     order.Product,
		Quantity:    order.Quantity,
		Total:       order.Total,
		Discount:    order.Discount,
	}
}

// newOrderNumber формирует короткий номер заказа из последних шести цифр
// отметки времени. Номер используется только для отображения и не гарантирует
// уникальности, поиск заказов выполняется по ID.
func newOrderNumber(t time.Time) string {
	ms := strconv.FormatInt(t.UnixMilli(), 10)

	return "#ORD-" + ms[len(ms)-6:]
}
