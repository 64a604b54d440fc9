package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	v10validator "github.com/go-playground/validator/v10"

	"github.com/ivanpodgorny/orderflow/internal/entity"
	inerr "github.com/ivanpodgorny/orderflow/internal/errors"
	"github.com/ivanpodgorny/orderflow/internal/metrics"
	"github.com/ivanpodgorny/orderflow/internal/pricing"
)

const (
	QueueOrders        = "orders"
	QueueNotifications = "notifications"
	QueueResults       = "results"
)

const (
	processingDelay   = 500 * time.Millisecond
	notificationDelay = 300 * time.Millisecond
)

// Order проводит заказ через три стадии конвейера. Стадия приема проверяет и
// сохраняет заказ и публикует его в очередь orders, стадия обработки переводит
// заказ в статус processed и публикует задание на уведомление, стадия
// уведомления сохраняет текст уведомления и публикует итоговый результат.
// В каждой стадии запись в хранилище выполняется до публикации в следующую
// очередь, чтобы результат не обогнал видимое состояние заказа.
type Order struct {
	repository OrderRepository
	broker     Broker
	validator  Validator
	metrics    *metrics.Pipeline

	processingDelay   time.Duration
	notificationDelay time.Duration
}

type OrderRepository interface {
	Create(ctx context.Context, order entity.Order) error
	Find(ctx context.Context, id string) (entity.Order, error)
	FindAll(ctx context.Context) []entity.Order
	UpdateStatus(ctx context.Context, id string, status entity.OrderStatus) error
	SetNotification(ctx context.Context, id string, notification string) error
}

type Broker interface {
	Publish(ctx context.Context, queue string, message any) error
	Subscribe(ctx context.Context, queue string, handler func(ctx context.Context, message []byte) error) error
}

type Validator interface {
	Struct(ctx context.Context, s any) error
}

func NewOrder(r OrderRepository, b Broker, v Validator, m *metrics.Pipeline) *Order {
	return &Order{
		repository:        r,
		broker:            b,
		validator:         v,
		metrics:           m,
		processingDelay:   processingDelay,
		notificationDelay: notificationDelay,
	}
}

// Submit проверяет данные заказа, рассчитывает стоимость и сохраняет заказ со
// статусом pending, после чего публикует его в очередь orders. Созданный заказ
// возвращается сразу, статус обновляется конвейером асинхронно. При ошибке
// валидации возвращает errors.ValidationError без каких-либо побочных
// эффектов.
func (s *Order) Submit(ctx context.Context, input entity.OrderInput) (entity.Order, error) {
	if err := s.validator.Struct(ctx, input); err != nil {
		return entity.Order{}, inerr.ValidationError{Reason: validationMessage(err)}
	}

	order := entity.NewOrder(input, pricing.Calculate(input.Product, input.Quantity))

	if err := s.repository.Create(ctx, order); err != nil {
		return entity.Order{}, err
	}

	if err := s.broker.Publish(ctx, QueueOrders, order); err != nil {
		return entity.Order{}, err
	}

	s.metrics.Submitted.Inc()

	return order, nil
}

// ProcessOrder обрабатывает заказ из очереди orders: переводит его в статус
// processed и публикует задание на отправку уведомления в очередь
// notifications. Повторная доставка того же заказа безопасна для статуса, но
// приводит к повторной публикации задания — дедупликация не выполняется.
func (s *Order) ProcessOrder(ctx context.Context, order entity.Order) error {
	log.Printf("обработка заказа %s", order.OrderNumber)
	time.Sleep(s.processingDelay)

	if err := s.repository.UpdateStatus(ctx, order.ID, entity.OrderStatusProcessed); err != nil {
		return err
	}

	if err := s.broker.Publish(ctx, QueueNotifications, entity.NewNotificationPayload(order)); err != nil {
		return err
	}

	log.Printf("заказ %s обработан, сумма %.2f", order.OrderNumber, order.Total)

	return nil
}

// ProcessNotification обрабатывает задание из очереди notifications: имитирует
// отправку письма, сохраняет текст уведомления в заказе и публикует итоговый
// результат в очередь results. Если заказ не найден в хранилище, уведомление
// не сохраняется, но результат публикуется без цены единицы товара.
func (s *Order) ProcessNotification(ctx context.Context, payload entity.NotificationPayload) error {
	log.Printf("отправка уведомления на %s по заказу %s", payload.Email, payload.OrderNumber)
	time.Sleep(s.notificationDelay)

	notification := fmt.Sprintf("Email sent to %s", payload.Email)

	unitPrice := 0.0
	if order, err := s.repository.Find(ctx, payload.OrderID); err == nil {
		unitPrice = order.UnitPrice
		if err := s.repository.SetNotification(ctx, payload.OrderID, notification); err != nil {
			return err
		}
	}

	result := entity.ResultPayload{
		OrderID:      payload.OrderID,
		OrderNumber:  payload.OrderNumber,
		Product:      payload.Product,
		Quantity:     payload.Quantity,
		UnitPrice:    unitPrice,
		Total:        payload.Total,
		Discount:     payload.Discount,
		Status:       entity.OrderStatusProcessed,
		Notification: notification,
	}

	if err := s.broker.Publish(ctx, QueueResults, result); err != nil {
		return err
	}

	log.Printf("уведомление по заказу %s отправлено", payload.OrderNumber)

	return nil
}

// ProcessResult фиксирует итоговый результат обработки заказа в журнале.
func (s *Order) ProcessResult(_ context.Context, result entity.ResultPayload) error {
	log.Printf("заказ %s завершен: %s, сумма %.2f", result.OrderNumber, result.Notification, result.Total)

	return nil
}

// Get возвращает заказ по идентификатору.
func (s *Order) Get(ctx context.Context, id string) (entity.Order, error) {
	return s.repository.Find(ctx, id)
}

// GetAll возвращает список всех заказов.
func (s *Order) GetAll(ctx context.Context) []entity.Order {
	return s.repository.FindAll(ctx)
}

// Subscribe регистрирует обработчиков всех очередей конвейера. Если обработка
// сообщения завершилась ошибкой и заказ известен, заказ переводится в статус
// error, после чего сообщение отклоняется и не доставляется повторно.
func (s *Order) Subscribe(ctx context.Context) error {
	if err := s.broker.Subscribe(ctx, QueueOrders, func(ctx context.Context, message []byte) error {
		order := entity.Order{}
		if err := json.Unmarshal(message, &order); err != nil {
			return s.consumed(ctx, QueueOrders, "", err)
		}

		return s.consumed(ctx, QueueOrders, order.ID, s.ProcessOrder(ctx, order))
	}); err != nil {
		return err
	}

	if err := s.broker.Subscribe(ctx, QueueNotifications, func(ctx context.Context, message []byte) error {
		payload := entity.NotificationPayload{}
		if err := json.Unmarshal(message, &payload); err != nil {
			return s.consumed(ctx, QueueNotifications, "", err)
		}

		return s.consumed(ctx, QueueNotifications, payload.OrderID, s.ProcessNotification(ctx, payload))
	}); err != nil {
		return err
	}

	return s.broker.Subscribe(ctx, QueueResults, func(ctx context.Context, message []byte) error {
		result := entity.ResultPayload{}
		if err := json.Unmarshal(message, &result); err != nil {
			return s.consumed(ctx, QueueResults, "", err)
		}

		return s.consumed(ctx, QueueResults, result.OrderID, s.ProcessResult(ctx, result))
	})
}

// consumed обновляет счетчики обработки сообщений и при ошибке обработчика
// переводит заказ в статус error.
func (s *Order) consumed(ctx context.Context, queue, orderID string, err error) error {
	if err == nil {
		s.metrics.Consumed.WithLabelValues(queue, "ok").Inc()

		return nil
	}

	s.metrics.Consumed.WithLabelValues(queue, "error").Inc()

	if orderID != "" {
		if updErr := s.repository.UpdateStatus(ctx, orderID, entity.OrderStatusError); updErr != nil && !errors.Is(updErr, inerr.ErrOrderNotFound) {
			log.Printf("ошибка обновления статуса заказа %s: %v", orderID, updErr)
		}
	}

	return err
}

// validationMessage приводит ошибку валидации к сообщению для пользователя.
func validationMessage(err error) string {
	var errs v10validator.ValidationErrors
	if !errors.As(err, &errs) || len(errs) == 0 {
		return "Invalid order"
	}

	switch errs[0].Field() {
	case "Product":
		return "Product is required"
	case "Quantity":
		return "Quantity must be greater than 0"
	case "Email":
		return "Invalid email"
	}

	return "Invalid order"
}
