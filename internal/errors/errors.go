package errors

import "errors"

var (
	ErrOrderNotFound = errors.New("order not found")
	ErrNotConnected  = errors.New("broker channel is not initialized")
	ErrConnect       = errors.New("could not connect to RabbitMQ after multiple attempts")
)

// ValidationError описывает ошибку проверки данных заказа. Reason содержит
// сообщение для пользователя.
type ValidationError struct {
	Reason string
}

func (e ValidationError) Error() string {
	return e.Reason
}
