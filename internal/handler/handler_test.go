package handler

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"

	"github.com/stretchr/testify/mock"

	"github.com/ivanpodgorny/orderflow/internal/entity"
)

type OrderProcessorMock struct {
	mock.Mock
}

func (m *OrderProcessorMock) Submit(_ context.Context, input entity.OrderInput) (entity.Order, error) {
	args := m.Called(input)

	return args.Get(0).(entity.Order), args.Error(1)
}

func (m *OrderProcessorMock) Get(_ context.Context, id string) (entity.Order, error) {
	args := m.Called(id)

	return args.Get(0).(entity.Order), args.Error(1)
}

func (m *OrderProcessorMock) GetAll(_ context.Context) []entity.Order {
	args := m.Called()

	return args.Get(0).([]entity.Order)
}

func sendTestRequest(method string, body io.Reader, handler http.HandlerFunc) *http.Response {
	request := httptest.NewRequest(method, "/", body)
	w := httptest.NewRecorder()
	handler(w, request)

	return w.Result()
}

func sendTestRequestWithRouter(method, target string, body io.Reader, router http.Handler) *http.Response {
	request := httptest.NewRequest(method, target, body)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, request)

	return w.Result()
}
