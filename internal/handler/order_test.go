package handler

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ivanpodgorny/orderflow/internal/entity"
	inerr "github.com/ivanpodgorny/orderflow/internal/errors"
)

func TestOrder_CreateSuccess(t *testing.T) {
	var (
		processor = &OrderProcessorMock{}
		input     = entity.OrderInput{
			Product:  "laptop",
			Quantity: 6,
			Email:    "a@b.com",
		}
		order = entity.Order{
			ID:          "9d2b1f0a",
			OrderNumber: "#ORD-123456",
			Product:     "laptop",
			Quantity:    6,
			Email:       "a@b.com",
			UnitPrice:   999,
			Subtotal:    5994,
			Discount:    599.4,
			Total:       5394.6,
			Status:      entity.OrderStatusPending,
			CreatedAt:   time.Now(),
		}
	)

	processor.On("Submit", input).Return(order, nil).Once()
	handler := Order{processor: processor}

	body, err := json.Marshal(input)
	require.NoError(t, err)
	result := sendTestRequest(http.MethodPost, bytes.NewBuffer(body), handler.Create)
	assert.Equal(t, http.StatusCreated, result.StatusCode)

	b, err := io.ReadAll(result.Body)
	require.NoError(t, err)
	orderJSON, err := json.Marshal(order)
	require.NoError(t, err)
	assert.JSONEq(t, string(orderJSON), string(b))
	require.NoError(t, result.Body.Close())
	processor.AssertExpectations(t)
}

func TestOrder_CreateErrors(t *testing.T) {
	var (
		input = entity.OrderInput{
			Product:  "laptop",
			Quantity: 1,
			Email:    "not-an-email",
		}
		processorInvalid = &OrderProcessorMock{}
		processorError   = &OrderProcessorMock{}
	)

	processorInvalid.
		On("Submit", input).
		Return(entity.Order{}, inerr.ValidationError{Reason: "Invalid email"}).
		Once()
	processorError.
		On("Submit", input).
		Return(entity.Order{}, errors.New("")).
		Once()

	tests := []struct {
		name           string
		processor      OrderProcessor
		wantStatusCode int
		wantBody       string
	}{
		{
			name:           "ошибка валидации данных заказа",
			processor:      processorInvalid,
			wantStatusCode: http.StatusBadRequest,
			wantBody:       `{"error":"Invalid email"}`,
		},
		{
			name:           "ошибка при создании заказа",
			processor:      processorError,
			wantStatusCode: http.StatusInternalServerError,
			wantBody:       `{"error":"Internal server error"}`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := Order{processor: tt.processor}

			body, err := json.Marshal(input)
			require.NoError(t, err)
			result := sendTestRequest(http.MethodPost, bytes.NewBuffer(body), handler.Create)
			assert.Equal(t, tt.wantStatusCode, result.StatusCode)

			b, err := io.ReadAll(result.Body)
			require.NoError(t, err)
			assert.JSONEq(t, tt.wantBody, string(b))
			require.NoError(t, result.Body.Close())
		})
	}
	processorInvalid.AssertExpectations(t)
	processorError.AssertExpectations(t)
}

func TestOrder_CreateBadRequestBody(t *testing.T) {
	var (
		processor = &OrderProcessorMock{}
		handler   = Order{processor: processor}
	)

	result := sendTestRequest(http.MethodPost, bytes.NewBufferString("not json"), handler.Create)
	assert.Equal(t, http.StatusBadRequest, result.StatusCode)
	require.NoError(t, result.Body.Close())
	processor.AssertExpectations(t)
}

func TestOrder_Get(t *testing.T) {
	var (
		processor = &OrderProcessorMock{}
		order     = entity.Order{
			ID:     "9d2b1f0a",
			Status: entity.OrderStatusProcessed,
		}
	)

	processor.On("Get", order.ID).Return(order, nil).Once()
	processor.On("Get", "unknown").Return(entity.Order{}, inerr.ErrOrderNotFound).Once()
	handler := Order{processor: processor}
	router := chi.NewRouter()
	router.Get("/api/orders/{id}", handler.Get)

	result := sendTestRequestWithRouter(http.MethodGet, "/api/orders/"+order.ID, nil, router)
	assert.Equal(t, http.StatusOK, result.StatusCode)
	b, err := io.ReadAll(result.Body)
	require.NoError(t, err)
	orderJSON, err := json.Marshal(order)
	require.NoError(t, err)
	assert.JSONEq(t, string(orderJSON), string(b))
	require.NoError(t, result.Body.Close())

	result = sendTestRequestWithRouter(http.MethodGet, "/api/orders/unknown", nil, router)
	assert.Equal(t, http.StatusNotFound, result.StatusCode)
	b, err = io.ReadAll(result.Body)
	require.NoError(t, err)
	assert.JSONEq(t, `{"error":"Order not found"}`, string(b))
	require.NoError(t, result.Body.Close())
	processor.AssertExpectations(t)
}

func TestOrder_GetAll(t *testing.T) {
	var (
		processor = &OrderProcessorMock{}
		orders    = []entity.Order{
			{ID: "1", Status: entity.OrderStatusProcessed},
			{ID: "2", Status: entity.OrderStatusPending},
		}
	)

	processor.On("GetAll").Return(orders).Once()
	handler := Order{processor: processor}

	result := sendTestRequest(http.MethodGet, nil, handler.GetAll)
	assert.Equal(t, http.StatusOK, result.StatusCode)
	b, err := io.ReadAll(result.Body)
	require.NoError(t, err)
	ordersJSON, err := json.Marshal(orders)
	require.NoError(t, err)
	assert.JSONEq(t, string(ordersJSON), string(b))
	require.NoError(t, result.Body.Close())
	processor.AssertExpectations(t)
}

func TestOrder_GetAllEmpty(t *testing.T) {
	processor := &OrderProcessorMock{}
	processor.On("GetAll").Return([]entity.Order{}).Once()
	handler := Order{processor: processor}

	result := sendTestRequest(http.MethodGet, nil, handler.GetAll)
	assert.Equal(t, http.StatusOK, result.StatusCode)
	b, err := io.ReadAll(result.Body)
	require.NoError(t, err)
	assert.JSONEq(t, `[]`, string(b), "пустой список возвращается как пустой массив")
	require.NoError(t, result.Body.Close())
	processor.AssertExpectations(t)
}

func TestHealth(t *testing.T) {
	result := sendTestRequest(http.MethodGet, nil, Health)
	assert.Equal(t, http.StatusOK, result.StatusCode)

	resp := struct {
		Status    string `json:"status"`
		Timestamp string `json:"timestamp"`
	}{}
	b, err := io.ReadAll(result.Body)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(b, &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.NotEmpty(t, resp.Timestamp)
	require.NoError(t, result.Body.Close())
}
