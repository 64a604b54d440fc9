package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Pipeline содержит счетчики конвейера обработки заказов: количество принятых
// заказов и количество обработанных сообщений по каждой очереди с результатом
// обработки.
type Pipeline struct {
	Submitted prometheus.Counter
	Consumed  *prometheus.CounterVec
}

func NewPipeline(reg prometheus.Registerer) *Pipeline {
	submitted := prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "orderflow",
		Name:      "orders_submitted_total",
		Help:      "Total number of accepted orders.",
	})
	consumed := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "orderflow",
		Name:      "queue_messages_total",
		Help:      "Total number of consumed queue messages.",
	}, []string{"queue", "status"})

	reg.MustRegister(submitted, consumed)

	return &Pipeline{
		Submitted: submitted,
		Consumed:  consumed,
	}
}

func Handler() http.Handler {
	return promhttp.Handler()
}
