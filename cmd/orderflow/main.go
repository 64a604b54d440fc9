package main

import (
	"context"
	"errors"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	v10validator "github.com/go-playground/validator/v10"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/ivanpodgorny/orderflow/internal/broker"
	"github.com/ivanpodgorny/orderflow/internal/config"
	"github.com/ivanpodgorny/orderflow/internal/handler"
	"github.com/ivanpodgorny/orderflow/internal/metrics"
	"github.com/ivanpodgorny/orderflow/internal/repository"
	"github.com/ivanpodgorny/orderflow/internal/service"
	"github.com/ivanpodgorny/orderflow/internal/validator"
)

func main() {
	if err := Execute(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal(err)
	}
}

func Execute() error {
	cfg, err := config.NewBuilder().LoadFlags().LoadEnv().Build()
	if err != nil {
		return err
	}

	// Подключение к брокеру выполняется до запуска HTTP-сервера: без
	// брокера сервис принимать заказы не должен.
	b := broker.New(cfg.BrokerURL())
	if err := b.Connect(); err != nil {
		return err
	}

	defer func(b *broker.Client) {
		err = b.Close()
	}(b)

	validationEngine := v10validator.New()
	if err := validationEngine.RegisterValidation("notblank", validator.NotBlank); err != nil {
		return err
	}

	var (
		ctx, cancel = context.WithCancel(context.Background())
		r           = chi.NewRouter()
		v           = validator.New(validationEngine)
		m           = metrics.NewPipeline(prometheus.DefaultRegisterer)
		os          = service.NewOrder(repository.NewOrder(), b, v, m)
		oh          = handler.NewOrder(os)
	)

	defer cancel()

	if err := os.Subscribe(ctx); err != nil {
		return err
	}

	r.Use(chimiddleware.Recoverer)

	r.Get("/health", handler.Health)
	r.Method(http.MethodGet, "/metrics", metrics.Handler())

	r.Route("/api/orders", func(r chi.Router) {
		r.Post("/", oh.Create)
		r.Get("/", oh.GetAll)
		r.Get("/{id}", oh.Get)
	})

	err = http.ListenAndServe(cfg.ServerAddress(), r)

	return err
}
