package broker

import (
	"context"
	"encoding/json"
	"log"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	inerr "github.com/ivanpodgorny/orderflow/internal/errors"
)

const (
	connectAttempts = 10
	connectInterval = 3 * time.Second
)

// Client управляет единственным соединением с RabbitMQ: подключается с
// повторными попытками, публикует сообщения в долговременные очереди и
// регистрирует обработчиков сообщений. Доступ к каналу сериализуется
// блокировкой, так как канал AMQP не допускает конкурентной записи.
type Client struct {
	url      string
	dial     func(url string) (Connection, error)
	attempts int
	interval time.Duration

	mu   sync.Mutex
	conn Connection
	ch   *amqp.Channel
}

// Connection описывает используемую часть соединения AMQP.
type Connection interface {
	Channel() (*amqp.Channel, error)
	Close() error
}

func New(url string) *Client {
	return &Client{
		url:      url,
		dial:     dial,
		attempts: connectAttempts,
		interval: connectInterval,
	}
}

func dial(url string) (Connection, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, err
	}

	return conn, nil
}

// Connect устанавливает соединение с RabbitMQ и открывает канал. Ошибка
// открытия канала считается ошибкой подключения: соединение закрывается и
// выполняется повторная попытка с фиксированным интервалом. После исчерпания
// попыток возвращает ошибку errors.ErrConnect: без брокера сервис запускаться
// не должен.
func (c *Client) Connect() error {
	for attempt := 1; attempt <= c.attempts; attempt++ {
		log.Printf("подключение к RabbitMQ, попытка %d", attempt)

		err := c.connect()
		if err == nil {
			log.Print("соединение с RabbitMQ установлено")

			return nil
		}

		log.Printf("ошибка подключения к RabbitMQ: %v", err)
		if attempt < c.attempts {
			time.Sleep(c.interval)
		}
	}

	return inerr.ErrConnect
}

func (c *Client) connect() error {
	conn, err := c.dial(c.url)
	if err != nil {
		return err
	}

	ch, err := conn.Channel()
	if err != nil {
		if closeErr := conn.Close(); closeErr != nil {
			log.Printf("ошибка закрытия соединения с RabbitMQ: %v", closeErr)
		}

		return err
	}

	c.mu.Lock()
	c.conn = conn
	c.ch = ch
	c.mu.Unlock()

	return nil
}

// Publish объявляет долговременную очередь queue и публикует в нее message
// с признаком persistent, чтобы сообщение пережило перезапуск брокера.
// Подтверждения обработки сообщения потребителем публикация не дает.
func (c *Client) Publish(ctx context.Context, queue string, message any) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.ch == nil {
		return inerr.ErrNotConnected
	}

	if err := c.declareQueue(queue); err != nil {
		return err
	}

	body, err := json.Marshal(message)
	if err != nil {
		return err
	}

	return c.ch.PublishWithContext(ctx, "", queue, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Body:         body,
	})
}

// Subscribe объявляет долговременную очередь queue и запускает для нее
// единственного потребителя. Сообщения обрабатываются последовательно в
// порядке доставки: при успешном завершении handler сообщение подтверждается,
// при ошибке — отклоняется без повторной постановки в очередь.
func (c *Client) Subscribe(ctx context.Context, queue string, handler func(ctx context.Context, message []byte) error) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.ch == nil {
		return inerr.ErrNotConnected
	}

	if err := c.declareQueue(queue); err != nil {
		return err
	}

	deliveries, err := c.ch.Consume(queue, "", false, false, false, false, nil)
	if err != nil {
		return err
	}

	go c.consume(ctx, queue, deliveries, handler)
	log.Printf("зарегистрирован потребитель очереди %s", queue)

	return nil
}

// Close закрывает канал и соединение с RabbitMQ, в этом порядке. Повторный
// вызов безопасен.
func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.ch != nil {
		if err := c.ch.Close(); err != nil {
			return err
		}

		c.ch = nil
	}

	if c.conn != nil {
		if err := c.conn.Close(); err != nil {
			return err
		}

		c.conn = nil
	}

	return nil
}

// declareQueue объявляет долговременную очередь. Объявление идемпотентно,
// вызывается под блокировкой c.mu.
func (c *Client) declareQueue(queue string) error {
	_, err := c.ch.QueueDeclare(queue, true, false, false, false, nil)

	return err
}

func (c *Client) consume(ctx context.Context, queue string, deliveries <-chan amqp.Delivery, handler func(ctx context.Context, message []byte) error) {
	for {
		select {
		case d, ok := <-deliveries:
			if !ok {
				return
			}

			if err := handler(ctx, d.Body); err != nil {
				log.Printf("ошибка обработки сообщения из очереди %s: %v", queue, err)
				if err := d.Nack(false, false); err != nil {
					log.Printf("ошибка отклонения сообщения из очереди %s: %v", queue, err)
				}

				continue
			}

			if err := d.Ack(false); err != nil {
				log.Printf("ошибка подтверждения сообщения из очереди %s: %v", queue, err)
			}
		case <-ctx.Done():
			return
		}
	}
}
