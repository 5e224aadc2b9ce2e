package rabbitmq_consumer

import (
	"context"
	"fmt"
	"sync"

	"github.com/Divyanshu-Bhandari/browzfast/pkg/rabbitmq/rabbitmq_common"

	amqp "github.com/rabbitmq/amqp091-go"
)

// ConsumerConfig - конфигурация для потребителя
type ConsumerConfig struct {
	rabbitmq_common.Config
	// Настройки очереди
	QueueName       string // Имя очереди для потребления (если пусто, имя будет сгенерировано сервером)
	DeclareQueue    bool   // Пытаться ли объявить очередь
	DurableQueue    bool
	ExclusiveQueue  bool
	AutoDeleteQueue bool
	QueueArgs       amqp.Table // Дополнительные аргументы (например, x-message-ttl)
	// Привязка к обменнику (если ExchangeNameForBind пуст, привязка не выполняется)
	ExchangeNameForBind string
	RoutingKeyForBind   string
	// Настройки QoS
	PrefetchCount int // 0 или меньше - без ограничений
	// Настройки потребителя
	ConsumerTag string // Тег потребителя (если пустой, генерируется RabbitMQ)

	// поля для ретраев
	EnableRetryMechanism bool   // Главный флаг для включения
	RetryExchange        string // Имя retry-обменника
	RetryQueue           string // Имя wait-очереди
	RetryTTL             int    // TTL для wait-очереди в миллисекундах
	FinalDLXExchange     string // Имя финального DLX
	FinalDLQ             string // Имя финальной DLQ
	FinalDLQRoutingKey   string // Ключ для привязки финальной DLQ
	MaxRetries           int    // Максимальное количество попыток

	Logger rabbitmq_common.Logger
}

// MessageHandler обрабатывает одно сообщение. Возврат ошибки означает,
// что сообщение не обработано, и пакет сам решит судьбу сообщения
// (retry-очередь или финальная DLQ).
type MessageHandler func(ctx context.Context, delivery amqp.Delivery) error

// Consumer потребляет сообщения из одной очереди.
type Consumer struct {
	config          ConsumerConfig
	connection      *amqp.Connection
	channel         *amqp.Channel
	actualQueueName string
	wg              sync.WaitGroup // Нужен для graceful shutdown

	Logger rabbitmq_common.Logger
}

// NewConsumer создает потребителя, объявляет очередь и, если включен
// механизм ретраев, всю его инфраструктуру (retry-обменник, wait-очередь
// с TTL и финальную DLQ).
func NewConsumer(cfg ConsumerConfig, connManager *rabbitmq_common.ConnectionManager) (*Consumer, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = rabbitmq_common.NewNoopLogger()
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("consumer: invalid base config: %w", err)
	}
	if cfg.QueueName == "" && !cfg.DeclareQueue {
		return nil, fmt.Errorf("consumer: queue name is required when DeclareQueue is false")
	}
	if cfg.EnableRetryMechanism {
		if cfg.RetryExchange == "" || cfg.RetryQueue == "" || cfg.RetryTTL <= 0 {
			return nil, fmt.Errorf("consumer: retry mechanism requires RetryExchange, RetryQueue and positive RetryTTL")
		}
		if cfg.FinalDLXExchange == "" || cfg.FinalDLQ == "" {
			return nil, fmt.Errorf("consumer: retry mechanism requires FinalDLXExchange and FinalDLQ")
		}
	}

	c := &Consumer{
		config: cfg,
		Logger: logger,
	}

	conn, ch, err := connManager.GetChannel()
	if err != nil {
		return nil, fmt.Errorf("consumer: failed to get channel from manager: %w", err)
	}
	c.connection = conn
	c.channel = ch

	if err := c.setup(); err != nil {
		_ = ch.Close()
		return nil, fmt.Errorf("consumer: setup failed: %w", err)
	}

	return c, nil
}

// setup объявляет очередь, привязку, QoS и инфраструктуру ретраев.
func (c *Consumer) setup() error {
	cfg := &c.config

	if cfg.PrefetchCount > 0 {
		if err := c.channel.Qos(cfg.PrefetchCount, 0, false); err != nil {
			return fmt.Errorf("failed to set QoS: %w", err)
		}
	}

	if cfg.EnableRetryMechanism {
		if cfg.QueueArgs == nil {
			cfg.QueueArgs = amqp.Table{}
		}
		// "мертвые" сообщения из основной очереди должны идти в retry-exchange
		cfg.QueueArgs["x-dead-letter-exchange"] = cfg.RetryExchange
	}

	c.actualQueueName = cfg.QueueName
	if cfg.DeclareQueue {
		q, err := c.channel.QueueDeclare(
			cfg.QueueName,
			cfg.DurableQueue,
			cfg.AutoDeleteQueue,
			cfg.ExclusiveQueue,
			false, // no-wait
			cfg.QueueArgs,
		)
		if err != nil {
			return fmt.Errorf("failed to declare queue '%s': %w", cfg.QueueName, err)
		}
		c.actualQueueName = q.Name
		c.Logger.Debug("Queue declared", "queue", q.Name)
	}

	if cfg.ExchangeNameForBind != "" {
		if err := c.channel.QueueBind(
			c.actualQueueName,
			cfg.RoutingKeyForBind,
			cfg.ExchangeNameForBind,
			false, // no-wait
			nil,
		); err != nil {
			return fmt.Errorf("failed to bind queue '%s': %w", c.actualQueueName, err)
		}
		c.Logger.Debug("Queue bound", "queue", c.actualQueueName, "exchange", cfg.ExchangeNameForBind)
	}

	// инфраструктура ретраев
	if cfg.EnableRetryMechanism {
		c.Logger.Debug("Setting up isolated retry mechanism...")

		// финальный DLX и DLQ (куда попадают сообщения после всех ретраев)
		if err := c.channel.ExchangeDeclare(cfg.FinalDLXExchange, "direct", true, false, false, false, nil); err != nil {
			return fmt.Errorf("failed to declare final DLX: %w", err)
		}
		if _, err := c.channel.QueueDeclare(cfg.FinalDLQ, true, false, false, false, nil); err != nil {
			return fmt.Errorf("failed to declare final DLQ: %w", err)
		}
		if err := c.channel.QueueBind(cfg.FinalDLQ, cfg.FinalDLQRoutingKey, cfg.FinalDLXExchange, false, nil); err != nil {
			return fmt.Errorf("failed to bind final DLQ: %w", err)
		}

		// Объявляем обменник для ретраев (fanout)
		if err := c.channel.ExchangeDeclare(cfg.RetryExchange, "fanout", true, false, false, false, nil); err != nil {
			return fmt.Errorf("failed to declare retry exchange: %w", err)
		}

		// Объявляем очередь ожидания с TTL, которая возвращает сообщения в основной обменник
		if _, err := c.channel.QueueDeclare(
			cfg.RetryQueue,
			true,  // durable
			false, // autoDelete
			false, // exclusive
			false, // noWait
			amqp.Table{
				"x-message-ttl":          int32(cfg.RetryTTL),
				"x-dead-letter-exchange": cfg.ExchangeNameForBind, // Возвращаем в основной обменник
			},
		); err != nil {
			return fmt.Errorf("failed to declare retry-wait queue: %w", err)
		}
		if err := c.channel.QueueBind(cfg.RetryQueue, "", cfg.RetryExchange, false, nil); err != nil {
			return fmt.Errorf("failed to bind retry-wait queue: %w", err)
		}
	}

	c.Logger.Debug("Setup complete", "queue", c.actualQueueName)
	return nil
}

// Start запускает цикл потребления и блокируется до отмены контекста
// или закрытия канала доставки.
func (c *Consumer) Start(ctx context.Context, handler MessageHandler) error {
	if handler == nil {
		return fmt.Errorf("consumer: message handler is required")
	}

	deliveries, err := c.channel.Consume(
		c.actualQueueName,
		c.config.ConsumerTag,
		false, // auto-ack выключен: подтверждаем только после обработчика
		c.config.ExclusiveQueue,
		false, // no-local
		false, // no-wait
		nil,
	)
	if err != nil {
		return fmt.Errorf("consumer: failed to start consuming from '%s': %w", c.actualQueueName, err)
	}

	c.Logger.Info("[*] Waiting for messages on queue", "queue_name", c.actualQueueName)

	for {
		select {
		case <-ctx.Done():
			c.Logger.Info("Context cancelled for consumer. Exiting consumption loop.", "consumer_tag", c.config.ConsumerTag)
			c.wg.Wait()
			return nil
		case delivery, ok := <-deliveries:
			if !ok {
				c.Logger.Info("Deliveries channel closed by RabbitMQ for consumer. Exiting loop.", "consumer_tag", c.config.ConsumerTag)
				c.wg.Wait()
				return fmt.Errorf("consumer: delivery channel closed for '%s'", c.actualQueueName)
			}

			c.wg.Add(1)
			c.handleDelivery(ctx, handler, delivery)
			c.wg.Done()
		}
	}
}

func (c *Consumer) handleDelivery(ctx context.Context, handler MessageHandler, delivery amqp.Delivery) {
	processErr := handler(ctx, delivery)
	if processErr == nil {
		_ = delivery.Ack(false)
		return
	}

	c.Logger.Error(processErr, "Handler error for message",
		"consumer_tag", c.config.ConsumerTag,
		"delivery_tag", delivery.DeliveryTag)

	if !c.config.EnableRetryMechanism {
		// Без механизма ретраев возвращаем сообщение в очередь как есть
		_ = delivery.Nack(false, true)
		return
	}

	deathCount := c.getDeathCount(delivery, c.actualQueueName)
	if deathCount < int64(c.config.MaxRetries) {
		// Лимит не достигнут: Nack без requeue отправляет сообщение
		// через x-dead-letter-exchange в wait-очередь
		c.Logger.Info("Sending message to retry cycle",
			"delivery_tag", delivery.DeliveryTag,
			"death_count", deathCount)
		_ = delivery.Nack(false, false)
		return
	}

	// Попытки исчерпаны: перекладываем в финальную DLQ и подтверждаем оригинал
	c.Logger.Warn("Max retries exceeded, moving message to final DLQ",
		"delivery_tag", delivery.DeliveryTag,
		"death_count", deathCount)

	err := c.channel.PublishWithContext(ctx,
		c.config.FinalDLXExchange,
		c.config.FinalDLQRoutingKey,
		false, // mandatory
		false, // immediate
		amqp.Publishing{
			ContentType:  delivery.ContentType,
			Body:         delivery.Body,
			DeliveryMode: amqp.Persistent,
			Headers:      delivery.Headers,
		},
	)
	if err != nil {
		c.Logger.Error(err, "Failed to publish message to final DLQ, requeueing",
			"delivery_tag", delivery.DeliveryTag)
		_ = delivery.Nack(false, true)
		return
	}
	_ = delivery.Ack(false)
}

// getDeathCount - работа с x-death
func (c *Consumer) getDeathCount(d amqp.Delivery, queueName string) int64 {
	if d.Headers == nil {
		return 0
	}
	xDeath, ok := d.Headers["x-death"]
	if !ok {
		return 0
	}
	deaths, ok := xDeath.([]interface{})
	if !ok {
		return 0
	}

	// x-death - это массив смертей. Нас интересует, сколько раз
	// сообщение умирало в основной очереди
	for _, death := range deaths {
		if tbl, ok := death.(amqp.Table); ok {
			if queue, ok := tbl["queue"].(string); ok && queue == queueName {
				if count, ok := tbl["count"].(int64); ok {
					return count
				}
			}
		}
	}
	return 0
}

// Close закрывает канал потребителя (соединение остаётся менеджеру).
func (c *Consumer) Close() error {
	c.wg.Wait()

	if c.channel != nil {
		if err := c.channel.Close(); err != nil {
			return fmt.Errorf("consumer: failed to close channel: %w", err)
		}
		c.channel = nil
	}

	c.Logger.Info("Consumer closed")
	return nil
}
