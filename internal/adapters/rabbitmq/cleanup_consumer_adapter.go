package rabbitmq

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/Divyanshu-Bhandari/browzfast/internal/contextkeys"
	"github.com/Divyanshu-Bhandari/browzfast/internal/core/domain"
	"github.com/Divyanshu-Bhandari/browzfast/internal/core/port"
	"github.com/Divyanshu-Bhandari/browzfast/internal/core/port/usecases_port"
	"github.com/Divyanshu-Bhandari/browzfast/pkg/rabbitmq/rabbitmq_common"
	"github.com/Divyanshu-Bhandari/browzfast/pkg/rabbitmq/rabbitmq_consumer"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
)

type CleanupConsumerAdapter struct {
	consumer  *rabbitmq_consumer.Consumer
	cleanupUC usecases_port.ProcessBlobCleanupUseCasePort
	logger    port.LoggerPort
}

func NewCleanupConsumerAdapter(
	consumerCfg rabbitmq_consumer.ConsumerConfig,
	cleanupUC usecases_port.ProcessBlobCleanupUseCasePort,
	logger port.LoggerPort,
	connManager *rabbitmq_common.ConnectionManager,
) (*CleanupConsumerAdapter, error) {

	adapter := &CleanupConsumerAdapter{
		cleanupUC: cleanupUC,
		logger:    logger,
	}

	// Создаем логгер для pkg-уровня с контекстом нашего компонента
	pkgLogger := logger.WithFields(port.Fields{"component": "rabbitmq_cleanup_consumer", "consumer_tag": consumerCfg.ConsumerTag})
	// Создаем мост и передаем его в конфиг
	consumerCfg.Logger = NewPkgLoggerBridge(pkgLogger)

	consumer, err := rabbitmq_consumer.NewConsumer(consumerCfg, connManager)
	if err != nil {
		return nil, fmt.Errorf("failed to create RabbitMQ consumer for blob cleanup: %w", err)
	}
	adapter.consumer = consumer

	return adapter, nil
}

// messageHandler - приватный метод адаптера
func (a *CleanupConsumerAdapter) messageHandler(_ context.Context, d amqp.Delivery) error {

	traceID, ok := d.Headers["x-trace-id"].(string)
	if !ok || traceID == "" {
		traceID = uuid.New().String()
	}

	// Создаем логгер для этого конкретного сообщения
	msgLogger := a.logger.WithFields(port.Fields{
		"trace_id":     traceID,
		"delivery_tag": d.DeliveryTag,
	})

	// Создаем контекст и кладем в него логгер
	ctx := context.Background()
	ctx = contextkeys.ContextWithLogger(ctx, msgLogger)
	ctx = contextkeys.ContextWithTraceID(ctx, traceID)

	msgLogger.Info("Received blob cleanup task", nil)

	var dto BlobCleanupTaskDTO
	if err := json.Unmarshal(d.Body, &dto); err != nil {
		msgLogger.Error("Error unmarshalling cleanup task DTO, NACKing message", err, nil)
		// Ошибка разбора JSON - это постоянная ошибка, нет смысла повторять обработку сообщения
		return nil
	}

	task := domain.BlobCleanupTask{
		TaskID:      dto.TaskID,
		FileKey:     dto.FileKey,
		RequestedAt: dto.RequestedAt,
	}

	if err := a.cleanupUC.Execute(ctx, task); err != nil {
		msgLogger.Error("Blob cleanup use case failed", err, nil)
		return err // Возвращаем ошибку для retry
	}

	return nil
}

// Start реализует EventListenerPort
func (a *CleanupConsumerAdapter) Start(ctx context.Context) error {
	return a.consumer.Start(ctx, a.messageHandler)
}

// Close реализует EventListenerPort
func (a *CleanupConsumerAdapter) Close() error {
	return a.consumer.Close()
}
