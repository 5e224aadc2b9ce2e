package rabbitmq

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/Divyanshu-Bhandari/browzfast/internal/contextkeys"
	"github.com/Divyanshu-Bhandari/browzfast/internal/core/domain"
	"github.com/Divyanshu-Bhandari/browzfast/internal/core/port"
	"github.com/Divyanshu-Bhandari/browzfast/pkg/rabbitmq/rabbitmq_producer"

	amqp "github.com/rabbitmq/amqp091-go"
)

type BlobCleanupEnqueueAdapter struct {
	producer   *rabbitmq_producer.Publisher
	routingKey string
}

func NewBlobCleanupEnqueueAdapter(producer *rabbitmq_producer.Publisher, routingKey string) (*BlobCleanupEnqueueAdapter, error) {
	if producer == nil {
		return nil, fmt.Errorf("rabbitmq adapter: producer cannot be nil")
	}
	if routingKey == "" {
		return nil, fmt.Errorf("rabbitmq adapter: routingKey cannot be empty")
	}
	return &BlobCleanupEnqueueAdapter{
		producer:   producer,
		routingKey: routingKey,
	}, nil
}

// EnqueueCleanup публикует задачу на отложенное удаление блоба.
func (a *BlobCleanupEnqueueAdapter) EnqueueCleanup(ctx context.Context, task domain.BlobCleanupTask) error {

	logger := contextkeys.LoggerFromContext(ctx)
	// Обогащаем его информацией о компоненте
	adapterLogger := logger.WithFields(port.Fields{
		"component":   "BlobCleanupEnqueueAdapter",
		"routing_key": a.routingKey,
		"task_id":     task.TaskID.String(),
	})

	dto := BlobCleanupTaskDTO{
		TaskID:      task.TaskID,
		FileKey:     task.FileKey,
		RequestedAt: task.RequestedAt,
	}

	body, _ := json.Marshal(dto)

	msg := amqp.Publishing{
		ContentType:  "application/json",
		Body:         body,
		DeliveryMode: amqp.Persistent, // Для сохранения сообщений при перезапуске брокера
		Timestamp:    time.Now(),
		Headers:      make(amqp.Table),
	}

	traceID := contextkeys.TraceIDFromContext(ctx)
	if traceID != "" {
		msg.Headers["x-trace-id"] = traceID
	}

	// Устанавливаем таймаут на операцию публикации, если контекст его не предоставляет
	publishCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	adapterLogger.Info("Publishing blob cleanup task", nil)
	err := a.producer.Publish(publishCtx, a.routingKey, msg)
	if err != nil {
		adapterLogger.Error("Failed to publish blob cleanup task", err, nil)
		return fmt.Errorf("rabbitmq adapter: failed to publish cleanup task %s: %w", task.TaskID, err)
	}

	adapterLogger.Info("Successfully published blob cleanup task", nil)
	return nil
}
