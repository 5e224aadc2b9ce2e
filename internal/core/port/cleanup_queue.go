package port

import (
	"context"

	"github.com/Divyanshu-Bhandari/browzfast/internal/core/domain"
)

// BlobCleanupQueuePort - контракт для очереди отложенной очистки блобов.
// Сюда попадают ключи, чьё синхронное удаление хранилище не подтвердило.
type BlobCleanupQueuePort interface {
	// EnqueueCleanup публикует задачу на отложенное удаление блоба.
	EnqueueCleanup(ctx context.Context, task domain.BlobCleanupTask) error
}
