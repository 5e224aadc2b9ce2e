package rabbitmq

import (
	"time"

	"github.com/google/uuid"
)

// BlobCleanupTaskDTO - сообщение очереди отложенной очистки блобов.
type BlobCleanupTaskDTO struct {
	TaskID      uuid.UUID `json:"task_id"`
	FileKey     string    `json:"file_key"`
	RequestedAt time.Time `json:"requested_at"`
}
