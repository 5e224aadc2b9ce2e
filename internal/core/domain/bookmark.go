package domain

import (
	"time"

	"github.com/google/uuid"
)

// BookmarkLink - указатель "один пользователь -> один внешний файл закладок".
// FileKey - непрозрачный ключ блоба во внешнем хранилище.
type BookmarkLink struct {
	UserID  uuid.UUID
	FileKey string
}

// BlobCleanupTask - отложенная задача на удаление блоба, чьё синхронное
// удаление не было подтверждено внешним хранилищем. Уходит в очередь
// и обрабатывается фоновым консьюмером.
type BlobCleanupTask struct {
	TaskID      uuid.UUID
	FileKey     string
	RequestedAt time.Time
}
