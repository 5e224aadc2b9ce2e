package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Divyanshu-Bhandari/browzfast/internal/contextkeys"
	"github.com/Divyanshu-Bhandari/browzfast/internal/core/domain"
	"github.com/Divyanshu-Bhandari/browzfast/internal/core/port"

	"github.com/google/uuid"
)

type SetBookmarkLinkUseCase struct {
	links   port.BookmarkLinkRepositoryPort
	blobs   port.BlobStoragePort
	cleanup port.BlobCleanupQueuePort
}

func NewSetBookmarkLinkUseCase(
	links port.BookmarkLinkRepositoryPort,
	blobs port.BlobStoragePort,
	cleanup port.BlobCleanupQueuePort,
) *SetBookmarkLinkUseCase {
	return &SetBookmarkLinkUseCase{
		links:   links,
		blobs:   blobs,
		cleanup: cleanup,
	}
}

// Execute привязывает новый ключ файла закладок.
//
// Переход Empty -> Linked(new) - простая запись указателя.
// Переход Linked(old) -> Linked(new) двухфазный: сначала зачистка старого
// блоба, потом перепривязка. Указатель перезаписывается только когда судьба
// старого блоба определена - он либо удалён, либо поставлен в очередь
// отложенной очистки. Если не удалось ни то, ни другое, операция обрывается
// и указатель остаётся прежним: молча осиротевших блобов быть не должно.
func (uc *SetBookmarkLinkUseCase) Execute(ctx context.Context, userID uuid.UUID, fileKey string) (bool, error) {
	logger := contextkeys.LoggerFromContext(ctx)
	ucLogger := logger.WithFields(port.Fields{
		"use_case": "SetBookmarkLink",
		"user_id":  userID,
	})

	ucLogger.Info("Use case started", nil)

	if fileKey == "" {
		ucLogger.Warn("File key is required", nil)
		return false, fmt.Errorf("%w: fileKey is required", domain.ErrInvalidInput)
	}

	oldKey, err := uc.links.GetFileKey(ctx, userID)
	if err != nil {
		if !errors.Is(err, domain.ErrLinkNotFound) {
			ucLogger.Error("Failed to read current bookmark link", err, nil)
			return false, fmt.Errorf("failed to read current bookmark link: %w", err)
		}

		// Первая привязка: старого блоба нет, чистить нечего.
		if err := uc.links.SetFileKey(ctx, userID, fileKey); err != nil {
			ucLogger.Error("Failed to set bookmark link", err, nil)
			return false, fmt.Errorf("failed to set bookmark link: %w", err)
		}
		ucLogger.Info("Use case finished successfully (first link)", nil)
		return true, nil
	}

	if err := uc.disposeOldBlob(ctx, ucLogger, oldKey); err != nil {
		return false, err
	}

	if err := uc.links.SetFileKey(ctx, userID, fileKey); err != nil {
		ucLogger.Error("Failed to rebind bookmark link", err, nil)
		return false, fmt.Errorf("failed to rebind bookmark link: %w", err)
	}

	ucLogger.Info("Use case finished successfully (replaced link)", port.Fields{"old_key": oldKey})
	return false, nil
}

// disposeOldBlob удаляет старый блоб синхронно, а при неподтверждённом
// удалении ставит его в очередь отложенной очистки.
func (uc *SetBookmarkLinkUseCase) disposeOldBlob(ctx context.Context, ucLogger port.LoggerPort, oldKey string) error {
	deleted, err := uc.blobs.DeleteFile(ctx, oldKey)
	if err == nil && deleted {
		ucLogger.Info("Old blob deleted", port.Fields{"old_key": oldKey})
		return nil
	}

	if err != nil {
		ucLogger.Warn("Blob deletion request failed, falling back to deferred cleanup", port.Fields{
			"old_key": oldKey, "error": err.Error(),
		})
	} else {
		ucLogger.Warn("Blob deletion not confirmed, falling back to deferred cleanup", port.Fields{"old_key": oldKey})
	}

	task := domain.BlobCleanupTask{
		TaskID:      uuid.New(),
		FileKey:     oldKey,
		RequestedAt: time.Now().UTC(),
	}
	if qErr := uc.cleanup.EnqueueCleanup(ctx, task); qErr != nil {
		ucLogger.Error("Failed to enqueue deferred blob cleanup", qErr, port.Fields{"old_key": oldKey})
		return fmt.Errorf("failed to dispose old blob %q: %w", oldKey, qErr)
	}

	ucLogger.Info("Old blob scheduled for deferred cleanup", port.Fields{"old_key": oldKey, "task_id": task.TaskID})
	return nil
}
