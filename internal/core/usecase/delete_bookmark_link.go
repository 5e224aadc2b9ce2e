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

type DeleteBookmarkLinkUseCase struct {
	links   port.BookmarkLinkRepositoryPort
	blobs   port.BlobStoragePort
	cleanup port.BlobCleanupQueuePort
}

func NewDeleteBookmarkLinkUseCase(
	links port.BookmarkLinkRepositoryPort,
	blobs port.BlobStoragePort,
	cleanup port.BlobCleanupQueuePort,
) *DeleteBookmarkLinkUseCase {
	return &DeleteBookmarkLinkUseCase{
		links:   links,
		blobs:   blobs,
		cleanup: cleanup,
	}
}

// Execute снимает привязку файла закладок. Указатель очищается только после
// того, как судьба блоба определена: он удалён либо поставлен в очередь
// отложенной очистки. Из состояния Empty удаление невозможно.
func (uc *DeleteBookmarkLinkUseCase) Execute(ctx context.Context, userID uuid.UUID) error {
	logger := contextkeys.LoggerFromContext(ctx)
	ucLogger := logger.WithFields(port.Fields{
		"use_case": "DeleteBookmarkLink",
		"user_id":  userID,
	})

	ucLogger.Info("Use case started", nil)

	oldKey, err := uc.links.GetFileKey(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrLinkNotFound) {
			ucLogger.Warn("No bookmark link to delete", nil)
			return err
		}
		ucLogger.Error("Failed to read current bookmark link", err, nil)
		return fmt.Errorf("failed to read current bookmark link: %w", err)
	}

	deleted, delErr := uc.blobs.DeleteFile(ctx, oldKey)
	if delErr != nil || !deleted {
		if delErr != nil {
			ucLogger.Warn("Blob deletion request failed, falling back to deferred cleanup", port.Fields{
				"old_key": oldKey, "error": delErr.Error(),
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
			return fmt.Errorf("failed to dispose blob %q: %w", oldKey, qErr)
		}
		ucLogger.Info("Blob scheduled for deferred cleanup", port.Fields{"old_key": oldKey, "task_id": task.TaskID})
	}

	if err := uc.links.ClearFileKey(ctx, userID); err != nil {
		ucLogger.Error("Failed to clear bookmark link", err, nil)
		return fmt.Errorf("failed to clear bookmark link: %w", err)
	}

	ucLogger.Info("Use case finished successfully", port.Fields{"old_key": oldKey})
	return nil
}
