package usecase

import (
	"context"
	"fmt"

	"github.com/Divyanshu-Bhandari/browzfast/internal/contextkeys"
	"github.com/Divyanshu-Bhandari/browzfast/internal/core/domain"
	"github.com/Divyanshu-Bhandari/browzfast/internal/core/port"
)

type ProcessBlobCleanupUseCase struct {
	blobs port.BlobStoragePort
}

func NewProcessBlobCleanupUseCase(blobs port.BlobStoragePort) *ProcessBlobCleanupUseCase {
	return &ProcessBlobCleanupUseCase{blobs: blobs}
}

// Execute повторяет удаление блоба из задачи отложенной очистки.
// Возврат ошибки означает "не удалось и в этот раз" - консьюмер вернёт
// сообщение в очередь на новую попытку.
func (uc *ProcessBlobCleanupUseCase) Execute(ctx context.Context, task domain.BlobCleanupTask) error {
	logger := contextkeys.LoggerFromContext(ctx)
	ucLogger := logger.WithFields(port.Fields{
		"use_case": "ProcessBlobCleanup",
		"task_id":  task.TaskID,
		"file_key": task.FileKey,
	})

	ucLogger.Info("Use case started", nil)

	deleted, err := uc.blobs.DeleteFile(ctx, task.FileKey)
	if err != nil {
		ucLogger.Error("Blob deletion retry failed", err, nil)
		return fmt.Errorf("cleanup retry for %q failed: %w", task.FileKey, err)
	}
	if !deleted {
		ucLogger.Warn("Blob deletion still not confirmed", nil)
		return fmt.Errorf("cleanup retry for %q was not confirmed", task.FileKey)
	}

	ucLogger.Info("Use case finished successfully", nil)
	return nil
}
