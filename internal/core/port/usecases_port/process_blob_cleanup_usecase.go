package usecases_port

import (
	"context"

	"github.com/Divyanshu-Bhandari/browzfast/internal/core/domain"
)

type ProcessBlobCleanupUseCasePort interface {
	Execute(ctx context.Context, task domain.BlobCleanupTask) error
}
