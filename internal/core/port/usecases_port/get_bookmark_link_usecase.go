package usecases_port

import (
	"context"

	"github.com/google/uuid"
)

type GetBookmarkLinkUseCasePort interface {
	Execute(ctx context.Context, userID uuid.UUID) (string, error)
}
