package usecases_port

import (
	"context"

	"github.com/google/uuid"
)

type DeleteBookmarkLinkUseCasePort interface {
	Execute(ctx context.Context, userID uuid.UUID) error
}
