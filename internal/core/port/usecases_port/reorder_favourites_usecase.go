package usecases_port

import (
	"context"

	"github.com/Divyanshu-Bhandari/browzfast/internal/core/domain"

	"github.com/google/uuid"
)

type ReorderFavouritesUseCasePort interface {
	Execute(ctx context.Context, userID uuid.UUID, pairs []domain.ReorderPair) error
}
