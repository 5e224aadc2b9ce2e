package usecases_port

import (
	"context"

	"github.com/Divyanshu-Bhandari/browzfast/internal/core/domain"

	"github.com/google/uuid"
)

type ListFavouritesUseCasePort interface {
	Execute(ctx context.Context, userID uuid.UUID) ([]domain.FavouriteEntry, error)
}
