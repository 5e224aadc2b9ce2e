package usecases_port

import (
	"context"

	"github.com/Divyanshu-Bhandari/browzfast/internal/core/domain"

	"github.com/google/uuid"
)

type UpdateFavouriteUseCasePort interface {
	Execute(ctx context.Context, userID uuid.UUID, oldURL, newTitle, newURL string) (*domain.FavouriteEntry, error)
}
