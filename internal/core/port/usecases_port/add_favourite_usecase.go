package usecases_port

import (
	"context"

	"github.com/Divyanshu-Bhandari/browzfast/internal/core/domain"

	"github.com/google/uuid"
)

type AddFavouriteUseCasePort interface {
	Execute(ctx context.Context, userID uuid.UUID, title, url string) (*domain.FavouriteEntry, error)
}
