package usecases_port

import (
	"context"

	"github.com/google/uuid"
)

type DeleteFavouriteUseCasePort interface {
	Execute(ctx context.Context, userID uuid.UUID, url string) error
}
