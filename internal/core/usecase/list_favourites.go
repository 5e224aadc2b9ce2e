package usecase

import (
	"context"
	"fmt"

	"github.com/Divyanshu-Bhandari/browzfast/internal/contextkeys"
	"github.com/Divyanshu-Bhandari/browzfast/internal/core/domain"
	"github.com/Divyanshu-Bhandari/browzfast/internal/core/port"

	"github.com/google/uuid"
)

type ListFavouritesUseCase struct {
	repo port.FavouritesRepositoryPort
}

func NewListFavouritesUseCase(repo port.FavouritesRepositoryPort) *ListFavouritesUseCase {
	return &ListFavouritesUseCase{repo: repo}
}

// Execute возвращает избранное пользователя, отсортированное по order ASC,
// затем по created_at ASC. Побочных эффектов нет: два вызова подряд без
// промежуточных мутаций возвращают одинаковый результат.
func (uc *ListFavouritesUseCase) Execute(ctx context.Context, userID uuid.UUID) ([]domain.FavouriteEntry, error) {
	logger := contextkeys.LoggerFromContext(ctx)
	ucLogger := logger.WithFields(port.Fields{
		"use_case": "ListFavourites",
		"user_id":  userID,
	})

	ucLogger.Info("Use case started", nil)

	entries, err := uc.repo.ListByUser(ctx, userID)
	if err != nil {
		ucLogger.Error("Failed to list favourites from repository", err, nil)
		return nil, fmt.Errorf("failed to list favourites: %w", err)
	}

	ucLogger.Info("Use case finished successfully", port.Fields{"count": len(entries)})
	return entries, nil
}
