package usecase

import (
	"context"
	"fmt"

	"github.com/Divyanshu-Bhandari/browzfast/internal/contextkeys"
	"github.com/Divyanshu-Bhandari/browzfast/internal/core/domain"
	"github.com/Divyanshu-Bhandari/browzfast/internal/core/port"

	"github.com/google/uuid"
)

type DeleteFavouriteUseCase struct {
	repo port.FavouritesRepositoryPort
}

func NewDeleteFavouriteUseCase(repo port.FavouritesRepositoryPort) *DeleteFavouriteUseCase {
	return &DeleteFavouriteUseCase{repo: repo}
}

// Execute удаляет запись по (userID, url). Повторное удаление того же url
// возвращает domain.ErrNotFound - мягкого "уже удалено" здесь нет.
func (uc *DeleteFavouriteUseCase) Execute(ctx context.Context, userID uuid.UUID, url string) error {
	logger := contextkeys.LoggerFromContext(ctx)
	ucLogger := logger.WithFields(port.Fields{
		"use_case": "DeleteFavourite",
		"user_id":  userID,
		"url":      url,
	})

	ucLogger.Info("Use case started", nil)

	if url == "" {
		ucLogger.Warn("URL is required", nil)
		return fmt.Errorf("%w: url is required", domain.ErrInvalidInput)
	}

	if err := uc.repo.Delete(ctx, userID, url); err != nil {
		ucLogger.Warn("Repository rejected delete", port.Fields{"error": err.Error()})
		return err
	}

	ucLogger.Info("Use case finished successfully", nil)
	return nil
}
