package usecase

import (
	"context"
	"fmt"

	"github.com/Divyanshu-Bhandari/browzfast/internal/contextkeys"
	"github.com/Divyanshu-Bhandari/browzfast/internal/core/domain"
	"github.com/Divyanshu-Bhandari/browzfast/internal/core/port"

	"github.com/google/uuid"
)

type ReorderFavouritesUseCase struct {
	repo port.FavouritesRepositoryPort
}

func NewReorderFavouritesUseCase(repo port.FavouritesRepositoryPort) *ReorderFavouritesUseCase {
	return &ReorderFavouritesUseCase{repo: repo}
}

// Execute применяет пакет пар (url, order) как одно видимое изменение:
// репозиторий выполняет все обновления в одной транзакции, поэтому при сбое
// на любой паре порядок остаётся прежним целиком. Клиент присылает плотные
// значения 0..N-1, но сервер этого не требует - достаточно неотрицательности.
func (uc *ReorderFavouritesUseCase) Execute(ctx context.Context, userID uuid.UUID, pairs []domain.ReorderPair) error {
	logger := contextkeys.LoggerFromContext(ctx)
	ucLogger := logger.WithFields(port.Fields{
		"use_case": "ReorderFavourites",
		"user_id":  userID,
		"pairs":    len(pairs),
	})

	ucLogger.Info("Use case started", nil)

	if len(pairs) == 0 {
		ucLogger.Warn("Empty reorder list", nil)
		return fmt.Errorf("%w: updatedFavourites must not be empty", domain.ErrInvalidInput)
	}
	for _, p := range pairs {
		if p.URL == "" {
			ucLogger.Warn("Reorder pair with empty url", nil)
			return fmt.Errorf("%w: every pair requires a url", domain.ErrInvalidInput)
		}
		if p.Order < 0 {
			ucLogger.Warn("Reorder pair with negative order", port.Fields{"url": p.URL, "order": p.Order})
			return fmt.Errorf("%w: order must be non-negative", domain.ErrInvalidInput)
		}
	}

	if err := uc.repo.Reorder(ctx, userID, pairs); err != nil {
		ucLogger.Error("Repository failed to apply reorder batch", err, nil)
		return fmt.Errorf("failed to reorder favourites: %w", err)
	}

	ucLogger.Info("Use case finished successfully", nil)
	return nil
}
