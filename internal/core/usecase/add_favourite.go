package usecase

import (
	"context"
	"fmt"
	"unicode/utf8"

	"github.com/Divyanshu-Bhandari/browzfast/internal/contextkeys"
	"github.com/Divyanshu-Bhandari/browzfast/internal/core/domain"
	"github.com/Divyanshu-Bhandari/browzfast/internal/core/port"

	"github.com/google/uuid"
)

type AddFavouriteUseCase struct {
	repo port.FavouritesRepositoryPort
}

func NewAddFavouriteUseCase(repo port.FavouritesRepositoryPort) *AddFavouriteUseCase {
	return &AddFavouriteUseCase{repo: repo}
}

// Execute нормализует пару (title, url) и добавляет запись в избранное.
//
// Лимит и дедупликация здесь НЕ проверяются предварительным чтением:
// репозиторий обязан обеспечить их атомарно (условный insert + уникальный
// индекс), иначе два параллельных запроса с разных вкладок обойдут проверку.
func (uc *AddFavouriteUseCase) Execute(ctx context.Context, userID uuid.UUID, title, url string) (*domain.FavouriteEntry, error) {
	logger := contextkeys.LoggerFromContext(ctx)
	ucLogger := logger.WithFields(port.Fields{
		"use_case": "AddFavourite",
		"user_id":  userID,
	})

	ucLogger.Info("Use case started", nil)

	if title == "" || url == "" {
		ucLogger.Warn("Title and URL are required", nil)
		return nil, fmt.Errorf("%w: title and url are required", domain.ErrInvalidInput)
	}
	if utf8.RuneCountInString(title) > domain.MaxTitleLength {
		ucLogger.Warn("Title is too long", port.Fields{"length": utf8.RuneCountInString(title)})
		return nil, fmt.Errorf("%w: title must be at most %d characters", domain.ErrInvalidInput, domain.MaxTitleLength)
	}
	if len(url) > domain.MaxURLLength {
		ucLogger.Warn("URL is too long", port.Fields{"length": len(url)})
		return nil, fmt.Errorf("%w: url must be at most %d characters", domain.ErrInvalidInput, domain.MaxURLLength)
	}

	cleanTitle, cleanURL := domain.CleanFavourite(title, url)

	entry, err := uc.repo.Insert(ctx, userID, cleanTitle, cleanURL)
	if err != nil {
		// ErrLimitExceeded и ErrDuplicate - ожидаемые исходы, не аварии.
		ucLogger.Warn("Repository rejected insert", port.Fields{"error": err.Error(), "url": cleanURL})
		return nil, err
	}

	ucLogger.Info("Use case finished successfully", port.Fields{"url": entry.URL})
	return entry, nil
}
