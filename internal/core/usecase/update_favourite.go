package usecase

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/Divyanshu-Bhandari/browzfast/internal/contextkeys"
	"github.com/Divyanshu-Bhandari/browzfast/internal/core/domain"
	"github.com/Divyanshu-Bhandari/browzfast/internal/core/port"

	"github.com/google/uuid"
)

type UpdateFavouriteUseCase struct {
	repo port.FavouritesRepositoryPort
}

func NewUpdateFavouriteUseCase(repo port.FavouritesRepositoryPort) *UpdateFavouriteUseCase {
	return &UpdateFavouriteUseCase{repo: repo}
}

// Execute переименовывает и/или перенацеливает запись, найденную по
// (userID, oldURL). Пустая строка в newTitle/newURL означает "поле не менять";
// хотя бы одно из них должно быть задано.
func (uc *UpdateFavouriteUseCase) Execute(ctx context.Context, userID uuid.UUID, oldURL, newTitle, newURL string) (*domain.FavouriteEntry, error) {
	logger := contextkeys.LoggerFromContext(ctx)
	ucLogger := logger.WithFields(port.Fields{
		"use_case": "UpdateFavourite",
		"user_id":  userID,
		"old_url":  oldURL,
	})

	ucLogger.Info("Use case started", nil)

	if oldURL == "" {
		ucLogger.Warn("Old URL is required", nil)
		return nil, fmt.Errorf("%w: oldUrl is required", domain.ErrInvalidInput)
	}
	if newTitle == "" && newURL == "" {
		ucLogger.Warn("At least one of title or url must be provided", nil)
		return nil, fmt.Errorf("%w: title or url is required", domain.ErrInvalidInput)
	}
	if utf8.RuneCountInString(newTitle) > domain.MaxTitleLength {
		ucLogger.Warn("Title is too long", port.Fields{"length": utf8.RuneCountInString(newTitle)})
		return nil, fmt.Errorf("%w: title must be at most %d characters", domain.ErrInvalidInput, domain.MaxTitleLength)
	}
	if len(newURL) > domain.MaxURLLength {
		ucLogger.Warn("URL is too long", port.Fields{"length": len(newURL)})
		return nil, fmt.Errorf("%w: url must be at most %d characters", domain.ErrInvalidInput, domain.MaxURLLength)
	}

	var upd port.FavouriteUpdate
	if newURL != "" {
		// Нормализуем пару целиком: title из одних пробелов подменяется на url.
		cleanTitle, cleanURL := domain.CleanFavourite(newTitle, newURL)
		upd.URL = &cleanURL
		if newTitle != "" {
			upd.Title = &cleanTitle
		}
	} else {
		cleanTitle := strings.TrimSpace(newTitle)
		if cleanTitle == "" {
			ucLogger.Warn("Title became empty after trimming", nil)
			return nil, fmt.Errorf("%w: title must not be blank", domain.ErrInvalidInput)
		}
		upd.Title = &cleanTitle
	}

	entry, err := uc.repo.Update(ctx, userID, oldURL, upd)
	if err != nil {
		// ErrNotFound и ErrDuplicate - ожидаемые исходы.
		ucLogger.Warn("Repository rejected update", port.Fields{"error": err.Error()})
		return nil, err
	}

	ucLogger.Info("Use case finished successfully", port.Fields{"url": entry.URL})
	return entry, nil
}
