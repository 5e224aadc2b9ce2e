package usecase

import (
	"context"

	"github.com/Divyanshu-Bhandari/browzfast/internal/contextkeys"
	"github.com/Divyanshu-Bhandari/browzfast/internal/core/port"

	"github.com/google/uuid"
)

type GetBookmarkLinkUseCase struct {
	links port.BookmarkLinkRepositoryPort
}

func NewGetBookmarkLinkUseCase(links port.BookmarkLinkRepositoryPort) *GetBookmarkLinkUseCase {
	return &GetBookmarkLinkUseCase{links: links}
}

// Execute возвращает текущий ключ файла закладок пользователя.
// Существование самого блоба не проверяется: после сбоя между удалением
// блоба и перезаписью указателя ключ может указывать в пустоту - это
// проявится как ошибка скачивания у потребителя, а не как ошибка сервера.
func (uc *GetBookmarkLinkUseCase) Execute(ctx context.Context, userID uuid.UUID) (string, error) {
	logger := contextkeys.LoggerFromContext(ctx)
	ucLogger := logger.WithFields(port.Fields{
		"use_case": "GetBookmarkLink",
		"user_id":  userID,
	})

	ucLogger.Info("Use case started", nil)

	fileKey, err := uc.links.GetFileKey(ctx, userID)
	if err != nil {
		ucLogger.Warn("No bookmark link for user", port.Fields{"error": err.Error()})
		return "", err
	}

	ucLogger.Info("Use case finished successfully", nil)
	return fileKey, nil
}
