package port

import (
	"context"

	"github.com/google/uuid"
)

// BookmarkLinkRepositoryPort - контракт для хранения указателя
// "пользователь -> ключ файла закладок". Не более одного живого ключа
// на пользователя.
type BookmarkLinkRepositoryPort interface {
	// GetFileKey возвращает текущий ключ. domain.ErrLinkNotFound - если
	// указатель пуст.
	GetFileKey(ctx context.Context, userID uuid.UUID) (string, error)

	// SetFileKey привязывает новый ключ (создаёт указатель при первом вызове).
	SetFileKey(ctx context.Context, userID uuid.UUID, fileKey string) error

	// ClearFileKey очищает указатель. domain.ErrLinkNotFound - если он уже пуст.
	ClearFileKey(ctx context.Context, userID uuid.UUID) error
}
