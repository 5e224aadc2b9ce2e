package usecases_port

import (
	"context"

	"github.com/google/uuid"
)

// SetBookmarkLinkUseCasePort привязывает новый ключ файла закладок.
// created=true означает, что указателя раньше не было (первая загрузка).
type SetBookmarkLinkUseCasePort interface {
	Execute(ctx context.Context, userID uuid.UUID, fileKey string) (created bool, err error)
}
