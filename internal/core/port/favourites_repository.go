package port

import (
	"context"

	"github.com/Divyanshu-Bhandari/browzfast/internal/core/domain"

	"github.com/google/uuid"
)

// FavouriteUpdate описывает частичное обновление записи: nil-поле не трогается.
type FavouriteUpdate struct {
	Title *string
	URL   *string
}

// FavouritesRepositoryPort - контракт для адаптера, работающего с БД избранного.
//
// Инварианты "не более MaxFavourites на пользователя" и "url уникален в пределах
// пользователя" обязан обеспечивать сам адаптер (уникальный индекс + условный
// insert), а не вызывающий код: проверка-потом-запись не выдерживает
// конкурентных запросов с нескольких устройств.
type FavouritesRepositoryPort interface {
	// Insert добавляет запись. Возвращает domain.ErrLimitExceeded при
	// достижении лимита и domain.ErrDuplicate при конфликте по (user_id, url).
	Insert(ctx context.Context, userID uuid.UUID, title, url string) (*domain.FavouriteEntry, error)

	// ListByUser возвращает записи, отсортированные по order ASC,
	// затем по created_at ASC.
	ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.FavouriteEntry, error)

	// Update изменяет запись, найденную по (userID, oldURL).
	// domain.ErrNotFound - если записи нет, domain.ErrDuplicate - если новый
	// url конфликтует с другой записью того же пользователя.
	Update(ctx context.Context, userID uuid.UUID, oldURL string, upd FavouriteUpdate) (*domain.FavouriteEntry, error)

	// Delete удаляет запись по (userID, url). domain.ErrNotFound - если записи нет.
	Delete(ctx context.Context, userID uuid.UUID, url string) error

	// Reorder применяет все пары (url, order) в одной транзакции:
	// либо применяются все, либо ни одна.
	Reorder(ctx context.Context, userID uuid.UUID, pairs []domain.ReorderPair) error

	// CountByUser возвращает текущее число записей пользователя.
	CountByUser(ctx context.Context, userID uuid.UUID) (int, error)
}
