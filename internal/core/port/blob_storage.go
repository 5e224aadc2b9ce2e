package port

import "context"

// BlobStoragePort - контракт для внешнего файлового хранилища, в котором
// лежат загруженные пользователями файлы закладок.
type BlobStoragePort interface {
	// DeleteFile пытается удалить блоб. Возвращает (true, nil), если хранилище
	// подтвердило удаление; (false, nil), если хранилище ответило, но удаление
	// не подтверждено; ошибку - если запрос вообще не удался.
	DeleteFile(ctx context.Context, fileKey string) (bool, error)

	// FileURL возвращает публичный URL для скачивания блоба. Существование
	// блоба не проверяется: протухший указатель проявится как ошибка загрузки
	// у потребителя.
	FileURL(fileKey string) string
}
