package domain

import (
	"time"

	"github.com/google/uuid"
)

// Лимиты, которые раньше были "размазаны" по фронтенду (maxLength у инпутов
// и проверка favouritesCount >= 20). Теперь это инварианты ядра.
const (
	MaxFavourites  = 20
	MaxTitleLength = 100
	MaxURLLength   = 255
)

// FavouriteEntry представляет собой одну запись избранного сайта пользователя.
// URL уникален в пределах одного пользователя.
type FavouriteEntry struct {
	UserID    uuid.UUID
	Title     string
	URL       string
	Order     int
	CreatedAt time.Time
}

// ReorderPair - пара (url, order) при массовом изменении порядка.
type ReorderPair struct {
	URL   string
	Order int
}
