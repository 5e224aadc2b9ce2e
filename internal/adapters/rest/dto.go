package rest

// AddFavouriteRequest - тело запроса на добавление в избранное.
type AddFavouriteRequest struct {
	Title string `json:"title"`
	URL   string `json:"url"`
}

// UpdateFavouriteRequest - тело запроса на переименование/перенацеливание.
// Пустые title/url означают "поле не менять".
type UpdateFavouriteRequest struct {
	Title  string `json:"title"`
	URL    string `json:"url"`
	OldURL string `json:"oldUrl"`
}

// ReorderPairDTO - одна пара (url, order) в запросе на переупорядочивание.
type ReorderPairDTO struct {
	URL   string `json:"url"`
	Order int    `json:"order"`
}

// ReorderFavouritesRequest - тело запроса PUT /favouritesReorder.
type ReorderFavouritesRequest struct {
	UpdatedFavourites []ReorderPairDTO `json:"updatedFavourites"`
}

// FavouriteListItemResponse - элемент ответа GET /favourites.
type FavouriteListItemResponse struct {
	Title string `json:"title"`
	URL   string `json:"url"`
	Order int    `json:"order"`
}

// FavouriteResponse - ответ на создание/обновление записи.
type FavouriteResponse struct {
	Title string `json:"title"`
	URL   string `json:"url"`
}

// SetBookmarkRequest - тело запроса POST /bookmark.
type SetBookmarkRequest struct {
	FileKey string `json:"fileKey"`
}

// BookmarkResponse - ответ GET /bookmark.
type BookmarkResponse struct {
	FileKey string `json:"fileKey"`
}

// MessageResponse - ответ с человекочитаемым сообщением.
type MessageResponse struct {
	Message string `json:"message"`
}

// ErrorResponse - стандартная структура для ответа с ошибкой.
type ErrorResponse struct {
	Error string `json:"error"`
}
