package domain

import (
	"net/url"
	"strings"
)

// CleanFavourite канонизирует пару (title, url) перед любой записью.
// Правила:
//   - title обрезается по пробелам; пустой title заменяется на исходный url
//     (до нормализации, как его ввёл пользователь);
//   - url обрезается и приводится к нижнему регистру;
//   - если url не начинается с "http://" или "https://", добавляется
//     префикс "https://" и завершающий "/".
//
// Функция чистая и тотальная: ошибок нет, любой вход даёт результат.
func CleanFavourite(title, rawURL string) (cleanTitle, cleanURL string) {
	cleanTitle = strings.TrimSpace(title)
	if cleanTitle == "" {
		cleanTitle = rawURL
	}

	cleanURL = strings.ToLower(strings.TrimSpace(rawURL))
	if !strings.HasPrefix(cleanURL, "http://") && !strings.HasPrefix(cleanURL, "https://") {
		cleanURL = "https://" + cleanURL + "/"
	}
	return cleanTitle, cleanURL
}

// FaviconURL собирает ссылку на иконку сайта через сервис фавиконок Google.
// Сама иконка может не существовать - потребитель обязан переживать битую
// картинку, поэтому проверок здесь нет.
func FaviconURL(siteURL string) string {
	return "https://www.google.com/s2/favicons?domain=" + url.QueryEscape(siteURL) + "&sz=128"
}
