package postgres_adapter

import (
	"fmt"
	"strings"

	"github.com/Divyanshu-Bhandari/browzfast/internal/core/port"
)

// buildFavouriteUpdateSet собирает SET-часть частичного UPDATE.
// firstArg - номер первого placeholder'а (предыдущие заняты WHERE-аргументами).
// nil-поля пропускаются; при пустом обновлении возвращается пустая строка.
func buildFavouriteUpdateSet(upd port.FavouriteUpdate, firstArg int) (string, []any) {
	setParts := make([]string, 0, 2)
	args := make([]any, 0, 2)

	next := firstArg
	if upd.Title != nil {
		setParts = append(setParts, fmt.Sprintf("title = $%d", next))
		args = append(args, *upd.Title)
		next++
	}
	if upd.URL != nil {
		setParts = append(setParts, fmt.Sprintf("url = $%d", next))
		args = append(args, *upd.URL)
		next++
	}

	return strings.Join(setParts, ", "), args
}
