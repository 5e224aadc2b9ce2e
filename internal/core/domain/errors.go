package domain

import "errors"

// Определяем переменные-ошибки, которые могут быть возвращены из Use Cases.
var (
	ErrInvalidInput  = errors.New("invalid input")
	ErrLimitExceeded = errors.New("favorite limit reached")
	ErrDuplicate     = errors.New("favourite already exists")
	ErrNotFound      = errors.New("favourite not found")
	ErrLinkNotFound  = errors.New("file key not found")
)
