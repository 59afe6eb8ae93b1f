// Package storage объявляет ошибки уровня хранилища, общие для всех
// реализаций репозиториев.
package storage

import "errors"

var (
	// ErrNotFound — запись не найдена (в том числе чужая подписка).
	ErrNotFound = errors.New("record not found")
	// ErrCategoryExists — категория с таким именем уже существует.
	ErrCategoryExists = errors.New("category already exists")
	// ErrUserNotFound — пользователь не найден.
	ErrUserNotFound = errors.New("user not found")
	// ErrUserExists — пользователь с таким e-mail уже существует.
	ErrUserExists = errors.New("user already exists")
)
