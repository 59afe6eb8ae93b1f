// Package sl содержит вспомогательные атрибуты для логгера slog.
package sl

import "log/slog"

// Err возвращает атрибут "error" с текстом ошибки. Для nil пишется пустая строка.
//
//	log.Error("failed to list subscriptions", sl.Err(err))
func Err(err error) slog.Attr {
	if err == nil {
		return slog.String("error", "")
	}
	return slog.String("error", err.Error())
}

// UserID возвращает атрибут с идентификатором пользователя.
func UserID(id string) slog.Attr {
	return slog.String("user_id", id)
}
