// Package apperr описывает типизированные ошибки бизнес-логики.
// Сервисы возвращают их без знания о транспорте, HTTP-слой по виду
// ошибки выбирает код ответа.
package apperr

import (
	"errors"
	"fmt"
)

// Kind — вид ошибки бизнес-логики.
type Kind int

const (
	// KindUnknown — ошибка не из этого пакета (сбой хранилища и т.п.).
	KindUnknown Kind = iota
	KindValidation
	KindNotFound
	KindUnauthorized
	KindForbidden
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindNotFound:
		return "not_found"
	case KindUnauthorized:
		return "unauthorized"
	case KindForbidden:
		return "forbidden"
	}
	return "unknown"
}

// Error — ошибка с видом и сообщением, безопасным для показа клиенту.
type Error struct {
	Kind    Kind
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

// Validation — входные данные не прошли проверку.
func Validation(msg string) error {
	return &Error{Kind: KindValidation, Message: msg}
}

// NotFound — запись отсутствует или принадлежит другому пользователю.
func NotFound(resource, id string) error {
	return &Error{Kind: KindNotFound, Message: fmt.Sprintf("%s with id %s not found", resource, id)}
}

// Unauthorized — нет аутентифицированного пользователя.
func Unauthorized(msg string) error {
	return &Error{Kind: KindUnauthorized, Message: msg}
}

// Forbidden — у пользователя недостаточно прав.
func Forbidden(msg string) error {
	return &Error{Kind: KindForbidden, Message: msg}
}

// KindOf возвращает вид ошибки или KindUnknown, если err не из этого пакета.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

// Is сообщает, что err относится к виду kind.
func Is(err error, kind Kind) bool {
	return KindOf(err) == kind
}
