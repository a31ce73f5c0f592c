package notifications

import "errors"

var (
	// ErrNotificationNotFound возвращается, когда уведомление не найдено или принадлежит другому пользователю
	ErrNotificationNotFound = errors.New("notifications: notification not found")

	// ErrUnauthenticated возвращается без идентифицированного пользователя
	ErrUnauthenticated = errors.New("notifications: unauthenticated")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("notifications: internal error")
)
