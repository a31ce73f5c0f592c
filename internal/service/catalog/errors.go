package catalog

import "errors"

var (
	// ErrServiceNotFound возвращается, когда услуга не найдена или не видна пользователю
	ErrServiceNotFound = errors.New("catalog: service not found")

	// ErrPermissionDenied возвращается, когда операция доступна только администратору
	ErrPermissionDenied = errors.New("catalog: permission denied")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("catalog: invalid input data")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("catalog: internal error")
)
