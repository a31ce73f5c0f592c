package appointments

import "errors"

var (
	// ErrAppointmentNotFound возвращается, когда запись не найдена или не видна пользователю
	ErrAppointmentNotFound = errors.New("appointments: appointment not found")

	// ErrPermissionDenied возвращается, когда у пользователя нет прав на операцию
	ErrPermissionDenied = errors.New("appointments: permission denied")

	// ErrInvalidTransition возвращается при недопустимой смене статуса
	ErrInvalidTransition = errors.New("appointments: invalid status transition")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("appointments: invalid input data")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("appointments: internal error")
)
