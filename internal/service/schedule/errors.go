package schedule

import "errors"

var (
	// ErrSlotNotFound возвращается, когда слот не найден
	ErrSlotNotFound = errors.New("schedule: slot not found")

	// ErrServiceNotFound возвращается, когда услуга слота не найдена
	ErrServiceNotFound = errors.New("schedule: service not found")

	// ErrPermissionDenied возвращается, когда операция доступна только администратору
	ErrPermissionDenied = errors.New("schedule: permission denied")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("schedule: invalid input data")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("schedule: internal error")
)
