package update_appointment

import "errors"

var (
	// ErrAppointmentNotFound возвращается, когда запись не найдена
	ErrAppointmentNotFound = errors.New("update_appointment: appointment not found")

	// ErrPermissionDenied возвращается, когда пользователь не владелец и не администратор
	ErrPermissionDenied = errors.New("update_appointment: permission denied")

	// ErrNotEditable возвращается, когда запись в текущем статусе нельзя изменить
	ErrNotEditable = errors.New("update_appointment: appointment cannot be edited in its current status")

	// ErrServiceNotFound возвращается, когда новая услуга не найдена
	ErrServiceNotFound = errors.New("update_appointment: service not found")

	// ErrServiceInactive возвращается, когда новая услуга отключена
	ErrServiceInactive = errors.New("update_appointment: service is inactive")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("update_appointment: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("update_appointment: internal error")
)
