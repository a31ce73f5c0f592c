package update_appointment

import (
	"fmt"
	"unicode/utf8"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if req.AppointmentID <= 0 {
		return fmt.Errorf("%w: appointmentID must be positive", ErrInvalidInput)
	}

	if req.ServiceID != nil && *req.ServiceID <= 0 {
		return fmt.Errorf("%w: serviceID must be positive", ErrInvalidInput)
	}

	if req.Date != nil && req.Date.IsZero() {
		return fmt.Errorf("%w: date must not be empty", ErrInvalidInput)
	}

	if req.Time != nil {
		if err := req.Time.Validate(); err != nil {
			return fmt.Errorf("%w: invalid time format: %v", ErrInvalidInput, err)
		}
	}

	if req.Notes != nil && utf8.RuneCountInString(*req.Notes) > domain.MaxNotesLength {
		return fmt.Errorf("%w: notes must be at most %d characters", ErrInvalidInput, domain.MaxNotesLength)
	}

	return nil
}

// checkEditable владелец меняет запись только пока она pending,
// администратор - пока статус не терминальный
func checkEditable(principal domain.Principal, a *domain.Appointment) error {
	if !principal.Can(domain.ActionEditAppointment, a.UserID) {
		return ErrPermissionDenied
	}
	if principal.IsAdmin() {
		if a.IsTerminal() {
			return fmt.Errorf("%w: status %s", ErrNotEditable, a.Status)
		}
		return nil
	}
	if a.Status != domain.StatusPending {
		return fmt.Errorf("%w: status %s", ErrNotEditable, a.Status)
	}
	return nil
}
