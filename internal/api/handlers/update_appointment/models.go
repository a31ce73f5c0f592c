package update_appointment

import (
	"errors"
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	updateAppointment "github.com/m04kA/SMC-AppointmentService/internal/usecase/update_appointment"
	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

var (
	errInvalidDate = errors.New("invalid date")
	errInvalidTime = errors.New("invalid time")
)

// UpdateAppointmentRequest HTTP request model, все поля опциональны
type UpdateAppointmentRequest struct {
	ServiceID *int64  `json:"serviceId,omitempty"`
	Date      *string `json:"date,omitempty"`
	Time      *string `json:"time,omitempty"`
	Notes     *string `json:"notes,omitempty"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *UpdateAppointmentRequest) ToUseCaseRequest(principal domain.Principal, appointmentID int64) (*updateAppointment.Request, error) {
	req := &updateAppointment.Request{
		Principal:     principal,
		AppointmentID: appointmentID,
		ServiceID:     r.ServiceID,
		Notes:         r.Notes,
	}

	if r.Date != nil {
		date, err := time.Parse(domain.DateFormat, *r.Date)
		if err != nil {
			return nil, errInvalidDate
		}
		req.Date = &date
	}

	if r.Time != nil {
		at, err := types.NewTimeStringFromString(*r.Time)
		if err != nil {
			return nil, errInvalidTime
		}
		req.Time = &at
	}

	return req, nil
}
