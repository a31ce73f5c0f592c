package update_appointment

import (
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/internal/service/appointments/models"
	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

// Request изменение записи. Все поля опциональны
type Request struct {
	Principal     domain.Principal
	AppointmentID int64
	ServiceID     *int64
	Date          *time.Time
	Time          *types.TimeString
	Notes         *string
}

// Response изменённая запись
type Response = models.AppointmentResponse
