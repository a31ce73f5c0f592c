package create_appointment

import (
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/service/appointments/models"
	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

// Request модель запроса на запись
type Request struct {
	UserID    int64            // ID пользователя из principal
	ServiceID int64            // ID услуги
	Date      time.Time        // Дата записи (без времени)
	Time      types.TimeString // Время записи, например "09:00"
	Notes     *string          // Заметки пользователя (опционально)
}

// Response созданная запись
type Response = models.AppointmentResponse
