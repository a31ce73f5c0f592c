package get_available_slots

import (
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

// Request модель запроса на получение доступных слотов
type Request struct {
	ServiceID int64     // ID услуги
	Date      time.Time // Дата для получения слотов (без времени)
}

// Response модель ответа со слотами на дату
type Response struct {
	ServiceID int64          // ID услуги
	Date      time.Time      // Дата, на которую запрашивались слоты
	DayOfWeek domain.Weekday // День недели даты
	Slots     []Slot         // Открытые слоты в порядке начала
}

// Slot слот расписания с занятостью на дату
type Slot struct {
	SlotID           int64
	StartTime        types.TimeString
	EndTime          types.TimeString
	Capacity         int
	RemainingAtStart int          // Свободных мест на время начала слота
	Times            []TimeOption // Варианты времени с шагом длительности услуги
}

// TimeOption время записи внутри слота
type TimeOption struct {
	Time           types.TimeString // Время начала (например, "10:00")
	Booked         int              // Занято мест (pending + approved)
	AvailableSpots int              // Свободно мест
}
