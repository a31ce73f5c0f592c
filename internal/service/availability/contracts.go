package availability

import (
	"context"
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

// SlotRepository чтение слотов, покрывающих время записи
type SlotRepository interface {
	ListCovering(ctx context.Context, serviceID int64, weekday domain.Weekday, at types.TimeString) ([]*domain.AvailabilitySlot, error)
}

// AppointmentRepository подсчёт записей, занимающих место
type AppointmentRepository interface {
	CountActiveAt(ctx context.Context, serviceID int64, date time.Time, at types.TimeString, excludeID *int64) (int, error)
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
