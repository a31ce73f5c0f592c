package schedule

import (
	"context"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

// SlotRepository интерфейс репозитория слотов
type SlotRepository interface {
	Create(ctx context.Context, s *domain.AvailabilitySlot) (*domain.AvailabilitySlot, error)
	GetByID(ctx context.Context, id int64) (*domain.AvailabilitySlot, error)
	ListByService(ctx context.Context, serviceID int64) ([]*domain.AvailabilitySlot, error)
	ListForWeekday(ctx context.Context, serviceID int64, weekday domain.Weekday) ([]*domain.AvailabilitySlot, error)
	Update(ctx context.Context, s *domain.AvailabilitySlot) (*domain.AvailabilitySlot, error)
	Delete(ctx context.Context, id int64) error
}

// ServiceRepository проверка существования услуги
type ServiceRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Service, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
