package availability

import (
	"context"
	"fmt"
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

// Candidate предполагаемая запись, которую нужно проверить
type Candidate struct {
	ServiceID int64
	Date      time.Time
	Time      types.TimeString

	// ExcludeAppointmentID запись, которая не учитывается при подсчёте (перенос существующей)
	ExcludeAppointmentID *int64
}

// Resolution результат успешной проверки
type Resolution struct {
	Slot              *domain.AvailabilitySlot
	Booked            int
	RemainingCapacity int
}

// Resolver решает, можно ли записаться на услугу в указанные дату и время.
// Только читает данные; при вызове внутри транзакции слоты блокируются FOR UPDATE.
type Resolver struct {
	slotRepo        SlotRepository
	appointmentRepo AppointmentRepository
	location        *time.Location
	timeProvider    TimeProvider
	logger          Logger
}

// NewResolver создает резолвер. loc - часовой пояс, в котором задаются дата и время записи
func NewResolver(
	slotRepo SlotRepository,
	appointmentRepo AppointmentRepository,
	loc *time.Location,
	logger Logger,
) *Resolver {
	if loc == nil {
		loc = time.UTC
	}
	return &Resolver{
		slotRepo:        slotRepo,
		appointmentRepo: appointmentRepo,
		location:        loc,
		timeProvider:    &RealTimeProvider{},
		logger:          logger,
	}
}

// WithTimeProvider подменяет часы
func (r *Resolver) WithTimeProvider(tp TimeProvider) *Resolver {
	r.timeProvider = tp
	return r
}

// Location часовой пояс записи
func (r *Resolver) Location() *time.Location {
	return r.location
}

// Now текущее время в часовом поясе записи
func (r *Resolver) Now() time.Time {
	return r.timeProvider.Now().In(r.location)
}

// Resolve проверяет кандидата и возвращает подходящий слот.
// Отказы возвращаются как *Rejection.
func (r *Resolver) Resolve(ctx context.Context, c Candidate) (*Resolution, error) {
	if c.ServiceID <= 0 || c.Date.IsZero() {
		return nil, fmt.Errorf("%w: serviceID and date are required", ErrInvalidInput)
	}
	if err := c.Time.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	weekday := domain.WeekdayOf(c.Date)

	if c.Time.On(c.Date, r.location).Before(r.Now()) {
		r.logger.Warn("Resolve: service=%d date=%s time=%s is in the past",
			c.ServiceID, c.Date.Format(domain.DateFormat), c.Time)
		return nil, &Rejection{Reason: ReasonInPast, Weekday: weekday, Time: c.Time}
	}

	slots, err := r.slotRepo.ListCovering(ctx, c.ServiceID, weekday, c.Time)
	if err != nil {
		r.logger.Error("Resolve: failed to list slots for service=%d: %v", c.ServiceID, err)
		return nil, fmt.Errorf("%w: Resolve - list slots: %w", ErrInternal, err)
	}
	if len(slots) == 0 {
		r.logger.Warn("Resolve: no slot for service=%d on %s at %s", c.ServiceID, weekday, c.Time)
		return nil, &Rejection{Reason: ReasonNoSlot, Weekday: weekday, Time: c.Time}
	}

	// Записи сравниваются по точному времени, поэтому счётчик один на все слоты
	booked, err := r.appointmentRepo.CountActiveAt(ctx, c.ServiceID, c.Date, c.Time, c.ExcludeAppointmentID)
	if err != nil {
		r.logger.Error("Resolve: failed to count appointments for service=%d: %v", c.ServiceID, err)
		return nil, fmt.Errorf("%w: Resolve - count appointments: %w", ErrInternal, err)
	}

	maxCapacity := 0
	for _, slot := range slots {
		if booked < slot.Capacity {
			r.logger.Info("Resolve: service=%d %s %s accepted by slot id=%d, %d/%d taken",
				c.ServiceID, c.Date.Format(domain.DateFormat), c.Time, slot.ID, booked, slot.Capacity)
			return &Resolution{
				Slot:              slot,
				Booked:            booked,
				RemainingCapacity: slot.Capacity - booked,
			}, nil
		}
		if slot.Capacity > maxCapacity {
			maxCapacity = slot.Capacity
		}
	}

	r.logger.Warn("Resolve: service=%d %s %s fully booked, %d taken, capacity %d",
		c.ServiceID, c.Date.Format(domain.DateFormat), c.Time, booked, maxCapacity)
	return nil, &Rejection{
		Reason:   ReasonFullyBooked,
		Capacity: maxCapacity,
		Weekday:  weekday,
		Time:     c.Time,
	}
}
