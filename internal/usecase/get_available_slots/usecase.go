package get_available_slots

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	serviceRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/service"
)

// UseCase use case для получения слотов и их занятости на дату
type UseCase struct {
	appointmentRepo AppointmentRepository
	serviceRepo     ServiceRepository
	schedule        ScheduleService
	location        *time.Location
	timeProvider    TimeProvider
	logger          Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	appointmentRepo AppointmentRepository,
	serviceRepo ServiceRepository,
	schedule ScheduleService,
	loc *time.Location,
	logger Logger,
) *UseCase {
	if loc == nil {
		loc = time.UTC
	}
	return &UseCase{
		appointmentRepo: appointmentRepo,
		serviceRepo:     serviceRepo,
		schedule:        schedule,
		location:        loc,
		timeProvider:    &RealTimeProvider{},
		logger:          logger,
	}
}

// WithTimeProvider подменяет часы
func (uc *UseCase) WithTimeProvider(tp TimeProvider) *UseCase {
	uc.timeProvider = tp
	return uc
}

// Execute выполняет use case получения слотов
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("GetAvailableSlots: service=%d, date=%s", req.ServiceID, req.Date.Format(domain.DateFormat))

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("GetAvailableSlots: validation failed: %v", err)
		return nil, err
	}

	// 2. Текущее время в часовом поясе записи
	now := uc.timeProvider.Now().In(uc.location)

	if err := validateDate(req.Date, now); err != nil {
		uc.logger.Warn("GetAvailableSlots: date %s is in the past", req.Date.Format(domain.DateFormat))
		return nil, err
	}

	// 3. Услуга существует и активна
	service, err := uc.serviceRepo.GetByID(ctx, req.ServiceID)
	if err != nil {
		if errors.Is(err, serviceRepo.ErrServiceNotFound) {
			uc.logger.Warn("GetAvailableSlots: service id=%d not found", req.ServiceID)
			return nil, ErrServiceNotFound
		}
		uc.logger.Error("GetAvailableSlots: failed to get service id=%d: %v", req.ServiceID, err)
		return nil, fmt.Errorf("%w: failed to get service: %v", ErrInternal, err)
	}
	if !service.IsActive {
		uc.logger.Warn("GetAvailableSlots: service id=%d is inactive", req.ServiceID)
		return nil, ErrServiceInactive
	}

	// 4. Слоты на день недели даты
	slots, err := uc.schedule.SlotsForDate(ctx, req.ServiceID, req.Date)
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to get slots: %v", err)
		return nil, fmt.Errorf("%w: failed to get slots: %v", ErrInternal, err)
	}

	resp := &Response{
		ServiceID: req.ServiceID,
		Date:      req.Date,
		DayOfWeek: domain.WeekdayOf(req.Date),
		Slots:     make([]Slot, 0, len(slots)),
	}
	if len(slots) == 0 {
		uc.logger.Info("GetAvailableSlots: no slots for service=%d on %s", req.ServiceID, resp.DayOfWeek)
		return resp, nil
	}

	// 5. Занятость по времени на дату
	booked, err := uc.appointmentRepo.CountActiveByTime(ctx, req.ServiceID, req.Date)
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to count appointments: %v", err)
		return nil, fmt.Errorf("%w: failed to count appointments: %v", ErrInternal, err)
	}

	// 6. Доступность по каждому слоту
	for _, slot := range slots {
		resp.Slots = append(resp.Slots, Slot{
			SlotID:           slot.ID,
			StartTime:        slot.StartTime,
			EndTime:          slot.EndTime,
			Capacity:         slot.Capacity,
			RemainingAtStart: remaining(slot.Capacity, booked[slot.StartTime]),
			Times:            generateTimeOptions(slot, service.DurationMinutes, req.Date, now, booked),
		})
	}

	uc.logger.Info("GetAvailableSlots: %d slots for service=%d on %s",
		len(resp.Slots), req.ServiceID, req.Date.Format(domain.DateFormat))
	return resp, nil
}
