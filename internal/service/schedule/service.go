package schedule

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	serviceRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/service"
	slotRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/slot"
	"github.com/m04kA/SMC-AppointmentService/internal/service/schedule/models"
)

// Service еженедельное расписание услуг
type Service struct {
	slotRepo    SlotRepository
	serviceRepo ServiceRepository
	logger      Logger
}

// NewService создает новый экземпляр сервиса расписания
func NewService(slotRepo SlotRepository, serviceRepo ServiceRepository, logger Logger) *Service {
	return &Service{
		slotRepo:    slotRepo,
		serviceRepo: serviceRepo,
		logger:      logger,
	}
}

// CreateSlot добавляет слот услуге. Доступно только администратору
func (s *Service) CreateSlot(ctx context.Context, principal domain.Principal, serviceID int64, req *models.CreateSlotRequest) (*models.SlotResponse, error) {
	s.logger.Info("CreateSlot: service=%d day=%d %s-%s by user=%d",
		serviceID, req.DayOfWeek, req.StartTime, req.EndTime, principal.UserID)

	if !principal.Can(domain.ActionManageSchedule, 0) {
		s.logger.Warn("CreateSlot: user=%d is not an admin", principal.UserID)
		return nil, ErrPermissionDenied
	}

	slot := req.ToDomainSlot(serviceID)
	if err := validateSlot(slot); err != nil {
		s.logger.Warn("CreateSlot: validation failed: %v", err)
		return nil, err
	}

	if err := s.ensureService(ctx, serviceID); err != nil {
		return nil, err
	}

	created, err := s.slotRepo.Create(ctx, slot)
	if err != nil {
		if errors.Is(err, slotRepo.ErrServiceReference) {
			return nil, ErrServiceNotFound
		}
		s.logger.Error("CreateSlot: repository error: %v", err)
		return nil, fmt.Errorf("%w: CreateSlot - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("CreateSlot: successfully created slot id=%d", created.ID)
	return models.FromDomainSlot(created), nil
}

// UpdateSlot частично обновляет слот. Доступно только администратору.
// Существующие записи не перепроверяются.
func (s *Service) UpdateSlot(ctx context.Context, principal domain.Principal, slotID int64, req *models.UpdateSlotRequest) (*models.SlotResponse, error) {
	s.logger.Info("UpdateSlot: slot id=%d by user=%d", slotID, principal.UserID)

	if !principal.Can(domain.ActionManageSchedule, 0) {
		s.logger.Warn("UpdateSlot: user=%d is not an admin", principal.UserID)
		return nil, ErrPermissionDenied
	}

	slot, err := s.getSlot(ctx, "UpdateSlot", slotID)
	if err != nil {
		return nil, err
	}

	req.ApplyTo(slot)
	if err := validateSlot(slot); err != nil {
		s.logger.Warn("UpdateSlot: validation failed for slot id=%d: %v", slotID, err)
		return nil, err
	}

	updated, err := s.slotRepo.Update(ctx, slot)
	if err != nil {
		if errors.Is(err, slotRepo.ErrSlotNotFound) {
			return nil, ErrSlotNotFound
		}
		s.logger.Error("UpdateSlot: repository error for slot id=%d: %v", slotID, err)
		return nil, fmt.Errorf("%w: UpdateSlot - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("UpdateSlot: successfully updated slot id=%d", slotID)
	return models.FromDomainSlot(updated), nil
}

// DeleteSlot удаляет слот. Доступно только администратору
func (s *Service) DeleteSlot(ctx context.Context, principal domain.Principal, slotID int64) error {
	s.logger.Info("DeleteSlot: slot id=%d by user=%d", slotID, principal.UserID)

	if !principal.Can(domain.ActionManageSchedule, 0) {
		s.logger.Warn("DeleteSlot: user=%d is not an admin", principal.UserID)
		return ErrPermissionDenied
	}

	if err := s.slotRepo.Delete(ctx, slotID); err != nil {
		if errors.Is(err, slotRepo.ErrSlotNotFound) {
			s.logger.Warn("DeleteSlot: slot id=%d not found", slotID)
			return ErrSlotNotFound
		}
		s.logger.Error("DeleteSlot: repository error for slot id=%d: %v", slotID, err)
		return fmt.Errorf("%w: DeleteSlot - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("DeleteSlot: successfully deleted slot id=%d", slotID)
	return nil
}

// ListSlots все слоты услуги по дню недели и времени начала
func (s *Service) ListSlots(ctx context.Context, serviceID int64) (*models.SlotListResponse, error) {
	if err := s.ensureService(ctx, serviceID); err != nil {
		return nil, err
	}

	slots, err := s.slotRepo.ListByService(ctx, serviceID)
	if err != nil {
		s.logger.Error("ListSlots: repository error for service=%d: %v", serviceID, err)
		return nil, fmt.Errorf("%w: ListSlots - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("ListSlots: fetched %d slots for service=%d", len(slots), serviceID)
	return models.FromDomainSlotList(slots), nil
}

// SlotsForDate открытые слоты услуги, применимые к дате (совпадает день недели)
func (s *Service) SlotsForDate(ctx context.Context, serviceID int64, date time.Time) ([]*domain.AvailabilitySlot, error) {
	weekday := domain.WeekdayOf(date)

	slots, err := s.slotRepo.ListForWeekday(ctx, serviceID, weekday)
	if err != nil {
		s.logger.Error("SlotsForDate: repository error for service=%d %s: %v", serviceID, weekday, err)
		return nil, fmt.Errorf("%w: SlotsForDate - repository error: %v", ErrInternal, err)
	}

	applying := make([]*domain.AvailabilitySlot, 0, len(slots))
	for _, slot := range slots {
		if slot.AppliesTo(date) {
			applying = append(applying, slot)
		}
	}
	return applying, nil
}

func (s *Service) getSlot(ctx context.Context, op string, slotID int64) (*domain.AvailabilitySlot, error) {
	slot, err := s.slotRepo.GetByID(ctx, slotID)
	if err != nil {
		if errors.Is(err, slotRepo.ErrSlotNotFound) {
			s.logger.Warn("%s: slot id=%d not found", op, slotID)
			return nil, ErrSlotNotFound
		}
		s.logger.Error("%s: repository error for slot id=%d: %v", op, slotID, err)
		return nil, fmt.Errorf("%w: %s - repository error: %v", ErrInternal, op, err)
	}
	return slot, nil
}

func (s *Service) ensureService(ctx context.Context, serviceID int64) error {
	if _, err := s.serviceRepo.GetByID(ctx, serviceID); err != nil {
		if errors.Is(err, serviceRepo.ErrServiceNotFound) {
			s.logger.Warn("service id=%d not found", serviceID)
			return ErrServiceNotFound
		}
		s.logger.Error("failed to get service id=%d: %v", serviceID, err)
		return fmt.Errorf("%w: get service: %v", ErrInternal, err)
	}
	return nil
}

func validateSlot(slot *domain.AvailabilitySlot) error {
	if !slot.DayOfWeek.IsValid() {
		return fmt.Errorf("%w: dayOfWeek must be 0..6", ErrInvalidInput)
	}
	if err := slot.StartTime.Validate(); err != nil {
		return fmt.Errorf("%w: invalid startTime: %v", ErrInvalidInput, err)
	}
	if err := slot.EndTime.Validate(); err != nil {
		return fmt.Errorf("%w: invalid endTime: %v", ErrInvalidInput, err)
	}
	if !slot.HasValidRange() {
		return fmt.Errorf("%w: endTime must be after startTime", ErrInvalidInput)
	}
	if slot.Capacity < 1 || slot.Capacity > domain.MaxSlotCapacity {
		return fmt.Errorf("%w: capacity must be 1..%d", ErrInvalidInput, domain.MaxSlotCapacity)
	}
	return nil
}
