package create_appointment

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	serviceRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/service"
	"github.com/m04kA/SMC-AppointmentService/internal/service/appointments/models"
	"github.com/m04kA/SMC-AppointmentService/internal/service/availability"
)

// UseCase use case для создания записи
type UseCase struct {
	appointmentRepo AppointmentRepository
	serviceRepo     ServiceRepository
	resolver        Resolver
	txManager       TransactionManager
	metrics         Metrics
	logger          Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	appointmentRepo AppointmentRepository,
	serviceRepo ServiceRepository,
	resolver Resolver,
	txManager TransactionManager,
	metrics Metrics,
	logger Logger,
) *UseCase {
	return &UseCase{
		appointmentRepo: appointmentRepo,
		serviceRepo:     serviceRepo,
		resolver:        resolver,
		txManager:       txManager,
		metrics:         metrics,
		logger:          logger,
	}
}

// Execute выполняет use case создания записи.
// Проверка доступности и вставка выполняются в одной сериализуемой транзакции,
// отказ резолвера возвращается как *availability.Rejection.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("CreateAppointment: user=%d, service=%d, date=%s, time=%s",
		req.UserID, req.ServiceID, req.Date.Format(domain.DateFormat), req.Time)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("CreateAppointment: validation failed: %v", err)
		return nil, err
	}

	var result *domain.Appointment

	// 2. Проверка и вставка в сериализуемой транзакции
	err := uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		// 2.1. Услуга существует и активна (FOR SHARE)
		service, err := uc.serviceRepo.GetByID(txCtx, req.ServiceID)
		if err != nil {
			if errors.Is(err, serviceRepo.ErrServiceNotFound) {
				uc.logger.Warn("CreateAppointment: service id=%d not found", req.ServiceID)
				return ErrServiceNotFound
			}
			uc.logger.Error("CreateAppointment: failed to get service id=%d: %v", req.ServiceID, err)
			return fmt.Errorf("%w: failed to get service: %w", ErrInternal, err)
		}
		if !service.IsActive {
			uc.logger.Warn("CreateAppointment: service id=%d is inactive", req.ServiceID)
			return ErrServiceInactive
		}

		// 2.2. Слот и вместимость (слоты блокируются FOR UPDATE)
		resolution, err := uc.resolver.Resolve(txCtx, availability.Candidate{
			ServiceID: req.ServiceID,
			Date:      req.Date,
			Time:      req.Time,
		})
		if err != nil {
			if rej, ok := availability.AsRejection(err); ok {
				uc.metrics.IncBookingRejection(string(rej.Reason))
				return err
			}
			return fmt.Errorf("%w: failed to resolve availability: %w", ErrInternal, err)
		}

		// 2.3. Запись создаётся в статусе pending
		created, err := uc.appointmentRepo.Create(txCtx, &domain.Appointment{
			UserID:    req.UserID,
			ServiceID: req.ServiceID,
			Date:      req.Date,
			Time:      req.Time,
			Status:    domain.StatusPending,
			Notes:     req.Notes,
		})
		if err != nil {
			uc.logger.Error("CreateAppointment: failed to create appointment: %v", err)
			return fmt.Errorf("%w: failed to create appointment: %w", ErrInternal, err)
		}

		created.ServiceName = service.Name
		uc.logger.Info("CreateAppointment: slot id=%d, %d place(s) left before insert",
			resolution.Slot.ID, resolution.RemainingCapacity)

		result = created
		return nil
	})

	if err != nil {
		return nil, err
	}

	uc.metrics.IncAppointmentsCreated()
	uc.logger.Info("CreateAppointment: successfully created appointment id=%d", result.ID)

	return models.FromDomainAppointment(result), nil
}
