package update_appointment

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	appointmentRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/appointment"
	serviceRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/service"
	"github.com/m04kA/SMC-AppointmentService/internal/service/appointments/models"
	"github.com/m04kA/SMC-AppointmentService/internal/service/availability"
)

// UseCase use case для изменения записи (перенос, смена услуги, заметки)
type UseCase struct {
	appointmentRepo AppointmentRepository
	serviceRepo     ServiceRepository
	resolver        Resolver
	txManager       TransactionManager
	logger          Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	appointmentRepo AppointmentRepository,
	serviceRepo ServiceRepository,
	resolver Resolver,
	txManager TransactionManager,
	logger Logger,
) *UseCase {
	return &UseCase{
		appointmentRepo: appointmentRepo,
		serviceRepo:     serviceRepo,
		resolver:        resolver,
		txManager:       txManager,
		logger:          logger,
	}
}

// Execute изменяет запись. При смене услуги, даты или времени доступность
// проверяется заново без учёта самой записи.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("UpdateAppointment: appointment id=%d by user=%d", req.AppointmentID, req.Principal.UserID)

	if err := validateRequest(req); err != nil {
		uc.logger.Warn("UpdateAppointment: validation failed: %v", err)
		return nil, err
	}

	var result *domain.Appointment

	err := uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		// 1. Запись блокируется FOR UPDATE
		a, err := uc.appointmentRepo.GetByID(txCtx, req.AppointmentID)
		if err != nil {
			if errors.Is(err, appointmentRepo.ErrAppointmentNotFound) {
				uc.logger.Warn("UpdateAppointment: appointment id=%d not found", req.AppointmentID)
				return ErrAppointmentNotFound
			}
			uc.logger.Error("UpdateAppointment: failed to get appointment id=%d: %v", req.AppointmentID, err)
			return fmt.Errorf("%w: failed to get appointment: %w", ErrInternal, err)
		}

		// 2. Права и статус
		if err := checkEditable(req.Principal, a); err != nil {
			uc.logger.Warn("UpdateAppointment: appointment id=%d not editable by user=%d: %v",
				req.AppointmentID, req.Principal.UserID, err)
			return err
		}

		// 3. Применяем изменения
		rescheduled := false
		if req.ServiceID != nil && *req.ServiceID != a.ServiceID {
			service, err := uc.activeService(txCtx, *req.ServiceID)
			if err != nil {
				return err
			}
			a.ServiceID = service.ID
			a.ServiceName = service.Name
			rescheduled = true
		}
		if req.Date != nil && !req.Date.Equal(a.Date) {
			a.Date = *req.Date
			rescheduled = true
		}
		if req.Time != nil && !req.Time.Equal(a.Time) {
			a.Time = *req.Time
			rescheduled = true
		}
		if req.Notes != nil {
			notes := *req.Notes
			a.Notes = &notes
		}

		// 4. Повторная проверка доступности
		if rescheduled {
			_, err := uc.resolver.Resolve(txCtx, availability.Candidate{
				ServiceID:            a.ServiceID,
				Date:                 a.Date,
				Time:                 a.Time,
				ExcludeAppointmentID: &a.ID,
			})
			if err != nil {
				if _, ok := availability.AsRejection(err); ok {
					return err
				}
				return fmt.Errorf("%w: failed to resolve availability: %w", ErrInternal, err)
			}
		}

		// 5. Сохраняем
		if err := uc.appointmentRepo.Update(txCtx, a); err != nil {
			if errors.Is(err, appointmentRepo.ErrAppointmentNotFound) {
				return ErrAppointmentNotFound
			}
			uc.logger.Error("UpdateAppointment: failed to update appointment id=%d: %v", a.ID, err)
			return fmt.Errorf("%w: failed to update appointment: %w", ErrInternal, err)
		}

		result = a
		return nil
	})

	if err != nil {
		return nil, err
	}

	uc.logger.Info("UpdateAppointment: successfully updated appointment id=%d", result.ID)
	return models.FromDomainAppointment(result), nil
}

func (uc *UseCase) activeService(ctx context.Context, serviceID int64) (*domain.Service, error) {
	service, err := uc.serviceRepo.GetByID(ctx, serviceID)
	if err != nil {
		if errors.Is(err, serviceRepo.ErrServiceNotFound) {
			uc.logger.Warn("UpdateAppointment: service id=%d not found", serviceID)
			return nil, ErrServiceNotFound
		}
		uc.logger.Error("UpdateAppointment: failed to get service id=%d: %v", serviceID, err)
		return nil, fmt.Errorf("%w: failed to get service: %w", ErrInternal, err)
	}
	if !service.IsActive {
		uc.logger.Warn("UpdateAppointment: service id=%d is inactive", serviceID)
		return nil, ErrServiceInactive
	}
	return service, nil
}
