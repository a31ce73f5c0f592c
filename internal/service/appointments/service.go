package appointments

import (
	"context"
	"errors"
	"fmt"
	"unicode/utf8"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	appointmentRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/appointment"
	"github.com/m04kA/SMC-AppointmentService/internal/service/appointments/models"
)

// maxBulkSize ограничение количества записей в одной массовой операции
const maxBulkSize = 100

// Service журнал записей и переходы статусов
type Service struct {
	appointmentRepo AppointmentRepository
	notifier        Notifier
	txManager       TransactionManager
	metrics         Metrics
	pageSize        int
	logger          Logger
}

// NewService создает новый экземпляр сервиса записей
func NewService(
	appointmentRepo AppointmentRepository,
	notifier Notifier,
	txManager TransactionManager,
	metrics Metrics,
	pageSize int,
	logger Logger,
) *Service {
	if pageSize <= 0 {
		pageSize = domain.DefaultAppointmentsPageSize
	}
	return &Service{
		appointmentRepo: appointmentRepo,
		notifier:        notifier,
		txManager:       txManager,
		metrics:         metrics,
		pageSize:        pageSize,
		logger:          logger,
	}
}

// Get получает запись по ID.
// Чужая запись для обычного пользователя неотличима от несуществующей.
func (s *Service) Get(ctx context.Context, principal domain.Principal, id int64) (*models.AppointmentResponse, error) {
	s.logger.Info("Get: fetching appointment id=%d for user=%d", id, principal.UserID)

	a, err := s.getByID(ctx, "Get", id)
	if err != nil {
		return nil, err
	}

	if !principal.Can(domain.ActionViewAppointment, a.UserID) {
		s.logger.Warn("Get: appointment id=%d is not visible to user=%d", id, principal.UserID)
		return nil, ErrAppointmentNotFound
	}

	return models.FromDomainAppointment(a), nil
}

// List страница записей: администратор видит все (опционально одного пользователя),
// пользователь только свои. Порядок: дата, время, id по убыванию.
func (s *Service) List(ctx context.Context, principal domain.Principal, req *models.ListAppointmentsRequest) (*models.AppointmentListResponse, error) {
	filter, err := s.toFilter(principal, req)
	if err != nil {
		s.logger.Warn("List: invalid request from user=%d: %v", principal.UserID, err)
		return nil, err
	}

	// Страница и общее количество читаются из одного снимка
	var (
		list  []*domain.Appointment
		total int
	)
	err = s.txManager.DoReadOnly(ctx, func(txCtx context.Context) error {
		var err error
		list, err = s.appointmentRepo.List(txCtx, filter)
		if err != nil {
			return fmt.Errorf("list: %w", err)
		}
		total, err = s.appointmentRepo.Count(txCtx, filter)
		if err != nil {
			return fmt.Errorf("count: %w", err)
		}
		return nil
	})
	if err != nil {
		s.logger.Error("List: repository error: %v", err)
		return nil, fmt.Errorf("%w: List - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("List: fetched %d of %d appointments for user=%d", len(list), total, principal.UserID)
	return models.FromDomainAppointmentList(list, total, filter.Limit, filter.Offset), nil
}

// ChangeStatus переводит запись в новый статус с заметкой администратора.
// Уведомление владельцу пишется в той же транзакции.
func (s *Service) ChangeStatus(ctx context.Context, principal domain.Principal, id int64, req *models.ChangeStatusRequest) (*models.AppointmentResponse, error) {
	s.logger.Info("ChangeStatus: appointment id=%d to status=%s by user=%d", id, req.Status, principal.UserID)

	target := domain.AppointmentStatus(req.Status)
	if !target.IsValid() {
		s.logger.Warn("ChangeStatus: unknown status=%q", req.Status)
		return nil, fmt.Errorf("%w: unknown status %q", ErrInvalidInput, req.Status)
	}
	if err := validateNotes(req.AdminNotes); err != nil {
		return nil, err
	}

	a, err := s.transition(ctx, principal, id, target, req.AdminNotes)
	if err != nil {
		return nil, err
	}
	return models.FromDomainAppointment(a), nil
}

// Cancel отменяет запись: владелец - пока запись pending, администратор - любую нетерминальную
func (s *Service) Cancel(ctx context.Context, principal domain.Principal, id int64) (*models.AppointmentResponse, error) {
	s.logger.Info("Cancel: cancelling appointment id=%d by user=%d", id, principal.UserID)

	a, err := s.transition(ctx, principal, id, domain.StatusCancelled, nil)
	if err != nil {
		return nil, err
	}
	return models.FromDomainAppointment(a), nil
}

// BulkChangeStatus применяет смену статуса к списку записей. Доступно только администратору.
// Каждая запись обрабатывается в своей транзакции, ошибки возвращаются по каждой записи.
func (s *Service) BulkChangeStatus(ctx context.Context, principal domain.Principal, req *models.BulkChangeStatusRequest) (*models.BulkChangeStatusResponse, error) {
	s.logger.Info("BulkChangeStatus: %d appointments to status=%s by user=%d", len(req.IDs), req.Status, principal.UserID)

	if !principal.Can(domain.ActionSetStatus, 0) {
		s.logger.Warn("BulkChangeStatus: user=%d is not an admin", principal.UserID)
		return nil, ErrPermissionDenied
	}

	target := domain.AppointmentStatus(req.Status)
	if !target.IsValid() {
		return nil, fmt.Errorf("%w: unknown status %q", ErrInvalidInput, req.Status)
	}
	if len(req.IDs) == 0 || len(req.IDs) > maxBulkSize {
		return nil, fmt.Errorf("%w: ids must contain 1..%d items", ErrInvalidInput, maxBulkSize)
	}
	if err := validateNotes(req.AdminNotes); err != nil {
		return nil, err
	}

	resp := &models.BulkChangeStatusResponse{Results: make([]models.BulkItemResult, 0, len(req.IDs))}
	seen := make(map[int64]bool, len(req.IDs))

	for _, id := range req.IDs {
		if seen[id] {
			continue
		}
		seen[id] = true

		item := models.BulkItemResult{ID: id}
		if _, err := s.transition(ctx, principal, id, target, req.AdminNotes); err != nil {
			item.Error = ErrorCode(err)
			resp.Failed++
		} else {
			item.Status = string(target)
			resp.Updated++
		}
		resp.Results = append(resp.Results, item)
	}

	s.logger.Info("BulkChangeStatus: updated=%d failed=%d", resp.Updated, resp.Failed)
	return resp, nil
}

// Delete физически удаляет запись. Доступно только администратору
func (s *Service) Delete(ctx context.Context, principal domain.Principal, id int64) error {
	s.logger.Info("Delete: deleting appointment id=%d by user=%d", id, principal.UserID)

	if !principal.Can(domain.ActionDeleteAppointment, 0) {
		s.logger.Warn("Delete: user=%d is not an admin", principal.UserID)
		return ErrPermissionDenied
	}

	if err := s.appointmentRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, appointmentRepo.ErrAppointmentNotFound) {
			s.logger.Warn("Delete: appointment id=%d not found", id)
			return ErrAppointmentNotFound
		}
		s.logger.Error("Delete: repository error for appointment id=%d: %v", id, err)
		return fmt.Errorf("%w: Delete - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("Delete: successfully deleted appointment id=%d", id)
	return nil
}

// transition общая часть смены статуса: блокировка строки, проверка прав и таблицы переходов,
// обновление и уведомление в одной транзакции
func (s *Service) transition(ctx context.Context, principal domain.Principal, id int64, target domain.AppointmentStatus, adminNotes *string) (*domain.Appointment, error) {
	var (
		result *domain.Appointment
		from   domain.AppointmentStatus
	)

	err := s.txManager.Do(ctx, func(txCtx context.Context) error {
		a, err := s.getByID(txCtx, "transition", id)
		if err != nil {
			return err
		}

		if err := authorizeTransition(principal, a, target); err != nil {
			s.logger.Warn("transition: appointment id=%d %s -> %s by user=%d rejected: %v",
				id, a.Status, target, principal.UserID, err)
			return err
		}

		if err := s.appointmentRepo.UpdateStatus(txCtx, id, target, adminNotes); err != nil {
			if errors.Is(err, appointmentRepo.ErrAppointmentNotFound) {
				return ErrAppointmentNotFound
			}
			s.logger.Error("transition: failed to update appointment id=%d: %v", id, err)
			return fmt.Errorf("%w: transition - update status: %v", ErrInternal, err)
		}

		from = a.Status
		a.Status = target
		if adminNotes != nil {
			notes := *adminNotes
			a.AdminNotes = &notes
		}

		if domain.NotifiesOwner(target) {
			if err := s.notifier.NotifyStatusChange(txCtx, a); err != nil {
				return fmt.Errorf("%w: transition - notify: %v", ErrInternal, err)
			}
		}

		result = a
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.metrics.IncStatusTransition(string(from), string(target))
	s.logger.Info("transition: appointment id=%d %s -> %s by user=%d", id, from, target, principal.UserID)
	return result, nil
}

// authorizeTransition сначала проверяет права, затем таблицу переходов
func authorizeTransition(principal domain.Principal, a *domain.Appointment, target domain.AppointmentStatus) error {
	if domain.IsAdminOnlyTarget(target) && !principal.IsAdmin() {
		return ErrPermissionDenied
	}

	action := domain.ActionSetStatus
	if target == domain.StatusCancelled {
		action = domain.ActionCancelAppointment
	}
	if !principal.Can(action, a.UserID) {
		return ErrPermissionDenied
	}

	if !domain.CanTransition(a.Status, target) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, a.Status, target)
	}

	// Владелец может отменить только ещё не рассмотренную запись
	if !principal.IsAdmin() && a.Status != domain.StatusPending {
		return fmt.Errorf("%w: owner can cancel only pending appointments", ErrInvalidTransition)
	}
	return nil
}

func (s *Service) getByID(ctx context.Context, op string, id int64) (*domain.Appointment, error) {
	a, err := s.appointmentRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, appointmentRepo.ErrAppointmentNotFound) {
			s.logger.Warn("%s: appointment id=%d not found", op, id)
			return nil, ErrAppointmentNotFound
		}
		s.logger.Error("%s: repository error for appointment id=%d: %v", op, id, err)
		return nil, fmt.Errorf("%w: %s - repository error: %v", ErrInternal, op, err)
	}
	return a, nil
}

func (s *Service) toFilter(principal domain.Principal, req *models.ListAppointmentsRequest) (domain.AppointmentFilter, error) {
	filter := domain.AppointmentFilter{
		Limit:  req.Limit,
		Offset: req.Offset,
	}

	if filter.Limit == 0 {
		filter.Limit = s.pageSize
	}
	if filter.Limit < 0 || filter.Limit > domain.MaxPageSize {
		return filter, fmt.Errorf("%w: limit must be 1..%d", ErrInvalidInput, domain.MaxPageSize)
	}
	if req.Page < 0 {
		return filter, fmt.Errorf("%w: page must be positive", ErrInvalidInput)
	}
	if req.Page > 0 {
		filter.Offset = (req.Page - 1) * filter.Limit
	}
	if filter.Offset < 0 {
		return filter, fmt.Errorf("%w: offset must not be negative", ErrInvalidInput)
	}

	if req.Status != nil && *req.Status != "" {
		status := domain.AppointmentStatus(*req.Status)
		if !status.IsValid() {
			return filter, fmt.Errorf("%w: unknown status %q", ErrInvalidInput, *req.Status)
		}
		filter.Status = &status
	}

	switch {
	case principal.Can(domain.ActionListAllAppointment, 0):
		filter.UserID = req.UserID
	case principal.UserID > 0:
		userID := principal.UserID
		filter.UserID = &userID
	default:
		return filter, ErrPermissionDenied
	}

	return filter, nil
}

func validateNotes(notes *string) error {
	if notes != nil && utf8.RuneCountInString(*notes) > domain.MaxNotesLength {
		return fmt.Errorf("%w: notes must be at most %d characters", ErrInvalidInput, domain.MaxNotesLength)
	}
	return nil
}

// ErrorCode короткий код ошибки для ответов API
func ErrorCode(err error) string {
	switch {
	case errors.Is(err, ErrAppointmentNotFound):
		return "not_found"
	case errors.Is(err, ErrPermissionDenied):
		return "permission_denied"
	case errors.Is(err, ErrInvalidTransition):
		return "invalid_transition"
	case errors.Is(err, ErrInvalidInput):
		return "validation_error"
	default:
		return "internal_error"
	}
}
