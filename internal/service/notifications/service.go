package notifications

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	notificationRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/notification"
	"github.com/m04kA/SMC-AppointmentService/internal/service/notifications/models"
)

// Service журнал уведомлений. Доставка (email, SMS) вне этого сервиса
type Service struct {
	repo   NotificationRepository
	logger Logger
}

// NewService создает новый экземпляр сервиса уведомлений
func NewService(repo NotificationRepository, logger Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

// NotifyStatusChange записывает уведомление владельцу о новом статусе записи.
// Вызывается внутри транзакции смены статуса.
func (s *Service) NotifyStatusChange(ctx context.Context, a *domain.Appointment) error {
	message, ok := domain.StatusMessage(a)
	if !ok {
		return nil
	}

	appointmentID := a.ID
	n := &domain.Notification{
		UserID:        a.UserID,
		AppointmentID: &appointmentID,
		Kind:          a.Status,
		Message:       message,
	}

	if _, err := s.repo.Create(ctx, n); err != nil {
		s.logger.Error("NotifyStatusChange: failed to store notification for appointment id=%d: %v", a.ID, err)
		return fmt.Errorf("%w: NotifyStatusChange - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("NotifyStatusChange: user=%d notified about appointment id=%d status=%s", a.UserID, a.ID, a.Status)
	return nil
}

// List уведомления текущего пользователя, новые первыми
func (s *Service) List(ctx context.Context, principal domain.Principal, unreadOnly bool) (*models.NotificationListResponse, error) {
	if principal.UserID <= 0 {
		return nil, ErrUnauthenticated
	}

	list, err := s.repo.ListByUser(ctx, principal.UserID, unreadOnly)
	if err != nil {
		s.logger.Error("List: repository error for user=%d: %v", principal.UserID, err)
		return nil, fmt.Errorf("%w: List - repository error: %v", ErrInternal, err)
	}

	unread, err := s.repo.CountUnread(ctx, principal.UserID)
	if err != nil {
		s.logger.Error("List: failed to count unread for user=%d: %v", principal.UserID, err)
		return nil, fmt.Errorf("%w: List - count unread: %v", ErrInternal, err)
	}

	return models.FromDomainNotificationList(list, unread), nil
}

// MarkRead помечает уведомление прочитанным. Только владелец
func (s *Service) MarkRead(ctx context.Context, principal domain.Principal, id int64) error {
	if principal.UserID <= 0 {
		return ErrUnauthenticated
	}

	if err := s.repo.MarkRead(ctx, id, principal.UserID); err != nil {
		if errors.Is(err, notificationRepo.ErrNotificationNotFound) {
			s.logger.Warn("MarkRead: notification id=%d not found for user=%d", id, principal.UserID)
			return ErrNotificationNotFound
		}
		s.logger.Error("MarkRead: repository error for notification id=%d: %v", id, err)
		return fmt.Errorf("%w: MarkRead - repository error: %v", ErrInternal, err)
	}
	return nil
}
