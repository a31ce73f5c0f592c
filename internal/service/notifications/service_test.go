package notifications

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	notificationRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/notification"
	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

type memoryRepo struct {
	items []*domain.Notification
}

func (m *memoryRepo) Create(_ context.Context, n *domain.Notification) (*domain.Notification, error) {
	n.ID = int64(len(m.items) + 1)
	m.items = append(m.items, n)
	return n, nil
}

func (m *memoryRepo) ListByUser(_ context.Context, userID int64, unreadOnly bool) ([]*domain.Notification, error) {
	var out []*domain.Notification
	for i := len(m.items) - 1; i >= 0; i-- {
		n := m.items[i]
		if n.UserID == userID && (!unreadOnly || !n.IsRead) {
			out = append(out, n)
		}
	}
	return out, nil
}

func (m *memoryRepo) MarkRead(_ context.Context, id, userID int64) error {
	for _, n := range m.items {
		if n.ID == id && n.UserID == userID {
			n.IsRead = true
			return nil
		}
	}
	return notificationRepo.ErrNotificationNotFound
}

func (m *memoryRepo) CountUnread(_ context.Context, userID int64) (int, error) {
	count := 0
	for _, n := range m.items {
		if n.UserID == userID && !n.IsRead {
			count++
		}
	}
	return count, nil
}

func appointment(status domain.AppointmentStatus) *domain.Appointment {
	return &domain.Appointment{
		ID:          5,
		UserID:      7,
		ServiceID:   3,
		ServiceName: "Dental Checkup",
		Date:        time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC),
		Time:        types.MustTimeString("09:00"),
		Status:      status,
	}
}

func TestNotifyStatusChange(t *testing.T) {
	repo := &memoryRepo{}
	svc := NewService(repo, nopLogger{})

	require.NoError(t, svc.NotifyStatusChange(context.Background(), appointment(domain.StatusApproved)))
	require.Len(t, repo.items, 1)
	assert.Equal(t, int64(7), repo.items[0].UserID)
	assert.Equal(t, domain.StatusApproved, repo.items[0].Kind)
	assert.Equal(t, int64(5), *repo.items[0].AppointmentID)
	assert.Contains(t, repo.items[0].Message, "approved")

	// pending не порождает уведомление
	require.NoError(t, svc.NotifyStatusChange(context.Background(), appointment(domain.StatusPending)))
	assert.Len(t, repo.items, 1)
}

func TestListAndMarkRead(t *testing.T) {
	repo := &memoryRepo{}
	svc := NewService(repo, nopLogger{})
	ctx := context.Background()
	owner := domain.Principal{UserID: 7, Role: domain.RoleUser}
	other := domain.Principal{UserID: 8, Role: domain.RoleUser}

	require.NoError(t, svc.NotifyStatusChange(ctx, appointment(domain.StatusApproved)))
	require.NoError(t, svc.NotifyStatusChange(ctx, appointment(domain.StatusCompleted)))

	list, err := svc.List(ctx, owner, false)
	require.NoError(t, err)
	require.Len(t, list.Notifications, 2)
	assert.Equal(t, "completed", list.Notifications[0].Kind, "newest first")
	assert.Equal(t, 2, list.Unread)

	assert.ErrorIs(t, svc.MarkRead(ctx, other, list.Notifications[0].ID), ErrNotificationNotFound)
	require.NoError(t, svc.MarkRead(ctx, owner, list.Notifications[0].ID))

	unread, err := svc.List(ctx, owner, true)
	require.NoError(t, err)
	assert.Len(t, unread.Notifications, 1)
	assert.Equal(t, 1, unread.Unread)

	_, err = svc.List(ctx, domain.Principal{}, false)
	assert.ErrorIs(t, err, ErrUnauthenticated)
}
