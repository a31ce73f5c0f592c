package appointments

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	appointmentRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/appointment"
	"github.com/m04kA/SMC-AppointmentService/internal/service/appointments/models"
	"github.com/m04kA/SMC-AppointmentService/pkg/ptr"
	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

// passthroughTx выполняет функцию без транзакции, но откатывает изменения фейка при ошибке
type passthroughTx struct {
	repo          *memoryRepo
	readOnlyCalls *int
}

func (p passthroughTx) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	snapshot := p.repo.snapshot()
	if err := fn(ctx); err != nil {
		p.repo.restore(snapshot)
		return err
	}
	return nil
}

func (p passthroughTx) DoReadOnly(ctx context.Context, fn func(ctx context.Context) error) error {
	if p.readOnlyCalls != nil {
		*p.readOnlyCalls++
	}
	return fn(ctx)
}

type memoryRepo struct {
	items map[int64]*domain.Appointment
}

func (m *memoryRepo) snapshot() map[int64]domain.Appointment {
	out := make(map[int64]domain.Appointment, len(m.items))
	for id, a := range m.items {
		out[id] = *a
	}
	return out
}

func (m *memoryRepo) restore(s map[int64]domain.Appointment) {
	m.items = make(map[int64]*domain.Appointment, len(s))
	for id, a := range s {
		cp := a
		m.items[id] = &cp
	}
}

func (m *memoryRepo) GetByID(_ context.Context, id int64) (*domain.Appointment, error) {
	a, ok := m.items[id]
	if !ok {
		return nil, appointmentRepo.ErrAppointmentNotFound
	}
	cp := *a
	return &cp, nil
}

func (m *memoryRepo) List(_ context.Context, filter domain.AppointmentFilter) ([]*domain.Appointment, error) {
	var out []*domain.Appointment
	for _, a := range m.items {
		if filter.UserID != nil && a.UserID != *filter.UserID {
			continue
		}
		if filter.Status != nil && a.Status != *filter.Status {
			continue
		}
		out = append(out, a)
	}
	return out, nil
}

func (m *memoryRepo) Count(ctx context.Context, filter domain.AppointmentFilter) (int, error) {
	list, _ := m.List(ctx, filter)
	return len(list), nil
}

func (m *memoryRepo) UpdateStatus(_ context.Context, id int64, status domain.AppointmentStatus, adminNotes *string) error {
	a, ok := m.items[id]
	if !ok {
		return appointmentRepo.ErrAppointmentNotFound
	}
	a.Status = status
	if adminNotes != nil {
		a.AdminNotes = adminNotes
	}
	return nil
}

func (m *memoryRepo) Delete(_ context.Context, id int64) error {
	if _, ok := m.items[id]; !ok {
		return appointmentRepo.ErrAppointmentNotFound
	}
	delete(m.items, id)
	return nil
}

type recordingNotifier struct {
	sent []*domain.Appointment
	err  error
}

func (n *recordingNotifier) NotifyStatusChange(_ context.Context, a *domain.Appointment) error {
	if n.err != nil {
		return n.err
	}
	n.sent = append(n.sent, a)
	return nil
}

type countingMetrics map[string]int

func (c countingMetrics) IncStatusTransition(from, to string) { c[from+"->"+to]++ }

var (
	admin    = domain.Principal{UserID: 1, Role: domain.RoleAdmin}
	owner    = domain.Principal{UserID: 7, Role: domain.RoleUser}
	stranger = domain.Principal{UserID: 8, Role: domain.RoleUser}
)

type fixture struct {
	svc      *Service
	repo     *memoryRepo
	notifier *recordingNotifier
	metrics  countingMetrics
	readOnly int
}

func newFixture(statuses ...domain.AppointmentStatus) *fixture {
	repo := &memoryRepo{items: map[int64]*domain.Appointment{}}
	for i, st := range statuses {
		id := int64(i + 1)
		repo.items[id] = &domain.Appointment{
			ID:          id,
			UserID:      owner.UserID,
			ServiceID:   3,
			ServiceName: "Dental Checkup",
			Date:        time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC),
			Time:        types.MustTimeString("09:00"),
			Status:      st,
		}
	}
	f := &fixture{repo: repo, notifier: &recordingNotifier{}, metrics: countingMetrics{}}
	f.svc = NewService(repo, f.notifier, passthroughTx{repo: repo, readOnlyCalls: &f.readOnly}, f.metrics, 10, nopLogger{})
	return f
}

func TestTransitionTableClosure(t *testing.T) {
	for _, from := range domain.AllStatuses {
		for _, to := range domain.AllStatuses {
			f := newFixture(from)
			_, err := f.svc.ChangeStatus(context.Background(), admin, 1, &models.ChangeStatusRequest{Status: string(to)})

			if domain.CanTransition(from, to) {
				require.NoErrorf(t, err, "%s -> %s", from, to)
				assert.Equal(t, to, f.repo.items[1].Status)
				assert.Len(t, f.notifier.sent, 1, "exactly one notification per transition")
				assert.Equal(t, 1, f.metrics[string(from)+"->"+string(to)])
			} else {
				assert.ErrorIsf(t, err, ErrInvalidTransition, "%s -> %s", from, to)
				assert.Equal(t, from, f.repo.items[1].Status)
				assert.Empty(t, f.notifier.sent)
			}
		}
	}
}

func TestCancel_StrangerDeniedAdminAllowed(t *testing.T) {
	f := newFixture(domain.StatusPending)

	_, err := f.svc.Cancel(context.Background(), stranger, 1)
	assert.ErrorIs(t, err, ErrPermissionDenied)
	assert.Equal(t, domain.StatusPending, f.repo.items[1].Status)

	resp, err := f.svc.Cancel(context.Background(), admin, 1)
	require.NoError(t, err)
	assert.Equal(t, "cancelled", resp.Status)
	require.Len(t, f.notifier.sent, 1)
	assert.Equal(t, owner.UserID, f.notifier.sent[0].UserID)
}

func TestCancel_OwnerRules(t *testing.T) {
	f := newFixture(domain.StatusPending, domain.StatusApproved, domain.StatusCompleted)

	_, err := f.svc.Cancel(context.Background(), owner, 1)
	assert.NoError(t, err)

	_, err = f.svc.Cancel(context.Background(), owner, 2)
	assert.ErrorIs(t, err, ErrInvalidTransition)

	_, err = f.svc.Cancel(context.Background(), owner, 3)
	assert.ErrorIs(t, err, ErrInvalidTransition)

	// администратор может отменить одобренную запись
	_, err = f.svc.Cancel(context.Background(), admin, 2)
	assert.NoError(t, err)
}

func TestChangeStatus_OwnerCannotApprove(t *testing.T) {
	f := newFixture(domain.StatusPending)

	_, err := f.svc.ChangeStatus(context.Background(), owner, 1, &models.ChangeStatusRequest{Status: "approved"})
	assert.ErrorIs(t, err, ErrPermissionDenied)

	_, err = f.svc.ChangeStatus(context.Background(), admin, 1, &models.ChangeStatusRequest{Status: "unknown"})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = f.svc.ChangeStatus(context.Background(), admin, 99, &models.ChangeStatusRequest{Status: "approved"})
	assert.ErrorIs(t, err, ErrAppointmentNotFound)
}

func TestChangeStatus_OwnerAdminOnlyTargets(t *testing.T) {
	f := newFixture(domain.StatusApproved, domain.StatusPending)

	_, err := f.svc.ChangeStatus(context.Background(), owner, 1, &models.ChangeStatusRequest{Status: "completed"})
	assert.ErrorIs(t, err, ErrPermissionDenied)

	_, err = f.svc.ChangeStatus(context.Background(), owner, 2, &models.ChangeStatusRequest{Status: "rejected"})
	assert.ErrorIs(t, err, ErrPermissionDenied)

	assert.Equal(t, domain.StatusApproved, f.repo.items[1].Status)
	assert.Equal(t, domain.StatusPending, f.repo.items[2].Status)
	assert.Empty(t, f.notifier.sent)
}

func TestChangeStatus_AdminNotesInNotification(t *testing.T) {
	f := newFixture(domain.StatusPending)

	resp, err := f.svc.ChangeStatus(context.Background(), admin, 1, &models.ChangeStatusRequest{
		Status:     "rejected",
		AdminNotes: ptr.Ptr("doctor unavailable"),
	})
	require.NoError(t, err)
	assert.Equal(t, "doctor unavailable", *resp.AdminNotes)
	require.Len(t, f.notifier.sent, 1)
	assert.Equal(t, "doctor unavailable", *f.notifier.sent[0].AdminNotes)
}

func TestChangeStatus_NotifierFailureRollsBack(t *testing.T) {
	f := newFixture(domain.StatusPending)
	f.notifier.err = errors.New("insert failed")

	_, err := f.svc.ChangeStatus(context.Background(), admin, 1, &models.ChangeStatusRequest{Status: "approved"})
	assert.ErrorIs(t, err, ErrInternal)
	assert.Equal(t, domain.StatusPending, f.repo.items[1].Status)
	assert.Empty(t, f.metrics)
}

func TestGet_Visibility(t *testing.T) {
	f := newFixture(domain.StatusPending)

	_, err := f.svc.Get(context.Background(), owner, 1)
	assert.NoError(t, err)
	_, err = f.svc.Get(context.Background(), admin, 1)
	assert.NoError(t, err)
	_, err = f.svc.Get(context.Background(), stranger, 1)
	assert.ErrorIs(t, err, ErrAppointmentNotFound)
}

func TestList_ScopeAndPagination(t *testing.T) {
	f := newFixture(domain.StatusPending, domain.StatusApproved)
	f.repo.items[3] = &domain.Appointment{ID: 3, UserID: stranger.UserID, Status: domain.StatusPending}

	own, err := f.svc.List(context.Background(), owner, &models.ListAppointmentsRequest{UserID: ptr.Ptr(stranger.UserID)})
	require.NoError(t, err)
	assert.Equal(t, 2, own.Total, "user filter ignored for non-admins")
	assert.Equal(t, 10, own.Limit)

	all, err := f.svc.List(context.Background(), admin, &models.ListAppointmentsRequest{})
	require.NoError(t, err)
	assert.Equal(t, 3, all.Total)

	pending, err := f.svc.List(context.Background(), admin, &models.ListAppointmentsRequest{Status: ptr.Ptr("pending")})
	require.NoError(t, err)
	assert.Equal(t, 2, pending.Total)

	page2, err := f.svc.List(context.Background(), admin, &models.ListAppointmentsRequest{Limit: 2, Page: 2})
	require.NoError(t, err)
	assert.Equal(t, 2, page2.Offset)
	assert.Equal(t, 4, f.readOnly, "page and total are read in one read-only transaction")

	_, err = f.svc.List(context.Background(), admin, &models.ListAppointmentsRequest{Limit: 101})
	assert.ErrorIs(t, err, ErrInvalidInput)
	_, err = f.svc.List(context.Background(), admin, &models.ListAppointmentsRequest{Status: ptr.Ptr("lost")})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestBulkChangeStatus(t *testing.T) {
	f := newFixture(domain.StatusPending, domain.StatusCompleted, domain.StatusPending)

	_, err := f.svc.BulkChangeStatus(context.Background(), owner, &models.BulkChangeStatusRequest{IDs: []int64{1}, Status: "approved"})
	assert.ErrorIs(t, err, ErrPermissionDenied)

	resp, err := f.svc.BulkChangeStatus(context.Background(), admin, &models.BulkChangeStatusRequest{
		IDs:    []int64{1, 2, 3, 42, 1},
		Status: "approved",
	})
	require.NoError(t, err)
	assert.Equal(t, 2, resp.Updated)
	assert.Equal(t, 2, resp.Failed)
	require.Len(t, resp.Results, 4)
	assert.Equal(t, "approved", resp.Results[0].Status)
	assert.Equal(t, "invalid_transition", resp.Results[1].Error)
	assert.Equal(t, "not_found", resp.Results[3].Error)
	assert.Len(t, f.notifier.sent, 2)

	_, err = f.svc.BulkChangeStatus(context.Background(), admin, &models.BulkChangeStatusRequest{Status: "approved"})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestDelete(t *testing.T) {
	f := newFixture(domain.StatusPending)

	assert.ErrorIs(t, f.svc.Delete(context.Background(), owner, 1), ErrPermissionDenied)
	require.NoError(t, f.svc.Delete(context.Background(), admin, 1))
	assert.ErrorIs(t, f.svc.Delete(context.Background(), admin, 1), ErrAppointmentNotFound)
}
