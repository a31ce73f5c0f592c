package update_appointment

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	appointmentRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/appointment"
	serviceRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/service"
	"github.com/m04kA/SMC-AppointmentService/internal/service/availability"
	"github.com/m04kA/SMC-AppointmentService/pkg/ptr"
	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

type serialTx struct{}

func (serialTx) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type stubResolver struct {
	err        error
	candidates []availability.Candidate
}

func (s *stubResolver) Resolve(_ context.Context, c availability.Candidate) (*availability.Resolution, error) {
	s.candidates = append(s.candidates, c)
	if s.err != nil {
		return nil, s.err
	}
	return &availability.Resolution{Slot: &domain.AvailabilitySlot{ID: 1, Capacity: 1}, RemainingCapacity: 1}, nil
}

type store struct {
	appointments map[int64]*domain.Appointment
	services     map[int64]*domain.Service
	updates      int
}

type appointmentStore struct{ *store }

func (s appointmentStore) GetByID(_ context.Context, id int64) (*domain.Appointment, error) {
	a, ok := s.appointments[id]
	if !ok {
		return nil, appointmentRepo.ErrAppointmentNotFound
	}
	cp := *a
	return &cp, nil
}

func (s appointmentStore) Update(_ context.Context, a *domain.Appointment) error {
	s.updates++
	cp := *a
	s.appointments[a.ID] = &cp
	return nil
}

type serviceStore struct{ *store }

func (s serviceStore) GetByID(_ context.Context, id int64) (*domain.Service, error) {
	svc, ok := s.services[id]
	if !ok {
		return nil, serviceRepo.ErrServiceNotFound
	}
	return svc, nil
}

var (
	admin    = domain.Principal{UserID: 1, Role: domain.RoleAdmin}
	owner    = domain.Principal{UserID: 7, Role: domain.RoleUser}
	stranger = domain.Principal{UserID: 8, Role: domain.RoleUser}
	monday   = time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
)

func newFixture(status domain.AppointmentStatus) (*UseCase, *store, *stubResolver) {
	s := &store{
		appointments: map[int64]*domain.Appointment{
			5: {ID: 5, UserID: owner.UserID, ServiceID: 1, Date: monday, Time: types.MustTimeString("09:00"), Status: status},
		},
		services: map[int64]*domain.Service{
			1: {ID: 1, Name: "Dental Checkup", IsActive: true},
			2: {ID: 2, Name: "General Consultation", IsActive: true},
			3: {ID: 3, Name: "Retired", IsActive: false},
		},
	}
	r := &stubResolver{}
	return NewUseCase(appointmentStore{s}, serviceStore{s}, r, serialTx{}, nopLogger{}), s, r
}

func TestExecute_RescheduleRevalidatesExcludingSelf(t *testing.T) {
	uc, s, r := newFixture(domain.StatusPending)

	resp, err := uc.Execute(context.Background(), &Request{
		Principal:     owner,
		AppointmentID: 5,
		Time:          ptr.Ptr(types.MustTimeString("09:30")),
	})
	require.NoError(t, err)
	assert.Equal(t, types.MustTimeString("09:30"), resp.Time)

	require.Len(t, r.candidates, 1)
	assert.Equal(t, int64(5), *r.candidates[0].ExcludeAppointmentID)
	assert.Equal(t, 1, s.updates)
}

func TestExecute_NotesOnlySkipsResolver(t *testing.T) {
	uc, _, r := newFixture(domain.StatusPending)

	resp, err := uc.Execute(context.Background(), &Request{Principal: owner, AppointmentID: 5, Notes: ptr.Ptr("bring x-ray")})
	require.NoError(t, err)
	assert.Equal(t, "bring x-ray", *resp.Notes)
	assert.Empty(t, r.candidates)
}

func TestExecute_RejectionLeavesRowUntouched(t *testing.T) {
	uc, s, r := newFixture(domain.StatusPending)
	r.err = &availability.Rejection{Reason: availability.ReasonFullyBooked, Capacity: 1}

	_, err := uc.Execute(context.Background(), &Request{Principal: owner, AppointmentID: 5, Date: ptr.Ptr(monday.AddDate(0, 0, 7))})
	assert.ErrorIs(t, err, availability.ErrCapacityExceeded)
	assert.Equal(t, 0, s.updates)
	assert.Equal(t, monday, s.appointments[5].Date)
}

func TestExecute_ChangeService(t *testing.T) {
	uc, _, _ := newFixture(domain.StatusPending)

	resp, err := uc.Execute(context.Background(), &Request{Principal: owner, AppointmentID: 5, ServiceID: ptr.Ptr(int64(2))})
	require.NoError(t, err)
	assert.Equal(t, "General Consultation", resp.ServiceName)

	_, err = uc.Execute(context.Background(), &Request{Principal: owner, AppointmentID: 5, ServiceID: ptr.Ptr(int64(3))})
	assert.ErrorIs(t, err, ErrServiceInactive)

	_, err = uc.Execute(context.Background(), &Request{Principal: owner, AppointmentID: 5, ServiceID: ptr.Ptr(int64(9))})
	assert.ErrorIs(t, err, ErrServiceNotFound)
}

func TestExecute_EditRules(t *testing.T) {
	uc, _, _ := newFixture(domain.StatusApproved)

	_, err := uc.Execute(context.Background(), &Request{Principal: owner, AppointmentID: 5, Notes: ptr.Ptr("x")})
	assert.ErrorIs(t, err, ErrNotEditable)

	_, err = uc.Execute(context.Background(), &Request{Principal: admin, AppointmentID: 5, Notes: ptr.Ptr("x")})
	assert.NoError(t, err)

	_, err = uc.Execute(context.Background(), &Request{Principal: stranger, AppointmentID: 5, Notes: ptr.Ptr("x")})
	assert.ErrorIs(t, err, ErrPermissionDenied)

	uc, _, _ = newFixture(domain.StatusCompleted)
	_, err = uc.Execute(context.Background(), &Request{Principal: admin, AppointmentID: 5, Notes: ptr.Ptr("x")})
	assert.ErrorIs(t, err, ErrNotEditable)

	_, err = uc.Execute(context.Background(), &Request{Principal: admin, AppointmentID: 6})
	assert.ErrorIs(t, err, ErrAppointmentNotFound)
}
