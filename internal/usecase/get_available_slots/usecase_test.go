package get_available_slots

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	serviceRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/service"
	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

type fixedClock struct{ now time.Time }

func (c fixedClock) Now() time.Time { return c.now }

type fakeServices map[int64]*domain.Service

func (f fakeServices) GetByID(_ context.Context, id int64) (*domain.Service, error) {
	s, ok := f[id]
	if !ok {
		return nil, serviceRepo.ErrServiceNotFound
	}
	return s, nil
}

type fakeSchedule struct {
	slots []*domain.AvailabilitySlot
	err   error
}

func (f *fakeSchedule) SlotsForDate(_ context.Context, serviceID int64, date time.Time) ([]*domain.AvailabilitySlot, error) {
	if f.err != nil {
		return nil, f.err
	}
	var out []*domain.AvailabilitySlot
	for _, s := range f.slots {
		if s.ServiceID == serviceID && s.AppliesTo(date) {
			out = append(out, s)
		}
	}
	return out, nil
}

type fakeCounts struct {
	counts map[types.TimeString]int
	err    error
	calls  int
}

func (f *fakeCounts) CountActiveByTime(context.Context, int64, time.Time) (map[types.TimeString]int, error) {
	f.calls++
	return f.counts, f.err
}

var (
	monday  = time.Date(2026, 10, 19, 0, 0, 0, 0, time.UTC)
	tuesday = time.Date(2026, 10, 20, 0, 0, 0, 0, time.UTC)
)

func morningSlot() *domain.AvailabilitySlot {
	return &domain.AvailabilitySlot{
		ID:          1,
		ServiceID:   1,
		DayOfWeek:   domain.Monday,
		StartTime:   types.MustTimeString("09:00"),
		EndTime:     types.MustTimeString("11:00"),
		Capacity:    2,
		IsAvailable: true,
	}
}

func newUseCase(services fakeServices, schedule *fakeSchedule, counts *fakeCounts, now time.Time) *UseCase {
	return NewUseCase(counts, services, schedule, time.UTC, nopLogger{}).
		WithTimeProvider(fixedClock{now: now})
}

func activeService(duration int) fakeServices {
	return fakeServices{1: {ID: 1, Name: "Консультация", DurationMinutes: duration, IsActive: true}}
}

func TestExecute_GeneratesTimesWithOccupancy(t *testing.T) {
	counts := &fakeCounts{counts: map[types.TimeString]int{
		types.MustTimeString("09:00"): 2,
		types.MustTimeString("10:30"): 1,
	}}
	uc := newUseCase(activeService(30), &fakeSchedule{slots: []*domain.AvailabilitySlot{morningSlot()}}, counts,
		time.Date(2026, 10, 17, 12, 0, 0, 0, time.UTC))

	resp, err := uc.Execute(context.Background(), &Request{ServiceID: 1, Date: monday})
	require.NoError(t, err)

	assert.Equal(t, domain.Monday, resp.DayOfWeek)
	require.Len(t, resp.Slots, 1)
	slot := resp.Slots[0]
	assert.Equal(t, 0, slot.RemainingAtStart)

	var times []string
	for _, o := range slot.Times {
		times = append(times, o.Time.String())
	}
	assert.Equal(t, []string{"09:00", "09:30", "10:00", "10:30"}, times)
	assert.Equal(t, 0, slot.Times[0].AvailableSpots)
	assert.Equal(t, 2, slot.Times[1].AvailableSpots)
	assert.Equal(t, 1, slot.Times[3].Booked)
	assert.Equal(t, 1, slot.Times[3].AvailableSpots)
}

func TestExecute_StepFollowsServiceDuration(t *testing.T) {
	uc := newUseCase(activeService(45), &fakeSchedule{slots: []*domain.AvailabilitySlot{morningSlot()}}, &fakeCounts{},
		time.Date(2026, 10, 17, 12, 0, 0, 0, time.UTC))

	resp, err := uc.Execute(context.Background(), &Request{ServiceID: 1, Date: monday})
	require.NoError(t, err)

	require.Len(t, resp.Slots, 1)
	var times []string
	for _, o := range resp.Slots[0].Times {
		times = append(times, o.Time.String())
	}
	assert.Equal(t, []string{"09:00", "09:45", "10:30"}, times)
}

func TestExecute_TodaySkipsPastTimes(t *testing.T) {
	uc := newUseCase(activeService(30), &fakeSchedule{slots: []*domain.AvailabilitySlot{morningSlot()}}, &fakeCounts{},
		time.Date(2026, 10, 19, 9, 45, 10, 0, time.UTC))

	resp, err := uc.Execute(context.Background(), &Request{ServiceID: 1, Date: monday})
	require.NoError(t, err)

	require.Len(t, resp.Slots, 1)
	var times []string
	for _, o := range resp.Slots[0].Times {
		times = append(times, o.Time.String())
	}
	assert.Equal(t, []string{"10:00", "10:30"}, times)
}

func TestExecute_NoSlotsOnOtherWeekday(t *testing.T) {
	counts := &fakeCounts{}
	uc := newUseCase(activeService(30), &fakeSchedule{slots: []*domain.AvailabilitySlot{morningSlot()}}, counts,
		time.Date(2026, 10, 17, 12, 0, 0, 0, time.UTC))

	resp, err := uc.Execute(context.Background(), &Request{ServiceID: 1, Date: tuesday})
	require.NoError(t, err)

	assert.Equal(t, domain.Tuesday, resp.DayOfWeek)
	assert.Empty(t, resp.Slots)
	assert.Zero(t, counts.calls)
}

func TestExecute_UnavailableSlotHidden(t *testing.T) {
	slot := morningSlot()
	slot.IsAvailable = false
	uc := newUseCase(activeService(30), &fakeSchedule{slots: []*domain.AvailabilitySlot{slot}}, &fakeCounts{},
		time.Date(2026, 10, 17, 12, 0, 0, 0, time.UTC))

	resp, err := uc.Execute(context.Background(), &Request{ServiceID: 1, Date: monday})
	require.NoError(t, err)
	assert.Empty(t, resp.Slots)
}

func TestExecute_Errors(t *testing.T) {
	now := time.Date(2026, 10, 17, 12, 0, 0, 0, time.UTC)
	schedule := &fakeSchedule{slots: []*domain.AvailabilitySlot{morningSlot()}}

	tests := []struct {
		name     string
		services fakeServices
		schedule *fakeSchedule
		counts   *fakeCounts
		req      *Request
		wantErr  error
	}{
		{
			name:     "invalid service id",
			services: activeService(30),
			schedule: schedule,
			counts:   &fakeCounts{},
			req:      &Request{ServiceID: 0, Date: monday},
			wantErr:  ErrInvalidInput,
		},
		{
			name:     "missing date",
			services: activeService(30),
			schedule: schedule,
			counts:   &fakeCounts{},
			req:      &Request{ServiceID: 1},
			wantErr:  ErrInvalidInput,
		},
		{
			name:     "date in the past",
			services: activeService(30),
			schedule: schedule,
			counts:   &fakeCounts{},
			req:      &Request{ServiceID: 1, Date: time.Date(2026, 10, 12, 0, 0, 0, 0, time.UTC)},
			wantErr:  ErrInvalidDate,
		},
		{
			name:     "unknown service",
			services: fakeServices{},
			schedule: schedule,
			counts:   &fakeCounts{},
			req:      &Request{ServiceID: 1, Date: monday},
			wantErr:  ErrServiceNotFound,
		},
		{
			name:     "inactive service",
			services: fakeServices{1: {ID: 1, DurationMinutes: 30}},
			schedule: schedule,
			counts:   &fakeCounts{},
			req:      &Request{ServiceID: 1, Date: monday},
			wantErr:  ErrServiceInactive,
		},
		{
			name:     "schedule failure",
			services: activeService(30),
			schedule: &fakeSchedule{err: errors.New("boom")},
			counts:   &fakeCounts{},
			req:      &Request{ServiceID: 1, Date: monday},
			wantErr:  ErrInternal,
		},
		{
			name:     "count failure",
			services: activeService(30),
			schedule: schedule,
			counts:   &fakeCounts{err: errors.New("boom")},
			req:      &Request{ServiceID: 1, Date: monday},
			wantErr:  ErrInternal,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc := newUseCase(tt.services, tt.schedule, tt.counts, now)
			_, err := uc.Execute(context.Background(), tt.req)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestGenerateTimeOptions_StopsAtMidnight(t *testing.T) {
	slot := &domain.AvailabilitySlot{
		StartTime: types.MustTimeString("23:00"),
		EndTime:   types.MustTimeString("23:59"),
		Capacity:  1,
	}
	options := generateTimeOptions(slot, 45, monday, time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC), nil)

	require.Len(t, options, 2)
	assert.Equal(t, "23:00", options[0].Time.String())
	assert.Equal(t, "23:45", options[1].Time.String())
	assert.Equal(t, 1, options[1].AvailableSpots)
}
