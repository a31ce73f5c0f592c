package statusgauge

import (
	"context"
	"errors"
	"testing"

	"github.com/robfig/cron/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

type stubCounter struct {
	counts map[domain.AppointmentStatus]int
	err    error
}

func (s stubCounter) CountByStatus(context.Context) (map[domain.AppointmentStatus]int, error) {
	return s.counts, s.err
}

type recordingGauge struct {
	calls int
	last  map[string]int
}

func (g *recordingGauge) SetAppointmentsByStatus(counts map[string]int) {
	g.calls++
	g.last = counts
}

func TestJob_Run_FillsMissingStatuses(t *testing.T) {
	gauge := &recordingGauge{}
	job := NewJob(stubCounter{counts: map[domain.AppointmentStatus]int{
		domain.StatusPending:  3,
		domain.StatusApproved: 1,
	}}, gauge, nopLogger{})

	job.Run()

	require.Equal(t, 1, gauge.calls)
	assert.Len(t, gauge.last, len(domain.AllStatuses))
	assert.Equal(t, 3, gauge.last["pending"])
	assert.Equal(t, 1, gauge.last["approved"])
	assert.Equal(t, 0, gauge.last["cancelled"])
}

func TestJob_Run_KeepsGaugeOnError(t *testing.T) {
	gauge := &recordingGauge{}
	NewJob(stubCounter{err: errors.New("db down")}, gauge, nopLogger{}).Run()
	assert.Zero(t, gauge.calls)
}

func TestSchedule(t *testing.T) {
	c := cron.New()
	job := NewJob(stubCounter{}, &recordingGauge{}, nopLogger{})

	require.NoError(t, Schedule(c, "@every 1m", job))
	assert.Len(t, c.Entries(), 1)

	require.NoError(t, Schedule(c, "", job))
	assert.Len(t, c.Entries(), 1)

	assert.Error(t, Schedule(c, "every other tuesday", job))
}
