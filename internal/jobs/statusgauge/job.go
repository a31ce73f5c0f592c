// Package statusgauge периодически выставляет gauge количества записей по статусам.
package statusgauge

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

// AppointmentCounter источник количества записей по статусам
type AppointmentCounter interface {
	CountByStatus(ctx context.Context) (map[domain.AppointmentStatus]int, error)
}

// Gauge приёмник значений
type Gauge interface {
	SetAppointmentsByStatus(counts map[string]int)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

const runTimeout = 10 * time.Second

type Job struct {
	counter AppointmentCounter
	gauge   Gauge
	logger  Logger
}

func NewJob(counter AppointmentCounter, gauge Gauge, logger Logger) *Job {
	return &Job{
		counter: counter,
		gauge:   gauge,
		logger:  logger,
	}
}

// Run один проход: все статусы выставляются, отсутствующие - нулём
func (j *Job) Run() {
	ctx, cancel := context.WithTimeout(context.Background(), runTimeout)
	defer cancel()

	counts, err := j.counter.CountByStatus(ctx)
	if err != nil {
		j.logger.Error("StatusGauge: failed to count appointments: %v", err)
		return
	}

	values := make(map[string]int, len(domain.AllStatuses))
	for _, status := range domain.AllStatuses {
		values[string(status)] = counts[status]
	}
	j.gauge.SetAppointmentsByStatus(values)
}

// Schedule регистрирует job в планировщике. Пустое выражение выключает job
func Schedule(c *cron.Cron, spec string, job *Job) error {
	if spec == "" {
		job.logger.Info("StatusGauge: disabled")
		return nil
	}
	if _, err := c.AddJob(spec, job); err != nil {
		return fmt.Errorf("failed to schedule status gauge %q: %w", spec, err)
	}
	job.logger.Info("StatusGauge: scheduled with spec=%s", spec)
	return nil
}
