package check_availability

import (
	"context"

	"github.com/m04kA/SMC-AppointmentService/internal/service/availability"
)

type AvailabilityResolver interface {
	Resolve(ctx context.Context, c availability.Candidate) (*availability.Resolution, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
