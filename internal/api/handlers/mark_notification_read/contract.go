package mark_notification_read

import (
	"context"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

type NotificationService interface {
	MarkRead(ctx context.Context, principal domain.Principal, id int64) error
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
