package middleware

import (
	"context"
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/integrations/userservice"
	"github.com/m04kA/SMC-AppointmentService/pkg/jwtauth"
)

// TokenVerifier проверяет Bearer токен
type TokenVerifier interface {
	Parse(token string) (*jwtauth.Claims, error)
}

// UserDirectory источник ролей пользователей (режим header)
type UserDirectory interface {
	GetUser(ctx context.Context, userID int64) (*userservice.User, error)
}

// HTTPMetrics метрики HTTP запросов
type HTTPMetrics interface {
	ObserveHTTPRequest(method, route string, status int, duration time.Duration)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
