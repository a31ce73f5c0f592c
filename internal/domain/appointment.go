package domain

import (
	"time"

	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

// AppointmentStatus статус записи
type AppointmentStatus string

const (
	StatusPending   AppointmentStatus = "pending"
	StatusApproved  AppointmentStatus = "approved"
	StatusRejected  AppointmentStatus = "rejected"
	StatusCancelled AppointmentStatus = "cancelled"
	StatusCompleted AppointmentStatus = "completed"
)

// AllStatuses все статусы в порядке жизненного цикла
var AllStatuses = []AppointmentStatus{
	StatusPending,
	StatusApproved,
	StatusRejected,
	StatusCancelled,
	StatusCompleted,
}

// CapacityStatuses статусы, которые занимают место в слоте
var CapacityStatuses = []AppointmentStatus{
	StatusPending,
	StatusApproved,
}

// IsValid проверяет, что статус известен
func (s AppointmentStatus) IsValid() bool {
	for _, known := range AllStatuses {
		if s == known {
			return true
		}
	}
	return false
}

// Appointment запись пользователя на услугу
type Appointment struct {
	ID         int64
	UserID     int64
	ServiceID  int64
	Date       time.Time
	Time       types.TimeString
	Status     AppointmentStatus
	Notes      *string
	AdminNotes *string
	CreatedAt  time.Time
	UpdatedAt  time.Time

	// Read model: заполняется при чтении через join
	ServiceName string
}

// OccupiesCapacity true для статусов, учитываемых при проверке вместимости
func (a *Appointment) OccupiesCapacity() bool {
	return a.Status == StatusPending || a.Status == StatusApproved
}

// IsTerminal true, если из текущего статуса нет переходов
func (a *Appointment) IsTerminal() bool {
	return IsTerminalStatus(a.Status)
}

// AppointmentFilter фильтр списка записей
type AppointmentFilter struct {
	UserID *int64             // nil = все пользователи (только для администратора)
	Status *AppointmentStatus // фильтр по статусу
	Limit  int
	Offset int
}
