package domain

import (
	"fmt"
	"time"
)

// Notification сообщение пользователю о смене статуса записи
type Notification struct {
	ID            int64
	UserID        int64
	AppointmentID *int64
	Kind          AppointmentStatus
	Message       string
	IsRead        bool
	CreatedAt     time.Time
}

var statusTemplates = map[AppointmentStatus]string{
	StatusApproved:  "Your appointment for %s on %s at %s has been approved.",
	StatusRejected:  "Your appointment for %s on %s at %s has been rejected.",
	StatusCompleted: "Your appointment for %s on %s at %s has been marked as completed.",
	StatusCancelled: "Your appointment for %s on %s at %s has been cancelled.",
}

// StatusMessage текст уведомления для нового статуса записи.
// ok = false, если статус не порождает уведомление.
func StatusMessage(a *Appointment) (string, bool) {
	tmpl, ok := statusTemplates[a.Status]
	if !ok {
		return "", false
	}
	service := a.ServiceName
	if service == "" {
		service = fmt.Sprintf("service #%d", a.ServiceID)
	}
	msg := fmt.Sprintf(tmpl, service, a.Date.Format(DateFormat), a.Time.String())
	if a.AdminNotes != nil && *a.AdminNotes != "" && a.Status != StatusCompleted {
		msg += " Note: " + *a.AdminNotes
	}
	return msg, true
}
