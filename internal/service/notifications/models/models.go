package models

import (
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

// NotificationResponse уведомление пользователя
type NotificationResponse struct {
	ID            int64     `json:"id"`
	AppointmentID *int64    `json:"appointmentId,omitempty"`
	Kind          string    `json:"kind,omitempty"`
	Message       string    `json:"message"`
	IsRead        bool      `json:"isRead"`
	CreatedAt     time.Time `json:"createdAt"`
}

// NotificationListResponse список уведомлений и количество непрочитанных
type NotificationListResponse struct {
	Notifications []NotificationResponse `json:"notifications"`
	Unread        int                    `json:"unread"`
}

// FromDomainNotificationList конвертирует список domain моделей в DTO
func FromDomainNotificationList(list []*domain.Notification, unread int) *NotificationListResponse {
	resp := &NotificationListResponse{
		Notifications: make([]NotificationResponse, 0, len(list)),
		Unread:        unread,
	}
	for _, n := range list {
		resp.Notifications = append(resp.Notifications, NotificationResponse{
			ID:            n.ID,
			AppointmentID: n.AppointmentID,
			Kind:          string(n.Kind),
			Message:       n.Message,
			IsRead:        n.IsRead,
			CreatedAt:     n.CreatedAt,
		})
	}
	return resp
}
