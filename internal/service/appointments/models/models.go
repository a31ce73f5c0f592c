package models

import (
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

// Request модели

// ListAppointmentsRequest параметры списка записей
type ListAppointmentsRequest struct {
	UserID *int64  // учитывается только для администратора
	Status *string // фильтр по статусу
	Limit  int     // 0 = размер страницы по умолчанию
	Offset int
	Page   int // номер страницы с 1, если задан - заменяет Offset
}

// ChangeStatusRequest смена статуса записи
type ChangeStatusRequest struct {
	Status     string  `json:"status"`
	AdminNotes *string `json:"adminNotes,omitempty"`
}

// BulkChangeStatusRequest массовая смена статуса (например, одобрить выбранные)
type BulkChangeStatusRequest struct {
	IDs        []int64 `json:"ids"`
	Status     string  `json:"status"`
	AdminNotes *string `json:"adminNotes,omitempty"`
}

// Response модели

// AppointmentResponse запись на услугу
type AppointmentResponse struct {
	ID          int64            `json:"id"`
	UserID      int64            `json:"userId"`
	ServiceID   int64            `json:"serviceId"`
	ServiceName string           `json:"serviceName,omitempty"`
	Date        string           `json:"date"`
	Time        types.TimeString `json:"time"`
	Status      string           `json:"status"`
	Notes       *string          `json:"notes,omitempty"`
	AdminNotes  *string          `json:"adminNotes,omitempty"`
	CreatedAt   time.Time        `json:"createdAt"`
	UpdatedAt   time.Time        `json:"updatedAt"`
}

// AppointmentListResponse страница записей
type AppointmentListResponse struct {
	Appointments []AppointmentResponse `json:"appointments"`
	Total        int                   `json:"total"`
	Limit        int                   `json:"limit"`
	Offset       int                   `json:"offset"`
}

// BulkItemResult результат по одной записи массовой операции
type BulkItemResult struct {
	ID     int64  `json:"id"`
	Status string `json:"status"`          // новый статус при успехе
	Error  string `json:"error,omitempty"` // код ошибки при отказе
}

// BulkChangeStatusResponse результаты массовой операции
type BulkChangeStatusResponse struct {
	Updated int              `json:"updated"`
	Failed  int              `json:"failed"`
	Results []BulkItemResult `json:"results"`
}

// FromDomainAppointment конвертирует domain модель в DTO
func FromDomainAppointment(a *domain.Appointment) *AppointmentResponse {
	if a == nil {
		return nil
	}
	return &AppointmentResponse{
		ID:          a.ID,
		UserID:      a.UserID,
		ServiceID:   a.ServiceID,
		ServiceName: a.ServiceName,
		Date:        a.Date.Format(domain.DateFormat),
		Time:        a.Time,
		Status:      string(a.Status),
		Notes:       a.Notes,
		AdminNotes:  a.AdminNotes,
		CreatedAt:   a.CreatedAt,
		UpdatedAt:   a.UpdatedAt,
	}
}

// FromDomainAppointmentList конвертирует страницу domain моделей в DTO
func FromDomainAppointmentList(list []*domain.Appointment, total, limit, offset int) *AppointmentListResponse {
	resp := &AppointmentListResponse{
		Appointments: make([]AppointmentResponse, 0, len(list)),
		Total:        total,
		Limit:        limit,
		Offset:       offset,
	}
	for _, a := range list {
		resp.Appointments = append(resp.Appointments, *FromDomainAppointment(a))
	}
	return resp
}
