package models

import (
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

// CreateSlotRequest запрос на создание слота
type CreateSlotRequest struct {
	DayOfWeek   int              `json:"dayOfWeek"` // 0 = понедельник ... 6 = воскресенье
	StartTime   types.TimeString `json:"startTime"`
	EndTime     types.TimeString `json:"endTime"`
	Capacity    *int             `json:"capacity,omitempty"`    // nil = 1
	IsAvailable *bool            `json:"isAvailable,omitempty"` // nil = открыт
}

// UpdateSlotRequest частичное обновление слота
type UpdateSlotRequest struct {
	DayOfWeek   *int              `json:"dayOfWeek,omitempty"`
	StartTime   *types.TimeString `json:"startTime,omitempty"`
	EndTime     *types.TimeString `json:"endTime,omitempty"`
	Capacity    *int              `json:"capacity,omitempty"`
	IsAvailable *bool             `json:"isAvailable,omitempty"`
}

// SlotResponse слот расписания
type SlotResponse struct {
	ID          int64            `json:"id"`
	ServiceID   int64            `json:"serviceId"`
	DayOfWeek   int              `json:"dayOfWeek"`
	DayName     string           `json:"dayName"`
	StartTime   types.TimeString `json:"startTime"`
	EndTime     types.TimeString `json:"endTime"`
	Capacity    int              `json:"capacity"`
	IsAvailable bool             `json:"isAvailable"`
	CreatedAt   time.Time        `json:"createdAt"`
	UpdatedAt   time.Time        `json:"updatedAt"`
}

// SlotListResponse список слотов
type SlotListResponse struct {
	Slots []SlotResponse `json:"slots"`
}

// FromDomainSlot конвертирует domain модель в DTO
func FromDomainSlot(s *domain.AvailabilitySlot) *SlotResponse {
	if s == nil {
		return nil
	}
	return &SlotResponse{
		ID:          s.ID,
		ServiceID:   s.ServiceID,
		DayOfWeek:   int(s.DayOfWeek),
		DayName:     s.DayOfWeek.String(),
		StartTime:   s.StartTime,
		EndTime:     s.EndTime,
		Capacity:    s.Capacity,
		IsAvailable: s.IsAvailable,
		CreatedAt:   s.CreatedAt,
		UpdatedAt:   s.UpdatedAt,
	}
}

// FromDomainSlotList конвертирует список domain моделей в DTO
func FromDomainSlotList(slots []*domain.AvailabilitySlot) *SlotListResponse {
	resp := &SlotListResponse{Slots: make([]SlotResponse, 0, len(slots))}
	for _, s := range slots {
		resp.Slots = append(resp.Slots, *FromDomainSlot(s))
	}
	return resp
}

// ToDomainSlot конвертирует запрос в domain модель
func (r *CreateSlotRequest) ToDomainSlot(serviceID int64) *domain.AvailabilitySlot {
	slot := &domain.AvailabilitySlot{
		ServiceID:   serviceID,
		DayOfWeek:   domain.Weekday(r.DayOfWeek),
		StartTime:   r.StartTime,
		EndTime:     r.EndTime,
		Capacity:    domain.DefaultSlotCapacity,
		IsAvailable: true,
	}
	if r.Capacity != nil {
		slot.Capacity = *r.Capacity
	}
	if r.IsAvailable != nil {
		slot.IsAvailable = *r.IsAvailable
	}
	return slot
}

// ApplyTo применяет переданные поля к слоту
func (r *UpdateSlotRequest) ApplyTo(s *domain.AvailabilitySlot) {
	if r.DayOfWeek != nil {
		s.DayOfWeek = domain.Weekday(*r.DayOfWeek)
	}
	if r.StartTime != nil {
		s.StartTime = *r.StartTime
	}
	if r.EndTime != nil {
		s.EndTime = *r.EndTime
	}
	if r.Capacity != nil {
		s.Capacity = *r.Capacity
	}
	if r.IsAvailable != nil {
		s.IsAvailable = *r.IsAvailable
	}
}
