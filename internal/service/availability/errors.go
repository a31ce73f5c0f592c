package availability

import (
	"errors"
	"fmt"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

var (
	// ErrBookingInPast возвращается, когда дата и время записи раньше текущего момента
	ErrBookingInPast = errors.New("availability: booking time is in the past")

	// ErrSlotUnavailable возвращается, когда нет открытого слота, покрывающего время
	ErrSlotUnavailable = errors.New("availability: no available slot covers the requested time")

	// ErrCapacityExceeded возвращается, когда все покрывающие слоты заполнены
	ErrCapacityExceeded = errors.New("availability: slot capacity exceeded")

	// ErrInvalidInput возвращается при некорректном кандидате
	ErrInvalidInput = errors.New("availability: invalid input data")

	// ErrInternal возвращается при внутренних ошибках резолвера
	ErrInternal = errors.New("availability: internal error")
)

// Reason машинно-читаемая причина отказа
type Reason string

const (
	ReasonInPast      Reason = "in_past"
	ReasonNoSlot      Reason = "no_slot"
	ReasonFullyBooked Reason = "fully_booked"
)

// Rejection отказ в записи с деталями для клиента
type Rejection struct {
	Reason   Reason
	Capacity int // наибольшая вместимость среди покрывающих слотов, 0 если слотов нет
	Weekday  domain.Weekday
	Time     types.TimeString
}

func (r *Rejection) Error() string {
	switch r.Reason {
	case ReasonInPast:
		return fmt.Sprintf("%v: %s at %s", ErrBookingInPast, r.Weekday, r.Time)
	case ReasonNoSlot:
		return fmt.Sprintf("%v: %s at %s", ErrSlotUnavailable, r.Weekday, r.Time)
	default:
		return fmt.Sprintf("%v: %s at %s, capacity %d", ErrCapacityExceeded, r.Weekday, r.Time, r.Capacity)
	}
}

// Unwrap позволяет сопоставлять отказ через errors.Is
func (r *Rejection) Unwrap() error {
	switch r.Reason {
	case ReasonInPast:
		return ErrBookingInPast
	case ReasonNoSlot:
		return ErrSlotUnavailable
	default:
		return ErrCapacityExceeded
	}
}

// AsRejection извлекает *Rejection из цепочки ошибок
func AsRejection(err error) (*Rejection, bool) {
	var rej *Rejection
	if errors.As(err, &rej) {
		return rej, true
	}
	return nil, false
}
