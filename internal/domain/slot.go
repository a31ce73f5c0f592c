package domain

import (
	"time"

	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

// Weekday индекс дня недели: 0 = понедельник ... 6 = воскресенье
type Weekday int

const (
	Monday Weekday = iota
	Tuesday
	Wednesday
	Thursday
	Friday
	Saturday
	Sunday
)

// WeekdayOf возвращает индекс дня недели для даты
func WeekdayOf(date time.Time) Weekday {
	// time.Weekday: воскресенье = 0
	return Weekday((int(date.Weekday()) + 6) % 7)
}

// IsValid проверяет диапазон 0..6
func (w Weekday) IsValid() bool {
	return w >= Monday && w <= Sunday
}

func (w Weekday) String() string {
	names := [...]string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday"}
	if !w.IsValid() {
		return "Unknown"
	}
	return names[w]
}

// AvailabilitySlot повторяющееся еженедельное окно записи на услугу
type AvailabilitySlot struct {
	ID          int64
	ServiceID   int64
	DayOfWeek   Weekday
	StartTime   types.TimeString
	EndTime     types.TimeString
	Capacity    int
	IsAvailable bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Covers проверяет попадание времени в полуинтервал [start, end)
func (s *AvailabilitySlot) Covers(t types.TimeString) bool {
	return !t.IsBefore(s.StartTime) && t.IsBefore(s.EndTime)
}

// AppliesTo true, если слот открыт в указанную дату
func (s *AvailabilitySlot) AppliesTo(date time.Time) bool {
	return s.IsAvailable && s.DayOfWeek == WeekdayOf(date)
}

// HasValidRange true, если конец строго позже начала
func (s *AvailabilitySlot) HasValidRange() bool {
	return s.EndTime.IsAfter(s.StartTime)
}
