package get_available_slots

import (
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

// generateTimeOptions генерирует варианты времени внутри окна слота [start, end)
// с шагом длительности услуги. Для сегодняшней даты прошедшее время отбрасывается.
func generateTimeOptions(
	slot *domain.AvailabilitySlot,
	stepMinutes int,
	requestDate time.Time,
	now time.Time,
	booked map[types.TimeString]int,
) []TimeOption {
	if stepMinutes <= 0 {
		stepMinutes = domain.DefaultServiceDurationMinutes
	}

	var minAllowed types.TimeString
	today := isSameDay(requestDate, now)
	if today {
		minAllowed = types.NewTimeString(now)
		if now.Second() > 0 || now.Nanosecond() > 0 {
			// текущая минута уже началась
			next := minAllowed.AddMinutes(1)
			if !next.IsAfter(minAllowed) {
				return []TimeOption{}
			}
			minAllowed = next
		}
	}

	options := make([]TimeOption, 0)
	for current := slot.StartTime; current.IsBefore(slot.EndTime); {
		if !today || !current.IsBefore(minAllowed) {
			count := booked[current]
			options = append(options, TimeOption{
				Time:           current,
				Booked:         count,
				AvailableSpots: remaining(slot.Capacity, count),
			})
		}

		next := current.AddMinutes(stepMinutes)
		// AddMinutes переходит через полночь, окно слота - нет
		if !next.IsAfter(current) {
			break
		}
		current = next
	}

	return options
}

// remaining свободные места, не меньше нуля
func remaining(capacity, booked int) int {
	if booked >= capacity {
		return 0
	}
	return capacity - booked
}
