package check_availability

import (
	"github.com/m04kA/SMC-AppointmentService/internal/service/availability"
)

// AvailabilityResponse результат проверки времени
type AvailabilityResponse struct {
	Available         bool   `json:"available"`
	Reason            string `json:"reason,omitempty"` // in_past | no_slot | fully_booked
	SlotID            int64  `json:"slotId,omitempty"`
	Capacity          int    `json:"capacity"`
	Booked            int    `json:"booked"`
	RemainingCapacity int    `json:"remainingCapacity"`
}

func fromResolution(res *availability.Resolution) *AvailabilityResponse {
	return &AvailabilityResponse{
		Available:         true,
		SlotID:            res.Slot.ID,
		Capacity:          res.Slot.Capacity,
		Booked:            res.Booked,
		RemainingCapacity: res.RemainingCapacity,
	}
}

func fromRejection(rej *availability.Rejection) *AvailabilityResponse {
	return &AvailabilityResponse{
		Available: false,
		Reason:    string(rej.Reason),
		Capacity:  rej.Capacity,
	}
}
