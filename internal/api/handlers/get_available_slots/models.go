package get_available_slots

import (
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	getAvailableSlots "github.com/m04kA/SMC-AppointmentService/internal/usecase/get_available_slots"
)

// AvailableSlotsResponse HTTP response model
type AvailableSlotsResponse struct {
	ServiceID int64          `json:"serviceId"`
	Date      string         `json:"date"`
	DayOfWeek int            `json:"dayOfWeek"`
	DayName   string         `json:"dayName"`
	Slots     []SlotResponse `json:"slots"`
}

// SlotResponse слот с занятостью
type SlotResponse struct {
	SlotID           int64                `json:"slotId"`
	StartTime        string               `json:"startTime"`
	EndTime          string               `json:"endTime"`
	Capacity         int                  `json:"capacity"`
	RemainingAtStart int                  `json:"remainingAtStart"`
	Times            []TimeOptionResponse `json:"times"`
}

// TimeOptionResponse вариант времени внутри слота
type TimeOptionResponse struct {
	Time           string `json:"time"`
	Booked         int    `json:"booked"`
	AvailableSpots int    `json:"availableSpots"`
	IsAvailable    bool   `json:"isAvailable"`
}

// ToUseCaseRequest конвертирует параметры запроса в модель use case
func ToUseCaseRequest(serviceID int64, dateStr string) (*getAvailableSlots.Request, error) {
	date, err := time.Parse(domain.DateFormat, dateStr)
	if err != nil {
		return nil, err
	}
	return &getAvailableSlots.Request{
		ServiceID: serviceID,
		Date:      date,
	}, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *getAvailableSlots.Response) *AvailableSlotsResponse {
	out := &AvailableSlotsResponse{
		ServiceID: resp.ServiceID,
		Date:      resp.Date.Format(domain.DateFormat),
		DayOfWeek: int(resp.DayOfWeek),
		DayName:   resp.DayOfWeek.String(),
		Slots:     make([]SlotResponse, 0, len(resp.Slots)),
	}
	for _, slot := range resp.Slots {
		times := make([]TimeOptionResponse, 0, len(slot.Times))
		for _, t := range slot.Times {
			times = append(times, TimeOptionResponse{
				Time:           t.Time.String(),
				Booked:         t.Booked,
				AvailableSpots: t.AvailableSpots,
				IsAvailable:    t.AvailableSpots > 0,
			})
		}
		out.Slots = append(out.Slots, SlotResponse{
			SlotID:           slot.SlotID,
			StartTime:        slot.StartTime.String(),
			EndTime:          slot.EndTime.String(),
			Capacity:         slot.Capacity,
			RemainingAtStart: slot.RemainingAtStart,
			Times:            times,
		})
	}
	return out
}
