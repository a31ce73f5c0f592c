package check_availability

import (
	"errors"
	"net/http"
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/api/handlers"
	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/internal/service/availability"
	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

const (
	msgInvalidServiceID = "некорректный ID услуги"
	msgInvalidDate      = "некорректный формат даты, ожидается YYYY-MM-DD"
	msgInvalidTime      = "некорректный формат времени, ожидается HH:MM"
)

type Handler struct {
	resolver AvailabilityResolver
	logger   Logger
}

func NewHandler(resolver AvailabilityResolver, logger Logger) *Handler {
	return &Handler{
		resolver: resolver,
		logger:   logger,
	}
}

// Handle GET /api/v1/services/{serviceId}/availability
// Query params: date (YYYY-MM-DD), time (HH:MM). Отказ - это 200 с available=false
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	serviceID, err := handlers.PathID(r, "serviceId")
	if err != nil {
		h.logger.Warn("GET /services/{id}/availability - Invalid service ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidServiceID)
		return
	}

	date, err := time.Parse(domain.DateFormat, r.URL.Query().Get("date"))
	if err != nil {
		h.logger.Warn("GET /services/{id}/availability - Invalid date: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}

	at, err := types.NewTimeStringFromString(r.URL.Query().Get("time"))
	if err != nil {
		h.logger.Warn("GET /services/{id}/availability - Invalid time: %v", err)
		handlers.RespondBadRequest(w, msgInvalidTime)
		return
	}

	res, err := h.resolver.Resolve(r.Context(), availability.Candidate{
		ServiceID: serviceID,
		Date:      date,
		Time:      at,
	})
	if err != nil {
		if rej, ok := availability.AsRejection(err); ok {
			h.logger.Info("GET /services/{id}/availability - Not available: service_id=%d, reason=%s", serviceID, rej.Reason)
			handlers.RespondJSON(w, http.StatusOK, fromRejection(rej))
			return
		}
		if errors.Is(err, availability.ErrInvalidInput) {
			h.logger.Warn("GET /services/{id}/availability - Invalid input: %v", err)
			handlers.RespondBadRequest(w, msgInvalidTime)
			return
		}
		h.logger.Error("GET /services/{id}/availability - Failed to resolve: service_id=%d, error=%v", serviceID, err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("GET /services/{id}/availability - Available: service_id=%d, slot_id=%d, remaining=%d",
		serviceID, res.Slot.ID, res.RemainingCapacity)
	handlers.RespondJSON(w, http.StatusOK, fromResolution(res))
}
