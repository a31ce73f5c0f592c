package list_appointments

import (
	"fmt"
	"net/url"
	"strconv"

	"github.com/m04kA/SMC-AppointmentService/internal/service/appointments/models"
)

// ToServiceRequest разбирает query параметры: status, userId, page или limit/offset
func ToServiceRequest(q url.Values) (*models.ListAppointmentsRequest, error) {
	req := &models.ListAppointmentsRequest{}

	if status := q.Get("status"); status != "" {
		req.Status = &status
	}

	if raw := q.Get("userId"); raw != "" {
		userID, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || userID <= 0 {
			return nil, fmt.Errorf("invalid userId %q", raw)
		}
		req.UserID = &userID
	}

	var err error
	if req.Limit, err = nonNegative(q, "limit"); err != nil {
		return nil, err
	}
	if req.Offset, err = nonNegative(q, "offset"); err != nil {
		return nil, err
	}

	// page (с единицы) переводится в offset при известном limit
	if raw := q.Get("page"); raw != "" {
		page, err := strconv.Atoi(raw)
		if err != nil || page < 1 {
			return nil, fmt.Errorf("invalid page %q", raw)
		}
		req.Page = page
	}

	return req, nil
}

func nonNegative(q url.Values, key string) (int, error) {
	raw := q.Get(key)
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("invalid %s %q", key, raw)
	}
	return n, nil
}
