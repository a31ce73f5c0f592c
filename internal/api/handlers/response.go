package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-AppointmentService/internal/service/availability"
)

// Коды ошибок в теле ответа
const (
	CodeValidation        = "validation_error"
	CodeUnauthorized      = "unauthorized"
	CodePermissionDenied  = "permission_denied"
	CodeNotFound          = "not_found"
	CodeSlotUnavailable   = "slot_unavailable"
	CodeCapacityExceeded  = "capacity_exceeded"
	CodeInvalidTransition = "invalid_transition"
	CodeInactive          = "inactive"
	CodeRateLimited       = "rate_limited"
	CodeInternal          = "internal_error"
)

const (
	msgInternalError    = "внутренняя ошибка сервера"
	msgBookingInPast    = "нельзя записаться на прошедшее время"
	msgSlotUnavailable  = "на выбранное время нет доступного слота"
	msgCapacityExceeded = "на выбранное время нет свободных мест"
)

// maxBodyBytes ограничение размера тела запроса
const maxBodyBytes = 1 << 20

// ErrorResponse тело ответа с ошибкой
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// RejectionResponse тело ответа при отказе в записи
type RejectionResponse struct {
	Code     string `json:"code"`
	Message  string `json:"message"`
	Reason   string `json:"reason"`
	Capacity int    `json:"capacity"`
}

// DecodeJSON декодирует тело запроса, неизвестные поля запрещены
func DecodeJSON(r *http.Request, v interface{}) error {
	if r.Body == nil {
		return errors.New("empty request body")
	}
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("decode json: %w", err)
	}
	return nil
}

// PathID извлекает положительный int64 из переменной пути
func PathID(r *http.Request, name string) (int64, error) {
	raw, ok := mux.Vars(r)[name]
	if !ok {
		return 0, fmt.Errorf("path variable %s is missing", name)
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("path variable %s is not a positive integer: %q", name, raw)
	}
	return id, nil
}

func RespondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	_ = json.NewEncoder(w).Encode(payload)
}

func RespondNoContent(w http.ResponseWriter) {
	w.WriteHeader(http.StatusNoContent)
}

func RespondError(w http.ResponseWriter, status int, code, message string) {
	RespondJSON(w, status, ErrorResponse{Code: code, Message: message})
}

func RespondBadRequest(w http.ResponseWriter, message string) {
	RespondError(w, http.StatusBadRequest, CodeValidation, message)
}

func RespondUnauthorized(w http.ResponseWriter, message string) {
	RespondError(w, http.StatusUnauthorized, CodeUnauthorized, message)
}

func RespondForbidden(w http.ResponseWriter, message string) {
	RespondError(w, http.StatusForbidden, CodePermissionDenied, message)
}

func RespondNotFound(w http.ResponseWriter, message string) {
	RespondError(w, http.StatusNotFound, CodeNotFound, message)
}

func RespondConflict(w http.ResponseWriter, code, message string) {
	RespondError(w, http.StatusConflict, code, message)
}

func RespondUnprocessable(w http.ResponseWriter, message string) {
	RespondError(w, http.StatusUnprocessableEntity, CodeInactive, message)
}

func RespondTooManyRequests(w http.ResponseWriter, message string) {
	RespondError(w, http.StatusTooManyRequests, CodeRateLimited, message)
}

func RespondInternalError(w http.ResponseWriter) {
	RespondError(w, http.StatusInternalServerError, CodeInternal, msgInternalError)
}

// RespondRejection отвечает на отказ резолвера.
// Запись в прошлом - 400, нет слота или мест - 409 с причиной и вместимостью.
// Возвращает false, если err не является отказом.
func RespondRejection(w http.ResponseWriter, err error) bool {
	rej, ok := availability.AsRejection(err)
	if !ok {
		return false
	}

	switch rej.Reason {
	case availability.ReasonInPast:
		RespondJSON(w, http.StatusBadRequest, RejectionResponse{
			Code:    CodeValidation,
			Message: msgBookingInPast,
			Reason:  string(rej.Reason),
		})
	case availability.ReasonNoSlot:
		RespondJSON(w, http.StatusConflict, RejectionResponse{
			Code:     CodeSlotUnavailable,
			Message:  msgSlotUnavailable,
			Reason:   string(rej.Reason),
			Capacity: rej.Capacity,
		})
	default:
		RespondJSON(w, http.StatusConflict, RejectionResponse{
			Code:     CodeCapacityExceeded,
			Message:  msgCapacityExceeded,
			Reason:   string(rej.Reason),
			Capacity: rej.Capacity,
		})
	}
	return true
}
