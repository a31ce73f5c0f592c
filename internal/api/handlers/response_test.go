package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/internal/service/availability"
	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

func TestRespondRejection(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
		wantReason string
		wantCap    int
	}{
		{
			name:       "fully booked",
			err:        fmt.Errorf("create: %w", &availability.Rejection{Reason: availability.ReasonFullyBooked, Capacity: 2, Weekday: domain.Monday, Time: types.MustTimeString("09:00")}),
			wantStatus: http.StatusConflict,
			wantCode:   CodeCapacityExceeded,
			wantReason: "fully_booked",
			wantCap:    2,
		},
		{
			name:       "no slot",
			err:        &availability.Rejection{Reason: availability.ReasonNoSlot},
			wantStatus: http.StatusConflict,
			wantCode:   CodeSlotUnavailable,
			wantReason: "no_slot",
		},
		{
			name:       "in past",
			err:        &availability.Rejection{Reason: availability.ReasonInPast},
			wantStatus: http.StatusBadRequest,
			wantCode:   CodeValidation,
			wantReason: "in_past",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			require.True(t, RespondRejection(rec, tt.err))

			assert.Equal(t, tt.wantStatus, rec.Code)
			var body RejectionResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, tt.wantCode, body.Code)
			assert.Equal(t, tt.wantReason, body.Reason)
			assert.Equal(t, tt.wantCap, body.Capacity)
			assert.NotEmpty(t, body.Message)
		})
	}

	assert.False(t, RespondRejection(httptest.NewRecorder(), errors.New("other")))
}

func TestPathID(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)

	id, err := PathID(mux.SetURLVars(req, map[string]string{"slotId": "42"}), "slotId")
	require.NoError(t, err)
	assert.Equal(t, int64(42), id)

	for _, raw := range []string{"0", "-1", "abc", ""} {
		_, err := PathID(mux.SetURLVars(req, map[string]string{"slotId": raw}), "slotId")
		assert.Error(t, err, raw)
	}

	_, err = PathID(req, "slotId")
	assert.Error(t, err)
}

func TestDecodeJSON_RejectsUnknownFields(t *testing.T) {
	var v struct {
		Name string `json:"name"`
	}

	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":"x"}`))
	require.NoError(t, DecodeJSON(req, &v))
	assert.Equal(t, "x", v.Name)

	req = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":"x","role":"admin"}`))
	assert.Error(t, DecodeJSON(req, &v))

	req = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{`))
	assert.Error(t, DecodeJSON(req, &v))
}

func TestRespondError_Body(t *testing.T) {
	rec := httptest.NewRecorder()
	RespondNotFound(rec, "услуга не найдена")

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "application/json")
	var body ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, ErrorResponse{Code: CodeNotFound, Message: "услуга не найдена"}, body)
}
