package change_appointment_status

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/m04kA/SMC-AppointmentService/internal/api/middleware"
	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/internal/service/appointments"
	"github.com/m04kA/SMC-AppointmentService/internal/service/appointments/models"
)

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

type mockService struct{ mock.Mock }

func (m *mockService) ChangeStatus(ctx context.Context, principal domain.Principal, id int64, req *models.ChangeStatusRequest) (*models.AppointmentResponse, error) {
	args := m.Called(ctx, principal, id, req)
	resp, _ := args.Get(0).(*models.AppointmentResponse)
	return resp, args.Error(1)
}

func TestHandle(t *testing.T) {
	admin := domain.Principal{UserID: 1, Role: domain.RoleAdmin}

	tests := []struct {
		name       string
		id         string
		body       string
		svcResp    *models.AppointmentResponse
		svcErr     error
		wantStatus int
	}{
		{name: "approved", id: "5", body: `{"status":"approved","adminNotes":"ok"}`, svcResp: &models.AppointmentResponse{ID: 5, Status: "approved"}, wantStatus: http.StatusOK},
		{name: "bad id", id: "x", body: `{"status":"approved"}`, wantStatus: http.StatusBadRequest},
		{name: "invalid transition", id: "5", body: `{"status":"pending"}`, svcErr: appointments.ErrInvalidTransition, wantStatus: http.StatusConflict},
		{name: "not found", id: "5", body: `{"status":"approved"}`, svcErr: appointments.ErrAppointmentNotFound, wantStatus: http.StatusNotFound},
		{name: "forbidden", id: "5", body: `{"status":"approved"}`, svcErr: appointments.ErrPermissionDenied, wantStatus: http.StatusForbidden},
		{name: "unknown status", id: "5", body: `{"status":"lost"}`, svcErr: appointments.ErrInvalidInput, wantStatus: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &mockService{}
			if tt.svcResp != nil || tt.svcErr != nil {
				svc.On("ChangeStatus", mock.Anything, admin, int64(5), mock.AnythingOfType("*models.ChangeStatusRequest")).
					Return(tt.svcResp, tt.svcErr)
			}

			req := httptest.NewRequest(http.MethodPatch, "/api/v1/appointments/"+tt.id+"/status", strings.NewReader(tt.body))
			req = mux.SetURLVars(req, map[string]string{"appointmentId": tt.id})
			req = req.WithContext(middleware.WithPrincipal(req.Context(), admin))
			rec := httptest.NewRecorder()

			NewHandler(svc, nopLogger{}).Handle(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			svc.AssertExpectations(t)
		})
	}
}
