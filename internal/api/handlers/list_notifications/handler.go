package list_notifications

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/m04kA/SMC-AppointmentService/internal/api/handlers"
	"github.com/m04kA/SMC-AppointmentService/internal/api/middleware"
	"github.com/m04kA/SMC-AppointmentService/internal/service/notifications"
)

const (
	msgInvalidUnread = "некорректное значение параметра unread"
	msgUnauthorized  = "требуется аутентификация"
)

type Handler struct {
	service NotificationService
	logger  Logger
}

func NewHandler(service NotificationService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/notifications
// Query params: unread (true|false, опционально)
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	principal, ok := middleware.GetPrincipal(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgUnauthorized)
		return
	}

	unreadOnly := false
	if raw := r.URL.Query().Get("unread"); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			h.logger.Warn("GET /notifications - Invalid unread flag: %q", raw)
			handlers.RespondBadRequest(w, msgInvalidUnread)
			return
		}
		unreadOnly = v
	}

	result, err := h.service.List(r.Context(), principal, unreadOnly)
	if err != nil {
		switch {
		case errors.Is(err, notifications.ErrUnauthenticated):
			handlers.RespondUnauthorized(w, msgUnauthorized)

		default:
			h.logger.Error("GET /notifications - Failed to list notifications: user_id=%d, error=%v", principal.UserID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /notifications - Notifications retrieved: user_id=%d, count=%d, unread=%d",
		principal.UserID, len(result.Notifications), result.Unread)
	handlers.RespondJSON(w, http.StatusOK, result)
}
