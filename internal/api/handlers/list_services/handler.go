package list_services

import (
	"errors"
	"net/http"
	"net/url"

	"github.com/m04kA/SMC-AppointmentService/internal/api/handlers"
	"github.com/m04kA/SMC-AppointmentService/internal/api/middleware"
	"github.com/m04kA/SMC-AppointmentService/internal/service/catalog"
	"github.com/m04kA/SMC-AppointmentService/internal/service/catalog/models"
)

const msgInvalidParams = "некорректные параметры фильтра каталога"

type Handler struct {
	service CatalogService
	logger  Logger
}

func NewHandler(service CatalogService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/services
// Query params: search, category, minPrice, maxPrice, duration, sort, includeInactive (только администратор)
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	principal := middleware.PrincipalOrAnonymous(r.Context())
	req := toServiceRequest(r.URL.Query())

	result, err := h.service.List(r.Context(), principal, req)
	if err != nil {
		switch {
		case errors.Is(err, catalog.ErrInvalidInput):
			h.logger.Warn("GET /services - Invalid filter: %v", err)
			handlers.RespondBadRequest(w, msgInvalidParams)

		default:
			h.logger.Error("GET /services - Failed to list services: %v", err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /services - Services listed: count=%d", len(result.Services))
	handlers.RespondJSON(w, http.StatusOK, result)
}

func toServiceRequest(q url.Values) *models.ListServicesRequest {
	opt := func(key string) *string {
		if v := q.Get(key); v != "" {
			return &v
		}
		return nil
	}
	return &models.ListServicesRequest{
		Search:          opt("search"),
		Category:        opt("category"),
		MinPrice:        opt("minPrice"),
		MaxPrice:        opt("maxPrice"),
		Duration:        opt("duration"),
		Sort:            opt("sort"),
		IncludeInactive: q.Get("includeInactive") == "true",
	}
}
