package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

// Request модели

// CreateServiceRequest запрос на создание услуги
type CreateServiceRequest struct {
	Name            string          `json:"name"`
	Description     string          `json:"description"`
	Category        string          `json:"category"`
	DurationMinutes *int            `json:"durationMinutes,omitempty"` // nil = 30 минут
	Price           decimal.Decimal `json:"price"`
	ImagePath       *string         `json:"imagePath,omitempty"`
	IsActive        *bool           `json:"isActive,omitempty"` // nil = активна
}

// UpdateServiceRequest частичное обновление услуги
// Все поля опциональны - обновляются только переданные значения
type UpdateServiceRequest struct {
	Name            *string          `json:"name,omitempty"`
	Description     *string          `json:"description,omitempty"`
	Category        *string          `json:"category,omitempty"`
	DurationMinutes *int             `json:"durationMinutes,omitempty"`
	Price           *decimal.Decimal `json:"price,omitempty"`
	ImagePath       *string          `json:"imagePath,omitempty"` // пустая строка удаляет изображение
	IsActive        *bool            `json:"isActive,omitempty"`
}

// ListServicesRequest параметры листинга каталога (строки из query)
type ListServicesRequest struct {
	Search          *string
	Category        *string
	MinPrice        *string
	MaxPrice        *string
	Duration        *string
	Sort            *string
	IncludeInactive bool
}

// ToDomainFilter разбирает и проверяет параметры листинга
func (r *ListServicesRequest) ToDomainFilter() (domain.ServiceFilter, error) {
	filter := domain.ServiceFilter{
		Sort:            domain.SortByName,
		IncludeInactive: r.IncludeInactive,
	}

	if r.Search != nil {
		if s := strings.TrimSpace(*r.Search); s != "" {
			filter.Search = &s
		}
	}

	if r.Category != nil && *r.Category != "" {
		c := domain.Category(*r.Category)
		if !c.IsValid() {
			return filter, fmt.Errorf("unknown category %q", *r.Category)
		}
		filter.Category = &c
	}

	var err error
	if filter.MinPrice, err = parsePrice("minPrice", r.MinPrice); err != nil {
		return filter, err
	}
	if filter.MaxPrice, err = parsePrice("maxPrice", r.MaxPrice); err != nil {
		return filter, err
	}
	if filter.MinPrice != nil && filter.MaxPrice != nil && filter.MinPrice.GreaterThan(*filter.MaxPrice) {
		return filter, fmt.Errorf("minPrice %s is greater than maxPrice %s", filter.MinPrice, filter.MaxPrice)
	}

	if r.Duration != nil && *r.Duration != "" {
		b := domain.DurationBucket(*r.Duration)
		if !b.IsValid() {
			return filter, fmt.Errorf("unknown duration %q", *r.Duration)
		}
		filter.Duration = &b
	}

	if r.Sort != nil && *r.Sort != "" {
		s := domain.ServiceSort(*r.Sort)
		if !s.IsValid() {
			return filter, fmt.Errorf("unknown sort %q", *r.Sort)
		}
		filter.Sort = s
	}

	return filter, nil
}

func parsePrice(name string, raw *string) (*decimal.Decimal, error) {
	if raw == nil || *raw == "" {
		return nil, nil
	}
	d, err := decimal.NewFromString(*raw)
	if err != nil {
		return nil, fmt.Errorf("%s is not a number: %q", name, *raw)
	}
	if d.IsNegative() {
		return nil, fmt.Errorf("%s must not be negative", name)
	}
	return &d, nil
}

// Response модели

// ServiceResponse услуга каталога
type ServiceResponse struct {
	ID              int64           `json:"id"`
	Name            string          `json:"name"`
	Description     string          `json:"description"`
	Category        string          `json:"category"`
	DurationMinutes int             `json:"durationMinutes"`
	DurationDisplay string          `json:"durationDisplay"`
	Price           decimal.Decimal `json:"price"`
	ImagePath       *string         `json:"imagePath,omitempty"`
	IsActive        bool            `json:"isActive"`
	CreatedAt       time.Time       `json:"createdAt"`
	UpdatedAt       time.Time       `json:"updatedAt"`
}

// ServiceListResponse список услуг
type ServiceListResponse struct {
	Services []ServiceResponse `json:"services"`
}

// FromDomainService конвертирует domain модель в DTO
func FromDomainService(s *domain.Service) *ServiceResponse {
	if s == nil {
		return nil
	}
	return &ServiceResponse{
		ID:              s.ID,
		Name:            s.Name,
		Description:     s.Description,
		Category:        string(s.Category),
		DurationMinutes: s.DurationMinutes,
		DurationDisplay: s.DurationDisplay(),
		Price:           s.Price,
		ImagePath:       s.ImagePath,
		IsActive:        s.IsActive,
		CreatedAt:       s.CreatedAt,
		UpdatedAt:       s.UpdatedAt,
	}
}

// FromDomainServiceList конвертирует список domain моделей в DTO
func FromDomainServiceList(services []*domain.Service) *ServiceListResponse {
	resp := &ServiceListResponse{Services: make([]ServiceResponse, 0, len(services))}
	for _, s := range services {
		resp.Services = append(resp.Services, *FromDomainService(s))
	}
	return resp
}

// ToDomainService конвертирует запрос на создание в domain модель
func (r *CreateServiceRequest) ToDomainService() *domain.Service {
	s := &domain.Service{
		Name:            strings.TrimSpace(r.Name),
		Description:     r.Description,
		Category:        domain.Category(r.Category),
		DurationMinutes: domain.DefaultServiceDurationMinutes,
		Price:           r.Price,
		ImagePath:       r.ImagePath,
		IsActive:        true,
	}
	if r.DurationMinutes != nil {
		s.DurationMinutes = *r.DurationMinutes
	}
	if r.IsActive != nil {
		s.IsActive = *r.IsActive
	}
	return s
}

// ApplyTo применяет переданные поля к услуге
func (r *UpdateServiceRequest) ApplyTo(s *domain.Service) {
	if r.Name != nil {
		s.Name = strings.TrimSpace(*r.Name)
	}
	if r.Description != nil {
		s.Description = *r.Description
	}
	if r.Category != nil {
		s.Category = domain.Category(*r.Category)
	}
	if r.DurationMinutes != nil {
		s.DurationMinutes = *r.DurationMinutes
	}
	if r.Price != nil {
		s.Price = *r.Price
	}
	if r.ImagePath != nil {
		if *r.ImagePath == "" {
			s.ImagePath = nil
		} else {
			path := *r.ImagePath
			s.ImagePath = &path
		}
	}
	if r.IsActive != nil {
		s.IsActive = *r.IsActive
	}
}
