package catalog

import (
	"context"
	"errors"
	"fmt"
	"unicode/utf8"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	serviceRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/service"
	"github.com/m04kA/SMC-AppointmentService/internal/service/catalog/models"
)

// Service каталог услуг
type Service struct {
	serviceRepo  ServiceRepository
	imageCleaner ImageCleaner
	logger       Logger
}

// NewService создает новый экземпляр сервиса каталога.
// imageCleaner может быть nil - тогда заменённые изображения не удаляются.
func NewService(serviceRepo ServiceRepository, imageCleaner ImageCleaner, logger Logger) *Service {
	return &Service{
		serviceRepo:  serviceRepo,
		imageCleaner: imageCleaner,
		logger:       logger,
	}
}

// Create создает услугу. Доступно только администратору
func (s *Service) Create(ctx context.Context, principal domain.Principal, req *models.CreateServiceRequest) (*models.ServiceResponse, error) {
	s.logger.Info("Create: creating service name=%q by user=%d", req.Name, principal.UserID)

	if !principal.Can(domain.ActionManageCatalog, 0) {
		s.logger.Warn("Create: user=%d is not an admin", principal.UserID)
		return nil, ErrPermissionDenied
	}

	service := req.ToDomainService()
	if err := validateService(service); err != nil {
		s.logger.Warn("Create: validation failed: %v", err)
		return nil, err
	}

	created, err := s.serviceRepo.Create(ctx, service)
	if err != nil {
		s.logger.Error("Create: repository error: %v", err)
		return nil, fmt.Errorf("%w: Create - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("Create: successfully created service id=%d", created.ID)
	return models.FromDomainService(created), nil
}

// Update частично обновляет услугу. Доступно только администратору.
// При замене изображения старый файл удаляется после сохранения.
func (s *Service) Update(ctx context.Context, principal domain.Principal, id int64, req *models.UpdateServiceRequest) (*models.ServiceResponse, error) {
	s.logger.Info("Update: updating service id=%d by user=%d", id, principal.UserID)

	if !principal.Can(domain.ActionManageCatalog, 0) {
		s.logger.Warn("Update: user=%d is not an admin", principal.UserID)
		return nil, ErrPermissionDenied
	}

	service, err := s.serviceRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, serviceRepo.ErrServiceNotFound) {
			s.logger.Warn("Update: service id=%d not found", id)
			return nil, ErrServiceNotFound
		}
		s.logger.Error("Update: repository error for service id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: Update - repository error: %v", ErrInternal, err)
	}

	oldImage := service.ImagePath
	req.ApplyTo(service)

	if err := validateService(service); err != nil {
		s.logger.Warn("Update: validation failed for service id=%d: %v", id, err)
		return nil, err
	}

	updated, err := s.serviceRepo.Update(ctx, service)
	if err != nil {
		if errors.Is(err, serviceRepo.ErrServiceNotFound) {
			return nil, ErrServiceNotFound
		}
		s.logger.Error("Update: repository error for service id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: Update - repository error: %v", ErrInternal, err)
	}

	if imageReplaced(oldImage, updated.ImagePath) {
		s.removeImage(ctx, id, *oldImage)
	}

	s.logger.Info("Update: successfully updated service id=%d", id)
	return models.FromDomainService(updated), nil
}

// List возвращает каталог по фильтру. Неактивные услуги видит только администратор
func (s *Service) List(ctx context.Context, principal domain.Principal, req *models.ListServicesRequest) (*models.ServiceListResponse, error) {
	filter, err := req.ToDomainFilter()
	if err != nil {
		s.logger.Warn("List: invalid filter: %v", err)
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	if filter.IncludeInactive && !principal.Can(domain.ActionViewInactive, 0) {
		filter.IncludeInactive = false
	}

	services, err := s.serviceRepo.List(ctx, filter)
	if err != nil {
		s.logger.Error("List: repository error: %v", err)
		return nil, fmt.Errorf("%w: List - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("List: fetched %d services", len(services))
	return models.FromDomainServiceList(services), nil
}

// Get возвращает услугу. Для не-администратора неактивная услуга не существует
func (s *Service) Get(ctx context.Context, principal domain.Principal, id int64) (*models.ServiceResponse, error) {
	service, err := s.serviceRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, serviceRepo.ErrServiceNotFound) {
			s.logger.Warn("Get: service id=%d not found", id)
			return nil, ErrServiceNotFound
		}
		s.logger.Error("Get: repository error for service id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: Get - repository error: %v", ErrInternal, err)
	}

	if !service.IsActive && !principal.Can(domain.ActionViewInactive, 0) {
		s.logger.Warn("Get: service id=%d is inactive, hidden from user=%d", id, principal.UserID)
		return nil, ErrServiceNotFound
	}

	return models.FromDomainService(service), nil
}

func (s *Service) removeImage(ctx context.Context, serviceID int64, path string) {
	if s.imageCleaner == nil {
		return
	}
	if err := s.imageCleaner.Remove(ctx, path); err != nil {
		s.logger.Warn("Update: failed to remove old image %q of service id=%d: %v", path, serviceID, err)
		return
	}
	s.logger.Info("Update: removed old image %q of service id=%d", path, serviceID)
}

func imageReplaced(old, current *string) bool {
	if old == nil || *old == "" {
		return false
	}
	return current == nil || *current != *old
}

func validateService(s *domain.Service) error {
	nameLen := utf8.RuneCountInString(s.Name)
	if nameLen == 0 || nameLen > domain.MaxServiceNameLength {
		return fmt.Errorf("%w: name must be 1..%d characters", ErrInvalidInput, domain.MaxServiceNameLength)
	}
	if !s.Category.IsValid() {
		return fmt.Errorf("%w: unknown category %q", ErrInvalidInput, s.Category)
	}
	if s.DurationMinutes < domain.MinServiceDurationMinutes || s.DurationMinutes > domain.MaxServiceDurationMinutes {
		return fmt.Errorf("%w: durationMinutes must be %d..%d", ErrInvalidInput,
			domain.MinServiceDurationMinutes, domain.MaxServiceDurationMinutes)
	}
	if s.Price.IsNegative() {
		return fmt.Errorf("%w: price must not be negative", ErrInvalidInput)
	}
	return nil
}
