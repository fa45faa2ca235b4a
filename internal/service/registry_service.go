package service

import (
	"errors"
	"strings"

	"github.com/rs/zerolog/log"
	"gorm.io/datatypes"

	"github.com/johnolamide/echo-mcp-server/internal/apperr"
	"github.com/johnolamide/echo-mcp-server/internal/domain"
	"github.com/johnolamide/echo-mcp-server/internal/repository"
)

// registryService implements domain.ServiceRegistry. Mutations are admin-only;
// the handler layer enforces the gate.
type registryService struct {
	services domain.ServiceRepository
}

// NewServiceRegistry creates the service registry.
func NewServiceRegistry(services domain.ServiceRepository) domain.ServiceRegistry {
	return &registryService{services: services}
}

func (s *registryService) Create(creatorID uint, req domain.ServiceCreateRequest) (*domain.Service, error) {
	if _, err := s.services.GetByNameAndType(req.Name, req.Type); err == nil {
		return nil, apperr.Conflict("Service '" + req.Name + "' of type '" + req.Type + "' already exists")
	}

	method := strings.ToUpper(req.HTTPMethod)
	if method == "" {
		method = "POST"
	}
	timeout := req.TimeoutSeconds
	if timeout == 0 {
		timeout = 30
	}
	retries := req.RetryAttempts
	if retries == 0 {
		retries = 3
	}

	svc := &domain.Service{
		Name:            req.Name,
		Type:            req.Type,
		Description:     req.Description,
		APIBaseURL:      req.APIBaseURL,
		APIEndpoint:     req.APIEndpoint,
		HTTPMethod:      method,
		RequestTemplate: datatypes.JSONMap(req.RequestTemplate),
		ResponseMapping: datatypes.JSONMap(req.ResponseMapping),
		HeadersTemplate: datatypes.JSONMap(req.HeadersTemplate),
		TimeoutSeconds:  timeout,
		RetryAttempts:   retries,
		IsActive:        true,
		CreatedBy:       creatorID,
	}
	if err := s.services.Create(svc); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, apperr.Conflict("Service already exists")
		}
		log.Error().Err(err).Str("name", req.Name).Msg("create service")
		return nil, apperr.Internal("Failed to create service")
	}
	return svc, nil
}

// Get returns the service regardless of is_active; the flag only gates listings.
func (s *registryService) Get(id uint) (*domain.Service, error) {
	svc, err := s.services.GetByID(id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperr.NotFound("Service not found")
		}
		return nil, apperr.Internal("Failed to load service")
	}
	return svc, nil
}

func (s *registryService) Update(id uint, req domain.ServiceUpdateRequest) (*domain.Service, error) {
	svc, err := s.Get(id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		svc.Name = *req.Name
	}
	if req.Type != nil {
		svc.Type = *req.Type
	}
	if req.Description != nil {
		svc.Description = *req.Description
	}
	if req.APIBaseURL != nil {
		svc.APIBaseURL = *req.APIBaseURL
	}
	if req.APIEndpoint != nil {
		svc.APIEndpoint = *req.APIEndpoint
	}
	if req.HTTPMethod != nil {
		svc.HTTPMethod = strings.ToUpper(*req.HTTPMethod)
	}
	if req.RequestTemplate != nil {
		svc.RequestTemplate = datatypes.JSONMap(req.RequestTemplate)
	}
	if req.ResponseMapping != nil {
		svc.ResponseMapping = datatypes.JSONMap(req.ResponseMapping)
	}
	if req.HeadersTemplate != nil {
		svc.HeadersTemplate = datatypes.JSONMap(req.HeadersTemplate)
	}
	if req.TimeoutSeconds != nil {
		svc.TimeoutSeconds = *req.TimeoutSeconds
	}
	if req.RetryAttempts != nil {
		svc.RetryAttempts = *req.RetryAttempts
	}
	if req.IsActive != nil {
		svc.IsActive = *req.IsActive
	}

	if err := s.services.Update(svc); err != nil {
		log.Error().Err(err).Uint("service_id", id).Msg("update service")
		return nil, apperr.Internal("Failed to update service")
	}
	return svc, nil
}

func (s *registryService) Delete(id uint) error {
	if err := s.services.Delete(id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperr.NotFound("Service not found")
		}
		log.Error().Err(err).Uint("service_id", id).Msg("delete service")
		return apperr.Internal("Failed to delete service")
	}
	return nil
}

func (s *registryService) List(filter domain.ServiceFilter) (*domain.ServiceList, error) {
	services, total, err := s.services.List(filter)
	if err != nil {
		log.Error().Err(err).Msg("list services")
		return nil, apperr.Internal("Failed to list services")
	}
	return &domain.ServiceList{Services: services, Total: total}, nil
}
