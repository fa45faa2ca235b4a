package domain

import (
	"time"

	"gorm.io/datatypes"
)

// Service is an admin-managed registry entry describing an external HTTP API.
// Request execution is handled elsewhere; this is configuration only.
type Service struct {
	ID              uint              `json:"id" gorm:"primaryKey"`
	Name            string            `json:"name" gorm:"index;size:255;not null"`
	Type            string            `json:"type" gorm:"index;size:100;not null"`
	Description     string            `json:"description"`
	APIBaseURL      string            `json:"api_base_url" gorm:"size:500;not null"`
	APIEndpoint     string            `json:"api_endpoint" gorm:"size:255;not null"`
	HTTPMethod      string            `json:"http_method" gorm:"size:10;default:POST"`
	RequestTemplate datatypes.JSONMap `json:"request_template"`
	ResponseMapping datatypes.JSONMap `json:"response_mapping"`
	HeadersTemplate datatypes.JSONMap `json:"headers_template"`
	TimeoutSeconds  int               `json:"timeout_seconds" gorm:"default:30"`
	RetryAttempts   int               `json:"retry_attempts" gorm:"default:3"`
	IsActive        bool              `json:"is_active" gorm:"index"`
	CreatedBy       uint              `json:"created_by" gorm:"index;not null"`
	CreatedAt       time.Time         `json:"created_at"`
	UpdatedAt       time.Time         `json:"updated_at"`
}

func (Service) TableName() string { return "services" }

// ServiceCreateRequest is the admin create payload.
type ServiceCreateRequest struct {
	Name            string         `json:"name" binding:"required,max=255"`
	Type            string         `json:"type" binding:"required,max=100"`
	Description     string         `json:"description"`
	APIBaseURL      string         `json:"api_base_url" binding:"required,url"`
	APIEndpoint     string         `json:"api_endpoint" binding:"required"`
	HTTPMethod      string         `json:"http_method" binding:"omitempty,oneof=GET POST PUT PATCH DELETE"`
	RequestTemplate map[string]any `json:"request_template"`
	ResponseMapping map[string]any `json:"response_mapping"`
	HeadersTemplate map[string]any `json:"headers_template"`
	TimeoutSeconds  int            `json:"timeout_seconds" binding:"omitempty,min=1,max=300"`
	RetryAttempts   int            `json:"retry_attempts" binding:"omitempty,min=0,max=10"`
}

// ServiceUpdateRequest is the admin partial-update payload.
type ServiceUpdateRequest struct {
	Name            *string        `json:"name" binding:"omitempty,max=255"`
	Type            *string        `json:"type" binding:"omitempty,max=100"`
	Description     *string        `json:"description"`
	APIBaseURL      *string        `json:"api_base_url" binding:"omitempty,url"`
	APIEndpoint     *string        `json:"api_endpoint"`
	HTTPMethod      *string        `json:"http_method" binding:"omitempty,oneof=GET POST PUT PATCH DELETE"`
	RequestTemplate map[string]any `json:"request_template"`
	ResponseMapping map[string]any `json:"response_mapping"`
	HeadersTemplate map[string]any `json:"headers_template"`
	TimeoutSeconds  *int           `json:"timeout_seconds" binding:"omitempty,min=1,max=300"`
	RetryAttempts   *int           `json:"retry_attempts" binding:"omitempty,min=0,max=10"`
	IsActive        *bool          `json:"is_active"`
}

// ServiceFilter narrows public listings. IncludeInactive is admin-facing;
// direct lookups by id ignore is_active entirely.
type ServiceFilter struct {
	Type            string
	IncludeInactive bool
	Limit           int
	Offset          int
}

// ServiceList is the listing response.
type ServiceList struct {
	Services []Service `json:"services"`
	Total    int64     `json:"total"`
}

// ServiceRepository persists registry entries.
type ServiceRepository interface {
	Create(svc *Service) error
	GetByID(id uint) (*Service, error)
	GetByNameAndType(name, typ string) (*Service, error)
	Update(svc *Service) error
	Delete(id uint) error
	List(filter ServiceFilter) ([]Service, int64, error)
	CountByCreator(userID uint) (int64, error)
}

// ServiceRegistry is the admin-gated CRUD surface over Service.
type ServiceRegistry interface {
	Create(creatorID uint, req ServiceCreateRequest) (*Service, error)
	Get(id uint) (*Service, error)
	Update(id uint, req ServiceUpdateRequest) (*Service, error)
	Delete(id uint) error
	List(filter ServiceFilter) (*ServiceList, error)
}
