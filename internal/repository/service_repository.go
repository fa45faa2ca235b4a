package repository

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/johnolamide/echo-mcp-server/internal/domain"
)

// serviceRepository implements domain.ServiceRepository using GORM.
type serviceRepository struct {
	db *gorm.DB
}

// NewServiceRepository creates a ServiceRepository with the given GORM DB instance.
func NewServiceRepository(db *gorm.DB) domain.ServiceRepository {
	return &serviceRepository{db: db}
}

func (r *serviceRepository) Create(svc *domain.Service) error {
	if err := r.db.Create(svc).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrDuplicate
		}
		return fmt.Errorf("create service: %w", err)
	}
	return nil
}

// GetByID looks up a service regardless of its is_active flag; only listings
// filter on it.
func (r *serviceRepository) GetByID(id uint) (*domain.Service, error) {
	var svc domain.Service
	if err := r.db.First(&svc, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get service by id: %w", err)
	}
	return &svc, nil
}

func (r *serviceRepository) GetByNameAndType(name, typ string) (*domain.Service, error) {
	var svc domain.Service
	if err := r.db.Where("name = ? AND type = ?", name, typ).First(&svc).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get service by name/type: %w", err)
	}
	return &svc, nil
}

func (r *serviceRepository) Update(svc *domain.Service) error {
	if err := r.db.Save(svc).Error; err != nil {
		return fmt.Errorf("update service: %w", err)
	}
	return nil
}

func (r *serviceRepository) Delete(id uint) error {
	res := r.db.Delete(&domain.Service{}, id)
	if res.Error != nil {
		return fmt.Errorf("delete service: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *serviceRepository) List(filter domain.ServiceFilter) ([]domain.Service, int64, error) {
	q := r.db.Model(&domain.Service{})
	if !filter.IncludeInactive {
		q = q.Where("is_active = ?", true)
	}
	if filter.Type != "" {
		q = q.Where("type = ?", filter.Type)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count services: %w", err)
	}

	limit := filter.Limit
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	var services []domain.Service
	if err := q.Order("created_at DESC").Limit(limit).Offset(filter.Offset).Find(&services).Error; err != nil {
		return nil, 0, fmt.Errorf("list services: %w", err)
	}
	return services, total, nil
}

func (r *serviceRepository) CountByCreator(userID uint) (int64, error) {
	var count int64
	if err := r.db.Model(&domain.Service{}).Where("created_by = ?", userID).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("count services by creator: %w", err)
	}
	return count, nil
}
