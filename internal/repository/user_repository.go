package repository

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/johnolamide/echo-mcp-server/internal/domain"
)

// ErrNotFound is returned when a requested row does not exist. Services map it
// onto the NotFound taxonomy member.
var ErrNotFound = errors.New("record not found")

// ErrDuplicate is returned on unique-constraint violations.
var ErrDuplicate = errors.New("duplicate record")

// userRepository implements domain.UserRepository using GORM.
type userRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a UserRepository with the given GORM DB instance.
func NewUserRepository(db *gorm.DB) domain.UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(user *domain.User) error {
	if err := r.db.Create(user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrDuplicate
		}
		return fmt.Errorf("create user: %w", err)
	}
	return nil
}

func (r *userRepository) GetByID(id uint) (*domain.User, error) {
	var user domain.User
	if err := r.db.First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get user by id: %w", err)
	}
	return &user, nil
}

func (r *userRepository) GetByEmail(email string) (*domain.User, error) {
	var user domain.User
	if err := r.db.Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get user by email: %w", err)
	}
	return &user, nil
}

func (r *userRepository) GetByUsername(username string) (*domain.User, error) {
	var user domain.User
	if err := r.db.Where("username = ?", username).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get user by username: %w", err)
	}
	return &user, nil
}

func (r *userRepository) Update(user *domain.User) error {
	if err := r.db.Save(user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrDuplicate
		}
		return fmt.Errorf("update user: %w", err)
	}
	return nil
}

func (r *userRepository) List(filter domain.UserFilter) ([]domain.User, int64, error) {
	q := r.db.Model(&domain.User{})
	if filter.ActiveOnly {
		q = q.Where("is_active = ?", true)
	}
	if filter.VerifiedOnly {
		q = q.Where("is_verified = ?", true)
	}
	if filter.AdminOnly {
		q = q.Where("is_admin = ?", true)
	}
	if filter.Search != "" {
		term := "%" + filter.Search + "%"
		q = q.Where("username ILIKE ? OR email ILIKE ?", term, term)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count users: %w", err)
	}

	limit := filter.Limit
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	var users []domain.User
	if err := q.Order("created_at DESC").Limit(limit).Offset(filter.Offset).Find(&users).Error; err != nil {
		return nil, 0, fmt.Errorf("list users: %w", err)
	}
	return users, total, nil
}

func (r *userRepository) CountFlags() (active, verified, admin int64, err error) {
	if err = r.db.Model(&domain.User{}).Where("is_active = ?", true).Count(&active).Error; err != nil {
		return 0, 0, 0, fmt.Errorf("count active users: %w", err)
	}
	if err = r.db.Model(&domain.User{}).Where("is_verified = ?", true).Count(&verified).Error; err != nil {
		return 0, 0, 0, fmt.Errorf("count verified users: %w", err)
	}
	if err = r.db.Model(&domain.User{}).Where("is_admin = ?", true).Count(&admin).Error; err != nil {
		return 0, 0, 0, fmt.Errorf("count admin users: %w", err)
	}
	return active, verified, admin, nil
}

// ListChatUsers returns every active, verified user except the caller, ordered
// by username for the chat directory.
func (r *userRepository) ListChatUsers(excludeID uint) ([]domain.User, error) {
	var users []domain.User
	err := r.db.
		Where("id <> ? AND is_active = ? AND is_verified = ?", excludeID, true, true).
		Order("username ASC").
		Find(&users).Error
	if err != nil {
		return nil, fmt.Errorf("list chat users: %w", err)
	}
	return users, nil
}
