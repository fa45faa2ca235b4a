package service

import (
	"errors"

	"github.com/rs/zerolog/log"

	"github.com/johnolamide/echo-mcp-server/internal/apperr"
	"github.com/johnolamide/echo-mcp-server/internal/domain"
	"github.com/johnolamide/echo-mcp-server/internal/repository"
)

// adminService implements domain.AdminService.
type adminService struct {
	users    domain.UserRepository
	messages domain.MessageRepository
	services domain.ServiceRepository
}

// NewAdminService creates the admin user-management service.
func NewAdminService(users domain.UserRepository, messages domain.MessageRepository, services domain.ServiceRepository) domain.AdminService {
	return &adminService{users: users, messages: messages, services: services}
}

func (s *adminService) ListUsers(filter domain.UserFilter) (*domain.UserList, error) {
	users, total, err := s.users.List(filter)
	if err != nil {
		log.Error().Err(err).Msg("list users")
		return nil, apperr.Internal("Failed to list users")
	}
	active, verified, admin, err := s.users.CountFlags()
	if err != nil {
		log.Error().Err(err).Msg("count user flags")
		return nil, apperr.Internal("Failed to list users")
	}
	return &domain.UserList{
		Users:         users,
		Total:         total,
		ActiveCount:   active,
		VerifiedCount: verified,
		AdminCount:    admin,
	}, nil
}

// GetUserDetail returns the user plus activity counters gathered with explicit
// per-table counts.
func (s *adminService) GetUserDetail(id uint) (*domain.UserDetail, error) {
	user, err := s.users.GetByID(id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperr.NotFound("User not found")
		}
		return nil, apperr.Internal("Failed to load user")
	}
	sent, err := s.messages.CountSent(id)
	if err != nil {
		return nil, apperr.Internal("Failed to load user activity")
	}
	received, err := s.messages.CountReceived(id)
	if err != nil {
		return nil, apperr.Internal("Failed to load user activity")
	}
	created, err := s.services.CountByCreator(id)
	if err != nil {
		return nil, apperr.Internal("Failed to load user activity")
	}
	return &domain.UserDetail{
		User:             *user,
		MessagesSent:     sent,
		MessagesReceived: received,
		ServicesCreated:  created,
	}, nil
}

func (s *adminService) UpdateUserFlags(id uint, req domain.UpdateUserFlagsRequest) (*domain.User, error) {
	user, err := s.users.GetByID(id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperr.NotFound("User not found")
		}
		return nil, apperr.Internal("Failed to load user")
	}
	if req.IsActive == nil && req.IsVerified == nil && req.IsAdmin == nil {
		return nil, apperr.Validation("No valid fields to update", nil)
	}
	if req.IsActive != nil {
		user.IsActive = *req.IsActive
	}
	if req.IsVerified != nil {
		user.IsVerified = *req.IsVerified
	}
	if req.IsAdmin != nil {
		user.IsAdmin = *req.IsAdmin
	}
	if err := s.users.Update(user); err != nil {
		log.Error().Err(err).Uint("user_id", id).Msg("update user flags")
		return nil, apperr.Internal("Failed to update user")
	}
	return user, nil
}
