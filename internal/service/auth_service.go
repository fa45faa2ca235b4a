package service

import (
	"errors"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/johnolamide/echo-mcp-server/internal/apperr"
	"github.com/johnolamide/echo-mcp-server/internal/domain"
	"github.com/johnolamide/echo-mcp-server/internal/repository"
	"github.com/johnolamide/echo-mcp-server/internal/util"
	"github.com/johnolamide/echo-mcp-server/pkg/jwt"
)

// authService implements domain.AuthService on top of the user repository and
// the token manager.
type authService struct {
	users       domain.UserRepository
	tokens      jwt.TokenManager
	adminSecret string
}

// NewAuthService creates an AuthService.
func NewAuthService(users domain.UserRepository, tokens jwt.TokenManager, adminSecret string) domain.AuthService {
	return &authService{users: users, tokens: tokens, adminSecret: adminSecret}
}

func (s *authService) createUser(username, email, password string, isAdmin bool) (*domain.User, error) {
	username = strings.ToLower(strings.TrimSpace(username))
	email = strings.ToLower(strings.TrimSpace(email))

	if !util.ValidatePasswordStrength(password) {
		return nil, apperr.Unprocessable("Password does not meet strength requirements",
			"password must be at least 8 characters with uppercase, lowercase and digit")
	}

	if _, err := s.users.GetByUsername(username); err == nil {
		return nil, apperr.Conflict("Username already registered")
	}
	if _, err := s.users.GetByEmail(email); err == nil {
		return nil, apperr.Conflict("Email already registered")
	}

	hashed, err := util.HashPassword(password)
	if err != nil {
		log.Error().Err(err).Msg("hash password")
		return nil, apperr.Internal("Failed to create user")
	}

	user := &domain.User{
		Username:       username,
		Email:          email,
		HashedPassword: hashed,
		IsActive:       true,
		IsVerified:     true,
		IsAdmin:        isAdmin,
	}
	if err := s.users.Create(user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, apperr.Conflict("User with this username or email already exists")
		}
		log.Error().Err(err).Str("username", username).Msg("create user")
		return nil, apperr.Internal("Failed to create user")
	}
	return user, nil
}

func (s *authService) Register(req domain.RegisterRequest) (*domain.User, error) {
	return s.createUser(req.Username, req.Email, req.Password, false)
}

// CreateAdmin registers an admin account gated behind the configured secret.
func (s *authService) CreateAdmin(req domain.AdminRegisterRequest) (*domain.User, error) {
	if s.adminSecret == "" || req.AdminSecret != s.adminSecret {
		return nil, apperr.Authorization("Invalid admin secret")
	}
	return s.createUser(req.Username, req.Email, req.Password, true)
}

func (s *authService) Login(req domain.LoginRequest) (*domain.LoginResponse, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	user, err := s.users.GetByEmail(email)
	if err != nil {
		return nil, apperr.Authentication("Incorrect email or password")
	}
	if err := util.CheckPassword(user.HashedPassword, req.Password); err != nil {
		return nil, apperr.Authentication("Incorrect email or password")
	}
	if !user.IsActive {
		return nil, apperr.Authentication("User account is inactive")
	}

	access, refresh, err := s.tokens.GeneratePair(user.ID, user.Username, user.IsAdmin)
	if err != nil {
		log.Error().Err(err).Uint("user_id", user.ID).Msg("generate token pair")
		return nil, apperr.Internal("Login failed")
	}
	return &domain.LoginResponse{
		AccessToken:  access,
		RefreshToken: refresh,
		TokenType:    "bearer",
		ExpiresAt:    time.Now().Add(s.tokens.AccessTTL()).Unix(),
		User:         *user,
	}, nil
}

func (s *authService) Refresh(refreshToken string) (*domain.RefreshResponse, error) {
	claims, err := s.tokens.ValidateRefresh(refreshToken)
	if err != nil {
		return nil, apperr.Authentication("Invalid or expired refresh token")
	}
	user, err := s.users.GetByID(claims.UserID)
	if err != nil || !user.IsActive {
		return nil, apperr.Authentication("User not found or inactive")
	}
	access, err := s.tokens.GenerateAccess(user.ID, user.Username, user.IsAdmin)
	if err != nil {
		log.Error().Err(err).Uint("user_id", user.ID).Msg("generate access token")
		return nil, apperr.Internal("Failed to refresh token")
	}
	return &domain.RefreshResponse{AccessToken: access, TokenType: "bearer"}, nil
}

// Logout records a revocation marker for the access token. Revoking an
// already-revoked or expired token is a no-op.
func (s *authService) Logout(accessToken string) error {
	if err := s.tokens.Revoke(accessToken); err != nil {
		log.Error().Err(err).Msg("revoke token")
		return apperr.Internal("Logout failed")
	}
	return nil
}

func (s *authService) GetUser(id uint) (*domain.User, error) {
	user, err := s.users.GetByID(id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperr.NotFound("User not found")
		}
		return nil, apperr.Internal("Failed to load user")
	}
	return user, nil
}

func (s *authService) UpdateProfile(id uint, req domain.UpdateProfileRequest) (*domain.User, error) {
	user, err := s.GetUser(id)
	if err != nil {
		return nil, err
	}
	if req.Username == nil && req.Email == nil {
		return nil, apperr.Validation("No valid fields to update", nil)
	}

	if req.Username != nil {
		username := strings.ToLower(strings.TrimSpace(*req.Username))
		if username != user.Username {
			if _, err := s.users.GetByUsername(username); err == nil {
				return nil, apperr.Conflict("Username already taken")
			}
			user.Username = username
		}
	}
	if req.Email != nil {
		email := strings.ToLower(strings.TrimSpace(*req.Email))
		if email != user.Email {
			if _, err := s.users.GetByEmail(email); err == nil {
				return nil, apperr.Conflict("Email already registered")
			}
			user.Email = email
		}
	}

	if err := s.users.Update(user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, apperr.Conflict("Username or email already taken")
		}
		log.Error().Err(err).Uint("user_id", id).Msg("update profile")
		return nil, apperr.Internal("Failed to update profile")
	}
	return user, nil
}
