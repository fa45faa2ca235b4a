package domain

import "time"

// User is the credential store record. Users are never hard-deleted; admins
// flip is_active instead.
type User struct {
	ID             uint      `json:"id" gorm:"primaryKey"`
	Username       string    `json:"username" gorm:"uniqueIndex;size:50;not null"`
	Email          string    `json:"email" gorm:"uniqueIndex;size:255;not null"`
	HashedPassword string    `json:"-" gorm:"size:255;not null"`
	IsActive       bool      `json:"is_active"`
	IsVerified     bool      `json:"is_verified"`
	IsAdmin        bool      `json:"is_admin"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

func (User) TableName() string { return "users" }

// RegisterRequest is the registration payload.
type RegisterRequest struct {
	Username string `json:"username" binding:"required,min=3,max=50"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8,max=128"`
}

// AdminRegisterRequest additionally carries the admin creation secret.
type AdminRegisterRequest struct {
	Username    string `json:"username" binding:"required,min=3,max=50"`
	Email       string `json:"email" binding:"required,email"`
	Password    string `json:"password" binding:"required,min=8,max=128"`
	AdminSecret string `json:"admin_secret" binding:"required"`
}

// LoginRequest is the login payload.
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// LoginResponse carries the issued token pair and the authenticated user.
type LoginResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
	ExpiresAt    int64  `json:"expires_at"`
	User         User   `json:"user"`
}

// RefreshRequest carries the refresh token for /auth/refresh.
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// RefreshResponse carries the freshly minted access token.
type RefreshResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// UpdateProfileRequest updates the caller's own profile. Flag fields are
// deliberately absent; they are admin-only.
type UpdateProfileRequest struct {
	Username *string `json:"username" binding:"omitempty,min=3,max=50"`
	Email    *string `json:"email" binding:"omitempty,email"`
}

// UserFilter narrows admin user listings.
type UserFilter struct {
	ActiveOnly   bool
	VerifiedOnly bool
	AdminOnly    bool
	Search       string
	Limit        int
	Offset       int
}

// UserList is the admin listing response.
type UserList struct {
	Users         []User `json:"users"`
	Total         int64  `json:"total"`
	ActiveCount   int64  `json:"active_count"`
	VerifiedCount int64  `json:"verified_count"`
	AdminCount    int64  `json:"admin_count"`
}

// UserDetail augments a user with activity counters for the admin view.
type UserDetail struct {
	User
	MessagesSent     int64 `json:"messages_sent"`
	MessagesReceived int64 `json:"messages_received"`
	ServicesCreated  int64 `json:"services_created"`
}

// UpdateUserFlagsRequest is the admin-only flag mutation payload.
type UpdateUserFlagsRequest struct {
	IsActive   *bool `json:"is_active"`
	IsVerified *bool `json:"is_verified"`
	IsAdmin    *bool `json:"is_admin"`
}

// UserRepository persists users.
type UserRepository interface {
	Create(user *User) error
	GetByID(id uint) (*User, error)
	GetByEmail(email string) (*User, error)
	GetByUsername(username string) (*User, error)
	Update(user *User) error
	List(filter UserFilter) ([]User, int64, error)
	CountFlags() (active, verified, admin int64, err error)
	ListChatUsers(excludeID uint) ([]User, error)
}

// AuthService issues and revokes credentials.
type AuthService interface {
	Register(req RegisterRequest) (*User, error)
	CreateAdmin(req AdminRegisterRequest) (*User, error)
	Login(req LoginRequest) (*LoginResponse, error)
	Refresh(refreshToken string) (*RefreshResponse, error)
	Logout(accessToken string) error
	GetUser(id uint) (*User, error)
	UpdateProfile(id uint, req UpdateProfileRequest) (*User, error)
}

// AdminService exposes the user-management surface behind the admin gate.
type AdminService interface {
	ListUsers(filter UserFilter) (*UserList, error)
	GetUserDetail(id uint) (*UserDetail, error)
	UpdateUserFlags(id uint, req UpdateUserFlagsRequest) (*User, error)
}
