package jwt

import (
	"context"
	"errors"
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	TypeAccess  = "access"
	TypeRefresh = "refresh"
)

var (
	// ErrTokenInvalid covers bad signatures, malformed tokens and expiry.
	ErrTokenInvalid = errors.New("invalid token")
	// ErrTokenRevoked is returned for tokens carrying a blacklisted jti.
	ErrTokenRevoked = errors.New("token has been revoked")
	// ErrWrongTokenType is returned when an access token is presented where a
	// refresh token is expected, or vice versa.
	ErrWrongTokenType = errors.New("wrong token type")
)

// Claims is the claim set carried by every issued token.
type Claims struct {
	UserID    uint   `json:"user_id"`
	Username  string `json:"username"`
	IsAdmin   bool   `json:"is_admin"`
	TokenType string `json:"type"`
	jwtlib.RegisteredClaims
}

// TokenManager mints, validates and revokes JWT access/refresh tokens.
// Revocation markers live in Redis keyed by jti with a TTL matching the
// token's remaining validity.
type TokenManager interface {
	GeneratePair(userID uint, username string, isAdmin bool) (access, refresh string, err error)
	GenerateAccess(userID uint, username string, isAdmin bool) (string, error)
	ValidateAccess(token string) (*Claims, error)
	ValidateRefresh(token string) (*Claims, error)
	Revoke(token string) error
	AccessTTL() time.Duration
}

type tokenManager struct {
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
	redis      *redis.Client
}

// NewTokenManager creates a TokenManager backed by the given Redis client for
// revocation markers. A nil client disables revocation checks (tests, gateway
// verification paths).
func NewTokenManager(secret string, accessTTL, refreshTTL time.Duration, redisClient *redis.Client) TokenManager {
	return &tokenManager{
		secret:     []byte(secret),
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
		redis:      redisClient,
	}
}

func (m *tokenManager) AccessTTL() time.Duration { return m.accessTTL }

func (m *tokenManager) sign(userID uint, username string, isAdmin bool, tokenType string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		UserID:    userID,
		Username:  username,
		IsAdmin:   isAdmin,
		TokenType: tokenType,
		RegisteredClaims: jwtlib.RegisteredClaims{
			ID:        uuid.NewString(),
			ExpiresAt: jwtlib.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwtlib.NewNumericDate(now),
		},
	}
	return jwtlib.NewWithClaims(jwtlib.SigningMethodHS256, claims).SignedString(m.secret)
}

// GeneratePair issues a fresh access/refresh token pair.
func (m *tokenManager) GeneratePair(userID uint, username string, isAdmin bool) (string, string, error) {
	access, err := m.sign(userID, username, isAdmin, TypeAccess, m.accessTTL)
	if err != nil {
		return "", "", err
	}
	refresh, err := m.sign(userID, username, isAdmin, TypeRefresh, m.refreshTTL)
	if err != nil {
		return "", "", err
	}
	return access, refresh, nil
}

// GenerateAccess issues a lone access token, used by the refresh flow.
func (m *tokenManager) GenerateAccess(userID uint, username string, isAdmin bool) (string, error) {
	return m.sign(userID, username, isAdmin, TypeAccess, m.accessTTL)
}

func (m *tokenManager) parse(token string) (*Claims, error) {
	parsed, err := jwtlib.ParseWithClaims(token, &Claims{}, func(t *jwtlib.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwtlib.SigningMethodHMAC); !ok {
			return nil, ErrTokenInvalid
		}
		return m.secret, nil
	})
	if err != nil {
		return nil, ErrTokenInvalid
	}
	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return nil, ErrTokenInvalid
	}
	return claims, nil
}

func (m *tokenManager) validate(token, tokenType string) (*Claims, error) {
	claims, err := m.parse(token)
	if err != nil {
		return nil, err
	}
	if claims.TokenType != tokenType {
		return nil, ErrWrongTokenType
	}
	revoked, err := m.isRevoked(claims.ID)
	if err != nil {
		return nil, err
	}
	if revoked {
		return nil, ErrTokenRevoked
	}
	return claims, nil
}

// ValidateAccess checks signature, expiry, type and the revocation marker.
func (m *tokenManager) ValidateAccess(token string) (*Claims, error) {
	return m.validate(token, TypeAccess)
}

// ValidateRefresh checks signature, expiry, type and the revocation marker.
func (m *tokenManager) ValidateRefresh(token string) (*Claims, error) {
	return m.validate(token, TypeRefresh)
}

// Revoke records a revocation marker with TTL equal to the token's remaining
// validity. Already-expired tokens are a no-op, making logout idempotent.
func (m *tokenManager) Revoke(token string) error {
	if m.redis == nil {
		return nil
	}
	claims, err := m.parse(token)
	if err != nil {
		// Invalid or expired tokens are rejected by validation anyway.
		return nil
	}
	if claims.ExpiresAt == nil {
		return nil
	}
	ttl := time.Until(claims.ExpiresAt.Time)
	if ttl <= 0 {
		return nil
	}
	ctx := context.Background()
	return m.redis.Set(ctx, blacklistKey(claims.ID), "1", ttl).Err()
}

// isRevoked fails closed: a redis error bubbles up and the token is rejected,
// so a revoked token can never slip through while the blacklist is unreachable.
func (m *tokenManager) isRevoked(jti string) (bool, error) {
	if m.redis == nil || jti == "" {
		return false, nil
	}
	ctx := context.Background()
	n, err := m.redis.Exists(ctx, blacklistKey(jti)).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func blacklistKey(jti string) string {
	return "jwt:blacklist:" + jti
}
