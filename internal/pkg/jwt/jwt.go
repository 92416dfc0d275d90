package jwt

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Teesha-Gokulgandhi/OrbitHR/internal/domain/user"
	"github.com/go-chi/jwtauth/v5"
	"github.com/google/uuid"
	"github.com/lestrrat-go/jwx/v2/jwt"
)

var ErrInvalidClaims = errors.New("invalid token claims")

// Claims are the fields the API reads back from an access token.
type Claims struct {
	UserID    string
	Email     string
	Role      user.Role
	TokenID   string
	ExpiresAt time.Time
}

func (c Claims) Principal() user.Principal {
	return user.Principal{UserID: c.UserID, Email: c.Email, Role: c.Role}
}

// RevocationStore keeps revoked token ids until the token would have expired anyway.
type RevocationStore interface {
	Revoke(ctx context.Context, tokenID string, ttl time.Duration) error
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}

type Service interface {
	GenerateAccessToken(userID string, email string, role user.Role) (token string, expiresAt int64, err error)
	JWTAuth() *jwtauth.JWTAuth
	ParseClaims(claims map[string]interface{}) (Claims, error)
	RevokeToken(ctx context.Context, tokenID string, expiresAt time.Time) error
	IsTokenRevoked(ctx context.Context, tokenID string) (bool, error)
}

type JWTService struct {
	accessTokenExpiration time.Duration
	tokenAuth             *jwtauth.JWTAuth
	revoked               RevocationStore
	now                   func() time.Time
}

func (j *JWTService) JWTAuth() *jwtauth.JWTAuth {
	return j.tokenAuth
}

func NewJWTService(secretKey string, accessTokenExpiration time.Duration, revoked RevocationStore) Service {
	if revoked == nil {
		revoked = NewMemoryRevocationStore()
	}
	return &JWTService{
		accessTokenExpiration: accessTokenExpiration,
		tokenAuth:             jwtauth.New("HS256", []byte(secretKey), nil, jwt.WithAcceptableSkew(30*time.Second)),
		revoked:               revoked,
		now:                   time.Now,
	}
}

func (j *JWTService) GenerateAccessToken(userID string, email string, role user.Role) (token string, expiresAt int64, err error) {
	expiresAt = j.now().Add(j.accessTokenExpiration).Unix()

	claims := map[string]interface{}{
		"jti":     uuid.NewString(),
		"user_id": userID,
		"email":   email,
		"role":    string(role),
		"type":    "access",
		"exp":     expiresAt,
	}

	_, tokenString, err := j.tokenAuth.Encode(claims)
	return tokenString, expiresAt, err
}

// ParseClaims reads the claim map produced by jwtauth.FromContext.
func (j *JWTService) ParseClaims(claims map[string]interface{}) (Claims, error) {
	if t, _ := claims["type"].(string); t != "access" {
		return Claims{}, fmt.Errorf("%w: token type", ErrInvalidClaims)
	}

	var c Claims
	var ok bool
	if c.UserID, ok = claims["user_id"].(string); !ok || c.UserID == "" {
		return Claims{}, fmt.Errorf("%w: user_id", ErrInvalidClaims)
	}
	c.Email, _ = claims["email"].(string)

	role, _ := claims["role"].(string)
	c.Role = user.Role(role)
	if !c.Role.Valid() {
		return Claims{}, fmt.Errorf("%w: role", ErrInvalidClaims)
	}

	if c.TokenID, ok = claims["jti"].(string); !ok || c.TokenID == "" {
		return Claims{}, fmt.Errorf("%w: jti", ErrInvalidClaims)
	}

	switch exp := claims["exp"].(type) {
	case time.Time:
		c.ExpiresAt = exp
	case float64:
		c.ExpiresAt = time.Unix(int64(exp), 0)
	case int64:
		c.ExpiresAt = time.Unix(exp, 0)
	}

	return c, nil
}

func (j *JWTService) RevokeToken(ctx context.Context, tokenID string, expiresAt time.Time) error {
	ttl := expiresAt.Sub(j.now())
	if ttl <= 0 {
		return nil
	}
	return j.revoked.Revoke(ctx, tokenID, ttl)
}

func (j *JWTService) IsTokenRevoked(ctx context.Context, tokenID string) (bool, error) {
	return j.revoked.IsRevoked(ctx, tokenID)
}
