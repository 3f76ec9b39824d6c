package service

import (
	"errors"
	"time"

	"family-registry/internal/authz"
	"family-registry/internal/dto"
	"family-registry/internal/entities"
	apperrors "family-registry/pkg/errors"

	jwt "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

type JwtCustomClaim struct {
	UserID         uint64 `json:"id"`
	IIN            string `json:"iin"`
	FullName       string `json:"name"`
	Role           string `json:"role"`
	Region         string `json:"region"`
	District       string `json:"district"`
	City           string `json:"city"`
	IsRefreshToken bool   `json:"refresh"`
	jwt.RegisteredClaims
}

// ToUserClaims переводит claims токена в контекст запроса. Роль проходит через
// ParseRole, поэтому подделанная строка роли даёт RoleUnknown.
func (c *JwtCustomClaim) ToUserClaims() *dto.UserClaims {
	claims := &dto.UserClaims{
		UserID:   c.UserID,
		IIN:      c.IIN,
		FullName: c.FullName,
		Role:     authz.ParseRole(c.Role),
		Region:   c.Region,
		District: c.District,
		City:     c.City,
		TokenID:  c.ID,
	}
	if c.ExpiresAt != nil {
		claims.ExpiresAt = c.ExpiresAt.Time
	}
	return claims
}

type JWTService interface {
	GenerateTokens(user *entities.User) (string, string, error)
	ValidateToken(tokenString string) (*JwtCustomClaim, error)
	GetAccessTokenTTL() time.Duration
	GetRefreshTokenTTL() time.Duration
}

type jwtService struct {
	SecretKey       string
	AccessTokenExp  time.Duration
	RefreshTokenExp time.Duration
	now             func() time.Time
}

func NewJWTService(secretKey string, accessTokenExp, refreshTokenExp time.Duration) JWTService {
	return &jwtService{
		SecretKey:       secretKey,
		AccessTokenExp:  accessTokenExp,
		RefreshTokenExp: refreshTokenExp,
		now:             time.Now,
	}
}

func (service *jwtService) claimsFor(user *entities.User, refresh bool, ttl time.Duration) *JwtCustomClaim {
	now := service.now()
	return &JwtCustomClaim{
		UserID:         user.ID,
		IIN:            user.IIN,
		FullName:       user.FullName,
		Role:           user.Role.String(),
		Region:         user.Region,
		District:       user.District,
		City:           user.City,
		IsRefreshToken: refresh,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
}

func (service *jwtService) GenerateTokens(user *entities.User) (string, string, error) {
	accessToken := jwt.NewWithClaims(jwt.SigningMethodHS512, service.claimsFor(user, false, service.AccessTokenExp))
	accessTokenString, err := accessToken.SignedString([]byte(service.SecretKey))
	if err != nil {
		return "", "", err
	}

	refreshToken := jwt.NewWithClaims(jwt.SigningMethodHS512, service.claimsFor(user, true, service.RefreshTokenExp))
	refreshTokenString, err := refreshToken.SignedString([]byte(service.SecretKey))
	if err != nil {
		return "", "", err
	}

	return accessTokenString, refreshTokenString, nil
}

func (s *jwtService) GetAccessTokenTTL() time.Duration {
	return s.AccessTokenExp
}

func (s *jwtService) GetRefreshTokenTTL() time.Duration {
	return s.RefreshTokenExp
}

func (service *jwtService) ValidateToken(tokenString string) (*JwtCustomClaim, error) {
	token, err := jwt.ParseWithClaims(tokenString, &JwtCustomClaim{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, apperrors.ErrInvalidSigningMethod
		}
		return []byte(service.SecretKey), nil
	}, jwt.WithTimeFunc(service.now))
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			return nil, apperrors.ErrTokenExpired
		case errors.Is(err, apperrors.ErrInvalidSigningMethod):
			return nil, apperrors.ErrInvalidSigningMethod
		}
		return nil, apperrors.ErrInvalidToken
	}

	claims, ok := token.Claims.(*JwtCustomClaim)
	if !ok || !token.Valid {
		return nil, apperrors.ErrInvalidToken
	}

	return claims, nil
}
