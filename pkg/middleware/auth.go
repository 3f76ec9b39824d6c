package middleware

import (
	"context"
	"strings"

	"family-registry/internal/authz"
	"family-registry/pkg/contextkeys"
	apperrors "family-registry/pkg/errors"
	"family-registry/pkg/service"
	"family-registry/pkg/utils"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// RevocationChecker сообщает, отозван ли токен по его jti.
type RevocationChecker interface {
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}

type AuthMiddleware struct {
	jwtService  service.JWTService
	revocations RevocationChecker
	logger      *zap.Logger
}

func NewAuthMiddleware(jwtSvc service.JWTService, revocations RevocationChecker, logger *zap.Logger) *AuthMiddleware {
	return &AuthMiddleware{
		jwtService:  jwtSvc,
		revocations: revocations,
		logger:      logger,
	}
}

func (m *AuthMiddleware) Auth(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		authHeader := c.Request().Header.Get("Authorization")
		if authHeader == "" {
			m.logger.Debug("AuthMiddleware: пустой заголовок Authorization", zap.String("path", c.Path()))
			return utils.ErrorResponse(c, apperrors.ErrEmptyAuthHeader, m.logger)
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			m.logger.Warn("AuthMiddleware: неверный формат заголовка Authorization")
			return utils.ErrorResponse(c, apperrors.ErrInvalidAuthHeader, m.logger)
		}

		claims, err := m.jwtService.ValidateToken(parts[1])
		if err != nil {
			m.logger.Warn("AuthMiddleware: ошибка валидации токена", zap.Error(err))
			return utils.ErrorResponse(c, err, m.logger)
		}

		if claims.IsRefreshToken {
			m.logger.Warn("AuthMiddleware: попытка доступа с refresh токеном")
			return utils.ErrorResponse(c, apperrors.ErrTokenIsNotAccess, m.logger)
		}

		ctx := c.Request().Context()
		if m.revocations != nil {
			revoked, err := m.revocations.IsRevoked(ctx, claims.ID)
			if err != nil {
				return utils.ErrorResponse(c, err, m.logger)
			}
			if revoked {
				return utils.ErrorResponse(c, apperrors.ErrTokenRevoked, m.logger)
			}
		}

		userClaims := claims.ToUserClaims()
		c.SetRequest(c.Request().WithContext(context.WithValue(ctx, contextkeys.UserClaimsKey, userClaims)))

		return next(c)
	}
}

// RequireCapability пропускает запрос, только если у роли есть возможность cap.
func (m *AuthMiddleware) RequireCapability(capability authz.Capability) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authCtx, err := utils.GetAuthContext(c.Request().Context())
			if err != nil {
				return utils.ErrorResponse(c, err, m.logger)
			}
			if !authz.CanDo(capability, authCtx) {
				m.logger.Info("доступ запрещён",
					zap.Uint64("userID", authCtx.UserID),
					zap.String("role", authCtx.Role.String()),
					zap.String("capability", string(capability)),
				)
				return utils.ErrorResponse(c, apperrors.ErrForbidden, m.logger)
			}
			return next(c)
		}
	}
}

func (m *AuthMiddleware) RequireRole(roles ...authz.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authCtx, err := utils.GetAuthContext(c.Request().Context())
			if err != nil {
				return utils.ErrorResponse(c, err, m.logger)
			}
			for _, role := range roles {
				if authCtx.Role == role {
					return next(c)
				}
			}
			m.logger.Info("доступ запрещён",
				zap.Uint64("userID", authCtx.UserID),
				zap.String("role", authCtx.Role.String()),
			)
			return utils.ErrorResponse(c, apperrors.ErrForbidden, m.logger)
		}
	}
}
