package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"family-registry/internal/authz"
	"family-registry/internal/dto"
	"family-registry/internal/entities"
	"family-registry/internal/repositories"
	"family-registry/pkg/config"
	apperrors "family-registry/pkg/errors"
	"family-registry/pkg/service"
	"family-registry/pkg/utils"
	"family-registry/pkg/validation"

	"go.uber.org/zap"
)

const (
	loginAttemptsKeyPrefix = "login_attempts:"
	revokedTokenKeyPrefix  = "revoked_token:"
)

type AuthServiceInterface interface {
	Login(ctx context.Context, payload dto.LoginDTO) (*dto.AuthResponseDTO, string, error)
	RefreshToken(ctx context.Context, refreshToken string) (*dto.AuthResponseDTO, string, error)
	Logout(ctx context.Context, refreshToken string) error
	Session(ctx context.Context) (*dto.SessionDTO, error)
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}

type AuthService struct {
	userRepo   repositories.UserRepositoryInterface
	cacheRepo  repositories.CacheRepositoryInterface
	jwtService service.JWTService
	logger     *zap.Logger
	cfg        *config.AuthConfig
	now        func() time.Time
}

func NewAuthService(
	userRepo repositories.UserRepositoryInterface,
	cacheRepo repositories.CacheRepositoryInterface,
	jwtService service.JWTService,
	logger *zap.Logger,
	cfg *config.AuthConfig,
) AuthServiceInterface {
	return &AuthService{
		userRepo:   userRepo,
		cacheRepo:  cacheRepo,
		jwtService: jwtService,
		logger:     logger,
		cfg:        cfg,
		now:        time.Now,
	}
}

func (s *AuthService) Login(ctx context.Context, payload dto.LoginDTO) (*dto.AuthResponseDTO, string, error) {
	iin := strings.TrimSpace(payload.IIN)
	// 1. Формат ИИН проверяется до обращения к хранилищу
	if !validation.IsIIN(iin) {
		return nil, "", apperrors.NewFieldError("iin", "ИИН должен состоять из 12 цифр")
	}
	logger := s.logger.With(zap.String("iin", iin))

	// 2. Блокировка после серии неудачных попыток
	attemptsKey := loginAttemptsKeyPrefix + iin
	if s.isLockedOut(ctx, attemptsKey) {
		logger.Warn("вход заблокирован: превышено число попыток")
		return nil, "", apperrors.NewHttpError(
			http.StatusTooManyRequests,
			fmt.Sprintf("Слишком много попыток входа. Попробуйте через %.0f минут.", s.cfg.LockoutDuration.Minutes()),
			apperrors.ErrTooManyAttempts,
			nil,
		)
	}

	// 3. Пользователь и пароль
	user, err := s.userRepo.FindByIIN(ctx, iin)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			s.registerFailure(ctx, attemptsKey)
			logger.Info("вход: пользователь не найден")
			return nil, "", apperrors.ErrInvalidCredentials
		}
		return nil, "", err
	}
	if err := utils.ComparePasswords(user.Password, payload.Password); err != nil {
		s.registerFailure(ctx, attemptsKey)
		logger.Info("вход: неверный пароль", zap.Uint64("userID", user.ID))
		return nil, "", apperrors.ErrInvalidCredentials
	}
	if !user.IsActive {
		logger.Warn("вход: учётная запись отключена", zap.Uint64("userID", user.ID))
		return nil, "", apperrors.ErrUserInactive
	}
	if !user.Role.IsValid() {
		logger.Warn("вход: роль не распознана", zap.Uint64("userID", user.ID), zap.String("role", user.Role.String()))
		return nil, "", apperrors.ErrUnknownRole
	}

	// 4. Успешный вход сбрасывает счётчик
	if err := s.cacheRepo.Del(ctx, attemptsKey); err != nil {
		logger.Warn("не удалось сбросить счётчик попыток", zap.Error(err))
	}

	res, refresh, err := s.issue(user)
	if err != nil {
		return nil, "", err
	}
	logger.Info("успешный вход", zap.Uint64("userID", user.ID), zap.String("role", user.Role.String()))
	return res, refresh, nil
}

func (s *AuthService) isLockedOut(ctx context.Context, key string) bool {
	if s.cfg.MaxLoginAttempts <= 0 {
		return false
	}
	raw, err := s.cacheRepo.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, repositories.ErrCacheMiss) {
			s.logger.Warn("не удалось проверить счётчик попыток", zap.Error(err))
		}
		return false
	}
	attempts, _ := strconv.Atoi(raw)
	return attempts >= s.cfg.MaxLoginAttempts
}

func (s *AuthService) registerFailure(ctx context.Context, key string) {
	n, err := s.cacheRepo.Incr(ctx, key)
	if err != nil {
		s.logger.Warn("не удалось увеличить счётчик попыток", zap.Error(err))
		return
	}
	if n == 1 {
		if _, err := s.cacheRepo.Expire(ctx, key, s.cfg.LockoutDuration); err != nil {
			s.logger.Warn("не удалось задать срок счётчика попыток", zap.Error(err))
		}
	}
}

func (s *AuthService) issue(user *entities.User) (*dto.AuthResponseDTO, string, error) {
	access, refresh, err := s.jwtService.GenerateTokens(user)
	if err != nil {
		return nil, "", fmt.Errorf("не удалось создать токены: %w", err)
	}
	return &dto.AuthResponseDTO{
		Token:       access,
		User:        dto.NewUserPublicDTO(user),
		Permissions: authz.PermissionsFor(user.Role),
	}, refresh, nil
}

// RefreshToken выдаёт новую пару токенов, старый refresh-токен отзывается.
func (s *AuthService) RefreshToken(ctx context.Context, refreshToken string) (*dto.AuthResponseDTO, string, error) {
	claims, err := s.jwtService.ValidateToken(refreshToken)
	if err != nil {
		return nil, "", err
	}
	if !claims.IsRefreshToken {
		return nil, "", apperrors.ErrTokenIsNotRefresh
	}
	// Каждый refresh-токен используется один раз: jti занимается атомарно.
	if err := s.consumeRefresh(ctx, claims); err != nil {
		return nil, "", err
	}

	user, err := s.userRepo.FindByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, "", apperrors.ErrInvalidToken
		}
		return nil, "", err
	}
	if !user.IsActive {
		return nil, "", apperrors.ErrUserInactive
	}
	if !user.Role.IsValid() {
		return nil, "", apperrors.ErrUnknownRole
	}

	return s.issue(user)
}

func (s *AuthService) consumeRefresh(ctx context.Context, claims *service.JwtCustomClaim) error {
	if claims.ID == "" {
		return apperrors.ErrInvalidToken
	}
	ttl := s.jwtService.GetRefreshTokenTTL()
	if claims.ExpiresAt != nil {
		ttl = claims.ExpiresAt.Time.Sub(s.now())
	}
	if ttl <= 0 {
		return apperrors.ErrTokenExpired
	}
	claimed, err := s.cacheRepo.SetNX(ctx, revokedTokenKeyPrefix+claims.ID, "1", ttl)
	if err != nil {
		s.logger.Error("не удалось отозвать refresh-токен", zap.String("jti", claims.ID), zap.Error(err))
		return err
	}
	if !claimed {
		return apperrors.ErrTokenRevoked
	}
	return nil
}

// Logout отзывает access-токен текущего запроса и, если передан, refresh-токен.
func (s *AuthService) Logout(ctx context.Context, refreshToken string) error {
	claims, err := utils.GetClaimsFromContext(ctx)
	if err != nil {
		return err
	}
	if err := s.revoke(ctx, claims.TokenID, claims.ExpiresAt); err != nil {
		return err
	}
	if refreshToken != "" {
		if rc, err := s.jwtService.ValidateToken(refreshToken); err == nil && rc.IsRefreshToken && rc.ExpiresAt != nil {
			_ = s.revoke(ctx, rc.ID, rc.ExpiresAt.Time)
		}
	}
	s.logger.Info("выход из системы", zap.Uint64("userID", claims.UserID))
	return nil
}

func (s *AuthService) revoke(ctx context.Context, tokenID string, expiresAt time.Time) error {
	if tokenID == "" {
		return nil
	}
	ttl := expiresAt.Sub(s.now())
	if ttl <= 0 {
		return nil
	}
	if err := s.cacheRepo.Set(ctx, revokedTokenKeyPrefix+tokenID, "1", ttl); err != nil {
		s.logger.Error("не удалось отозвать токен", zap.String("jti", tokenID), zap.Error(err))
		return err
	}
	return nil
}

func (s *AuthService) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	if tokenID == "" {
		return false, nil
	}
	return s.cacheRepo.Exists(ctx, revokedTokenKeyPrefix+tokenID)
}

// Session собирает данные для отрисовки интерфейса под роль. Роль и район берутся из БД.
func (s *AuthService) Session(ctx context.Context) (*dto.SessionDTO, error) {
	claims, err := utils.GetClaimsFromContext(ctx)
	if err != nil {
		return nil, err
	}
	user, err := s.userRepo.FindByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.ErrUnauthorized
		}
		return nil, err
	}
	if !user.IsActive {
		return nil, apperrors.ErrUserInactive
	}
	actor := user.AuthContext()
	return &dto.SessionDTO{
		User:        dto.NewUserPublicDTO(user),
		Role:        user.Role,
		Permissions: actor.Permissions(),
		Navigation:  authz.Navigation(actor),
	}, nil
}
