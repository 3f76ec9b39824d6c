package services

import (
	"context"
	"encoding/json"
	"errors"
	"strings"

	"family-registry/internal/authz"
	"family-registry/internal/dto"
	"family-registry/internal/repositories"
	"family-registry/pkg/config"
	apperrors "family-registry/pkg/errors"
	"family-registry/pkg/utils"

	"go.uber.org/zap"
)

const settingsKey = "system:settings"

type SettingsServiceInterface interface {
	Get(ctx context.Context) (*dto.SettingsDTO, error)
	Update(ctx context.Context, payload dto.SettingsDTO) (*dto.SettingsDTO, error)
}

type SettingsService struct {
	cacheRepo repositories.CacheRepositoryInterface
	authCfg   *config.AuthConfig
	logger    *zap.Logger
}

func NewSettingsService(cacheRepo repositories.CacheRepositoryInterface, authCfg *config.AuthConfig, logger *zap.Logger) SettingsServiceInterface {
	return &SettingsService{cacheRepo: cacheRepo, authCfg: authCfg, logger: logger}
}

func (s *SettingsService) defaults() dto.SettingsDTO {
	return dto.SettingsDTO{
		RegionName:      "Область",
		DefaultPageSize: utils.DefaultLimit,
	}
}

// withAuthParams дополняет настройки параметрами блокировки из конфигурации. Они только для чтения.
func (s *SettingsService) withAuthParams(settings dto.SettingsDTO) *dto.SettingsDTO {
	settings.MaxLoginAttempts = s.authCfg.MaxLoginAttempts
	settings.LockoutMinutes = int(s.authCfg.LockoutDuration.Minutes())
	return &settings
}

func (s *SettingsService) requireManager(ctx context.Context) error {
	_, actor, err := currentActor(ctx)
	if err != nil {
		return err
	}
	if !authz.CanDo(authz.CanManageSettings, actor) {
		return apperrors.ErrForbidden
	}
	return nil
}

func (s *SettingsService) Get(ctx context.Context) (*dto.SettingsDTO, error) {
	if err := s.requireManager(ctx); err != nil {
		return nil, err
	}
	settings := s.defaults()
	raw, err := s.cacheRepo.Get(ctx, settingsKey)
	switch {
	case errors.Is(err, repositories.ErrCacheMiss):
	case err != nil:
		return nil, err
	default:
		if err := json.Unmarshal([]byte(raw), &settings); err != nil {
			s.logger.Warn("повреждённые настройки, используются значения по умолчанию", zap.Error(err))
			settings = s.defaults()
		}
	}
	return s.withAuthParams(settings), nil
}

func (s *SettingsService) Update(ctx context.Context, payload dto.SettingsDTO) (*dto.SettingsDTO, error) {
	if err := s.requireManager(ctx); err != nil {
		return nil, err
	}
	settings := dto.SettingsDTO{
		RegionName:      strings.TrimSpace(payload.RegionName),
		DefaultPageSize: payload.DefaultPageSize,
		SupportContact:  strings.TrimSpace(payload.SupportContact),
	}
	if settings.RegionName == "" {
		return nil, apperrors.NewFieldError("region_name", "Укажите название региона")
	}
	if settings.DefaultPageSize < 1 || settings.DefaultPageSize > utils.MaxLimit {
		return nil, apperrors.NewFieldError("default_page_size", "Размер страницы от 1 до %d", utils.MaxLimit)
	}

	raw, err := json.Marshal(settings)
	if err != nil {
		return nil, err
	}
	if err := s.cacheRepo.Set(ctx, settingsKey, string(raw), 0); err != nil {
		return nil, err
	}
	return s.withAuthParams(settings), nil
}
