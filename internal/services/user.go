package services

import (
	"context"
	"errors"
	"strings"

	"family-registry/internal/authz"
	"family-registry/internal/dto"
	"family-registry/internal/entities"
	"family-registry/internal/repositories"
	apperrors "family-registry/pkg/errors"
	"family-registry/pkg/types"
	"family-registry/pkg/utils"

	"go.uber.org/zap"
)

type UserServiceInterface interface {
	List(ctx context.Context, filter types.Filter) ([]dto.UserDTO, uint64, error)
	Get(ctx context.Context, id uint64) (*dto.UserDTO, error)
	Create(ctx context.Context, payload dto.CreateUserDTO) (*dto.UserDTO, error)
	Update(ctx context.Context, id uint64, payload dto.UpdateUserDTO) (*dto.UserDTO, error)
	Deactivate(ctx context.Context, id uint64) error
}

type UserService struct {
	repo   repositories.UserRepositoryInterface
	logger *zap.Logger
}

func NewUserService(repo repositories.UserRepositoryInterface, logger *zap.Logger) UserServiceInterface {
	return &UserService{repo: repo, logger: logger}
}

// parseRolePayload - единственная точка приёма роли из запроса.
func parseRolePayload(raw string) (authz.Role, error) {
	role := authz.ParseRole(raw)
	if !role.IsValid() {
		return authz.RoleUnknown, apperrors.NewFieldError("role", "Неизвестная роль: %s", strings.TrimSpace(raw))
	}
	return role, nil
}

func checkUserScope(u *entities.User) error {
	if u.Role == authz.RoleDistrict && strings.TrimSpace(u.District) == "" {
		return apperrors.NewFieldError("district", "Для районного специалиста обязателен район")
	}
	return nil
}

func (s *UserService) requireManager(ctx context.Context) (*dto.UserClaims, error) {
	claims, actor, err := currentActor(ctx)
	if err != nil {
		return nil, err
	}
	if !authz.CanDo(authz.CanManageUsers, actor) {
		return nil, apperrors.ErrForbidden
	}
	return claims, nil
}

func (s *UserService) List(ctx context.Context, filter types.Filter) ([]dto.UserDTO, uint64, error) {
	if _, err := s.requireManager(ctx); err != nil {
		return nil, 0, err
	}
	if raw, ok := filter.Filter["role"].(string); ok {
		filter.Filter["role"] = authz.ParseRole(raw).String()
	}
	users, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	result := make([]dto.UserDTO, 0, len(users))
	for i := range users {
		result = append(result, dto.NewUserDTO(&users[i]))
	}
	return result, total, nil
}

func (s *UserService) Get(ctx context.Context, id uint64) (*dto.UserDTO, error) {
	if _, err := s.requireManager(ctx); err != nil {
		return nil, err
	}
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	res := dto.NewUserDTO(user)
	return &res, nil
}

func (s *UserService) Create(ctx context.Context, p dto.CreateUserDTO) (*dto.UserDTO, error) {
	claims, err := s.requireManager(ctx)
	if err != nil {
		return nil, err
	}
	role, err := parseRolePayload(p.Role)
	if err != nil {
		return nil, err
	}

	hash, err := utils.HashPassword(p.Password)
	if err != nil {
		return nil, err
	}
	user := &entities.User{
		IIN:      strings.TrimSpace(p.IIN),
		Password: hash,
		FullName: strings.TrimSpace(p.FullName),
		Role:     role,
		Region:   strings.TrimSpace(p.Region),
		District: strings.TrimSpace(p.District),
		City:     strings.TrimSpace(p.City),
		IsActive: true,
	}
	if p.IsActive != nil {
		user.IsActive = *p.IsActive
	}
	if err := checkUserScope(user); err != nil {
		return nil, err
	}

	created, err := s.repo.Create(ctx, user)
	if err != nil {
		if errors.Is(err, apperrors.ErrConflict) {
			return nil, apperrors.NewFieldError("iin", "Пользователь с таким ИИН уже существует")
		}
		return nil, err
	}

	s.logger.Info("пользователь создан",
		zap.Uint64("userID", created.ID), zap.String("role", created.Role.String()), zap.Uint64("by", claims.UserID))
	res := dto.NewUserDTO(created)
	return &res, nil
}

func (s *UserService) Update(ctx context.Context, id uint64, p dto.UpdateUserDTO) (*dto.UserDTO, error) {
	claims, err := s.requireManager(ctx)
	if err != nil {
		return nil, err
	}
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if p.FullName.Valid {
		user.FullName = strings.TrimSpace(p.FullName.String)
	}
	if p.Role.Valid {
		if user.Role, err = parseRolePayload(p.Role.String); err != nil {
			return nil, err
		}
	}
	if p.Region.Valid {
		user.Region = strings.TrimSpace(p.Region.String)
	}
	if p.District.Valid {
		user.District = strings.TrimSpace(p.District.String)
	}
	if p.City.Valid {
		user.City = strings.TrimSpace(p.City.String)
	}
	if p.IsActive.Valid {
		if !p.IsActive.Bool && id == claims.UserID {
			return nil, apperrors.NewFieldError("is_active", "Нельзя отключить собственную учётную запись")
		}
		user.IsActive = p.IsActive.Bool
	}
	if err := checkUserScope(user); err != nil {
		return nil, err
	}

	if err := s.repo.Update(ctx, user); err != nil {
		return nil, err
	}
	if p.Password.Valid && p.Password.String != "" {
		hash, err := utils.HashPassword(p.Password.String)
		if err != nil {
			return nil, err
		}
		if err := s.repo.UpdatePassword(ctx, id, hash); err != nil {
			return nil, err
		}
		s.logger.Info("пароль пользователя изменён", zap.Uint64("userID", id), zap.Uint64("by", claims.UserID))
	}

	res := dto.NewUserDTO(user)
	return &res, nil
}

// Deactivate отключает учётную запись, история действий пользователя сохраняется.
func (s *UserService) Deactivate(ctx context.Context, id uint64) error {
	claims, err := s.requireManager(ctx)
	if err != nil {
		return err
	}
	if id == claims.UserID {
		return apperrors.NewBadRequestError("Нельзя отключить собственную учётную запись")
	}
	if err := s.repo.Deactivate(ctx, id); err != nil {
		return err
	}
	s.logger.Info("пользователь отключён", zap.Uint64("userID", id), zap.Uint64("by", claims.UserID))
	return nil
}
