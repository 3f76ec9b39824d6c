package seeders

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"family-registry/internal/authz"
	"family-registry/internal/entities"
	"family-registry/internal/repositories"
	apperrors "family-registry/pkg/errors"
	"family-registry/pkg/utils"
	"family-registry/pkg/validation"

	"go.uber.org/zap"
)

// AdminParams - учётные данные первого администратора.
type AdminParams struct {
	IIN      string
	Password string
	FullName string
}

func (p AdminParams) validate() error {
	if !validation.IsIIN(p.IIN) {
		return apperrors.NewFieldError("iin", "ИИН должен состоять из 12 цифр")
	}
	if len(p.Password) < utils.MinPasswordLength {
		return apperrors.NewFieldError("password", "пароль должен быть не короче %d символов", utils.MinPasswordLength)
	}
	return nil
}

// SeedAdmin создаёт администратора или, если ИИН уже занят, возвращает ему роль, активность и новый пароль.
// Возвращает true, если пользователь был создан.
func SeedAdmin(ctx context.Context, repo repositories.UserRepositoryInterface, params AdminParams, logger *zap.Logger) (bool, error) {
	params.IIN = strings.TrimSpace(params.IIN)
	params.FullName = strings.TrimSpace(params.FullName)
	if params.FullName == "" {
		params.FullName = "Администратор системы"
	}
	if err := params.validate(); err != nil {
		return false, err
	}

	hash, err := utils.HashPassword(params.Password)
	if err != nil {
		return false, fmt.Errorf("hash password: %w", err)
	}

	existing, err := repo.FindByIIN(ctx, params.IIN)
	switch {
	case errors.Is(err, apperrors.ErrNotFound):
		user := &entities.User{
			IIN:      params.IIN,
			Password: hash,
			FullName: params.FullName,
			Role:     authz.RoleAdmin,
			IsActive: true,
		}
		if _, err := repo.Create(ctx, user); err != nil {
			return false, err
		}
		logger.Info("администратор создан", zap.String("iin", params.IIN))
		return true, nil
	case err != nil:
		return false, err
	}

	existing.FullName = params.FullName
	existing.Role = authz.RoleAdmin
	existing.IsActive = true
	if err := repo.Update(ctx, existing); err != nil {
		return false, err
	}
	if err := repo.UpdatePassword(ctx, existing.ID, hash); err != nil {
		return false, err
	}
	logger.Info("администратор обновлён", zap.Uint64("userID", existing.ID), zap.String("iin", params.IIN))
	return false, nil
}
