package controllers

import (
	"net/http"

	"family-registry/internal/dto"
	"family-registry/internal/services"
	"family-registry/pkg/utils"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

type SettingsController struct {
	settingsService services.SettingsServiceInterface
	logger          *zap.Logger
}

func NewSettingsController(settingsService services.SettingsServiceInterface, logger *zap.Logger) *SettingsController {
	return &SettingsController{settingsService: settingsService, logger: logger}
}

func (c *SettingsController) GetSettings(ctx echo.Context) error {
	settings, err := c.settingsService.Get(ctx.Request().Context())
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, settings, "Настройки получены", http.StatusOK)
}

func (c *SettingsController) UpdateSettings(ctx echo.Context) error {
	var payload dto.SettingsDTO
	if err := bindAndValidate(ctx, &payload); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	settings, err := c.settingsService.Update(ctx.Request().Context(), payload)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, settings, "Настройки сохранены", http.StatusOK)
}
