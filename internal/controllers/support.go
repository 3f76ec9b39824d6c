package controllers

import (
	"net/http"

	"family-registry/internal/dto"
	"family-registry/internal/repositories"
	"family-registry/internal/services"
	"family-registry/pkg/utils"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

type SupportController struct {
	supportService services.SupportServiceInterface
	logger         *zap.Logger
}

func NewSupportController(supportService services.SupportServiceInterface, logger *zap.Logger) *SupportController {
	return &SupportController{supportService: supportService, logger: logger}
}

func (c *SupportController) GetMeasures(ctx echo.Context) error {
	familyID, err := parseOptionalID(ctx.QueryParam("family_id"), "family_id")
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	filter := repositories.SupportFilter{
		FamilyID: familyID,
		Category: ctx.QueryParam("category"),
		Status:   ctx.QueryParam("status"),
	}
	measures, err := c.supportService.List(ctx.Request().Context(), filter)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, measures, "Меры поддержки получены", http.StatusOK)
}

func (c *SupportController) FindMeasure(ctx echo.Context) error {
	id, err := parseIDParam(ctx, "id")
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	measure, err := c.supportService.Get(ctx.Request().Context(), id)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, measure, "Мера поддержки найдена", http.StatusOK)
}

func (c *SupportController) CreateMeasure(ctx echo.Context) error {
	var payload dto.CreateSupportMeasureDTO
	if err := bindAndValidate(ctx, &payload); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	measure, err := c.supportService.Create(ctx.Request().Context(), payload)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, measure, "Мера поддержки назначена", http.StatusCreated)
}

func (c *SupportController) UpdateMeasure(ctx echo.Context) error {
	id, err := parseIDParam(ctx, "id")
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	var payload dto.UpdateSupportMeasureDTO
	if err := bindAndValidate(ctx, &payload); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	measure, err := c.supportService.Update(ctx.Request().Context(), id, payload)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, measure, "Мера поддержки обновлена", http.StatusOK)
}

func (c *SupportController) DeleteMeasure(ctx echo.Context) error {
	id, err := parseIDParam(ctx, "id")
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	if err := c.supportService.Delete(ctx.Request().Context(), id); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, nil, "Мера поддержки удалена", http.StatusOK)
}
