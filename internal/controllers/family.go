package controllers

import (
	"net/http"

	"family-registry/internal/dto"
	"family-registry/internal/services"
	"family-registry/pkg/utils"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

type FamilyController struct {
	familyService services.FamilyServiceInterface
	logger        *zap.Logger
}

func NewFamilyController(familyService services.FamilyServiceInterface, logger *zap.Logger) *FamilyController {
	return &FamilyController{familyService: familyService, logger: logger}
}

func (c *FamilyController) GetFamilies(ctx echo.Context) error {
	filter := utils.ParseFilterFromQuery(ctx.Request().URL.Query())
	if status := ctx.QueryParam("status"); status != "" {
		filter.Filter["status"] = status
	}

	families, total, err := c.familyService.List(ctx.Request().Context(), filter)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, families, "Список семей получен", http.StatusOK, total)
}

func (c *FamilyController) FindFamily(ctx echo.Context) error {
	id, err := parseIDParam(ctx, "id")
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	res, err := c.familyService.Get(ctx.Request().Context(), id)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, res, "Семья найдена", http.StatusOK)
}

func (c *FamilyController) CreateFamily(ctx echo.Context) error {
	var payload dto.CreateFamilyDTO
	if err := bindAndValidate(ctx, &payload); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	res, err := c.familyService.Create(ctx.Request().Context(), payload)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, res, "Семья зарегистрирована", http.StatusCreated)
}

func (c *FamilyController) UpdateFamily(ctx echo.Context) error {
	id, err := parseIDParam(ctx, "id")
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	var payload dto.UpdateFamilyDTO
	if err := bindAndValidate(ctx, &payload); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	res, err := c.familyService.Update(ctx.Request().Context(), id, payload)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, res, "Данные семьи обновлены", http.StatusOK)
}

func (c *FamilyController) DeleteFamily(ctx echo.Context) error {
	id, err := parseIDParam(ctx, "id")
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	if err := c.familyService.Delete(ctx.Request().Context(), id); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, nil, "Семья удалена", http.StatusOK)
}
