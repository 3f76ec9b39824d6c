package controllers

import (
	"net/http"

	"family-registry/internal/dto"
	"family-registry/internal/services"
	apperrors "family-registry/pkg/errors"
	"family-registry/pkg/utils"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

type FamilyMemberController struct {
	memberService services.FamilyMemberServiceInterface
	logger        *zap.Logger
}

func NewFamilyMemberController(memberService services.FamilyMemberServiceInterface, logger *zap.Logger) *FamilyMemberController {
	return &FamilyMemberController{memberService: memberService, logger: logger}
}

func (c *FamilyMemberController) GetMembers(ctx echo.Context) error {
	familyID, err := parseOptionalID(ctx.QueryParam("family_id"), "family_id")
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	if familyID == nil {
		return utils.ErrorResponse(ctx, apperrors.NewFieldError("family_id", "Укажите семью"), c.logger)
	}
	members, err := c.memberService.ListByFamily(ctx.Request().Context(), *familyID)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, members, "Члены семьи получены", http.StatusOK)
}

func (c *FamilyMemberController) FindMember(ctx echo.Context) error {
	id, err := parseIDParam(ctx, "id")
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	member, err := c.memberService.Get(ctx.Request().Context(), id)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, member, "Член семьи найден", http.StatusOK)
}

func (c *FamilyMemberController) CreateMember(ctx echo.Context) error {
	var payload dto.CreateFamilyMemberDTO
	if err := bindAndValidate(ctx, &payload); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	member, err := c.memberService.Create(ctx.Request().Context(), payload)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, member, "Член семьи добавлен", http.StatusCreated)
}

func (c *FamilyMemberController) UpdateMember(ctx echo.Context) error {
	id, err := parseIDParam(ctx, "id")
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	var payload dto.UpdateFamilyMemberDTO
	if err := bindAndValidate(ctx, &payload); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	member, err := c.memberService.Update(ctx.Request().Context(), id, payload)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, member, "Данные члена семьи обновлены", http.StatusOK)
}

func (c *FamilyMemberController) DeleteMember(ctx echo.Context) error {
	id, err := parseIDParam(ctx, "id")
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	if err := c.memberService.Delete(ctx.Request().Context(), id); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, nil, "Член семьи удалён", http.StatusOK)
}
