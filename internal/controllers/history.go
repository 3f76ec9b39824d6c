package controllers

import (
	"net/http"
	"strconv"

	"family-registry/internal/dto"
	"family-registry/internal/services"
	"family-registry/pkg/utils"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// HistoryController отдаёт журнал действий по семьям. Изменение записей не предусмотрено.
type HistoryController struct {
	historyService services.HistoryServiceInterface
	logger         *zap.Logger
}

func NewHistoryController(historyService services.HistoryServiceInterface, logger *zap.Logger) *HistoryController {
	return &HistoryController{historyService: historyService, logger: logger}
}

func (c *HistoryController) GetFamilyHistory(ctx echo.Context) error {
	familyID, err := parseIDParam(ctx, "id")
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	records, err := c.historyService.ListByFamily(ctx.Request().Context(), familyID, nil)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, records, "История семьи получена", http.StatusOK)
}

func (c *HistoryController) GetMemberHistory(ctx echo.Context) error {
	familyID, err := parseIDParam(ctx, "familyId")
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	memberID, err := parseIDParam(ctx, "memberId")
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	records, err := c.historyService.ListByFamily(ctx.Request().Context(), familyID, &memberID)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, records, "История члена семьи получена", http.StatusOK)
}

func (c *HistoryController) CreateHistory(ctx echo.Context) error {
	familyID, err := parseIDParam(ctx, "id")
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	var payload dto.CreateHistoryDTO
	if err := bindAndValidate(ctx, &payload); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	record, err := c.historyService.Create(ctx.Request().Context(), familyID, payload)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, record, "Запись добавлена в историю", http.StatusCreated)
}

func (c *HistoryController) GetAllHistory(ctx echo.Context) error {
	page, _ := strconv.Atoi(ctx.QueryParam("page"))
	limit, _ := strconv.Atoi(ctx.QueryParam("limit"))

	res, err := c.historyService.ListAll(ctx.Request().Context(), page, limit, ctx.QueryParam("search"))
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, res, "Журнал действий получен", http.StatusOK)
}

func (c *HistoryController) DeleteHistory(ctx echo.Context) error {
	historyID, err := parseIDParam(ctx, "historyId")
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	if err := c.historyService.Delete(ctx.Request().Context(), historyID); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, nil, "Запись истории удалена", http.StatusOK)
}
