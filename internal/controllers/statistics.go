package controllers

import (
	"net/http"

	"family-registry/internal/services"
	"family-registry/pkg/utils"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

type StatisticsController struct {
	statisticsService services.StatisticsServiceInterface
	logger            *zap.Logger
}

func NewStatisticsController(statisticsService services.StatisticsServiceInterface, logger *zap.Logger) *StatisticsController {
	return &StatisticsController{statisticsService: statisticsService, logger: logger}
}

func (c *StatisticsController) GetStatistics(ctx echo.Context) error {
	stats, err := c.statisticsService.FamilyStatistics(ctx.Request().Context())
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, stats, "Статистика получена", http.StatusOK)
}

func (c *StatisticsController) GetMap(ctx echo.Context) error {
	points, err := c.statisticsService.MapPoints(ctx.Request().Context())
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, points, "Данные карты получены", http.StatusOK)
}
