package routes

import (
	"family-registry/internal/authz"
	"family-registry/internal/controllers"
	"family-registry/pkg/middleware"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// runDashboardRouter - статистика, карта, отчёты и настройки панели управления.
func runDashboardRouter(secureGroup *echo.Group, svcs *Services, logger *zap.Logger, authMW *middleware.AuthMiddleware) {
	statsCtrl := controllers.NewStatisticsController(svcs.Statistics, nopIfNil(logger))
	reportCtrl := controllers.NewReportController(svcs.Report, nopIfNil(logger))
	settingsCtrl := controllers.NewSettingsController(svcs.Settings, nopIfNil(logger))

	secureGroup.GET("/statistics", statsCtrl.GetStatistics, authMW.RequireCapability(authz.CanViewStatistics))
	secureGroup.GET("/map/districts", statsCtrl.GetMap, authMW.RequireCapability(authz.CanViewMap))
	secureGroup.GET("/reports/support", reportCtrl.GetSupportReport, authMW.RequireCapability(authz.CanViewReports))

	settings := secureGroup.Group("/settings", authMW.RequireCapability(authz.CanManageSettings))
	settings.GET("", settingsCtrl.GetSettings)
	settings.PUT("", settingsCtrl.UpdateSettings)
}
