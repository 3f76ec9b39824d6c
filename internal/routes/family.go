package routes

import (
	"family-registry/internal/authz"
	"family-registry/internal/controllers"
	"family-registry/pkg/middleware"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

func runFamilyRouter(secureGroup *echo.Group, svcs *Services, logger *zap.Logger, authMW *middleware.AuthMiddleware) {
	familyCtrl := controllers.NewFamilyController(svcs.Family, nopIfNil(logger))
	reportCtrl := controllers.NewReportController(svcs.Report, nopIfNil(logger))
	historyCtrl := controllers.NewHistoryController(svcs.History, nopIfNil(logger))

	families := secureGroup.Group("/families")
	families.GET("", familyCtrl.GetFamilies)
	families.GET("/export", reportCtrl.ExportFamilies, authMW.RequireCapability(authz.CanExportData))
	families.GET("/:id", familyCtrl.FindFamily)
	families.POST("", familyCtrl.CreateFamily, authMW.RequireCapability(authz.CanAddFamily))
	families.PUT("/:id", familyCtrl.UpdateFamily)
	families.DELETE("/:id", familyCtrl.DeleteFamily, authMW.RequireRole(authz.RoleAdmin))

	families.GET("/:id/history", historyCtrl.GetFamilyHistory)
	families.POST("/:id/history", historyCtrl.CreateHistory)
}
