package routes

import (
	"family-registry/internal/controllers"
	"family-registry/internal/services"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

func runSupportRouter(secureGroup *echo.Group, supportService services.SupportServiceInterface, logger *zap.Logger) {
	ctrl := controllers.NewSupportController(supportService, nopIfNil(logger))

	support := secureGroup.Group("/support")
	support.GET("", ctrl.GetMeasures)
	support.GET("/:id", ctrl.FindMeasure)
	support.POST("", ctrl.CreateMeasure)
	support.PUT("/:id", ctrl.UpdateMeasure)
	support.DELETE("/:id", ctrl.DeleteMeasure)
}
