package routes

import (
	"family-registry/internal/authz"
	"family-registry/internal/controllers"
	"family-registry/internal/services"
	"family-registry/pkg/middleware"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// runHistoryRouter: маршрутов изменения записей нет, удаление проверяется в сервисе.
func runHistoryRouter(secureGroup *echo.Group, historyService services.HistoryServiceInterface, logger *zap.Logger, authMW *middleware.AuthMiddleware) {
	ctrl := controllers.NewHistoryController(historyService, nopIfNil(logger))

	history := secureGroup.Group("/history")
	history.GET("", ctrl.GetAllHistory, authMW.RequireRole(authz.RoleAdmin))
	history.GET("/member/:familyId/:memberId", ctrl.GetMemberHistory)
	history.DELETE("/:historyId", ctrl.DeleteHistory)
}
