package routes

import (
	"family-registry/internal/authz"
	"family-registry/internal/controllers"
	"family-registry/internal/services"
	"family-registry/pkg/middleware"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

func runUserRouter(secureGroup *echo.Group, userService services.UserServiceInterface, logger *zap.Logger, authMW *middleware.AuthMiddleware) {
	ctrl := controllers.NewUserController(userService, nopIfNil(logger))

	users := secureGroup.Group("/users", authMW.RequireCapability(authz.CanManageUsers))
	users.GET("", ctrl.GetUsers)
	users.GET("/:id", ctrl.FindUser)
	users.POST("", ctrl.CreateUser)
	users.PUT("/:id", ctrl.UpdateUser)
	users.DELETE("/:id", ctrl.DeleteUser)
}
