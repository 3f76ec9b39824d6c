package routes

import (
	"family-registry/internal/controllers"
	"family-registry/internal/services"
	"family-registry/pkg/service"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

func runAuthRouter(api, secureGroup *echo.Group, authService services.AuthServiceInterface, jwtSvc service.JWTService, logger *zap.Logger) {
	authCtrl := controllers.NewAuthController(authService, jwtSvc, nopIfNil(logger))

	authGroup := api.Group("/auth")
	{
		authGroup.POST("/login", authCtrl.Login)
		authGroup.POST("/refresh_token", authCtrl.RefreshToken)
	}

	secureAuth := secureGroup.Group("/auth")
	{
		secureAuth.POST("/logout", authCtrl.Logout)
		secureAuth.GET("/me", authCtrl.Me)
	}
	secureGroup.GET("/navigation", authCtrl.Navigation)
}
