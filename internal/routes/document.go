package routes

import (
	"family-registry/internal/authz"
	"family-registry/internal/controllers"
	"family-registry/internal/services"
	"family-registry/pkg/middleware"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

func runDocumentRouter(secureGroup *echo.Group, documentService services.DocumentServiceInterface, logger *zap.Logger, authMW *middleware.AuthMiddleware) {
	ctrl := controllers.NewDocumentController(documentService, nopIfNil(logger))

	documents := secureGroup.Group("/documents", authMW.RequireCapability(authz.CanViewDocuments))
	documents.GET("", ctrl.GetDocuments)
	documents.GET("/:id", ctrl.FindDocument)
	documents.GET("/:id/file", ctrl.DownloadDocument)
	documents.POST("", ctrl.CreateDocument)
	documents.POST("/upload", ctrl.UploadDocument)
	documents.DELETE("/:id", ctrl.DeleteDocument)
}
