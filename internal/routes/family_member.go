package routes

import (
	"family-registry/internal/controllers"
	"family-registry/internal/services"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

func runFamilyMemberRouter(secureGroup *echo.Group, memberService services.FamilyMemberServiceInterface, logger *zap.Logger) {
	ctrl := controllers.NewFamilyMemberController(memberService, nopIfNil(logger))

	members := secureGroup.Group("/family-members")
	members.GET("", ctrl.GetMembers)
	members.GET("/:id", ctrl.FindMember)
	members.POST("", ctrl.CreateMember)
	members.PUT("/:id", ctrl.UpdateMember)
	members.DELETE("/:id", ctrl.DeleteMember)
}
