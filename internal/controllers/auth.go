package controllers

import (
	"net/http"
	"time"

	"family-registry/internal/authz"
	"family-registry/internal/dto"
	"family-registry/internal/services"
	apperrors "family-registry/pkg/errors"
	"family-registry/pkg/service"
	"family-registry/pkg/utils"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

const refreshCookieName = "refreshToken"

type AuthController struct {
	authService services.AuthServiceInterface
	jwtSvc      service.JWTService
	logger      *zap.Logger
}

func NewAuthController(authService services.AuthServiceInterface, jwtSvc service.JWTService, logger *zap.Logger) *AuthController {
	return &AuthController{authService: authService, jwtSvc: jwtSvc, logger: logger}
}

func (ctrl *AuthController) errorResponse(c echo.Context, err error) error {
	return utils.ErrorResponse(c, err, ctrl.logger)
}

func (ctrl *AuthController) setRefreshCookie(c echo.Context, token string) {
	c.SetCookie(&http.Cookie{
		Name:     refreshCookieName,
		Value:    token,
		Path:     "/",
		Expires:  time.Now().Add(ctrl.jwtSvc.GetRefreshTokenTTL()),
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteNoneMode,
	})
}

func (ctrl *AuthController) clearRefreshCookie(c echo.Context) {
	c.SetCookie(&http.Cookie{
		Name:     refreshCookieName,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteNoneMode,
	})
}

func (ctrl *AuthController) Login(c echo.Context) error {
	var payload dto.LoginDTO
	if err := c.Bind(&payload); err != nil {
		ctrl.logger.Error("Login: ошибка привязки данных", zap.Error(err))
		return ctrl.errorResponse(c, apperrors.NewBadRequestError("Неверный формат данных для входа"))
	}
	if err := c.Validate(&payload); err != nil {
		return ctrl.errorResponse(c, err)
	}

	res, refresh, err := ctrl.authService.Login(c.Request().Context(), payload)
	if err != nil {
		return ctrl.errorResponse(c, err)
	}

	ctrl.setRefreshCookie(c, refresh)
	return utils.SuccessResponse(c, res, "Авторизация прошла успешно", http.StatusOK)
}

func (ctrl *AuthController) RefreshToken(c echo.Context) error {
	cookie, err := c.Cookie(refreshCookieName)
	if err != nil || cookie.Value == "" {
		return ctrl.errorResponse(c, apperrors.ErrUnauthorized)
	}

	res, refresh, err := ctrl.authService.RefreshToken(c.Request().Context(), cookie.Value)
	if err != nil {
		ctrl.clearRefreshCookie(c)
		return ctrl.errorResponse(c, err)
	}

	ctrl.setRefreshCookie(c, refresh)
	return utils.SuccessResponse(c, res, "Токены успешно обновлены", http.StatusOK)
}

func (ctrl *AuthController) Logout(c echo.Context) error {
	var refresh string
	if cookie, err := c.Cookie(refreshCookieName); err == nil {
		refresh = cookie.Value
	}
	if err := ctrl.authService.Logout(c.Request().Context(), refresh); err != nil {
		return ctrl.errorResponse(c, err)
	}
	ctrl.clearRefreshCookie(c)
	return utils.SuccessResponse(c, nil, "Вы успешно вышли из системы", http.StatusOK)
}

func (ctrl *AuthController) Me(c echo.Context) error {
	session, err := ctrl.authService.Session(c.Request().Context())
	if err != nil {
		return ctrl.errorResponse(c, err)
	}
	return utils.SuccessResponse(c, session, "Данные сессии получены", http.StatusOK)
}

// Navigation - пункты бокового меню по возможностям роли из токена.
func (ctrl *AuthController) Navigation(c echo.Context) error {
	authCtx, err := utils.GetAuthContext(c.Request().Context())
	if err != nil {
		return ctrl.errorResponse(c, err)
	}
	return utils.SuccessResponse(c, authz.Navigation(authCtx), "Меню получено", http.StatusOK)
}
