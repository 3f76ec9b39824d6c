package controllers

import (
	"net/http"
	"strconv"

	apperrors "family-registry/pkg/errors"

	"github.com/labstack/echo/v4"
)

func parseIDParam(ctx echo.Context, name string) (uint64, error) {
	raw := ctx.Param(name)
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		return 0, apperrors.NewHttpError(http.StatusBadRequest, "Неверный ID", err, map[string]interface{}{"param": name, "value": raw})
	}
	return id, nil
}

// parseOptionalID читает необязательный числовой параметр запроса или формы.
func parseOptionalID(raw, field string) (*uint64, error) {
	if raw == "" {
		return nil, nil
	}
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		return nil, apperrors.NewFieldError(field, "Неверный идентификатор: %s", raw)
	}
	return &id, nil
}

// bindAndValidate читает тело запроса в payload и проверяет теги validate.
func bindAndValidate(ctx echo.Context, payload interface{}) error {
	if err := ctx.Bind(payload); err != nil {
		return apperrors.NewHttpError(http.StatusBadRequest, "Неверный формат данных", err, nil)
	}
	return ctx.Validate(payload)
}
