package utils

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	apperrors "family-registry/pkg/errors"
	"family-registry/pkg/types"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

type HTTPResponse struct {
	Status  bool        `json:"status"`
	Body    interface{} `json:"body,omitempty"`
	Message string      `json:"message"`
}

type HTTPErrorResponse struct {
	Status  bool   `json:"status"`
	Message string `json:"message"`
	Error   string `json:"error"`
	Field   string `json:"field,omitempty"`
}

const (
	DefaultLimit = 20
	MaxLimit     = 500
)

func ParseFilterFromQuery(values url.Values) types.Filter {
	filterReq := types.Filter{
		Sort:   make(map[string]string),
		Filter: make(map[string]interface{}),
		Limit:  DefaultLimit,
		Page:   1,
	}

	if limitStr := values.Get("limit"); limitStr != "" {
		if l, err := strconv.Atoi(limitStr); err == nil && l > 0 {
			if l > MaxLimit {
				filterReq.Limit = MaxLimit
			} else {
				filterReq.Limit = l
			}
		}
	}

	if pageStr := values.Get("page"); pageStr != "" {
		if p, err := strconv.Atoi(pageStr); err == nil && p > 0 {
			filterReq.Page = p
		}
	}

	if offsetStr := values.Get("offset"); offsetStr != "" {
		if o, err := strconv.Atoi(offsetStr); err == nil && o >= 0 {
			filterReq.Offset = o
			filterReq.Page = o/filterReq.Limit + 1
		}
	} else {
		filterReq.Offset = (filterReq.Page - 1) * filterReq.Limit
	}

	filterReq.WithPagination = values.Get("withPagination") == "true"

	for key, vals := range values {
		if len(vals) == 0 || vals[0] == "" {
			continue
		}

		if key == "search" {
			filterReq.Search = strings.TrimSpace(vals[0])
			continue
		}

		if strings.HasPrefix(key, "sort[") && strings.HasSuffix(key, "]") {
			field := key[5 : len(key)-1]
			direction := strings.ToLower(vals[0])
			if direction == "asc" || direction == "desc" {
				filterReq.Sort[field] = direction
			}
			continue
		}

		if strings.HasPrefix(key, "filter[") && strings.HasSuffix(key, "]") {
			field := key[7 : len(key)-1]
			filterReq.Filter[field] = strings.Join(vals, ",")
		}
	}

	return filterReq
}

// SuccessResponse оборачивает тело в {status, message, body}. Если запрошено
// withPagination=true и передан total, тело превращается в {list, pagination}.
func SuccessResponse(ctx echo.Context, body interface{}, message string, code int, total ...uint64) error {
	response := &HTTPResponse{Status: true, Message: message}
	withPagination, _ := strconv.ParseBool(ctx.QueryParam("withPagination"))
	if withPagination && len(total) > 0 {
		filter := ParseFilterFromQuery(ctx.Request().URL.Query())
		response.Body = map[string]interface{}{
			"list":       body,
			"pagination": types.NewPagination(total[0], filter.Page, filter.Limit),
		}
	} else {
		response.Body = body
	}
	return ctx.JSON(code, response)
}

func ErrorResponse(c echo.Context, err error, logger *zap.Logger) error {
	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) {
		var msgs []string
		for _, e := range validationErrors {
			msgs = append(msgs, fmt.Sprintf("Поле '%s' не прошло проверку '%s'", e.Field(), e.Tag()))
		}
		return c.JSON(http.StatusBadRequest, HTTPErrorResponse{
			Message: "Ошибка валидации: " + strings.Join(msgs, "; "),
			Error:   "validation",
		})
	}

	code := apperrors.StatusCode(err)
	response := HTTPErrorResponse{Error: errorKind(code)}

	var httpErr *apperrors.HttpError
	var fieldErr *apperrors.ValidationError
	switch {
	case errors.As(err, &httpErr):
		response.Message = httpErr.Message
		if httpErr.Err != nil {
			logger.Error("HTTP Error",
				zap.Int("code", httpErr.Code),
				zap.String("message", httpErr.Message),
				zap.Error(httpErr.Err),
				zap.Any("context", httpErr.Context),
			)
		}
	case errors.As(err, &fieldErr):
		response.Message = fieldErr.Message
		response.Field = fieldErr.Field
	case code == http.StatusInternalServerError:
		logger.Error("Unexpected Error", zap.Error(err), zap.String("path", c.Path()))
		response.Message = "Внутренняя ошибка сервера"
	default:
		response.Message = rootMessage(err)
	}

	return c.JSON(code, response)
}

func errorKind(code int) string {
	switch code {
	case http.StatusBadRequest:
		return "validation"
	case http.StatusUnauthorized:
		return "unauthorized"
	case http.StatusForbidden:
		return "forbidden"
	case http.StatusNotFound:
		return "not_found"
	case http.StatusTooManyRequests:
		return "too_many_attempts"
	}
	return "store"
}

// rootMessage возвращает текст известной сентинел-ошибки без технического префикса.
func rootMessage(err error) string {
	for _, known := range []error{
		apperrors.ErrTooManyAttempts, apperrors.ErrInvalidCredentials, apperrors.ErrUserInactive,
		apperrors.ErrTokenExpired, apperrors.ErrTokenRevoked, apperrors.ErrEmptyAuthHeader,
		apperrors.ErrInvalidAuthHeader, apperrors.ErrForbidden, apperrors.ErrNotFound,
		apperrors.ErrConflict, apperrors.ErrUnauthorized, apperrors.ErrInvalidToken,
	} {
		if errors.Is(err, known) {
			return known.Error()
		}
	}
	return err.Error()
}
