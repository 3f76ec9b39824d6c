package errors

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// JWT и токены
	ErrInvalidSigningMethod = errors.New("неверный метод подписи токена")
	ErrInvalidToken         = errors.New("недопустимый токен")
	ErrTokenExpired         = errors.New("срок действия токена истёк")
	ErrTokenRevoked         = errors.New("токен отозван")
	ErrTokenIsNotAccess     = errors.New("токен не является access-токеном")
	ErrTokenIsNotRefresh    = errors.New("токен не является refresh-токеном")

	// Авторизация
	ErrEmptyAuthHeader    = errors.New("заголовок авторизации отсутствует")
	ErrInvalidAuthHeader  = errors.New("неверный формат заголовка авторизации")
	ErrInvalidCredentials = errors.New("неверный ИИН или пароль")
	ErrUserInactive       = errors.New("учётная запись отключена")
	ErrUnknownRole        = errors.New("роль пользователя не распознана, обратитесь к администратору")
	ErrTooManyAttempts    = errors.New("слишком много попыток входа")
	ErrUnauthorized       = errors.New("неавторизован")
	ErrForbidden          = errors.New("Недостаточно прав для выполнения операции")

	// Общие
	ErrNotFound   = errors.New("запись не найдена")
	ErrBadRequest = errors.New("неверный запрос")
	ErrConflict   = errors.New("запись уже существует")
	ErrStore      = errors.New("ошибка хранилища данных")
)

// HttpError несёт код ответа, сообщение для клиента и исходную ошибку для логов.
type HttpError struct {
	Code    int
	Message string
	Err     error
	Context map[string]interface{}
}

func (e *HttpError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *HttpError) Unwrap() error { return e.Err }

func NewHttpError(code int, message string, err error, ctx map[string]interface{}) *HttpError {
	return &HttpError{Code: code, Message: message, Err: err, Context: ctx}
}

// ValidationError - некорректные или отсутствующие входные данные.
type ValidationError struct {
	Message string
	Field   string
}

func (e *ValidationError) Error() string { return e.Message }

func NewValidationError(format string, args ...interface{}) error {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

func NewFieldError(field, format string, args ...interface{}) error {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}

func NewBadRequestError(message string) *HttpError {
	return NewHttpError(http.StatusBadRequest, message, nil, nil)
}

// StoreError оборачивает ошибку базы данных или кеша.
func StoreError(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, ErrStore, err)
}

// StatusCode сопоставляет ошибку таксономии с HTTP-кодом.
func StatusCode(err error) int {
	var httpErr *HttpError
	var validationErr *ValidationError
	switch {
	case errors.As(err, &httpErr):
		return httpErr.Code
	case errors.As(err, &validationErr),
		errors.Is(err, ErrBadRequest),
		errors.Is(err, ErrConflict):
		return http.StatusBadRequest
	case errors.Is(err, ErrEmptyAuthHeader),
		errors.Is(err, ErrInvalidAuthHeader),
		errors.Is(err, ErrInvalidToken),
		errors.Is(err, ErrTokenExpired),
		errors.Is(err, ErrTokenRevoked),
		errors.Is(err, ErrTokenIsNotAccess),
		errors.Is(err, ErrTokenIsNotRefresh),
		errors.Is(err, ErrInvalidSigningMethod),
		errors.Is(err, ErrInvalidCredentials),
		errors.Is(err, ErrUserInactive),
		errors.Is(err, ErrUnknownRole),
		errors.Is(err, ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrTooManyAttempts):
		return http.StatusTooManyRequests
	}
	return http.StatusInternalServerError
}
