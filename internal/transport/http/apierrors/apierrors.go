// apierrors стандартизирует ответы об ошибках HTTP-слоя.
// На вход он принимает ошибку доменного слоя (service), а на выход даёт:
//   - корректный HTTP-статус;
//   - краткое безопасное message без утечки деталей.
//
// Все причины отказа на refresh/login-пути (неверный пароль, неизвестный
// username, вытесненный или отозванный токен) снаружи неразличимы:
// единый 401/unauthenticated. Детали остаются в логах.
package apierrors

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/pribylovaa/go-auth-service/internal/service"
)

// Нестандартный код часто используемый для "клиент закрыл соединение".
const StatusClientClosedRequest = 499

// APIError — единый формат для фронта.
// Code — короткий стабильный код для машиночитаемой обработки на FE.
// Message — безопасное человекочитаемое описание.
// RequestID — прокидывается из X-Request-Id, если есть (для трассировки).
type APIError struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	RequestID string `json:"request_id,omitempty"`
}

// ErrorResponse — корневой объект в ответе.
type ErrorResponse struct {
	Error APIError `json:"error"`
}

// ToHTTP конвертирует ошибку доменного слоя в HTTP-статус
// и унифицированный ответ для фронта.
//
// Поведение:
//   - err == nil — это программная ошибка вызова: возвращаем 500/internal,
//     чтобы не послать "200 OK" с телом ошибки и не маскировать баг;
//   - неизвестная ошибка — 500/internal (без утечки деталей).
func ToHTTP(err error) (int, ErrorResponse) {
	status, code, msg := base(err)
	return status, ErrorResponse{
		Error: APIError{
			Code:    code,
			Message: msg,
		},
	}
}

// WriteError — хелпер для HTTP-хендлеров.
// Пишет корректный статус/тело, добавляет request_id из заголовка, если он есть.
func WriteError(w http.ResponseWriter, r *http.Request, err error) {
	status, resp := ToHTTP(err)

	// Прокидываем request_id для фронта, чтобы он мог репортить баги с привязкой.
	if rid := r.Header.Get("X-Request-Id"); rid != "" {
		resp.Error.RequestID = rid
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(resp)
}

// base — маппинг доменных ошибок -> HTTP/FE-код/сообщение:
//   - битые входные данные -> 400;
//   - неверные учётные данные и любые проблемы токенов -> 401;
//   - профильный "не найден" -> 404;
//   - конфликт уникальности username -> 409;
//   - отмена клиентом -> 499, таймаут -> 504;
//   - прочее -> 500/internal.
func base(err error) (int, string, string) {
	switch {
	case err == nil:
		return http.StatusInternalServerError, "internal", "internal error"
	case errors.Is(err, ErrBadRequest),
		errors.Is(err, service.ErrInvalidUsername),
		errors.Is(err, service.ErrInvalidEmail),
		errors.Is(err, service.ErrWeakPassword),
		errors.Is(err, service.ErrEmptyPassword),
		errors.Is(err, service.ErrEmptyUpdate):
		return http.StatusBadRequest, "invalid_argument", "invalid argument"
	case errors.Is(err, service.ErrInvalidCredentials),
		errors.Is(err, service.ErrInvalidToken),
		errors.Is(err, service.ErrTokenExpired):
		return http.StatusUnauthorized, "unauthenticated", "unauthenticated"
	case errors.Is(err, service.ErrUserNotFound):
		return http.StatusNotFound, "not_found", "not found"
	case errors.Is(err, service.ErrUsernameTaken):
		return http.StatusConflict, "already_exists", "already exists"
	case errors.Is(err, context.Canceled):
		return StatusClientClosedRequest, "canceled", "request canceled"
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout, "deadline_exceeded", "request timed out"
	default:
		return http.StatusInternalServerError, "internal", "internal error"
	}
}

// ErrBadRequest — локальная ошибка парсинга тела/параметров запроса.
// Маппится в 400/invalid_argument.
var ErrBadRequest = errors.New("bad request")
