// Package response содержит вспомогательные типы и функции для формирования
// унифицированных JSON-ответов HTTP-обработчиков и перевода ошибок
// бизнес-логики в HTTP-статусы.
package response

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/webshop/internal/lib/sl"
	"github.com/magabrotheeeer/webshop/internal/models"
)

// ErrorResponse тело ответа с ошибкой.
type ErrorResponse struct {
	Error             string   `json:"error" example:"Phone number is required"`
	Message           string   `json:"message,omitempty"`
	Details           string   `json:"details,omitempty"`
	PurchasedArticles []string `json:"purchasedArticles,omitempty"`
}

// MessageResponse тело ответа с текстовым сообщением.
type MessageResponse struct {
	Message string `json:"message" example:"Logged out successfully"`
}

// Error возвращает ErrorResponse с переданным текстом.
func Error(msg string) ErrorResponse {
	return ErrorResponse{Error: msg}
}

// Message возвращает MessageResponse.
func Message(msg string) MessageResponse {
	return MessageResponse{Message: msg}
}

// ValidationError формирует ErrorResponse на основе ошибок валидации.
// Каждое нарушение формируется в человеко-читаемый текст, объединённый через запятую.
func ValidationError(errs validator.ValidationErrors) ErrorResponse {
	var errsMsgs []string

	for _, err := range errs {
		switch err.ActualTag() {
		case "required":
			errsMsgs = append(errsMsgs, fmt.Sprintf("field %s is a required field", err.Field()))
		case "email":
			errsMsgs = append(errsMsgs, fmt.Sprintf("field %s must be a valid email address", err.Field()))
		case "max":
			errsMsgs = append(errsMsgs, fmt.Sprintf("field %s must be at most %s characters", err.Field(), err.Param()))
		case "min":
			errsMsgs = append(errsMsgs, fmt.Sprintf("field %s must be at least %s", err.Field(), err.Param()))
		default:
			errsMsgs = append(errsMsgs, fmt.Sprintf("field %s is not valid", err.Field()))
		}
	}
	return ErrorResponse{Error: strings.Join(errsMsgs, ", ")}
}

// FromError определяет HTTP-статус и тело ответа по ошибке сервиса.
// Неизвестные ошибки превращаются в 500 без подробностей.
func FromError(err error) (int, ErrorResponse) {
	var domainErr *models.Error
	if errors.As(err, &domainErr) {
		return statusFor(domainErr.Kind), ErrorResponse{
			Error:             domainErr.Text,
			Message:           domainErr.Message,
			PurchasedArticles: domainErr.PurchasedArticles,
		}
	}

	switch {
	case errors.Is(err, models.ErrNotFound):
		return http.StatusNotFound, Error("Not found")
	case errors.Is(err, models.ErrUnauthorized):
		return http.StatusUnauthorized, Error("Authentication required")
	case errors.Is(err, models.ErrForbidden):
		return http.StatusForbidden, Error("Insufficient permissions")
	case errors.Is(err, models.ErrInvalidRequest):
		return http.StatusBadRequest, Error("Invalid request")
	}
	return http.StatusInternalServerError, ErrorResponse{
		Error:   "Internal server error",
		Details: "An unexpected error occurred while processing the request",
	}
}

func statusFor(kind error) int {
	switch {
	case errors.Is(kind, models.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(kind, models.ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(kind, models.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(kind, models.ErrInvalidRequest),
		errors.Is(kind, models.ErrAlreadySubscribed),
		errors.Is(kind, models.ErrAlreadyPurchased),
		errors.Is(kind, models.ErrCannotDelete),
		errors.Is(kind, models.ErrHasHistory):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

// RenderError пишет ответ для ошибки сервиса. Ошибки 5xx логируются.
func RenderError(w http.ResponseWriter, r *http.Request, log *slog.Logger, err error) {
	status, body := FromError(err)
	if status >= http.StatusInternalServerError {
		log.Error("request failed", sl.Err(err))
	} else {
		log.Info("request rejected", slog.Int("status", status), slog.String("reason", body.Error))
	}
	render.Status(r, status)
	render.JSON(w, r, body)
}
