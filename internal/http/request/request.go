// Package request разбирает параметры и тело входящих HTTP-запросов.
package request

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/webshop/internal/http/response"
	"github.com/magabrotheeeer/webshop/internal/models"
)

// ID разбирает параметр пути {id}.
func ID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, models.NewError(models.ErrInvalidRequest, "Invalid id")
	}
	return id, nil
}

// DecodeJSON читает тело запроса в v.
func DecodeJSON(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return models.NewError(models.ErrInvalidRequest, "invalid request body")
	}
	return nil
}

// Validate проверяет структуру. При ошибке возвращает готовое тело ответа 400.
func Validate(v *validator.Validate, s any) (response.ErrorResponse, bool) {
	err := v.Struct(s)
	if err == nil {
		return response.ErrorResponse{}, true
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		return response.ValidationError(verrs), false
	}
	return response.Error("invalid request body"), false
}
