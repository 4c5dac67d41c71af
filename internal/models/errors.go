package models

import (
	"errors"
	"strings"
)

// Базовые виды ошибок бизнес-логики. Проверяются через errors.Is.
var (
	ErrInvalidRequest     = errors.New("invalid request")
	ErrNotFound           = errors.New("not found")
	ErrAlreadySubscribed  = errors.New("already subscribed")
	ErrAlreadyPurchased   = errors.New("already purchased")
	ErrCannotDelete       = errors.New("cannot delete")
	ErrHasHistory         = errors.New("has order history")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrForbidden          = errors.New("forbidden")
	ErrDuplicate          = errors.New("duplicate")
	ErrReferenceViolation = errors.New("reference violation")
)

// Error ошибка бизнес-правила с текстом для клиента.
type Error struct {
	Kind              error
	Text              string
	Message           string
	PurchasedArticles []string
}

// NewError создаёт ошибку заданного вида.
func NewError(kind error, text string) *Error {
	return &Error{Kind: kind, Text: text}
}

// WithMessage добавляет пояснение.
func (e *Error) WithMessage(msg string) *Error {
	e.Message = msg
	return e
}

func (e *Error) Error() string {
	if e.Message == "" {
		return e.Text
	}
	return e.Text + ": " + e.Message
}

func (e *Error) Unwrap() error { return e.Kind }

// PurchaseConflict ошибка повторной покупки товаров.
func PurchaseConflict(names []string) *Error {
	return &Error{
		Kind: ErrAlreadyPurchased,
		Text: "Customer already purchased some of these articles",
		Message: "Customer has already purchased: " + strings.Join(names, ", ") +
			". Each customer can purchase each unique item only once.",
		PurchasedArticles: names,
	}
}
