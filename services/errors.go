package services

import (
	"errors"
	"fmt"
	"strings"
)

// Общие ошибки сервисного слоя, используемые при маппинге в HTTP.
var (
	ErrValidationFailed    = errors.New("validation failed")
	ErrRegistrationNotOpen = errors.New("tournament registration is not open")
	ErrPaymentFailed       = errors.New("payment failed")
	ErrPersistenceFailed   = errors.New("registration could not be saved")

	ErrNotEnoughEntrants = errors.New("not enough singles entrants to generate fixtures (minimum 2)")
	ErrGateCloseFailed   = errors.New("fixtures were saved but registration could not be closed")

	ErrAuthInvalidCredentials = errors.New("invalid email or password")
	ErrAuthSessionInvalid     = errors.New("session is invalid or has been signed out")
)

// ValidationError перечисляет поля заявки, которые не прошли локальную проверку.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	names := make([]string, 0, len(e.Fields))
	for _, field := range validationFieldOrder {
		if _, ok := e.Fields[field]; ok {
			names = append(names, field)
		}
	}
	return fmt.Sprintf("%s: %s", ErrValidationFailed.Error(), strings.Join(names, ", "))
}

func (e *ValidationError) Unwrap() error { return ErrValidationFailed }

var validationFieldOrder = []string{"name", "email", "phone", "category"}

// PaymentError: платёжный шлюз отклонил или не завершил списание. Ничего не сохранено.
type PaymentError struct {
	Amount int
	Err    error
}

func (e *PaymentError) Error() string {
	return fmt.Sprintf("payment of %d failed: %v", e.Amount, e.Err)
}

func (e *PaymentError) Unwrap() []error { return []error{ErrPaymentFailed, e.Err} }

// PersistenceError: платёж прошёл, но участник не сохранён.
// Деньги не возвращаются; Reference нужен для ручной сверки.
type PersistenceError struct {
	PaymentReference string
	Err              error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("entrant not saved after payment %s: %v", e.PaymentReference, e.Err)
}

func (e *PersistenceError) Unwrap() []error { return []error{ErrPersistenceFailed, e.Err} }
