package e

import (
	"fmt"
	"strings"
)

var (
	// Внутренние ошибки с транзакциями
	ErrTransactionNotFound = fmt.Errorf("transaction not found")

	// Внутренние ошибки конфигурации
	ErrIncorrectEnvVariable = fmt.Errorf("incorrect env variable")

	// 400 Bad Request
	ErrStatusBadRequest  = fmt.Errorf("bad request")
	ErrExpectedMultipart = fmt.Errorf("expected multipart/form-data")
	ErrExpectedJSON      = fmt.Errorf("expected application/json")
	ErrMissingFields     = fmt.Errorf("missing required fields")
	ErrInvalidPrice      = fmt.Errorf("invalid price")
	ErrPricePrecision    = fmt.Errorf("price must have at most 2 decimal places")
	ErrInvalidProductID  = fmt.Errorf("product id must be a positive integer")
	ErrFileTooLarge      = fmt.Errorf("file too large")
	ErrEmptyFile         = fmt.Errorf("file is empty")
	ErrNoImportFile      = fmt.Errorf("no import file provided")

	// 500 Internal Server Error
	ErrInternalServerError = fmt.Errorf("internal server error")
)

// FieldError описывает нарушение правила для конкретного поля.
type FieldError struct {
	Field  string `json:"field"`
	Reason string `json:"reason"`
}

func NewFieldError(field, reason string) FieldError {
	return FieldError{Field: field, Reason: reason}
}

// ValidationError агрегирует все нарушенные правила одного запроса.
type ValidationError struct {
	Fields []FieldError
}

func NewValidationError(fields ...FieldError) *ValidationError {
	return &ValidationError{Fields: fields}
}

func (v *ValidationError) Error() string {
	if len(v.Fields) == 0 {
		return "validation failed"
	}

	parts := make([]string, 0, len(v.Fields))
	for _, f := range v.Fields {
		parts = append(parts, fmt.Sprintf("%s: %s", f.Field, f.Reason))
	}

	return "validation failed: " + strings.Join(parts, "; ")
}

// NotFoundError — запрошенный ресурс не существует.
type NotFoundError struct {
	Resource string
	ID       int64
}

func NewNotFoundError(resource string, id int64) *NotFoundError {
	return &NotFoundError{Resource: resource, ID: id}
}

func (n *NotFoundError) Error() string {
	return fmt.Sprintf("%s with id %d not found", n.Resource, n.ID)
}

// DuplicateError — SKU уже зарегистрирован.
type DuplicateError struct {
	SKU string
}

func NewDuplicateError(sku string) *DuplicateError {
	return &DuplicateError{SKU: sku}
}

func (d *DuplicateError) Error() string {
	return fmt.Sprintf("sku %s already exists", d.SKU)
}

// InsufficientStockError — списание превышает доступный остаток.
type InsufficientStockError struct {
	Available int
	Requested int
}

func NewInsufficientStockError(available, requested int) *InsufficientStockError {
	return &InsufficientStockError{Available: available, Requested: requested}
}

func (i *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock: available %d, requested %d", i.Available, i.Requested)
}

// Wrap оборачивает ошибку
func Wrap(msg string, err error) error {
	return fmt.Errorf("%s: %w", msg, err)
}
