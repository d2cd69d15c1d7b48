package domain

import (
	"time"

	"github.com/DRSN-tech/inventory-backend/pkg/e"
	"github.com/shopspring/decimal"
)

// Product описывает позицию склада. Все мутации идут через выделенные
// операции (корректировка остатка, полное обновление), прямое изменение
// полей после создания не предполагается.
type Product struct {
	ID             int64
	SKU            string
	Name           string
	ExpirationDate time.Time
	Quantity       int
	Price          decimal.Decimal
	Location       string
	Description    string
	ProductType    string
	ProviderID     string
	PhotoFilename  *string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// ProductParams — входные поля для создания продукта.
type ProductParams struct {
	SKU            string
	Name           string
	ExpirationDate time.Time
	Quantity       int
	Price          decimal.Decimal
	Location       string
	Description    string
	ProductType    string
	ProviderID     string
	PhotoFilename  *string
}

// NewProduct создаёт провалидированный продукт и проставляет временные метки.
// Возвращает e.ValidationError со ВСЕМИ нарушенными правилами, а не первым.
func NewProduct(rules *Rules, params ProductParams, now time.Time) (*Product, error) {
	var fields []e.FieldError

	checks := []*e.FieldError{
		rules.ValidateSKU(params.SKU),
		rules.ValidateName(params.Name),
		rules.ValidateExpirationDate(params.ExpirationDate, now),
		rules.ValidateQuantity(params.Quantity),
		rules.ValidatePrice(params.Price),
		rules.ValidateLocation(params.Location),
		rules.ValidateProductType(params.ProductType),
	}
	for _, check := range checks {
		if check != nil {
			fields = append(fields, *check)
		}
	}

	if len(fields) > 0 {
		return nil, e.NewValidationError(fields...)
	}

	return &Product{
		SKU:            params.SKU,
		Name:           params.Name,
		ExpirationDate: params.ExpirationDate,
		Quantity:       params.Quantity,
		Price:          params.Price,
		Location:       params.Location,
		Description:    params.Description,
		ProductType:    params.ProductType,
		ProviderID:     params.ProviderID,
		PhotoFilename:  params.PhotoFilename,
		CreatedAt:      now,
		UpdatedAt:      now,
	}, nil
}

// Revise полностью обновляет изменяемые поля продукта с повторной валидацией.
// ID, SKU и created_at неизменяемы.
func (p *Product) Revise(rules *Rules, params ProductParams, now time.Time) error {
	var fields []e.FieldError

	checks := []*e.FieldError{
		rules.ValidateName(params.Name),
		rules.ValidateExpirationDate(params.ExpirationDate, now),
		rules.ValidateQuantity(params.Quantity),
		rules.ValidatePrice(params.Price),
		rules.ValidateLocation(params.Location),
		rules.ValidateProductType(params.ProductType),
	}
	for _, check := range checks {
		if check != nil {
			fields = append(fields, *check)
		}
	}

	if len(fields) > 0 {
		return e.NewValidationError(fields...)
	}

	p.Name = params.Name
	p.ExpirationDate = params.ExpirationDate
	p.Quantity = params.Quantity
	p.Price = params.Price
	p.Location = params.Location
	p.Description = params.Description
	p.ProductType = params.ProductType
	p.ProviderID = params.ProviderID
	if params.PhotoFilename != nil {
		p.PhotoFilename = params.PhotoFilename
	}
	p.touch(now)

	return nil
}

// HasPhoto сообщает, прикреплено ли к продукту фото.
func (p *Product) HasPhoto() bool {
	return p.PhotoFilename != nil && *p.PhotoFilename != ""
}

// touch обновляет updated_at, не позволяя ему уйти раньше created_at.
func (p *Product) touch(now time.Time) {
	if now.Before(p.CreatedAt) {
		now = p.CreatedAt
	}
	p.UpdatedAt = now
}
