package domain

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/DRSN-tech/inventory-backend/pkg/e"
	"github.com/shopspring/decimal"
)

const (
	MinQuantity = 1
	MaxQuantity = 9999

	minNameLength = 3
)

// RuleSet — настраиваемые параметры валидации продукта.
// Заполняется из конфигурации, чтобы правила можно было менять без пересборки.
type RuleSet struct {
	SKUPattern        string
	NamePattern       string
	LocationPattern   string
	ProductTypes      []string
	PhotoExtensions   []string
	MaxPhotoSizeBytes int64
}

// DefaultRuleSet возвращает правила каталога по умолчанию.
func DefaultRuleSet() RuleSet {
	return RuleSet{
		SKUPattern:        `^MED-\d{4}$`,
		NamePattern:       `^[\p{L}\p{N} ]+$`,
		LocationPattern:   `^[A-Z]-\d{2}-\d{2}$`,
		ProductTypes:      []string{"Alto valor", "Seguridad controlada", "Cadena de frío"},
		PhotoExtensions:   []string{"jpg", "jpeg", "png", "gif"},
		MaxPhotoSizeBytes: 5 << 20,
	}
}

// Rules проверяет поля продукта. Все проверки чистые и не зависят от хранилища.
type Rules struct {
	sku          *regexp.Regexp
	name         *regexp.Regexp
	location     *regexp.Regexp
	productTypes map[string]struct{}
	photoExts    map[string]struct{}
	maxPhotoSize int64
}

func NewRules(set RuleSet) (*Rules, error) {
	const op = "domain.NewRules"

	sku, err := regexp.Compile(set.SKUPattern)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	name, err := regexp.Compile(set.NamePattern)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	location, err := regexp.Compile(set.LocationPattern)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	types := make(map[string]struct{}, len(set.ProductTypes))
	for _, t := range set.ProductTypes {
		types[t] = struct{}{}
	}

	exts := make(map[string]struct{}, len(set.PhotoExtensions))
	for _, ext := range set.PhotoExtensions {
		exts[strings.ToLower(ext)] = struct{}{}
	}

	return &Rules{
		sku:          sku,
		name:         name,
		location:     location,
		productTypes: types,
		photoExts:    exts,
		maxPhotoSize: set.MaxPhotoSizeBytes,
	}, nil
}

// ValidateSKU проверяет формат SKU.
func (r *Rules) ValidateSKU(sku string) *e.FieldError {
	if strings.TrimSpace(sku) == "" {
		return fieldErr("sku", "sku is required")
	}
	if !r.sku.MatchString(sku) {
		return fieldErr("sku", "sku must match the MED-XXXX format (4 digits)")
	}

	return nil
}

// ValidateName проверяет название: буквы (включая диакритику), цифры, пробелы, длина ≥ 3.
func (r *Rules) ValidateName(name string) *e.FieldError {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return fieldErr("name", "name is required")
	}
	if len([]rune(trimmed)) < minNameLength {
		return fieldErr("name", fmt.Sprintf("name must be at least %d characters long", minNameLength))
	}
	if !r.name.MatchString(trimmed) {
		return fieldErr("name", "name may contain only letters, digits and spaces")
	}

	return nil
}

// ValidateExpirationDate проверяет, что срок годности строго позже контрольного момента.
func (r *Rules) ValidateExpirationDate(expiration, now time.Time) *e.FieldError {
	if expiration.IsZero() {
		return fieldErr("expiration_date", "expiration date is required")
	}
	if !expiration.After(now) {
		return fieldErr("expiration_date", "expiration date must be later than the current date")
	}

	return nil
}

// ValidateQuantity проверяет диапазон количества при создании.
func (r *Rules) ValidateQuantity(quantity int) *e.FieldError {
	if quantity < MinQuantity || quantity > MaxQuantity {
		return fieldErr("quantity", fmt.Sprintf("quantity must be between %d and %d", MinQuantity, MaxQuantity))
	}

	return nil
}

// ValidatePrice проверяет, что цена положительная.
func (r *Rules) ValidatePrice(price decimal.Decimal) *e.FieldError {
	if !price.IsPositive() {
		return fieldErr("price", "price must be greater than zero")
	}

	return nil
}

// ValidateLocation проверяет формат ячейки хранения (стеллаж-полка-уровень).
func (r *Rules) ValidateLocation(location string) *e.FieldError {
	if strings.TrimSpace(location) == "" {
		return fieldErr("location", "location is required")
	}
	if !r.location.MatchString(location) {
		return fieldErr("location", "location must match the X-00-00 format")
	}

	return nil
}

// ValidateProductType проверяет принадлежность типа к закрытому перечню.
func (r *Rules) ValidateProductType(productType string) *e.FieldError {
	if strings.TrimSpace(productType) == "" {
		return fieldErr("product_type", "product type is required")
	}
	if _, ok := r.productTypes[productType]; !ok {
		return fieldErr("product_type", "unknown product type")
	}

	return nil
}

// ValidatePhoto проверяет расширение и размер прикреплённого файла фото.
func (r *Rules) ValidatePhoto(filename string, size int64) *e.FieldError {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(filename), "."))
	if ext == "" {
		return fieldErr("photo", "photo file must have an extension")
	}
	if _, ok := r.photoExts[ext]; !ok {
		return fieldErr("photo", "photo must be an image file (jpg, jpeg, png, gif)")
	}
	if size == 0 {
		return fieldErr("photo", "photo file is empty")
	}
	if size > r.maxPhotoSize {
		return fieldErr("photo", fmt.Sprintf("photo must not exceed %d bytes", r.maxPhotoSize))
	}

	return nil
}

// MaxPhotoSize возвращает настроенный предел размера фото в байтах.
func (r *Rules) MaxPhotoSize() int64 {
	return r.maxPhotoSize
}

func fieldErr(field, reason string) *e.FieldError {
	fe := e.NewFieldError(field, reason)
	return &fe
}
