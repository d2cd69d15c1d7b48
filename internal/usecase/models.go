package usecase

import (
	"time"

	"github.com/shopspring/decimal"
)

// PRODUCT USECASE

// CreateProductReq — запрос на регистрацию нового продукта.
type CreateProductReq struct {
	SKU            string
	Name           string
	ExpirationDate time.Time
	Quantity       int
	Price          decimal.Decimal
	Location       string
	Description    string
	ProductType    string
	ProviderID     string
	Photo          *ProductPhoto
}

// UpdateProductReq — запрос на полное обновление продукта.
type UpdateProductReq struct {
	ID             int64
	Name           string
	ExpirationDate time.Time
	Quantity       int
	Price          decimal.Decimal
	Location       string
	Description    string
	ProductType    string
	ProviderID     string
	Photo          *ProductPhoto
}

// ProductPhoto представляет файл фото, загруженный через multipart/form-data.
type ProductPhoto struct {
	Data []byte // байты изображения
	Name string // оригинальное имя файла
	Size int64  // фактический размер в байтах
}

// ProductInfo — DTO продукта для внешнего использования.
// PhotoURL вычисляется заново при каждом чтении и никогда не сохраняется.
type ProductInfo struct {
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
	PhotoURL       *string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// UpdateStockReq — запрос на корректировку остатка.
type UpdateStockReq struct {
	ProductID int64
	Operation string
	Quantity  int
	Reason    string
}

// UpdateStockRes — результат корректировки остатка.
type UpdateStockRes struct {
	ProductID        int64
	PreviousQuantity int
	NewQuantity      int
	Operation        string
	QuantityChanged  int
}

// FilterReq — критерии фильтрации и параметры страницы.
type FilterReq struct {
	Filter  Filter
	Page    *int
	PerPage *int
}

// FilterRes — страница отфильтрованных продуктов с эхом критериев.
type FilterRes struct {
	Products       []ProductInfo
	FiltersApplied FiltersApplied
	Pagination     Pagination
}

// FiltersApplied — эхо критериев запроса; отсутствующие критерии равны nil.
type FiltersApplied struct {
	SKU            *string
	Name           *string
	ExpirationDate *string
	Quantity       *int
	Price          *string
	Location       *string
}

// PROVIDER GROUPING

// ProviderGroupsRes — продукты, сгруппированные по поставщику.
type ProviderGroupsRes struct {
	Groups  []ProviderGroup
	Message string
}

type ProviderGroup struct {
	Provider string
	Products []ProviderProduct
}

// ProviderProduct — сокращённое представление продукта в группе поставщика.
// ExpirationDate отформатирована с испанской аббревиатурой месяца (ENE 02, 2026).
type ProviderProduct struct {
	ID             int64
	Name           string
	Quantity       int
	Price          decimal.Decimal
	PhotoURL       *string
	ExpirationDate string
	Description    string
}

// IMPORT USECASE

// ImportReq — запрос на пакетный импорт продуктов из CSV-файла.
type ImportReq struct {
	FileName string
	Data     []byte
	UserID   string
}

// ImportRes — результат постановки файла импорта в обработку.
type ImportRes struct {
	HistoryID int64
	FileName  string
	Status    string
	Products  int
}

// HistoryReq — запрос страницы истории обработки импортов.
type HistoryReq struct {
	Page    *int
	PerPage *int
	UserID  string
}

// HistoryRes — страница истории обработки импортов.
type HistoryRes struct {
	Items      []ImportHistoryInfo
	Pagination Pagination
}

// ImportHistoryInfo — DTO записи истории импорта.
type ImportHistoryInfo struct {
	ID        int64
	FileName  string
	Status    string
	Result    string
	UserID    string
	CreatedAt time.Time
}

// INFRASTRUCTURE

// UploadPhotoReq — запрос на загрузку фото продукта.
type UploadPhotoReq struct {
	SKU   string
	Photo ProductPhoto
}

// WriteRawMessageReq — запрос на отправку готового payload в брокер.
type WriteRawMessageReq struct {
	Key     int64
	Payload []byte
}

// MAPPERS

func NewProductPhoto(data []byte, name string, size int64) *ProductPhoto {
	return &ProductPhoto{Data: data, Name: name, Size: size}
}

func NewUpdateStockRes(productID int64, previous, next int, operation string, delta int) *UpdateStockRes {
	return &UpdateStockRes{
		ProductID:        productID,
		PreviousQuantity: previous,
		NewQuantity:      next,
		Operation:        operation,
		QuantityChanged:  delta,
	}
}

func NewUploadPhotoReq(sku string, photo ProductPhoto) *UploadPhotoReq {
	return &UploadPhotoReq{SKU: sku, Photo: photo}
}

func NewWriteRawMessageReq(key int64, payload []byte) *WriteRawMessageReq {
	return &WriteRawMessageReq{Key: key, Payload: payload}
}
