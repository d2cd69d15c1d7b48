package usecase

import (
	"context"
	"time"

	"github.com/DRSN-tech/inventory-backend/internal/domain"
)

// ProductRepository — хранилище продуктов.
// Отсутствие записи возвращается как (nil, nil), а не как ошибка:
// трансляцию в NotFoundError выполняет usecase.
type ProductRepository interface {
	// Insert создаёт продукт; дубликат SKU возвращается как e.DuplicateError.
	// Требует открытой транзакции в контексте.
	Insert(ctx context.Context, product *domain.Product) (*domain.Product, error)
	GetByID(ctx context.Context, id int64) (*domain.Product, error)
	GetBySKU(ctx context.Context, sku string) (*domain.Product, error)
	// GetForUpdate читает продукт под блокировкой строки.
	// Требует открытой транзакции в контексте.
	GetForUpdate(ctx context.Context, id int64) (*domain.Product, error)
	// List возвращает все продукты в стабильном порядке (по id).
	List(ctx context.Context) ([]domain.Product, error)
	// Filter возвращает страницу продуктов по критериям и общее число совпадений.
	Filter(ctx context.Context, filter *Filter, limit, offset int) ([]domain.Product, int, error)
	Update(ctx context.Context, product *domain.Product) (*domain.Product, error)
	// UpdateQuantity записывает новый остаток и updated_at.
	// Требует открытой транзакции в контексте.
	UpdateQuantity(ctx context.Context, id int64, quantity int, updatedAt time.Time) error
	Delete(ctx context.Context, id int64) (bool, error)
	DeleteAll(ctx context.Context) (int64, error)
}

// HistoryRepository — хранилище истории обработки импортов.
type HistoryRepository interface {
	// Create сохраняет запись истории. Требует открытой транзакции в контексте.
	Create(ctx context.Context, history *domain.ImportHistory) (*domain.ImportHistory, error)
	List(ctx context.Context, userID string, limit, offset int) ([]domain.ImportHistory, error)
	Count(ctx context.Context, userID string) (int, error)
}

// OutboxRepository — транзакционный outbox событий.
type OutboxRepository interface {
	// Create сохраняет событие. Требует открытой транзакции в контексте.
	Create(ctx context.Context, event *OutboxEvent) (*OutboxEvent, error)
	GetAndMarkAsProcessing(ctx context.Context, limit int) ([]*OutboxEvent, error)
	MarkAsProcessed(ctx context.Context, id int64) error
}

// CacheRepository — кэш продуктов для быстрых чтений.
type CacheRepository interface {
	GetProducts(ctx context.Context, ids []int64) (map[int64]ProductInfo, error)
	SetProducts(ctx context.Context, products []ProductInfo) error
	DeleteProducts(ctx context.Context, ids []int64) error
}
