package converter

import "time"

// ProductModel представляет запись таблицы products в PostgreSQL.
// Цена хранится как NUMERIC(12,2) и читается текстом, чтобы не терять точность.
type ProductModel struct {
	ID             int64     `db:"id"`
	SKU            string    `db:"sku"`
	Name           string    `db:"name"`
	ExpirationDate time.Time `db:"expiration_date"`
	Quantity       int       `db:"quantity"`
	Price          string    `db:"price"`
	Location       string    `db:"location"`
	Description    string    `db:"description"`
	ProductType    string    `db:"product_type"`
	ProviderID     string    `db:"provider_id"`
	PhotoFilename  *string   `db:"photo_filename"`
	CreatedAt      time.Time `db:"created_at"`
	UpdatedAt      time.Time `db:"updated_at"`
}

// ImportHistoryModel представляет запись таблицы import_history в PostgreSQL.
type ImportHistoryModel struct {
	ID        int64     `db:"id"`
	FileName  string    `db:"file_name"`
	ObjectKey string    `db:"object_key"`
	UserID    string    `db:"user_id"`
	Status    string    `db:"status"`
	Result    string    `db:"result"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

// OutboxEventModel представляет запись таблицы outbox_events в PostgreSQL.
type OutboxEventModel struct {
	ID          int64      `db:"id"`
	EventID     string     `db:"event_id"`
	EventType   string     `db:"event_type"`
	ProductID   int64      `db:"product_id"`
	Payload     []byte     `db:"payload"`
	Status      string     `db:"status"`
	CreatedAt   time.Time  `db:"created_at"`
	ProcessedAt *time.Time `db:"processed_at"`
}
