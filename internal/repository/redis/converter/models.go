package converter

import "time"

// ProductInfoRedisModel — JSON-представление продукта в кэше.
// Presigned-ссылка на фото не кэшируется, она живёт меньше записи.
type ProductInfoRedisModel struct {
	ID             int64     `json:"id"`
	SKU            string    `json:"sku"`
	Name           string    `json:"name"`
	ExpirationDate time.Time `json:"expiration_date"`
	Quantity       int       `json:"quantity"`
	Price          string    `json:"price"`
	Location       string    `json:"location"`
	Description    string    `json:"description"`
	ProductType    string    `json:"product_type"`
	ProviderID     string    `json:"provider_id"`
	PhotoFilename  *string   `json:"photo_filename,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}
