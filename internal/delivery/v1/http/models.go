package http

import (
	"github.com/DRSN-tech/inventory-backend/internal/usecase"
)

const dateLayout = "2006-01-02"

// SuccessResponse — конверт успешного ответа API.
type SuccessResponse struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

// ErrorResponse — конверт ответа с ошибкой.
type ErrorResponse struct {
	Success bool        `json:"success"`
	Error   string      `json:"error"`
	Detail  interface{} `json:"detail,omitempty"`
}

// ProductResponse — JSON-представление продукта.
type ProductResponse struct {
	ID             int64   `json:"id"`
	SKU            string  `json:"sku"`
	Name           string  `json:"name"`
	ExpirationDate string  `json:"expiration_date"`
	Quantity       int     `json:"quantity"`
	Price          string  `json:"price"`
	Location       string  `json:"location"`
	Description    string  `json:"description,omitempty"`
	ProductType    string  `json:"product_type"`
	ProviderID     string  `json:"provider_id,omitempty"`
	PhotoURL       *string `json:"photo_url,omitempty"`
	CreatedAt      string  `json:"created_at"`
	UpdatedAt      string  `json:"updated_at"`
}

// StockResponse — результат корректировки остатка.
type StockResponse struct {
	ProductID        int64  `json:"product_id"`
	PreviousQuantity int    `json:"previous_quantity"`
	NewQuantity      int    `json:"new_quantity"`
	Operation        string `json:"operation"`
	QuantityChanged  int    `json:"quantity_changed"`
}

// PaginationResponse — метаданные страницы выдачи.
type PaginationResponse struct {
	Page       int  `json:"page"`
	PerPage    int  `json:"per_page"`
	Total      int  `json:"total"`
	TotalPages int  `json:"total_pages"`
	HasNext    bool `json:"has_next"`
	HasPrev    bool `json:"has_prev"`
	NextPage   *int `json:"next_page"`
	PrevPage   *int `json:"prev_page"`
}

// FiltersAppliedResponse — эхо применённых критериев фильтрации.
type FiltersAppliedResponse struct {
	SKU            *string `json:"sku"`
	Name           *string `json:"name"`
	ExpirationDate *string `json:"expiration_date"`
	Quantity       *int    `json:"quantity"`
	Price          *string `json:"price"`
	Location       *string `json:"location"`
}

// FilterResponse — страница отфильтрованных продуктов.
type FilterResponse struct {
	Products       []ProductResponse      `json:"products"`
	FiltersApplied FiltersAppliedResponse `json:"filters_applied"`
	Pagination     PaginationResponse     `json:"pagination"`
}

// ProviderGroupResponse — продукты одного поставщика.
type ProviderGroupResponse struct {
	Provider string                    `json:"provider"`
	Products []ProviderProductResponse `json:"products"`
}

type ProviderProductResponse struct {
	ID             int64   `json:"id"`
	Name           string  `json:"name"`
	Quantity       int     `json:"quantity"`
	Price          string  `json:"price"`
	PhotoURL       *string `json:"photo_url,omitempty"`
	ExpirationDate string  `json:"expiration_date"`
	Description    string  `json:"description,omitempty"`
}

// ImportResponse — результат постановки файла импорта в обработку.
type ImportResponse struct {
	HistoryID int64  `json:"history_id"`
	FileName  string `json:"file_name"`
	Status    string `json:"status"`
	Products  int    `json:"products"`
}

// HistoryItemResponse — запись истории обработки импортов.
type HistoryItemResponse struct {
	ID        int64  `json:"id"`
	FileName  string `json:"file_name"`
	Status    string `json:"status"`
	Result    string `json:"result,omitempty"`
	UserID    string `json:"user_id,omitempty"`
	CreatedAt string `json:"created_at"`
}

// HistoryResponse — страница истории обработки импортов.
type HistoryResponse struct {
	History    []HistoryItemResponse `json:"history"`
	Pagination PaginationResponse    `json:"pagination"`
}

func toProductResponse(info *usecase.ProductInfo) ProductResponse {
	return ProductResponse{
		ID:             info.ID,
		SKU:            info.SKU,
		Name:           info.Name,
		ExpirationDate: info.ExpirationDate.Format(dateLayout),
		Quantity:       info.Quantity,
		Price:          info.Price.StringFixed(2),
		Location:       info.Location,
		Description:    info.Description,
		ProductType:    info.ProductType,
		ProviderID:     info.ProviderID,
		PhotoURL:       info.PhotoURL,
		CreatedAt:      info.CreatedAt.UTC().Format("2006-01-02T15:04:05Z07:00"),
		UpdatedAt:      info.UpdatedAt.UTC().Format("2006-01-02T15:04:05Z07:00"),
	}
}

func toArrProductResponse(infos []usecase.ProductInfo) []ProductResponse {
	products := make([]ProductResponse, 0, len(infos))
	for i := range infos {
		products = append(products, toProductResponse(&infos[i]))
	}

	return products
}

func toPaginationResponse(p usecase.Pagination) PaginationResponse {
	return PaginationResponse{
		Page:       p.Page,
		PerPage:    p.PerPage,
		Total:      p.Total,
		TotalPages: p.TotalPages,
		HasNext:    p.HasNext,
		HasPrev:    p.HasPrev,
		NextPage:   p.NextPage,
		PrevPage:   p.PrevPage,
	}
}

func toFilterResponse(res *usecase.FilterRes) FilterResponse {
	return FilterResponse{
		Products: toArrProductResponse(res.Products),
		FiltersApplied: FiltersAppliedResponse{
			SKU:            res.FiltersApplied.SKU,
			Name:           res.FiltersApplied.Name,
			ExpirationDate: res.FiltersApplied.ExpirationDate,
			Quantity:       res.FiltersApplied.Quantity,
			Price:          res.FiltersApplied.Price,
			Location:       res.FiltersApplied.Location,
		},
		Pagination: toPaginationResponse(res.Pagination),
	}
}

func toProviderGroupsResponse(res *usecase.ProviderGroupsRes) []ProviderGroupResponse {
	groups := make([]ProviderGroupResponse, 0, len(res.Groups))
	for _, g := range res.Groups {
		products := make([]ProviderProductResponse, 0, len(g.Products))
		for _, p := range g.Products {
			products = append(products, ProviderProductResponse{
				ID:             p.ID,
				Name:           p.Name,
				Quantity:       p.Quantity,
				Price:          p.Price.StringFixed(2),
				PhotoURL:       p.PhotoURL,
				ExpirationDate: p.ExpirationDate,
				Description:    p.Description,
			})
		}

		groups = append(groups, ProviderGroupResponse{Provider: g.Provider, Products: products})
	}

	return groups
}

func toHistoryResponse(res *usecase.HistoryRes) HistoryResponse {
	items := make([]HistoryItemResponse, 0, len(res.Items))
	for _, h := range res.Items {
		items = append(items, HistoryItemResponse{
			ID:        h.ID,
			FileName:  h.FileName,
			Status:    h.Status,
			Result:    h.Result,
			UserID:    h.UserID,
			CreatedAt: h.CreatedAt.UTC().Format("2006-01-02T15:04:05Z07:00"),
		})
	}

	return HistoryResponse{
		History:    items,
		Pagination: toPaginationResponse(res.Pagination),
	}
}
