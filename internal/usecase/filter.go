package usecase

import (
	"strings"
	"time"

	"github.com/DRSN-tech/inventory-backend/internal/domain"
	"github.com/DRSN-tech/inventory-backend/pkg/e"
	"github.com/shopspring/decimal"
)

const (
	DefaultPage    = 1
	DefaultPerPage = 10
	MaxPerPage     = 100
)

// Filter — необязательные критерии отбора продуктов.
// Строковые критерии сопоставляются по подстроке без учёта регистра,
// остальные — по точному совпадению. Критерии объединяются по AND.
type Filter struct {
	SKU            *string
	Name           *string
	Location       *string
	ExpirationDate *time.Time
	Quantity       *int
	Price          *decimal.Decimal
}

// Empty сообщает, что ни один критерий не задан.
func (f *Filter) Empty() bool {
	return f.SKU == nil && f.Name == nil && f.Location == nil &&
		f.ExpirationDate == nil && f.Quantity == nil && f.Price == nil
}

// Validate отклоняет запрос без единого критерия.
func (f *Filter) Validate() error {
	if f.Empty() {
		return e.NewValidationError(e.NewFieldError("filters", "at least one filter is required"))
	}

	return nil
}

// Match проверяет продукт на соответствие всем заданным критериям.
func (f *Filter) Match(p *domain.Product) bool {
	if f.SKU != nil && !containsFold(p.SKU, *f.SKU) {
		return false
	}
	if f.Name != nil && !containsFold(p.Name, *f.Name) {
		return false
	}
	if f.Location != nil && !containsFold(p.Location, *f.Location) {
		return false
	}
	if f.ExpirationDate != nil {
		y, m, d := f.ExpirationDate.Date()
		py, pm, pd := p.ExpirationDate.Date()
		if y != py || m != pm || d != pd {
			return false
		}
	}
	if f.Quantity != nil && p.Quantity != *f.Quantity {
		return false
	}
	if f.Price != nil && !p.Price.Equal(*f.Price) {
		return false
	}

	return true
}

// PageParams — провалидированные параметры страницы.
type PageParams struct {
	Page    int
	PerPage int
}

// NewPageParams применяет значения по умолчанию и проверяет диапазоны.
func NewPageParams(page, perPage *int) (PageParams, error) {
	var fields []e.FieldError

	p := DefaultPage
	if page != nil {
		p = *page
		if p < 1 {
			fields = append(fields, e.NewFieldError("page", "'page' must be greater than 0"))
		}
	}

	pp := DefaultPerPage
	if perPage != nil {
		pp = *perPage
		if pp < 1 || pp > MaxPerPage {
			fields = append(fields, e.NewFieldError("per_page", "'per_page' must be between 1 and 100"))
		}
	}

	if len(fields) > 0 {
		return PageParams{}, e.NewValidationError(fields...)
	}

	return PageParams{Page: p, PerPage: pp}, nil
}

func (p PageParams) Offset() int {
	return (p.Page - 1) * p.PerPage
}

// Pagination — сводка страницы для ответа.
// NextPage и PrevPage равны nil, когда соответствующей страницы нет.
type Pagination struct {
	Page       int
	PerPage    int
	Total      int
	TotalPages int
	HasNext    bool
	HasPrev    bool
	NextPage   *int
	PrevPage   *int
}

// NewPagination считает сводку страницы по общему числу совпадений.
func NewPagination(params PageParams, total int) Pagination {
	totalPages := 0
	if total > 0 {
		totalPages = (total + params.PerPage - 1) / params.PerPage
	}

	pg := Pagination{
		Page:       params.Page,
		PerPage:    params.PerPage,
		Total:      total,
		TotalPages: totalPages,
		HasNext:    params.Page < totalPages,
		HasPrev:    params.Page > 1,
	}

	if pg.HasNext {
		next := params.Page + 1
		pg.NextPage = &next
	}
	if pg.HasPrev {
		prev := params.Page - 1
		pg.PrevPage = &prev
	}

	return pg
}

// ApplyFilter применяет критерии к набору кандидатов в памяти и срезает
// страницу, сохраняя порядок набора. Возвращает страницу и общее число
// совпадений. Тот же контракт, что и у SQL-пути в репозитории.
func ApplyFilter(candidates []domain.Product, filter *Filter, params PageParams) ([]domain.Product, int) {
	matched := make([]domain.Product, 0, len(candidates))
	for _, p := range candidates {
		if filter.Match(&p) {
			matched = append(matched, p)
		}
	}

	total := len(matched)
	start := params.Offset()
	if start >= total {
		return []domain.Product{}, total
	}

	end := start + params.PerPage
	if end > total {
		end = total
	}

	return matched[start:end], total
}

func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}
