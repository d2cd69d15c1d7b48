package domain

import (
	"time"

	"github.com/DRSN-tech/inventory-backend/pkg/e"
)

// StockOperation — вид корректировки остатка.
type StockOperation string

const (
	OpAdd      StockOperation = "add"
	OpSubtract StockOperation = "subtract"
)

// ParseStockOperation проверяет и нормализует вид операции из запроса.
func ParseStockOperation(s string) (StockOperation, *e.FieldError) {
	switch StockOperation(s) {
	case OpAdd:
		return OpAdd, nil
	case OpSubtract:
		return OpSubtract, nil
	default:
		return "", fieldErr("operation", "operation must be 'add' or 'subtract'")
	}
}

// Adjustment фиксирует одну корректировку остатка продукта.
// Reason хранится как есть и никак не интерпретируется.
type Adjustment struct {
	ProductID        int64
	Operation        StockOperation
	Delta            int
	PreviousQuantity int
	NewQuantity      int
	Reason           string
	OccurredAt       time.Time
}

// Adjust применяет корректировку остатка к продукту.
// Списание, превышающее остаток, отклоняется с e.InsufficientStockError,
// количество при этом не меняется. Верхняя граница на пополнение не
// проверяется: лимит 9999 действует только при создании.
func Adjust(p *Product, op StockOperation, delta int, reason string, now time.Time) (*Adjustment, error) {
	if delta <= 0 {
		return nil, e.NewValidationError(e.NewFieldError("quantity", "quantity must be greater than zero"))
	}

	previous := p.Quantity
	var next int

	switch op {
	case OpAdd:
		next = previous + delta
	case OpSubtract:
		if delta > previous {
			return nil, e.NewInsufficientStockError(previous, delta)
		}
		next = previous - delta
	default:
		return nil, e.NewValidationError(e.NewFieldError("operation", "operation must be 'add' or 'subtract'"))
	}

	p.Quantity = next
	p.touch(now)

	return &Adjustment{
		ProductID:        p.ID,
		Operation:        op,
		Delta:            delta,
		PreviousQuantity: previous,
		NewQuantity:      next,
		Reason:           reason,
		OccurredAt:       now,
	}, nil
}
