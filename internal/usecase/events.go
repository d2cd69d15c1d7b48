package usecase

import (
	"encoding/json"
	"time"

	"github.com/DRSN-tech/inventory-backend/internal/domain"
	"github.com/google/uuid"
)

type OutboxStatus string

const (
	Pending    OutboxStatus = "pending"
	Processing OutboxStatus = "processing"
	Processed  OutboxStatus = "processed"
)

type OutboxEventType string

const (
	EventStockAdjusted   OutboxEventType = "stock.adjusted"
	EventImportRequested OutboxEventType = "import.requested"
)

// OutboxEvent — запись транзакционного outbox.
type OutboxEvent struct {
	ID          int64
	EventID     string
	EventType   OutboxEventType
	ProductID   int64
	Payload     []byte
	Status      OutboxStatus
	CreatedAt   time.Time
	ProcessedAt *time.Time
}

// StockAdjustedEvent — payload события корректировки остатка.
type StockAdjustedEvent struct {
	EventID          string `json:"event_id"`
	ProductID        int64  `json:"product_id"`
	Operation        string `json:"operation"`
	Delta            int    `json:"delta"`
	PreviousQuantity int    `json:"previous_quantity"`
	NewQuantity      int    `json:"new_quantity"`
	Reason           string `json:"reason,omitempty"`
	OccurredAt       int64  `json:"occurred_at"`
}

// ImportRequestedEvent — payload события постановки импорта в обработку.
type ImportRequestedEvent struct {
	EventID     string `json:"event_id"`
	HistoryID   int64  `json:"history_id"`
	FileName    string `json:"file_name"`
	ObjectKey   string `json:"object_key"`
	UserID      string `json:"user_id,omitempty"`
	RequestedAt int64  `json:"requested_at"`
}

// NewStockAdjustedEvent собирает outbox-событие из применённой корректировки.
func NewStockAdjustedEvent(adj *domain.Adjustment) (*OutboxEvent, error) {
	eventID := uuid.NewString()

	payload, err := json.Marshal(StockAdjustedEvent{
		EventID:          eventID,
		ProductID:        adj.ProductID,
		Operation:        string(adj.Operation),
		Delta:            adj.Delta,
		PreviousQuantity: adj.PreviousQuantity,
		NewQuantity:      adj.NewQuantity,
		Reason:           adj.Reason,
		OccurredAt:       adj.OccurredAt.UnixNano(),
	})
	if err != nil {
		return nil, err
	}

	return &OutboxEvent{
		EventID:   eventID,
		EventType: EventStockAdjusted,
		ProductID: adj.ProductID,
		Payload:   payload,
		Status:    Pending,
		CreatedAt: adj.OccurredAt,
	}, nil
}

// NewImportRequestedEvent собирает outbox-событие из записи истории импорта.
func NewImportRequestedEvent(history *domain.ImportHistory) (*OutboxEvent, error) {
	eventID := uuid.NewString()

	payload, err := json.Marshal(ImportRequestedEvent{
		EventID:     eventID,
		HistoryID:   history.ID,
		FileName:    history.FileName,
		ObjectKey:   history.ObjectKey,
		UserID:      history.UserID,
		RequestedAt: history.CreatedAt.UnixNano(),
	})
	if err != nil {
		return nil, err
	}

	return &OutboxEvent{
		EventID:   eventID,
		EventType: EventImportRequested,
		ProductID: history.ID,
		Payload:   payload,
		Status:    Pending,
		CreatedAt: history.CreatedAt,
	}, nil
}
