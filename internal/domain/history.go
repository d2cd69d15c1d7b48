package domain

import "time"

// Статусы обработки импортированного файла.
const (
	HistoryStatusPending   = "pending"
	HistoryStatusProcessed = "processed"
	HistoryStatusFailed    = "failed"
)

// ImportHistory описывает запись истории обработки файла импорта.
type ImportHistory struct {
	ID        int64
	FileName  string
	ObjectKey string
	UserID    string
	Status    string
	Result    string
	CreatedAt time.Time
	UpdatedAt time.Time
}

func NewImportHistory(fileName, objectKey, userID string, now time.Time) *ImportHistory {
	return &ImportHistory{
		FileName:  fileName,
		ObjectKey: objectKey,
		UserID:    userID,
		Status:    HistoryStatusPending,
		CreatedAt: now,
		UpdatedAt: now,
	}
}
