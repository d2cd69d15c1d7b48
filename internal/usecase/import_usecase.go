package usecase

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/DRSN-tech/inventory-backend/internal/domain"
	"github.com/DRSN-tech/inventory-backend/pkg/e"
	"github.com/DRSN-tech/inventory-backend/pkg/logger"
	transaction "github.com/avito-tech/go-transaction-manager/drivers/pgxv5/v2"
	"github.com/jackc/pgx/v5"
)

// ImportUseCase ставит CSV-файлы импорта в обработку: файл сохраняется в
// объектное хранилище, запись истории и outbox-событие создаются в одной
// транзакции. Саму обработку строк выполняет отдельный потребитель событий.
type ImportUseCase struct {
	historyRepo HistoryRepository
	outboxRepo  OutboxRepository
	photoInfra  PhotoInfra
	dbPool      transaction.Transactional
	logger      logger.Logger
	maxProducts int
	now         func() time.Time
}

func NewImportUC(
	historyRepo HistoryRepository,
	outboxRepo OutboxRepository,
	photoInfra PhotoInfra,
	dbPool transaction.Transactional,
	logger logger.Logger,
	maxProducts int,
) *ImportUseCase {
	return &ImportUseCase{
		historyRepo: historyRepo,
		outboxRepo:  outboxRepo,
		photoInfra:  photoInfra,
		dbPool:      dbPool,
		logger:      logger,
		maxProducts: maxProducts,
		now:         time.Now,
	}
}

// ImportProducts принимает CSV-файл и регистрирует его обработку.
func (u *ImportUseCase) ImportProducts(ctx context.Context, req *ImportReq) (*ImportRes, error) {
	const op = "ImportUseCase.ImportProducts"

	rows, err := u.validateImportFile(req)
	if err != nil {
		return nil, err
	}

	objectKey, err := u.photoInfra.StoreImportFile(ctx, req.FileName, req.Data)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	ctx, tx, err := transaction.NewTransaction(ctx, pgx.TxOptions{}, u.dbPool)
	if err != nil {
		return nil, e.Wrap(op, err)
	}
	defer func() {
		if err != nil {
			if tx.IsActive() {
				tx.Rollback(ctx)
			}
			// Файл без записи истории недостижим, подчищаем.
			u.photoInfra.CleanupPhotos([]string{objectKey})
		}
	}()
	ctx = context.WithValue(ctx, "tx", tx.Transaction())

	history, err := u.historyRepo.Create(ctx, domain.NewImportHistory(req.FileName, objectKey, req.UserID, u.now()))
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	event, err := NewImportRequestedEvent(history)
	if err != nil {
		return nil, e.Wrap(op, err)
	}
	if _, err = u.outboxRepo.Create(ctx, event); err != nil {
		return nil, e.Wrap(op, err)
	}

	if err = tx.Commit(ctx); err != nil {
		return nil, e.Wrap(op, err)
	}

	u.logger.Infof("Import file %s queued, history_id: %d, rows: %d", req.FileName, history.ID, rows)

	return &ImportRes{
		HistoryID: history.ID,
		FileName:  history.FileName,
		Status:    history.Status,
		Products:  rows,
	}, nil
}

// GetHistory возвращает страницу истории обработки импортов.
func (u *ImportUseCase) GetHistory(ctx context.Context, req *HistoryReq) (*HistoryRes, error) {
	const op = "ImportUseCase.GetHistory"

	params, err := NewPageParams(req.Page, req.PerPage)
	if err != nil {
		return nil, err
	}

	histories, err := u.historyRepo.List(ctx, req.UserID, params.PerPage, params.Offset())
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	total, err := u.historyRepo.Count(ctx, req.UserID)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	items := make([]ImportHistoryInfo, 0, len(histories))
	for _, h := range histories {
		items = append(items, ImportHistoryInfo{
			ID:        h.ID,
			FileName:  h.FileName,
			Status:    h.Status,
			Result:    h.Result,
			UserID:    h.UserID,
			CreatedAt: h.CreatedAt,
		})
	}

	return &HistoryRes{
		Items:      items,
		Pagination: NewPagination(params, total),
	}, nil
}

// validateImportFile проверяет файл импорта и возвращает число строк данных.
func (u *ImportUseCase) validateImportFile(req *ImportReq) (int, error) {
	var fields []e.FieldError

	if strings.TrimSpace(req.FileName) == "" {
		return 0, e.NewValidationError(e.NewFieldError("file", "import file is required"))
	}
	if ext := strings.ToLower(filepath.Ext(req.FileName)); ext != ".csv" {
		fields = append(fields, e.NewFieldError("file", "import file must be a CSV"))
	}
	if len(req.Data) == 0 {
		fields = append(fields, e.NewFieldError("file", "import file is empty"))
	}
	if len(fields) > 0 {
		return 0, e.NewValidationError(fields...)
	}

	reader := csv.NewReader(bytes.NewReader(req.Data))
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return 0, e.NewValidationError(e.NewFieldError("file", "import file is not valid CSV"))
	}

	// Первая строка — заголовок.
	rows := len(records) - 1
	if rows <= 0 {
		return 0, e.NewValidationError(e.NewFieldError("file", "import file has no data rows"))
	}
	if rows > u.maxProducts {
		return 0, e.NewValidationError(e.NewFieldError(
			"file",
			fmt.Sprintf("import file exceeds the maximum of %d products", u.maxProducts),
		))
	}

	return rows, nil
}
