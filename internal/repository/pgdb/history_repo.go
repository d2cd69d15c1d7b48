package pgdb

import (
	"context"

	"github.com/DRSN-tech/inventory-backend/internal/domain"
	"github.com/DRSN-tech/inventory-backend/internal/repository/pgdb/converter"
	"github.com/DRSN-tech/inventory-backend/pkg/e"
	"github.com/DRSN-tech/inventory-backend/pkg/tr"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jimlawless/whereami"
)

// ImportHistoryRepo реализует хранилище истории импортов поверх PostgreSQL.
type ImportHistoryRepo struct {
	pool *pgxpool.Pool
	conv converter.ImportHistoryConverter
}

func NewImportHistoryRepo(pool *pgxpool.Pool, conv converter.ImportHistoryConverter) *ImportHistoryRepo {
	return &ImportHistoryRepo{pool: pool, conv: conv}
}

// Create сохраняет запись истории под открытой транзакцией.
func (h *ImportHistoryRepo) Create(ctx context.Context, history *domain.ImportHistory) (*domain.ImportHistory, error) {
	tx, err := tr.TxFromCtx(ctx)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	model := h.conv.ToModel(history)
	query := `
		INSERT INTO import_history (file_name, object_key, user_id, status, result, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, file_name, object_key, user_id, status, result, created_at, updated_at;
	`

	var saved converter.ImportHistoryModel
	if err := tx.QueryRow(ctx, query,
		model.FileName, model.ObjectKey, model.UserID, model.Status, model.Result,
		model.CreatedAt, model.UpdatedAt,
	).Scan(
		&saved.ID, &saved.FileName, &saved.ObjectKey, &saved.UserID, &saved.Status, &saved.Result,
		&saved.CreatedAt, &saved.UpdatedAt,
	); err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return h.conv.ToEntity(&saved), nil
}

// List возвращает страницу истории пользователя, свежие записи первыми.
// Пустой userID означает историю всех пользователей.
func (h *ImportHistoryRepo) List(ctx context.Context, userID string, limit, offset int) ([]domain.ImportHistory, error) {
	query := `
		SELECT id, file_name, object_key, user_id, status, result, created_at, updated_at
		FROM import_history
		WHERE ($1 = '' OR user_id = $1)
		ORDER BY created_at DESC, id DESC
		LIMIT $2 OFFSET $3;
	`

	rows, err := h.pool.Query(ctx, query, userID, limit, offset)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}
	defer rows.Close()

	histories := make([]domain.ImportHistory, 0)
	for rows.Next() {
		var model converter.ImportHistoryModel
		if err := rows.Scan(
			&model.ID, &model.FileName, &model.ObjectKey, &model.UserID, &model.Status, &model.Result,
			&model.CreatedAt, &model.UpdatedAt,
		); err != nil {
			return nil, e.Wrap(whereami.WhereAmI(), err)
		}

		histories = append(histories, *h.conv.ToEntity(&model))
	}

	if err := rows.Err(); err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return histories, nil
}

func (h *ImportHistoryRepo) Count(ctx context.Context, userID string) (int, error) {
	var total int

	query := `SELECT COUNT(*) FROM import_history WHERE ($1 = '' OR user_id = $1);`
	if err := h.pool.QueryRow(ctx, query, userID).Scan(&total); err != nil {
		return 0, e.Wrap(whereami.WhereAmI(), err)
	}

	return total, nil
}
