package pgdb

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/DRSN-tech/inventory-backend/internal/domain"
	"github.com/DRSN-tech/inventory-backend/internal/repository/pgdb/converter"
	"github.com/DRSN-tech/inventory-backend/internal/usecase"
	"github.com/DRSN-tech/inventory-backend/pkg/e"
	"github.com/DRSN-tech/inventory-backend/pkg/tr"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jimlawless/whereami"
)

const productColumns = `
	id, sku, name, expiration_date, quantity, price::text,
	location, description, product_type, provider_id, photo_filename,
	created_at, updated_at
`

// ProductRepo реализует репозиторий продуктов поверх PostgreSQL.
// Отсутствие записи возвращается как (nil, nil).
type ProductRepo struct {
	pool *pgxpool.Pool
	conv converter.ProductConverter
}

func NewProductRepo(pool *pgxpool.Pool, conv converter.ProductConverter) *ProductRepo {
	return &ProductRepo{
		pool: pool,
		conv: conv,
	}
}

// Insert создаёт продукт. Дубликат SKU транслируется в e.DuplicateError.
func (p *ProductRepo) Insert(ctx context.Context, product *domain.Product) (*domain.Product, error) {
	tx, err := tr.TxFromCtx(ctx)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	model := p.conv.ToModel(product)
	query := `
		INSERT INTO products (
			sku, name, expiration_date, quantity, price,
			location, description, product_type, provider_id, photo_filename,
			created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING ` + productColumns + `;
	`

	row := tx.QueryRow(ctx, query,
		model.SKU, model.Name, model.ExpirationDate, model.Quantity, model.Price,
		model.Location, model.Description, model.ProductType, model.ProviderID, model.PhotoFilename,
		model.CreatedAt, model.UpdatedAt,
	)

	saved, err := scanProduct(row)
	if err != nil {
		if postgresDuplicate(err) {
			return nil, e.NewDuplicateError(product.SKU)
		}

		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return p.conv.ToEntity(saved), nil
}

func (p *ProductRepo) GetByID(ctx context.Context, id int64) (*domain.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE id = $1;`

	model, err := scanProduct(p.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}

		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return p.conv.ToEntity(model), nil
}

func (p *ProductRepo) GetBySKU(ctx context.Context, sku string) (*domain.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE sku = $1;`

	model, err := scanProduct(p.pool.QueryRow(ctx, query, sku))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}

		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return p.conv.ToEntity(model), nil
}

// GetForUpdate читает продукт под блокировкой строки, пока транзакция открыта.
func (p *ProductRepo) GetForUpdate(ctx context.Context, id int64) (*domain.Product, error) {
	tx, err := tr.TxFromCtx(ctx)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	query := `SELECT ` + productColumns + ` FROM products WHERE id = $1 FOR UPDATE;`

	model, err := scanProduct(tx.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}

		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return p.conv.ToEntity(model), nil
}

func (p *ProductRepo) List(ctx context.Context) ([]domain.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products ORDER BY id;`

	rows, err := p.pool.Query(ctx, query)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}
	defer rows.Close()

	return p.collect(rows)
}

// Filter возвращает страницу продуктов по критериям и общее число совпадений.
// Строковые критерии сравниваются по вхождению без учёта регистра,
// дата истечения срока - с точностью до дня.
func (p *ProductRepo) Filter(ctx context.Context, filter *usecase.Filter, limit, offset int) ([]domain.Product, int, error) {
	where, args := buildFilterWhere(filter)

	var total int
	countQuery := `SELECT COUNT(*) FROM products` + where + `;`
	if err := p.pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, e.Wrap(whereami.WhereAmI(), err)
	}

	pageQuery := fmt.Sprintf(
		`SELECT %s FROM products%s ORDER BY id LIMIT $%d OFFSET $%d;`,
		productColumns, where, len(args)+1, len(args)+2,
	)

	rows, err := p.pool.Query(ctx, pageQuery, append(args, limit, offset)...)
	if err != nil {
		return nil, 0, e.Wrap(whereami.WhereAmI(), err)
	}
	defer rows.Close()

	products, err := p.collect(rows)
	if err != nil {
		return nil, 0, err
	}

	return products, total, nil
}

func (p *ProductRepo) Update(ctx context.Context, product *domain.Product) (*domain.Product, error) {
	model := p.conv.ToModel(product)
	query := `
		UPDATE products SET
			name = $2,
			expiration_date = $3,
			quantity = $4,
			price = $5,
			location = $6,
			description = $7,
			product_type = $8,
			provider_id = $9,
			photo_filename = $10,
			updated_at = $11
		WHERE id = $1
		RETURNING ` + productColumns + `;
	`

	row := p.pool.QueryRow(ctx, query,
		model.ID, model.Name, model.ExpirationDate, model.Quantity, model.Price,
		model.Location, model.Description, model.ProductType, model.ProviderID, model.PhotoFilename,
		model.UpdatedAt,
	)

	saved, err := scanProduct(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}

		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return p.conv.ToEntity(saved), nil
}

// UpdateQuantity записывает новый остаток под открытой транзакцией.
func (p *ProductRepo) UpdateQuantity(ctx context.Context, id int64, quantity int, updatedAt time.Time) error {
	tx, err := tr.TxFromCtx(ctx)
	if err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	query := `UPDATE products SET quantity = $2, updated_at = $3 WHERE id = $1;`

	result, err := tx.Exec(ctx, query, id, quantity, updatedAt)
	if err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}
	if result.RowsAffected() == 0 {
		return e.Wrap(whereami.WhereAmI(), fmt.Errorf("product %d not found", id))
	}

	return nil
}

func (p *ProductRepo) Delete(ctx context.Context, id int64) (bool, error) {
	result, err := p.pool.Exec(ctx, `DELETE FROM products WHERE id = $1;`, id)
	if err != nil {
		return false, e.Wrap(whereami.WhereAmI(), err)
	}

	return result.RowsAffected() > 0, nil
}

func (p *ProductRepo) DeleteAll(ctx context.Context) (int64, error) {
	result, err := p.pool.Exec(ctx, `DELETE FROM products;`)
	if err != nil {
		return 0, e.Wrap(whereami.WhereAmI(), err)
	}

	return result.RowsAffected(), nil
}

func (p *ProductRepo) collect(rows pgx.Rows) ([]domain.Product, error) {
	products := make([]domain.Product, 0)
	for rows.Next() {
		model, err := scanProduct(rows)
		if err != nil {
			return nil, e.Wrap(whereami.WhereAmI(), err)
		}

		products = append(products, *p.conv.ToEntity(model))
	}

	if err := rows.Err(); err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return products, nil
}

func buildFilterWhere(filter *usecase.Filter) (string, []any) {
	conditions := make([]string, 0, 6)
	args := make([]any, 0, 6)

	arg := func(v any) int {
		args = append(args, v)
		return len(args)
	}

	if filter.SKU != nil {
		conditions = append(conditions, fmt.Sprintf("sku ILIKE '%%' || $%d || '%%'", arg(*filter.SKU)))
	}
	if filter.Name != nil {
		conditions = append(conditions, fmt.Sprintf("name ILIKE '%%' || $%d || '%%'", arg(*filter.Name)))
	}
	if filter.Location != nil {
		conditions = append(conditions, fmt.Sprintf("location ILIKE '%%' || $%d || '%%'", arg(*filter.Location)))
	}
	if filter.ExpirationDate != nil {
		conditions = append(conditions, fmt.Sprintf("expiration_date::date = $%d::date", arg(*filter.ExpirationDate)))
	}
	if filter.Quantity != nil {
		conditions = append(conditions, fmt.Sprintf("quantity = $%d", arg(*filter.Quantity)))
	}
	if filter.Price != nil {
		conditions = append(conditions, fmt.Sprintf("price = $%d::numeric", arg(filter.Price.StringFixed(2))))
	}

	if len(conditions) == 0 {
		return "", args
	}

	return " WHERE " + strings.Join(conditions, " AND "), args
}

func scanProduct(row pgx.Row) (*converter.ProductModel, error) {
	var model converter.ProductModel

	err := row.Scan(
		&model.ID, &model.SKU, &model.Name, &model.ExpirationDate, &model.Quantity, &model.Price,
		&model.Location, &model.Description, &model.ProductType, &model.ProviderID, &model.PhotoFilename,
		&model.CreatedAt, &model.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	return &model, nil
}
