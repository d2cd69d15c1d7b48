package usecase

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/DRSN-tech/inventory-backend/internal/domain"
	"github.com/DRSN-tech/inventory-backend/pkg/e"
	"github.com/DRSN-tech/inventory-backend/pkg/logger"
	transaction "github.com/avito-tech/go-transaction-manager/drivers/pgxv5/v2"
	"github.com/jackc/pgx/v5"
)

// Испанские аббревиатуры месяцев для формата дат в группировке по поставщикам.
var spanishMonths = map[time.Month]string{
	time.January: "ENE", time.February: "FEB", time.March: "MAR",
	time.April: "ABR", time.May: "MAY", time.June: "JUN",
	time.July: "JUL", time.August: "AGO", time.September: "SEP",
	time.October: "OCT", time.November: "NOV", time.December: "DIC",
}

const providerNotAssociated = "Proveedor no asociado"

// ProductUseCase реализует бизнес-логику управления складскими позициями.
type ProductUseCase struct {
	rules       *domain.Rules
	productRepo ProductRepository
	outboxRepo  OutboxRepository
	cacheRepo   CacheRepository
	photoInfra  PhotoInfra
	providerDir ProviderDirectory
	dbPool      transaction.Transactional
	logger      logger.Logger
	now         func() time.Time
	bgWG        sync.WaitGroup
}

func NewProductUC(
	rules *domain.Rules,
	productRepo ProductRepository,
	outboxRepo OutboxRepository,
	cacheRepo CacheRepository,
	photoInfra PhotoInfra,
	providerDir ProviderDirectory,
	dbPool transaction.Transactional,
	logger logger.Logger,
) *ProductUseCase {
	return &ProductUseCase{
		rules:       rules,
		productRepo: productRepo,
		outboxRepo:  outboxRepo,
		cacheRepo:   cacheRepo,
		photoInfra:  photoInfra,
		providerDir: providerDir,
		dbPool:      dbPool,
		logger:      logger,
		now:         time.Now,
	}
}

// CreateProduct регистрирует новый продукт: валидация всех полей разом,
// проверка уникальности SKU, загрузка фото и вставка в одной транзакции.
func (u *ProductUseCase) CreateProduct(ctx context.Context, req *CreateProductReq) (*ProductInfo, error) {
	const op = "ProductUseCase.CreateProduct"

	now := u.now()

	product, err := u.buildProduct(req, now)
	if err != nil {
		return nil, err
	}

	// Предварительная проверка уникальности SKU. Уникальный индекс в БД
	// остаётся последним рубежом при гонке конкурентных созданий.
	existing, err := u.productRepo.GetBySKU(ctx, req.SKU)
	if err != nil {
		return nil, e.Wrap(op, err)
	}
	if existing != nil {
		return nil, e.NewDuplicateError(req.SKU)
	}

	var photoKey string
	if req.Photo != nil {
		photoKey, err = u.photoInfra.UploadPhoto(ctx, NewUploadPhotoReq(req.SKU, *req.Photo))
		if err != nil {
			return nil, e.Wrap(op, err)
		}
		product.PhotoFilename = &photoKey
	}

	ctx, tx, err := transaction.NewTransaction(ctx, pgx.TxOptions{}, u.dbPool)
	if err != nil {
		u.cleanupPhotoKey(photoKey)
		return nil, e.Wrap(op, err)
	}
	defer func() {
		if err != nil {
			if tx.IsActive() {
				tx.Rollback(ctx)
			}
			u.cleanupPhotoKey(photoKey)
		}
	}()
	ctx = context.WithValue(ctx, "tx", tx.Transaction())

	created, err := u.productRepo.Insert(ctx, product)
	if err != nil {
		return nil, err
	}

	if err = tx.Commit(ctx); err != nil {
		return nil, e.Wrap(op, err)
	}

	return u.toProductInfo(ctx, created), nil
}

// GetProduct возвращает продукт по ID, сперва заглянув в кэш.
// Подписанная ссылка на фото пересчитывается при каждом чтении.
func (u *ProductUseCase) GetProduct(ctx context.Context, id int64) (*ProductInfo, error) {
	const op = "ProductUseCase.GetProduct"

	if id <= 0 {
		return nil, e.NewValidationError(e.NewFieldError("product_id", "product id must be a positive integer"))
	}

	if cached, err := u.cacheRepo.GetProducts(ctx, []int64{id}); err == nil {
		if info, ok := cached[id]; ok {
			u.attachPhotoURL(ctx, &info)
			return &info, nil
		}
	}

	product, err := u.productRepo.GetByID(ctx, id)
	if err != nil {
		return nil, e.Wrap(op, err)
	}
	if product == nil {
		return nil, e.NewNotFoundError("product", id)
	}

	info := u.toProductInfo(ctx, product)

	// Фоновое добавление продукта в кэш (без подписанной ссылки).
	u.bgWG.Add(1)
	go func() {
		defer u.bgWG.Done()

		bgCtx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
		defer cancel()

		cacheable := *info
		cacheable.PhotoURL = nil
		if err := u.cacheRepo.SetProducts(bgCtx, []ProductInfo{cacheable}); err != nil {
			u.logger.Warnf("Failed to cache product in background: %v", e.Wrap(op, err))
		}
	}()

	return info, nil
}

// ListProducts возвращает все продукты в стабильном порядке.
func (u *ProductUseCase) ListProducts(ctx context.Context) ([]ProductInfo, error) {
	const op = "ProductUseCase.ListProducts"

	products, err := u.productRepo.List(ctx)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	infos := make([]ProductInfo, 0, len(products))
	for i := range products {
		infos = append(infos, *u.toProductInfo(ctx, &products[i]))
	}

	return infos, nil
}

// FilterProducts применяет критерии и пагинацию к набору продуктов.
// Предикаты и срез страницы выполняются в SQL, движок отвечает за
// валидацию критериев, математику страниц и эхо filters_applied.
func (u *ProductUseCase) FilterProducts(ctx context.Context, req *FilterReq) (*FilterRes, error) {
	const op = "ProductUseCase.FilterProducts"

	if err := req.Filter.Validate(); err != nil {
		return nil, err
	}

	params, err := NewPageParams(req.Page, req.PerPage)
	if err != nil {
		return nil, err
	}

	products, total, err := u.productRepo.Filter(ctx, &req.Filter, params.PerPage, params.Offset())
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	infos := make([]ProductInfo, 0, len(products))
	for i := range products {
		infos = append(infos, *u.toProductInfo(ctx, &products[i]))
	}

	return &FilterRes{
		Products:       infos,
		FiltersApplied: echoFilters(&req.Filter),
		Pagination:     NewPagination(params, total),
	}, nil
}

// UpdateProduct полностью обновляет изменяемые поля продукта.
func (u *ProductUseCase) UpdateProduct(ctx context.Context, req *UpdateProductReq) (*ProductInfo, error) {
	const op = "ProductUseCase.UpdateProduct"

	if req.ID <= 0 {
		return nil, e.NewValidationError(e.NewFieldError("product_id", "product id must be a positive integer"))
	}

	product, err := u.productRepo.GetByID(ctx, req.ID)
	if err != nil {
		return nil, e.Wrap(op, err)
	}
	if product == nil {
		return nil, e.NewNotFoundError("product", req.ID)
	}

	now := u.now()

	var photoKey string
	params := domain.ProductParams{
		Name:           req.Name,
		ExpirationDate: req.ExpirationDate,
		Quantity:       req.Quantity,
		Price:          req.Price,
		Location:       req.Location,
		Description:    req.Description,
		ProductType:    req.ProductType,
		ProviderID:     req.ProviderID,
	}
	if req.Photo != nil {
		if fe := u.rules.ValidatePhoto(req.Photo.Name, req.Photo.Size); fe != nil {
			return nil, e.NewValidationError(*fe)
		}

		photoKey, err = u.photoInfra.UploadPhoto(ctx, NewUploadPhotoReq(product.SKU, *req.Photo))
		if err != nil {
			return nil, e.Wrap(op, err)
		}
		params.PhotoFilename = &photoKey
	}

	oldPhoto := product.PhotoFilename
	if err := product.Revise(u.rules, params, now); err != nil {
		u.cleanupPhotoKey(photoKey)
		return nil, err
	}

	updated, err := u.productRepo.Update(ctx, product)
	if err != nil {
		u.cleanupPhotoKey(photoKey)
		return nil, e.Wrap(op, err)
	}
	if updated == nil {
		// Продукт удалили между чтением и UPDATE.
		u.cleanupPhotoKey(photoKey)
		return nil, e.NewNotFoundError("product", req.ID)
	}

	// Старое фото больше недостижимо после замены.
	if photoKey != "" && oldPhoto != nil && *oldPhoto != photoKey {
		u.photoInfra.CleanupPhotos([]string{*oldPhoto})
	}

	u.invalidateCache(ctx, []int64{updated.ID})

	return u.toProductInfo(ctx, updated), nil
}

// UpdateStock атомарно корректирует остаток продукта: блокировка строки,
// проверка достаточности, запись нового остатка и outbox-событие — в одной
// транзакции. Частичное состояние снаружи не наблюдаемо.
func (u *ProductUseCase) UpdateStock(ctx context.Context, req *UpdateStockReq) (*UpdateStockRes, error) {
	const op = "ProductUseCase.UpdateStock"

	var fields []e.FieldError
	if req.ProductID <= 0 {
		fields = append(fields, e.NewFieldError("product_id", "product id must be a positive integer"))
	}
	operation, opErr := domain.ParseStockOperation(req.Operation)
	if opErr != nil {
		fields = append(fields, *opErr)
	}
	if req.Quantity <= 0 {
		fields = append(fields, e.NewFieldError("quantity", "quantity must be greater than zero"))
	}
	if len(fields) > 0 {
		return nil, e.NewValidationError(fields...)
	}

	ctx, tx, err := transaction.NewTransaction(ctx, pgx.TxOptions{}, u.dbPool)
	if err != nil {
		return nil, e.Wrap(op, err)
	}
	defer func() {
		if err != nil && tx.IsActive() {
			tx.Rollback(ctx)
		}
	}()
	ctx = context.WithValue(ctx, "tx", tx.Transaction())

	product, err := u.productRepo.GetForUpdate(ctx, req.ProductID)
	if err != nil {
		return nil, e.Wrap(op, err)
	}
	if product == nil {
		err = e.NewNotFoundError("product", req.ProductID)
		return nil, err
	}

	adjustment, err := domain.Adjust(product, operation, req.Quantity, req.Reason, u.now())
	if err != nil {
		return nil, err
	}

	if err = u.productRepo.UpdateQuantity(ctx, product.ID, product.Quantity, product.UpdatedAt); err != nil {
		return nil, e.Wrap(op, err)
	}

	event, err := NewStockAdjustedEvent(adjustment)
	if err != nil {
		return nil, e.Wrap(op, err)
	}
	if _, err = u.outboxRepo.Create(ctx, event); err != nil {
		return nil, e.Wrap(op, err)
	}

	if err = tx.Commit(ctx); err != nil {
		return nil, e.Wrap(op, err)
	}

	u.invalidateCache(ctx, []int64{product.ID})

	return NewUpdateStockRes(
		adjustment.ProductID,
		adjustment.PreviousQuantity,
		adjustment.NewQuantity,
		string(adjustment.Operation),
		adjustment.Delta,
	), nil
}

// DeleteProduct удаляет продукт по ID вместе с его фото.
func (u *ProductUseCase) DeleteProduct(ctx context.Context, id int64) error {
	const op = "ProductUseCase.DeleteProduct"

	if id <= 0 {
		return e.NewValidationError(e.NewFieldError("product_id", "product id must be a positive integer"))
	}

	product, err := u.productRepo.GetByID(ctx, id)
	if err != nil {
		return e.Wrap(op, err)
	}
	if product == nil {
		return e.NewNotFoundError("product", id)
	}

	deleted, err := u.productRepo.Delete(ctx, id)
	if err != nil {
		return e.Wrap(op, err)
	}
	if !deleted {
		return e.NewNotFoundError("product", id)
	}

	if product.HasPhoto() {
		u.photoInfra.CleanupPhotos([]string{*product.PhotoFilename})
	}
	u.invalidateCache(ctx, []int64{id})

	return nil
}

// DeleteAllProducts безусловно удаляет все продукты и возвращает их число.
func (u *ProductUseCase) DeleteAllProducts(ctx context.Context) (int64, error) {
	const op = "ProductUseCase.DeleteAllProducts"

	products, err := u.productRepo.List(ctx)
	if err != nil {
		return 0, e.Wrap(op, err)
	}

	count, err := u.productRepo.DeleteAll(ctx)
	if err != nil {
		return 0, e.Wrap(op, err)
	}

	var photoKeys []string
	ids := make([]int64, 0, len(products))
	for _, p := range products {
		ids = append(ids, p.ID)
		if p.HasPhoto() {
			photoKeys = append(photoKeys, *p.PhotoFilename)
		}
	}

	u.photoInfra.CleanupPhotos(photoKeys)
	u.invalidateCache(ctx, ids)

	return count, nil
}

// ProductsByProvider группирует все продукты по поставщику.
func (u *ProductUseCase) ProductsByProvider(ctx context.Context) (*ProviderGroupsRes, error) {
	const op = "ProductUseCase.ProductsByProvider"

	products, err := u.productRepo.List(ctx)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	if len(products) == 0 {
		return &ProviderGroupsRes{
			Groups:  []ProviderGroup{},
			Message: "No hay productos registrados",
		}, nil
	}

	byProvider := make(map[string][]ProviderProduct)
	providerIDs := make([]string, 0)
	for i := range products {
		p := &products[i]
		if _, seen := byProvider[p.ProviderID]; !seen {
			providerIDs = append(providerIDs, p.ProviderID)
		}

		item := ProviderProduct{
			ID:             p.ID,
			Name:           p.Name,
			Quantity:       p.Quantity,
			Price:          p.Price,
			ExpirationDate: formatSpanishDate(p.ExpirationDate),
			Description:    p.Description,
		}
		if p.HasPhoto() {
			if url, err := u.photoInfra.PhotoURL(ctx, *p.PhotoFilename); err == nil {
				item.PhotoURL = &url
			} else {
				u.logger.Warnf("%s: failed to presign photo url: %v", op, err)
			}
		}

		byProvider[p.ProviderID] = append(byProvider[p.ProviderID], item)
	}

	names := u.resolveProviderNames(ctx, providerIDs)

	// Продукты поставщиков с одинаковым названием сливаются в одну группу.
	byName := make(map[string][]ProviderProduct)
	for providerID, items := range byProvider {
		name, ok := names[providerID]
		if !ok || name == "" {
			name = providerNotAssociated
		}
		byName[name] = append(byName[name], items...)
	}

	groupNames := make([]string, 0, len(byName))
	for name := range byName {
		groupNames = append(groupNames, name)
	}
	sort.Strings(groupNames)

	groups := make([]ProviderGroup, 0, len(byName))
	for _, name := range groupNames {
		groups = append(groups, ProviderGroup{Provider: name, Products: byName[name]})
	}

	return &ProviderGroupsRes{
		Groups:  groups,
		Message: "Productos agrupados por proveedor obtenidos exitosamente",
	}, nil
}

// buildProduct собирает и валидирует доменную сущность из запроса,
// агрегируя ошибки полей и фото в одну ValidationError.
func (u *ProductUseCase) buildProduct(req *CreateProductReq, now time.Time) (*domain.Product, error) {
	var photoField *e.FieldError
	if req.Photo != nil {
		photoField = u.rules.ValidatePhoto(req.Photo.Name, req.Photo.Size)
	}

	product, err := domain.NewProduct(u.rules, domain.ProductParams{
		SKU:            req.SKU,
		Name:           req.Name,
		ExpirationDate: req.ExpirationDate,
		Quantity:       req.Quantity,
		Price:          req.Price,
		Location:       req.Location,
		Description:    req.Description,
		ProductType:    req.ProductType,
		ProviderID:     req.ProviderID,
	}, now)

	if photoField == nil {
		return product, err
	}

	var vErr *e.ValidationError
	if err != nil {
		if errors.As(err, &vErr) {
			vErr.Fields = append(vErr.Fields, *photoField)
			return nil, vErr
		}
		return nil, err
	}

	return nil, e.NewValidationError(*photoField)
}

func (u *ProductUseCase) resolveProviderNames(ctx context.Context, ids []string) map[string]string {
	names, err := u.providerDir.ProviderNames(ctx, ids)
	if err != nil {
		u.logger.Warnf("Provider directory unavailable, falling back to placeholder names: %v", err)
		return map[string]string{}
	}

	return names
}

// toProductInfo собирает DTO продукта со свежей подписанной ссылкой на фото.
func (u *ProductUseCase) toProductInfo(ctx context.Context, p *domain.Product) *ProductInfo {
	info := &ProductInfo{
		ID:             p.ID,
		SKU:            p.SKU,
		Name:           p.Name,
		ExpirationDate: p.ExpirationDate,
		Quantity:       p.Quantity,
		Price:          p.Price,
		Location:       p.Location,
		Description:    p.Description,
		ProductType:    p.ProductType,
		ProviderID:     p.ProviderID,
		PhotoFilename:  p.PhotoFilename,
		CreatedAt:      p.CreatedAt,
		UpdatedAt:      p.UpdatedAt,
	}

	u.attachPhotoURL(ctx, info)

	return info
}

func (u *ProductUseCase) attachPhotoURL(ctx context.Context, info *ProductInfo) {
	if info.PhotoFilename == nil || *info.PhotoFilename == "" {
		return
	}

	url, err := u.photoInfra.PhotoURL(ctx, *info.PhotoFilename)
	if err != nil {
		u.logger.Warnf("Failed to presign photo url for product %d: %v", info.ID, err)
		return
	}

	info.PhotoURL = &url
}

// WaitForBackground ожидает завершения фоновых задач прогрева кэша
// с учётом таймаута завершения приложения.
func (u *ProductUseCase) WaitForBackground(shutdownTimeoutCtx context.Context) error {
	done := make(chan struct{})
	go func() {
		u.bgWG.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-shutdownTimeoutCtx.Done():
		return fmt.Errorf("cache warm-up timeout during shutdown: %w", shutdownTimeoutCtx.Err())
	}
}

func (u *ProductUseCase) cleanupPhotoKey(key string) {
	if key != "" {
		u.photoInfra.CleanupPhotos([]string{key})
	}
}

func (u *ProductUseCase) invalidateCache(ctx context.Context, ids []int64) {
	if len(ids) == 0 {
		return
	}
	if err := u.cacheRepo.DeleteProducts(ctx, ids); err != nil {
		u.logger.Warnf("Failed to invalidate product cache: %v", err)
	}
}

func echoFilters(f *Filter) FiltersApplied {
	applied := FiltersApplied{
		SKU:      f.SKU,
		Name:     f.Name,
		Location: f.Location,
		Quantity: f.Quantity,
	}

	if f.ExpirationDate != nil {
		formatted := f.ExpirationDate.Format("2006-01-02")
		applied.ExpirationDate = &formatted
	}
	if f.Price != nil {
		formatted := f.Price.String()
		applied.Price = &formatted
	}

	return applied
}

func formatSpanishDate(t time.Time) string {
	return fmt.Sprintf("%s %02d, %d", spanishMonths[t.Month()], t.Day(), t.Year())
}
