package usecase

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/DRSN-tech/inventory-backend/internal/domain"
	"github.com/jackc/pgx/v5"
)

// Ручные фейки зависимостей usecase-слоя. Все фейки потокобезопасны:
// фоновое кэширование в GetProduct пишет в кэш из отдельной горутины.

type fakeLogger struct{}

func (fakeLogger) Debugf(string, ...any)        {}
func (fakeLogger) Infof(string, ...any)         {}
func (fakeLogger) Warnf(string, ...any)         {}
func (fakeLogger) Errorf(error, string, ...any) {}

// fakeTx подменяет pgx.Tx: фиксирует только Commit/Rollback,
// остальные методы интерфейса не вызываются в тестах.
type fakeTx struct {
	pgx.Tx

	mu         sync.Mutex
	committed  bool
	rolledBack bool
}

func (t *fakeTx) Commit(context.Context) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.committed = true
	return nil
}

func (t *fakeTx) Rollback(context.Context) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.rolledBack = true
	return nil
}

// fakeDB выдаёт fakeTx вместо соединения с Postgres.
type fakeDB struct {
	mu     sync.Mutex
	txs    []*fakeTx
	ailing bool
}

func (db *fakeDB) begin() (pgx.Tx, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	if db.ailing {
		return nil, fmt.Errorf("connection refused")
	}

	tx := &fakeTx{}
	db.txs = append(db.txs, tx)
	return tx, nil
}

func (db *fakeDB) Begin(context.Context) (pgx.Tx, error) {
	return db.begin()
}

func (db *fakeDB) BeginTx(context.Context, pgx.TxOptions) (pgx.Tx, error) {
	return db.begin()
}

func (db *fakeDB) lastTx() *fakeTx {
	db.mu.Lock()
	defer db.mu.Unlock()

	if len(db.txs) == 0 {
		return nil
	}
	return db.txs[len(db.txs)-1]
}

type fakeProductRepo struct {
	mu       sync.Mutex
	products map[int64]domain.Product
	nextID   int64

	failWith     error
	insertErr    error
	dropOnUpdate bool
	updated      []int64
}

func newFakeProductRepo(products ...domain.Product) *fakeProductRepo {
	repo := &fakeProductRepo{products: make(map[int64]domain.Product), nextID: 1}
	for _, p := range products {
		if p.ID >= repo.nextID {
			repo.nextID = p.ID + 1
		}
		repo.products[p.ID] = p
	}
	return repo
}

func (r *fakeProductRepo) Insert(_ context.Context, product *domain.Product) (*domain.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.insertErr != nil {
		return nil, r.insertErr
	}
	if r.failWith != nil {
		return nil, r.failWith
	}

	created := *product
	created.ID = r.nextID
	r.nextID++
	r.products[created.ID] = created
	return &created, nil
}

func (r *fakeProductRepo) GetByID(_ context.Context, id int64) (*domain.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.failWith != nil {
		return nil, r.failWith
	}

	p, ok := r.products[id]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

func (r *fakeProductRepo) GetBySKU(_ context.Context, sku string) (*domain.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.failWith != nil {
		return nil, r.failWith
	}

	for _, p := range r.products {
		if p.SKU == sku {
			p := p
			return &p, nil
		}
	}
	return nil, nil
}

func (r *fakeProductRepo) GetForUpdate(ctx context.Context, id int64) (*domain.Product, error) {
	return r.GetByID(ctx, id)
}

func (r *fakeProductRepo) List(context.Context) ([]domain.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.failWith != nil {
		return nil, r.failWith
	}

	products := make([]domain.Product, 0, len(r.products))
	var id int64
	for id = 1; id < r.nextID; id++ {
		if p, ok := r.products[id]; ok {
			products = append(products, p)
		}
	}
	return products, nil
}

func (r *fakeProductRepo) Filter(ctx context.Context, filter *Filter, limit, offset int) ([]domain.Product, int, error) {
	all, err := r.List(ctx)
	if err != nil {
		return nil, 0, err
	}

	page, total := ApplyFilter(all, filter, PageParams{Page: offset/limit + 1, PerPage: limit})
	return page, total, nil
}

func (r *fakeProductRepo) Update(_ context.Context, product *domain.Product) (*domain.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.failWith != nil {
		return nil, r.failWith
	}

	if r.dropOnUpdate {
		delete(r.products, product.ID)
	}
	if _, ok := r.products[product.ID]; !ok {
		return nil, nil
	}
	r.products[product.ID] = *product
	updated := *product
	return &updated, nil
}

func (r *fakeProductRepo) UpdateQuantity(_ context.Context, id int64, quantity int, updatedAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.failWith != nil {
		return r.failWith
	}

	p, ok := r.products[id]
	if !ok {
		return fmt.Errorf("product %d not found", id)
	}
	p.Quantity = quantity
	p.UpdatedAt = updatedAt
	r.products[id] = p
	r.updated = append(r.updated, id)
	return nil
}

func (r *fakeProductRepo) Delete(_ context.Context, id int64) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.failWith != nil {
		return false, r.failWith
	}

	if _, ok := r.products[id]; !ok {
		return false, nil
	}
	delete(r.products, id)
	return true, nil
}

func (r *fakeProductRepo) DeleteAll(context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.failWith != nil {
		return 0, r.failWith
	}

	count := int64(len(r.products))
	r.products = make(map[int64]domain.Product)
	return count, nil
}

func (r *fakeProductRepo) get(id int64) domain.Product {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.products[id]
}

type fakeOutboxRepo struct {
	mu       sync.Mutex
	events   []*OutboxEvent
	failWith error
}

func (r *fakeOutboxRepo) Create(_ context.Context, event *OutboxEvent) (*OutboxEvent, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.failWith != nil {
		return nil, r.failWith
	}

	created := *event
	created.ID = int64(len(r.events) + 1)
	r.events = append(r.events, &created)
	return &created, nil
}

func (r *fakeOutboxRepo) GetAndMarkAsProcessing(context.Context, int) ([]*OutboxEvent, error) {
	return nil, nil
}

func (r *fakeOutboxRepo) MarkAsProcessed(context.Context, int64) error {
	return nil
}

func (r *fakeOutboxRepo) created() []*OutboxEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]*OutboxEvent(nil), r.events...)
}

type fakeCacheRepo struct {
	mu      sync.Mutex
	items   map[int64]ProductInfo
	deleted []int64
	getErr  error
}

func newFakeCacheRepo() *fakeCacheRepo {
	return &fakeCacheRepo{items: make(map[int64]ProductInfo)}
}

func (r *fakeCacheRepo) GetProducts(_ context.Context, ids []int64) (map[int64]ProductInfo, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.getErr != nil {
		return nil, r.getErr
	}

	found := make(map[int64]ProductInfo)
	for _, id := range ids {
		if info, ok := r.items[id]; ok {
			found[id] = info
		}
	}
	return found, nil
}

func (r *fakeCacheRepo) SetProducts(_ context.Context, products []ProductInfo) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, info := range products {
		r.items[info.ID] = info
	}
	return nil
}

func (r *fakeCacheRepo) DeleteProducts(_ context.Context, ids []int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, id := range ids {
		delete(r.items, id)
		r.deleted = append(r.deleted, id)
	}
	return nil
}

func (r *fakeCacheRepo) deletedIDs() []int64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]int64(nil), r.deleted...)
}

type fakePhotoInfra struct {
	mu        sync.Mutex
	uploads   []string
	stored    []string
	cleaned   []string
	uploadErr error
	storeErr  error
	urlErr    error
}

func (f *fakePhotoInfra) UploadPhoto(_ context.Context, req *UploadPhotoReq) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.uploadErr != nil {
		return "", f.uploadErr
	}

	key := fmt.Sprintf("photos/%s-%s", req.SKU, req.Photo.Name)
	f.uploads = append(f.uploads, key)
	return key, nil
}

func (f *fakePhotoInfra) CleanupPhotos(keys []string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.cleaned = append(f.cleaned, keys...)
}

func (f *fakePhotoInfra) PhotoURL(_ context.Context, objectKey string) (string, error) {
	if f.urlErr != nil {
		return "", f.urlErr
	}
	return "https://storage.local/" + objectKey + "?signed", nil
}

func (f *fakePhotoInfra) StoreImportFile(_ context.Context, fileName string, _ []byte) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.storeErr != nil {
		return "", f.storeErr
	}

	key := "imports/" + fileName
	f.stored = append(f.stored, key)
	return key, nil
}

func (f *fakePhotoInfra) cleanedKeys() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.cleaned...)
}

type fakeProviderDir struct {
	names map[string]string
	err   error
}

func (f *fakeProviderDir) ProviderNames(_ context.Context, ids []string) (map[string]string, error) {
	if f.err != nil {
		return nil, f.err
	}

	found := make(map[string]string)
	for _, id := range ids {
		if name, ok := f.names[id]; ok {
			found[id] = name
		}
	}
	return found, nil
}

type fakeHistoryRepo struct {
	mu        sync.Mutex
	histories []domain.ImportHistory
	createErr error
}

func (r *fakeHistoryRepo) Create(_ context.Context, history *domain.ImportHistory) (*domain.ImportHistory, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.createErr != nil {
		return nil, r.createErr
	}

	created := *history
	created.ID = int64(len(r.histories) + 1)
	r.histories = append(r.histories, created)
	return &created, nil
}

func (r *fakeHistoryRepo) List(_ context.Context, userID string, limit, offset int) ([]domain.ImportHistory, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	matched := make([]domain.ImportHistory, 0, len(r.histories))
	for _, h := range r.histories {
		if userID == "" || h.UserID == userID {
			matched = append(matched, h)
		}
	}

	if offset >= len(matched) {
		return []domain.ImportHistory{}, nil
	}
	end := offset + limit
	if end > len(matched) {
		end = len(matched)
	}
	return matched[offset:end], nil
}

func (r *fakeHistoryRepo) Count(_ context.Context, userID string) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	count := 0
	for _, h := range r.histories {
		if userID == "" || h.UserID == userID {
			count++
		}
	}
	return count, nil
}
