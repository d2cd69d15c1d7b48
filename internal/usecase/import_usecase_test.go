package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/DRSN-tech/inventory-backend/internal/domain"
	"github.com/DRSN-tech/inventory-backend/pkg/e"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testCSV = "sku,name,quantity\nMED-1001,Paracetamol,10\nMED-1002,Ibuprofeno,5\n"

type importUCFixture struct {
	uc          *ImportUseCase
	historyRepo *fakeHistoryRepo
	outboxRepo  *fakeOutboxRepo
	photoInfra  *fakePhotoInfra
	db          *fakeDB
}

func newImportUCFixture(maxProducts int) *importUCFixture {
	f := &importUCFixture{
		historyRepo: &fakeHistoryRepo{},
		outboxRepo:  &fakeOutboxRepo{},
		photoInfra:  &fakePhotoInfra{},
		db:          &fakeDB{},
	}
	f.uc = NewImportUC(f.historyRepo, f.outboxRepo, f.photoInfra, f.db, fakeLogger{}, maxProducts)
	f.uc.now = func() time.Time { return ucNow }

	return f
}

func TestImportUC_ImportProducts(t *testing.T) {
	f := newImportUCFixture(1000)

	res, err := f.uc.ImportProducts(context.Background(), &ImportReq{
		FileName: "productos.csv",
		Data:     []byte(testCSV),
		UserID:   "user-7",
	})
	require.NoError(t, err)

	assert.Equal(t, int64(1), res.HistoryID)
	assert.Equal(t, "productos.csv", res.FileName)
	assert.Equal(t, domain.HistoryStatusPending, res.Status)
	assert.Equal(t, 2, res.Products, "header row is not counted")

	require.Len(t, f.historyRepo.histories, 1)
	history := f.historyRepo.histories[0]
	assert.Equal(t, "imports/productos.csv", history.ObjectKey)
	assert.Equal(t, "user-7", history.UserID)

	events := f.outboxRepo.created()
	require.Len(t, events, 1)
	assert.Equal(t, EventImportRequested, events[0].EventType)
	assert.Equal(t, Pending, events[0].Status)

	var payload ImportRequestedEvent
	require.NoError(t, json.Unmarshal(events[0].Payload, &payload))
	assert.Equal(t, int64(1), payload.HistoryID)
	assert.Equal(t, "productos.csv", payload.FileName)
	assert.Equal(t, "imports/productos.csv", payload.ObjectKey)
	assert.Equal(t, "user-7", payload.UserID)

	tx := f.db.lastTx()
	require.NotNil(t, tx)
	assert.True(t, tx.committed)
	assert.Empty(t, f.photoInfra.cleanedKeys())
}

func TestImportUC_ImportProducts_Validation(t *testing.T) {
	tests := []struct {
		name     string
		fileName string
		data     string
		reason   string
	}{
		{name: "missing filename", fileName: "", data: testCSV, reason: "required"},
		{name: "wrong extension", fileName: "productos.xlsx", data: testCSV, reason: "CSV"},
		{name: "empty file", fileName: "productos.csv", data: "", reason: "empty"},
		{name: "header only", fileName: "productos.csv", data: "sku,name,quantity\n", reason: "no data rows"},
		{name: "malformed csv", fileName: "productos.csv", data: "a,\"b\nc", reason: "not valid CSV"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newImportUCFixture(1000)

			_, err := f.uc.ImportProducts(context.Background(), &ImportReq{
				FileName: tt.fileName,
				Data:     []byte(tt.data),
			})

			var vErr *e.ValidationError
			require.True(t, errors.As(err, &vErr))
			require.NotEmpty(t, vErr.Fields)
			assert.Equal(t, "file", vErr.Fields[0].Field)
			assert.Contains(t, vErr.Fields[0].Reason, tt.reason)

			assert.Empty(t, f.photoInfra.stored, "rejected file must not be stored")
			assert.Nil(t, f.db.lastTx())
		})
	}
}

func TestImportUC_ImportProducts_TooManyRows(t *testing.T) {
	f := newImportUCFixture(2)

	var sb strings.Builder
	sb.WriteString("sku,name,quantity\n")
	for i := 0; i < 3; i++ {
		sb.WriteString("MED-1001,Producto,1\n")
	}

	_, err := f.uc.ImportProducts(context.Background(), &ImportReq{
		FileName: "productos.csv",
		Data:     []byte(sb.String()),
	})

	var vErr *e.ValidationError
	require.True(t, errors.As(err, &vErr))
	assert.Contains(t, vErr.Fields[0].Reason, "maximum of 2")
}

func TestImportUC_ImportProducts_HistoryFailureCleansUpFile(t *testing.T) {
	f := newImportUCFixture(1000)
	f.historyRepo.createErr = errors.New("insert failed")

	_, err := f.uc.ImportProducts(context.Background(), &ImportReq{
		FileName: "productos.csv",
		Data:     []byte(testCSV),
	})
	require.Error(t, err)

	tx := f.db.lastTx()
	require.NotNil(t, tx)
	assert.True(t, tx.rolledBack)
	assert.Equal(t, []string{"imports/productos.csv"}, f.photoInfra.cleanedKeys(), "stored file without history is cleaned up")
	assert.Empty(t, f.outboxRepo.created())
}

func TestImportUC_GetHistory(t *testing.T) {
	f := newImportUCFixture(1000)

	for i := 0; i < 4; i++ {
		_, err := f.historyRepo.Create(context.Background(), domain.NewImportHistory("lote.csv", "imports/lote.csv", "user-7", ucNow))
		require.NoError(t, err)
	}
	_, err := f.historyRepo.Create(context.Background(), domain.NewImportHistory("otro.csv", "imports/otro.csv", "user-9", ucNow))
	require.NoError(t, err)

	res, err := f.uc.GetHistory(context.Background(), &HistoryReq{UserID: "user-7"})
	require.NoError(t, err)

	require.Len(t, res.Items, 4)
	assert.Equal(t, "lote.csv", res.Items[0].FileName)
	assert.Equal(t, domain.HistoryStatusPending, res.Items[0].Status)

	assert.Equal(t, 4, res.Pagination.Total)
	assert.Equal(t, 1, res.Pagination.TotalPages, "4 records at 10 per page fit on one page")
	assert.False(t, res.Pagination.HasNext)
	assert.False(t, res.Pagination.HasPrev)
}

func TestImportUC_GetHistory_Paged(t *testing.T) {
	f := newImportUCFixture(1000)

	for i := 0; i < 5; i++ {
		_, err := f.historyRepo.Create(context.Background(), domain.NewImportHistory("lote.csv", "imports/lote.csv", "", ucNow))
		require.NoError(t, err)
	}

	page, perPage := 2, 2
	res, err := f.uc.GetHistory(context.Background(), &HistoryReq{Page: &page, PerPage: &perPage})
	require.NoError(t, err)

	assert.Len(t, res.Items, 2)
	assert.Equal(t, 5, res.Pagination.Total)
	assert.Equal(t, 3, res.Pagination.TotalPages)
	assert.True(t, res.Pagination.HasNext)
	assert.True(t, res.Pagination.HasPrev)
}

func TestImportUC_GetHistory_BadPage(t *testing.T) {
	f := newImportUCFixture(1000)

	page := 0
	_, err := f.uc.GetHistory(context.Background(), &HistoryReq{Page: &page})

	var vErr *e.ValidationError
	require.True(t, errors.As(err, &vErr))
	assert.Equal(t, "page", vErr.Fields[0].Field)
}
