package http

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/DRSN-tech/inventory-backend/pkg/e"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToHTTPResponse(t *testing.T) {
	tests := []struct {
		name      string
		err       error
		code      int
		errorText string
	}{
		{
			name:      "validation error",
			err:       e.NewValidationError(e.NewFieldError("sku", "sku is required")),
			code:      http.StatusBadRequest,
			errorText: "validation failed",
		},
		{
			name:      "wrapped validation error",
			err:       e.Wrap("ProductUseCase.CreateProduct", e.NewValidationError(e.NewFieldError("sku", "sku is required"))),
			code:      http.StatusBadRequest,
			errorText: "validation failed",
		},
		{
			name:      "not found",
			err:       e.NewNotFoundError("product", 7),
			code:      http.StatusNotFound,
			errorText: "product with id 7 not found",
		},
		{
			name:      "duplicate sku",
			err:       e.NewDuplicateError("MED-1234"),
			code:      http.StatusConflict,
			errorText: "sku MED-1234 already exists",
		},
		{
			name:      "insufficient stock",
			err:       e.NewInsufficientStockError(5, 10),
			code:      http.StatusUnprocessableEntity,
			errorText: "insufficient stock",
		},
		{
			name:      "bad request sentinel",
			err:       e.Wrap("quantity", e.ErrStatusBadRequest),
			code:      http.StatusBadRequest,
			errorText: "quantity: bad request",
		},
		{
			name:      "file too large",
			err:       e.Wrap("big.jpg", e.ErrFileTooLarge),
			code:      http.StatusBadRequest,
			errorText: "big.jpg: file too large",
		},
		{
			name:      "unknown error is masked",
			err:       errors.New("pq: connection reset"),
			code:      http.StatusInternalServerError,
			errorText: "internal server error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, body := ToHTTPResponse(tt.err)

			assert.Equal(t, tt.code, code)
			assert.False(t, body.Success)
			assert.Equal(t, tt.errorText, body.Error)
		})
	}
}

func TestToHTTPResponse_ValidationDetail(t *testing.T) {
	err := e.NewValidationError(
		e.NewFieldError("sku", "sku is required"),
		e.NewFieldError("price", "price must be greater than zero"),
	)

	_, body := ToHTTPResponse(err)

	fields, ok := body.Detail.([]e.FieldError)
	require.True(t, ok)
	require.Len(t, fields, 2)
	assert.Equal(t, "sku", fields[0].Field)
	assert.Equal(t, "price", fields[1].Field)
}

func TestToHTTPResponse_InsufficientStockDetail(t *testing.T) {
	_, body := ToHTTPResponse(e.NewInsufficientStockError(5, 10))

	detail, ok := body.Detail.(map[string]int)
	require.True(t, ok)
	assert.Equal(t, 5, detail["available"])
	assert.Equal(t, 10, detail["requested"])
}

func TestParsePrice(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr error
	}{
		{name: "integer", input: "12", want: "12"},
		{name: "two decimals", input: "12.50", want: "12.5"},
		{name: "zero passes to domain", input: "0", want: "0"},
		{name: "negative passes to domain", input: "-3.10", want: "-3.1"},
		{name: "empty", input: "", wantErr: e.ErrMissingFields},
		{name: "whitespace", input: "   ", wantErr: e.ErrMissingFields},
		{name: "not a number", input: "abc", wantErr: e.ErrInvalidPrice},
		{name: "three decimals", input: "12.555", wantErr: e.ErrPricePrecision},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, err := parsePrice(tt.input)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want, d.String())
		})
	}
}

func TestParseDate(t *testing.T) {
	d, err := parseDate("2026-06-01")
	require.NoError(t, err)
	assert.Equal(t, 2026, d.Year())
	assert.Equal(t, 6, int(d.Month()))
	assert.Equal(t, 1, d.Day())

	d, err = parseDate(" 2026-06-01 ")
	require.NoError(t, err)
	assert.Equal(t, 2026, d.Year())

	_, err = parseDate("01/06/2026")
	assert.Error(t, err)
}

func requestWithID(t *testing.T, id string) *http.Request {
	t.Helper()

	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("id", id)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/products/"+id, nil)
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
}

func TestParseProductID(t *testing.T) {
	id, err := parseProductID(requestWithID(t, "42"))
	require.NoError(t, err)
	assert.Equal(t, int64(42), id)

	for _, bad := range []string{"0", "-1", "abc", ""} {
		_, err := parseProductID(requestWithID(t, bad))
		assert.ErrorIs(t, err, e.ErrInvalidProductID, "id %q must be rejected", bad)
	}
}

func TestQueryInt(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/v1/products/filter?quantity=15&page=abc", nil)

	v, err := queryInt(req, "quantity")
	require.NoError(t, err)
	require.NotNil(t, v)
	assert.Equal(t, 15, *v)

	v, err = queryInt(req, "missing")
	require.NoError(t, err)
	assert.Nil(t, v)

	_, err = queryInt(req, "page")
	assert.ErrorIs(t, err, e.ErrStatusBadRequest)
}

func TestQueryString(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/v1/products/filter?sku=MED&name=++", nil)

	v := queryString(req, "sku")
	require.NotNil(t, v)
	assert.Equal(t, "MED", *v)

	assert.Nil(t, queryString(req, "name"), "whitespace-only values are dropped")
	assert.Nil(t, queryString(req, "missing"))
}

func TestWriteError(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteError(rec, e.NewNotFoundError("product", 3))

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"success":false,"error":"product with id 3 not found"}`, rec.Body.String())
}

func TestWriteSuccess(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteSuccess(rec, http.StatusCreated, "Producto creado exitosamente", map[string]int64{"id": 1})

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.JSONEq(t, `{"success":true,"message":"Producto creado exitosamente","data":{"id":1}}`, rec.Body.String())
}
