package domain

import (
	"errors"
	"testing"
	"time"

	"github.com/DRSN-tech/inventory-backend/pkg/e"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2026, time.March, 15, 12, 0, 0, 0, time.UTC)

func validParams() ProductParams {
	return ProductParams{
		SKU:            "MED-1234",
		Name:           "Paracetamol 500",
		ExpirationDate: testNow.AddDate(1, 0, 0),
		Quantity:       100,
		Price:          decimal.NewFromFloat(12.50),
		Location:       "A-01-02",
		Description:    "Analgésico",
		ProductType:    "Alto valor",
		ProviderID:     "prov-1",
	}
}

func violatedFields(t *testing.T, err error) map[string]string {
	t.Helper()

	var vErr *e.ValidationError
	require.True(t, errors.As(err, &vErr), "expected ValidationError, got %v", err)

	fields := make(map[string]string, len(vErr.Fields))
	for _, f := range vErr.Fields {
		fields[f.Field] = f.Reason
	}

	return fields
}

func TestNewProduct_Valid(t *testing.T) {
	rules := newTestRules(t)
	params := validParams()

	p, err := NewProduct(rules, params, testNow)
	require.NoError(t, err)

	assert.Equal(t, params.SKU, p.SKU)
	assert.Equal(t, params.Name, p.Name)
	assert.Equal(t, params.Quantity, p.Quantity)
	assert.True(t, params.Price.Equal(p.Price))
	assert.Equal(t, testNow, p.CreatedAt)
	assert.Equal(t, testNow, p.UpdatedAt)
	assert.False(t, p.HasPhoto())
}

func TestNewProduct_SingleViolation(t *testing.T) {
	rules := newTestRules(t)

	tests := []struct {
		name   string
		mutate func(*ProductParams)
		field  string
	}{
		{name: "bad sku", mutate: func(p *ProductParams) { p.SKU = "MED-12" }, field: "sku"},
		{name: "bad name", mutate: func(p *ProductParams) { p.Name = "X" }, field: "name"},
		{name: "expired", mutate: func(p *ProductParams) { p.ExpirationDate = testNow.AddDate(0, 0, -1) }, field: "expiration_date"},
		{name: "zero quantity", mutate: func(p *ProductParams) { p.Quantity = 0 }, field: "quantity"},
		{name: "negative price", mutate: func(p *ProductParams) { p.Price = decimal.NewFromInt(-1) }, field: "price"},
		{name: "bad location", mutate: func(p *ProductParams) { p.Location = "1-A-B" }, field: "location"},
		{name: "unknown type", mutate: func(p *ProductParams) { p.ProductType = "Otro" }, field: "product_type"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			params := validParams()
			tt.mutate(&params)

			p, err := NewProduct(rules, params, testNow)
			assert.Nil(t, p)

			fields := violatedFields(t, err)
			require.Len(t, fields, 1)
			assert.Contains(t, fields, tt.field)
		})
	}
}

func TestNewProduct_CollectsAllViolations(t *testing.T) {
	rules := newTestRules(t)

	params := validParams()
	params.SKU = "bad"
	params.Name = ""
	params.Quantity = 0
	params.Price = decimal.Zero
	params.Location = "nowhere"

	p, err := NewProduct(rules, params, testNow)
	assert.Nil(t, p)

	fields := violatedFields(t, err)
	assert.Len(t, fields, 5)
	for _, want := range []string{"sku", "name", "quantity", "price", "location"} {
		assert.Contains(t, fields, want)
	}
}

func TestProduct_Revise(t *testing.T) {
	rules := newTestRules(t)

	p, err := NewProduct(rules, validParams(), testNow)
	require.NoError(t, err)
	p.ID = 7

	later := testNow.Add(2 * time.Hour)
	photo := "photos/MED-1234-abc.jpg"

	err = p.Revise(rules, ProductParams{
		Name:           "Ibuprofeno 400",
		ExpirationDate: testNow.AddDate(2, 0, 0),
		Quantity:       50,
		Price:          decimal.NewFromFloat(8.99),
		Location:       "B-02-03",
		Description:    "Antiinflamatorio",
		ProductType:    "Seguridad controlada",
		ProviderID:     "prov-2",
		PhotoFilename:  &photo,
	}, later)
	require.NoError(t, err)

	assert.Equal(t, int64(7), p.ID)
	assert.Equal(t, "MED-1234", p.SKU, "sku is immutable")
	assert.Equal(t, testNow, p.CreatedAt, "created_at is immutable")
	assert.Equal(t, "Ibuprofeno 400", p.Name)
	assert.Equal(t, 50, p.Quantity)
	assert.Equal(t, later, p.UpdatedAt)
	require.NotNil(t, p.PhotoFilename)
	assert.Equal(t, photo, *p.PhotoFilename)
	assert.True(t, p.HasPhoto())
}

func TestProduct_Revise_InvalidLeavesProductUntouched(t *testing.T) {
	rules := newTestRules(t)

	p, err := NewProduct(rules, validParams(), testNow)
	require.NoError(t, err)
	before := *p

	err = p.Revise(rules, ProductParams{
		Name:           "",
		ExpirationDate: testNow.AddDate(0, 0, -1),
		Quantity:       0,
		Price:          decimal.Zero,
		Location:       "bad",
		ProductType:    "bad",
	}, testNow.Add(time.Hour))

	fields := violatedFields(t, err)
	assert.Len(t, fields, 6)
	assert.Equal(t, before, *p)
}

func TestProduct_Revise_KeepsPhotoWhenNotProvided(t *testing.T) {
	rules := newTestRules(t)

	photo := "photos/MED-1234-abc.jpg"
	params := validParams()
	params.PhotoFilename = &photo

	p, err := NewProduct(rules, params, testNow)
	require.NoError(t, err)

	revised := validParams()
	revised.PhotoFilename = nil
	require.NoError(t, p.Revise(rules, revised, testNow.Add(time.Hour)))

	require.NotNil(t, p.PhotoFilename)
	assert.Equal(t, photo, *p.PhotoFilename)
}
