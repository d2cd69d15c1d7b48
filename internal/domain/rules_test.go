package domain

import (
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRules(t *testing.T) *Rules {
	t.Helper()

	rules, err := NewRules(DefaultRuleSet())
	require.NoError(t, err)

	return rules
}

func TestNewRules_BadPattern(t *testing.T) {
	set := DefaultRuleSet()
	set.SKUPattern = `^MED-(\d{4}$`

	_, err := NewRules(set)
	assert.Error(t, err)
}

func TestRules_ValidateSKU(t *testing.T) {
	rules := newTestRules(t)

	tests := []struct {
		name    string
		sku     string
		wantErr bool
	}{
		{name: "valid", sku: "MED-1234", wantErr: false},
		{name: "empty", sku: "", wantErr: true},
		{name: "whitespace only", sku: "   ", wantErr: true},
		{name: "lowercase prefix", sku: "med-1234", wantErr: true},
		{name: "three digits", sku: "MED-123", wantErr: true},
		{name: "five digits", sku: "MED-12345", wantErr: true},
		{name: "letters instead of digits", sku: "MED-ABCD", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fe := rules.ValidateSKU(tt.sku)
			if tt.wantErr {
				require.NotNil(t, fe)
				assert.Equal(t, "sku", fe.Field)
			} else {
				assert.Nil(t, fe)
			}
		})
	}
}

func TestRules_ValidateName(t *testing.T) {
	rules := newTestRules(t)

	tests := []struct {
		name    string
		value   string
		wantErr bool
	}{
		{name: "valid", value: "Paracetamol 500", wantErr: false},
		{name: "accented letters", value: "Ibuprofeno genérico", wantErr: false},
		{name: "empty", value: "", wantErr: true},
		{name: "too short", value: "Ab", wantErr: true},
		{name: "two runes accented", value: "Añ", wantErr: true},
		{name: "special characters", value: "Aspirina!", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fe := rules.ValidateName(tt.value)
			if tt.wantErr {
				require.NotNil(t, fe)
				assert.Equal(t, "name", fe.Field)
			} else {
				assert.Nil(t, fe)
			}
		})
	}
}

func TestRules_ValidateExpirationDate(t *testing.T) {
	rules := newTestRules(t)
	now := time.Date(2026, time.March, 15, 12, 0, 0, 0, time.UTC)

	assert.Nil(t, rules.ValidateExpirationDate(now.AddDate(1, 0, 0), now))

	fe := rules.ValidateExpirationDate(time.Time{}, now)
	require.NotNil(t, fe)
	assert.Equal(t, "expiration_date", fe.Field)

	assert.NotNil(t, rules.ValidateExpirationDate(now, now), "expiring exactly now is rejected")
	assert.NotNil(t, rules.ValidateExpirationDate(now.AddDate(0, 0, -1), now))
}

func TestRules_ValidateQuantity(t *testing.T) {
	rules := newTestRules(t)

	assert.Nil(t, rules.ValidateQuantity(MinQuantity))
	assert.Nil(t, rules.ValidateQuantity(MaxQuantity))
	assert.NotNil(t, rules.ValidateQuantity(0))
	assert.NotNil(t, rules.ValidateQuantity(-5))
	assert.NotNil(t, rules.ValidateQuantity(MaxQuantity+1))
}

func TestRules_ValidatePrice(t *testing.T) {
	rules := newTestRules(t)

	assert.Nil(t, rules.ValidatePrice(decimal.NewFromFloat(10.50)))
	assert.NotNil(t, rules.ValidatePrice(decimal.Zero))
	assert.NotNil(t, rules.ValidatePrice(decimal.NewFromFloat(-1.25)))
}

func TestRules_ValidateLocation(t *testing.T) {
	rules := newTestRules(t)

	tests := []struct {
		name     string
		location string
		wantErr  bool
	}{
		{name: "valid", location: "A-01-02", wantErr: false},
		{name: "empty", location: "", wantErr: true},
		{name: "lowercase shelf", location: "a-01-02", wantErr: true},
		{name: "single digit section", location: "A-1-02", wantErr: true},
		{name: "missing level", location: "A-01", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fe := rules.ValidateLocation(tt.location)
			if tt.wantErr {
				require.NotNil(t, fe)
				assert.Equal(t, "location", fe.Field)
			} else {
				assert.Nil(t, fe)
			}
		})
	}
}

func TestRules_ValidateProductType(t *testing.T) {
	rules := newTestRules(t)

	assert.Nil(t, rules.ValidateProductType("Alto valor"))
	assert.Nil(t, rules.ValidateProductType("Cadena de frío"))
	assert.NotNil(t, rules.ValidateProductType(""))
	assert.NotNil(t, rules.ValidateProductType("alto valor"), "matching is case sensitive")
	assert.NotNil(t, rules.ValidateProductType("Congelados"))
}

func TestRules_ValidatePhoto(t *testing.T) {
	rules := newTestRules(t)

	tests := []struct {
		name     string
		filename string
		size     int64
		wantErr  bool
		reason   string
	}{
		{name: "valid jpg", filename: "photo.jpg", size: 1024, wantErr: false},
		{name: "uppercase extension", filename: "photo.PNG", size: 1024, wantErr: false},
		{name: "no extension", filename: "photo", size: 1024, wantErr: true, reason: "extension"},
		{name: "pdf", filename: "doc.pdf", size: 1024, wantErr: true, reason: "image file"},
		{name: "empty file", filename: "photo.jpg", size: 0, wantErr: true, reason: "empty"},
		{name: "too large", filename: "photo.jpg", size: rules.MaxPhotoSize() + 1, wantErr: true, reason: "exceed"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fe := rules.ValidatePhoto(tt.filename, tt.size)
			if tt.wantErr {
				require.NotNil(t, fe)
				assert.Equal(t, "photo", fe.Field)
				assert.True(t, strings.Contains(fe.Reason, tt.reason), "reason %q should mention %q", fe.Reason, tt.reason)
			} else {
				assert.Nil(t, fe)
			}
		})
	}
}
