package e

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidationError_Message(t *testing.T) {
	err := NewValidationError(
		NewFieldError("sku", "sku is required"),
		NewFieldError("price", "price must be greater than zero"),
	)

	assert.Equal(t, "validation failed: sku: sku is required; price: price must be greater than zero", err.Error())
	assert.Equal(t, "validation failed", NewValidationError().Error())
}

func TestWrap_PreservesTypedErrors(t *testing.T) {
	wrapped := Wrap("ProductUseCase.GetProduct", Wrap("ProductRepo.GetByID", NewNotFoundError("product", 5)))

	var nfErr *NotFoundError
	require.True(t, errors.As(wrapped, &nfErr))
	assert.Equal(t, "product", nfErr.Resource)
	assert.Equal(t, int64(5), nfErr.ID)
	assert.Contains(t, wrapped.Error(), "ProductUseCase.GetProduct: ProductRepo.GetByID:")
}

func TestWrap_PreservesSentinels(t *testing.T) {
	wrapped := Wrap("quantity", ErrStatusBadRequest)

	assert.True(t, errors.Is(wrapped, ErrStatusBadRequest))
	assert.Equal(t, "quantity: bad request", wrapped.Error())
}

func TestTypedErrorMessages(t *testing.T) {
	assert.Equal(t, "product with id 7 not found", NewNotFoundError("product", 7).Error())
	assert.Equal(t, "sku MED-1234 already exists", NewDuplicateError("MED-1234").Error())
	assert.Equal(t, "insufficient stock: available 5, requested 10", NewInsufficientStockError(5, 10).Error())
}

func TestErrorsAs_DoesNotCrossTypes(t *testing.T) {
	err := fmt.Errorf("outer: %w", NewDuplicateError("MED-0001"))

	var nfErr *NotFoundError
	assert.False(t, errors.As(err, &nfErr))

	var dupErr *DuplicateError
	require.True(t, errors.As(err, &dupErr))
	assert.Equal(t, "MED-0001", dupErr.SKU)
}
