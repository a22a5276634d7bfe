package apperr_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/tuanvumaihuynh/product-inventory/internal/apperr"
	"github.com/tuanvumaihuynh/product-inventory/pkg/zerror"
)

func TestNewProductNotFound(t *testing.T) {
	err := fmt.Errorf("get product: %w", apperr.NewProductNotFound("SKU-404"))

	assert.True(t, errors.Is(err, apperr.ProductNotFoundErr))
	assert.False(t, errors.Is(err, apperr.ProductSkuConflictErr))

	var zErr zerror.ZError
	assert.True(t, errors.As(err, &zErr))
	sku, ok := zErr.MetadataValue(apperr.MetadataKeySku)
	assert.True(t, ok)
	assert.Equal(t, "SKU-404", sku)
	assert.Equal(t, zerror.StatusNotFound, zErr.Status())
}

func TestNewProductSkuConflict(t *testing.T) {
	err := apperr.NewProductSkuConflict("SKU-1")

	assert.ErrorIs(t, err, apperr.ProductSkuConflictErr)
	assert.Equal(t, zerror.StatusConflict, err.Status())
}
