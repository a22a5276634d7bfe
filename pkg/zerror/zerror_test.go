package zerror_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tuanvumaihuynh/product-inventory/pkg/zerror"
)

func TestZError(t *testing.T) {
	base := zerror.NewNotFound("PRODUCT_NOT_FOUND", "product not found")

	t.Run("Should attach metadata without mutating the base error", func(t *testing.T) {
		withSku := base.WithMetadata("sku", "SKU-1")

		v, ok := withSku.MetadataValue("sku")
		require.True(t, ok)
		assert.Equal(t, "SKU-1", v)

		_, ok = base.MetadataValue("sku")
		assert.False(t, ok)
		assert.Nil(t, base.Metadata())
	})

	t.Run("Should be found through a wrapped chain", func(t *testing.T) {
		err := fmt.Errorf("service: %w", base.WithMetadata("sku", "SKU-2"))

		var zErr zerror.ZError
		require.True(t, errors.As(err, &zErr))
		assert.Equal(t, zerror.StatusNotFound, zErr.Status())
		assert.Equal(t, "PRODUCT_NOT_FOUND", zErr.Code())
		assert.True(t, errors.Is(err, base))
	})

	t.Run("Should unwrap to the parent", func(t *testing.T) {
		parent := errors.New("boom")
		err := base.WrapParent(parent)

		assert.ErrorIs(t, err, parent)
		assert.Contains(t, err.Error(), "Parent=(boom)")
	})

	t.Run("Should render metadata in a stable order", func(t *testing.T) {
		err := base.WithMetadata("b", "2").WithMetadata("a", "1")
		assert.Equal(t, "Code=PRODUCT_NOT_FOUND, Msg=product not found, Metadata=[a=1 b=2]", err.Error())
	})
}
