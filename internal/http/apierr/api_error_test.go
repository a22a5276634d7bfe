package apierr_test

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tuanvumaihuynh/product-inventory/internal/apperr"
	"github.com/tuanvumaihuynh/product-inventory/internal/http/apierr"
	"github.com/tuanvumaihuynh/product-inventory/pkg/validator"
	"github.com/tuanvumaihuynh/product-inventory/pkg/zerror"
)

func TestNew(t *testing.T) {
	t.Run("Should map wrapped zerror with metadata", func(t *testing.T) {
		err := fmt.Errorf("db with tx: %w", apperr.NewProductNotFound("SKU-9"))

		res := apierr.New(err)
		assert.Equal(t, http.StatusNotFound, res.StatusCode)
		assert.Equal(t, apperr.ProductNotFoundCode, res.Code)
		assert.Equal(t, map[string]string{"sku": "SKU-9"}, res.Metadata)
	})

	t.Run("Should map conflict to 409", func(t *testing.T) {
		res := apierr.New(apperr.NewProductSkuConflict("SKU-1"))
		assert.Equal(t, http.StatusConflict, res.StatusCode)
		assert.Equal(t, apperr.ProductSkuConflictCode, res.Code)
	})

	t.Run("Should map validator errors with field details", func(t *testing.T) {
		v, err := validator.NewDefaultValidator()
		require.NoError(t, err)

		type restock struct {
			QuantityToAdd *int `json:"quantityToAdd" validate:"required,gte=1"`
		}
		zero := 0

		res := apierr.New(v.Validate(restock{QuantityToAdd: &zero}))
		assert.Equal(t, http.StatusBadRequest, res.StatusCode)
		assert.Equal(t, apierr.ValidationErrorCode, res.Code)
		require.Len(t, res.Details, 1)
		assert.Equal(t, "quantityToAdd", res.Details[0].Field)
	})

	t.Run("Should map request errors to 400", func(t *testing.T) {
		res := apierr.New(apierr.NewRequestError(errors.New("unexpected EOF")))
		assert.Equal(t, http.StatusBadRequest, res.StatusCode)
		assert.Equal(t, apierr.InvalidRequestCode, res.Code)
		assert.Equal(t, "unexpected EOF", res.Message)
	})

	t.Run("Should hide unknown errors", func(t *testing.T) {
		res := apierr.New(errors.New("connection reset by peer"))
		assert.Equal(t, apierr.InternalServerErr, res)
	})
}

func TestZErrorStatusToHTTPStatus(t *testing.T) {
	cases := map[zerror.Status]int{
		zerror.StatusNotFound:         http.StatusNotFound,
		zerror.StatusConflict:         http.StatusConflict,
		zerror.StatusValidationFailed: http.StatusBadRequest,
		zerror.StatusTimeout:          http.StatusGatewayTimeout,
		zerror.StatusUnknown:          http.StatusInternalServerError,
	}
	for status, want := range cases {
		assert.Equal(t, want, apierr.ZErrorStatusToHTTPStatus(status), status.String())
	}
}
