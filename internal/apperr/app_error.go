package apperr

import "github.com/tuanvumaihuynh/product-inventory/pkg/zerror"

const (
	ValidationErrorCode    = "VALIDATION_FAILED"
	ProductNotFoundCode    = "PRODUCT_NOT_FOUND"
	ProductSkuConflictCode = "PRODUCT_SKU_CONFLICT"

	MetadataKeySku = "sku"
)

var (
	ValidationErr         = zerror.NewValidationFailed(ValidationErrorCode, "validation error")
	ProductNotFoundErr    = zerror.NewNotFound(ProductNotFoundCode, "product not found")
	ProductSkuConflictErr = zerror.NewConflict(ProductSkuConflictCode, "product with this sku already exists")
)

// NewProductNotFound returns ProductNotFoundErr carrying the requested sku.
func NewProductNotFound(sku string) zerror.ZError {
	return ProductNotFoundErr.WithMetadata(MetadataKeySku, sku)
}

// NewProductSkuConflict returns ProductSkuConflictErr carrying the duplicated sku.
func NewProductSkuConflict(sku string) zerror.ZError {
	return ProductSkuConflictErr.WithMetadata(MetadataKeySku, sku)
}
