package http

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/oapi-codegen/runtime"
	"github.com/shopspring/decimal"

	"github.com/tuanvumaihuynh/product-inventory/internal/http/apierr"
	"github.com/tuanvumaihuynh/product-inventory/internal/model"
	"github.com/tuanvumaihuynh/product-inventory/internal/service"
	"github.com/tuanvumaihuynh/product-inventory/pkg/validator"
)

const maxBodyBytes = 1 << 20

type CreateProductRequest struct {
	Sku         string           `json:"sku" validate:"required,max=64,sku"`
	Name        string           `json:"name" validate:"required,notblank,max=255"`
	Description *string          `json:"description" validate:"omitempty,max=2000"`
	Price       *decimal.Decimal `json:"price" validate:"required,gte=0"`
	Quantity    *int             `json:"quantity" validate:"required,gte=0,max=2147483647"`
}

type RestockProductRequest struct {
	QuantityToAdd *int `json:"quantityToAdd" validate:"required,gte=1,max=2147483647"`
}

type ProductResponse struct {
	ID          uuid.UUID       `json:"id"`
	Sku         string          `json:"sku"`
	Name        string          `json:"name"`
	Description *string         `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Quantity    int             `json:"quantity"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
}

func toProductResponse(p model.Product) ProductResponse {
	return ProductResponse{
		ID:          p.ID,
		Sku:         p.Sku,
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price,
		Quantity:    p.Quantity,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

type productHandler struct {
	productSvc service.ProductService
	validator  validator.Validator
}

func newProductHandler(productSvc service.ProductService, v validator.Validator) *productHandler {
	return &productHandler{
		productSvc: productSvc,
		validator:  v,
	}
}

func (h *productHandler) CreateProduct(w http.ResponseWriter, r *http.Request) error {
	var req CreateProductRequest
	if err := h.decodeAndValidate(w, r, &req); err != nil {
		return err
	}

	product, err := h.productSvc.CreateProduct(r.Context(), service.CreateProductParams{
		Sku:         req.Sku,
		Name:        req.Name,
		Description: req.Description,
		Price:       *req.Price,
		Quantity:    *req.Quantity,
	})
	if err != nil {
		return fmt.Errorf("product service create product: %w", err)
	}

	return writeJSON(w, http.StatusCreated, toProductResponse(product))
}

func (h *productHandler) GetProductBySku(w http.ResponseWriter, r *http.Request) error {
	sku, err := skuParam(r)
	if err != nil {
		return err
	}

	product, err := h.productSvc.FindProductBySku(r.Context(), sku)
	if err != nil {
		return fmt.Errorf("product service find product by sku: %w", err)
	}

	return writeJSON(w, http.StatusOK, toProductResponse(product))
}

func (h *productHandler) RestockProduct(w http.ResponseWriter, r *http.Request) error {
	sku, err := skuParam(r)
	if err != nil {
		return err
	}

	var req RestockProductRequest
	if err := h.decodeAndValidate(w, r, &req); err != nil {
		return err
	}

	product, err := h.productSvc.RestockProduct(r.Context(), service.RestockProductParams{
		Sku:           sku,
		QuantityToAdd: *req.QuantityToAdd,
	})
	if err != nil {
		return fmt.Errorf("product service restock product: %w", err)
	}

	return writeJSON(w, http.StatusOK, toProductResponse(product))
}

func (h *productHandler) decodeAndValidate(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return apierr.NewRequestError(fmt.Errorf("can't decode JSON body: %w", err))
	}

	return h.validator.Validate(dst)
}

func skuParam(r *http.Request) (string, error) {
	var sku string

	err := runtime.BindStyledParameterWithOptions("simple", "sku", chi.URLParam(r, "sku"), &sku, runtime.BindStyledParameterOptions{
		ParamLocation: runtime.ParamLocationPath,
		Explode:       false,
		Required:      true,
	})
	if err != nil {
		return "", apierr.NewRequestError(fmt.Errorf("invalid format for parameter sku: %w", err))
	}

	return sku, nil
}
