package memory

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"

	"github.com/tuanvumaihuynh/product-inventory/internal/model"
	"github.com/tuanvumaihuynh/product-inventory/internal/repository"
	"github.com/tuanvumaihuynh/product-inventory/internal/storage/db"
)

var _ repository.ProductRepository = (*productRepository)(nil)

type productRepository struct {
	store *Store
}

func (r *productRepository) WithDB(_ db.DB) repository.ProductRepository {
	return r
}

// FindProductBySku ignores ForUpdate; WithTx already serializes transactions.
func (r *productRepository) FindProductBySku(ctx context.Context, params repository.FindProductBySkuParams) (model.Product, bool, error) {
	if err := ctx.Err(); err != nil {
		return model.Product{}, false, err
	}

	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	id, ok := r.store.skus[params.Sku]
	if !ok {
		return model.Product{}, false, nil
	}

	return cloneProduct(r.store.products[id]), true, nil
}

func (r *productRepository) SaveProduct(ctx context.Context, product model.Product) (model.Product, error) {
	if err := ctx.Err(); err != nil {
		return model.Product{}, err
	}

	if product.Quantity > model.MaxQuantity || product.Quantity < math.MinInt32 {
		return model.Product{}, fmt.Errorf("%w: %d", repository.ErrQuantityOutOfRange, product.Quantity)
	}

	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	now := time.Now()

	if product.IsNew() {
		if _, exists := r.store.skus[product.Sku]; exists {
			return model.Product{}, repository.ErrDuplicateSku
		}

		id, err := uuid.NewV7()
		if err != nil {
			return model.Product{}, fmt.Errorf("generate uuid v7: %w", err)
		}

		product.ID = id
		product.CreatedAt = now
		product.UpdatedAt = now

		r.store.products[id] = cloneProduct(product)
		r.store.skus[product.Sku] = id

		return product, nil
	}

	existing, ok := r.store.products[product.ID]
	if !ok {
		return model.Product{}, repository.ErrProductNotFound
	}

	// sku and created_at are immutable once stored.
	existing.Name = product.Name
	existing.Description = product.Description
	existing.Price = product.Price
	existing.Quantity = product.Quantity
	existing.UpdatedAt = now

	r.store.products[existing.ID] = cloneProduct(existing)

	return existing, nil
}

func cloneProduct(p model.Product) model.Product {
	if p.Description != nil {
		d := *p.Description
		p.Description = &d
	}
	return p
}
