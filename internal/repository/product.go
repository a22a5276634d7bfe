package repository

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"

	"github.com/tuanvumaihuynh/product-inventory/internal/model"
	"github.com/tuanvumaihuynh/product-inventory/internal/storage/db"
	"github.com/tuanvumaihuynh/product-inventory/internal/storage/db/sqlc"
)

var (
	// ErrDuplicateSku is returned when a product with the same sku already exists.
	ErrDuplicateSku = errors.New("duplicate sku")

	// ErrProductNotFound is returned when saving a product whose id does not exist.
	ErrProductNotFound = errors.New("product not found")

	// ErrQuantityOutOfRange is returned when a quantity does not fit the stored column.
	ErrQuantityOutOfRange = errors.New("quantity out of range")
)

const (
	pgUniqueViolation = "23505"
	productSkuKey     = "products_sku_key"
)

type FindProductBySkuParams struct {
	Sku string
	// ForUpdate locks the row until the enclosing transaction ends.
	ForUpdate bool
}

type ProductRepository interface {
	WithDB(db db.DB) ProductRepository
	// FindProductBySku returns found == false when no product has the sku.
	FindProductBySku(ctx context.Context, params FindProductBySkuParams) (product model.Product, found bool, err error)
	// SaveProduct inserts a new product (zero ID) or updates an existing one and
	// returns the stored row.
	SaveProduct(ctx context.Context, product model.Product) (model.Product, error)
}

type productRepository struct {
	db      db.DB
	queries sqlc.Queries
}

func NewProductRepository(db db.DB, queries sqlc.Queries) ProductRepository {
	return &productRepository{
		db:      db,
		queries: queries,
	}
}

func (r productRepository) WithDB(db db.DB) ProductRepository {
	return &productRepository{
		db:      db,
		queries: r.queries,
	}
}

func (r productRepository) FindProductBySku(ctx context.Context, params FindProductBySkuParams) (model.Product, bool, error) {
	var (
		product sqlc.Product
		err     error
	)
	if params.ForUpdate {
		product, err = r.queries.ProductGetBySkuForUpdate(ctx, r.db, params.Sku)
	} else {
		product, err = r.queries.ProductGetBySku(ctx, r.db, params.Sku)
	}
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Product{}, false, nil
		}
		return model.Product{}, false, fmt.Errorf("get product by sku: %w", err)
	}

	modelProduct, err := sqlcProductToModelProduct(product)
	if err != nil {
		return model.Product{}, false, fmt.Errorf("convert product to model product: %w", err)
	}

	return modelProduct, true, nil
}

func (r productRepository) SaveProduct(ctx context.Context, product model.Product) (model.Product, error) {
	price := decimalToNumeric(product.Price)

	quantity, err := toInt32(product.Quantity)
	if err != nil {
		return model.Product{}, err
	}

	now := time.Now()

	var saved sqlc.Product
	if product.IsNew() {
		id, err := uuid.NewV7()
		if err != nil {
			return model.Product{}, fmt.Errorf("generate uuid v7: %w", err)
		}

		saved, err = r.queries.ProductCreate(ctx, r.db, sqlc.ProductCreateParams{
			ID:          id,
			Sku:         product.Sku,
			Name:        product.Name,
			Description: product.Description,
			Price:       price,
			Quantity:    quantity,
			CreatedAt:   now,
			UpdatedAt:   now,
		})
		if err != nil {
			if isSkuUniqueViolation(err) {
				return model.Product{}, ErrDuplicateSku
			}
			return model.Product{}, fmt.Errorf("create product: %w", err)
		}
	} else {
		saved, err = r.queries.ProductUpdate(ctx, r.db, sqlc.ProductUpdateParams{
			ID:          product.ID,
			Name:        product.Name,
			Description: product.Description,
			Price:       price,
			Quantity:    quantity,
			UpdatedAt:   now,
		})
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return model.Product{}, ErrProductNotFound
			}
			return model.Product{}, fmt.Errorf("update product: %w", err)
		}
	}

	modelProduct, err := sqlcProductToModelProduct(saved)
	if err != nil {
		return model.Product{}, fmt.Errorf("convert product to model product: %w", err)
	}

	return modelProduct, nil
}

func sqlcProductToModelProduct(product sqlc.Product) (model.Product, error) {
	price, err := numericToDecimal(product.Price)
	if err != nil {
		return model.Product{}, fmt.Errorf("convert price: %w", err)
	}

	return model.Product{
		ID:          product.ID,
		Sku:         product.Sku,
		Name:        product.Name,
		Description: product.Description,
		Price:       price,
		Quantity:    int(product.Quantity),
		CreatedAt:   product.CreatedAt,
		UpdatedAt:   product.UpdatedAt,
	}, nil
}

func decimalToNumeric(d decimal.Decimal) pgtype.Numeric {
	return pgtype.Numeric{
		Int:   d.Coefficient(),
		Exp:   d.Exponent(),
		Valid: true,
	}
}

func numericToDecimal(n pgtype.Numeric) (decimal.Decimal, error) {
	if !n.Valid {
		return decimal.Decimal{}, errors.New("numeric is null")
	}
	if n.NaN || n.InfinityModifier != pgtype.Finite {
		return decimal.Decimal{}, errors.New("numeric is not a finite number")
	}
	if n.Int == nil {
		return decimal.Zero, nil
	}
	return decimal.NewFromBigInt(n.Int, n.Exp), nil
}

func toInt32(quantity int) (int32, error) {
	if quantity > model.MaxQuantity || quantity < math.MinInt32 {
		return 0, fmt.Errorf("%w: %d", ErrQuantityOutOfRange, quantity)
	}
	return int32(quantity), nil
}

func isSkuUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgUniqueViolation && pgErr.ConstraintName == productSkuKey
	}
	return false
}
