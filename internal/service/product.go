package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/tuanvumaihuynh/product-inventory/internal/apperr"
	"github.com/tuanvumaihuynh/product-inventory/internal/event"
	"github.com/tuanvumaihuynh/product-inventory/internal/model"
	"github.com/tuanvumaihuynh/product-inventory/internal/repository"
	"github.com/tuanvumaihuynh/product-inventory/internal/storage/db"
	"github.com/tuanvumaihuynh/product-inventory/pkg/outbox"
	"github.com/tuanvumaihuynh/product-inventory/pkg/ptr"
)

type CreateProductParams struct {
	Sku         string
	Name        string
	Description *string
	Price       decimal.Decimal
	Quantity    int
}

type RestockProductParams struct {
	Sku           string
	QuantityToAdd int
}

type ProductService interface {
	// CreateProduct stores a new product. It fails with
	// apperr.ProductSkuConflictErr when the sku is taken.
	CreateProduct(ctx context.Context, params CreateProductParams) (model.Product, error)
	// FindProductBySku fails with apperr.ProductNotFoundErr carrying the sku
	// when no product matches.
	FindProductBySku(ctx context.Context, sku string) (model.Product, error)
	// RestockProduct adds QuantityToAdd to the stored quantity under a row lock,
	// so concurrent restocks of one sku never lose an update. The amount is
	// applied as given; callers validate its range.
	RestockProduct(ctx context.Context, params RestockProductParams) (model.Product, error)
}

type productService struct {
	tx            db.Transactor
	productRepo   repository.ProductRepository
	outboxMsgRepo repository.OutboxMsgRepository
}

func NewProductService(
	tx db.Transactor,
	productRepo repository.ProductRepository,
	outboxMsgRepo repository.OutboxMsgRepository,
) ProductService {
	return &productService{
		tx:            tx,
		productRepo:   productRepo,
		outboxMsgRepo: outboxMsgRepo,
	}
}

func (s *productService) CreateProduct(ctx context.Context, params CreateProductParams) (model.Product, error) {
	if params.Quantity < 0 {
		return model.Product{}, apperr.ValidationErr.WithMetadata("quantity", "must be greater than or equal to 0")
	}
	if params.Quantity > model.MaxQuantity {
		return model.Product{}, apperr.ValidationErr.WithMetadata("quantity", "must be less than or equal to 2147483647")
	}
	if params.Price.IsNegative() {
		return model.Product{}, apperr.ValidationErr.WithMetadata("price", "must be greater than or equal to 0")
	}

	var product model.Product

	if err := s.tx.WithTx(ctx, func(db db.DB) error {
		saved, err := s.productRepo.
			WithDB(db).
			SaveProduct(ctx, model.Product{
				Sku:         params.Sku,
				Name:        params.Name,
				Description: params.Description,
				Price:       params.Price,
				Quantity:    params.Quantity,
			})
		if err != nil {
			if errors.Is(err, repository.ErrDuplicateSku) {
				return apperr.NewProductSkuConflict(params.Sku).WrapParent(err)
			}
			return fmt.Errorf("product repository save product: %w", err)
		}

		if err := s.writeEvent(ctx, db, event.TopicProductCreated, saved.Sku, event.ProductCreatedEvent{
			ProductID: saved.ID.String(),
			Sku:       saved.Sku,
			Name:      saved.Name,
			Price:     saved.Price,
			Quantity:  saved.Quantity,
		}); err != nil {
			return err
		}

		product = saved
		return nil
	}); err != nil {
		return model.Product{}, fmt.Errorf("db with tx: %w", err)
	}

	return product, nil
}

func (s *productService) FindProductBySku(ctx context.Context, sku string) (model.Product, error) {
	product, found, err := s.productRepo.FindProductBySku(ctx, repository.FindProductBySkuParams{Sku: sku})
	if err != nil {
		return model.Product{}, fmt.Errorf("product repository find product by sku: %w", err)
	}

	if !found {
		return model.Product{}, apperr.NewProductNotFound(sku)
	}

	return product, nil
}

func (s *productService) RestockProduct(ctx context.Context, params RestockProductParams) (model.Product, error) {
	var product model.Product

	if err := s.tx.WithTx(ctx, func(db db.DB) error {
		productRepo := s.productRepo.WithDB(db)

		current, found, err := productRepo.FindProductBySku(ctx, repository.FindProductBySkuParams{
			Sku:       params.Sku,
			ForUpdate: true,
		})
		if err != nil {
			return fmt.Errorf("product repository find product by sku: %w", err)
		}
		if !found {
			return apperr.NewProductNotFound(params.Sku)
		}

		current.Quantity += params.QuantityToAdd

		saved, err := productRepo.SaveProduct(ctx, current)
		if err != nil {
			return fmt.Errorf("product repository save product: %w", err)
		}

		if err := s.writeEvent(ctx, db, event.TopicProductRestocked, saved.Sku, event.ProductRestockedEvent{
			ProductID:     saved.ID.String(),
			Sku:           saved.Sku,
			QuantityAdded: params.QuantityToAdd,
			Quantity:      saved.Quantity,
		}); err != nil {
			return err
		}

		product = saved
		return nil
	}); err != nil {
		return model.Product{}, fmt.Errorf("db with tx: %w", err)
	}

	return product, nil
}

// writeEvent stores ev in the outbox inside the caller's transaction, keyed by
// sku so events of one product keep their order.
func (s *productService) writeEvent(ctx context.Context, db db.DB, topic, sku string, ev any) error {
	evBytes, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	if err := s.outboxMsgRepo.
		WithDB(db).
		CreateOutboxMsg(ctx, repository.CreateOutboxMsgParams{
			Topic:        topic,
			Headers:      outbox.BuildHeaders(ctx),
			Payload:      evBytes,
			PartitionKey: ptr.New(sku),
		}); err != nil {
		return fmt.Errorf("outbox msg repository create outbox msg: %w", err)
	}

	return nil
}
