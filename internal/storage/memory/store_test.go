package memory_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tuanvumaihuynh/product-inventory/internal/model"
	"github.com/tuanvumaihuynh/product-inventory/internal/repository"
	"github.com/tuanvumaihuynh/product-inventory/internal/storage/db"
	"github.com/tuanvumaihuynh/product-inventory/internal/storage/memory"
	"github.com/tuanvumaihuynh/product-inventory/pkg/ptr"
)

func TestProductRepository(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	repo := store.ProductRepository()

	saved, err := repo.SaveProduct(ctx, model.Product{
		Sku:         "SKU-1",
		Name:        "Widget",
		Description: ptr.New("blue"),
		Price:       decimal.RequireFromString("9.99"),
		Quantity:    3,
	})
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, saved.ID)
	assert.False(t, saved.CreatedAt.IsZero())
	assert.Equal(t, saved.CreatedAt, saved.UpdatedAt)

	t.Run("Should find by sku", func(t *testing.T) {
		found, ok, err := repo.FindProductBySku(ctx, repository.FindProductBySkuParams{Sku: "SKU-1"})
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, saved, found)
	})

	t.Run("Should report absence without error", func(t *testing.T) {
		_, ok, err := repo.FindProductBySku(ctx, repository.FindProductBySkuParams{Sku: "NOPE"})
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("Should reject duplicate sku", func(t *testing.T) {
		_, err := repo.SaveProduct(ctx, model.Product{Sku: "SKU-1", Name: "Other"})
		assert.ErrorIs(t, err, repository.ErrDuplicateSku)
	})

	t.Run("Should update and keep immutable fields", func(t *testing.T) {
		p := saved
		p.Quantity = 10
		p.Sku = "CHANGED"

		updated, err := repo.SaveProduct(ctx, p)
		require.NoError(t, err)
		assert.Equal(t, 10, updated.Quantity)
		assert.Equal(t, "SKU-1", updated.Sku)
		assert.Equal(t, saved.CreatedAt, updated.CreatedAt)
		assert.False(t, updated.UpdatedAt.Before(saved.UpdatedAt))
	})

	t.Run("Should not leak mutations of returned values", func(t *testing.T) {
		found, _, err := repo.FindProductBySku(ctx, repository.FindProductBySkuParams{Sku: "SKU-1"})
		require.NoError(t, err)
		*found.Description = "mutated"

		again, _, err := repo.FindProductBySku(ctx, repository.FindProductBySkuParams{Sku: "SKU-1"})
		require.NoError(t, err)
		assert.Equal(t, "blue", *again.Description)
	})

	t.Run("Should reject a quantity beyond the stored range", func(t *testing.T) {
		_, err := repo.SaveProduct(ctx, model.Product{Sku: "SKU-BIG", Name: "Big", Quantity: model.MaxQuantity + 1})
		assert.ErrorIs(t, err, repository.ErrQuantityOutOfRange)

		p := saved
		p.Quantity = model.MaxQuantity + 1
		_, err = repo.SaveProduct(ctx, p)
		assert.ErrorIs(t, err, repository.ErrQuantityOutOfRange)
	})

	t.Run("Should fail to update unknown id", func(t *testing.T) {
		_, err := repo.SaveProduct(ctx, model.Product{ID: uuid.New(), Sku: "X"})
		assert.ErrorIs(t, err, repository.ErrProductNotFound)
	})
}

func TestStore_WithTx(t *testing.T) {
	ctx := context.Background()

	t.Run("Should roll back on error", func(t *testing.T) {
		store := memory.NewStore()
		errBoom := errors.New("boom")

		err := store.WithTx(ctx, func(tx db.DB) error {
			if _, err := store.ProductRepository().WithDB(tx).SaveProduct(ctx, model.Product{Sku: "SKU-RB", Name: "n"}); err != nil {
				return err
			}
			if err := store.OutboxMsgRepository().WithDB(tx).CreateOutboxMsg(ctx, repository.CreateOutboxMsgParams{Topic: "t"}); err != nil {
				return err
			}
			return errBoom
		})
		assert.ErrorIs(t, err, errBoom)

		_, ok, err := store.ProductRepository().FindProductBySku(ctx, repository.FindProductBySkuParams{Sku: "SKU-RB"})
		require.NoError(t, err)
		assert.False(t, ok)
		assert.Empty(t, store.OutboxMsgs())
	})

	t.Run("Should commit on success and allow nested transactions", func(t *testing.T) {
		store := memory.NewStore()

		err := store.WithTx(ctx, func(tx db.DB) error {
			return tx.WithTx(ctx, func(inner db.DB) error {
				_, err := store.ProductRepository().WithDB(inner).SaveProduct(ctx, model.Product{Sku: "SKU-OK", Name: "n"})
				return err
			})
		})
		require.NoError(t, err)

		_, ok, err := store.ProductRepository().FindProductBySku(ctx, repository.FindProductBySkuParams{Sku: "SKU-OK"})
		require.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("Should refuse a cancelled context", func(t *testing.T) {
		store := memory.NewStore()
		cctx, cancel := context.WithCancel(ctx)
		cancel()

		called := false
		err := store.WithTx(cctx, func(db.DB) error {
			called = true
			return nil
		})
		assert.ErrorIs(t, err, context.Canceled)
		assert.False(t, called)
	})
}

func TestOutboxMsgRepository(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	repo := store.OutboxMsgRepository()

	for _, topic := range []string{"a", "b", "c"} {
		require.NoError(t, repo.CreateOutboxMsg(ctx, repository.CreateOutboxMsgParams{Topic: topic, Payload: []byte(`{}`)}))
	}

	msgs, err := repo.ListUnprocessedOutboxMsgs(ctx, repository.ListUnprocessedOutboxMsgsParams{BatchSize: 2})
	require.NoError(t, err)
	require.Len(t, msgs, 2)
	assert.Equal(t, "a", msgs[0].Topic)
	assert.Equal(t, "b", msgs[1].Topic)

	require.NoError(t, repo.BulkUpdateOutboxMsgs(ctx, repository.BulkUpdateOutboxMsgsParams{
		Items: []repository.BulkUpdateOutboxMsgsItem{
			{ID: msgs[0].ID},
			{ID: msgs[1].ID, Error: ptr.New("broker down")},
		},
	}))

	msgs, err = repo.ListUnprocessedOutboxMsgs(ctx, repository.ListUnprocessedOutboxMsgsParams{BatchSize: 10})
	require.NoError(t, err)
	require.Len(t, msgs, 1)
	assert.Equal(t, "c", msgs[0].Topic)

	all := store.OutboxMsgs()
	require.Len(t, all, 3)
	assert.NotNil(t, all[0].ProcessedAt)
	assert.Nil(t, all[0].Error)
	assert.Equal(t, "broker down", *all[1].Error)
}
