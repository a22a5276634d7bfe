// Package memory provides in-memory implementations of the repositories and of
// the transaction manager. Transactions are serialized and rolled back by
// restoring a snapshot, which makes the store suitable for tests.
package memory

import (
	"context"
	"maps"
	"sync"

	"github.com/google/uuid"

	"github.com/tuanvumaihuynh/product-inventory/internal/model"
	"github.com/tuanvumaihuynh/product-inventory/internal/repository"
	"github.com/tuanvumaihuynh/product-inventory/internal/storage/db"
)

var _ db.Transactor = (*Store)(nil)

// Store holds products and outbox messages in memory.
type Store struct {
	txMu sync.Mutex

	mu       sync.RWMutex
	products map[uuid.UUID]model.Product
	skus     map[string]uuid.UUID
	outbox   []model.OutboxMsg
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{
		products: make(map[uuid.UUID]model.Product),
		skus:     make(map[string]uuid.UUID),
	}
}

// ProductRepository returns a repository reading and writing this store.
func (s *Store) ProductRepository() repository.ProductRepository {
	return &productRepository{store: s}
}

// OutboxMsgRepository returns a repository reading and writing this store.
func (s *Store) OutboxMsgRepository() repository.OutboxMsgRepository {
	return &outboxMsgRepository{store: s}
}

// WithTx runs txFunc while holding the store's transaction lock. Changes made
// by txFunc are discarded when it returns an error.
func (s *Store) WithTx(ctx context.Context, txFunc func(db.DB) error) (err error) {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.txMu.Lock()
	defer s.txMu.Unlock()

	snap := s.snapshot()
	defer func() {
		if err != nil {
			s.restore(snap)
		}
	}()

	return txFunc(txHandle{})
}

// OutboxMsgs returns a copy of every outbox message in insertion order.
func (s *Store) OutboxMsgs() []model.OutboxMsg {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]model.OutboxMsg, len(s.outbox))
	copy(out, s.outbox)
	return out
}

type snapshot struct {
	products map[uuid.UUID]model.Product
	skus     map[string]uuid.UUID
	outbox   []model.OutboxMsg
}

func (s *Store) snapshot() snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	outbox := make([]model.OutboxMsg, len(s.outbox))
	copy(outbox, s.outbox)

	return snapshot{
		products: maps.Clone(s.products),
		skus:     maps.Clone(s.skus),
		outbox:   outbox,
	}
}

func (s *Store) restore(snap snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.products = snap.products
	s.skus = snap.skus
	s.outbox = snap.outbox
}

// txHandle is handed to transaction callbacks. The in-memory repositories
// ignore the handle they are bound to, so only WithTx is implemented; the
// embedded nil DB panics if anything else is called.
type txHandle struct {
	db.DB
}

func (t txHandle) WithTx(_ context.Context, txFunc func(db.DB) error) error {
	return txFunc(t)
}
