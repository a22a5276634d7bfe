package memory

import (
	"context"
	"fmt"
	"maps"
	"slices"
	"time"

	"github.com/google/uuid"

	"github.com/tuanvumaihuynh/product-inventory/internal/model"
	"github.com/tuanvumaihuynh/product-inventory/internal/repository"
	"github.com/tuanvumaihuynh/product-inventory/internal/storage/db"
)

var _ repository.OutboxMsgRepository = (*outboxMsgRepository)(nil)

type outboxMsgRepository struct {
	store *Store
}

func (r *outboxMsgRepository) WithDB(_ db.DB) repository.OutboxMsgRepository {
	return r
}

func (r *outboxMsgRepository) CreateOutboxMsg(ctx context.Context, params repository.CreateOutboxMsgParams) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	id, err := uuid.NewV7()
	if err != nil {
		return fmt.Errorf("generate uuid v7: %w", err)
	}

	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	r.store.outbox = append(r.store.outbox, model.OutboxMsg{
		ID:           id,
		Topic:        params.Topic,
		Headers:      maps.Clone(params.Headers),
		Payload:      slices.Clone(params.Payload),
		PartitionKey: params.PartitionKey,
		CreatedAt:    time.Now(),
	})

	return nil
}

func (r *outboxMsgRepository) ListUnprocessedOutboxMsgs(ctx context.Context, params repository.ListUnprocessedOutboxMsgsParams) ([]model.OutboxMsg, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	var out []model.OutboxMsg
	for _, msg := range r.store.outbox {
		if int32(len(out)) >= params.BatchSize {
			break
		}
		if msg.ProcessedAt == nil {
			out = append(out, msg)
		}
	}

	return out, nil
}

func (r *outboxMsgRepository) BulkUpdateOutboxMsgs(ctx context.Context, params repository.BulkUpdateOutboxMsgsParams) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	now := time.Now()
	for _, item := range params.Items {
		for i := range r.store.outbox {
			if r.store.outbox[i].ID != item.ID {
				continue
			}
			r.store.outbox[i].ProcessedAt = &now
			r.store.outbox[i].Error = item.Error
		}
	}

	return nil
}
