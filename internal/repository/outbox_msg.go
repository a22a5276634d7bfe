package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/tuanvumaihuynh/product-inventory/internal/model"
	"github.com/tuanvumaihuynh/product-inventory/internal/storage/db"
	"github.com/tuanvumaihuynh/product-inventory/internal/storage/db/sqlc"
	"github.com/tuanvumaihuynh/product-inventory/pkg/ptr"
)

type CreateOutboxMsgParams struct {
	Topic        string
	Headers      map[string]string
	Payload      json.RawMessage
	PartitionKey *string
}

type ListUnprocessedOutboxMsgsParams struct {
	BatchSize int32
}

type BulkUpdateOutboxMsgsItem struct {
	ID    uuid.UUID
	Error *string
}

type BulkUpdateOutboxMsgsParams struct {
	Items []BulkUpdateOutboxMsgsItem
}

type OutboxMsgRepository interface {
	WithDB(db db.DB) OutboxMsgRepository
	CreateOutboxMsg(ctx context.Context, params CreateOutboxMsgParams) error
	// ListUnprocessedOutboxMsgs locks the returned rows, skipping rows locked by
	// other relays, so it must run inside a transaction.
	ListUnprocessedOutboxMsgs(ctx context.Context, params ListUnprocessedOutboxMsgsParams) ([]model.OutboxMsg, error)
	BulkUpdateOutboxMsgs(ctx context.Context, params BulkUpdateOutboxMsgsParams) error
}

type outboxMsgRepository struct {
	db      db.DB
	queries sqlc.Queries
}

func NewOutboxMsgRepository(db db.DB, queries sqlc.Queries) OutboxMsgRepository {
	return &outboxMsgRepository{
		db:      db,
		queries: queries,
	}
}

func (r outboxMsgRepository) WithDB(db db.DB) OutboxMsgRepository {
	return &outboxMsgRepository{
		db:      db,
		queries: r.queries,
	}
}

func (r outboxMsgRepository) CreateOutboxMsg(ctx context.Context, params CreateOutboxMsgParams) error {
	headers, err := marshalHeaders(params.Headers)
	if err != nil {
		return err
	}

	if err := r.queries.OutboxMsgCreate(ctx, r.db, sqlc.OutboxMsgCreateParams{
		Topic:        params.Topic,
		Headers:      headers,
		Payload:      params.Payload,
		PartitionKey: params.PartitionKey,
		CreatedAt:    time.Now(),
	}); err != nil {
		return fmt.Errorf("outbox msg create: %w", err)
	}

	return nil
}

func (r outboxMsgRepository) ListUnprocessedOutboxMsgs(ctx context.Context, params ListUnprocessedOutboxMsgsParams) ([]model.OutboxMsg, error) {
	rows, err := r.queries.OutboxMsgListUnprocessed(ctx, r.db, params.BatchSize)
	if err != nil {
		return nil, fmt.Errorf("outbox msg list unprocessed: %w", err)
	}

	msgs := make([]model.OutboxMsg, len(rows))
	for i, row := range rows {
		if msgs[i], err = toOutboxMsg(row); err != nil {
			return nil, err
		}
	}

	return msgs, nil
}

// BulkUpdateOutboxMsgs marks every item processed in a single statement. An
// item without Error is stored with a NULL error.
func (r outboxMsgRepository) BulkUpdateOutboxMsgs(ctx context.Context, params BulkUpdateOutboxMsgsParams) error {
	if len(params.Items) == 0 {
		return nil
	}

	arg := sqlc.OutboxMsgMarkProcessedParams{
		Ids:    make([]uuid.UUID, len(params.Items)),
		Errors: make([]string, len(params.Items)),
	}
	for i, item := range params.Items {
		arg.Ids[i] = item.ID
		arg.Errors[i] = ptr.ValueOr(item.Error, "")
	}

	if err := r.queries.OutboxMsgMarkProcessed(ctx, r.db, arg); err != nil {
		return fmt.Errorf("outbox msg mark processed: %w", err)
	}

	return nil
}

func marshalHeaders(headers map[string]string) (*json.RawMessage, error) {
	if len(headers) == 0 {
		return nil, nil
	}

	b, err := json.Marshal(headers)
	if err != nil {
		return nil, fmt.Errorf("marshal headers: %w", err)
	}

	raw := json.RawMessage(b)
	return &raw, nil
}

func toOutboxMsg(row sqlc.OutboxMessage) (model.OutboxMsg, error) {
	headers := map[string]string{}
	if row.Headers != nil {
		if err := json.Unmarshal(*row.Headers, &headers); err != nil {
			return model.OutboxMsg{}, fmt.Errorf("unmarshal headers of outbox msg %s: %w", row.ID, err)
		}
	}

	return model.OutboxMsg{
		ID:           row.ID,
		Topic:        row.Topic,
		Headers:      headers,
		Payload:      row.Payload,
		PartitionKey: row.PartitionKey,
		CreatedAt:    row.CreatedAt,
		ProcessedAt:  row.ProcessedAt,
		Error:        row.Error,
	}, nil
}
