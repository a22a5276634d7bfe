package model

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// OutboxMsg is a message written in the same transaction as a state change and
// relayed to the message broker afterwards.
type OutboxMsg struct {
	ID           uuid.UUID
	Topic        string
	Headers      map[string]string
	Payload      json.RawMessage
	PartitionKey *string
	CreatedAt    time.Time
	ProcessedAt  *time.Time
	Error        *string
}
