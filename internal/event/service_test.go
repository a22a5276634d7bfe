package event

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tuanvumaihuynh/product-inventory/internal/storage/mq"
)

type fakeConsumer struct {
	handlers map[string]mq.HandlerFunc
	runErr   error
	cleaned  bool
}

func newFakeConsumer() *fakeConsumer {
	return &fakeConsumer{handlers: make(map[string]mq.HandlerFunc)}
}

func (c *fakeConsumer) RegisterHandler(topic string, handler mq.HandlerFunc) error {
	if _, ok := c.handlers[topic]; ok {
		return errors.New("already registered")
	}
	c.handlers[topic] = handler
	return nil
}

func (c *fakeConsumer) Run(context.Context) (mq.CleanupFunc, error) {
	if c.runErr != nil {
		return nil, c.runErr
	}
	return func() { c.cleaned = true }, nil
}

func newTestService(t *testing.T) (*Service, *fakeConsumer, *bytes.Buffer) {
	t.Helper()

	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))
	consumer := newFakeConsumer()

	return New(logger, consumer), consumer, &buf
}

func TestService_Run(t *testing.T) {
	t.Run("Should register every product topic", func(t *testing.T) {
		svc, consumer, _ := newTestService(t)

		cleanup, err := svc.Run(context.Background())
		require.NoError(t, err)

		assert.Contains(t, consumer.handlers, TopicProductCreated)
		assert.Contains(t, consumer.handlers, TopicProductRestocked)

		cleanup()
		assert.True(t, consumer.cleaned)
	})

	t.Run("Should fail when the consumer cannot start", func(t *testing.T) {
		svc, consumer, _ := newTestService(t)
		consumer.runErr = errors.New("broker unreachable")

		_, err := svc.Run(context.Background())
		assert.ErrorContains(t, err, "broker unreachable")
	})

	t.Run("Should fail on duplicate registration", func(t *testing.T) {
		svc, _, _ := newTestService(t)

		require.NoError(t, svc.RegisterHandlers())
		assert.Error(t, svc.RegisterHandlers())
	})
}

func TestService_Handlers(t *testing.T) {
	ctx := context.Background()

	t.Run("Should decode product restocked events", func(t *testing.T) {
		svc, consumer, buf := newTestService(t)
		require.NoError(t, svc.RegisterHandlers())

		payload := []byte(`{"product_id":"p-1","sku":"SKU-1","quantity_added":5,"quantity":15}`)
		require.NoError(t, consumer.handlers[TopicProductRestocked](ctx, TopicProductRestocked, payload))

		assert.Contains(t, buf.String(), `"msg":"handling product restocked event"`)
		assert.Contains(t, buf.String(), `"quantity_added":5`)
		assert.Contains(t, buf.String(), `"service":"event"`)
	})

	t.Run("Should decode product created events", func(t *testing.T) {
		svc, consumer, buf := newTestService(t)
		require.NoError(t, svc.RegisterHandlers())

		payload := []byte(`{"product_id":"p-1","sku":"SKU-1","name":"Widget","price":"9.99","quantity":3}`)
		require.NoError(t, consumer.handlers[TopicProductCreated](ctx, TopicProductCreated, payload))

		assert.Contains(t, buf.String(), `"price":"9.99"`)
	})

	t.Run("Should reject malformed payloads", func(t *testing.T) {
		svc, consumer, _ := newTestService(t)
		require.NoError(t, svc.RegisterHandlers())

		err := consumer.handlers[TopicProductCreated](ctx, TopicProductCreated, []byte(`not json`))
		assert.ErrorContains(t, err, "unmarshal product.created event")
	})
}
