package event

import (
	"context"
	"log/slog"
)

func (s *Service) handleProductCreatedEvent(ctx context.Context, ev ProductCreatedEvent) error {
	s.logger.InfoContext(ctx, "handling product created event",
		slog.String("product_id", ev.ProductID),
		slog.String("sku", ev.Sku),
		slog.String("price", ev.Price.String()),
		slog.Int("quantity", ev.Quantity),
	)
	return nil
}

func (s *Service) handleProductRestockedEvent(ctx context.Context, ev ProductRestockedEvent) error {
	s.logger.InfoContext(ctx, "handling product restocked event",
		slog.String("product_id", ev.ProductID),
		slog.String("sku", ev.Sku),
		slog.Int("quantity_added", ev.QuantityAdded),
		slog.Int("quantity", ev.Quantity),
	)
	return nil
}
