package event

import (
	"github.com/shopspring/decimal"
)

const (
	TopicProductCreated   = "product.created"
	TopicProductRestocked = "product.restocked"
)

type ProductCreatedEvent struct {
	ProductID string          `json:"product_id"`
	Sku       string          `json:"sku"`
	Name      string          `json:"name"`
	Price     decimal.Decimal `json:"price"`
	Quantity  int             `json:"quantity"`
}

type ProductRestockedEvent struct {
	ProductID     string `json:"product_id"`
	Sku           string `json:"sku"`
	QuantityAdded int    `json:"quantity_added"`
	Quantity      int    `json:"quantity"`
}
