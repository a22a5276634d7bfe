package model

import (
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// MaxQuantity is the largest on-hand quantity a product can hold.
const MaxQuantity = math.MaxInt32

// Product is a stocked item addressed externally by its SKU.
type Product struct {
	ID          uuid.UUID
	Sku         string
	Name        string
	Description *string
	Price       decimal.Decimal
	Quantity    int
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// IsNew reports whether the product has not been persisted yet.
func (p Product) IsNew() bool {
	return p.ID == uuid.Nil
}
