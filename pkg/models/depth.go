package models

import (
	"github.com/shopspring/decimal"
)

// PriceLevelMap is one side of the book: price -> quantity.
// Levels with quantity <= 0 are kept, they mean the level was emptied.
type PriceLevelMap map[string]PriceLevel

type PriceLevel struct {
	Price decimal.Decimal
	Size  decimal.Decimal
}

// Set stores a level keyed by its canonical price string, so "100" and
// "100.0" end up in the same slot.
func (m PriceLevelMap) Set(price, size decimal.Decimal) {
	m[price.String()] = PriceLevel{Price: price, Size: size}
}

// BookSnapshot replaces whatever was seen before. No history is kept.
type BookSnapshot struct {
	Asks PriceLevelMap
	Bids PriceLevelMap
}
