package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type OrderSide string

const (
	OrderSideBuy  OrderSide = "buy"
	OrderSideSell OrderSide = "sell"
)

type OrderType string

const (
	OrderTypeLimit OrderType = "limit_order"
)

// SimulatedOrder is never sent anywhere. Only ClientOrderID outlives the
// log line it is written to.
type SimulatedOrder struct {
	Side          OrderSide
	Type          OrderType
	Market        string
	Price         decimal.Decimal
	Quantity      decimal.Decimal
	CreatedAt     time.Time
	ClientOrderID string
}
