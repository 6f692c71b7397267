package orders

import (
	"time"

	"github.com/ismaildudekula/CoinDCX-CLI/pkg/models"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// Simulator builds limit orders and logs them instead of placing them.
// Neither Open nor Cancel can fail.
type Simulator struct {
	market   string
	quantity decimal.Decimal
	logger   zerolog.Logger

	now func() time.Time
}

func NewSimulator(market string, quantity decimal.Decimal, logger zerolog.Logger) *Simulator {
	return &Simulator{
		market:   market,
		quantity: quantity,
		logger:   logger.With().Str("component", "order_simulator").Logger(),
		now:      time.Now,
	}
}

// Open builds a limit order on the given side and returns its client order id.
func (s *Simulator) Open(side models.OrderSide, price decimal.Decimal) string {
	order := models.SimulatedOrder{
		Side:          side,
		Type:          models.OrderTypeLimit,
		Market:        s.market,
		Price:         price,
		Quantity:      s.quantity,
		CreatedAt:     s.now().UTC(),
		ClientOrderID: uuid.New().String(),
	}

	b, err := order.MarshalJSON()
	if err != nil {
		s.logger.Error().Err(err).Str("client_order_id", order.ClientOrderID).Msg("failed to encode order payload")
		return order.ClientOrderID
	}

	s.logger.Info().
		Str("side", string(side)).
		RawJSON("payload", b).
		Msg("prepared order payload")

	return order.ClientOrderID
}

// Cancel trusts the caller to pass an id it got from Open.
func (s *Simulator) Cancel(orderID string) {
	s.logger.Info().Str("client_order_id", orderID).Msg("order cancelled")
}
