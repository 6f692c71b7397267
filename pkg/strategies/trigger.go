package strategies

import (
	"sync"

	"github.com/ismaildudekula/CoinDCX-CLI/pkg/book"
	"github.com/ismaildudekula/CoinDCX-CLI/pkg/models"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// TriggerConfig is set once at startup.
type TriggerConfig struct {
	BuyPrice  decimal.Decimal
	SellPrice decimal.Decimal
}

// TriggerState holds at most one open order id per side.
// An empty id means the side is idle.
type TriggerState struct {
	BuyOrderID  string
	SellOrderID string
}

func (s TriggerState) IsOpen(side models.OrderSide) bool {
	if side == models.OrderSideBuy {
		return s.BuyOrderID != ""
	}
	return s.SellOrderID != ""
}

func (s *TriggerState) set(side models.OrderSide, id string) {
	if side == models.OrderSideBuy {
		s.BuyOrderID = id
		return
	}
	s.SellOrderID = id
}

func (s TriggerState) get(side models.OrderSide) string {
	if side == models.OrderSideBuy {
		return s.BuyOrderID
	}
	return s.SellOrderID
}

type ActionType uint8

const (
	ActionOpen ActionType = iota
	ActionCancel
)

func (t ActionType) String() string {
	if t == ActionOpen {
		return "open"
	}
	return "cancel"
}

// Action is one decision taken on a single depth update.
// Price is set for opens, OrderID for cancels (and for opens once executed).
type Action struct {
	Type    ActionType
	Side    models.OrderSide
	Price   decimal.Decimal
	OrderID string
}

// Evaluate decides what to do for the given best prices without touching
// any state. Actions come in order: buy open, sell open, buy cancel, sell cancel.
//
// Buy side watches the best ask: open at ask <= BuyPrice, cancel at ask > BuyPrice.
// The buy order is priced at the best bid.
// Sell side watches the best bid: open at bid >= SellPrice, cancel at bid < SellPrice.
// The sell order is priced at the best ask.
// Empty sides (book.NoAsk / book.NoBid) never open anything.
func Evaluate(cfg TriggerConfig, st TriggerState, bestBid, bestAsk decimal.Decimal) []Action {
	var actions []Action

	if !st.IsOpen(models.OrderSideBuy) &&
		!book.IsNoAsk(bestAsk) &&
		bestAsk.LessThanOrEqual(cfg.BuyPrice) {
		actions = append(actions, Action{Type: ActionOpen, Side: models.OrderSideBuy, Price: bestBid})
	}

	if !st.IsOpen(models.OrderSideSell) &&
		!book.IsNoBid(bestBid) &&
		bestBid.GreaterThanOrEqual(cfg.SellPrice) {
		actions = append(actions, Action{Type: ActionOpen, Side: models.OrderSideSell, Price: bestAsk})
	}

	if st.IsOpen(models.OrderSideBuy) && bestAsk.GreaterThan(cfg.BuyPrice) {
		actions = append(actions, Action{Type: ActionCancel, Side: models.OrderSideBuy, OrderID: st.BuyOrderID})
	}

	if st.IsOpen(models.OrderSideSell) && bestBid.LessThan(cfg.SellPrice) {
		actions = append(actions, Action{Type: ActionCancel, Side: models.OrderSideSell, OrderID: st.SellOrderID})
	}

	return actions
}

// OrderPlacer opens and cancels orders on behalf of the Trigger.
type OrderPlacer interface {
	Open(side models.OrderSide, price decimal.Decimal) string
	Cancel(orderID string)
}

// Trigger keeps the per side state machine and executes the actions
// Evaluate comes up with.
type Trigger struct {
	cfg    TriggerConfig
	state  TriggerState
	placer OrderPlacer
	logger zerolog.Logger

	mux sync.Mutex
}

func NewTrigger(cfg TriggerConfig, placer OrderPlacer, logger zerolog.Logger) *Trigger {
	return &Trigger{
		cfg:    cfg,
		placer: placer,
		logger: logger.With().Str("component", "trigger").Logger(),
	}
}

var actionMessages = map[ActionType]map[models.OrderSide]string{
	ActionOpen: {
		models.OrderSideBuy:  "buy trigger hit, preparing BUY order payload",
		models.OrderSideSell: "sell trigger hit, preparing SELL order payload",
	},
	ActionCancel: {
		models.OrderSideBuy:  "buy price exceeded, simulating cancellation of BUY order",
		models.OrderSideSell: "sell price fell below trigger, simulating cancellation of SELL order",
	},
}

// See evaluates one pair of best prices and executes the resulting actions.
// Calls are serialized, so one update is always applied as a whole.
// Returned actions carry the order ids that were opened or cancelled.
func (t *Trigger) See(bestBid, bestAsk decimal.Decimal) []Action {
	t.mux.Lock()
	defer t.mux.Unlock()

	t.logger.Debug().
		Stringer("best_bid", bestBid).
		Stringer("best_ask", bestAsk).
		Msg("checking triggers")

	actions := Evaluate(t.cfg, t.state, bestBid, bestAsk)
	for i, a := range actions {
		t.logger.Info().Msg(actionMessages[a.Type][a.Side])
		switch a.Type {
		case ActionOpen:
			actions[i].OrderID = t.placer.Open(a.Side, a.Price)
			t.state.set(a.Side, actions[i].OrderID)
		case ActionCancel:
			t.placer.Cancel(a.OrderID)
			if t.state.get(a.Side) == a.OrderID {
				t.state.set(a.Side, "")
			}
		}
	}

	return actions
}

// State returns a copy of the current trigger state.
func (t *Trigger) State() TriggerState {
	t.mux.Lock()
	defer t.mux.Unlock()

	return t.state
}

// Config returns the trigger prices the Trigger was built with.
func (t *Trigger) Config() TriggerConfig {
	return t.cfg
}
