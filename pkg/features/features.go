package features

import (
	"math"
	"time"

	"github.com/ismaildudekula/CoinDCX-CLI/pkg/book"

	"github.com/c-pro/rolling"
	"github.com/shopspring/decimal"
)

// Tracker keeps rolling windows of best ask, best bid and spread.
// BEWARE: no locking, feed it from the same goroutine that reads it.
type Tracker struct {
	maxSize  int64
	duration time.Duration

	asks   *rolling.Window
	bids   *rolling.Window
	spread *rolling.Window
}

func NewTracker(maxSize int64, duration time.Duration) *Tracker {
	return &Tracker{
		maxSize:  maxSize,
		duration: duration,
		asks:     rolling.NewWindow(maxSize, duration),
		bids:     rolling.NewWindow(maxSize, duration),
		spread:   rolling.NewWindow(maxSize, duration),
	}
}

// Observe records one pair of best prices. Empty book sides are not recorded,
// and spread only when both sides are present.
func (t *Tracker) Observe(bestBid, bestAsk decimal.Decimal) {
	hasAsk := !book.IsNoAsk(bestAsk)
	hasBid := !book.IsNoBid(bestBid)

	if hasAsk {
		t.asks = t.add(t.asks, bestAsk.InexactFloat64())
	}
	if hasBid {
		t.bids = t.add(t.bids, bestBid.InexactFloat64())
	}
	if hasAsk && hasBid {
		t.spread = t.add(t.spread, bestAsk.Sub(bestBid).InexactFloat64())
	}
}

// A drained rolling.Window keeps a NaN sum forever, so start a new one.
func (t *Tracker) add(w *rolling.Window, v float64) *rolling.Window {
	w.Evict()
	if w.Count() == 0 {
		w = rolling.NewWindow(t.maxSize, t.duration)
	}
	w.Add(v)
	return w
}

type Summary struct {
	Count int64
	Min   float64
	Max   float64
	Avg   float64
	Last  float64
}

func summarize(w *rolling.Window) Summary {
	w.Evict()
	if w.Count() == 0 {
		return Summary{Min: math.NaN(), Max: math.NaN(), Avg: math.NaN(), Last: math.NaN()}
	}

	return Summary{
		Count: w.Count(),
		Min:   w.Min(),
		Max:   w.Max(),
		Avg:   w.Avg(),
		Last:  w.Last(),
	}
}

func (t *Tracker) Asks() Summary {
	return summarize(t.asks)
}

func (t *Tracker) Bids() Summary {
	return summarize(t.bids)
}

func (t *Tracker) Spread() Summary {
	return summarize(t.spread)
}
