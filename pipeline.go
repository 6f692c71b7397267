package main

import (
	"time"

	"github.com/ismaildudekula/CoinDCX-CLI/pkg/book"
	"github.com/ismaildudekula/CoinDCX-CLI/pkg/connectors/coindcx"
	"github.com/ismaildudekula/CoinDCX-CLI/pkg/features"
	"github.com/ismaildudekula/CoinDCX-CLI/pkg/metrics"
	"github.com/ismaildudekula/CoinDCX-CLI/pkg/models"
	"github.com/ismaildudekula/CoinDCX-CLI/pkg/strategies"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
)

// pipeline is the single consumer of the stream. Updates are processed one
// at a time in arrival order.
type pipeline struct {
	trigger *strategies.Trigger
	stats   *features.Tracker
	metrics *metrics.Metrics
	logger  zerolog.Logger
}

func (p *pipeline) run(ch <-chan models.ExchangeMessage, statsEvery time.Duration) {
	var statsC <-chan time.Time
	if statsEvery > 0 {
		t := time.NewTicker(statsEvery)
		defer t.Stop()
		statsC = t.C
	}

	for {
		select {
		case msg, ok := <-ch:
			if !ok {
				return
			}
			p.handle(msg)
		case <-statsC:
			p.logStats()
		}
	}
}

func (p *pipeline) handle(msg models.ExchangeMessage) {
	switch msg.MsgType {
	case models.MsgTypeConnected:
		p.logger.Info().Str("channel", msg.Channel).Msg("stream connected")
	case models.MsgTypeDisconnected:
		p.logger.Info().Str("channel", msg.Channel).Msg("stream disconnected")
	case models.MsgTypeTransportError:
		p.metrics.TransportErrors.Inc()
		err, _ := msg.Payload.(error)
		p.logger.Error().Err(err).Msg("connection error")
	case models.MsgTypeDepthUpdate:
		p.logger.Debug().Msg("received depth-update data")
		raw, _ := msg.Payload.([]byte)
		_, err := p.process(raw)
		switch {
		case errors.Is(err, coindcx.ErrNoAsks):
			p.metrics.DepthUpdates.WithLabelValues(metrics.ResultNoAsks).Inc()
			p.logger.Info().Str("reason", "no_asks").Msg("no asks found")
		case err != nil:
			p.metrics.DepthUpdates.WithLabelValues(metrics.ResultFailed).Inc()
			p.logger.Error().Err(err).Msg("error while processing depth-update")
		default:
			p.metrics.DepthUpdates.WithLabelValues(metrics.ResultProcessed).Inc()
		}
	}
}

// process runs one depth update through parse, best price and triggers.
// A parse failure, or a panic before the triggers run, leaves the trigger
// state as it was. Actions already executed by Trigger.See stay executed.
func (p *pipeline) process(raw []byte) (actions []strategies.Action, err error) {
	defer func() {
		if r := recover(); r != nil {
			actions, err = nil, errors.Errorf("panic while processing depth-update: %v", r)
		}
	}()

	snap, skipped, err := coindcx.ParseDepthUpdate(raw)
	if err != nil {
		return nil, err
	}
	if skipped > 0 {
		p.metrics.SkippedLevels.Add(float64(skipped))
		p.logger.Debug().Int("skipped", skipped).Msg("dropped malformed price levels")
	}

	bestAsk := book.BestPrice(snap.Asks, true)
	bestBid := book.BestPrice(snap.Bids, false)

	ev := p.logger.Info()
	if book.IsNoAsk(bestAsk) {
		ev = ev.Str("best_ask", "none")
	} else {
		ev = ev.Stringer("best_ask", bestAsk)
		p.metrics.BestPrice.WithLabelValues("ask").Set(bestAsk.InexactFloat64())
	}
	if book.IsNoBid(bestBid) {
		ev = ev.Str("best_bid", "none")
	} else {
		ev = ev.Stringer("best_bid", bestBid)
		p.metrics.BestPrice.WithLabelValues("bid").Set(bestBid.InexactFloat64())
	}
	ev.Msg("best prices")

	p.stats.Observe(bestBid, bestAsk)

	actions = p.trigger.See(bestBid, bestAsk)
	for _, a := range actions {
		switch a.Type {
		case strategies.ActionOpen:
			p.metrics.OrdersOpened.WithLabelValues(string(a.Side)).Inc()
		case strategies.ActionCancel:
			p.metrics.OrdersCancelled.WithLabelValues(string(a.Side)).Inc()
		}
	}

	return actions, nil
}

func (p *pipeline) logStats() {
	for name, s := range map[string]features.Summary{
		"ask":    p.stats.Asks(),
		"bid":    p.stats.Bids(),
		"spread": p.stats.Spread(),
	} {
		if s.Count == 0 {
			continue
		}
		p.logger.Info().
			Str("series", name).
			Int64("count", s.Count).
			Float64("min", s.Min).
			Float64("max", s.Max).
			Float64("avg", s.Avg).
			Float64("last", s.Last).
			Msg("rolling stats")
	}
}

// logOpenOrders reports simulated orders still open at shutdown.
// Nothing is cancelled for real, there is nothing to cancel.
func (p *pipeline) logOpenOrders() {
	st := p.trigger.State()
	if st.BuyOrderID == "" && st.SellOrderID == "" {
		return
	}
	p.logger.Info().
		Str("buy_order_id", st.BuyOrderID).
		Str("sell_order_id", st.SellOrderID).
		Msg("simulated orders left open")
}
