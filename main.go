package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/ismaildudekula/CoinDCX-CLI/pkg/config"
	"github.com/ismaildudekula/CoinDCX-CLI/pkg/connectors/coindcx"
	"github.com/ismaildudekula/CoinDCX-CLI/pkg/features"
	"github.com/ismaildudekula/CoinDCX-CLI/pkg/logger"
	"github.com/ismaildudekula/CoinDCX-CLI/pkg/metrics"
	"github.com/ismaildudekula/CoinDCX-CLI/pkg/models"
	"github.com/ismaildudekula/CoinDCX-CLI/pkg/orders"
	"github.com/ismaildudekula/CoinDCX-CLI/pkg/strategies"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

func main() {
	cfg, err := config.Load(os.Args[0], os.Args[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	if err := cfg.Prompt(os.Stdin, os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	if err := cfg.Validate(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	log := logger.New(os.Stderr, cfg.Log.Level, cfg.Log.Pretty)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	err = run(ctx, cfg, log)
	cancel()
	if err != nil {
		log.Error().Err(err).Msg("stream stopped")
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, log zerolog.Logger) error {
	m := metrics.New()
	sim := orders.NewSimulator(cfg.Market, cfg.OrderQuantity.Decimal, log)
	trigger := strategies.NewTrigger(strategies.TriggerConfig{
		BuyPrice:  cfg.BuyTriggerPrice.Decimal,
		SellPrice: cfg.SellTriggerPrice.Decimal,
	}, sim, log)

	p := &pipeline{
		trigger: trigger,
		stats:   features.NewTracker(cfg.StatsWindowSize, cfg.StatsWindow.Duration),
		metrics: m,
		logger:  log,
	}

	log.Info().
		Str("market", cfg.Market).
		Stringer("buy_trigger_price", trigger.Config().BuyPrice).
		Stringer("sell_trigger_price", trigger.Config().SellPrice).
		Msg("starting")

	ch := make(chan models.ExchangeMessage, 100)
	stream := coindcx.NewCoinDCX(cfg.StreamURL, cfg.Channel, log)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		defer close(ch)
		// No reconnect here: a broken stream ends the process with status 1
		// and the supervisor restarts it.
		return stream.Listen(ctx, ch)
	})

	if cfg.MetricsAddr != "" {
		g.Go(func() error {
			return m.Serve(ctx, cfg.MetricsAddr, log)
		})
	}

	g.Go(func() error {
		p.run(ch, cfg.StatsInterval.Duration)
		return nil
	})

	err := g.Wait()
	p.logOpenOrders()
	return err
}
