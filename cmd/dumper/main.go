package main

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/ismaildudekula/CoinDCX-CLI/pkg/book"
	"github.com/ismaildudekula/CoinDCX-CLI/pkg/config"
	"github.com/ismaildudekula/CoinDCX-CLI/pkg/connectors/coindcx"
	"github.com/ismaildudekula/CoinDCX-CLI/pkg/logger"
	"github.com/ismaildudekula/CoinDCX-CLI/pkg/models"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

type mw struct {
	w *csv.Writer
	m *sync.Mutex
}

func (w mw) flush() {
	w.m.Lock()
	w.w.Flush()
	w.m.Unlock()
}

func main() {
	cfg, err := config.Load(os.Args[0], os.Args[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	if err := cfg.ValidateStream(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	log := logger.New(os.Stderr, cfg.Log.Level, cfg.Log.Pretty)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	err = run(ctx, cfg, log)
	cancel()
	if err != nil {
		log.Error().Err(err).Msg("dumper stopped")
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, log zerolog.Logger) error {
	path := filepath.Join(cfg.DumpDir, fmt.Sprintf("coindcx-%s-bbo.csv", strings.ToLower(cfg.Market)))
	f, err := os.OpenFile(path, os.O_RDWR|os.O_APPEND|os.O_CREATE, 0o644)
	if err != nil {
		return errors.Wrapf(err, "failed to open %q", path)
	}
	defer f.Close()

	w := mw{w: csv.NewWriter(f), m: &sync.Mutex{}}
	defer w.flush()

	log.Info().Str("file", path).Msg("dumping best bid/offer")

	ch := make(chan models.ExchangeMessage, 100)
	stream := coindcx.NewCoinDCX(cfg.StreamURL, cfg.Channel, log)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		defer close(ch)
		return stream.Listen(ctx, ch)
	})

	g.Go(func() error {
		t := time.NewTicker(time.Second)
		defer t.Stop()
		for {
			select {
			case <-ctx.Done():
				return nil
			case <-t.C:
			}
			w.flush()
		}
	})

	g.Go(func() error {
		for msg := range ch {
			if msg.MsgType != models.MsgTypeDepthUpdate {
				continue
			}
			raw, _ := msg.Payload.([]byte)
			row, err := bboRow(msg.Timestamp, raw)
			if err != nil {
				if !errors.Is(err, coindcx.ErrNoAsks) {
					log.Warn().Err(err).Msg("skipping depth-update")
				}
				continue
			}

			w.m.Lock()
			err = w.w.Write(row)
			w.m.Unlock()
			if err != nil {
				log.Error().Err(err).Msg("failed to write row to csv")
			}
		}
		return nil
	})

	return g.Wait()
}

// bboRow turns a depth update into ts_ms,best_ask,best_bid.
// Empty book sides are written as 0.
func bboRow(ts time.Time, raw []byte) ([]string, error) {
	snap, _, err := coindcx.ParseDepthUpdate(raw)
	if err != nil {
		return nil, err
	}

	ask := book.BestPrice(snap.Asks, true)
	askStr := ask.String()
	if book.IsNoAsk(ask) {
		askStr = "0"
	}

	return []string{
		strconv.FormatInt(ts.UnixMilli(), 10),
		askStr,
		book.BestPrice(snap.Bids, false).String(),
	}, nil
}
