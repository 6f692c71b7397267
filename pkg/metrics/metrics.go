package metrics

import (
	"context"
	"net/http"
	"time"

	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
)

const (
	ResultProcessed = "processed"
	ResultNoAsks    = "no_asks"
	ResultFailed    = "failed"
)

type Metrics struct {
	reg *prometheus.Registry

	DepthUpdates    *prometheus.CounterVec
	SkippedLevels   prometheus.Counter
	OrdersOpened    *prometheus.CounterVec
	OrdersCancelled *prometheus.CounterVec
	BestPrice       *prometheus.GaugeVec
	TransportErrors prometheus.Counter
}

func New() *Metrics {
	m := &Metrics{
		reg: prometheus.NewRegistry(),
		DepthUpdates: prometheus.NewCounterVec(
			prometheus.CounterOpts{Name: "depth_updates_total", Help: "Depth updates by processing result"},
			[]string{"result"},
		),
		SkippedLevels: prometheus.NewCounter(
			prometheus.CounterOpts{Name: "skipped_price_levels_total", Help: "Price levels dropped as malformed"},
		),
		OrdersOpened: prometheus.NewCounterVec(
			prometheus.CounterOpts{Name: "orders_opened_total", Help: "Simulated orders opened by side"},
			[]string{"side"},
		),
		OrdersCancelled: prometheus.NewCounterVec(
			prometheus.CounterOpts{Name: "orders_cancelled_total", Help: "Simulated orders cancelled by side"},
			[]string{"side"},
		),
		BestPrice: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{Name: "best_price", Help: "Latest best price by book side"},
			[]string{"side"},
		),
		TransportErrors: prometheus.NewCounter(
			prometheus.CounterOpts{Name: "transport_errors_total", Help: "Stream transport errors"},
		),
	}

	m.reg.MustRegister(
		m.DepthUpdates, m.SkippedLevels, m.OrdersOpened, m.OrdersCancelled, m.BestPrice, m.TransportErrors,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return m
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.reg, promhttp.HandlerOpts{})
}

// Serve exposes /metrics on addr until ctx is done.
func (m *Metrics) Serve(ctx context.Context, addr string, logger zerolog.Logger) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", m.Handler())
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	logger.Info().Str("addr", addr).Msg("serving prometheus metrics")
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return errors.Wrap(err, "metrics server failed")
	}
	return nil
}
