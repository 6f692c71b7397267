// Package config builds the bot configuration from defaults, an optional
// TOML file, .env / TRIGGER_* environment variables, command line flags and,
// for trigger prices still missing, an interactive prompt.
package config

import (
	"bufio"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

type Config struct {
	BuyTriggerPrice  Price `toml:"buy_trigger_price"`
	SellTriggerPrice Price `toml:"sell_trigger_price"`

	Market        string `toml:"market"`
	Channel       string `toml:"channel"`
	StreamURL     string `toml:"stream_url"`
	OrderQuantity Price  `toml:"order_quantity"`

	StatsInterval   duration `toml:"stats_interval"`
	StatsWindow     duration `toml:"stats_window"`
	StatsWindowSize int64    `toml:"stats_window_size"`

	MetricsAddr string `toml:"metrics_addr"`
	DumpDir     string `toml:"dump_dir"`

	Log LogConfig `toml:"log"`
}

type LogConfig struct {
	Level  string `toml:"level"`
	Pretty bool   `toml:"pretty"`
}

func Defaults() Config {
	return Config{
		Market:          "BTCUSDT",
		Channel:         "B-BTC_USDT@orderbook@10",
		StreamURL:       "wss://stream.coindcx.com",
		OrderQuantity:   NewPrice(decimal.RequireFromString("0.001")),
		StatsInterval:   duration{time.Minute},
		StatsWindow:     duration{5 * time.Minute},
		StatsWindowSize: 100000,
		DumpDir:         ".",
		Log: LogConfig{
			Level:  "info",
			Pretty: true,
		},
	}
}

// Price is a decimal that remembers whether it was ever set.
// It can be decoded from TOML and used as a flag.Value.
type Price struct {
	decimal.Decimal
	set bool
}

func NewPrice(d decimal.Decimal) Price {
	return Price{Decimal: d, set: true}
}

func (p Price) IsSet() bool {
	return p.set
}

func (p *Price) Set(s string) error {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return errors.Errorf("%q is not a number", s)
	}

	p.Decimal = d
	p.set = true
	return nil
}

func (p *Price) UnmarshalText(text []byte) error {
	return p.Set(string(text))
}

func (p Price) MarshalText() ([]byte, error) {
	return []byte(p.Decimal.String()), nil
}

type duration struct {
	time.Duration
}

func (d *duration) UnmarshalText(text []byte) error {
	var err error
	d.Duration, err = time.ParseDuration(string(text))
	return err
}

func (d duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// Prompt asks for every trigger price that is still unset.
func (c *Config) Prompt(in io.Reader, out io.Writer) error {
	sc := bufio.NewScanner(in)
	sc.Split(bufio.ScanWords)

	ask := func(label string, dst *Price) error {
		if dst.IsSet() {
			return nil
		}

		fmt.Fprintf(out, "Enter %s Trigger Price: ", label)
		if !sc.Scan() {
			if err := sc.Err(); err != nil {
				return errors.Wrapf(err, "failed to read %s trigger price", strings.ToLower(label))
			}
			return errors.Errorf("no %s trigger price given", strings.ToLower(label))
		}

		return errors.Wrapf(dst.Set(sc.Text()), "bad %s trigger price", strings.ToLower(label))
	}

	if err := ask("Buy", &c.BuyTriggerPrice); err != nil {
		return err
	}

	return ask("Sell", &c.SellTriggerPrice)
}

// Validate checks everything the trigger bot needs.
func (c *Config) Validate() error {
	var errs []string

	checkPrice := func(name string, p Price) {
		switch {
		case !p.IsSet():
			errs = append(errs, name+" is not set")
		case !p.IsPositive():
			errs = append(errs, fmt.Sprintf("%s must be positive, got %v", name, p.Decimal))
		}
	}
	checkPrice("buy_trigger_price", c.BuyTriggerPrice)
	checkPrice("sell_trigger_price", c.SellTriggerPrice)
	checkPrice("order_quantity", c.OrderQuantity)

	if c.StatsInterval.Duration < 0 {
		errs = append(errs, "stats_interval must not be negative")
	}
	if c.StatsWindow.Duration <= 0 {
		errs = append(errs, "stats_window must be positive")
	}
	if c.StatsWindowSize <= 0 {
		errs = append(errs, "stats_window_size must be positive")
	}

	return joinErrors(append(errs, c.streamErrors()...))
}

// ValidateStream checks only what is needed to read the stream.
func (c *Config) ValidateStream() error {
	return joinErrors(c.streamErrors())
}

func (c *Config) streamErrors() []string {
	var errs []string
	if c.Market == "" {
		errs = append(errs, "market must not be empty")
	}
	if c.Channel == "" {
		errs = append(errs, "channel must not be empty")
	}
	if c.StreamURL == "" {
		errs = append(errs, "stream_url must not be empty")
	}
	if _, err := zerolog.ParseLevel(strings.ToLower(c.Log.Level)); err != nil {
		errs = append(errs, fmt.Sprintf("unknown log level %q", c.Log.Level))
	}
	return errs
}

func joinErrors(errs []string) error {
	if len(errs) > 0 {
		return errors.Errorf("config validation failed:\n  - %s", strings.Join(errs, "\n  - "))
	}
	return nil
}
