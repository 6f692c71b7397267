package config

import (
	"flag"
	"os"
	"strconv"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
	"github.com/pkg/errors"
)

// Load parses args (without the program name) and returns the merged
// configuration. Precedence, lowest first: defaults, TOML file given with
// -config, .env and TRIGGER_* environment variables, flags.
// The result is not validated and may still miss trigger prices.
func Load(name string, args []string) (*Config, error) {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)

	var buy, sell Price
	path := fs.String("config", "", "path to TOML config file")
	fs.Var(&buy, "buy", "buy trigger price")
	fs.Var(&sell, "sell", "sell trigger price")
	metrics := fs.String("metrics", "", "address to serve prometheus metrics on, e.g. :9090")
	level := fs.String("log-level", "", "log level (debug, info, warn, error)")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	cfg := Defaults()
	if *path != "" {
		if _, err := toml.DecodeFile(*path, &cfg); err != nil {
			return nil, errors.Wrapf(err, "failed to read config %q", *path)
		}
	}

	// Missing .env is fine.
	_ = godotenv.Load()

	if err := applyEnvOverrides(&cfg); err != nil {
		return nil, err
	}

	if buy.IsSet() {
		cfg.BuyTriggerPrice = buy
	}
	if sell.IsSet() {
		cfg.SellTriggerPrice = sell
	}
	if *metrics != "" {
		cfg.MetricsAddr = *metrics
	}
	if *level != "" {
		cfg.Log.Level = *level
	}

	return &cfg, nil
}

func applyEnvOverrides(cfg *Config) error {
	for key, dst := range map[string]*Price{
		"TRIGGER_BUY_PRICE":      &cfg.BuyTriggerPrice,
		"TRIGGER_SELL_PRICE":     &cfg.SellTriggerPrice,
		"TRIGGER_ORDER_QUANTITY": &cfg.OrderQuantity,
	} {
		if err := setPrice(dst, key); err != nil {
			return err
		}
	}

	setStr(&cfg.Market, "TRIGGER_MARKET")
	setStr(&cfg.Channel, "TRIGGER_CHANNEL")
	setStr(&cfg.StreamURL, "TRIGGER_STREAM_URL")
	setStr(&cfg.MetricsAddr, "TRIGGER_METRICS_ADDR")
	setStr(&cfg.DumpDir, "TRIGGER_DUMP_DIR")
	setStr(&cfg.Log.Level, "TRIGGER_LOG_LEVEL")
	setBool(&cfg.Log.Pretty, "TRIGGER_LOG_PRETTY")
	setDuration(&cfg.StatsInterval, "TRIGGER_STATS_INTERVAL")
	setDuration(&cfg.StatsWindow, "TRIGGER_STATS_WINDOW")

	return nil
}

func setPrice(dst *Price, key string) error {
	if v := os.Getenv(key); v != "" {
		return errors.Wrap(dst.Set(v), key)
	}
	return nil
}

func setStr(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setBool(dst *bool, key string) {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			*dst = b
		}
	}
}

func setDuration(dst *duration, key string) {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			dst.Duration = d
		}
	}
}
