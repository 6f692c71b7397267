package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func TestSimulatedOrderJSON(t *testing.T) {
	o := SimulatedOrder{
		Side:          OrderSideBuy,
		Type:          OrderTypeLimit,
		Market:        "BTCUSDT",
		Price:         decimal.RequireFromString("49998.5"),
		Quantity:      decimal.RequireFromString("0.001"),
		CreatedAt:     time.Unix(1700000000, 0),
		ClientOrderID: "0b5a9a63-3c47-4b4e-9d1e-7a3f0cf0c0de",
	}

	b, err := json.Marshal(o)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	expected := `{"side":"buy","order_type":"limit_order","market":"BTCUSDT",` +
		`"price_per_unit":49998.5,"total_quantity":"0.001","timestamp":1700000000,` +
		`"client_order_id":"0b5a9a63-3c47-4b4e-9d1e-7a3f0cf0c0de"}`
	if string(b) != expected {
		t.Errorf("expected %s, got %s", expected, string(b))
	}
}
