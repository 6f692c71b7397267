package main

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/ismaildudekula/CoinDCX-CLI/pkg/connectors/coindcx"
)

func TestBBORow(t *testing.T) {
	ts := time.UnixMilli(1700000000123)
	cases := []struct {
		name     string
		data     string
		expected []string
	}{
		{"both sides", `{"asks":{"50001":"1","50002":"1"},"bids":{"49999":"2","49000":"1"}}`, []string{"1700000000123", "50001", "49999"}},
		{"empty sides", `{"asks":{"50001":"0"},"bids":{}}`, []string{"1700000000123", "0", "0"}},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			raw, _ := json.Marshal(map[string]string{"data": c.data})
			row, err := bboRow(ts, raw)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(row) != len(c.expected) {
				t.Fatalf("expected %v, got %v", c.expected, row)
			}
			for i := range row {
				if row[i] != c.expected[i] {
					t.Errorf("column %d: expected %q, got %q", i, c.expected[i], row[i])
				}
			}
		})
	}

	raw, _ := json.Marshal(map[string]string{"data": `{"bids":{}}`})
	if _, err := bboRow(ts, raw); !errors.Is(err, coindcx.ErrNoAsks) {
		t.Errorf("expected ErrNoAsks, got %v", err)
	}
}
