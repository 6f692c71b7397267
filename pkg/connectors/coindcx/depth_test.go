package coindcx

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/ismaildudekula/CoinDCX-CLI/pkg/book"
	"github.com/ismaildudekula/CoinDCX-CLI/pkg/models"

	"github.com/shopspring/decimal"
)

// envelope wraps data the way CoinDCX does: as a JSON encoded string.
func envelope(t *testing.T, data string) []byte {
	t.Helper()
	b, err := json.Marshal(map[string]string{"event": "depth-update", "data": data})
	if err != nil {
		t.Fatal(err)
	}
	return b
}

func TestParseDepthUpdate(t *testing.T) {
	raw := envelope(t, `{"ts":1700000000000,"vs":1,"asks":{"49999":"1","50010.5":"0.2","50100":"0"},"bids":{"49998":1,"49000":"0.5"}}`)

	snap, skipped, err := ParseDepthUpdate(raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if skipped != 0 {
		t.Errorf("expected nothing skipped, got %d", skipped)
	}
	if len(snap.Asks) != 3 {
		t.Errorf("expected 3 ask levels (zero sized included), got %d", len(snap.Asks))
	}
	if len(snap.Bids) != 2 {
		t.Errorf("expected 2 bid levels, got %d", len(snap.Bids))
	}

	if l := snap.Asks["50100"]; !l.Size.IsZero() {
		t.Errorf("expected zero sized level to be kept, got %+v", l)
	}
	if l := snap.Bids["49998"]; !l.Size.Equal(decimal.NewFromInt(1)) {
		t.Errorf("expected numeric size to parse, got %+v", l)
	}
}

func TestParseDepthUpdateObjectData(t *testing.T) {
	raw := []byte(`{"data":{"asks":{"100":"1"},"bids":{}}}`)

	snap, _, err := ParseDepthUpdate(raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(snap.Asks) != 1 || len(snap.Bids) != 0 {
		t.Errorf("unexpected snapshot %+v", snap)
	}
}

func TestParseDepthUpdateMalformedEntry(t *testing.T) {
	raw := envelope(t, `{"asks":{"abc":1,"100":2,"101":"x"},"bids":{"99":1}}`)

	snap, skipped, err := ParseDepthUpdate(raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if skipped != 2 {
		t.Errorf("expected 2 skipped entries, got %d", skipped)
	}

	ask := book.BestPrice(snap.Asks, true)
	if !ask.Equal(decimal.NewFromInt(100)) {
		t.Errorf("expected best ask 100, got %v", ask)
	}
}

func TestParseDepthUpdateExtremeExponent(t *testing.T) {
	raw := envelope(t, `{"asks":{"1e40000000":1,"1e-40000000":1,"100":1,"101":"1e40000000"},"bids":{"99":1}}`)

	done := make(chan struct{})
	var (
		ask     decimal.Decimal
		skipped int
		err     error
	)
	go func() {
		defer close(done)
		var snap models.BookSnapshot
		snap, skipped, err = ParseDepthUpdate(raw)
		ask = book.BestPrice(snap.Asks, true)
	}()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("parsing extreme exponents took too long")
	}

	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if skipped != 3 {
		t.Errorf("expected 3 skipped entries, got %d", skipped)
	}
	if !ask.Equal(decimal.NewFromInt(100)) {
		t.Errorf("expected best ask 100, got %v", ask)
	}
}

func TestParseDepthUpdateErrors(t *testing.T) {
	cases := []struct {
		name     string
		raw      []byte
		expected error
	}{
		{"no asks", envelope(t, `{"bids":{"99":1}}`), ErrNoAsks},
		{"null asks", envelope(t, `{"asks":null,"bids":{"99":1}}`), ErrNoAsks},
		{"no bids", envelope(t, `{"asks":{"99":1}}`), ErrNoBids},
		{"not json", []byte(`nope`), ErrMalformedPayload},
		{"no data", []byte(`{"event":"depth-update"}`), ErrMalformedPayload},
		{"data not json", envelope(t, `{{`), ErrMalformedPayload},
		{"asks not an object", envelope(t, `{"asks":[1,2],"bids":{}}`), ErrMalformedPayload},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			_, _, err := ParseDepthUpdate(c.raw)
			if !errors.Is(err, c.expected) {
				t.Errorf("expected %v, got %v", c.expected, err)
			}
		})
	}
}

func TestParseDepthUpdateZeroAsks(t *testing.T) {
	raw := envelope(t, `{"asks":{"100":0},"bids":{}}`)

	snap, _, err := ParseDepthUpdate(raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !book.IsNoAsk(book.BestPrice(snap.Asks, true)) {
		t.Error("expected zero sized asks to resolve to NoAsk")
	}
}
