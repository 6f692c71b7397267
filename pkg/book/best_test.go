package book

import (
	"testing"

	"github.com/ismaildudekula/CoinDCX-CLI/pkg/models"

	"github.com/shopspring/decimal"
)

func levels(kv ...string) models.PriceLevelMap {
	m := models.PriceLevelMap{}
	for i := 0; i+1 < len(kv); i += 2 {
		m.Set(decimal.RequireFromString(kv[i]), decimal.RequireFromString(kv[i+1]))
	}
	return m
}

func TestBestPrice(t *testing.T) {
	cases := []struct {
		name     string
		levels   models.PriceLevelMap
		isAsk    bool
		expected decimal.Decimal
	}{
		{"lowest ask", levels("100", "1", "99.5", "2", "101", "3"), true, decimal.RequireFromString("99.5")},
		{"highest bid", levels("100", "1", "99.5", "2", "101", "3"), false, decimal.RequireFromString("101")},
		{"zero size ask skipped", levels("99", "0", "100", "1"), true, decimal.RequireFromString("100")},
		{"negative size bid skipped", levels("102", "-1", "100", "1"), false, decimal.RequireFromString("100")},
		{"empty asks", levels(), true, NoAsk},
		{"empty bids", levels(), false, NoBid},
		{"all zero asks", levels("100", "0", "101", "0"), true, NoAsk},
		{"all zero bids", levels("100", "0", "101", "-2"), false, NoBid},
		{"nil asks", nil, true, NoAsk},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got := BestPrice(c.levels, c.isAsk)
			if !got.Equal(c.expected) {
				t.Errorf("expected %v, got %v", c.expected, got)
			}
		})
	}
}

func TestBestPriceBounds(t *testing.T) {
	m := levels("50010", "0.5", "50001", "0.1", "50000.5", "0", "50100", "2")

	ask := BestPrice(m, true)
	bid := BestPrice(m, false)
	for _, l := range m {
		if !l.Size.IsPositive() {
			continue
		}
		if ask.GreaterThan(l.Price) {
			t.Errorf("best ask %v is above level %v", ask, l.Price)
		}
		if bid.LessThan(l.Price) {
			t.Errorf("best bid %v is below level %v", bid, l.Price)
		}
	}

	if !ask.Equal(decimal.RequireFromString("50001")) {
		t.Errorf("expected best ask 50001, got %v", ask)
	}
	if !bid.Equal(decimal.RequireFromString("50100")) {
		t.Errorf("expected best bid 50100, got %v", bid)
	}
}

func TestSentinels(t *testing.T) {
	if !IsNoAsk(BestPrice(levels("100", "0"), true)) {
		t.Error("expected zero sized ask book to resolve to NoAsk")
	}
	if !IsNoBid(BestPrice(levels("100", "0"), false)) {
		t.Error("expected zero sized bid book to resolve to NoBid")
	}
	if IsNoAsk(decimal.NewFromInt(100)) {
		t.Error("100 is a real ask")
	}
	if IsNoBid(decimal.NewFromInt(100)) {
		t.Error("100 is a real bid")
	}
}
