package book

import (
	"github.com/ismaildudekula/CoinDCX-CLI/pkg/models"

	"github.com/shopspring/decimal"
)

var (
	// NoAsk is returned for an ask side without any positive level.
	// It is above any price a trigger can be configured with.
	NoAsk = decimal.New(1, 64)
	// NoBid is returned for a bid side without any positive level.
	NoBid = decimal.Zero
)

// BestPrice returns the lowest ask or the highest bid among levels with
// positive size. Empty sides resolve to NoAsk / NoBid.
func BestPrice(levels models.PriceLevelMap, isAsk bool) decimal.Decimal {
	best := NoBid
	if isAsk {
		best = NoAsk
	}

	for _, l := range levels {
		if !l.Size.IsPositive() {
			continue
		}
		if isAsk {
			if l.Price.LessThan(best) {
				best = l.Price
			}
		} else if l.Price.GreaterThan(best) {
			best = l.Price
		}
	}

	return best
}

// IsNoAsk reports whether p is the empty ask side sentinel.
func IsNoAsk(p decimal.Decimal) bool {
	return p.GreaterThanOrEqual(NoAsk)
}

// IsNoBid reports whether p is the empty bid side sentinel.
func IsNoBid(p decimal.Decimal) bool {
	return !p.IsPositive()
}
