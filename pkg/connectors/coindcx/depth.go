package coindcx

import (
	"encoding/json"

	"github.com/ismaildudekula/CoinDCX-CLI/pkg/models"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

var (
	// ErrNoAsks means the update carries nothing to act on. It is not a failure.
	ErrNoAsks = errors.New("no asks in depth update")
	ErrNoBids = errors.New("no bids in depth update")

	ErrMalformedPayload = errors.New("malformed depth update")
)

// maxExponent bounds the decimal exponent of prices and sizes. Anything
// beyond it is no market value and costs minutes to format or compare.
const maxExponent = 32

type depthEnvelope struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

type depthData struct {
	Asks map[string]json.RawMessage `json:"asks"`
	Bids map[string]json.RawMessage `json:"bids"`
}

// ParseDepthUpdate decodes a depth-update event payload. The "data" member
// may be an object or a JSON string holding one, CoinDCX sends the latter.
//
// Levels whose price or size does not parse, or carries an exponent
// outside ±maxExponent, are skipped and counted.
// Sizes are kept as is, zero and negative ones included.
func ParseDepthUpdate(raw []byte) (models.BookSnapshot, int, error) {
	var env depthEnvelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return models.BookSnapshot{}, 0, errors.Wrap(ErrMalformedPayload, err.Error())
	}

	data := []byte(env.Data)
	if len(data) == 0 || string(data) == "null" {
		return models.BookSnapshot{}, 0, errors.Wrap(ErrMalformedPayload, "no data member")
	}

	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return models.BookSnapshot{}, 0, errors.Wrap(ErrMalformedPayload, err.Error())
		}
		data = []byte(s)
	}

	var dd depthData
	if err := json.Unmarshal(data, &dd); err != nil {
		return models.BookSnapshot{}, 0, errors.Wrap(ErrMalformedPayload, err.Error())
	}

	if dd.Asks == nil {
		return models.BookSnapshot{}, 0, ErrNoAsks
	}
	if dd.Bids == nil {
		return models.BookSnapshot{}, 0, ErrNoBids
	}

	asks, skippedAsks := parseLevels(dd.Asks)
	bids, skippedBids := parseLevels(dd.Bids)

	return models.BookSnapshot{Asks: asks, Bids: bids}, skippedAsks + skippedBids, nil
}

func parseLevels(raw map[string]json.RawMessage) (models.PriceLevelMap, int) {
	levels := make(models.PriceLevelMap, len(raw))
	skipped := 0
	for p, q := range raw {
		price, err := decimal.NewFromString(p)
		if err != nil || !saneExponent(price) {
			skipped++
			continue
		}

		var size decimal.Decimal
		if err := size.UnmarshalJSON(q); err != nil || !saneExponent(size) {
			skipped++
			continue
		}

		levels.Set(price, size)
	}

	return levels, skipped
}

func saneExponent(d decimal.Decimal) bool {
	exp := d.Exponent()
	return exp >= -maxExponent && exp <= maxExponent
}
