package models

import (
	"github.com/mailru/easyjson/jwriter"
)

// MarshalEasyJSON writes the order in the CoinDCX create-order body shape.
// price_per_unit is a JSON number, total_quantity a string.
func (o SimulatedOrder) MarshalEasyJSON(w *jwriter.Writer) {
	w.RawString(`{"side":`)
	w.String(string(o.Side))
	w.RawString(`,"order_type":`)
	w.String(string(o.Type))
	w.RawString(`,"market":`)
	w.String(o.Market)
	w.RawString(`,"price_per_unit":`)
	w.RawString(o.Price.String())
	w.RawString(`,"total_quantity":`)
	w.String(o.Quantity.String())
	w.RawString(`,"timestamp":`)
	w.Int64(o.CreatedAt.Unix())
	w.RawString(`,"client_order_id":`)
	w.String(o.ClientOrderID)
	w.RawByte('}')
}

func (o SimulatedOrder) MarshalJSON() ([]byte, error) {
	w := jwriter.Writer{}
	o.MarshalEasyJSON(&w)
	return w.BuildBytes()
}
