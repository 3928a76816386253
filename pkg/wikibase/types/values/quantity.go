package values

import (
	"strings"

	json "github.com/goccy/go-json"
	"github.com/shopspring/decimal"

	"github.com/diwise/wikibase-datamodel/pkg/wikibase/errors"
	"github.com/diwise/wikibase-datamodel/pkg/wikibase/types"
)

// Unitless is the unit of quantities that have no unit of measurement
const Unitless string = "1"

// Quantity is a decimal amount with optional bounds and a unit IRI
type Quantity struct {
	amount decimal.Decimal
	lower  *decimal.Decimal
	upper  *decimal.Decimal
	unit   string
}

func NewQuantity(amount decimal.Decimal, unit string) Quantity {
	if unit == "" {
		unit = Unitless
	}
	return Quantity{amount: amount, unit: unit}
}

// NewQuantityWithBounds fails unless lower <= amount <= upper
func NewQuantityWithBounds(amount, lower, upper decimal.Decimal, unit string) (Quantity, error) {
	if lower.GreaterThan(amount) || amount.GreaterThan(upper) {
		return Quantity{}, errors.NewInvalidValueRangeError(
			"quantity bounds must satisfy %s <= %s <= %s", lower.String(), amount.String(), upper.String(),
		)
	}

	q := NewQuantity(amount, unit)
	q.lower = &lower
	q.upper = &upper

	return q, nil
}

func (q Quantity) Amount() decimal.Decimal { return q.amount }
func (q Quantity) Unit() string            { return q.unit }
func (q Quantity) ValueType() string       { return TypeQuantity }

func (q Quantity) HasBounds() bool { return q.lower != nil }

// Bounds returns the lower and upper bound, if the quantity has any
func (q Quantity) Bounds() (lower, upper decimal.Decimal, ok bool) {
	if q.lower == nil || q.upper == nil {
		return decimal.Decimal{}, decimal.Decimal{}, false
	}
	return *q.lower, *q.upper, true
}

func (q Quantity) Equal(other types.Value) bool {
	o, ok := other.(Quantity)
	if !ok || o.unit != q.unit || !o.amount.Equal(q.amount) {
		return false
	}

	if q.HasBounds() != o.HasBounds() {
		return false
	}

	if q.HasBounds() {
		return q.lower.Equal(*o.lower) && q.upper.Equal(*o.upper)
	}

	return true
}

func (q Quantity) MarshalJSON() ([]byte, error) {
	v := struct {
		Amount     string  `json:"amount"`
		Unit       string  `json:"unit"`
		UpperBound *string `json:"upperBound,omitempty"`
		LowerBound *string `json:"lowerBound,omitempty"`
	}{
		Amount: FormatDecimal(q.amount),
		Unit:   q.unit,
	}

	if q.HasBounds() {
		upper, lower := FormatDecimal(*q.upper), FormatDecimal(*q.lower)
		v.UpperBound = &upper
		v.LowerBound = &lower
	}

	return json.Marshal(datavalue{Value: v, Type: TypeQuantity})
}

// FormatDecimal writes a decimal the way Wikibase does, with an explicit sign
func FormatDecimal(d decimal.Decimal) string {
	s := d.String()
	if d.IsNegative() {
		return s
	}
	return "+" + s
}

func ParseDecimal(s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(strings.TrimPrefix(s, "+"))
	if err != nil {
		return decimal.Decimal{}, errors.NewMalformedValueError("%q is not a decimal number", s)
	}
	return d, nil
}
